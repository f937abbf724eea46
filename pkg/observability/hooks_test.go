package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnTaskStart(ctx, "gateways")
	p.OnTaskComplete(ctx, "gateways", 3, time.Second, nil)
	p.OnVertexError(ctx, "gateways", "billing", nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "report")
	c.OnCacheMiss(ctx, "report")
	c.OnCacheSet(ctx, "report", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/vertices/{id}")
	h.OnResponse(ctx, "GET", "/vertices/{id}", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should not replace hooks")
	}
	Reset()
}

func TestLogPipelineHooks(t *testing.T) {
	l := &recordingLogger{}
	h := LogPipelineHooks{Logger: l}
	ctx := context.Background()

	h.OnTaskStart(ctx, "languages")
	h.OnTaskComplete(ctx, "languages", 2, time.Millisecond, nil)
	h.OnTaskComplete(ctx, "languages", 0, time.Millisecond, errors.New("boom"))
	h.OnVertexError(ctx, "languages", "billing", errors.New("bad"))

	want := []string{"debug:task started", "debug:task finished", "warn:task failed", "warn:vertex skipped"}
	if fmt.Sprint(l.lines) != fmt.Sprint(want) {
		t.Errorf("lines = %v, want %v", l.lines, want)
	}
}

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Debug(msg any, _ ...any) { l.lines = append(l.lines, fmt.Sprint("debug:", msg)) }
func (l *recordingLogger) Warn(msg any, _ ...any)  { l.lines = append(l.lines, fmt.Sprint("warn:", msg)) }

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
