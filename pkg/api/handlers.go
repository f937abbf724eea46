package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stackinv/pkg/buildinfo"
	"github.com/matzehuels/stackinv/pkg/codec"
	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/report"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/traversal"
)

// Health is the /healthz response.
type Health struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Vertices int            `json:"vertices"`
	Edges    int            `json:"edges"`
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error code and message.
type ErrorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{
		Status:   "ok",
		Build:    buildinfo.Get(),
		Vertices: s.store.VertexCount(),
		Edges:    s.store.EdgeCount(),
	})
}

func (s *Server) handleVertices(w http.ResponseWriter, r *http.Request) {
	t := traversal.New(s.store).V()
	if types := r.URL.Query()["type"]; len(types) > 0 {
		t = t.HasType(types...)
	}
	vs, err := t.ToVertices()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vertexRecords(vs))
}

func (s *Server) handleVertex(w http.ResponseWriter, r *http.Request) {
	v, ok := s.store.Vertex(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, errNotFound("vertex %q not found", chi.URLParam(r, "id")))
		return
	}
	writeJSON(w, http.StatusOK, vertexRecord(v))
}

func (s *Server) handleNeighbours(out bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := s.store.Vertex(id); !ok {
			writeError(w, errNotFound("vertex %q not found", id))
			return
		}
		types := r.URL.Query()["type"]
		t := traversal.New(s.store).V(id)
		if out {
			t = t.Out(types...)
		} else {
			t = t.In(types...)
		}
		vs, err := t.ToVertices()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, vertexRecords(vs))
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.Summarize(s.store))
}

func (s *Server) handleDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := report.Domains(s.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, codec.FromStore(s.store))
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, errNotFound("no archive configured"))
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer, got %q", raw))
			return
		}
		limit = n
	}
	infos, err := s.archive.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func vertexRecord(v *store.Vertex) codec.VertexRecord {
	return codec.VertexRecord{ID: v.ID, Type: v.Type, Properties: v.Props.Map()}
}

func vertexRecords(vs []*store.Vertex) []codec.VertexRecord {
	out := make([]codec.VertexRecord, len(vs))
	for i, v := range vs {
		out[i] = vertexRecord(v)
	}
	return out
}

func errNotFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath, errors.ErrCodeTypeMismatch, errors.ErrCodeUnboundLabel:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), ErrorBody{Error: ErrorDetail{Code: code, Message: errors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
