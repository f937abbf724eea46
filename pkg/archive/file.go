package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/stackinv/pkg/errors"
)

// FileArchive stores each snapshot as <dir>/<created>-<id>.json. File names
// sort chronologically.
type FileArchive struct {
	dir string
}

// NewFileArchive creates an archive in dir, creating the directory.
func NewFileArchive(dir string) (*FileArchive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileArchive{dir: dir}, nil
}

// Put writes the snapshot file.
func (a *FileArchive) Put(ctx context.Context, s Snapshot) error {
	if s.ID == "" || strings.ContainsAny(s.ID, `/\`) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid snapshot id %q", s.ID)
	}
	name := fmt.Sprintf("%s-%s.json", s.CreatedAt.UTC().Format("20060102T150405.000000000Z"), s.ID)
	f, err := os.OpenFile(filepath.Join(a.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.New(errors.ErrCodeDuplicateID, "snapshot %q already archived", s.ID)
		}
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}

// Latest reads the newest snapshot file.
func (a *FileArchive) Latest(ctx context.Context) (Snapshot, bool, error) {
	names, err := a.names()
	if err != nil || len(names) == 0 {
		return Snapshot{}, false, err
	}
	s, err := a.read(names[0])
	if err != nil {
		return Snapshot{}, false, err
	}
	return s, true, nil
}

// List reads up to limit snapshot files, newest first.
func (a *FileArchive) List(ctx context.Context, limit int) ([]Info, error) {
	names, err := a.names()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	out := make([]Info, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := a.read(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s.Info())
	}
	return out, nil
}

// Close does nothing for file archives.
func (a *FileArchive) Close(ctx context.Context) error { return nil }

// names returns snapshot file names, newest first.
func (a *FileArchive) names() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	slices.Reverse(names)
	return names, nil
}

func (a *FileArchive) read(name string) (Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, name))
	if err != nil {
		return Snapshot{}, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode snapshot %s", name)
	}
	return s, nil
}

var _ Archive = (*FileArchive)(nil)
