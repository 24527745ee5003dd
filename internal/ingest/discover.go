package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Source enumerates raw documents and reads them on demand. Read must be
// safe for concurrent use; Enumerate order is not significant.
type Source interface {
	Enumerate(ctx context.Context) ([]string, error)
	Read(ctx context.Context, id string) (string, error)
}

// Document is a raw text blob and the id it was read from.
type Document struct {
	ID   string
	Text string
}

var DefaultExtensions = []string{".md", ".markdown"}

// DirSource discovers documents by extension anywhere under an fs.FS root.
// Ids are slash-separated paths relative to that root.
type DirSource struct {
	fsys fs.FS
	exts []string
}

func NewDirSource(root string, exts ...string) *DirSource {
	return NewFSSource(os.DirFS(root), exts...)
}

func NewFSSource(fsys fs.FS, exts ...string) *DirSource {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	lowered := make([]string, 0, len(exts))
	for _, e := range exts {
		lowered = append(lowered, strings.ToLower(e))
	}
	return &DirSource{fsys: fsys, exts: lowered}
}

func (s *DirSource) Enumerate(ctx context.Context) ([]string, error) {
	var out []string

	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		if MatchExtension(p, s.exts) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate documents: %w", err)
	}
	return out, nil
}

func (s *DirSource) Read(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := fs.ReadFile(s.fsys, id)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// MatchExtension reports whether name ends in one of exts, ignoring case.
func MatchExtension(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
