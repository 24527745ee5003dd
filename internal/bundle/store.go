// Package bundle packs a content tree into a single bbolt file and serves it
// back as a read-only document source.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"osusume/internal/ingest"
)

var (
	bDocs = []byte("docs") // id -> raw text
	bMeta = []byte("meta") // bundle attributes

	keyCreated = []byte("created")
	keyCount   = []byte("count")
)

var ErrNotFound = errors.New("bundle: document not found")

type Store struct {
	db   *bolt.DB
	exts []string
}

type OpenOptions struct {
	Path string // e.g. "./catalog.db"
	// ReadOnly opens with a shared lock so several readers can use one bundle.
	ReadOnly   bool
	Extensions []string
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("bundle: missing path")
	}
	if !opt.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(opt.Path); err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout:  1 * time.Second,
		ReadOnly: opt.ReadOnly,
	})
	if err != nil {
		return nil, err
	}
	exts := opt.Extensions
	if len(exts) == 0 {
		exts = ingest.DefaultExtensions
	}
	return &Store{db: db, exts: exts}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Enumerate lists the ids of every stored document with a content extension.
func (s *Store) Enumerate(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bDocs)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if ingest.MatchExtension(string(k), s.exts) {
				ids = append(ids, string(k))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate bundle: %w", err)
	}
	return ids, nil
}

func (s *Store) Read(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bDocs)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		text = string(v)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read %s: %w", id, err)
	}
	return text, nil
}

type Info struct {
	Count   int
	Created time.Time
}

func (s *Store) Info() (Info, error) {
	var info Info
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return nil
		}
		if v := b.Get(keyCreated); v != nil {
			t, err := time.Parse(time.RFC3339Nano, string(v))
			if err != nil {
				return err
			}
			info.Created = t
		}
		if v := b.Get(keyCount); len(v) == 8 {
			info.Count = int(getU64(v))
		}
		return nil
	})
	return info, err
}

var _ ingest.Source = (*Store)(nil)
