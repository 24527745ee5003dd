package bundle

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"osusume/internal/ingest"
)

// Pack replaces the bundle contents with every document src enumerates, in a
// single transaction. Documents are copied raw; nothing is validated here.
func (s *Store) Pack(ctx context.Context, src ingest.Source) (int, error) {
	ids, err := src.Enumerate(ctx)
	if err != nil {
		return 0, err
	}

	docs := make([]ingest.Document, 0, len(ids))
	for _, id := range ids {
		text, err := src.Read(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("pack %s: %w", id, err)
		}
		docs = append(docs, ingest.Document{ID: id, Text: text})
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bDocs)
		_ = tx.DeleteBucket(bMeta)

		docsB, err := tx.CreateBucket(bDocs)
		if err != nil {
			return err
		}
		metaB, err := tx.CreateBucket(bMeta)
		if err != nil {
			return err
		}

		for _, d := range docs {
			if err := docsB.Put([]byte(d.ID), []byte(d.Text)); err != nil {
				return err
			}
		}

		count := make([]byte, 8)
		putU64(count, uint64(len(docs)))
		if err := metaB.Put(keyCount, count); err != nil {
			return err
		}
		return metaB.Put(keyCreated, []byte(time.Now().UTC().Format(time.RFC3339Nano)))
	})
	if err != nil {
		return 0, fmt.Errorf("pack bundle: %w", err)
	}
	return len(docs), nil
}

func putU64(dst []byte, v uint64) {
	dst[0] = byte(v >> 56)
	dst[1] = byte(v >> 48)
	dst[2] = byte(v >> 40)
	dst[3] = byte(v >> 32)
	dst[4] = byte(v >> 24)
	dst[5] = byte(v >> 16)
	dst[6] = byte(v >> 8)
	dst[7] = byte(v)
}

func getU64(src []byte) uint64 {
	return uint64(src[0])<<56 | uint64(src[1])<<48 | uint64(src[2])<<40 | uint64(src[3])<<32 |
		uint64(src[4])<<24 | uint64(src[5])<<16 | uint64(src[6])<<8 | uint64(src[7])
}
