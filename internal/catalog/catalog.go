// Package catalog owns the loaded item collection. Each load builds a new
// immutable Snapshot and publishes it by swapping a single pointer; readers
// holding an older snapshot keep a consistent view.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"osusume/internal/domain/media"
	"osusume/internal/ingest"
)

type Snapshot struct {
	items       []media.Item
	skipped     []media.Diagnostic
	byID        map[string]int
	Fingerprint string
	LoadedAt    time.Time
}

func newSnapshot(res ingest.Result, at time.Time) *Snapshot {
	s := &Snapshot{
		items:       res.Items,
		skipped:     res.Skipped,
		byID:        make(map[string]int, len(res.Items)),
		Fingerprint: Fingerprint(res.Items, res.Skipped),
		LoadedAt:    at,
	}
	for i, it := range res.Items {
		s.byID[it.ID] = i
	}
	return s
}

// Items returns a copy of the accepted items in load order.
func (s *Snapshot) Items() []media.Item {
	if s == nil {
		return nil
	}
	out := make([]media.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Skipped returns a copy of the diagnostics, sorted by id.
func (s *Snapshot) Skipped() []media.Diagnostic {
	if s == nil {
		return nil
	}
	out := make([]media.Diagnostic, len(s.skipped))
	copy(out, s.skipped)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func (s *Snapshot) Lookup(id string) (media.Item, bool) {
	if s == nil {
		return media.Item{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return media.Item{}, false
	}
	return s.items[i], true
}

type Catalog struct {
	src     ingest.Source
	opts    []ingest.Option
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

func New(src ingest.Source, logger *slog.Logger, opts ...ingest.Option) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		src:    src,
		opts:   opts,
		logger: logger.With("component", "catalog"),
		now:    time.Now,
	}
}

// Current returns the last published snapshot, or nil before the first
// successful load.
func (c *Catalog) Current() *Snapshot {
	return c.current.Load()
}

// Load runs one ingestion pass and publishes its snapshot. A failed or
// cancelled pass leaves the previous snapshot in place.
func (c *Catalog) Load(ctx context.Context) (*Snapshot, error) {
	start := c.now()
	res, err := ingest.Ingest(ctx, c.src, c.opts...)
	if err != nil {
		return nil, fmt.Errorf("catalog load: %w", err)
	}
	for _, d := range res.Skipped {
		c.logger.Warn("document skipped", "id", d.ID, "kind", string(d.Kind), "reason", d.Reason)
	}

	snap := newSnapshot(res, c.now())
	prev := c.current.Swap(snap)

	changed := prev == nil || prev.Fingerprint != snap.Fingerprint
	c.logger.Info("catalog loaded",
		"items", len(res.Items),
		"skipped", len(res.Skipped),
		"changed", changed,
		"elapsed", c.now().Sub(start),
	)
	return snap, nil
}
