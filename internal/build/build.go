package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"osusume/internal/app"
	"osusume/internal/catalog"
	"osusume/internal/domain/site"
	"osusume/internal/render"
)

// Exporter writes every list and item page of a snapshot as static HTML.
type Exporter struct {
	Pages     *app.Pages
	Renderer  render.Renderer
	OutDir    string
	StaticDir string // optional, copied verbatim into OutDir
	Logger    *slog.Logger
}

type Result struct {
	ListPages int
	ItemPages int
	Skipped   int
}

func (b *Exporter) Run(ctx context.Context, snap *catalog.Snapshot) (*Result, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(b.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	var (
		rb  app.RouteBuilder
		res = &Result{Skipped: len(snap.Skipped())}
	)
	items := snap.Items()

	for _, r := range rb.BuildListRoutes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := b.Renderer.RenderList(ctx, b.Pages.List(snap, r))
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", r, err)
		}
		if err := writeFile(b.OutDir, r.OutPath(), data); err != nil {
			return nil, fmt.Errorf("write %s: %w", r.OutPath(), err)
		}
		res.ListPages++
	}

	for _, r := range rb.BuildItemRoutes(items) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !fs.ValidPath(r.ItemID) {
			logger.Warn("skipping item with unsafe id", "id", r.ItemID)
			continue
		}
		page, _, err := b.Pages.Item(snap, r.ItemID)
		if err != nil {
			return nil, err
		}
		data, err := b.Renderer.RenderItem(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", r, err)
		}
		if err := writeFile(b.OutDir, r.OutPath(), data); err != nil {
			return nil, fmt.Errorf("write %s: %w", r.OutPath(), err)
		}
		res.ItemPages++
	}

	nf := site.Route{Kind: site.RouteNotFound}
	data, err := b.Renderer.RenderNotFound(ctx, b.Pages.NotFound("/404.html"))
	if err != nil {
		return nil, fmt.Errorf("build 404: %w", err)
	}
	if err := writeFile(b.OutDir, nf.OutPath(), data); err != nil {
		return nil, fmt.Errorf("write 404: %w", err)
	}

	if err := b.copyStaticAssets(); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}

	logger.Info("export complete",
		"dir", b.OutDir,
		"list_pages", res.ListPages,
		"item_pages", res.ItemPages,
	)
	return res, nil
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (b *Exporter) copyStaticAssets() error {
	if b.StaticDir == "" {
		return nil
	}
	info, err := os.Stat(b.StaticDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(b.StaticDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.StaticDir, path)
		if err != nil {
			return err
		}
		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return writeFile(b.OutDir, filepath.ToSlash(rel), in)
	})
}
