package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"osusume/internal/domain/media"
	"osusume/internal/domain/site"
	"osusume/internal/view"
)

func TestMarkdownRender(t *testing.T) {
	md := NewMarkdownRenderer()
	res, err := md.Render([]byte("# Intro\n\nHello **world**\n\n## Part two\n\n<script>x</script>\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(res.HTML)
	if !strings.Contains(html, "<strong>world</strong>") {
		t.Fatalf("html = %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("raw html passed through: %s", html)
	}
	if len(res.Headings) != 2 || res.Headings[0].Text != "Intro" || res.Headings[1].ID != "part-two" {
		t.Fatalf("headings = %+v", res.Headings)
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("\nfirst\n\nsecond\nthird"); got != "first\nsecond" {
		t.Fatalf("Excerpt = %q", got)
	}
	long := strings.Repeat("あ", 200)
	got := Excerpt(long)
	if !strings.HasSuffix(got, "…") || len([]rune(got)) != excerptRunes+1 {
		t.Fatalf("Excerpt(long) has %d runes", len([]rune(got)))
	}
}

func sampleItems() []media.Item {
	return []media.Item{
		{ID: "book/a.md", Type: media.TypeBook, Title: "Alpha", Creator: "Ann", Year: "2001", Notes: "line one\nline two"},
		{ID: "movie/b.md", Type: media.TypeMovie, Title: "Beta", Creator: "Ben"},
	}
}

func TestRenderListViews(t *testing.T) {
	r, err := NewTemplateRenderer("")
	if err != nil {
		t.Fatalf("NewTemplateRenderer: %v", err)
	}
	items := sampleItems()
	page := ListPage{
		Site:      SiteInfo{Title: "Osusume", LiveReload: true},
		View:      site.ViewCard,
		Filter:    view.All,
		Creators:  []view.CreatorGroup{{Creator: "Ann", Items: items[:1]}, {Creator: "Ben", Items: items[1:]}},
		Total:     2,
		Generated: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}

	out, err := r.RenderList(context.Background(), page)
	if err != nil {
		t.Fatalf("RenderList card: %v", err)
	}
	s := string(out)
	for _, want := range []string{"Ann", "(1作品)", "/item/book/a.md/", "2001年", "EventSource", "2026-01-02 03:04"} {
		if !strings.Contains(s, want) {
			t.Errorf("card view missing %q", want)
		}
	}

	page.View = site.ViewTree
	page.Creators = nil
	page.Tree = view.GroupByTypeThenCreator(items)
	out, err = r.RenderList(context.Background(), page)
	if err != nil {
		t.Fatalf("RenderList tree: %v", err)
	}
	if !strings.Contains(string(out), media.TypeMovie.Label()) {
		t.Errorf("tree view missing type label")
	}

	page.View = site.ViewGraph
	page.Tree = nil
	page.Items = items
	out, err = r.RenderList(context.Background(), page)
	if err != nil {
		t.Fatalf("RenderList graph: %v", err)
	}
	if !strings.Contains(string(out), "type-movie") {
		t.Errorf("graph view missing type class")
	}
}

func TestRenderItemAndNotFound(t *testing.T) {
	r, err := NewTemplateRenderer("")
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.RenderItem(context.Background(), ItemPage{
		Site:    SiteInfo{Title: "Osusume"},
		Title:   "Alpha",
		Item:    sampleItems()[0],
		HTML:    "<p>rendered</p>",
		BackURL: "/",
		Related: []RelatedLink{{Title: "Beta", URL: "/item/movie/b.md/"}},
	})
	if err != nil {
		t.Fatalf("RenderItem: %v", err)
	}
	s := string(out)
	for _, want := range []string{"<p>rendered</p>", "Alpha", "/item/movie/b.md/", "Alpha · Osusume"} {
		if !strings.Contains(s, want) {
			t.Errorf("item page missing %q", want)
		}
	}
	if strings.Contains(s, "EventSource") {
		t.Error("live reload script rendered while disabled")
	}

	out, err = r.RenderNotFound(context.Background(), NotFoundPage{Site: SiteInfo{Title: "Osusume"}, Path: "/nope"})
	if err != nil {
		t.Fatalf("RenderNotFound: %v", err)
	}
	if !strings.Contains(string(out), "/nope") {
		t.Error("404 page missing path")
	}
}

func TestCustomThemeRequiresTemplates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "list.tmpl"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTemplateRenderer(dir); err == nil {
		t.Fatal("expected missing template error")
	}
}

func TestSeedTheme(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "theme")
	names, err := SeedTheme(dir, false)
	if err != nil {
		t.Fatalf("SeedTheme: %v", err)
	}
	if len(names) != 4 {
		t.Fatalf("seeded %v", names)
	}
	r, err := NewTemplateRenderer(dir)
	if err != nil {
		t.Fatalf("NewTemplateRenderer(seeded): %v", err)
	}
	if _, err := r.RenderNotFound(context.Background(), NotFoundPage{Site: SiteInfo{Title: "Osusume"}, Path: "/x"}); err != nil {
		t.Fatalf("RenderNotFound: %v", err)
	}

	if _, err := SeedTheme(dir, false); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, err := SeedTheme(dir, true); err != nil {
		t.Fatalf("forced SeedTheme: %v", err)
	}
}
