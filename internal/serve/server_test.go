package serve

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"golang.org/x/text/language"

	"osusume/internal/app"
	"osusume/internal/catalog"
	"osusume/internal/ingest"
	"osusume/internal/render"
)

func newTestServer(t *testing.T, fsys fstest.MapFS, load bool) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := catalog.New(ingest.NewFSSource(fsys), logger)
	if load {
		if _, err := cat.Load(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	tpl, err := render.NewTemplateRenderer("")
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Options{
		Catalog:  cat,
		Pages:    &app.Pages{Site: render.SiteInfo{Title: "Osusume"}, Language: language.Und, Markdown: render.NewMarkdownRenderer()},
		Renderer: tpl,
		Logger:   logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"book/a.md":  {Data: []byte("---\ntype: book\ntitle: Alpha\ncreator: Ann\n---\nHello **there**")},
		"movie/b.md": {Data: []byte("---\ntype: movie\ntitle: Beta\ncreator: Ben\n---\n")},
		"bad.md":     {Data: []byte("no front matter")},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListPages(t *testing.T) {
	h := newTestServer(t, testFS(), true).Handler()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Alpha") || !strings.Contains(body, "Beta") {
		t.Fatalf("index missing items: %s", body)
	}

	for _, target := range []string{"/type/book/", "/?type=book"} {
		rec = get(t, h, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Alpha") || strings.Contains(rec.Body.String(), "Beta") {
			t.Fatalf("GET %s not filtered", target)
		}
	}

	rec = get(t, h, "/?view=tree")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `class="tree"`) {
		t.Fatalf("tree view = %d", rec.Code)
	}

	if rec = get(t, h, "/?type=podcast"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad filter = %d", rec.Code)
	}
}

func TestItemPage(t *testing.T) {
	h := newTestServer(t, testFS(), true).Handler()

	rec := get(t, h, "/item/book/a.md/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET item = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<strong>there</strong>") {
		t.Fatalf("notes not rendered: %s", rec.Body.String())
	}

	for _, target := range []string{"/item/bad.md/", "/item/none.md", "/nowhere"} {
		if rec := get(t, h, target); rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s = %d, want 404", target, rec.Code)
		}
	}
}

func TestAPI(t *testing.T) {
	h := newTestServer(t, testFS(), true).Handler()

	rec := get(t, h, "/api/catalog?type=movie")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET api = %d", rec.Code)
	}
	var resp struct {
		Items []struct {
			ID         string `json:"id"`
			Importance int    `json:"importance"`
		} `json:"items"`
		Skipped []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"skipped"`
		Fingerprint string `json:"fingerprint"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "movie/b.md" || resp.Items[0].Importance != 3 {
		t.Fatalf("items = %+v", resp.Items)
	}
	if len(resp.Skipped) != 1 || resp.Skipped[0].ID != "bad.md" || resp.Skipped[0].Kind != "invalid" {
		t.Fatalf("skipped = %+v", resp.Skipped)
	}
	if resp.Fingerprint == "" {
		t.Fatal("missing fingerprint")
	}
}

func TestNotLoadedYet(t *testing.T) {
	h := newTestServer(t, testFS(), false).Handler()
	if rec := get(t, h, "/"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET / before load = %d", rec.Code)
	}
	if rec := get(t, h, "/api/catalog"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET api before load = %d", rec.Code)
	}
}

func TestReloadBroadcastsOnlyOnChange(t *testing.T) {
	fsys := testFS()
	s := newTestServer(t, fsys, true)

	ch := make(chan string, 8)
	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	if err := s.reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-ch:
		t.Fatalf("unexpected broadcast %q for unchanged content", msg)
	default:
	}

	fsys["music/c.md"] = &fstest.MapFile{Data: []byte("---\ntype: music\ntitle: Gamma\ncreator: Cy\n---\n")}
	if err := s.reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-ch:
		if msg != "reload" {
			t.Fatalf("broadcast = %q", msg)
		}
	default:
		t.Fatal("no broadcast after content change")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, testFS(), true).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST / = %d", rec.Code)
	}
}
