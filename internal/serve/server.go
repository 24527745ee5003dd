package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"osusume/internal/app"
	"osusume/internal/catalog"
	"osusume/internal/domain/media"
	"osusume/internal/domain/site"
	"osusume/internal/render"
	"osusume/internal/view"
)

const debounceDelay = 200 * time.Millisecond

type Options struct {
	Catalog  *catalog.Catalog
	Pages    *app.Pages
	Renderer render.Renderer
	Logger   *slog.Logger
	// WatchDir enables live reload of the catalog from a content directory.
	WatchDir string
}

type Server struct {
	cat      *catalog.Catalog
	pages    *app.Pages
	tpl      render.Renderer
	log      *slog.Logger
	watchDir string

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(opt Options) (*Server, error) {
	if opt.Catalog == nil || opt.Pages == nil || opt.Renderer == nil {
		return nil, errors.New("serve: catalog, pages and renderer are required")
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cat:      opt.Catalog,
		pages:    opt.Pages,
		tpl:      opt.Renderer,
		log:      logger.With("component", "serve"),
		watchDir: opt.WatchDir,
		sseConns: make(map[chan string]struct{}),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/api/catalog", s.handleAPI)
	mux.HandleFunc("/dev/events", s.handleSSE)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if _, err := s.cat.Load(ctx); err != nil {
		return err
	}
	if s.watchDir != "" {
		if err := s.startWatch(ctx); err != nil {
			return fmt.Errorf("serve: watch %s: %w", s.watchDir, err)
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// reload runs a fresh load and tells connected browsers to refresh when the
// catalog actually changed.
func (s *Server) reload(ctx context.Context) error {
	prev := s.cat.Current()
	snap, err := s.cat.Load(ctx)
	if err != nil {
		return err
	}
	if prev == nil || prev.Fingerprint != snap.Fingerprint {
		s.broadcastSSE("reload")
	}
	return nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w
		if err = s.addTree(s.watchDir); err != nil {
			return
		}
		go s.watchLoop(ctx)
	})
	return err
}

func (s *Server) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return s.watcher.Add(path)
		}
		return nil
	})
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching for file changes", "dir", s.watchDir)
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := s.addTree(ev.Name); err != nil {
						s.log.Warn("watch new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(debounceDelay)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "error", err)
		case <-debounce.C:
			loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.reload(loadCtx); err != nil {
				s.log.Error("reload failed", "error", err)
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

// handlePage serves list and item pages. List pages also accept ?type= and
// ?view= on the root path.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.cat.Current()
	if snap == nil {
		http.Error(w, "catalog not loaded yet", http.StatusServiceUnavailable)
		return
	}

	route, err := site.ParseRoute(r.URL.Path)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	if route.Kind == site.RouteList && r.URL.Path == "/" {
		if route, err = applyQuery(route, r); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	switch route.Kind {
	case site.RouteList:
		page := s.pages.List(snap, route)
		s.write(w, r, "list", func(ctx context.Context) ([]byte, error) {
			return s.tpl.RenderList(ctx, page)
		})
	case site.RouteItem:
		page, ok, err := s.pages.Item(snap, route.ItemID)
		if !ok {
			s.handleNotFound(w, r)
			return
		}
		if err != nil {
			s.log.Error("item page", "id", route.ItemID, "error", err)
			http.Error(w, "render item error", http.StatusInternalServerError)
			return
		}
		s.write(w, r, "item", func(ctx context.Context) ([]byte, error) {
			return s.tpl.RenderItem(ctx, page)
		})
	default:
		s.handleNotFound(w, r)
	}
}

func applyQuery(route site.Route, r *http.Request) (site.Route, error) {
	q := r.URL.Query()
	if v := q.Get("type"); v != "" {
		f, err := view.ParseFilter(v)
		if err != nil {
			return route, err
		}
		route.Type = ""
		if !f.IsAll() {
			route.Type = media.Type(f)
		}
	}
	if v := q.Get("view"); v != "" {
		mode, ok := site.ParseViewMode(v)
		if !ok {
			return route, fmt.Errorf("unknown view %q", v)
		}
		route.View = mode
	}
	return route, nil
}

type apiResponse struct {
	Items       []media.Item       `json:"items"`
	Skipped     []media.Diagnostic `json:"skipped"`
	Fingerprint string             `json:"fingerprint"`
	LoadedAt    time.Time          `json:"loadedAt"`
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	snap := s.cat.Current()
	if snap == nil {
		http.Error(w, "catalog not loaded yet", http.StatusServiceUnavailable)
		return
	}
	f, err := view.ParseFilter(r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp := apiResponse{
		Items:       view.FilterByType(snap.Items(), f),
		Skipped:     snap.Skipped(),
		Fingerprint: snap.Fingerprint,
		LoadedAt:    snap.LoadedAt,
	}
	if resp.Skipped == nil {
		resp.Skipped = []media.Diagnostic{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("encode api response", "error", err)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), s.pages.NotFound(r.URL.Path))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, what string, fn func(context.Context) ([]byte, error)) {
	htmlBytes, err := fn(r.Context())
	if err != nil {
		s.log.Error("render "+what, "path", r.URL.Path, "error", err)
		http.Error(w, "render "+what+" error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
