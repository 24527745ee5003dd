package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"osusume/internal/domain/media"
	"osusume/internal/domain/site"
)

//go:embed theme/*.tmpl
var defaultTheme embed.FS

var requiredTemplates = []string{
	"list.tmpl",
	"item.tmpl",
	"404.tmpl",
}

type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer parses *.tmpl from themeDir, or the built-in theme when
// themeDir is empty.
func NewTemplateRenderer(themeDir string) (*TemplateRenderer, error) {
	var (
		tpl *template.Template
		err error
	)
	base := template.New("").Funcs(templateFuncs())
	if strings.TrimSpace(themeDir) == "" {
		tpl, err = base.ParseFS(defaultTheme, "theme/*.tmpl")
	} else {
		if err := CheckThemeTemplates(themeDir); err != nil {
			return nil, err
		}
		tpl, err = base.ParseGlob(filepath.Join(themeDir, "*.tmpl"))
	}
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"itemURL": func(base, id string) string {
			return site.ItemRoute(id).URL(base)
		},
		"typeLabel": func(t media.Type) string {
			return t.Label()
		},
		"typeClass": func(t media.Type) string {
			return "type-" + string(t)
		},
		"excerpt": Excerpt,
	}
}

func (r *TemplateRenderer) RenderList(ctx context.Context, page ListPage) ([]byte, error) {
	return r.exec("list.tmpl", page)
}

func (r *TemplateRenderer) RenderItem(ctx context.Context, page ItemPage) ([]byte, error) {
	return r.exec("item.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(themeDir string) error {
	for _, name := range requiredTemplates {
		if _, err := os.Stat(filepath.Join(themeDir, name)); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}

// DefaultTheme exposes the built-in templates.
func DefaultTheme() fs.FS {
	sub, _ := fs.Sub(defaultTheme, "theme")
	return sub
}

// SeedTheme copies the built-in templates into dir and returns the written
// file names. Existing files are left alone unless force is set.
func SeedTheme(dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	theme := DefaultTheme()
	names, err := fs.Glob(theme, "*.tmpl")
	if err != nil {
		return nil, err
	}
	if !force {
		for _, name := range names {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return nil, fmt.Errorf("theme: %s already exists", filepath.Join(dir, name))
			}
		}
	}
	for _, name := range names {
		data, err := fs.ReadFile(theme, name)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return nil, err
		}
	}
	return names, nil
}

const excerptRunes = 140

// Excerpt keeps the first two non-blank lines of notes, cut at 140 runes.
func Excerpt(notes string) string {
	var lines []string
	for _, l := range strings.Split(notes, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
		if len(lines) == 2 {
			break
		}
	}
	out := strings.Join(lines, "\n")
	if utf8.RuneCountInString(out) <= excerptRunes {
		return out
	}
	runes := []rune(out)
	return string(runes[:excerptRunes]) + "…"
}
