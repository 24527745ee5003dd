package site

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"osusume/internal/domain/media"
)

type RouteKind string

const (
	RouteList     RouteKind = "list"
	RouteItem     RouteKind = "item"
	RouteNotFound RouteKind = "404"
)

type ViewMode string

const (
	ViewCard  ViewMode = "card"
	ViewTree  ViewMode = "tree"
	ViewGraph ViewMode = "graph"
)

var viewLabels = map[ViewMode]string{
	ViewCard:  "カード",
	ViewTree:  "ツリー",
	ViewGraph: "グラフ",
}

func ViewModes() []ViewMode {
	return []ViewMode{ViewCard, ViewTree, ViewGraph}
}

func (v ViewMode) Label() string {
	if l, ok := viewLabels[v]; ok {
		return l
	}
	return string(v)
}

func ParseViewMode(s string) (ViewMode, bool) {
	v := ViewMode(strings.TrimSpace(s))
	if v == "" {
		return ViewCard, true
	}
	_, ok := viewLabels[v]
	return v, ok
}

// Route addresses one page. For list routes an empty Type means every type.
type Route struct {
	Kind   RouteKind
	Type   media.Type
	View   ViewMode
	ItemID string
}

func ListRoute(t media.Type, v ViewMode) Route {
	if v == "" {
		v = ViewCard
	}
	return Route{Kind: RouteList, Type: t, View: v}
}

func ItemRoute(id string) Route {
	return Route{Kind: RouteItem, ItemID: id}
}

func (r Route) segments() []string {
	switch r.Kind {
	case RouteList:
		var parts []string
		if r.Type != "" {
			parts = append(parts, "type", string(r.Type))
		}
		if r.View != "" && r.View != ViewCard {
			parts = append(parts, string(r.View))
		}
		return parts
	case RouteItem:
		return append([]string{"item"}, strings.Split(r.ItemID, "/")...)
	default:
		return []string{"404"}
	}
}

// URL is the escaped absolute URL of the route under basePath.
func (r Route) URL(basePath string) string {
	segs := r.segments()
	escaped := make([]string, len(segs))
	for i, s := range segs {
		escaped[i] = url.PathEscape(s)
	}
	u := strings.TrimSuffix(basePath, "/") + "/" + strings.Join(escaped, "/")
	if len(segs) > 0 {
		u += "/"
	}
	return u
}

// OutPath is the slash-separated file path of the route in a static export.
func (r Route) OutPath() string {
	if r.Kind == RouteNotFound {
		return "404.html"
	}
	return path.Join(append(r.segments(), "index.html")...)
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Type != "" {
		parts = append(parts, "type="+string(r.Type))
	}
	if r.View != "" {
		parts = append(parts, "view="+string(r.View))
	}
	if r.ItemID != "" {
		parts = append(parts, "item="+r.ItemID)
	}
	return strings.Join(parts, " ")
}

// ParseRoute resolves an unescaped request path (relative to the base path)
// to a route.
func ParseRoute(p string) (Route, error) {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return ListRoute("", ViewCard), nil
	}
	parts := strings.Split(trimmed, "/")

	switch parts[0] {
	case "item":
		id := strings.Join(parts[1:], "/")
		if id == "" {
			return Route{Kind: RouteNotFound}, fmt.Errorf("route %q: missing item id", p)
		}
		return ItemRoute(id), nil
	case "type":
		if len(parts) < 2 || len(parts) > 3 {
			return Route{Kind: RouteNotFound}, fmt.Errorf("route %q: malformed type path", p)
		}
		t, err := media.ParseType(parts[1])
		if err != nil {
			return Route{Kind: RouteNotFound}, fmt.Errorf("route %q: %w", p, err)
		}
		v := ViewCard
		if len(parts) == 3 {
			var ok bool
			if v, ok = ParseViewMode(parts[2]); !ok {
				return Route{Kind: RouteNotFound}, fmt.Errorf("route %q: unknown view %q", p, parts[2])
			}
		}
		return ListRoute(t, v), nil
	default:
		if len(parts) == 1 {
			if v, ok := ParseViewMode(parts[0]); ok {
				return ListRoute("", v), nil
			}
		}
		return Route{Kind: RouteNotFound}, fmt.Errorf("route %q: not found", p)
	}
}
