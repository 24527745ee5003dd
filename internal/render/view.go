package render

import (
	"html/template"
	"time"

	"osusume/internal/domain/media"
	"osusume/internal/domain/site"
	"osusume/internal/view"
)

type SiteInfo struct {
	Title      string
	BasePath   string
	LiveReload bool
}

type TypeLink struct {
	Type   media.Type // empty for "all"
	Label  string
	URL    string
	Active bool
}

type ViewLink struct {
	Mode   site.ViewMode
	Label  string
	URL    string
	Active bool
}

// ListPage carries one projection: Creators for the card view, Tree for the
// tree view and Items for the graph view. Only the one matching View is set.
type ListPage struct {
	Site      SiteInfo
	Title     string
	Filter    view.Filter
	View      site.ViewMode
	Types     []TypeLink
	Views     []ViewLink
	Creators  []view.CreatorGroup
	Tree      []view.TypeGroup
	Items     []media.Item
	Total     int
	Skipped   int
	Generated time.Time
}

type RelatedLink struct {
	Title string
	URL   string
}

type ItemPage struct {
	Site    SiteInfo
	Title   string
	Item    media.Item
	HTML    template.HTML
	TOC     []Heading
	Related []RelatedLink
	BackURL string
}

type NotFoundPage struct {
	Site  SiteInfo
	Title string
	Path  string
}
