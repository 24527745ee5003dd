package app

import (
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/language"

	"osusume/internal/catalog"
	"osusume/internal/domain/media"
	"osusume/internal/domain/site"
	"osusume/internal/render"
	"osusume/internal/view"
)

// Pages turns a catalog snapshot and a route into render page models. It is
// shared by the HTTP server and the static exporter so both emit the same
// pages and links.
type Pages struct {
	Site     render.SiteInfo
	Language language.Tag
	Markdown *render.MarkdownRenderer
	Now      func() time.Time
}

func (p *Pages) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Pages) List(snap *catalog.Snapshot, r site.Route) render.ListPage {
	filter := view.All
	if r.Type != "" {
		filter = view.Filter(r.Type)
	}
	items := view.FilterByType(snap.Items(), filter)

	page := render.ListPage{
		Site:      p.Site,
		Filter:    filter,
		View:      r.View,
		Total:     len(items),
		Skipped:   len(snap.Skipped()),
		Generated: p.now(),
	}
	if r.Type != "" {
		page.Title = r.Type.Label()
	}

	page.Types = append(page.Types, render.TypeLink{
		Label:  "すべて",
		URL:    site.ListRoute("", r.View).URL(p.Site.BasePath),
		Active: r.Type == "",
	})
	for _, t := range media.Types() {
		page.Types = append(page.Types, render.TypeLink{
			Type:   t,
			Label:  t.Label(),
			URL:    site.ListRoute(t, r.View).URL(p.Site.BasePath),
			Active: r.Type == t,
		})
	}
	for _, v := range site.ViewModes() {
		page.Views = append(page.Views, render.ViewLink{
			Mode:   v,
			Label:  v.Label(),
			URL:    site.ListRoute(r.Type, v).URL(p.Site.BasePath),
			Active: r.View == v,
		})
	}

	switch r.View {
	case site.ViewTree:
		page.Tree = view.GroupByTypeThenCreator(items)
	case site.ViewGraph:
		page.Items = items
	default:
		page.View = site.ViewCard
		page.Creators = view.GroupByCreator(items, p.Language)
	}
	return page
}

// Item builds the detail page for id. The boolean is false when the
// snapshot has no such item.
func (p *Pages) Item(snap *catalog.Snapshot, id string) (render.ItemPage, bool, error) {
	it, ok := snap.Lookup(id)
	if !ok {
		return render.ItemPage{}, false, nil
	}
	md, err := p.Markdown.Render([]byte(it.Notes))
	if err != nil {
		return render.ItemPage{}, true, fmt.Errorf("render notes of %s: %w", id, err)
	}

	page := render.ItemPage{
		Site:    p.Site,
		Title:   it.Title,
		Item:    it,
		HTML:    template.HTML(md.HTML),
		TOC:     md.Headings,
		BackURL: site.ListRoute("", site.ViewCard).URL(p.Site.BasePath),
	}
	for _, rel := range it.Related {
		if other, ok := snap.Lookup(rel); ok {
			page.Related = append(page.Related, render.RelatedLink{
				Title: other.Title,
				URL:   site.ItemRoute(other.ID).URL(p.Site.BasePath),
			})
		}
	}
	return page, true, nil
}

func (p *Pages) NotFound(path string) render.NotFoundPage {
	return render.NotFoundPage{Site: p.Site, Title: "Not found", Path: path}
}
