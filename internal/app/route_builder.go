package app

import (
	"osusume/internal/domain/media"
	"osusume/internal/domain/site"
)

type RouteBuilder struct{}

// BuildListRoutes returns every list page: each view for "all" and for every
// type, including types with no items, since each list page links to all of
// them.
func (rb *RouteBuilder) BuildListRoutes() []site.Route {
	var routes []site.Route
	for _, v := range site.ViewModes() {
		routes = append(routes, site.ListRoute("", v))
	}
	for _, t := range media.Types() {
		for _, v := range site.ViewModes() {
			routes = append(routes, site.ListRoute(t, v))
		}
	}
	return routes
}

func (rb *RouteBuilder) BuildItemRoutes(items []media.Item) []site.Route {
	routes := make([]site.Route, 0, len(items))
	for _, it := range items {
		routes = append(routes, site.ItemRoute(it.ID))
	}
	return routes
}
