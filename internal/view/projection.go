// Package view derives filtered and grouped projections of a catalog.
// Every function is pure: inputs are never mutated and equal inputs
// produce equal outputs.
package view

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"osusume/internal/domain/media"
)

// Filter selects items by type. All (or the zero value) keeps everything.
type Filter string

const All Filter = "all"

func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == string(All) {
		return All, nil
	}
	t, err := media.ParseType(s)
	if err != nil {
		return "", fmt.Errorf("filter: %w", err)
	}
	return Filter(t), nil
}

func (f Filter) IsAll() bool {
	return f == "" || f == All
}

// FilterByType returns the items matching f in their original order. The
// result never aliases the input slice.
func FilterByType(items []media.Item, f Filter) []media.Item {
	if f.IsAll() {
		out := make([]media.Item, len(items))
		copy(out, items)
		return out
	}
	out := make([]media.Item, 0, len(items))
	for _, it := range items {
		if it.Type == media.Type(f) {
			out = append(out, it)
		}
	}
	return out
}

type CreatorGroup struct {
	Creator string
	Items   []media.Item
}

type TypeGroup struct {
	Type     media.Type
	Creators []CreatorGroup
}

// Count is the number of items across all creators of the group.
func (g TypeGroup) Count() int {
	n := 0
	for _, c := range g.Creators {
		n += len(c.Items)
	}
	return n
}

// GroupByCreator groups items by exact creator name. Groups are ordered by
// item count descending, then by creator name ascending under the collation
// rules of lang; names the collator considers equal fall back to byte order.
// Items inside a group keep their input order.
func GroupByCreator(items []media.Item, lang language.Tag) []CreatorGroup {
	groups := groupCreators(items)

	col := collate.New(lang)
	sort.SliceStable(groups, func(i, j int) bool {
		ci, cj := len(groups[i].Items), len(groups[j].Items)
		if ci != cj {
			return ci > cj
		}
		if c := col.CompareString(groups[i].Creator, groups[j].Creator); c != 0 {
			return c < 0
		}
		return groups[i].Creator < groups[j].Creator
	})
	return groups
}

// GroupByTypeThenCreator groups items by type and then by creator. Both
// levels keep first-seen key order; leaves keep input order.
func GroupByTypeThenCreator(items []media.Item) []TypeGroup {
	var order []media.Type
	byType := make(map[media.Type][]media.Item)
	for _, it := range items {
		if _, ok := byType[it.Type]; !ok {
			order = append(order, it.Type)
		}
		byType[it.Type] = append(byType[it.Type], it)
	}

	out := make([]TypeGroup, 0, len(order))
	for _, t := range order {
		out = append(out, TypeGroup{
			Type:     t,
			Creators: groupCreators(byType[t]),
		})
	}
	return out
}

// groupCreators buckets items by creator in first-seen order.
func groupCreators(items []media.Item) []CreatorGroup {
	index := make(map[string]int)
	var groups []CreatorGroup
	for _, it := range items {
		i, ok := index[it.Creator]
		if !ok {
			i = len(groups)
			index[it.Creator] = i
			groups = append(groups, CreatorGroup{Creator: it.Creator})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
