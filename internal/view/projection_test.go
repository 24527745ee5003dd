package view

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"

	"osusume/internal/domain/media"
)

func item(id string, t media.Type, creator string) media.Item {
	return media.Item{ID: id, Type: t, Title: id, Creator: creator, Importance: media.DefaultImportance}
}

func ids(items []media.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func creators(groups []CreatorGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Creator
	}
	return out
}

func TestFilterByType(t *testing.T) {
	items := []media.Item{
		item("1", media.TypeBook, "A"),
		item("2", media.TypeMovie, "B"),
		item("3", media.TypeBook, "C"),
	}

	books := FilterByType(items, Filter(media.TypeBook))
	if got := ids(books); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Fatalf("books = %v", got)
	}

	all := FilterByType(items, All)
	if !reflect.DeepEqual(all, items) {
		t.Fatalf("all = %v", ids(all))
	}
	all[0].Title = "changed"
	if items[0].Title == "changed" {
		t.Fatal("FilterByType(All) aliases its input")
	}

	if got := FilterByType(items, Filter(media.TypeZeitgeist)); len(got) != 0 {
		t.Fatalf("zeitgeist = %v", ids(got))
	}
}

func TestParseFilter(t *testing.T) {
	for _, in := range []string{"", "all", " all "} {
		f, err := ParseFilter(in)
		if err != nil || !f.IsAll() {
			t.Fatalf("ParseFilter(%q) = %q, %v", in, f, err)
		}
	}
	f, err := ParseFilter("manga")
	if err != nil || f != Filter(media.TypeManga) {
		t.Fatalf("ParseFilter(manga) = %q, %v", f, err)
	}
	if _, err := ParseFilter("podcast"); err == nil {
		t.Fatal("ParseFilter(podcast) should fail")
	}
}

func TestGroupByCreatorOrdersByCountThenName(t *testing.T) {
	var items []media.Item
	for i := 0; i < 3; i++ {
		items = append(items, item("a"+string(rune('0'+i)), media.TypeBook, "A"))
	}
	for i := 0; i < 5; i++ {
		items = append(items, item("b"+string(rune('0'+i)), media.TypeBook, "B"))
	}
	items = append(items,
		item("d0", media.TypeMovie, "D"),
		item("c0", media.TypeMovie, "C"),
	)

	groups := GroupByCreator(items, language.Und)
	if got := creators(groups); !reflect.DeepEqual(got, []string{"B", "A", "C", "D"}) {
		t.Fatalf("order = %v", got)
	}
	if got := ids(groups[1].Items); !reflect.DeepEqual(got, []string{"a0", "a1", "a2"}) {
		t.Fatalf("items of A = %v", got)
	}
}

func TestGroupByCreatorUsesCollation(t *testing.T) {
	items := []media.Item{
		item("1", media.TypeBook, "b"),
		item("2", media.TypeBook, "B"),
		item("3", media.TypeBook, "a"),
		item("4", media.TypeBook, "Émile"),
		item("5", media.TypeBook, "Zola"),
	}
	got := creators(GroupByCreator(items, language.English))
	want := []string{"a", "b", "B", "Émile", "Zola"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestGroupByCreatorIsDeterministic(t *testing.T) {
	items := []media.Item{
		item("1", media.TypeBook, "X"),
		item("2", media.TypeBook, "Y"),
		item("3", media.TypeBook, "X"),
	}
	first := GroupByCreator(items, language.Und)
	second := GroupByCreator(items, language.Und)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("GroupByCreator is not deterministic")
	}
	if got := ids(items); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("input mutated: %v", got)
	}
}

func TestGroupByTypeThenCreatorKeepsFirstSeenOrder(t *testing.T) {
	items := []media.Item{
		item("1", media.TypeMovie, "Zed"),
		item("2", media.TypeBook, "Amy"),
		item("3", media.TypeMovie, "Abe"),
		item("4", media.TypeMovie, "Zed"),
		item("5", media.TypeBook, "Amy"),
	}
	groups := GroupByTypeThenCreator(items)
	if len(groups) != 2 || groups[0].Type != media.TypeMovie || groups[1].Type != media.TypeBook {
		t.Fatalf("type order = %+v", groups)
	}
	if got := creators(groups[0].Creators); !reflect.DeepEqual(got, []string{"Zed", "Abe"}) {
		t.Fatalf("movie creators = %v", got)
	}
	if got := ids(groups[0].Creators[0].Items); !reflect.DeepEqual(got, []string{"1", "4"}) {
		t.Fatalf("Zed items = %v", got)
	}
	if groups[0].Count() != 3 || groups[1].Count() != 2 {
		t.Fatalf("counts = %d, %d", groups[0].Count(), groups[1].Count())
	}
}

func TestGroupingEmptyInput(t *testing.T) {
	if got := GroupByCreator(nil, language.Und); len(got) != 0 {
		t.Fatalf("GroupByCreator(nil) = %v", got)
	}
	if got := GroupByTypeThenCreator(nil); len(got) != 0 {
		t.Fatalf("GroupByTypeThenCreator(nil) = %v", got)
	}
}
