package media

import (
	"errors"
	"reflect"
	"testing"

	domainerr "osusume/internal/domain/errors"
)

func TestNewItemAppliesDefaults(t *testing.T) {
	it, err := NewItem("book/foo.md", Fields{Type: "book", Title: "Foo", Creator: "Bar"})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if it.Year != "" || it.Importance != DefaultImportance || it.ImageURL != "" {
		t.Fatalf("defaults not applied: %+v", it)
	}
	if it.Type != TypeBook {
		t.Fatalf("type = %q", it.Type)
	}
}

func TestNewItemKeepsExplicitZeroImportance(t *testing.T) {
	zero := 0
	it, err := NewItem("a.md", Fields{Type: "music", Title: "t", Creator: "c", Importance: &zero})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if it.Importance != 0 {
		t.Fatalf("importance = %d, want 0", it.Importance)
	}
}

func TestNewItemRejects(t *testing.T) {
	cases := []struct {
		name   string
		fields Fields
		want   []string
	}{
		{"missing type", Fields{Title: "t", Creator: "c"}, []string{"type"}},
		{"unknown type", Fields{Type: "podcast", Title: "t", Creator: "c"}, []string{"type"}},
		{"blank title", Fields{Type: "book", Title: "  ", Creator: "c"}, []string{"title"}},
		{"missing everything", Fields{}, []string{"type", "title", "creator"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem("x.md", tc.fields)
			if !errors.Is(err, domainerr.ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			var ve domainerr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err is %T, want ValidationError", err)
			}
			if got := ve.Fields(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("fields = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewItemNormalizesTags(t *testing.T) {
	it, err := NewItem("a.md", Fields{
		Type: "anime", Title: "t", Creator: "c",
		Tags: []string{" sf ", "", "sf", "classic"},
	})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if want := []string{"sf", "classic"}; !reflect.DeepEqual(it.Tags, want) {
		t.Fatalf("tags = %v, want %v", it.Tags, want)
	}
	if it.Related != nil {
		t.Fatalf("related = %v, want nil", it.Related)
	}
}

func TestParseTypeAndLabel(t *testing.T) {
	for _, ty := range Types() {
		got, err := ParseType(string(ty))
		if err != nil || got != ty {
			t.Fatalf("ParseType(%q) = %q, %v", ty, got, err)
		}
		if ty.Label() == string(ty) {
			t.Fatalf("missing label for %q", ty)
		}
	}
	if _, err := ParseType("all"); err == nil {
		t.Fatal("ParseType(all) should fail")
	}
	if Type("podcast").Label() != "podcast" {
		t.Fatal("unknown type should label as itself")
	}
}
