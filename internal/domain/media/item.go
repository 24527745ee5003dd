package media

import (
	"fmt"
	"strings"

	domainerr "osusume/internal/domain/errors"
)

type Type string

const (
	TypeBook      Type = "book"
	TypeMovie     Type = "movie"
	TypeDrama     Type = "drama"
	TypeManga     Type = "manga"
	TypeAnime     Type = "anime"
	TypeMusic     Type = "music"
	TypeZeitgeist Type = "zeitgeist"
)

var allTypes = []Type{
	TypeBook,
	TypeMovie,
	TypeDrama,
	TypeManga,
	TypeAnime,
	TypeMusic,
	TypeZeitgeist,
}

var typeLabels = map[Type]string{
	TypeBook:      "本",
	TypeMovie:     "映画",
	TypeDrama:     "ドラマ",
	TypeManga:     "漫画",
	TypeAnime:     "アニメ",
	TypeMusic:     "音楽",
	TypeZeitgeist: "時世",
}

// Types returns the closed set of media types in display order.
func Types() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// Label is the human-facing name of the type; unknown types fall back to the raw value.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t Type) String() string { return string(t) }

func ParseType(s string) (Type, error) {
	t := Type(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown media type %q: %w", s, domainerr.ErrInvalid)
	}
	return t, nil
}

const DefaultImportance = 3

// Fields is the untyped input to NewItem. Pointers distinguish an absent
// optional field from an explicit zero value.
type Fields struct {
	Type       string
	Title      string
	Creator    string
	Year       string
	Importance *int
	ImageURL   string
	Notes      string
	Tags       []string
	Related    []string
}

type Item struct {
	ID         string   `json:"id"`
	Type       Type     `json:"type"`
	Title      string   `json:"title"`
	Creator    string   `json:"creator"`
	Year       string   `json:"year"`
	Importance int      `json:"importance"`
	ImageURL   string   `json:"imageUrl"`
	Notes      string   `json:"notes"`
	Tags       []string `json:"tags,omitempty"`
	Related    []string `json:"relatedContent,omitempty"`
}

// NewItem validates f and builds an Item. Required fields are copied
// verbatim; the blank check ignores surrounding whitespace.
func NewItem(id string, f Fields) (Item, error) {
	var ve domainerr.ValidationError

	if strings.TrimSpace(id) == "" {
		ve.Add("id", "must not be empty")
	}
	switch {
	case strings.TrimSpace(f.Type) == "":
		ve.Add("type", "is required")
	case !Type(f.Type).Valid():
		ve.Add("type", fmt.Sprintf("%q is not one of %s", f.Type, joinTypes()))
	}
	if strings.TrimSpace(f.Title) == "" {
		ve.Add("title", "is required")
	}
	if strings.TrimSpace(f.Creator) == "" {
		ve.Add("creator", "is required")
	}
	if ve.HasAny() {
		return Item{}, ve
	}

	importance := DefaultImportance
	if f.Importance != nil {
		importance = *f.Importance
	}

	return Item{
		ID:         id,
		Type:       Type(f.Type),
		Title:      f.Title,
		Creator:    f.Creator,
		Year:       f.Year,
		Importance: importance,
		ImageURL:   f.ImageURL,
		Notes:      f.Notes,
		Tags:       normalizeStrings(f.Tags),
		Related:    normalizeStrings(f.Related),
	}, nil
}

func joinTypes() string {
	parts := make([]string, len(allTypes))
	for i, t := range allTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func normalizeStrings(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
