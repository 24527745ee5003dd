package ingest

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"osusume/internal/domain/media"
)

var ErrMalformedFrontMatter = errors.New("malformed front matter")

const delimiter = "---"

type FrontMatter struct {
	Type       string   `yaml:"type"`
	Title      string   `yaml:"title"`
	Creator    string   `yaml:"creator"`
	Year       string   `yaml:"year"`
	Importance *int     `yaml:"importance"`
	ImageURL   string   `yaml:"imageUrl"`
	Tags       []string `yaml:"tags"`
	Related    []string `yaml:"relatedContent"`
}

// ParseFrontMatter splits raw into its metadata block and body. The block is
// opened by a first line that is exactly "---" and closed by the next such
// line. Without an opening line the whole text is the body and the metadata
// is empty. A leading byte order mark is dropped and CRLF line endings are
// rewritten to LF before splitting, so the returned body is the text after
// the closing line with LF line breaks and is otherwise unchanged.
func ParseFrontMatter(raw string) (FrontMatter, string, error) {
	norm := strings.TrimPrefix(raw, "\ufeff")
	norm = strings.ReplaceAll(norm, "\r\n", "\n")

	first, rest, found := strings.Cut(norm, "\n")
	if !isDelimiter(first) {
		return FrontMatter{}, norm, nil
	}
	if !found {
		return FrontMatter{}, "", fmt.Errorf("%w: missing closing %q", ErrMalformedFrontMatter, delimiter)
	}

	var (
		yamlPart string
		body     string
		closed   bool
	)
	for offset := 0; offset <= len(rest); {
		line, _, more := strings.Cut(rest[offset:], "\n")
		if isDelimiter(line) {
			yamlPart = rest[:offset]
			if more {
				body = rest[offset+len(line)+1:]
			}
			closed = true
			break
		}
		if !more {
			break
		}
		offset += len(line) + 1
	}
	if !closed {
		return FrontMatter{}, "", fmt.Errorf("%w: missing closing %q", ErrMalformedFrontMatter, delimiter)
	}

	var fm FrontMatter
	if strings.TrimSpace(yamlPart) != "" {
		if err := yaml.Unmarshal([]byte(yamlPart), &fm); err != nil {
			return FrontMatter{}, "", fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
		}
	}
	return fm, body, nil
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == delimiter
}

// BuildItem parses doc and constructs a validated item. Errors wrap either
// ErrMalformedFrontMatter or a domain ValidationError.
func BuildItem(doc Document) (media.Item, error) {
	fm, body, err := ParseFrontMatter(doc.Text)
	if err != nil {
		return media.Item{}, err
	}
	return media.NewItem(doc.ID, media.Fields{
		Type:       fm.Type,
		Title:      fm.Title,
		Creator:    fm.Creator,
		Year:       fm.Year,
		Importance: fm.Importance,
		ImageURL:   fm.ImageURL,
		Notes:      body,
		Tags:       fm.Tags,
		Related:    fm.Related,
	})
}
