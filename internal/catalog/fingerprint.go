package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"osusume/internal/domain/media"
)

// Fingerprint hashes every accepted item and every diagnostic in order, so two
// loads of an unchanged source produce the same value.
func Fingerprint(items []media.Item, skipped []media.Diagnostic) string {
	h := sha256.New()
	field := func(s string) {
		h.Write([]byte(strconv.Itoa(len(s))))
		h.Write([]byte{':'})
		h.Write([]byte(s))
	}
	for _, it := range items {
		field(it.ID)
		field(string(it.Type))
		field(it.Title)
		field(it.Creator)
		field(it.Year)
		field(strconv.Itoa(it.Importance))
		field(it.ImageURL)
		field(it.Notes)
		field(strings.Join(it.Tags, "\x00"))
		field(strings.Join(it.Related, "\x00"))
	}
	h.Write([]byte{0xff})
	for _, d := range skipped {
		field(d.ID)
		field(string(d.Kind))
		field(d.Reason)
	}
	return hex.EncodeToString(h.Sum(nil))
}
