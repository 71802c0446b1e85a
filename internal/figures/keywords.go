package figures

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxKeywordLen = 30
	maxSlugLen    = 80
)

// Normalize lowercases s, strips diacritics and collapses every run of
// non-alphanumeric characters into a single space.
func Normalize(s string) string {
	// Chained transformers keep state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	gap := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// Keywords returns every prefix (1..30 runes) of the normalized name and of
// each of its words, without duplicates.
func Keywords(name string) []string {
	normalized := Normalize(name)
	if normalized == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		r := []rune(s)
		for i := 1; i <= len(r) && i <= maxKeywordLen; i++ {
			p := strings.TrimRight(string(r[:i]), " ")
			if _, ok := seen[p]; ok || p == "" {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	add(normalized)
	for _, w := range strings.Fields(normalized) {
		add(w)
	}
	return out
}

// Slugify derives a figure ID from a name: ASCII letters and digits joined by
// single hyphens.
func Slugify(name string) string {
	var parts []string
	for _, w := range strings.Fields(Normalize(name)) {
		var b strings.Builder
		for _, r := range w {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}

	slug := strings.Join(parts, "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}
