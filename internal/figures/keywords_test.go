package figures

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shakira", "shakira"},
		{"  Beyoncé   Knowles ", "beyonce knowles"},
		{"Ñoño-Pérez!!", "nono perez"},
		{"AC/DC", "ac dc"},
		{"R2-D2", "r2 d2"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestKeywords(t *testing.T) {
	kws := Keywords("Lionel Messi")

	for _, want := range []string{"l", "li", "lionel", "lionel m", "lionel messi", "m", "me", "messi"} {
		assert.Contains(t, kws, want)
	}
	assert.NotContains(t, kws, "lionel ")

	seen := map[string]bool{}
	for _, k := range kws {
		assert.False(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
	}
}

func TestKeywords_AccentsAndLimit(t *testing.T) {
	kws := Keywords("Gabriel García Márquez")
	assert.Contains(t, kws, "garcia")
	assert.Contains(t, kws, "marq")

	long := strings.Repeat("a", 45)
	kws = Keywords(long)
	for _, k := range kws {
		assert.LessOrEqual(t, len(k), maxKeywordLen)
	}
	assert.Len(t, kws, maxKeywordLen)

	assert.Nil(t, Keywords("!!!"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "beyonce-knowles", Slugify("Beyoncé Knowles"))
	assert.Equal(t, "r2-d2", Slugify("R2-D2"))
	assert.Equal(t, "the-office-us", Slugify("The Office (US)"))
	assert.Equal(t, "", Slugify("東京"))
	assert.LessOrEqual(t, len(Slugify(strings.Repeat("word ", 40))), maxSlugLen)
}

func TestNameSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, NameSimilarity("Beyoncé", "beyonce"), 0.0001)
	assert.GreaterOrEqual(t, NameSimilarity("Cristiano Ronaldo", "Christiano Ronaldo"), DuplicateThreshold)
	assert.Less(t, NameSimilarity("Lionel Messi", "Shakira"), DuplicateThreshold)

	matches := rankSimilar("Cristiano Ronaldo", []Match{
		{ID: "shakira", Name: "Shakira"},
		{ID: "cristiano-ronaldo", Name: "Cristiano Ronaldo"},
		{ID: "christiano-ronaldo", Name: "Christiano Ronaldo"},
	}, DuplicateThreshold)
	if assert.Len(t, matches, 2) {
		assert.Equal(t, "cristiano-ronaldo", matches[0].ID)
		assert.Equal(t, 1.0, matches[0].Similarity)
	}
}
