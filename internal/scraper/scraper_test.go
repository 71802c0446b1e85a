package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wikistars5/wikistars5/internal/config"
	"github.com/wikistars5/wikistars5/internal/retry"
)

const shakiraWikitext = `{{Short description|Colombian singer}}
{{Infobox person
| name = Shakira
| image = Shakira 2014.jpg
| birth_name = Shakira Isabel Mebarak Ripoll
| birth_date = {{Birth date and age|1977|2|2|df=yes}}
| birth_place = [[Barranquilla]], Colombia
| nationality = [[Colombia]]n<ref>{{cite web|url=http://x}}</ref>
| occupation = {{flatlist|
* Singer
* [[songwriter]]
* [[Record producer|producer]]
}}
| years_active = 1990–present
| website = {{URL|shakira.com}}
}}
'''Shakira''' is a Colombian singer.`

const shakiraProfile = `<!DOCTYPE html>
<html><head>
<meta property="og:title" content="Shakira - Age, Family, Bio | Famous Birthdays">
<meta property="og:image" content="https://img.example/shakira.jpg">
</head><body>
<h1> Shakira </h1>
<div class="bio-module__info">
  <div class="bio-module__info-item"><span class="bio-module__info-label">Birthday</span><span class="bio-module__info-value">February 2, 1977</span></div>
  <div class="bio-module__info-item"><span class="bio-module__info-label">Birthplace</span><span class="bio-module__info-value">Barranquilla, Colombia</span></div>
  <div class="bio-module__info-item"><span class="bio-module__info-label">Profession:</span><span class="bio-module__info-value">Pop Singer</span></div>
</div>
<div class="bio-module__about">
  <p>Colombian singer known for <b>Hips Don't Lie</b>.</p>
  <p>She coached on <a href="/tv/the-voice.html">The Voice</a>.</p>
</div>
</body></html>`

func testClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(config.ScraperConfig{
		UserAgent:         "WikiStars5-test",
		Timeout:           5,
		RequestsPerSecond: 100,
		Burst:             10,
		CacheTTLMinutes:   5,
	}, zerolog.Nop())
	c.policy = retry.Policy{InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, MaxAttempts: 3, Multiplier: 2}
	t.Cleanup(c.Close)
	return c
}

func wikipediaServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "WikiStars5-test", r.Header.Get("User-Agent"))
		switch r.URL.Query().Get("action") {
		case "opensearch":
			fmt.Fprintf(w, `[%q,["Shakira","Shakira discography","Shakira Isabel"],["","",""],["","",""]]`, r.URL.Query().Get("search"))
		case "parse":
			fmt.Fprintf(w, `{"parse":{"title":"Shakira","wikitext":%q}}`, shakiraWikitext)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/api/rest_v1/page/summary/Shakira", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"type":"standard","title":"Shakira","description":"Colombian singer (born 1977)",
			"extract":"Shakira Isabel Mebarak Ripoll is a Colombian singer.",
			"thumbnail":{"source":"https://upload.example/thumb.jpg"},
			"originalimage":{"source":"https://upload.example/full.jpg"},
			"content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Shakira"}}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWikipedia_Lookup(t *testing.T) {
	srv := wikipediaServer(t)
	wp := NewWikipedia(testClient(t), srv.URL, 0.7, zerolog.Nop())

	draft, err := wp.Lookup(context.Background(), "shakira")
	require.NoError(t, err)

	assert.Equal(t, SourceWikipedia, draft.Source)
	assert.InDelta(t, 1.0, draft.Similarity, 0.0001)
	assert.Equal(t, "Shakira", draft.Figure.Name)
	assert.Equal(t, "Shakira Isabel Mebarak Ripoll is a Colombian singer.", draft.Figure.Description)
	assert.Equal(t, "https://upload.example/full.jpg", draft.Figure.PhotoURL)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Shakira", draft.Figure.WikipediaURL)
	assert.Equal(t, "1977-02-02", draft.Figure.BirthDate)
	assert.Equal(t, "Colombian", draft.Figure.Nationality)
	assert.Equal(t, "Singer, songwriter, producer", draft.Figure.Occupation)
	assert.Equal(t, "https://shakira.com", draft.Figure.Website)
	assert.Equal(t, "Barranquilla, Colombia", draft.Facts["birthPlace"])
	assert.Equal(t, "Colombian singer (born 1977)", draft.Facts["shortDescription"])
}

func TestWikipedia_NoCloseMatch(t *testing.T) {
	srv := wikipediaServer(t)
	wp := NewWikipedia(testClient(t), srv.URL, 0.7, zerolog.Nop())

	_, err := wp.Lookup(context.Background(), "Zbigniew Brzezinski")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestParseInfobox_Variants(t *testing.T) {
	info := ParseInfobox(`{{Infobox person
| birth_date = {{bda|1989|12|13}}
| occupation = {{hlist|Singer|songwriter}}
| citizenship = American
}}`)
	assert.Equal(t, "1989-12-13", info.BirthDate)
	assert.Equal(t, "Singer, songwriter", info.Occupation)
	assert.Equal(t, "American", info.Nationality)

	empty := ParseInfobox("no infobox here")
	assert.Equal(t, Infobox{}, empty)

	bad := ParseInfobox(`| birth_date = {{birth date|1990|13|40}}`)
	assert.Empty(t, bad.BirthDate)
}

func TestParseProfile(t *testing.T) {
	draft, err := ParseProfile([]byte(shakiraProfile))
	require.NoError(t, err)

	assert.Equal(t, "Shakira", draft.Figure.Name)
	assert.Equal(t, "https://img.example/shakira.jpg", draft.Figure.PhotoURL)
	assert.Equal(t, "1977-02-02", draft.Figure.BirthDate)
	assert.Equal(t, "Pop Singer", draft.Figure.Occupation)
	assert.Equal(t, "Barranquilla, Colombia", draft.Facts["birthPlace"])
	assert.Contains(t, draft.Figure.Description, "**Hips Don't Lie**")
	assert.Contains(t, draft.Figure.Description, "[The Voice](/tv/the-voice.html)")
}

func TestParseProfile_FallsBackToOGTitle(t *testing.T) {
	draft, err := ParseProfile([]byte(`<html><head><meta property="og:title" content="Bad Bunny - Age, Family, Bio | Famous Birthdays"></head><body></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Bad Bunny", draft.Figure.Name)
	assert.Empty(t, draft.Figure.Description)

	_, err = ParseProfile([]byte(`<html><body><p>nothing</p></body></html>`))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestFamousBirthdays_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/people/shakira.html" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, shakiraProfile)
	}))
	defer srv.Close()

	fb := NewFamousBirthdays(testClient(t), srv.URL, 0.7, zerolog.Nop())

	draft, err := fb.Lookup(context.Background(), "Shakira")
	require.NoError(t, err)
	assert.Equal(t, SourceFamousBirthdays, draft.Source)
	assert.Equal(t, srv.URL+"/people/shakira.html", draft.Figure.FamousBirthdaysURL)

	_, err = fb.Lookup(context.Background(), "Nobody Known")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestClient_RetriesAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := testClient(t)
	body, err := c.Get(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(2), calls.Load())

	body, err = c.Get(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(2), calls.Load(), "second call should be served from cache")
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := testClient(t).Get(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTitleSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, TitleSimilarity("Shakira", "shakira"), 0.0001)
	assert.InDelta(t, 1.0, TitleSimilarity("Beyoncé", "Beyonce"), 0.0001)
	assert.Greater(t, TitleSimilarity("Shakira (singer)", "Shakira"), 0.85)
	assert.Less(t, TitleSimilarity("Taylor Swift", "Shakira"), 0.7)
	assert.Zero(t, TitleSimilarity("", "Shakira"))
}

func TestCache(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := NewCache(CacheConfig{TTL: time.Hour, MaxItems: 2})
	defer c.Stop()

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))
	assert.Equal(t, 2, c.Len())

	v, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, "3", string(v))

	_, ok = c.Get(strings.Repeat("x", 3))
	assert.False(t, ok)
}
