package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/figures"
)

const searchLimit = 5

// Wikipedia looks figures up on one language edition of Wikipedia.
type Wikipedia struct {
	client    *Client
	baseURL   string
	threshold float64
	logger    zerolog.Logger
}

// NewWikipedia creates a Wikipedia source. threshold is the minimum
// Jaro-Winkler similarity between the searched name and the page title.
func NewWikipedia(client *Client, baseURL string, threshold float64, logger zerolog.Logger) *Wikipedia {
	return &Wikipedia{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		threshold: threshold,
		logger:    logger.With().Str("source", SourceWikipedia).Logger(),
	}
}

func (w *Wikipedia) Name() string {
	return SourceWikipedia
}

type summaryResponse struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Extract       string `json:"extract"`
	Thumbnail     *image `json:"thumbnail"`
	OriginalImage *image `json:"originalimage"`
	ContentURLs   struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

type image struct {
	Source string `json:"source"`
}

type parseResponse struct {
	Parse struct {
		Wikitext string `json:"wikitext"`
	} `json:"parse"`
}

// Lookup searches for name and builds a draft from the best matching article.
func (w *Wikipedia) Lookup(ctx context.Context, name string) (*Draft, error) {
	titles, err := w.search(ctx, name)
	if err != nil {
		return nil, err
	}

	best, score := "", 0.0
	for _, t := range titles {
		if s := TitleSimilarity(t, name); s > score {
			best, score = t, s
		}
	}
	if best == "" || score < w.threshold {
		w.logger.Debug().Str("name", name).Str("best", best).Float64("similarity", score).Msg("No close Wikipedia match")
		return nil, fmt.Errorf("%w for %q on Wikipedia", ErrNoMatch, name)
	}

	summary, err := w.summary(ctx, best)
	if err != nil {
		return nil, err
	}
	if summary.Type == "disambiguation" {
		return nil, fmt.Errorf("%w for %q: %q is a disambiguation page", ErrNoMatch, name, best)
	}

	draft := &Draft{
		Source:     SourceWikipedia,
		SourceURL:  summary.ContentURLs.Desktop.Page,
		Similarity: score,
		Figure: figures.SaveInput{
			Name:        summary.Title,
			Description: strings.TrimSpace(summary.Extract),
			Category:    figures.CategoryPerson,
		},
		Facts: map[string]string{},
	}
	if draft.SourceURL == "" {
		draft.SourceURL = w.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(best, " ", "_"))
	}
	draft.Figure.WikipediaURL = draft.SourceURL
	switch {
	case summary.OriginalImage != nil:
		draft.Figure.PhotoURL = summary.OriginalImage.Source
	case summary.Thumbnail != nil:
		draft.Figure.PhotoURL = summary.Thumbnail.Source
	}
	if summary.Description != "" {
		draft.Facts["shortDescription"] = summary.Description
	}

	wikitext, err := w.wikitext(ctx, best)
	if err != nil {
		w.logger.Warn().Err(err).Str("title", best).Msg("Failed to load wikitext, continuing with summary only")
		return draft, nil
	}
	info := ParseInfobox(wikitext)
	draft.Figure.BirthDate = info.BirthDate
	draft.Figure.Nationality = info.Nationality
	draft.Figure.Occupation = info.Occupation
	draft.Figure.Website = info.Website
	if info.BirthPlace != "" {
		draft.Facts["birthPlace"] = info.BirthPlace
	}
	return draft, nil
}

func (w *Wikipedia) search(ctx context.Context, name string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", name)
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("namespace", "0")
	params.Set("format", "json")

	body, err := w.client.Get(ctx, w.baseURL+"/w/api.php?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("wikipedia search failed: %w", err)
	}

	// [query, [titles], [descriptions], [urls]]
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(raw) < 2 {
		return nil, nil
	}
	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil, fmt.Errorf("failed to decode search titles: %w", err)
	}
	return titles, nil
}

func (w *Wikipedia) summary(ctx context.Context, title string) (*summaryResponse, error) {
	path := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	body, err := w.client.Get(ctx, w.baseURL+"/api/rest_v1/page/summary/"+path)
	if err != nil {
		return nil, fmt.Errorf("wikipedia summary failed: %w", err)
	}
	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &resp, nil
}

func (w *Wikipedia) wikitext(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "wikitext")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	body, err := w.client.Get(ctx, w.baseURL+"/w/api.php?"+params.Encode())
	if err != nil {
		return "", err
	}
	var resp parseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode wikitext: %w", err)
	}
	return resp.Parse.Wikitext, nil
}

// Infobox holds the fields read from an article's infobox.
type Infobox struct {
	BirthDate   string
	BirthPlace  string
	Nationality string
	Occupation  string
	Website     string
}

var (
	birthDateTemplate = regexp.MustCompile(`(?i)\{\{\s*(?:birth[ _]date(?:[ _]and[ _]age)?|bda|birth-date and age)\s*\|([^{}]*)\}\}`)
	refTag            = regexp.MustCompile(`(?is)<ref[^>/]*/>|<ref[^>]*>.*?</ref>`)
	htmlComment       = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlTag           = regexp.MustCompile(`<[^>]+>`)
	listTemplate      = regexp.MustCompile(`(?is)\{\{\s*(?:hlist|flatlist|ubl|unbulleted list|plainlist|flat list)\s*\|?(.*?)\}\}`)
	urlTemplate       = regexp.MustCompile(`(?i)\{\{\s*url\s*\|\s*([^|}]+)`)
	anyTemplate       = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	pipedLink         = regexp.MustCompile(`\[\[[^\]|]*\|([^\]]*)\]\]`)
	plainLink         = regexp.MustCompile(`\[\[([^\]]*)\]\]`)
	externalLink      = regexp.MustCompile(`\[(https?://\S+)(?:\s[^\]]*)?\]`)
	spaces            = regexp.MustCompile(`\s+`)
)

// ParseInfobox extracts birth date, birthplace, nationality, occupation and
// website from article wikitext. Missing fields are empty.
func ParseInfobox(wikitext string) Infobox {
	text := refTag.ReplaceAllString(htmlComment.ReplaceAllString(wikitext, ""), "")

	info := Infobox{
		BirthDate:   parseBirthDate(text),
		BirthPlace:  cleanValue(infoboxField(text, "birth_place")),
		Nationality: cleanValue(infoboxField(text, "nationality", "citizenship")),
		Occupation:  cleanValue(infoboxField(text, "occupation", "occupations", "profession")),
	}
	if m := urlTemplate.FindStringSubmatch(infoboxField(text, "website")); m != nil {
		info.Website = strings.TrimSpace(m[1])
		if !strings.Contains(info.Website, "://") {
			info.Website = "https://" + info.Website
		}
	}
	return info
}

func parseBirthDate(text string) string {
	m := birthDateTemplate.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	var parts []int
	for _, p := range strings.Split(m[1], "|") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		parts = append(parts, n)
		if len(parts) == 3 {
			break
		}
	}
	if len(parts) < 3 || parts[1] < 1 || parts[1] > 12 || parts[2] < 1 || parts[2] > 31 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2])
}

// infoboxField returns the raw value of the first named parameter found,
// including continuation lines such as flatlist bullets.
func infoboxField(text string, names ...string) string {
	lines := strings.Split(text, "\n")
	for _, name := range names {
		for i, line := range lines {
			key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
			if !ok || !strings.HasPrefix(key, "|") {
				continue
			}
			if strings.TrimSpace(strings.TrimPrefix(key, "|")) != name {
				continue
			}
			parts := []string{value}
			open := strings.Count(value, "{{") - strings.Count(value, "}}")
			for _, next := range lines[i+1:] {
				t := strings.TrimSpace(next)
				if open <= 0 && !strings.HasPrefix(t, "*") {
					break
				}
				parts = append(parts, t)
				open += strings.Count(t, "{{") - strings.Count(t, "}}")
			}
			if v := strings.TrimSpace(strings.Join(parts, "\n")); v != "" {
				return v
			}
		}
	}
	return ""
}

// cleanValue turns an infobox value into plain text.
func cleanValue(v string) string {
	if v == "" {
		return ""
	}
	v = pipedLink.ReplaceAllString(v, "$1")
	v = plainLink.ReplaceAllString(v, "$1")
	v = listTemplate.ReplaceAllStringFunc(v, func(s string) string {
		inner := listTemplate.FindStringSubmatch(s)[1]
		var items []string
		for _, line := range strings.Split(inner, "\n") {
			for _, item := range strings.Split(line, "|") {
				item = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(item), "*"))
				if item != "" && !strings.Contains(item, "=") {
					items = append(items, item)
				}
			}
		}
		return strings.Join(items, ", ")
	})
	v = externalLink.ReplaceAllString(v, "$1")
	v = anyTemplate.ReplaceAllString(v, "")
	v = htmlTag.ReplaceAllString(v, ", ")
	v = strings.ReplaceAll(v, "'''", "")
	v = strings.ReplaceAll(v, "''", "")

	var items []string
	for _, line := range strings.Split(v, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*"))
		if line != "" {
			items = append(items, line)
		}
	}
	v = spaces.ReplaceAllString(strings.Join(items, ", "), " ")
	v = strings.ReplaceAll(v, " ,", ",")
	for strings.Contains(v, ", ,") {
		v = strings.ReplaceAll(v, ", ,", ",")
	}
	return strings.Trim(v, " ,")
}
