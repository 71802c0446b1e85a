package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/figures"
)

const fbTitleSuffix = " - Age, Family, Bio | Famous Birthdays"

var fbDateLayouts = []string{"January 2, 2006", "Jan 2, 2006", "2006-01-02"}

// FamousBirthdays scrapes profile pages from famousbirthdays.com.
type FamousBirthdays struct {
	client    *Client
	baseURL   string
	threshold float64
	logger    zerolog.Logger
}

func NewFamousBirthdays(client *Client, baseURL string, threshold float64, logger zerolog.Logger) *FamousBirthdays {
	return &FamousBirthdays{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		threshold: threshold,
		logger:    logger.With().Str("source", SourceFamousBirthdays).Logger(),
	}
}

func (f *FamousBirthdays) Name() string {
	return SourceFamousBirthdays
}

// Lookup fetches /people/{slug}.html for name and parses the profile.
func (f *FamousBirthdays) Lookup(ctx context.Context, name string) (*Draft, error) {
	slug := figures.Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("%w for %q on FamousBirthdays", ErrNoMatch, name)
	}
	pageURL := f.baseURL + "/people/" + slug + ".html"

	body, err := f.client.Get(ctx, pageURL)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w for %q on FamousBirthdays", ErrNoMatch, name)
		}
		return nil, fmt.Errorf("famousbirthdays fetch failed: %w", err)
	}

	draft, err := ParseProfile(body)
	if err != nil {
		return nil, err
	}
	draft.SourceURL = pageURL
	draft.Figure.FamousBirthdaysURL = pageURL
	draft.Similarity = TitleSimilarity(draft.Figure.Name, name)
	if draft.Similarity < f.threshold {
		f.logger.Debug().Str("name", name).Str("found", draft.Figure.Name).Float64("similarity", draft.Similarity).Msg("Profile name too different")
		return nil, fmt.Errorf("%w for %q on FamousBirthdays", ErrNoMatch, name)
	}
	return draft, nil
}

// ParseProfile reads a FamousBirthdays profile page.
func ParseProfile(page []byte) (*Draft, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			name = strings.TrimSpace(strings.TrimSuffix(og, fbTitleSuffix))
		}
	}
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, fmt.Errorf("%w: profile has no name", ErrNoMatch)
	}

	draft := &Draft{
		Source: SourceFamousBirthdays,
		Figure: figures.SaveInput{
			Name:     name,
			Category: figures.CategoryPerson,
		},
		Facts: map[string]string{},
	}
	if img, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		draft.Figure.PhotoURL = strings.TrimSpace(img)
	}

	facts := profileFacts(doc)
	if v, ok := doc.Find(`[itemprop="birthDate"]`).Attr("content"); ok {
		facts["birthday"] = v
	}
	draft.Figure.BirthDate = parseDate(facts["birthday"])
	draft.Figure.Occupation = facts["profession"]
	draft.Figure.Nationality = facts["nationality"]
	if place := facts["birthplace"]; place != "" {
		draft.Facts["birthPlace"] = place
	}
	if sign := facts["birth sign"]; sign != "" {
		draft.Facts["birthSign"] = sign
	}

	bio, err := bioMarkdown(doc)
	if err != nil {
		return nil, err
	}
	draft.Figure.Description = bio
	return draft, nil
}

// profileFacts collects label/value pairs from the profile's info list,
// keyed by lowercase label.
func profileFacts(doc *goquery.Document) map[string]string {
	facts := map[string]string{}
	doc.Find(".bio-module__info-item, .stats-item, dl > div").Each(func(_ int, s *goquery.Selection) {
		label := s.Find(".bio-module__info-label, .label, dt").First()
		value := s.Find(".bio-module__info-value, .value, dd").First()
		if label.Length() == 0 || value.Length() == 0 {
			return
		}
		key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label.Text()), ":"))
		facts[key] = strings.Join(strings.Fields(value.Text()), " ")
	})
	return facts
}

func bioMarkdown(doc *goquery.Document) (string, error) {
	paras := doc.Find(".bio-module__about p, .bio p, article p")
	if paras.Length() == 0 {
		return "", nil
	}

	var html strings.Builder
	paras.Each(func(_ int, s *goquery.Selection) {
		if h, err := goquery.OuterHtml(s); err == nil {
			html.WriteString(h)
		}
	})

	md, err := htmltomarkdown.ConvertString(html.String())
	if err != nil {
		return "", fmt.Errorf("failed to convert bio: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func parseDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range fbDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
