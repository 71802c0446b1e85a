package scraper

import (
	"context"

	"github.com/xrash/smetrics"

	"github.com/wikistars5/wikistars5/internal/figures"
)

// Sources.
const (
	SourceWikipedia       = "wikipedia"
	SourceFamousBirthdays = "famousbirthdays"
)

// Draft is a figure assembled from a scraped page, ready for review.
type Draft struct {
	Source     string            `json:"source"`
	SourceURL  string            `json:"sourceUrl"`
	Similarity float64           `json:"similarity"`
	Figure     figures.SaveInput `json:"figure"`
	Facts      map[string]string `json:"facts,omitempty"`
}

// Source looks a name up on one site.
type Source interface {
	Name() string
	Lookup(ctx context.Context, name string) (*Draft, error)
}

// TitleSimilarity scores how closely a page title matches the searched name
// using Jaro-Winkler over normalized text.
func TitleSimilarity(title, name string) float64 {
	a, b := figures.Normalize(title), figures.Normalize(name)
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}
