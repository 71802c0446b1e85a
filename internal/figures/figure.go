package figures

import (
	"errors"
	"time"
)

var (
	ErrFigureNotFound = errors.New("figure not found")
	ErrFigureExists   = errors.New("figure with this id already exists")
	ErrInvalidFigure  = errors.New("invalid figure data")
	ErrInvalidQuery   = errors.New("search query is empty")
)

// Categories a figure may belong to.
const (
	CategoryPerson    = "person"
	CategoryCharacter = "character"
	CategoryMedia     = "media"
)

// Tally kinds stored in figure_tallies.
const (
	KindAttitude = "attitude"
	KindEmotion  = "emotion"
	KindRating   = "rating"
)

var (
	Attitudes = []string{"fan", "hater", "simp", "neutral"}
	Emotions  = []string{"joy", "envy", "sadness", "fear", "disgust", "anger"}
	Ratings   = []string{"1", "2", "3", "4", "5"}
)

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryPerson, CategoryCharacter, CategoryMedia:
		return true
	}
	return false
}

// Figure is a rateable profile.
type Figure struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	PhotoURL           string    `json:"photoUrl,omitempty"`
	Category           string    `json:"category"`
	Nationality        string    `json:"nationality,omitempty"`
	Occupation         string    `json:"occupation,omitempty"`
	Gender             string    `json:"gender,omitempty"`
	BirthDate          string    `json:"birthDate,omitempty"`
	WikipediaURL       string    `json:"wikipediaUrl,omitempty"`
	FamousBirthdaysURL string    `json:"famousBirthdaysUrl,omitempty"`
	Website            string    `json:"website,omitempty"`
	CreatedBy          *int64    `json:"createdBy,omitempty"`
	CommentCount       int64     `json:"commentCount"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	Tallies            *Tallies  `json:"tallies,omitempty"`
	Mine               *Mine     `json:"mine,omitempty"`
}

// Tallies are the aggregated counters of a figure.
type Tallies struct {
	Attitude      map[string]int64 `json:"attitude"`
	Emotion       map[string]int64 `json:"emotion"`
	Ratings       map[string]int64 `json:"ratings"`
	RatingCount   int64            `json:"ratingCount"`
	AverageRating float64          `json:"averageRating"`
}

// TotalAttitude is the number of attitude votes, used as popularity.
func (t *Tallies) TotalAttitude() int64 {
	var n int64
	for _, c := range t.Attitude {
		n += c
	}
	return n
}

// Mine holds the requesting user's own votes and rating on a figure.
type Mine struct {
	Attitude        string `json:"attitude,omitempty"`
	Emotion         string `json:"emotion,omitempty"`
	Rating          int    `json:"rating,omitempty"`
	RatingCommentID int64  `json:"ratingCommentId,omitempty"`
}

// SaveInput contains the editable fields of a figure.
type SaveInput struct {
	Name               string `json:"name" yaml:"name"`
	Description        string `json:"description" yaml:"description"`
	PhotoURL           string `json:"photoUrl" yaml:"photoUrl"`
	Category           string `json:"category" yaml:"category"`
	Nationality        string `json:"nationality" yaml:"nationality"`
	Occupation         string `json:"occupation" yaml:"occupation"`
	Gender             string `json:"gender" yaml:"gender"`
	BirthDate          string `json:"birthDate" yaml:"birthDate"`
	WikipediaURL       string `json:"wikipediaUrl" yaml:"wikipediaUrl"`
	FamousBirthdaysURL string `json:"famousBirthdaysUrl" yaml:"famousBirthdaysUrl"`
	Website            string `json:"website" yaml:"website"`
}

// ListOptions controls List.
type ListOptions struct {
	Category string
	Sort     string
	Page     int
	PageSize int
}

// Sort orders accepted by List.
const (
	SortPopular = "popular"
	SortRecent  = "recent"
	SortName    = "name"
	SortRating  = "rating"
)

// ListResponse is one page of figures.
type ListResponse struct {
	Items    []*Figure `json:"items"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

// Match is an existing figure whose name resembles a candidate name.
type Match struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}
