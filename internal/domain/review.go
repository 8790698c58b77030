package domain

import (
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is immutable once stored.
type Review struct {
	ID              int64
	EstablishmentID int64
	UserName        string
	UserEmail       string
	Rating          int
	Comment         string
	CreatedAt       time.Time
}

// ValidateRating rejects anything outside [MinRating, MaxRating]; no clamping.
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return Invalid("rating", "must be between 1 and 5")
	}
	return nil
}

func (r Review) Validate() error {
	if strings.TrimSpace(r.UserName) == "" {
		return Invalid("user_name", "required field")
	}
	return ValidateRating(r.Rating)
}

// RatingSummary is derived from the child reviews on every read.
type RatingSummary struct {
	Average float64
	Count   int
}

// NewRatingSummary derives the mean from a rating sum; the mean is 0 for no reviews.
func NewRatingSummary(sum, count int) RatingSummary {
	if count <= 0 {
		return RatingSummary{}
	}
	return RatingSummary{Average: float64(sum) / float64(count), Count: count}
}

func Summarize(reviews []Review) RatingSummary {
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return NewRatingSummary(sum, len(reviews))
}

// EstablishmentView is an establishment annotated with its rating summary.
// Images and Reviews are only loaded for the detail read.
type EstablishmentView struct {
	Establishment
	Rating  RatingSummary
	Images  []Image
	Reviews []Review
}
