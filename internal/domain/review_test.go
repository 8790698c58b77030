package domain_test

import (
	"math"
	"testing"

	"barzinhos/internal/domain"
)

func TestValidateRating(t *testing.T) {
	cases := []struct {
		rating int
		ok     bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-1, false},
	}
	for _, c := range cases {
		err := domain.ValidateRating(c.rating)
		if c.ok && err != nil {
			t.Fatalf("rating %d: unexpected err %v", c.rating, err)
		}
		if !c.ok {
			if err == nil {
				t.Fatalf("rating %d: expected rejection", c.rating)
			}
			if !domain.IsValidation(err) {
				t.Fatalf("rating %d: expected validation error, got %T", c.rating, err)
			}
		}
	}
}

func TestReviewValidate_RequiresUserName(t *testing.T) {
	err := domain.Review{UserName: "  ", Rating: 4}.Validate()
	if err == nil || !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	if s := domain.Summarize(nil); s.Average != 0 || s.Count != 0 {
		t.Fatalf("empty: got %+v", s)
	}

	s := domain.Summarize([]domain.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}})
	if s.Count != 3 {
		t.Fatalf("count: got %d", s.Count)
	}
	if math.Abs(s.Average-13.0/3.0) > 1e-9 {
		t.Fatalf("average: got %v", s.Average)
	}
}
