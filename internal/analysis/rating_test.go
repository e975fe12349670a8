package analysis

import "testing"

func TestRatingForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "Excellent"},
		{80, "Excellent"},
		{79, "Very Good"},
		{65, "Very Good"},
		{64, "Good"},
		{50, "Good"},
		{49, "Fair"},
		{35, "Fair"},
		{34, "Poor"},
		{0, "Poor"},
	}
	for _, tt := range tests {
		if got := RatingForScore(tt.score); got.Label != tt.expected {
			t.Errorf("RatingForScore(%d) = %q, expected %q", tt.score, got.Label, tt.expected)
		}
	}
}

func TestYieldRating(t *testing.T) {
	tests := []struct {
		yield    float64
		expected string
	}{
		{7.2, "Excellent"},
		{6, "Excellent"},
		{5.5, "Very Good"},
		{4, "Good"},
		{3.1, "Fair"},
		{2.99, "Below Average"},
		{0, "Below Average"},
	}
	for _, tt := range tests {
		if got := YieldRating(tt.yield); got != tt.expected {
			t.Errorf("YieldRating(%.2f) = %q, expected %q", tt.yield, got, tt.expected)
		}
	}
}
