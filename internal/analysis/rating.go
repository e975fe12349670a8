package analysis

// ExceptionalScore is the lowest score listed as an exceptional opportunity.
const ExceptionalScore = 65

// Rating is a display label for a score, with the colour the dashboards use.
type Rating struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// RatingForScore buckets a composite score.
func RatingForScore(score int) Rating {
	switch {
	case score >= 80:
		return Rating{Label: "Excellent", Color: "#059669"}
	case score >= ExceptionalScore:
		return Rating{Label: "Very Good", Color: "#10b981"}
	case score >= 50:
		return Rating{Label: "Good", Color: "#3b82f6"}
	case score >= 35:
		return Rating{Label: "Fair", Color: "#ca8a04"}
	default:
		return Rating{Label: "Poor", Color: "#dc2626"}
	}
}

// YieldRating labels a gross yield percentage.
func YieldRating(grossYield float64) string {
	switch {
	case grossYield >= 6:
		return "Excellent"
	case grossYield >= 5:
		return "Very Good"
	case grossYield >= 4:
		return "Good"
	case grossYield >= 3:
		return "Fair"
	default:
		return "Below Average"
	}
}
