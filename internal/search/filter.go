// Package search filters listings against a client's brief and ranks them by
// investment metrics.
package search

import (
	"regexp"
	"strings"

	"github.com/BinaryNexusLab/real-estate/internal/models"
)

// Any matches every state or property type.
const Any = "All"

// Criteria narrows the listings. Zero values place no constraint. Location is
// a free-text preference such as "Botany, Hillsdale and Mascot".
type Criteria struct {
	State        string  `json:"state,omitempty"`
	PropertyType string  `json:"property_type,omitempty"`
	MinPrice     float64 `json:"min_price,omitempty"`
	MaxPrice     float64 `json:"max_price,omitempty"`
	MinBedrooms  int     `json:"min_bedrooms,omitempty"`
	Query        string  `json:"query,omitempty"`
	Location     string  `json:"location,omitempty"`
	Budget       float64 `json:"budget,omitempty"`
}

// ForClient builds the criteria implied by a client's profile.
func ForClient(c models.Client) Criteria {
	return Criteria{Location: c.PreferredLocation, Budget: c.Budget}
}

var locationSeparators = regexp.MustCompile(`[,/]|\band\b|\bfrom\b`)

// LocationTokens splits a location preference into lower-case suburb
// fragments.
func LocationTokens(location string) []string {
	var tokens []string
	for _, part := range locationSeparators.Split(strings.ToLower(location), -1) {
		if t := strings.TrimSpace(part); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// LocationMatcher reports whether a suburb satisfies a location preference.
// An empty preference or one mentioning "anywhere" matches every suburb.
func LocationMatcher(location string) func(suburb string) bool {
	tokens := LocationTokens(location)
	if strings.TrimSpace(location) == "" || strings.Contains(strings.ToLower(location), "anywhere") || len(tokens) == 0 {
		return func(string) bool { return true }
	}
	return func(suburb string) bool {
		s := strings.ToLower(suburb)
		for _, t := range tokens {
			if strings.Contains(s, t) {
				return true
			}
		}
		return false
	}
}

// Filter returns the listings matching c, preserving order.
func Filter(props []models.Property, c Criteria) []models.Property {
	inLocation := LocationMatcher(c.Location)
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		switch {
		case c.State != "" && c.State != Any && !strings.EqualFold(p.State, c.State):
			continue
		case c.PropertyType != "" && c.PropertyType != Any && !strings.EqualFold(p.PropertyType, c.PropertyType):
			continue
		case c.MinPrice > 0 && p.Price < c.MinPrice:
			continue
		case c.MaxPrice > 0 && p.Price > c.MaxPrice:
			continue
		case c.Budget > 0 && p.Price > c.Budget:
			continue
		case c.MinBedrooms > 0 && p.Bedrooms < c.MinBedrooms:
			continue
		case query != "" && !matchesQuery(p, query):
			continue
		case !inLocation(p.Suburb):
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p models.Property, query string) bool {
	return strings.Contains(strings.ToLower(p.Address), query) ||
		strings.Contains(strings.ToLower(p.Suburb), query) ||
		strings.Contains(strings.ToLower(p.State), query) ||
		strings.Contains(p.Postcode, query)
}
