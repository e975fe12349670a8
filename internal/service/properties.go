package service

import (
	"context"
	"fmt"

	"github.com/BinaryNexusLab/real-estate/internal/analysis"
	"github.com/BinaryNexusLab/real-estate/internal/models"
	"github.com/BinaryNexusLab/real-estate/internal/repository"
	"github.com/BinaryNexusLab/real-estate/internal/search"
)

// DefaultProjectionYears is the horizon used when a client has no
// investment period.
const DefaultProjectionYears = 10

// ClientAnalysis is a listing analysed under one client's assumptions.
type ClientAnalysis struct {
	Client      models.Client             `json:"client"`
	Property    models.Property           `json:"property"`
	Assumptions analysis.Assumptions      `json:"assumptions"`
	Analysis    analysis.PropertyAnalysis `json:"analysis"`
	Rating      analysis.Rating           `json:"rating"`
	YieldRating string                    `json:"yield_rating"`
}

// ListProperties filters the market and ranks it under the market profile.
func (s *Service) ListProperties(ctx context.Context, c search.Criteria, priority search.Priority, order search.Order) ([]search.Ranked, error) {
	return search.Rank(ctx, search.Filter(s.data.All(), c), s.marketAssumptions, priority, order)
}

// AnalyzeProperty analyses one listing under the market profile.
func (s *Service) AnalyzeProperty(ctx context.Context, id string) (search.Ranked, error) {
	p, err := s.property(id)
	if err != nil {
		return search.Ranked{}, err
	}
	ranked, err := search.Rank(ctx, []models.Property{p}, s.marketAssumptions, search.PriorityCompositeScore, search.OrderDesc)
	if err != nil {
		return search.Ranked{}, err
	}
	return ranked[0], nil
}

// Exceptional lists the best scoring listings on the market.
func (s *Service) Exceptional(ctx context.Context) ([]search.Ranked, error) {
	ranked, err := search.Rank(ctx, s.data.All(), s.marketAssumptions, search.PriorityCompositeScore, search.OrderDesc)
	if err != nil {
		return nil, err
	}
	return search.Exceptional(ranked, search.ExceptionalLimit), nil
}

// SearchForClient ranks the listings matching a client's location and budget
// under that client's assumptions. Non-zero fields of extra narrow the search
// further; a location or budget in extra replaces the client's own.
func (s *Service) SearchForClient(ctx context.Context, clientID string, extra search.Criteria, priority search.Priority, order search.Order) ([]search.Ranked, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	criteria := search.ForClient(*c)
	criteria.State = extra.State
	criteria.PropertyType = extra.PropertyType
	criteria.MinPrice = extra.MinPrice
	criteria.MaxPrice = extra.MaxPrice
	criteria.MinBedrooms = extra.MinBedrooms
	criteria.Query = extra.Query
	if extra.Location != "" {
		criteria.Location = extra.Location
	}
	if extra.Budget > 0 {
		criteria.Budget = extra.Budget
	}

	return search.Rank(ctx, search.Filter(s.data.All(), criteria), s.clientAssumptions(*c), priority, order)
}

// AnalyzeForClient analyses one listing for one client.
func (s *Service) AnalyzeForClient(ctx context.Context, clientID, propertyID string) (*ClientAnalysis, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	p, err := s.property(propertyID)
	if err != nil {
		return nil, err
	}

	a := s.AssumptionsForClient(*c, p.Price)
	res, err := analysis.Analyze(p.FinancialInput(), a)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	return &ClientAnalysis{
		Client:      *c,
		Property:    p,
		Assumptions: a,
		Analysis:    res,
		Rating:      analysis.RatingForScore(res.InvestmentScore),
		YieldRating: analysis.YieldRating(res.GrossYield),
	}, nil
}

// ProjectionForClient is the year-by-year outlook of a listing for a client.
// A non-positive horizon uses the client's investment period.
func (s *Service) ProjectionForClient(ctx context.Context, clientID, propertyID string, years int) ([]analysis.YearProjection, error) {
	ca, err := s.AnalyzeForClient(ctx, clientID, propertyID)
	if err != nil {
		return nil, err
	}
	if years > maxInvestmentPeriod {
		return nil, fmt.Errorf("%w: projection horizon must be at most %d years", ErrValidation, maxInvestmentPeriod)
	}
	if years <= 0 {
		years = horizon(ca.Client)
	}
	return analysis.Project(ca.Analysis, years), nil
}

func (s *Service) property(id string) (models.Property, error) {
	p, ok := s.data.ByID(id)
	if !ok {
		return models.Property{}, fmt.Errorf("property %s: %w", id, repository.ErrNotFound)
	}
	return p, nil
}

func horizon(c models.Client) int {
	if c.InvestmentPeriod > 0 {
		return c.InvestmentPeriod
	}
	return DefaultProjectionYears
}
