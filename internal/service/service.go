package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/config"
	"github.com/BinaryNexusLab/real-estate/internal/dataset"
	"github.com/BinaryNexusLab/real-estate/internal/integrations/ratefeed"
	"github.com/BinaryNexusLab/real-estate/internal/repository"
	"github.com/BinaryNexusLab/real-estate/internal/utils/email"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidShareToken  = errors.New("invalid share token")
	ErrRateUnavailable    = errors.New("market rate unavailable")
	ErrUnauthenticated    = errors.New("agent ID not found in context")
)

// RateSource supplies the current lending rate.
type RateSource interface {
	LendingRate(ctx context.Context) (ratefeed.Quote, error)
}

// Mailer delivers rendered reports.
type Mailer interface {
	SendReport(r email.Report) error
}

// Service handles business logic
type Service struct {
	store    repository.Store
	data     *dataset.Dataset
	profiles *config.AssumptionProfiles
	rates    RateSource
	mailer   Mailer
	log      *logrus.Logger
	config   *config.Config
	key      []byte
	market   atomic.Pointer[ratefeed.Quote]
	now      func() time.Time
}

// NewService initializes a new service. rates and mailer may be nil, which
// disables market rate refreshes and report mail respectively.
func NewService(store repository.Store, data *dataset.Dataset, profiles *config.AssumptionProfiles,
	rates RateSource, mailer Mailer, log *logrus.Logger, cfg *config.Config) (*Service, error) {
	key, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return nil, err
	}
	return &Service{
		store:    store,
		data:     data,
		profiles: profiles,
		rates:    rates,
		mailer:   mailer,
		log:      log,
		config:   cfg,
		key:      key,
		now:      time.Now,
	}, nil
}

type agentKey struct{}

// WithAgentID returns a context carrying the authenticated agent.
func WithAgentID(ctx context.Context, agentID string) context.Context {
	return context.WithValue(ctx, agentKey{}, agentID)
}

// AgentIDFromContext returns the authenticated agent, if any.
func AgentIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(agentKey{}).(string)
	return id, ok && id != ""
}

func agentID(ctx context.Context) (string, error) {
	id, ok := AgentIDFromContext(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id, nil
}

// RefreshMarketRate pulls the lending rate from the feed. On failure the
// previous rate stays in force.
func (s *Service) RefreshMarketRate(ctx context.Context) (ratefeed.Quote, error) {
	if s.rates == nil {
		return ratefeed.Quote{}, ErrRateUnavailable
	}
	q, err := s.rates.LendingRate(ctx)
	if err != nil {
		s.log.Warnf("Market rate refresh failed, keeping previous rate: %v", err)
		return ratefeed.Quote{}, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	s.market.Store(&q)
	s.log.Infof("Market lending rate set to %.4f (cash rate %.4f)", q.LendingRate, q.CashRate)
	return q, nil
}

// MarketRate returns the last refreshed quote.
func (s *Service) MarketRate() (ratefeed.Quote, bool) {
	q := s.market.Load()
	if q == nil {
		return ratefeed.Quote{}, false
	}
	return *q, true
}
