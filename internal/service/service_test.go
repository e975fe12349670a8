package service

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/analysis"
	"github.com/BinaryNexusLab/real-estate/internal/config"
	"github.com/BinaryNexusLab/real-estate/internal/dataset"
	"github.com/BinaryNexusLab/real-estate/internal/integrations/ratefeed"
	"github.com/BinaryNexusLab/real-estate/internal/models"
	"github.com/BinaryNexusLab/real-estate/internal/repository"
	"github.com/BinaryNexusLab/real-estate/internal/search"
	"github.com/BinaryNexusLab/real-estate/internal/utils/email"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type fakeRates struct {
	quote ratefeed.Quote
	err   error
}

func (f *fakeRates) LendingRate(context.Context) (ratefeed.Quote, error) {
	return f.quote, f.err
}

type fakeMailer struct {
	sent []email.Report
	err  error
}

func (f *fakeMailer) SendReport(r email.Report) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, r)
	return nil
}

type fixture struct {
	svc    *Service
	store  *repository.MemoryStore
	rates  *fakeRates
	mailer *fakeMailer
	cfg    *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	data, err := dataset.Default()
	if err != nil {
		t.Fatalf("dataset.Default() error: %v", err)
	}
	profiles, err := config.LoadAssumptions("")
	if err != nil {
		t.Fatalf("LoadAssumptions() error: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		store:  repository.NewMemoryStore(),
		rates:  &fakeRates{quote: ratefeed.Quote{CashRate: 0.041, Margin: 0.025, LendingRate: 0.066}},
		mailer: &fakeMailer{},
		cfg: &config.Config{
			JWTSecret:     "jwt-test-secret",
			HMACSecret:    "hmac-test-secret",
			EncryptionKey: testKey,
		},
	}
	f.svc, err = NewService(f.store, data, profiles, f.rates, f.mailer, log, f.cfg)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	return f
}

func (f *fixture) agent(t *testing.T, emailAddr string) context.Context {
	t.Helper()
	a, err := f.svc.Register(context.Background(), "Agent", emailAddr, "correct horse")
	if err != nil {
		t.Fatalf("Register(%s) error: %v", emailAddr, err)
	}
	return WithAgentID(context.Background(), a.ID)
}

func sampleClient() models.Client {
	return models.Client{
		Name:              "John Hansen",
		Email:             "john.hansen@example.com",
		Budget:            700000,
		Deposit:           125000,
		Salary:            100000,
		InvestmentGoal:    models.GoalCapitalAppreciation,
		PreferredLocation: "Botany, Hillsdale and Mascot",
		InvestmentPeriod:  10,
		Notes:             "PAYG 100K a year",
	}
}

func TestNewService_RejectsBadKey(t *testing.T) {
	_, err := NewService(repository.NewMemoryStore(), nil, nil, nil, nil, logrus.New(), &config.Config{EncryptionKey: "abcd"})
	if err == nil {
		t.Fatal("expected an error for a two byte key")
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	agent, err := f.svc.Register(ctx, "Sarah", " Sarah@Example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if agent.Email != "sarah@example.com" {
		t.Errorf("email should be normalised, got %q", agent.Email)
	}
	if agent.PasswordHash == "correct horse" || agent.PasswordHash == "" {
		t.Error("password should be stored hashed")
	}

	token, err := f.svc.Login(ctx, "sarah@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(f.cfg.JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != agent.ID {
		t.Errorf("token subject = %q, expected %q", claims.Subject, agent.ID)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != TokenTTL {
		t.Errorf("token lifetime = %s, expected %s", ttl, TokenTTL)
	}

	tests := []struct {
		description string
		email       string
		password    string
	}{
		{"wrong password", "sarah@example.com", "wrong horse"},
		{"unknown agent", "nobody@example.com", "correct horse"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if _, err := f.svc.Login(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestRegister_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.agent(t, "taken@example.com")

	tests := []struct {
		description string
		email       string
		password    string
		expected    error
	}{
		{"bad email", "not-an-email", "correct horse", ErrValidation},
		{"short password", "new@example.com", "abc", ErrValidation},
		{"duplicate", "TAKEN@example.com", "correct horse", repository.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if _, err := f.svc.Register(ctx, "", tt.email, tt.password); !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestLogin_DemoProvisionsAgent(t *testing.T) {
	f := newFixture(t)
	f.cfg.DemoLogin = true
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, "demo@example.com", "anything"); err != nil {
		t.Fatalf("demo Login() error: %v", err)
	}
	agent, err := f.store.FindAgentByEmail(ctx, "demo@example.com")
	if err != nil {
		t.Fatalf("demo agent was not stored: %v", err)
	}

	clients, err := f.svc.ListClients(WithAgentID(ctx, agent.ID))
	if err != nil {
		t.Fatalf("ListClients() error: %v", err)
	}
	seed, _ := repository.SeedClients()
	if len(clients) != len(seed) {
		t.Fatalf("expected %d demo clients, got %d", len(seed), len(clients))
	}
	if clients[0].Name != "Minh" || clients[0].Notes != seed[0].Notes {
		t.Errorf("first demo client = %s %q", clients[0].Name, clients[0].Notes)
	}

	stored, _ := f.store.GetClient(ctx, clients[0].ID)
	if stored.Notes == seed[0].Notes {
		t.Error("notes should be encrypted at rest")
	}

	// A second login reuses the agent and keeps the password from the first.
	if _, err := f.svc.Login(ctx, "demo@example.com", "anything"); err != nil {
		t.Errorf("second demo Login() error: %v", err)
	}
	if _, err := f.svc.Login(ctx, "demo@example.com", "something else"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	again, _ := f.svc.ListClients(WithAgentID(ctx, agent.ID))
	if len(again) != len(seed) {
		t.Errorf("demo clients were seeded twice: %d", len(again))
	}
}

func TestClientLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := f.agent(t, "sarah@example.com")

	created, err := f.svc.CreateClient(ctx, sampleClient())
	if err != nil {
		t.Fatalf("CreateClient() error: %v", err)
	}
	if created.ID == "" || created.AgentID == "" {
		t.Fatalf("created client is missing ids: %+v", created)
	}
	if created.Notes != "PAYG 100K a year" {
		t.Errorf("created client notes = %q", created.Notes)
	}

	got, err := f.svc.GetClient(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetClient() error: %v", err)
	}
	if got.Notes != "PAYG 100K a year" || got.Name != "John Hansen" {
		t.Errorf("GetClient() = %+v", got)
	}

	update := sampleClient()
	update.Budget = 750000
	update.Notes = "Partner now working"
	update.AgentID = "someone-else"
	updated, err := f.svc.UpdateClient(ctx, created.ID, update)
	if err != nil {
		t.Fatalf("UpdateClient() error: %v", err)
	}
	if updated.AgentID != created.AgentID {
		t.Errorf("update must not move the client to another agent")
	}
	if updated.Budget != 750000 || updated.Notes != "Partner now working" {
		t.Errorf("UpdateClient() = %+v", updated)
	}

	clients, err := f.svc.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients() error: %v", err)
	}
	if len(clients) != 1 || clients[0].Notes != "Partner now working" {
		t.Errorf("ListClients() = %+v", clients)
	}

	if err := f.svc.DeleteClient(ctx, created.ID); err != nil {
		t.Fatalf("DeleteClient() error: %v", err)
	}
	if _, err := f.svc.GetClient(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClients_ScopedToAgent(t *testing.T) {
	f := newFixture(t)
	owner := f.agent(t, "owner@example.com")
	other := f.agent(t, "other@example.com")

	c, err := f.svc.CreateClient(owner, sampleClient())
	if err != nil {
		t.Fatalf("CreateClient() error: %v", err)
	}

	if _, err := f.svc.GetClient(other, c.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetClient by another agent: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.UpdateClient(other, c.ID, sampleClient()); !errors.Is(err, ErrForbidden) {
		t.Errorf("UpdateClient by another agent: expected ErrForbidden, got %v", err)
	}
	if err := f.svc.DeleteClient(other, c.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteClient by another agent: expected ErrForbidden, got %v", err)
	}
	if list, _ := f.svc.ListClients(other); len(list) != 0 {
		t.Errorf("another agent sees %d clients", len(list))
	}
	if _, err := f.svc.ListClients(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated without an agent, got %v", err)
	}
}

func TestCreateClient_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := f.agent(t, "sarah@example.com")

	tests := []struct {
		description string
		mutate      func(*models.Client)
		fragment    string
	}{
		{"missing name", func(c *models.Client) { c.Name = "  " }, "name is required"},
		{"bad email", func(c *models.Client) { c.Email = "john" }, "email"},
		{"negative budget", func(c *models.Client) { c.Budget = -1 }, "budget must not be negative"},
		{"negative salary", func(c *models.Client) { c.Salary = -5 }, "salary must not be negative"},
		{"unknown goal", func(c *models.Client) { c.InvestmentGoal = "Lottery" }, "investment_goal"},
		{"inverted budget range", func(c *models.Client) { c.MinBudget, c.MaxBudget = 900000, 800000 }, "min_budget exceeds max_budget"},
		{"period too long", func(c *models.Client) { c.InvestmentPeriod = 80 }, "investment_period"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			c := sampleClient()
			tt.mutate(&c)
			_, err := f.svc.CreateClient(ctx, c)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.fragment) {
				t.Errorf("error %q does not mention %q", err, tt.fragment)
			}
		})
	}
}

func TestAssumptionsForClient(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		description string
		client      models.Client
		price       float64
		lvr         float64
		growth      float64
		years       int
	}{
		{
			description: "deposit sets the ratio",
			client:      models.Client{Deposit: 100000, InvestmentGoal: models.GoalCapitalAppreciation, InvestmentPeriod: 10},
			price:       500000, lvr: 0.8, growth: 0.05, years: 30,
		},
		{
			description: "small deposit is capped",
			client:      models.Client{Deposit: 1000, InvestmentGoal: models.GoalRentalYield},
			price:       1000000, lvr: 0.95, growth: 0.035, years: 30,
		},
		{
			description: "deposit covers the price",
			client:      models.Client{Deposit: 2250000, InvestmentGoal: models.GoalMixedPortfolio},
			price:       850000, lvr: 0, growth: 0.04, years: 30,
		},
		{
			description: "serviceable income",
			client:      models.Client{Salary: 170000, Budget: 700000, InvestmentGoal: models.GoalRentalYield},
			price:       650000, lvr: 0.8, growth: 0.035, years: 30,
		},
		{
			description: "unserviceable income",
			client:      models.Client{Salary: 70000, Budget: 650000, InvestmentGoal: models.GoalCapitalAppreciation},
			price:       650000, lvr: 0.7, growth: 0.05, years: 30,
		},
		{
			description: "long horizon stretches the loan",
			client:      models.Client{Deposit: 100000, InvestmentGoal: models.GoalMixedPortfolio, InvestmentPeriod: 35},
			price:       500000, lvr: 0.8, growth: 0.04, years: 35,
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			a := f.svc.AssumptionsForClient(tt.client, tt.price)
			if math.Abs(a.LoanToValueRatio-tt.lvr) > 1e-9 {
				t.Errorf("LVR = %.4f, expected %.4f", a.LoanToValueRatio, tt.lvr)
			}
			if a.AppreciationRate != tt.growth {
				t.Errorf("appreciation = %.4f, expected %.4f", a.AppreciationRate, tt.growth)
			}
			if a.LoanPeriodYears != tt.years {
				t.Errorf("loan period = %d, expected %d", a.LoanPeriodYears, tt.years)
			}
			if a.LoanRate != 0.07 {
				t.Errorf("loan rate before any refresh = %.4f, expected 0.07", a.LoanRate)
			}
		})
	}
}

func TestRefreshMarketRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, ok := f.svc.MarketRate(); ok {
		t.Fatal("no market rate should be loaded yet")
	}
	q, err := f.svc.RefreshMarketRate(ctx)
	if err != nil {
		t.Fatalf("RefreshMarketRate() error: %v", err)
	}
	if q.LendingRate != 0.066 {
		t.Errorf("lending rate = %.4f, expected 0.066", q.LendingRate)
	}
	a := f.svc.AssumptionsForClient(sampleClient(), 600000)
	if a.LoanRate != 0.066 {
		t.Errorf("client loan rate = %.4f, expected the market rate", a.LoanRate)
	}

	f.rates.err = errors.New("feed down")
	if _, err := f.svc.RefreshMarketRate(ctx); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("expected ErrRateUnavailable, got %v", err)
	}
	if kept, ok := f.svc.MarketRate(); !ok || kept.LendingRate != 0.066 {
		t.Errorf("a failed refresh should keep the previous rate, got %+v", kept)
	}
}

func TestRefreshMarketRate_NoSource(t *testing.T) {
	f := newFixture(t)
	f.svc.rates = nil
	if _, err := f.svc.RefreshMarketRate(context.Background()); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestListProperties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.svc.ListProperties(ctx, search.Criteria{}, search.PriorityCompositeScore, search.OrderDesc)
	if err != nil {
		t.Fatalf("ListProperties() error: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("expected every listing, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Analysis.InvestmentScore > all[i-1].Analysis.InvestmentScore {
			t.Errorf("listings not ordered by score at %d", i)
		}
	}
	for _, r := range all {
		if r.Analysis.LoanRate != 0.06 || r.Analysis.LoanPeriodYears != 25 {
			t.Errorf("listing %s not analysed with the market profile", r.Property.ID)
		}
	}

	houses, err := f.svc.ListProperties(ctx, search.Criteria{PropertyType: "House"}, search.PriorityCompositeScore, search.OrderDesc)
	if err != nil {
		t.Fatalf("ListProperties(House) error: %v", err)
	}
	for _, r := range houses {
		if r.Property.PropertyType != "House" {
			t.Errorf("unexpected %s in house search", r.Property.PropertyType)
		}
	}
	if len(houses) != 2 {
		t.Errorf("expected 2 houses, got %d", len(houses))
	}
}

func TestAnalyzeProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.AnalyzeProperty(ctx, "1")
	if err != nil {
		t.Fatalf("AnalyzeProperty() error: %v", err)
	}
	if r.Property.Suburb != "Mascot" || r.Analysis.PurchasePrice != 685000 {
		t.Errorf("AnalyzeProperty(1) = %s %.0f", r.Property.Suburb, r.Analysis.PurchasePrice)
	}
	if r.Rating != analysis.RatingForScore(r.Analysis.InvestmentScore) {
		t.Errorf("rating does not match score")
	}

	if _, err := f.svc.AnalyzeProperty(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExceptional(t *testing.T) {
	f := newFixture(t)
	list, err := f.svc.Exceptional(context.Background())
	if err != nil {
		t.Fatalf("Exceptional() error: %v", err)
	}
	if len(list) > search.ExceptionalLimit {
		t.Errorf("got %d listings, limit is %d", len(list), search.ExceptionalLimit)
	}
	for _, r := range list {
		if r.Analysis.InvestmentScore < analysis.ExceptionalScore {
			t.Errorf("listing %s scores %d", r.Property.ID, r.Analysis.InvestmentScore)
		}
	}
}

func TestSearchForClient(t *testing.T) {
	f := newFixture(t)
	ctx := f.agent(t, "sarah@example.com")
	c, err := f.svc.CreateClient(ctx, sampleClient())
	if err != nil {
		t.Fatalf("CreateClient() error: %v", err)
	}

	ranked, err := f.svc.SearchForClient(ctx, c.ID, search.Criteria{}, search.PriorityCompositeScore, search.OrderDesc)
	if err != nil {
		t.Fatalf("SearchForClient() error: %v", err)
	}
	suburbs := map[string]bool{}
	for _, r := range ranked {
		suburbs[r.Property.Suburb] = true
		if r.Property.Price > c.Budget {
			t.Errorf("listing %s over budget", r.Property.ID)
		}
		if r.Analysis.LoanRate != 0.07 || r.Analysis.AppreciationRate != 0.05 {
			t.Errorf("listing %s not analysed with the client's assumptions", r.Property.ID)
		}
	}
	for _, want := range []string{"Mascot", "Botany", "Hillsdale"} {
		if !suburbs[want] {
			t.Errorf("expected a listing in %s", want)
		}
	}
	if len(ranked) != 3 {
		t.Errorf("expected 3 listings, got %d", len(ranked))
	}

	narrowed, err := f.svc.SearchForClient(ctx, c.ID, search.Criteria{MaxPrice: 650000}, search.PriorityBreakEven, search.OrderDesc)
	if err != nil {
		t.Fatalf("SearchForClient(max price) error: %v", err)
	}
	if len(narrowed) != 1 || narrowed[0].Property.Suburb != "Botany" {
		t.Errorf("expected only the Botany listing, got %d", len(narrowed))
	}

	tighter, err := f.svc.SearchForClient(ctx, c.ID, search.Criteria{Budget: 650000}, search.PriorityBreakEven, search.OrderDesc)
	if err != nil {
		t.Fatalf("SearchForClient(budget) error: %v", err)
	}
	if len(tighter) != 1 || tighter[0].Property.Suburb != "Botany" {
		t.Errorf("budget override ignored, got %d listings", len(tighter))
	}
}

func TestAnalyzeForClient(t *testing.T) {
	f := newFixture(t)
	ctx := f.agent(t, "sarah@example.com")
	c, _ := f.svc.CreateClient(ctx, sampleClient())

	ca, err := f.svc.AnalyzeForClient(ctx, c.ID, "1")
	if err != nil {
		t.Fatalf("AnalyzeForClient() error: %v", err)
	}
	wantLVR := 1 - 125000.0/685000.0
	if math.Abs(ca.Assumptions.LoanToValueRatio-wantLVR) > 1e-9 {
		t.Errorf("LVR = %.6f, expected %.6f", ca.Assumptions.LoanToValueRatio, wantLVR)
	}
	if math.Abs(ca.Analysis.DownPayment-125000) > 0.01 {
		t.Errorf("down payment = %.2f, expected the client's deposit", ca.Analysis.DownPayment)
	}
	if ca.YieldRating != analysis.YieldRating(ca.Analysis.GrossYield) {
		t.Errorf("yield rating = %q", ca.YieldRating)
	}

	if _, err := f.svc.AnalyzeForClient(ctx, c.ID, "404"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown listing, got %v", err)
	}
}

func TestProjectionForClient(t *testing.T) {
	f := newFixture(t)
	ctx := f.agent(t, "sarah@example.com")
	c, _ := f.svc.CreateClient(ctx, sampleClient())

	tests := []struct {
		years    int
		expected int
	}{
		{0, 11},
		{5, 6},
		{-3, 11},
	}
	for _, tt := range tests {
		points, err := f.svc.ProjectionForClient(ctx, c.ID, "2", tt.years)
		if err != nil {
			t.Fatalf("ProjectionForClient(%d) error: %v", tt.years, err)
		}
		if len(points) != tt.expected {
			t.Errorf("ProjectionForClient(%d) gave %d points, expected %d", tt.years, len(points), tt.expected)
		}
	}

	if _, err := f.svc.ProjectionForClient(ctx, c.ID, "2", 200); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for a 200 year horizon, got %v", err)
	}
}

func TestAgentIDFromContext(t *testing.T) {
	if _, ok := AgentIDFromContext(context.Background()); ok {
		t.Error("empty context should carry no agent")
	}
	if _, ok := AgentIDFromContext(WithAgentID(context.Background(), "")); ok {
		t.Error("blank agent id should not count")
	}
	if id, ok := AgentIDFromContext(WithAgentID(context.Background(), "a-1")); !ok || id != "a-1" {
		t.Errorf("AgentIDFromContext() = %q, %v", id, ok)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
