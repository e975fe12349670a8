package service

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/BinaryNexusLab/real-estate/internal/models"
	"github.com/BinaryNexusLab/real-estate/internal/utils"
)

const maxInvestmentPeriod = 50

// ListClients returns the authenticated agent's clients
func (s *Service) ListClients(ctx context.Context) ([]models.Client, error) {
	owner, err := agentID(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.ListClients(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if err := s.decryptNotes(&clients[i]); err != nil {
			return nil, err
		}
	}
	return clients, nil
}

// GetClient returns one client owned by the authenticated agent
func (s *Service) GetClient(ctx context.Context, id string) (*models.Client, error) {
	c, err := s.ownedClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decryptNotes(c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateClient adds a client to the authenticated agent's book
func (s *Service) CreateClient(ctx context.Context, in models.Client) (*models.Client, error) {
	owner, err := agentID(ctx)
	if err != nil {
		return nil, err
	}
	c := editable(in)
	c.AgentID = owner
	if err := validateClient(c); err != nil {
		return nil, err
	}
	if err := s.putClient(ctx, &c); err != nil {
		return nil, err
	}

	s.log.Infof("Client %s created for agent %s", c.ID, owner)
	return &c, nil
}

// UpdateClient replaces the editable fields of an existing client
func (s *Service) UpdateClient(ctx context.Context, id string, in models.Client) (*models.Client, error) {
	existing, err := s.ownedClient(ctx, id)
	if err != nil {
		return nil, err
	}
	c := editable(in)
	c.ID = existing.ID
	c.AgentID = existing.AgentID
	c.CreatedAt = existing.CreatedAt
	if err := validateClient(c); err != nil {
		return nil, err
	}
	if err := s.putClient(ctx, &c); err != nil {
		return nil, err
	}

	s.log.Infof("Client %s updated", c.ID)
	return &c, nil
}

// DeleteClient removes a client owned by the authenticated agent
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.ownedClient(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Client %s deleted", id)
	return nil
}

func (s *Service) ownedClient(ctx context.Context, id string) (*models.Client, error) {
	owner, err := agentID(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AgentID != owner {
		return nil, fmt.Errorf("client %s: %w", id, ErrForbidden)
	}
	return c, nil
}

// putClient stores c with its notes encrypted and leaves c holding plain
// notes.
func (s *Service) putClient(ctx context.Context, c *models.Client) error {
	plain := c.Notes
	if plain != "" {
		encrypted, err := utils.Encrypt(plain, s.key)
		if err != nil {
			return fmt.Errorf("failed to encrypt notes: %w", err)
		}
		c.Notes = encrypted
	}
	err := s.store.PutClient(ctx, c)
	c.Notes = plain
	return err
}

func (s *Service) decryptNotes(c *models.Client) error {
	if c.Notes == "" {
		return nil
	}
	plain, err := utils.Decrypt(c.Notes, s.key)
	if err != nil {
		return fmt.Errorf("failed to decrypt notes for client %s: %w", c.ID, err)
	}
	c.Notes = plain
	return nil
}

// editable copies the fields a caller may set.
func editable(in models.Client) models.Client {
	return models.Client{
		Name:              strings.TrimSpace(in.Name),
		Email:             normalizeEmail(in.Email),
		Status:            strings.TrimSpace(in.Status),
		Budget:            in.Budget,
		MinBudget:         in.MinBudget,
		MaxBudget:         in.MaxBudget,
		Deposit:           in.Deposit,
		Salary:            in.Salary,
		InvestmentGoal:    in.InvestmentGoal,
		PreferredLocation: strings.TrimSpace(in.PreferredLocation),
		InvestmentPeriod:  in.InvestmentPeriod,
		Bedrooms:          strings.TrimSpace(in.Bedrooms),
		Notes:             in.Notes,
	}
}

func validateClient(c models.Client) error {
	var problems []string
	if c.Name == "" {
		problems = append(problems, "name is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		problems = append(problems, "email is not a valid address")
	}
	for field, v := range map[string]float64{
		"budget":     c.Budget,
		"min_budget": c.MinBudget,
		"max_budget": c.MaxBudget,
		"deposit":    c.Deposit,
		"salary":     c.Salary,
	} {
		if v < 0 {
			problems = append(problems, field+" must not be negative")
		}
	}
	if c.MinBudget > 0 && c.MaxBudget > 0 && c.MinBudget > c.MaxBudget {
		problems = append(problems, "min_budget exceeds max_budget")
	}
	if !c.InvestmentGoal.Valid() {
		problems = append(problems, fmt.Sprintf("investment_goal %q is not recognised", c.InvestmentGoal))
	}
	if c.InvestmentPeriod < 0 || c.InvestmentPeriod > maxInvestmentPeriod {
		problems = append(problems, fmt.Sprintf("investment_period must be between 0 and %d years", maxInvestmentPeriod))
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}
