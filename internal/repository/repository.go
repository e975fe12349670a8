package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BinaryNexusLab/real-estate/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Repository is the Postgres Store
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS crm`,
	`CREATE TABLE IF NOT EXISTS crm.agents (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS crm.clients (
		id                 TEXT PRIMARY KEY,
		agent_id           TEXT NOT NULL REFERENCES crm.agents(id) ON DELETE CASCADE,
		name               TEXT NOT NULL,
		email              TEXT NOT NULL,
		status             TEXT NOT NULL DEFAULT '',
		budget             DOUBLE PRECISION NOT NULL,
		min_budget         DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_budget         DOUBLE PRECISION NOT NULL DEFAULT 0,
		deposit            DOUBLE PRECISION NOT NULL DEFAULT 0,
		salary             DOUBLE PRECISION NOT NULL DEFAULT 0,
		investment_goal    TEXT NOT NULL,
		preferred_location TEXT NOT NULL DEFAULT '',
		investment_period  INTEGER NOT NULL DEFAULT 0,
		bedrooms           TEXT NOT NULL DEFAULT '',
		notes              TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS clients_agent_id_idx ON crm.clients (agent_id)`,
}

// Migrate creates the crm schema if it is missing.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// CreateAgent creates a new agent in the database
func (r *Repository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	query := `
		INSERT INTO crm.agents (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, agent.ID, agent.Email, agent.Name, agent.PasswordHash).
		Scan(&agent.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("agent %s: %w", agent.Email, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// FindAgentByEmail retrieves an agent by email
func (r *Repository) FindAgentByEmail(ctx context.Context, email string) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM crm.agents
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&agent.ID, &agent.Email, &agent.Name, &agent.PasswordHash, &agent.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("agent %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find agent: %w", err)
	}
	return agent, nil
}

const clientColumns = `id, agent_id, name, email, status, budget, min_budget, max_budget, deposit, salary,
		investment_goal, preferred_location, investment_period, bedrooms, notes, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (*models.Client, error) {
	c := &models.Client{}
	err := row.Scan(&c.ID, &c.AgentID, &c.Name, &c.Email, &c.Status, &c.Budget, &c.MinBudget, &c.MaxBudget,
		&c.Deposit, &c.Salary, &c.InvestmentGoal, &c.PreferredLocation, &c.InvestmentPeriod, &c.Bedrooms,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetClient retrieves a client by id
func (r *Repository) GetClient(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM crm.clients WHERE id = $1`
	c, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// ListClients retrieves an agent's clients, oldest first
func (r *Repository) ListClients(ctx context.Context, agentID string) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM crm.clients WHERE agent_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// PutClient inserts or replaces a client. Timestamps are set by the database.
func (r *Repository) PutClient(ctx context.Context, c *models.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
		INSERT INTO crm.clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, status = EXCLUDED.status,
			budget = EXCLUDED.budget, min_budget = EXCLUDED.min_budget, max_budget = EXCLUDED.max_budget,
			deposit = EXCLUDED.deposit, salary = EXCLUDED.salary, investment_goal = EXCLUDED.investment_goal,
			preferred_location = EXCLUDED.preferred_location, investment_period = EXCLUDED.investment_period,
			bedrooms = EXCLUDED.bedrooms, notes = EXCLUDED.notes, updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.AgentID, c.Name, c.Email, c.Status, c.Budget, c.MinBudget,
		c.MaxBudget, c.Deposit, c.Salary, c.InvestmentGoal, c.PreferredLocation, c.InvestmentPeriod, c.Bedrooms,
		c.Notes).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to put client: %w", err)
	}
	return nil
}

// DeleteClient removes a client by id
func (r *Repository) DeleteClient(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM crm.clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return nil
}
