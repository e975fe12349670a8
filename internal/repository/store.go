package repository

import (
	"context"
	"errors"

	"github.com/BinaryNexusLab/real-estate/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
)

// Store persists agents and their clients. Clients are stored and fetched
// whole by id.
type Store interface {
	CreateAgent(ctx context.Context, agent *models.Agent) error
	FindAgentByEmail(ctx context.Context, email string) (*models.Agent, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context, agentID string) ([]models.Client, error)
	PutClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id string) error
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MemoryStore)(nil)
)
