package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/models"
	"github.com/google/uuid"
)

// MemoryStore keeps everything in process. It backs demo runs without a
// database and the service tests.
type MemoryStore struct {
	mu           sync.RWMutex
	agents       map[string]models.Agent
	agentByEmail map[string]string
	clients      map[string]models.Client
	inserted     map[string]uint64
	seq          uint64
	now          func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		agents:       make(map[string]models.Agent),
		agentByEmail: make(map[string]string),
		clients:      make(map[string]models.Client),
		inserted:     make(map[string]uint64),
		now:          time.Now,
	}
}

func (m *MemoryStore) CreateAgent(_ context.Context, agent *models.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.agentByEmail[agent.Email]; taken {
		return fmt.Errorf("agent %s: %w", agent.Email, ErrConflict)
	}
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	agent.CreatedAt = m.now().UTC()
	m.agents[agent.ID] = *agent
	m.agentByEmail[agent.Email] = agent.ID
	return nil
}

func (m *MemoryStore) FindAgentByEmail(_ context.Context, email string) (*models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.agentByEmail[email]
	if !ok {
		return nil, fmt.Errorf("agent %s: %w", email, ErrNotFound)
	}
	agent := m.agents[id]
	return &agent, nil
}

func (m *MemoryStore) GetClient(_ context.Context, id string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (m *MemoryStore) ListClients(_ context.Context, agentID string) ([]models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Client
	for _, c := range m.clients {
		if c.AgentID == agentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.inserted[out[i].ID] < m.inserted[out[j].ID]
	})
	return out, nil
}

func (m *MemoryStore) PutClient(_ context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := m.now().UTC()
	if existing, ok := m.clients[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
		c.AgentID = existing.AgentID
	} else {
		c.CreatedAt = now
		m.seq++
		m.inserted[c.ID] = m.seq
	}
	c.UpdatedAt = now
	m.clients[c.ID] = *c
	return nil
}

func (m *MemoryStore) DeleteClient(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	delete(m.clients, id)
	delete(m.inserted, id)
	return nil
}
