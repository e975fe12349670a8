package repository

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/BinaryNexusLab/real-estate/internal/models"
)

//go:embed clients.json
var seedClientsJSON []byte

// SeedClients returns the demo client book. The records carry no id or agent;
// callers assign both when provisioning a demo agent.
func SeedClients() ([]models.Client, error) {
	var clients []models.Client
	if err := json.Unmarshal(seedClientsJSON, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse seed clients: %w", err)
	}
	return clients, nil
}
