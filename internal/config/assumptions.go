package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BinaryNexusLab/real-estate/internal/analysis"
	"gopkg.in/yaml.v3"
)

//go:embed assumptions.yaml
var defaultAssumptionsYAML []byte

// LendingRules decide the loan-to-value ratio offered to a client.
type LendingRules struct {
	MaxLoanToValue           float64 `yaml:"max_loan_to_value"`
	ServiceableLoanToValue   float64 `yaml:"serviceable_loan_to_value"`
	UnserviceableLoanToValue float64 `yaml:"unserviceable_loan_to_value"`
	IncomeMultiple           float64 `yaml:"income_multiple"`
	RepaymentShare           float64 `yaml:"repayment_share"`
}

// AssumptionProfiles are the named assumption sets used across the service.
type AssumptionProfiles struct {
	Market           analysis.Assumptions `yaml:"market"`
	Client           analysis.Assumptions `yaml:"client"`
	GoalAppreciation map[string]float64   `yaml:"goal_appreciation"`
	Lending          LendingRules         `yaml:"lending"`
}

// LoadAssumptions reads the embedded profiles, then overlays the YAML file at
// path when one is given. Keys missing from the file keep their defaults. The
// merged market and client profiles must pass analysis validation.
func LoadAssumptions(path string) (*AssumptionProfiles, error) {
	var p AssumptionProfiles
	if err := yaml.Unmarshal(defaultAssumptionsYAML, &p); err != nil {
		return nil, fmt.Errorf("failed to parse default assumptions: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read assumptions file: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse assumptions file %s: %w", path, err)
		}
	}

	if err := analysis.ValidateAssumptions(p.Market); err != nil {
		return nil, fmt.Errorf("market profile: %w", err)
	}
	if err := analysis.ValidateAssumptions(p.Client); err != nil {
		return nil, fmt.Errorf("client profile: %w", err)
	}
	return &p, nil
}
