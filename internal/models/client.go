package models

import "time"

// InvestmentGoal is what a client wants out of a purchase.
type InvestmentGoal string

const (
	GoalCapitalAppreciation InvestmentGoal = "Capital Appreciation"
	GoalRentalYield         InvestmentGoal = "Rental Yield"
	GoalMixedPortfolio      InvestmentGoal = "Mixed Portfolio"
)

// Valid reports whether g is one of the known goals.
func (g InvestmentGoal) Valid() bool {
	switch g {
	case GoalCapitalAppreciation, GoalRentalYield, GoalMixedPortfolio:
		return true
	}
	return false
}

// Client is a buyer managed by an agent
type Client struct {
	ID                string         `json:"id"`
	AgentID           string         `json:"agent_id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Status            string         `json:"status,omitempty"`
	Budget            float64        `json:"budget"`
	MinBudget         float64        `json:"min_budget,omitempty"`
	MaxBudget         float64        `json:"max_budget,omitempty"`
	Deposit           float64        `json:"deposit,omitempty"`
	Salary            float64        `json:"salary"`
	InvestmentGoal    InvestmentGoal `json:"investment_goal"`
	PreferredLocation string         `json:"preferred_location"`
	InvestmentPeriod  int            `json:"investment_period"`
	Bedrooms          string         `json:"bedrooms,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
