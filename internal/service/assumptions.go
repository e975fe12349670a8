package service

import (
	"github.com/BinaryNexusLab/real-estate/internal/analysis"
	"github.com/BinaryNexusLab/real-estate/internal/config"
	"github.com/BinaryNexusLab/real-estate/internal/models"
)

// AppreciationForGoal is the growth rate assumed for a client's goal. Goals
// without their own rate use the client profile's.
func (s *Service) AppreciationForGoal(goal models.InvestmentGoal) float64 {
	if rate, ok := s.profiles.GoalAppreciation[string(goal)]; ok {
		return rate
	}
	return s.profiles.Client.AppreciationRate
}

// Serviceable reports whether a client's income comfortably covers
// repayments on their budget.
func Serviceable(c models.Client, rules config.LendingRules) bool {
	if rules.IncomeMultiple <= 0 {
		return false
	}
	return c.Salary/rules.IncomeMultiple > c.Budget*rules.RepaymentShare
}

// LoanToValue is the borrowing ratio offered to a client for a purchase at
// price. A deposit fixes the ratio directly, capped at the lender maximum.
func LoanToValue(c models.Client, price float64, rules config.LendingRules) float64 {
	if c.Deposit > 0 && price > 0 {
		lvr := 1 - c.Deposit/price
		if lvr < 0 {
			return 0
		}
		if lvr > rules.MaxLoanToValue {
			return rules.MaxLoanToValue
		}
		return lvr
	}
	if Serviceable(c, rules) {
		return rules.ServiceableLoanToValue
	}
	return rules.UnserviceableLoanToValue
}

// AssumptionsForClient derives the analysis assumptions for a client buying
// at price. The live market rate replaces the profile's rate once loaded.
func (s *Service) AssumptionsForClient(c models.Client, price float64) analysis.Assumptions {
	a := s.profiles.Client
	a.AppreciationRate = s.AppreciationForGoal(c.InvestmentGoal)
	a.LoanToValueRatio = LoanToValue(c, price, s.profiles.Lending)
	if c.InvestmentPeriod > a.LoanPeriodYears {
		a.LoanPeriodYears = c.InvestmentPeriod
	}
	if q, ok := s.MarketRate(); ok {
		a.LoanRate = q.LendingRate
	}
	return a
}

func (s *Service) marketAssumptions(models.Property) analysis.Assumptions {
	return s.profiles.Market
}

func (s *Service) clientAssumptions(c models.Client) func(models.Property) analysis.Assumptions {
	return func(p models.Property) analysis.Assumptions {
		return s.AssumptionsForClient(c, p.Price)
	}
}
