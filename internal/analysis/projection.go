package analysis

import (
	"math"

	"github.com/shopspring/decimal"
)

// YearProjection is one point on the value/debt chart. Amounts are rounded to
// cents.
type YearProjection struct {
	Year               int             `json:"year"`
	PropertyValue      decimal.Decimal `json:"property_value"`
	RemainingDebt      decimal.Decimal `json:"remaining_debt"`
	Equity             decimal.Decimal `json:"equity"`
	CumulativeCashFlow decimal.Decimal `json:"cumulative_cash_flow"`
}

// Project expands an analysis into yearly points from year 0 to years
// inclusive, using the same growth and amortization as Analyze.
func Project(a PropertyAnalysis, years int) []YearProjection {
	if years < 0 {
		return nil
	}

	monthlyRate := a.LoanRate / 12
	totalPayments := a.LoanPeriodYears * 12
	cashFlow := decimal.NewFromFloat(a.AnnualNetCashFlow)

	points := make([]YearProjection, 0, years+1)
	for year := 0; year <= years; year++ {
		debt := a.LoanAmount
		if !a.InterestOnly {
			debt = RemainingBalance(a.LoanAmount, monthlyRate, totalPayments, year*12)
		}
		value := decimal.NewFromFloat(a.PurchasePrice * math.Pow(1+a.AppreciationRate, float64(year))).Round(2)
		remaining := decimal.NewFromFloat(debt).Round(2)

		points = append(points, YearProjection{
			Year:               year,
			PropertyValue:      value,
			RemainingDebt:      remaining,
			Equity:             value.Sub(remaining),
			CumulativeCashFlow: cashFlow.Mul(decimal.NewFromInt(int64(year))).Round(2),
		})
	}
	return points
}
