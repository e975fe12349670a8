// Package analysis turns a property's price, rent and running costs into the
// investment metrics shown to clients: repayments, cash flow, yields,
// break-even, capital growth, ROI and a 0-100 composite score.
//
// Everything here is a pure function of its arguments. Analyze may be called
// concurrently without coordination.
package analysis

import (
	"fmt"
	"math"
)

// Analyze computes the full metrics record for one property under one set of
// assumptions.
//
// Break-even follows the shortfall policy: when rent (plus any tax refund)
// already covers outgoings and repayments the period is zero, otherwise it is
// the number of months of income needed to cover the annual shortfall. With no
// rental income at all it is NoIncomeSentinel years.
//
// The score starts at 50 and adds tiered bonuses for gross yield, five-year
// ROI, debt service and monthly cash flow, clamped to [0, 100].
func Analyze(in PropertyFinancialInput, a Assumptions) (PropertyAnalysis, error) {
	if err := validate(in, a); err != nil {
		return PropertyAnalysis{}, err
	}

	price := in.PurchasePrice
	loanAmount := price * a.LoanToValueRatio
	downPayment := price - loanAmount
	costs := in.Outgoings.Resolve(price)

	monthlyRate := a.LoanRate / 12
	totalPayments := a.LoanPeriodYears * 12
	monthlyInterest := loanAmount * a.LoanRate / 12
	monthlyMortgage := monthlyInterest
	if !a.InterestOnly {
		monthlyMortgage = MonthlyPayment(loanAmount, monthlyRate, totalPayments)
	}
	// First-period split, not a full schedule.
	monthlyPrincipal := monthlyMortgage - monthlyInterest

	annualRentalIncome := in.WeeklyRent * 52
	monthlyRentalIncome := annualRentalIncome / 12
	annualOutgoings := in.AnnualMaintenanceCost + costs.Total()
	monthlyExpenses := annualOutgoings/12 + monthlyMortgage
	monthlyNetCashFlow := monthlyRentalIncome + a.TaxRefund/12 - monthlyExpenses
	annualNetCashFlow := monthlyNetCashFlow * 12
	totalAnnualExpenses := annualOutgoings + monthlyMortgage*12

	grossRent := annualRentalIncome / price
	netYield := 0.0
	if downPayment > 0 {
		netYield = annualNetCashFlow / downPayment * 100
	}

	breakEvenMonths := breakEven(annualRentalIncome, a.TaxRefund, totalAnnualExpenses)

	remainingLoan := func(years int) float64 {
		if a.InterestOnly {
			return loanAmount
		}
		return RemainingBalance(loanAmount, monthlyRate, totalPayments, years*12)
	}
	projected := func(years int) float64 {
		return price * math.Pow(1+a.AppreciationRate, float64(years))
	}
	roi := func(capitalGain, remaining float64, years int) float64 {
		if downPayment <= 0 {
			return 0
		}
		totalReturn := capitalGain + annualNetCashFlow*float64(years) + (loanAmount - remaining)
		return totalReturn / downPayment * 100
	}

	value5, value10 := projected(5), projected(10)
	gain5, gain10 := value5-price, value10-price
	remaining1, remaining5, remaining10 := remainingLoan(1), remainingLoan(5), remainingLoan(10)

	debtServiceRatio := NoIncomeSentinel
	if annualRentalIncome > 0 {
		debtServiceRatio = monthlyMortgage * 12 / annualRentalIncome
	}

	res := PropertyAnalysis{
		PurchasePrice:    price,
		LoanAmount:       loanAmount,
		LoanRate:         a.LoanRate,
		LoanPeriodYears:  a.LoanPeriodYears,
		LoanToValueRatio: a.LoanToValueRatio,
		InterestOnly:     a.InterestOnly,
		AppreciationRate: a.AppreciationRate,
		DownPayment:      downPayment,

		AnnualRentalIncome:    annualRentalIncome,
		MonthlyRentalIncome:   monthlyRentalIncome,
		TaxRefund:             a.TaxRefund,
		AnnualMaintenanceCost: in.AnnualMaintenanceCost,
		AnnualRates:           costs.CouncilRates,
		AnnualInsurance:       costs.Insurance,
		AnnualBodyCorp:        costs.BodyCorp,
		AnnualWater:           costs.Water,
		AnnualOther:           costs.Other,
		AnnualInterest:        monthlyInterest * 12,
		AnnualPrincipal:       monthlyPrincipal * 12,
		TotalAnnualExpenses:   totalAnnualExpenses,

		MonthlyMortgage:    monthlyMortgage,
		MonthlyPrincipal:   monthlyPrincipal,
		MonthlyInterest:    monthlyInterest,
		MonthlyExpenses:    monthlyExpenses,
		MonthlyNetCashFlow: monthlyNetCashFlow,
		AnnualNetCashFlow:  annualNetCashFlow,

		GrossRent:  grossRent,
		GrossYield: grossRent * 100,
		NetYield:   netYield,

		BreakEvenMonths: breakEvenMonths,
		BreakEvenYears:  float64(breakEvenMonths) / 12,

		ProjectedValueYear5:  value5,
		ProjectedValueYear10: value10,
		CapitalGainYear5:     gain5,
		CapitalGainYear10:    gain10,
		RemainingLoanYear1:   remaining1,
		RemainingLoanYear5:   remaining5,
		RemainingLoanYear10:  remaining10,
		ROIYear5:             roi(gain5, remaining5, 5),
		ROIYear10:            roi(gain10, remaining10, 10),

		DebtServiceRatio: debtServiceRatio,
	}
	res.InvestmentScore = Score(res)
	return res, nil
}

// breakEven returns the months of income needed to cover one year's shortfall,
// capped at the no-income sentinel.
func breakEven(annualRentalIncome, taxRefund, totalAnnualExpenses float64) int {
	maxMonths := int(NoIncomeSentinel) * 12
	if annualRentalIncome <= 0 {
		return maxMonths
	}
	income := annualRentalIncome + taxRefund
	if income >= totalAnnualExpenses {
		return 0
	}
	months := math.Ceil((totalAnnualExpenses - income) / (income / 12))
	if months > float64(maxMonths) {
		return maxMonths
	}
	return int(months)
}

// Score is the additive composite score for an analysis.
func Score(a PropertyAnalysis) int {
	score := 50

	switch {
	case a.GrossYield > 5:
		score += 15
	case a.GrossYield > 4:
		score += 10
	case a.GrossYield > 3:
		score += 5
	}

	switch {
	case a.ROIYear5 > 25:
		score += 15
	case a.ROIYear5 > 15:
		score += 10
	case a.ROIYear5 > 10:
		score += 5
	}

	switch {
	case a.DebtServiceRatio < 0.5:
		score += 10
	case a.DebtServiceRatio < 0.6:
		score += 5
	}

	switch {
	case a.MonthlyNetCashFlow > 0:
		score += 10
	case a.MonthlyNetCashFlow > -200:
		score += 5
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// MaxLoanPeriodYears is the longest loan term Analyze accepts.
const MaxLoanPeriodYears = 100

func validate(in PropertyFinancialInput, a Assumptions) error {
	switch {
	case !finite(in.PurchasePrice) || in.PurchasePrice <= 0:
		return invalid("purchase_price", "must be a positive amount")
	case !finite(in.WeeklyRent) || in.WeeklyRent < 0:
		return invalid("weekly_rent", "must be a non-negative amount")
	case !finite(in.AnnualMaintenanceCost) || in.AnnualMaintenanceCost < 0:
		return invalid("annual_maintenance_cost", "must be a non-negative amount")
	}
	if err := ValidateAssumptions(a); err != nil {
		return err
	}

	items := []struct {
		field string
		value *float64
	}{
		{"council_rates", in.Outgoings.CouncilRates},
		{"body_corp", in.Outgoings.BodyCorp},
		{"water", in.Outgoings.Water},
		{"other", in.Outgoings.Other},
	}
	for _, it := range items {
		if it.value != nil && (!finite(*it.value) || *it.value < 0) {
			return invalid(it.field, "must be a non-negative amount")
		}
	}
	return nil
}

// ValidateAssumptions reports the first assumption Analyze would reject, as an
// *InputError wrapping ErrInvalidInput.
func ValidateAssumptions(a Assumptions) error {
	switch {
	case !finite(a.LoanRate) || a.LoanRate < 0 || a.LoanRate >= 1:
		return invalid("loan_rate", "must be a fraction in [0, 1)")
	case a.LoanPeriodYears <= 0 || a.LoanPeriodYears > MaxLoanPeriodYears:
		return invalid("loan_period_years", fmt.Sprintf("must be between 1 and %d", MaxLoanPeriodYears))
	case !finite(a.LoanToValueRatio) || a.LoanToValueRatio < 0 || a.LoanToValueRatio > 1:
		return invalid("loan_to_value_ratio", "must be in [0, 1]")
	case !finite(a.AppreciationRate) || a.AppreciationRate <= -1 || a.AppreciationRate > 1:
		return invalid("appreciation_rate", "must be in (-1, 1]")
	case !finite(a.TaxRefund) || a.TaxRefund < 0:
		return invalid("tax_refund", "must be a non-negative amount")
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
