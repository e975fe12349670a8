package analysis

// Fallback outgoings as a fraction of the purchase price.
const (
	CouncilRatesRate = 0.004
	BodyCorpRate     = 0.008
	InsuranceRate    = 0.005
)

// Sentinel reported instead of an unbounded ratio when there is no rental income.
const NoIncomeSentinel = 999.0

// PropertyFinancialInput holds the figures the calculator needs about a property.
type PropertyFinancialInput struct {
	PurchasePrice         float64   `json:"purchase_price"`
	WeeklyRent            float64   `json:"weekly_rent"`
	AnnualMaintenanceCost float64   `json:"annual_maintenance_cost"`
	Outgoings             Outgoings `json:"outgoings"`
}

// Outgoings are optional itemized annual costs. A nil field falls back to its
// estimate when resolved.
type Outgoings struct {
	CouncilRates *float64 `json:"council_rates,omitempty"`
	BodyCorp     *float64 `json:"body_corp,omitempty"`
	Water        *float64 `json:"water,omitempty"`
	Other        *float64 `json:"other,omitempty"`
}

// ResolvedOutgoings are the annual costs actually used in an analysis.
type ResolvedOutgoings struct {
	CouncilRates float64
	BodyCorp     float64
	Insurance    float64
	Water        float64
	Other        float64
}

// Total sums every resolved outgoing.
func (r ResolvedOutgoings) Total() float64 {
	return r.CouncilRates + r.BodyCorp + r.Insurance + r.Water + r.Other
}

// Resolve applies itemized overrides, falling back to percentage-of-price
// estimates. Insurance is always estimated.
func (o Outgoings) Resolve(price float64) ResolvedOutgoings {
	return ResolvedOutgoings{
		CouncilRates: valueOr(o.CouncilRates, price*CouncilRatesRate),
		BodyCorp:     valueOr(o.BodyCorp, price*BodyCorpRate),
		Insurance:    price * InsuranceRate,
		Water:        valueOr(o.Water, 0),
		Other:        valueOr(o.Other, 0),
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// Amount is a convenience for building Outgoings literals.
func Amount(v float64) *float64 {
	return &v
}

// Assumptions are the financing and growth settings an analysis runs under.
type Assumptions struct {
	LoanRate         float64 `json:"loan_rate" yaml:"loan_rate"`
	LoanPeriodYears  int     `json:"loan_period_years" yaml:"loan_period_years"`
	AppreciationRate float64 `json:"appreciation_rate" yaml:"appreciation_rate"`
	LoanToValueRatio float64 `json:"loan_to_value_ratio" yaml:"loan_to_value_ratio"`
	TaxRefund        float64 `json:"tax_refund" yaml:"tax_refund"`
	InterestOnly     bool    `json:"interest_only" yaml:"interest_only"`
}

// DefaultAssumptions mirrors the client analysis defaults: 7% over 30 years,
// 4% growth, 80% LVR.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		LoanRate:         0.07,
		LoanPeriodYears:  30,
		AppreciationRate: 0.04,
		LoanToValueRatio: 0.8,
	}
}

// PropertyAnalysis is the result of Analyze. It is a value; nothing mutates it
// after it is returned.
type PropertyAnalysis struct {
	PurchasePrice    float64 `json:"purchase_price"`
	LoanAmount       float64 `json:"loan_amount"`
	LoanRate         float64 `json:"loan_rate"`
	LoanPeriodYears  int     `json:"loan_period_years"`
	LoanToValueRatio float64 `json:"loan_to_value_ratio"`
	InterestOnly     bool    `json:"interest_only"`
	AppreciationRate float64 `json:"appreciation_rate"`
	DownPayment      float64 `json:"down_payment"`

	AnnualRentalIncome    float64 `json:"annual_rental_income"`
	MonthlyRentalIncome   float64 `json:"monthly_rental_income"`
	TaxRefund             float64 `json:"tax_refund"`
	AnnualMaintenanceCost float64 `json:"annual_maintenance_cost"`
	AnnualRates           float64 `json:"annual_rates"`
	AnnualInsurance       float64 `json:"annual_insurance"`
	AnnualBodyCorp        float64 `json:"annual_body_corp"`
	AnnualWater           float64 `json:"annual_water"`
	AnnualOther           float64 `json:"annual_other"`
	AnnualInterest        float64 `json:"annual_interest"`
	AnnualPrincipal       float64 `json:"annual_principal"`
	TotalAnnualExpenses   float64 `json:"total_annual_expenses"`

	MonthlyMortgage    float64 `json:"monthly_mortgage"`
	MonthlyPrincipal   float64 `json:"monthly_principal"`
	MonthlyInterest    float64 `json:"monthly_interest"`
	MonthlyExpenses    float64 `json:"monthly_expenses"`
	MonthlyNetCashFlow float64 `json:"monthly_net_cash_flow"`
	AnnualNetCashFlow  float64 `json:"annual_net_cash_flow"`

	GrossRent  float64 `json:"gross_rent"`
	GrossYield float64 `json:"gross_yield"`
	NetYield   float64 `json:"net_yield"`

	BreakEvenMonths int     `json:"break_even_months"`
	BreakEvenYears  float64 `json:"break_even_years"`

	ProjectedValueYear5  float64 `json:"projected_value_year5"`
	ProjectedValueYear10 float64 `json:"projected_value_year10"`
	CapitalGainYear5     float64 `json:"capital_gain_year5"`
	CapitalGainYear10    float64 `json:"capital_gain_year10"`
	RemainingLoanYear1   float64 `json:"remaining_loan_year1"`
	RemainingLoanYear5   float64 `json:"remaining_loan_year5"`
	RemainingLoanYear10  float64 `json:"remaining_loan_year10"`
	ROIYear5             float64 `json:"roi_year5"`
	ROIYear10            float64 `json:"roi_year10"`

	DebtServiceRatio float64 `json:"debt_service_ratio"`
	InvestmentScore  int     `json:"investment_score"`
}

// AnnualMortgage is twelve monthly repayments.
func (a PropertyAnalysis) AnnualMortgage() float64 {
	return a.MonthlyMortgage * 12
}
