// Package report renders a client's property analysis as CSV, HTML or PDF.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/analysis"
	"github.com/BinaryNexusLab/real-estate/internal/models"
)

// Format is an output format for a report.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// ParseFormat maps a query value to a Format. Empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Data is everything a report shows.
type Data struct {
	Client      models.Client
	Property    models.Property
	Analysis    analysis.PropertyAnalysis
	Projection  []analysis.YearProjection
	GeneratedAt time.Time
}

// Rating is the display rating of the analysed score.
func (d Data) Rating() analysis.Rating {
	return analysis.RatingForScore(d.Analysis.InvestmentScore)
}

// Render writes the report in the requested format.
func Render(w io.Writer, f Format, d Data) error {
	switch f {
	case FormatCSV:
		return CSV(w, d)
	case FormatHTML:
		return HTML(w, d)
	case FormatPDF:
		return PDF(w, d)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// Filename names a downloaded report, e.g.
// property-analysis-mascot-1700000000.csv.
func Filename(d Data, f Format) string {
	return fmt.Sprintf("property-analysis-%s-%d.%s", slug(d.Property.Suburb), d.GeneratedAt.Unix(), f)
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// CSV writes the report as labelled rows grouped into sections. Amounts are
// plain numbers so the file opens cleanly in a spreadsheet.
func CSV(w io.Writer, d Data) error {
	p, a, c := d.Property, d.Analysis, d.Client
	rows := [][]string{
		{"Investment Property Analysis Report"},
		{"Generated", d.GeneratedAt.Format(time.RFC3339)},
		nil,
		{"CLIENT INFORMATION"},
		{"Client Name", c.Name},
		{"Client Email", c.Email},
		{"Annual Salary", amount(c.Salary)},
		{"Investment Budget", amount(c.Budget)},
		{"Investment Goal", string(c.InvestmentGoal)},
		nil,
		{"PROPERTY DETAILS"},
		{"Address", p.Address},
		{"Suburb", p.Suburb},
		{"State", p.State},
		{"Postcode", p.Postcode},
		{"Property Type", p.PropertyType},
		{"Year Built", strconv.Itoa(p.YearBuilt)},
		{"Bedrooms", strconv.Itoa(p.Bedrooms)},
		{"Bathrooms", strconv.Itoa(p.Bathrooms)},
		{"Car Spaces", strconv.Itoa(p.CarSpaces)},
		nil,
		{"FINANCING"},
		{"Loan Rate %", amount(a.LoanRate * 100)},
		{"Loan Period (Years)", strconv.Itoa(a.LoanPeriodYears)},
		{"Loan To Value %", amount(a.LoanToValueRatio * 100)},
		{"Loan Amount", amount(a.LoanAmount)},
		{"Down Payment", amount(a.DownPayment)},
		nil,
		{"FINANCIAL METRICS"},
		{"Purchase Price", amount(a.PurchasePrice)},
		{"Weekly Rental Income", amount(p.WeeklyRent)},
		{"Annual Rental Income", amount(a.AnnualRentalIncome)},
		{"Gross Yield %", amount(a.GrossYield)},
		{"Net Yield %", amount(a.NetYield)},
		{"Monthly Mortgage", amount(a.MonthlyMortgage)},
		{"Monthly Net Cash Flow", amount(a.MonthlyNetCashFlow)},
		{"Annual Net Cash Flow", amount(a.AnnualNetCashFlow)},
		{"Debt Service Ratio", amount(a.DebtServiceRatio)},
		{"Break-even (Months)", strconv.Itoa(a.BreakEvenMonths)},
		{"Investment Score", strconv.Itoa(a.InvestmentScore)},
		{"Rating", d.Rating().Label},
		nil,
		{"EXPENSE BREAKDOWN"},
		{"Mortgage (Annual)", amount(a.AnnualMortgage())},
		{"Maintenance", amount(a.AnnualMaintenanceCost)},
		{"Rates", amount(a.AnnualRates)},
		{"Insurance", amount(a.AnnualInsurance)},
		{"Body Corp", amount(a.AnnualBodyCorp)},
		{"Water", amount(a.AnnualWater)},
		{"Other", amount(a.AnnualOther)},
		{"Total Annual Expenses", amount(a.TotalAnnualExpenses)},
		nil,
		{"PROJECTIONS"},
		{"5-Year Value", amount(a.ProjectedValueYear5)},
		{"5-Year Capital Gain", amount(a.CapitalGainYear5)},
		{"5-Year ROI %", amount(a.ROIYear5)},
		{"10-Year Value", amount(a.ProjectedValueYear10)},
		{"10-Year Capital Gain", amount(a.CapitalGainYear10)},
		{"10-Year ROI %", amount(a.ROIYear10)},
	}

	if len(d.Projection) > 0 {
		rows = append(rows, nil, []string{"YEAR", "Property Value", "Remaining Debt", "Equity", "Cumulative Cash Flow"})
		for _, y := range d.Projection {
			rows = append(rows, []string{
				strconv.Itoa(y.Year),
				y.PropertyValue.StringFixed(2),
				y.RemainingDebt.StringFixed(2),
				y.Equity.StringFixed(2),
				y.CumulativeCashFlow.StringFixed(2),
			})
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv report: %w", err)
	}
	return nil
}
