package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin       = 15.0
	pdfContentWidth = 210 - 2*pdfMargin
	pdfLabelWidth   = 110.0
)

type pdfRow struct {
	label string
	value string
}

// PDF writes an A4 report using the core fonts.
func PDF(w io.Writer, d Data) error {
	p, a, c := d.Property, d.Analysis, d.Client

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetCreationDate(d.GeneratedAt)
	pdf.SetTitle("Investment Property Analysis", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(4, 120, 87)
	pdf.CellFormat(pdfContentWidth, 12, "Investment Property Analysis", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(pdfContentWidth, 7, tr(p.Address), "", 1, "C", false, 0, "")
	pdf.CellFormat(pdfContentWidth, 7, "Generated "+d.GeneratedAt.Format("2 January 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section := func(title string, rows []pdfRow) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 253, 244)
		pdf.SetTextColor(4, 120, 87)
		pdf.CellFormat(pdfContentWidth, 8, title, "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(31, 41, 55)
		for _, r := range rows {
			pdf.CellFormat(pdfLabelWidth, 7, tr(r.label), "LB", 0, "L", false, 0, "")
			pdf.CellFormat(pdfContentWidth-pdfLabelWidth, 7, tr(r.value), "RB", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	section("Client Information", []pdfRow{
		{"Client Name", c.Name},
		{"Email", c.Email},
		{"Annual Salary", FormatCurrency(c.Salary)},
		{"Investment Budget", FormatCurrency(c.Budget)},
		{"Investment Goal", string(c.InvestmentGoal)},
	})
	section("Property Details", []pdfRow{
		{"Suburb", fmt.Sprintf("%s %s %s", p.Suburb, p.State, p.Postcode)},
		{"Property Type", p.PropertyType},
		{"Bedrooms / Bathrooms / Car Spaces", fmt.Sprintf("%d / %d / %d", p.Bedrooms, p.Bathrooms, p.CarSpaces)},
		{"Weekly Rent", FormatCurrency(p.WeeklyRent)},
	})
	section("Investment Analysis", []pdfRow{
		{"Purchase Price", FormatCurrency(a.PurchasePrice)},
		{"Loan Amount", FormatCurrency(a.LoanAmount)},
		{"Down Payment", FormatCurrency(a.DownPayment)},
		{"Monthly Mortgage", FormatCurrency(a.MonthlyMortgage)},
		{"Monthly Net Cash Flow", FormatCurrency(a.MonthlyNetCashFlow)},
		{"Gross Yield", FormatPercent(a.GrossYield, 2)},
		{"Net Yield", FormatPercent(a.NetYield, 2)},
		{"Debt Service Ratio", FormatPercent(a.DebtServiceRatio*100, 2)},
		{"Break-even", FormatBreakEven(a.BreakEvenYears)},
		{"Investment Score", fmt.Sprintf("%d (%s)", a.InvestmentScore, d.Rating().Label)},
	})
	section("Annual Expenses", []pdfRow{
		{"Mortgage Payments", FormatCurrency(a.AnnualMortgage())},
		{"Maintenance", FormatCurrency(a.AnnualMaintenanceCost)},
		{"Council Rates", FormatCurrency(a.AnnualRates)},
		{"Insurance", FormatCurrency(a.AnnualInsurance)},
		{"Body Corporate", FormatCurrency(a.AnnualBodyCorp)},
		{"Water and Other", FormatCurrency(a.AnnualWater + a.AnnualOther)},
		{"Total", FormatCurrency(a.TotalAnnualExpenses)},
	})
	section("Projections", []pdfRow{
		{"5-Year Value", FormatCurrency(a.ProjectedValueYear5)},
		{"5-Year Capital Gain", FormatCurrency(a.CapitalGainYear5)},
		{"5-Year ROI", FormatPercent(a.ROIYear5, 2)},
		{"10-Year Value", FormatCurrency(a.ProjectedValueYear10)},
		{"10-Year Capital Gain", FormatCurrency(a.CapitalGainYear10)},
		{"10-Year ROI", FormatPercent(a.ROIYear10, 2)},
	})

	if len(d.Projection) > 0 {
		headers := []string{"Year", "Value", "Debt", "Equity", "Cash Flow"}
		colWidth := pdfContentWidth / float64(len(headers))
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(243, 244, 246)
		for _, h := range headers {
			pdf.CellFormat(colWidth, 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, y := range d.Projection {
			cells := []string{
				strconv.Itoa(y.Year),
				FormatCurrency(y.PropertyValue.InexactFloat64()),
				FormatCurrency(y.RemainingDebt.InexactFloat64()),
				FormatCurrency(y.Equity.InexactFloat64()),
				FormatCurrency(y.CumulativeCashFlow.InexactFloat64()),
			}
			for i, cell := range cells {
				align := "R"
				if i == 0 {
					align = "C"
				}
				pdf.CellFormat(colWidth, 6, cell, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf report: %w", err)
	}
	return nil
}
