package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed report.html.tmpl
var htmlSource string

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"currency":  FormatCurrency,
	"percent":   func(v float64) string { return FormatPercent(v, 2) },
	"percent0":  func(v float64) string { return FormatPercent(v, 0) },
	"breakEven": FormatBreakEven,
	"mul100":    func(v float64) float64 { return v * 100 },
	"join":      strings.Join,
	"decimal":   func(d decimal.Decimal) string { return FormatCurrency(d.InexactFloat64()) },
	"sign": func(v float64) string {
		if v < 0 {
			return "negative"
		}
		return "positive"
	},
}).Parse(htmlSource))

// HTML writes a standalone HTML page. Client and listing text is escaped.
func HTML(w io.Writer, d Data) error {
	if err := htmlReport.Execute(w, d); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}
