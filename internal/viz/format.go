package viz

import (
	"encoding/json"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NoValue is emitted when a KPI carries no numeric value.
const NoValue = "N/A"

var kpiPrinter = message.NewPrinter(language.English)

// formatKPIValue renders a KPI value with locale-aware digit grouping and at
// most two fractional digits. Anything non-numeric becomes NoValue.
func formatKPIValue(v any) string {
	switch n := v.(type) {
	case float64:
		return formatNumber(n)
	case float32:
		return formatNumber(float64(n))
	case int:
		return formatNumber(float64(n))
	case int64:
		return formatNumber(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return NoValue
		}
		return formatNumber(f)
	default:
		return NoValue
	}
}

func formatNumber(f float64) string {
	return kpiPrinter.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}
