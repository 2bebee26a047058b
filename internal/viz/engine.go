// Package viz interprets visualization templates into renderer-ready data.
// All transforms are pure: interpreting the same template twice yields
// identical output and never mutates the input.
package viz

import (
	"strconv"

	"github.com/spf13/cast"

	"github.com/deeprow/deeprow-tui/internal/models"
)

// Default field names used when a template leaves its axes unset.
const (
	defaultBarField   = "category"
	defaultLineField  = "date"
	defaultValueField = "value"
)

// TrendDirection classifies a KPI trend marker.
type TrendDirection int

const (
	// TrendFlat is the catch-all: unset or unrecognized trend values.
	TrendFlat TrendDirection = iota
	// TrendUp marks a rising KPI.
	TrendUp
	// TrendDown marks a falling KPI.
	TrendDown
)

// Glyph returns the fixed marker for the trend direction.
func (d TrendDirection) Glyph() string {
	switch d {
	case TrendUp:
		return "▲"
	case TrendDown:
		return "▼"
	default:
		return "─"
	}
}

// Rendering is the closed result set of template interpretation. Exactly one
// of the concrete types below comes out of Interpret for every template.
type Rendering interface {
	isRendering()
}

// KPICard is a formatted single-value metric.
type KPICard struct {
	Title   string
	Display string
	Unit    string
	Trend   TrendDirection
}

// ChartData is a category/value series ready for chart rendering. Kind
// determines styling only; the data shape is identical for all chart kinds.
type ChartData struct {
	Kind       models.TemplateKind
	Title      string
	Categories []string
	Values     []float64
}

// Empty signals a template with nothing to render. Not an error.
type Empty struct {
	Title string
}

// Unsupported signals a template kind the engine does not interpret. The
// presentation layer renders it as a visible placeholder; one malformed
// template never blocks the rest of a dashboard.
type Unsupported struct {
	Kind  string
	Title string
}

func (KPICard) isRendering()     {}
func (ChartData) isRendering()   {}
func (Empty) isRendering()       {}
func (Unsupported) isRendering() {}

// Interpret maps one template to its rendering. The profile is formatting
// context only; the engine never derives data from it.
func Interpret(t models.VisualizationTemplate, profile *models.DataProfile) Rendering {
	switch t.Type {
	case models.KindKPICard:
		return interpretKPI(t)
	case models.KindBarChart:
		return interpretSeries(t, defaultBarField)
	case models.KindLineChart:
		return interpretSeries(t, defaultLineField)
	case models.KindHistogram:
		return interpretHistogram(t)
	default:
		// pie_chart included: deliberately unsupported, soft-fail.
		return Unsupported{Kind: string(t.Type), Title: t.DisplayTitle()}
	}
}

// InterpretAll maps a template list one-to-one onto renderings.
func InterpretAll(templates []models.VisualizationTemplate, profile *models.DataProfile) []Rendering {
	renderings := make([]Rendering, len(templates))
	for i, t := range templates {
		renderings[i] = Interpret(t, profile)
	}
	return renderings
}

func interpretKPI(t models.VisualizationTemplate) Rendering {
	trend := TrendFlat
	switch t.Trend {
	case "up":
		trend = TrendUp
	case "down":
		trend = TrendDown
	}

	return KPICard{
		Title:   t.DisplayTitle(),
		Display: formatKPIValue(t.Value),
		Unit:    t.Unit,
		Trend:   trend,
	}
}

func interpretSeries(t models.VisualizationTemplate, defaultX string) Rendering {
	if len(t.Data) == 0 {
		return Empty{Title: t.DisplayTitle()}
	}

	xField := t.XAxis
	if xField == "" {
		xField = defaultX
	}
	yField := t.YAxis
	if yField == "" {
		yField = defaultValueField
	}

	categories := make([]string, 0, len(t.Data))
	values := make([]float64, 0, len(t.Data))
	for _, row := range t.Data {
		categories = append(categories, cast.ToString(row[xField]))
		values = append(values, cast.ToFloat64(row[yField]))
	}

	return ChartData{
		Kind:       t.Type,
		Title:      t.DisplayTitle(),
		Categories: categories,
		Values:     values,
	}
}

func interpretHistogram(t models.VisualizationTemplate) Rendering {
	if len(t.Data) == 0 {
		return Empty{Title: t.DisplayTitle()}
	}

	categories := make([]string, 0, len(t.Data))
	values := make([]float64, 0, len(t.Data))
	for _, bin := range t.Data {
		categories = append(categories, binLabel(bin))
		values = append(values, cast.ToFloat64(bin["count"]))
	}

	return ChartData{
		Kind:       models.KindHistogram,
		Title:      t.DisplayTitle(),
		Categories: categories,
		Values:     values,
	}
}

// binLabel names a histogram bin: its own category when present, otherwise
// a synthesized "<min>-<max>" range.
func binLabel(bin map[string]any) string {
	if category := cast.ToString(bin["category"]); category != "" {
		return category
	}
	return formatBound(bin["min"]) + "-" + formatBound(bin["max"])
}

func formatBound(v any) string {
	return strconv.FormatFloat(cast.ToFloat64(v), 'f', -1, 64)
}
