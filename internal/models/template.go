package models

// TemplateKind names the chart or widget kind of a visualization template.
// The set is closed: anything outside it renders as an unsupported
// placeholder rather than an error.
type TemplateKind string

const (
	// KindKPICard is a single-value metric widget.
	KindKPICard TemplateKind = "kpi_card"
	// KindBarChart is a category/value bar chart.
	KindBarChart TemplateKind = "bar_chart"
	// KindLineChart is a time-series line chart.
	KindLineChart TemplateKind = "line_chart"
	// KindPieChart is a proportional pie chart.
	KindPieChart TemplateKind = "pie_chart"
	// KindHistogram is a binned distribution chart.
	KindHistogram TemplateKind = "histogram"
)

// VisualizationTemplate is a declarative chart descriptor produced by the
// remote service. Which fields are populated depends on Type: kpi_card uses
// Label/Value/Unit/Trend, bar_chart and line_chart use XAxis/YAxis/Data,
// histogram uses Data rows of either {min,max,count} or {category,count}.
// An absent or empty Data means "nothing to render", not an error.
type VisualizationTemplate struct {
	Type  TemplateKind     `json:"type"`
	Title string           `json:"title,omitempty"`
	Label string           `json:"label,omitempty"`
	Value any              `json:"value,omitempty"`
	Unit  string           `json:"unit,omitempty"`
	Trend string           `json:"trend,omitempty"`
	XAxis string           `json:"x_axis,omitempty"`
	YAxis string           `json:"y_axis,omitempty"`
	Data  []map[string]any `json:"data,omitempty"`
}

// DisplayTitle returns the template's title, falling back to its label.
func (t VisualizationTemplate) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Label
}
