package models

// SummaryStats holds the overall aggregation of one numeric column.
type SummaryStats struct {
	Sum     float64 `json:"sum"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
}

// Aggregations groups per-column summaries and grouped breakdowns.
type Aggregations struct {
	Summary map[string]SummaryStats     `json:"summary"`
	ByGroup map[string][]map[string]any `json:"by_group"`
}

// BinData is one histogram bin of a numeric column distribution. Bins are
// ordered, non-overlapping and cover the column's observed range.
type BinData struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// CategoryValue is one category count of a categorical distribution.
type CategoryValue struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DistributionData describes the observed distribution of a single column,
// either as numeric bins or as category counts.
type DistributionData struct {
	Column string          `json:"column"`
	Bins   []BinData       `json:"bins"`
	Values []CategoryValue `json:"values"`
}

// Insights is the server-computed analytics bundle derived from a dataset:
// aggregations, per-column distributions and time trends.
type Insights struct {
	Aggregations  Aggregations                `json:"aggregations"`
	Distributions map[string]DistributionData `json:"distributions"`
	Trends        map[string][]map[string]any `json:"trends"`
}
