// Package models defines data structures and domain types.
package models

import "fmt"

// ColumnType classifies a dataset column as detected by the remote profiler.
type ColumnType string

const (
	// ColumnNumeric is a numeric column (int or float).
	ColumnNumeric ColumnType = "numeric"
	// ColumnDate is a date or datetime column.
	ColumnDate ColumnType = "date"
	// ColumnCategorical is a low-cardinality string column.
	ColumnCategorical ColumnType = "categorical"
	// ColumnText is a free-form text column.
	ColumnText ColumnType = "text"
)

// ColumnInfo describes a single column of the profiled dataset.
// The numeric summary fields are only present for numeric columns and
// Categories is only present for categorical columns.
type ColumnInfo struct {
	Name           string     `json:"name"`
	Type           ColumnType `json:"type"`
	IsKPI          bool       `json:"is_kpi"`
	NullCount      int        `json:"null_count"`
	NullPercentage float64    `json:"null_percentage"`
	UniqueCount    int        `json:"unique_count"`
	Min            *float64   `json:"min,omitempty"`
	Max            *float64   `json:"max,omitempty"`
	Mean           *float64   `json:"mean,omitempty"`
	Median         *float64   `json:"median,omitempty"`
	Std            *float64   `json:"std,omitempty"`
	Categories     []string   `json:"categories,omitempty"`
}

// DataProfile is the server-computed statistical profile of an uploaded
// dataset. It is immutable once received: the client replaces it wholesale,
// never patches it in place.
type DataProfile struct {
	Shape              [2]int       `json:"shape"`
	RowCount           int          `json:"row_count"`
	ColumnCount        int          `json:"column_count"`
	Columns            []ColumnInfo `json:"columns"`
	KPIs               []string     `json:"kpis"`
	DateColumns        []string     `json:"date_columns"`
	CategoricalColumns []string     `json:"categorical_columns"`
	NumericColumns     []string     `json:"numeric_columns"`
}

// Column returns the ColumnInfo with the given name, or nil if absent.
func (p *DataProfile) Column(name string) *ColumnInfo {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i]
		}
	}
	return nil
}

// Validate checks the profile's structural invariants: the column list
// matches the declared column count and every classified column name refers
// to an existing column.
func (p *DataProfile) Validate() error {
	if len(p.Columns) != p.ColumnCount {
		return fmt.Errorf("profile has %d columns but declares %d", len(p.Columns), p.ColumnCount)
	}

	known := make(map[string]struct{}, len(p.Columns))
	for _, col := range p.Columns {
		known[col.Name] = struct{}{}
	}

	groups := map[string][]string{
		"kpis":                p.KPIs,
		"date_columns":        p.DateColumns,
		"categorical_columns": p.CategoricalColumns,
		"numeric_columns":     p.NumericColumns,
	}
	for group, names := range groups {
		for _, name := range names {
			if _, ok := known[name]; !ok {
				return fmt.Errorf("%s references unknown column %q", group, name)
			}
		}
	}

	return nil
}
