package analytics

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/app"
	"github.com/deeprow/deeprow-tui/internal/models"
	"github.com/deeprow/deeprow-tui/internal/services/analysis"
	"github.com/deeprow/deeprow-tui/internal/session"
)

func testModel() *Model {
	return New(app.NewState(), app.NewCommands(nil))
}

func sampleSnapshot() session.Snapshot {
	return session.Snapshot{
		FileID:   "f1",
		Filename: "orders.csv",
		Profile: &models.DataProfile{
			RowCount:    150,
			ColumnCount: 3,
			Columns: []models.ColumnInfo{
				{Name: "revenue", Type: models.ColumnNumeric, NullPercentage: 2},
				{Name: "region", Type: models.ColumnCategorical, NullPercentage: 40},
				{Name: "date", Type: models.ColumnDate, NullPercentage: 0},
			},
		},
		Insights: &models.Insights{
			Aggregations: models.Aggregations{
				Summary: map[string]models.SummaryStats{
					"revenue": {Sum: 45200.5, Average: 301.3, Min: 5, Max: 999},
				},
			},
		},
		Templates: []models.VisualizationTemplate{
			{Type: models.KindKPICard, Title: "Total Revenue", Label: "Total Revenue", Value: 45200.5, Unit: "USD", Trend: "up"},
			{
				Type: models.KindBarChart, Title: "Revenue by Region",
				XAxis: "category", YAxis: "value",
				Data: []map[string]any{
					{"category": "North", "value": 10.0},
					{"category": "South", "value": 5.0},
				},
			},
			{
				Type: models.KindLineChart, Title: "Daily Revenue",
				XAxis: "date", YAxis: "value",
				Data: []map[string]any{
					{"date": "2026-01-01", "value": 1.0},
					{"date": "2026-01-02", "value": 3.0},
				},
			},
		},
	}
}

func TestModel_View_Empty(t *testing.T) {
	m := testModel()
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "No dataset loaded") {
		t.Errorf("empty view missing prompt:\n%s", view)
	}
}

func TestModel_View_Loading(t *testing.T) {
	m := testModel()
	m.SetSize(100, 40)
	m.state.SetAnalysis(analysis.PhaseUploaded, sampleSnapshot())
	m.state.SetLoading("analysis", true)

	view := m.View()
	if !strings.Contains(view, "Crunching numbers") {
		t.Errorf("loading view missing spinner label:\n%s", view)
	}
}

func TestModel_View_Error(t *testing.T) {
	m := testModel()
	m.SetSize(100, 40)
	snap := sampleSnapshot()
	snap.Err = "analysis failed"
	m.state.SetAnalysis(analysis.PhaseUploaded, snap)

	view := m.View()
	if !strings.Contains(view, "analysis failed") {
		t.Errorf("error view missing message:\n%s", view)
	}
}

func TestModel_View_FullAnalysis(t *testing.T) {
	m := testModel()
	m.SetSize(120, 50)
	m.state.SetAnalysis(analysis.PhaseUploaded, sampleSnapshot())

	view := m.View()
	wants := []string{
		"Analytics: orders.csv",
		"150 rows",
		"Total Revenue",       // KPI card
		"Revenue by Region",   // first chart in the pager
		"Data Quality",        // quality card
		"Summary Statistics",  // aggregates
		"revenue",
	}
	for _, want := range wants {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_TemplateCycling(t *testing.T) {
	m := testModel()
	m.state.SetAnalysis(analysis.PhaseUploaded, sampleSnapshot())

	// Two chart templates; the KPI card is not part of the pager.
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.state.GetSelectedTemplateIndex(); got != 1 {
		t.Errorf("index = %d after right, want 1", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.state.GetSelectedTemplateIndex(); got != 0 {
		t.Errorf("index = %d, want wrap back to 0", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.state.GetSelectedTemplateIndex(); got != 1 {
		t.Errorf("index = %d after left, want 1", got)
	}
}

func TestModel_TemplateCycling_NoCharts(t *testing.T) {
	m := testModel()

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.state.GetSelectedTemplateIndex(); got != 0 {
		t.Errorf("index = %d, should stay 0 with no templates", got)
	}
}

func TestModel_Reload(t *testing.T) {
	m := testModel()
	m.state.SetAnalysis(analysis.PhaseUploaded, sampleSnapshot())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("reload should produce a command")
	}
	if !m.state.Loading.Analysis {
		t.Error("reload should mark analysis as loading")
	}
}

func TestModel_Reload_NoDataset(t *testing.T) {
	m := testModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("expected an informational notification")
	}

	notif, ok := cmd().(app.AddNotificationMsg)
	if !ok || notif.Type != app.NotificationInfo {
		t.Errorf("got %+v, want an info notification", notif)
	}
	if m.state.Loading.Analysis {
		t.Error("reload without a dataset must not start loading")
	}
}

func TestChartTemplates(t *testing.T) {
	templates := sampleSnapshot().Templates
	charts := chartTemplates(templates)
	if len(charts) != 2 {
		t.Fatalf("got %d chart templates, want 2", len(charts))
	}
	for _, c := range charts {
		if c.Type == models.KindKPICard {
			t.Error("KPI cards should be filtered out of the pager")
		}
	}
}
