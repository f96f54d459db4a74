package pbit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pbit-mentor/internal/models"
)

func TestRenderReport_Empty(t *testing.T) {
	report := RenderReport(models.GradingInfo{ModelName: "Unknown"})

	want := strings.Join([]string{
		"Model: Unknown",
		"Compatibility Level: Unknown",
		"",
		"Tables:",
		"Measures (details):",
		"Relationships:",
		"  none",
		"",
		"Hierarchies:",
		"  none",
		"",
		"Summary:",
	}, "\n")
	assert.Equal(t, want, report)
}

func TestRenderReport_Full(t *testing.T) {
	lvl := 1567
	info := models.GradingInfo{
		ModelName:          "SalesModel",
		CompatibilityLevel: &lvl,
		DataSource:         &models.DataSourceInfo{Type: "File", Path: `C:\data\sales.xlsx`},
		Tables: []models.TableInfo{
			{
				Name: "Sheet1",
				Columns: []models.ColumnInfo{
					{Name: "Region", DataType: "string", SummarizeBy: "none"},
					{Name: "Margin", DataType: "double", SummarizeBy: "sum", IsCalculated: true},
				},
				Measures: []models.MeasureInfo{{Name: "Total Sales", Table: "Sheet1"}},
			},
			{Name: "Empty"},
		},
		Measures: []models.MeasureInfo{
			{Name: "Total Sales", Table: "Sheet1", Expression: "VAR x = SUM(Sales)\nRETURN x"},
		},
		Relationships: []models.RelationshipInfo{
			{From: "Sheet1[ProductID]", To: "Products[ID]", Type: "standard"},
		},
		Hierarchies: []models.HierarchyInfo{
			{Name: "Fiscal", Table: "Calendar", Levels: []string{"Year", "Quarter"}},
		},
		Summary: &models.SummaryStats{
			MainTable:           "Sheet1",
			TotalColumns:        2,
			TotalMeasures:       1,
			TotalRelationships:  1,
			TotalHierarchies:    1,
			HasTimeIntelligence: false,
		},
	}

	report := RenderReport(info)

	assert.Contains(t, report, "Model: SalesModel")
	assert.Contains(t, report, "Compatibility Level: 1567")
	assert.Contains(t, report, "Data Source:\n  Type: File\n  Path: C:\\data\\sales.xlsx")
	assert.Contains(t, report, "  - Sheet1\n    Columns:\n      • Region (type=string, summarize_by=none, calculated=false)")
	assert.Contains(t, report, "      • Margin (type=double, summarize_by=sum, calculated=true)")
	assert.Contains(t, report, "    Measures:\n      • Total Sales")
	assert.Contains(t, report, "  - Empty\n    Columns:\n    Measures: none")
	assert.Contains(t, report, "  - Total Sales (table: Sheet1)\n      VAR x = SUM(Sales)\n      RETURN x")
	assert.Contains(t, report, "  - Sheet1[ProductID] -> Products[ID] (standard)")
	assert.Contains(t, report, "  - Fiscal (table: Calendar) levels: Year, Quarter")
	assert.Contains(t, report, "Summary:\n  - main_table: Sheet1\n  - total_columns: 2\n  - total_measures: 1\n  - total_relationships: 1\n  - total_hierarchies: 1\n  - has_time_intelligence: false")
}

func TestRenderReport_Deterministic(t *testing.T) {
	tree := parseTree(t, `{
		"name": "M",
		"model": {"tables": [{"name": "Sheet1", "columns": [{"name": "A"}]}]}
	}`)

	info := ExtractGradingInfo(tree)
	first := RenderReport(info)
	second := RenderReport(ExtractGradingInfo(tree))
	require.Equal(t, first, second)
}
