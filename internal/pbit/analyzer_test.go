package pbit

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
)

const analyzerSchema = `{
	"name": "DemoModel",
	"compatibilityLevel": 1567,
	"model": {
		"tables": [
			{
				"name": "Sheet1",
				"columns": [{"name": "Sales", "dataType": "double", "summarizeBy": "sum"}],
				"measures": [{"name": "Total Sales YoY", "expression": "SUM(Sheet1[Sales])"}]
			}
		]
	}
}`

// buildTemplate writes a minimal .pbit: a ZIP whose DataModelSchema is
// UTF-16 little-endian with a BOM, the way Power BI Desktop saves it.
func buildTemplate(t *testing.T, schema string) string {
	t.Helper()
	raw, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(schema))
	require.NoError(t, err)
	return writeZip(t, map[string]string{
		"DataModelSchema": string(raw),
		"Report/Layout":   "{}",
	})
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := NewAnalyzer(logger.NewTestLogger())
	path := buildTemplate(t, analyzerSchema)

	report, err := a.Analyze(path)
	require.NoError(t, err)

	assert.Contains(t, report, "Model: DemoModel")
	assert.Contains(t, report, "Compatibility Level: 1567")
	assert.Contains(t, report, "  - Sheet1")
	assert.Contains(t, report, "• Sales (type=double, summarize_by=sum, calculated=false)")
	assert.Contains(t, report, "  - has_time_intelligence: true")
}

func TestAnalyzer_CleansUpWorkspace(t *testing.T) {
	a := NewAnalyzer(logger.NewTestLogger())
	path := buildTemplate(t, analyzerSchema)

	before := countTempWorkspaces(t)
	_, err := a.Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, before, countTempWorkspaces(t))
}

func TestAnalyzer_SchemaWithoutBOM(t *testing.T) {
	schema := `{
		"name": "QuarterlySales",
		"model": {
			"tables": [
				{
					"name": "Sheet1",
					"columns": [
						{"name": "Region", "dataType": "string", "summarizeBy": "none"},
						{"name": "Sales", "dataType": "double", "summarizeBy": "sum"},
						{"name": "OrderDate", "dataType": "dateTime", "summarizeBy": "none"}
					],
					"measures": [{"name": "Sales YoY", "expression": "CALCULATE(SUM(Sheet1[Sales]), SAMEPERIODLASTYEAR(Dates[Date]))"}]
				},
				{"name": "Staging", "isHidden": true, "columns": [{"name": "Raw"}]}
			],
			"relationships": [
				{"fromTable": "Sheet1", "fromColumn": "OrderDate", "toTable": "LocalDateTable_4f2a", "toColumn": "Date"},
				{"fromTable": "Sheet1", "fromColumn": "OrderDate", "toTable": "mid LocalDateTable name", "toColumn": "Date"}
			]
		}
	}`
	raw, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(schema))
	require.NoError(t, err)
	path := writeZip(t, map[string]string{"DataModelSchema": string(raw)})

	report, err := NewAnalyzer(logger.NewTestLogger()).Analyze(path)
	require.NoError(t, err)

	assert.Contains(t, report, "Model: QuarterlySales")
	assert.NotContains(t, report, "Staging")
	assert.NotContains(t, report, "LocalDateTable")
	assert.Contains(t, report, "Relationships:\n  none")
	assert.Contains(t, report, "Hierarchies:\n  none")
	assert.Contains(t, report, "  - main_table: Sheet1")
	assert.Contains(t, report, "  - total_columns: 3")
	assert.Contains(t, report, "  - has_time_intelligence: true")
}

func countTempWorkspaces(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(os.TempDir())
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "pbit_") {
			n++
		}
	}
	return n
}

func TestAnalyzer_MissingSchema(t *testing.T) {
	a := NewAnalyzer(logger.NewTestLogger())
	path := writeZip(t, map[string]string{"Report/Layout": "{}"})

	_, err := a.Analyze(path)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAnalyzer_MalformedSchema(t *testing.T) {
	a := NewAnalyzer(logger.NewTestLogger())
	path := buildTemplate(t, `{"name": "broken"`)

	_, err := a.Analyze(path)
	assert.ErrorIs(t, err, errs.ErrMalformedContent)
}
