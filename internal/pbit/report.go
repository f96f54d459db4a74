package pbit

import (
	"fmt"
	"strings"

	"github.com/feichai0017/pbit-mentor/internal/models"
)

// RenderReport serializes a grading model into the plain-text report
// handed to the evaluator. Section order and the "none" placeholders
// are fixed so downstream text matching stays stable; only the data
// source block is conditional.
func RenderReport(info models.GradingInfo) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Model: %s", info.ModelName))
	if info.CompatibilityLevel != nil {
		lines = append(lines, fmt.Sprintf("Compatibility Level: %d", *info.CompatibilityLevel))
	} else {
		lines = append(lines, "Compatibility Level: Unknown")
	}
	lines = append(lines, "")

	if info.DataSource != nil {
		lines = append(lines,
			"Data Source:",
			fmt.Sprintf("  Type: %s", info.DataSource.Type),
			fmt.Sprintf("  Path: %s", info.DataSource.Path),
			"",
		)
	}

	lines = append(lines, "Tables:")
	for _, table := range info.Tables {
		lines = append(lines, fmt.Sprintf("  - %s", table.Name))

		lines = append(lines, "    Columns:")
		for _, col := range table.Columns {
			lines = append(lines, fmt.Sprintf("      • %s (type=%s, summarize_by=%s, calculated=%t)",
				col.Name, col.DataType, col.SummarizeBy, col.IsCalculated))
		}

		if len(table.Measures) > 0 {
			lines = append(lines, "    Measures:")
			for _, m := range table.Measures {
				lines = append(lines, fmt.Sprintf("      • %s", m.Name))
			}
		} else {
			lines = append(lines, "    Measures: none")
		}

		lines = append(lines, "")
	}

	lines = append(lines, "Measures (details):")
	for _, m := range info.Measures {
		lines = append(lines, fmt.Sprintf("  - %s (table: %s)", m.Name, m.Table))
		for _, exprLine := range strings.Split(m.Expression, "\n") {
			lines = append(lines, "      "+exprLine)
		}
		lines = append(lines, "")
	}

	lines = append(lines, "Relationships:")
	if len(info.Relationships) > 0 {
		for _, r := range info.Relationships {
			lines = append(lines, fmt.Sprintf("  - %s -> %s (%s)", r.From, r.To, r.Type))
		}
	} else {
		lines = append(lines, "  none")
	}
	lines = append(lines, "")

	lines = append(lines, "Hierarchies:")
	if len(info.Hierarchies) > 0 {
		for _, h := range info.Hierarchies {
			lines = append(lines, fmt.Sprintf("  - %s (table: %s) levels: %s", h.Name, h.Table, strings.Join(h.Levels, ", ")))
		}
	} else {
		lines = append(lines, "  none")
	}
	lines = append(lines, "")

	lines = append(lines, "Summary:")
	if s := info.Summary; s != nil {
		lines = append(lines,
			fmt.Sprintf("  - main_table: %s", s.MainTable),
			fmt.Sprintf("  - total_columns: %d", s.TotalColumns),
			fmt.Sprintf("  - total_measures: %d", s.TotalMeasures),
			fmt.Sprintf("  - total_relationships: %d", s.TotalRelationships),
			fmt.Sprintf("  - total_hierarchies: %d", s.TotalHierarchies),
			fmt.Sprintf("  - has_time_intelligence: %t", s.HasTimeIntelligence),
		)
	}

	return strings.Join(lines, "\n")
}
