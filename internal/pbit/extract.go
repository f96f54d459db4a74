package pbit

import (
	"regexp"
	"strings"

	"github.com/feichai0017/pbit-mentor/internal/models"
)

const unknownModelName = "Unknown"

// Matches the M-language file reference inside a partition query, e.g.
// File.Contents("C:\data\sales.xlsx").
var fileContentsRe = regexp.MustCompile(`File\.Contents\("([^"]+)"\)`)

// ExtractGradingInfo reduces a parsed schema tree to the grading model.
// Every field access is optional: missing or oddly-typed fields yield
// empty values, never an error. System-generated objects (hidden and
// private tables, hidden columns, LocalDateTable relationships,
// template hierarchies) are filtered out.
func ExtractGradingInfo(tree map[string]interface{}) models.GradingInfo {
	root := tree
	if nested, ok := mapField(tree, "model"); ok {
		root = nested
	}

	info := models.GradingInfo{
		ModelName:     unknownModelName,
		Tables:        []models.TableInfo{},
		Measures:      []models.MeasureInfo{},
		Relationships: []models.RelationshipInfo{},
		Hierarchies:   []models.HierarchyInfo{},
	}

	if name, ok := stringField(tree, "name"); ok {
		info.ModelName = name
	} else if name, ok := stringField(root, "name"); ok {
		info.ModelName = name
	}

	if lvl, ok := intField(tree, "compatibilityLevel"); ok {
		info.CompatibilityLevel = &lvl
	} else if lvl, ok := intField(root, "compatibilityLevel"); ok {
		info.CompatibilityLevel = &lvl
	}

	tables, _ := sliceField(root, "tables")

	for _, entry := range tables {
		table, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if truthyField(table, "isHidden") || truthyField(table, "isPrivate") {
			continue
		}

		tableName, _ := stringField(table, "name")
		tableInfo := models.TableInfo{
			Name:     tableName,
			Columns:  []models.ColumnInfo{},
			Measures: []models.MeasureInfo{},
		}

		cols, _ := sliceField(table, "columns")
		for _, c := range cols {
			col, ok := c.(map[string]interface{})
			if !ok || truthyField(col, "isHidden") {
				continue
			}
			name, _ := stringField(col, "name")
			dataType, _ := stringField(col, "dataType")
			summarizeBy, _ := stringField(col, "summarizeBy")
			colType, _ := stringField(col, "type")
			tableInfo.Columns = append(tableInfo.Columns, models.ColumnInfo{
				Name:         name,
				DataType:     dataType,
				SummarizeBy:  summarizeBy,
				IsCalculated: colType == "calculated",
			})
		}

		measures, _ := sliceField(table, "measures")
		for _, m := range measures {
			measure, ok := m.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := stringField(measure, "name")
			mi := models.MeasureInfo{
				Name:       name,
				Expression: joinExpression(measure["expression"]),
				Table:      tableName,
			}
			tableInfo.Measures = append(tableInfo.Measures, mi)
			info.Measures = append(info.Measures, mi)
		}

		// First file-backed partition query across the whole model wins.
		if info.DataSource == nil {
			info.DataSource = findFileSource(table)
		}

		info.Tables = append(info.Tables, tableInfo)
	}

	rels, _ := sliceField(root, "relationships")
	for _, r := range rels {
		rel, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		toTable, _ := stringField(rel, "toTable")
		// Auto-generated date tables keep their marker anywhere in the
		// name, so this is a substring check on purpose.
		if strings.Contains(toTable, "LocalDateTable") {
			continue
		}
		fromTable, _ := stringField(rel, "fromTable")
		fromColumn, _ := stringField(rel, "fromColumn")
		toColumn, _ := stringField(rel, "toColumn")
		relType, ok := stringField(rel, "joinOnDateBehavior")
		if !ok {
			relType = "standard"
		}
		info.Relationships = append(info.Relationships, models.RelationshipInfo{
			From: fromTable + "[" + fromColumn + "]",
			To:   toTable + "[" + toColumn + "]",
			Type: relType,
		})
	}

	// Hierarchies live on tables but filter on isHidden only: a private
	// table's hierarchies still count.
	for _, entry := range tables {
		table, ok := entry.(map[string]interface{})
		if !ok || truthyField(table, "isHidden") {
			continue
		}
		tableName, _ := stringField(table, "name")
		hierarchies, _ := sliceField(table, "hierarchies")
		for _, h := range hierarchies {
			hierarchy, ok := h.(map[string]interface{})
			if !ok || isTemplateHierarchy(hierarchy) {
				continue
			}
			name, _ := stringField(hierarchy, "name")
			hi := models.HierarchyInfo{
				Name:   name,
				Table:  tableName,
				Levels: []string{},
			}
			levels, _ := sliceField(hierarchy, "levels")
			for _, l := range levels {
				level, ok := l.(map[string]interface{})
				if !ok {
					continue
				}
				levelName, _ := stringField(level, "name")
				hi.Levels = append(hi.Levels, levelName)
			}
			info.Hierarchies = append(info.Hierarchies, hi)
		}
	}

	info.Summary = summarize(&info)
	return info
}

// summarize computes the aggregate block. The main table is "Sheet1"
// when present, else the first included table; with no tables at all
// the summary stays absent.
func summarize(info *models.GradingInfo) *models.SummaryStats {
	var main *models.TableInfo
	for i := range info.Tables {
		if info.Tables[i].Name == "Sheet1" {
			main = &info.Tables[i]
			break
		}
	}
	if main == nil {
		if len(info.Tables) == 0 {
			return nil
		}
		main = &info.Tables[0]
	}

	return &models.SummaryStats{
		MainTable:           main.Name,
		TotalColumns:        len(main.Columns),
		TotalMeasures:       len(info.Measures),
		TotalRelationships:  len(info.Relationships),
		TotalHierarchies:    len(info.Hierarchies),
		HasTimeIntelligence: hasTimeIntelligence(info.Measures),
	}
}

func hasTimeIntelligence(measures []models.MeasureInfo) bool {
	for _, m := range measures {
		if strings.Contains(m.Expression, "SAMEPERIODLASTYEAR") || strings.Contains(m.Name, "YoY") {
			return true
		}
	}
	return false
}

// findFileSource scans a table's M-language partitions for the first
// File.Contents reference.
func findFileSource(table map[string]interface{}) *models.DataSourceInfo {
	partitions, _ := sliceField(table, "partitions")
	for _, p := range partitions {
		partition, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := mapField(partition, "source")
		if !ok {
			continue
		}
		if srcType, _ := stringField(source, "type"); srcType != "m" {
			continue
		}
		code := joinLines(source["expression"], " ")
		if m := fileContentsRe.FindStringSubmatch(code); m != nil {
			return &models.DataSourceInfo{Type: "File", Path: m[1]}
		}
	}
	return nil
}

// isTemplateHierarchy reports whether a hierarchy carries the
// TemplateId annotation that marks Power BI boilerplate.
func isTemplateHierarchy(hierarchy map[string]interface{}) bool {
	annotations, _ := sliceField(hierarchy, "annotations")
	for _, a := range annotations {
		annotation, ok := a.(map[string]interface{})
		if !ok {
			continue
		}
		if name, _ := stringField(annotation, "name"); name == "TemplateId" {
			return true
		}
	}
	return false
}

// joinExpression normalizes a measure expression: a line sequence keeps
// its non-blank lines joined with newlines, a plain string is trimmed,
// anything else is empty.
func joinExpression(v interface{}) string {
	switch expr := v.(type) {
	case []interface{}:
		var lines []string
		for _, l := range expr {
			if s, ok := l.(string); ok && strings.TrimSpace(s) != "" {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, "\n")
	case string:
		return strings.TrimSpace(expr)
	default:
		return ""
	}
}

// joinLines flattens a string-or-line-sequence value with the given
// separator, dropping non-string elements.
func joinLines(v interface{}, sep string) string {
	switch expr := v.(type) {
	case []interface{}:
		var lines []string
		for _, l := range expr {
			if s, ok := l.(string); ok {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, sep)
	case string:
		return expr
	default:
		return ""
	}
}

// Option-typed lookups over the generic tree. Absence and wrong types
// both read as "not present" so missing-vs-present stays unambiguous at
// call sites.

func mapField(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	v, ok := m[key].(map[string]interface{})
	return v, ok
}

func sliceField(m map[string]interface{}, key string) ([]interface{}, bool) {
	v, ok := m[key].([]interface{})
	return v, ok
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func intField(m map[string]interface{}, key string) (int, bool) {
	v, ok := m[key].(float64)
	if !ok || v == 0 {
		return 0, false
	}
	return int(v), true
}

func truthyField(m map[string]interface{}, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return false
	}
}
