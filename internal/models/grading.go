package models

// GradingInfo is the filtered, grading-oriented view of a Power BI data
// model. It is built once per analysis run and never mutated afterwards.
type GradingInfo struct {
	ModelName          string             `json:"modelName"`
	CompatibilityLevel *int               `json:"compatibilityLevel"`
	Tables             []TableInfo        `json:"tables"`
	Measures           []MeasureInfo      `json:"measures"`
	Relationships      []RelationshipInfo `json:"relationships"`
	Hierarchies        []HierarchyInfo    `json:"hierarchies"`
	DataSource         *DataSourceInfo    `json:"dataSource,omitempty"`
	Summary            *SummaryStats      `json:"summary,omitempty"`
}

// TableInfo describes one visible table. Hidden columns are already
// filtered out; Measures holds this table's own measures while
// GradingInfo.Measures is the flattened view across all tables.
type TableInfo struct {
	Name     string        `json:"name"`
	Columns  []ColumnInfo  `json:"columns"`
	Measures []MeasureInfo `json:"measures"`
}

// ColumnInfo describes one visible column.
type ColumnInfo struct {
	Name         string `json:"name"`
	DataType     string `json:"dataType"`
	SummarizeBy  string `json:"summarizeBy"`
	IsCalculated bool   `json:"isCalculated"`
}

// MeasureInfo describes one DAX measure. Expression is the joined
// multi-line formula text; Table is the owning table's name.
type MeasureInfo struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Table      string `json:"table"`
}

// RelationshipInfo describes one relationship, both ends rendered as
// "<table>[<column>]".
type RelationshipInfo struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// HierarchyInfo describes one student-authored hierarchy.
type HierarchyInfo struct {
	Name   string   `json:"name"`
	Table  string   `json:"table"`
	Levels []string `json:"levels"`
}

// DataSourceInfo describes the first file-backed data source found in
// the model's partition queries.
type DataSourceInfo struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// SummaryStats aggregates the extracted model. TotalColumns counts the
// main table's columns only; the other totals are model-wide.
type SummaryStats struct {
	MainTable           string `json:"mainTable"`
	TotalColumns        int    `json:"totalColumns"`
	TotalMeasures       int    `json:"totalMeasures"`
	TotalRelationships  int    `json:"totalRelationships"`
	TotalHierarchies    int    `json:"totalHierarchies"`
	HasTimeIntelligence bool   `json:"hasTimeIntelligence"`
}
