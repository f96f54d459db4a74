// Package pbit turns a Power BI template archive (.pbit, a renamed ZIP)
// into a grading-oriented model and a deterministic text report.
//
// The pipeline is strictly sequential and stateless: unpack the
// archive, locate and decode the embedded DataModelSchema, parse it as
// JSON, reduce it to the grading model, render the report. Each run
// works in its own temporary directory which is removed before
// returning, success or not.
package pbit

import (
	"os"

	"github.com/feichai0017/pbit-mentor/internal/models"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
)

type Analyzer struct {
	logger logger.Logger
}

func NewAnalyzer(log logger.Logger) *Analyzer {
	return &Analyzer{logger: log}
}

// Analyze runs the full pipeline on one template file and returns the
// rendered report.
func (a *Analyzer) Analyze(path string) (string, error) {
	info, err := a.Extract(path)
	if err != nil {
		return "", err
	}
	return RenderReport(info), nil
}

// Extract runs the pipeline up to the grading model, without rendering.
func (a *Analyzer) Extract(path string) (models.GradingInfo, error) {
	dir, err := ExtractArchive(path)
	if err != nil {
		return models.GradingInfo{}, err
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			a.logger.Warn("Failed to clean up template workspace",
				logger.String("dir", dir),
				logger.Error(err),
			)
		}
	}()

	text, err := ReadSchema(dir)
	if err != nil {
		return models.GradingInfo{}, err
	}

	tree, err := ParseSchema(text)
	if err != nil {
		return models.GradingInfo{}, err
	}

	info := ExtractGradingInfo(tree)
	a.logger.Debug("Extracted grading model",
		logger.String("path", path),
		logger.String("model", info.ModelName),
		logger.Int("tables", len(info.Tables)),
		logger.Int("measures", len(info.Measures)),
	)
	return info, nil
}
