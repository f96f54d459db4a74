// Package evaluator defines the scoring capability the grading service
// depends on. Backends wrap remote generative-AI APIs and must return a
// structured {score, feedback} result for every call.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/internal/models"
)

// Evaluator scores a text answer against a question and rubric.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer, rubric string) (*models.Evaluation, error)
}

// VisualEvaluator additionally scores a PDF document. Not every backend
// supports multimodal input.
type VisualEvaluator interface {
	Evaluator
	EvaluateVisual(ctx context.Context, question, rubric, pdfPath string) (*models.Evaluation, error)
}

type rawEvaluation struct {
	Score    *float64 `json:"score"`
	Feedback *string  `json:"feedback"`
}

// DecodeEvaluation parses a model's raw text output into an Evaluation.
// The output must be a bare JSON object with both fields present; the
// raw text is included in the error so a misbehaving model can be
// diagnosed from logs alone. Scores are clamped to [0, 100].
func DecodeEvaluation(raw string) (*models.Evaluation, error) {
	text := strings.TrimSpace(raw)

	var parsed rawEvaluation
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: model did not return valid JSON: %v\nraw output:\n%s", errs.ErrMalformedContent, err, text)
	}
	if parsed.Score == nil || parsed.Feedback == nil {
		return nil, fmt.Errorf("%w: missing required fields (score, feedback) in response: %s", errs.ErrMalformedContent, text)
	}

	score := *parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &models.Evaluation{Score: score, Feedback: *parsed.Feedback}, nil
}
