package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pbit-mentor/internal/errs"
)

func TestDecodeEvaluation(t *testing.T) {
	eval, err := DecodeEvaluation(`{"score": 85, "feedback": "Solid DAX work."}`)
	require.NoError(t, err)
	assert.Equal(t, 85.0, eval.Score)
	assert.Equal(t, "Solid DAX work.", eval.Feedback)
}

func TestDecodeEvaluation_TrimsSurroundingWhitespace(t *testing.T) {
	eval, err := DecodeEvaluation("\n  {\"score\": 50, \"feedback\": \"ok\"}  \n")
	require.NoError(t, err)
	assert.Equal(t, 50.0, eval.Score)
}

func TestDecodeEvaluation_Clamps(t *testing.T) {
	eval, err := DecodeEvaluation(`{"score": 130, "feedback": "generous"}`)
	require.NoError(t, err)
	assert.Equal(t, 100.0, eval.Score)

	eval, err = DecodeEvaluation(`{"score": -5, "feedback": "harsh"}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, eval.Score)
}

func TestDecodeEvaluation_ZeroScoreIsValid(t *testing.T) {
	eval, err := DecodeEvaluation(`{"score": 0, "feedback": "no answer"}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, eval.Score)
}

func TestDecodeEvaluation_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I think this deserves 85 points"},
		{"markdown fence", "```json\n{\"score\": 85, \"feedback\": \"ok\"}\n```"},
		{"missing score", `{"feedback": "ok"}`},
		{"missing feedback", `{"score": 85}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvaluation(tt.raw)
			require.ErrorIs(t, err, errs.ErrMalformedContent)
		})
	}
}

func TestDecodeEvaluation_ErrorCarriesRawOutput(t *testing.T) {
	_, err := DecodeEvaluation("not even close")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not even close")
}

func TestBuildContent(t *testing.T) {
	content := BuildContent("  What does SUMX do?  ", "Iterates row by row.", "Score DAX understanding.")

	assert.Contains(t, content, "Instruction:\nScore DAX understanding.")
	assert.Contains(t, content, "Question:\nWhat does SUMX do?")
	assert.Contains(t, content, "Answer:\nIterates row by row.")
	assert.Contains(t, content, "Return ONLY valid JSON")
}

func TestBuildVisualContent(t *testing.T) {
	content := BuildVisualContent("Describe the dashboard.", "Score layout choices.")

	assert.Contains(t, content, "Instruction:\nScore layout choices.")
	assert.Contains(t, content, "Question:\nDescribe the dashboard.")
	assert.Contains(t, content, "Use ONLY the provided visual document")
	assert.NotContains(t, content, "Answer:")
}
