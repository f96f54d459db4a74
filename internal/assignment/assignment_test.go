package assignment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/internal/models"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "week1.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSpec(t, `
questions:
  dax: Build a YoY sales measure.
  visual: Design a regional sales dashboard.
  write: Explain your modeling choices.
rubrics:
  dax: Award full marks for correct SAMEPERIODLASTYEAR usage.
  visual: Judge layout and chart selection.
`)

	spec, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Build a YoY sales measure.", spec.Question(models.SectionDAX))
	assert.Equal(t, "Design a regional sales dashboard.", spec.Question(models.SectionVisual))
	assert.Equal(t, "Explain your modeling choices.", spec.Question(models.SectionWrite))
	assert.Equal(t, "Judge layout and chart selection.", spec.Rubric(models.SectionVisual))
	// A section may have a question without a rubric.
	assert.Equal(t, "", spec.Rubric(models.SectionWrite))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.yaml"))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeSpec(t, "questions: [unterminated")
	_, err := Load(path)
	assert.ErrorIs(t, err, errs.ErrMalformedContent)
}

func TestLoad_NoQuestions(t *testing.T) {
	path := writeSpec(t, "rubrics:\n  dax: Only rubrics here.\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, errs.ErrMalformedContent)
}
