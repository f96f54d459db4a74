// Package assignment loads assignment specifications: the questions a
// submission answers and the rubric each answer is scored against.
package assignment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/internal/models"
)

// Spec maps grading sections to their question and rubric text.
// Sections without a question are skipped during grading.
type Spec struct {
	Questions map[models.Section]string `yaml:"questions"`
	Rubrics   map[models.Section]string `yaml:"rubrics"`
}

// Question returns the question text for a section, "" when absent.
func (s *Spec) Question(section models.Section) string {
	return s.Questions[section]
}

// Rubric returns the rubric text for a section, "" when absent.
func (s *Spec) Rubric(section models.Section) string {
	return s.Rubrics[section]
}

// Load reads an assignment spec from a YAML file.
func Load(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: assignment spec %s", errs.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read assignment spec %s: %w", path, err)
	}

	var spec Spec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("%w: assignment spec %s is not valid YAML: %v", errs.ErrMalformedContent, path, err)
	}
	if len(spec.Questions) == 0 {
		return nil, fmt.Errorf("%w: assignment spec %s defines no questions", errs.ErrMalformedContent, path)
	}
	return &spec, nil
}
