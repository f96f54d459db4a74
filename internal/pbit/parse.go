package pbit

import (
	"encoding/json"
	"fmt"

	"github.com/feichai0017/pbit-mentor/internal/errs"
)

// ParseSchema parses decoded schema text into a generic JSON tree. The
// raw text is carried in the error so upstream encoding corruption can
// be diagnosed without re-running the pipeline.
func ParseSchema(text string) (map[string]interface{}, error) {
	var tree map[string]interface{}
	if err := json.Unmarshal([]byte(text), &tree); err != nil {
		return nil, fmt.Errorf("%w: schema is not valid JSON: %v\nraw text:\n%s", errs.ErrMalformedContent, err, text)
	}
	return tree, nil
}
