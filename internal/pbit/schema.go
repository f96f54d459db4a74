package pbit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/feichai0017/pbit-mentor/internal/errs"
)

// Known names of the embedded model schema, in priority order. Power BI
// Desktop writes the bare name; some export tools append a .txt suffix.
var schemaNames = []string{"DataModelSchema", "DataModelSchema.txt"}

// The schema is written by tooling that mixes typographic and plain
// quoting, which breaks downstream JSON parsing and DAX comparison.
var quoteNormalizer = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"”", `"`, // right double quotation mark
	"“", `"`, // left double quotation mark
)

// LocateSchema finds the model schema document inside an extracted
// template directory.
func LocateSchema(dir string) (string, error) {
	for _, name := range schemaNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: DataModelSchema not inside template at %s", errs.ErrNotFound, dir)
}

// DecodeSchema decodes the schema document's raw bytes into normalized
// text. Power BI Desktop is inconsistent about emitting a byte-order
// mark, so a strict BOM-honoring UTF-16 decode is attempted first and a
// lenient little-endian decode is the fallback. The fallback never
// fails: undecodable sequences become U+FFFD.
func DecodeSchema(raw []byte) string {
	text, err := decodeUTF16(raw, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM))
	if err != nil {
		// No BOM. The lenient decoder substitutes the replacement rune
		// for anything invalid instead of erroring.
		text, _ = decodeUTF16(raw, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
	}
	return strings.TrimSpace(quoteNormalizer.Replace(text))
}

func decodeUTF16(raw []byte, enc encoding.Encoding) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ReadSchema locates, reads and decodes the schema document in one step.
func ReadSchema(dir string) (string, error) {
	path, err := LocateSchema(dir)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read schema %s: %w", path, err)
	}
	return DecodeSchema(raw), nil
}
