package lyrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a lyrics file, choosing the parser by extension: ".json" is the
// interchange format, anything else is plain text.
func Load(path string, opts TextOptions) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc *Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err = ParseJSON(f)
	} else {
		doc, err = ParseText(f, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}
