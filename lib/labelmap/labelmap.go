// Package labelmap holds the versioned lookup table mapping canonical
// field names to the on-page label variants MetroWeb has shipped over
// the years, plus the export column ordering for the verification sheet.
package labelmap

import (
	"errors"
	"fmt"

	"metroweb-extractor/lib/configutil"
)

// ErrUnknownField means code referenced a canonical field the map has no
// entry for. That is a configuration defect, not portal drift: silently
// skipping it would corrupt export column alignment, so it is fatal.
var ErrUnknownField = errors.New("no label map entry for field")

type Column struct {
	// canonical record field the column reads
	Field string `json:"field"`
	// display title written to the Campo column
	Title string `json:"title"`
}

// Map is immutable during a run; reloading between runs needs no session
// restart. Variant lists are ordered: more specific variants first, the
// first match wins.
type Map struct {
	Fields map[string][]string `json:"fields"`
	Export []Column            `json:"export"`
}

// Resolve returns the candidate label variants for a canonical field, in
// declaration order.
func (m *Map) Resolve(field string) ([]string, error) {
	variants, ok := m.Fields[field]
	if !ok || len(variants) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return variants, nil
}

// Validate checks that every listed field resolves. Run it at startup so
// a defective map aborts before any navigation happens.
func (m *Map) Validate(required ...string) error {
	for _, field := range required {
		if _, err := m.Resolve(field); err != nil {
			return err
		}
	}
	if len(m.Export) == 0 {
		return errors.New("label map has no export columns")
	}
	for _, col := range m.Export {
		if col.Field == "" || col.Title == "" {
			return fmt.Errorf("export column %+v is incomplete", col)
		}
	}
	return nil
}

// Load reads a label map from a json5 file (with configutil's .local
// override convention). Fields or export columns absent from the file
// fall back to the built-in defaults.
func Load(path string) (*Map, error) {
	m, err := configutil.ReadConfig[Map](path)
	if err != nil {
		return nil, err
	}
	if m.Fields == nil {
		m.Fields = Default().Fields
	}
	if len(m.Export) == 0 {
		m.Export = Default().Export
	}
	return &m, nil
}
