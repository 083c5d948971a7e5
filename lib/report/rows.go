// Package report renders extraction records into the two-column
// verification worksheet and merges them into existing master
// workbooks.
package report

import (
	"fmt"

	"metroweb-extractor/lib/labelmap"
	"metroweb-extractor/lib/scrapers/metroweb"
)

// Row is one worksheet line. Separator and blank rows delimit
// instruments when a work order has more than one.
type Row struct {
	Campo string
	Valor string
	// 1-based ordinal of the instrument the row belongs to; zero on
	// blank spacer rows
	Instrument int
	Separator  bool
}

// BuildRows flattens records into worksheet lines following the export
// column order. Missing fields render as empty values, keeping every
// record the same shape.
func BuildRows(records []*metroweb.Record, m *labelmap.Map) []Row {
	var rows []Row
	for i, rec := range records {
		if len(records) > 1 {
			if i > 0 {
				rows = append(rows, Row{})
			}
			rows = append(rows, Row{
				Campo:      fmt.Sprintf("=== INSTRUMENTO %d ===", i+1),
				Instrument: i + 1,
				Separator:  true,
			})
		}
		for _, col := range m.Export {
			rows = append(rows, Row{
				Campo:      col.Title,
				Valor:      rec.Value(col.Field),
				Instrument: i + 1,
			})
		}
	}
	return rows
}
