package report

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var separatorRegex = regexp.MustCompile(`^=== INSTRUMENTO (\d+) ===$`)

// ReadVerification loads the rows back out of a workbook written by
// WriteVerification, so an earlier extraction can be merged into a
// master workbook without re-running it.
func ReadVerification(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening verification workbook: %w", err)
	}
	defer f.Close()

	lines, err := f.GetRows(verificationSheet)
	if err != nil {
		return nil, fmt.Errorf("workbook has no %q sheet: %w", verificationSheet, err)
	}

	cell := func(line []string, i int) string {
		if i < len(line) {
			return line[i]
		}
		return ""
	}

	var rows []Row
	instrument := 1
	for i, line := range lines {
		if i == 0 {
			// header
			continue
		}
		campo, valor := cell(line, 0), cell(line, 1)
		if campo == "" && valor == "" {
			rows = append(rows, Row{})
			continue
		}
		if m := separatorRegex.FindStringSubmatch(campo); m != nil {
			instrument, _ = strconv.Atoi(m[1])
			rows = append(rows, Row{Campo: campo, Instrument: instrument, Separator: true})
			continue
		}
		rows = append(rows, Row{Campo: campo, Valor: valor, Instrument: instrument})
	}
	return rows, nil
}
