package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	verificationSheet = "Verificación"

	headerFill    = "4472C4"
	separatorFill = "FFC000"

	campoWidth = 45
	valorWidth = 60
)

// WriteVerification writes rows to a fresh workbook at path. Every cell
// is written as a string: serial numbers, CUITs and approval codes must
// never be reinterpreted as numbers or dates.
func WriteVerification(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", verificationSheet); err != nil {
		return err
	}
	if err := writeSheet(f, verificationSheet, rows, false); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving verification workbook: %w", err)
	}
	return nil
}

// writeSheet fills one worksheet with the standard layout: styled
// header row, frozen panes, fixed column widths. withInstrument adds
// the third column used on merged master sheets.
func writeSheet(f *excelize.File, sheet string, rows []Row, withInstrument bool) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	separatorStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{separatorFill}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "A", campoWidth); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", valorWidth); err != nil {
		return err
	}

	lastCol := "B"
	header := []string{"Campo", "Valor"}
	if withInstrument {
		lastCol = "C"
		header = append(header, "Instrumento")
		if err := f.SetColWidth(sheet, "C", "C", 16); err != nil {
			return err
		}
	}

	for i, title := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, title); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		line := i + 2
		cells := []string{row.Campo, row.Valor}
		if withInstrument {
			cells = append(cells, instrumentTag(row))
		}
		for j, value := range cells {
			cell, err := excelize.CoordinatesToCellName(j+1, line)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		}
		if row.Separator {
			first, _ := excelize.CoordinatesToCellName(1, line)
			last, _ := excelize.CoordinatesToCellName(len(cells), line)
			if err := f.SetCellStyle(sheet, first, last, separatorStyle); err != nil {
				return err
			}
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func instrumentTag(row Row) string {
	if row.Instrument == 0 {
		return ""
	}
	return fmt.Sprintf("Instrumento %d", row.Instrument)
}
