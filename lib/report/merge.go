package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrWorkbookLocked means the master workbook could not be opened for
// writing, usually because Excel has it open.
var ErrWorkbookLocked = errors.New("master workbook is open in another program")

const mergedSheetBase = "datos vpe"

// MergeIntoWorkbook adds the extraction rows to the master workbook at
// masterPath as a new first sheet, never touching the existing sheets.
// The result is written to a sibling copy of the master; the original
// file stays untouched. Returns the path of the copy.
func MergeIntoWorkbook(masterPath string, rows []Row) (string, error) {
	if err := checkWritable(masterPath); err != nil {
		return "", err
	}

	f, err := excelize.OpenFile(masterPath)
	if err != nil {
		return "", fmt.Errorf("opening master workbook: %w", err)
	}
	defer f.Close()

	sheet := uniqueSheetName(f, mergedSheetBase)
	if _, err := f.NewSheet(sheet); err != nil {
		return "", err
	}
	if err := writeSheet(f, sheet, rows, true); err != nil {
		return "", err
	}
	if err := f.MoveSheet(sheet, f.GetSheetName(0)); err != nil {
		return "", err
	}

	out := safeCopyPath(masterPath)
	if err := f.SaveAs(out); err != nil {
		return "", fmt.Errorf("saving merged workbook: %w", err)
	}
	return out, nil
}

func checkWritable(path string) error {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("%w: %s", ErrWorkbookLocked, path)
	}
	return file.Close()
}

// uniqueSheetName appends " (2)", " (3)" and so on until the name is
// free in the workbook.
func uniqueSheetName(f *excelize.File, base string) string {
	name := base
	for n := 2; sheetExists(f, name); n++ {
		name = fmt.Sprintf("%s (%d)", base, n)
	}
	return name
}

func sheetExists(f *excelize.File, name string) bool {
	for _, existing := range f.GetSheetList() {
		if existing == name {
			return true
		}
	}
	return false
}

// safeCopyPath derives the output path for the merged copy:
// master.xlsx becomes master_con_datos_vpe.xlsx, with a numeric suffix
// if that already exists.
func safeCopyPath(masterPath string) string {
	dir := filepath.Dir(masterPath)
	ext := filepath.Ext(masterPath)
	stem := strings.TrimSuffix(filepath.Base(masterPath), ext)

	out := filepath.Join(dir, stem+"_con_datos_vpe"+ext)
	for n := 2; exists(out); n++ {
		out = filepath.Join(dir, fmt.Sprintf("%s_con_datos_vpe (%d)%s", stem, n, ext))
	}
	return out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
