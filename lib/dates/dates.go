// Package dates parses the heterogeneous date strings MetroWeb renders
// (numeric layouts with two- or four-digit years, plus the castilian
// textual form) and formats them back into the canonical export text.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"metroweb-extractor/lib/textutil"
)

var ErrUnrecognizedDate = errors.New("unrecognized date format")

var monthNames = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var monthByName = func() map[string]time.Month {
	out := make(map[string]time.Month, len(monthNames)+1)
	for i, name := range monthNames {
		out[name] = time.Month(i + 1)
	}
	// portal drift: both spellings show up
	out["setiembre"] = time.September
	return out
}()

var (
	numericDateRegex = regexp.MustCompile(`^(\d{1,4})[/.\-](\d{1,2})[/.\-](\d{1,4})$`)
	textualDateRegex = regexp.MustCompile(`^(\d{1,2}) de ([a-zñ]+) de (\d{4})$`)
)

// two-digit years pivot at 50: 00-49 land in the 2000s, 50-99 in the
// 1900s. Do not move the boundary without checking real portal data.
func expandYear(y int) int {
	if y >= 100 {
		return y
	}
	if y >= 50 {
		return 1900 + y
	}
	return 2000 + y
}

// ParseSpanish parses a portal date string. Accepted layouts:
// dd/mm/yyyy, dd-mm-yyyy, dd.mm.yyyy, yyyy-mm-dd, dd/mm/yy, dd-mm-yy
// and the textual form "22 de abril de 1997".
func ParseSpanish(raw string) (time.Time, error) {
	s := textutil.CleanSingleLine(raw)
	if s == "" {
		return time.Time{}, ErrUnrecognizedDate
	}

	if m := textualDateRegex.FindStringSubmatch(textutil.NormalizeLabel(s)); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := monthByName[m[2]]
		if !ok {
			return time.Time{}, fmt.Errorf("%w: unknown month %q", ErrUnrecognizedDate, m[2])
		}
		year, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day)
	}

	m := numericDateRegex.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedDate, raw)
	}

	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	c, _ := strconv.Atoi(m[3])

	// iso layout puts the 4-digit year first
	if len(m[1]) == 4 {
		return makeDate(a, time.Month(b), c)
	}
	return makeDate(expandYear(c), time.Month(b), a)
}

func makeDate(year int, month time.Month, day int) (time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("%w: month %d out of range", ErrUnrecognizedDate, month)
	}
	if day < 1 || day > daysIn(year, month) {
		return time.Time{}, fmt.Errorf("%w: day %d out of range", ErrUnrecognizedDate, day)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatSpanish renders the canonical export form, e.g. "22 de abril de 1997".
// The destination is a text-only spreadsheet cell, so this is a string on
// purpose rather than a machine date.
func FormatSpanish(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}
