package metroweb

import (
	"io"

	"metroweb-extractor/lib/htmlutil"
	"metroweb-extractor/lib/labelmap"
	"metroweb-extractor/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed portal page the field reader runs against.
type Document struct {
	doc *goquery.Document
}

func ParseDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// Field locates the value for a canonical field: the map's label
// variants are tried in declaration order, each compared against the
// page's label cells case- and accent-insensitively; the first hit wins
// and its adjacent cell is returned cleaned. found is false when no
// variant matched anything, an expected steady-state condition since
// the instrument type decides which fields exist on a page. A missing
// label-map entry is a configuration defect and comes back as an error.
func (d *Document) Field(m *labelmap.Map, field string) (value string, found bool, err error) {
	variants, err := m.Resolve(field)
	if err != nil {
		return "", false, err
	}

	for _, variant := range variants {
		cell := d.valueCell(variant)
		if cell == nil {
			continue
		}
		v := textutil.CleanSingleLine(cell.Text())
		if v != "" {
			return v, true, nil
		}
	}
	return "", false, nil
}

// FieldLines is Field for multi-line cells: <br> and block boundaries
// are preserved as line breaks (the installation domicile block renders
// street, locality and province on three lines).
func (d *Document) FieldLines(m *labelmap.Map, field string) (lines []string, found bool, err error) {
	variants, err := m.Resolve(field)
	if err != nil {
		return nil, false, err
	}

	for _, variant := range variants {
		cell := d.valueCell(variant)
		if cell == nil || len(cell.Nodes) == 0 {
			continue
		}
		lines := textutil.SplitLines(htmlutil.GetTextLines(cell.Nodes[0]))
		if len(lines) > 0 {
			return lines, true, nil
		}
	}
	return nil, false, nil
}

// FieldAll returns every value for a repeated label in document order.
// Instrument pages repeat the approval-code and serial rows once per
// instrument part (receptor, then indicador).
func (d *Document) FieldAll(m *labelmap.Map, field string) ([]string, error) {
	variants, err := m.Resolve(field)
	if err != nil {
		return nil, err
	}

	for _, variant := range variants {
		var values []string
		for _, cell := range d.valueCells(variant) {
			values = append(values, textutil.CleanSingleLine(cell.Text()))
		}
		if len(values) > 0 {
			return values, nil
		}
	}
	return nil, nil
}

// valueCell finds the first label cell whose normalized text equals the
// normalized variant and returns its next sibling cell.
func (d *Document) valueCell(variant string) *goquery.Selection {
	cells := d.valueCells(variant)
	if len(cells) == 0 {
		return nil
	}
	return cells[0]
}

func (d *Document) valueCells(variant string) []*goquery.Selection {
	want := textutil.NormalizeLabel(variant)

	var out []*goquery.Selection
	d.doc.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		if textutil.NormalizeLabel(cell.Text()) != want {
			return
		}
		next := cell.Next()
		if next.Length() == 0 {
			return
		}
		out = append(out, next)
	})
	return out
}

type Anchor struct {
	Text string
	Href string
}

// Links returns the anchors whose href contains substr, in document
// order, with cleaned text.
func (d *Document) Links(substr string) []Anchor {
	var out []Anchor
	d.doc.Find("a[href*='" + substr + "']").Each(func(_ int, a *goquery.Selection) {
		out = append(out, Anchor{
			Text: textutil.CleanSingleLine(a.Text()),
			Href: a.AttrOr("href", ""),
		})
	})
	return out
}
