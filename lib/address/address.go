// Package address decomposes the free-text fiscal-domicile line MetroWeb
// renders into structured components. Parsing is heuristic: an ordered
// chain of rules, each of which claims part of the input or abstains.
// Nothing is ever discarded; what no rule claims ends up in Remainder.
package address

import (
	"regexp"
	"strings"

	"metroweb-extractor/lib/textutil"
)

type Address struct {
	Street     string
	Number     string
	Locality   string
	Province   string
	PostalCode string
	// segments no rule could classify, joined with ", "
	Remainder string
}

var provinces = []string{
	"Buenos Aires",
	"CABA",
	"Ciudad Autónoma de Buenos Aires",
	"Catamarca",
	"Chaco",
	"Chubut",
	"Córdoba",
	"Corrientes",
	"Entre Ríos",
	"Formosa",
	"Jujuy",
	"La Pampa",
	"La Rioja",
	"Mendoza",
	"Misiones",
	"Neuquén",
	"Río Negro",
	"Salta",
	"San Juan",
	"San Luis",
	"Santa Cruz",
	"Santa Fe",
	"Santiago del Estero",
	"Tierra del Fuego",
	"Tierra del Fuego, Antártida e Islas del Atlántico Sur",
	"Tucumán",
}

var (
	// plain 4-digit code or the full CPA form (A1234BCD)
	postalCodeRegex  = regexp.MustCompile(`^\(?([A-Z]?\d{4}[A-Z]{0,3})\)?$`)
	numberTokenRegex = regexp.MustCompile(`^\d+[A-Za-z]?$`)
)

type state struct {
	// comma-delimited segments still unclaimed
	segments []string
	out      Address
	// true once some rule recognized part of the input, which makes the
	// leading segment safe to read as street+number
	anchored bool
}

type rule func(*state)

var ruleChain = []rule{
	rulePostalCode,
	ruleProvince,
	ruleLocality,
	ruleStreetNumber,
}

// Parse never fails: a best-effort partial result is always returned,
// with unclassifiable text preserved in Remainder.
func Parse(raw string) Address {
	line := textutil.CleanSingleLine(raw)
	if line == "" {
		return Address{}
	}

	st := &state{}
	for _, seg := range strings.Split(line, ",") {
		seg = textutil.CleanSingleLine(seg)
		if seg != "" {
			st.segments = append(st.segments, seg)
		}
	}

	for _, apply := range ruleChain {
		apply(st)
	}

	if len(st.segments) > 0 {
		st.out.Remainder = strings.Join(st.segments, ", ")
	}
	return st.out
}

func (st *state) popLast() string {
	last := st.segments[len(st.segments)-1]
	st.segments = st.segments[:len(st.segments)-1]
	return last
}

func rulePostalCode(st *state) {
	if len(st.segments) == 0 {
		return
	}
	m := postalCodeRegex.FindStringSubmatch(st.segments[len(st.segments)-1])
	if m == nil {
		return
	}
	st.out.PostalCode = m[1]
	st.popLast()
	st.anchored = true
}

func ruleProvince(st *state) {
	if len(st.segments) == 0 {
		return
	}

	last := st.segments[len(st.segments)-1]
	norm := textutil.NormalizeLabel(last)

	// comma form: the whole trailing segment names the province
	for _, p := range provinces {
		if norm == textutil.NormalizeLabel(p) {
			st.out.Province = last
			st.popLast()
			st.anchored = true
			return
		}
	}

	// single-line form without commas: the province trails the text
	if len(st.segments) > 1 {
		return
	}
	if prov, rest, ok := trailingProvince(last); ok {
		st.out.Province = prov
		st.segments[len(st.segments)-1] = rest
		st.anchored = true
		if rest == "" {
			st.popLast()
		}
	}
}

// trailingProvince looks for a known province name at the end of seg,
// comparing accent- and case-insensitively, longest name first.
func trailingProvince(seg string) (prov, rest string, ok bool) {
	tokens := strings.Fields(seg)
	normed := make([]string, len(tokens))
	for i, tok := range tokens {
		normed[i] = textutil.NormalizeLabel(tok)
	}

	best := 0
	for _, p := range provinces {
		ptokens := strings.Fields(textutil.NormalizeLabel(strings.ReplaceAll(p, ",", " ")))
		n := len(ptokens)
		if n > len(tokens) || n <= best {
			continue
		}
		match := true
		for i := 0; i < n; i++ {
			if normed[len(tokens)-n+i] != ptokens[i] {
				match = false
				break
			}
		}
		if match {
			best = n
		}
	}
	if best == 0 {
		return "", "", false
	}
	return strings.Join(tokens[len(tokens)-best:], " "),
		strings.Join(tokens[:len(tokens)-best], " "),
		true
}

func ruleLocality(st *state) {
	if len(st.segments) >= 2 {
		st.out.Locality = st.popLast()
		st.anchored = true
		return
	}

	// no comma to lean on: whatever follows the street number is the
	// locality ("Suyai 2632 Luján de Cuyo")
	if len(st.segments) != 1 || !st.anchored {
		return
	}
	tokens := strings.Fields(st.segments[0])
	lastNum := -1
	for i, tok := range tokens {
		if numberTokenRegex.MatchString(tok) {
			lastNum = i
		}
	}
	if lastNum < 0 || lastNum == len(tokens)-1 {
		return
	}
	st.out.Locality = strings.Join(tokens[lastNum+1:], " ")
	st.segments[0] = strings.Join(tokens[:lastNum+1], " ")
}

func ruleStreetNumber(st *state) {
	if len(st.segments) == 0 {
		return
	}

	tokens := strings.Fields(st.segments[0])
	hasNumber := len(tokens) > 1 && numberTokenRegex.MatchString(tokens[len(tokens)-1])

	// an isolated blob with no recognized companions and no trailing
	// number is not confidently a street; leave it to Remainder
	if !st.anchored && !hasNumber {
		return
	}

	seg := st.segments[0]
	st.segments = st.segments[1:]

	if hasNumber {
		st.out.Number = tokens[len(tokens)-1]
		st.out.Street = strings.Join(tokens[:len(tokens)-1], " ")
		return
	}
	st.out.Street = seg
}
