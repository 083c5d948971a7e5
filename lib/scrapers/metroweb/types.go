package metroweb

import (
	"metroweb-extractor/lib/address"
)

// canonical record field names; no raw portal label ever leaves this
// package
const (
	FieldNroOT                = "nro_ot"
	FieldVPE                  = "vpe_numero"
	FieldEmpresa              = "empresa_solicitante"
	FieldRazonSocial          = "razon_social"
	FieldCUIT                 = "cuit"
	FieldDomicilioFiscal      = "domicilio_fiscal"
	FieldLocalidadFiscal      = "localidad_fiscal"
	FieldProvinciaFiscal      = "provincia_fiscal"
	FieldInstalacionDomicilio = "instalacion_domicilio"
	FieldInstalacionLocalidad = "instalacion_localidad"
	FieldInstalacionProvincia = "instalacion_provincia"
	FieldInstrumento          = "instrumento_verificado"
	FieldIndicadorTipo        = "indicador_tipo"
)

// values fixed by the verification sheet for this instrument category
const (
	instrumentName = "Balanza para pesar camiones"
	indicatorType  = "electrónica"
)

// InstrumentHandle identifies one instrument sub-page under a work order.
type InstrumentHandle struct {
	ID   string
	Href string
}

// Record is one extracted instrument: cleaned values keyed by canonical
// field name, plus metadata naming the fields that could not be
// resolved, so the exporter can render blank cells deterministically.
// Immutable once returned by Extract.
type Record struct {
	OT  string
	VPE string

	Fields  map[string]string
	Missing []string

	// decomposition of the fiscal domicile line; the raw line itself is
	// kept verbatim in Fields[FieldDomicilioFiscal]
	FiscalAddress address.Address
}

func newRecord(ot, vpe string) *Record {
	return &Record{
		OT:     ot,
		VPE:    vpe,
		Fields: map[string]string{},
	}
}

// set records a resolved value, or marks the field missing when the
// value came back empty. Call order fixes the order of Missing.
func (r *Record) set(field, value string) {
	if value == "" {
		r.Missing = append(r.Missing, field)
		return
	}
	r.Fields[field] = value
}

// Value returns the field's cleaned text, or "" for missing fields.
func (r *Record) Value(field string) string {
	return r.Fields[field]
}

// IsMissing reports whether the field failed to resolve during
// extraction.
func (r *Record) IsMissing(field string) bool {
	for _, f := range r.Missing {
		if f == field {
			return true
		}
	}
	return false
}
