package metroweb

import (
	"context"
	"log/slog"

	"metroweb-extractor/lib/address"
	"metroweb-extractor/lib/dates"
	"metroweb-extractor/lib/labelmap"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// every canonical field the orchestrator reads off a portal page; a map
// missing any of these is rejected before navigation starts
var requiredFields = []string{
	"nro_ot", "vpe_numero", "empresa_solicitante", "usuario_representado",
	"nombre_usuario", "direccion_legal", "cuit",
	"domicilio_instalacion", "codigo_aprobacion", "nro_serie",
	"modelo", "marca", "fabricante", "origen", "nro_disposicion",
	"fecha_aprobacion", "maximo", "minimo", "e", "dd_dt", "clase",
}

type Options struct {
	// called after each instrument is assembled
	OnProgress func(done, total int)
}

// Extract assembles one Record per instrument found under the work
// order. Field- and instrument-level failures are absorbed into partial
// records; navigation failures abort this OT only; a defective label
// map aborts immediately.
func Extract(ctx context.Context, client *Client, ot string, m *labelmap.Map, opts Options) ([]*Record, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()
	span.SetAttributes(attribute.String("ot", ot))

	if err := m.Validate(requiredFields...); err != nil {
		span.SetStatus(codes.Error, "defective label map")
		return nil, err
	}

	wo, err := client.OpenWorkOrder(ctx, ot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open work order")
		return nil, err
	}

	header, err := readHeader(wo, m)
	if err != nil {
		return nil, err
	}

	records := []*Record{}
	total := len(wo.Instruments)
	for i, handle := range wo.Instruments {
		// cancellation stops before the next instrument, never mid-field
		if err := ctx.Err(); err != nil {
			return records, err
		}

		rec, err := client.extractInstrument(ctx, handle, m, header)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, rec)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, total)
		}
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

// header carries the trámite-level values shared by every instrument
// record of the work order.
type header struct {
	ot, vpe   string
	empresa   string
	razon     string
	domicilio string
	cuit      string
	fiscal    address.Address
}

func readHeader(wo *WorkOrder, m *labelmap.Map) (header, error) {
	h := header{ot: wo.OT, vpe: wo.VPE}

	nroOT, _, err := wo.Summary.Field(m, "nro_ot")
	if err != nil {
		return h, err
	}
	if nroOT != "" {
		h.ot = nroOT
	}

	if h.vpe == "" {
		// older builds only render the number inline on the summary
		vpe, _, err := wo.Summary.Field(m, "vpe_numero")
		if err != nil {
			return h, err
		}
		h.vpe = vpe
	}

	h.empresa, _, err = wo.Summary.Field(m, "empresa_solicitante")
	if err != nil {
		return h, err
	}

	// detalle.jsp is the primary source for the owner; the summary's
	// represented-user row is the fallback
	h.razon, _, err = wo.Detail.Field(m, "nombre_usuario")
	if err != nil {
		return h, err
	}
	if h.razon == "" {
		h.razon, _, err = wo.Summary.Field(m, "usuario_representado")
		if err != nil {
			return h, err
		}
	}

	h.domicilio, _, err = firstOf(m, "direccion_legal", wo.Detail, wo.Summary)
	if err != nil {
		return h, err
	}
	h.cuit, _, err = firstOf(m, "cuit", wo.Detail, wo.Summary)
	if err != nil {
		return h, err
	}

	h.fiscal = address.Parse(h.domicilio)
	return h, nil
}

func firstOf(m *labelmap.Map, field string, docs ...*Document) (string, bool, error) {
	for _, doc := range docs {
		v, found, err := doc.Field(m, field)
		if err != nil {
			return "", false, err
		}
		if found {
			return v, true, nil
		}
	}
	return "", false, nil
}

// extractInstrument reads one instrument page plus its receptor and
// indicador model pages. A page that cannot be loaded degrades to a
// record with the trámite-level fields only; a nil record means the
// instrument was skipped entirely.
func (c *Client) extractInstrument(ctx context.Context, handle InstrumentHandle, m *labelmap.Map, h header) (*Record, error) {
	ctx, span := tracer.Start(ctx, "client:extractInstrument")
	defer span.End()
	span.SetAttributes(attribute.String("instrument", handle.ID))

	rec := newRecord(h.ot, h.vpe)
	rec.FiscalAddress = h.fiscal
	rec.set(FieldNroOT, h.ot)
	rec.set(FieldVPE, h.vpe)
	rec.set(FieldEmpresa, h.empresa)
	rec.set(FieldRazonSocial, h.razon)
	rec.set(FieldCUIT, h.cuit)
	rec.set(FieldDomicilioFiscal, h.domicilio)
	rec.set(FieldLocalidadFiscal, h.fiscal.Locality)
	rec.set(FieldProvinciaFiscal, h.fiscal.Province)
	rec.set(FieldInstrumento, instrumentName)
	rec.set(FieldIndicadorTipo, indicatorType)

	doc, err := c.InstrumentPage(ctx, handle)
	if err != nil {
		// isolation is per-instrument: report and keep the partial record
		span.RecordError(err)
		span.SetStatus(codes.Error, "instrument page failed to load")
		slog.ErrorContext(ctx, "skipping instrument page",
			"instrument", handle.ID, "err", err)
		return rec, nil
	}

	if err := readInstallation(doc, m, rec); err != nil {
		return nil, err
	}

	approvalCodes, err := doc.FieldAll(m, "codigo_aprobacion")
	if err != nil {
		return nil, err
	}
	series, err := doc.FieldAll(m, "nro_serie")
	if err != nil {
		return nil, err
	}
	models := doc.Links("modeloDetalle.do")

	// the instrument page lists the receptor part first, the electronic
	// indicator second
	parts := []struct {
		prefix       string
		metrological bool
	}{
		{"receptor", true},
		{"indicador", false},
	}
	for i, part := range parts {
		model := map[string]string{}
		if i < len(models) {
			model, err = c.readModel(ctx, models[i].Href, m)
			if err != nil {
				return nil, err
			}
		}

		code := model["codigo_aprobacion"]
		if code == "" && i < len(approvalCodes) {
			code = approvalCodes[i]
		}
		serie := ""
		if i < len(series) {
			serie = series[i]
		}

		rec.set(part.prefix+"_fabricante", model["fabricante"])
		rec.set(part.prefix+"_marca", model["marca"])
		rec.set(part.prefix+"_modelo", model["modelo"])
		rec.set(part.prefix+"_serie", serie)
		rec.set(part.prefix+"_codigo_aprobacion", code)
		rec.set(part.prefix+"_origen", model["origen"])
		rec.set(part.prefix+"_nro_disposicion", model["nro_disposicion"])
		rec.set(part.prefix+"_fecha_aprobacion", exportDate(ctx, model["fecha_aprobacion"]))

		if part.metrological {
			// the verification sheet wants e and dd=dt equal; the model
			// page is inconsistent about which row carries the value
			division := model["dd_dt"]
			if division == "" {
				division = model["e"]
			}
			rec.set("e", division)
			rec.set("dd_dt", division)
			rec.set("maximo", model["maximo"])
			rec.set("minimo", model["minimo"])
			rec.set("clase", model["clase"])
		}
	}

	return rec, nil
}

func readInstallation(doc *Document, m *labelmap.Map, rec *Record) error {
	lines, _, err := doc.FieldLines(m, "domicilio_instalacion")
	if err != nil {
		return err
	}
	pick := func(i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}
	rec.set(FieldInstalacionDomicilio, pick(0))
	rec.set(FieldInstalacionLocalidad, pick(1))
	rec.set(FieldInstalacionProvincia, pick(2))
	return nil
}

// model page fields, keyed by their canonical names
var modelFields = []string{
	"modelo", "marca", "fabricante", "origen", "nro_disposicion",
	"fecha_aprobacion", "maximo", "minimo",
	"e", "dd_dt", "clase", "codigo_aprobacion",
}

func (c *Client) readModel(ctx context.Context, href string, m *labelmap.Map) (map[string]string, error) {
	out := map[string]string{}
	if href == "" {
		return out, nil
	}

	doc, err := c.ModelPage(ctx, href)
	if err != nil {
		// same contract as a missing label: the fields stay unresolved
		slog.ErrorContext(ctx, "model page failed to load", "href", href, "err", err)
		return out, nil
	}

	for _, field := range modelFields {
		v, found, err := doc.Field(m, field)
		if err != nil {
			return nil, err
		}
		if found {
			out[field] = v
		}
	}
	return out, nil
}

// exportDate renders a portal date in the canonical export form; a date
// no layout recognizes counts as a missing field.
func exportDate(ctx context.Context, raw string) string {
	if raw == "" {
		return ""
	}
	d, err := dates.ParseSpanish(raw)
	if err != nil {
		slog.WarnContext(ctx, "unparseable portal date", "raw", raw)
		return ""
	}
	return dates.FormatSpanish(d)
}
