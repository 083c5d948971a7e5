package labelmap

// Default returns the label set observed on production MetroWeb pages.
// Matching is case- and accent-insensitive, so spelling variants that
// differ only in casing or diacritics need no extra entry; the separate
// variants below differ in wording or in the ordinal sign (º vs °),
// which survives normalization.
func Default() *Map {
	return &Map{
		Fields: map[string][]string{
			// resumen.jsp
			"nro_ot":                {"Nro OT", "N° OT", "Nº OT", "Número de O.T."},
			"vpe_numero":            {"Número:", "Número"},
			"empresa_solicitante":   {"Empresa Solicitante"},
			"usuario_representado":  {"Usuario Representado"},

			// detalle.jsp
			"nombre_usuario":     {"Nombre del Usuario del Instrumento", "Nombre del Usuario del equipo", "Nombre del Usuario", "Usuario del instrumento"},
			"direccion_legal":    {"Dirección Legal", "Domicilio Legal"},
			"cuit":               {"Nº de CUIT", "N° de CUIT", "Nro de CUIT", "CUIT"},
			"fecha_verificacion": {"Fecha última Verificación", "Fecha de Verificación", "Fecha verificación"},
			"tipo_verificacion":  {"Tipo de Verificación", "Tipo Verificación"},
			"tolerancia":         {"Tolerancia"},

			// instrumentoDetalle.do
			"domicilio_instalacion": {"Domicilio donde están los instrumentos", "Domicilio donde están", "Domicilio"},
			"codigo_aprobacion":     {"Código de Aprobación de Modelo", "Código de Aprobación"},
			"nro_serie":             {"Nro de serie", "N° de serie", "Nº de serie"},

			// modeloDetalle.do
			"modelo":           {"Modelo Aprobado", "Modelo"},
			"marca":            {"Marca"},
			"fabricante":       {"Fabricante/Importador", "Fabricante", "Importador"},
			"origen":           {"País Origen", "País de Origen", "Origen"},
			"nro_disposicion":  {"Nº Disposición", "N° Disposición", "Nro Disposición", "Nº de Aprobación", "N° de Aprobación"},
			"fecha_aprobacion": {"Fecha Aprobación", "Fecha de Aprobación"},
			"tipo_instrumento": {"Tipo Instrumento", "Tipo de Instrumento"},
			"maximo":           {"Máximo", "Capacidad Máx.", "Capacidad máxima"},
			"minimo":           {"Mínimo", "Capacidad Mín.", "Capacidad mínima"},
			"e":                {"e"},
			"dd_dt":            {"dd=dt", "dt", "dd", "d"},
			"clase":            {"Clase"},
		},
		Export: []Column{
			{Field: "nro_ot", Title: "Número de O.T."},
			{Field: "vpe_numero", Title: "VPE Nº"},
			{Field: "empresa_solicitante", Title: "Empresa solicitante"},
			{Field: "razon_social", Title: "Razón social (Propietario)"},
			{Field: "domicilio_fiscal", Title: "Domicilio (Fiscal)"},
			{Field: "localidad_fiscal", Title: "Localidad (Fiscal)"},
			{Field: "provincia_fiscal", Title: "Provincia (Fiscal)"},
			{Field: "instalacion_domicilio", Title: "Lugar propio de instalación - Domicilio"},
			{Field: "instalacion_localidad", Title: "Lugar propio de instalación - Localidad"},
			{Field: "instalacion_provincia", Title: "Lugar propio de instalación - Provincia"},
			{Field: "instrumento_verificado", Title: "Instrumento verificado"},
			{Field: "receptor_fabricante", Title: "Fabricante receptor"},
			{Field: "receptor_marca", Title: "Marca Receptor"},
			{Field: "receptor_modelo", Title: "Modelo Receptor"},
			{Field: "receptor_serie", Title: "N° de serie Receptor"},
			{Field: "receptor_codigo_aprobacion", Title: "Cód ap. mod. Receptor"},
			{Field: "receptor_origen", Title: "Origen Receptor"},
			{Field: "e", Title: "e"},
			{Field: "maximo", Title: "máx"},
			{Field: "minimo", Title: "mín"},
			{Field: "dd_dt", Title: "dd=dt"},
			{Field: "clase", Title: "clase"},
			{Field: "receptor_nro_disposicion", Title: "N° de Aprobación Modelo (Receptor)"},
			{Field: "receptor_fecha_aprobacion", Title: "Fecha de Aprobación Modelo (Receptor)"},
			{Field: "indicador_tipo", Title: "Tipo (Indicador)"},
			{Field: "indicador_fabricante", Title: "Fabricante Indicador"},
			{Field: "indicador_marca", Title: "Marca Indicador"},
			{Field: "indicador_modelo", Title: "Modelo Indicador"},
			{Field: "indicador_serie", Title: "N° de serie Indicador"},
			{Field: "indicador_codigo_aprobacion", Title: "Código Aprobación (Indicador)"},
			{Field: "indicador_origen", Title: "Origen Indicador"},
			{Field: "indicador_nro_disposicion", Title: "N° de Aprobación Modelo (Indicador)"},
			{Field: "indicador_fecha_aprobacion", Title: "Fecha de Aprobación Modelo (Indicador)"},
		},
	}
}
