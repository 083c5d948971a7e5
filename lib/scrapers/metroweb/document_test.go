package metroweb

import (
	"strings"
	"testing"

	"metroweb-extractor/lib/labelmap"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *Document {
	doc, err := ParseDocument(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFieldVariants(t *testing.T) {
	m := labelmap.Default()

	testCases := []struct {
		name  string
		html  string
		field string
		value string
		found bool
	}{
		{
			name:  "first variant",
			html:  `<table><tr><td>Modelo Aprobado</td><td>PT100</td></tr></table>`,
			field: "modelo",
			value: "PT100",
			found: true,
		},
		{
			name:  "later variant",
			html:  `<table><tr><td>Modelo</td><td>PT100</td></tr></table>`,
			field: "modelo",
			value: "PT100",
			found: true,
		},
		{
			name: "earlier variant wins over later",
			html: `<table>
				<tr><td>Modelo</td><td>generic</td></tr>
				<tr><td>Modelo Aprobado</td><td>PT100</td></tr>
			</table>`,
			field: "modelo",
			value: "PT100",
			found: true,
		},
		{
			name:  "case and accents ignored",
			html:  `<table><tr><td>DIRECCION LEGAL</td><td>Av. Mitre 55</td></tr></table>`,
			field: "direccion_legal",
			value: "Av. Mitre 55",
			found: true,
		},
		{
			name:  "nbsp and whitespace in label and value",
			html:  "<table><tr><td>Nº de CUIT</td><td>  30-12345678-9 </td></tr></table>",
			field: "cuit",
			value: "30-12345678-9",
			found: true,
		},
		{
			name:  "header cells work as labels",
			html:  `<table><tr><th>Marca</th><td>Hook</td></tr></table>`,
			field: "marca",
			value: "Hook",
			found: true,
		},
		{
			name:  "absent label",
			html:  `<table><tr><td>Otra cosa</td><td>x</td></tr></table>`,
			field: "modelo",
			found: false,
		},
		{
			name:  "label with empty value cell",
			html:  `<table><tr><td>Marca</td><td>   </td></tr></table>`,
			field: "marca",
			found: false,
		},
		{
			name:  "substring labels do not match",
			html:  `<table><tr><td>Modelo Aprobado por INTI</td><td>PT100</td></tr></table>`,
			field: "modelo",
			found: false,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			value, found, err := parse(t, test.html).Field(m, test.field)
			require.NoError(t, err)
			require.Equal(t, test.found, found)
			require.Equal(t, test.value, value)
		})
	}
}

func TestFieldUnknown(t *testing.T) {
	doc := parse(t, `<table><tr><td>Marca</td><td>Hook</td></tr></table>`)
	_, _, err := doc.Field(labelmap.Default(), "no_such_field")
	require.ErrorIs(t, err, labelmap.ErrUnknownField)
}

func TestFieldLines(t *testing.T) {
	doc := parse(t, `<table><tr>
		<td>Domicilio donde están los instrumentos</td>
		<td>Ruta 9 Km 44<br>Campana<br>Buenos Aires</td>
	</tr></table>`)

	lines, found, err := doc.FieldLines(labelmap.Default(), "domicilio_instalacion")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"Ruta 9 Km 44", "Campana", "Buenos Aires"}, lines)
}

func TestFieldAll(t *testing.T) {
	doc := parse(t, `<table>
		<tr><td>Nro de serie</td><td>S-100</td></tr>
		<tr><td>Marca</td><td>Hook</td></tr>
		<tr><td>Nro de serie</td><td>S-200</td></tr>
	</table>`)

	values, err := doc.FieldAll(labelmap.Default(), "nro_serie")
	require.NoError(t, err)
	require.Equal(t, []string{"S-100", "S-200"}, values)
}

func TestLinks(t *testing.T) {
	doc := parse(t, `<body>
		<a href="/MetroWeb/tramiteVPE.do?id=9">  VPE   123456 </a>
		<a href="/MetroWeb/otro.do">ignorado</a>
		<a href="/MetroWeb/tramiteVPE.do?id=10">VPE 654321</a>
	</body>`)

	links := doc.Links("tramiteVPE")
	require.Len(t, links, 2)
	require.Equal(t, "VPE 123456", links[0].Text)
	require.Equal(t, "/MetroWeb/tramiteVPE.do?id=9", links[0].Href)
	require.Equal(t, "VPE 654321", links[1].Text)
}
