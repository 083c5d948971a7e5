package metroweb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"metroweb-extractor/lib/labelmap"
	"metroweb-extractor/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const (
	testUser = "inspector"
	testPass = "secreto"
)

func row(label, value string) string {
	return fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>", label, value)
}

const loginForm = `<form action="/MetroWeb/validar.do" method="post">
	<input type="hidden" name="token" value="t1">
	<input type="text" name="usuario">
	<input type="password" name="contrasena">
	<input type="submit" value="Ingresar">
</form>`

// newPortal serves a miniature of the MetroWeb JSP flow. Like the real
// portal, the resumen and detalle pages render whichever procedure was
// opened last, so the handler keeps that bit of session state.
func newPortal(t *testing.T) *httptest.Server {
	openVPE := ""

	mux := http.NewServeMux()
	mux.HandleFunc("/MetroWeb/pages/ingreso.jsp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginForm)
	})
	mux.HandleFunc("/MetroWeb/validar.do", func(w http.ResponseWriter, r *http.Request) {
		ok := r.FormValue("usuario") == testUser &&
			r.FormValue("contrasena") == testPass &&
			r.FormValue("token") == "t1"
		if !ok {
			fmt.Fprint(w, "<p>Usuario o contraseña incorrectos</p>"+loginForm)
			return
		}
		fmt.Fprint(w, "<p>Bienvenido</p>")
	})
	mux.HandleFunc("/MetroWeb/entrarPML.do", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			fmt.Fprint(w, `<form action="/MetroWeb/entrarPML.do" method="post">
				<input type="hidden" name="metodo" value="buscar">
				<input type="text" name="numeroOT">
			</form>`)
			return
		}
		switch r.FormValue("numeroOT") {
		case "307-62136":
			fmt.Fprint(w, `<a href="/MetroWeb/tramiteVPE.do?id=9">VPE 123456</a>`)
		case "308-00001":
			fmt.Fprint(w, `<a href="/MetroWeb/tramiteVPE.do?id=10">VPE Nº 654321</a>`)
		default:
			fmt.Fprint(w, "<p>Sin resultados</p>")
		}
	})
	mux.HandleFunc("/MetroWeb/tramiteVPE.do", func(w http.ResponseWriter, r *http.Request) {
		openVPE = r.URL.Query().Get("id")
		fmt.Fprint(w, "<p>ok</p>")
	})
	mux.HandleFunc("/MetroWeb/pages/tramiteVPE/resumen.jsp", func(w http.ResponseWriter, r *http.Request) {
		if openVPE == "10" {
			// a procedure without instruments loaded yet
			fmt.Fprint(w, "<table>"+
				row("Nro OT", "308-00001")+
				row("Empresa Solicitante", "Pesaje SRL")+
				row("Usuario Representado", "Cerealera Norte S.A.")+
				"</table>")
			return
		}
		fmt.Fprint(w, "<table>"+
			row("Nro OT", "307-62136")+
			row("Número:", "123456")+
			row("Empresa Solicitante", "Pesaje SRL")+
			row("Usuario Representado", "Agroindustrias del Sur S.A.")+
			"</table>"+
			// the first instrument link repeats; enumeration dedups it
			`<a href="/MetroWeb/instrumentoDetalle.do?idInstrumento=11">Instrumento</a>`+
			`<a href="/MetroWeb/instrumentoDetalle.do?idInstrumento=11">Instrumento</a>`+
			`<a href="/MetroWeb/instrumentoDetalle.do?idInstrumento=12">Instrumento</a>`)
	})
	mux.HandleFunc("/MetroWeb/pages/tramiteVPE/detalle.jsp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<table>"+
			row("Nombre del Usuario del Instrumento", "Agroindustrias del Sur S.A.")+
			row("Dirección Legal", "Av. Libertador 1234, San Isidro, Buenos Aires")+
			row("Nº de CUIT", "30-12345678-9")+
			"</table>")
	})
	mux.HandleFunc("/MetroWeb/instrumentoDetalle.do", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("idInstrumento") != "11" {
			// an instrument the portal has no data for yet
			fmt.Fprint(w, "<p>Sin datos</p>")
			return
		}
		fmt.Fprint(w, "<table>"+
			"<tr><td>Domicilio donde están los instrumentos</td>"+
			"<td>Ruta 9 Km 44<br>Campana<br>Buenos Aires</td></tr>"+
			row("Código de Aprobación de Modelo", "R-1234")+
			row("Nro de serie", "S-100")+
			row("Código de Aprobación de Modelo", "I-5678")+
			row("Nro de serie", "S-200")+
			"</table>"+
			`<a href="/MetroWeb/modeloDetalle.do?id=1">ver modelo</a>`+
			`<a href="/MetroWeb/modeloDetalle.do?id=2">ver modelo</a>`)
	})
	mux.HandleFunc("/MetroWeb/modeloDetalle.do", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "1":
			fmt.Fprint(w, "<table>"+
				row("Modelo Aprobado", "PT100")+
				row("Marca", "Hook")+
				row("Fabricante/Importador", "Hook SA")+
				row("País Origen", "Argentina")+
				row("Nº Disposición", "123/2020")+
				row("Fecha Aprobación", "22/04/1997")+
				row("Máximo", "80000 kg")+
				row("Mínimo", "400 kg")+
				row("dd=dt", "20 kg")+
				row("Clase", "III")+
				"</table>")
		case "2":
			fmt.Fprint(w, "<table>"+
				row("Modelo", "IND-5")+
				row("Marca", "Digi")+
				row("Fabricante", "Digi SRL")+
				row("Origen", "Brasil")+
				row("Nº Disposición", "77/2019")+
				row("Fecha Aprobación", "3 de marzo de 2015")+
				row("Código de Aprobación", "I-9999")+
				"</table>")
		default:
			http.NotFound(w, r)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: srv.URL})
	require.NoError(t, err)
	return client
}

func TestLogin(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:metroweb")
	defer cleanup()

	srv := newPortal(t)

	client := newTestClient(t, srv)
	require.NoError(t, client.Login(context.Background(), testUser, testPass))

	rejected := newTestClient(t, srv)
	err := rejected.Login(context.Background(), testUser, "incorrecta")
	require.ErrorIs(t, err, ErrAuth)
}

func TestExtract(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:metroweb")
	defer cleanup()

	srv := newPortal(t)
	client := newTestClient(t, srv)
	ctx := context.Background()
	require.NoError(t, client.Login(ctx, testUser, testPass))

	var progress []int
	records, err := Extract(ctx, client, "307-62136", labelmap.Default(), Options{
		OnProgress: func(done, total int) {
			require.Equal(t, 2, total)
			progress = append(progress, done)
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, []int{1, 2}, progress)

	full := records[0]
	require.Equal(t, "307-62136", full.OT)
	require.Equal(t, "123456", full.VPE)
	require.Equal(t, "Pesaje SRL", full.Value(FieldEmpresa))
	require.Equal(t, "Agroindustrias del Sur S.A.", full.Value(FieldRazonSocial))
	require.Equal(t, "30-12345678-9", full.Value(FieldCUIT))
	require.Equal(t, "Av. Libertador 1234, San Isidro, Buenos Aires", full.Value(FieldDomicilioFiscal))
	require.Equal(t, "San Isidro", full.Value(FieldLocalidadFiscal))
	require.Equal(t, "Buenos Aires", full.Value(FieldProvinciaFiscal))
	require.Equal(t, "Ruta 9 Km 44", full.Value(FieldInstalacionDomicilio))
	require.Equal(t, "Campana", full.Value(FieldInstalacionLocalidad))
	require.Equal(t, "Buenos Aires", full.Value(FieldInstalacionProvincia))
	require.Equal(t, "Balanza para pesar camiones", full.Value(FieldInstrumento))

	require.Equal(t, "Hook SA", full.Value("receptor_fabricante"))
	require.Equal(t, "Hook", full.Value("receptor_marca"))
	require.Equal(t, "PT100", full.Value("receptor_modelo"))
	require.Equal(t, "S-100", full.Value("receptor_serie"))
	// the receptor model page carries no approval code, so the
	// instrument page's first code row fills in
	require.Equal(t, "R-1234", full.Value("receptor_codigo_aprobacion"))
	require.Equal(t, "Argentina", full.Value("receptor_origen"))
	require.Equal(t, "123/2020", full.Value("receptor_nro_disposicion"))
	require.Equal(t, "22 de abril de 1997", full.Value("receptor_fecha_aprobacion"))
	require.Equal(t, "80000 kg", full.Value("maximo"))
	require.Equal(t, "400 kg", full.Value("minimo"))
	require.Equal(t, "20 kg", full.Value("dd_dt"))
	require.Equal(t, "20 kg", full.Value("e"))
	require.Equal(t, "III", full.Value("clase"))

	require.Equal(t, "electrónica", full.Value(FieldIndicadorTipo))
	require.Equal(t, "Digi SRL", full.Value("indicador_fabricante"))
	require.Equal(t, "IND-5", full.Value("indicador_modelo"))
	require.Equal(t, "S-200", full.Value("indicador_serie"))
	// the model page's own code beats the instrument page's
	require.Equal(t, "I-9999", full.Value("indicador_codigo_aprobacion"))
	require.Equal(t, "Brasil", full.Value("indicador_origen"))
	require.Equal(t, "3 de marzo de 2015", full.Value("indicador_fecha_aprobacion"))

	// the second instrument page has no data; the record keeps the
	// trámite-level fields and tracks the rest as missing
	partial := records[1]
	require.Equal(t, "Pesaje SRL", partial.Value(FieldEmpresa))
	require.Equal(t, "San Isidro", partial.Value(FieldLocalidadFiscal))
	require.True(t, partial.IsMissing("receptor_modelo"))
	require.True(t, partial.IsMissing("instalacion_domicilio"))
	require.False(t, partial.IsMissing(FieldInstrumento))
}

func TestExtractZeroInstruments(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:metroweb")
	defer cleanup()

	srv := newPortal(t)
	client := newTestClient(t, srv)
	ctx := context.Background()
	require.NoError(t, client.Login(ctx, testUser, testPass))

	records, err := Extract(ctx, client, "308-00001", labelmap.Default(), Options{})
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestExtractInvalidOT(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:metroweb")
	defer cleanup()

	srv := newPortal(t)
	client := newTestClient(t, srv)

	_, err := Extract(context.Background(), client, "12-345", labelmap.Default(), Options{})
	require.ErrorIs(t, err, ErrInvalidOT)
}

func TestExtractOTNotFound(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:metroweb")
	defer cleanup()

	srv := newPortal(t)
	client := newTestClient(t, srv)
	ctx := context.Background()
	require.NoError(t, client.Login(ctx, testUser, testPass))

	_, err := Extract(ctx, client, "999-99999", labelmap.Default(), Options{})
	require.ErrorIs(t, err, ErrOTNotFound)
}

func TestExtractCancelled(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:metroweb")
	defer cleanup()

	srv := newPortal(t)
	client := newTestClient(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, client.Login(ctx, testUser, testPass))

	// cancelling mid-run stops at the next instrument boundary and
	// keeps the records assembled so far
	records, err := Extract(ctx, client, "307-62136", labelmap.Default(), Options{
		OnProgress: func(done, total int) {
			if done == 1 {
				cancel()
			}
		},
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, records, 1)
}

func TestValidOT(t *testing.T) {
	testCases := []struct {
		ot    string
		valid bool
	}{
		{"307-62136", true},
		{"000-00000", true},
		{"30762136", false},
		{"307-6213", false},
		{"3070-62136", false},
		{"307-62136 ", false},
		{"", false},
	}
	for _, test := range testCases {
		require.Equal(t, test.valid, ValidOT(test.ot), "ot %q", test.ot)
	}
}
