package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanSingleLine(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"  Av. Libertador   1234 ", "Av. Libertador 1234"},
		{"Buenos Aires", "Buenos Aires"},
		{"linea uno\r\nlinea dos", "linea uno linea dos"},
		{"con\ttabs\t\ty nbsp", "con tabs y nbsp"},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, CleanSingleLine(test.in))
	}
}

func TestCleanSingleLineIdempotent(t *testing.T) {
	inputs := []string{
		"  Nº de CUIT   30-12345678-9 ",
		"ya limpio",
		"\n\n\t",
	}
	for _, in := range inputs {
		once := CleanSingleLine(in)
		require.Equal(t, once, CleanSingleLine(once))
	}
}

func TestNormalizeLabel(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"Código de Aprobación de Modelo", "codigo de aprobacion de modelo"},
		{"Dirección  Legal", "direccion legal"},
		{"Nº Disposición", "nº disposicion"},
		{"FECHA ÚLTIMA VERIFICACIÓN", "fecha ultima verificacion"},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, NormalizeLabel(test.in))
	}
}

func TestOnlyDigits(t *testing.T) {
	require.Equal(t, "62136", OnlyDigits("VPE Nº 62136"))
	require.Equal(t, "30123456789", OnlyDigits("30-12345678-9"))
	require.Equal(t, "", OnlyDigits("sin numeros"))
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("Ruta 9 Km 44\r\n  Campana \n\nBuenos Aires\n")
	require.Equal(t, []string{"Ruta 9 Km 44", "Campana", "Buenos Aires"}, lines)
}
