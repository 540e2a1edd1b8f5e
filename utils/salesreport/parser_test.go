package salesreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFullReport(t *testing.T) {
	text := `Sucursal 8422416200034 ( ECI GOYA 0003 )
8437021807011 119,763
Num. Persona Vtas: 0051258002
8437021807999 49,91
`

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, "8422416200034", first.SucursalID)
	assert.Equal(t, "ECI GOYA 0003", first.SucursalName)
	assert.Equal(t, "8437021807011", first.EAN)
	assert.Equal(t, "3", first.CantidadVendida)
	assert.Equal(t, "119.76", first.Importe)
	assert.Equal(t, "0051258002", first.NumPersonaVtas)

	second := result.Records[1]
	assert.Equal(t, "8422416200034", second.SucursalID)
	assert.Equal(t, "ECI GOYA 0003", second.SucursalName)
	assert.Equal(t, "8437021807999", second.EAN)
	assert.Equal(t, "1", second.CantidadVendida)
	assert.Equal(t, "49.91", second.Importe)
	assert.Equal(t, "", second.NumPersonaVtas)
}

func TestDecomposeToken(t *testing.T) {
	cases := []struct {
		token    string
		importe  string
		cantidad string
		ok       bool
	}{
		{"119,763", "119.76", "3", true},
		{"49,91", "49.91", "1", true},
		{"1.199,7625", "1199.76", "25", true},
		{"0,9903", "0.99", "03", true}, // leading zero in quantity preserved
		{"49,9", "49.90", "1", true},   // single-digit cents padded
		{"1500", "1500", "1", false},   // no comma: fallback
		{"1,2,3", "1,2,3", "1", false}, // two commas: fallback
		{",76", ",76", "1", false},
	}

	for _, c := range cases {
		importe, cantidad, ok := decomposeToken(c.token)
		assert.Equal(t, c.importe, importe, "importe for %q", c.token)
		assert.Equal(t, c.cantidad, cantidad, "cantidad for %q", c.token)
		assert.Equal(t, c.ok, ok, "ok for %q", c.token)
	}
}

func TestParseCarriesStoreContext(t *testing.T) {
	text := `Sucursal 8422416200034 ( ECI GOYA 0003 )
8437021807011 10,501
8437021807012 20,502
8437021807013 30,503
Sucursal 8422416200099 ( ECI CASTELLANA 0007 )
8437021807014 40,504
`

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 4)
	for _, r := range result.Records[:3] {
		assert.Equal(t, "8422416200034", r.SucursalID)
		assert.Equal(t, "ECI GOYA 0003", r.SucursalName)
	}
	assert.Equal(t, "8422416200099", result.Records[3].SucursalID)
	assert.Equal(t, "ECI CASTELLANA 0007", result.Records[3].SucursalName)
}

func TestParseMalformedHeaderKeepsContext(t *testing.T) {
	text := `Sucursal 8422416200034 ( ECI GOYA 0003 )
Sucursal garbage without id
8437021807011 49,91
`

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, "8422416200034", result.Records[0].SucursalID)
	assert.Equal(t, "ECI GOYA 0003", result.Records[0].SucursalName)
	assert.Len(t, result.Anomalies, 1)
}

func TestParseItemsBeforeAnyHeader(t *testing.T) {
	text := "8437021807011 49,91\n"

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, "", result.Records[0].SucursalID)
	assert.Equal(t, "", result.Records[0].SucursalName)
}

func TestParsePersonaLookahead(t *testing.T) {
	text := `8437021807011 49,91
Num. Persona Vtas: 0051258002
8437021807012 10,50
Totales del dia
8437021807013 11,50
`

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 3)
	assert.Equal(t, "0051258002", result.Records[0].NumPersonaVtas)
	assert.Equal(t, "", result.Records[1].NumPersonaVtas)
	assert.Equal(t, "", result.Records[2].NumPersonaVtas)
}

func TestParseSkipsBlankLinesBeforeLookahead(t *testing.T) {
	// Blank lines are dropped during normalization, so the persona line
	// still attaches to the preceding item.
	text := "8437021807011 49,91\r\n\r\nNum. Persona Vtas: 0051258002\r\n"

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, "0051258002", result.Records[0].NumPersonaVtas)
}

func TestParseKeepsDuplicateEANs(t *testing.T) {
	text := `Sucursal 8422416200034 ( ECI GOYA 0003 )
8437021807011 49,91
8437021807011 49,91
`

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, result.Records[0].EAN, result.Records[1].EAN)
}

func TestParseMalformedAmountFallback(t *testing.T) {
	text := "8437021807011 1500\n"

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, "1500", result.Records[0].Importe)
	assert.Equal(t, "1", result.Records[0].CantidadVendida)
	assert.Len(t, result.Anomalies, 1)
}

func TestParseIgnoresNonMatchingLines(t *testing.T) {
	text := `Informe de ventas diario
Pagina 1 de 3
843702180701 49,91
Totales
`

	// third line has only 12 digits, not a valid EAN
	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Empty(t, result.Records)
}

func TestParseHeaderIgnoresTrailingText(t *testing.T) {
	text := `Sucursal 8422416200034 ( ECI GOYA 0003 ) 12/05/2024 pag. 2
8437021807011 49,91
`

	result, err := NewParser().Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, "ECI GOYA 0003", result.Records[0].SucursalName)
}

func TestParseIdempotent(t *testing.T) {
	text := `Sucursal 8422416200034 ( ECI GOYA 0003 )
8437021807011 119,763
Num. Persona Vtas: 0051258002
`

	p := NewParser()
	first, err1 := p.Parse(text)
	second, err2 := p.Parse(text)

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestParseEmptyInput(t *testing.T) {
	result, err := NewParser().Parse("")

	assert.NoError(t, err)
	assert.Empty(t, result.Records)
}

func TestParseInvalidUTF8(t *testing.T) {
	_, err := NewParser().Parse(string([]byte{0xff, 0xfe, 0xfd}))

	assert.Error(t, err)
}

func TestParseCustomKeyword(t *testing.T) {
	p := NewParserWithOptions(Options{HeaderKeyword: "Tienda"})

	text := `Tienda 8422416200034 ( OUTLET NORTE 0012 )
8437021807011 49,91
`

	result, err := p.Parse(text)

	assert.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, "OUTLET NORTE 0012", result.Records[0].SucursalName)
}
