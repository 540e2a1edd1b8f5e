package salesreport

import (
	"strings"

	"github.com/retailops/sales-report-extractor/dto"
)

var csvHeader = []string{"SucursalID", "SucursalName", "EAN", "CantidadVendida", "Importe", "NumPersonaVtas"}

// ToCSV renders the sale table in the downstream contract: fixed header,
// one record per line, every field double-quoted, lines joined with \n.
// encoding/csv is not used because it only quotes fields that need it,
// while the consumer expects quotes on every field.
func ToCSV(records []dto.SaleRecord) string {
	rows := make([]string, 0, len(records)+1)
	rows = append(rows, csvRow(csvHeader))

	for _, r := range records {
		rows = append(rows, csvRow([]string{
			r.SucursalID,
			r.SucursalName,
			r.EAN,
			r.CantidadVendida,
			r.Importe,
			r.NumPersonaVtas,
		}))
	}

	return strings.Join(rows, "\n")
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
