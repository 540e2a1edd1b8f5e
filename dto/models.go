package dto

// SaleRecord is one normalized row extracted from a sales report.
// Every field is a string on purpose: EANs and persona numbers carry
// leading zeros, and Importe keeps its exact two-decimal rendering.
type SaleRecord struct {
	SucursalID      string `json:"sucursal_id"`
	SucursalName    string `json:"sucursal_name"`
	EAN             string `json:"ean"`
	CantidadVendida string `json:"cantidad_vendida"`
	Importe         string `json:"importe"`
	NumPersonaVtas  string `json:"num_persona_vtas"`
}

// SalesReportData is the full extraction result for one report.
// Anomalies lists best-effort recoveries (malformed headers, odd amount
// tokens); they never abort the parse.
type SalesReportData struct {
	Records   []SaleRecord `json:"records"`
	Anomalies []string     `json:"anomalies,omitempty"`
}
