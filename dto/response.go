package dto

import "errors"

// Custom errors
var (
	ErrInvalidInput    = errors.New("report text is not valid UTF-8")
	ErrUnsupportedFile = errors.New("unsupported file type, expected .pdf or .txt")
	ErrNoTextExtracted = errors.New("no text could be extracted from the document")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ExtractResponse is the final response structure
type ExtractResponse struct {
	Records     []SaleRecord `json:"records"`
	Anomalies   []string     `json:"anomalies,omitempty"`
	RecordCount int          `json:"record_count"`
	CSVFile     string       `json:"csv_file"`
	ProcessedAt string       `json:"processed_at"`
}
