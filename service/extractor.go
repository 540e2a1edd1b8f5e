package service

import (
	"context"

	"github.com/retailops/sales-report-extractor/dto"
	"github.com/retailops/sales-report-extractor/utils/salesreport"
)

// Extractor turns the raw text of a report into a sale table. The
// deterministic parser is the default implementation; the Gemini client
// is the alternative. Both produce the same table contract and are
// never mixed within one extraction.
type Extractor interface {
	ExtractRecords(ctx context.Context, text string) (dto.SalesReportData, error)
}

// RuleBasedExtractor wraps the deterministic line parser.
type RuleBasedExtractor struct {
	parser *salesreport.Parser
}

func NewRuleBasedExtractor() *RuleBasedExtractor {
	return &RuleBasedExtractor{
		parser: salesreport.NewParser(),
	}
}

func (e *RuleBasedExtractor) ExtractRecords(_ context.Context, text string) (dto.SalesReportData, error) {
	return e.parser.Parse(text)
}
