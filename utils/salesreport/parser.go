package salesreport

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/retailops/sales-report-extractor/dto"
)

const (
	defaultHeaderKeyword = "Sucursal"
	defaultPersonaLabel  = "Num. Persona Vtas:"
)

// Options configure the report grammar. Zero values select the layout
// used by the ECI sales reports.
type Options struct {
	// HeaderKeyword is the literal that opens a store header line.
	HeaderKeyword string
	// PersonaLabel is the literal prefix of the optional salesperson
	// line following an item line.
	PersonaLabel string
}

// Parser extracts sale records from the plain text of a sales report.
// It is a pure, single-pass scanner: safe for concurrent use on
// independent inputs.
type Parser struct {
	headerRe     *regexp.Regexp
	itemRe       *regexp.Regexp
	keywordLower string
	personaLabel string
}

// NewParser returns a parser for the default report layout.
func NewParser() *Parser {
	return NewParserWithOptions(Options{})
}

// NewParserWithOptions returns a parser with a customized grammar.
func NewParserWithOptions(opts Options) *Parser {
	keyword := opts.HeaderKeyword
	if keyword == "" {
		keyword = defaultHeaderKeyword
	}
	label := opts.PersonaLabel
	if label == "" {
		label = defaultPersonaLabel
	}

	return &Parser{
		// "Sucursal 8422416200034 ( ECI GOYA 0003 ) 12/05/2024 ..."
		// The name group is lazy so trailing text (dates, counters) on
		// the header line is ignored.
		headerRe: regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(keyword) + `\s+(\d{13})\s*\(\s*(.+?)\s*\)`),
		// "8437021807011 119,763" — 13-digit EAN, then the combined
		// price+quantity token. The token is matched loosely so that a
		// malformed amount still reaches the decomposer fallback.
		itemRe:       regexp.MustCompile(`^(\d{13})\s+([0-9][0-9.,]*)`),
		keywordLower: strings.ToLower(keyword),
		personaLabel: label,
	}
}

// Parse scans the full extracted text of one report and returns every
// sale record in encounter order. It never fails on malformed content;
// the only error is input that is not valid UTF-8 text.
func (p *Parser) Parse(text string) (dto.SalesReportData, error) {
	if !utf8.ValidString(text) {
		return dto.SalesReportData{}, dto.ErrInvalidInput
	}

	lines := normalizeLines(text)

	var result dto.SalesReportData
	var storeID, storeName string

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		// Header first; a line is never both header and item.
		if m := p.headerRe.FindStringSubmatch(line); m != nil {
			storeID = m[1]
			storeName = m[2]
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), p.keywordLower) {
			// Keyword present but id/name missing. A broken header
			// must not erase a previously established context.
			result.Anomalies = append(result.Anomalies, fmt.Sprintf("malformed store header kept out of context: %q", line))
			continue
		}

		m := p.itemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ean, token := m[1], m[2]

		importe, cantidad, ok := decomposeToken(token)
		if !ok {
			result.Anomalies = append(result.Anomalies, fmt.Sprintf("amount token %q for EAN %s lacks decimal comma structure", token, ean))
		}

		persona := ""
		if i+1 < len(lines) && strings.HasPrefix(lines[i+1], p.personaLabel) {
			persona = strings.TrimSpace(strings.TrimPrefix(lines[i+1], p.personaLabel))
			i++ // consume the persona line so it is not rescanned
		}

		result.Records = append(result.Records, dto.SaleRecord{
			SucursalID:      storeID,
			SucursalName:    storeName,
			EAN:             ean,
			CantidadVendida: cantidad,
			Importe:         importe,
			NumPersonaVtas:  persona,
		})
	}

	return result, nil
}

// normalizeLines splits raw text on newlines, trims each line and drops
// the empty ones, so lookahead always sees "the next non-empty line".
func normalizeLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// decomposeToken splits the combined price+quantity token. The report
// renders the quantity's digits directly after the price's two fraction
// digits with no delimiter: "119,763" means 119.76 sold 3 times.
//
// Returns ok=false when the token has no usable comma split; the caller
// still gets fallback values (the raw token as Importe, quantity "1")
// because dropping the row loses more than keeping a degenerate one.
func decomposeToken(token string) (importe, cantidad string, ok bool) {
	cleaned := strings.ReplaceAll(token, ".", "") // thousands separators
	parts := strings.Split(cleaned, ",")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return token, "1", false
	}

	intPart, frac := parts[0], parts[1]
	switch {
	case len(frac) > 2:
		// First two digits are cents, the rest is the quantity. Kept
		// as a literal digit string to preserve leading zeros.
		return intPart + "." + frac[:2], frac[2:], true
	case len(frac) == 2:
		return intPart + "." + frac, "1", true
	default:
		// Single-digit cents get a trailing zero so Importe always
		// carries exactly two fraction digits.
		return intPart + "." + frac + "0", "1", true
	}
}
