package client

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/retailops/sales-report-extractor/dto"
)

const reportExtractPrompt = `You are given the plain text of a Spanish department store sales report.
Store blocks start with a "Sucursal" line holding a 13-digit store id and the store name in parentheses.
Item lines start with a 13-digit EAN followed by the unit price (decimal comma, two fraction digits) with the quantity digits appended directly after the cents.
An item line may be followed by a "Num. Persona Vtas:" line with the salesperson number.
Return ONLY a JSON array, one object per item line, with these exact keys:
"sucursal_id", "sucursal_name", "ean", "cantidad_vendida", "importe" (dot decimal, two fraction digits), "num_persona_vtas" (empty string if absent).
All values must be strings. Keep records in the order they appear. No markdown, no commentary.`

// GeminiClient extracts sale records by asking Gemini to read the report
// text. Nondeterministic by nature, so every returned record is
// re-validated against the same shape rules the deterministic parser
// guarantees before it is emitted.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel

	eanRe     *regexp.Regexp
	importeRe *regexp.Regexp
}

func NewGeminiClient(apiKey string, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:    c,
		model:     c.GenerativeModel(modelName),
		eanRe:     regexp.MustCompile(`^\d{13}$`),
		importeRe: regexp.MustCompile(`^\d+\.\d{2}$`),
	}, nil
}

// ExtractRecords sends the report text to Gemini and parses its reply
// into the sale table contract.
func (g *GeminiClient) ExtractRecords(ctx context.Context, text string) (dto.SalesReportData, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(reportExtractPrompt+"\n\n"+text))
	if err != nil {
		return dto.SalesReportData{}, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return dto.SalesReportData{}, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			responseText.WriteString(string(t))
		}
	}

	return g.parseReply(responseText.String())
}

// parseReply strips markdown fences from the model reply, unmarshals the
// JSON array and filters out records that break the table invariants.
func (g *GeminiClient) parseReply(reply string) (dto.SalesReportData, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSpace(reply)

	startIdx := strings.Index(reply, "[")
	endIdx := strings.LastIndex(reply, "]")
	if startIdx == -1 || endIdx < startIdx {
		return dto.SalesReportData{}, fmt.Errorf("no JSON array found in response")
	}
	reply = reply[startIdx : endIdx+1]

	var records []dto.SaleRecord
	if err := json.Unmarshal([]byte(reply), &records); err != nil {
		return dto.SalesReportData{}, fmt.Errorf("unmarshaling records: %w", err)
	}

	var result dto.SalesReportData
	for _, r := range records {
		if !g.eanRe.MatchString(r.EAN) {
			result.Anomalies = append(result.Anomalies, fmt.Sprintf("model returned invalid EAN %q, record dropped", r.EAN))
			continue
		}
		if !g.importeRe.MatchString(r.Importe) {
			result.Anomalies = append(result.Anomalies, fmt.Sprintf("model returned non-decimal importe %q for EAN %s", r.Importe, r.EAN))
		}
		if r.CantidadVendida == "" {
			r.CantidadVendida = "1"
		}
		result.Records = append(result.Records, r)
	}

	return result, nil
}

// Close closes the underlying Gemini client
func (g *GeminiClient) Close() error {
	return g.client.Close()
}
