package service

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/retailops/sales-report-extractor/client"
	"github.com/retailops/sales-report-extractor/dto"
	"github.com/retailops/sales-report-extractor/utils/salesreport"
)

// minEmbeddedTextLen is the threshold under which a PDF is treated as
// scanned and sent through the image OCR path.
const minEmbeddedTextLen = 20

type ReportService struct {
	pdfProcessor PDFProcessor
	tesseract    *client.TesseractClient
	extractor    Extractor
	outputDir    string
}

func NewReportService(
	pdfProcessor PDFProcessor,
	tesseract *client.TesseractClient,
	extractor Extractor,
	outputDir string,
) *ReportService {
	return &ReportService{
		pdfProcessor: pdfProcessor,
		tesseract:    tesseract,
		extractor:    extractor,
		outputDir:    outputDir,
	}
}

// ProcessReport handles one uploaded report end to end: text extraction,
// record extraction, CSV serialization and persistence.
func (s *ReportService) ProcessReport(ctx context.Context, fileHeader *multipart.FileHeader, password string) (*dto.ExtractResponse, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fileHeader.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileHeader.Filename, err)
	}

	text, err := s.extractReportText(fileHeader.Filename, data, password)
	if err != nil {
		return nil, err
	}

	return s.ProcessText(ctx, fileHeader.Filename, text)
}

// ProcessText runs the configured extractor over already-extracted
// report text and persists the serialized table.
func (s *ReportService) ProcessText(ctx context.Context, originalName, text string) (*dto.ExtractResponse, error) {
	report, err := s.extractor.ExtractRecords(ctx, text)
	if err != nil {
		return nil, err
	}

	csvName := csvFileName(originalName)
	if err := s.persistCSV(csvName, salesreport.ToCSV(report.Records)); err != nil {
		return nil, err
	}

	log.Printf("Extracted %d records from %s (%d anomalies)", len(report.Records), originalName, len(report.Anomalies))

	return &dto.ExtractResponse{
		Records:     report.Records,
		Anomalies:   report.Anomalies,
		RecordCount: len(report.Records),
		CSVFile:     csvName,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// extractReportText turns the uploaded bytes into plain report text.
// PDFs go through embedded text extraction first, then image OCR when
// the report turns out to be scanned. Plain text uploads pass through.
func (s *ReportService) extractReportText(filename string, data []byte, password string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		if !utf8.Valid(data) {
			return "", dto.ErrInvalidInput
		}
		return string(data), nil
	case ".pdf":
		// keep going below
	default:
		return "", dto.ErrUnsupportedFile
	}

	text, err := s.pdfProcessor.ExtractText(data, password)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", filename, err)
	}

	if len(strings.TrimSpace(text)) >= minEmbeddedTextLen {
		return text, nil
	}

	log.Printf("PDF %s seems to be scanned or has minimal text, attempting image-based OCR", filename)

	images, imgErr := s.pdfProcessor.ExtractImages(data, password)
	if imgErr != nil || len(images) == 0 {
		log.Printf("Failed to extract images from PDF %s: %v", filename, imgErr)
		return "", dto.ErrNoTextExtracted
	}

	var combined strings.Builder
	for _, img := range images {
		tempImg, err := saveImageToTempFile(img)
		if err != nil {
			log.Printf("Failed to save temporary image for OCR: %v", err)
			continue
		}

		pageText, conf, ocrErr := s.tesseract.ExtractTextAndQuality(tempImg)
		os.Remove(tempImg)
		if ocrErr != nil {
			log.Printf("OCR failed for a page in %s: %v", filename, ocrErr)
			continue
		}
		if conf > 0 && conf < 60 {
			log.Printf("Low OCR confidence %.1f for a page in %s", conf, filename)
		}

		combined.WriteString(pageText)
		combined.WriteString("\n") // page break
	}

	if len(strings.TrimSpace(combined.String())) == 0 {
		return "", dto.ErrNoTextExtracted
	}
	return combined.String(), nil
}

func (s *ReportService) persistCSV(name, csvData string) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, []byte(csvData), 0644); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// csvFileName derives the persisted CSV name from the upload name plus
// a timestamp, so re-uploads never overwrite earlier extractions.
func csvFileName(originalName string) string {
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	if base == "" || base == "." {
		base = "report"
	}
	return fmt.Sprintf("%s-%s.csv", base, time.Now().Format("20060102-150405"))
}

// saveImageToTempFile saves an image.Image to a temporary PNG file.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "report-img-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image file: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	return tempFile.Name(), nil
}
