package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/retailops/sales-report-extractor/dto"
	"github.com/retailops/sales-report-extractor/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ExtractReport handles the POST /reports/extract endpoint
func (h *ReportHandler) ExtractReport(c *gin.Context) {
	log.Println("Received report extraction request")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "No report file provided", err)
		return
	}

	password := c.PostForm("password")

	response, err := h.reportService.ProcessReport(c.Request.Context(), fileHeader, password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dto.ErrInvalidInput) ||
			errors.Is(err, dto.ErrUnsupportedFile) ||
			errors.Is(err, dto.ErrNoTextExtracted) {
			status = http.StatusBadRequest
		}
		h.sendError(c, status, "Failed to extract report", err)
		return
	}

	log.Printf("Report extraction completed: %d records", response.RecordCount)
	c.JSON(http.StatusOK, response)
}

// sendError sends a structured error response
func (h *ReportHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "EXTRACTION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
