package main

import (
	"log"

	"github.com/retailops/sales-report-extractor/client"
	"github.com/retailops/sales-report-extractor/config"
	"github.com/retailops/sales-report-extractor/handler"
	"github.com/retailops/sales-report-extractor/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize Tesseract client for scanned reports
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize the record extractor strategy
	var extractor service.Extractor
	switch cfg.Extractor {
	case "gemini":
		log.Printf("Using Gemini extractor (model %s)", cfg.GeminiModel)
		geminiClient, err := client.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		defer geminiClient.Close()
		extractor = geminiClient
	case "rule", "":
		extractor = service.NewRuleBasedExtractor()
	default:
		log.Fatalf("Unknown extractor %q, expected 'rule' or 'gemini'", cfg.Extractor)
	}

	// Initialize service layer
	reportService := service.NewReportService(pdfProcessor, tesseractClient, extractor, cfg.OutputDir)

	// Initialize handler layer
	reportHandler := handler.NewReportHandler(reportService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Sales Report Extractor",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		reports := api.Group("/reports")
		{
			reports.POST("/extract", reportHandler.ExtractReport)
		}
	}

	// Start server
	log.Printf("Starting Sales Report Extractor on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
