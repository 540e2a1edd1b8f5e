package config

import "os"

type Config struct {
	ServerPort        string
	TesseractDataPath string
	OutputDir         string
	Extractor         string
	GeminiAPIKey      string
	GeminiModel       string
	MaxFileSize       int64
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		TesseractDataPath: getEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		OutputDir:         getEnv("OUTPUT_DIR", "./output"),
		Extractor:         getEnv("EXTRACTOR", "rule"), // "rule" or "gemini"
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		MaxFileSize:       10 * 1024 * 1024, // 10 MB
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
