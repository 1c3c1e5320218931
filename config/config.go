// Package config - Environment-based service configuration.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port                int
	ModelPath           string
	ModelBackend        string
	ModelClasses        string // optional data.yaml style class-names file
	ConfidenceThreshold float64
	NMSThreshold        float64
	MaxUploadMB         int
	ORTLibraryPath      string
}

// Load reads configuration from the environment, first merging a .env file
// if one is present next to the binary.
func Load() *Config {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	return &Config{
		Port:                getEnvAsInt("PORT", 8000),
		ModelPath:           getEnv("MODEL_PATH", "bacteria_detector_final_n.onnx"),
		ModelBackend:        getEnv("MODEL_BACKEND", "onnxruntime"),
		ModelClasses:        getEnv("MODEL_CLASSES", ""),
		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.25),
		NMSThreshold:        getEnvAsFloat("NMS_THRESHOLD", 0.45),
		MaxUploadMB:         getEnvAsInt("MAX_UPLOAD_MB", 50),
		ORTLibraryPath:      getEnv("ORT_LIBRARY_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
