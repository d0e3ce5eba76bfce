// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	// Gemini AI Configuration
	GEMINI_API_KEY string
	MODEL_NAME     string

	// Fallback keys rotated through when the primary hits a rate limit.
	// Up to two extra keys are supported (GEMINI_API_KEY_2, GEMINI_API_KEY_3).
	GEMINI_FALLBACK_KEYS []string

	// Gemini Pricing Configuration (per 1M tokens in USD)
	GEMINI_INPUT_PRICE_PER_MILLION  float64
	GEMINI_OUTPUT_PRICE_PER_MILLION float64
	USD_TO_PKR                      float64

	// Server Configuration
	PORT            string
	UPLOAD_DIR      string
	ALLOWED_ORIGINS string

	// MongoDB Configuration (optional master-data source for the employee
	// roster and the reference school list; uploads work without it)
	MONGO_URI     string
	MONGO_DB_NAME string
	MONGO_ENABLED bool

	// Image preprocessing settings
	ENABLE_IMAGE_PREPROCESSING bool
	MAX_IMAGE_DIMENSION        int

	// Matching engine settings
	FUZZY_MATCH_THRESHOLD  float64 // Word-overlap acceptance score for name matching
	SCHOOL_MATCH_THRESHOLD float64 // Similarity acceptance score for school standardization
	AI_BATCH_SIZE          int     // Names per AI matching request (token limit)
	AI_BATCH_DELAY_MS      int     // Pause between AI matching batches

	// Timeouts (seconds)
	EXTRACTION_TIMEOUT int
	AI_MATCH_TIMEOUT   int
)

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	GEMINI_API_KEY = getEnv("GEMINI_API_KEY", "")
	if GEMINI_API_KEY == "" {
		log.Println("WARNING: GEMINI_API_KEY not set - document extraction and AI name matching disabled")
	}

	GEMINI_FALLBACK_KEYS = nil
	for _, name := range []string{"GEMINI_API_KEY_2", "GEMINI_API_KEY_3"} {
		if key := getEnv(name, ""); key != "" && key != GEMINI_API_KEY {
			GEMINI_FALLBACK_KEYS = append(GEMINI_FALLBACK_KEYS, key)
		}
	}

	MODEL_NAME = getEnv("MODEL_NAME", "gemini-2.5-flash")

	// Gemini Pricing (default to Flash pricing)
	GEMINI_INPUT_PRICE_PER_MILLION = getEnvFloat("GEMINI_INPUT_PRICE_PER_MILLION", 0.30)
	GEMINI_OUTPUT_PRICE_PER_MILLION = getEnvFloat("GEMINI_OUTPUT_PRICE_PER_MILLION", 2.50)
	USD_TO_PKR = getEnvFloat("USD_TO_PKR", 278.0)

	PORT = getEnv("PORT", "8080")
	UPLOAD_DIR = getEnv("UPLOAD_DIR", "uploads")
	ALLOWED_ORIGINS = getEnv("ALLOWED_ORIGINS", "*")

	// MongoDB Configuration
	MONGO_URI = getEnv("MONGO_URI", "")
	MONGO_DB_NAME = getEnv("MONGO_DB_NAME", "eduparser")
	MONGO_ENABLED = MONGO_URI != ""

	// Image Processing
	ENABLE_IMAGE_PREPROCESSING = getEnvBool("ENABLE_IMAGE_PREPROCESSING", true)
	MAX_IMAGE_DIMENSION = getEnvInt("MAX_IMAGE_DIMENSION", 2000)

	// Matching engine
	FUZZY_MATCH_THRESHOLD = getEnvFloat("FUZZY_MATCH_THRESHOLD", 0.8)
	SCHOOL_MATCH_THRESHOLD = getEnvFloat("SCHOOL_MATCH_THRESHOLD", 0.75)
	AI_BATCH_SIZE = getEnvInt("AI_BATCH_SIZE", 20)
	AI_BATCH_DELAY_MS = getEnvInt("AI_BATCH_DELAY_MS", 500)

	EXTRACTION_TIMEOUT = getEnvInt("EXTRACTION_TIMEOUT", 60)
	AI_MATCH_TIMEOUT = getEnvInt("AI_MATCH_TIMEOUT", 45)

	log.Println("Configuration loaded successfully")
}

// AllAPIKeys returns the primary key followed by fallback keys, in rotation order.
func AllAPIKeys() []string {
	keys := []string{}
	if GEMINI_API_KEY != "" {
		keys = append(keys, GEMINI_API_KEY)
	}
	keys = append(keys, GEMINI_FALLBACK_KEYS...)
	return keys
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
