package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath string // sqlite file holding chunk/vector pairs

	// LLM Configuration
	LLMProvider string // "openai", "groq", "ollama", or "none"
	LLMModel    string // "gpt-4o-mini", "llama-3.3-70b-versatile", "llama3"
	LLMAPIKey   string // OpenAI or Groq API key

	// Embedding backend (Ollama)
	OllamaBaseURL  string
	EmbeddingModel string

	// OCR
	OCRLanguages string // tesseract language string, e.g. "eng"
	PDFRenderDPI int    // reduced DPI for scanned-page rendering

	// Extraction limits
	ExtractWorkers  int
	MaxTextChars    int
	MaxUploadSizeMB int

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Sessions
	SessionTTLMinutes int // retention window before an idle session expires

	// Classification
	ClassifyWorkers  int
	ClassifyTimeoutS int
	FullTextLimit    int // below this, skip retrieval and send full resume text

	// Scoring weights (demonstrated/mentioned formula)
	DemonstratedWeight float64
	MentionedWeight    float64
	ExperienceWeight   float64
	ExperienceCapYears float64
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: could not load .env file, using environment variables")
	}

	llmProvider := getEnv("LLM_PROVIDER", "ollama")
	llmModel := getEnv("LLM_MODEL", "llama3")

	// Get API key based on provider
	llmAPIKey := ""
	if llmProvider == "openai" {
		llmAPIKey = os.Getenv("OPENAI_API_KEY")
	} else if llmProvider == "groq" {
		llmAPIKey = os.Getenv("GROQ_API_KEY")
	}

	return &Config{
		DatabasePath: getEnv("DATABASE_PATH", "resume_rank.db"),

		LLMProvider: llmProvider,
		LLMModel:    llmModel,
		LLMAPIKey:   llmAPIKey,

		OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),

		OCRLanguages: getEnv("OCR_LANGUAGES", "eng"),
		PDFRenderDPI: getEnvInt("PDF_RENDER_DPI", 150),

		ExtractWorkers:  getEnvInt("EXTRACT_WORKERS", 4),
		MaxTextChars:    getEnvInt("MAX_TEXT_CHARS", 200000),
		MaxUploadSizeMB: getEnvInt("MAX_UPLOAD_SIZE_MB", 50),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),

		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 60),

		ClassifyWorkers:  getEnvInt("CLASSIFY_WORKERS", 3),
		ClassifyTimeoutS: getEnvInt("CLASSIFY_TIMEOUT_SECONDS", 120),
		FullTextLimit:    getEnvInt("FULL_TEXT_LIMIT", 8000),

		DemonstratedWeight: getEnvFloat("DEMONSTRATED_SKILL_WEIGHT", 2.0),
		MentionedWeight:    getEnvFloat("MENTIONED_SKILL_WEIGHT", 0.5),
		ExperienceWeight:   getEnvFloat("EXPERIENCE_WEIGHT", 0.3),
		ExperienceCapYears: getEnvFloat("EXPERIENCE_CAP_YEARS", 5),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Warning: invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid value for %s, using default %g", key, fallback)
	}
	return fallback
}
