package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//ingestion limits
	MaxDocumentPages = 30
	MaxUploadBytes   = 32 << 20

	//chunking
	ChunkSize    = 1000
	ChunkOverlap = 200

	//retrieval and answering
	TopKDefault       = 5
	SummaryChunkLimit = 20
	TokenBudget       = 6000
	CharsPerToken     = 4
	AnswerMaxTokens   = 500
	SummaryMaxTokens  = 800
	ModelTemperature  = 0.1

	//embeddings
	EmbeddingDimension = 768
	EmbedMaxAttempts   = 3
	EmbedBackoffStart  = 2 * time.Second

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	DocumentCollection      = "documents"
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "127.0.0.1"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//llm - Groq speaks the OpenAI wire format
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	GroqModelName = "llama-3.3-70b-versatile"

	GeminiEmbeddingModel = "gemini-embedding-001"

	//arxiv export API
	ArxivQueryURL  = "https://export.arxiv.org/api/query"
	ArxivPDFURL    = "https://arxiv.org/pdf"
	ArxivMaxResult = 5
	ArxivTimeout   = 60 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1

	//jobs are transient, the document registry is not
	RedisJobStoreTTL = 24 * time.Hour
)

// Secrets are the credentials the pipeline cannot run without. They
// come from the environment only, never from flags or files.
type Secrets struct {
	GroqAPIKey   string
	GeminiAPIKey string
	AuthToken    string
}

// LoadSecrets reads credentials and reports which required ones are
// missing. The caller decides whether missing is fatal.
func LoadSecrets() (Secrets, []string) {
	s := Secrets{
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey: os.Getenv("GOOGLE_API_KEY"),
		AuthToken:    os.Getenv("AUTH_TOKEN"),
	}

	var missing []string
	if s.GroqAPIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if s.GeminiAPIKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	return s, missing
}

// Auth is bypassed unless a token is configured at startup.
var AuthToken = ""
var NoAuthBypass = true

func ApplyAuth(s Secrets) {
	AuthToken = s.AuthToken
	NoAuthBypass = s.AuthToken == ""
}
