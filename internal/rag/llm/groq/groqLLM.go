package groq

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/customHttpClient"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
	"github.com/kparuchuri/docqa-agent/internal/rag/llm"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Groq serves an OpenAI-compatible API, so the openai-go client pointed
// at Groq's base URL is the whole integration.

const systemInstruction = "You are a document analysis assistant. Answer only from the provided context. " +
	"If the answer cannot be found in the context, say you cannot find it in the provided documents."

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var groqClient *llmClient
var once sync.Once

func GetGroqClient(ctx context.Context, apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_groq")
		newGroqClient(ctx, apikey, modelName)
	})

	if groqClient == nil {
		return nil
	}
	return &llmClient{client: groqClient.client, modelName: groqClient.modelName}
}

func newGroqClient(ctx context.Context, apikey string, modelName string) {
	if apikey == "" {
		logger.Error("Groq API key is empty")
		return
	}

	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithBaseURL(config.GroqBaseURL),
		option.WithHTTPClient(customHttpClient.NewPooledClient(2*time.Minute)),
	)
	groqClient = &llmClient{client: c, modelName: modelName}
	logger.Debug("Groq ", "model", modelName)
	logger.Info("Groq client created")
}

func (c *llmClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(config.ModelTemperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", classify(err, log)
	}

	if len(result.Choices) == 0 {
		log.Error("Groq returned no choices")
		return "", errors.New("empty completion response")
	}
	return result.Choices[0].Message.Content, nil
}

// classify maps provider failures onto the pipeline's typed errors.
// Rate limits and oversized prompts are user-visible conditions here,
// not something to paper over with silent retries.
func classify(err error, log *logger_i.Logger) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			log.Warn("Groq rate limit hit", "error", err)
			return ragerr.Limited("llm provider rate limit, wait and retry", 30*time.Second, err)
		case http.StatusRequestEntityTooLarge:
			return ragerr.Wrap(ragerr.TokenBudgetExceeded, "prompt rejected by provider", err)
		}
	}
	log.Error("Groq generation failed", "error", err)
	return err
}
