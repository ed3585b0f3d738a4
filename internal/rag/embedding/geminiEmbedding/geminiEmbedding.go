package geminiEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/rag/embedding"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingDimension
var errEmptyResponse = errors.New("empty embedding response")

type client struct {
	genAi *genai.Client
	model string
}

func newGeminiEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi: c,
			model: modelName,
		}
		logger.Debug("Gemini embedding model name: " + modelName)
		logger.Info("Gemini embedding client created")
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Gemini embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGeminiEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("gemini_embedding")
		newGeminiEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func (c *client) ModelVersion() string {
	return c.model
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	var result *genai.EmbedContentResponse
	err := withRetry(ctx, config.EmbedMaxAttempts, config.EmbedBackoffStart, log, func() error {
		var callErr error
		result, callErr = c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query),
			&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_QUERY"})
		return callErr
	})
	if err != nil {
		log.Error("Error getting query embedding from Gemini", "error", err.Error())
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		log.Error("Gemini returned no embedding for query")
		return nil, errEmptyResponse
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("Batch embedding call", "chunks", len(chunks))

	var result *genai.EmbedContentResponse
	err := withRetry(ctx, config.EmbedMaxAttempts, config.EmbedBackoffStart, log, func() error {
		var callErr error
		result, callErr = c.genAi.Models.EmbedContent(ctx, c.model, getContent(chunks),
			&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
		return callErr
	})
	if err != nil {
		log.Error("Error getting batch embeddings from Gemini", "error", err.Error())
		return nil, err
	}

	embeddingResults := make([][]float32, 0, len(result.Embeddings))
	for _, r := range result.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}
