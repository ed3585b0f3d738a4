package rag

import (
	"context"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
	"github.com/kparuchuri/docqa-agent/internal/metrics"
	"github.com/kparuchuri/docqa-agent/internal/rag/answer"
	"github.com/kparuchuri/docqa-agent/internal/rag/embedding"
	"github.com/kparuchuri/docqa-agent/internal/rag/ingest"
	"github.com/kparuchuri/docqa-agent/internal/rag/llm"
	"github.com/kparuchuri/docqa-agent/internal/rag/vectordb"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

// Service is the worker's whole view of the pipeline. The worker never
// touches the llm, the embedder or the vector index directly; it hands
// a job in and gets the finished job back.
type Service interface {
	ProcessQuery(ctx context.Context, job jobmodel.Job) jobmodel.Job
	SummarizeDocument(ctx context.Context, job jobmodel.Job) jobmodel.Job
	IngestDocument(ctx context.Context, job jobmodel.Job) jobmodel.Job

	// AnswerQuestion is the synchronous core of ProcessQuery, exposed
	// for callers that are not job-shaped.
	AnswerQuestion(ctx context.Context, question string, docId string) (Answer, error)
}

// Answer is a grounded response: the generated text plus the chunks
// that were actually placed in the prompt.
type Answer struct {
	Text    string
	Sources []docmodel.ScoredChunk
}

type service struct {
	vectorDB    vectordb.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	registry    docmodel.DocumentStore
	pipeline    *ingest.Pipeline
	logger      *logger_i.Logger
}

func NewService(vector vectordb.DataProcessor, llmProvider llm.Provider, em embedding.Embedder, registry docmodel.DocumentStore) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llmProvider,
		embedder:    em,
		registry:    registry,
		pipeline:    ingest.NewPipeline(registry, vector, em),
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) ProcessQuery(ctx context.Context, jobt jobmodel.Job) jobmodel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	jobt.CurrentStep = jobmodel.RAGCall

	ans, err := s.answerQuestion(processContext, inMethodLogger, &jobt, jobt.JobPayload.Question, jobt.JobPayload.DocumentId)
	if err != nil {
		return s.jobError(jobt, err, "QUERY_FAILURE")
	}

	jobt.JobPayload.Sources = sourceRefs(ans.Sources)
	return returnOutput(jobt, ans.Text)
}

func (s *service) AnswerQuestion(ctx context.Context, question string, docId string) (Answer, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	trackingJob := jobmodel.Job{JobType: jobmodel.JobTypeQuery}
	return s.answerQuestion(ctx, inMethodLogger, &trackingJob, question, docId)
}

func (s *service) answerQuestion(ctx context.Context, log *logger_i.Logger, job *jobmodel.Job, question string, docId string) (Answer, error) {
	// No registry precheck on the document filter: a filter that matches
	// nothing (unknown or deleted id) yields an empty search result and
	// a no-context answer, the same outcome as an empty index.

	// Embedding
	queryVector, err := s.executeEmbeddingStep(ctx, log, job, question)
	if err != nil {
		return Answer{}, err
	}

	// Vector DB Search
	matches, err := s.executeVectorSearchStep(ctx, log, job, queryVector, docId)
	if err != nil {
		return Answer{}, err
	}

	// Prompt assembly under the token budget. An empty index is a valid
	// outcome, the llm will answer that it has nothing to go on.
	prompt, evidence, err := answer.BuildQueryPrompt(question, matches, config.TokenBudget)
	if err != nil {
		return Answer{}, err
	}

	// LLM Generation
	text, err := s.executeLLMStep(ctx, log, job, prompt, config.AnswerMaxTokens)
	if err != nil {
		return Answer{}, err
	}

	return Answer{Text: text, Sources: evidence}, nil
}

func (s *service) SummarizeDocument(ctx context.Context, jobt jobmodel.Job) jobmodel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	jobt.CurrentStep = jobmodel.SummarizeInit
	docId := jobt.JobPayload.DocumentId

	doc, ok := s.registry.GetDocument(processContext, docId)
	if !ok {
		return s.jobError(jobt, ragerr.New(ragerr.NotFound, "document not found: "+docId), "SUMMARIZE_FAILURE")
	}

	chunks, err := s.executeChunkFetchStep(processContext, inMethodLogger, &jobt, docId)
	if err != nil {
		return s.jobError(jobt, err, "SUMMARIZE_FAILURE")
	}
	if len(chunks) == 0 {
		return s.jobError(jobt, ragerr.New(ragerr.NotFound, "no indexed content for document: "+docId), "SUMMARIZE_FAILURE")
	}

	prompt, err := answer.BuildSummaryPrompt(doc.Name, chunks, config.TokenBudget)
	if err != nil {
		return s.jobError(jobt, err, "SUMMARIZE_FAILURE")
	}

	text, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, prompt, config.SummaryMaxTokens)
	if err != nil {
		return s.jobError(jobt, err, "SUMMARIZE_FAILURE")
	}

	jobt.JobPayload.Sources = []string{doc.Name}
	return returnOutput(jobt, text)
}

func (s *service) IngestDocument(ctx context.Context, jobt jobmodel.Job) jobmodel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()

	jobt.CurrentStep = jobmodel.IngestProcessing
	doc := docmodel.Document{
		Id:   jobt.JobPayload.DocumentId,
		Name: jobt.JobPayload.IngestFileName,
	}

	doc, err := s.pipeline.ProcessDocumentIngestion(ctx, doc, jobt.JobPayload.IngestPath)
	if err != nil {
		return s.jobError(jobt, err, "INGESTION_FAILURE")
	}

	jobt.JobPayload.DocumentId = doc.Id
	return returnOutput(jobt, "")
}
