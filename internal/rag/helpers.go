package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
	"github.com/kparuchuri/docqa-agent/internal/metrics"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

func returnOutput(job jobmodel.Job, ans string) jobmodel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobmodel.Complete
	job.Status = jobmodel.JobStatusComplete
	return job
}

func logOutput(job jobmodel.Job, status jobmodel.InternalStatus, log *logger_i.Logger) jobmodel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

// jobError records the failure on the job. The typed kind survives so
// the API layer can map it to the right status code; untyped failures
// stay a plain 500 with a generic message.
func (s *service) jobError(job jobmodel.Job, err error, message string) jobmodel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobmodel.JobError{
		Code:    ragerr.HTTPStatus(err),
		Message: "Internal Server Error",
		Retry:   ragerr.IsKind(err, ragerr.RateLimited),
	}
	if kind, ok := ragerr.KindOf(err); ok {
		job.Error.Kind = string(kind)
		job.Error.Message = err.Error()
	}
	job.Status = jobmodel.JobStatusError
	job.CurrentStep = jobmodel.Error
	return job
}

// sourceRefs renders evidence chunks as "name, p.N" citations, deduped
// while keeping rank order.
func sourceRefs(evidence []docmodel.ScoredChunk) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, c := range evidence {
		ref := fmt.Sprintf("%s, p.%d", c.DocName, c.PageNum)
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobmodel.Job, question string) ([]float32, error) {
	*job = logOutput(*job, jobmodel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, question)
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, job *jobmodel.Job, emb []float32, docId string) ([]docmodel.ScoredChunk, error) {
	*job = logOutput(*job, jobmodel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.vectorDB.Search(ctx, emb, docId, config.TopKDefault)
}

func (s *service) executeChunkFetchStep(ctx context.Context, log *logger_i.Logger, job *jobmodel.Job, docId string) ([]docmodel.DocChunk, error) {
	*job = logOutput(*job, jobmodel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunk_fetch", time.Since(start)) }()

	return s.vectorDB.DocumentChunks(ctx, docId, config.SummaryChunkLimit)
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobmodel.Job, prompt string, maxTokens int) (string, error) {
	*job = logOutput(*job, jobmodel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, prompt, maxTokens)
}
