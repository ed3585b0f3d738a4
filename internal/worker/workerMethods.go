package worker

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
	"github.com/kparuchuri/docqa-agent/internal/metrics"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.JobType), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobTimeout(job.JobType))
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job.CurrentStep = jobmodel.IngestProcessing
		job = _ragService.IngestDocument(ctx, job)

	case jobmodel.JobTypeFetch:
		job = fetchPaper(ctx, job, logger)

	case jobmodel.JobTypeSummarize:
		job.CurrentStep = jobmodel.SummarizeInit
		job = _ragService.SummarizeDocument(ctx, job)

	default:
		job.CurrentStep = jobmodel.QueryInit
		job = _ragService.ProcessQuery(ctx, job)
	}

	job.EndTime = time.Now()
	finishJob(ctx, job)
}

func jobTimeout(jobType jobmodel.JobType) time.Duration {
	switch jobType {
	case jobmodel.JobTypeIngest, jobmodel.JobTypeFetch:
		// Downloads, per-page extraction and batched embedding calls
		// take a while for full documents.
		return 5 * time.Minute
	default:
		return 60 * time.Second
	}
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

// fetchPaper downloads the arXiv PDF, then hands the job to the same
// ingestion path an upload takes.
func fetchPaper(ctx context.Context, job jobmodel.Job, logger *logger_i.Logger) jobmodel.Job {
	job.CurrentStep = jobmodel.FetchDownloading

	path, err := _paperFetcher.Download(ctx, job.JobPayload.ArxivId, os.TempDir(), job.JobPayload.IngestFileName)
	if err != nil {
		logger.Error("Paper download failed", "arxivId", job.JobPayload.ArxivId, "err", err)
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
		job.Error = jobmodel.JobError{Code: ragerr.HTTPStatus(err), Message: err.Error()}
		if kind, ok := ragerr.KindOf(err); ok {
			job.Error.Kind = string(kind)
		}
		return job
	}

	job.JobPayload.IngestPath = path
	job.CurrentStep = jobmodel.IngestProcessing
	return _ragService.IngestDocument(ctx, job)
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}

// finishJob persists the terminal state. A failed job keeps its error
// status instead of being stamped complete.
func finishJob(ctx context.Context, job jobmodel.Job) {
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
