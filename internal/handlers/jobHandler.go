package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
	"github.com/kparuchuri/docqa-agent/internal/job"
	"github.com/kparuchuri/docqa-agent/internal/metrics"
	"github.com/kparuchuri/docqa-agent/internal/rag/vectordb"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

// PaperSearcher is the slice of the arxiv client the handlers need.
type PaperSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]docmodel.Paper, error)
}

type Deps struct {
	JobService *job.Service
	Vector     vectordb.DataProcessor
	Arxiv      PaperSearcher
}

type JobHandler struct {
	service *job.Service
	vector  vectordb.DataProcessor
	arxiv   PaperSearcher
}

func InitJobHandler(deps Deps) {
	once.Do(func() {
		handlerInstance = &JobHandler{
			service: deps.JobService,
			vector:  deps.Vector,
			arxiv:   deps.Arxiv,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job", "type", newJob.jobType)
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobmodel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func documentRegistry() docmodel.DocumentStore {
	if handlerInstance == nil {
		return nil
	}
	return handlerInstance.service.DocStore
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {
	_job := jobmodel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobmodel.JobStatusQueued
	_job.JobType = newJob.jobType

	switch newJob.jobType {
	case jobmodel.JobTypeIngest:
		_job.CurrentStep = jobmodel.IngestInit
		_job.JobPayload.DocumentId = newJob.documentId
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.IngestPath = newJob.documentSource

	case jobmodel.JobTypeFetch:
		_job.CurrentStep = jobmodel.IngestInit
		_job.JobPayload.DocumentId = newJob.documentId
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.ArxivId = newJob.arxivId

	case jobmodel.JobTypeSummarize:
		_job.CurrentStep = jobmodel.SummarizeInit
		_job.JobPayload.DocumentId = newJob.documentId

	default:
		_job.CurrentStep = jobmodel.QueryInit
		_job.JobPayload.Question = newJob.question
		_job.JobPayload.DocumentId = newJob.documentId
	}

	// Persist the queued state first so the status endpoint knows the
	// job before a worker picks it up.
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId)
	if err := h.service.JobStore.SaveJob(ctxC, _job); err != nil {
		logJH.Error("Failed to save queued job", "err", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//we start a new worker every N requests, and immediately for
	//ingestion-shaped jobs since those involve slow external calls;
	//idle workers retire on their own so the pool shrinks back
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	isHeavy := _job.JobType == jobmodel.JobTypeIngest || _job.JobType == jobmodel.JobTypeFetch
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || isHeavy {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
