package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
	"github.com/kparuchuri/docqa-agent/internal/job"
	"github.com/kparuchuri/docqa-agent/internal/rag"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount int32
	LastJobType    atomic.Value
}

func (m *MockRagService) ProcessQuery(ctx context.Context, j jobmodel.Job) jobmodel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	m.LastJobType.Store(jobmodel.JobTypeQuery)
	return j
}

func (m *MockRagService) SummarizeDocument(ctx context.Context, j jobmodel.Job) jobmodel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	m.LastJobType.Store(jobmodel.JobTypeSummarize)
	return j
}

func (m *MockRagService) IngestDocument(ctx context.Context, j jobmodel.Job) jobmodel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	m.LastJobType.Store(jobmodel.JobTypeIngest)
	return j
}

func (m *MockRagService) AnswerQuestion(ctx context.Context, question string, docId string) (rag.Answer, error) {
	return rag.Answer{}, nil
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobmodel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobmodel.Job, bool) {
	return jobmodel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobmodel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

type MockFetcher struct {
	OnDownload func(ctx context.Context, arxivId string, dir string, filename string) (string, error)
}

func (m *MockFetcher) Download(ctx context.Context, arxivId string, dir string, filename string) (string, error) {
	if m.OnDownload != nil {
		return m.OnDownload(ctx, arxivId, dir, filename)
	}
	return "/tmp/fake.pdf", nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobSvc := &job.Service{
		JobChannel:        make(chan jobmodel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag, &MockFetcher{})
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobmodel.Job{Id: "test-1", JobType: jobmodel.JobTypeQuery}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Worker routes ingest jobs", func(t *testing.T) {
		jobSvc.JobChannel <- jobmodel.Job{Id: "test-2", JobType: jobmodel.JobTypeIngest}
		time.Sleep(50 * time.Millisecond)

		if got := mockRag.LastJobType.Load(); got != jobmodel.JobTypeIngest {
			t.Errorf("Expected ingest routing, got %v", got)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_FetchDownloadsThenIngests(t *testing.T) {
	logger = logger_i.NewLogger("TestWorkerPool")
	mockRag := &MockRagService{}
	var savedStates []jobmodel.JobStatus
	var mu sync.Mutex

	jobSvc := &job.Service{
		JobChannel:        make(chan jobmodel.Job, 1),
		DispatcherChannel: make(chan bool, 1),
		JobStore: &MockJobStore{
			OnSaveJob: func(ctx context.Context, j jobmodel.Job) error {
				mu.Lock()
				savedStates = append(savedStates, j.Status)
				mu.Unlock()
				return nil
			},
		},
	}

	downloaded := false
	fetcher := &MockFetcher{
		OnDownload: func(ctx context.Context, arxivId string, dir string, filename string) (string, error) {
			downloaded = true
			return dir + "/paper.pdf", nil
		},
	}
	InitServices(jobSvc, mockRag, fetcher)

	executeJob(jobmodel.Job{
		Id:         "fetch-1",
		JobType:    jobmodel.JobTypeFetch,
		JobPayload: jobmodel.JobPayload{ArxivId: "1706.03762", DocumentId: "doc-f1"},
	})

	if !downloaded {
		t.Error("fetch job must download the paper")
	}
	if got := mockRag.LastJobType.Load(); got != jobmodel.JobTypeIngest {
		t.Errorf("downloaded paper should flow into ingestion, got %v", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(savedStates) < 2 || savedStates[0] != jobmodel.JobStatusRunning {
		t.Errorf("job states not persisted as expected: %v", savedStates)
	}
	if final := savedStates[len(savedStates)-1]; final != jobmodel.JobStatusComplete {
		t.Errorf("final state got %v, want COMPLETE", final)
	}
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 0)
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobmodel.Job),
	}
	InitServices(jobSvc, &MockRagService{}, &MockFetcher{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 1 worker manually
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 0 {
		t.Errorf("Assertion Failed: Worker should have timed out and retired, but count is %d", count)
	}
}
