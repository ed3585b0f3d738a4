package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/data/store"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
	"github.com/kparuchuri/docqa-agent/internal/job"
)

func fetchRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/arxiv/fetch", bytes.NewBufferString(body))
	return req.WithContext(context.WithValue(req.Context(), config.TRACE_ID_KEY, "test-trace"))
}

func TestArxivFetchHandler_Filenames(t *testing.T) {
	jobChannel := make(chan jobmodel.Job, 4)
	InitJobHandler(Deps{
		JobService: job.InitJobService(job.ServiceConfig{
			JobChannel:        jobChannel,
			DispatcherChannel: make(chan bool, 4),
			JobStore:          store.InitInMemoryJobStore(),
			DocStore:          store.InitInMemoryDocumentStore(),
		}),
	})

	t.Run("Custom filename overrides the derived one", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ArxivFetchHandler(rec, fetchRequest(`{"arxiv_id":"1706.03762","filename":"attention.pdf"}`))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("status got %d, want %d", rec.Code, http.StatusAccepted)
		}
		queued := <-jobChannel
		if queued.JobType != jobmodel.JobTypeFetch {
			t.Errorf("job type got %v, want %v", queued.JobType, jobmodel.JobTypeFetch)
		}
		if queued.JobPayload.ArxivId != "1706.03762" {
			t.Errorf("arxiv id got %q", queued.JobPayload.ArxivId)
		}
		if queued.JobPayload.IngestFileName != "attention.pdf" {
			t.Errorf("filename got %q, want attention.pdf", queued.JobPayload.IngestFileName)
		}
	})

	t.Run("Filename derived from the arXiv id by default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ArxivFetchHandler(rec, fetchRequest(`{"arxiv_id":"cs/0112017"}`))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("status got %d, want %d", rec.Code, http.StatusAccepted)
		}
		queued := <-jobChannel
		if queued.JobPayload.IngestFileName != "cs_0112017.pdf" {
			t.Errorf("filename got %q, want cs_0112017.pdf", queued.JobPayload.IngestFileName)
		}
	})

	t.Run("Missing arxiv_id rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ArxivFetchHandler(rec, fetchRequest(`{"filename":"x.pdf"}`))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status got %d, want %d", rec.Code, http.StatusBadRequest)
		}
		select {
		case q := <-jobChannel:
			t.Errorf("no job should be queued, got %+v", q)
		default:
		}
	})
}
