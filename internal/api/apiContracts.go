package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Kind    string `json:"kind,omitempty" example:"NOT_FOUND"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Sources  []string `json:"sources,omitempty"`
}

type Result struct {
	Status              string       `json:"status"`
	DocumentId          string       `json:"document_id,omitempty"`
	RAGExternalResponse *RAGResponse `json:"rag_response,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type DocumentResponse struct {
	Id             string    `json:"id"`
	Name           string    `json:"name"`
	ContentType    string    `json:"content_type"`
	SizeBytes      int64     `json:"size_bytes"`
	PageCount      int       `json:"page_count"`
	ChunkCount     int       `json:"chunk_count"`
	ChunksIndexed  int       `json:"chunks_indexed"`
	FlaggedPages   []int     `json:"flagged_pages,omitempty"`
	IngestedAt     time.Time `json:"ingested_at"`
	Status         string    `json:"status"`
	FailReason     string    `json:"fail_reason,omitempty"`
	EmbeddingModel string    `json:"embedding_model,omitempty"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

type PaperResponse struct {
	ArxivId    string   `json:"arxiv_id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Published  string   `json:"published"`
	Categories []string `json:"categories,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`
}

type PaperSearchResponse struct {
	Query  string          `json:"query"`
	Papers []PaperResponse `json:"papers"`
}

// requests---------------------

type QueryRequest struct {
	Question   string `json:"question" validate:"required"`
	DocumentID string `json:"document_id,omitempty"`
}

type FetchPaperRequest struct {
	ArxivID  string `json:"arxiv_id" validate:"required"`
	Filename string `json:"filename,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
