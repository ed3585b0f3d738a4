package docmodel

import (
	"context"
	"time"
)

type DocStatus string

const (
	StatusPending    DocStatus = "PENDING"
	StatusProcessing DocStatus = "PROCESSING"
	StatusProcessed  DocStatus = "PROCESSED"
	StatusFailed     DocStatus = "FAILED"
)

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	ERR  DocType = "ERROR"
)

// Document is the registry entry for one ingested file. The registry
// owns it; the vector index only references its Id.
type Document struct {
	Id             string    `json:"id"`
	Name           string    `json:"name"`
	ContentType    DocType   `json:"content_type"`
	SizeBytes      int64     `json:"size_bytes"`
	PageCount      int       `json:"page_count"`
	ChunkCount     int       `json:"chunk_count"`
	ChunksIndexed  int       `json:"chunks_indexed"`
	FlaggedPages   []int     `json:"flagged_pages,omitempty"`
	IngestedAt     time.Time `json:"ingested_at"`
	Status         DocStatus `json:"status"`
	FailReason     string    `json:"fail_reason,omitempty"`
	EmbeddingModel string    `json:"embedding_model"`
}

// DocChunk is the unit of embedding and retrieval. (PageNum, PageOrder)
// orders chunks for reconstruction; Offset/Length point back into the
// page's extracted text.
type DocChunk struct {
	Doc       Document `json:"-"`
	ChunkId   string   `json:"chunk_id"`
	Text      string   `json:"content"`
	PageNum   int      `json:"page_num"`
	PageOrder int      `json:"page_order"`
	Offset    int      `json:"offset"`
	Length    int      `json:"length"`
}

// ScoredChunk is a transient retrieval hit. Not persisted.
type ScoredChunk struct {
	DocId     string  `json:"doc_id"`
	DocName   string  `json:"doc_name"`
	ChunkId   string  `json:"chunk_id"`
	Text      string  `json:"content"`
	PageNum   int     `json:"page_num"`
	PageOrder int     `json:"page_order"`
	Score     float32 `json:"score"`
}

// Paper is arXiv search result metadata.
type Paper struct {
	ArxivId    string   `json:"arxiv_id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Published  string   `json:"published"`
	Categories []string `json:"categories,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`
}

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	FindByName(ctx context.Context, name string) (Document, bool)
	ListDocuments(ctx context.Context) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error
}
