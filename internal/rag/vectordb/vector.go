package vectordb

import (
	"context"

	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
)

// DataProcessor is the vector index contract. Points are namespaced by
// document id in the payload so one document's vectors can be replaced
// or dropped without touching the rest of the collection.
type DataProcessor interface {
	// Search returns the topK most similar chunks, optionally scoped to
	// one document. An empty index or a filter that matches nothing
	// yields an empty slice, not an error.
	Search(ctx context.Context, vector []float32, docId string, topK int) ([]docmodel.ScoredChunk, error)

	// DocumentChunks returns up to limit chunks of one document in
	// original order, for summarization.
	DocumentChunks(ctx context.Context, docId string, limit int) ([]docmodel.DocChunk, error)

	CreateCollection(ctx context.Context, collectionName string) error
	UpsertBatch(ctx context.Context, collectionName string, chunks []docmodel.DocChunk, vectors [][]float32) error

	// DeleteDocument removes every point carrying the doc id. Deleting
	// an unknown id is a no-op.
	DeleteDocument(ctx context.Context, docId string) error
}
