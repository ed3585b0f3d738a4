package embedding

import "context"

// Embedder turns text into vectors. Query and chunk embeddings must
// come from the same model version or similarity scores are
// meaningless; ModelVersion is recorded on every ingested document so
// a mismatch is detectable.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
	ModelVersion() string
}
