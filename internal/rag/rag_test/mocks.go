package rag_test

import (
	"context"

	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
)

// MockVectorDB implements vectordb.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnSearch           func(ctx context.Context, vectorVal []float32, docId string, topK int) ([]docmodel.ScoredChunk, error)
	OnDocumentChunks   func(ctx context.Context, docId string, limit int) ([]docmodel.DocChunk, error)
	OnCreateCollection func(ctx context.Context, name string) error
	OnUpsertBatch      func(ctx context.Context, name string, chunks []docmodel.DocChunk, vectors [][]float32) error
	OnDeleteDocument   func(ctx context.Context, docId string) error
}

func (m *MockVectorDB) Search(ctx context.Context, v []float32, docId string, topK int) ([]docmodel.ScoredChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, v, docId, topK)
	}
	return []docmodel.ScoredChunk{{DocId: "doc-1", DocName: "default.pdf", ChunkId: "c1", Text: "default context", PageNum: 1, Score: 0.9}}, nil
}

func (m *MockVectorDB) DocumentChunks(ctx context.Context, docId string, limit int) ([]docmodel.DocChunk, error) {
	if m.OnDocumentChunks != nil {
		return m.OnDocumentChunks(ctx, docId, limit)
	}
	return []docmodel.DocChunk{{ChunkId: "c1", Text: "default chunk", PageNum: 1}}, nil
}

func (m *MockVectorDB) CreateCollection(ctx context.Context, name string) error {
	if m.OnCreateCollection != nil {
		return m.OnCreateCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, chunks []docmodel.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) DeleteDocument(ctx context.Context, docId string) error {
	if m.OnDeleteDocument != nil {
		return m.OnDeleteDocument(ctx, docId)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk size
	return make([][]float32, len(chunks)), nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) ModelVersion() string { return "mock-embedding-001" }

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string, maxTokens int) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt, maxTokens)
	}
	return "mocked llm response", nil
}

// MockRegistry implements docmodel.DocumentStore
type MockRegistry struct {
	Docs map[string]docmodel.Document
}

func NewMockRegistry(docs ...docmodel.Document) *MockRegistry {
	m := &MockRegistry{Docs: make(map[string]docmodel.Document)}
	for _, d := range docs {
		m.Docs[d.Id] = d
	}
	return m
}

func (m *MockRegistry) SaveDocument(ctx context.Context, doc docmodel.Document) error {
	m.Docs[doc.Id] = doc
	return nil
}

func (m *MockRegistry) GetDocument(ctx context.Context, id string) (docmodel.Document, bool) {
	d, ok := m.Docs[id]
	return d, ok
}

func (m *MockRegistry) FindByName(ctx context.Context, name string) (docmodel.Document, bool) {
	for _, d := range m.Docs {
		if d.Name == name {
			return d, true
		}
	}
	return docmodel.Document{}, false
}

func (m *MockRegistry) ListDocuments(ctx context.Context) ([]docmodel.Document, error) {
	var docs []docmodel.Document
	for _, d := range m.Docs {
		docs = append(docs, d)
	}
	return docs, nil
}

func (m *MockRegistry) DeleteDocument(ctx context.Context, id string) error {
	delete(m.Docs, id)
	return nil
}
