package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
)

// --- Mocks ---

type mockEmbedder struct {
	batchFunc func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.batchFunc != nil {
		return m.batchFunc(ctx, chunks)
	}
	return make([][]float32, len(chunks)), nil
}
func (m *mockEmbedder) ModelVersion() string { return "test-embedding-001" }

type mockVectorDB struct {
	upsertFunc  func(ctx context.Context, coll string, chunks []docmodel.DocChunk, vectors [][]float32) error
	deletedDocs []string
	upserted    int
}

func (m *mockVectorDB) Search(ctx context.Context, v []float32, docId string, topK int) ([]docmodel.ScoredChunk, error) {
	return nil, nil
}
func (m *mockVectorDB) DocumentChunks(ctx context.Context, docId string, limit int) ([]docmodel.DocChunk, error) {
	return nil, nil
}
func (m *mockVectorDB) CreateCollection(ctx context.Context, name string) error { return nil }
func (m *mockVectorDB) UpsertBatch(ctx context.Context, coll string, chunks []docmodel.DocChunk, vectors [][]float32) error {
	m.upserted += len(chunks)
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, coll, chunks, vectors)
	}
	return nil
}
func (m *mockVectorDB) DeleteDocument(ctx context.Context, docId string) error {
	m.deletedDocs = append(m.deletedDocs, docId)
	return nil
}

type mockRegistry struct {
	saved map[string]docmodel.Document
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{saved: make(map[string]docmodel.Document)}
}
func (m *mockRegistry) SaveDocument(ctx context.Context, doc docmodel.Document) error {
	m.saved[doc.Id] = doc
	return nil
}
func (m *mockRegistry) GetDocument(ctx context.Context, id string) (docmodel.Document, bool) {
	d, ok := m.saved[id]
	return d, ok
}
func (m *mockRegistry) FindByName(ctx context.Context, name string) (docmodel.Document, bool) {
	return docmodel.Document{}, false
}
func (m *mockRegistry) ListDocuments(ctx context.Context) ([]docmodel.Document, error) {
	return nil, nil
}
func (m *mockRegistry) DeleteDocument(ctx context.Context, id string) error {
	delete(m.saved, id)
	return nil
}

// --- Unit Tests ---

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected docmodel.DocType
	}{
		{"test.pdf", docmodel.PDF},
		{"DOC.DOCX", docmodel.DOCX},
		{"notes.txt", docmodel.DOCX},
		{"image.png", docmodel.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestSplitPage_ShortTextSingleSpan(t *testing.T) {
	spans := splitPage("short text", 100, 20)
	if len(spans) != 1 || spans[0].offset != 0 || spans[0].length != len("short text") {
		t.Errorf("unexpected spans: %+v", spans)
	}
}

func TestSplitPage_OffsetsReconstructText(t *testing.T) {
	text := strings.Repeat("This is a long sentence about nothing in particular. ", 40)
	spans := splitPage(text, 200, 50)

	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	for i, s := range spans {
		if s.length > 200 {
			t.Errorf("span %d exceeds limit: %d", i, s.length)
		}
		if s.offset < 0 || s.offset+s.length > len(text) {
			t.Fatalf("span %d out of bounds: %+v", i, s)
		}
	}
	// Neighbouring spans must overlap or touch, never leave a gap.
	for i := 1; i < len(spans); i++ {
		prevEnd := spans[i-1].offset + spans[i-1].length
		if spans[i].offset > prevEnd {
			t.Errorf("gap between span %d and %d: %d > %d", i-1, i, spans[i].offset, prevEnd)
		}
	}
	last := spans[len(spans)-1]
	if last.offset+last.length != len(text) {
		t.Error("final span does not reach end of text")
	}
}

func TestSplitPage_MultiByteHardCut(t *testing.T) {
	// CJK prose with no ASCII separators: every hard cut must land on a
	// rune boundary or the chunk text is not valid UTF-8.
	text := strings.Repeat("文", 1000)
	spans := splitPage(text, 1000, 200)

	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	for i, s := range spans {
		chunk := text[s.offset : s.offset+s.length]
		if !utf8.ValidString(chunk) {
			t.Errorf("span %d (offset=%d len=%d) is not valid UTF-8", i, s.offset, s.length)
		}
		if s.length > 1000 {
			t.Errorf("span %d exceeds limit: %d", i, s.length)
		}
	}
	for i := 1; i < len(spans); i++ {
		prevEnd := spans[i-1].offset + spans[i-1].length
		if spans[i].offset > prevEnd {
			t.Errorf("gap between span %d and %d", i-1, i)
		}
	}
	last := spans[len(spans)-1]
	if last.offset+last.length != len(text) {
		t.Error("final span does not reach end of text")
	}
}

func TestSplitPage_IdeographicFullStopSeparator(t *testing.T) {
	sentence := strings.Repeat("这是一个很长的句子", 10) + "。"
	text := strings.Repeat(sentence, 8)
	spans := splitPage(text, 1000, 200)

	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	for i, s := range spans[:len(spans)-1] {
		chunk := text[s.offset : s.offset+s.length]
		if !utf8.ValidString(chunk) {
			t.Fatalf("span %d is not valid UTF-8", i)
		}
		if !strings.HasSuffix(chunk, "。") {
			t.Errorf("span %d did not cut after the sentence separator: ...%q", i, chunk[len(chunk)-9:])
		}
	}
}

func TestPrepareChunks(t *testing.T) {
	pages := []rawPage{
		{Number: 1, Content: "Page one content."},
		{Number: 2, Content: "Page two content."},
	}
	doc := docmodel.Document{Id: "doc-1"}

	chunks := prepareChunks(pages, doc)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks (one per page), got %d", len(chunks))
	}
	if chunks[0].Doc.Id != "doc-1" || chunks[0].PageNum != 1 {
		t.Errorf("Metadata mismatch in chunk 0: %+v", chunks[0])
	}
	if chunks[0].ChunkId == chunks[1].ChunkId {
		t.Error("chunk ids must be unique")
	}
	if chunks[1].Text != pages[1].Content[chunks[1].Offset:chunks[1].Offset+chunks[1].Length] {
		t.Error("offset/length do not reproduce chunk text")
	}
}

func TestBatchIngest_Batches(t *testing.T) {
	chunks := make([]docmodel.DocChunk, 150) // 2 batches: 100 + 50
	for i := range chunks {
		chunks[i] = docmodel.DocChunk{Text: "test content"}
	}

	callCount := 0
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []docmodel.DocChunk, v [][]float32) error {
			callCount++
			return nil
		},
	}
	p := NewPipeline(newMockRegistry(), vDB, &mockEmbedder{})

	indexed, err := p.batchIngest(context.Background(), chunks)
	if err != nil {
		t.Fatalf("batchIngest failed: %v", err)
	}
	if callCount != 2 {
		t.Errorf("Expected 2 batches to be upserted, got %d", callCount)
	}
	if indexed != 150 {
		t.Errorf("Expected 150 indexed, got %d", indexed)
	}
}

func TestBatchIngest_UpsertError(t *testing.T) {
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []docmodel.DocChunk, v [][]float32) error {
			return errors.New("upsert failed")
		},
	}
	p := NewPipeline(newMockRegistry(), vDB, &mockEmbedder{})

	indexed, err := p.batchIngest(context.Background(), []docmodel.DocChunk{{Text: "hi"}})
	if err == nil {
		t.Error("Expected error from batchIngest, got nil")
	}
	if indexed != 0 {
		t.Errorf("nothing should count as indexed, got %d", indexed)
	}
}

func writeTempDoc(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessDocumentIngestion_Success(t *testing.T) {
	path := writeTempDoc(t, "notes.txt", "Some meaningful document text that will be chunked and embedded.")
	registry := newMockRegistry()
	vDB := &mockVectorDB{}
	p := NewPipeline(registry, vDB, &mockEmbedder{})

	doc := docmodel.Document{Id: "doc-42", Name: "notes.txt"}
	got, err := p.ProcessDocumentIngestion(context.Background(), doc, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != docmodel.StatusProcessed {
		t.Errorf("status = %s, want PROCESSED", got.Status)
	}
	if got.ChunksIndexed == 0 || got.ChunksIndexed != got.ChunkCount {
		t.Errorf("chunks indexed %d of %d", got.ChunksIndexed, got.ChunkCount)
	}
	if got.EmbeddingModel != "test-embedding-001" {
		t.Errorf("embedding model not recorded: %q", got.EmbeddingModel)
	}
	if len(vDB.deletedDocs) != 1 || vDB.deletedDocs[0] != "doc-42" {
		t.Errorf("previous generation not cleared: %v", vDB.deletedDocs)
	}
	if saved, ok := registry.saved["doc-42"]; !ok || saved.Status != docmodel.StatusProcessed {
		t.Error("registry does not hold the processed document")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp upload should be removed after ingestion")
	}
}

func TestProcessDocumentIngestion_UnsupportedType(t *testing.T) {
	path := writeTempDoc(t, "image.png", "not really an image")
	registry := newMockRegistry()
	vDB := &mockVectorDB{}
	p := NewPipeline(registry, vDB, &mockEmbedder{})

	_, err := p.ProcessDocumentIngestion(context.Background(), docmodel.Document{Id: "d1", Name: "image.png"}, path)
	if !ragerr.IsKind(err, ragerr.ExtractionFailure) {
		t.Errorf("expected ExtractionFailure, got %v", err)
	}
	if saved, ok := registry.saved["d1"]; !ok || saved.Status != docmodel.StatusFailed {
		t.Error("failure must be recorded in the registry")
	}
	if vDB.upserted != 0 {
		t.Error("no vectors may be written for a rejected document")
	}
}

func TestProcessDocumentIngestion_SizeLimit(t *testing.T) {
	path := writeTempDoc(t, "huge.txt", "seed")
	if err := os.Truncate(path, config.MaxUploadBytes+1); err != nil {
		t.Fatal(err)
	}
	registry := newMockRegistry()
	vDB := &mockVectorDB{}
	p := NewPipeline(registry, vDB, &mockEmbedder{})

	_, err := p.ProcessDocumentIngestion(context.Background(), docmodel.Document{Id: "d2", Name: "huge.txt"}, path)
	if !ragerr.IsKind(err, ragerr.SizeLimitExceeded) {
		t.Errorf("expected SizeLimitExceeded, got %v", err)
	}
	if vDB.upserted != 0 || len(vDB.deletedDocs) != 0 {
		t.Error("index must remain untouched when the size limit rejects a file")
	}
}

func TestProcessDocumentIngestion_EmbeddingFailurePropagates(t *testing.T) {
	path := writeTempDoc(t, "notes.txt", "content to embed")
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, chunks []string) ([][]float32, error) {
			return nil, ragerr.New(ragerr.EmbeddingFailure, "provider exploded")
		},
	}
	p := NewPipeline(newMockRegistry(), &mockVectorDB{}, emb)

	_, err := p.ProcessDocumentIngestion(context.Background(), docmodel.Document{Id: "d3", Name: "notes.txt"}, path)
	if !ragerr.IsKind(err, ragerr.EmbeddingFailure) {
		t.Errorf("expected EmbeddingFailure, got %v", err)
	}
}
