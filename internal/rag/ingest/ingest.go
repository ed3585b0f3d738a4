package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/doclock"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
	"github.com/kparuchuri/docqa-agent/internal/metrics"
	"github.com/kparuchuri/docqa-agent/internal/rag/embedding"
	"github.com/kparuchuri/docqa-agent/internal/rag/vectordb"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Ingestion")

// Pipeline turns an uploaded file into indexed chunks. Writes for the
// same document id are serialized through locks, so a re-upload never
// interleaves with an in-flight ingestion of the same document.
type Pipeline struct {
	registry docmodel.DocumentStore
	vector   vectordb.DataProcessor
	embedder embedding.Embedder
	locks    *doclock.KeyedMutex
}

func NewPipeline(registry docmodel.DocumentStore, vector vectordb.DataProcessor, embedder embedding.Embedder) *Pipeline {
	return &Pipeline{
		registry: registry,
		vector:   vector,
		embedder: embedder,
		locks:    doclock.New(),
	}
}

// ProcessDocumentIngestion runs the full pipeline for one file: limits,
// extraction, chunking, embedding, indexing, registry bookkeeping. The
// returned document reflects the final registry state. Re-ingesting an
// existing id replaces its previous vectors wholesale; size and page
// limits are enforced before anything touches the index.
func (p *Pipeline) ProcessDocumentIngestion(ctx context.Context, doc docmodel.Document, docPath string) (docmodel.Document, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", doc.Id)

	unlock := p.locks.Lock(doc.Id)
	defer unlock()

	log.Debug("Processing document", "filename", doc.Name, "path", docPath)
	start := time.Now()

	doc, err := p.ingest(ctx, doc, docPath, log)
	if err != nil {
		doc.Status = docmodel.StatusFailed
		doc.FailReason = err.Error()
		if saveErr := p.registry.SaveDocument(ctx, doc); saveErr != nil {
			log.Error("Failed recording ingestion failure", "error", saveErr)
		}
		metrics.CountDocumentIngested("failure")
		return doc, err
	}

	metrics.CountDocumentIngested("success")
	metrics.CaptureExecutionMetrics("ingest", time.Since(start))
	log.Info("Document ingested", "pages", doc.PageCount, "chunks", doc.ChunksIndexed)
	return doc, nil
}

func (p *Pipeline) ingest(ctx context.Context, doc docmodel.Document, docPath string, log *logger_i.Logger) (docmodel.Document, error) {
	info, err := os.Stat(docPath)
	if err != nil {
		return doc, ragerr.Wrap(ragerr.ExtractionFailure, "cannot read uploaded file", err)
	}
	doc.SizeBytes = info.Size()
	if doc.SizeBytes > config.MaxUploadBytes {
		return doc, ragerr.New(ragerr.SizeLimitExceeded,
			fmt.Sprintf("file is %d bytes, limit is %d", doc.SizeBytes, config.MaxUploadBytes))
	}

	doc.ContentType = getDocType(docPath)
	if doc.ContentType == docmodel.ERR {
		return doc, ragerr.New(ragerr.ExtractionFailure, "unsupported file type: "+doc.Name)
	}

	doc.Status = docmodel.StatusProcessing
	if err := p.registry.SaveDocument(ctx, doc); err != nil {
		return doc, err
	}

	pages, flagged, err := extractText(docPath, doc.ContentType)
	if err != nil {
		return doc, ragerr.Wrap(ragerr.ExtractionFailure, "extracting document content", err)
	}
	if len(pages) == 0 {
		return doc, ragerr.New(ragerr.ExtractionFailure, "no readable pages in document")
	}

	doc.PageCount = len(pages) + len(flagged)
	doc.FlaggedPages = flagged
	//limits are checked before the index is touched
	if doc.PageCount > config.MaxDocumentPages {
		return doc, ragerr.New(ragerr.SizeLimitExceeded,
			fmt.Sprintf("document has %d pages, limit is %d", doc.PageCount, config.MaxDocumentPages))
	}

	if err := p.vector.CreateCollection(ctx, config.DocumentCollection); err != nil {
		log.Error("Error creating collection", "error", err)
		return doc, err
	}

	// Drop the previous generation so a re-upload fully replaces it.
	if err := p.vector.DeleteDocument(ctx, doc.Id); err != nil {
		log.Error("Error clearing previous vectors", "error", err)
		return doc, err
	}

	doc.EmbeddingModel = p.embedder.ModelVersion()
	chunks := prepareChunks(pages, doc)
	doc.ChunkCount = len(chunks)
	log.Debug("Processing document", "Number of chunks: ", len(chunks))

	indexed, err := p.batchIngest(ctx, chunks)
	doc.ChunksIndexed = indexed
	if err != nil {
		return doc, err
	}

	doc.IngestedAt = time.Now()
	doc.Status = docmodel.StatusProcessed
	if err := p.registry.SaveDocument(ctx, doc); err != nil {
		return doc, err
	}

	if err := os.Remove(docPath); err != nil {
		log.Error("Error removing file", "error", err)
	}
	return doc, nil
}

// batchIngest embeds and upserts chunks in batches, returning how many
// made it into the index before any failure.
func (p *Pipeline) batchIngest(ctx context.Context, chunks []docmodel.DocChunk) (int, error) {
	batchSize := 100
	indexed := 0

	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		currentBatch := chunks[i:end]
		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Text
		}

		logger.Debug("Starting embedding call", "current batch length", len(currentBatch))
		vectors, err := p.embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("embedding batch failed: %w", err)
		}

		err = p.vector.UpsertBatch(ctx, config.DocumentCollection, currentBatch, vectors)
		if err != nil {
			return indexed, fmt.Errorf("upserting to qdrant failed: %w", err)
		}
		indexed += len(currentBatch)
		metrics.CountChunksIndexed(len(currentBatch))
	}

	return indexed, nil
}
