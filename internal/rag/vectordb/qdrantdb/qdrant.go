package qdrantdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingDimension)
var collectionName = config.DocumentCollection

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, docId string, topK int) ([]docmodel.ScoredChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	query := &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if docId != "" {
		query.Filter = docFilter(docId)
	}

	result, err := db.QObj.Query(ctx, query)
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	hits := make([]docmodel.ScoredChunk, 0, len(result))
	for _, hit := range result {
		hits = append(hits, docmodel.ScoredChunk{
			DocId:     hit.Payload["doc_id"].GetStringValue(),
			DocName:   hit.Payload["doc_name"].GetStringValue(),
			ChunkId:   hit.Payload["chunk_id"].GetStringValue(),
			Text:      hit.Payload["content"].GetStringValue(),
			PageNum:   int(hit.Payload["page_num"].GetIntegerValue()),
			PageOrder: int(hit.Payload["page_order"].GetIntegerValue()),
			Score:     hit.Score,
		})
	}

	RankChunks(hits)
	loggr.Debug("Vector search done", "hits", len(hits))
	return hits, nil
}

func (db *ClientHolder) DocumentChunks(ctx context.Context, docId string, limit int) ([]docmodel.DocChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	points, err := db.QObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collectionName,
		Filter:         docFilter(docId),
		Limit:          qdrant.PtrOf(uint32(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error scrolling Qdrant: ", "error:", err)
		return nil, err
	}

	chunks := make([]docmodel.DocChunk, 0, len(points))
	for _, p := range points {
		chunks = append(chunks, docmodel.DocChunk{
			ChunkId:   p.Payload["chunk_id"].GetStringValue(),
			Text:      p.Payload["content"].GetStringValue(),
			PageNum:   int(p.Payload["page_num"].GetIntegerValue()),
			PageOrder: int(p.Payload["page_order"].GetIntegerValue()),
			Offset:    int(p.Payload["offset"].GetIntegerValue()),
			Length:    int(p.Payload["length"].GetIntegerValue()),
		})
	}

	OrderChunks(chunks)
	return chunks, nil
}

func (db *ClientHolder) CreateCollection(ctx context.Context, collectionName string) error {
	return createCollection(ctx, db.QObj, collectionName)
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []docmodel.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"content":     chunk.Text,
				"page_num":    chunk.PageNum,
				"page_order":  chunk.PageOrder,
				"offset":      chunk.Offset,
				"length":      chunk.Length,
				"chunk_id":    chunk.ChunkId,
				"doc_id":      chunk.Doc.Id,
				"doc_name":    chunk.Doc.Name,
				"ingested_at": chunk.Doc.IngestedAt.Unix(),
				"model":       chunk.Doc.EmbeddingModel,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil

}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
