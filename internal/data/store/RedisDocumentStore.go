package store

import (
	"context"
	"encoding/json"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/data/redisStore"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

const docIndexKey = "documents:index"

// RedisDocumentStore is the document registry. Entries have no TTL:
// the registry must outlive the process so the vector index and the
// registry stay in step across restarts.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docmodel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc Id", doc.Id)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, docKey(doc.Id), data, 0); err != nil {
		log.Error("error saving document", "error:", err)
		return err
	}
	if err := s.store.SetAdd(ctx, docIndexKey, doc.Id); err != nil {
		log.Error("error indexing document id", "error:", err)
		return err
	}
	log.Debug("Saved document", "status", doc.Status)
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docmodel.Document, bool) {
	var doc docmodel.Document
	val, err := s.store.Get(ctx, docKey(id))
	if s.store.IsNil(err) || err != nil {
		return doc, false
	}
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) FindByName(ctx context.Context, name string) (docmodel.Document, bool) {
	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return docmodel.Document{}, false
	}
	for _, d := range docs {
		if d.Name == name {
			return d, true
		}
	}
	return docmodel.Document{}, false
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context) ([]docmodel.Document, error) {
	ids, err := s.store.SetMembers(ctx, docIndexKey)
	if err != nil {
		return nil, err
	}
	docs := make([]docmodel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.GetDocument(ctx, id); found {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc Id", id)
	if err := s.store.Del(ctx, docKey(id)); err != nil {
		log.Error("error deleting document", "error:", err)
		return err
	}
	if err := s.store.SetRemove(ctx, docIndexKey, id); err != nil {
		log.Error("error removing document from index", "error:", err)
		return err
	}
	log.Debug("Deleted document from registry")
	return nil
}

func docKey(id string) string {
	return "document:" + id
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test docstore"),
	}
}
