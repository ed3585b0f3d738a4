package store

import (
	"context"
	"sync"

	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
)

// InMemoryDocumentStore is the fallback registry when Redis is offline.
// Registry entries do not survive a restart in this mode.
type InMemoryDocumentStore struct {
	docLock *sync.RWMutex
	docMap  map[string]docmodel.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docLock: new(sync.RWMutex),
		docMap:  make(map[string]docmodel.Document),
	}
}

func (store *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docmodel.Document) error {
	store.docLock.Lock()
	defer store.docLock.Unlock()
	store.docMap[doc.Id] = doc
	return nil
}

func (store *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docmodel.Document, bool) {
	store.docLock.RLock()
	defer store.docLock.RUnlock()
	doc, ok := store.docMap[id]
	return doc, ok
}

func (store *InMemoryDocumentStore) FindByName(ctx context.Context, name string) (docmodel.Document, bool) {
	store.docLock.RLock()
	defer store.docLock.RUnlock()
	for _, doc := range store.docMap {
		if doc.Name == name {
			return doc, true
		}
	}
	return docmodel.Document{}, false
}

func (store *InMemoryDocumentStore) ListDocuments(ctx context.Context) ([]docmodel.Document, error) {
	store.docLock.RLock()
	defer store.docLock.RUnlock()
	docs := make([]docmodel.Document, 0, len(store.docMap))
	for _, doc := range store.docMap {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (store *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	store.docLock.Lock()
	defer store.docLock.Unlock()
	delete(store.docMap, id)
	return nil
}
