package qdrantdb

import (
	"context"
	"sort"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/qdrant/go-client/qdrant"
)

func docFilter(docId string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_id", docId),
		},
	}
}

// DeleteDocument drops every point of one document in a single
// filter-scoped delete, so a re-index or user delete replaces the whole
// generation atomically on the qdrant side.
func (db *ClientHolder) DeleteDocument(ctx context.Context, docId string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", docId)

	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points:         qdrant.NewPointsSelectorFilter(docFilter(docId)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		loggr.Error("Deleting document vectors failed", "error", err)
		return err
	}
	loggr.Debug("Deleted document vectors")
	return nil
}

// RankChunks sorts hits by score descending; equal scores fall back to
// the chunk's original position in its document.
func RankChunks(hits []docmodel.ScoredChunk) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].PageNum != hits[j].PageNum {
			return hits[i].PageNum < hits[j].PageNum
		}
		return hits[i].PageOrder < hits[j].PageOrder
	})
}

// OrderChunks restores document order, (page, order within page).
func OrderChunks(chunks []docmodel.DocChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].PageNum != chunks[j].PageNum {
			return chunks[i].PageNum < chunks[j].PageNum
		}
		return chunks[i].PageOrder < chunks[j].PageOrder
	})
}
