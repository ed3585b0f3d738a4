package qdrantdb

import (
	"testing"

	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
)

func TestRankChunks_ScoreDescending(t *testing.T) {
	hits := []docmodel.ScoredChunk{
		{ChunkId: "low", Score: 0.2},
		{ChunkId: "high", Score: 0.9},
		{ChunkId: "mid", Score: 0.5},
	}

	RankChunks(hits)

	if hits[0].ChunkId != "high" || hits[1].ChunkId != "mid" || hits[2].ChunkId != "low" {
		t.Errorf("unexpected order: %v %v %v", hits[0].ChunkId, hits[1].ChunkId, hits[2].ChunkId)
	}
}

func TestRankChunks_TieBrokenByChunkOrder(t *testing.T) {
	hits := []docmodel.ScoredChunk{
		{ChunkId: "p2-c0", Score: 0.7, PageNum: 2, PageOrder: 0},
		{ChunkId: "p1-c1", Score: 0.7, PageNum: 1, PageOrder: 1},
		{ChunkId: "p1-c0", Score: 0.7, PageNum: 1, PageOrder: 0},
	}

	RankChunks(hits)

	want := []string{"p1-c0", "p1-c1", "p2-c0"}
	for i, w := range want {
		if hits[i].ChunkId != w {
			t.Errorf("position %d: got %s, want %s", i, hits[i].ChunkId, w)
		}
	}
}

func TestOrderChunks(t *testing.T) {
	chunks := []docmodel.DocChunk{
		{ChunkId: "c", PageNum: 2, PageOrder: 0},
		{ChunkId: "b", PageNum: 1, PageOrder: 1},
		{ChunkId: "a", PageNum: 1, PageOrder: 0},
	}

	OrderChunks(chunks)

	want := []string{"a", "b", "c"}
	for i, w := range want {
		if chunks[i].ChunkId != w {
			t.Errorf("position %d: got %s, want %s", i, chunks[i].ChunkId, w)
		}
	}
}
