package answer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
)

func scored(id, text string, score float32) docmodel.ScoredChunk {
	return docmodel.ScoredChunk{ChunkId: id, DocName: "paper.pdf", PageNum: 1, Text: text, Score: score}
}

func TestBuildQueryPrompt_AllChunksFit(t *testing.T) {
	ranked := []docmodel.ScoredChunk{
		scored("a", "first chunk text", 0.9),
		scored("b", "second chunk text", 0.5),
	}

	prompt, evidence, err := BuildQueryPrompt("what is this?", ranked, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(evidence) != 2 {
		t.Errorf("expected 2 evidence chunks, got %d", len(evidence))
	}
	if !strings.Contains(prompt, "first chunk text") || !strings.Contains(prompt, "second chunk text") {
		t.Error("prompt should contain both chunk texts")
	}
	if !strings.Contains(prompt, "what is this?") {
		t.Error("prompt should contain the question")
	}
}

func TestBuildQueryPrompt_TruncatesLowestRankedFirst(t *testing.T) {
	big := strings.Repeat("x", 4000) //1000 tokens each
	ranked := []docmodel.ScoredChunk{
		scored("top", big, 0.9),
		scored("mid", big, 0.5),
		scored("low", big, 0.1),
	}

	// Budget for the skeleton plus roughly one and a half chunks.
	_, evidence, err := BuildQueryPrompt("q", ranked, 1600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(evidence) == 0 || evidence[0].ChunkId != "top" {
		t.Fatalf("highest ranked chunk must survive, got %+v", evidence)
	}
	for _, e := range evidence {
		if e.ChunkId == "low" {
			t.Error("lowest ranked chunk should have been dropped")
		}
	}
}

func TestBuildQueryPrompt_TruncationKeepsValidUTF8(t *testing.T) {
	// Multi-byte chunk text: the byte-count truncation must not leave a
	// partial rune at the end of the trimmed chunk.
	big := strings.Repeat("文", 2000)
	ranked := []docmodel.ScoredChunk{scored("cjk", big, 0.9)}

	// Sweep a few budgets so at least one truncation point lands inside
	// a 3-byte rune.
	for budget := 100; budget <= 104; budget++ {
		prompt, evidence, err := BuildQueryPrompt("q", ranked, budget)
		if err != nil {
			t.Fatalf("budget %d: unexpected error: %v", budget, err)
		}
		if !utf8.ValidString(prompt) {
			t.Errorf("budget %d: truncated prompt is not valid UTF-8", budget)
		}
		if len(evidence) != 1 {
			t.Errorf("budget %d: truncated chunk should remain as evidence, got %d", budget, len(evidence))
		}
	}
}

func TestBuildQueryPrompt_BudgetUnsatisfiable(t *testing.T) {
	question := strings.Repeat("why? ", 200)
	_, _, err := BuildQueryPrompt(question, nil, 50)
	if !ragerr.IsKind(err, ragerr.TokenBudgetExceeded) {
		t.Errorf("expected TokenBudgetExceeded, got %v", err)
	}
}

func TestBuildQueryPrompt_EmptyContext(t *testing.T) {
	prompt, evidence, err := BuildQueryPrompt("anything indexed?", nil, 500)
	if err != nil {
		t.Fatalf("empty context must not error: %v", err)
	}
	if len(evidence) != 0 {
		t.Errorf("expected no evidence, got %d", len(evidence))
	}
	if !strings.Contains(prompt, "anything indexed?") {
		t.Error("prompt should still carry the question")
	}
}

func TestBuildSummaryPrompt_KeepsDocumentOrder(t *testing.T) {
	chunks := []docmodel.DocChunk{
		{ChunkId: "a", PageNum: 1, PageOrder: 0, Text: "alpha"},
		{ChunkId: "b", PageNum: 1, PageOrder: 1, Text: "beta"},
		{ChunkId: "c", PageNum: 2, PageOrder: 0, Text: "gamma"},
	}

	prompt, err := BuildSummaryPrompt("paper.pdf", chunks, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ia := strings.Index(prompt, "alpha")
	ib := strings.Index(prompt, "beta")
	ic := strings.Index(prompt, "gamma")
	if ia < 0 || ib < 0 || ic < 0 || !(ia < ib && ib < ic) {
		t.Errorf("chunks out of order in summary prompt: %d %d %d", ia, ib, ic)
	}
}

func TestBuildSummaryPrompt_TrimsTail(t *testing.T) {
	big := strings.Repeat("y", 4000)
	chunks := []docmodel.DocChunk{
		{ChunkId: "head", Text: big},
		{ChunkId: "tail", Text: "the very end marker"},
	}

	prompt, err := BuildSummaryPrompt("paper.pdf", chunks, 900)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(prompt, "the very end marker") {
		t.Error("tail chunk should have been trimmed away first")
	}
	if !strings.Contains(prompt, "yyyy") {
		t.Error("head chunk content should survive")
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty string: got %d", got)
	}
	if got := EstimateTokens("abcd"); got != 1 {
		t.Errorf("4 chars: got %d, want 1", got)
	}
	if got := EstimateTokens("abcde"); got != 2 {
		t.Errorf("5 chars: got %d, want 2", got)
	}
}
