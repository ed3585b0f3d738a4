package answer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
)

const queryInstruction = `Based on the following document context, answer the user's question.
Provide a concise and accurate answer based only on the provided context.
If the answer cannot be found in the context, say "I cannot find this information in the provided documents."`

const summaryInstruction = `Please provide a comprehensive summary of the following document content:`

// EstimateTokens approximates the provider's tokenizer at 4 chars per
// token. Close enough to stay under the budget with the headroom the
// budget constant already leaves.
func EstimateTokens(text string) int {
	return (len(text) + config.CharsPerToken - 1) / config.CharsPerToken
}

// BuildQueryPrompt assembles instruction + ranked context + question
// under the token budget. When the assembly would exceed the budget,
// chunk text is trimmed greedily starting from the lowest-ranked chunk;
// chunks trimmed to nothing are dropped. The returned slice is the
// evidence that actually made it into the prompt. If even the
// instruction and question alone bust the budget there is nothing left
// to truncate and the caller gets a TokenBudgetExceeded.
func BuildQueryPrompt(question string, ranked []docmodel.ScoredChunk, budget int) (string, []docmodel.ScoredChunk, error) {
	skeleton := fmt.Sprintf("%s\n\nContext:\n\n\nUser Question: %s\n", queryInstruction, question)
	if EstimateTokens(skeleton) > budget {
		return "", nil, ragerr.New(ragerr.TokenBudgetExceeded, "question alone exceeds the token budget")
	}

	used := fitChunks(rankedBlocks(ranked), budget-EstimateTokens(skeleton))

	var contextText strings.Builder
	evidence := make([]docmodel.ScoredChunk, 0, len(used))
	for _, u := range used {
		contextText.WriteString(u.text)
		evidence = append(evidence, ranked[u.index])
	}

	prompt := fmt.Sprintf("%s\n\nContext:\n%s\n\nUser Question: %s\n", queryInstruction, contextText.String(), question)
	return prompt, evidence, nil
}

// BuildSummaryPrompt assembles the summarization prompt from a
// document's chunks in original order. Over budget, text is trimmed
// from the tail of the document first.
func BuildSummaryPrompt(docName string, chunks []docmodel.DocChunk, budget int) (string, error) {
	skeleton := fmt.Sprintf("%s\n\n\nSummary:", summaryInstruction)
	if EstimateTokens(skeleton) > budget {
		return "", ragerr.New(ragerr.TokenBudgetExceeded, "summary instruction exceeds the token budget")
	}

	blocks := make([]block, 0, len(chunks))
	for i, c := range chunks {
		blocks = append(blocks, block{index: i, text: c.Text + "\n\n"})
	}
	used := fitChunks(blocks, budget-EstimateTokens(skeleton))
	if len(used) == 0 && len(chunks) > 0 {
		return "", ragerr.New(ragerr.TokenBudgetExceeded, "no document content fits the token budget")
	}

	var contextText strings.Builder
	for _, u := range used {
		contextText.WriteString(u.text)
	}
	return fmt.Sprintf("%s\n\n%s\nSummary:", summaryInstruction, contextText.String()), nil
}

type block struct {
	index int
	text  string
}

func rankedBlocks(ranked []docmodel.ScoredChunk) []block {
	blocks := make([]block, 0, len(ranked))
	for i, c := range ranked {
		blocks = append(blocks, block{
			index: i,
			text:  fmt.Sprintf("Source: %s, Page: %d\n%s\n\n", c.DocName, c.PageNum, c.Text),
		})
	}
	return blocks
}

// fitChunks keeps blocks in rank order while their running token total
// fits the budget. The first block that overflows is trimmed to the
// remaining room; everything after it is dropped.
func fitChunks(blocks []block, budget int) []block {
	var used []block
	remaining := budget

	for _, b := range blocks {
		cost := EstimateTokens(b.text)
		if cost <= remaining {
			used = append(used, b)
			remaining -= cost
			continue
		}
		if remaining > 0 {
			keep := remaining * config.CharsPerToken
			//never truncate mid-rune
			for keep > 0 && keep < len(b.text) && !utf8.RuneStart(b.text[keep]) {
				keep--
			}
			if keep > 0 && keep < len(b.text) {
				used = append(used, block{index: b.index, text: b.text[:keep]})
			}
		}
		break
	}
	return used
}
