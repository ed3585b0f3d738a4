package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/kparuchuri/docqa-agent/internal/adapter/utils"
	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
)

type span struct {
	offset int
	length int
}

// splitPage windows page text into chunks of at most limit characters,
// with overlap characters shared between neighbours so meaning is not
// lost at chunk edges. Offsets index the original page text, so
// text[s.offset:s.offset+s.length] reproduces each chunk exactly.
func splitPage(text string, limit int, overlap int) []span {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= limit {
		return []span{{offset: 0, length: len(text)}}
	}

	var spans []span
	start := 0
	for start < len(text) {
		end := start + limit
		if end >= len(text) {
			spans = append(spans, span{offset: start, length: len(text) - start})
			break
		}

		cut := boundaryBefore(text, start, end)
		spans = append(spans, span{offset: start, length: cut - start})

		next := cut - overlap
		if next <= start {
			//separator landed inside the overlap window, step past it
			next = cut
		}
		for next < cut && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}
	return spans
}

// Separators ordered from "best" to "worst" for semantic meaning.
var separators = []string{"\n\n", "\n", ". ", "。", " "}

// boundaryBefore picks a cut point at or before end that lands just
// after a natural separator. Hard cut at the last rune boundary at or
// before end when the window has none; a cut must never split a rune or
// the chunk text stops being valid UTF-8.
func boundaryBefore(text string, start int, end int) int {
	window := text[start:end]
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i > 0 {
			return start + i + len(sep)
		}
	}
	cut := end
	for cut > start && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == start {
		//window smaller than one rune
		cut = end
	}
	return cut
}

func prepareChunks(pages []rawPage, doc docmodel.Document) []docmodel.DocChunk {
	var allChunks []docmodel.DocChunk

	for _, page := range pages {
		spans := splitPage(page.Content, config.ChunkSize, config.ChunkOverlap)

		for i, s := range spans {
			allChunks = append(allChunks, docmodel.DocChunk{
				Doc:       doc,
				ChunkId:   utils.GetNewUUID(),
				Text:      page.Content[s.offset : s.offset+s.length],
				PageNum:   page.Number,
				PageOrder: i,
				Offset:    s.offset,
				Length:    s.length,
			})
		}
	}

	return allChunks
}
