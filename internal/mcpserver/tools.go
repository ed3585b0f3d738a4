package mcpserver

import (
	"context"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"restrict the answer to one document"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one evidence chunk behind an answer.
type SourceOutput struct {
	DocumentID   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	Page         int     `json:"page"`
	Score        float32 `json:"score"`
}

// SearchPapersInput is the input schema for the search_papers tool.
type SearchPapersInput struct {
	Query      string `json:"query" jsonschema:"the arXiv search query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of papers to return (default 5)"`
}

// SearchPapersOutput is the output schema for the search_papers tool.
type SearchPapersOutput struct {
	Papers []PaperOutput `json:"papers"`
	Count  int           `json:"count"`
}

// PaperOutput is one arXiv search hit.
type PaperOutput struct {
	ArxivID   string   `json:"arxiv_id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Abstract  string   `json:"abstract"`
	Published string   `json:"published"`
	PDFURL    string   `json:"pdf_url,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded in the indexed documents, with source citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_papers",
		Description: "Search arXiv for papers matching a query",
	}, s.handleSearchPapers)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	s.logger.Debug("ask tool invoked", "docId", input.DocumentID)

	ans, err := s.ragService.AnswerQuestion(ctx, input.Question, input.DocumentID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  ans.Text,
		Sources: make([]SourceOutput, len(ans.Sources)),
	}
	for i, src := range ans.Sources {
		output.Sources[i] = SourceOutput{
			DocumentID:   src.DocId,
			DocumentName: src.DocName,
			Page:         src.PageNum,
			Score:        src.Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleSearchPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchPapersInput,
) (*mcp.CallToolResult, SearchPapersOutput, error) {
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = config.ArxivMaxResult
	}

	papers, err := s.arxiv.Search(ctx, input.Query, maxResults)
	if err != nil {
		return nil, SearchPapersOutput{}, err
	}

	output := SearchPapersOutput{
		Papers: make([]PaperOutput, len(papers)),
		Count:  len(papers),
	}
	for i, p := range papers {
		output.Papers[i] = PaperOutput{
			ArxivID:   p.ArxivId,
			Title:     p.Title,
			Authors:   p.Authors,
			Abstract:  p.Abstract,
			Published: p.Published,
			PDFURL:    p.PDFURL,
		}
	}
	return nil, output, nil
}
