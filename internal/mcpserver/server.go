package mcpserver

import (
	"context"
	"net/http"

	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/rag"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "1.0.0"

// PaperSearcher is the slice of the arxiv client the tools need.
type PaperSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]docmodel.Paper, error)
}

// Server exposes the question answering pipeline as MCP tools so
// agents can use the document corpus directly, without going through
// the async job queue.
type Server struct {
	ragService rag.Service
	arxiv      PaperSearcher
	server     *mcp.Server
	logger     *logger_i.Logger
}

func NewServer(ragService rag.Service, arxiv PaperSearcher) *Server {
	impl := &mcp.Implementation{
		Name:    "docqa-agent",
		Version: Version,
	}

	s := &Server{
		ragService: ragService,
		arxiv:      arxiv,
		server:     mcp.NewServer(impl, nil),
		logger:     logger_i.NewLogger("MCP"),
	}
	s.registerTools()

	return s
}

// Handler returns the streamable HTTP handler, for mounting on the API
// server's router.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
