package customHttpClient

import (
	"net/http"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/config"
)

// Shared pooled transport for outbound traffic (arXiv, Groq). Keeps
// connections warm across requests instead of re-dialing per call.
var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
