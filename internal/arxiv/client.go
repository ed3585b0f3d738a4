package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/customHttpClient"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

// Client talks to the arXiv export API. Search hits the Atom query
// endpoint; Download pulls the paper PDF so it can be routed through
// the same ingestion path as a user upload.
type Client struct {
	httpClient *http.Client
	queryURL   string
	pdfURL     string
	logger     *logger_i.Logger
}

func NewClient() *Client {
	return &Client{
		httpClient: customHttpClient.NewPooledClient(config.ArxivTimeout),
		queryURL:   config.ArxivQueryURL,
		pdfURL:     config.ArxivPDFURL,
		logger:     logger_i.NewLogger("Arxiv"),
	}
}

// NewTestClient points the client at a stand-in server. Test use only.
func NewTestClient(httpClient *http.Client, queryURL string, pdfURL string) *Client {
	return &Client{
		httpClient: httpClient,
		queryURL:   queryURL,
		pdfURL:     pdfURL,
		logger:     logger_i.NewLogger("Arxiv test"),
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]docmodel.Paper, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if maxResults <= 0 {
		maxResults = config.ArxivMaxResult
	}

	requestURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d",
		c.queryURL, url.QueryEscape(query), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Arxiv query failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Arxiv query bad status", "status", resp.StatusCode)
		return nil, fmt.Errorf("arxiv query returned status %d", resp.StatusCode)
	}

	papers, err := parseFeed(resp.Body)
	if err != nil {
		log.Error("Arxiv feed parse failed", "error", err)
		return nil, err
	}

	log.Debug("Arxiv search done", "query", query, "results", len(papers))
	return papers, nil
}

// Download fetches the PDF for an arXiv id into dir and returns the
// saved path. An unknown id surfaces as NotFound.
func (c *Client) Download(ctx context.Context, arxivId string, dir string, filename string) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "arxivId", arxivId)

	pdfURL := fmt.Sprintf("%s/%s.pdf", c.pdfURL, arxivId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Arxiv download failed", "error", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ragerr.New(ragerr.NotFound, "arxiv paper not found: "+arxivId)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arxiv download returned status %d", resp.StatusCode)
	}

	if filename == "" {
		filename = strings.ReplaceAll(arxivId, "/", "_") + ".pdf"
	}
	downloadPath := filepath.Join(dir, filename)

	out, err := os.Create(downloadPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}

	log.Info("Downloaded paper", "path", downloadPath)
	return downloadPath, nil
}

// Atom feed shapes for the arXiv query API.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Id         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

func parseFeed(r io.Reader) ([]docmodel.Paper, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding arxiv feed: %w", err)
	}

	papers := make([]docmodel.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		paper := docmodel.Paper{
			ArxivId:   idFromEntry(entry.Id),
			Title:     strings.TrimSpace(entry.Title),
			Abstract:  strings.TrimSpace(entry.Summary),
			Published: entry.Published,
		}
		for _, a := range entry.Authors {
			paper.Authors = append(paper.Authors, a.Name)
		}
		for _, cat := range entry.Categories {
			paper.Categories = append(paper.Categories, cat.Term)
		}
		for _, link := range entry.Links {
			if link.Title == "pdf" {
				paper.PDFURL = link.Href
				break
			}
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

// Entry ids look like http://arxiv.org/abs/1706.03762v5.
func idFromEntry(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
