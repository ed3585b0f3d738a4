package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/lu4p/cat"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

func getDocType(docPath string) docmodel.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return docmodel.PDF
	case ".docx", ".txt", ".rtf":
		return docmodel.DOCX
	default:
		return docmodel.ERR
	}
}

// extractText pulls page text out of the file. Pages that cannot be
// parsed are skipped and reported in flagged rather than failing the
// whole document.
func extractText(path string, contentType docmodel.DocType) (pages []rawPage, flagged []int, err error) {
	switch contentType {
	case docmodel.PDF:
		return extractPDF(path)
	case docmodel.DOCX:
		return extractdocxTxtRtf(path)
	default:
		return nil, nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

func extractPDF(path string) ([]rawPage, []int, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file")
		return nil, nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	var flagged []int
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			logger.Warn("extractPDF", "page value is null, skipping page", i)
			flagged = append(flagged, i)
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// Flag and continue with other pages
			logger.Error("Error parsing page content", "page", i, "Error", err)
			flagged = append(flagged, i)
			continue
		}

		pages = append(pages, rawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, flagged, nil
}

// File reads a .odt, .docx, .rtf or plaintext file and returns the content as a string
func extractdocxTxtRtf(path string) ([]rawPage, []int, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc")
		return nil, nil, fmt.Errorf("failed to extract docx: %w", err)
	}

	//this is a bit ugly with putting all content in 1 page
	//a word writer that tracks page breaks would fix this
	return []rawPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil, nil
}

// A corrupted stream can make GetPlainText hang, so the call is boxed
// behind a timeout.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
