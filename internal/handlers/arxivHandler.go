package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/kparuchuri/docqa-agent/internal/adapter"
	"github.com/kparuchuri/docqa-agent/internal/adapter/utils"
	"github.com/kparuchuri/docqa-agent/internal/api"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
)

// ArxivSearchHandler godoc
// @Summary      Search arXiv
// @Description  Queries the arXiv export API and returns matching paper metadata. Synchronous, nothing is ingested.
// @Tags         arXiv
// @Produce      json
// @Param        q            query     string  true   "Search query"
// @Param        max_results  query     int     false  "Maximum results (default 5)"
// @Success      200  {object}  api.PaperSearchResponse
// @Failure      400  {object}  api.JobResponse "Missing query"
// @Failure      502  {object}  api.JobResponse "arXiv unreachable"
// @Router       /arxiv/search [get]
func ArxivSearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "q is required")
		return
	}
	maxResults, _ := strconv.Atoi(r.URL.Query().Get("max_results"))

	papers, err := handlerInstance.arxiv.Search(r.Context(), query, maxResults)
	if err != nil {
		logRH.Error("Arxiv search failed", "err", err)
		WriteErrorResponse(w, http.StatusBadGateway, "", "arXiv unreachable")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToPaperSearchResponse(query, papers))
}

// ArxivFetchHandler godoc
// @Summary      Fetch and ingest an arXiv paper
// @Description  Queues a background job that downloads the paper's PDF and runs it through the ingestion pipeline.
// @Tags         arXiv
// @Accept       json
// @Produce      json
// @Param        request  body      api.FetchPaperRequest  true  "arXiv identifier, e.g. 1706.03762, with an optional filename for the stored document"
// @Success      202  {object}  api.InitJobResponse "Fetch job queued"
// @Failure      400  {object}  api.JobResponse "Missing arxiv_id"
// @Router       /arxiv/fetch [post]
func ArxivFetchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.FetchPaperRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the fetch handler reader :", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.ArxivID == "" {
		logRH.Warn("Bad Fetch Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "arxiv_id is required")
		return
	}

	docName := requestData.Filename
	if docName == "" {
		docName = strings.ReplaceAll(requestData.ArxivID, "/", "_") + ".pdf"
	}

	// Fetching a paper twice re-indexes it under the same document ID.
	docId := ""
	if registry := documentRegistry(); registry != nil {
		if existing, found := registry.FindByName(r.Context(), docName); found {
			docId = existing.Id
		}
	}
	if docId == "" {
		docId = utils.GetNewUUID()
	}

	newJob := newJobData{
		id:           utils.GetNewUUID(),
		traceId:      traceFrom(r),
		jobType:      jobmodel.JobTypeFetch,
		documentId:   docId,
		documentName: docName,
		arxivId:      requestData.ArxivID,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}
