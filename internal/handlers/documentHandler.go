package handlers

import (
	"net/http"

	"github.com/kparuchuri/docqa-agent/internal/adapter"
	"github.com/kparuchuri/docqa-agent/internal/adapter/utils"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
)

// ListDocumentsHandler godoc
// @Summary      List ingested documents
// @Description  Returns every document the registry knows about with its ingestion state.
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Failure      500  {object}  api.JobResponse "Registry unavailable"
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	registry := documentRegistry()
	if registry == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Registry unavailable")
		return
	}

	docs, err := registry.ListDocuments(r.Context())
	if err != nil {
		logRH.Error("Listing documents failed", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Registry unavailable")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(docs))
}

// GetDocumentHandler godoc
// @Summary      Get one document
// @Description  Returns the registry entry for a document ID.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	registry := documentRegistry()
	if registry == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Registry unavailable")
		return
	}

	doc, found := registry.GetDocument(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(doc))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document's vectors from the index and its entry from the registry. Queries issued afterwards will not see it.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse "The deleted document"
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Failure      500  {object}  api.JobResponse "Index or registry failure"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	registry := documentRegistry()
	if registry == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Registry unavailable")
		return
	}

	doc, found := registry.GetDocument(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}

	// Vectors first. If the index delete fails the registry entry stays,
	// so retrying the delete still sees the document.
	if err := handlerInstance.vector.DeleteDocument(r.Context(), id); err != nil {
		logRH.Error("Deleting document vectors failed", "docId", id, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Index delete failed")
		return
	}
	if err := registry.DeleteDocument(r.Context(), id); err != nil {
		logRH.Error("Deleting registry entry failed", "docId", id, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Registry delete failed")
		return
	}

	logRH.Info("Deleted document", "docId", id)
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(doc))
}

// SummarizeHandler godoc
// @Summary      Summarize a document
// @Description  Queues a background job that summarizes the indexed content of one document.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      202  {object}  api.InitJobResponse "Summarize job queued"
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{id}/summarize [post]
func SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	registry := documentRegistry()
	if registry == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Registry unavailable")
		return
	}
	if _, found := registry.GetDocument(r.Context(), id); !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}

	newJob := newJobData{
		id:         utils.GetNewUUID(),
		traceId:    traceFrom(r),
		jobType:    jobmodel.JobTypeSummarize,
		documentId: id,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}
