package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/adapter"
	"github.com/kparuchuri/docqa-agent/internal/adapter/utils"
	"github.com/kparuchuri/docqa-agent/internal/api"
	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id             string
	traceId        string
	jobType        jobmodel.JobType
	question       string
	documentId     string
	documentName   string
	documentSource string
	arxivId        string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// QueryHandler godoc
// @Summary      Ask a question over the indexed documents
// @Description  Accepts a question with an optional document filter, queues a background query job and returns a job ID to track the answer.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest     true  "Question and optional document ID filter"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the query handler reader :", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Question == "" {
		logRH.Warn("Bad Query Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, "", "question is required")
		return
	}

	newJob := newJobData{
		id:         utils.GetNewUUID(),
		traceId:    traceFrom(request),
		jobType:    jobmodel.JobTypeQuery,
		question:   requestData.Question,
		documentId: requestData.DocumentID,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceFrom(r))

	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostUploadHandler handles the uploading of PDF or DOCX documents for ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job. Re-uploading a name that already exists re-indexes that document under its existing ID.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  false  "The display name of the document (defaults to the uploaded filename)"
// @Param        document       formData  file    true   "The PDF, DOCX, TXT or RTF file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - ingestion job queued"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields"
// @Failure      413  {object}  api.JobResponse "File exceeds the upload size limit"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /documents [post]
func PostUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "", "File too large or bad request")
		return
	}

	//get the document the user uploads
	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	docName := r.FormValue("document_name")
	if docName == "" {
		docName = fileMetadata.Filename
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
		return
	}

	// A known name re-indexes under its existing ID so the registry
	// never holds two generations of the same document.
	docId := ""
	if registry := documentRegistry(); registry != nil {
		if existing, found := registry.FindByName(r.Context(), docName); found {
			docId = existing.Id
			logRH.Info("Re-indexing existing document", "docId", docId, "name", docName)
		}
	}
	if docId == "" {
		docId = utils.GetNewUUID()
	}

	newJob := newJobData{
		id:             utils.GetNewUUID(),
		traceId:        traceFrom(r),
		jobType:        jobmodel.JobTypeIngest,
		documentId:     docId,
		documentName:   docName,
		documentSource: tempFilePath,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}
