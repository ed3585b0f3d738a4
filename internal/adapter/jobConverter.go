package adapter

import (
	"fmt"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/api"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobmodel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Kind:    job.Error.Kind,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:              string(job.Status),
		DocumentId:          job.JobPayload.DocumentId,
		RAGExternalResponse: ToRAGExternalStatus(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToRAGExternalStatus(ragData jobmodel.JobPayload) *api.RAGResponse {
	if ragData.Answer == "" && len(ragData.Sources) == 0 {
		return nil
	}

	return &api.RAGResponse{
		Question: ragData.Question,
		Answer:   ragData.Answer,
		Sources:  ragData.Sources,
	}
}

func ToDocumentResponse(doc docmodel.Document) api.DocumentResponse {
	return api.DocumentResponse{
		Id:             doc.Id,
		Name:           doc.Name,
		ContentType:    string(doc.ContentType),
		SizeBytes:      doc.SizeBytes,
		PageCount:      doc.PageCount,
		ChunkCount:     doc.ChunkCount,
		ChunksIndexed:  doc.ChunksIndexed,
		FlaggedPages:   doc.FlaggedPages,
		IngestedAt:     doc.IngestedAt,
		Status:         string(doc.Status),
		FailReason:     doc.FailReason,
		EmbeddingModel: doc.EmbeddingModel,
	}
}

func ToDocumentListResponse(docs []docmodel.Document) api.DocumentListResponse {
	out := api.DocumentListResponse{Documents: make([]api.DocumentResponse, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, ToDocumentResponse(d))
	}
	return out
}

func ToPaperSearchResponse(query string, papers []docmodel.Paper) api.PaperSearchResponse {
	out := api.PaperSearchResponse{Query: query, Papers: make([]api.PaperResponse, 0, len(papers))}
	for _, p := range papers {
		out.Papers = append(out.Papers, api.PaperResponse{
			ArxivId:    p.ArxivId,
			Title:      p.Title,
			Authors:    p.Authors,
			Abstract:   p.Abstract,
			Published:  p.Published,
			Categories: p.Categories,
			PDFURL:     p.PDFURL,
		})
	}
	return out
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status:              string(api.JobStatusError),
			RAGExternalResponse: ToRAGExternalStatus(jobmodel.JobPayload{}),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
