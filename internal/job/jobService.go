package job

import (
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
)

type Service struct {
	JobChannel        chan jobmodel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobmodel.JobStore
	DocStore          docmodel.DocumentStore
}

type ServiceConfig struct {
	JobChannel        chan jobmodel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobmodel.JobStore
	DocStore          docmodel.DocumentStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		DocStore:          cfg.DocStore,
	}
}
