// @title           Document Q&A API
// @version         1.0
// @description     This API ingests documents and answers questions grounded in them
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kparuchuri/docqa-agent/internal/arxiv"
	"github.com/kparuchuri/docqa-agent/internal/config"
	"github.com/kparuchuri/docqa-agent/internal/data/store"
	"github.com/kparuchuri/docqa-agent/internal/domain/docmodel"
	"github.com/kparuchuri/docqa-agent/internal/domain/jobmodel"
	"github.com/kparuchuri/docqa-agent/internal/handlers"
	"github.com/kparuchuri/docqa-agent/internal/job"
	"github.com/kparuchuri/docqa-agent/internal/mcpserver"
	"github.com/kparuchuri/docqa-agent/internal/rag"
	"github.com/kparuchuri/docqa-agent/internal/rag/embedding/geminiEmbedding"
	"github.com/kparuchuri/docqa-agent/internal/rag/llm/groq"
	"github.com/kparuchuri/docqa-agent/internal/rag/vectordb/qdrantdb"
	"github.com/kparuchuri/docqa-agent/internal/server"
	"github.com/kparuchuri/docqa-agent/internal/worker"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	// Credentials come from the environment only. Refusing to start
	// beats failing on the first request.
	secrets, missing := config.LoadSecrets()
	if len(missing) > 0 {
		logger.Fatal("Missing required environment variables", "vars", missing)
	}
	config.ApplyAuth(secrets)

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init stores - redis with in-memory fallback
	var jobStore jobmodel.JobStore
	if redisJobs := store.GetRedisJobStore(serviceContext); redisJobs != nil {
		jobStore = redisJobs
	} else {
		logger.Error("Redis job store is offline, falling back to in-memory")
		jobStore = store.InitInMemoryJobStore()
	}

	var docStore docmodel.DocumentStore
	if redisDocs := store.GetRedisDocumentStore(serviceContext); redisDocs != nil {
		docStore = redisDocs
	} else {
		logger.Error("Redis document registry is offline, falling back to in-memory")
		docStore = store.InitInMemoryDocumentStore()
	}

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
		DocStore:          docStore,
	})

	vectorDB := qdrantdb.GetQdrantClient(serviceContext)
	embeddingService := geminiEmbedding.GetGeminiEmbeddingClient(serviceContext, config.GeminiEmbeddingModel, secrets.GeminiAPIKey)
	llmProvider := groq.GetGroqClient(serviceContext, secrets.GroqAPIKey, config.GroqModelName)

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, docStore)
	arxivClient := arxiv.NewClient()

	handlers.InitJobHandler(handlers.Deps{
		JobService: service,
		Vector:     vectorDB,
		Arxiv:      arxivClient,
	})

	//init worker pool
	worker.InitServices(service, ragService, arxivClient)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	mcpServer := mcpserver.NewServer(ragService, arxivClient)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcpServer.Handler())

	<-stopExecution
	logger.Info("Server stopped")
}
