package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zylo-solution/luka-video-generation-task/application/services"
	"github.com/zylo-solution/luka-video-generation-task/config"
	"github.com/zylo-solution/luka-video-generation-task/infrastructure/adapters"
	"github.com/zylo-solution/luka-video-generation-task/infrastructure/gin_interface/controllers"
	"github.com/zylo-solution/luka-video-generation-task/middleware"
	mockproviders "github.com/zylo-solution/luka-video-generation-task/mock"
)

func main() {
	// Optional .env for local runs; deployments set real environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	gin.SetMode(cfg.Server.GinMode)

	logLevel, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}
	zeroLogger := adapters.NewZerologWrapperTo(os.Stderr, logLevel)

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(cfg.Server.WorkerPool, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	jobStore := adapters.NewJobStore(context.Background(), &cfg.Redis, zeroLogger)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	router.Use(middleware.CORSMiddleware())

	if cfg.MockProviders {
		mockproviders.Init(router, cfg, localBaseURL(cfg.Server.Addr), zeroLogger)
	}

	contentFetcher := adapters.NewContentFetcher(&http.Client{}, zeroLogger)

	scriptGenerator := adapters.NewGeminiScriptGenerator(contentFetcher, &cfg.Gemini, zeroLogger)
	assetSelector := adapters.NewHeyGenAssetSelector(contentFetcher, &cfg.HeyGen, zeroLogger)
	videoRenderer := adapters.NewHeyGenVideoRenderer(contentFetcher, &cfg.HeyGen, zeroLogger)
	captionBurner := adapters.NewSubmagicCaptionBurner(contentFetcher, &cfg.Submagic, zeroLogger)

	jobPipeline := services.NewJobPipelineOrchestrator(zeroLogger, jobStore, scriptGenerator, assetSelector, videoRenderer, captionBurner)

	jobsController := controllers.NewJobsController(zeroLogger, workerPool, jobStore, jobPipeline)
	jobsController.RegisterRoutes(router)

	err = router.Run(cfg.Server.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

func localBaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}
