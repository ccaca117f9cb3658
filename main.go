package main

import (
	"log"

	"github.com/joho/godotenv"

	"insightengine/adapters/postgres"
	"insightengine/ai"
	"insightengine/internal"
	"insightengine/internal/analysis"
	"insightengine/internal/config"
	"insightengine/internal/dataset"
	"insightengine/ports"
	"insightengine/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] invalid configuration: %v", err)
	}
	logger := internal.DefaultLogger

	var repo ports.AnalysisRepository
	if cfg.Database.URL != "" {
		pgRepo, err := postgres.NewAnalysisRepository(cfg.Database.URL)
		if err != nil {
			log.Fatalf("[main] database connection failed: %v", err)
		}
		defer pgRepo.Close()
		repo = pgRepo
		logger.Info("[main] analysis history enabled")
	} else {
		logger.Info("[main] DATABASE_URL not set, analysis history disabled")
	}

	var narrator dataset.Narrator
	if client := ai.NewInsightClient(cfg.AI); client != nil {
		narrator = client
		logger.Info("[main] LLM narratives enabled (%s)", cfg.AI.Model)
	} else {
		logger.Info("[main] OPENAI_API_KEY not set, using templated insights")
	}

	engine := analysis.NewEngine()
	storage := dataset.NewLocalFileStorage(cfg.Upload.StoragePath)
	processor := dataset.NewProcessor(engine, storage, repo, narrator, cfg.Upload)

	server := ui.NewServer(processor, repo, cfg)
	if err := server.Run(); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
