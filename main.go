package main

import (
	"context"
	"log"

	"cytostat/adapters/csvsource"
	"cytostat/adapters/sqlite"
	"cytostat/app"
	"cytostat/internal/config"
	"cytostat/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := sqlite.Open(appConfig.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Optional CSV ingest on boot, when a source file is configured
	if appConfig.Data.CSVPath != "" {
		subjects, samples, counts, err := csvsource.Load(appConfig.Data.CSVPath)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", appConfig.Data.CSVPath, err)
		}
		if err := store.InsertDataset(ctx, subjects, samples, counts); err != nil {
			log.Fatalf("Failed to ingest dataset: %v", err)
		}
		log.Printf("Ingested %d subjects, %d samples, %d count rows from %s",
			len(subjects), len(samples), len(counts), appConfig.Data.CSVPath)
	}

	service := app.NewAnalysisService(store, appConfig.Analysis.Alpha)
	server := ui.NewServer(service)

	if err := server.Start(appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
