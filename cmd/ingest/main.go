package main

import (
	"context"
	"log"
	"os"

	"cytostat/adapters/csvsource"
	"cytostat/adapters/sqlite"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: ingest <cell-count.csv> <database_path>")
	}

	csvPath := os.Args[1]
	dbPath := os.Args[2]

	log.Printf("Ingesting %s into %s", csvPath, dbPath)

	subjects, samples, counts, err := csvsource.Load(csvPath)
	if err != nil {
		log.Fatalf("Failed to load CSV: %v", err)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	if err := store.InsertDataset(ctx, subjects, samples, counts); err != nil {
		log.Fatalf("Failed to insert dataset: %v", err)
	}

	log.Printf("Done: %d subjects, %d samples, %d count rows", len(subjects), len(samples), len(counts))
}
