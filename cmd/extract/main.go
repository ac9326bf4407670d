// Command extract runs XBRL fact extraction over downloaded filings.
// It reads a ticker list, processes every instance document under the
// input directory, writes per-filing and combined CSVs, and optionally
// persists records to Postgres when DATABASE_URL is set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"secxbrl/pkg/core/ingest"
	"secxbrl/pkg/core/pipeline"
	"secxbrl/pkg/core/store"
)

type config struct {
	InputDir   string `yaml:"input_dir"`
	TickerList string `yaml:"ticker_list"`
	Workers    int    `yaml:"workers"`
}

func defaultConfig() config {
	return config{
		InputDir:   "OutputXML",
		TickerList: "Ticker_CIK_List.csv",
		Workers:    4,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "config/extract.yaml", "path to extraction config")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rows, err := ingest.ReadTickerList(cfg.TickerList)
	if err != nil {
		log.Fatalf("Failed to read ticker list: %v", err)
	}
	tickers := make([]string, 0, len(rows))
	for _, r := range rows {
		tickers = append(tickers, r.Ticker)
	}

	ctx := context.Background()
	batch := &pipeline.Batch{Workers: cfg.Workers}

	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()

		repo := store.NewFactRepo(store.GetPool())
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		batch.Sink = repo
		fmt.Println("Database sink enabled")
	}

	fmt.Printf("Extracting %d tickers from %s (%d workers)\n", len(tickers), cfg.InputDir, cfg.Workers)
	result, err := batch.Run(ctx, cfg.InputDir, tickers)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	fmt.Printf("Run %s complete: %d documents processed, %d skipped\n",
		result.RunID, result.Processed, result.Skipped)
}
