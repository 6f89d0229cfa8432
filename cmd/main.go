package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"qa-datagen/internal/chromemdb"
	"qa-datagen/internal/config"
	"qa-datagen/internal/embedding"
	"qa-datagen/internal/export"
	"qa-datagen/internal/generator"
	"qa-datagen/internal/helper"
	"qa-datagen/internal/llmservice"
	"qa-datagen/internal/models"
	"qa-datagen/internal/parser"
	"qa-datagen/internal/store"
)

const (
	configFilePath = "./configs/config.yaml"
	searchTopK     = 5
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	filePath := flag.String("file", "", "Path to the document file to generate a dataset from")
	format := flag.String("format", "", "Override output format (json or csv)")
	query := flag.String("query", "", "Search previously generated pairs")
	dryRun := flag.Bool("dry-run", false, "Generate and export only, skip database and dataset index")
	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	if *filePath != "" && *query != "" {
		log.Fatal().Msg("Please provide either a document file using the -file flag or a query using the -query flag, but not both")
	}

	if *filePath != "" {
		generateDataset(context.Background(), *configPath, *filePath, *format, *dryRun)
		return
	}

	if *query != "" {
		searchDataset(context.Background(), *configPath, *query)
		return
	}

	log.Fatal().Msg("Please provide a document file using the -file flag or a query using the -query flag")
}

func generateDataset(ctx context.Context, configPath, filePath, formatOverride string, dryRun bool) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if formatOverride != "" {
		cfg.Generator.Format = formatOverride
	}

	log.Debug().Interface("generator", cfg.Generator).Msg("Loaded config")

	runID, err := helper.NewRunID()
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating run id")
	}

	loader := parser.NewLoader(cfg.Generator.ChunkSize, cfg.Generator.ChunkOverlap)
	chunks, err := loader.Load(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing document")
	}
	log.Info().Int("chunks", len(chunks)).Str("file", filePath).Msg("Parsed document")

	gen, err := generator.New(
		llmservice.NewClient(&cfg.LLM),
		cfg.Generator.Format,
		cfg.Generator.Stride,
		cfg.Generator.Offset(),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring generator")
	}

	results, err := gen.Run(ctx, chunks)
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating dataset")
	}
	helper.PrettyPrint(results)

	pairs := export.Flatten(results)
	log.Info().Str("run_id", runID).Int("slots", len(results)).Int("pairs", len(pairs)).Msg("Generation complete")

	if cfg.Output.JSONPath != "" {
		if err := writeOutput(cfg.Output.JSONPath, func(p string) error { return export.WriteJSON(p, results) }); err != nil {
			log.Fatal().Err(err).Msg("Error writing JSON output")
		}
	}
	if cfg.Output.CSVPath != "" {
		if err := writeOutput(cfg.Output.CSVPath, func(p string) error { return export.WriteCSV(p, pairs) }); err != nil {
			log.Fatal().Err(err).Msg("Error writing CSV output")
		}
	}
	if cfg.Output.XLSXPath != "" {
		if err := writeOutput(cfg.Output.XLSXPath, func(p string) error { return export.WriteXLSX(p, pairs) }); err != nil {
			log.Fatal().Err(err).Msg("Error writing XLSX output")
		}
	}

	if dryRun {
		return
	}

	if cfg.Database.URL != "" {
		storePairs(ctx, cfg, runID, filePath, pairs)
	}
	if cfg.DatasetDB.Path != "" || cfg.DatasetDB.InMemory {
		indexPairs(ctx, cfg, runID, pairs)
	}
}

func writeOutput(path string, write func(string) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := helper.CreateFolder(dir); err != nil {
			return err
		}
	}
	return write(path)
}

func storePairs(ctx context.Context, cfg *config.Config, runID, sourceFile string, pairs []models.Pair) {
	sqldb, err := store.Connect(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	db := store.NewDB(sqldb, cfg.Database.Debug)
	defer db.Close()

	if err := store.Init(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	if err := store.StorePairs(ctx, db, runID, sourceFile, cfg.Generator.Format, pairs); err != nil {
		log.Fatal().Err(err).Msg("Error storing pairs")
	}
	log.Info().Int("pairs", len(pairs)).Str("run_id", runID).Msg("Stored pairs in database")
}

func indexPairs(ctx context.Context, cfg *config.Config, runID string, pairs []models.Pair) {
	manager, err := chromemdb.NewManager(cfg.DatasetDB.Path, cfg.DatasetDB.Collection, cfg.DatasetDB.InMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating dataset index")
	}

	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	if err := manager.AddPairs(ctx, runID, pairs, embedder); err != nil {
		log.Fatal().Err(err).Msg("Error indexing pairs")
	}

	if cfg.DatasetDB.InMemory && cfg.DatasetDB.EncryptionKey != "" {
		if err := manager.Export(ctx, cfg.DatasetDB.EncryptionKey); err != nil {
			log.Fatal().Err(err).Msg("Error exporting dataset index")
		}
	}
}

func searchDataset(ctx context.Context, configPath, query string) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	manager, err := chromemdb.NewManager(cfg.DatasetDB.Path, cfg.DatasetDB.Collection, cfg.DatasetDB.InMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening dataset index")
	}

	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	results, err := manager.Search(ctx, query, embedder, searchTopK)
	if err != nil {
		log.Fatal().Err(err).Msg("Error searching dataset")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	for _, res := range results {
		fmt.Printf("[%.3f] %s\n", res.Similarity, res.Metadata["question"])
		fmt.Printf("        %s\n\n", res.Metadata["answer"])
	}
}
