//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"qa-datagen/internal/config"
	"qa-datagen/internal/models"
)

func skipWithoutDatabase(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	return &config.DatabaseConfig{URL: url, Key: os.Getenv("DATABASE_KEY")}
}

func TestIntegration_StoreAndListPairs(t *testing.T) {
	cfg := skipWithoutDatabase(t)
	ctx := context.Background()

	sqldb, err := Connect(cfg)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	db := NewDB(sqldb, false)
	defer db.Close()

	if err := DropPairs(ctx, db); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}
	if err := Init(ctx, db); err != nil {
		t.Fatalf("failed to init table: %v", err)
	}

	pairs := []models.Pair{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}
	if err := StorePairs(ctx, db, "run-test", "doc.pdf", "json", pairs); err != nil {
		t.Fatalf("failed to store pairs: %v", err)
	}

	rows, err := ListByRun(ctx, db, "run-test")
	if err != nil {
		t.Fatalf("failed to list pairs: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("listed %d rows, want 2", len(rows))
	}
	if rows[0].Question != "q1" || rows[1].Question != "q2" {
		t.Errorf("rows out of order: %q, %q", rows[0].Question, rows[1].Question)
	}
	if rows[0].SourceFile != "doc.pdf" || rows[0].Format != "json" {
		t.Errorf("row metadata = %q/%q, want doc.pdf/json", rows[0].SourceFile, rows[0].Format)
	}
}

func TestIntegration_StorePairsEmpty(t *testing.T) {
	cfg := skipWithoutDatabase(t)
	ctx := context.Background()

	sqldb, err := Connect(cfg)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	db := NewDB(sqldb, false)
	defer db.Close()

	if err := Init(ctx, db); err != nil {
		t.Fatalf("failed to init table: %v", err)
	}
	if err := StorePairs(ctx, db, "run-empty", "doc.pdf", "json", nil); err != nil {
		t.Fatalf("storing zero pairs failed: %v", err)
	}
}
