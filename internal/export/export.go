package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"qa-datagen/internal/models"
)

// Flatten collects the question-answer pairs of every successful slot,
// skipping failed (nil) slots.
func Flatten(results models.ResultSet) []models.Pair {
	var pairs []models.Pair
	for _, record := range results {
		pairs = append(pairs, record.Pairs()...)
	}
	return pairs
}

// WriteJSON dumps the raw result set, nil slots included, so the output
// length always matches the number of sampled chunks.
func WriteJSON(path string, results models.ResultSet) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result set: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("slots", len(results)).Msg("Wrote JSON result set")
	return nil
}

// WriteCSV writes flattened pairs under a question,answer header.
func WriteCSV(path string, pairs []models.Pair) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"question", "answer"}); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := w.Write([]string{p.Question, p.Answer}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("pairs", len(pairs)).Msg("Wrote CSV dataset")
	return nil
}

// WriteXLSX writes flattened pairs to a single-sheet workbook.
func WriteXLSX(path string, pairs []models.Pair) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"question", "answer"}); err != nil {
		return err
	}
	for i, p := range pairs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{p.Question, p.Answer}); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("pairs", len(pairs)).Msg("Wrote XLSX dataset")
	return nil
}
