package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"qa-datagen/internal/models"
)

func sampleResults() models.ResultSet {
	return models.ResultSet{
		&models.Record{JSON: []any{
			map[string]any{"question": "q1", "answer": "a1"},
			map[string]any{"question": "q2", "answer": "a2"},
		}},
		nil, // a failed slot stays in the set
		&models.Record{JSON: map[string]any{"question": "q3", "answer": "a3"}},
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten(sampleResults())
	want := []models.Pair{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
		{Question: "q3", Answer: "a3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestWriteJSONKeepsSlotCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	results := sampleResults()

	if err := WriteJSON(path, results); err != nil {
		t.Fatalf("WriteJSON() unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var decoded []json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(decoded) != len(results) {
		t.Errorf("output has %d slots, want %d", len(decoded), len(results))
	}
	if string(decoded[1]) != "null" {
		t.Errorf("failed slot serialized as %s, want null", decoded[1])
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	pairs := []models.Pair{
		{Question: "q1", Answer: "a1"},
		{Question: "q2, with comma", Answer: "a2"},
	}

	if err := WriteCSV(path, pairs); err != nil {
		t.Fatalf("WriteCSV() unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading output csv: %v", err)
	}
	want := [][]string{
		{"question", "answer"},
		{"q1", "a1"},
		{"q2, with comma", "a2"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("csv content = %v, want %v", records, want)
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	pairs := []models.Pair{{Question: "q1", Answer: "a1"}}

	if err := WriteXLSX(path, pairs); err != nil {
		t.Fatalf("WriteXLSX() unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("reading workbook rows: %v", err)
	}
	want := [][]string{{"question", "answer"}, {"q1", "a1"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("workbook rows = %v, want %v", rows, want)
	}
}
