package models

import (
	"errors"
	"fmt"
)

// Format selects the prompt template and the response parser.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat validates a user-supplied format string. It is called once at
// generator construction so a bad format fails before any model call.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q (only 'json' and 'csv' are supported)", ErrUnsupportedFormat, s)
}

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	Content    string
	PageNumber int
	ChunkID    int
}

// Record is one structured extraction from a single model response.
// JSON is set for the json format, Rows for the csv format.
type Record struct {
	JSON any                 `json:"json,omitempty"`
	Rows []map[string]string `json:"rows,omitempty"`
}

// ResultSet holds one slot per sampled chunk, in sampling order.
// A nil slot means extraction failed for that chunk.
type ResultSet []*Record

// Pair is one flattened question-answer unit.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// container keys the models commonly wrap pair lists in
var pairListKeys = []string{"questions", "pairs", "qa_pairs", "data"}

// Pairs flattens a record into question-answer pairs, best effort. The model
// is free to return a single object, an array of objects, or an object
// wrapping such an array; anything else yields no pairs.
func (r *Record) Pairs() []Pair {
	if r == nil {
		return nil
	}
	if r.Rows != nil {
		var pairs []Pair
		for _, row := range r.Rows {
			p := Pair{Question: row["question"], Answer: row["answer"]}
			if p.Question != "" || p.Answer != "" {
				pairs = append(pairs, p)
			}
		}
		return pairs
	}
	return pairsFromJSON(r.JSON)
}

func pairsFromJSON(v any) []Pair {
	switch t := v.(type) {
	case map[string]any:
		if p, ok := pairFromMap(t); ok {
			return []Pair{p}
		}
		for _, key := range pairListKeys {
			if nested, ok := t[key]; ok {
				if pairs := pairsFromJSON(nested); len(pairs) > 0 {
					return pairs
				}
			}
		}
	case []any:
		var pairs []Pair
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				if p, ok := pairFromMap(m); ok {
					pairs = append(pairs, p)
				}
			}
		}
		return pairs
	}
	return nil
}

func pairFromMap(m map[string]any) (Pair, bool) {
	q, qok := m["question"].(string)
	a, aok := m["answer"].(string)
	if !qok || !aok {
		return Pair{}, false
	}
	return Pair{Question: q, Answer: a}, true
}
