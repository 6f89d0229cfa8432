package extract

import (
	"errors"
	"reflect"
	"testing"

	"qa-datagen/internal/models"
)

func TestExtractJSONRoundTrip(t *testing.T) {
	res, err := Extract("```{\"question\":\"q\",\"answer\":\"a\"}```", models.FormatJSON)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("Extract() failed with reason %q", res.Reason)
	}
	want := map[string]any{"question": "q", "answer": "a"}
	if !reflect.DeepEqual(res.Record.JSON, want) {
		t.Errorf("Extract() JSON = %v, want %v", res.Record.JSON, want)
	}
}

func TestExtractCSVRoundTrip(t *testing.T) {
	res, err := Extract("```question,answer\nq1,a1```", models.FormatCSV)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("Extract() failed with reason %q", res.Reason)
	}
	want := []map[string]string{{"question": "q1", "answer": "a1"}}
	if !reflect.DeepEqual(res.Record.Rows, want) {
		t.Errorf("Extract() Rows = %v, want %v", res.Record.Rows, want)
	}
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name     string
		response string
		format   models.Format
		reason   FailureReason
	}{
		{
			name:     "no fenced block",
			response: "no backticks here",
			format:   models.FormatJSON,
			reason:   NoFencedBlock,
		},
		{
			name:     "malformed json",
			response: "```not valid json```",
			format:   models.FormatJSON,
			reason:   MalformedJSON,
		},
		{
			name:     "empty fenced block as csv",
			response: "``` ```",
			format:   models.FormatCSV,
			reason:   MalformedCSV,
		},
		{
			name:     "bare quote in csv",
			response: "```question,answer\n\"q1,a1```",
			format:   models.FormatCSV,
			reason:   MalformedCSV,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract(tt.response, tt.format)
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if res.OK() {
				t.Fatalf("Extract() = %+v, want failure", res.Record)
			}
			if res.Reason != tt.reason {
				t.Errorf("Extract() reason = %q, want %q", res.Reason, tt.reason)
			}
		})
	}
}

func TestExtractFirstBlockWins(t *testing.T) {
	response := "prose ```[1,2]``` more prose ```[3,4]```"
	res, err := Extract(response, models.FormatJSON)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	want := []any{float64(1), float64(2)}
	if !reflect.DeepEqual(res.Record.JSON, want) {
		t.Errorf("Extract() JSON = %v, want first block %v", res.Record.JSON, want)
	}
}

func TestExtractLanguageTaggedFence(t *testing.T) {
	res, err := Extract("```json\n{\"question\":\"q\",\"answer\":\"a\"}\n```", models.FormatJSON)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("Extract() failed with reason %q", res.Reason)
	}
}

func TestExtractCSVBestEffortRows(t *testing.T) {
	response := "```question,answer\nq1,a1,surplus\nq2\n\nq3,a3```"
	res, err := Extract(response, models.FormatCSV)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("Extract() failed with reason %q", res.Reason)
	}
	want := []map[string]string{
		{"question": "q1", "answer": "a1"}, // surplus cell dropped
		{"question": "q2"},                 // missing cell absent
		{"question": "q3", "answer": "a3"}, // blank line skipped
	}
	if !reflect.DeepEqual(res.Record.Rows, want) {
		t.Errorf("Extract() Rows = %v, want %v", res.Record.Rows, want)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := Extract("```{}```", models.Format("xml"))
	if !errors.Is(err, models.ErrUnsupportedFormat) {
		t.Fatalf("Extract(xml) error = %v, want ErrUnsupportedFormat", err)
	}
}
