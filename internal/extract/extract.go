package extract

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"qa-datagen/internal/models"
)

// FailureReason classifies a non-fatal extraction failure.
type FailureReason string

const (
	NoFencedBlock FailureReason = "no_fenced_block"
	MalformedJSON FailureReason = "malformed_json"
	MalformedCSV  FailureReason = "malformed_csv"
)

// Result carries either the extracted record or the reason extraction failed.
type Result struct {
	Record *models.Record
	Reason FailureReason
}

func (r Result) OK() bool { return r.Record != nil }

// matches the first triple-backtick block, across newlines
var fenceRe = regexp.MustCompile("(?s)```(.*?)```")

// Extract locates the first fenced block in a model response and parses its
// content under the given format. Parsing failures are non-fatal: they are
// logged and returned as a typed reason. The error return is reserved for an
// unsupported format, which indicates a programming error upstream.
func Extract(response string, format models.Format) (Result, error) {
	switch format {
	case models.FormatJSON, models.FormatCSV:
	default:
		return Result{}, fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, string(format))
	}

	m := fenceRe.FindStringSubmatch(response)
	if m == nil {
		log.Warn().Str("reason", string(NoFencedBlock)).Msg("No fenced block found in model response")
		return Result{Reason: NoFencedBlock}, nil
	}
	body := strings.TrimSpace(stripLanguageTag(m[1]))

	if format == models.FormatJSON {
		var v any
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			log.Warn().Err(err).Str("reason", string(MalformedJSON)).Msg("Failed to parse JSON from fenced block")
			return Result{Reason: MalformedJSON}, nil
		}
		return Result{Record: &models.Record{JSON: v}}, nil
	}

	rows, err := parseCSV(body)
	if err != nil {
		log.Warn().Err(err).Str("reason", string(MalformedCSV)).Msg("Failed to parse CSV from fenced block")
		return Result{Reason: MalformedCSV}, nil
	}
	return Result{Record: &models.Record{Rows: rows}}, nil
}

// stripLanguageTag drops the language hint some models put on the opening
// fence (```json ... ```). The hint sits alone on the first line.
func stripLanguageTag(s string) string {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s
	}
	switch strings.ToLower(strings.TrimSpace(s[:i])) {
	case "json", "csv":
		return s[i+1:]
	}
	return s
}

// parseCSV reads the first line as column headers and zips each subsequent
// row positionally against them. Surplus cells are dropped and missing cells
// are left absent from the row map; only a reader error rejects the block.
func parseCSV(body string) ([]map[string]string, error) {
	r := csv.NewReader(strings.NewReader(body))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
