package prompt

import (
	"fmt"

	"qa-datagen/internal/models"
)

// Build interpolates the chunk verbatim into the fixed instruction template
// for the given format. The chunk is not escaped or sanitized: if it contains
// template-breaking sequences they pass through unmodified.
func Build(chunk string, format models.Format) (string, error) {
	switch format {
	case models.FormatJSON:
		return fmt.Sprintf(models.JSONPromptTemplate, chunk), nil
	case models.FormatCSV:
		return fmt.Sprintf(models.CSVPromptTemplate, chunk), nil
	default:
		return "", fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, string(format))
	}
}
