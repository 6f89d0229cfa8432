package generator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"qa-datagen/internal/extract"
	"qa-datagen/internal/llmservice"
	"qa-datagen/internal/models"
	"qa-datagen/internal/prompt"
)

// Generator samples chunks at a fixed stride and turns each sampled chunk
// into one extracted record by prompting the model.
type Generator struct {
	invoker     llmservice.Invoker
	format      models.Format
	stride      int
	startOffset int
}

// New validates the format and sampling parameters eagerly, before any model
// call is possible.
func New(invoker llmservice.Invoker, format string, stride, startOffset int) (*Generator, error) {
	f, err := models.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if stride <= 0 {
		return nil, fmt.Errorf("stride must be positive, got %d", stride)
	}
	if startOffset < 0 {
		return nil, fmt.Errorf("start offset must not be negative, got %d", startOffset)
	}
	return &Generator{
		invoker:     invoker,
		format:      f,
		stride:      stride,
		startOffset: startOffset,
	}, nil
}

// Run processes chunks at indices startOffset, startOffset+stride, ... in
// increasing order, one model call at a time. Each slot of the result set
// holds the extracted record for its chunk, or nil when extraction failed.
// A model invocation error aborts the whole batch and is returned; there is
// no per-chunk recovery for transport failures.
func (g *Generator) Run(ctx context.Context, chunks []models.Chunk) (models.ResultSet, error) {
	results := models.ResultSet{}
	for i := g.startOffset; i < len(chunks); i += g.stride {
		p, err := prompt.Build(chunks[i].Content, g.format)
		if err != nil {
			return nil, err
		}

		response, err := g.invoker.Invoke(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("invoking model for chunk %d: %w", i, err)
		}

		res, err := extract.Extract(response, g.format)
		if err != nil {
			return nil, err
		}
		if !res.OK() {
			log.Warn().Int("chunk_index", i).Str("reason", string(res.Reason)).Msg("Extraction failed, recording empty slot")
		}
		results = append(results, res.Record)
	}

	log.Info().Int("sampled", len(results)).Int("total_chunks", len(chunks)).Str("format", string(g.format)).Msg("Batch complete")
	return results, nil
}
