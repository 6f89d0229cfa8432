package chromemdb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"qa-datagen/internal/models"
)

// Embedder is the capability needed to vectorize pairs and queries.
// *embeddings.EmbedderImpl from langchaingo satisfies it.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Manager wraps a chromem-go collection holding generated question-answer
// pairs so earlier runs can be searched semantically.
type Manager struct {
	db         *chromem.DB
	collection *chromem.Collection
	filePath   string
	compress   bool
}

const compress = false

func NewManager(dbPath, collectionName string, inMemory bool) (*Manager, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	c, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	return &Manager{
		db:         db,
		collection: c,
		filePath:   dbPath + "/" + collectionName + ".chromem",
		compress:   compress,
	}, nil
}

// AddPairs embeds and stores the pairs of one run. Document IDs are
// run-scoped so re-indexing a run overwrites its previous entries.
func (m *Manager) AddPairs(ctx context.Context, runID string, pairs []models.Pair, embedder Embedder) error {
	if len(pairs) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(pairs))
	for i, p := range pairs {
		embedding, err := embedder.EmbedQuery(ctx, PairText(p))
		if err != nil {
			return fmt.Errorf("failed to embed pair %d: %v", i, err)
		}
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s-%d", runID, i),
			Content: PairText(p),
			Metadata: map[string]string{
				"run_id":   runID,
				"question": p.Question,
				"answer":   p.Answer,
			},
			Embedding: embedding,
		})
	}

	log.Info().Int("pairs", len(docs)).Str("run_id", runID).Msg("Adding pairs to dataset index")
	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

// Search returns the topK pairs most similar to the query text.
func (m *Manager) Search(ctx context.Context, query string, embedder Embedder, topK int) ([]chromem.Result, error) {
	if query == "" {
		return nil, fmt.Errorf("query must be provided")
	}
	if count := m.collection.Count(); topK > count {
		topK = count
	}
	if topK == 0 {
		return nil, nil
	}

	embedding, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %v", err)
	}

	results, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       topK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}
	return results, nil
}

// Export writes the collection to an encrypted file. Only useful for
// in-memory databases; persistent ones are already on disk.
func (m *Manager) Export(ctx context.Context, encryptionKey string) error {
	if encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	log.Debug().Str("file", m.filePath).Str("collection", m.collection.Name).Msg("Exporting dataset index")
	if err := m.db.ExportToFile(m.filePath, m.compress, encryptionKey, m.collection.Name); err != nil {
		return fmt.Errorf("failed to export database: %v", err)
	}
	return nil
}

func (m *Manager) DeleteCollection() error {
	if err := m.db.DeleteCollection(m.collection.Name); err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	return nil
}

// PairText is the canonical embedding text for a pair.
func PairText(p models.Pair) string {
	return "Q: " + p.Question + "\nA: " + p.Answer
}
