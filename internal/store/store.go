package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"qa-datagen/internal/config"
	"qa-datagen/internal/models"
)

// QAPair is one generated question-answer row.
type QAPair struct {
	bun.BaseModel `bun:"table:qa_pairs,alias:q"`
	ID            int64     `bun:"id,pk,autoincrement"`
	RunID         string    `bun:"run_id,notnull"`
	SourceFile    string    `bun:"source_file"`
	PairIndex     int       `bun:"pair_index"`
	Question      string    `bun:"question,notnull"`
	Answer        string    `bun:"answer,notnull"`
	Format        string    `bun:"format,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Connect opens the configured Postgres database. With a key the managed
// pgdriver connector is used (Supabase style); without one it falls back to
// the plain lib/pq driver.
func Connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	if cfg.Key == "" {
		return sql.Open("postgres", dsn)
	}
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Key))), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func Init(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*QAPair)(nil)).IfNotExists().Exec(ctx)
	return err
}

// StorePairs inserts flattened pairs for one run in a single batch.
func StorePairs(ctx context.Context, db *bun.DB, runID, sourceFile, format string, pairs []models.Pair) error {
	if len(pairs) == 0 {
		return nil
	}
	rows := make([]QAPair, len(pairs))
	for i, p := range pairs {
		rows[i] = QAPair{
			RunID:      runID,
			SourceFile: sourceFile,
			PairIndex:  i,
			Question:   p.Question,
			Answer:     p.Answer,
			Format:     format,
		}
	}
	_, err := db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

func ListByRun(ctx context.Context, db *bun.DB, runID string) ([]QAPair, error) {
	var rows []QAPair
	err := db.NewSelect().
		Model(&rows).
		Where("run_id = ?", runID).
		Order("id ASC").
		Scan(ctx)
	return rows, err
}

func DropPairs(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().Model((*QAPair)(nil)).IfExists().Exec(ctx)
	return err
}
