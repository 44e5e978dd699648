package ainewsdb

import (
	"context"
	"database/sql"
)

// InitSchema ensures the DB has the articles table and its indexes.
func InitSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS articles (
            url TEXT PRIMARY KEY,
            title TEXT NOT NULL DEFAULT '',
            published_on TEXT,
            summary TEXT,
            source TEXT NOT NULL DEFAULT '',
            ai_related TEXT NOT NULL DEFAULT 'unclassified'
                CHECK (ai_related IN ('unclassified', 'relevant', 'not_relevant')),
            selected_for_export INTEGER NOT NULL DEFAULT 0,
            added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            classified_at TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published_label ON articles(published_on, ai_related)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_label ON articles(ai_related)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return &StorageError{Op: "init schema", Err: err}
		}
	}
	return nil
}
