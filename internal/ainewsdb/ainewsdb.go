// Package ainewsdb persists scraped articles and their classification in a
// single SQLite table keyed by URL.
package ainewsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"ainews/internal/news"
)

const table = "articles"

var columns = []string{
	"url", "title", "published_on", "summary", "source",
	"ai_related", "selected_for_export", "added_at", "classified_at",
}

func Open(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// Store reads and writes articles. It is not safe for use by concurrent runs
// against the same file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// OpenStore opens the database at path and makes sure the schema exists.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertNew inserts the articles whose URL is not stored yet, each with the
// unclassified label, and returns how many rows were added. Rows are written
// one by one: when a row fails the rows before it stay, so calling again with
// the same input is safe.
func (s *Store) InsertNew(ctx context.Context, articles []news.Article) (int, error) {
	inserted := 0
	for _, a := range articles {
		if strings.TrimSpace(a.URL) == "" {
			return inserted, errors.New("missing article url")
		}
		query, args, err := sq.Insert(table).
			Columns("url", "title", "published_on", "summary", "source", "ai_related").
			Values(a.URL, a.Title, dateValue(a.PublishedOn), nullIfEmpty(a.Summary), a.Source, string(news.Unclassified)).
			Suffix("ON CONFLICT(url) DO NOTHING").
			ToSql()
		if err != nil {
			return inserted, err
		}
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, &StorageError{Op: "insert", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, &StorageError{Op: "insert", Err: err}
		}
		inserted += int(n)
	}
	return inserted, nil
}

// SelectUnclassified returns every article still waiting for a label, in
// insertion order.
func (s *Store) SelectUnclassified(ctx context.Context) ([]news.Article, error) {
	return s.query(ctx, "select unclassified",
		sq.Select(columns...).From(table).
			Where(sq.Eq{"ai_related": string(news.Unclassified)}).
			OrderBy("rowid"))
}

// UpdateLabel records the classifier verdict for url. Calling it again for
// the same url overwrites the previous verdict.
func (s *Store) UpdateLabel(ctx context.Context, url string, relevant bool) error {
	return s.update(ctx, "update label", url,
		sq.Update(table).
			Set("ai_related", string(news.LabelFor(relevant))).
			Set("classified_at", s.now().UTC()))
}

// SelectByDate returns the articles published on date carrying label.
func (s *Store) SelectByDate(ctx context.Context, date news.Date, label news.Label) ([]news.Article, error) {
	if !date.Known() {
		return nil, nil
	}
	return s.query(ctx, "select by date",
		sq.Select(columns...).From(table).
			Where(sq.Eq{"published_on": date.String(), "ai_related": string(label)}).
			OrderBy("rowid"))
}

// SelectByURLs returns the stored rows among urls, in insertion order.
// Unknown URLs are ignored.
func (s *Store) SelectByURLs(ctx context.Context, urls []string) ([]news.Article, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	return s.query(ctx, "select by urls",
		sq.Select(columns...).From(table).
			Where(sq.Eq{"url": urls}).
			OrderBy("rowid"))
}

// SetSelected marks or unmarks url for export.
func (s *Store) SetSelected(ctx context.Context, url string, selected bool) error {
	return s.update(ctx, "set selected", url,
		sq.Update(table).Set("selected_for_export", selected))
}

// SelectSelected returns the articles marked for export. An unknown date
// returns the selection across all days.
func (s *Store) SelectSelected(ctx context.Context, date news.Date) ([]news.Article, error) {
	where := sq.Eq{"selected_for_export": true}
	if date.Known() {
		where["published_on"] = date.String()
	}
	return s.query(ctx, "select selected",
		sq.Select(columns...).From(table).Where(where).OrderBy("rowid"))
}

// Get returns the article stored under url, or nil when there is none.
func (s *Store) Get(ctx context.Context, url string) (*news.Article, error) {
	query, args, err := sq.Select(columns...).From(table).Where(sq.Eq{"url": url}).ToSql()
	if err != nil {
		return nil, err
	}
	a, err := scanArticle(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &a, nil
}

// CountByLabel returns how many stored articles carry each label.
func (s *Store) CountByLabel(ctx context.Context) (map[news.Label]int, error) {
	query, args, err := sq.Select("ai_related", "COUNT(*)").From(table).GroupBy("ai_related").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "count", Err: err}
	}
	defer rows.Close()
	counts := map[news.Label]int{}
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, &StorageError{Op: "count", Err: err}
		}
		counts[news.Label(label)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "count", Err: err}
	}
	return counts, nil
}

func (s *Store) query(ctx context.Context, op string, b sq.SelectBuilder) ([]news.Article, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer rows.Close()
	var out []news.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, &StorageError{Op: op, Err: err}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	return out, nil
}

func (s *Store) update(ctx context.Context, op, url string, b sq.UpdateBuilder) error {
	query, args, err := b.Where(sq.Eq{"url": url}).ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, url, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (news.Article, error) {
	var (
		a            news.Article
		published    sql.NullString
		summary      sql.NullString
		label        string
		addedAt      sql.NullTime
		classifiedAt sql.NullTime
	)
	if err := row.Scan(&a.URL, &a.Title, &published, &summary, &a.Source, &label, &a.Selected, &addedAt, &classifiedAt); err != nil {
		return news.Article{}, err
	}
	if published.Valid {
		// Rows written by this package always hold YYYY-MM-DD; anything else reads as unknown.
		a.PublishedOn, _ = news.ParseDate(published.String)
	}
	a.Summary = summary.String
	a.Label = news.Label(label)
	a.AddedAt = addedAt.Time
	a.ClassifiedAt = classifiedAt.Time
	return a, nil
}

func dateValue(d news.Date) any {
	if !d.Known() {
		return nil
	}
	return d.String()
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
