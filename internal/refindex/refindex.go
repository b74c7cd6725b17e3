// Package refindex stores Bible reference occurrences found in scanned
// documents in a SQLite database, so that a corpus can be searched by
// book and chapter after a single scanning pass.
//
// The index groups work into runs. A run records the style and
// versification the scan used; each source file indexed under a run is
// stored with a BLAKE3 hash of its content, so re-indexing an unchanged
// file can be skipped.
package refindex

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/versiref/core/ref"
	"github.com/FocuswithJustin/versiref/core/refparse"
	"github.com/FocuswithJustin/versiref/internal/logging"
	"github.com/FocuswithJustin/versiref/internal/sqlite"
)

// ErrUnknownRun is returned when a run ID does not exist in the index.
var ErrUnknownRun = errors.New("unknown run ID")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	created_at    TEXT NOT NULL,
	style         TEXT NOT NULL,
	versification TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sources (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	name       TEXT NOT NULL,
	blake3     TEXT NOT NULL,
	indexed_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS occurrences (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id      INTEGER NOT NULL REFERENCES sources(id),
	book_id        TEXT NOT NULL,
	start_chapter  INTEGER NOT NULL,
	start_verse    INTEGER NOT NULL,
	start_subverse TEXT NOT NULL,
	end_chapter    INTEGER NOT NULL,
	end_verse      INTEGER NOT NULL,
	end_subverse   TEXT NOT NULL,
	original_text  TEXT NOT NULL,
	start_offset   INTEGER NOT NULL,
	end_offset     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_occurrences_book
	ON occurrences(book_id, start_chapter);
CREATE INDEX IF NOT EXISTS idx_sources_run ON sources(run_id);
`

// Index is an occurrence index backed by a SQLite database.
type Index struct {
	db *sql.DB
}

// Open opens (creating if needed) an occurrence index at path.
func Open(path string) (*Index, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Run identifies one indexing pass over a corpus.
type Run struct {
	ID            string
	CreatedAt     time.Time
	Style         string
	Versification string
}

// BeginRun records a new indexing run and returns its ID.
func (ix *Index) BeginRun(ctx context.Context, styleName, versification string) (string, error) {
	id := uuid.New().String()
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, style, versification) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), styleName, versification)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// Runs lists all recorded runs, newest first.
func (ix *Index) Runs(ctx context.Context) ([]Run, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT id, created_at, style, versification FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Style, &r.Versification); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// HashContent returns the hex BLAKE3 hash used to fingerprint source
// content.
func HashContent(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IndexSource stores the references found in one source document under
// the given run. It returns the number of occurrences stored. If the
// same content was already indexed under this run, nothing is stored
// and the previous count is not re-counted; the return is 0.
func (ix *Index) IndexSource(ctx context.Context, runID, name string, content []byte, matches []refparse.Match) (int, error) {
	var exists int
	err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("checking run: %w", err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRun, runID)
	}

	hash := HashContent(content)
	var dup int
	err = ix.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sources WHERE run_id = ? AND blake3 = ?`, runID, hash).Scan(&dup)
	if err != nil {
		return 0, fmt.Errorf("checking source hash: %w", err)
	}
	if dup > 0 {
		logging.DebugContext(ctx, "source already indexed", "source", name, "blake3", hash)
		return 0, nil
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sources (run_id, name, blake3, indexed_at) VALUES (?, ?, ?, ?)`,
		runID, name, hash, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("recording source: %w", err)
	}
	sourceID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading source ID: %w", err)
	}

	stored := 0
	for _, m := range matches {
		for _, vr := range m.Ref.Ranges {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO occurrences
					(source_id, book_id,
					 start_chapter, start_verse, start_subverse,
					 end_chapter, end_verse, end_subverse,
					 original_text, start_offset, end_offset)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sourceID, m.Ref.BookID,
				vr.StartChapter, vr.StartVerse, vr.StartSubverse,
				vr.EndChapter, vr.EndVerse, vr.EndSubverse,
				m.Ref.OriginalText, m.Start, m.End)
			if err != nil {
				return 0, fmt.Errorf("recording occurrence: %w", err)
			}
			stored++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	logging.IndexEvent(ctx, name, stored, "blake3", hash)
	return stored, nil
}

// Occurrence is one stored reference occurrence.
type Occurrence struct {
	Source       string
	BookID       string
	Range        ref.VerseRange
	OriginalText string
	StartOffset  int
	EndOffset    int
}

// OccurrencesForBook returns every stored occurrence of the given book,
// ordered by chapter and verse.
func (ix *Index) OccurrencesForBook(ctx context.Context, bookID string) ([]Occurrence, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT s.name, o.book_id,
			o.start_chapter, o.start_verse, o.start_subverse,
			o.end_chapter, o.end_verse, o.end_subverse,
			o.original_text, o.start_offset, o.end_offset
		 FROM occurrences o JOIN sources s ON o.source_id = s.id
		 WHERE o.book_id = ?
		 ORDER BY o.start_chapter, o.start_verse, o.id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("querying occurrences: %w", err)
	}
	defer rows.Close()

	var out []Occurrence
	for rows.Next() {
		var o Occurrence
		if err := rows.Scan(&o.Source, &o.BookID,
			&o.Range.StartChapter, &o.Range.StartVerse, &o.Range.StartSubverse,
			&o.Range.EndChapter, &o.Range.EndVerse, &o.Range.EndSubverse,
			&o.OriginalText, &o.StartOffset, &o.EndOffset); err != nil {
			return nil, fmt.Errorf("scanning occurrence row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CountByBook returns the number of stored occurrences per book ID.
func (ix *Index) CountByBook(ctx context.Context) (map[string]int, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT book_id, COUNT(*) FROM occurrences GROUP BY book_id`)
	if err != nil {
		return nil, fmt.Errorf("counting occurrences: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var book string
		var n int
		if err := rows.Scan(&book, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		counts[book] = n
	}
	return counts, rows.Err()
}
