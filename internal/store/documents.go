package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Document names of the three persisted JSON blobs.
const (
	DocTodos    = "todos"
	DocTimecard = "timecard"
	DocProjects = "projects"
)

// historyLimit is how many previous revisions are kept per document.
const historyLimit = 20

var ErrNoHistory = errors.New("no previous revision")

// Revision is one saved version of a document.
type Revision struct {
	ID      int
	Name    string
	Body    string
	SavedAt time.Time
}

// LoadDocument returns the current body of name. ok is false when the
// document has never been saved.
func (db *DB) LoadDocument(ctx context.Context, name string) (body string, ok bool, err error) {
	err = db.QueryRowContext(ctx, "SELECT body FROM documents WHERE name = ?", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading %s: %w", name, err)
	}
	return body, true, nil
}

// SaveDocument replaces the body of name and records the revision, all in
// one transaction.
func (db *DB) SaveDocument(ctx context.Context, name, body string) error {
	return db.withinTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
			name, body, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("saving %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_history (name, body, saved_at) VALUES (?, ?, ?)",
			name, body, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("recording %s history: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM document_history WHERE name = ? AND id NOT IN (
				SELECT id FROM document_history WHERE name = ? ORDER BY id DESC LIMIT ?
			)`,
			name, name, historyLimit,
		); err != nil {
			return fmt.Errorf("pruning %s history: %w", name, err)
		}
		db.logger.Debug("document saved", "name", name, "bytes", len(body))
		return nil
	})
}

// History returns the saved revisions of name, newest first.
func (db *DB) History(ctx context.Context, name string) ([]Revision, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, body, saved_at FROM document_history WHERE name = ? ORDER BY id DESC",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		var savedStr string
		if err := rows.Scan(&r.ID, &r.Name, &r.Body, &savedStr); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, savedStr); err == nil {
			r.SavedAt = t
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// RestorePrevious rolls name back to the revision before the current one
// and drops the current revision from history.
func (db *DB) RestorePrevious(ctx context.Context, name string) error {
	revs, err := db.History(ctx, name)
	if err != nil {
		return err
	}
	if len(revs) < 2 {
		return fmt.Errorf("%s: %w", name, ErrNoHistory)
	}
	current, previous := revs[0], revs[1]

	return db.withinTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET body = ?, updated_at = ? WHERE name = ?",
			previous.Body, time.Now().UTC().Format(time.RFC3339), name,
		); err != nil {
			return fmt.Errorf("restoring %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM document_history WHERE id = ?", current.ID); err != nil {
			return fmt.Errorf("dropping %s revision: %w", name, err)
		}
		db.logger.Info("document restored", "name", name, "revision", previous.ID)
		return nil
	})
}

func (db *DB) withinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
