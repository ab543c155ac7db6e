// Package history records searches and serves recent/trending queries.
package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// Repo implements the history contracts of the history usecase.
type Repo struct {
	db *sql.DB
}

// New creates a history repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Record appends one search to the history.
func (r *Repo) Record(ctx context.Context, e domain.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_history (session_id, query, search_type, target_body, category, results_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Query, e.SearchType,
		nullString(e.TargetBody), nullString(e.Category), e.ResultsCount,
	)
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// Recent returns a session's searches, newest first.
func (r *Repo) Recent(ctx context.Context, sessionID string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, query, search_type, target_body, category, results_count, created_at
		FROM search_history
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var (
			e              domain.HistoryEntry
			body, category sql.NullString
		)
		err := rows.Scan(&e.ID, &e.SessionID, &e.Query, &e.SearchType, &body, &category, &e.ResultsCount, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.TargetBody = body.String
		e.Category = category.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent rows: %w", err)
	}
	return out, nil
}

// Trending returns the most frequent queries over the trailing window,
// grouped case-insensitively.
func (r *Repo) Trending(ctx context.Context, days, limit int) ([]domain.TrendingQuery, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT LOWER(query) AS q, COUNT(*) AS n
		FROM search_history
		WHERE created_at >= datetime('now', '-' || ? || ' days')
		GROUP BY q
		ORDER BY n DESC, q
		LIMIT ?`, days, limit)
	if err != nil {
		return nil, fmt.Errorf("trending searches: %w", err)
	}
	defer rows.Close()

	var out []domain.TrendingQuery
	for rows.Next() {
		var tq domain.TrendingQuery
		if err := rows.Scan(&tq.Query, &tq.Count); err != nil {
			return nil, fmt.Errorf("scan trending entry: %w", err)
		}
		out = append(out, tq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trending rows: %w", err)
	}
	return out, nil
}

// Prune deletes entries older than the retention window and returns how many
// were removed.
func (r *Repo) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM search_history WHERE created_at < datetime('now', '-' || ? || ' days')`,
		retentionDays)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return n, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
