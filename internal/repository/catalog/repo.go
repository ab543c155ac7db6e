// Package catalog is the sqlite-backed store of named planetary surface features.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

// Repo implements the catalog retrieval contracts of the search, locate and
// health usecases over database/sql.
type Repo struct {
	db *sql.DB
}

// New creates a catalog repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Search returns features matching every filter present in f, bounded by the
// candidate cap. No match is an empty slice, not an error.
func (r *Repo) Search(ctx context.Context, f domain.CatalogFilter) ([]domain.Feature, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if f.Body != "" {
		where = append(where, "LOWER(body) = LOWER(?)")
		args = append(args, f.Body)
	}
	if f.Category != "" {
		where = append(where, "LOWER(category) LIKE '%' || LOWER(?) || '%'")
		args = append(args, f.Category)
	}
	switch f.Size {
	case intent.SizeLarge:
		where = append(where, "diameter > ?")
		args = append(args, domain.LargeFeatureMinDiameterKM)
	case intent.SizeSmall:
		where = append(where, "diameter < ?")
		args = append(args, domain.SmallFeatureMaxDiameterKM)
	}
	if f.OriginOnly {
		where = append(where, "origin IS NOT NULL AND origin != ''")
	}

	limit := f.Limit
	if limit <= 0 || limit > domain.MaxCatalogCandidates {
		limit = domain.MaxCatalogCandidates
	}

	query := "SELECT " + featureColumns + " FROM planetary_features"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search features: %w", err)
	}
	defer rows.Close()

	return collectFeatures(rows)
}

// Match returns features whose name or category contains term, optionally
// narrowed to one body. Scoring happens in the caller; this only retrieves
// the candidate set.
func (r *Repo) Match(ctx context.Context, term, body string, limit int) ([]domain.Feature, error) {
	if limit <= 0 || limit > domain.MaxCatalogCandidates {
		limit = domain.MaxCatalogCandidates
	}

	query := "SELECT " + featureColumns + " FROM planetary_features" +
		" WHERE (LOWER(name) LIKE '%' || LOWER(?) || '%' OR LOWER(category) LIKE '%' || LOWER(?) || '%')"
	args := []any{term, term}
	if body != "" {
		query += " AND LOWER(body) = LOWER(?)"
		args = append(args, body)
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("match features %q: %w", term, err)
	}
	defer rows.Close()

	return collectFeatures(rows)
}

// GetByID returns a single feature or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Feature, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+featureColumns+" FROM planetary_features WHERE id = ?", id)

	f, err := scanFeature(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get feature %d: %w", id, err)
	}
	return &f, nil
}

// Autocomplete returns up to limit distinct feature names with the given
// prefix, optionally narrowed to one body.
func (r *Repo) Autocomplete(ctx context.Context, prefix, body string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	query := "SELECT DISTINCT name FROM planetary_features WHERE LOWER(name) LIKE LOWER(?) || '%'"
	args := []any{prefix}
	if body != "" {
		query += " AND LOWER(body) = LOWER(?)"
		args = append(args, body)
	}
	query += " ORDER BY name LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("autocomplete %q: %w", prefix, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("autocomplete rows: %w", err)
	}
	return names, nil
}

// ListByBody returns every feature on a body. The caller computes distances;
// the static catalog is small enough to scan.
func (r *Repo) ListByBody(ctx context.Context, body string) ([]domain.Feature, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+featureColumns+" FROM planetary_features WHERE LOWER(body) = LOWER(?)", body)
	if err != nil {
		return nil, fmt.Errorf("list features on %s: %w", body, err)
	}
	defer rows.Close()

	return collectFeatures(rows)
}

// Count returns the number of catalog records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM planetary_features").Scan(&n); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return n, nil
}

// Ping checks the catalog is reachable.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping catalog: %w", err)
	}
	return nil
}

// BulkUpsert inserts or replaces features in one transaction and returns the
// number written. Records with ID 0 get a fresh id.
func (r *Repo) BulkUpsert(ctx context.Context, features []domain.Feature) (int, error) {
	if len(features) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for i := range features {
		if _, err := stmt.ExecContext(ctx, featureArgs(&features[i])...); err != nil {
			return written, fmt.Errorf("upsert feature %q: %w", features[i].Name, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("commit upsert: %w", err)
	}
	return written, nil
}
