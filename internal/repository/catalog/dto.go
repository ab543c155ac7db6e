package catalog

import (
	"database/sql"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// featureColumns is the canonical select list; scanFeature must match it.
const featureColumns = "id, name, body, category, latitude, longitude, diameter, origin, approval_date, description, embedding"

const upsertSQL = `
INSERT INTO planetary_features
	(id, name, body, category, latitude, longitude, diameter, origin, approval_date, description, embedding)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name          = excluded.name,
	body          = excluded.body,
	category      = excluded.category,
	latitude      = excluded.latitude,
	longitude     = excluded.longitude,
	diameter      = excluded.diameter,
	origin        = excluded.origin,
	approval_date = excluded.approval_date,
	description   = excluded.description,
	embedding     = excluded.embedding`

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFeature(s scanner) (domain.Feature, error) {
	var (
		f         domain.Feature
		diameter  sql.NullFloat64
		origin    sql.NullString
		approval  sql.NullString
		desc      sql.NullString
		embedding []byte
	)
	err := s.Scan(
		&f.ID, &f.Name, &f.Body, &f.Category,
		&f.Latitude, &f.Longitude,
		&diameter, &origin, &approval, &desc, &embedding,
	)
	if err != nil {
		return domain.Feature{}, err
	}

	f.DiameterKM = diameter.Float64
	f.Origin = origin.String
	f.ApprovalDate = approval.String
	f.Description = desc.String
	if len(embedding) > 0 {
		// A corrupt blob degrades to keyword scoring for this record.
		if vec, err := domain.DecodeVector(embedding); err == nil {
			f.Embedding = vec
		}
	}
	return f, nil
}

func collectFeatures(rows *sql.Rows) ([]domain.Feature, error) {
	var out []domain.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func featureArgs(f *domain.Feature) []any {
	var id any
	if f.ID > 0 {
		id = f.ID
	}
	return []any{
		id, f.Name, f.Body, f.Category,
		f.Latitude, f.Longitude,
		nullFloat(f.DiameterKM), nullString(f.Origin),
		nullString(f.ApprovalDate), nullString(f.Description),
		nullBytes(domain.EncodeVector(f.Embedding)),
	}
}

func nullFloat(v float64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
