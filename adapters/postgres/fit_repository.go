// Package postgres persists diversity reports. Curves and model summaries
// are stored as JSONB next to the scalar columns used for listing.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"godiv/app"
	"godiv/domain/core"
	"godiv/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Schema creates the single table this adapter owns.
const Schema = `
CREATE TABLE IF NOT EXISTS diversity_reports (
	id          TEXT PRIMARY KEY,
	label       TEXT NOT NULL DEFAULT '',
	abundance   INTEGER NOT NULL,
	richness    INTEGER NOT NULL,
	coverage    DOUBLE PRECISION NOT NULL,
	gini        DOUBLE PRECISION NOT NULL,
	saturation  DOUBLE PRECISION NOT NULL,
	payload     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// FitRepository implements ports.FitStore for PostgreSQL.
type FitRepository struct {
	db *sqlx.DB
}

// NewFitRepository creates a repository and ensures its schema exists.
func NewFitRepository(ctx context.Context, db *sqlx.DB) (ports.FitStore, error) {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return nil, fmt.Errorf("failed to ensure diversity_reports schema: %w", err)
	}
	return &FitRepository{db: db}, nil
}

// SaveReport upserts one report keyed by its fit ID.
func (r *FitRepository) SaveReport(ctx context.Context, report *app.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", report.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO diversity_reports (
			id, label, abundance, richness, coverage, gini, saturation, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			payload = EXCLUDED.payload,
			saturation = EXCLUDED.saturation`,
		report.ID.String(), report.Label, report.Abundance, report.Richness,
		report.Coverage, report.GiniSimpson, report.SDM.Saturation,
		payload, report.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport loads one report by fit ID.
func (r *FitRepository) GetReport(ctx context.Context, id core.FitID) (*app.Report, error) {
	var payload []byte
	err := r.db.QueryRowxContext(ctx,
		`SELECT payload FROM diversity_reports WHERE id = $1`, id.String(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	return decodeReport(payload)
}

// ListReports returns the most recent reports, newest first.
func (r *FitRepository) ListReports(ctx context.Context, limit int) ([]*app.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryxContext(ctx,
		`SELECT payload FROM diversity_reports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []*app.Report
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		report, err := decodeReport(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

func decodeReport(payload []byte) (*app.Report, error) {
	var report app.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report: %w", err)
	}
	return &report, nil
}

// Connect opens and pings a PostgreSQL connection with sane pool limits.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
