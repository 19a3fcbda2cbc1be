package repository

import (
	"context"
	"database/sql"
	"fmt"

	"postmatch-dashboard/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// InjuryRepository is the read side of the medical table.
type InjuryRepository struct {
	db *sql.DB
}

func NewInjuryRepository(sqlDB *sql.DB) *InjuryRepository {
	return &InjuryRepository{db: sqlDB}
}

func (r *InjuryRepository) InsertBatch(ctx context.Context, records []domain.InjuryRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM injuries`); err != nil {
		return fmt.Errorf("failed to clear injuries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO injuries
		(id, player, injury_type, body_zone, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare injury insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}
		_, err := stmt.ExecContext(ctx, id, rec.Player, rec.Type, rec.BodyZone, rec.Start, rec.End)
		if err != nil {
			return fmt.Errorf("failed to insert injury for %q: %w", rec.Player, err)
		}
	}

	return tx.Commit()
}

// List returns injury rows in load order, optionally filtered by player
// and/or injury type. Empty strings mean no filter.
func (r *InjuryRepository) List(ctx context.Context, player, injuryType string) ([]domain.InjuryRecord, error) {
	query := `SELECT id, player, injury_type, body_zone, start_date, end_date
		FROM injuries WHERE 1=1`
	var args []any
	if player != "" {
		query += ` AND player = ?`
		args = append(args, player)
	}
	if injuryType != "" {
		query += ` AND injury_type = ?`
		args = append(args, injuryType)
	}
	query += ` ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query injuries: %w", err)
	}
	defer rows.Close()

	var results []domain.InjuryRecord
	for rows.Next() {
		var rec domain.InjuryRecord
		if err := rows.Scan(&rec.ID, &rec.Player, &rec.Type, &rec.BodyZone, &rec.Start, &rec.End); err != nil {
			return nil, fmt.Errorf("failed to scan injury row: %w", err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

func (r *InjuryRepository) Players(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "player")
}

func (r *InjuryRepository) Types(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "injury_type")
}

func (r *InjuryRepository) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT DISTINCT %s FROM injuries ORDER BY %s`, column, column))
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
