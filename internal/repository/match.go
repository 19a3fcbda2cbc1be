package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"postmatch-dashboard/internal/domain"

	"github.com/rs/zerolog"
)

// MatchStatsRepository is the read-only view over the schedule and season
// statistics tables. All rows are inserted once at startup by the ingest
// loader; everything here is a plain query.
type MatchStatsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchStatsRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchStatsRepository {
	return &MatchStatsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const statsColumns = `match_label, team, date, goals, xg, possession, field_tilt,
	passes_opp_half, ppda, high_recoveries, crosses, corners, fouls, shots,
	on_ball_pressure, off_ball_pressure, xa, assists`

func (r *MatchStatsRepository) FindMatch(ctx context.Context, label string) (*domain.MatchRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT label, home, away, date, round FROM matches WHERE label = ?`, label)

	var m domain.MatchRecord
	if err := row.Scan(&m.Label, &m.Home, &m.Away, &m.Date, &m.Round); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("match %q: %w", label, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query match %q: %w", label, err)
	}
	return &m, nil
}

func (r *MatchStatsRepository) StatsFor(ctx context.Context, label, team string) (*domain.TeamMatchStats, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+statsColumns+` FROM team_match_stats WHERE match_label = ? AND team = ?`,
		label, team)

	s, err := scanStats(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stats for %q / %q: %w", label, team, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query stats for %q / %q: %w", label, team, err)
	}
	return s, nil
}

// AllOnDate returns every team row for the given matchday date in source
// file order. Callers that rank rely on that order for stable ties.
func (r *MatchStatsRepository) AllOnDate(ctx context.Context, date string) ([]domain.TeamMatchStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+statsColumns+` FROM team_match_stats WHERE date = ? ORDER BY rowid`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats on %q: %w", date, err)
	}
	defer rows.Close()

	var results []domain.TeamMatchStats
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		results = append(results, *s)
	}
	return results, rows.Err()
}

// ListMatches returns fixtures in schedule order, optionally filtered by a
// team (either side) and/or a round. Empty team and zero round mean no filter.
func (r *MatchStatsRepository) ListMatches(ctx context.Context, team string, round int) ([]domain.MatchRecord, error) {
	query := `SELECT label, home, away, date, round FROM matches WHERE 1=1`
	var args []any
	if team != "" {
		query += ` AND (home = ? OR away = ?)`
		args = append(args, team, team)
	}
	if round != 0 {
		query += ` AND round = ?`
		args = append(args, round)
	}
	query += ` ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var results []domain.MatchRecord
	for rows.Next() {
		var m domain.MatchRecord
		if err := rows.Scan(&m.Label, &m.Home, &m.Away, &m.Date, &m.Round); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (r *MatchStatsRepository) Teams(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT home FROM matches UNION SELECT away FROM matches ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *MatchStatsRepository) Rounds(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT round FROM matches ORDER BY round`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []int
	for rows.Next() {
		var round int
		if err := rows.Scan(&round); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// StatColumns reports which season-table columns were present in the loaded
// file. The metric catalog drops ranking metrics whose column is missing.
func (r *MatchStatsRepository) StatColumns(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM stat_columns`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stat columns: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan stat column: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanStats(row scannable) (*domain.TeamMatchStats, error) {
	var s domain.TeamMatchStats
	var xa, assists sql.NullFloat64
	err := row.Scan(
		&s.Match, &s.Team, &s.Date, &s.Goals, &s.XG, &s.Possession, &s.FieldTilt,
		&s.PassesOppHalf, &s.PPDA, &s.HighRecoveries, &s.Crosses, &s.Corners,
		&s.Fouls, &s.Shots, &s.OnBallPressure, &s.OffBallPressure, &xa, &assists,
	)
	if err != nil {
		return nil, err
	}
	if xa.Valid {
		s.XA = &xa.Float64
	}
	if assists.Valid {
		s.Assists = &assists.Float64
	}
	return &s, nil
}
