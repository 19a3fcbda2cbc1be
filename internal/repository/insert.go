package repository

import (
	"context"
	"fmt"

	"postmatch-dashboard/internal/domain"
)

// Insert methods are only called by the ingest loader at startup (and by
// test fixtures). After ingest the tables are read-only.

func (r *MatchStatsRepository) InsertMatches(ctx context.Context, records []domain.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matches (label, home, away, date, round) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range records {
		if _, err := stmt.ExecContext(ctx, m.Label, m.Home, m.Away, m.Date, m.Round); err != nil {
			return fmt.Errorf("failed to insert match %q: %w", m.Label, err)
		}
	}

	return tx.Commit()
}

func (r *MatchStatsRepository) InsertTeamStats(ctx context.Context, records []domain.TeamMatchStats, columns []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_match_stats`); err != nil {
		return fmt.Errorf("failed to clear team stats: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM stat_columns`); err != nil {
		return fmt.Errorf("failed to clear stat columns: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO team_match_stats
		(match_label, team, date, goals, xg, possession, field_tilt,
		 passes_opp_half, ppda, high_recoveries, crosses, corners, fouls,
		 shots, on_ball_pressure, off_ball_pressure, xa, assists)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare stats insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range records {
		var xa, assists any
		if s.XA != nil {
			xa = *s.XA
		}
		if s.Assists != nil {
			assists = *s.Assists
		}
		_, err := stmt.ExecContext(ctx,
			s.Match, s.Team, s.Date, s.Goals, s.XG, s.Possession, s.FieldTilt,
			s.PassesOppHalf, s.PPDA, s.HighRecoveries, s.Crosses, s.Corners,
			s.Fouls, s.Shots, s.OnBallPressure, s.OffBallPressure, xa, assists)
		if err != nil {
			return fmt.Errorf("failed to insert stats %q / %q: %w", s.Match, s.Team, err)
		}
	}

	colStmt, err := tx.PrepareContext(ctx, `INSERT INTO stat_columns (name) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare column insert: %w", err)
	}
	defer colStmt.Close()

	for _, name := range columns {
		if _, err := colStmt.ExecContext(ctx, name); err != nil {
			return fmt.Errorf("failed to insert stat column %q: %w", name, err)
		}
	}

	return tx.Commit()
}
