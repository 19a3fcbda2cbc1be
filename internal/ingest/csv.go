package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"postmatch-dashboard/internal/config"
	"postmatch-dashboard/internal/constants"
	"postmatch-dashboard/internal/domain"
	"postmatch-dashboard/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result is what the rest of the application needs to know about the load:
// which optional stat columns the season file actually carried. Providing it
// through the DI graph also guarantees the tables are populated before any
// component that depends on them is built.
type Result struct {
	StatColumns map[string]bool
}

// Load parses the three source CSV files concurrently and replaces the
// database tables with their contents. It runs once at startup; the tables
// are read-only afterwards.
func Load(cfg *config.Config, matchRepo *repository.MatchStatsRepository, injuryRepo *repository.InjuryRepository, logger zerolog.Logger) (*Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.IngestTimeout)
	defer cancel()

	var (
		schedule *table
		stats    *table
		injuries *table
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		schedule, err = readTable(cfg.ScheduleCSV)
		return err
	})
	g.Go(func() (err error) {
		stats, err = readTable(cfg.StatsCSV)
		return err
	})
	g.Go(func() (err error) {
		injuries, err = readTable(cfg.InjuriesCSV)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read source tables: %w", err)
	}

	matches, err := parseSchedule(schedule)
	if err != nil {
		return nil, err
	}
	teamStats, statCols, err := parseStats(stats, matches)
	if err != nil {
		return nil, err
	}
	injuryRecords, err := parseInjuries(injuries)
	if err != nil {
		return nil, err
	}

	if err := matchRepo.InsertMatches(ctx, matches); err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(statCols))
	for name := range statCols {
		cols = append(cols, name)
	}
	if err := matchRepo.InsertTeamStats(ctx, teamStats, cols); err != nil {
		return nil, err
	}
	if err := injuryRepo.InsertBatch(ctx, injuryRecords); err != nil {
		return nil, err
	}

	if len(teamStats) != 2*len(matches) {
		logger.Warn().
			Int("matches", len(matches)).
			Int("stat_rows", len(teamStats)).
			Msg("schedule and stats tables disagree on row counts")
	}

	logger.Info().
		Int("matches", len(matches)).
		Int("stat_rows", len(teamStats)).
		Int("injuries", len(injuryRecords)).
		Msg("source tables loaded")

	return &Result{StatColumns: statCols}, nil
}

func parseSchedule(t *table) ([]domain.MatchRecord, error) {
	for _, col := range []string{"Match", "Home", "Away", "Date", "Round"} {
		if !t.has(col) {
			return nil, fmt.Errorf("schedule table: missing column %q", col)
		}
	}

	records := make([]domain.MatchRecord, 0, len(t.rows))
	for i, row := range t.rows {
		round, err := strconv.Atoi(strings.TrimSpace(t.get(row, "Round")))
		if err != nil {
			return nil, fmt.Errorf("schedule row %d: bad round %q: %w", i+2, t.get(row, "Round"), err)
		}
		records = append(records, domain.MatchRecord{
			Label: t.get(row, "Match"),
			Home:  t.get(row, "Home"),
			Away:  t.get(row, "Away"),
			Date:  t.get(row, "Date"),
			Round: round,
		})
	}
	return records, nil
}

func parseStats(t *table, matches []domain.MatchRecord) ([]domain.TeamMatchStats, map[string]bool, error) {
	for _, col := range []string{"Match", "Team"} {
		if !t.has(col) {
			return nil, nil, fmt.Errorf("stats table: missing column %q", col)
		}
	}

	required := []string{
		domain.StatGoals, domain.StatXG, domain.StatPossession,
		domain.StatFieldTilt, domain.StatPassesOppHalf, domain.StatPPDA,
		domain.StatHighRecoveries, domain.StatCrosses, domain.StatCorners,
		domain.StatFouls, domain.StatShots, domain.StatOnBallPressure,
		domain.StatOffBallPressure,
	}
	for _, col := range required {
		if !t.has(col) {
			return nil, nil, fmt.Errorf("stats table: missing column %q", col)
		}
	}

	cols := make(map[string]bool, len(required)+2)
	for _, col := range required {
		cols[col] = true
	}
	for _, col := range []string{domain.StatXA, domain.StatAssists} {
		if t.has(col) {
			cols[col] = true
		}
	}

	// Some exports of the season table omit Date; fall back to the schedule.
	dateByLabel := make(map[string]string, len(matches))
	for _, m := range matches {
		dateByLabel[m.Label] = m.Date
	}

	records := make([]domain.TeamMatchStats, 0, len(t.rows))
	for i, row := range t.rows {
		s := domain.TeamMatchStats{
			Match: t.get(row, "Match"),
			Team:  t.get(row, "Team"),
		}
		if t.has("Date") {
			s.Date = t.get(row, "Date")
		} else {
			date, ok := dateByLabel[s.Match]
			if !ok {
				return nil, nil, fmt.Errorf("stats row %d: match %q absent from schedule: %w",
					i+2, s.Match, domain.ErrDataIntegrity)
			}
			s.Date = date
		}

		var err error
		assign := func(dst *float64, col string) {
			if err != nil {
				return
			}
			var v float64
			v, err = parseFloat(t.get(row, col))
			if err != nil {
				err = fmt.Errorf("stats row %d: bad %s %q: %w", i+2, col, t.get(row, col), err)
				return
			}
			*dst = v
		}
		assign(&s.Goals, domain.StatGoals)
		assign(&s.XG, domain.StatXG)
		assign(&s.Possession, domain.StatPossession)
		assign(&s.FieldTilt, domain.StatFieldTilt)
		assign(&s.PassesOppHalf, domain.StatPassesOppHalf)
		assign(&s.PPDA, domain.StatPPDA)
		assign(&s.HighRecoveries, domain.StatHighRecoveries)
		assign(&s.Crosses, domain.StatCrosses)
		assign(&s.Corners, domain.StatCorners)
		assign(&s.Fouls, domain.StatFouls)
		assign(&s.Shots, domain.StatShots)
		assign(&s.OnBallPressure, domain.StatOnBallPressure)
		assign(&s.OffBallPressure, domain.StatOffBallPressure)
		if err != nil {
			return nil, nil, err
		}

		if cols[domain.StatXA] {
			v, err := parseFloat(t.get(row, domain.StatXA))
			if err != nil {
				return nil, nil, fmt.Errorf("stats row %d: bad xA: %w", i+2, err)
			}
			s.XA = &v
		}
		if cols[domain.StatAssists] {
			v, err := parseFloat(t.get(row, domain.StatAssists))
			if err != nil {
				return nil, nil, fmt.Errorf("stats row %d: bad Assists: %w", i+2, err)
			}
			s.Assists = &v
		}

		records = append(records, s)
	}
	return records, cols, nil
}

const injuryDateLayout = "2006-01-02"

func parseInjuries(t *table) ([]domain.InjuryRecord, error) {
	for _, col := range []string{"Jugador", "TipoLesion", "ZonaCorporal", "FechaInicio", "FechaFin"} {
		if !t.has(col) {
			return nil, fmt.Errorf("injury table: missing column %q", col)
		}
	}

	records := make([]domain.InjuryRecord, 0, len(t.rows))
	for i, row := range t.rows {
		start, err := time.Parse(injuryDateLayout, t.get(row, "FechaInicio"))
		if err != nil {
			return nil, fmt.Errorf("injury row %d: bad FechaInicio: %w", i+2, err)
		}
		end, err := time.Parse(injuryDateLayout, t.get(row, "FechaFin"))
		if err != nil {
			return nil, fmt.Errorf("injury row %d: bad FechaFin: %w", i+2, err)
		}
		records = append(records, domain.InjuryRecord{
			Player:   t.get(row, "Jugador"),
			Type:     t.get(row, "TipoLesion"),
			BodyZone: t.get(row, "ZonaCorporal"),
			Start:    start,
			End:      end,
		})
	}
	return records, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// table is a parsed CSV file with header-indexed access.
type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	index := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		index[strings.TrimSpace(name)] = i
	}
	return &table{index: index, rows: all[1:]}, nil
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *table) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
