package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"postmatch-dashboard/internal/config"
	"postmatch-dashboard/internal/database"
	"postmatch-dashboard/internal/domain"
	"postmatch-dashboard/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scheduleCSV = `Match,Home,Away,Date,Round
Real Madrid 2-1 Barcelona,Real Madrid,Barcelona,2025-03-10,27
Sevilla 1-1 Betis,Sevilla,Betis,2025-03-10,27
`

const statsCSV = `Match,Team,Date,Goals,xG,Possession,Field Tilt,Passes in Opposition Half,PPDA,High Recoveries,Crosses,Corners,Fouls,Shots,On-Ball Pressure,Off-Ball Pressure,xA
Real Madrid 2-1 Barcelona,Real Madrid,2025-03-10,2,2.1,58,61,142,8.4,7,15,6,9,16,182,205,1.8
Real Madrid 2-1 Barcelona,Barcelona,2025-03-10,1,1.4,42,39,98,11.2,5,9,4,12,9,160,230,0.9
Sevilla 1-1 Betis,Sevilla,2025-03-10,1,0.9,51,48,110,9.9,6,11,5,14,10,170,195,0.7
Sevilla 1-1 Betis,Betis,2025-03-10,1,1.4,49,52,104,10.4,8,13,7,10,12,168,201,1.1
`

const injuriesCSV = `Jugador,TipoLesion,ZonaCorporal,FechaInicio,FechaFin
Vinicius,Muscular,Isquiotibial,2025-01-10,2025-02-01
Pedri,Muscular,Cuádriceps,2025-02-03,2025-02-20
`

func writeFixtures(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	return &config.Config{
		ScheduleCSV: write("schedule.csv", scheduleCSV),
		StatsCSV:    write("stats.csv", statsCSV),
		InjuriesCSV: write("injuries.csv", injuriesCSV),
		DBPath: fmt.Sprintf("file:%s?mode=memory&cache=shared",
			strings.ReplaceAll(t.Name(), "/", "_")),
	}
}

func TestLoad(t *testing.T) {
	cfg := writeFixtures(t)

	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	matchRepo := repository.NewMatchStatsRepository(db, zerolog.Nop())
	injuryRepo := repository.NewInjuryRepository(db)

	res, err := Load(cfg, matchRepo, injuryRepo, zerolog.Nop())
	require.NoError(t, err)

	assert.True(t, res.StatColumns[domain.StatXA], "xA column present in this export")
	assert.False(t, res.StatColumns[domain.StatAssists])

	ctx := context.Background()

	m, err := matchRepo.FindMatch(ctx, "Real Madrid 2-1 Barcelona")
	require.NoError(t, err)
	assert.Equal(t, 27, m.Round)

	s, err := matchRepo.StatsFor(ctx, "Real Madrid 2-1 Barcelona", "Real Madrid")
	require.NoError(t, err)
	assert.Equal(t, 2.1, s.XG)
	assert.Equal(t, 61.0, s.FieldTilt)
	require.NotNil(t, s.XA)
	assert.Equal(t, 1.8, *s.XA)
	assert.Nil(t, s.Assists)

	onDate, err := matchRepo.AllOnDate(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, onDate, 4)

	injuries, err := injuryRepo.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, injuries, 2)
	assert.Equal(t, "Cuádriceps", injuries[1].BodyZone)
	assert.Equal(t, "2025-02-03", injuries[1].Start.Format("2006-01-02"))
}

func TestLoadIsRerunnable(t *testing.T) {
	cfg := writeFixtures(t)

	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	matchRepo := repository.NewMatchStatsRepository(db, zerolog.Nop())
	injuryRepo := repository.NewInjuryRepository(db)

	_, err = Load(cfg, matchRepo, injuryRepo, zerolog.Nop())
	require.NoError(t, err)
	_, err = Load(cfg, matchRepo, injuryRepo, zerolog.Nop())
	require.NoError(t, err)

	matches, err := matchRepo.ListMatches(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 2, "reload replaces rows instead of duplicating")
}

func TestParseScheduleMissingColumn(t *testing.T) {
	_, err := parseSchedule(&table{
		index: map[string]int{"Match": 0, "Home": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Away")
}

func TestParseStatsFallsBackToScheduleDate(t *testing.T) {
	tbl := &table{
		index: map[string]int{
			"Match": 0, "Team": 1, "Goals": 2, "xG": 3, "Possession": 4,
			"Field Tilt": 5, "Passes in Opposition Half": 6, "PPDA": 7,
			"High Recoveries": 8, "Crosses": 9, "Corners": 10, "Fouls": 11,
			"Shots": 12, "On-Ball Pressure": 13, "Off-Ball Pressure": 14,
		},
		rows: [][]string{
			{"Real Madrid 2-1 Barcelona", "Real Madrid", "2", "2.1", "58", "61", "142", "8.4", "7", "15", "6", "9", "16", "182", "205"},
		},
	}
	matches := []domain.MatchRecord{
		{Label: "Real Madrid 2-1 Barcelona", Date: "2025-03-10"},
	}

	rows, cols, err := parseStats(tbl, matches)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-03-10", rows[0].Date)
	assert.False(t, cols[domain.StatXA])

	// a stats row whose match is missing from the schedule is an
	// integrity error when there is no Date column to fall back on
	tbl.rows[0][0] = "Unknown 0-0 Match"
	_, _, err = parseStats(tbl, matches)
	require.ErrorIs(t, err, domain.ErrDataIntegrity)
}
