package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"postmatch-dashboard/internal/config"
	"postmatch-dashboard/internal/database"
	"postmatch-dashboard/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*MatchStatsRepository, *InjuryRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.New(&config.Config{DBPath: dsn}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewMatchStatsRepository(db, zerolog.Nop()), NewInjuryRepository(db)
}

func statsRow(match, team, date string, xg float64) domain.TeamMatchStats {
	return domain.TeamMatchStats{Match: match, Team: team, Date: date, XG: xg}
}

func seed(t *testing.T, repo *MatchStatsRepository) {
	t.Helper()
	ctx := context.Background()

	err := repo.InsertMatches(ctx, []domain.MatchRecord{
		{Label: "Real Madrid 2-1 Barcelona", Home: "Real Madrid", Away: "Barcelona", Date: "2025-03-10", Round: 27},
		{Label: "Sevilla 1-1 Betis", Home: "Sevilla", Away: "Betis", Date: "2025-03-10", Round: 27},
		{Label: "Barcelona 4-0 Sevilla", Home: "Barcelona", Away: "Sevilla", Date: "2025-03-17", Round: 28},
	})
	require.NoError(t, err)

	err = repo.InsertTeamStats(ctx, []domain.TeamMatchStats{
		statsRow("Real Madrid 2-1 Barcelona", "Real Madrid", "2025-03-10", 2.1),
		statsRow("Real Madrid 2-1 Barcelona", "Barcelona", "2025-03-10", 1.4),
		statsRow("Sevilla 1-1 Betis", "Sevilla", "2025-03-10", 0.9),
		statsRow("Sevilla 1-1 Betis", "Betis", "2025-03-10", 1.4),
	}, []string{domain.StatXG, domain.StatGoals})
	require.NoError(t, err)
}

func TestFindMatch(t *testing.T) {
	repo, _ := newTestDB(t)
	seed(t, repo)

	m, err := repo.FindMatch(context.Background(), "Sevilla 1-1 Betis")
	require.NoError(t, err)
	assert.Equal(t, "Sevilla", m.Home)
	assert.Equal(t, "Betis", m.Away)
	assert.Equal(t, 27, m.Round)

	_, err = repo.FindMatch(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsFor(t *testing.T) {
	repo, _ := newTestDB(t)
	seed(t, repo)

	s, err := repo.StatsFor(context.Background(), "Real Madrid 2-1 Barcelona", "Real Madrid")
	require.NoError(t, err)
	assert.Equal(t, 2.1, s.XG)
	assert.Nil(t, s.XA, "optional column not loaded")

	_, err = repo.StatsFor(context.Background(), "Real Madrid 2-1 Barcelona", "Betis")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllOnDateKeepsLoadOrder(t *testing.T) {
	repo, _ := newTestDB(t)
	seed(t, repo)

	rows, err := repo.AllOnDate(context.Background(), "2025-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	teams := make([]string, 0, len(rows))
	for _, r := range rows {
		teams = append(teams, r.Team)
	}
	assert.Equal(t, []string{"Real Madrid", "Barcelona", "Sevilla", "Betis"}, teams)
}

func TestListMatchesFilters(t *testing.T) {
	repo, _ := newTestDB(t)
	seed(t, repo)
	ctx := context.Background()

	all, err := repo.ListMatches(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byTeam, err := repo.ListMatches(ctx, "Barcelona", 0)
	require.NoError(t, err)
	assert.Len(t, byTeam, 2, "home and away fixtures both match")

	byRound, err := repo.ListMatches(ctx, "", 28)
	require.NoError(t, err)
	require.Len(t, byRound, 1)
	assert.Equal(t, "Barcelona 4-0 Sevilla", byRound[0].Label)

	both, err := repo.ListMatches(ctx, "Betis", 28)
	require.NoError(t, err)
	assert.Empty(t, both)
}

func TestTeamsAndRounds(t *testing.T) {
	repo, _ := newTestDB(t)
	seed(t, repo)
	ctx := context.Background()

	teams, err := repo.Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barcelona", "Betis", "Real Madrid", "Sevilla"}, teams)

	rounds, err := repo.Rounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{27, 28}, rounds)
}

func TestStatColumns(t *testing.T) {
	repo, _ := newTestDB(t)
	seed(t, repo)

	cols, err := repo.StatColumns(context.Background())
	require.NoError(t, err)
	assert.True(t, cols[domain.StatXG])
	assert.False(t, cols[domain.StatXA])
}

func TestInjuryRepository(t *testing.T) {
	_, injuries := newTestDB(t)
	ctx := context.Background()

	day := func(d string) time.Time {
		ts, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		return ts
	}

	err := injuries.InsertBatch(ctx, []domain.InjuryRecord{
		{Player: "Vinicius", Type: "Muscular", BodyZone: "Isquiotibial", Start: day("2025-01-10"), End: day("2025-02-01")},
		{Player: "Pedri", Type: "Muscular", BodyZone: "Cuádriceps", Start: day("2025-02-03"), End: day("2025-02-20")},
		{Player: "Vinicius", Type: "Esguince", BodyZone: "Tobillo", Start: day("2025-03-01"), End: day("2025-03-15")},
	})
	require.NoError(t, err)

	all, err := injuries.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.NotEmpty(t, all[0].ID, "ids are assigned on insert")

	vini, err := injuries.List(ctx, "Vinicius", "")
	require.NoError(t, err)
	assert.Len(t, vini, 2)

	muscular, err := injuries.List(ctx, "Vinicius", "Muscular")
	require.NoError(t, err)
	require.Len(t, muscular, 1)
	assert.Equal(t, "Isquiotibial", muscular[0].BodyZone)

	players, err := injuries.Players(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pedri", "Vinicius"}, players)

	types, err := injuries.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Esguince", "Muscular"}, types)
}
