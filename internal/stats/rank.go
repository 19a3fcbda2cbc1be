package stats

import (
	"context"
	"fmt"
	"sort"

	"postmatch-dashboard/internal/domain"
	"postmatch-dashboard/internal/repository"

	"github.com/rs/zerolog"
)

// RankEngine computes per-matchday ordinal rankings. A ranking only ever
// compares teams that played on the same date.
type RankEngine struct {
	repo   *repository.MatchStatsRepository
	logger zerolog.Logger
}

func NewRankEngine(repo *repository.MatchStatsRepository, logger zerolog.Logger) *RankEngine {
	return &RankEngine{repo: repo, logger: logger}
}

// RankedTeam is one position in a matchday ranking for a single metric.
type RankedTeam struct {
	Team  string
	Value float64
	Rank  int
}

// RankingFor sorts every team that played on the given date descending by
// the metric. The sort is stable: equal values keep the source table's row
// order, so ranks are reproducible for a given input file.
func (e *RankEngine) RankingFor(ctx context.Context, key, date string) ([]RankedTeam, error) {
	rows, err := e.repo.AllOnDate(ctx, date)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedTeam, 0, len(rows))
	for _, row := range rows {
		v, ok := row.Value(key)
		if !ok {
			return nil, fmt.Errorf("metric column %q not loaded: %w", key, domain.ErrDataIntegrity)
		}
		ranked = append(ranked, RankedTeam{Team: row.Team, Value: v})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// RankOf is the 1-based position of one team in that date's ranking for the
// metric. Callers that need both teams of a match should compute RankingFor
// once and use Position instead of two RankOf calls.
func (e *RankEngine) RankOf(ctx context.Context, key, date, team string) (int, error) {
	ranking, err := e.RankingFor(ctx, key, date)
	if err != nil {
		return 0, err
	}
	return Position(ranking, team, date)
}

// Position finds a team's rank in an already computed ranking.
func Position(ranking []RankedTeam, team, date string) (int, error) {
	for _, rt := range ranking {
		if rt.Team == team {
			return rt.Rank, nil
		}
	}
	return 0, fmt.Errorf("team %q did not play on %s: %w", team, date, domain.ErrNotFound)
}
