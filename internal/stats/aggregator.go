package stats

import (
	"context"
	"errors"
	"fmt"

	"postmatch-dashboard/internal/domain"
	"postmatch-dashboard/internal/repository"

	"github.com/rs/zerolog"
)

// Aggregator joins a fixture with its two stats rows. No computation happens
// here; it only resolves home and away through the repository.
type Aggregator struct {
	repo   *repository.MatchStatsRepository
	logger zerolog.Logger
}

func NewAggregator(repo *repository.MatchStatsRepository, logger zerolog.Logger) *Aggregator {
	return &Aggregator{repo: repo, logger: logger}
}

// ForMatch returns the home and away stats rows for a match label. An
// unknown label is NotFound; a scheduled match whose stats rows are missing
// is a data-integrity violation.
func (a *Aggregator) ForMatch(ctx context.Context, label string) (*domain.MatchRecord, *domain.TeamMatchStats, *domain.TeamMatchStats, error) {
	match, err := a.repo.FindMatch(ctx, label)
	if err != nil {
		return nil, nil, nil, err
	}

	home, err := a.repo.StatsFor(ctx, label, match.Home)
	if err != nil {
		return nil, nil, nil, a.integrityErr(label, match.Home, err)
	}
	away, err := a.repo.StatsFor(ctx, label, match.Away)
	if err != nil {
		return nil, nil, nil, a.integrityErr(label, match.Away, err)
	}

	return match, home, away, nil
}

func (a *Aggregator) integrityErr(label, team string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		a.logger.Error().Str("match", label).Str("team", team).Msg("scheduled match has no stats row")
		return fmt.Errorf("scheduled match %q has no stats for %q: %w", label, team, domain.ErrDataIntegrity)
	}
	return err
}
