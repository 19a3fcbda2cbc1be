package service

import (
	"context"
	"sort"

	"postmatch-dashboard/internal/domain"
	"postmatch-dashboard/internal/repository"

	"github.com/rs/zerolog"
)

// InjuryService backs the medical-area dashboard: a filterable record table
// plus injury counts by type and body-zone distribution.
type InjuryService struct {
	repo   *repository.InjuryRepository
	logger zerolog.Logger
}

func NewInjuryService(repo *repository.InjuryRepository, logger zerolog.Logger) *InjuryService {
	return &InjuryService{repo: repo, logger: logger}
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type InjurySummary struct {
	Records []domain.InjuryRecord `json:"records"`
	ByType  []CategoryCount       `json:"by_type"`
	ByZone  []CategoryCount       `json:"by_zone"`
}

// Summary returns the filtered injury table and its two breakdowns. Empty
// filter values mean no filter.
func (s *InjuryService) Summary(ctx context.Context, player, injuryType string) (*InjurySummary, error) {
	records, err := s.repo.List(ctx, player, injuryType)
	if err != nil {
		return nil, err
	}

	summary := &InjurySummary{
		Records: records,
		ByType:  countBy(records, func(r domain.InjuryRecord) string { return r.Type }),
		ByZone:  countBy(records, func(r domain.InjuryRecord) string { return r.BodyZone }),
	}

	s.logger.Debug().
		Str("player", player).
		Str("type", injuryType).
		Int("records", len(records)).
		Msg("injury summary built")
	return summary, nil
}

type FilterOptions struct {
	Players []string `json:"players"`
	Types   []string `json:"types"`
}

func (s *InjuryService) Filters(ctx context.Context) (*FilterOptions, error) {
	players, err := s.repo.Players(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.repo.Types(ctx)
	if err != nil {
		return nil, err
	}
	return &FilterOptions{Players: players, Types: types}, nil
}

func countBy(records []domain.InjuryRecord, key func(domain.InjuryRecord) string) []CategoryCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[key(r)]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, CategoryCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
