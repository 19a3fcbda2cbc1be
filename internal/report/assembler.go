package report

import (
	"context"
	"fmt"
	"strconv"

	"postmatch-dashboard/internal/domain"
	"postmatch-dashboard/internal/metrics"
	"postmatch-dashboard/internal/stats"

	"github.com/rs/zerolog"
)

// Header identifies the match at the top of every report rendering.
type Header struct {
	Match     string `json:"match"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeGoals string `json:"home_goals"`
	AwayGoals string `json:"away_goals"`
	Date      string `json:"date"`
	Round     int    `json:"round"`
}

// TableRow is one pre-formatted line of the general metrics table.
type TableRow struct {
	Label string `json:"label"`
	Home  string `json:"home"`
	Away  string `json:"away"`
}

// RankRow is one line of the matchday ranking table, 1-based ranks.
type RankRow struct {
	Label    string `json:"label"`
	HomeRank int    `json:"home_rank"`
	AwayRank int    `json:"away_rank"`
}

// RadarPayload carries both the normalized polygon (closed loop, first point
// repeated at the end) and the raw values behind it.
type RadarPayload struct {
	Categories []string  `json:"categories"`
	HomeNorm   []float64 `json:"home_norm"`
	AwayNorm   []float64 `json:"away_norm"`
	HomeRaw    []float64 `json:"home_raw"`
	AwayRaw    []float64 `json:"away_raw"`
}

// BarPayload is rendered at native scale, no normalization.
type BarPayload struct {
	Categories []string  `json:"categories"`
	Home       []float64 `json:"home"`
	Away       []float64 `json:"away"`
}

type ReportData struct {
	Header  Header       `json:"header"`
	General []TableRow   `json:"general"`
	Ranking []RankRow    `json:"ranking"`
	Radar   RadarPayload `json:"radar"`
	Bars    BarPayload   `json:"bars"`
}

// Assembler builds the one ReportData consumed by the interactive view, the
// PNG exporter and the PDF exporter. All three must go through Assemble so
// their numbers cannot diverge.
type Assembler struct {
	aggregator *stats.Aggregator
	rankEngine *stats.RankEngine
	catalog    *metrics.Catalog
	logger     zerolog.Logger
}

func NewAssembler(aggregator *stats.Aggregator, rankEngine *stats.RankEngine, catalog *metrics.Catalog, logger zerolog.Logger) *Assembler {
	return &Assembler{
		aggregator: aggregator,
		rankEngine: rankEngine,
		catalog:    catalog,
		logger:     logger,
	}
}

func (a *Assembler) Assemble(ctx context.Context, label string) (*ReportData, error) {
	match, home, away, err := a.aggregator.ForMatch(ctx, label)
	if err != nil {
		return nil, err
	}

	data := &ReportData{
		Header: Header{
			Match:     match.Label,
			Home:      match.Home,
			Away:      match.Away,
			HomeGoals: strconv.FormatFloat(home.Goals, 'f', -1, 64),
			AwayGoals: strconv.FormatFloat(away.Goals, 'f', -1, 64),
			Date:      match.Date,
			Round:     match.Round,
		},
	}

	data.General, err = a.generalRows(home, away)
	if err != nil {
		return nil, err
	}
	data.Ranking, err = a.rankingRows(ctx, match)
	if err != nil {
		return nil, err
	}
	data.Radar, err = a.radarPayload(home, away)
	if err != nil {
		return nil, err
	}
	data.Bars, err = a.barPayload(home, away)
	if err != nil {
		return nil, err
	}

	a.logger.Debug().Str("match", label).Msg("report payload assembled")
	return data, nil
}

func (a *Assembler) generalRows(home, away *domain.TeamMatchStats) ([]TableRow, error) {
	rows := make([]TableRow, 0, len(a.catalog.General))
	for _, def := range a.catalog.General {
		hv, err := metricValue(home, def.Key)
		if err != nil {
			return nil, err
		}
		av, err := metricValue(away, def.Key)
		if err != nil {
			return nil, err
		}
		rows = append(rows, TableRow{
			Label: def.Label,
			Home:  def.FormatValue(hv),
			Away:  def.FormatValue(av),
		})
	}
	return rows, nil
}

// rankingRows computes each metric's full matchday ranking once and reads
// both teams' positions from it.
func (a *Assembler) rankingRows(ctx context.Context, match *domain.MatchRecord) ([]RankRow, error) {
	rows := make([]RankRow, 0, len(a.catalog.Ranking))
	for _, def := range a.catalog.Ranking {
		ranking, err := a.rankEngine.RankingFor(ctx, def.Key, match.Date)
		if err != nil {
			return nil, err
		}
		homeRank, err := stats.Position(ranking, match.Home, match.Date)
		if err != nil {
			return nil, err
		}
		awayRank, err := stats.Position(ranking, match.Away, match.Date)
		if err != nil {
			return nil, err
		}
		rows = append(rows, RankRow{Label: def.Label, HomeRank: homeRank, AwayRank: awayRank})
	}
	return rows, nil
}

func (a *Assembler) radarPayload(home, away *domain.TeamMatchStats) (RadarPayload, error) {
	categories := make([]string, 0, len(a.catalog.Radar))
	homeRaw := make([]float64, 0, len(a.catalog.Radar))
	awayRaw := make([]float64, 0, len(a.catalog.Radar))
	for _, def := range a.catalog.Radar {
		hv, err := metricValue(home, def.Key)
		if err != nil {
			return RadarPayload{}, err
		}
		av, err := metricValue(away, def.Key)
		if err != nil {
			return RadarPayload{}, err
		}
		categories = append(categories, def.Label)
		homeRaw = append(homeRaw, hv)
		awayRaw = append(awayRaw, av)
	}

	homeNorm, awayNorm, err := stats.Normalize(homeRaw, awayRaw)
	if err != nil {
		return RadarPayload{}, err
	}

	return RadarPayload{
		Categories: stats.CloseLoop(categories),
		HomeNorm:   stats.CloseLoop(homeNorm),
		AwayNorm:   stats.CloseLoop(awayNorm),
		HomeRaw:    homeRaw,
		AwayRaw:    awayRaw,
	}, nil
}

func (a *Assembler) barPayload(home, away *domain.TeamMatchStats) (BarPayload, error) {
	payload := BarPayload{
		Categories: make([]string, 0, len(a.catalog.Bar)),
		Home:       make([]float64, 0, len(a.catalog.Bar)),
		Away:       make([]float64, 0, len(a.catalog.Bar)),
	}
	for _, def := range a.catalog.Bar {
		hv, err := metricValue(home, def.Key)
		if err != nil {
			return BarPayload{}, err
		}
		av, err := metricValue(away, def.Key)
		if err != nil {
			return BarPayload{}, err
		}
		payload.Categories = append(payload.Categories, def.Label)
		payload.Home = append(payload.Home, hv)
		payload.Away = append(payload.Away, av)
	}
	return payload, nil
}

func metricValue(s *domain.TeamMatchStats, key string) (float64, error) {
	v, ok := s.Value(key)
	if !ok {
		return 0, fmt.Errorf("metric column %q not loaded: %w", key, domain.ErrDataIntegrity)
	}
	return v, nil
}
