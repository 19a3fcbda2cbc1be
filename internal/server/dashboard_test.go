package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postmatch-dashboard/internal/config"
	"postmatch-dashboard/internal/database"
	"postmatch-dashboard/internal/domain"
	"postmatch-dashboard/internal/metrics"
	"postmatch-dashboard/internal/render"
	"postmatch-dashboard/internal/report"
	"postmatch-dashboard/internal/repository"
	"postmatch-dashboard/internal/service"
	"postmatch-dashboard/internal/stats"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.New(&config.Config{DBPath: dsn}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zerolog.Nop()
	matchRepo := repository.NewMatchStatsRepository(db, logger)
	injuryRepo := repository.NewInjuryRepository(db)
	ctx := context.Background()

	err = matchRepo.InsertMatches(ctx, []domain.MatchRecord{
		{Label: "Real Madrid 2-1 Barcelona", Home: "Real Madrid", Away: "Barcelona", Date: "2025-03-10", Round: 27},
	})
	require.NoError(t, err)

	columns := []string{
		domain.StatGoals, domain.StatXG, domain.StatPossession,
		domain.StatFieldTilt, domain.StatPassesOppHalf, domain.StatPPDA,
		domain.StatHighRecoveries, domain.StatCrosses, domain.StatCorners,
		domain.StatFouls, domain.StatShots, domain.StatOnBallPressure,
		domain.StatOffBallPressure,
	}
	err = matchRepo.InsertTeamStats(ctx, []domain.TeamMatchStats{
		{Match: "Real Madrid 2-1 Barcelona", Team: "Real Madrid", Date: "2025-03-10", Goals: 2, XG: 2.1, Possession: 58, FieldTilt: 61, PassesOppHalf: 142, PPDA: 8.4, HighRecoveries: 7, Crosses: 15, Corners: 6, Fouls: 9, Shots: 16, OnBallPressure: 182, OffBallPressure: 205},
		{Match: "Real Madrid 2-1 Barcelona", Team: "Barcelona", Date: "2025-03-10", Goals: 1, XG: 1.4, Possession: 42, FieldTilt: 39, PassesOppHalf: 98, PPDA: 11.2, HighRecoveries: 5, Crosses: 9, Corners: 4, Fouls: 12, Shots: 9, OnBallPressure: 160, OffBallPressure: 230},
	}, columns)
	require.NoError(t, err)

	available := make(map[string]bool, len(columns))
	for _, c := range columns {
		available[c] = true
	}

	assembler := report.NewAssembler(
		stats.NewAggregator(matchRepo, logger),
		stats.NewRankEngine(matchRepo, logger),
		metrics.NewCatalog(available),
		logger,
	)
	charts := render.NewChartRenderer(logger)
	srv := NewDashboardServer(
		assembler,
		charts,
		render.NewPDFRenderer(charts, logger),
		matchRepo,
		service.NewInjuryService(injuryRepo, logger),
		logger,
	)

	mux := http.NewServeMux()
	srv.Register(mux)
	return mux
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReportEndpoint(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/api/report/Real%20Madrid%202-1%20Barcelona")
	require.Equal(t, http.StatusOK, rec.Code)

	var data report.ReportData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "Real Madrid", data.Header.Home)
	assert.Len(t, data.General, 9)
	assert.Len(t, data.Radar.Categories, 8)
}

func TestReportNotFoundEnvelope(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/api/report/Oviedo%209-9%20Sporting")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "not_found", envelope["code"])
	assert.NotEmpty(t, envelope["error"], "the UI shows this instead of stale data")
}

func TestMatchesEndpointBadRound(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/api/matches?round=twentyseven")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamsEndpoint(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/api/teams")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Barcelona", "Real Madrid"}, body["teams"])
}

func TestPDFEndpoint(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/export/Real%20Madrid%202-1%20Barcelona/pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Real Madrid 2-1 Barcelona.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestRadarPNGEndpoint(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/export/Real%20Madrid%202-1%20Barcelona/radar.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}
