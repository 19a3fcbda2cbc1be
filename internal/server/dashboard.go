package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"postmatch-dashboard/internal/domain"
	"postmatch-dashboard/internal/render"
	"postmatch-dashboard/internal/report"
	"postmatch-dashboard/internal/repository"
	"postmatch-dashboard/internal/service"

	"github.com/rs/zerolog"
)

// DashboardServer exposes the JSON and export surface consumed by the web
// UI. Every report-shaped response goes through the assembler; handlers are
// formatters only.
type DashboardServer struct {
	assembler *report.Assembler
	charts    *render.ChartRenderer
	pdf       *render.PDFRenderer
	matchRepo *repository.MatchStatsRepository
	injurySvc *service.InjuryService
	logger    zerolog.Logger
}

func NewDashboardServer(
	assembler *report.Assembler,
	charts *render.ChartRenderer,
	pdf *render.PDFRenderer,
	matchRepo *repository.MatchStatsRepository,
	injurySvc *service.InjuryService,
	logger zerolog.Logger,
) *DashboardServer {
	return &DashboardServer{
		assembler: assembler,
		charts:    charts,
		pdf:       pdf,
		matchRepo: matchRepo,
		injurySvc: injurySvc,
		logger:    logger,
	}
}

func (s *DashboardServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/teams", s.handleTeams)
	mux.HandleFunc("GET /api/rounds", s.handleRounds)
	mux.HandleFunc("GET /api/matches", s.handleMatches)
	mux.HandleFunc("GET /api/report/{label}", s.handleReport)
	mux.HandleFunc("GET /api/injuries", s.handleInjuries)
	mux.HandleFunc("GET /api/injuries/filters", s.handleInjuryFilters)
	mux.HandleFunc("GET /export/{label}/radar.png", s.handleRadarPNG)
	mux.HandleFunc("GET /export/{label}/bars.png", s.handleBarsPNG)
	mux.HandleFunc("GET /export/{label}/pdf", s.handlePDF)
}

func (s *DashboardServer) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.matchRepo.Teams(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"teams": teams})
}

func (s *DashboardServer) handleRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.matchRepo.Rounds(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"rounds": rounds})
}

func (s *DashboardServer) handleMatches(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	round := 0
	if v := r.URL.Query().Get("round"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.writeErrorStatus(w, http.StatusBadRequest, "bad_request", "round must be an integer")
			return
		}
		round = parsed
	}

	matches, err := s.matchRepo.ListMatches(r.Context(), team, round)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"matches": matches})
}

func (s *DashboardServer) handleReport(w http.ResponseWriter, r *http.Request) {
	data, err := s.assembler.Assemble(r.Context(), r.PathValue("label"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, data)
}

func (s *DashboardServer) handleInjuries(w http.ResponseWriter, r *http.Request) {
	summary, err := s.injurySvc.Summary(r.Context(),
		r.URL.Query().Get("player"), r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, summary)
}

func (s *DashboardServer) handleInjuryFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := s.injurySvc.Filters(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, filters)
}

func (s *DashboardServer) handleRadarPNG(w http.ResponseWriter, r *http.Request) {
	s.servePNG(w, r, s.charts.RadarPNG)
}

func (s *DashboardServer) handleBarsPNG(w http.ResponseWriter, r *http.Request) {
	s.servePNG(w, r, s.charts.BarsPNG)
}

func (s *DashboardServer) servePNG(w http.ResponseWriter, r *http.Request, render func(*report.ReportData) ([]byte, error)) {
	data, err := s.assembler.Assemble(r.Context(), r.PathValue("label"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	png, err := render(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *DashboardServer) handlePDF(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("label")
	data, err := s.assembler.Assemble(r.Context(), label)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pdfBytes, err := s.pdf.Render(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+label+`.pdf"`)
	w.Write(pdfBytes)
}

type errorEnvelope struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// writeError maps domain errors to an envelope the UI turns into an empty
// chart plus alert instead of stale data.
func (s *DashboardServer) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDataIntegrity):
		s.logger.Error().Err(err).Msg("data integrity violation")
		s.writeErrorStatus(w, http.StatusInternalServerError, "data_integrity", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		s.writeErrorStatus(w, http.StatusNotFound, "not_found", err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		s.writeErrorStatus(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (s *DashboardServer) writeErrorStatus(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{Code: code, Error: msg})
}

func (s *DashboardServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
