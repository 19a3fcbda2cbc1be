package fx

import (
	"postmatch-dashboard/internal/config"
	"postmatch-dashboard/internal/database"
	"postmatch-dashboard/internal/ingest"
	"postmatch-dashboard/internal/logger"
	"postmatch-dashboard/internal/metrics"
	"postmatch-dashboard/internal/render"
	"postmatch-dashboard/internal/report"
	"postmatch-dashboard/internal/repository"
	"postmatch-dashboard/internal/server"
	"postmatch-dashboard/internal/service"
	"postmatch-dashboard/internal/stats"

	"go.uber.org/fx"
)

// ProvideCatalog builds the metric catalog from the loaded table's column
// set. Depending on ingest.Result also forces the load to finish before
// anything that reads the tables is constructed.
func ProvideCatalog(res *ingest.Result) *metrics.Catalog {
	return metrics.NewCatalog(res.StatColumns)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewMatchStatsRepository),
	fx.Provide(repository.NewInjuryRepository),
	// startup load
	fx.Provide(ingest.Load),
	fx.Provide(ProvideCatalog),
	// core engine
	fx.Provide(stats.NewAggregator),
	fx.Provide(stats.NewRankEngine),
	fx.Provide(report.NewAssembler),
	// renderers
	fx.Provide(render.NewChartRenderer),
	fx.Provide(render.NewPDFRenderer),
	// svc
	fx.Provide(service.NewInjuryService),
	// server
	fx.Provide(server.NewDashboardServer),
)
