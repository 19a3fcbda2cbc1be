package render

import (
	"bytes"
	"fmt"

	"postmatch-dashboard/internal/report"

	"github.com/jung-kurt/gofpdf"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// PDFRenderer composes the A4 post-match report from an assembled payload.
// Chart images are generated in memory and registered under request-unique
// names, so concurrent exports of the same match never collide.
type PDFRenderer struct {
	charts *ChartRenderer
	logger zerolog.Logger
}

func NewPDFRenderer(charts *ChartRenderer, logger zerolog.Logger) *PDFRenderer {
	return &PDFRenderer{charts: charts, logger: logger}
}

const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 12.0
)

func (r *PDFRenderer) Render(data *report.ReportData) ([]byte, error) {
	radarPNG, err := r.charts.RadarPNG(data)
	if err != nil {
		return nil, err
	}
	barsPNG, err := r.charts.BarsPNG(data)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// dark page background
	pdf.SetFillColor(36, 40, 42)
	pdf.Rect(0, 0, pageWidth, pageHeight, "F")

	// header: round, date, score line
	pdf.SetTextColor(46, 204, 113)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(margin, 18)
	pdf.CellFormat(pageWidth-2*margin, 8,
		tr(fmt.Sprintf("Jornada %d - %s", data.Header.Round, data.Header.Date)),
		"", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetXY(margin, 30)
	score := fmt.Sprintf("%s %s - %s %s",
		data.Header.Home, data.Header.HomeGoals, data.Header.AwayGoals, data.Header.Away)
	pdf.CellFormat(pageWidth-2*margin, 12, tr(score), "", 0, "C", false, 0, "")

	// first block: general metrics table next to the ranking table
	tableTop := 52.0
	tableWidth := (pageWidth - 2*margin - 8) * 0.55
	rankWidth := (pageWidth - 2*margin - 8) * 0.45

	general := make([][3]string, 0, len(data.General))
	for _, row := range data.General {
		general = append(general, [3]string{row.Label, row.Home, row.Away})
	}
	r.drawTable(pdf, tr, margin, tableTop, tableWidth, "Estadísticas Generales",
		data.Header.Home, data.Header.Away, general)

	ranking := make([][3]string, 0, len(data.Ranking))
	for _, row := range data.Ranking {
		ranking = append(ranking, [3]string{
			row.Label,
			fmt.Sprintf("%dº", row.HomeRank),
			fmt.Sprintf("%dº", row.AwayRank),
		})
	}
	r.drawTable(pdf, tr, margin+tableWidth+8, tableTop, rankWidth, "Ranking en la Jornada",
		data.Header.Home, data.Header.Away, ranking)

	// second block: bar chart and radar side by side
	chartTop := 170.0
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(46, 204, 113)
	pdf.SetXY(margin, chartTop-10)
	pdf.CellFormat(pageWidth-2*margin, 8, tr("Comparación de Métricas"), "", 0, "C", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}

	barsName, err := imageName("bars")
	if err != nil {
		return nil, err
	}
	pdf.RegisterImageOptionsReader(barsName, opts, bytes.NewReader(barsPNG))
	pdf.ImageOptions(barsName, margin, chartTop, 105, 0, false, opts, 0, "")

	radarName, err := imageName("radar")
	if err != nil {
		return nil, err
	}
	pdf.RegisterImageOptionsReader(radarName, opts, bytes.NewReader(radarPNG))
	pdf.ImageOptions(radarName, margin+110, chartTop, 75, 0, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	r.logger.Debug().Str("match", data.Header.Match).Int("bytes", buf.Len()).Msg("pdf rendered")
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawTable(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w float64, title, home, away string, rows [][3]string) {
	const rowHeight = 7.0
	labelW := w * 0.4
	valueW := w * 0.3

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(46, 204, 113)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 8, tr(title), "", 0, "C", false, 0, "")
	y += 10

	pdf.SetDrawColor(46, 204, 113)
	pdf.SetLineWidth(0.3)

	// header row
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(46, 204, 113)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(x, y)
	pdf.CellFormat(labelW, rowHeight, tr("Métrica"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(valueW, rowHeight, tr(home), "1", 0, "C", true, 0, "")
	pdf.CellFormat(valueW, rowHeight, tr(away), "1", 0, "C", true, 0, "")
	y += rowHeight

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(36, 40, 42)
		} else {
			pdf.SetFillColor(26, 30, 32)
		}
		pdf.SetXY(x, y)
		pdf.CellFormat(labelW, rowHeight, tr(row[0]), "1", 0, "C", true, 0, "")
		pdf.CellFormat(valueW, rowHeight, tr(row[1]), "1", 0, "C", true, 0, "")
		pdf.CellFormat(valueW, rowHeight, tr(row[2]), "1", 0, "C", true, 0, "")
		y += rowHeight
	}
}

func imageName(kind string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate image name: %w", err)
	}
	return kind + "-" + id, nil
}
