package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"postmatch-dashboard/internal/report"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"
)

// Dashboard palette: dark background, green home side, blue away side.
const (
	backgroundHex = "#24282a"
	gridHex       = "#444444"
	spokeHex      = "#555555"
	labelHex      = "#ffffff"
	tickHex       = "#888888"
)

var (
	homeRGB = [3]float64{0x2e / 255.0, 0xcc / 255.0, 0x71 / 255.0}
	awayRGB = [3]float64{0x34 / 255.0, 0x98 / 255.0, 0xdb / 255.0}
)

// ChartRenderer rasterizes the assembled report payloads into in-memory
// PNGs. It never re-derives a number: everything comes from ReportData.
type ChartRenderer struct {
	logger zerolog.Logger
}

func NewChartRenderer(logger zerolog.Logger) *ChartRenderer {
	return &ChartRenderer{logger: logger}
}

// RadarPNG draws the two normalized closed-loop polygons on a polar grid.
func (r *ChartRenderer) RadarPNG(data *report.ReportData) ([]byte, error) {
	const (
		size   = 640
		radius = 220.0
	)
	cx, cy := float64(size)/2, float64(size)/2

	dc := gg.NewContext(size, size)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(backgroundHex)
	dc.Clear()

	// concentric grid rings at 0.2 steps
	dc.SetHexColor(gridHex)
	dc.SetLineWidth(1)
	for _, f := range []float64{0.2, 0.4, 0.6, 0.8, 1.0} {
		dc.DrawCircle(cx, cy, radius*f)
		dc.Stroke()
	}

	// the payload categories are a closed loop; the unique spokes are all
	// but the repeated last entry
	categories := data.Radar.Categories
	if len(categories) < 2 {
		return nil, fmt.Errorf("radar payload has no categories")
	}
	n := len(categories) - 1

	angle := func(i int) float64 {
		return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	}

	dc.SetHexColor(spokeHex)
	for i := 0; i < n; i++ {
		dc.DrawLine(cx, cy, cx+radius*math.Cos(angle(i)), cy+radius*math.Sin(angle(i)))
		dc.Stroke()
	}

	drawPolygon := func(values []float64, rgb [3]float64) {
		dc.NewSubPath()
		for i, v := range values {
			x := cx + radius*v*math.Cos(angle(i))
			y := cy + radius*v*math.Sin(angle(i))
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.SetRGBA(rgb[0], rgb[1], rgb[2], 0.25)
		dc.FillPreserve()
		dc.SetRGBA(rgb[0], rgb[1], rgb[2], 1)
		dc.SetLineWidth(3)
		dc.Stroke()
	}
	drawPolygon(data.Radar.HomeNorm, homeRGB)
	drawPolygon(data.Radar.AwayNorm, awayRGB)

	dc.SetHexColor(labelHex)
	for i := 0; i < n; i++ {
		x := cx + radius*1.14*math.Cos(angle(i))
		y := cy + radius*1.14*math.Sin(angle(i))
		dc.DrawStringAnchored(categories[i], x, y, 0.5, 0.5)
	}

	dc.SetHexColor(tickHex)
	for _, f := range []float64{0.2, 0.4, 0.6, 0.8, 1.0} {
		dc.DrawStringAnchored(strconv.FormatFloat(f, 'f', 1, 64), cx+4, cy-radius*f, 0, 1)
	}

	drawLegend(dc, data.Header.Home, data.Header.Away, 20, 20)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode radar png: %w", err)
	}
	return buf.Bytes(), nil
}

// BarsPNG draws the bar payload as horizontal grouped bars at native scale.
func (r *ChartRenderer) BarsPNG(data *report.ReportData) ([]byte, error) {
	const (
		width      = 720
		height     = 480
		marginLeft = 150.0
		marginTop  = 50.0
		marginBot  = 60.0
		barWidth   = 16.0
	)

	categories := data.Bars.Categories
	if len(categories) == 0 {
		return nil, fmt.Errorf("bar payload has no categories")
	}

	maxVal := 0.0
	for i := range categories {
		maxVal = math.Max(maxVal, math.Max(data.Bars.Home[i], data.Bars.Away[i]))
	}
	if maxVal == 0 {
		maxVal = 1
	}

	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(backgroundHex)
	dc.Clear()

	plotWidth := float64(width) - marginLeft - 80
	plotHeight := float64(height) - marginTop - marginBot
	slot := plotHeight / float64(len(categories))

	drawBar := func(y, value float64, rgb [3]float64) {
		w := value / maxVal * plotWidth
		dc.SetRGBA(rgb[0], rgb[1], rgb[2], 1)
		dc.DrawRectangle(marginLeft, y, w, barWidth)
		dc.Fill()
		dc.SetHexColor(labelHex)
		dc.DrawStringAnchored(strconv.FormatFloat(value, 'f', -1, 64),
			marginLeft+w+6, y+barWidth/2, 0, 0.5)
	}

	for i, cat := range categories {
		base := marginTop + float64(i)*slot + slot/2
		drawBar(base-barWidth-2, data.Bars.Home[i], homeRGB)
		drawBar(base+2, data.Bars.Away[i], awayRGB)

		dc.SetHexColor(labelHex)
		dc.DrawStringAnchored(cat, marginLeft-10, base, 1, 0.5)
	}

	drawLegend(dc, data.Header.Home, data.Header.Away, marginLeft, float64(height)-marginBot+24)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode bars png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLegend(dc *gg.Context, home, away string, x, y float64) {
	const swatch = 12.0

	dc.SetRGBA(homeRGB[0], homeRGB[1], homeRGB[2], 1)
	dc.DrawRectangle(x, y, swatch, swatch)
	dc.Fill()
	dc.SetHexColor(labelHex)
	dc.DrawStringAnchored(home, x+swatch+6, y+swatch/2, 0, 0.5)

	tw, _ := dc.MeasureString(home)
	x += swatch + tw + 30
	dc.SetRGBA(awayRGB[0], awayRGB[1], awayRGB[2], 1)
	dc.DrawRectangle(x, y, swatch, swatch)
	dc.Fill()
	dc.SetHexColor(labelHex)
	dc.DrawStringAnchored(away, x+swatch+6, y+swatch/2, 0, 0.5)
}
