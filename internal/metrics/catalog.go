package metrics

import (
	"strconv"

	"postmatch-dashboard/internal/domain"
)

// Format decides how a metric's value is rendered in table payloads.
type Format int

const (
	FormatRaw Format = iota
	FormatPercentage
)

// MetricDefinition binds a display label to a season-table column. Order
// within a view is the render order.
type MetricDefinition struct {
	Label  string
	Key    string
	Format Format
}

// Catalog holds the four fixed metric views. It is built once at startup;
// ranking metrics whose source column is absent from the loaded table are
// dropped here so that no request ever sees a missing column.
type Catalog struct {
	General []MetricDefinition
	Ranking []MetricDefinition
	Radar   []MetricDefinition
	Bar     []MetricDefinition
}

func NewCatalog(available map[string]bool) *Catalog {
	c := &Catalog{
		General: []MetricDefinition{
			{Label: "xG", Key: domain.StatXG},
			{Label: "Posesión", Key: domain.StatPossession, Format: FormatPercentage},
			{Label: "Field Tilt", Key: domain.StatFieldTilt, Format: FormatPercentage},
			{Label: "Pass in Opp. Half", Key: domain.StatPassesOppHalf},
			{Label: "PPDA", Key: domain.StatPPDA},
			{Label: "High Recovery", Key: domain.StatHighRecoveries},
			{Label: "Crosses", Key: domain.StatCrosses},
			{Label: "Corners", Key: domain.StatCorners},
			{Label: "Fouls", Key: domain.StatFouls},
		},
		Radar: []MetricDefinition{
			{Label: "xG", Key: domain.StatXG},
			{Label: "Shots", Key: domain.StatShots},
			{Label: "PPDA", Key: domain.StatPPDA},
			{Label: "Field Tilt", Key: domain.StatFieldTilt},
			{Label: "High Recoveries", Key: domain.StatHighRecoveries},
			{Label: "Corners", Key: domain.StatCorners},
			{Label: "Crosses", Key: domain.StatCrosses},
		},
		Bar: []MetricDefinition{
			{Label: "Corners", Key: domain.StatCorners},
			{Label: "Crosses", Key: domain.StatCrosses},
			{Label: "Fouls", Key: domain.StatFouls},
			{Label: "On-Ball Pressure", Key: domain.StatOnBallPressure},
			{Label: "Off-Ball Pressure", Key: domain.StatOffBallPressure},
		},
	}

	// xA and Assists only exist in some exports of the season table.
	ranking := []MetricDefinition{
		{Label: "Goles", Key: domain.StatGoals},
		{Label: "xG", Key: domain.StatXG},
		{Label: "xA", Key: domain.StatXA},
		{Label: "Asistencias", Key: domain.StatAssists},
		{Label: "Recuperaciones", Key: domain.StatHighRecoveries},
		{Label: "Faltas", Key: domain.StatFouls},
		{Label: "Corners", Key: domain.StatCorners},
	}
	for _, def := range ranking {
		if available[def.Key] {
			c.Ranking = append(c.Ranking, def)
		}
	}

	return c
}

// FormatValue renders a metric value for table display. Percentage metrics
// get a "%" suffix; raw values use the shortest representation that
// round-trips, which preserves the source text for the values these tables
// carry ("2.1" stays "2.1", "14" stays "14").
func (d MetricDefinition) FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if d.Format == FormatPercentage {
		return s + "%"
	}
	return s
}
