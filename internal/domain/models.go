package domain

import (
	"time"
)

// MatchRecord is one fixture from the schedule table. Label is the unique
// match key as it appears in the source file, e.g. "Real Madrid 2-1 Barcelona".
type MatchRecord struct {
	Label string `json:"label"`
	Home  string `json:"home"`
	Away  string `json:"away"`
	Date  string `json:"date"` // source date string, groups the matchday
	Round int    `json:"round"`
}

// TeamMatchStats is one team's statistics for one match. Exactly two rows
// exist per match label (home and away). XA and Assists are only present in
// some exports of the season table.
type TeamMatchStats struct {
	Match           string
	Team            string
	Date            string
	Goals           float64
	XG              float64
	Possession      float64
	FieldTilt       float64
	PassesOppHalf   float64
	PPDA            float64
	HighRecoveries  float64
	Crosses         float64
	Corners         float64
	Fouls           float64
	Shots           float64
	OnBallPressure  float64
	OffBallPressure float64
	XA              *float64
	Assists         *float64
}

// Stat column keys as they appear in the season table header.
const (
	StatGoals           = "Goals"
	StatXG              = "xG"
	StatPossession      = "Possession"
	StatFieldTilt       = "Field Tilt"
	StatPassesOppHalf   = "Passes in Opposition Half"
	StatPPDA            = "PPDA"
	StatHighRecoveries  = "High Recoveries"
	StatCrosses         = "Crosses"
	StatCorners         = "Corners"
	StatFouls           = "Fouls"
	StatShots           = "Shots"
	StatOnBallPressure  = "On-Ball Pressure"
	StatOffBallPressure = "Off-Ball Pressure"
	StatXA              = "xA"
	StatAssists         = "Assists"
)

// Value resolves a stat column key against this row. The second return is
// false when the key is unknown or the optional column was not loaded.
func (s TeamMatchStats) Value(key string) (float64, bool) {
	switch key {
	case StatGoals:
		return s.Goals, true
	case StatXG:
		return s.XG, true
	case StatPossession:
		return s.Possession, true
	case StatFieldTilt:
		return s.FieldTilt, true
	case StatPassesOppHalf:
		return s.PassesOppHalf, true
	case StatPPDA:
		return s.PPDA, true
	case StatHighRecoveries:
		return s.HighRecoveries, true
	case StatCrosses:
		return s.Crosses, true
	case StatCorners:
		return s.Corners, true
	case StatFouls:
		return s.Fouls, true
	case StatShots:
		return s.Shots, true
	case StatOnBallPressure:
		return s.OnBallPressure, true
	case StatOffBallPressure:
		return s.OffBallPressure, true
	case StatXA:
		if s.XA == nil {
			return 0, false
		}
		return *s.XA, true
	case StatAssists:
		if s.Assists == nil {
			return 0, false
		}
		return *s.Assists, true
	}
	return 0, false
}

// InjuryRecord is one row of the medical table.
type InjuryRecord struct {
	ID       string    `json:"id"` // nanoid, assigned at ingest
	Player   string    `json:"player"`
	Type     string    `json:"type"`
	BodyZone string    `json:"body_zone"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}
