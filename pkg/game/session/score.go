package session

import (
	"github.com/leonelquinteros/gotext"

	"nightshift/pkg/game/nights"
)

// Ending classifies a survived night.
type Ending string

// Endings, checked in the order listed.
const (
	EndingPerfect  Ending = "perfect"
	EndingVictory  Ending = "victory"
	EndingFlawless Ending = "flawless"
	EndingBarely   Ending = "barely"
	EndingStandard Ending = "standard"
)

// Score weights.
const (
	baseScore          = 1000
	powerBonus         = 2
	doorClosePenalty   = 5
	cameraCheckBonus   = 10
	maxCameraBonus     = 300
	perfectBlockBonus  = 50
	failedBlockPenalty = 30
	nightBonus         = 0.25
)

// Score rates a survived night.
func Score(st Stats, power float64, night int, difficulty float64) int {
	score := baseScore
	score += int(power * powerBonus)
	score -= st.DoorCloses * doorClosePenalty
	score += min(st.CameraChecks*cameraCheckBonus, maxCameraBonus)
	score += st.PerfectBlocks * perfectBlockBonus
	score -= st.FailedBlocks * failedBlockPenalty

	score = int(float64(score) * (1 + float64(night-1)*nightBonus))
	score = int(float64(score) * difficulty)
	return max(0, score)
}

// EndingFor picks the ending for a survived night.
func EndingFor(night, score int, power float64) Ending {
	switch {
	case nights.IsFinal(night) && score >= 2000:
		return EndingPerfect
	case nights.IsFinal(night):
		return EndingVictory
	case power > 50 && score >= 1500:
		return EndingFlawless
	case power < 10:
		return EndingBarely
	default:
		return EndingStandard
	}
}

// Text is the line shown when the night is won.
func (e Ending) Text(night int) string {
	switch e {
	case EndingPerfect:
		return gotext.Get("6 AM! A perfect night. You've mastered survival.")
	case EndingVictory:
		return gotext.Get("6 AM! You survived every night.")
	case EndingFlawless:
		return gotext.Get("6 AM! Flawless performance on night %d.", night)
	case EndingBarely:
		return gotext.Get("6 AM! You barely made it through night %d...", night)
	default:
		return gotext.Get("6 AM! You survived night %d.", night)
	}
}

// Threat weights.
const (
	threatInOffice   = 30
	threatNearby     = 8
	threatNearbyDist = 2
	threatLowPower   = 20
	threatMidPower   = 10
	threatWornDoors  = 15
	threatDoorsOpen  = 10
	threatEmergency  = 30
	maxThreat        = 100
)

// computeThreat sums the danger signals into a 0-100 gauge.
func (s *Session) computeThreat() int {
	threat := 0
	office := s.graph.Office()
	for _, a := range s.agents {
		switch {
		case a.InOffice():
			threat += threatInOffice
		case s.graph.Distance(a.Room(), office) <= threatNearbyDist:
			threat += threatNearby
		}
	}

	switch power := s.power.Level(); {
	case power < 20:
		threat += threatLowPower
	case power < 50:
		threat += threatMidPower
	}
	if s.office.AverageHealth() < 30 {
		threat += threatWornDoors
	}
	if s.office.BothOpen() {
		threat += threatDoorsOpen
	}
	if s.power.Emergency() {
		threat += threatEmergency
	}
	return min(maxThreat, threat)
}
