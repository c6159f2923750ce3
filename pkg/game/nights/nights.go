// Package nights holds per-night tuning. Later nights shorten the attack
// windup, raise base aggression and carry part of the player's blocking
// record forward.
package nights

import (
	"github.com/leonelquinteros/gotext"
)

// TotalNights is the number of nights that can be unlocked.
const TotalNights = 5

// Clamp limits a night number to [1, TotalNights].
func Clamp(night int) int {
	if night < 1 {
		return 1
	}
	if night > TotalNights {
		return TotalNights
	}
	return night
}

// IsFinal reports whether night is the last one.
func IsFinal(night int) bool {
	return night >= TotalNights
}

// Next returns the night unlocked by surviving night, or 0 after the final night.
func Next(night int) int {
	if night <= 0 || IsFinal(night) {
		return 0
	}
	return night + 1
}

// Windup tuning.
const (
	BaseWindup          = 1.2
	MinWindup           = 0.45
	WindupPerNight      = 0.1
	minWindupDifficulty = 0.8
)

// RequiredWindup returns the seconds an agent must spend unopposed in the
// office before it attacks.
func RequiredWindup(difficulty float64, night int) float64 {
	return max(MinWindup, BaseWindup/max(minWindupDifficulty, difficulty)-float64(night-1)*WindupPerNight)
}

// AggroNightFactor is added to every agent's aggression per night past the first.
func AggroNightFactor(night int) float64 {
	return float64(max(0, night-1)) * 0.12
}

// CarryDecay is removed from each agent's block count between nights.
const CarryDecay = 3

// Params holds the adjustments applied to a roster before a night starts.
type Params struct {
	// AggroMultiplier scales base aggression.
	AggroMultiplier float64
	// Boost is the part of AggroMultiplier earned by the player's blocking record.
	Boost float64
}

// ParamsFor returns the adjustments for night given the average number of
// blocks per agent carried over from the previous night.
func ParamsFor(night int, avgBlocks float64) Params {
	if night < 2 {
		return Params{AggroMultiplier: 1}
	}

	nightFactor := 0.15 * float64(night-1)
	var boost float64
	switch {
	case avgBlocks > 5:
		boost = 0.2
	case avgBlocks > 2:
		boost = 0.1
	}
	return Params{AggroMultiplier: 1 + nightFactor + boost, Boost: boost}
}

// CarriedBlocks returns the block count an agent keeps into the next night.
func CarriedBlocks(blocks int) int {
	return max(0, blocks-CarryDecay)
}

// IntroText returns the line shown when night starts.
func IntroText(night int) string {
	switch Clamp(night) {
	case 1:
		return gotext.Get("You're in the science block. Alone.")
	case 2:
		return gotext.Get("They remember which door you favour.")
	case 3:
		return gotext.Get("The power grid is failing. Watch the surges.")
	case 4:
		return gotext.Get("They are hunting together now.")
	default:
		return gotext.Get("Final night. Nobody is coming.")
	}
}
