// Package save persists player progress between runs: the furthest night
// unlocked, the pacing and difficulty settings and the best score per night.
package save

import (
	"context"
	"errors"
	"time"

	"nightshift/pkg/game/clock"
	"nightshift/pkg/game/nights"
)

// Difficulty bounds.
const (
	DefaultDifficulty = 1.2
	MinDifficulty     = 0.8
	MaxDifficulty     = 2.0
)

// ErrClosed is returned by a store that has been closed.
var ErrClosed = errors.New("save: store closed")

// Progress is everything kept between runs.
type Progress struct {
	MaxNight       int         `json:"max_night"`
	Difficulty     float64     `json:"difficulty"`
	SecondsPerHour float64     `json:"seconds_per_hour"`
	HighScores     map[int]int `json:"high_scores"`
}

// NewDefault is the progress of a first run.
func NewDefault() Progress {
	return Progress{
		MaxNight:       1,
		Difficulty:     DefaultDifficulty,
		SecondsPerHour: clock.DefaultSecondsPerHour,
		HighScores:     map[int]int{},
	}
}

// Normalize clamps every field into range. Values read from disk always
// pass through here.
func (p Progress) Normalize() Progress {
	p.MaxNight = nights.Clamp(p.MaxNight)
	p.Difficulty = ClampDifficulty(p.Difficulty)
	p.SecondsPerHour = clock.ClampSecondsPerHour(p.SecondsPerHour)

	scores := make(map[int]int, len(p.HighScores))
	for night, score := range p.HighScores {
		if night < 1 || night > nights.TotalNights || score < 0 {
			continue
		}
		scores[night] = score
	}
	p.HighScores = scores
	return p
}

// ClampDifficulty limits a difficulty to [MinDifficulty, MaxDifficulty].
// Zero or negative values fall back to the default.
func ClampDifficulty(v float64) float64 {
	if v <= 0 {
		return DefaultDifficulty
	}
	return max(MinDifficulty, min(MaxDifficulty, v))
}

// RecordWin folds a survived night into the progress. It returns true if
// anything changed.
func (p *Progress) RecordWin(night, score int) bool {
	changed := false
	if p.HighScores == nil {
		p.HighScores = map[int]int{}
	}
	if best, ok := p.HighScores[night]; !ok || score > best {
		p.HighScores[night] = score
		changed = true
	}
	if next := nights.Next(night); next > p.MaxNight {
		p.MaxNight = next
		changed = true
	}
	return changed
}

// Outcome is how a night ended.
type Outcome string

// Night outcomes
const (
	OutcomeWon       Outcome = "won"
	OutcomeJumpscare Outcome = "jumpscare"
)

// Result is one finished night.
type Result struct {
	RunID    string
	Night    int
	Outcome  Outcome
	Score    int
	Killer   string
	Finished time.Time
}

// Store loads and saves progress.
type Store interface {
	Load(ctx context.Context) (Progress, error)
	Save(ctx context.Context, p Progress) error
}

// ResultRecorder is implemented by stores that keep a history of nights.
type ResultRecorder interface {
	RecordResult(ctx context.Context, r Result) error
}
