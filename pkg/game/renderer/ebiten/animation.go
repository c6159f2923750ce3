package ebiten

import (
	"image/color"
	"math"
	"time"
)

// pulse returns 0..1 along a sine wave with the given period.
func pulse(periodMillis int64) float64 {
	now := time.Now().UnixMilli()
	phase := float64(now%periodMillis) / float64(periodMillis)
	return (math.Sin(phase*2*math.Pi) + 1.0) / 2.0
}

// pulsingColor scales base between lo and hi brightness. Faster periods read
// as more urgent.
func pulsingColor(base color.RGBA, periodMillis int64, lo, hi float64) color.Color {
	brightness := lo + (hi-lo)*pulse(periodMillis)
	return color.RGBA{
		uint8(float64(base.R) * brightness),
		uint8(float64(base.G) * brightness),
		uint8(float64(base.B) * brightness),
		base.A,
	}
}

// threatColor picks the threat bar colour, pulsing once danger is near.
func threatColor(threat int) color.Color {
	switch {
	case threat >= 70:
		return pulsingColor(colorDanger, 600, 0.55, 1.0)
	case threat >= 40:
		return colorWarning
	default:
		return colorGood
	}
}

// jumpscareColor flashes the screen red, decaying over the first second.
func jumpscareColor(sinceMillis int64) color.Color {
	decay := max(0.0, 1-float64(sinceMillis)/1000)
	strobe := 0.4 + 0.6*pulse(120)*decay
	return color.RGBA{
		uint8(float64(colorJumpscare.R) * strobe),
		0, 0, 255,
	}
}
