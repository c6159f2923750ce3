package ebiten

import "image/color"

// Color palette for the game
var (
	colorBackground      = color.RGBA{12, 12, 20, 255}    // Near black office
	colorPanelBackground = color.RGBA{30, 30, 50, 220}    // Semi-transparent dark
	colorPanelBorder     = color.RGBA{70, 70, 110, 255}   // Muted purple-gray
	colorBarBackground   = color.RGBA{45, 45, 65, 255}    // Empty part of a bar
	colorSubtle          = color.RGBA{120, 130, 180, 255} // Soft blue-purple-gray
	colorText            = color.RGBA{200, 210, 245, 255} // Soft off-white with blue-purple tint
	colorAction          = color.RGBA{180, 150, 250, 255} // Blue-purple
	colorRoom            = color.RGBA{160, 160, 180, 255} // Light gray-blue for room names
	colorDenied          = color.RGBA{255, 100, 100, 255} // Bright red
	colorGood            = color.RGBA{100, 255, 150, 255} // Green
	colorWarning         = color.RGBA{255, 220, 100, 255} // Yellow
	colorDanger          = color.RGBA{255, 80, 80, 255}   // Bright red
	colorDoorClosed      = color.RGBA{255, 200, 100, 255} // Orange
	colorDoorOpen        = color.RGBA{60, 60, 80, 255}    // Dark gap
	colorLight           = color.RGBA{255, 240, 180, 120} // Warm wash when the light is on
	colorJumpscare       = color.RGBA{140, 0, 0, 255}     // Blood red
)

// Font size constraints
const (
	minFontSize     = 10.0
	maxFontSize     = 40.0
	fontSizeStep    = 2.0
	defaultFontSize = 16.0
)

// Layout
const (
	defaultWindowWidth  = 1024
	defaultWindowHeight = 720
	panelPadding        = 16
	panelRadius         = 8
	barHeight           = 14
	messageLifetime     = 2500 // Cue flash lifetime (milliseconds)
	maxTrackedMessages  = 6
)
