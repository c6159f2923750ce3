package input

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceGamepad
	DeviceTerminal
)

// Action represents a high‑level intent in the game.
type Action int

const (
	ActionNone Action = iota

	// Office
	ActionDoorLeft
	ActionDoorRight
	ActionLight
	ActionCameras
	ActionCameraNext
	ActionCameraPrev
	ActionLure
	ActionBarricade
	ActionHide

	// Select carries a 1-based index: a camera feed while playing, a night at the menu.
	ActionSelect

	// Meta / UI
	ActionConfirm // Start or continue (Enter / A)
	ActionPause
	ActionRestart
	ActionMenu
	ActionHint
	ActionQuit
	ActionScreenshot
	ActionDumpGraph
)

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
type Intent struct {
	Action Action
	Index  int
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "a", "arrow_up", "gamepad_lb").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing/deduplication.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
// Ebiten's just-pressed checks and the terminal's one-byte reads already
// deliver one event per press.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
	}
}

// Bindings maps raw codes to actions (3rd layer).
// Multiple codes may point to the same Action.
type Bindings map[string]Action

// DefaultBindings returns a fresh copy of the shipped bindings.
func DefaultBindings() Bindings {
	return Bindings{
		// Doors
		"a":          ActionDoorLeft,
		"arrow_left": ActionDoorLeft,
		"gamepad_lb": ActionDoorLeft,

		"d":           ActionDoorRight,
		"arrow_right": ActionDoorRight,
		"gamepad_rb":  ActionDoorRight,

		// Light and monitor
		"f":         ActionLight,
		"space":     ActionLight,
		"gamepad_a": ActionLight,

		"c":         ActionCameras,
		"tab":       ActionCameras,
		"gamepad_y": ActionCameras,

		"arrow_up":           ActionCameraNext,
		"]":                  ActionCameraNext,
		"gamepad_dpad_right": ActionCameraNext,
		"arrow_down":         ActionCameraPrev,
		"[":                  ActionCameraPrev,
		"gamepad_dpad_left":  ActionCameraPrev,

		// Tools
		"n":         ActionLure,
		"gamepad_x": ActionLure,
		"b":         ActionBarricade,
		"h":         ActionHide,
		"gamepad_b": ActionHide,

		// Meta
		"enter":         ActionConfirm,
		"gamepad_start": ActionConfirm,
		"p":             ActionPause,
		"escape":        ActionPause,
		"gamepad_back":  ActionPause,
		"r":             ActionRestart,
		"m":             ActionMenu,
		"?":             ActionHint,
		"q":             ActionQuit,
		"ctrl_c":        ActionQuit,
		"f12":           ActionScreenshot,
		"f9":            ActionDumpGraph,
	}
}

// reserved codes cannot be rebound or unbound.
var reserved = map[string]bool{
	"enter":  true,
	"ctrl_c": true,
}

// MapToIntent is the 3rd+4th layer: it applies the bindings to a debounced
// input and returns a high‑level Intent. Digit keys always select.
func (b Bindings) MapToIntent(ev DebouncedInput) Intent {
	if n, err := strconv.Atoi(ev.Code); err == nil && n >= 1 && n <= 9 {
		return Intent{Action: ActionSelect, Index: n}
	}
	if act, ok := b[ev.Code]; ok {
		return Intent{Action: act}
	}
	return Intent{Action: ActionNone}
}

// Map runs a raw event through every layer.
func (b Bindings) Map(raw RawInput) Intent {
	return b.MapToIntent(NewDebouncedInput(raw))
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionDoorLeft:
		return "Left Door"
	case ActionDoorRight:
		return "Right Door"
	case ActionLight:
		return "Flashlight"
	case ActionCameras:
		return "Cameras"
	case ActionCameraNext:
		return "Next Camera"
	case ActionCameraPrev:
		return "Previous Camera"
	case ActionLure:
		return "Noise Maker"
	case ActionBarricade:
		return "Barricade"
	case ActionHide:
		return "Hide"
	case ActionSelect:
		return "Select"
	case ActionConfirm:
		return "Confirm"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart Night"
	case ActionMenu:
		return "Menu"
	case ActionHint:
		return "Hint"
	case ActionQuit:
		return "Quit"
	case ActionScreenshot:
		return "Screenshot"
	case ActionDumpGraph:
		return "Dump Map"
	default:
		return "None"
	}
}

// ByAction returns the bindings grouped by action.
func (b Bindings) ByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range b {
		result[act] = append(result[act], code)
	}
	// Stable ordering so help text doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// SetSingleBinding replaces all bindings for the given action with a single code.
func (b Bindings) SetSingleBinding(action Action, code string) {
	for c, a := range b {
		if reserved[c] {
			continue
		}
		if a == action {
			delete(b, c)
		}
	}
	if code != "" && !reserved[code] {
		b[code] = action
	}
}

// ActionKey is the config name of an action: its display name in snake case.
func ActionKey(a Action) string {
	return strings.ReplaceAll(strings.ToLower(ActionName(a)), " ", "_")
}

// ParseAction looks an action up by its config name.
func ParseAction(key string) (Action, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for a := ActionDoorLeft; a <= ActionDumpGraph; a++ {
		if a != ActionSelect && ActionKey(a) == key {
			return a, true
		}
	}
	return ActionNone, false
}

// Apply rebinds actions from a config map of action name to key code.
// Known names are applied even when others are rejected.
func (b Bindings) Apply(keys map[string]string) error {
	var unknown []string
	for name, code := range keys {
		act, ok := ParseAction(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		b.SetSingleBinding(act, strings.ToLower(code))
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown actions in key bindings: %s", strings.Join(unknown, ", "))
	}
	return nil
}
