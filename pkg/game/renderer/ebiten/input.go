package ebiten

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	engineinput "nightshift/pkg/engine/input"
	"nightshift/pkg/game/gameplay"
	"nightshift/pkg/game/renderer"
	"nightshift/pkg/game/state"
)

// keyCodes maps Ebiten keys onto the raw codes the bindings use.
var keyCodes = map[ebiten.Key]string{
	ebiten.KeyA: "a", ebiten.KeyB: "b", ebiten.KeyC: "c", ebiten.KeyD: "d",
	ebiten.KeyF: "f", ebiten.KeyH: "h", ebiten.KeyM: "m", ebiten.KeyN: "n",
	ebiten.KeyP: "p", ebiten.KeyQ: "q", ebiten.KeyR: "r",

	ebiten.Key1: "1", ebiten.Key2: "2", ebiten.Key3: "3",
	ebiten.Key4: "4", ebiten.Key5: "5", ebiten.Key6: "6",
	ebiten.Key7: "7", ebiten.Key8: "8", ebiten.Key9: "9",

	ebiten.KeyArrowUp:      "arrow_up",
	ebiten.KeyArrowDown:    "arrow_down",
	ebiten.KeyArrowLeft:    "arrow_left",
	ebiten.KeyArrowRight:   "arrow_right",
	ebiten.KeyBracketLeft:  "[",
	ebiten.KeyBracketRight: "]",
	ebiten.KeySpace:        "space",
	ebiten.KeyTab:          "tab",
	ebiten.KeyEnter:        "enter",
	ebiten.KeyNumpadEnter:  "enter",
	ebiten.KeyEscape:       "escape",
	ebiten.KeyF9:           "f9",
	ebiten.KeyF12:          "f12",
}

// gamepadCodes maps standard-layout buttons onto raw codes.
var gamepadCodes = map[ebiten.StandardGamepadButton]string{
	ebiten.StandardGamepadButtonRightBottom:   "gamepad_a",
	ebiten.StandardGamepadButtonRightRight:    "gamepad_b",
	ebiten.StandardGamepadButtonRightLeft:     "gamepad_x",
	ebiten.StandardGamepadButtonRightTop:      "gamepad_y",
	ebiten.StandardGamepadButtonFrontTopLeft:  "gamepad_lb",
	ebiten.StandardGamepadButtonFrontTopRight: "gamepad_rb",
	ebiten.StandardGamepadButtonLeftLeft:      "gamepad_dpad_left",
	ebiten.StandardGamepadButtonLeftRight:     "gamepad_dpad_right",
	ebiten.StandardGamepadButtonCenterRight:   "gamepad_start",
	ebiten.StandardGamepadButtonCenterLeft:    "gamepad_back",
}

// Update handles input and steps the session (Ebiten interface)
func (e *EbitenRenderer) Update() error {
	// Log window opening on first update (confirms window is actually running)
	if !e.windowOpenedLogged {
		e.windowOpenedLogged = true
		w, h := ebiten.WindowSize()
		e.logger.Info("main window opened", zap.Int("width", w), zap.Int("height", h))
	}

	e.handleZoom()

	for _, intent := range append(e.checkGamepadInput(), e.checkInput()...) {
		if gameplay.ProcessIntent(e.session, intent) == gameplay.Quit {
			e.quit = true
		}
	}
	if e.quit {
		return ebiten.Termination
	}

	e.session.Update(1 / float64(ebiten.TPS()))

	for _, c := range e.session.DrainCues() {
		e.ShowMessage(renderer.CueText(c))
	}

	v := e.session.View()
	if v.Phase == state.Jumpscare && e.view.Phase != state.Jumpscare {
		e.jumpscareStart = time.Now().UnixMilli()
	}
	e.RenderFrame(v)
	return nil
}

// handleZoom handles =/- for font size adjustment
func (e *EbitenRenderer) handleZoom() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		e.fontSize = min(maxFontSize, e.fontSize+fontSizeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		e.fontSize = max(minFontSize, e.fontSize-fontSizeStep)
	case inpututil.IsKeyJustPressed(ebiten.Key0) || inpututil.IsKeyJustPressed(ebiten.KeyNumpad0):
		e.fontSize = defaultFontSize
	}
}

// checkGamepadInput returns intents for buttons pressed this tick.
// Only gamepads with a standard layout are read.
func (e *EbitenRenderer) checkGamepadInput() []engineinput.Intent {
	var intents []engineinput.Intent
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for button, code := range gamepadCodes {
			if inpututil.IsStandardGamepadButtonJustPressed(id, button) {
				intents = append(intents, e.intent(engineinput.DeviceGamepad, code))
			}
		}
	}
	return intents
}

// checkInput returns intents for keys pressed this tick.
func (e *EbitenRenderer) checkInput() []engineinput.Intent {
	var intents []engineinput.Intent
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		code, ok := keyCodes[key]
		switch {
		case key == ebiten.KeyC && ctrl:
			code, ok = "ctrl_c", true
		case key == ebiten.KeySlash && shift:
			code, ok = "?", true
		}
		if !ok {
			continue
		}
		intents = append(intents, e.intent(engineinput.DeviceKeyboard, code))
	}
	return intents
}

func (e *EbitenRenderer) intent(device engineinput.Device, code string) engineinput.Intent {
	return e.bindings.Map(engineinput.RawInput{
		Device:    device,
		Code:      code,
		Timestamp: time.Now(),
	})
}
