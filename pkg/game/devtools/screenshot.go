package devtools

import (
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"nightshift/pkg/game/renderer"
	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/session"
)

// SaveScreenshotHTML saves the current HUD as an HTML file and returns its name.
func SaveScreenshotHTML(v session.View) (string, error) {
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("screenshot-%s.html", timestamp)

	if err := os.WriteFile(filename, []byte(ScreenshotHTML(v)), 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

// ScreenshotHTML renders a view as a standalone HTML page.
func ScreenshotHTML(v session.View) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Night Shift - Screenshot</title>
    <style>
        body {
            background-color: #1a1a2e;
            color: #eee;
            font-family: 'Courier New', monospace;
            padding: 20px;
        }
        .header { color: #bb86fc; font-size: 18px; margin-bottom: 10px; }
        .panel {
            background-color: #0f0f1a;
            padding: 20px;
            border-radius: 8px;
            display: inline-block;
            margin: 10px 0;
            white-space: pre;
        }
        .good { color: #00aa00; }
        .warning { color: #ffdc64; }
        .danger { color: #ff4444; font-weight: bold; }
        .subtle { color: #666; }
        .messages { margin-top: 20px; border-top: 1px solid #333; padding-top: 10px; }
        .message { color: #ccc; margin: 5px 0; }
    </style>
</head>
<body>
`)

	fmt.Fprintf(&b, `    <div class="header">Night %d &middot; %s &middot; %s</div>`+"\n",
		v.Night, html.EscapeString(v.Clock), html.EscapeString(v.Phase.String()))

	b.WriteString(`    <div class="panel">`)
	fmt.Fprintf(&b, "Power  <span class=\"%s\">%s %5.1f%%</span>\n",
		styleClass(renderer.PowerStyle(v.Power)), renderer.Bar(v.Power, resources.MaxPower, 20), v.Power)
	fmt.Fprintf(&b, "Threat <span class=\"%s\">%s %3d</span>\n",
		styleClass(renderer.ThreatStyle(v.Threat)), renderer.Bar(float64(v.Threat), 100, 20), v.Threat)
	fmt.Fprintf(&b, "Left   %s\n", html.EscapeString(renderer.DoorLabel(v.Doors[resources.Left])))
	fmt.Fprintf(&b, "Right  %s\n", html.EscapeString(renderer.DoorLabel(v.Doors[resources.Right])))
	if v.CamerasOpen {
		fmt.Fprintf(&b, "Camera %s\n", html.EscapeString(string(v.CameraFeed)))
	}
	b.WriteString("</div>\n")

	b.WriteString(`    <div class="panel">`)
	if len(v.Agents) == 0 {
		b.WriteString(`<span class="subtle">(no one)</span>`)
	}
	for _, a := range v.Agents {
		look := renderer.AppearanceOf(a.Kind)
		fmt.Fprintf(&b, "<span style=\"color:#%02x%02x%02x\">%s</span> %-16s %-14s %s\n",
			look.Color.R, look.Color.G, look.Color.B, html.EscapeString(look.Glyph),
			html.EscapeString(a.Name), html.EscapeString(string(a.Room)), a.State)
	}
	b.WriteString("</div>\n")

	b.WriteString(`    <div class="messages">` + "\n")
	for _, msg := range v.Events {
		fmt.Fprintf(&b, `        <div class="message">%s</div>`+"\n", html.EscapeString(msg))
	}
	b.WriteString("    </div>\n")

	b.WriteString(`    <div class="subtle">Captured ` + time.Now().Format("2006-01-02 15:04:05") + "</div>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func styleClass(s renderer.TextStyle) string {
	switch s {
	case renderer.StyleGood:
		return "good"
	case renderer.StyleWarning:
		return "warning"
	case renderer.StyleDanger:
		return "danger"
	default:
		return "subtle"
	}
}
