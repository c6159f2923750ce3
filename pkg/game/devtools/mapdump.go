package devtools

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/session"
)

const graphDumpFilename = "graph.txt"

// DumpGraphToFile writes WriteGraph's output to graph.txt in the working
// directory and returns its absolute path.
func DumpGraphToFile(s *session.Session) (string, error) {
	absPath, err := filepath.Abs(graphDumpFilename)
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteGraph(f, s); err != nil {
		return "", err
	}
	return absPath, nil
}

// WriteGraph writes a debug dump of the room graph and where everyone is:
// metadata, adjacency with distances to the office, camera coverage and
// agents. Sections use key: value lines so the dump diffs cleanly.
func WriteGraph(w io.Writer, s *session.Session) error {
	g := s.Graph()
	if g == nil {
		return fmt.Errorf("no room graph")
	}
	v := s.View()
	b := &strings.Builder{}

	fmt.Fprintln(b, "=== ROOM GRAPH DUMP ===")
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "--- Metadata ---")
	fmt.Fprintf(b, "run: %s\n", s.RunID())
	fmt.Fprintf(b, "seed: %d\n", s.Seed())
	fmt.Fprintf(b, "phase: %s\n", v.Phase)
	fmt.Fprintf(b, "night: %d\n", v.Night)
	if v.Clock != "" {
		fmt.Fprintf(b, "clock: %s\n", v.Clock)
		fmt.Fprintf(b, "power: %.1f\n", v.Power)
		if v.Emergency {
			fmt.Fprintf(b, "emergency: %.1fs reserve: %.1f\n", v.EmergencyLeft, v.Reserve)
		}
		fmt.Fprintf(b, "threat: %d\n", v.Threat)
		fmt.Fprintf(b, "office_attackers: %d/%d\n", v.OfficeCount, v.MaxAttackers)
	}
	fmt.Fprintln(b, "")

	fmt.Fprintln(b, "--- Rooms (adjacency, distance to office) ---")
	office := g.Office()
	for _, r := range g.Rooms() {
		var marks []string
		if r == office {
			marks = append(marks, "office")
		}
		if g.IsEntryHall(r) {
			marks = append(marks, "entry")
		}
		for _, feed := range v.CameraFeeds {
			if feed == r {
				marks = append(marks, "camera")
				break
			}
		}
		fmt.Fprintf(b, "  %q distance: %d neighbors: %s", r, g.Distance(r, office), joinRooms(g.NeighborList(r)))
		if len(marks) > 0 {
			fmt.Fprintf(b, " [%s]", strings.Join(marks, ","))
		}
		fmt.Fprintln(b)
	}
	fmt.Fprintln(b, "")

	fmt.Fprintln(b, "--- Agents ---")
	if len(v.Agents) == 0 {
		fmt.Fprintln(b, "  (none)")
	}
	for _, a := range v.Agents {
		fmt.Fprintf(b, "  name: %q room: %q state: %s mood: %s side: %s windup: %.2f on_camera: %v\n",
			a.Name, a.Room, a.State, a.Mood, a.Side, a.Windup, a.Visible)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func joinRooms(rooms []world.Room) string {
	names := make([]string, len(rooms))
	for i, r := range rooms {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
