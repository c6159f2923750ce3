package world

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Room names a node in the room graph.
type Room string

// Rooms of the default school map.
const (
	Office       Room = "Office"
	WestHall     Room = "West Hall"
	EastHall     Room = "East Hall"
	Cafeteria    Room = "Cafeteria"
	DiningArea   Room = "Dining Area"
	Stage        Room = "Stage"
	Backstage    Room = "Backstage"
	Kitchen      Room = "Kitchen"
	Gym          Room = "Gym"
	Library      Room = "Library"
	Bathrooms    Room = "Bathrooms"
	Vent         Room = "Vent"
	SupplyCloset Room = "Supply Closet"
	Restrooms    Room = "Restrooms"
)

// Unreachable is the distance reported between rooms with no connecting path.
// It is larger than the diameter of any graph this package builds.
const Unreachable = 999

// RoomSet is a set of rooms.
type RoomSet = mapset.Set[Room]

// RoomGraph is an immutable undirected adjacency map.
type RoomGraph struct {
	adjacent map[Room]RoomSet
	// ordered keeps neighbours in declaration order so iteration is stable.
	ordered map[Room][]Room
	rooms   []Room
	office  Room
}

// Adjacency is one room and the rooms declared next to it.
type Adjacency struct {
	Room      Room
	Neighbors []Room
}

// NewRoomGraph builds a graph from adjacency declarations. Every edge is made
// symmetric, so declaring a link once from either side is enough.
func NewRoomGraph(office Room, decls []Adjacency) *RoomGraph {
	g := &RoomGraph{
		adjacent: make(map[Room]RoomSet),
		ordered:  make(map[Room][]Room),
		office:   office,
	}

	for _, d := range decls {
		g.addRoom(d.Room)
		for _, n := range d.Neighbors {
			g.addRoom(n)
			g.link(d.Room, n)
			g.link(n, d.Room)
		}
	}
	return g
}

func (g *RoomGraph) addRoom(r Room) {
	if _, ok := g.adjacent[r]; ok {
		return
	}
	g.adjacent[r] = mapset.New[Room]()
	g.rooms = append(g.rooms, r)
}

func (g *RoomGraph) link(a, b Room) {
	if a == b || g.adjacent[a].Has(b) {
		return
	}
	g.adjacent[a].Put(b)
	g.ordered[a] = append(g.ordered[a], b)
}

// Office returns the room agents are trying to reach.
func (g *RoomGraph) Office() Room {
	return g.office
}

// Rooms returns every room in declaration order.
func (g *RoomGraph) Rooms() []Room {
	out := make([]Room, len(g.rooms))
	copy(out, g.rooms)
	return out
}

// Has reports whether r is a node of the graph.
func (g *RoomGraph) Has(r Room) bool {
	_, ok := g.adjacent[r]
	return ok
}

// Neighbors returns the set of rooms adjacent to r. Unknown rooms have no neighbours.
func (g *RoomGraph) Neighbors(r Room) RoomSet {
	out := mapset.New[Room]()
	for _, n := range g.ordered[r] {
		out.Put(n)
	}
	return out
}

// NeighborList returns the neighbours of r in a stable order.
func (g *RoomGraph) NeighborList(r Room) []Room {
	ns := g.ordered[r]
	out := make([]Room, len(ns))
	copy(out, ns)
	return out
}

// Adjacent reports whether a and b share an edge.
func (g *RoomGraph) Adjacent(a, b Room) bool {
	set, ok := g.adjacent[a]
	return ok && set.Has(b)
}

// EntryHalls returns the rooms directly adjacent to the office.
func (g *RoomGraph) EntryHalls() []Room {
	return g.NeighborList(g.office)
}

// IsEntryHall reports whether r is directly adjacent to the office.
func (g *RoomGraph) IsEntryHall(r Room) bool {
	return r != g.office && g.Adjacent(g.office, r)
}

// Distance returns the number of edges on the shortest path from a to b,
// or Unreachable if no path exists.
func (g *RoomGraph) Distance(a, b Room) int {
	if a == b {
		return 0
	}
	if !g.Has(a) || !g.Has(b) {
		return Unreachable
	}

	type step struct {
		room Room
		dist int
	}

	visited := mapset.New[Room]()
	visited.Put(a)
	queue := []step{{a, 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range g.ordered[current.room] {
			if n == b {
				return current.dist + 1
			}
			if visited.Has(n) {
				continue
			}
			visited.Put(n)
			queue = append(queue, step{n, current.dist + 1})
		}
	}

	return Unreachable
}

// StepToward returns the neighbour of from that is strictly closer to target.
// Ties keep declaration order. If target is adjacent it is returned directly.
// The second result is false when no neighbour improves on from.
func (g *RoomGraph) StepToward(from, target Room) (Room, bool) {
	if from == target || !g.Has(from) {
		return from, false
	}
	if g.Adjacent(from, target) {
		return target, true
	}

	best := from
	bestDist := g.Distance(from, target)
	for _, n := range g.ordered[from] {
		if d := g.Distance(n, target); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, best != from
}

// Validate checks the structural invariants: every room is reachable from
// the office and the office has at least one entry hall.
func (g *RoomGraph) Validate() error {
	if !g.Has(g.office) {
		return fmt.Errorf("office %q is not in the graph", g.office)
	}
	if len(g.ordered[g.office]) == 0 {
		return errors.New("office has no entry halls")
	}
	for _, r := range g.rooms {
		if g.Distance(g.office, r) == Unreachable {
			return fmt.Errorf("room %q is not connected to the office", r)
		}
	}
	return nil
}

var defaultDecls = []Adjacency{
	{Office, []Room{WestHall, EastHall}},
	{WestHall, []Room{Office, Cafeteria, Gym, SupplyCloset}},
	{EastHall, []Room{Office, Library, Bathrooms, Restrooms}},
	{Cafeteria, []Room{WestHall, DiningArea, Library}},
	{DiningArea, []Room{Cafeteria, Stage, Kitchen}},
	{Stage, []Room{DiningArea, Backstage}},
	{Backstage, []Room{Stage, Kitchen}},
	{Kitchen, []Room{DiningArea, Backstage, EastHall}},
	{Gym, []Room{WestHall, Cafeteria}},
	{Library, []Room{Cafeteria, EastHall, Bathrooms}},
	{Bathrooms, []Room{Library, EastHall, Vent}},
	{Vent, []Room{Bathrooms, Restrooms}},
	{SupplyCloset, []Room{WestHall}},
	{Restrooms, []Room{EastHall, Vent}},
}

// DefaultSchool returns the school map the game ships with.
func DefaultSchool() *RoomGraph {
	return NewRoomGraph(Office, defaultDecls)
}
