package platform

import (
	"fmt"
	"strings"

	"kinematic3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// WaypointMode decides what follows the last waypoint.
type WaypointMode int

const (
	Loop WaypointMode = iota
	PingPong
	Once
)

var waypointModeNames = map[WaypointMode]string{
	Loop:     "loop",
	PingPong: "pingpong",
	Once:     "once",
}

func (m WaypointMode) String() string {
	if name, ok := waypointModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("WaypointMode(%d)", int(m))
}

// ParseWaypointMode accepts the names printed by String.
func ParseWaypointMode(name string) (WaypointMode, error) {
	for m, n := range waypointModeNames {
		if strings.EqualFold(n, name) {
			return m, nil
		}
	}
	return Loop, fmt.Errorf("unknown waypoint mode %q", name)
}

type Waypoint struct {
	Position rl.Vector3
	Rotation rl.Quaternion
}

// Waypoints walks a list of poses. Advancing waits WaitTime seconds of
// simulation time before the next waypoint becomes current.
type Waypoints struct {
	Mode     WaypointMode
	WaitTime float32
	Points   []Waypoint

	scheduler *engine.Scheduler
	current   int
	previous  int
	pong      bool
	changing  bool
}

// NewWaypoints panics when points is empty.
func NewWaypoints(scheduler *engine.Scheduler, mode WaypointMode, points ...Waypoint) *Waypoints {
	if len(points) == 0 {
		panic("platform: waypoints need at least one point")
	}
	return &Waypoints{Mode: mode, Points: points, scheduler: scheduler}
}

func (w *Waypoints) Current() Waypoint {
	return w.Points[w.current]
}

func (w *Waypoints) Previous() Waypoint {
	return w.Points[w.previous]
}

func (w *Waypoints) Index() int {
	return w.current
}

// Changing reports whether a change is waiting out WaitTime.
func (w *Waypoints) Changing() bool {
	return w.changing
}

// Next schedules the move to the following waypoint. Calls made while a
// change is pending are ignored.
func (w *Waypoints) Next() {
	if w.changing {
		return
	}

	count := len(w.Points)
	switch w.Mode {
	case PingPong:
		if !w.pong {
			w.pong = w.current+1 == count
		} else {
			w.pong = w.current-1 >= 0
		}
		next := w.current + 1
		if w.pong {
			next = w.current - 1
		}
		w.change(next)
	case Loop:
		w.change((w.current + 1) % count)
	case Once:
		if w.current+1 < count {
			w.change(w.current + 1)
		}
	}
}

func (w *Waypoints) change(to int) {
	if to < 0 || to >= len(w.Points) {
		return
	}
	w.changing = true
	w.scheduler.After(w.WaitTime, func() {
		w.previous = w.current
		w.current = to
		w.changing = false
	})
}
