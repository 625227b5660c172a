package physics

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
)

// Spatial grid cell size - static colliders are bucketed by the cells their bounds cover
const CellSize = 5.0

// maxCellsPerQuery bounds the grid walk; larger queries scan every static.
const maxCellsPerQuery = 512

// Cell key for spatial hashing
type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3) CellKey {
	return CellKey{
		X: floorDiv(pos.X),
		Y: floorDiv(pos.Y),
		Z: floorDiv(pos.Z),
	}
}

func floorDiv(v float32) int {
	c := v / CellSize
	i := int(c)
	if c < 0 && float32(i) != c {
		i--
	}
	return i
}

type entry struct {
	obj      *engine.GameObject
	collider components.Collider
	stamp    uint64
}

// World is an in-memory Query over GameObjects with collider components.
// Static objects are hashed into a grid when added; everything else is
// tested every query since it may move between ticks.
type World struct {
	statics  []*entry
	dynamics []*entry
	grid     map[CellKey][]*entry
	stamp    uint64

	triggers triggerState
	log      zerolog.Logger
}

var _ Query = (*World)(nil)

func NewWorld(log zerolog.Logger) *World {
	return &World{
		grid: make(map[CellKey][]*entry),
		log:  log,
	}
}

// AddObject registers every collider on g.
func (w *World) AddObject(g *engine.GameObject) {
	for _, c := range engine.GetComponents[components.Collider](g) {
		e := &entry{obj: g, collider: c}
		if g.Static {
			w.statics = append(w.statics, e)
			w.insert(e)
		} else {
			w.dynamics = append(w.dynamics, e)
		}
	}
}

// AddScene registers every GameObject of the scene.
func (w *World) AddScene(s *engine.Scene) {
	for _, g := range s.GameObjects {
		w.AddObject(g)
	}
	w.log.Debug().Int("statics", len(w.statics)).Int("dynamics", len(w.dynamics)).Msg("physics world populated")
}

func (w *World) RemoveObject(g *engine.GameObject) {
	w.statics = removeEntries(w.statics, g)
	w.dynamics = removeEntries(w.dynamics, g)
	w.triggers.forget(g)
	w.rebuildGrid()
}

func removeEntries(list []*entry, g *engine.GameObject) []*entry {
	kept := list[:0]
	for _, e := range list {
		if e.obj != g {
			kept = append(kept, e)
		}
	}
	return kept
}

// Refresh rehashes static colliders. Call it after moving a static object.
func (w *World) Refresh() {
	w.rebuildGrid()
}

// rebuildGrid clears and repopulates the spatial hash grid
func (w *World) rebuildGrid() {
	for k := range w.grid {
		delete(w.grid, k)
	}
	for _, e := range w.statics {
		w.insert(e)
	}
}

func (w *World) insert(e *entry) {
	b := e.collider.Shape().Bounds()
	lo, hi := posToCell(b.Min), posToCell(b.Max)
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				key := CellKey{x, y, z}
				w.grid[key] = append(w.grid[key], e)
			}
		}
	}
}

// candidates returns every entry whose bounds may intersect area and that
// passes the layer and trigger filters.
func (w *World) candidates(area geom.AABB, mask engine.LayerMask, triggers QueryTriggers) []*entry {
	w.stamp++
	var out []*entry
	consider := func(e *entry) {
		if e.stamp == w.stamp {
			return
		}
		e.stamp = w.stamp
		if !accepts(e, mask, triggers) {
			return
		}
		if !e.collider.Shape().Bounds().Intersects(area) {
			return
		}
		out = append(out, e)
	}

	lo, hi := posToCell(area.Min), posToCell(area.Max)
	cells := (hi.X - lo.X + 1) * (hi.Y - lo.Y + 1) * (hi.Z - lo.Z + 1)
	if cells > maxCellsPerQuery || cells <= 0 {
		for _, e := range w.statics {
			consider(e)
		}
	} else {
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					for _, e := range w.grid[CellKey{x, y, z}] {
						consider(e)
					}
				}
			}
		}
	}
	for _, e := range w.dynamics {
		consider(e)
	}
	return out
}

func accepts(e *entry, mask engine.LayerMask, triggers QueryTriggers) bool {
	if !e.obj.Active {
		return false
	}
	if !mask.Contains(e.obj.Layer) {
		return false
	}
	if e.collider.IsTrigger() && triggers == IgnoreTriggers {
		return false
	}
	return true
}

// sweptBounds covers a capsule core inflated by radius along its whole path.
func sweptBounds(seg geom.Segment, radius float32, dir rl.Vector3, distance float32) geom.AABB {
	start := geom.Capsule{A: seg.A, B: seg.B, Radius: radius}.Bounds()
	end := start.Translate(rl.Vector3Scale(dir, distance))
	return start.Union(end)
}
