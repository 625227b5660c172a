package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var nextUID atomic.Uint64

// Transform is a world-space pose. Rotation is a unit quaternion.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

// NewTransform returns a transform at the origin with identity rotation and unit scale.
func NewTransform() Transform {
	return Transform{
		Rotation: rl.QuaternionIdentity(),
		Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
	}
}

func (t Transform) Up() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(WorldUp, t.Rotation)
}

func (t Transform) Forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(WorldForward, t.Rotation)
}

func (t Transform) Right() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(WorldRight, t.Rotation)
}

// TransformDirection rotates a local direction into world space.
func (t Transform) TransformDirection(v rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, t.Rotation)
}

// InverseTransformDirection rotates a world direction into local space.
func (t Transform) InverseTransformDirection(v rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, rl.QuaternionInvert(t.Rotation))
}

// TransformPoint maps a local point (scaled, rotated, translated) into world space.
func (t Transform) TransformPoint(p rl.Vector3) rl.Vector3 {
	scaled := rl.Vector3Multiply(p, t.Scale)
	return rl.Vector3Add(t.Position, rl.Vector3RotateByQuaternion(scaled, t.Rotation))
}

// InverseTransformPoint maps a world point into local space.
func (t Transform) InverseTransformPoint(p rl.Vector3) rl.Vector3 {
	local := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(p, t.Position), rl.QuaternionInvert(t.Rotation))
	return rl.Vector3{
		X: safeDiv(local.X, t.Scale.X),
		Y: safeDiv(local.Y, t.Scale.Y),
		Z: safeDiv(local.Z, t.Scale.Z),
	}
}

// Space selects the frame a direction or rotation is expressed in.
type Space int

const (
	SelfSpace Space = iota
	WorldSpace
)

// Rotate applies a world-space rotation on top of the current one.
func (t *Transform) Rotate(q rl.Quaternion) {
	t.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(q, t.Rotation))
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Layer is a collision layer index in [0, 31].
type Layer uint8

// Mask returns the layer as a bit in a LayerMask.
func (l Layer) Mask() LayerMask {
	return LayerMask(1) << l
}

// LayerMask selects a set of layers.
type LayerMask uint32

const (
	DefaultLayer Layer = 0
	// IgnoreRaycastLayer is excluded from DefaultMask.
	IgnoreRaycastLayer Layer = 2

	AllLayers LayerMask = 0xFFFFFFFF
	// DefaultMask is every layer except IgnoreRaycastLayer.
	DefaultMask LayerMask = AllLayers &^ (LayerMask(1) << IgnoreRaycastLayer)
)

// Contains reports whether the layer is selected by the mask.
func (m LayerMask) Contains(l Layer) bool {
	return m&l.Mask() != 0
}

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Layer      Layer
	Static     bool
	Transform  Transform
	Active     bool
	Scene      *Scene
	components []Component
	started    bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:        nextUID.Add(1),
		Name:       name,
		Active:     true,
		Transform:  NewTransform(),
		components: make([]Component, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T any](g *GameObject) T {
	var zero T
	if g == nil {
		return zero
	}
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

// GetComponents returns every component of type T in insertion order.
func GetComponents[T any](g *GameObject) []T {
	if g == nil {
		return nil
	}
	var result []T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
