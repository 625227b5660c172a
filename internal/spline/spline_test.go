package spline

import (
	"testing"

	"kinematic3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestLinearEvaluate(t *testing.T) {
	s := Linear(rl.Vector3{}, rl.Vector3{X: 3}, rl.Vector3{X: 3, Z: 3})

	assert.Equal(t, 2, s.SegmentCount())
	assert.InDelta(t, 0, s.Evaluate(0).X, 1e-5)
	assert.InDelta(t, 3, s.Evaluate(0.5).X, 1e-5)
	end := s.Evaluate(1)
	assert.InDelta(t, 3, end.X, 1e-5)
	assert.InDelta(t, 3, end.Z, 1e-5)
	assert.InDelta(t, 6, s.Length(), 1e-3)
}

func TestNearestPoint(t *testing.T) {
	s := Linear(rl.Vector3{X: -5}, rl.Vector3{X: 5})

	nearest, param := s.NearestPoint(rl.Vector3{X: 1.25, Y: 2}, DefaultResolution, DefaultIterations)
	assert.InDelta(t, 1.25, nearest.X, 1e-3)
	assert.InDelta(t, 0, nearest.Y, 1e-5)
	assert.InDelta(t, 0.625, param, 1e-3)

	// Past the end clamps to the last knot.
	nearest, _ = s.NearestPoint(rl.Vector3{X: 9}, DefaultResolution, DefaultIterations)
	assert.InDelta(t, 5, nearest.X, 1e-4)
}

func TestWorldNearestPoint(t *testing.T) {
	g := engine.NewGameObject("rail")
	g.Transform.Position = rl.Vector3{Y: 10}
	s := Linear(rl.Vector3{X: -5}, rl.Vector3{X: 5})
	g.AddComponent(s)

	nearest, _ := s.WorldNearestPoint(rl.Vector3{X: 2, Y: 12})
	assert.InDelta(t, 2, nearest.X, 1e-3)
	assert.InDelta(t, 10, nearest.Y, 1e-4)
}

func TestTangentDirection(t *testing.T) {
	s := Linear(rl.Vector3{}, rl.Vector3{Z: 6})
	tangent := rl.Vector3Normalize(s.Tangent(0.3))
	assert.InDelta(t, 1, tangent.Z, 1e-4)
}
