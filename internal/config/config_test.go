package config

import (
	"os"
	"path/filepath"
	"testing"

	"kinematic3d/internal/controller"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/sim"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	s, err := Load(writeFile(t, "tunables.json", `{}`))
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, 50, s.Sim.TickRate)
	assert.Equal(t, 500, s.Sim.MaxTicks)
	assert.Equal(t, controller.DefaultConfig(), s.ControllerConfig())
	assert.Equal(t, entity.DefaultConfig(), s.EntityConfig())
	assert.Equal(t, sim.DefaultFieldDefaults(), s.FieldDefaults())
	assert.Equal(t, sim.DefaultTunables(), s.Tunables())
	assert.Equal(t, Default(), s)
}

func TestDefault_PanicsOnUndecodableDefaults(t *testing.T) {
	assert.NotPanics(t, func() { Default() })

	v := viper.New()
	setDefaults(v)
	v.Set("sim.tickRate", "fast")
	require.Error(t, v.Unmarshal(&Settings{}))
	assert.Panics(t, func() { mustDecode(v) })
}

func TestLoad_JSONOverrides(t *testing.T) {
	s, err := Load(writeFile(t, "tunables.json", `{
		"logLevel": "debug",
		"controller": {"radius": 0.4, "slopeLimit": 50, "collisionLayer": 3},
		"entity": {"rotateToGround": true, "maxCeilingAngle": 30},
		"gravity": {"ignoreDuration": 1.5, "lockDuration": 0.2, "detachOnExit": true},
		"sim": {"tickRate": 60},
		"player": {"jumpSpeed": 12}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel)

	c := s.ControllerConfig()
	assert.InDelta(t, 0.4, c.Radius, 1e-6)
	assert.InDelta(t, 50, c.SlopeLimit, 1e-6)
	assert.InDelta(t, 2, c.Height, 1e-6)
	assert.Equal(t, engine.LayerMask(3), c.CollisionLayer)

	e := s.EntityConfig()
	assert.True(t, e.RotateToGround)
	assert.InDelta(t, 30, e.MaxCeilingAngle, 1e-6)
	assert.InDelta(t, 0.2, e.GravityLockDuration, 1e-6)
	assert.Equal(t, c, e.Controller)

	f := s.FieldDefaults()
	assert.InDelta(t, 1.5, f.IgnoreDuration, 1e-6)
	assert.True(t, f.DetachOnExit)
	assert.False(t, f.ResetRotationOnDetach)

	assert.InDelta(t, 12, s.Tunables().JumpSpeed, 1e-6)
	assert.InDelta(t, 38, s.Tunables().Gravity, 1e-6)
	assert.InDelta(t, 1.0/60, s.TickDelta(), 1e-6)
}

func TestLoad_YAML(t *testing.T) {
	s, err := Load(writeFile(t, "tunables.yaml", "controller:\n  stepOffset: 0.5\nsim:\n  maxTicks: 10\n"))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.Controller.StepOffset, 1e-6)
	assert.Equal(t, 10, s.Sim.MaxTicks)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestApply(t *testing.T) {
	s := Default()
	s.Player.TopSpeed = 9
	s.Gravity.ResetRotationOnDetach = true

	w, err := sim.NewWorld(zerolog.Nop())
	require.NoError(t, err)
	s.Apply(w)
	assert.InDelta(t, 9, w.Tunables.TopSpeed, 1e-6)
	assert.True(t, w.Fields.ResetRotationOnDetach)
	assert.Equal(t, s.EntityConfig(), w.EntityConfig)
}

func TestTickDeltaFallback(t *testing.T) {
	s := Default()
	s.Sim.TickRate = 0
	assert.InDelta(t, 0.02, s.TickDelta(), 1e-6)
}
