// Package config loads movement tunables from a JSON, YAML or TOML file.
package config

import (
	"fmt"

	"kinematic3d/internal/controller"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/sim"

	"github.com/spf13/viper"
)

type ControllerSettings struct {
	Radius         float32 `mapstructure:"radius"`
	Height         float32 `mapstructure:"height"`
	SlopeLimit     float32 `mapstructure:"slopeLimit"`
	StepOffset     float32 `mapstructure:"stepOffset"`
	SkinWidth      float32 `mapstructure:"skinWidth"`
	CollisionLayer uint32  `mapstructure:"collisionLayer"`
}

type EntitySettings struct {
	MinSpeedToFall     float32 `mapstructure:"minSpeedToFall"`
	MaxCeilingAngle    float32 `mapstructure:"maxCeilingAngle"`
	RotateToGround     bool    `mapstructure:"rotateToGround"`
	GroundOffset       float32 `mapstructure:"groundOffset"`
	CeilingOffset      float32 `mapstructure:"ceilingOffset"`
	ContactOffset      float32 `mapstructure:"contactOffset"`
	SlopingGroundAngle float32 `mapstructure:"slopingGroundAngle"`
}

type GravitySettings struct {
	IgnoreDuration        float32 `mapstructure:"ignoreDuration"`
	LockDuration          float32 `mapstructure:"lockDuration"`
	DetachOnExit          bool    `mapstructure:"detachOnExit"`
	ResetRotationOnDetach bool    `mapstructure:"resetRotationOnDetach"`
}

type SimSettings struct {
	// TickRate is in ticks per second.
	TickRate int `mapstructure:"tickRate"`
	MaxTicks int `mapstructure:"maxTicks"`
}

type PlayerSettings struct {
	Gravity         float32 `mapstructure:"gravity"`
	Acceleration    float32 `mapstructure:"acceleration"`
	AirAcceleration float32 `mapstructure:"airAcceleration"`
	TopSpeed        float32 `mapstructure:"topSpeed"`
	Deceleration    float32 `mapstructure:"deceleration"`
	TurningDrag     float32 `mapstructure:"turningDrag"`
	SnapForce       float32 `mapstructure:"snapForce"`
	JumpSpeed       float32 `mapstructure:"jumpSpeed"`
	RotationSpeed   float32 `mapstructure:"rotationSpeed"`
}

// Settings is the whole tunables file.
type Settings struct {
	LogLevel   string             `mapstructure:"logLevel"`
	Controller ControllerSettings `mapstructure:"controller"`
	Entity     EntitySettings     `mapstructure:"entity"`
	Gravity    GravitySettings    `mapstructure:"gravity"`
	Sim        SimSettings        `mapstructure:"sim"`
	Player     PlayerSettings     `mapstructure:"player"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	c := controller.DefaultConfig()
	v.SetDefault("controller.radius", c.Radius)
	v.SetDefault("controller.height", c.Height)
	v.SetDefault("controller.slopeLimit", c.SlopeLimit)
	v.SetDefault("controller.stepOffset", c.StepOffset)
	v.SetDefault("controller.skinWidth", c.SkinWidth)
	v.SetDefault("controller.collisionLayer", uint32(c.CollisionLayer))

	e := entity.DefaultConfig()
	v.SetDefault("entity.minSpeedToFall", e.MinSpeedToFall)
	v.SetDefault("entity.maxCeilingAngle", e.MaxCeilingAngle)
	v.SetDefault("entity.rotateToGround", e.RotateToGround)
	v.SetDefault("entity.groundOffset", e.GroundOffset)
	v.SetDefault("entity.ceilingOffset", e.CeilingOffset)
	v.SetDefault("entity.contactOffset", e.ContactOffset)
	v.SetDefault("entity.slopingGroundAngle", e.SlopingGroundAngle)

	f := sim.DefaultFieldDefaults()
	v.SetDefault("gravity.ignoreDuration", f.IgnoreDuration)
	v.SetDefault("gravity.lockDuration", e.GravityLockDuration)
	v.SetDefault("gravity.detachOnExit", f.DetachOnExit)
	v.SetDefault("gravity.resetRotationOnDetach", f.ResetRotationOnDetach)

	v.SetDefault("sim.tickRate", 50)
	v.SetDefault("sim.maxTicks", 500)

	p := sim.DefaultTunables()
	v.SetDefault("player.gravity", p.Gravity)
	v.SetDefault("player.acceleration", p.Acceleration)
	v.SetDefault("player.airAcceleration", p.AirAcceleration)
	v.SetDefault("player.topSpeed", p.TopSpeed)
	v.SetDefault("player.deceleration", p.Deceleration)
	v.SetDefault("player.turningDrag", p.TurningDrag)
	v.SetDefault("player.snapForce", p.SnapForce)
	v.SetDefault("player.jumpSpeed", p.JumpSpeed)
	v.SetDefault("player.rotationSpeed", p.RotationSpeed)
}

// Default returns the settings used when no file overrides anything. It
// panics if the built-in defaults do not decode into Settings.
func Default() *Settings {
	v := viper.New()
	setDefaults(v)
	return mustDecode(v)
}

func mustDecode(v *viper.Viper) *Settings {
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		panic(fmt.Sprintf("config: decode defaults: %v", err))
	}
	return s
}

// Load reads the tunables file at path. The format follows the extension.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

func (s *Settings) ControllerConfig() controller.Config {
	c := controller.DefaultConfig()
	c.Radius = s.Controller.Radius
	c.Height = s.Controller.Height
	c.SlopeLimit = s.Controller.SlopeLimit
	c.StepOffset = s.Controller.StepOffset
	c.SkinWidth = s.Controller.SkinWidth
	c.CollisionLayer = engine.LayerMask(s.Controller.CollisionLayer)
	return c
}

func (s *Settings) EntityConfig() entity.Config {
	e := entity.DefaultConfig()
	e.Controller = s.ControllerConfig()
	e.MinSpeedToFall = s.Entity.MinSpeedToFall
	e.MaxCeilingAngle = s.Entity.MaxCeilingAngle
	e.RotateToGround = s.Entity.RotateToGround
	e.GroundOffset = s.Entity.GroundOffset
	e.CeilingOffset = s.Entity.CeilingOffset
	e.ContactOffset = s.Entity.ContactOffset
	e.SlopingGroundAngle = s.Entity.SlopingGroundAngle
	e.GravityLockDuration = s.Gravity.LockDuration
	return e
}

func (s *Settings) FieldDefaults() sim.FieldDefaults {
	return sim.FieldDefaults{
		IgnoreDuration:        s.Gravity.IgnoreDuration,
		DetachOnExit:          s.Gravity.DetachOnExit,
		ResetRotationOnDetach: s.Gravity.ResetRotationOnDetach,
	}
}

func (s *Settings) Tunables() sim.Tunables {
	p := s.Player
	return sim.Tunables{
		Gravity:         p.Gravity,
		Acceleration:    p.Acceleration,
		AirAcceleration: p.AirAcceleration,
		TopSpeed:        p.TopSpeed,
		Deceleration:    p.Deceleration,
		TurningDrag:     p.TurningDrag,
		SnapForce:       p.SnapForce,
		JumpSpeed:       p.JumpSpeed,
		RotationSpeed:   p.RotationSpeed,
	}
}

// Apply copies every section onto w.
func (s *Settings) Apply(w *sim.World) {
	w.EntityConfig = s.EntityConfig()
	w.Fields = s.FieldDefaults()
	w.Tunables = s.Tunables()
}

// TickDelta is the fixed step length in seconds.
func (s *Settings) TickDelta() float32 {
	if s.Sim.TickRate <= 0 {
		return 1.0 / 50
	}
	return 1 / float32(s.Sim.TickRate)
}
