package entity

import (
	"kinematic3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// VolumeEffector is a trigger volume, such as water or mud, that rescales
// the movement of entities inside it.
type VolumeEffector struct {
	engine.BaseComponent
	// VelocityConversion scales velocity once on entry.
	VelocityConversion float32
	Multipliers        Multipliers
}

func NewVolumeEffector() *VolumeEffector {
	return &VolumeEffector{
		VelocityConversion: 1,
		Multipliers:        DefaultMultipliers(),
	}
}

func (v *VolumeEffector) OnTriggerEnter(other *engine.GameObject) {
	e := engine.GetComponent[*Entity](other)
	if e == nil {
		return
	}
	e.SetVelocity(rl.Vector3Scale(e.Velocity(), v.VelocityConversion))
	e.Multipliers = v.Multipliers
}

func (v *VolumeEffector) OnTriggerStay(other *engine.GameObject) {}

func (v *VolumeEffector) OnTriggerExit(other *engine.GameObject) {
	if e := engine.GetComponent[*Entity](other); e != nil {
		e.Multipliers = DefaultMultipliers()
	}
}
