package engine

import rl "github.com/gen2brain/raylib-go/raylib"

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// TriggerHandler is implemented by components on trigger volumes that want
// overlap callbacks. Stay fires every tick the overlap persists.
type TriggerHandler interface {
	OnTriggerEnter(other *GameObject)
	OnTriggerStay(other *GameObject)
	OnTriggerExit(other *GameObject)
}

// Kinematic is the read-only view of a moving character handed to the
// volumes it touches.
type Kinematic interface {
	GetGameObject() *GameObject
	Position() rl.Vector3
	StepPosition() rl.Vector3
	Velocity() rl.Vector3
	Height() float32
}

// ContactHandler is implemented by components that react when a character
// overlaps (or bumps the ceiling into) the GameObject they live on.
type ContactHandler interface {
	OnEntityContact(k Kinematic)
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
