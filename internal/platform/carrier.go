// Package platform moves and rotates geometry and carries whatever is
// attached to it.
package platform

import "kinematic3d/internal/engine"

// Carrier is a surface that entities can ride.
type Carrier interface {
	Attach(g *engine.GameObject)
	Detach(g *engine.GameObject)
}
