package main

import (
	"fmt"

	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (v *viewer) draw() {
	cam := v.orbit.GetRaylibCamera()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	rl.BeginMode3D(cam)
	rl.DrawGrid(60, 1)
	for _, g := range v.world.Scene.GameObjects {
		drawObject(g)
	}
	for i, e := range v.world.Entities() {
		drawEntity(e, i == v.selected%len(v.world.Entities()), v.debug)
	}
	rl.EndMode3D()

	v.drawHUD()
	v.panel.draw()
	rl.EndDrawing()
}

func objectColor(g *engine.GameObject, c components.Collider) rl.Color {
	switch {
	case c.IsTrigger():
		return rl.NewColor(80, 160, 255, 90)
	case engine.IsHazard(g):
		return rl.Red
	case engine.IsPlatform(g):
		return rl.Orange
	case g.HasTag(engine.TagRail):
		return rl.Gold
	case g.HasTag(engine.TagSpring):
		return rl.Lime
	case g.Static:
		return rl.Gray
	}
	return rl.SkyBlue
}

func drawObject(g *engine.GameObject) {
	if !g.Active || engine.IsEntity(g) {
		return
	}
	for _, c := range engine.GetComponents[components.Collider](g) {
		color := objectColor(g, c)
		switch s := c.Shape().(type) {
		case geom.OBB:
			drawOBB(s, color, !c.IsTrigger())
		case geom.Sphere:
			if c.IsTrigger() {
				rl.DrawSphereWires(s.Center, s.Radius, 12, 16, color)
			} else {
				rl.DrawSphere(s.Center, s.Radius, color)
			}
		case geom.Capsule:
			rl.DrawCapsuleWires(s.A, s.B, s.Radius, 12, 6, color)
		}
	}
}

// drawOBB draws a rotated box by pushing its rotation onto the matrix stack.
func drawOBB(b geom.OBB, color rl.Color, solid bool) {
	var axis rl.Vector3
	var angle float32
	rl.QuaternionToAxisAngle(b.Rotation, &axis, &angle)
	size := rl.Vector3Scale(b.HalfSize, 2)

	rl.PushMatrix()
	rl.Translatef(b.Center.X, b.Center.Y, b.Center.Z)
	rl.Rotatef(angle*rl.Rad2deg, axis.X, axis.Y, axis.Z)
	if solid {
		rl.DrawCubeV(rl.Vector3{}, size, color)
		rl.DrawCubeWiresV(rl.Vector3{}, size, rl.DarkGray)
	} else {
		rl.DrawCubeWiresV(rl.Vector3{}, size, color)
	}
	rl.PopMatrix()
}

func drawEntity(e *entity.Entity, selected, debug bool) {
	capsule := e.Resolver().Collider().Capsule()
	color := rl.NewColor(0, 200, 140, 255)
	if !e.IsGrounded() {
		color = rl.NewColor(240, 200, 60, 255)
	}
	if selected {
		rl.DrawCapsule(capsule.A, capsule.B, capsule.Radius, 12, 6, color)
	} else {
		rl.DrawCapsuleWires(capsule.A, capsule.B, capsule.Radius, 12, 6, color)
	}

	t := e.GetGameObject().Transform
	center := e.Position()
	rl.DrawLine3D(center, rl.Vector3Add(center, t.Forward()), rl.Blue)
	rl.DrawLine3D(center, rl.Vector3Add(center, t.Up()), rl.Green)
	if !debug {
		return
	}

	rl.DrawLine3D(center, rl.Vector3Add(center, rl.Vector3Scale(e.Velocity(), 0.25)), rl.Magenta)
	if e.IsGrounded() {
		hit := e.GroundHit()
		rl.DrawSphere(hit.Point, 0.06, rl.Red)
		rl.DrawLine3D(hit.Point, rl.Vector3Add(hit.Point, e.GroundNormal()), rl.Red)
	}
	if f := e.GravityField(); f != nil {
		rl.DrawLine3D(center, f.WorldCenter(), rl.NewColor(80, 160, 255, 160))
	}
}

func (v *viewer) drawHUD() {
	rl.DrawText("WASD move, Space jump, Tab next entity, RMB orbit, wheel zoom", 10, 10, 18, rl.LightGray)
	rl.DrawFPS(10, 34)
	rl.DrawText(fmt.Sprintf("t = %.2f s  ticks = %d", v.world.Clock.Time(), v.world.Clock.Ticks()), 10, 56, 16, rl.Green)

	e := v.current()
	if e == nil {
		return
	}
	pos := e.GetGameObject().Transform.Position
	lines := []string{
		fmt.Sprintf("%s: %s", e.GetGameObject().Name, e.States.CurrentID()),
		fmt.Sprintf("position (%.2f, %.2f, %.2f)", pos.X, pos.Y, pos.Z),
		fmt.Sprintf("speed %.2f  grounded %t  angle %.1f", rl.Vector3Length(e.LateralVelocity()), e.IsGrounded(), e.GroundAngle()),
	}
	if f := e.GravityField(); f != nil {
		lines = append(lines, fmt.Sprintf("field %s (%s, priority %d)", f.GetGameObject().Name, f.Shape, f.Priority))
	}
	if e.Platform() != nil {
		lines = append(lines, "on platform")
	}
	if p := v.world.Pilot(e); p != nil && p.Hazards > 0 {
		lines = append(lines, fmt.Sprintf("hazard contacts %d", p.Hazards))
	}
	for i, l := range lines {
		rl.DrawText(l, 10, 84+int32(i)*20, 16, rl.RayWhite)
	}
}
