package physics

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
)

// TriggerPair represents a trigger volume and a body overlapping it
type TriggerPair struct {
	Trigger, Other *engine.GameObject
}

type triggerState struct {
	active  []TriggerPair // overlaps from last tick, in discovery order
	current []TriggerPair
	lookup  map[TriggerPair]bool
}

func (s *triggerState) forget(g *engine.GameObject) {
	kept := s.active[:0]
	for _, p := range s.active {
		if p.Trigger != g && p.Other != g {
			kept = append(kept, p)
			continue
		}
		delete(s.lookup, p)
	}
	s.active = kept
}

// DispatchTriggers finds the trigger volumes each body overlaps and sends
// OnTriggerEnter, OnTriggerStay and OnTriggerExit to TriggerHandler
// components on both sides. Bodies must carry a sphere or capsule collider.
func (w *World) DispatchTriggers(bodies []*engine.GameObject) {
	s := &w.triggers
	s.current = s.current[:0]
	seen := make(map[TriggerPair]bool, len(s.active))

	var buf [64]components.Collider
	for _, body := range bodies {
		if body == nil || !body.Active {
			continue
		}
		for _, c := range engine.GetComponents[components.Collider](body) {
			volume, ok := asCapsule(c.Shape())
			if !ok {
				continue
			}
			n := w.OverlapCapsule(volume.A, volume.B, volume.Radius, buf[:], engine.AllLayers, CollideTriggers)
			for _, other := range buf[:n] {
				trigger := other.GetGameObject()
				if !other.IsTrigger() || trigger == body {
					continue
				}
				pair := TriggerPair{Trigger: trigger, Other: body}
				if seen[pair] {
					continue
				}
				seen[pair] = true
				s.current = append(s.current, pair)
			}
		}
	}

	if s.lookup == nil {
		s.lookup = make(map[TriggerPair]bool)
	}
	for _, pair := range s.current {
		if s.lookup[pair] {
			notify(pair.Trigger, pair.Other, engine.TriggerHandler.OnTriggerStay)
			notify(pair.Other, pair.Trigger, engine.TriggerHandler.OnTriggerStay)
			continue
		}
		w.log.Debug().Str("trigger", pair.Trigger.Name).Str("other", pair.Other.Name).Msg("trigger enter")
		notify(pair.Trigger, pair.Other, engine.TriggerHandler.OnTriggerEnter)
		notify(pair.Other, pair.Trigger, engine.TriggerHandler.OnTriggerEnter)
	}
	for _, pair := range s.active {
		if seen[pair] {
			continue
		}
		w.log.Debug().Str("trigger", pair.Trigger.Name).Str("other", pair.Other.Name).Msg("trigger exit")
		notify(pair.Trigger, pair.Other, engine.TriggerHandler.OnTriggerExit)
		notify(pair.Other, pair.Trigger, engine.TriggerHandler.OnTriggerExit)
	}

	// Swap buffers
	s.active, s.current = append(s.active[:0], s.current...), s.current
	s.lookup = seen
}

// ActiveTriggers returns the overlaps recorded by the last dispatch.
func (w *World) ActiveTriggers() []TriggerPair {
	return w.triggers.active
}

// notify calls fn on all trigger handlers in obj
func notify(obj, other *engine.GameObject, fn func(engine.TriggerHandler, *engine.GameObject)) {
	for _, h := range engine.GetComponents[engine.TriggerHandler](obj) {
		fn(h, other)
	}
}
