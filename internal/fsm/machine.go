// Package fsm is a flat state machine. States are behavior policies shared
// by every owner; the machine only tracks which one is active and for how
// long. Transitions happen through explicit Change calls only.
package fsm

import (
	"kinematic3d/internal/engine"

	"github.com/rs/zerolog"
)

// State is a behavior policy for owners of type T.
type State[T any] interface {
	OnEnter(owner T)
	OnExit(owner T)
	OnStep(owner T)
	OnContact(owner T, other *engine.GameObject)
}

// Transition is carried by Machine.OnChange.
type Transition struct {
	From, To string
}

// Machine routes step and contact callbacks to the active state.
// Callbacks are refused while the clock is paused.
type Machine[T any] struct {
	OnEnter  engine.EventWithArg[string]
	OnExit   engine.EventWithArg[string]
	OnChange engine.EventWithArg[Transition]

	owner T
	clock *engine.Clock
	log   zerolog.Logger

	states []State[T]
	ids    []string
	index  map[string]int

	current, previous int
	timeSinceEntered  float32
}

func NewMachine[T any](owner T, clock *engine.Clock, log zerolog.Logger) *Machine[T] {
	return &Machine[T]{
		owner:    owner,
		clock:    clock,
		log:      log,
		index:    make(map[string]int),
		current:  -1,
		previous: -1,
	}
}

// Add appends a state under id. The first state added becomes current
// without receiving OnEnter. Duplicate ids are ignored.
func (m *Machine[T]) Add(id string, s State[T]) {
	if s == nil {
		return
	}
	if _, exists := m.index[id]; exists {
		return
	}
	m.index[id] = len(m.states)
	m.states = append(m.states, s)
	m.ids = append(m.ids, id)
	if m.current < 0 {
		m.current = 0
	}
}

func (m *Machine[T]) paused() bool {
	return m.clock != nil && m.clock.Paused()
}

// Change switches to the state registered under id. Unknown ids, the
// active state and paused time leave the machine untouched.
func (m *Machine[T]) Change(id string) {
	if i, ok := m.index[id]; ok {
		m.change(i)
	}
}

// ChangeIndex switches to the state at position i in insertion order.
func (m *Machine[T]) ChangeIndex(i int) {
	if i >= 0 && i < len(m.states) {
		m.change(i)
	}
}

func (m *Machine[T]) change(to int) {
	if m.paused() || to == m.current {
		return
	}

	from := ""
	if m.current >= 0 {
		from = m.ids[m.current]
		m.states[m.current].OnExit(m.owner)
		m.OnExit.Invoke(from)
		m.previous = m.current
	}

	m.current = to
	m.timeSinceEntered = 0
	m.states[to].OnEnter(m.owner)
	m.OnEnter.Invoke(m.ids[to])

	m.log.Debug().Str("from", from).Str("to", m.ids[to]).Msg("state changed")
	m.OnChange.Invoke(Transition{From: from, To: m.ids[to]})
}

// Step runs the active state once and accumulates its elapsed time.
func (m *Machine[T]) Step() {
	if m.current < 0 || m.paused() {
		return
	}
	m.states[m.current].OnStep(m.owner)
	if m.clock != nil {
		m.timeSinceEntered += m.clock.DeltaTime()
	}
}

// OnContact forwards a contact to the active state.
func (m *Machine[T]) OnContact(other *engine.GameObject) {
	if m.current < 0 || m.paused() {
		return
	}
	m.states[m.current].OnContact(m.owner, other)
}

func (m *Machine[T]) Current() State[T] {
	if m.current < 0 {
		return nil
	}
	return m.states[m.current]
}

func (m *Machine[T]) CurrentID() string {
	if m.current < 0 {
		return ""
	}
	return m.ids[m.current]
}

func (m *Machine[T]) Previous() State[T] {
	if m.previous < 0 {
		return nil
	}
	return m.states[m.previous]
}

func (m *Machine[T]) PreviousID() string {
	if m.previous < 0 {
		return ""
	}
	return m.ids[m.previous]
}

// Index is the position of the current state, or -1.
func (m *Machine[T]) Index() int {
	return m.current
}

// PreviousIndex is the position of the previous state, or -1.
func (m *Machine[T]) PreviousIndex() int {
	return m.previous
}

// TimeSinceEntered is the scaled time spent stepping the current state.
func (m *Machine[T]) TimeSinceEntered() float32 {
	return m.timeSinceEntered
}

// IsCurrent reports whether the active state is any of ids.
func (m *Machine[T]) IsCurrent(ids ...string) bool {
	current := m.CurrentID()
	if current == "" {
		return false
	}
	for _, id := range ids {
		if id == current {
			return true
		}
	}
	return false
}

func (m *Machine[T]) Contains(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Listen calls onEnter and onExit when any of ids is entered or left.
// The returned function removes both listeners.
func (m *Machine[T]) Listen(ids []string, onEnter, onExit func()) func() {
	match := func(id string) bool {
		for _, want := range ids {
			if want == id {
				return true
			}
		}
		return false
	}
	var enterID, exitID engine.ListenerID
	if onEnter != nil {
		enterID = m.OnEnter.AddListener(func(id string) {
			if match(id) {
				onEnter()
			}
		})
	}
	if onExit != nil {
		exitID = m.OnExit.AddListener(func(id string) {
			if match(id) {
				onExit()
			}
		})
	}
	return func() {
		m.OnEnter.RemoveListener(enterID)
		m.OnExit.RemoveListener(exitID)
	}
}
