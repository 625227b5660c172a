package engine

import "container/heap"

// TimerID identifies a scheduled callback.
type TimerID uint64

type timer struct {
	id       TimerID
	deadline float64
	fn       func()
	index    int
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline == q[j].deadline {
		return q[i].id < q[j].id
	}
	return q[i].deadline < q[j].deadline
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler runs callbacks once their Clock deadline has passed. It is
// polled once per tick; nothing blocks or runs concurrently.
type Scheduler struct {
	clock  *Clock
	queue  timerQueue
	byID   map[TimerID]*timer
	nextID TimerID
}

func NewScheduler(clock *Clock) *Scheduler {
	return &Scheduler{
		clock: clock,
		byID:  make(map[TimerID]*timer),
	}
}

// Clock returns the time source the scheduler polls.
func (s *Scheduler) Clock() *Clock {
	return s.clock
}

// After schedules fn to run delay seconds of simulation time from now.
func (s *Scheduler) After(delay float32, fn func()) TimerID {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	t := &timer{id: s.nextID, deadline: s.clock.Time() + float64(delay), fn: fn}
	heap.Push(&s.queue, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel drops a pending timer. Returns false if it already fired.
func (s *Scheduler) Cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, t.index)
	delete(s.byID, id)
	return true
}

// Run fires every timer whose deadline is at or before the current time,
// in deadline order. Timers scheduled by a callback run on a later poll
// unless already due.
func (s *Scheduler) Run() int {
	fired := 0
	now := s.clock.Time()
	for len(s.queue) > 0 && s.queue[0].deadline <= now {
		t := heap.Pop(&s.queue).(*timer)
		delete(s.byID, t.id)
		if t.fn != nil {
			t.fn()
		}
		fired++
	}
	return fired
}

// Pending is the number of timers not yet fired.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}
