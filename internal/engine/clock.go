package engine

// Clock is the simulation time source. Every deadline in the core is
// expressed in Clock time, never wall time.
type Clock struct {
	TimeScale float32

	time  float64
	delta float32
	ticks uint64
}

func NewClock() *Clock {
	return &Clock{TimeScale: 1}
}

// Advance moves the clock forward by dt scaled by TimeScale.
func (c *Clock) Advance(dt float32) {
	if dt < 0 {
		dt = 0
	}
	c.delta = dt * c.TimeScale
	if c.delta < 0 {
		c.delta = 0
	}
	c.time += float64(c.delta)
	c.ticks++
}

// Time is the accumulated scaled time in seconds.
func (c *Clock) Time() float64 {
	return c.time
}

// DeltaTime is the scaled duration of the last tick.
func (c *Clock) DeltaTime() float32 {
	return c.delta
}

// Ticks counts calls to Advance.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Paused reports whether time is frozen. State transitions are refused while paused.
func (c *Clock) Paused() bool {
	return c.TimeScale <= 0
}
