// Package platform hosts the game: window and GL context, frame timing and sound.
package platform

import "time"

// Clock measures the time between frames for the simulation.
type Clock struct {
	now        func() time.Time
	sleep      func(time.Duration)
	last       time.Time
	minElapsed time.Duration
	maxElapsed time.Duration
}

// NewClock returns a clock that holds frames to at least minElapsed and advances the
// game by at most maxElapsed per tick.
func NewClock(minElapsed, maxElapsed time.Duration) *Clock {
	return newClock(minElapsed, maxElapsed, time.Now, time.Sleep)
}

func newClock(minElapsed, maxElapsed time.Duration, now func() time.Time, sleep func(time.Duration)) *Clock {
	return &Clock{now: now, sleep: sleep, last: now(), minElapsed: minElapsed, maxElapsed: maxElapsed}
}

// Tick returns the milliseconds since the previous tick. A frame shorter than
// minElapsed sleeps out the rest and reports the time that really passed. A long
// stall (a dragged window, a breakpoint) advances the game by at most maxElapsed.
func (c *Clock) Tick() float32 {
	t := c.now()
	if short := c.minElapsed - t.Sub(c.last); short > 0 {
		c.sleep(short)
		t = c.now()
	}
	elapsed := min(t.Sub(c.last), c.maxElapsed)
	c.last = t
	return float32(elapsed) / float32(time.Millisecond)
}

// FPSCounter averages frames per second over one-second windows.
type FPSCounter struct {
	now      func() time.Time
	frames   int
	lastTime time.Time
	fps      float64
}

func NewFPSCounter() *FPSCounter {
	return newFPSCounter(time.Now)
}

func newFPSCounter(now func() time.Time) *FPSCounter {
	return &FPSCounter{now: now, lastTime: now()}
}

// Update counts one frame.
func (f *FPSCounter) Update() {
	f.frames++
	if since := f.now().Sub(f.lastTime); since >= time.Second {
		f.fps = float64(f.frames) / since.Seconds()
		f.frames = 0
		f.lastTime = f.now()
	}
}

func (f *FPSCounter) FPS() float64 {
	return f.fps
}
