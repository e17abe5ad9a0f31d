package ui

// FPSCounter counts frames and refreshes its reading once per second.
type FPSCounter struct {
	start  float64
	frames int
	fps    float64
	primed bool
}

// Tick records a frame finished at time now, in seconds. The first call only
// starts the clock. It reports whether the reading changed.
func (f *FPSCounter) Tick(now float64) bool {
	if !f.primed {
		f.start, f.primed = now, true
		return false
	}
	f.frames++
	elapsed := now - f.start
	if elapsed < 1 {
		return false
	}
	f.fps = float64(f.frames) / elapsed
	f.frames = 0
	f.start = now
	return true
}

// FPS returns the reading from the last full second, zero before then.
func (f *FPSCounter) FPS() float64 { return f.fps }
