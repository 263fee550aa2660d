package motionpath

import "math"

// ticksPerFrame is the subframe resolution of [TimeKey]. 960 divides
// evenly by the common subframe steps (1/2, 1/3, 1/4, 1/5, 1/8), so
// any time an animation host is likely to hand us lands exactly on a
// tick.
const ticksPerFrame = 960

// TimeKey is a frame time canonicalized to an integer tick count.
// Caches index by TimeKey instead of float64 so that two times within
// rounding distance of each other always address the same entry.
type TimeKey int64

// KeyForTime returns the canonical key for a frame time.
func KeyForTime(t float64) TimeKey {
	return TimeKey(math.Round(t * ticksPerFrame))
}

// Time returns the frame time the key stands for.
func (k TimeKey) Time() float64 {
	return float64(k) / ticksPerFrame
}
