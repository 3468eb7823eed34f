package ramp

import (
	"time"

	"loratx-go/x/mathx"
)

// Linear interpolates from..to by frac, frac clamped to [0,1].
func Linear(from, to, frac float32) float32 {
	return from + (to-from)*mathx.Clamp(frac, 0, 1)
}

// Triangle rises 0..1 over the first half of Period and falls back over the
// second. Phase in [0,1) shifts the start point.
type Triangle struct {
	Period time.Duration
	Phase  float32

	start time.Time
	now   func() time.Time
}

func NewTriangle(period time.Duration, phase float32) *Triangle {
	return &Triangle{Period: period, Phase: phase, start: time.Now(), now: time.Now}
}

// At is the level after elapsed.
func (t *Triangle) At(elapsed time.Duration) float32 {
	if t.Period <= 0 {
		return 0
	}
	pos := float32(elapsed%t.Period)/float32(t.Period) + t.Phase
	pos -= float32(int(pos))
	if pos < 0.5 {
		return Linear(0, 1, pos*2)
	}
	return Linear(1, 0, (pos-0.5)*2)
}

// Read samples the sweep at the current time.
func (t *Triangle) Read() (float32, error) {
	return t.At(t.now().Sub(t.start)), nil
}
