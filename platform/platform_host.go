//go:build !(rp2040 || rp2350)

package platform

import (
	"os"
	"time"

	"loratx-go/board"
	"loratx-go/radio/sim"
	"loratx-go/types"
	"loratx-go/x/ramp"
)

// Sweep periods of the simulated analog inputs.
const (
	a0Period = 60 * time.Second
	a2Period = 90 * time.Second
)

// Setup returns the host platform: a simulated transceiver, triangle sweeps
// in place of the ADC and stdout as the console.
func Setup(p board.Profile, _ types.ConsoleFormat) (*Platform, error) {
	return &Platform{
		Console: os.Stdout,
		Open:    sim.Open(sim.Options{Board: p.Type, RSSI: -60, SNR: 9}),
		A0:      ramp.NewTriangle(a0Period, 0),
		A2:      ramp.NewTriangle(a2Period, 0.25),
	}, nil
}
