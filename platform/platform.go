// Package platform wires the hardware (or its host stand-ins) for a board
// profile: the console writer, the transceiver opener, the two analog
// inputs and the busy lamp.
package platform

import (
	"io"

	"loratx-go/radio"
	"loratx-go/services/telemetry"
)

type Platform struct {
	Console io.Writer
	Open    radio.Opener
	A0, A2  telemetry.Source
	LED     radio.Indicator // nil when the board has none
}
