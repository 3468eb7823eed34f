package radio

import (
	"time"

	"loratx-go/board"
	"loratx-go/radio/modem"
)

// Transceiver is the driver boundary the state machine consumes.
//
// Send, Receive and StartCAD start an operation and return; completion is
// reported later through the EventHandler registered by Init. A transceiver
// must report exactly one event per started operation and must not call the
// handler from inside Sleep.
type Transceiver interface {
	// Init registers the handler and checks for the hardware. false means no
	// device answered.
	Init(h EventHandler) bool
	SetChannel(freqHz uint32) error
	SetTxConfig(c modem.TxConfig) error
	SetRxConfig(c modem.RxConfig) error
	Send(payload []byte) error
	Receive(timeout time.Duration) error
	Sleep()
	DetectBoardType() board.Type
}

// CADTransceiver is implemented by transceivers that can sense channel
// activity.
type CADTransceiver interface {
	Transceiver
	StartCAD() error
}

// Opener builds a transceiver handle for a board profile.
type Opener func(p board.Profile) (Transceiver, error)

// Indicator is a busy lamp, asserted while an operation is outstanding.
type Indicator interface {
	Set(on bool)
}

// Logger is the diagnostics sink.
type Logger interface {
	Printf(format string, args ...any)
	Debugf(format string, args ...any)
	Dump(label string, data []byte)
}
