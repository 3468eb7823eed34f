// Package sim is a host-side transceiver. Operations complete on timers so
// the state machine sees the same asynchronous completions it gets from
// hardware.
package sim

import (
	"sync"
	"time"

	"loratx-go/board"
	"loratx-go/errcode"
	"loratx-go/radio"
	"loratx-go/radio/modem"
)

type Options struct {
	// DetectFailures is how many Init attempts fail before the device answers.
	DetectFailures int
	Board          board.Type
	// Airtime overrides the time-on-air model of the configured settings.
	Airtime func(payloadLen int) time.Duration
	RSSI    int16
	SNR     int8
}

// Transceiver implements radio.Transceiver and radio.CADTransceiver.
type Transceiver struct {
	opts Options

	mu        sync.Mutex
	h         radio.EventHandler
	inits     int
	freq      uint32
	tx        modem.TxConfig
	rx        modem.RxConfig
	timer     *time.Timer
	gen       uint32 // bumped per scheduled completion
	listening bool
	inbox     [][]byte
	sent      [][]byte
	sleeps    int
	txFail    int
	chanBusy  bool
}

func New(opts Options) *Transceiver {
	if opts.Board == board.Unknown {
		opts.Board = board.RFM95SX1276
	}
	return &Transceiver{opts: opts}
}

// Open adapts New to radio.Opener.
func Open(opts Options) radio.Opener {
	return func(board.Profile) (radio.Transceiver, error) { return New(opts), nil }
}

func (t *Transceiver) Init(h radio.EventHandler) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.h = h
	t.inits++
	return t.inits > t.opts.DetectFailures
}

func (t *Transceiver) SetChannel(hz uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.freq = hz
	return nil
}

func (t *Transceiver) SetTxConfig(c modem.TxConfig) error {
	if c.Settings == nil {
		return errcode.InvalidParams
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tx = c
	return nil
}

func (t *Transceiver) SetRxConfig(c modem.RxConfig) error {
	if c.Settings == nil {
		return errcode.InvalidParams
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rx = c
	return nil
}

func (t *Transceiver) airtimeLocked(n int) time.Duration {
	if t.opts.Airtime != nil {
		return t.opts.Airtime(n)
	}
	if t.tx.Settings == nil {
		return 0
	}
	return t.tx.Settings.TimeOnAir(n)
}

// fireLocked schedules ev after d, replacing any pending completion.
func (t *Transceiver) fireLocked(d time.Duration, ev radio.Event) {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen, h := t.gen, t.h
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.gen != gen {
			// superseded after the timer had already fired
			t.mu.Unlock()
			return
		}
		t.listening = false
		t.timer = nil
		t.mu.Unlock()
		if h != nil {
			h(ev)
		}
	})
}

func (t *Transceiver) Send(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return errcode.Busy
	}
	t.sent = append(t.sent, append([]byte(nil), p...))
	air := t.airtimeLocked(len(p))
	if t.txFail > 0 || (t.tx.Timeout > 0 && air > t.tx.Timeout) {
		if t.txFail > 0 {
			t.txFail--
		}
		t.fireLocked(t.tx.Timeout, radio.TxTimeout{})
		return nil
	}
	t.fireLocked(air, radio.TxDone{})
	return nil
}

func (t *Transceiver) Receive(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return errcode.Busy
	}
	if len(t.inbox) > 0 {
		p := t.inbox[0]
		t.inbox = t.inbox[1:]
		t.fireLocked(0, t.rxDone(p))
		return nil
	}
	t.listening = true
	t.fireLocked(timeout, radio.RxTimeout{})
	return nil
}

func (t *Transceiver) rxDone(p []byte) radio.RxDone {
	return radio.RxDone{Payload: p, Size: len(p), RSSI: t.opts.RSSI, SNR: t.opts.SNR}
}

func (t *Transceiver) StartCAD() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return errcode.Busy
	}
	var sym time.Duration
	if s, ok := t.rx.Settings.(modem.LoRa); ok {
		sym = s.SymbolTime()
	}
	t.fireLocked(sym, radio.CADDone{Detected: t.chanBusy})
	return nil
}

func (t *Transceiver) Sleep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sleeps++
}

func (t *Transceiver) DetectBoardType() board.Type { return t.opts.Board }

// ---- test hooks ----------------------------------------------------------------

// Inject delivers p to an open receive window, or queues it for the next
// one.
func (t *Transceiver) Inject(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p = append([]byte(nil), p...)
	if t.listening {
		t.fireLocked(t.airtimeLocked(len(p)), t.rxDone(p))
		return
	}
	t.inbox = append(t.inbox, p)
}

// Corrupt ends an open receive window with a CRC error. It reports whether
// a window was open.
func (t *Transceiver) Corrupt() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.listening {
		return false
	}
	t.fireLocked(0, radio.RxError{})
	return true
}

// FailNextSends makes the next n transmissions time out.
func (t *Transceiver) FailNextSends(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.txFail = n
}

// SetChannelBusy decides what the next CAD reports.
func (t *Transceiver) SetChannelBusy(busy bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chanBusy = busy
}

func (t *Transceiver) Sent() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]byte(nil), t.sent...)
}

func (t *Transceiver) Sleeps() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sleeps
}

func (t *Transceiver) Inits() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inits
}

func (t *Transceiver) Channel() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freq
}
