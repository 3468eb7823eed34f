// Package radio owns the transceiver's operational state and the shared
// receive buffer, and turns asynchronous driver completions into state
// transitions.
package radio

import (
	"context"
	"sync"
	"time"

	"loratx-go/board"
	"loratx-go/bus"
	"loratx-go/errcode"
	"loratx-go/radio/modem"
	"loratx-go/types"
	"loratx-go/x/strx"
	"loratx-go/x/timex"
)

type op uint8

const (
	opNone op = iota
	opTx
	opRx
	opCAD
)

func (o op) String() string {
	switch o {
	case opTx:
		return "tx"
	case opRx:
		return "rx"
	case opCAD:
		return "cad"
	default:
		return "none"
	}
}

// Frame is a completed reception handed to the reader.
type Frame struct {
	Data []byte // at most RxBufferCap bytes
	Size int    // size reported by the transceiver
	RSSI int16
	SNR  int8
}

// Truncated reports whether the transceiver delivered more than was kept.
func (f Frame) Truncated() bool { return f.Size > len(f.Data) }

// Stats counts outcomes since Initialize.
type Stats struct {
	TxDone, TxTimeout          uint32
	RxDone, RxTimeout, RxError uint32
	CADDone                    uint32
	Truncated                  uint32 // RxDone larger than the buffer
	Unexpected                 uint32 // events with no matching operation
	Rejected                   uint32 // Send/StartReceiving refused
}

type Options struct {
	Retry     RetryPolicy     // zero value means DefaultRetry
	Log       Logger          // nil discards
	Conn      *bus.Connection // nil disables publishing
	Indicator Indicator       // nil if the board has no busy lamp
}

// Radio is the state machine. All exported methods are safe for concurrent
// use; HandleEvent may run on the transceiver's completion context.
type Radio struct {
	drv   Transceiver
	log   Logger
	conn  *bus.Connection
	ind   Indicator
	board board.Type

	mu         sync.Mutex
	state      State
	pending    op
	idle       chan struct{} // closed when pending returns to opNone
	configured bool
	cfg        modem.Config
	buf        RxBuffer
	last       Frame
	ready      bool
	stats      Stats
}

func newRadio(drv Transceiver, opts Options) *Radio {
	r := &Radio{
		drv:   drv,
		log:   opts.Log,
		conn:  opts.Conn,
		ind:   opts.Indicator,
		state: LowPower,
		buf:   NewRxBuffer(),
	}
	if r.log == nil {
		r.log = nopLogger{}
	}
	return r
}

// Initialize opens the transceiver for profile p and retries it until it
// answers. Each failed attempt is logged; with a bounded policy the last
// failure returns errcode.HardwareNotDetected.
func Initialize(ctx context.Context, p board.Profile, open Opener, opts Options) (*Radio, error) {
	name := strx.Coalesce(p.Name, "unnamed")
	drv, err := open(p)
	if err != nil {
		return nil, &errcode.E{C: errcode.HardwareNotDetected, Op: "radio.open", Msg: name, Err: err}
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetry()
	}
	r := newRadio(drv, opts)

	attempt := 1
	for ; !drv.Init(r.HandleEvent); attempt++ {
		r.log.Printf("radio could not be detected (attempt %d)", attempt)
		if opts.Retry.exhausted(attempt) {
			return nil, &errcode.E{C: errcode.HardwareNotDetected, Op: "radio.init", Msg: name}
		}
		if err := opts.Retry.Wait(ctx); err != nil {
			return nil, err
		}
	}

	r.board = drv.DetectBoardType()
	r.log.Printf(" > Board Type: %s <", r.board)
	r.publish(types.TokInfo, types.RadioInfo{Board: r.board.String(), Attempts: attempt, TS: timex.NowMs()}, true)
	r.publish(types.TokState, types.RadioState{State: LowPower.String(), Prev: LowPower.String(), Cause: "init", TS: timex.NowMs()}, true)
	return r, nil
}

// Board is the variant reported by the transceiver after Init.
func (r *Radio) Board() board.Type { return r.board }

// Configure applies channel, then transmit, then receive configuration, one
// driver call each. The first failing call aborts the sequence.
func (r *Radio) Configure(cfg modem.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.banner(cfg)
	if err := r.drv.SetChannel(cfg.Frequency); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "radio.configure", Msg: "set channel", Err: err}
	}
	if err := r.drv.SetTxConfig(cfg.TxConfig()); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "radio.configure", Msg: "set tx config", Err: err}
	}
	if err := r.drv.SetRxConfig(cfg.RxConfig()); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "radio.configure", Msg: "set rx config", Err: err}
	}
	r.mu.Lock()
	r.cfg = cfg
	r.configured = true
	r.mu.Unlock()
	return nil
}

func (r *Radio) banner(cfg modem.Config) {
	r.log.Printf("Frequency: %.1f", float64(cfg.Frequency)/1e6)
	r.log.Printf("TXPower: %d dBm", cfg.TxPower)
	switch s := cfg.Settings.(type) {
	case modem.LoRa:
		r.log.Printf("Bandwidth: %d Hz", modem.BandwidthHz(s.Bandwidth))
		r.log.Printf("Spreading factor: SF%d", s.SpreadingFactor)
		if s.FreqHopping {
			r.log.Printf("             > LORA FHSS Mode <")
		} else {
			r.log.Printf("             > LORA Mode <")
		}
	case modem.FSK:
		r.log.Printf("Bandwidth: %d kHz", s.Bandwidth/1000)
		r.log.Printf("Baudrate: %d", s.Datarate)
		r.log.Printf("              > FSK Mode <")
	}
}

// begin claims the single operation slot.
func (r *Radio) begin(o op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.configured {
		r.stats.Rejected++
		return &errcode.E{C: errcode.NotReady, Op: "radio." + o.String(), Msg: "not configured"}
	}
	if r.pending != opNone {
		r.stats.Rejected++
		return &errcode.E{C: errcode.Busy, Op: "radio." + o.String(), Msg: r.pending.String() + " outstanding"}
	}
	r.pending = o
	r.idle = make(chan struct{})
	return nil
}

// abort releases the slot after a synchronous driver failure, unless a
// completion already did.
func (r *Radio) abort(o op) {
	r.mu.Lock()
	if r.pending == o {
		r.finishLocked()
	}
	r.mu.Unlock()
	r.indicate(false)
}

func (r *Radio) finishLocked() {
	r.pending = opNone
	if r.idle != nil {
		close(r.idle)
		r.idle = nil
	}
}

func (r *Radio) indicate(on bool) {
	if r.ind != nil {
		r.ind.Set(on)
	}
}

// StartReceiving opens a receive window. The state is left alone; the
// outcome arrives as RxDone, RxTimeout or RxError.
func (r *Radio) StartReceiving(timeout time.Duration) error {
	if err := r.begin(opRx); err != nil {
		return err
	}
	r.indicate(true)
	if err := r.drv.Receive(timeout); err != nil {
		r.abort(opRx)
		return &errcode.E{C: errcode.MapDriverErr(err), Op: "radio.rx", Err: err}
	}
	return nil
}

// Send hands payload to the transceiver. It returns once the transmission
// has started; completion arrives as TxDone or TxTimeout. Payloads larger
// than RxBufferCap and overlapping operations are refused.
func (r *Radio) Send(payload []byte) error {
	if len(payload) > RxBufferCap {
		r.mu.Lock()
		r.stats.Rejected++
		r.mu.Unlock()
		return &errcode.E{C: errcode.PayloadTooLarge, Op: "radio.tx"}
	}
	if err := r.begin(opTx); err != nil {
		return err
	}
	p := make([]byte, len(payload))
	copy(p, payload)
	r.indicate(true)
	if err := r.drv.Send(p); err != nil {
		r.abort(opTx)
		return &errcode.E{C: errcode.MapDriverErr(err), Op: "radio.tx", Err: err}
	}
	return nil
}

// StartChannelActivityDetection senses the channel when the transceiver
// supports it.
func (r *Radio) StartChannelActivityDetection() error {
	cad, ok := r.drv.(CADTransceiver)
	if !ok {
		return &errcode.E{C: errcode.Unsupported, Op: "radio.cad"}
	}
	if err := r.begin(opCAD); err != nil {
		return err
	}
	r.mu.Lock()
	prev := r.state
	r.state = ChannelActivityDetecting
	r.mu.Unlock()
	r.publishState(prev, ChannelActivityDetecting, "StartCAD")

	if err := cad.StartCAD(); err != nil {
		r.mu.Lock()
		if r.pending == opCAD {
			r.state = prev
		}
		r.mu.Unlock()
		r.abort(opCAD)
		return &errcode.E{C: errcode.MapDriverErr(err), Op: "radio.cad", Err: err}
	}
	return nil
}

// HandleEvent is the single entry point for transceiver completions. It
// never panics on unexpected events; they are applied and counted.
func (r *Radio) HandleEvent(ev Event) {
	var (
		frame  Frame
		gotRx  bool
		expect op
	)

	r.mu.Lock()
	prev := r.state
	if o, ok := opOf(ev); ok && r.pending != opNone && r.pending != o {
		// The driver still has another operation in flight; leave it alone.
		pending := r.pending
		r.stats.Unexpected++
		r.mu.Unlock()
		r.log.Printf("radio: %s with %s outstanding, ignored", ev.Name(), pending)
		return
	}
	switch e := ev.(type) {
	case TxDone:
		expect = opTx
		r.drv.Sleep()
		r.state = Transmitting
		r.stats.TxDone++
	case TxTimeout:
		expect = opTx
		r.drv.Sleep()
		r.state = TransmitTimeout
		r.stats.TxTimeout++
	case RxDone:
		expect = opRx
		r.drv.Sleep()
		if r.buf.Store(e.Payload, e.Size) {
			r.stats.Truncated++
		}
		frame = Frame{Data: r.buf.Bytes(), Size: r.buf.Size(), RSSI: e.RSSI, SNR: e.SNR}
		r.last, r.ready, gotRx = frame, true, true
		r.state = Receiving
		r.stats.RxDone++
	case RxTimeout:
		expect = opRx
		r.drv.Sleep()
		r.buf.Terminate()
		r.state = ReceiveTimeout
		r.stats.RxTimeout++
	case RxError:
		expect = opRx
		r.drv.Sleep()
		r.state = ReceiveError
		r.stats.RxError++
	case CADDone:
		expect = opCAD
		if e.Detected {
			r.state = ChannelActivityDetected
		} else {
			r.state = Idle
		}
		r.stats.CADDone++
	default:
		r.mu.Unlock()
		r.log.Printf("radio: dropped unknown event %T", ev)
		return
	}
	pending := r.pending
	unexpected := pending != expect
	if unexpected {
		r.stats.Unexpected++
	}
	r.finishLocked()
	next := r.state
	r.mu.Unlock()

	r.indicate(false)

	if unexpected {
		r.log.Printf("radio: %s with %s outstanding", ev.Name(), pending)
	}
	if gotRx {
		r.log.Debugf("> %s: RssiValue=%d dBm, SnrValue=%d", ev.Name(), frame.RSSI, frame.SNR)
		r.log.Dump("Data:", frame.Data)
		r.publish(types.TokRx, types.RxFrame{Size: frame.Size, Data: frame.Data, RSSI: frame.RSSI, SNR: frame.SNR, TS: timex.NowMs()}, false)
	} else {
		r.log.Debugf("> %s", ev.Name())
	}
	r.publishState(prev, next, ev.Name())
}

// opOf is the operation an event completes.
func opOf(ev Event) (op, bool) {
	switch ev.(type) {
	case TxDone, TxTimeout:
		return opTx, true
	case RxDone, RxTimeout, RxError:
		return opRx, true
	case CADDone:
		return opCAD, true
	}
	return opNone, false
}

// State returns the current operational state.
func (r *Radio) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Busy reports whether an operation is outstanding.
func (r *Radio) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != opNone
}

func (r *Radio) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Config returns the configuration applied by Configure.
func (r *Radio) Config() (modem.Config, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg, r.configured
}

// Buffer returns a copy of the receive buffer contents.
func (r *Radio) Buffer() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Bytes()
}

// Received hands over the latest reception once. A second call without a
// new RxDone returns false.
func (r *Radio) Received() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready {
		return Frame{}, false
	}
	r.ready = false
	return r.last, true
}

// WaitIdle blocks until no operation is outstanding or ctx ends.
func (r *Radio) WaitIdle(ctx context.Context) error {
	r.mu.Lock()
	ch := r.idle
	r.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctxErr(ctx)
	}
}

func (r *Radio) publishState(prev, next State, cause string) {
	r.publish(types.TokState, types.RadioState{
		State: next.String(),
		Prev:  prev.String(),
		Cause: cause,
		TS:    timex.NowMs(),
	}, true)
}

func (r *Radio) publish(leaf string, payload any, retained bool) {
	if r.conn == nil {
		return
	}
	r.conn.Publish(r.conn.NewMessage(bus.T(types.TokRadio, leaf), payload, retained))
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Dump(string, []byte)   {}
