// Package telemetry samples two analog inputs and sends them as one text
// line per cycle over the radio.
package telemetry

import (
	"context"
	"time"

	"loratx-go/bus"
	"loratx-go/errcode"
	"loratx-go/radio"
	"loratx-go/types"
	"loratx-go/x/timex"
)

// Source yields a reading normalised to [0,1].
type Source interface {
	Read() (float32, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (float32, error)

func (f SourceFunc) Read() (float32, error) { return f() }

// Radio is the part of *radio.Radio the loop drives.
type Radio interface {
	StartReceiving(timeout time.Duration) error
	Send(payload []byte) error
	WaitIdle(ctx context.Context) error
	Received() (radio.Frame, bool)
}

type Logger interface {
	Printf(format string, args ...any)
	Debugf(format string, args ...any)
}

// BusyPolicy decides what a cycle does when the previous operation is still
// outstanding.
type BusyPolicy uint8

const (
	BlockUntilIdle BusyPolicy = iota // wait up to IdleWait, then drop
	DropIfBusy                       // send at once, drop on errcode.Busy
)

func (p BusyPolicy) String() string {
	switch p {
	case BlockUntilIdle:
		return "block_until_idle"
	case DropIfBusy:
		return "drop_if_busy"
	default:
		return "invalid"
	}
}

type Config struct {
	Interval      time.Duration // pause after each send
	InitialListen time.Duration // receive window before the first cycle; 0 skips it
	Policy        BusyPolicy
	IdleWait      time.Duration // BlockUntilIdle bound; 0 means Interval
}

const (
	DefaultInterval      = 2000 * time.Millisecond
	DefaultInitialListen = 3500 * time.Millisecond
)

func DefaultConfig() Config {
	return Config{
		Interval:      DefaultInterval,
		InitialListen: DefaultInitialListen,
		Policy:        BlockUntilIdle,
	}
}

type Service struct {
	cfg    Config
	radio  Radio
	a0, a2 Source
	log    Logger
	conn   *bus.Connection
	seq    uint32
}

// New builds the loop. conn may be nil.
func New(cfg Config, r Radio, a0, a2 Source, log Logger, conn *bus.Connection) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.IdleWait <= 0 {
		cfg.IdleWait = cfg.Interval
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Service{cfg: cfg, radio: r, a0: a0, a2: a2, log: log, conn: conn}
}

// Run listens once, then sends a line every Interval until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	s.publishState("starting", string(errcode.OK))
	if err := s.listen(ctx); err != nil {
		s.publishState("stopped", string(errcode.Of(err)))
		return err
	}
	s.publishState("running", string(errcode.OK))

	t := time.NewTimer(0)
	timex.DrainTimer(t)
	defer t.Stop()
	for {
		s.Cycle(ctx)
		timex.ResetTimer(t, s.cfg.Interval)
		select {
		case <-ctx.Done():
			s.publishState("stopped", string(errcode.Canceled))
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Start runs the loop on its own goroutine.
func (s *Service) Start(ctx context.Context) {
	go s.Run(ctx)
}

func (s *Service) listen(ctx context.Context) error {
	if s.cfg.InitialListen <= 0 {
		return nil
	}
	if err := s.radio.StartReceiving(s.cfg.InitialListen); err != nil {
		s.log.Printf("telemetry: initial listen failed: %s", errcode.Of(err))
		return nil
	}
	wctx, cancel := context.WithTimeout(ctx, s.cfg.InitialListen+s.cfg.IdleWait)
	defer cancel()
	if err := s.radio.WaitIdle(wctx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	s.drain()
	return nil
}

// Cycle samples, formats and sends one line, then collects anything the
// radio received since the last cycle.
func (s *Service) Cycle(ctx context.Context) (fr types.TelemetryFrame) {
	s.seq++
	fr.Seq = s.seq
	defer func() {
		fr.TS = timex.NowMs()
		s.publish(types.TokFrame, fr, false)
	}()

	r0, err := s.a0.Read()
	if err == nil {
		var r2 float32
		r2, err = s.a2.Read()
		fr.A2 = ScaleA2(r2)
	}
	if err != nil {
		fr.Err = string(errcode.Of(err))
		s.log.Printf("telemetry: sample failed: %s", err)
		return fr
	}
	fr.A0 = float64(ScaleA0(r0))
	fr.Line = FormatLine(fr.A0, fr.A2)

	if s.cfg.Policy == BlockUntilIdle {
		wctx, cancel := context.WithTimeout(ctx, s.cfg.IdleWait)
		err := s.radio.WaitIdle(wctx)
		cancel()
		if err != nil {
			fr.Err = string(errcode.Of(err))
			s.log.Printf("telemetry: radio still busy, frame %d dropped: %s", fr.Seq, fr.Line)
			return fr
		}
	}
	s.log.Printf("sending:%s", fr.Line)
	if err := s.radio.Send([]byte(fr.Line)); err != nil {
		fr.Err = string(errcode.Of(err))
		s.log.Printf("telemetry: send failed: %s", err)
	} else {
		fr.Sent = true
	}
	s.drain()
	return fr
}

func (s *Service) drain() {
	f, ok := s.radio.Received()
	if !ok {
		return
	}
	if f.Truncated() {
		s.log.Printf("telemetry: received %d bytes, kept %d", f.Size, len(f.Data))
	}
	s.log.Debugf("telemetry: received %q rssi=%d snr=%d", f.Data, f.RSSI, f.SNR)
}

func (s *Service) publishState(level, status string) {
	s.publish(types.TokState, types.ServiceState{Level: level, Status: status, TS: timex.NowMs()}, true)
}

func (s *Service) publish(leaf string, payload any, retained bool) {
	if s.conn == nil {
		return
	}
	s.conn.Publish(s.conn.NewMessage(bus.T(types.TokTelemetry, leaf), payload, retained))
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Debugf(string, ...any) {}
