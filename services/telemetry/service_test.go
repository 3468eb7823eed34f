package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"loratx-go/board"
	"loratx-go/bus"
	"loratx-go/errcode"
	"loratx-go/radio"
	"loratx-go/radio/modem"
	"loratx-go/radio/sim"
	"loratx-go/types"
)

type recLog struct {
	mu sync.Mutex
	l  []string
}

func (r *recLog) Printf(f string, a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.l = append(r.l, fmt.Sprintf(f, a...))
}
func (r *recLog) Debugf(f string, a ...any) { r.Printf(f, a...) }

func (r *recLog) has(sub string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.l {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeRadio struct {
	busy    bool
	sendErr error
	sent    []string
	waits   int
	listens []time.Duration
	frame   *radio.Frame
}

func (f *fakeRadio) StartReceiving(d time.Duration) error {
	f.listens = append(f.listens, d)
	return nil
}

func (f *fakeRadio) Send(p []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, string(p))
	return nil
}

func (f *fakeRadio) WaitIdle(ctx context.Context) error {
	f.waits++
	if !f.busy {
		return nil
	}
	<-ctx.Done()
	return errcode.Timeout
}

func (f *fakeRadio) Received() (radio.Frame, bool) {
	if f.frame == nil {
		return radio.Frame{}, false
	}
	fr := *f.frame
	f.frame = nil
	return fr, true
}

func fixed(v float32) Source {
	return SourceFunc(func() (float32, error) { return v, nil })
}

func recvWithin[T any](t *testing.T, ch <-chan T, d time.Duration) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(d):
		var zero T
		t.Fatalf("timeout waiting for value")
		return zero
	}
}

func TestFormatLine(t *testing.T) {
	cases := []struct {
		a0, a2 float64
		want   string
	}{
		{5, 3.5, "ALGG A0:5.000000 A2:3.500000"},
		{float64(ScaleA0(0)), ScaleA2(1), "ALGG A0:10.000000 A2:13.500000"},
		{float64(ScaleA0(1)), ScaleA2(0), "ALGG A0:0.000000 A2:-1.000000"},
		{0.25, 0.125, "ALGG A0:0.250000 A2:0.125000"},
	}
	for _, c := range cases {
		got := FormatLine(c.a0, c.a2)
		if got != c.want {
			t.Errorf("FormatLine(%v, %v) = %q, want %q", c.a0, c.a2, got, c.want)
		}
		if len(got) > radio.RxBufferCap {
			t.Errorf("line %q longer than the radio buffer", got)
		}
	}
}

func TestFormatLineADCSteps(t *testing.T) {
	cases := []struct {
		raw    int
		wantA2 string
	}{
		{84, "-0.981415"},
		{0, "-1.000000"},
		{65535, "13.500000"},
	}
	for _, c := range cases {
		r := float32(c.raw) / 65535
		got := FormatLine(float64(ScaleA0(r)), ScaleA2(r))
		if !strings.HasSuffix(got, " A2:"+c.wantA2) {
			t.Errorf("raw %d: %q, want A2:%s", c.raw, got, c.wantA2)
		}
	}

	for raw := 0; raw <= 65535; raw++ {
		r := float32(raw) / 65535
		want := fmt.Sprintf("ALGG A0:%f A2:%f", float64(10-float32(r*10)), float64(float64(r)*14.5)-1)
		if got := FormatLine(float64(ScaleA0(r)), ScaleA2(r)); got != want {
			t.Fatalf("raw %d: got %q, want %q", raw, got, want)
		}
	}
}

func TestScaleClampsOutOfRange(t *testing.T) {
	if got := ScaleA0(1.5); got != 0 {
		t.Fatalf("ScaleA0(1.5) = %v", got)
	}
	if got := ScaleA0(-1); got != 10 {
		t.Fatalf("ScaleA0(-1) = %v", got)
	}
	if got := ScaleA2(2); got != 13.5 {
		t.Fatalf("ScaleA2(2) = %v", got)
	}
	if got := ScaleA0(0.5); got != 5 {
		t.Fatalf("ScaleA0(0.5) = %v", got)
	}
}

func TestCycleSendsLine(t *testing.T) {
	fr := &fakeRadio{}
	log := &recLog{}
	s := New(Config{Interval: time.Millisecond}, fr, fixed(0.5), fixed(0), log, nil)

	got := s.Cycle(context.Background())
	if !got.Sent || got.Err != "" {
		t.Fatalf("frame not sent: %+v", got)
	}
	want := "ALGG A0:5.000000 A2:-1.000000"
	if len(fr.sent) != 1 || fr.sent[0] != want {
		t.Fatalf("sent %q, want %q", fr.sent, want)
	}
	if !log.has("sending:" + want) {
		t.Fatalf("missing sending line: %v", log.l)
	}
	if got.Seq != 1 || fr.waits != 1 {
		t.Fatalf("seq=%d waits=%d", got.Seq, fr.waits)
	}
}

func TestBlockUntilIdleDropsAfterWait(t *testing.T) {
	fr := &fakeRadio{busy: true}
	log := &recLog{}
	s := New(Config{Interval: time.Second, IdleWait: 10 * time.Millisecond}, fr, fixed(0), fixed(0), log, nil)

	got := s.Cycle(context.Background())
	if got.Sent || got.Err != string(errcode.Timeout) {
		t.Fatalf("want dropped with timeout, got %+v", got)
	}
	if len(fr.sent) != 0 {
		t.Fatalf("nothing should be sent while busy")
	}
	if !log.has("frame 1 dropped: ALGG A0:10.000000 A2:-1.000000") {
		t.Fatalf("drop not logged: %v", log.l)
	}
	if log.has("sending:") {
		t.Fatalf("dropped frame logged as sent: %v", log.l)
	}
}

func TestDropIfBusySkipsWait(t *testing.T) {
	fr := &fakeRadio{busy: true, sendErr: errcode.Busy}
	s := New(Config{Policy: DropIfBusy}, fr, fixed(0), fixed(0), nil, nil)

	got := s.Cycle(context.Background())
	if fr.waits != 0 {
		t.Fatalf("DropIfBusy must not wait")
	}
	if got.Sent || got.Err != string(errcode.Busy) {
		t.Fatalf("want busy drop, got %+v", got)
	}
}

func TestSampleErrorSkipsSend(t *testing.T) {
	fr := &fakeRadio{}
	bad := SourceFunc(func() (float32, error) { return 0, errors.New("adc") })
	s := New(Config{}, fr, fixed(0), bad, nil, nil)

	got := s.Cycle(context.Background())
	if got.Sent || got.Err != string(errcode.Error) || len(fr.sent) != 0 {
		t.Fatalf("sample failure should skip the send: %+v", got)
	}
}

func TestCycleDrainsReception(t *testing.T) {
	fr := &fakeRadio{frame: &radio.Frame{Data: []byte("hi"), Size: 2, RSSI: -40, SNR: 7}}
	log := &recLog{}
	s := New(Config{}, fr, fixed(0), fixed(0), log, nil)
	s.Cycle(context.Background())
	if !log.has(`received "hi" rssi=-40 snr=7`) {
		t.Fatalf("reception not logged: %v", log.l)
	}
	if _, ok := fr.Received(); ok {
		t.Fatalf("frame should have been consumed")
	}
}

func TestPolicyNames(t *testing.T) {
	if BlockUntilIdle.String() != "block_until_idle" || DropIfBusy.String() != "drop_if_busy" {
		t.Fatal("policy names changed")
	}
	if BusyPolicy(9).String() != "invalid" {
		t.Fatal("out of range policy")
	}
}

func TestRunOverSimulatedRadio(t *testing.T) {
	trx := sim.New(sim.Options{Airtime: func(int) time.Duration { return 2 * time.Millisecond }})
	trx.Inject([]byte("ping"))
	r, err := radio.Initialize(context.Background(), board.Host,
		func(board.Profile) (radio.Transceiver, error) { return trx, nil }, radio.Options{})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := r.Configure(modem.DefaultLoRa()); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	b := bus.NewBus(16)
	conn := b.NewConnection("telemetry")
	sub := b.NewConnection("test").Subscribe(bus.T(types.TokTelemetry, types.TokFrame))
	log := &recLog{}
	cfg := Config{Interval: 5 * time.Millisecond, InitialListen: 50 * time.Millisecond, IdleWait: time.Second}
	s := New(cfg, r, fixed(0.5), fixed(0), log, conn)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for i := 1; i <= 3; i++ {
		m := recvWithin(t, sub.Channel(), 2*time.Second)
		f, ok := m.Payload.(types.TelemetryFrame)
		if !ok || !f.Sent || f.Seq != uint32(i) {
			t.Fatalf("frame %d: %+v", i, m.Payload)
		}
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !log.has(`received "ping"`) {
		t.Fatalf("initial listen did not collect the injected frame: %v", log.l)
	}
	if len(trx.Sent()) < 3 {
		t.Fatalf("sim saw %d transmissions", len(trx.Sent()))
	}
}
