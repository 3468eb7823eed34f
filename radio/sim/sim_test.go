package sim_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"loratx-go/board"
	"loratx-go/radio"
	"loratx-go/radio/modem"
	"loratx-go/radio/sim"
)

type lines struct {
	mu sync.Mutex
	l  []string
}

func (l *lines) Printf(f string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l = append(l.l, fmt.Sprintf(f, a...))
}
func (l *lines) Debugf(f string, a ...any) { l.Printf(f, a...) }
func (l *lines) Dump(string, []byte)       {}

func (l *lines) count(sub string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.l {
		if strings.Contains(s, sub) {
			n++
		}
	}
	return n
}

func setup(t *testing.T, opts sim.Options, log radio.Logger) (*radio.Radio, *sim.Transceiver) {
	t.Helper()
	trx := sim.New(opts)
	r, err := radio.Initialize(context.Background(), board.Host,
		func(board.Profile) (radio.Transceiver, error) { return trx, nil },
		radio.Options{Log: log, Retry: radio.RetryPolicy{Backoff: time.Millisecond}})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := r.Configure(modem.DefaultLoRa()); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return r, trx
}

func waitIdle(t *testing.T, r *radio.Radio) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

func TestDetectRetriesThenConfigure(t *testing.T) {
	log := &lines{}
	r, trx := setup(t, sim.Options{DetectFailures: 3}, log)
	if got := log.count("could not be detected"); got != 3 {
		t.Fatalf("retry lines = %d, want 3", got)
	}
	if trx.Inits() != 4 || trx.Channel() != modem.DefaultFrequency {
		t.Fatalf("inits=%d channel=%d", trx.Inits(), trx.Channel())
	}
	if r.Board() != board.RFM95SX1276 {
		t.Fatalf("board = %v", r.Board())
	}
}

func TestSendCompletesWithTxDone(t *testing.T) {
	r, trx := setup(t, sim.Options{Airtime: func(int) time.Duration { return 5 * time.Millisecond }}, nil)
	line := []byte("ALGG A0:5.000000 A2:3.500000")
	if err := r.Send(line); err != nil {
		t.Fatal(err)
	}
	if r.State() != radio.LowPower {
		t.Fatalf("state before completion = %v", r.State())
	}
	waitIdle(t, r)
	if r.State() != radio.Transmitting || trx.Sleeps() != 1 {
		t.Fatalf("state=%v sleeps=%d", r.State(), trx.Sleeps())
	}
	if !bytes.Equal(trx.Sent()[0], line) {
		t.Fatalf("on air %q", trx.Sent()[0])
	}
}

func TestReceiveWindowTimesOut(t *testing.T) {
	r, trx := setup(t, sim.Options{}, nil)
	if err := r.StartReceiving(30 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, r)
	if r.State() != radio.ReceiveTimeout {
		t.Fatalf("state = %v", r.State())
	}
	buf := r.Buffer()
	if buf[len(buf)-1] != radio.Terminator || trx.Sleeps() != 1 {
		t.Fatalf("last byte %#x sleeps %d", buf[len(buf)-1], trx.Sleeps())
	}
}

func TestInjectedFrameReceived(t *testing.T) {
	r, trx := setup(t, sim.Options{RSSI: -71, SNR: 9, Airtime: func(int) time.Duration { return time.Millisecond }}, nil)
	if err := r.StartReceiving(time.Second); err != nil {
		t.Fatal(err)
	}
	trx.Inject([]byte("ACK"))
	waitIdle(t, r)
	f, ok := r.Received()
	if !ok || string(f.Data) != "ACK" || f.RSSI != -71 || f.SNR != 9 {
		t.Fatalf("frame=%+v ok=%v", f, ok)
	}

	// Queued frames are delivered as soon as the next window opens.
	trx.Inject([]byte("late"))
	_ = r.StartReceiving(time.Second)
	waitIdle(t, r)
	if f, _ := r.Received(); string(f.Data) != "late" {
		t.Fatalf("queued frame = %q", f.Data)
	}
}

func TestTxTimeoutAndCRCError(t *testing.T) {
	r, trx := setup(t, sim.Options{}, nil)
	cfg := modem.DefaultLoRa()
	cfg.TxTimeout = 10 * time.Millisecond
	if err := r.Configure(cfg); err != nil {
		t.Fatal(err)
	}

	trx.FailNextSends(1)
	_ = r.Send([]byte("lost"))
	waitIdle(t, r)
	if r.State() != radio.TransmitTimeout {
		t.Fatalf("state = %v", r.State())
	}

	_ = r.StartReceiving(time.Second)
	if !trx.Corrupt() {
		t.Fatal("no open window")
	}
	waitIdle(t, r)
	if r.State() != radio.ReceiveError {
		t.Fatalf("state = %v", r.State())
	}
}

func TestCADReportsChannel(t *testing.T) {
	r, trx := setup(t, sim.Options{}, nil)
	trx.SetChannelBusy(true)
	if err := r.StartChannelActivityDetection(); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, r)
	if r.State() != radio.ChannelActivityDetected {
		t.Fatalf("state = %v", r.State())
	}
}
