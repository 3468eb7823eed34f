// Package sx127x adapts the blocking tinygo.org/x/drivers/sx127x API to the
// asynchronous transceiver boundary used by package radio. Each operation
// runs on its own goroutine and reports one event when the driver returns.
package sx127x

import (
	"sync"
	"time"

	"loratx-go/board"
	"loratx-go/errcode"
	"loratx-go/radio"
	"loratx-go/radio/modem"
	"loratx-go/x/timex"

	"tinygo.org/x/drivers/lora"
)

// Device is the part of *sx127x.Device the adapter drives.
type Device interface {
	Reset()
	DetectDevice() bool
	LoraConfig(cnf lora.Config)
	Tx(pkt []uint8, timeoutMs uint32) error
	Rx(timeoutMs uint32) ([]uint8, error)
	SetOpMode(mode uint8)
	GetRadioEventChan() chan lora.RadioEvent
	LastPacketRSSI() uint8
	LastPacketSNR() uint8
}

// SX127X_OPMODE_SLEEP; the driver package itself needs machine.
const opModeSleep uint8 = 0x00

type Options struct {
	Board board.Type
	// DetectBoard overrides Board, e.g. to sense an antenna switch line.
	DetectBoard func() board.Type
}

type Transceiver struct {
	dev  Device
	opts Options

	mu   sync.Mutex
	h    radio.EventHandler
	freq uint32
	tx   modem.TxConfig
	rx   modem.RxConfig
	busy bool
}

func New(dev Device, opts Options) *Transceiver {
	return &Transceiver{dev: dev, opts: opts}
}

// Init resets the chip and checks its version register.
func (t *Transceiver) Init(h radio.EventHandler) bool {
	t.mu.Lock()
	t.h = h
	t.mu.Unlock()
	t.dev.Reset()
	return t.dev.DetectDevice()
}

func (t *Transceiver) SetChannel(hz uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.freq = hz
	return nil
}

func loraOnly(s modem.Settings, op string) error {
	if _, ok := s.(modem.LoRa); !ok {
		return &errcode.E{C: errcode.Unsupported, Op: op, Msg: "driver supports lora only"}
	}
	return nil
}

func (t *Transceiver) SetTxConfig(c modem.TxConfig) error {
	if err := loraOnly(c.Settings, "sx127x.tx_config"); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tx = c
	return nil
}

func (t *Transceiver) SetRxConfig(c modem.RxConfig) error {
	if err := loraOnly(c.Settings, "sx127x.rx_config"); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rx = c
	return nil
}

// claim marks the device busy and returns a snapshot of what the operation
// needs.
func (t *Transceiver) claim(op string) (radio.EventHandler, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.busy {
		return nil, &errcode.E{C: errcode.Busy, Op: op}
	}
	if t.tx.Settings == nil || t.rx.Settings == nil || t.freq == 0 {
		return nil, &errcode.E{C: errcode.NotReady, Op: op, Msg: "not configured"}
	}
	t.busy = true
	return t.h, nil
}

func (t *Transceiver) complete(h radio.EventHandler, ev radio.Event) {
	t.mu.Lock()
	t.busy = false
	t.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

// drain discards events left over from a previous operation, e.g. a
// watchdog that raced a TxDone.
func (t *Transceiver) drain() {
	ch := t.dev.GetRadioEventChan()
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// Send transmits on a goroutine. The driver waits for TxDone without a
// deadline, so a watchdog event ends the wait after the configured timeout.
func (t *Transceiver) Send(p []byte) error {
	h, err := t.claim("sx127x.tx")
	if err != nil {
		return err
	}
	t.mu.Lock()
	cfg := t.tx.Settings.(modem.LoRa).DriverConfig(t.freq, t.tx.Power)
	timeout := t.tx.Timeout
	t.mu.Unlock()

	go func() {
		t.drain()
		t.dev.LoraConfig(cfg)
		ch := t.dev.GetRadioEventChan()
		wd := time.AfterFunc(timeout, func() {
			select {
			case ch <- lora.NewRadioEvent(lora.RadioEventWatchdog, 0, nil):
			default:
			}
		})
		err := t.dev.Tx(p, timex.Ms(timeout))
		wd.Stop()
		if err != nil {
			t.complete(h, radio.TxTimeout{})
			return
		}
		t.complete(h, radio.TxDone{})
	}()
	return nil
}

// Receive listens for one packet. The driver returns nil data when the
// window closes empty and an error on CRC failure.
func (t *Transceiver) Receive(timeout time.Duration) error {
	h, err := t.claim("sx127x.rx")
	if err != nil {
		return err
	}
	t.mu.Lock()
	cfg := t.rx.Settings.(modem.LoRa).DriverConfig(t.freq, t.tx.Power)
	t.mu.Unlock()

	go func() {
		t.drain()
		t.dev.LoraConfig(cfg)
		data, err := t.dev.Rx(timex.Ms(timeout))
		switch {
		case err != nil:
			t.complete(h, radio.RxError{})
		case data == nil:
			t.complete(h, radio.RxTimeout{})
		default:
			t.complete(h, radio.RxDone{
				Payload: data,
				Size:    len(data),
				RSSI:    int16(int8(t.dev.LastPacketRSSI())),
				SNR:     int8(t.dev.LastPacketSNR()),
			})
		}
	}()
	return nil
}

func (t *Transceiver) Sleep() { t.dev.SetOpMode(opModeSleep) }

func (t *Transceiver) DetectBoardType() board.Type {
	if t.opts.DetectBoard != nil {
		return t.opts.DetectBoard()
	}
	return t.opts.Board
}
