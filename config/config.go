// Package config holds the static application configuration. There are no
// files or flags: every value is fixed at build time and published retained
// on config/<section> so services can read it from the bus.
package config

import (
	"time"

	"loratx-go/board"
	"loratx-go/bus"
	"loratx-go/errcode"
	"loratx-go/radio"
	"loratx-go/radio/modem"
	"loratx-go/services/telemetry"
	"loratx-go/types"
)

const configPrefix = "config"

// Section tokens under config/.
const (
	TokModem     = "modem"
	TokTelemetry = "telemetry"
	TokBoard     = "board"
	TokConsole   = "console"
)

type App struct {
	Device    string
	Board     board.Profile
	Modem     modem.Config
	Telemetry telemetry.Config
	Retry     radio.RetryPolicy
	Debug     bool
	BusQueue  int
	Heartbeat time.Duration // 0 disables the monitor heartbeat
	Console   types.ConsoleFormat
}

// Default is the LoRa reference set for the selected board.
func Default() App {
	return App{
		Device:    "loratx",
		Board:     board.Selected,
		Modem:     modem.DefaultLoRa(),
		Telemetry: telemetry.DefaultConfig(),
		Retry:     radio.DefaultRetry(),
		Debug:     true,
		BusQueue:  16,
		Heartbeat: 30 * time.Second,
		Console:   types.ConsoleFormat{Baud: 115200, DataBits: 8, StopBits: 1, Parity: types.ParityNone},
	}
}

// DefaultFSK is Default with the FSK modem settings.
func DefaultFSK() App {
	a := Default()
	a.Modem = modem.DefaultFSK()
	return a
}

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: msg}
}

// Validate checks ranges and that the widest telemetry line fits the radio
// buffer.
func (a App) Validate() error {
	if err := a.Modem.Validate(); err != nil {
		return err
	}
	if !a.Board.Valid() {
		return invalid("board " + a.Board.Name + " is missing radio pins")
	}
	t := a.Telemetry
	switch {
	case t.Interval <= 0:
		return invalid("telemetry interval must be positive")
	case t.InitialListen < 0 || t.IdleWait < 0:
		return invalid("telemetry windows must not be negative")
	case t.Policy != telemetry.BlockUntilIdle && t.Policy != telemetry.DropIfBusy:
		return invalid("unknown busy policy")
	}
	if a.Retry.MaxAttempts < 0 || a.Retry.Backoff < 0 {
		return invalid("retry policy must not be negative")
	}
	if a.BusQueue <= 0 {
		return invalid("bus queue length must be positive")
	}
	c := a.Console
	if c.Baud == 0 || c.DataBits < 5 || c.DataBits > 8 || c.StopBits < 1 || c.StopBits > 2 {
		return invalid("console format")
	}
	widest := telemetry.FormatLine(float64(telemetry.ScaleA0(0)), telemetry.ScaleA2(1))
	if len(widest) > radio.RxBufferCap {
		return &errcode.E{C: errcode.PayloadTooLarge, Op: "config", Msg: widest}
	}
	return nil
}

// Publish places each section on config/<section> as a retained message.
func (a App) Publish(conn *bus.Connection) {
	sections := []struct {
		key string
		val any
	}{
		{TokModem, a.Modem},
		{TokTelemetry, a.Telemetry},
		{TokBoard, a.Board},
		{TokConsole, a.Console},
	}
	for _, s := range sections {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, s.key), s.val, true))
	}
}
