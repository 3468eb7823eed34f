package main

import (
	"context"
	"time"

	"loratx-go/bus"
	"loratx-go/config"
	"loratx-go/platform"
	"loratx-go/radio"
	"loratx-go/services/diag"
	"loratx-go/services/telemetry"
	"loratx-go/x/fmtx"
)

const consoleRing = 1024

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		println("config:", err.Error())
		return
	}
	pl, err := platform.Setup(cfg.Board, cfg.Console)
	if err != nil {
		println("platform:", err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	con := diag.NewConsole(pl.Console, consoleRing)
	conDone := make(chan struct{})
	go func() { con.Run(ctx); close(conDone) }()
	defer func() {
		cancel()
		<-conDone
	}()
	fmtx.DefaultOutput = con
	log := diag.New(con, cfg.Debug)

	b := bus.NewBus(cfg.BusQueue)
	cfg.Publish(b.NewConnection("config"))
	mon := &diag.Monitor{Log: log, Interval: cfg.Heartbeat}
	mon.Start(ctx, b.NewConnection("diag"))

	r, err := radio.Initialize(ctx, cfg.Board, pl.Open, radio.Options{
		Retry:     cfg.Retry,
		Log:       log,
		Conn:      b.NewConnection("radio"),
		Indicator: pl.LED,
	})
	if err != nil {
		log.Printf("radio: %s", err)
		return
	}
	if err := r.Configure(cfg.Modem); err != nil {
		log.Printf("radio: %s", err)
		return
	}

	svc := telemetry.New(cfg.Telemetry, r, pl.A0, pl.A2, log, b.NewConnection("telemetry"))
	if err := svc.Run(ctx); err != nil {
		log.Printf("telemetry: %s", err)
	}
}
