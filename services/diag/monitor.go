package diag

import (
	"context"
	"time"

	"loratx-go/bus"
	"loratx-go/types"
)

// Monitor logs radio and telemetry bus traffic and emits a periodic
// heartbeat line summarising it.
type Monitor struct {
	Log      *Logger
	Interval time.Duration // heartbeat period; 0 disables

	state string
	txOK  uint32
	txErr uint32
	rx    uint32
}

func (m *Monitor) serviceLoop(ctx context.Context, conn *bus.Connection) {
	radioSub := conn.Subscribe(bus.T(types.TokRadio, bus.MultiWild))
	telSub := conn.Subscribe(bus.T(types.TokTelemetry, bus.MultiWild))
	defer conn.Disconnect()

	var tick <-chan time.Time
	if m.Interval > 0 {
		t := time.NewTicker(m.Interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			m.Log.Printf("monitor stopping")
			return
		case <-tick:
			m.Log.Printf("heartbeat: radio=%s sent=%d failed=%d received=%d", m.state, m.txOK, m.txErr, m.rx)
		case msg, ok := <-radioSub.Channel():
			if !ok {
				return
			}
			m.onRadio(msg)
		case msg, ok := <-telSub.Channel():
			if !ok {
				return
			}
			m.onTelemetry(msg)
		}
	}
}

func (m *Monitor) onRadio(msg *bus.Message) {
	switch p := msg.Payload.(type) {
	case types.RadioState:
		m.state = p.State
		m.Log.Debugf("radio: %s -> %s (%s)", p.Prev, p.State, p.Cause)
		switch p.State {
		case "transmitting":
			m.txOK++
		case "transmit_timeout":
			m.txErr++
		}
	case types.RxFrame:
		m.rx++
		m.Log.Printf("radio: rx %d bytes rssi=%d snr=%d", p.Size, p.RSSI, p.SNR)
	case types.RadioInfo:
		m.Log.Printf("radio: up, board %s after %d attempt(s)", p.Board, p.Attempts)
	}
}

func (m *Monitor) onTelemetry(msg *bus.Message) {
	switch p := msg.Payload.(type) {
	case types.TelemetryFrame:
		if !p.Sent {
			m.Log.Printf("telemetry: frame %d not sent: %s", p.Seq, p.Err)
		}
	case types.ServiceState:
		m.Log.Printf("telemetry: %s %s", p.Level, p.Status)
	}
}

// Start runs the monitor until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context, conn *bus.Connection) {
	if m.Log == nil {
		m.Log = Nop
	}
	if m.state == "" {
		m.state = "unknown"
	}
	go m.serviceLoop(ctx, conn)
}
