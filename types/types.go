package types

// Topic tokens. Topics are built with bus.T(...).
const (
	TokRadio     = "radio"
	TokTelemetry = "telemetry"
	TokState     = "state"
	TokInfo      = "info"
	TokRx        = "rx"
	TokFrame     = "frame"
)

// ---- Common service state (retained) ----

type ServiceState struct {
	Level  string `json:"level"`  // "starting", "running", "stopped"
	Status string `json:"status"` // short code, e.g. errcode value
	TS     int64  `json:"ts_ms"`
}

// ---- Radio payloads ----

// RadioInfo is published retained on radio/info once the transceiver is up.
type RadioInfo struct {
	Board    string `json:"board"`
	Attempts int    `json:"attempts"`
	TS       int64  `json:"ts_ms"`
}

// RadioState is published retained on radio/state after every transition.
type RadioState struct {
	State string `json:"state"`
	Prev  string `json:"prev"`
	Cause string `json:"cause"` // event or call that caused the transition
	TS    int64  `json:"ts_ms"`
}

// RxFrame is published on radio/rx for each completed reception.
// Size is what the transceiver reported; len(Data) may be smaller.
type RxFrame struct {
	Size int    `json:"size"`
	Data []byte `json:"data"`
	RSSI int16  `json:"rssi"`
	SNR  int8   `json:"snr"`
	TS   int64  `json:"ts_ms"`
}

// ---- Telemetry payloads ----

type TelemetryFrame struct {
	Seq  uint32  `json:"seq"`
	Line string  `json:"line"`
	A0   float64 `json:"a0"`
	A2   float64 `json:"a2"`
	Sent bool    `json:"sent"`
	Err  string  `json:"error,omitempty"`
	TS   int64   `json:"ts_ms"`
}
