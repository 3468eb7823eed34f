package radio

// Event is a completed transceiver operation. The set is closed: TxDone,
// TxTimeout, RxDone, RxTimeout, RxError and CADDone.
type Event interface {
	// Name is the handler label used in diagnostics, e.g. "OnTxDone".
	Name() string
	event()
}

// EventHandler is handed to a Transceiver at Init. It is called once per
// completed operation, from whatever context the transceiver completes on.
type EventHandler func(Event)

type TxDone struct{}

type TxTimeout struct{}

// RxDone carries the received frame. Size is what the hardware reported and
// may exceed len(Payload) or the receive buffer.
type RxDone struct {
	Payload []byte
	Size    int
	RSSI    int16 // dBm
	SNR     int8  // dB
}

type RxTimeout struct{}

// RxError is a reception that failed CRC or header checks.
type RxError struct{}

type CADDone struct{ Detected bool }

func (TxDone) Name() string    { return "OnTxDone" }
func (TxTimeout) Name() string { return "OnTxTimeout" }
func (RxDone) Name() string    { return "OnRxDone" }
func (RxTimeout) Name() string { return "OnRxTimeout" }
func (RxError) Name() string   { return "OnRxError" }
func (CADDone) Name() string   { return "OnCadDone" }

func (TxDone) event()    {}
func (TxTimeout) event() {}
func (RxDone) event()    {}
func (RxTimeout) event() {}
func (RxError) event()   {}
func (CADDone) event()   {}
