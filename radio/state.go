package radio

// State is the transceiver's current phase. Exactly one is current.
type State uint8

const (
	LowPower State = iota
	Idle
	Receiving
	ReceiveTimeout
	ReceiveError
	Transmitting
	TransmitTimeout
	ChannelActivityDetecting
	ChannelActivityDetected
)

var stateNames = [...]string{
	LowPower:                 "low_power",
	Idle:                     "idle",
	Receiving:                "receiving",
	ReceiveTimeout:           "receive_timeout",
	ReceiveError:             "receive_error",
	Transmitting:             "transmitting",
	TransmitTimeout:          "transmit_timeout",
	ChannelActivityDetecting: "cad_detecting",
	ChannelActivityDetected:  "cad_detected",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}
