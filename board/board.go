package board

// Type identifies the radio board variant. The variant decides antenna
// switch wiring and PA output.
type Type uint8

const (
	Unknown Type = iota
	SX1276MB1LAS
	SX1276MB1MAS
	MurataSX1276
	RFM95SX1276

	// SX1276MB1xAS is the shield family before sensing which of LAS/MAS
	// is fitted.
	SX1276MB1xAS
)

func (t Type) String() string {
	switch t {
	case SX1276MB1LAS:
		return "SX1276MB1LAS"
	case SX1276MB1MAS:
		return "SX1276MB1MAS"
	case MurataSX1276:
		return "MURATA_SX1276"
	case RFM95SX1276:
		return "RFM95_SX1276"
	case SX1276MB1xAS:
		return "SX1276MB1xAS"
	default:
		return "unknown"
	}
}

// NoPin marks an optional pin that is not wired.
const NoPin = -1

// Antenna groups the optional RF switch lines. Unused lines are NoPin.
type Antenna struct {
	Switch int // single RX/TX select line (SX1276MB1xAS shields)
	RX     int
	TX     int
	Boost  int
	TCXO   int
}

// Profile is the wiring for one board variant. Pins are plain GPIO numbers;
// mapping to machine.Pin happens in the platform.
type Profile struct {
	Name string
	Type Type

	SPI           string // controller id, e.g. "spi0"
	SCK, SDO, SDI int
	CS, Reset     int
	DIO0, DIO1    int
	Antenna       Antenna

	LED int // busy indicator, NoPin if absent

	// Analog inputs sampled by telemetry (ADC-capable GPIO).
	A0, A2 int

	// Diagnostics console.
	UART           string
	UARTTX, UARTRX int
}

// Valid reports whether the mandatory radio pins are wired.
func (p Profile) Valid() bool {
	for _, pin := range []int{p.SCK, p.SDO, p.SDI, p.CS, p.Reset, p.DIO0} {
		if pin < 0 {
			return false
		}
	}
	return p.SPI != ""
}

// Detect resolves the board type. Shield families are told apart by the
// antenna switch line: LAS pulls it high, MAS leaves it low. readSwitch may
// be nil when the line cannot be sampled, in which case the family stays
// unresolved.
func Detect(p Profile, readSwitch func() bool) Type {
	if p.Type != SX1276MB1xAS {
		return p.Type
	}
	if readSwitch == nil || p.Antenna.Switch == NoPin {
		return Unknown
	}
	if readSwitch() {
		return SX1276MB1LAS
	}
	return SX1276MB1MAS
}
