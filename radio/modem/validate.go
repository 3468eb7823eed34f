package modem

import (
	"loratx-go/errcode"
	"loratx-go/x/fmtx"
)

// SX127x synthesiser and PA limits.
const (
	MinFrequency uint32 = 137_000_000
	MaxFrequency uint32 = 1_020_000_000
	MinTxPower   int8   = -4
	MaxTxPower   int8   = 20
)

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidConfig, Op: "modem", Msg: msg}
}

// Validate checks the whole configuration including the carried settings.
func (c Config) Validate() error {
	if c.Frequency < MinFrequency || c.Frequency > MaxFrequency {
		return invalid(fmtx.Sprintf("frequency %d Hz out of range", c.Frequency))
	}
	if c.TxPower < MinTxPower || c.TxPower > MaxTxPower {
		return invalid(fmtx.Sprintf("tx power %d dBm out of range", c.TxPower))
	}
	if c.TxTimeout <= 0 {
		return invalid("tx timeout must be positive")
	}
	if c.Settings == nil {
		return invalid("no modem settings")
	}
	return c.Settings.Validate()
}

func (s LoRa) Validate() error {
	if BandwidthHz(s.Bandwidth) == 0 {
		return invalid(fmtx.Sprintf("unknown lora bandwidth %d", s.Bandwidth))
	}
	// SF5 exists only on later chips.
	if s.SpreadingFactor < 6 || s.SpreadingFactor > 12 {
		return invalid(fmtx.Sprintf("spreading factor %d out of range", s.SpreadingFactor))
	}
	if s.SpreadingFactor == 6 && !s.FixedLength {
		return invalid("SF6 requires fixed length (implicit header)")
	}
	if s.CodingRate < 1 || s.CodingRate > 4 {
		return invalid(fmtx.Sprintf("coding rate %d out of range", s.CodingRate))
	}
	if s.PreambleLen < 6 {
		return invalid("lora preamble shorter than 6 symbols")
	}
	if s.SymbolTimeout > 1023 {
		return invalid("symbol timeout exceeds 10 bits")
	}
	if s.FixedLength && s.PayloadLen == 0 {
		return invalid("fixed length needs a payload length")
	}
	if s.FreqHopping && s.HopPeriod == 0 {
		return invalid("frequency hopping needs a hop period")
	}
	return nil
}

func (s FSK) Validate() error {
	if s.Datarate < 1200 || s.Datarate > 300_000 {
		return invalid(fmtx.Sprintf("fsk datarate %d out of range", s.Datarate))
	}
	if s.Deviation == 0 || s.Deviation > 200_000 {
		return invalid(fmtx.Sprintf("fsk deviation %d out of range", s.Deviation))
	}
	if s.Bandwidth < 2600 || s.Bandwidth > 250_000 {
		return invalid(fmtx.Sprintf("fsk bandwidth %d out of range", s.Bandwidth))
	}
	if s.AFCBandwidth != 0 && s.AFCBandwidth < s.Bandwidth {
		return invalid("afc bandwidth narrower than rx bandwidth")
	}
	if s.FixedLength && s.PayloadLen == 0 {
		return invalid("fixed length needs a payload length")
	}
	return nil
}
