package modem

import (
	"time"

	"loratx-go/x/mathx"

	"tinygo.org/x/drivers/lora"
)

var bandwidthHz = [...]uint32{
	lora.Bandwidth_7_8:   7800,
	lora.Bandwidth_10_4:  10400,
	lora.Bandwidth_15_6:  15600,
	lora.Bandwidth_20_8:  20800,
	lora.Bandwidth_31_25: 31250,
	lora.Bandwidth_41_7:  41700,
	lora.Bandwidth_62_5:  62500,
	lora.Bandwidth_125_0: 125000,
	lora.Bandwidth_250_0: 250000,
	lora.Bandwidth_500_0: 500000,
}

// BandwidthHz returns the LoRa channel bandwidth in Hz, 0 for unknown codes.
func BandwidthHz(bw uint8) uint32 {
	if int(bw) >= len(bandwidthHz) {
		return 0
	}
	return bandwidthHz[bw]
}

// SymbolTime is 2^SF / BW.
func (s LoRa) SymbolTime() time.Duration {
	hz := BandwidthHz(s.Bandwidth)
	if hz == 0 {
		return 0
	}
	return time.Second * time.Duration(uint32(1)<<s.SpreadingFactor) / time.Duration(hz)
}

// LowDataRateOptimize is mandated once a symbol lasts longer than 16 ms.
func (s LoRa) LowDataRateOptimize() bool {
	return s.SymbolTime() > 16*time.Millisecond
}

// TimeOnAir follows the SX1276 datasheet packet-duration formula. The 4.25
// preamble symbols are rounded up to 5 so the estimate errs long.
func (s LoRa) TimeOnAir(payloadLen int) time.Duration {
	hz := BandwidthHz(s.Bandwidth)
	if hz == 0 || s.SpreadingFactor == 0 {
		return 0
	}
	sf := int64(s.SpreadingFactor)
	crc, ih, ldr := int64(0), int64(0), int64(0)
	if s.CRC {
		crc = 1
	}
	if s.FixedLength {
		ih = 1
	}
	if s.LowDataRateOptimize() {
		ldr = 1
	}
	num := 8*int64(payloadLen) - 4*sf + 28 + 16*crc - 20*ih
	div := 4 * (sf - 2*ldr)
	var nsym int64
	if num > 0 && div > 0 {
		nsym = int64(mathx.CeilDiv(uint64(num), uint64(div))) * (int64(s.CodingRate) + 4)
	}
	nsym += 8 + int64(s.PreambleLen) + 5
	return time.Second * time.Duration(nsym<<sf) / time.Duration(hz)
}

// FSK packet: preamble, 3-byte sync word, optional length byte, payload and
// optional 2-byte CRC, all at Datarate.
func (s FSK) TimeOnAir(payloadLen int) time.Duration {
	if s.Datarate == 0 {
		return 0
	}
	n := int64(s.PreambleLen) + 3 + int64(payloadLen)
	if !s.FixedLength {
		n++
	}
	if s.CRC {
		n += 2
	}
	return time.Second * time.Duration(n*8) / time.Duration(s.Datarate)
}

// TimeOnAir of a payload under the carried settings, 0 when none are set.
func (c Config) TimeOnAir(payloadLen int) time.Duration {
	if c.Settings == nil {
		return 0
	}
	return c.Settings.TimeOnAir(payloadLen)
}
