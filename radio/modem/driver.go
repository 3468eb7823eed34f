package modem

import "tinygo.org/x/drivers/lora"

// DriverConfig maps LoRa settings onto the tinygo driver configuration.
func (s LoRa) DriverConfig(freq uint32, power int8) lora.Config {
	c := lora.Config{
		Freq:           freq,
		Cr:             s.CodingRate,
		Sf:             s.SpreadingFactor,
		Bw:             s.Bandwidth,
		Ldr:            lora.LowDataRateOptimizeOff,
		Preamble:       s.PreambleLen,
		SyncWord:       lora.SyncPrivate,
		HeaderType:     lora.HeaderExplicit,
		Crc:            lora.CRCOff,
		Iq:             lora.IQStandard,
		LoraTxPowerDBm: power,
	}
	if s.LowDataRateOptimize() {
		c.Ldr = lora.LowDataRateOptimizeOn
	}
	if s.PublicNetwork {
		c.SyncWord = lora.SyncPublic
	}
	if s.FixedLength {
		c.HeaderType = lora.HeaderImplicit
	}
	if s.CRC {
		c.Crc = lora.CRCOn
	}
	if s.IQInverted {
		c.Iq = lora.IQInverted
	}
	return c
}
