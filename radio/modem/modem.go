// Package modem holds the immutable modulation configuration applied to a
// transceiver: carrier, power, timing and exactly one of the LoRa or FSK
// parameter sets.
package modem

import (
	"time"

	"tinygo.org/x/drivers/lora"
)

// Kind names the modulation family of a Settings value.
type Kind uint8

const (
	KindLoRa Kind = iota
	KindFSK
)

func (k Kind) String() string {
	if k == KindFSK {
		return "fsk"
	}
	return "lora"
}

// Settings is implemented only by LoRa and FSK, so a configuration can never
// carry parameters of both families.
type Settings interface {
	Kind() Kind
	Validate() error
	TimeOnAir(payloadLen int) time.Duration
	sealed()
}

// LoRa parameters. Bandwidth, SpreadingFactor and CodingRate take the
// tinygo.org/x/drivers/lora constants.
type LoRa struct {
	Bandwidth       uint8 // lora.Bandwidth_*
	SpreadingFactor uint8 // lora.SpreadingFactor*
	CodingRate      uint8 // lora.CodingRate4_*
	PreambleLen     uint16
	SymbolTimeout   uint16 // single-RX timeout in symbols
	FixedLength     bool   // implicit header
	PayloadLen      uint8  // only meaningful with FixedLength
	CRC             bool
	FreqHopping     bool
	HopPeriod       uint8 // symbols between hops
	IQInverted      bool
	PublicNetwork   bool // LoRaWAN public sync word instead of private
}

func (LoRa) Kind() Kind { return KindLoRa }
func (LoRa) sealed()    {}

// FSK parameters. All rates and bandwidths in Hz / bit/s.
type FSK struct {
	Deviation    uint32
	Datarate     uint32
	Bandwidth    uint32
	AFCBandwidth uint32
	PreambleLen  uint16 // bytes
	FixedLength  bool
	PayloadLen   uint8
	CRC          bool
}

func (FSK) Kind() Kind { return KindFSK }
func (FSK) sealed()    {}

// Config is the full modem configuration. Treat it as a value; Radio copies
// it on Configure.
type Config struct {
	Frequency    uint32 // Hz
	TxPower      int8   // dBm
	TxTimeout    time.Duration
	RxContinuous bool
	Settings     Settings
}

// TxConfig is what a transceiver needs to arm its transmitter.
type TxConfig struct {
	Power    int8
	Timeout  time.Duration
	Settings Settings
}

// RxConfig is what a transceiver needs to arm its receiver.
type RxConfig struct {
	Continuous bool
	Settings   Settings
}

func (c Config) TxConfig() TxConfig {
	return TxConfig{Power: c.TxPower, Timeout: c.TxTimeout, Settings: c.Settings}
}

func (c Config) RxConfig() RxConfig {
	return RxConfig{Continuous: c.RxContinuous, Settings: c.Settings}
}

// Kind of the carried settings; KindLoRa when none are set.
func (c Config) Kind() Kind {
	if c.Settings == nil {
		return KindLoRa
	}
	return c.Settings.Kind()
}

// Reference values used by the transmitter firmware.
const (
	DefaultFrequency uint32 = lora.MHz_868_1
	DefaultTxPower   int8   = 14
	DefaultTxTimeout        = 2000 * time.Millisecond
)

// DefaultLoRa returns the LoRa reference configuration: 868.1 MHz, 14 dBm,
// BW 125 kHz, SF7, CR 4/5, preamble 8, CRC on, explicit header.
func DefaultLoRa() Config {
	return Config{
		Frequency:    DefaultFrequency,
		TxPower:      DefaultTxPower,
		TxTimeout:    DefaultTxTimeout,
		RxContinuous: true,
		Settings: LoRa{
			Bandwidth:       lora.Bandwidth_125_0,
			SpreadingFactor: lora.SpreadingFactor7,
			CodingRate:      lora.CodingRate4_5,
			PreambleLen:     8,
			SymbolTimeout:   5,
			CRC:             true,
			HopPeriod:       4,
		},
	}
}

// DefaultFSK returns the FSK reference configuration: 25 kHz deviation,
// 19200 bit/s, 50 kHz bandwidth, 83.333 kHz AFC bandwidth, preamble 5.
func DefaultFSK() Config {
	return Config{
		Frequency:    DefaultFrequency,
		TxPower:      DefaultTxPower,
		TxTimeout:    DefaultTxTimeout,
		RxContinuous: true,
		Settings: FSK{
			Deviation:    25000,
			Datarate:     19200,
			Bandwidth:    50000,
			AFCBandwidth: 83333,
			PreambleLen:  5,
			CRC:          true,
		},
	}
}
