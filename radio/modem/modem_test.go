package modem

import (
	"testing"
	"time"

	"loratx-go/errcode"

	"tinygo.org/x/drivers/lora"
)

func TestDefaultsValidate(t *testing.T) {
	for _, c := range []Config{DefaultLoRa(), DefaultFSK()} {
		if err := c.Validate(); err != nil {
			t.Fatalf("%v defaults invalid: %v", c.Kind(), err)
		}
	}
}

func TestTxRxConfigCarrySameVariant(t *testing.T) {
	c := DefaultFSK()
	tx, rx := c.TxConfig(), c.RxConfig()
	if tx.Settings.Kind() != KindFSK || rx.Settings.Kind() != KindFSK {
		t.Fatalf("variants diverged: tx=%v rx=%v", tx.Settings.Kind(), rx.Settings.Kind())
	}
	if tx.Power != 14 || tx.Timeout != 2*time.Second {
		t.Fatalf("tx record = %+v", tx)
	}
	f := rx.Settings.(FSK)
	if f.Deviation != 25000 || f.Datarate != 19200 || f.Bandwidth != 50000 || f.AFCBandwidth != 83333 || f.PreambleLen != 5 {
		t.Fatalf("fsk record = %+v", f)
	}
}

func TestValidateRejects(t *testing.T) {
	mut := func(f func(*Config)) Config {
		c := DefaultLoRa()
		f(&c)
		return c
	}
	withLoRa := func(f func(*LoRa)) Config {
		c := DefaultLoRa()
		s := c.Settings.(LoRa)
		f(&s)
		c.Settings = s
		return c
	}
	cases := map[string]Config{
		"freq":        mut(func(c *Config) { c.Frequency = 100_000_000 }),
		"power":       mut(func(c *Config) { c.TxPower = 30 }),
		"timeout":     mut(func(c *Config) { c.TxTimeout = 0 }),
		"no settings": mut(func(c *Config) { c.Settings = nil }),
		"bw":          withLoRa(func(s *LoRa) { s.Bandwidth = 42 }),
		"sf":          withLoRa(func(s *LoRa) { s.SpreadingFactor = lora.SpreadingFactor5 }),
		"sf6":         withLoRa(func(s *LoRa) { s.SpreadingFactor = lora.SpreadingFactor6 }),
		"cr":          withLoRa(func(s *LoRa) { s.CodingRate = 0 }),
		"hop":         withLoRa(func(s *LoRa) { s.FreqHopping = true; s.HopPeriod = 0 }),
	}
	for name, c := range cases {
		err := c.Validate()
		if errcode.Of(err) != errcode.InvalidConfig {
			t.Fatalf("%s: got %v, want invalid_config", name, err)
		}
	}
}

func TestLoRaTimeOnAir(t *testing.T) {
	s := DefaultLoRa().Settings.(LoRa)
	// 28-byte telemetry line at SF7/125k/CR4_5, explicit header, CRC on:
	// 9*5 payload symbols + 8 + 8 preamble + 5.
	if got, want := s.TimeOnAir(28), 67584*time.Microsecond; got != want {
		t.Fatalf("TimeOnAir(28) = %v, want %v", got, want)
	}
	if s.LowDataRateOptimize() {
		t.Fatal("SF7/125k must not need LDRO")
	}
	s.SpreadingFactor = lora.SpreadingFactor12
	if !s.LowDataRateOptimize() {
		t.Fatal("SF12/125k needs LDRO")
	}
	if s.TimeOnAir(28) <= time.Second {
		t.Fatalf("SF12 airtime implausibly short: %v", s.TimeOnAir(28))
	}
}

func TestFSKTimeOnAir(t *testing.T) {
	s := DefaultFSK().Settings.(FSK)
	// (5 + 3 + 1 + 10 + 2) bytes * 8 / 19200
	if got, want := s.TimeOnAir(10), 8750*time.Microsecond; got != want {
		t.Fatalf("TimeOnAir(10) = %v, want %v", got, want)
	}
}

func TestDriverConfig(t *testing.T) {
	s := DefaultLoRa().Settings.(LoRa)
	c := s.DriverConfig(DefaultFrequency, DefaultTxPower)
	if c.Freq != lora.MHz_868_1 || c.Sf != lora.SpreadingFactor7 || c.Bw != lora.Bandwidth_125_0 || c.Cr != lora.CodingRate4_5 {
		t.Fatalf("radio params = %+v", c)
	}
	if c.Crc != lora.CRCOn || c.HeaderType != lora.HeaderExplicit || c.Iq != lora.IQStandard {
		t.Fatalf("frame params = %+v", c)
	}
	if c.SyncWord != lora.SyncPrivate || c.Ldr != lora.LowDataRateOptimizeOff || c.LoraTxPowerDBm != 14 || c.Preamble != 8 {
		t.Fatalf("misc params = %+v", c)
	}

	s.IQInverted, s.FixedLength, s.PublicNetwork = true, true, true
	c = s.DriverConfig(DefaultFrequency, 2)
	if c.Iq != lora.IQInverted || c.HeaderType != lora.HeaderImplicit || c.SyncWord != lora.SyncPublic {
		t.Fatalf("flags not mapped: %+v", c)
	}
}
