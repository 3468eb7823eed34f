//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"loratx-go/board"
	"loratx-go/errcode"
	"loratx-go/radio"
	radiosx "loratx-go/radio/sx127x"
	"loratx-go/types"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/sx127x"
)

const spiFrequency = 500000

// Setup configures the console UART, the ADC inputs and the busy LED, and
// returns an opener that brings up the SX127x on the profile's SPI bus.
func Setup(p board.Profile, f types.ConsoleFormat) (*Platform, error) {
	u, err := console(p, f)
	if err != nil {
		return nil, err
	}

	machine.InitADC()
	pl := &Platform{
		Console: u,
		Open:    openSX127x,
		A0:      newADC(p.A0),
		A2:      newADC(p.A2),
	}
	if p.LED != board.NoPin {
		led := machine.Pin(p.LED)
		led.Configure(machine.PinConfig{Mode: machine.PinOutput})
		led.Low()
		pl.LED = pinIndicator{led}
	}
	return pl, nil
}

func console(p board.Profile, f types.ConsoleFormat) (*uartx.UART, error) {
	var hw *uartx.UART
	switch p.UART {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "platform.console", Msg: p.UART}
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: f.Baud,
		TX:       machine.Pin(p.UARTTX),
		RX:       machine.Pin(p.UARTRX),
	}); err != nil {
		return nil, err
	}
	var par uartx.UARTParity
	switch f.Parity {
	case types.ParityEven:
		par = uartx.ParityEven
	case types.ParityOdd:
		par = uartx.ParityOdd
	default:
		par = uartx.ParityNone
	}
	if err := hw.SetFormat(f.DataBits, f.StopBits, par); err != nil {
		return nil, err
	}
	return hw, nil
}

func spiBus(p board.Profile) (*machine.SPI, error) {
	var spi *machine.SPI
	switch p.SPI {
	case "spi0":
		spi = machine.SPI0
	case "spi1":
		spi = machine.SPI1
	default:
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "platform.spi", Msg: p.SPI}
	}
	err := spi.Configure(machine.SPIConfig{
		Frequency: spiFrequency,
		SCK:       machine.Pin(p.SCK),
		SDO:       machine.Pin(p.SDO),
		SDI:       machine.Pin(p.SDI),
	})
	return spi, err
}

func openSX127x(p board.Profile) (radio.Transceiver, error) {
	spi, err := spiBus(p)
	if err != nil {
		return nil, err
	}
	rst := machine.Pin(p.Reset)
	rst.Configure(machine.PinConfig{Mode: machine.PinOutput})

	dev := sx127x.New(spi, rst)
	if err := dev.SetRadioController(sx127x.NewRadioControl(
		machine.Pin(p.CS), machine.Pin(p.DIO0), machine.Pin(p.DIO1))); err != nil {
		return nil, err
	}
	antenna(p.Antenna)

	var readSwitch func() bool
	if p.Antenna.Switch != board.NoPin {
		sw := machine.Pin(p.Antenna.Switch)
		sw.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
		readSwitch = sw.Get
	}
	return radiosx.New(dev, radiosx.Options{
		Board:       p.Type,
		DetectBoard: func() board.Type { return board.Detect(p, readSwitch) },
	}), nil
}

// antenna parks the RF switch lines in receive and powers the TCXO.
func antenna(a board.Antenna) {
	out := func(n int, v bool) {
		if n == board.NoPin {
			return
		}
		pin := machine.Pin(n)
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.Set(v)
	}
	out(a.RX, true)
	out(a.TX, false)
	out(a.Boost, false)
	out(a.TCXO, true)
}

type adcSource struct{ adc machine.ADC }

func newADC(pin int) *adcSource {
	a := machine.ADC{Pin: machine.Pin(pin)}
	a.Configure(machine.ADCConfig{})
	return &adcSource{adc: a}
}

// Read scales the 16-bit sample to [0,1].
func (s *adcSource) Read() (float32, error) {
	return float32(s.adc.Get()) / 65535, nil
}

type pinIndicator struct{ p machine.Pin }

func (i pinIndicator) Set(on bool) { i.p.Set(on) }
