package board

var noAntenna = Antenna{Switch: NoPin, RX: NoPin, TX: NoPin, Boost: NoPin, TCXO: NoPin}

// RFM95 is a HopeRF RFM95W breakout on a Raspberry Pi Pico.
var RFM95 = Profile{
	Name: "pico_rfm95",
	Type: RFM95SX1276,
	SPI:  "spi0", SCK: 18, SDO: 19, SDI: 16,
	CS: 17, Reset: 20, DIO0: 21, DIO1: 22,
	Antenna: noAntenna,
	LED:     25,
	A0:      26, A2: 28,
	UART: "uart0", UARTTX: 0, UARTRX: 1,
}

// Murata is a CMWX1ZZABZ module with its external RF switch and TCXO.
var Murata = Profile{
	Name: "pico_murata",
	Type: MurataSX1276,
	SPI:  "spi0", SCK: 18, SDO: 19, SDI: 16,
	CS: 17, Reset: 20, DIO0: 21, DIO1: 22,
	Antenna: Antenna{Switch: NoPin, RX: 10, TX: 11, Boost: 12, TCXO: 13},
	LED:     25,
	A0:      26, A2: 28,
	UART: "uart0", UARTTX: 0, UARTRX: 1,
}

// MB1xAS is the Semtech SX1276MB1LAS/MAS shield family on an adapter.
var MB1xAS = Profile{
	Name: "pico_sx1276mb1xas",
	Type: SX1276MB1xAS,
	SPI:  "spi1", SCK: 10, SDO: 11, SDI: 12,
	CS: 13, Reset: 14, DIO0: 15, DIO1: 9,
	Antenna: Antenna{Switch: 8, RX: NoPin, TX: NoPin, Boost: NoPin, TCXO: NoPin},
	LED:     25,
	A0:      26, A2: 28,
	UART: "uart0", UARTTX: 0, UARTRX: 1,
}

// Host is used by the simulated radio; no pins are touched.
var Host = Profile{
	Name: "host_sim",
	Type: RFM95SX1276,
	SPI:  "sim", SCK: 0, SDO: 0, SDI: 0,
	CS: 0, Reset: 0, DIO0: 0, DIO1: 0,
	Antenna: noAntenna,
	LED:     NoPin,
	A0:      0, A2: 2,
	UART: "stdout", UARTTX: NoPin, UARTRX: NoPin,
}
