package telemetry

import (
	"loratx-go/x/mathx"
	"loratx-go/x/strconvx"
)

// LinePrefix starts every telemetry line.
const LinePrefix = "ALGG"

// ScaleA0 maps a normalised A0 reading onto 10..0 in single precision.
func ScaleA0(r float32) float32 {
	r = mathx.Clamp(r, 0, 1)
	return 10 - float32(r*10)
}

// ScaleA2 maps a normalised A2 reading onto -1..13.5. The arithmetic is
// done in double so the printed digits match the receiver's reference.
func ScaleA2(r float32) float64 {
	x := float64(mathx.Clamp(r, 0, 1))
	return float64(x*14.5) - 1
}

// FormatLine renders "ALGG A0:<v> A2:<v>" with six decimals per value.
func FormatLine(a0, a2 float64) string {
	b := make([]byte, 0, 32)
	b = append(b, LinePrefix...)
	b = append(b, " A0:"...)
	b = append(b, strconvx.FormatFloat(a0, 'f', 6, 64)...)
	b = append(b, " A2:"...)
	b = append(b, strconvx.FormatFloat(a2, 'f', 6, 64)...)
	return string(b)
}
