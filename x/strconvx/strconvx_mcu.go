//go:build rp2040 || rp2350

package strconvx

// Minimal helpers with strconv signatures. Bases 2..36.
// FormatFloat only does fixed-point; enough for sensor readings.

func Itoa(i int) string { return FormatInt(int64(i), 10) }

func FormatInt(i int64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	if i < 0 {
		return "-" + formatUint(uint64(-i), base)
	}
	return formatUint(uint64(i), base)
}

func FormatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	return formatUint(u, base)
}

func formatUint(u uint64, base int) string {
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

// FormatFloat renders f as fixed-point with prec digits ('f' semantics
// regardless of fmt).
func FormatFloat(f float64, _ byte, prec, _ int) string {
	return string(appendFixed(nil, f, prec))
}
