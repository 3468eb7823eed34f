package strconvx

import (
	"math"
	"math/bits"
)

// appendFixed appends f with prec fractional digits, rounding the exact
// binary value half to even as strconv and C printf do. prec is limited to
// 0..19 and |f| to below 2^63; NaN and infinities are not handled.
func appendFixed(dst []byte, f float64, prec int) []byte {
	if prec < 0 {
		prec = 6
	}
	if prec > 19 {
		prec = 19
	}
	neg := math.Signbit(f)
	if neg {
		f = -f
	}
	ip := uint64(f)
	pow := uint64(1)
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	q := roundFrac(f-float64(ip), pow, ip&1 == 1)
	if q == pow {
		ip++
		q = 0
	}
	if neg {
		dst = append(dst, '-')
	}
	dst = appendUint(dst, ip)
	if prec > 0 {
		dst = append(dst, '.')
		var digits [20]byte
		for i := prec - 1; i >= 0; i-- {
			digits[i] = byte('0' + q%10)
			q /= 10
		}
		dst = append(dst, digits[:prec]...)
	}
	return dst
}

// roundFrac returns frac*pow rounded half to even, for frac in [0,1).
// frac is taken apart as mant/2^k so the product is exact in 128 bits.
// ipOdd is the parity of the integer part, which decides ties when pow is 1.
func roundFrac(frac float64, pow uint64, ipOdd bool) uint64 {
	if frac == 0 {
		return 0
	}
	m, e := math.Frexp(frac) // frac = m * 2^e, m in [0.5,1), e <= 0
	mant := uint64(math.Ldexp(m, 53))
	k := uint(53 - e)
	if k >= 128 {
		return 0
	}
	hi, lo := bits.Mul64(mant, pow)

	var q, remHi, remLo, halfHi, halfLo uint64
	if k >= 64 {
		q = hi >> (k - 64)
		remHi, remLo = hi&(1<<(k-64)-1), lo
	} else {
		q = hi<<(64-k) | lo>>k
		remLo = lo & (1<<k - 1)
	}
	if k-1 >= 64 {
		halfHi = 1 << (k - 65)
	} else {
		halfLo = 1 << (k - 1)
	}
	odd := q&1 == 1
	if pow == 1 {
		odd = ipOdd
	}
	switch {
	case remHi > halfHi || (remHi == halfHi && remLo > halfLo):
		q++
	case remHi == halfHi && remLo == halfLo && odd:
		q++
	}
	return q
}

func appendUint(dst []byte, u uint64) []byte {
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	return append(dst, buf[i:]...)
}
