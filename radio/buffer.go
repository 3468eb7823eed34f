package radio

// RxBufferCap is the shared buffer capacity and the largest payload Send
// accepts.
const RxBufferCap = 64

// Terminator is forced into the last byte on a receive timeout.
const Terminator byte = 0

// RxBuffer is a fixed-capacity byte buffer that keeps len <= cap on every
// write. The zero value is empty; NewRxBuffer starts full-length like the
// firmware buffer.
type RxBuffer struct {
	data [RxBufferCap]byte
	n    int
	size int // last size reported by the transceiver
}

func NewRxBuffer() RxBuffer { return RxBuffer{n: RxBufferCap, size: RxBufferCap} }

// Store copies up to the capacity of p[:size] and records size. It reports
// whether anything was cut off.
func (b *RxBuffer) Store(p []byte, size int) (truncated bool) {
	if size < 0 {
		size = 0
	}
	b.size = size
	n := size
	if n > len(p) {
		n = len(p)
	}
	if n > RxBufferCap {
		n = RxBufferCap
	}
	b.n = copy(b.data[:], p[:n])
	return size > b.n
}

// Terminate writes Terminator at len-1. An empty buffer is left alone.
func (b *RxBuffer) Terminate() {
	if b.n > 0 {
		b.data[b.n-1] = Terminator
	}
}

func (b *RxBuffer) Len() int  { return b.n }
func (b *RxBuffer) Size() int { return b.size }

// Bytes returns a copy of the valid contents.
func (b *RxBuffer) Bytes() []byte {
	out := make([]byte, b.n)
	copy(out, b.data[:b.n])
	return out
}
