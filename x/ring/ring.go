// Package ring is a single-producer, single-consumer byte ring used to
// decouple console output from the UART.
package ring

import "sync/atomic"

// Ring never blocks the producer: writes that do not fit are cut short and
// the shortfall is counted.
type Ring struct {
	buf     []byte
	mask    uint32
	rd      atomic.Uint32 // consumer index (monotonic)
	wr      atomic.Uint32 // producer index (monotonic)
	dropped atomic.Uint32

	readable chan struct{}
}

// New allocates a ring; size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || size&(size-1) != 0 {
		panic("ring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

func (r *Ring) Space() int {
	return int(r.size() - (r.wr.Load() - r.rd.Load()))
}

func (r *Ring) Available() int {
	return int(r.wr.Load() - r.rd.Load())
}

// Dropped is the number of bytes refused since New.
func (r *Ring) Dropped() uint32 { return r.dropped.Load() }

// Write copies as much of p as fits. It always reports len(p) so callers
// treating it as an io.Writer keep going; refused bytes are counted.
func (r *Ring) Write(p []byte) (int, error) {
	n := r.put(p)
	if n < len(p) {
		r.dropped.Add(uint32(len(p) - n))
	}
	return len(p), nil
}

func (r *Ring) put(src []byte) int {
	wr := r.wr.Load()
	n := int(r.size() - (wr - r.rd.Load()))
	if len(src) < n {
		n = len(src)
	}
	if n <= 0 {
		return 0
	}
	idx := wr & r.mask
	first := copy(r.buf[idx:], src[:n])
	copy(r.buf, src[first:n])
	r.wr.Store(wr + uint32(n))

	select {
	case r.readable <- struct{}{}:
	default:
	}
	return n
}

// ReadInto moves up to len(dst) bytes out of the ring.
func (r *Ring) ReadInto(dst []byte) int {
	rd := r.rd.Load()
	n := int(r.wr.Load() - rd)
	if len(dst) < n {
		n = len(dst)
	}
	if n <= 0 {
		return 0
	}
	idx := rd & r.mask
	first := copy(dst[:n], r.buf[idx:])
	copy(dst[first:n], r.buf)
	r.rd.Store(rd + uint32(n))
	return n
}

// Readable holds at most one pending wakeup, posted by each write.
func (r *Ring) Readable() <-chan struct{} { return r.readable }
