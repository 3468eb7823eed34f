package diag

import (
	"context"
	"io"
	"sync"

	"loratx-go/x/ring"
)

// Console queues output in a ring and copies it to w from Run, so a slow
// UART never stalls the goroutine that logs. Write is safe for concurrent
// use; writers are serialised into the ring's single producer.
type Console struct {
	wmu sync.Mutex
	r   *ring.Ring
	w   io.Writer
	buf []byte
}

// NewConsole sizes the ring to the next power of two >= size.
func NewConsole(w io.Writer, size int) *Console {
	n := 2
	for n < size {
		n <<= 1
	}
	return &Console{r: ring.New(n), w: w, buf: make([]byte, 64)}
}

func (c *Console) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.r.Write(p)
}

// Dropped counts bytes lost to a full ring.
func (c *Console) Dropped() uint32 { return c.r.Dropped() }

// Run drains the ring until ctx ends, then flushes what is left.
func (c *Console) Run(ctx context.Context) {
	for {
		c.flush()
		select {
		case <-ctx.Done():
			c.flush()
			return
		case <-c.r.Readable():
		}
	}
}

func (c *Console) flush() {
	for {
		n := c.r.ReadInto(c.buf)
		if n == 0 {
			return
		}
		c.w.Write(c.buf[:n])
	}
}
