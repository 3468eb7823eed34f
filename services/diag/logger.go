// Package diag is the line-oriented diagnostics sink and a bus monitor that
// reports radio and telemetry activity.
package diag

import (
	"io"
	"sync"

	"loratx-go/x/conv"
	"loratx-go/x/fmtx"
)

// dumpWidth is bytes per hex dump line.
const dumpWidth = 16

// Logger writes one CRLF-terminated line per call. Safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	debug bool
	line  []byte
}

func New(w io.Writer, debug bool) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{w: w, debug: debug}
}

// Nop discards everything.
var Nop = New(io.Discard, false)

func (l *Logger) SetDebug(on bool) {
	l.mu.Lock()
	l.debug = on
	l.mu.Unlock()
}

func (l *Logger) Printf(format string, args ...any) {
	l.emit(fmtx.Sprintf(format, args...))
}

// Debugf logs only when debug messages are enabled.
func (l *Logger) Debugf(format string, args ...any) {
	l.mu.Lock()
	on := l.debug
	l.mu.Unlock()
	if on {
		l.emit(fmtx.Sprintf(format, args...))
	}
}

// Dump logs data as hex, dumpWidth bytes per line, the first line prefixed
// with label.
func (l *Logger) Dump(label string, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(data) == 0 {
		l.writeLocked(append(l.line[:0], label...))
		return
	}
	for off := 0; off < len(data); off += dumpWidth {
		end := off + dumpWidth
		if end > len(data) {
			end = len(data)
		}
		b := l.line[:0]
		if off == 0 {
			b = append(b, label...)
		} else {
			for range label {
				b = append(b, ' ')
			}
		}
		b = append(b, ' ')
		b = conv.AppendHexBytes(b, data[off:end])
		l.writeLocked(b)
	}
}

func (l *Logger) emit(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeLocked(append(l.line[:0], s...))
}

func (l *Logger) writeLocked(b []byte) {
	b = append(b, '\r', '\n')
	_, _ = l.w.Write(b)
	l.line = b[:0]
}
