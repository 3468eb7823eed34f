package errcode

import "errors"

// Code is a stable error identifier shared by the radio, the telemetry loop
// and anything published on the bus.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK                  Code = "ok"
	Busy                Code = "busy"
	Unsupported         Code = "unsupported"
	InvalidConfig       Code = "invalid_config"
	InvalidParams       Code = "invalid_params"
	PayloadTooLarge     Code = "payload_too_large"
	HardwareNotDetected Code = "hardware_not_detected"
	NotReady            Code = "not_ready"
	Timeout             Code = "timeout"
	Canceled            Code = "canceled"
	Driver              Code = "driver"

	Error Code = "error" // generic fallback
)

// E keeps an operation name and a cause alongside the code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap is shorthand for &E{C: c, Op: op, Err: err}.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error chain, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var cd coder
	if errors.As(err, &cd) {
		return cd.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// Is reports whether err carries code c anywhere in its chain.
func Is(err error, c Code) bool { return Of(err) == c }

// MapDriverErr maps low-level transceiver errors to a Code.
func MapDriverErr(err error) Code {
	if err == nil {
		return OK
	}
	if c := Of(err); c != Error {
		return c
	}
	return Driver
}
