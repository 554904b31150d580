package gtx8

import (
	"errors"
	"fmt"

	"periph.io/x/devices/v3/gtx8/event"
)

var (
	// ErrNotReady is returned when polling a device that is not powered up.
	ErrNotReady = errors.New("gtx8: device not ready")

	// ErrChecksum matches frames dropped on a checksum mismatch.
	ErrChecksum = event.ErrChecksum

	// ErrProtocol matches touch count and product id errors.
	ErrProtocol = event.ErrProtocol
)

// TransportError is an I/O failure against the controller.
type TransportError struct {
	Op   string // "read" or "write"
	Addr uint16 // register address
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gtx8: %s 0x%04X: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProductIDError indicates the controller reports an unexpected product id.
type ProductIDError struct {
	Expected [4]byte
	Actual   [4]byte
}

func (e *ProductIDError) Error() string {
	return fmt.Sprintf("gtx8: unexpected product ID, got: %q, want %q", e.Actual[:], e.Expected[:])
}

// Is reports whether target is ErrProtocol.
func (e *ProductIDError) Is(target error) bool { return target == ErrProtocol }

// PowerError is a failure to switch a supply.
type PowerError struct {
	Supply string // "vddio" or "avdd"
	Op     string // "enable" or "disable"
	Err    error
}

func (e *PowerError) Error() string {
	return fmt.Sprintf("gtx8: failed to %s %s: %v", e.Op, e.Supply, e.Err)
}

func (e *PowerError) Unwrap() error { return e.Err }
