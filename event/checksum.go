package event

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrChecksum matches every *ChecksumError.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrProtocol matches errors caused by data the controller should never
	// report, such as *TouchCountError.
	ErrProtocol = errors.New("protocol error")
)

// ValidNormandy reports whether the 8-bit wraparound sum of b is zero.
//
// The controller picks the trailing checksum bytes so that the sum over the
// header, the active records and the checksum itself is zero.
func ValidNormandy(b []byte) bool {
	if len(b) < ChecksumSize {
		return false
	}
	var sum uint8
	for _, c := range b {
		sum += c
	}
	return sum == 0
}

// ValidYellowstone reports whether the 16-bit wraparound sum of all bytes but
// the last two equals the big-endian value stored in the last two.
func ValidYellowstone(b []byte) bool {
	if len(b) < ChecksumSize {
		return false
	}
	n := len(b) - ChecksumSize
	return YellowstoneChecksum(b[:n]) == binary.BigEndian.Uint16(b[n:])
}

// NormandyChecksum returns the byte that brings the 8-bit sum of b to zero.
func NormandyChecksum(b []byte) byte {
	var sum uint8
	for _, c := range b {
		sum += c
	}
	// 2's complement
	return ^sum + 1
}

// YellowstoneChecksum returns the 16-bit wraparound sum of b.
func YellowstoneChecksum(b []byte) uint16 {
	var sum uint16
	for _, c := range b {
		sum += uint16(c)
	}
	return sum
}

// ChecksumError reports a frame dropped because of a checksum mismatch.
type ChecksumError struct {
	// Region is "head" or "touch".
	Region string
	// Data is a copy of the checksummed bytes.
	Data []byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("touch %s checksum error: % x", e.Region, e.Data)
}

// Is reports whether target is ErrChecksum.
func (e *ChecksumError) Is(target error) bool { return target == ErrChecksum }

// TouchCountError reports a touch count above MaxTouch.
type TouchCountError struct {
	Count int
}

func (e *TouchCountError) Error() string {
	return fmt.Sprintf("invalid touch num %d", e.Count)
}

// Is reports whether target is ErrProtocol.
func (e *TouchCountError) Is(target error) bool { return target == ErrProtocol }
