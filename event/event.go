package event

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// TouchSize is the size of one touch record. Both layouts pad to 8 bytes.
	TouchSize = 8
	// ChecksumSize is the size of the checksum trailing the touch records.
	ChecksumSize = 2
	// MaxTouch is the maximum number of contacts per frame.
	MaxTouch = 10

	// StatusTouch is set in the status byte when touch data is pending.
	StatusTouch = 0x80
	// StatusRequest is set when the firmware requests service.
	StatusRequest = 0x40

	// TouchCountMask selects the touch count from the count byte.
	TouchCountMask = 0x0F
	// FingerIDMaskYellowstone selects the finger id of a Yellowstone record.
	// The lower nibble is most likely the sensor id.
	FingerIDMaskYellowstone = 0xF0
)

// ErrShortBuffer is returned when a buffer cannot hold the requested data.
var ErrShortBuffer = errors.New("event: short buffer")

// Variant identifies the register layout generation of a GTX8 controller.
type Variant uint8

const (
	// Normandy is the layout used by GT9886.
	Normandy Variant = iota
	// Yellowstone is the layout used by GT9896.
	Yellowstone
)

func (v Variant) String() string {
	switch v {
	case Normandy:
		return "Normandy"
	case Yellowstone:
		return "Yellowstone"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// Layout returns the decoder for v. It panics on an unknown variant.
func (v Variant) Layout() Layout {
	switch v {
	case Normandy:
		return normandy{}
	case Yellowstone:
		return yellowstone{}
	default:
		panic(fmt.Sprintf("event: unknown variant %d", uint8(v)))
	}
}

// Header is the decoded header of one event buffer.
type Header struct {
	Status     byte
	TouchCount int    // low nibble of the count byte, not bounds checked
	Checksum   uint16 // Yellowstone only
}

// Empty reports whether no event is pending.
func (h Header) Empty() bool { return h.Status == 0 }

// HasTouch reports whether touch data is pending.
func (h Header) HasTouch() bool { return h.Status&StatusTouch != 0 }

// HasRequest reports whether the firmware raised a request event.
func (h Header) HasRequest() bool { return h.Status&StatusRequest != 0 }

// Contact is one decoded touch record.
type Contact struct {
	ID    uint8  // tracking slot reported by the controller
	X, Y  uint16 // raw coordinates
	Major uint8  // touch width
}

// Frame is the decoded content of one event buffer.
type Frame struct {
	Header   Header
	Contacts []Contact
}

// Layout is the per-variant view of the event buffer.
//
// The set of layouts is closed; use Variant.Layout to obtain one.
type Layout interface {
	Variant() Variant

	// HeaderSize is the size of the event header.
	HeaderSize() int

	// ParseHeader reads the header at the start of b.
	ParseHeader(b []byte) (Header, error)

	// ValidHeader verifies the header checksum, if the layout has one.
	ValidHeader(b []byte) bool

	// TouchRegion returns the checksummed region of buf holding n records.
	TouchRegion(buf []byte, n int) ([]byte, error)

	// ValidTouchData verifies the checksum of a region returned by TouchRegion.
	ValidTouchData(region []byte) bool

	decodeContact(rec []byte) Contact
	encodeContact(rec []byte, c Contact)
	encodeHeader(b []byte, status byte, n int)
	sealChecksums(buf []byte, n int)
}

// FirstReadSize is the number of bytes fetched for every event: the header,
// the first record and a checksum.
func FirstReadSize(l Layout) int {
	return l.HeaderSize() + TouchSize + ChecksumSize
}

// EventSize is the size of a buffer holding a full event of MaxTouch records.
func EventSize(l Layout) int {
	return l.HeaderSize() + TouchSize*MaxTouch + ChecksumSize
}

// CheckTouchCount reports a *TouchCountError if h carries more than MaxTouch
// contacts.
func CheckTouchCount(h Header) error {
	if h.TouchCount > MaxTouch {
		return &TouchCountError{Count: h.TouchCount}
	}
	return nil
}

// DecodeContacts decodes n records following the header of buf and appends
// them to dst in the order reported by the controller.
func DecodeContacts(l Layout, buf []byte, n int, dst []Contact) ([]Contact, error) {
	if n < 0 || n > MaxTouch {
		return dst, &TouchCountError{Count: n}
	}
	off := l.HeaderSize()
	if len(buf) < off+n*TouchSize {
		return dst, ErrShortBuffer
	}
	for i := 0; i < n; i++ {
		dst = append(dst, l.decodeContact(buf[off:off+TouchSize]))
		off += TouchSize
	}
	return dst, nil
}

// touchRegion bounds the region [start, header + n records + checksum).
func touchRegion(l Layout, buf []byte, start, n int) ([]byte, error) {
	if n < 0 || n > MaxTouch {
		return nil, &TouchCountError{Count: n}
	}
	end := l.HeaderSize() + n*TouchSize + ChecksumSize
	if len(buf) < end {
		return nil, ErrShortBuffer
	}
	return buf[start:end], nil
}

type normandy struct{}

func (normandy) Variant() Variant { return Normandy }

func (normandy) HeaderSize() int { return 2 }

func (normandy) ParseHeader(b []byte) (Header, error) {
	if len(b) < 2 {
		return Header{}, ErrShortBuffer
	}
	return Header{
		Status:     b[0],
		TouchCount: int(b[1] & TouchCountMask),
	}, nil
}

// ValidHeader is always true; Normandy headers are covered by the touch
// data checksum.
func (normandy) ValidHeader(b []byte) bool { return len(b) >= 2 }

// TouchRegion includes the header.
func (l normandy) TouchRegion(buf []byte, n int) ([]byte, error) {
	return touchRegion(l, buf, 0, n)
}

func (normandy) ValidTouchData(region []byte) bool { return ValidNormandy(region) }

func (normandy) decodeContact(rec []byte) Contact {
	return Contact{
		ID:    rec[0],
		X:     binary.LittleEndian.Uint16(rec[1:3]),
		Y:     binary.LittleEndian.Uint16(rec[3:5]),
		Major: rec[5],
	}
}

func (normandy) encodeContact(rec []byte, c Contact) {
	rec[0] = c.ID
	binary.LittleEndian.PutUint16(rec[1:3], c.X)
	binary.LittleEndian.PutUint16(rec[3:5], c.Y)
	rec[5] = c.Major
}

func (normandy) encodeHeader(b []byte, status byte, n int) {
	b[0] = status
	b[1] = byte(n) & TouchCountMask
}

func (l normandy) sealChecksums(buf []byte, n int) {
	end := l.HeaderSize() + n*TouchSize
	buf[end] = 0
	buf[end+1] = NormandyChecksum(buf[:end])
}

type yellowstone struct{}

func (yellowstone) Variant() Variant { return Yellowstone }

func (yellowstone) HeaderSize() int { return 8 }

func (yellowstone) ParseHeader(b []byte) (Header, error) {
	if len(b) < 8 {
		return Header{}, ErrShortBuffer
	}
	return Header{
		Status:     b[0],
		TouchCount: int(b[2] & TouchCountMask),
		Checksum:   binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

func (yellowstone) ValidHeader(b []byte) bool {
	if len(b) < 8 {
		return false
	}
	return ValidYellowstone(b[:8])
}

// TouchRegion excludes the header, which has its own checksum.
func (l yellowstone) TouchRegion(buf []byte, n int) ([]byte, error) {
	return touchRegion(l, buf, l.HeaderSize(), n)
}

func (yellowstone) ValidTouchData(region []byte) bool { return ValidYellowstone(region) }

func (yellowstone) decodeContact(rec []byte) Contact {
	return Contact{
		ID:    (rec[0] & FingerIDMaskYellowstone) >> 4,
		X:     binary.BigEndian.Uint16(rec[2:4]),
		Y:     binary.BigEndian.Uint16(rec[4:6]),
		Major: rec[7],
	}
}

func (yellowstone) encodeContact(rec []byte, c Contact) {
	rec[0] = c.ID << 4
	binary.BigEndian.PutUint16(rec[2:4], c.X)
	binary.BigEndian.PutUint16(rec[4:6], c.Y)
	rec[7] = c.Major
}

func (yellowstone) encodeHeader(b []byte, status byte, n int) {
	b[0] = status
	b[2] = byte(n) & TouchCountMask
}

func (l yellowstone) sealChecksums(buf []byte, n int) {
	binary.BigEndian.PutUint16(buf[6:8], YellowstoneChecksum(buf[:6]))
	start := l.HeaderSize()
	end := start + n*TouchSize
	binary.BigEndian.PutUint16(buf[end:end+2], YellowstoneChecksum(buf[start:end]))
}
