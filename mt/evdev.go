package mt

import (
	"encoding/binary"
	"io"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux input event types and codes used by the multi-touch protocol.
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_ABS = 0x03

	SYN_REPORT = 0x00

	BTN_TOUCH = 0x14A

	ABS_MT_SLOT        = 0x2F
	ABS_MT_TOUCH_MAJOR = 0x30
	ABS_MT_POSITION_X  = 0x35
	ABS_MT_POSITION_Y  = 0x36
	ABS_MT_TRACKING_ID = 0x39
)

// timevalSize is 16 on 64-bit hosts and 8 on 32-bit ones.
const timevalSize = int(unsafe.Sizeof(unix.Timeval{}))

// EventSize is the size of one input_event on this host.
const EventSize = timevalSize + 8

// Writer encodes slot events as Linux input_event records.
type Writer struct {
	w      io.Writer
	now    func() time.Time
	buf    []byte
	active int
}

// NewWriter returns a Writer emitting records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, now: time.Now}
}

// WriteEvents writes one frame worth of transitions, terminated by
// SYN_REPORT, in a single Write call.
func (ew *Writer) WriteEvents(evs []Event) error {
	tv := unix.NsecToTimeval(ew.now().UnixNano())
	ew.buf = ew.buf[:0]
	before := ew.active
	for _, e := range evs {
		ew.put(tv, EV_ABS, ABS_MT_SLOT, int32(e.Slot))
		switch e.Kind {
		case Press:
			ew.active++
			ew.put(tv, EV_ABS, ABS_MT_TRACKING_ID, e.TrackingID)
			fallthrough
		case Move:
			ew.put(tv, EV_ABS, ABS_MT_POSITION_X, int32(e.X))
			ew.put(tv, EV_ABS, ABS_MT_POSITION_Y, int32(e.Y))
			ew.put(tv, EV_ABS, ABS_MT_TOUCH_MAJOR, int32(e.Major))
		case Release:
			ew.active--
			ew.put(tv, EV_ABS, ABS_MT_TRACKING_ID, -1)
		}
	}
	switch {
	case before == 0 && ew.active > 0:
		ew.put(tv, EV_KEY, BTN_TOUCH, 1)
	case before > 0 && ew.active == 0:
		ew.put(tv, EV_KEY, BTN_TOUCH, 0)
	}
	ew.put(tv, EV_SYN, SYN_REPORT, 0)
	_, err := ew.w.Write(ew.buf)
	return err
}

// put appends one record in host layout: timeval, type, code, value.
func (ew *Writer) put(tv unix.Timeval, typ, code uint16, value int32) {
	var rec [EventSize]byte
	if timevalSize == 16 {
		binary.NativeEndian.PutUint64(rec[0:8], uint64(tv.Sec))
		binary.NativeEndian.PutUint64(rec[8:16], uint64(tv.Usec))
	} else {
		binary.NativeEndian.PutUint32(rec[0:4], uint32(tv.Sec))
		binary.NativeEndian.PutUint32(rec[4:8], uint32(tv.Usec))
	}
	binary.NativeEndian.PutUint16(rec[timevalSize:], typ)
	binary.NativeEndian.PutUint16(rec[timevalSize+2:], code)
	binary.NativeEndian.PutUint32(rec[timevalSize+4:], uint32(value))
	ew.buf = append(ew.buf, rec[:]...)
}
