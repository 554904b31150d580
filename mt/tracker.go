// Package mt turns GTX8 frames into multi-touch slot events.
//
// Controllers report every active contact in each frame, tagged with the
// slot it occupies. Tracker compares consecutive frames and emits the
// press, move and release transitions of each slot, the way the Linux
// multi-touch protocol B expects them. Writer encodes those transitions as
// Linux input_event records.
package mt

import (
	"fmt"

	"periph.io/x/devices/v3/gtx8/event"
)

// MaxSlots is the number of tracking slots.
const MaxSlots = event.MaxTouch

// Props are the touchscreen properties applied to raw coordinates.
type Props struct {
	MaxX, MaxY       uint16
	InvertX, InvertY bool
	SwapXY           bool
}

// Apply inverts then swaps x and y.
func (p Props) Apply(x, y uint16) (uint16, uint16) {
	if p.InvertX && p.MaxX > 0 {
		x = p.MaxX - min(x, p.MaxX)
	}
	if p.InvertY && p.MaxY > 0 {
		y = p.MaxY - min(y, p.MaxY)
	}
	if p.SwapXY {
		x, y = y, x
	}
	return x, y
}

// Kind is a slot transition.
type Kind uint8

const (
	Press Kind = iota
	Move
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one slot transition.
type Event struct {
	Kind       Kind   `json:"kind"`
	Slot       int    `json:"slot"`
	TrackingID int32  `json:"id"`
	X          uint16 `json:"x"`
	Y          uint16 `json:"y"`
	Major      uint8  `json:"major"`
}

type slot struct {
	active bool
	id     int32
	x, y   uint16
	major  uint8
}

// Tracker keeps the slot state across frames. It is not safe for
// concurrent use; a device delivers frames from a single goroutine.
type Tracker struct {
	props  Props
	slots  [MaxSlots]slot
	nextID int32
	out    func([]Event)
}

// NewTracker returns a Tracker applying props to every contact. out, when
// not nil, receives the events of each frame passed to Emit.
func NewTracker(props Props, out func([]Event)) *Tracker {
	return &Tracker{props: props, out: out}
}

// Update reconciles one frame and returns its transitions ordered by slot.
//
// Contacts with a slot id of MaxSlots or more are ignored. When a slot is
// reported twice the last contact wins. Slots missing from the frame are
// released.
func (t *Tracker) Update(contacts []event.Contact) []Event {
	var seen [MaxSlots]bool
	var next [MaxSlots]event.Contact
	for _, c := range contacts {
		if int(c.ID) >= MaxSlots {
			continue
		}
		seen[c.ID] = true
		next[c.ID] = c
	}

	var evs []Event
	for i := range t.slots {
		s := &t.slots[i]
		switch {
		case seen[i]:
			x, y := t.props.Apply(next[i].X, next[i].Y)
			c := next[i]
			kind := Move
			if !s.active {
				kind = Press
				s.active = true
				s.id = t.nextID
				t.nextID = (t.nextID + 1) & 0xFFFF
			} else if s.x == x && s.y == y && s.major == c.Major {
				continue
			}
			s.x, s.y, s.major = x, y, c.Major
			evs = append(evs, Event{Kind: kind, Slot: i, TrackingID: s.id, X: x, Y: y, Major: c.Major})
		case s.active:
			evs = append(evs, Event{Kind: Release, Slot: i, TrackingID: s.id, X: s.x, Y: s.y})
			*s = slot{}
		}
	}
	return evs
}

// Emit reconciles one frame and forwards its transitions, if any.
func (t *Tracker) Emit(contacts []event.Contact) {
	evs := t.Update(contacts)
	if t.out != nil && len(evs) != 0 {
		t.out(evs)
	}
}

// Active returns the number of slots in contact.
func (t *Tracker) Active() int {
	n := 0
	for _, s := range t.slots {
		if s.active {
			n++
		}
	}
	return n
}

// Reset releases every slot and returns the matching events, for example
// when the device is suspended.
func (t *Tracker) Reset() []Event {
	return t.Update(nil)
}
