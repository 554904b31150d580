package gtx8

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/gtx8/event"
)

// DefaultAddr is the usual I2C address of GTX8 controllers.
const DefaultAddr = 0x5D

// edgeTimeout bounds each wait on the interrupt line so cancellation is
// noticed.
const edgeTimeout = 100 * time.Millisecond

// Opts is the configuration for the controller.
type Opts struct {
	Addr    uint16  // I2C address (default: 0x5D)
	Profile Profile // controller model (default: GT9886)

	// Optional reset line, active low unless ResetActiveHigh is set.
	RST             gpio.PinOut
	ResetActiveHigh bool

	// Optional interrupt line. Without it Run polls every PollInterval.
	IRQ          gpio.PinIn
	PollInterval time.Duration // default: 10ms

	// Optional supplies, enabled VDDIO first. Nil means always on.
	VDDIO Regulator
	AVDD  Regulator

	Logger Logger // optional
}

// Sink receives the contacts of every accepted frame, including empty ones
// which mean all fingers were lifted.
type Sink interface {
	Emit(contacts []event.Contact)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(contacts []event.Contact)

// Emit calls f(contacts).
func (f SinkFunc) Emit(contacts []event.Contact) { f(contacts) }

// Dev is a handle to a GTX8 controller.
type Dev struct {
	mu sync.Mutex

	// Communication
	c   conn.Conn
	rst gpio.PinOut
	irq gpio.PinIn

	resetActiveHigh bool

	// Supplies
	vddio Regulator
	avdd  Regulator

	// Controller model, bound at creation
	profile Profile
	layout  event.Layout

	// Event buffer, reused for every frame
	buf      []byte
	contacts []event.Contact

	version      FirmwareVersion
	state        State
	pollInterval time.Duration
	log          Logger
	sleep        func(time.Duration)
}

// NewI2C powers up the controller on bus b and verifies its identity.
//
// opts can be nil to use defaults (GT9886 at 0x5D, no GPIOs).
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddr
	}
	d, err := newDev(&i2c.Dev{Bus: b, Addr: addr}, opts)
	if err != nil {
		return nil, err
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func newDev(c conn.Conn, opts *Opts) (*Dev, error) {
	p := opts.Profile
	if p.Name == "" {
		p = GT9886
	}
	if p.Variant != event.Normandy && p.Variant != event.Yellowstone {
		return nil, fmt.Errorf("gtx8: unsupported variant %v", p.Variant)
	}
	l := p.Variant.Layout()

	d := &Dev{
		c:               c,
		rst:             opts.RST,
		irq:             opts.IRQ,
		resetActiveHigh: opts.ResetActiveHigh,
		vddio:           opts.VDDIO,
		avdd:            opts.AVDD,
		profile:         p,
		layout:          l,
		buf:             make([]byte, event.EventSize(l)),
		contacts:        make([]event.Contact, 0, event.MaxTouch),
		pollInterval:    opts.PollInterval,
		log:             opts.Logger,
		sleep:           time.Sleep,
	}
	if d.pollInterval <= 0 {
		d.pollInterval = 10 * time.Millisecond
	}
	if d.log == nil {
		d.log = nopLogger{}
	}
	return d, nil
}

// init holds the controller in reset, arms the interrupt line and runs the
// bring-up sequence.
func (d *Dev) init() error {
	if err := d.setReset(true); err != nil {
		return err
	}
	if d.irq != nil {
		if err := d.irq.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return fmt.Errorf("gtx8: failed to configure IRQ: %w", err)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bringUp()
}

// Poll reads and decodes one event.
//
// The returned frame has an empty header when no event was pending. Contacts
// are only valid until the next call. Frames failing validation are dropped
// and reported as errors; the status is cleared in every case except a
// failed first read, so the controller can post the next event.
func (d *Dev) Poll() (event.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Ready {
		return event.Frame{}, ErrNotReady
	}

	l := d.layout
	first := event.FirstReadSize(l)
	if err := d.readRaw(d.profile.TouchDataAddr, d.buf[:first]); err != nil {
		d.log.Warn("failed to get event head data", "err", err)
		return event.Frame{}, err
	}

	hdr, err := l.ParseHeader(d.buf)
	if err != nil {
		return event.Frame{}, err
	}
	f := event.Frame{Header: hdr}
	if !hdr.Empty() {
		f, err = d.handleEvent(hdr)
	}

	if cerr := d.write(d.profile.TouchDataAddr, 0); cerr != nil {
		d.log.Warn("failed to clear status", "err", cerr)
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return event.Frame{Header: hdr}, err
	}
	return f, nil
}

// handleEvent processes a pending event whose header is already in d.buf.
func (d *Dev) handleEvent(hdr event.Header) (event.Frame, error) {
	l := d.layout
	f := event.Frame{Header: hdr}

	if !l.ValidHeader(d.buf) {
		raw := append([]byte(nil), d.buf[:l.HeaderSize()]...)
		d.log.Warn("touch head checksum error", "data", fmt.Sprintf("% x", raw))
		return f, &event.ChecksumError{Region: "head", Data: raw}
	}

	if hdr.HasTouch() {
		contacts, err := d.handleTouch(hdr.TouchCount)
		if err != nil {
			return f, err
		}
		f.Contacts = contacts
	}

	if hdr.HasRequest() {
		// The firmware request address is either 0 (Normandy) or equal to
		// the touch data address (Yellowstone) in every config seen, and
		// neither can be right.
		d.log.Debug("received request event, ignoring")
	}
	return f, nil
}

// handleTouch fetches the remaining records, validates and decodes them.
func (d *Dev) handleTouch(n int) ([]event.Contact, error) {
	l := d.layout
	if err := event.CheckTouchCount(event.Header{TouchCount: n}); err != nil {
		d.log.Warn("invalid touch num", "n", n)
		return nil, err
	}

	if n > 1 {
		off := event.FirstReadSize(l)
		end := l.HeaderSize() + n*event.TouchSize + event.ChecksumSize
		if err := d.readRaw(d.profile.TouchDataAddr+uint16(off), d.buf[off:end]); err != nil {
			d.log.Error("failed to get touch data", "err", err)
			return nil, err
		}
	}

	// A frame without contacts carries no touch data checksum worth
	// checking.
	if n > 0 {
		region, err := l.TouchRegion(d.buf, n)
		if err != nil {
			return nil, err
		}
		if !l.ValidTouchData(region) {
			raw := append([]byte(nil), region...)
			d.log.Error("touch data checksum error", "data", fmt.Sprintf("% x", raw))
			return nil, &event.ChecksumError{Region: "touch", Data: raw}
		}
	}

	return event.DecodeContacts(l, d.buf, n, d.contacts[:0])
}

// Run dispatches frames to s until ctx is done.
//
// Frames are read on each falling edge of the interrupt line, or every
// PollInterval without one. Failed frames are logged and skipped; frames are
// ignored while the device is suspended.
func (d *Dev) Run(ctx context.Context, s Sink) error {
	if d.irq != nil {
		for ctx.Err() == nil {
			if d.irq.WaitForEdge(edgeTimeout) {
				d.dispatch(s)
			}
		}
		return ctx.Err()
	}

	t := time.NewTicker(d.pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			d.dispatch(s)
		}
	}
}

func (d *Dev) dispatch(s Sink) {
	f, err := d.Poll()
	if err != nil {
		if !errors.Is(err, ErrNotReady) {
			d.log.Debug("frame dropped", "err", err)
		}
		return
	}
	if f.Header.HasTouch() {
		s.Emit(f.Contacts)
	}
}

// Suspend powers off the controller. Resume brings it back.
func (d *Dev) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = PoweredOff
	return d.powerOff()
}

// Resume runs the full bring-up sequence again.
func (d *Dev) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Ready {
		return nil
	}
	return d.bringUp()
}

// Halt powers off the controller.
func (d *Dev) Halt() error {
	return d.Suspend()
}

// State returns the bring-up state.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Version returns the version record read during bring-up.
func (d *Dev) Version() FirmwareVersion {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Profile returns the controller model.
func (d *Dev) Profile() Profile {
	return d.profile
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("gtx8.Dev{%s, %s}", d.profile.Name, d.c)
}
