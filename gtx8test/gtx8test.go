// Package gtx8test implements a simulated GTX8 controller for testing.
package gtx8test

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/gtx8/event"
)

// ErrNack is returned for injected read failures.
var ErrNack = errors.New("gtx8test: nack")

// Write is one register write seen by the simulator.
type Write struct {
	Reg  uint16
	Data []byte
}

// Read is one register read seen by the simulator.
type Read struct {
	Reg uint16
	Len int
}

// Device is a register-mapped GTX8 controller on an i2c.Bus.
//
// It implements i2c.Bus and answers at Addr only. Registers are 16 bits wide
// and unset registers read as zero.
type Device struct {
	sync.Mutex
	Addr          uint16
	Layout        event.Layout
	TouchDataAddr uint16

	// FailReads makes the next FailReads reads return ErrNack.
	FailReads int
	// FailReadsAt fails every read starting at this register, when non-zero.
	FailReadsAt uint16

	Writes []Write
	Reads  []Read

	regs map[uint16]byte
}

// New returns a simulator for a controller with the given layout, event
// buffer address and version record.
func New(addr uint16, v event.Variant, touchDataAddr, fwVersionAddr uint16, productID string, fwVersion [4]byte) *Device {
	d := &Device{
		Addr:          addr,
		Layout:        v.Layout(),
		TouchDataAddr: touchDataAddr,
		regs:          map[uint16]byte{},
	}
	rec := make([]byte, 12)
	copy(rec[0:4], productID)
	copy(rec[8:12], fwVersion[:])
	d.Load(fwVersionAddr, rec)
	return d
}

// Load sets registers starting at reg.
func (d *Device) Load(reg uint16, b []byte) {
	d.Lock()
	defer d.Unlock()
	for i, v := range b {
		d.regs[reg+uint16(i)] = v
	}
}

// Post stages an event in the event buffer, as the firmware does before
// raising the interrupt.
func (d *Device) Post(status byte, contacts []event.Contact) error {
	buf, err := event.Encode(d.Layout, status, contacts)
	if err != nil {
		return err
	}
	d.Load(d.TouchDataAddr, buf)
	return nil
}

// Status returns the current status byte of the event buffer.
func (d *Device) Status() byte {
	d.Lock()
	defer d.Unlock()
	return d.regs[d.TouchDataAddr]
}

// Reset forgets the transaction logs.
func (d *Device) Reset() {
	d.Lock()
	defer d.Unlock()
	d.Writes = nil
	d.Reads = nil
}

// Tx implements i2c.Bus.
func (d *Device) Tx(addr uint16, w, r []byte) error {
	d.Lock()
	defer d.Unlock()
	if addr != d.Addr {
		return fmt.Errorf("gtx8test: no device at 0x%02X", addr)
	}
	if len(w) < 2 {
		return fmt.Errorf("gtx8test: missing register address in % x", w)
	}
	reg := uint16(w[0])<<8 | uint16(w[1])
	if len(w) > 2 {
		data := append([]byte(nil), w[2:]...)
		d.Writes = append(d.Writes, Write{Reg: reg, Data: data})
		for i, v := range data {
			d.regs[reg+uint16(i)] = v
		}
	}
	if len(r) == 0 {
		return nil
	}
	d.Reads = append(d.Reads, Read{Reg: reg, Len: len(r)})
	if d.FailReads > 0 {
		d.FailReads--
		return ErrNack
	}
	if d.FailReadsAt != 0 && reg == d.FailReadsAt {
		return ErrNack
	}
	for i := range r {
		r[i] = d.regs[reg+uint16(i)]
	}
	return nil
}

// SetSpeed implements i2c.Bus.
func (d *Device) SetSpeed(f physic.Frequency) error {
	return nil
}

func (d *Device) String() string {
	return "gtx8test"
}
