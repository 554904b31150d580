package gtx8

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	powerOnDelay     = 300 * time.Millisecond
	resetDelay       = 5 * time.Millisecond
	confirmDelay     = 5 * time.Millisecond
	normalResetDelay = 100 * time.Millisecond

	confirmRetries = 3
)

// State is the bring-up state of a device.
type State uint8

const (
	PoweredOff State = iota
	PoweredOn
	Confirmed
	VersionRead
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case PoweredOff:
		return "PoweredOff"
	case PoweredOn:
		return "PoweredOn"
	case Confirmed:
		return "Confirmed"
	case VersionRead:
		return "VersionRead"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Regulator is a switchable supply.
type Regulator interface {
	Enable() error
	Disable() error
}

// PinRegulator is a supply switched by a GPIO, such as the enable line of a
// load switch or LDO.
type PinRegulator struct {
	Pin       gpio.PinOut
	ActiveLow bool
}

// Enable drives the enable line to its active level.
func (r *PinRegulator) Enable() error {
	return r.Pin.Out(r.level(true))
}

// Disable drives the enable line to its inactive level.
func (r *PinRegulator) Disable() error {
	return r.Pin.Out(r.level(false))
}

func (r *PinRegulator) level(on bool) gpio.Level {
	return gpio.Level(on != r.ActiveLow)
}

// FirmwareVersion is the part of the version record the driver understands.
type FirmwareVersion struct {
	ProductID [4]byte // 4 digit IC number
	_         [4]byte // most likely unused
	FWVersion [4]byte // four component version number
}

// versionSize is the size of the record read at Profile.FWVersionAddr.
const versionSize = 12

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("GT%s %d.%d.%d.%d", v.ProductID[:], v.FWVersion[0], v.FWVersion[1], v.FWVersion[2], v.FWVersion[3])
}

// bringUp runs the whole PoweredOff to Ready sequence. On failure every
// acquired resource is released and the state is Failed.
func (d *Dev) bringUp() error {
	if err := d.powerOn(); err != nil {
		d.state = Failed
		return err
	}
	if err := d.readVersion(); err != nil {
		d.powerOff()
		d.state = Failed
		return err
	}
	d.state = Ready
	return nil
}

// powerOn enables the supplies, releases reset and waits for the firmware.
func (d *Dev) powerOn() error {
	if err := enable(d.vddio); err != nil {
		d.log.Error("failed to enable VDDIO", "err", err)
		return &PowerError{Supply: "vddio", Op: "enable", Err: err}
	}
	if err := enable(d.avdd); err != nil {
		d.log.Error("failed to enable AVDD", "err", err)
		d.disable("vddio", d.vddio)
		return &PowerError{Supply: "avdd", Op: "enable", Err: err}
	}

	// Vendors usually configure the power on delay as 300ms.
	d.sleep(powerOnDelay)

	if err := d.setReset(false); err != nil {
		d.disable("avdd", d.avdd)
		d.disable("vddio", d.vddio)
		return err
	}

	// Firmware initialisation.
	d.sleep(resetDelay)
	d.state = PoweredOn

	if err := d.confirm(); err != nil {
		d.powerOff()
		return err
	}
	d.state = Confirmed

	// Firmware boot.
	d.sleep(normalResetDelay)
	return nil
}

// confirm checks the controller answers on the bus.
func (d *Dev) confirm() error {
	var rx [1]byte
	var err error
	for i := 0; i < confirmRetries; i++ {
		if i > 0 {
			d.sleep(confirmDelay)
		}
		// Any valid address will do.
		if err = d.readRaw(d.profile.TouchDataAddr, rx[:]); err == nil {
			return nil
		}
		d.log.Debug("device confirm attempt failed", "attempt", i+1, "err", err)
	}
	d.log.Error("device confirm failed", "err", err)
	return fmt.Errorf("gtx8: device confirm failed: %w", err)
}

// readVersion reads the version record and checks the product id. The
// vendor driver also verifies a checksum over a larger record whose layout
// is unknown, so only the product id is checked.
func (d *Dev) readVersion() error {
	var b [versionSize]byte
	if err := d.readRaw(d.profile.FWVersionAddr, b[:]); err != nil {
		d.log.Error("error reading fw version", "err", err)
		return err
	}
	var v FirmwareVersion
	copy(v.ProductID[:], b[0:4])
	copy(v.FWVersion[:], b[8:12])

	if !bytes.Equal(v.ProductID[:], d.profile.ProductID[:]) {
		d.log.Error("unexpected product ID", "got", string(v.ProductID[:]), "want", string(d.profile.ProductID[:]))
		return &ProductIDError{Expected: d.profile.ProductID, Actual: v.ProductID}
	}
	d.version = v
	d.state = VersionRead
	d.log.Debug("controller found", "version", v.String())
	return nil
}

// powerOff asserts reset and disables the supplies in reverse order.
func (d *Dev) powerOff() error {
	err := d.setReset(true)
	if e := d.disable("avdd", d.avdd); e != nil {
		err = errors.Join(err, e)
	}
	if e := d.disable("vddio", d.vddio); e != nil {
		err = errors.Join(err, e)
	}
	return err
}

// setReset drives the optional reset line.
func (d *Dev) setReset(active bool) error {
	if d.rst == nil {
		return nil
	}
	l := gpio.Level(active == d.resetActiveHigh)
	if err := d.rst.Out(l); err != nil {
		return fmt.Errorf("gtx8: failed to drive reset %v: %w", l, err)
	}
	return nil
}

func (d *Dev) disable(name string, r Regulator) error {
	if r == nil {
		return nil
	}
	if err := r.Disable(); err != nil {
		d.log.Warn("failed to disable supply", "supply", name, "err", err)
		return &PowerError{Supply: name, Op: "disable", Err: err}
	}
	return nil
}

func enable(r Regulator) error {
	if r == nil {
		return nil
	}
	return r.Enable()
}
