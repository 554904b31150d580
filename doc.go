// Package gtx8 reads touch events from Goodix GTX8 touchscreen controllers via I2C.
//
// The GTX8 family runs pre-flashed firmware that scans the panel and stores
// one event at a time in an on-chip buffer, then pulls the interrupt line
// low. The host reads the buffer, checks its integrity and writes a zero
// status byte back to release it for the next event.
//
// # Supported Controllers
//
// Two firmware generations share the protocol with different buffer layouts:
//
//	Profile  Variant      Touch data  Firmware version
//	GT9886   Normandy     0x4100      0x4535
//	GT9896   Yellowstone  0x4180      0x4022
//
// Profiles can be looked up by compatible name, for example
// Lookup("goodix,gt9896").
//
// # Event Characteristics
//
// - Up to 10 simultaneous contacts, each tagged with its slot id (0-9)
// - 16-bit x and y coordinates plus a contact width (major axis)
// - Normandy frames are guarded by an 8-bit sum over the whole frame
// - Yellowstone frames have a header checksum and a 16-bit touch checksum
//
// The wire formats and checksums live in the event subpackage, which does
// no I/O and can be used on captured buffers.
//
// # Hardware Connection
//
// Connect the controller to your system via I2C:
//
//	Panel Pin → System Pin
//	GND       → GND
//	VDDIO     → 1.8V/3.3V supply (or GPIO driven regulator)
//	AVDD      → 3.3V supply (or GPIO driven regulator)
//	SCL       → I2C Clock
//	SDA       → I2C Data
//	INT       → Optional: GPIO for the interrupt line
//	RST       → Optional: GPIO for hardware reset
//
// # Basic Usage
//
// Example of bringing up the controller and reading events:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/devices/v3/gtx8"
//		"periph.io/x/devices/v3/gtx8/event"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open I2C bus
//		bus, _ := i2creg.Open("")
//
//		// Create device, this powers it up and checks its product id
//		dev, _ := gtx8.NewI2C(bus, &gtx8.Opts{
//			Profile: gtx8.GT9886,
//			RST:     gpioreg.ByName("GPIO27"),
//			IRQ:     gpioreg.ByName("GPIO17"),
//		})
//		defer dev.Halt()
//
//		fmt.Println(dev.Version())
//
//		// Receive every touch frame until the context is canceled
//		dev.Run(context.Background(), gtx8.SinkFunc(func(c []event.Contact) {
//			fmt.Println(c)
//		}))
//	}
//
// Without an interrupt pin, Run polls the controller every
// Opts.PollInterval. Poll can also be called directly to handle a single
// event.
//
// # Power Sequencing
//
// When VDDIO and AVDD regulators are provided, the driver enables VDDIO then
// AVDD, waits 300ms, releases reset and waits 5ms. It then reads the touch
// status register up to 3 times, 5ms apart, to confirm the controller
// answers, waits another 100ms and reads the firmware version. A failure at
// any step asserts reset and disables both supplies in reverse order.
//
// Regulators driven by a single enable pin can use PinRegulator:
//
//	dev, _ := gtx8.NewI2C(bus, &gtx8.Opts{
//		VDDIO: &gtx8.PinRegulator{Pin: gpioreg.ByName("GPIO22")},
//		AVDD:  &gtx8.PinRegulator{Pin: gpioreg.ByName("GPIO23")},
//	})
//
// Suspend runs the power-off half of the sequence and Resume repeats the
// whole bring-up.
//
// # Error Handling
//
// Poll returns an *event.ChecksumError matching ErrChecksum when a frame
// fails its integrity check and an *event.TouchCountError matching
// ErrProtocol when the contact count is out of range. Bus failures are
// reported as *TransportError. Once the header has been read the event
// buffer is released even if the frame is rejected, so the next event is
// not lost.
//
// # Multi-touch Slots
//
// The mt subpackage turns consecutive frames into press, move and release
// transitions and can encode them as Linux input_event records:
//
//	tr := mt.NewTracker(mt.Props{MaxX: 1079, MaxY: 2399}, func(evs []mt.Event) {
//		fmt.Println(evs)
//	})
//	dev.Run(ctx, tr)
//
// # Testing
//
// The gtx8test subpackage simulates a controller behind an i2c.Bus, which
// lets the driver run without hardware.
package gtx8
