package gtx8

import (
	"fmt"
	"strings"

	"periph.io/x/devices/v3/gtx8/event"
)

// Profile describes one supported controller model.
type Profile struct {
	Name      string
	Variant   event.Variant
	ProductID [4]byte

	// TouchDataAddr is the address of the event buffer.
	TouchDataAddr uint16

	// FWVersionAddr is the address of the product id part of the version
	// record, not the full record the vendor driver reads.
	FWVersionAddr uint16
}

var (
	// GT9886 is a Normandy controller.
	GT9886 = Profile{
		Name:          "gt9886",
		Variant:       event.Normandy,
		ProductID:     [4]byte{'9', '8', '8', '6'},
		TouchDataAddr: 0x4100,
		FWVersionAddr: 0x4535,
	}

	// GT9896 is a Yellowstone controller.
	GT9896 = Profile{
		Name:          "gt9896",
		Variant:       event.Yellowstone,
		ProductID:     [4]byte{'9', '8', '9', '6'},
		TouchDataAddr: 0x4180,
		FWVersionAddr: 0x4022,
	}
)

var profiles = []Profile{GT9886, GT9896}

// Lookup returns the profile matching an I2C device id ("gt9886") or a
// device tree compatible string ("goodix,gt9886").
func Lookup(name string) (Profile, error) {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.TrimPrefix(id, "goodix,")
	for _, p := range profiles {
		if p.Name == id {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("gtx8: unknown controller %q", name)
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%s)", strings.ToUpper(p.Name), p.Variant)
}
