// Package event decodes the touch event buffer of Goodix GTX8 touchscreen controllers.
//
// GTX8 controllers expose their touch state as a register-mapped event buffer.
// Two generations exist with different layouts:
//
//	Normandy (GT9886)
//	  header:  status, touch count
//	  record:  id, x (LE16), y (LE16), major, 2×reserved
//	  sum:     8-bit sum of header + records + checksum == 0
//
//	Yellowstone (GT9896)
//	  header:  status, reserved, touch count, 3×reserved, checksum (BE16)
//	  record:  id<<4|sensor, reserved, x (BE16), y (BE16), reserved, major
//	  sum:     16-bit sum of the header and of the records, each followed
//	           by its own BE16 checksum
//
// Records are always 8 bytes and at most 10 records are reported per frame.
// The checksum is 2 bytes and directly follows the last active record.
//
// This package only deals with bytes that were already read from the device:
//
//	l := event.Yellowstone.Layout()
//	hdr, err := l.ParseHeader(buf)
//	if err != nil {
//		return err
//	}
//	if !l.ValidHeader(buf) {
//		// drop the frame
//	}
//	contacts, err := event.DecodeContacts(l, buf, hdr.TouchCount, nil)
//
// Encode builds a well-formed event buffer, which is useful for simulating a
// controller.
package event
