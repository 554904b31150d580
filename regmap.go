package gtx8

// maxTransfer is the largest raw transfer the controller accepts.
const maxTransfer = 256

// readRaw reads len(b) bytes starting at register addr.
//
// Registers are 16 bits wide and sent big-endian; values are 8 bits.
func (d *Dev) readRaw(addr uint16, b []byte) error {
	for off := 0; off < len(b); off += maxTransfer {
		end := min(off+maxTransfer, len(b))
		reg := addr + uint16(off)
		if err := d.c.Tx([]byte{byte(reg >> 8), byte(reg)}, b[off:end]); err != nil {
			return &TransportError{Op: "read", Addr: reg, Err: err}
		}
	}
	return nil
}

// write writes v starting at register addr.
func (d *Dev) write(addr uint16, v ...byte) error {
	for off := 0; off < len(v); off += maxTransfer {
		end := min(off+maxTransfer, len(v))
		reg := addr + uint16(off)
		w := append([]byte{byte(reg >> 8), byte(reg)}, v[off:end]...)
		if err := d.c.Tx(w, nil); err != nil {
			return &TransportError{Op: "write", Addr: reg, Err: err}
		}
	}
	return nil
}
