package event

// Encode builds the event buffer a controller of layout l would expose for
// the given status byte and contacts, including valid checksums.
//
// The returned buffer is EventSize(l) bytes long; bytes past the trailing
// checksum are zero. Contact IDs above 15 are truncated on Yellowstone.
func Encode(l Layout, status byte, contacts []Contact) ([]byte, error) {
	n := len(contacts)
	if n > MaxTouch {
		return nil, &TouchCountError{Count: n}
	}
	buf := make([]byte, EventSize(l))
	l.encodeHeader(buf, status, n)
	off := l.HeaderSize()
	for _, c := range contacts {
		l.encodeContact(buf[off:off+TouchSize], c)
		off += TouchSize
	}
	l.sealChecksums(buf, n)
	return buf, nil
}
