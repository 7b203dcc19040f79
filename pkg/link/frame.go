package link

import "io"

// Wire layout constants.
const (
	// Sync delimits the start of every frame.
	Sync byte = 0xA5
	// MaxPayload is the largest payload a single frame can carry.
	MaxPayload = 59
	// MaxLen is the largest valid value of the length field, which
	// counts the command byte plus the payload.
	MaxLen = MaxPayload + 1
)

// Frame is one complete protocol message unit.
type Frame struct {
	Cmd     byte
	Payload []byte
}

// Bytes returns the encoded wire form [SYNC, LEN, CMD, PAYLOAD..., CRC].
// It panics if the payload exceeds MaxPayload; use WriteTo for an error
// returning variant.
func (f *Frame) Bytes() []byte {
	if len(f.Payload) > MaxPayload {
		panic(ErrPayloadTooLarge)
	}
	b := make([]byte, len(f.Payload)+4)
	b[0] = Sync
	b[1] = byte(1 + len(f.Payload))
	b[2] = f.Cmd
	copy(b[3:], f.Payload)
	b[len(b)-1] = CRC8(b[1 : len(b)-1])
	return b
}

// WriteTo writes the encoded frame.
func (f *Frame) WriteTo(w io.Writer) (int, error) {
	if len(f.Payload) > MaxPayload {
		return 0, ErrPayloadTooLarge
	}
	return w.Write(f.Bytes())
}
