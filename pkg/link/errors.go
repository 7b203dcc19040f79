package link

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadTooLarge indicates a payload exceeding MaxPayload.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrLengthOutOfRange indicates a received length field outside 1..MaxLen.
	// The parser recovers by resynchronizing on the next sync byte.
	ErrLengthOutOfRange = errors.New("length out of range")
	// ErrCRCMismatch indicates a received frame failing the checksum.
	ErrCRCMismatch = errors.New("crc mismatch")
	// ErrTimeout indicates no correlated response arrived in time.
	// It is terminal for that call; nothing is retried automatically.
	ErrTimeout = errors.New("response timeout")
	// ErrLinkBusy indicates a call was attempted while another one is
	// still in flight. Only one request may be outstanding at a time.
	ErrLinkBusy = errors.New("link busy")
)

// ResponseError wraps an error-class response frame (ERR or BUSY).
type ResponseError struct {
	Code byte
}

// Error implements error.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("peer responded %s (0x%02x)", CodeName(e.Code), e.Code)
}

// IsBusy reports whether the peer rejected the command as busy.
func (e *ResponseError) IsBusy() bool {
	return e.Code == RspBusy
}
