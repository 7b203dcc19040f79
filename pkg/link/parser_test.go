package link

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func feed(t *testing.T, p *Parser, in []byte) (frames []*Frame, errs []error) {
	t.Helper()
	for _, b := range in {
		pr := p.Parse(b)
		if pr.Err != nil {
			errs = append(errs, pr.Err)
		}
		if pr.Frame != nil {
			frames = append(frames, pr.Frame)
		}
	}
	return
}

func TestParser(t *testing.T) {
	ping := (&Frame{Cmd: CmdPing}).Bytes()
	sel := (&Frame{Cmd: CmdSetSelection, Payload: []byte{0x02}}).Bytes()

	testCases := []struct {
		name      string
		in        []byte
		expect    []*Frame
		expectErr []error
	}{
		{
			name:   "valid frame",
			in:     ping,
			expect: []*Frame{{Cmd: CmdPing, Payload: []byte{}}},
		},
		{
			name:   "garbage before sync",
			in:     append([]byte{0x00, 0x42, 0xff, 0x7f}, ping...),
			expect: []*Frame{{Cmd: CmdPing, Payload: []byte{}}},
		},
		{
			name:      "zero length drops candidate only",
			in:        append([]byte{Sync, 0x00}, sel...),
			expect:    []*Frame{{Cmd: CmdSetSelection, Payload: []byte{0x02}}},
			expectErr: []error{ErrLengthOutOfRange},
		},
		{
			name:      "oversized length drops candidate only",
			in:        append([]byte{Sync, MaxLen + 1}, sel...),
			expect:    []*Frame{{Cmd: CmdSetSelection, Payload: []byte{0x02}}},
			expectErr: []error{ErrLengthOutOfRange},
		},
		{
			name:   "sync byte inside payload",
			in:     (&Frame{Cmd: CmdSetSelection, Payload: []byte{Sync, Sync}}).Bytes(),
			expect: []*Frame{{Cmd: CmdSetSelection, Payload: []byte{Sync, Sync}}},
		},
		{
			name: "back to back frames",
			in:   append(append([]byte{}, ping...), sel...),
			expect: []*Frame{
				{Cmd: CmdPing, Payload: []byte{}},
				{Cmd: CmdSetSelection, Payload: []byte{0x02}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var parser Parser
			frames, errs := feed(t, &parser, tc.in)
			require.Equal(t, tc.expect, frames)
			require.Equal(t, tc.expectErr, errs)
		})
	}
}

func TestParserCRCCorruption(t *testing.T) {
	// Flipping any single bit in the CRC byte drops that frame, and the
	// immediately following valid frame still decodes.
	valid := (&Frame{Cmd: CmdSetSelection, Payload: []byte{0x01, 0x02, 0x03}}).Bytes()
	follow := (&Frame{Cmd: CmdPing}).Bytes()
	for bit := 0; bit < 8; bit++ {
		t.Run(fmt.Sprintf("bit %d", bit), func(t *testing.T) {
			corrupted := append([]byte{}, valid...)
			corrupted[len(corrupted)-1] ^= 1 << bit
			var parser Parser
			frames, errs := feed(t, &parser, append(corrupted, follow...))
			require.Equal(t, []error{ErrCRCMismatch}, errs)
			require.Equal(t, []*Frame{{Cmd: CmdPing, Payload: []byte{}}}, frames)
		})
	}
}

func TestParserReset(t *testing.T) {
	var parser Parser
	// Mid-body reset discards the partial frame.
	partial := (&Frame{Cmd: CmdSetSelection, Payload: []byte{0x02}}).Bytes()
	feed(t, &parser, partial[:3])
	parser.Reset()
	frames, errs := feed(t, &parser, (&Frame{Cmd: CmdPing}).Bytes())
	require.Empty(t, errs)
	require.Equal(t, []*Frame{{Cmd: CmdPing, Payload: []byte{}}}, frames)
}
