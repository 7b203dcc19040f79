package link

// Parser is the incremental frame decoder. It consumes one byte at a
// time and never fails fatally: malformed input drops at most the
// current candidate frame and the parser hunts for the next sync byte.
type Parser struct {
	state   parseState
	length  byte
	body    []byte
	recvLen byte
}

type parseState int

const (
	stateWaitSync parseState = iota // discard until Sync seen
	stateReadLen                    // next byte is the length field
	stateReadBody                   // accumulate CMD + payload
	stateReadCrc                    // compare checksum, emit or drop
)

// ParseResult is the outcome of one parsing step. Frame is set when a
// complete valid frame was decoded. Err reports a dropped candidate
// frame (ErrLengthOutOfRange or ErrCRCMismatch) for counting only; the
// parser has already resynchronized when it is returned.
type ParseResult struct {
	Frame *Frame
	Err   error
}

// Reset discards any partial frame and returns to hunting for sync.
func (p *Parser) Reset() {
	p.state = stateWaitSync
	p.body = nil
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	switch p.state {
	case stateWaitSync:
		if b == Sync {
			p.state = stateReadLen
		}
	case stateReadLen:
		if b == 0 || b > MaxLen {
			p.Reset()
			pr.Err = ErrLengthOutOfRange
			return
		}
		p.length = b
		p.body = make([]byte, 0, b)
		p.recvLen = 0
		p.state = stateReadBody
	case stateReadBody:
		p.body = append(p.body, b)
		p.recvLen++
		if p.recvLen == p.length {
			p.state = stateReadCrc
		}
	case stateReadCrc:
		sum := make([]byte, 0, len(p.body)+1)
		sum = append(sum, p.length)
		sum = append(sum, p.body...)
		if CRC8(sum) != b {
			p.Reset()
			pr.Err = ErrCRCMismatch
			return
		}
		pr.Frame = &Frame{Cmd: p.body[0], Payload: p.body[1:]}
		p.Reset()
	}
	return
}
