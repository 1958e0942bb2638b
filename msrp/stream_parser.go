package msrp

import (
	"strings"

	"github.com/ng911/sipstack/buffer"
)

// parserState is the MSRP byte state machine's current position within a
// transaction frame.
type parserState int

const (
	stateIdle parserState = iota
	stateMsrpPatternFound
	stateEndLineSearch
)

// DefaultMaxMessageLength bounds a single accumulated transaction frame.
// Crossing it without completing resets the parser silently.
const DefaultMaxMessageLength = 10000

// StreamParser is a single-direction byte state machine that extracts
// complete MSRP transaction frames (start line through end-line) out of
// an arbitrarily-chunked byte stream. It is not safe for concurrent use;
// one StreamParser serves one read direction of one connection.
type StreamParser struct {
	MaxMessageLength int

	buf            []byte
	state          parserState
	txnID          string
	endLinePattern []byte
}

// NewStreamParser constructs a parser with the default overflow bound.
func NewStreamParser() *StreamParser {
	return &StreamParser{MaxMessageLength: DefaultMaxMessageLength, state: stateIdle}
}

// Feed appends newly arrived bytes and returns zero or more complete
// transaction frames (each including its own end-line) extracted from the
// accumulated buffer, in arrival order. The returned slices are copies;
// the parser's internal buffer is safe to keep mutating after Feed
// returns.
func (p *StreamParser) Feed(data []byte) [][]byte {
	p.buf = append(p.buf, data...)

	var frames [][]byte
	for {
		switch p.state {
		case stateIdle:
			idx := buffer.FindPattern(p.buf, 0, len(p.buf), []byte("MSRP"))
			if idx < 0 {
				p.overflowCheck()
				return frames
			}
			if idx > 0 {
				// Resynchronize: discard everything before the pattern.
				p.buf = p.buf[idx:]
			}
			p.state = stateMsrpPatternFound

		case stateMsrpPatternFound:
			idx := buffer.FindPattern(p.buf, 0, len(p.buf), []byte("\r\n"))
			if idx < 0 {
				if p.overflowCheck() {
					continue
				}
				return frames
			}
			fields := strings.Fields(string(p.buf[:idx]))
			if len(fields) < 2 {
				// Malformed start line: drop this "MSRP" token and
				// resync on the next one.
				p.buf = p.buf[4:]
				p.state = stateIdle
				continue
			}
			p.txnID = fields[1]
			p.endLinePattern = []byte("-------" + p.txnID)
			p.state = stateEndLineSearch

		case stateEndLineSearch:
			idx := buffer.FindPattern(p.buf, 0, len(p.buf), p.endLinePattern)
			if idx < 0 {
				if p.overflowCheck() {
					continue
				}
				return frames
			}
			// Exactly three more bytes after the end-line pattern:
			// the completion flag, CR, LF.
			need := idx + len(p.endLinePattern) + 3
			if len(p.buf) < need {
				if p.overflowCheck() {
					continue
				}
				return frames
			}

			frame := make([]byte, need)
			copy(frame, p.buf[:need])
			frames = append(frames, frame)

			p.buf = p.buf[need:]
			p.txnID = ""
			p.endLinePattern = nil
			p.state = stateIdle
		}
	}
}

// overflowCheck resets the parser when accumulated bytes exceed
// MaxMessageLength without completing a transaction. Returns true if it
// reset the buffer (the caller should retry the state machine against the
// now-empty buffer) or false if more data should simply be awaited.
func (p *StreamParser) overflowCheck() bool {
	max := p.MaxMessageLength
	if max <= 0 {
		max = DefaultMaxMessageLength
	}
	if len(p.buf) <= max {
		return false
	}
	p.buf = nil
	p.txnID = ""
	p.endLinePattern = nil
	p.state = stateIdle
	return true
}
