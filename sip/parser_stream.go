package sip

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

type parserState int

const (
	stateStartLine = parserState(iota)
	stateHeader
	stateContent
)

var errUnknownParserState = errors.New("sip: parser stream is in an unknown state")

var streamBufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// ParserStream parses SIP messages out of a byte stream that may deliver
// partial messages, multiple messages, or message boundaries that don't
// align with read boundaries (the common case for TCP/TLS/WS transports).
type ParserStream struct {
	p *Parser

	buf           *bytes.Buffer
	state         parserState
	totalRead     int
	msg           Message
	headerBuf     []Header
	contentLength *ContentLengthHeader
	contentOff    int
}

func (p *ParserStream) reset() {
	p.state = stateStartLine
	p.totalRead = 0
	p.msg = nil
	for i := range p.headerBuf {
		p.headerBuf[i] = nil
	}
	p.headerBuf = p.headerBuf[:0]
	p.contentLength = nil
	p.contentOff = 0
}

// Reset clears the parser and its internal buffer, discarding any partial
// message in flight.
func (p *ParserStream) Reset() {
	p.reset()
	if p.buf != nil {
		p.buf.Reset()
	}
}

// Close releases the parser's internal buffer back to the pool. The
// ParserStream must not be used afterward.
func (p *ParserStream) Close() {
	p.reset()
	buf := p.buf
	p.buf = nil
	if buf != nil {
		streamBufPool.Put(buf)
	}
}

// parseSIPStreamFull parses every complete message currently in data. It
// costs one extra slice allocation relative to ParseSIPStream's callback
// form, so is only used where collecting all messages up front is simpler.
func (p *ParserStream) parseSIPStreamFull(data []byte) (msgs []Message, err error) {
	err = p.ParseSIPStream(data, func(msg Message) {
		msgs = append(msgs, msg)
	})
	return msgs, err
}

// ParseSIPStream appends data to the internal buffer and invokes cb once per
// complete message it can decode. A partial trailing message is left
// buffered for the next call.
func (p *ParserStream) ParseSIPStream(data []byte, cb func(msg Message)) error {
	if _, err := p.Write(data); err != nil {
		return err
	}
	for p.buf.Len() > 0 {
		msg, _, err := p.ParseNext()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrParseSipPartial
		} else if err != nil {
			return err
		}
		cb(msg)
	}
	return nil
}

// Buffer returns the parser's internal buffer, lazily allocating it from the
// pool on first use. Inspecting it lets a caller recover a stream after a
// malformed message, pairing it with Discard.
func (p *ParserStream) Buffer() *bytes.Buffer {
	if p.buf == nil {
		p.buf = streamBufPool.Get().(*bytes.Buffer)
		p.buf.Reset()
	}
	return p.buf
}

// Discard drops n bytes from the front of the buffer and resets parser
// state, skipping a malformed message so the stream can recover.
func (p *ParserStream) Discard(n int) {
	p.reset()
	if p.buf != nil {
		_ = p.buf.Next(n)
	}
}

// Write appends data to the internal buffer. Call it before ParseNext.
func (p *ParserStream) Write(data []byte) (int, error) {
	buf := p.Buffer()
	buf.Write(data)
	return len(data), nil
}

// ParseNext decodes the next message from the internal buffer, returning
// io.ErrUnexpectedEOF when more data must be written before it can finish.
func (p *ParserStream) ParseNext() (Message, int, error) {
	if p.buf == nil {
		return nil, 0, io.ErrUnexpectedEOF
	}

	err := p.parseSingle()
	done := err == nil
	msg, n := p.msg, p.totalRead
	if done && p.totalRead > p.p.MaxMessageLength {
		err = ErrMessageTooLarge
		msg = nil
	}
	if done {
		p.reset()
	}
	return msg, n, err
}

func (p *ParserStream) advance(n int) {
	p.totalRead += n
	_ = p.buf.Next(n)
}

func (p *ParserStream) parseSingle() error {
	if p.buf == nil {
		return io.ErrUnexpectedEOF
	}

	var (
		n   int
		err error
	)
	switch p.state {
	case stateStartLine:
		var msg Message
		msg, n, err = p.p.parseStartLine(p.buf.Bytes(), true)
		p.advance(n)
		if err != nil {
			return err
		}
		p.state = stateHeader
		p.msg = msg
		fallthrough

	case stateHeader:
		for {
			p.headerBuf, n, err = p.p.parseNextHeader(p.headerBuf[:0], p.buf.Bytes())
			p.advance(n)
			for _, h := range p.headerBuf {
				switch h := h.(type) {
				case *ContentLengthHeader:
					p.contentLength = h
				}
				p.msg.AppendHeader(h)
			}
			if err == errParseNoMoreHeaders {
				break
			}
			if err != nil {
				return err
			}
		}
		if p.contentLength == nil {
			// RFC 3261 section 7.5: Content-Length locates the end of each
			// message on a stream-oriented transport and must be present.
			return ErrParseReadBodyIncomplete
		}
		contentLength := int(*p.contentLength)
		if contentLength == 0 {
			p.state = -1
			return nil
		}
		body := make([]byte, contentLength)
		p.msg.SetBody(body)
		p.state = stateContent
		fallthrough

	case stateContent:
		body := p.msg.Body()
		contentLength := len(body)

		n = copy(body[p.contentOff:], p.buf.Bytes())
		p.advance(n)
		p.contentOff += n

		if p.contentOff < contentLength {
			return io.ErrUnexpectedEOF
		}
		p.state = -1
		return nil

	default:
		return errUnknownParserState
	}
}
