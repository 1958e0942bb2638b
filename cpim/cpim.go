// Package cpim implements the RFC 3862 Common Profile for Instant
// Messaging message format: the text envelope carried inside an MSRP
// SEND body when the session negotiates message/cpim content.
package cpim

import (
	"bytes"
	"errors"
	"strings"
)

// ErrMalformed is returned when raw input has no CRLF CRLF header/body
// separator at all.
var ErrMalformed = errors.New("cpim: malformed message")

// Header is one header-block line, preserved in the order it appeared.
// Known header names (To, From, cc, Subject, DateTime, Require, NS,
// Content-Type, Content-ID) are accessible via the typed getters below;
// everything else, including repeated or unrecognized names, is carried
// here verbatim.
type Header struct {
	Name  string
	Value string
}

// Message is a parsed CPIM envelope.
type Message struct {
	Headers []Header
	Body    []byte
}

// Get returns the value of the first header matching name
// (case-insensitive), and whether it was present.
func (m *Message) Get(name string) (string, bool) {
	for _, h := range m.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

func (m *Message) To() string          { v, _ := m.Get("To"); return v }
func (m *Message) From() string        { v, _ := m.Get("From"); return v }
func (m *Message) CC() string          { v, _ := m.Get("cc"); return v }
func (m *Message) Subject() string     { v, _ := m.Get("Subject"); return v }
func (m *Message) DateTime() string    { v, _ := m.Get("DateTime"); return v }
func (m *Message) Require() string     { v, _ := m.Get("Require"); return v }
func (m *Message) NS() string          { v, _ := m.Get("NS"); return v }
func (m *Message) ContentType() string { v, _ := m.Get("Content-Type"); return v }
func (m *Message) ContentID() string   { v, _ := m.Get("Content-ID"); return v }

// Parse decodes a CPIM message. The body begins after the LAST
// "\r\n\r\n" in the byte stream, not the first — a CPIM body is itself
// frequently a MIME document that contains its own blank lines, and using
// the first occurrence would truncate the header block prematurely.
//
// Parse failure (no CRLF CRLF separator present at all) yields (nil, err);
// callers that want a "null/absent message" outcome should treat a
// non-nil error as exactly that.
func Parse(raw []byte) (*Message, error) {
	sep := []byte("\r\n\r\n")
	idx := bytes.LastIndex(raw, sep)
	if idx < 0 {
		return nil, ErrMalformed
	}

	headerBlock := raw[:idx]
	body := raw[idx+len(sep):]

	m := &Message{Body: body}
	if len(headerBlock) == 0 {
		return m, nil
	}

	for _, line := range bytes.Split(headerBlock, []byte("\r\n")) {
		if len(line) == 0 {
			continue
		}
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			// Malformed header line: keep it verbatim under an empty
			// name rather than dropping it, so round-tripping is exact.
			m.Headers = append(m.Headers, Header{Name: "", Value: string(line)})
			continue
		}
		name := strings.TrimSpace(string(line[:colon]))
		value := strings.TrimSpace(string(line[colon+1:]))
		m.Headers = append(m.Headers, Header{Name: name, Value: value})
	}

	return m, nil
}

// Encode serializes the message back to RFC 3862 wire format.
func (m *Message) Encode() []byte {
	var b bytes.Buffer
	for _, h := range m.Headers {
		if h.Name == "" {
			b.WriteString(h.Value)
		} else {
			b.WriteString(h.Name)
			b.WriteString(": ")
			b.WriteString(h.Value)
		}
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.Write(m.Body)
	return b.Bytes()
}
