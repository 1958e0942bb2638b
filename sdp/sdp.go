// Package sdp implements RFC 4566 Session Description Protocol parsing,
// serialization, and offer/answer negotiation (RFC 3264) for the media
// types a call leg needs: audio, video, text, and message (MSRP).
package sdp

import (
	"fmt"
	"strconv"
	"strings"
)

// Origin is the o= line: username, session-id, session-version, network
// type, address type, and unicast address of the session originator.
type Origin struct {
	Username       string
	SessionID      string
	SessionVersion string
	NetType        string // "IN"
	AddrType       string // "IP4" or "IP6"
	Address        string
}

func (o Origin) String() string {
	return fmt.Sprintf("%s %s %s %s %s %s", o.Username, o.SessionID, o.SessionVersion, o.NetType, o.AddrType, o.Address)
}

// ConnectionData is a c= line.
type ConnectionData struct {
	NetType  string
	AddrType string
	Address  string
}

func (c ConnectionData) String() string {
	return fmt.Sprintf("%s %s %s", c.NetType, c.AddrType, c.Address)
}

// Timing is a t= line.
type Timing struct {
	Start uint64
	Stop  uint64
}

func (t Timing) String() string {
	return fmt.Sprintf("%d %d", t.Start, t.Stop)
}

// Bandwidth is a b= line, e.g. "AS:64".
type Bandwidth struct {
	Type  string
	Value uint64
}

func (b Bandwidth) String() string {
	return fmt.Sprintf("%s:%d", b.Type, b.Value)
}

// Session is a complete SDP session description (v/o/s/i/u/e/p/b/t/c/a
// lines plus an ordered list of media descriptions).
type Session struct {
	Version     int // always 0 per RFC 4566
	Origin      Origin
	Name        string // s=
	Info        string // i=, optional
	URI         string // u=, optional
	Email       string // e=, optional
	Phone       string // p=, optional
	Connection  *ConnectionData
	Bandwidth   []Bandwidth
	Timing      Timing
	Attributes  []Attribute
	Media       []*MediaDescription
}

// MediaDescription is one m= section.
type MediaDescription struct {
	Type       string // "audio", "video", "text", "message"
	Port       int
	PortCount  int // 0 when a single port (no "/N" suffix)
	Transport  string // "RTP/AVP", "RTP/SAVP", "UDP/TLS/RTP/SAVP", "TCP/MSRP", "TCP/TLS/MSRP"
	Formats    []string // payload types or format names, in order
	Info       string
	Connection *ConnectionData
	Bandwidth  []Bandwidth
	Attributes []Attribute
}

// Direction returns the effective media-direction attribute for this
// media description, inherited from the session level when the media
// description itself does not carry one. Defaults to sendrecv per
// RFC 4566 when neither level specifies one.
func (m *MediaDescription) Direction(session *Session) DirectionFlag {
	for _, a := range m.Attributes {
		if d, ok := a.(DirectionFlag); ok {
			return d
		}
	}
	if session != nil {
		for _, a := range session.Attributes {
			if d, ok := a.(DirectionFlag); ok {
				return d
			}
		}
	}
	return DirectionFlag{Value: "sendrecv"}
}

// RtpMap returns the rtpmap entries attached to this media description,
// in the order they appeared.
func (m *MediaDescription) RtpMap() []RtpMap {
	var out []RtpMap
	for _, a := range m.Attributes {
		if r, ok := a.(RtpMap); ok {
			out = append(out, r)
		}
	}
	return out
}

// Fmtp returns the fmtp entries attached to this media description.
func (m *MediaDescription) Fmtp() []Fmtp {
	var out []Fmtp
	for _, a := range m.Attributes {
		if f, ok := a.(Fmtp); ok {
			out = append(out, f)
		}
	}
	return out
}

// Crypto returns the crypto entries attached to this media description,
// in the order they appeared.
func (m *MediaDescription) Crypto() []Crypto {
	var out []Crypto
	for _, a := range m.Attributes {
		if c, ok := a.(Crypto); ok {
			out = append(out, c)
		}
	}
	return out
}

// Setup returns the MSRP/DTLS a=setup role, if present.
func (m *MediaDescription) Setup() (Setup, bool) {
	for _, a := range m.Attributes {
		if s, ok := a.(Setup); ok {
			return s, true
		}
	}
	return Setup{}, false
}

// Fingerprint returns the DTLS-SRTP a=fingerprint attribute, if present.
func (m *MediaDescription) Fingerprint() (Fingerprint, bool) {
	for _, a := range m.Attributes {
		if f, ok := a.(Fingerprint); ok {
			return f, true
		}
	}
	return Fingerprint{}, false
}

// Path returns the MSRP a=path attribute, if present.
func (m *MediaDescription) Path() (Path, bool) {
	for _, a := range m.Attributes {
		if p, ok := a.(Path); ok {
			return p, true
		}
	}
	return Path{}, false
}

// IsDTLSSRTP reports whether the media transport implies DTLS-SRTP keying
// (UDP/TLS/RTP/SAVP, or RTP/SAVP carrying a fingerprint).
func (m *MediaDescription) IsDTLSSRTP() bool {
	if m.Transport == "UDP/TLS/RTP/SAVP" {
		return true
	}
	if m.Transport == "RTP/SAVP" {
		_, ok := m.Fingerprint()
		return ok
	}
	return false
}

// IsSDESSRTP reports whether the media transport implies SDES-SRTP keying
// (RTP/SAVP with inline a=crypto lines, no fingerprint).
func (m *MediaDescription) IsSDESSRTP() bool {
	return m.Transport == "RTP/SAVP" && len(m.Crypto()) > 0 && !m.IsDTLSSRTP()
}

// IsMSRP reports whether the media description is an MSRP (text/message
// over TCP) section.
func (m *MediaDescription) IsMSRP() bool {
	return m.Transport == "TCP/MSRP" || m.Transport == "TCP/TLS/MSRP"
}

// ApplyDirectionInheritance copies the session-level direction attribute
// into every media description that lacks one of its own. Call this once
// after parsing.
func (s *Session) ApplyDirectionInheritance() {
	var sessionDir *DirectionFlag
	for _, a := range s.Attributes {
		if d, ok := a.(DirectionFlag); ok {
			dd := d
			sessionDir = &dd
			break
		}
	}
	if sessionDir == nil {
		return
	}
	for _, md := range s.Media {
		hasOwn := false
		for _, a := range md.Attributes {
			if _, ok := a.(DirectionFlag); ok {
				hasOwn = true
				break
			}
		}
		if !hasOwn {
			md.Attributes = append(md.Attributes, *sessionDir)
		}
	}
}

func formatMediaLine(m *MediaDescription) string {
	port := strconv.Itoa(m.Port)
	if m.PortCount > 0 {
		port = fmt.Sprintf("%d/%d", m.Port, m.PortCount)
	}
	return fmt.Sprintf("m=%s %s %s %s", m.Type, port, m.Transport, strings.Join(m.Formats, " "))
}

// String serializes the session back to RFC 4566 wire format, CRLF
// terminated, in the canonical v/o/s/i/u/e/p/b/t/a/m field order.
func (s *Session) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "v=%d\r\n", s.Version)
	fmt.Fprintf(&b, "o=%s\r\n", s.Origin.String())
	name := s.Name
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(&b, "s=%s\r\n", name)
	if s.Info != "" {
		fmt.Fprintf(&b, "i=%s\r\n", s.Info)
	}
	if s.URI != "" {
		fmt.Fprintf(&b, "u=%s\r\n", s.URI)
	}
	if s.Email != "" {
		fmt.Fprintf(&b, "e=%s\r\n", s.Email)
	}
	if s.Phone != "" {
		fmt.Fprintf(&b, "p=%s\r\n", s.Phone)
	}
	if s.Connection != nil {
		fmt.Fprintf(&b, "c=%s\r\n", s.Connection.String())
	}
	for _, bw := range s.Bandwidth {
		fmt.Fprintf(&b, "b=%s\r\n", bw.String())
	}
	fmt.Fprintf(&b, "t=%s\r\n", s.Timing.String())
	for _, a := range s.Attributes {
		writeAttribute(&b, a)
	}
	for _, m := range s.Media {
		b.WriteString(formatMediaLine(m))
		b.WriteString("\r\n")
		if m.Info != "" {
			fmt.Fprintf(&b, "i=%s\r\n", m.Info)
		}
		if m.Connection != nil {
			fmt.Fprintf(&b, "c=%s\r\n", m.Connection.String())
		}
		for _, bw := range m.Bandwidth {
			fmt.Fprintf(&b, "b=%s\r\n", bw.String())
		}
		for _, a := range m.Attributes {
			writeAttribute(&b, a)
		}
	}
	return b.String()
}

func writeAttribute(b *strings.Builder, a Attribute) {
	v := a.String()
	if v == "" {
		fmt.Fprintf(b, "a=%s\r\n", a.AttrName())
		return
	}
	fmt.Fprintf(b, "a=%s:%s\r\n", a.AttrName(), v)
}
