package sip

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Request models a SIP request line plus headers and body, per RFC 3261
// section 7.1 (method, Request-URI, version).
type Request struct {
	MessageData
	Method    RequestMethod
	Recipient Uri

	// Laddr is the local address the request was (or will be) sent from.
	Laddr Addr
	// raddr is the address resolved from the top Via header, once known.
	raddr Addr
}

// NewRequest builds a bare request line (method, Request-URI, "SIP/2.0")
// with no headers. Call AppendHeader to add headers and SetBody to attach
// a body (which also sets Content-Length).
func NewRequest(method RequestMethod, recipient Uri) *Request {
	if recipient.UriParams != nil {
		recipient.UriParams = recipient.UriParams.clone()
	}
	if recipient.Headers != nil {
		recipient.Headers = recipient.Headers.clone()
	}

	req := &Request{}
	req.SipVersion = "SIP/2.0"
	req.headers = headers{
		headerOrder: make([]Header, 0, 10),
	}
	req.Method = method
	req.Recipient = recipient
	req.body = nil

	return req
}

func (req *Request) Short() string {
	if req == nil {
		return "<nil>"
	}

	return fmt.Sprintf("request method=%s Recipient=%s transport=%s source=%s",
		req.Method,
		req.Recipient.String(),
		req.Transport(),
		req.Source(),
	)
}

// StartLine renders the request line: "METHOD Request-URI SIP-Version".
func (req *Request) StartLine() string {
	var buffer strings.Builder
	req.StartLineWrite(&buffer)
	return buffer.String()
}

func (req *Request) StartLineWrite(buffer io.StringWriter) {
	buffer.WriteString(string(req.Method))
	buffer.WriteString(" ")
	buffer.WriteString(req.Recipient.String())
	buffer.WriteString(" ")
	buffer.WriteString(req.SipVersion)
}

func (req *Request) String() string {
	var buffer strings.Builder
	req.StringWrite(&buffer)
	return buffer.String()
}

func (req *Request) StringWrite(buffer io.StringWriter) {
	// The start-line, each header line, and the blank separator line must
	// all be CRLF-terminated, even when there is no body.
	req.StartLineWrite(buffer)
	buffer.WriteString("\r\n")
	req.headers.StringWrite(buffer)
	buffer.WriteString("\r\n")
	if req.body != nil {
		buffer.WriteString(string(req.body))
	}
}

// Clone returns a copy of the request with cloned headers and a copy of the
// body.
func (req *Request) Clone() *Request {
	return cloneRequest(req)
}

func (req *Request) IsInvite() bool  { return req.Method == INVITE }
func (req *Request) IsAck() bool     { return req.Method == ACK }
func (req *Request) IsCancel() bool  { return req.Method == CANCEL }

// HasGeolocation reports whether the request carries a Geolocation header,
// the RFC 6442 mechanism NG9-1-1 call routing relies on to convey caller
// location to the PSAP.
func (req *Request) HasGeolocation() bool {
	return req.Geolocation() != nil
}

// RequiresGeolocationRouting reports whether Geolocation-Routing is
// present and set to "yes", meaning intermediaries must route based on
// the attached location rather than treating it as informational only.
func (req *Request) RequiresGeolocationRouting() bool {
	gr := req.GeolocationRouting()
	return gr != nil && bool(*gr)
}

func (req *Request) Transport() string {
	if tp := req.MessageData.Transport(); tp != "" {
		return tp
	}

	var tp string
	if viaHop := req.Via(); viaHop != nil && viaHop.Transport != "" {
		tp = viaHop.Transport
	} else {
		tp = DefaultProtocol
	}

	uri := req.Recipient
	if hdr := req.Route(); hdr != nil {
		uri = hdr.Address
	}

	if uri.UriParams != nil {
		if val, ok := uri.UriParams.Get("transport"); ok && val != "" {
			tp = strings.ToUpper(val)
		}
	}

	if uri.IsEncrypted() {
		if tp == "TCP" {
			tp = "TLS"
		} else if tp == "WS" {
			tp = "WSS"
		}
	}

	return tp
}

// Source returns the host:port a request was received from, falling back
// to the top Via header's address (honoring received/rport) when the
// transport layer hasn't recorded one explicitly.
func (req *Request) Source() string {
	if src := req.MessageData.Source(); src != "" {
		return src
	}
	return req.sourceVia()
}

func (req *Request) sourceVia() string {
	host, port := req.sourceViaHostPort()
	return fmt.Sprintf("%s:%d", uriNetIP(host), port)
}

func (req *Request) sourceViaHostPort() (string, int) {
	viaHop := req.Via()
	if viaHop == nil {
		return "", 0
	}

	host := viaHop.Host
	port := int(DefaultPort(req.Transport()))
	if viaHop.Port > 0 {
		port = viaHop.Port
	}

	// https://datatracker.ietf.org/doc/html/rfc3581#section-4
	if viaHop.Params != nil {
		if received, ok := viaHop.Params.Get("received"); ok && received != "" {
			host = received
		}
		if rport, ok := viaHop.Params.Get("rport"); ok && rport != "" {
			if p, err := strconv.Atoi(rport); err == nil {
				port = p
			}
		}
	}

	return host, port
}

func (req *Request) Destination() string {
	if dest := req.MessageData.Destination(); dest != "" {
		return dest
	}

	uri := &req.Recipient
	if hdr := req.Route(); hdr != nil {
		uri = &hdr.Address
	}

	if uri.Port > 0 {
		return fmt.Sprintf("%v:%v", uri.Host, uri.Port)
	}
	return fmt.Sprintf("%v:%v", uri.Host, DefaultPort(req.Transport()))
}

func (r *Request) remoteAddress() Addr {
	return r.raddr
}

func cloneRequest(req *Request) *Request {
	newReq := NewRequest(
		req.Method,
		*req.Recipient.Clone(),
	)
	newReq.SipVersion = req.SipVersion

	for _, h := range req.CloneHeaders() {
		newReq.AppendHeader(h)
	}
	newReq.SetBody(slices.Clone(req.Body()))
	newReq.SetTransport(req.Transport())
	newReq.SetSource(req.Source())
	newReq.SetDestination(req.Destination())
	newReq.raddr = req.raddr
	newReq.Laddr = req.Laddr

	return newReq
}
