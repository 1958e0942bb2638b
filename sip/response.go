package sip

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Response models a SIP status line plus headers and body, per RFC 3261
// section 7.2 (SIP-Version, Status-Code, Reason-Phrase).
type Response struct {
	MessageData

	Reason     string // e.g. "OK"
	StatusCode int    // e.g. 200

	// raddr is the address resolved from the originating request's Via.
	raddr Addr
}

// NewResponse builds a bare status line with no headers. Call AppendHeader
// to add headers and SetBody to attach a body (which also sets
// Content-Length).
func NewResponse(statusCode int, reason string) *Response {
	res := &Response{}
	res.SipVersion = "SIP/2.0"
	res.headers = headers{
		headerOrder: make([]Header, 0, 10),
	}
	res.StatusCode = statusCode
	res.Reason = reason
	res.body = nil

	return res
}

func (res *Response) Short() string {
	if res == nil {
		return "<nil>"
	}

	return fmt.Sprintf("response status=%d reason=%s transport=%s source=%s",
		res.StatusCode,
		res.Reason,
		res.Transport(),
		res.Source(),
	)
}

// StartLine renders the status line: "SIP-Version Status-Code Reason-Phrase".
func (res *Response) StartLine() string {
	var buffer strings.Builder
	res.StartLineWrite(&buffer)
	return buffer.String()
}

func (res *Response) StartLineWrite(buffer io.StringWriter) {
	buffer.WriteString(res.SipVersion)
	buffer.WriteString(" ")
	buffer.WriteString(strconv.Itoa(res.StatusCode))
	buffer.WriteString(" ")
	buffer.WriteString(res.Reason)
}

func (res *Response) String() string {
	var buffer strings.Builder
	res.StringWrite(&buffer)
	return buffer.String()
}

func (res *Response) StringWrite(buffer io.StringWriter) {
	res.StartLineWrite(buffer)
	buffer.WriteString("\r\n")
	res.headers.StringWrite(buffer)
	buffer.WriteString("\r\n")
	if res.body != nil {
		buffer.WriteString(string(res.body))
	}
}

// Clone performs a shallow copy: everything but the body is duplicated.
func (res *Response) Clone() *Response {
	return cloneResponse(res)
}

func (res *Response) IsProvisional() bool { return res.StatusCode < 200 }
func (res *Response) IsSuccess() bool     { return res.StatusCode >= 200 && res.StatusCode < 300 }
func (res *Response) IsRedirection() bool { return res.StatusCode >= 300 && res.StatusCode < 400 }
func (res *Response) IsClientError() bool { return res.StatusCode >= 400 && res.StatusCode < 500 }
func (res *Response) IsServerError() bool { return res.StatusCode >= 500 && res.StatusCode < 600 }
func (res *Response) IsGlobalError() bool { return res.StatusCode >= 600 }

func (res *Response) IsAck() bool {
	if cseq := res.CSeq(); cseq != nil {
		return cseq.MethodName == ACK
	}
	return false
}

func (res *Response) IsCancel() bool {
	if cseq := res.CSeq(); cseq != nil {
		return cseq.MethodName == CANCEL
	}
	return false
}

// IsLocationError reports whether this response carries a Geolocation-Error
// header, the RFC 6442 mechanism an intermediary or PSAP uses to report that
// the location it was handed could not be validated or dereferenced.
func (res *Response) IsLocationError() bool {
	return res.GeolocationError() != nil
}

func (res *Response) Transport() string {
	if tp := res.MessageData.Transport(); tp != "" {
		return tp
	}

	if viaHop := res.Via(); viaHop != nil && viaHop.Transport != "" {
		return viaHop.Transport
	}
	return DefaultProtocol
}

// Destination returns the host:port a response should be sent to: the top
// Via's sent-by, overridden by its received and rport parameters, so the
// reply goes back to where the request came from, per RFC 3581 section 4.
func (res *Response) Destination() string {
	if dest := res.MessageData.Destination(); dest != "" {
		return dest
	}

	viaHop := res.Via()
	if viaHop == nil {
		return ""
	}

	host := viaHop.Host
	port := int(DefaultPort(res.Transport()))
	if viaHop.Port > 0 {
		port = viaHop.Port
	}

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

	return fmt.Sprintf("%v:%v", host, port)
}

// NewResponseFromRequest builds a response to req, copying the dialog-forming
// headers (Record-Route, Via, From, To, Call-ID, CSeq) per RFC 3261 section
// 8.2.6 and assigning a To-tag on every status except 100 Trying.
func NewResponseFromRequest(req *Request, statusCode int, reason string, body []byte) *Response {
	res := NewResponse(statusCode, reason)
	res.SipVersion = req.SipVersion
	CopyHeaders("Record-Route", req, res)
	CopyHeaders("Via", req, res)
	if h := req.From(); h != nil {
		res.AppendHeader(h.headerClone())
	}
	if h := req.To(); h != nil {
		res.AppendHeader(h.headerClone())
	}
	if h := req.CallID(); h != nil {
		res.AppendHeader(h.headerClone())
	}
	if h := req.CSeq(); h != nil {
		res.AppendHeader(h.headerClone())
	}

	if h := res.Via(); h != nil {
		// https://datatracker.ietf.org/doc/html/rfc3581#section-4
		if val, exists := h.Params.Get("rport"); exists && val == "" {
			host, port, _ := net.SplitHostPort(req.Source())
			h.Params.Add("rport", port)
			h.Params.Add("received", host)
		}
	}

	switch statusCode {
	case StatusTrying:
		CopyHeaders("Timestamp", req, res)
	default:
		if h := res.To(); h != nil {
			if !h.Params.Has("tag") {
				if h.Params == nil {
					h.Params = NewParams()
				}
				h.Params.Add("tag", uuid.NewString())
			}
		}
	}

	res.SetBody(body)
	res.SetTransport(req.Transport())

	// Prefer the Via-resolved remote address over the raw connection
	// source, matching where the reply must actually be sent.
	if req.raddr.IP != nil {
		res.SetDestination(req.raddr.String())
	} else {
		res.SetDestination(req.Source())
	}

	return res
}

func (r *Response) remoteAddress() Addr {
	host, port, _ := ParseAddr(r.dest)
	return Addr{
		IP:       net.ParseIP(host),
		Port:     port,
		Hostname: r.dest,
	}
}

// NewSDPResponseFromRequest builds a 200 OK carrying an SDP answer body,
// the reply sent once an offer has been turned into a negotiated session
// description for an INVITE.
func NewSDPResponseFromRequest(req *Request, body []byte) *Response {
	res := NewResponseFromRequest(req, StatusOK, "OK", body)
	res.AppendHeader(NewHeader("Content-Type", "application/sdp"))
	res.SetBody(body)
	return res
}

// NewLocationErrorResponse builds a 424 Bad Location Information response
// carrying a Geolocation-Error header, the rejection an intermediary sends
// when it cannot resolve or trust the location a request offered.
func NewLocationErrorResponse(req *Request, code int, text string) *Response {
	res := NewResponseFromRequest(req, StatusBadLocationInformation, "Bad Location Information", nil)
	res.AppendHeader(&GeolocationErrorHeader{Code: code, Text: text})
	return res
}

func cloneResponse(res *Response) *Response {
	newRes := NewResponse(res.StatusCode, res.Reason)
	newRes.SipVersion = res.SipVersion

	for _, h := range res.CloneHeaders() {
		newRes.AppendHeader(h)
	}

	newRes.SetBody(res.Body())
	newRes.SetTransport(res.Transport())
	newRes.SetSource(res.Source())
	newRes.SetDestination(res.Destination())

	return newRes
}

func CopyResponse(res *Response) *Response {
	return cloneResponse(res)
}
