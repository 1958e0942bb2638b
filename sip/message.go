package sip

import (
	"io"

	"github.com/google/uuid"
)

type MessageHandler func(msg Message)

type RequestMethod string

func (r RequestMethod) String() string { return string(r) }

// StatusCode - response status code: 1xx - 6xx
type StatusCode int

// method names are defined here as constants for convenience.
const (
	INVITE    RequestMethod = "INVITE"
	ACK       RequestMethod = "ACK"
	CANCEL    RequestMethod = "CANCEL"
	BYE       RequestMethod = "BYE"
	REGISTER  RequestMethod = "REGISTER"
	OPTIONS   RequestMethod = "OPTIONS"
	SUBSCRIBE RequestMethod = "SUBSCRIBE"
	NOTIFY    RequestMethod = "NOTIFY"
	REFER     RequestMethod = "REFER"
	INFO      RequestMethod = "INFO"
	MESSAGE   RequestMethod = "MESSAGE"
	PRACK     RequestMethod = "PRACK"
	UPDATE    RequestMethod = "UPDATE"
	PUBLISH   RequestMethod = "PUBLISH"
)

type MessageID string

func NextMessageID() MessageID {
	return MessageID(uuid.New().String())
}

type Message interface {
	// Start line returns message start line.
	StartLine() string
	// Start line returns message start line.
	StartLineWrite(io.StringWriter)
	// 	// String returns string representation of SIP message in RFC 3261 form.
	String() string
	// String write is same as String but lets you to provide writter and reduce allocations
	StringWrite(io.StringWriter)
	// Short returns short string info about message.
	Short() string
	// SipVersion returns SIP protocol version.

	// Headers returns all message headers.
	Headers() []Header
	// GetHeaders returns slice of headers of the given type.
	GetHeaders(name string) []Header
	// GetHeader returns first header with same name
	GetHeader(name string) Header
	// PrependHeader prepends header to message.
	PrependHeader(header ...Header)
	// AppendHeader appends header to message.
	AppendHeader(header Header)
	// AppendHeaderAfter appends header to message.
	AppendHeaderAfter(header Header, name string)
	// RemoveHeader removes header from message.
	RemoveHeader(name string)
	ReplaceHeader(header Header)
	/* Helper getters for common headers. All return nil if absent. */
	// CallID returns 'Call-ID' header.
	CallID() *CallIDHeader
	// Via returns the top 'Via' header field.
	Via() *ViaHeader
	// From returns 'From' header field.
	From() *FromHeader
	// To returns 'To' header field.
	To() *ToHeader
	// CSeq returns 'CSeq' header field.
	CSeq() *CSeqHeader
	// ContentLength returns 'Content-Length' header field.
	ContentLength() *ContentLengthHeader
	// ContentType returns 'Content-Type' header field.
	ContentType() *ContentTypeHeader
	// Route returns 'Route' header field.
	Route() *RouteHeader
	// RecordRoute returns 'Record-Route' header field.
	RecordRoute() *RecordRouteHeader
	// MaxForwards returns 'Max-Forwards' header field.
	MaxForwards() *MaxForwardsHeader
	// Authorization returns 'Authorization' header field.
	Authorization() *AuthorizationHeader
	// WWWAuthenticate returns 'WWW-Authenticate' header field.
	WWWAuthenticate() *WWWAuthenticateHeader
	// Require returns 'Require' header field.
	Require() *RequireHeader
	// ProxyRequire returns 'Proxy-Require' header field.
	ProxyRequire() *ProxyRequireHeader
	// Geolocation returns 'Geolocation' header field.
	Geolocation() *GeolocationHeader
	// GeolocationRouting returns 'Geolocation-Routing' header field.
	GeolocationRouting() *GeolocationRoutingHeader
	// GeolocationError returns 'Geolocation-Error' header field.
	GeolocationError() *GeolocationErrorHeader
	// CallInfo returns 'Call-Info' header field.
	CallInfo() *CallInfoHeader

	// Body returns message body.
	Body() []byte
	// SetBody sets message body.
	SetBody(body []byte)
	// Parts returns the decoded parts of a multipart/* body, or a single
	// part holding the whole body when Content-Type is not multipart.
	Parts() ([]BodyPart, error)

	Transport() string
	SetTransport(tp string)
	Source() string
	SetSource(src string)
	Destination() string
	SetDestination(dest string)
}

type MessageData struct {
	// message headers
	headers
	SipVersion string
	body       []byte
	tp         string

	// This is for internal routing
	src  string
	dest string
}

func (msg *MessageData) Body() []byte {
	return msg.body
}

// SetBody sets message body, calculates it length and add 'Content-Length' header.
func (msg *MessageData) SetBody(body []byte) {
	var length ContentLengthHeader
	msg.body = body
	if body == nil {
		length = ContentLengthHeader(0)
	} else {
		length = ContentLengthHeader(len(body))
	}

	if hdr := msg.ContentLength(); hdr != nil {
		if length == *hdr {
			//Skip appending if value is same
			return
		}
		msg.ReplaceHeader(&length)
		return
	}

	msg.AppendHeader(&length)
}

func (msg *MessageData) Transport() string {
	return msg.tp
}

func (msg *MessageData) SetTransport(tp string) {
	msg.tp = tp
}

func (msg *MessageData) Source() string {
	return msg.src
}

func (msg *MessageData) SetSource(src string) {
	msg.src = src
}

func (msg *MessageData) Destination() string {
	return msg.dest
}

func (msg *MessageData) SetDestination(dest string) {
	msg.dest = dest
}

// BodyPart is one section of a multipart/* SIP body.
type BodyPart struct {
	Headers HeaderParams
	Content []byte
}

// Parts splits the message body on the Content-Type boundary parameter. A
// non-multipart Content-Type yields a single part with no headers.
func (msg *MessageData) Parts() ([]BodyPart, error) {
	ct := msg.ContentType()
	if ct == nil {
		return []BodyPart{{Content: msg.body}}, nil
	}
	boundary, isMultipart := ct.IsMultipart()
	if !isMultipart {
		return []BodyPart{{Content: msg.body}}, nil
	}
	return splitMultipart(msg.body, boundary)
}
