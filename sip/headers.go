package sip

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is a single SIP header.
type Header interface {
	// Name returns header name.
	Name() string
	Value() string
	String() string
	// StringWrite is a lower-allocation alternative to String.
	StringWrite(w io.StringWriter)

	headerClone() Header
}

type CopyHeader interface {
	headerClone() Header
}

func HeaderClone(h Header) Header {
	return h.headerClone()
}

type headers struct {
	headerOrder []Header

	via             *ViaHeader
	from            *FromHeader
	to              *ToHeader
	callID          *CallIDHeader
	contact         *ContactHeader
	cseq            *CSeqHeader
	contentLength   *ContentLengthHeader
	contentType     *ContentTypeHeader
	maxForwards     *MaxForwardsHeader
	route           *RouteHeader
	recordRoute     *RecordRouteHeader
	authorization   *AuthorizationHeader
	wwwAuthenticate *WWWAuthenticateHeader
	require         *RequireHeader
	proxyRequire    *ProxyRequireHeader
	geolocation     *GeolocationHeader
	geoRouting      *GeolocationRoutingHeader
	geoError        *GeolocationErrorHeader
	callInfo        *CallInfoHeader
}

func (hs *headers) String() string {
	buffer := strings.Builder{}
	hs.StringWrite(&buffer)
	return buffer.String()
}

func (hs *headers) StringWrite(buffer io.StringWriter) {
	for typeIdx, header := range hs.headerOrder {
		if typeIdx > 0 {
			buffer.WriteString("\r\n")
		}
		header.StringWrite(buffer)
	}
	buffer.WriteString("\r\n")
}

// AppendHeader adds the given header, wiring up the typed accessor for any
// header kind the message model tracks eagerly.
func (hs *headers) AppendHeader(header Header) {
	hs.headerOrder = append(hs.headerOrder, header)
	switch m := header.(type) {
	case *ViaHeader:
		if hs.via == nil {
			hs.via = m
		}
	case *FromHeader:
		hs.from = m
	case *ToHeader:
		hs.to = m
	case *CallIDHeader:
		hs.callID = m
	case *CSeqHeader:
		hs.cseq = m
	case *ContactHeader:
		if hs.contact == nil {
			hs.contact = m
		}
	case *ContentLengthHeader:
		hs.contentLength = m
	case *ContentTypeHeader:
		hs.contentType = m
	case *MaxForwardsHeader:
		hs.maxForwards = m
	case *RouteHeader:
		if hs.route == nil {
			hs.route = m
		}
	case *RecordRouteHeader:
		if hs.recordRoute == nil {
			hs.recordRoute = m
		}
	case *AuthorizationHeader:
		hs.authorization = m
	case *WWWAuthenticateHeader:
		hs.wwwAuthenticate = m
	case *RequireHeader:
		hs.require = m
	case *ProxyRequireHeader:
		hs.proxyRequire = m
	case *GeolocationHeader:
		if hs.geolocation == nil {
			hs.geolocation = m
		}
	case *GeolocationRoutingHeader:
		hs.geoRouting = m
	case *GeolocationErrorHeader:
		hs.geoError = m
	case *CallInfoHeader:
		if hs.callInfo == nil {
			hs.callInfo = m
		}
	}
}

func (hs *headers) AppendHeaderAfter(header Header, name string) {
	ind := -1
	for i, h := range hs.headerOrder {
		if HeaderToLower(h.Name()) == HeaderToLower(name) {
			ind = i
		}
	}

	if ind < 0 {
		hs.AppendHeader(header)
		return
	}

	newOrder := make([]Header, 0, len(hs.headerOrder)+1)
	newOrder = append(newOrder, hs.headerOrder[:ind+1]...)
	newOrder = append(newOrder, header)
	newOrder = append(newOrder, hs.headerOrder[ind+1:]...)
	hs.headerOrder = newOrder
	hs.AppendHeader(header)
	hs.headerOrder = newOrder
}

// PrependHeader adds headers to the front of the header list.
func (hs *headers) PrependHeader(headers ...Header) {
	offset := len(headers)
	newOrder := make([]Header, len(hs.headerOrder)+offset)
	copy(newOrder, headers)
	copy(newOrder[offset:], hs.headerOrder)
	hs.headerOrder = newOrder
	for _, h := range headers {
		hs.AppendHeader(h)
	}
	hs.headerOrder = newOrder
}

func (hs *headers) ReplaceHeader(header Header) {
	name := HeaderToLower(header.Name())
	for i, h := range hs.headerOrder {
		if HeaderToLower(h.Name()) == name {
			hs.headerOrder[i] = header
			hs.AppendHeader(header)
			return
		}
	}
	hs.AppendHeader(header)
}

// Headers returns all message headers in wire order.
func (hs *headers) Headers() []Header {
	return hs.headerOrder
}

func (hs *headers) GetHeaders(name string) []Header {
	var hds []Header
	nameLower := HeaderToLower(name)
	for _, h := range hs.headerOrder {
		if HeaderToLower(h.Name()) == nameLower {
			hds = append(hds, h)
		}
	}
	return hds
}

// GetHeader returns the first header matching name, or nil.
func (hs *headers) GetHeader(name string) Header {
	return hs.getHeader(HeaderToLower(name))
}

func (hs *headers) getHeader(nameLower string) Header {
	for _, h := range hs.headerOrder {
		if HeaderToLower(h.Name()) == nameLower {
			return h
		}
	}
	return nil
}

func (hs *headers) RemoveHeader(name string) {
	nameLower := HeaderToLower(name)
	for idx, entry := range hs.headerOrder {
		if HeaderToLower(entry.Name()) == nameLower {
			hs.headerOrder = append(hs.headerOrder[:idx], hs.headerOrder[idx+1:]...)
			break
		}
	}
}

// CloneHeaders returns all headers cloned into a new slice.
func (hs *headers) CloneHeaders() []Header {
	hdrs := make([]Header, 0, len(hs.headerOrder))
	for _, h := range hs.headerOrder {
		hdrs = append(hdrs, h.headerClone())
	}
	return hdrs
}

func (hs *headers) CallID() *CallIDHeader               { return hs.callID }
func (hs *headers) Via() *ViaHeader                     { return hs.via }
func (hs *headers) From() *FromHeader                   { return hs.from }
func (hs *headers) To() *ToHeader                       { return hs.to }
func (hs *headers) CSeq() *CSeqHeader                   { return hs.cseq }
func (hs *headers) Contact() *ContactHeader             { return hs.contact }
func (hs *headers) MaxForwards() *MaxForwardsHeader     { return hs.maxForwards }
func (hs *headers) Route() *RouteHeader                 { return hs.route }
func (hs *headers) RecordRoute() *RecordRouteHeader     { return hs.recordRoute }
func (hs *headers) ContentLength() *ContentLengthHeader { return hs.contentLength }
func (hs *headers) ContentType() *ContentTypeHeader     { return hs.contentType }
func (hs *headers) Authorization() *AuthorizationHeader { return hs.authorization }
func (hs *headers) WWWAuthenticate() *WWWAuthenticateHeader {
	return hs.wwwAuthenticate
}
func (hs *headers) Require() *RequireHeader           { return hs.require }
func (hs *headers) ProxyRequire() *ProxyRequireHeader { return hs.proxyRequire }
func (hs *headers) Geolocation() *GeolocationHeader   { return hs.geolocation }
func (hs *headers) GeolocationRouting() *GeolocationRoutingHeader {
	return hs.geoRouting
}
func (hs *headers) GeolocationError() *GeolocationErrorHeader { return hs.geoError }
func (hs *headers) CallInfo() *CallInfoHeader                 { return hs.callInfo }

// GenericHeader carries any header the parser has no typed model for.
type GenericHeader struct {
	HeaderName string
	Contents   string
}

func NewHeader(name, contents string) *GenericHeader {
	return &GenericHeader{HeaderName: name, Contents: contents}
}

func (h *GenericHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *GenericHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	buffer.WriteString(h.Value())
}

func (h *GenericHeader) Name() string  { return h.HeaderName }
func (h *GenericHeader) Value() string { return h.Contents }

func (h *GenericHeader) headerClone() Header {
	if h == nil {
		return (*GenericHeader)(nil)
	}
	return &GenericHeader{HeaderName: h.HeaderName, Contents: h.Contents}
}

// ToHeader is the SIP 'To' header.
type ToHeader struct {
	DisplayName string
	Address     Uri
	Params      HeaderParams
}

func (h *ToHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *ToHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}

func (h *ToHeader) Name() string { return "To" }

func (h *ToHeader) Value() string {
	var buffer strings.Builder
	h.ValueStringWrite(&buffer)
	return buffer.String()
}

func (h *ToHeader) ValueStringWrite(buffer io.StringWriter) {
	if h.DisplayName != "" {
		buffer.WriteString("\"")
		buffer.WriteString(h.DisplayName)
		buffer.WriteString("\" ")
	}
	buffer.WriteString("<")
	h.Address.StringWrite(buffer)
	buffer.WriteString(">")
	if h.Params != nil && h.Params.Length() > 0 {
		buffer.WriteString(";")
		h.Params.ToStringWrite(';', buffer)
	}
}

func (h *ToHeader) headerClone() Header {
	if h == nil {
		return (*ToHeader)(nil)
	}
	newTo := &ToHeader{DisplayName: h.DisplayName, Address: *h.Address.Clone()}
	if h.Params != nil {
		newTo.Params = h.Params.Clone()
	}
	return newTo
}

// FromHeader is the SIP 'From' header.
type FromHeader struct {
	DisplayName string
	Address     Uri
	Params      HeaderParams
}

func (h *FromHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *FromHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}

func (h *FromHeader) Name() string { return "From" }

func (h *FromHeader) Value() string {
	var buffer strings.Builder
	h.ValueStringWrite(&buffer)
	return buffer.String()
}

func (h *FromHeader) ValueStringWrite(buffer io.StringWriter) {
	if h.DisplayName != "" {
		buffer.WriteString("\"")
		buffer.WriteString(h.DisplayName)
		buffer.WriteString("\" ")
	}
	buffer.WriteString("<")
	h.Address.StringWrite(buffer)
	buffer.WriteString(">")
	if h.Params != nil && h.Params.Length() > 0 {
		buffer.WriteString(";")
		h.Params.ToStringWrite(';', buffer)
	}
}

func (h *FromHeader) headerClone() Header {
	if h == nil {
		return (*FromHeader)(nil)
	}
	newFrom := &FromHeader{DisplayName: h.DisplayName, Address: *h.Address.Clone()}
	if h.Params != nil {
		newFrom.Params = h.Params.Clone()
	}
	return newFrom
}

// ContactHeader is a linked list of 'Contact' header values.
type ContactHeader struct {
	DisplayName string
	Address     Uri
	Params      HeaderParams
	Next        *ContactHeader
}

func (h *ContactHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *ContactHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}

func (h *ContactHeader) Name() string { return "Contact" }

func (h *ContactHeader) Value() string {
	var buffer strings.Builder
	h.ValueStringWrite(&buffer)
	return buffer.String()
}

func (h *ContactHeader) ValueStringWrite(buffer io.StringWriter) {
	for hop := h; hop != nil; hop = hop.Next {
		hop.valueWrite(buffer)
		if hop.Next != nil {
			buffer.WriteString(", ")
		}
	}
}

func (h *ContactHeader) valueWrite(buffer io.StringWriter) {
	if h.Address.Wildcard {
		buffer.WriteString("*")
		return
	}
	if h.DisplayName != "" {
		buffer.WriteString("\"")
		buffer.WriteString(h.DisplayName)
		buffer.WriteString("\" ")
	}
	buffer.WriteString("<")
	h.Address.StringWrite(buffer)
	buffer.WriteString(">")
	if h.Params != nil && h.Params.Length() > 0 {
		buffer.WriteString(";")
		h.Params.ToStringWrite(';', buffer)
	}
}

func (h *ContactHeader) headerClone() Header { return h.Clone() }

func (h *ContactHeader) Clone() *ContactHeader {
	if h == nil {
		return nil
	}
	newCnt := h.cloneFirst()
	newNext := newCnt
	for hop := h.Next; hop != nil; hop = hop.Next {
		newNext.Next = hop.cloneFirst()
		newNext = newNext.Next
	}
	return newCnt
}

func (h *ContactHeader) cloneFirst() *ContactHeader {
	if h == nil {
		return nil
	}
	newCnt := &ContactHeader{DisplayName: h.DisplayName, Address: *h.Address.Clone()}
	if h.Params != nil {
		newCnt.Params = h.Params.Clone()
	}
	return newCnt
}

// CallIDHeader is the 'Call-ID' header.
type CallIDHeader string

func (h *CallIDHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *CallIDHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	buffer.WriteString(h.Value())
}

func (h *CallIDHeader) Name() string      { return "Call-ID" }
func (h *CallIDHeader) Value() string     { return string(*h) }
func (h *CallIDHeader) headerClone() Header {
	n := *h
	return &n
}

// CSeqHeader is the 'CSeq' header.
type CSeqHeader struct {
	SeqNo      uint32
	MethodName RequestMethod
}

func (h *CSeqHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *CSeqHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}

func (h *CSeqHeader) Name() string { return "CSeq" }

func (h *CSeqHeader) Value() string {
	return fmt.Sprintf("%d %s", h.SeqNo, h.MethodName)
}

func (h *CSeqHeader) ValueStringWrite(buffer io.StringWriter) {
	buffer.WriteString(strconv.Itoa(int(h.SeqNo)))
	buffer.WriteString(" ")
	buffer.WriteString(string(h.MethodName))
}

func (h *CSeqHeader) headerClone() Header {
	if h == nil {
		return (*CSeqHeader)(nil)
	}
	return &CSeqHeader{SeqNo: h.SeqNo, MethodName: h.MethodName}
}

// MaxForwardsHeader is the 'Max-Forwards' header.
type MaxForwardsHeader uint32

func (h *MaxForwardsHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *MaxForwardsHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	buffer.WriteString(h.Value())
}

func (h *MaxForwardsHeader) Name() string  { return "Max-Forwards" }
func (h *MaxForwardsHeader) Value() string { return strconv.Itoa(int(*h)) }
func (h *MaxForwardsHeader) headerClone() Header {
	n := *h
	return &n
}

// ExpiresHeader is the 'Expires' header.
type ExpiresHeader uint32

func (h *ExpiresHeader) String() string { return fmt.Sprintf("%s: %s", h.Name(), h.Value()) }
func (h *ExpiresHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	buffer.WriteString(h.Value())
}
func (h *ExpiresHeader) Name() string  { return "Expires" }
func (h ExpiresHeader) Value() string  { return strconv.Itoa(int(h)) }
func (h *ExpiresHeader) headerClone() Header {
	n := *h
	return &n
}

// ContentLengthHeader is the 'Content-Length' header.
type ContentLengthHeader uint32

func (h ContentLengthHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h ContentLengthHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	buffer.WriteString(h.Value())
}

func (h *ContentLengthHeader) Name() string { return "Content-Length" }
func (h ContentLengthHeader) Value() string { return strconv.Itoa(int(h)) }
func (h *ContentLengthHeader) headerClone() Header {
	n := *h
	return &n
}

// ContentTypeHeader is the 'Content-Type' header.
type ContentTypeHeader string

func (h *ContentTypeHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *ContentTypeHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	buffer.WriteString(h.Value())
}

func (h *ContentTypeHeader) Name() string  { return "Content-Type" }
func (h ContentTypeHeader) Value() string  { return string(h) }
func (h *ContentTypeHeader) headerClone() Header {
	n := *h
	return &n
}

// IsMultipart reports whether the Content-Type names a multipart/* media type
// and, if so, the boundary parameter value.
func (h ContentTypeHeader) IsMultipart() (boundary string, ok bool) {
	mediaType, params := splitMediaType(string(h))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", false
	}
	b, ok := params["boundary"]
	return b, ok
}

func splitMediaType(contentType string) (string, map[string]string) {
	parts := strings.Split(contentType, ";")
	mediaType := strings.ToLower(strings.TrimSpace(parts[0]))
	params := make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(p), "=", 2)
		if len(kv) != 2 {
			continue
		}
		params[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.Trim(strings.TrimSpace(kv[1]), "\"")
	}
	return mediaType, params
}

// ViaHeader is a linked list of 'Via' header hops.
type ViaHeader struct {
	ProtocolName    string
	ProtocolVersion string
	Transport       string
	Host            string
	Port            int
	Params          HeaderParams
	Next            *ViaHeader
}

func (hop *ViaHeader) SentBy() string {
	var buf bytes.Buffer
	buf.WriteString(hop.Host)
	if hop.Port > 0 {
		fmt.Fprintf(&buf, ":%d", hop.Port)
	}
	return buf.String()
}

func (h *ViaHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *ViaHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}

func (h *ViaHeader) Name() string { return "Via" }

func (h *ViaHeader) Value() string {
	var buffer bytes.Buffer
	h.ValueStringWrite(&buffer)
	return buffer.String()
}

func (h *ViaHeader) ValueStringWrite(buffer io.StringWriter) {
	for hop := h; hop != nil; hop = hop.Next {
		buffer.WriteString(hop.ProtocolName)
		buffer.WriteString("/")
		buffer.WriteString(hop.ProtocolVersion)
		buffer.WriteString("/")
		buffer.WriteString(hop.Transport)
		buffer.WriteString(" ")
		buffer.WriteString(hop.Host)
		if hop.Port > 0 {
			buffer.WriteString(":")
			buffer.WriteString(strconv.Itoa(hop.Port))
		}
		if hop.Params != nil && hop.Params.Length() > 0 {
			buffer.WriteString(";")
			hop.Params.ToStringWrite(';', buffer)
		}
		if hop.Next != nil {
			buffer.WriteString(", ")
		}
	}
}

func (h *ViaHeader) headerClone() Header { return h.Clone() }

func (h *ViaHeader) Clone() *ViaHeader {
	if h == nil {
		return nil
	}
	newHop := h.cloneFirst()
	newNext := newHop
	for next := h.Next; next != nil; next = next.Next {
		newNext.Next = next.cloneFirst()
		newNext = newNext.Next
	}
	return newHop
}

func (h *ViaHeader) cloneFirst() *ViaHeader {
	if h == nil {
		return nil
	}
	newHop := &ViaHeader{
		ProtocolName:    h.ProtocolName,
		ProtocolVersion: h.ProtocolVersion,
		Transport:       h.Transport,
		Host:            h.Host,
		Port:            h.Port,
	}
	if h.Params != nil {
		newHop.Params = h.Params.clone()
	}
	return newHop
}

// Branch returns the via branch parameter, if any.
func (h *ViaHeader) Branch() (string, bool) {
	if h.Params == nil {
		return "", false
	}
	return h.Params.Get("branch")
}

// RouteHeader is a linked list of 'Route' header hops.
type RouteHeader struct {
	Address Uri
	Next    *RouteHeader
}

func (h *RouteHeader) Name() string { return "Route" }

func (h *RouteHeader) Value() string {
	var buffer bytes.Buffer
	h.ValueStringWrite(&buffer)
	return buffer.String()
}

func (h *RouteHeader) ValueStringWrite(buffer io.StringWriter) {
	for hop := h; hop != nil; hop = hop.Next {
		buffer.WriteString("<")
		hop.Address.StringWrite(buffer)
		buffer.WriteString(">")
		if hop.Next != nil {
			buffer.WriteString(", ")
		}
	}
}

func (h *RouteHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *RouteHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}

func (h *RouteHeader) headerClone() Header { return h.Clone() }

func (h *RouteHeader) Clone() *RouteHeader {
	if h == nil {
		return nil
	}
	newRoute := h.cloneFirst()
	newNext := newRoute
	for hop := h.Next; hop != nil; hop = hop.Next {
		newNext.Next = hop.cloneFirst()
		newNext = newNext.Next
	}
	return newRoute
}

func (h *RouteHeader) cloneFirst() *RouteHeader {
	if h == nil {
		return nil
	}
	return &RouteHeader{Address: h.Address}
}

// RecordRouteHeader is a linked list of 'Record-Route' header hops.
type RecordRouteHeader struct {
	Address Uri
	Next    *RecordRouteHeader
}

func (h *RecordRouteHeader) Name() string { return "Record-Route" }

func (h *RecordRouteHeader) Value() string {
	var buffer bytes.Buffer
	h.ValueStringWrite(&buffer)
	return buffer.String()
}

func (h *RecordRouteHeader) ValueStringWrite(buffer io.StringWriter) {
	for hop := h; hop != nil; hop = hop.Next {
		buffer.WriteString("<")
		hop.Address.StringWrite(buffer)
		buffer.WriteString(">")
		if hop.Next != nil {
			buffer.WriteString(", ")
		}
	}
}

func (h *RecordRouteHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

func (h *RecordRouteHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}

func (h *RecordRouteHeader) headerClone() Header { return h.Clone() }

func (h *RecordRouteHeader) Clone() *RecordRouteHeader {
	if h == nil {
		return nil
	}
	newRoute := h.cloneFirst()
	newNext := newRoute
	for hop := h.Next; hop != nil; hop = hop.Next {
		newNext.Next = hop.cloneFirst()
		newNext = newNext.Next
	}
	return newRoute
}

func (h *RecordRouteHeader) cloneFirst() *RecordRouteHeader {
	if h == nil {
		return nil
	}
	return &RecordRouteHeader{Address: h.Address}
}

// AuthorizationHeader is the 'Authorization' header, stored opaque since
// this core does not implement SIP digest challenge/response logic itself.
type AuthorizationHeader struct {
	Scheme string
	Params HeaderParams
}

func (h *AuthorizationHeader) Name() string { return "Authorization" }
func (h *AuthorizationHeader) Value() string {
	var b strings.Builder
	h.valueWrite(&b)
	return b.String()
}
func (h *AuthorizationHeader) valueWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Scheme)
	if h.Params != nil && h.Params.Length() > 0 {
		buffer.WriteString(" ")
		h.Params.ToStringWrite(',', buffer)
	}
}
func (h *AuthorizationHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *AuthorizationHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.valueWrite(buffer)
}
func (h *AuthorizationHeader) headerClone() Header {
	if h == nil {
		return (*AuthorizationHeader)(nil)
	}
	return &AuthorizationHeader{Scheme: h.Scheme, Params: h.Params.Clone()}
}

// WWWAuthenticateHeader is the 'WWW-Authenticate' header.
type WWWAuthenticateHeader struct {
	Scheme string
	Params HeaderParams
}

func (h *WWWAuthenticateHeader) Name() string { return "WWW-Authenticate" }
func (h *WWWAuthenticateHeader) Value() string {
	var b strings.Builder
	h.valueWrite(&b)
	return b.String()
}
func (h *WWWAuthenticateHeader) valueWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Scheme)
	if h.Params != nil && h.Params.Length() > 0 {
		buffer.WriteString(" ")
		h.Params.ToStringWrite(',', buffer)
	}
}
func (h *WWWAuthenticateHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *WWWAuthenticateHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.valueWrite(buffer)
}
func (h *WWWAuthenticateHeader) headerClone() Header {
	if h == nil {
		return (*WWWAuthenticateHeader)(nil)
	}
	return &WWWAuthenticateHeader{Scheme: h.Scheme, Params: h.Params.Clone()}
}

// RequireHeader is the comma-separated 'Require' header.
type RequireHeader struct {
	Options []string
}

func (h *RequireHeader) Name() string  { return "Require" }
func (h *RequireHeader) Value() string { return strings.Join(h.Options, ", ") }
func (h *RequireHeader) String() string {
	return h.Name() + ": " + h.Value()
}
func (h *RequireHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.String())
}
func (h *RequireHeader) headerClone() Header {
	if h == nil {
		return (*RequireHeader)(nil)
	}
	return &RequireHeader{Options: append([]string(nil), h.Options...)}
}

// ProxyRequireHeader is the comma-separated 'Proxy-Require' header.
type ProxyRequireHeader struct {
	Options []string
}

func (h *ProxyRequireHeader) Name() string  { return "Proxy-Require" }
func (h *ProxyRequireHeader) Value() string { return strings.Join(h.Options, ", ") }
func (h *ProxyRequireHeader) String() string {
	return h.Name() + ": " + h.Value()
}
func (h *ProxyRequireHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.String())
}
func (h *ProxyRequireHeader) headerClone() Header {
	if h == nil {
		return (*ProxyRequireHeader)(nil)
	}
	return &ProxyRequireHeader{Options: append([]string(nil), h.Options...)}
}

// GeolocationHeader is a linked list of 'Geolocation' header URIs (RFC 6442).
type GeolocationHeader struct {
	Address Uri
	Next    *GeolocationHeader
}

func (h *GeolocationHeader) Name() string { return "Geolocation" }
func (h *GeolocationHeader) Value() string {
	var buffer bytes.Buffer
	h.ValueStringWrite(&buffer)
	return buffer.String()
}
func (h *GeolocationHeader) ValueStringWrite(buffer io.StringWriter) {
	for hop := h; hop != nil; hop = hop.Next {
		buffer.WriteString("<")
		hop.Address.StringWrite(buffer)
		buffer.WriteString(">")
		if hop.Next != nil {
			buffer.WriteString(", ")
		}
	}
}
func (h *GeolocationHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *GeolocationHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}
func (h *GeolocationHeader) headerClone() Header {
	if h == nil {
		return (*GeolocationHeader)(nil)
	}
	newHead := &GeolocationHeader{Address: h.Address}
	tail := newHead
	for hop := h.Next; hop != nil; hop = hop.Next {
		tail.Next = &GeolocationHeader{Address: hop.Address}
		tail = tail.Next
	}
	return newHead
}

// GeolocationRoutingHeader is the 'Geolocation-Routing' header (yes/no).
type GeolocationRoutingHeader bool

func (h *GeolocationRoutingHeader) Name() string { return "Geolocation-Routing" }
func (h GeolocationRoutingHeader) Value() string {
	if h {
		return "yes"
	}
	return "no"
}
func (h GeolocationRoutingHeader) String() string {
	return "Geolocation-Routing: " + h.Value()
}
func (h *GeolocationRoutingHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.String())
}
func (h *GeolocationRoutingHeader) headerClone() Header {
	n := *h
	return &n
}

// GeolocationErrorHeader is the 'Geolocation-Error' header (RFC 6442 code + optional text).
type GeolocationErrorHeader struct {
	Code int
	Text string
}

func (h *GeolocationErrorHeader) Name() string { return "Geolocation-Error" }
func (h *GeolocationErrorHeader) Value() string {
	if h.Text == "" {
		return strconv.Itoa(h.Code)
	}
	return fmt.Sprintf("%d \"%s\"", h.Code, h.Text)
}
func (h *GeolocationErrorHeader) String() string { return h.Name() + ": " + h.Value() }
func (h *GeolocationErrorHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.String())
}
func (h *GeolocationErrorHeader) headerClone() Header {
	if h == nil {
		return (*GeolocationErrorHeader)(nil)
	}
	n := *h
	return &n
}

// CallInfoHeader is a linked list of 'Call-Info' header entries, each an
// opaque URI plus its params (notably 'purpose').
type CallInfoHeader struct {
	Value_ string // raw text of one entry up to its first ';' (normally "<uri>"); the params are in Params
	Params HeaderParams
	Next   *CallInfoHeader
}

func (h *CallInfoHeader) Name() string { return "Call-Info" }
func (h *CallInfoHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *CallInfoHeader) ValueStringWrite(buffer io.StringWriter) {
	for hop := h; hop != nil; hop = hop.Next {
		buffer.WriteString(hop.Value_)
		if hop.Params != nil && hop.Params.Length() > 0 {
			buffer.WriteString(";")
			hop.Params.ToStringWrite(';', buffer)
		}
		if hop.Next != nil {
			buffer.WriteString(", ")
		}
	}
}
func (h *CallInfoHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *CallInfoHeader) StringWrite(buffer io.StringWriter) {
	buffer.WriteString(h.Name())
	buffer.WriteString(": ")
	h.ValueStringWrite(buffer)
}

// Purpose returns the 'purpose' parameter of this Call-Info entry, if any.
func (h *CallInfoHeader) Purpose() (string, bool) {
	if h.Params == nil {
		return "", false
	}
	return h.Params.Get("purpose")
}

func (h *CallInfoHeader) headerClone() Header {
	if h == nil {
		return (*CallInfoHeader)(nil)
	}
	newHead := &CallInfoHeader{Value_: h.Value_, Params: h.Params.Clone()}
	tail := newHead
	for hop := h.Next; hop != nil; hop = hop.Next {
		tail.Next = &CallInfoHeader{Value_: hop.Value_, Params: hop.Params.Clone()}
		tail = tail.Next
	}
	return newHead
}

// CopyHeaders copies all headers of one type from one message to another,
// appending to any headers that were already there.
func CopyHeaders(name string, from, to Message) {
	name = HeaderToLower(name)
	for _, h := range from.GetHeaders(name) {
		to.AppendHeader(h.headerClone())
	}
}
