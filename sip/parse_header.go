package sip

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Here we have collection of headers parsing.
// Some of headers parsing are moved to different files for better maintance

// A HeaderParser is any function that turns raw header data into one or more Header objects.
type HeaderParser func(headerName []byte, headerData string) (Header, error)

type HeadersParser map[string]HeaderParser

type errComaDetected int

func (e errComaDetected) Error() string {
	return "comma detected"
}

// This needs to kept minimalistic in order to avoid overhead of parsing
// Headers compact form
// a	Accept-Contact	draft-ietf-sip-callerprefs	--
// b	Referred-By	-refer-	"by"
// c	Content-Type	RFC 3261
// e	Content-Encoding	RFC 3261
// f	From	RFC 3261
// i	Call-ID	RFC 3261
// k	Supported	RFC 3261	"know"
// l	Content-Length	RFC 3261
// m	Contact	RFC 3261	"moved"
// o	Event	-event-	"occurance"
// r	Refer-To	-refer-
// s	Subject	RFC 3261
// t	To	RFC 3261
// u	Allow-Events	-events-	"understand"
// v	Via	RFC 3261
var headersParsers = HeadersParser{
	"c":              headerParserContentType,
	"content-type":   headerParserContentType,
	"f":              headerParserFrom,
	"from":           headerParserFrom,
	"to":             headerParserTo,
	"t":              headerParserTo,
	"contact":        headerParserContact,
	"m":              headerParserContact,
	"i":              headerParserCallId,
	"call-id":        headerParserCallId,
	"cseq":           headerParserCSeq,
	"via":            headerParserVia,
	"v":              headerParserVia,
	"max-forwards":   headerParserMaxForwards,
	"content-length": headerParserContentLength,
	"l":              headerParserContentLength,
	"route":             headerParserRoute,
	"record-route":      headerParserRecordRoute,
	"authorization":     headerParserAuthorization,
	"www-authenticate":  headerParserWWWAuthenticate,
	"require":           headerParserRequire,
	"proxy-require":     headerParserProxyRequire,
	"geolocation":       headerParserGeolocation,
	"geolocation-routing": headerParserGeolocationRouting,
	"geolocation-error": headerParserGeolocationError,
	"call-info":         headerParserCallInfo,
}

// DefaultHeadersParser returns minimal version header parser.
// It can be extended or overwritten.
func DefaultHeadersParser() map[string]HeaderParser {
	return headersParsers
}

// ParseHeader parses a SIP header from the line and appends it to out.
func (headersParser HeadersParser) ParseHeader(out []Header, line []byte) ([]Header, error) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return out, fmt.Errorf("field name with no value in header: %q", line)
	}

	fieldName := bytes.TrimSpace(line[:colonIdx])
	lowerFieldName := headerToLower(fieldName)
	fieldValue := bytes.TrimSpace(line[colonIdx+1:])

	headerParser, ok := headersParser[string(lowerFieldName)]
	if !ok {
		// We have no registered parser for this header type,
		// so we encapsulate the header data in a GenericHeader struct.
		// We do only forwarding on this with trimmed space. Validation and parsing is required by user
		h := NewHeader(string(fieldName), string(fieldValue))
		out = append(out, h)
		return out, nil
	}

	fieldText := string(fieldValue)
	// Support comma separated values
	for {
		// We have a registered parser for this header type - use it.
		// headerParser should detect comma (,) and return as error
		h, err := headerParser(lowerFieldName, fieldText)
		if err == nil {
			out = append(out, h)
			return out, nil
		}

		commaErr, ok := err.(errComaDetected)
		if !ok {
			return out, err
		}
		// Ok we detected we have comma in header value
		out = append(out, h)
		fieldText = fieldText[commaErr+1:]
	}
}

func headerParserCallId(headerName []byte, headerText string) (header Header, err error) {
	var callId CallIDHeader
	return &callId, parseCallIdHeader(headerText, &callId)
}

// parseCallIdHeader parses Call-ID header
func parseCallIdHeader(headerText string, callId *CallIDHeader) error {
	headerText = strings.TrimSpace(headerText)
	if len(headerText) == 0 {
		return fmt.Errorf("empty Call-ID body")
	}

	*callId = CallIDHeader(headerText)
	return nil
}

func headerParserMaxForwards(headerName []byte, headerText string) (header Header, err error) {
	var maxfwd MaxForwardsHeader
	return &maxfwd, parseMaxForwardsHeader(headerText, &maxfwd)
}

// parseMaxForwardsHeader parses MaxForward header
func parseMaxForwardsHeader(headerText string, maxfwd *MaxForwardsHeader) error {
	val, err := strconv.ParseUint(headerText, 10, 32)
	*maxfwd = MaxForwardsHeader(val)
	return err
}

func headerParserCSeq(headerName []byte, headerText string) (headers Header, err error) {
	var cseq CSeqHeader
	return &cseq, parseCSeqHeader(headerText, &cseq)
}

// parseCSeqHeader parses CSeq header
func parseCSeqHeader(headerText string, cseq *CSeqHeader) error {
	ind := strings.IndexAny(headerText, abnf)
	if ind < 1 || len(headerText)-ind < 2 {
		return fmt.Errorf("CSeq field should have precisely one whitespace section: '%s'", headerText)
	}

	seqno, err := strconv.ParseUint(headerText[:ind], 10, 32)
	if err != nil {
		return err
	}

	if seqno > maxCseq {
		return fmt.Errorf("invalid CSeq %d: exceeds maximum permitted value "+"2**31 - 1", seqno)
	}

	cseq.SeqNo = uint32(seqno)
	cseq.MethodName = RequestMethod(headerText[ind+1:])
	return nil
}

func headerParserContentLength(headerName []byte, headerText string) (header Header, err error) {
	var contentLength ContentLengthHeader
	return &contentLength, parseContentLengthHeader(headerText, &contentLength)
}

// parseContentLengthHeader parses ContentLength header
func parseContentLengthHeader(headerText string, contentLength *ContentLengthHeader) error {
	value, err := strconv.ParseUint(strings.TrimSpace(headerText), 10, 32)
	*contentLength = ContentLengthHeader(value)
	return err
}

// headerParserContentType parses ContentType header
func headerParserContentType(headerName []byte, headerText string) (headers Header, err error) {
	var contentType ContentTypeHeader
	return &contentType, parseContentTypeHeader(headerText, &contentType)
}

func parseContentTypeHeader(headerText string, contentType *ContentTypeHeader) error {
	headerText = strings.TrimSpace(headerText)
	if len(headerText) == 0 {
		return fmt.Errorf("empty Content-Type body")
	}

	*contentType = ContentTypeHeader(headerText)
	return nil
}

func parseAuthScheme(headerText string) (scheme string, params HeaderParams, err error) {
	headerText = strings.TrimSpace(headerText)
	ind := strings.IndexAny(headerText, abnf)
	if ind < 0 {
		return "", nil, fmt.Errorf("malformed auth header: %q", headerText)
	}
	scheme = headerText[:ind]
	params = NewParams()
	if _, err = UnmarshalHeaderParams(strings.TrimSpace(headerText[ind+1:]), ',', '\r', &params); err != nil {
		return "", nil, err
	}
	return scheme, params, nil
}

func headerParserAuthorization(headerName []byte, headerText string) (header Header, err error) {
	scheme, params, err := parseAuthScheme(headerText)
	if err != nil {
		return nil, err
	}
	return &AuthorizationHeader{Scheme: scheme, Params: params}, nil
}

func headerParserWWWAuthenticate(headerName []byte, headerText string) (header Header, err error) {
	scheme, params, err := parseAuthScheme(headerText)
	if err != nil {
		return nil, err
	}
	return &WWWAuthenticateHeader{Scheme: scheme, Params: params}, nil
}

func splitCommaList(headerText string) []string {
	parts := strings.Split(headerText, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func headerParserRequire(headerName []byte, headerText string) (header Header, err error) {
	return &RequireHeader{Options: splitCommaList(headerText)}, nil
}

func headerParserProxyRequire(headerName []byte, headerText string) (header Header, err error) {
	return &ProxyRequireHeader{Options: splitCommaList(headerText)}, nil
}

// headerParserGeolocation parses the first location URI of a Geolocation
// header line: the text after a leading '<' up to the first '>'. Further
// comma-separated URIs and any parameters on the same line are not parsed,
// and no Next chain is built.
func headerParserGeolocation(headerName []byte, headerText string) (header Header, err error) {
	h := &GeolocationHeader{}
	headerText = strings.TrimSpace(headerText)
	headerText = strings.TrimPrefix(headerText, "<")
	if idx := strings.IndexByte(headerText, '>'); idx >= 0 {
		headerText = headerText[:idx]
	}
	if err := ParseUri(headerText, &h.Address); err != nil {
		return nil, err
	}
	return h, nil
}

func headerParserGeolocationRouting(headerName []byte, headerText string) (header Header, err error) {
	v := strings.ToLower(strings.TrimSpace(headerText))
	switch v {
	case "yes":
		h := GeolocationRoutingHeader(true)
		return &h, nil
	case "no":
		h := GeolocationRoutingHeader(false)
		return &h, nil
	}
	return nil, fmt.Errorf("invalid Geolocation-Routing value: %q", headerText)
}

func headerParserGeolocationError(headerName []byte, headerText string) (header Header, err error) {
	headerText = strings.TrimSpace(headerText)
	ind := strings.IndexAny(headerText, abnf)
	h := &GeolocationErrorHeader{}
	if ind < 0 {
		code, e := strconv.Atoi(headerText)
		if e != nil {
			return nil, fmt.Errorf("invalid Geolocation-Error value: %q", headerText)
		}
		h.Code = code
		return h, nil
	}
	code, e := strconv.Atoi(headerText[:ind])
	if e != nil {
		return nil, fmt.Errorf("invalid Geolocation-Error code: %q", headerText)
	}
	h.Code = code
	h.Text = strings.Trim(strings.TrimSpace(headerText[ind+1:]), "\"")
	return h, nil
}

func headerParserCallInfo(headerName []byte, headerText string) (header Header, err error) {
	h := &CallInfoHeader{Params: NewParams()}
	headerText = strings.TrimSpace(headerText)
	if idx := strings.IndexByte(headerText, ';'); idx >= 0 {
		h.Value_ = headerText[:idx]
		if _, err := UnmarshalHeaderParams(headerText[idx+1:], ';', '\r', &h.Params); err != nil {
			return nil, err
		}
	} else {
		h.Value_ = headerText
	}
	return h, nil
}
