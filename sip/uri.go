package sip

import (
	"io"
	"strconv"
	"strings"
)

// UriScheme identifies the URI scheme carried by a Uri. The parser accepts
// any token but only schemes relevant to a SIP/SDP/MSRP call leg are
// recognised by name; anything else is kept verbatim in Scheme.
type UriScheme string

const (
	SchemeSIP   UriScheme = "sip"
	SchemeSIPS  UriScheme = "sips"
	SchemeTel   UriScheme = "tel"
	SchemeURN   UriScheme = "urn"
	SchemeHTTP  UriScheme = "http"
	SchemeHTTPS UriScheme = "https"
	SchemeWS    UriScheme = "ws"
	SchemeWSS   UriScheme = "wss"
	SchemeCID   UriScheme = "cid"
	SchemeMSRP  UriScheme = "msrp"
	SchemeMSRPS UriScheme = "msrps"
	SchemeIM    UriScheme = "im"
	SchemePres  UriScheme = "pres"
)

// A URI from any schema (e.g. sip:, tel:, msrp:, urn:)
type SIPUri interface {
	String() string
	IsEncrypted() bool
}

// A URI from a schema suitable for inclusion in a Contact: header.
// The only such URIs are sip/sips URIs and the special wildcard URI '*'.
// hold this interface to not break other code
type ContactUri interface {
	SIPUri
}

type Uri struct {
	// Scheme is the URI scheme token, lower-cased (sip, sips, tel, urn,
	// http, https, ws, wss, cid, msrp, msrps, im, pres, or anything else
	// the parser saw before the first colon).
	Scheme UriScheme

	// True if and only if the URI is a SIPS/HTTPS/WSS/MSRPS URI.
	Encrypted bool
	Wildcard  bool

	// HierarhicalSlashes records whether "//" followed the scheme colon
	// (as in http://, ws://, msrp://), so it can be re-emitted on String.
	HierarhicalSlashes bool

	// The user part of the URI: the 'joe' in sip:joe@bloggs.com
	User string

	// The password field of the URI. This is represented in the URI as joe:hunter2@bloggs.com.
	Password string

	// The host part of the URI. This can be a domain, or a string representation of an IP address.
	// For tel:/urn: URIs this holds the scheme-specific-part instead (e.g. the phone number).
	Host string

	// The port part of the URI. This is optional, and can be empty.
	Port int

	// Any parameters associated with the URI.
	// These appear as a semicolon-separated list of key=value pairs following the host[:port] part.
	UriParams HeaderParams

	// Any headers to be included on requests constructed from this URI.
	// These appear as a '&'-separated list at the end of the URI, introduced by '?'.
	Headers HeaderParams
}

// Generates the string representation of a SipUri struct.
func (uri *Uri) String() string {
	var buffer strings.Builder
	uri.StringWrite(&buffer)

	return buffer.String()
}

func (uri *Uri) StringWrite(buffer io.StringWriter) {
	if uri.Wildcard {
		buffer.WriteString("*")
		return
	}

	scheme := uri.Scheme
	if scheme == "" {
		scheme = SchemeSIP
	}
	buffer.WriteString(string(scheme))
	buffer.WriteString(":")

	if uri.HierarhicalSlashes {
		buffer.WriteString("//")
	}

	if scheme == SchemeTel || scheme == SchemeURN {
		buffer.WriteString(uri.Host)
		return
	}

	// Optional userinfo part.
	if uri.User != "" {
		buffer.WriteString(uri.User)
		if uri.Password != "" {
			buffer.WriteString(":")
			buffer.WriteString(uri.Password)
		}
		buffer.WriteString("@")
	}

	// Compulsory hostname. A bracketed IPv6 reference is kept verbatim,
	// brackets included, in Host.
	buffer.WriteString(uri.Host)

	// Optional port number.
	if uri.Port > 0 {
		buffer.WriteString(":")
		buffer.WriteString(strconv.Itoa(uri.Port))
	}

	if (uri.UriParams != nil) && uri.UriParams.Length() > 0 {
		buffer.WriteString(";")
		buffer.WriteString(uri.UriParams.ToString(';'))
	}

	if (uri.Headers != nil) && uri.Headers.Length() > 0 {
		buffer.WriteString("?")
		buffer.WriteString(uri.Headers.ToString('&'))
	}
}

func (uri *Uri) Clone() *Uri {
	if uri == nil {
		return nil
	}
	c := *uri
	if uri.UriParams != nil {
		c.UriParams = uri.UriParams.Clone()
	}
	if uri.Headers != nil {
		c.Headers = uri.Headers.Clone()
	}
	return &c
}

func (uri *Uri) IsEncrypted() bool {
	return uri.Encrypted
}

// HostPort returns "host:port", or just host when no port is set.
func (uri *Uri) HostPort() string {
	if uri.Port <= 0 {
		return uri.Host
	}
	return uri.Host + ":" + strconv.Itoa(uri.Port)
}

// Endpoint returns "user@host:port", omitting the user part when absent.
func (uri *Uri) Endpoint() string {
	if uri.User == "" {
		return uri.HostPort()
	}
	return uri.User + "@" + uri.HostPort()
}

// TelDigits returns the Host (or, when Host is empty, the User) part of a
// tel: URI with visual separators (space, '-', '.', '(', ')') stripped; all
// other characters, '+' and digits included, are kept. The scheme is not
// checked, so separators are stripped the same way for non-tel URIs.
func (uri *Uri) TelDigits() string {
	raw := uri.Host
	if raw == "" {
		raw = uri.User
	}
	var b strings.Builder
	for i, c := range raw {
		switch {
		case c == '+' && i == 0:
			b.WriteRune(c)
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '.' || c == '(' || c == ')':
			continue
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Equals implements RFC 3261 section 19.1.4 SIP/SIPS URI comparison, with a
// few extensions: parameter names compare case-insensitively, the
// "transport" parameter value compares case-insensitively (its grammar is a
// token enum), and every other parameter value compares case-sensitively.
// Parameters present in only one URI (other than transport/user/ttl/method)
// do not break equality, matching the "must-match-if-present" rule.
func (uri *Uri) Equals(other *Uri) bool {
	if uri == nil || other == nil {
		return uri == other
	}
	if uri.Wildcard || other.Wildcard {
		return uri.Wildcard == other.Wildcard
	}
	if !strings.EqualFold(string(uri.Scheme), string(other.Scheme)) {
		return false
	}
	if uri.User != other.User || uri.Password != other.Password {
		return false
	}
	if !strings.EqualFold(uri.Host, other.Host) {
		return false
	}
	if effectivePort(uri) != effectivePort(other) {
		return false
	}

	significant := []string{"transport", "user", "ttl", "method"}
	for _, key := range significant {
		v1, ok1 := uriParamGet(uri.UriParams, key)
		v2, ok2 := uriParamGet(other.UriParams, key)
		if ok1 != ok2 {
			return false
		}
		if !ok1 {
			continue
		}
		if key == "transport" {
			if !strings.EqualFold(v1, v2) {
				return false
			}
		} else if v1 != v2 {
			return false
		}
	}

	return true
}

func effectivePort(uri *Uri) int {
	if uri.Port > 0 {
		return uri.Port
	}
	if uri.Scheme == SchemeSIPS {
		return 5061
	}
	return 5060
}

func uriParamGet(p HeaderParams, key string) (string, bool) {
	return p.GetFold(key)
}
