package msrp

import (
	"fmt"
	"strconv"
	"strings"
)

// URI is an MSRP URI: msrp://host[:port]/session-id;transport[;params].
// Transport MUST be "tcp" for the msrp scheme or "tls" for msrps.
type URI struct {
	Secure    bool // true when the scheme was msrps
	Host      string
	Port      int // 0 when absent
	SessionID string
	Transport string
	Params    map[string]string
}

// Scheme returns "msrp" or "msrps".
func (u *URI) Scheme() string {
	if u.Secure {
		return "msrps"
	}
	return "msrp"
}

// ParseURI parses the msrp://... or msrps://... wire form of an MSRP URI.
func ParseURI(raw string) (*URI, error) {
	var secure bool
	var rest string
	switch {
	case strings.HasPrefix(raw, "msrps://"):
		secure = true
		rest = raw[len("msrps://"):]
	case strings.HasPrefix(raw, "msrp://"):
		secure = false
		rest = raw[len("msrp://"):]
	default:
		return nil, fmt.Errorf("msrp: unrecognized URI scheme: %q", raw)
	}

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return nil, fmt.Errorf("msrp: missing session-id path segment: %q", raw)
	}
	hostport := rest[:slash]
	path := rest[slash+1:]

	u := &URI{Secure: secure}

	if colon := strings.LastIndexByte(hostport, ':'); colon >= 0 {
		u.Host = hostport[:colon]
		port, err := strconv.Atoi(hostport[colon+1:])
		if err != nil {
			return nil, fmt.Errorf("msrp: bad port in %q", raw)
		}
		u.Port = port
	} else {
		u.Host = hostport
	}
	if u.Host == "" {
		return nil, fmt.Errorf("msrp: empty host in %q", raw)
	}

	segments := strings.Split(path, ";")
	if len(segments) < 2 {
		return nil, fmt.Errorf("msrp: missing transport parameter in %q", raw)
	}
	u.SessionID = segments[0]
	u.Transport = segments[1]

	wantTransport := "tcp"
	if secure {
		wantTransport = "tls"
	}
	if u.Transport != wantTransport {
		return nil, fmt.Errorf("msrp: transport %q does not match scheme %q", u.Transport, u.Scheme())
	}

	if len(segments) > 2 {
		u.Params = make(map[string]string, len(segments)-2)
		for _, seg := range segments[2:] {
			if eq := strings.IndexByte(seg, '='); eq >= 0 {
				u.Params[seg[:eq]] = seg[eq+1:]
			} else {
				u.Params[seg] = ""
			}
		}
	}

	return u, nil
}

// String serializes the URI back to wire format.
func (u *URI) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme())
	b.WriteString("://")
	b.WriteString(u.Host)
	if u.Port != 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.Port))
	}
	b.WriteByte('/')
	b.WriteString(u.SessionID)
	b.WriteByte(';')
	b.WriteString(u.Transport)
	for k, v := range u.Params {
		b.WriteByte(';')
		b.WriteString(k)
		if v != "" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}
