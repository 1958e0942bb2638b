package sip

import (
	"errors"
	"io"
	"net"
	"strings"
)

func isASCIILower(c byte) bool { return 'a' <= c && c <= 'z' }
func isASCIIUpper(c byte) bool { return 'A' <= c && c <= 'Z' }

// ASCIIToLower lower-cases s, avoiding an allocation when s is already
// lower-case ASCII (the common case for header field names seen twice).
func ASCIIToLower(s string) string {
	nonLowInd := -1
	for i := 0; i < len(s); i++ {
		if isASCIILower(s[i]) {
			continue
		}
		nonLowInd = i
		break
	}
	if nonLowInd < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:nonLowInd])
	for i := nonLowInd; i < len(s); i++ {
		c := s[i]
		if isASCIIUpper(c) {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ASCIIToLowerInPlace lower-cases b's ASCII bytes without allocating.
func ASCIIToLowerInPlace(s []byte) {
	for i := range s {
		if isASCIIUpper(s[i]) {
			s[i] += 'a' - 'A'
		}
	}
}

// HeaderToLower maps a header field name to its canonical lower-case form.
// The handful of headers this module looks up on every parsed message get a
// direct literal match to skip the generic fold entirely.
func HeaderToLower(s string) string {
	switch s {
	case "Via", "via":
		return "via"
	case "From", "from":
		return "from"
	case "To", "to":
		return "to"
	case "Call-ID", "call-id":
		return "call-id"
	case "Contact", "contact":
		return "contact"
	case "CSeq", "CSEQ", "cseq":
		return "cseq"
	case "Content-Type", "content-type":
		return "content-type"
	case "Route", "route":
		return "route"
	case "Record-Route", "record-route":
		return "record-route"
	case "Max-Forwards":
		return "max-forwards"
	case "Timestamp", "timestamp":
		return "timestamp"
	case "Geolocation", "geolocation":
		return "geolocation"
	case "Geolocation-Routing", "geolocation-routing":
		return "geolocation-routing"
	case "Geolocation-Error", "geolocation-error":
		return "geolocation-error"
	case "Call-Info", "call-info":
		return "call-info"
	}

	return ASCIIToLower(s)
}

// headerToLower lowercases a header name copied from the raw wire bytes the
// stream parser saw, before it's turned into a string for lookup.
func headerToLower(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	ASCIIToLowerInPlace(out)
	return out
}

// UriIsSIP reports whether s is the "sip" scheme token, either case.
func UriIsSIP(s string) bool {
	switch s {
	case "sip", "SIP":
		return true
	}
	return false
}

// A delimiter is a start/end character pair used for quoting text (bulk
// escaping literals) while scanning for an unescaped target character.
type delimiter struct {
	start uint8
	end   uint8
}

var anglesDelim = delimiter{'<', '>'}

// findUnescaped finds the first instance of target not enclosed in any of
// the given delimiter pairs.
func findUnescaped(text string, target uint8, delims ...delimiter) int {
	return findAnyUnescaped(text, string(target), delims...)
}

// findAnyUnescaped finds the first instance of any byte in targets not
// enclosed in any of the given delimiter pairs.
func findAnyUnescaped(text string, targets string, delims ...delimiter) int {
	escaped := false
	var endEscape uint8

	endChars := make(map[uint8]uint8, len(delims))
	for _, delim := range delims {
		endChars[delim.start] = delim.end
	}

	for idx := 0; idx < len(text); idx++ {
		if !escaped && strings.Contains(targets, string(text[idx])) {
			return idx
		}

		if escaped {
			escaped = text[idx] != endEscape
			continue
		}
		endEscape, escaped = endChars[text[idx]]
	}

	return -1
}

// ResolveInterfacesIP walks the host's network interfaces looking for an
// address matching network ("ip", "ip4", "ip6"), preferring one inside
// targetIP's subnet when given. Loopback interfaces are skipped unless
// targetIP itself is a loopback address (useful for local test harnesses
// that bind to 127.0.0.1).
func ResolveInterfacesIP(network string, targetIP *net.IPNet) (net.IP, net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, net.Interface{}, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			if targetIP != nil && !targetIP.IP.IsLoopback() {
				continue
			}
		}

		ip, err := resolveInterfaceIP(iface, network, targetIP)
		if errors.Is(err, io.EOF) {
			continue
		}
		return ip, iface, err
	}

	return nil, net.Interface{}, errors.New("sip: no matching interface found on system")
}

func resolveInterfaceIP(iface net.Interface, network string, targetIP *net.IPNet) (net.IP, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, err
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			// A multicast address comes back as *net.IPAddr, not *net.IPNet.
			continue
		}
		ip := ipNet.IP
		if targetIP != nil {
			if !targetIP.Contains(ip) {
				continue
			}
		} else if ip.IsLoopback() {
			continue
		}

		if ip == nil {
			continue
		}

		switch network {
		case "ip4":
			if ip.To4() == nil {
				continue
			}
		case "ip6":
			if ip.To4() != nil {
				continue
			}
		}

		return ip, nil
	}
	return nil, io.EOF
}
