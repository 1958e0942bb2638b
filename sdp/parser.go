package sdp

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse decodes raw SDP text (CRLF or bare-LF terminated lines, both
// tolerated) into a Session, dispatching each line by its leading
// character. Session-level direction inheritance is applied automatically
// before returning.
func Parse(raw string) (*Session, error) {
	lines := splitLines(raw)

	s := &Session{}
	var curMedia *MediaDescription

	for lineNo, line := range lines {
		if line == "" {
			continue
		}
		if len(line) < 2 || line[1] != '=' {
			return nil, fmt.Errorf("sdp: malformed line %d: %q", lineNo+1, line)
		}
		key := line[0]
		value := line[2:]

		switch key {
		case 'v':
			v, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("sdp: bad version line: %q", line)
			}
			s.Version = v
		case 'o':
			o, err := parseOrigin(value)
			if err != nil {
				return nil, err
			}
			s.Origin = o
		case 's':
			s.Name = value
		case 'i':
			if curMedia != nil {
				curMedia.Info = value
			} else {
				s.Info = value
			}
		case 'u':
			s.URI = value
		case 'e':
			s.Email = value
		case 'p':
			s.Phone = value
		case 'c':
			cd, err := parseConnectionData(value)
			if err != nil {
				return nil, err
			}
			if curMedia != nil {
				curMedia.Connection = &cd
			} else {
				s.Connection = &cd
			}
		case 'b':
			bw, err := parseBandwidth(value)
			if err != nil {
				return nil, err
			}
			if curMedia != nil {
				curMedia.Bandwidth = append(curMedia.Bandwidth, bw)
			} else {
				s.Bandwidth = append(s.Bandwidth, bw)
			}
		case 't':
			t, err := parseTiming(value)
			if err != nil {
				return nil, err
			}
			s.Timing = t
		case 'a':
			attr, err := parseAttribute(value)
			if err != nil {
				return nil, err
			}
			if curMedia != nil {
				curMedia.Attributes = append(curMedia.Attributes, attr)
			} else {
				s.Attributes = append(s.Attributes, attr)
			}
		case 'm':
			md, err := parseMediaLine(value)
			if err != nil {
				return nil, err
			}
			curMedia = md
			s.Media = append(s.Media, md)
		default:
			// Unknown line type (k=, r=, z=, ...): ignored, not an error,
			// per RFC 4566's extensibility stance.
		}
	}

	if s.Origin.Username == "" && s.Origin.Address == "" {
		return nil, fmt.Errorf("sdp: missing o= line")
	}

	s.ApplyDirectionInheritance()
	return s, nil
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func parseOrigin(value string) (Origin, error) {
	f := strings.Fields(value)
	if len(f) != 6 {
		return Origin{}, fmt.Errorf("sdp: malformed o= line: %q", value)
	}
	return Origin{
		Username:       f[0],
		SessionID:      f[1],
		SessionVersion: f[2],
		NetType:        f[3],
		AddrType:       f[4],
		Address:        f[5],
	}, nil
}

func parseConnectionData(value string) (ConnectionData, error) {
	f := strings.Fields(value)
	if len(f) != 3 {
		return ConnectionData{}, fmt.Errorf("sdp: malformed c= line: %q", value)
	}
	return ConnectionData{NetType: f[0], AddrType: f[1], Address: f[2]}, nil
}

func parseBandwidth(value string) (Bandwidth, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return Bandwidth{}, fmt.Errorf("sdp: malformed b= line: %q", value)
	}
	n, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Bandwidth{}, fmt.Errorf("sdp: malformed b= line: %q", value)
	}
	return Bandwidth{Type: parts[0], Value: n}, nil
}

func parseTiming(value string) (Timing, error) {
	f := strings.Fields(value)
	if len(f) != 2 {
		return Timing{}, fmt.Errorf("sdp: malformed t= line: %q", value)
	}
	start, err := strconv.ParseUint(f[0], 10, 64)
	if err != nil {
		return Timing{}, fmt.Errorf("sdp: malformed t= line: %q", value)
	}
	stop, err := strconv.ParseUint(f[1], 10, 64)
	if err != nil {
		return Timing{}, fmt.Errorf("sdp: malformed t= line: %q", value)
	}
	return Timing{Start: start, Stop: stop}, nil
}

func parseMediaLine(value string) (*MediaDescription, error) {
	f := strings.Fields(value)
	if len(f) < 3 {
		return nil, fmt.Errorf("sdp: malformed m= line: %q", value)
	}
	md := &MediaDescription{Type: f[0], Transport: f[2]}

	portSpec := f[1]
	if slash := strings.IndexByte(portSpec, '/'); slash >= 0 {
		p, err := strconv.Atoi(portSpec[:slash])
		if err != nil {
			return nil, fmt.Errorf("sdp: malformed m= port: %q", portSpec)
		}
		count, err := strconv.Atoi(portSpec[slash+1:])
		if err != nil {
			return nil, fmt.Errorf("sdp: malformed m= port count: %q", portSpec)
		}
		md.Port, md.PortCount = p, count
	} else {
		p, err := strconv.Atoi(portSpec)
		if err != nil {
			return nil, fmt.Errorf("sdp: malformed m= port: %q", portSpec)
		}
		md.Port = p
	}

	if len(f) > 3 {
		md.Formats = append(md.Formats, f[3:]...)
	}
	return md, nil
}
