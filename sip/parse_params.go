package sip

import (
	"strings"
	"unicode"
)

const (
	paramsStateNone = iota
	paramsStateKey
	paramsStateEqual
	paramsStateValue
	paramsStateQuote
)

// UnmarshalHeaderParams scans a ";key=value;flag" style parameter list out of
// s, stopping at the first unescaped ending rune, and appends each pair into
// p. It returns the byte offset where scanning stopped, so callers parsing a
// comma-joined header value (Via, Contact) know where the next hop begins.
func UnmarshalHeaderParams(s string, separator rune, ending rune, p *HeaderParams) (n int, err error) {
	var start, sep int
	quote := -1
	state := paramsStateKey

	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	n = len(s)
	for i, c := range s {
		if c == ending {
			n = i
			break
		}

		switch state {
		case paramsStateKey:
			sep = 0
			start = i
			state = paramsStateEqual

		case paramsStateEqual:
			if c == separator {
				// Flag-style param with no '=value' at all.
				p.Add(s[start:i], "")
				state = paramsStateKey
				continue
			}
			if c != '=' {
				continue
			}
			sep = i
			state = paramsStateValue

		case paramsStateValue:
			switch c {
			case '"':
				state = paramsStateQuote
				quote = i
			case separator:
				p.Add(s[start:sep], s[sep+1:i])
				start = sep + 1
				state = paramsStateKey
			}

		case paramsStateQuote:
			if c != '"' {
				continue
			}
			p.Add(s[start:], s[quote+1:i])
			state = paramsStateKey
		}
	}

	// Flush whatever's pending after the loop: a trailing key=value pair,
	// or a trailing bare flag with no separator at all.
	if sep > 0 && n >= 0 && start < sep {
		p.Add(s[start:sep], s[sep+1:n])
	}
	if sep == 0 && start < n && n >= 0 {
		p.Add(s[start:], "")
	}

	return n, nil
}
