package sip

import (
	"fmt"
	"strings"
)

// splitMultipart decodes a MIME multipart body (RFC 2046) delimited by
// boundary, as used by multipart/mixed SIP bodies carrying SDP alongside
// other MIME parts (e.g. a PIDF-LO location object).
func splitMultipart(body []byte, boundary string) ([]BodyPart, error) {
	delim := "--" + boundary
	text := string(body)

	segments := strings.Split(text, delim)
	if len(segments) < 2 {
		return nil, fmt.Errorf("sip: multipart boundary %q not found in body", boundary)
	}

	var parts []BodyPart
	// segments[0] is preamble, last is epilogue after the closing "--".
	for _, seg := range segments[1 : len(segments)-1] {
		seg = strings.TrimPrefix(seg, "\r\n")
		seg = strings.TrimSuffix(seg, "\r\n")
		if seg == "" {
			continue
		}

		headerEnd := strings.Index(seg, "\r\n\r\n")
		if headerEnd < 0 {
			return nil, fmt.Errorf("sip: multipart part missing header/body separator")
		}

		headerBlock := seg[:headerEnd]
		content := seg[headerEnd+4:]

		params := NewParams()
		for _, line := range strings.Split(headerBlock, "\r\n") {
			if line == "" {
				continue
			}
			kv := strings.SplitN(line, ":", 2)
			if len(kv) != 2 {
				continue
			}
			params.Add(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]))
		}

		parts = append(parts, BodyPart{Headers: params, Content: []byte(content)})
	}

	return parts, nil
}
