package msrp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Encode serializes a Frame to the MSRP wire format:
//
//	MSRP <txn-id> <METHOD-or-code> [reason]\r\n
//	<headers>\r\n
//	\r\n
//	[<body>\r\n]
//	-------<txn-id><flag>\r\n
func Encode(f *Frame) []byte {
	var b bytes.Buffer

	b.WriteString("MSRP ")
	b.WriteString(f.TransactionID)
	b.WriteByte(' ')
	if f.IsRequest {
		b.WriteString(string(f.Method))
	} else {
		b.WriteString(strconv.Itoa(f.Code))
		if f.Reason != "" {
			b.WriteByte(' ')
			b.WriteString(f.Reason)
		}
	}
	b.WriteString("\r\n")

	if f.IsRequest {
		if len(f.ToPath) > 0 {
			fmt.Fprintf(&b, "To-Path: %s\r\n", strings.Join(f.ToPath, " "))
		}
		if len(f.FromPath) > 0 {
			fmt.Fprintf(&b, "From-Path: %s\r\n", strings.Join(f.FromPath, " "))
		}
		if f.MessageID != "" {
			fmt.Fprintf(&b, "Message-ID: %s\r\n", f.MessageID)
		}
		if f.ByteRange != (ByteRange{}) {
			fmt.Fprintf(&b, "Byte-Range: %s\r\n", f.ByteRange.String())
		}
		if f.ContentType != "" {
			fmt.Fprintf(&b, "Content-Type: %s\r\n", f.ContentType)
		}
		if f.SuccessReport {
			b.WriteString("Success-Report: yes\r\n")
		}
		if f.FailureReport {
			b.WriteString("Failure-Report: yes\r\n")
		}
		if f.Status != "" {
			fmt.Fprintf(&b, "Status: %s\r\n", f.Status)
		}
	} else {
		if len(f.ToPath) > 0 {
			fmt.Fprintf(&b, "To-Path: %s\r\n", strings.Join(f.ToPath, " "))
		}
		if len(f.FromPath) > 0 {
			fmt.Fprintf(&b, "From-Path: %s\r\n", strings.Join(f.FromPath, " "))
		}
	}
	for _, h := range f.Extra {
		fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
	}

	b.WriteString("\r\n")
	if len(f.Body) > 0 {
		b.Write(f.Body)
		b.WriteString("\r\n")
	}

	flag := f.Completion
	if flag == Unknown {
		flag = Complete
	}
	fmt.Fprintf(&b, "-------%s%c\r\n", f.TransactionID, byte(flag))

	return b.Bytes()
}

// Decode parses one complete transaction frame (as produced by the stream
// parser) into a Frame. Unknown headers are carried opaquely in Extra.
func Decode(buf []byte) (*Frame, error) {
	firstLineEnd := bytes.Index(buf, []byte("\r\n"))
	if firstLineEnd < 0 {
		return nil, fmt.Errorf("msrp: truncated frame, no start line")
	}
	startLine := string(buf[:firstLineEnd])
	fields := strings.SplitN(startLine, " ", 3)
	if len(fields) < 3 || fields[0] != "MSRP" {
		return nil, fmt.Errorf("msrp: malformed start line: %q", startLine)
	}

	f := &Frame{TransactionID: fields[1]}

	token, reason, _ := strings.Cut(fields[2], " ")
	if code, err := strconv.Atoi(token); err == nil {
		f.IsRequest = false
		f.Code = code
		f.Reason = reason
	} else {
		f.IsRequest = true
		f.Method = Method(token)
	}

	rest := buf[firstLineEnd+2:]
	var headerBlock, afterHeaders []byte
	if bytes.HasPrefix(rest, []byte("\r\n")) {
		// No header lines: the blank separator follows the start line.
		afterHeaders = rest[2:]
	} else {
		headerEnd := bytes.Index(rest, []byte("\r\n\r\n"))
		if headerEnd < 0 {
			return nil, fmt.Errorf("msrp: truncated frame, no header/body separator")
		}
		headerBlock = rest[:headerEnd]
		afterHeaders = rest[headerEnd+4:]
	}

	if err := decodeHeaders(f, headerBlock); err != nil {
		return nil, err
	}

	endLinePrefix := []byte("-------" + f.TransactionID)
	endIdx := bytes.Index(afterHeaders, endLinePrefix)
	if endIdx < 0 {
		return nil, fmt.Errorf("msrp: end-line not found for transaction %q", f.TransactionID)
	}

	body := afterHeaders[:endIdx]
	body = bytes.TrimSuffix(body, []byte("\r\n"))
	if len(body) > 0 {
		f.Body = body
	}

	flagIdx := endIdx + len(endLinePrefix)
	if flagIdx >= len(afterHeaders) {
		return nil, fmt.Errorf("msrp: end-line missing completion flag")
	}
	f.Completion = parseCompletionStatus(afterHeaders[flagIdx])

	return f, nil
}

func decodeHeaders(f *Frame, block []byte) error {
	if len(block) == 0 {
		return nil
	}
	for _, line := range bytes.Split(block, []byte("\r\n")) {
		if len(line) == 0 {
			continue
		}
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return fmt.Errorf("msrp: malformed header line: %q", line)
		}
		name := strings.TrimSpace(string(line[:colon]))
		value := strings.TrimSpace(string(line[colon+1:]))

		switch strings.ToLower(name) {
		case "to-path":
			f.ToPath = strings.Fields(value)
		case "from-path":
			f.FromPath = strings.Fields(value)
		case "message-id":
			f.MessageID = value
		case "byte-range":
			br, err := parseByteRange(value)
			if err != nil {
				return err
			}
			f.ByteRange = br
		case "content-type":
			f.ContentType = value
		case "success-report":
			f.SuccessReport = strings.EqualFold(value, "yes")
		case "failure-report":
			f.FailureReport = strings.EqualFold(value, "yes")
		case "status":
			f.Status = value
		default:
			f.Extra = append(f.Extra, Header{Name: name, Value: value})
		}
	}
	return nil
}
