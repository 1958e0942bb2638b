package sip

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const (
	RFC3261BranchMagicCookie = "z9hG4bK"

	// abnf is the set of characters that force a header or URI parameter
	// value to be quoted, and the set recognised as whitespace when
	// splitting unstructured header text.
	abnf = " \t\r\n"
)

var (
	// SIPDebug enables wire tracing to the package logger when no tracer is
	// installed. An installed tracer is called regardless of SIPDebug.
	SIPDebug  bool
	siptracer SIPTracer
)

// SIPTracer receives the raw bytes handed to logSIPRead and logSIPWrite.
// The application installs one via SIPDebugTracer; without one, those
// helpers log to the package logger at debug level when SIPDebug is set.
// The parsers in this package do not call these helpers.
type SIPTracer interface {
	SIPTraceRead(transport string, laddr string, raddr string, sipmsg []byte)
	SIPTraceWrite(transport string, laddr string, raddr string, sipmsg []byte)
}

func SIPDebugTracer(t SIPTracer) {
	siptracer = t
}

func logSIPRead(transport string, laddr string, raddr string, sipmsg []byte) {
	if siptracer != nil {
		siptracer.SIPTraceRead(transport, laddr, raddr, sipmsg)
		return
	}
	if !SIPDebug {
		return
	}
	packageLogger.Debug().
		Str("transport", transport).
		Str("laddr", laddr).
		Str("raddr", raddr).
		Msg(string(sipmsg))
}

// GenerateBranch returns a new Via branch parameter value: the RFC 3261
// magic cookie, a '.', and 16 random bytes, hex-encoded.
func GenerateBranch() string {
	return GenerateBranchN(16)
}

// GenerateBranchN is GenerateBranch with an explicit random byte count.
func GenerateBranchN(n int) string {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		panic(err)
	}

	var sb strings.Builder
	sb.Grow(len(RFC3261BranchMagicCookie) + 1 + n*2)
	sb.WriteString(RFC3261BranchMagicCookie)
	sb.WriteByte('.')
	sb.WriteString(hex.EncodeToString(raw))
	return sb.String()
}

func logSIPWrite(transport string, laddr string, raddr string, sipmsg []byte) {
	if siptracer != nil {
		siptracer.SIPTraceWrite(transport, laddr, raddr, sipmsg)
		return
	}
	if !SIPDebug {
		return
	}
	packageLogger.Debug().
		Str("transport", transport).
		Str("laddr", laddr).
		Str("raddr", raddr).
		Msg(string(sipmsg))
}
