// Package buffer provides low-level byte-slice search and extraction
// helpers shared by the MSRP stream parser and codec. Operations never
// mutate the input and never allocate beyond the returned slice.
package buffer

import "bytes"

// FindPattern returns the first index i in [from, to-len(pattern)] such
// that buf[i:i+len(pattern)] == pattern, or -1 if no such index exists.
// to is exclusive upper bound on the search window (typically len(buf)).
func FindPattern(buf []byte, from, to int, pattern []byte) int {
	if from < 0 {
		from = 0
	}
	if to > len(buf) {
		to = len(buf)
	}
	if len(pattern) == 0 || from >= to {
		return -1
	}

	window := buf[from:to]
	idx := bytes.Index(window, pattern)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// ExtractDelimited returns the slice of buf between the first occurrence
// of startDelim at or after startDelimIdx, and the next occurrence of a
// sequence beginning with endDelimPrefix after it. It is used to cut an
// MSRP body out of a complete transaction frame: the header block ends at
// the first blank-line startDelim ("\r\n\r\n"), and the body ends at the
// next occurrence of the end-line prefix ("-------<txn-id>").
//
// Returns an error if either delimiter is not found.
func ExtractDelimited(buf []byte, startDelimIdx int, startDelim, endDelimPrefix []byte) ([]byte, error) {
	start := FindPattern(buf, startDelimIdx, len(buf), startDelim)
	if start < 0 {
		return nil, errDelimiterNotFound("start")
	}
	bodyStart := start + len(startDelim)

	end := FindPattern(buf, bodyStart, len(buf), endDelimPrefix)
	if end < 0 {
		return nil, errDelimiterNotFound("end")
	}

	return buf[bodyStart:end], nil
}

type errDelimiterNotFound string

func (e errDelimiterNotFound) Error() string {
	return "buffer: " + string(e) + " delimiter not found"
}
