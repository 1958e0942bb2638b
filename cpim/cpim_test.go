package cpim_test

import (
	"testing"

	"github.com/ng911/sipstack/cpim"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	raw := []byte("To: <sip:bob@example.com>\r\n" +
		"From: <sip:alice@example.com>\r\n" +
		"DateTime: 2000-12-13T13:40:00-08:00\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Hello, Bob!")

	m, err := cpim.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "<sip:bob@example.com>", m.To())
	require.Equal(t, "<sip:alice@example.com>", m.From())
	require.Equal(t, "text/plain", m.ContentType())
	require.Equal(t, "Hello, Bob!", string(m.Body))
}

func TestParseBodyAfterLastDoubleCRLF(t *testing.T) {
	// The body is itself a MIME document containing its own blank line;
	// the parser must split on the LAST CRLF CRLF, not the first.
	raw := []byte("From: <sip:alice@example.com>\r\n" +
		"To: <sip:bob@example.com>\r\n" +
		"Content-Type: multipart/mixed; boundary=xyz\r\n" +
		"\r\n" +
		"--xyz\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"inner body text\r\n" +
		"--xyz--")

	m, err := cpim.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "<sip:bob@example.com>", m.To())
	require.Contains(t, string(m.Body), "inner body text")
	require.NotContains(t, string(m.Body), "Content-Type: text/plain")
}

func TestParseUnknownHeadersPreserved(t *testing.T) {
	raw := []byte("To: <sip:bob@example.com>\r\n" +
		"X-Custom-Thing: value\r\n" +
		"\r\n" +
		"body")

	m, err := cpim.Parse(raw)
	require.NoError(t, err)
	v, ok := m.Get("X-Custom-Thing")
	require.True(t, ok)
	require.Equal(t, "value", v)
}

func TestParseMalformedNoSeparator(t *testing.T) {
	_, err := cpim.Parse([]byte("To: <sip:bob@example.com>"))
	require.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	raw := []byte("To: <sip:bob@example.com>\r\n" +
		"From: <sip:alice@example.com>\r\n" +
		"\r\n" +
		"Hello!")

	m, err := cpim.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, raw, m.Encode())
}
