package sdp_test

import (
	"strings"
	"testing"

	"github.com/ng911/sipstack/sdp"
	"github.com/stretchr/testify/require"
)

const sampleOffer = "v=0\r\n" +
	"o=alice 2890844526 2890844526 IN IP4 10.0.0.1\r\n" +
	"s=-\r\n" +
	"c=IN IP4 10.0.0.1\r\n" +
	"t=0 0\r\n" +
	"a=sendrecv\r\n" +
	"m=audio 49170 RTP/AVP 0 101\r\n" +
	"a=rtpmap:0 PCMU/8000\r\n" +
	"a=rtpmap:101 telephone-event/8000\r\n" +
	"a=fmtp:101 0-16\r\n" +
	"m=video 51372 RTP/AVP 31\r\n" +
	"a=inactive\r\n" +
	"m=message 2855 TCP/MSRP *\r\n" +
	"a=setup:actpass\r\n" +
	"a=path:msrp://10.0.0.1:2855/abc123;tcp\r\n"

func TestParseSession(t *testing.T) {
	s, err := sdp.Parse(sampleOffer)
	require.NoError(t, err)
	require.Equal(t, "alice", s.Origin.Username)
	require.Equal(t, "10.0.0.1", s.Origin.Address)
	require.Len(t, s.Media, 3)

	audio := s.Media[0]
	require.Equal(t, "audio", audio.Type)
	require.Equal(t, 49170, audio.Port)
	require.Equal(t, []string{"0", "101"}, audio.Formats)
	require.Len(t, audio.RtpMap(), 2)
	require.Len(t, audio.Fmtp(), 1)

	video := s.Media[1]
	require.Equal(t, sdp.DirectionFlag{Value: "inactive"}, video.Direction(s))

	msrp := s.Media[2]
	require.True(t, msrp.IsMSRP())
	setup, ok := msrp.Setup()
	require.True(t, ok)
	require.Equal(t, "actpass", setup.Role)
	path, ok := msrp.Path()
	require.True(t, ok)
	require.Equal(t, []string{"msrp://10.0.0.1:2855/abc123;tcp"}, path.URIs)
}

func TestDirectionInheritance(t *testing.T) {
	s, err := sdp.Parse(sampleOffer)
	require.NoError(t, err)

	audio := s.Media[0]
	require.Equal(t, sdp.DirectionFlag{Value: "sendrecv"}, audio.Direction(s))
}

func TestSessionRoundTrip(t *testing.T) {
	s, err := sdp.Parse(sampleOffer)
	require.NoError(t, err)

	out := s.String()
	s2, err := sdp.Parse(out)
	require.NoError(t, err)

	require.Equal(t, s.Origin, s2.Origin)
	require.Len(t, s2.Media, len(s.Media))
	require.Equal(t, s.Media[0].Formats, s2.Media[0].Formats)
}

func TestParseMalformedLine(t *testing.T) {
	_, err := sdp.Parse("v=0\r\nbogus\r\n")
	require.Error(t, err)
}

func TestParseCryptoAttribute(t *testing.T) {
	raw := "v=0\r\n" +
		"o=alice 1 1 IN IP4 10.0.0.1\r\n" +
		"s=-\r\n" +
		"c=IN IP4 10.0.0.1\r\n" +
		"t=0 0\r\n" +
		"m=audio 1234 RTP/SAVP 0\r\n" +
		"a=crypto:1 AES_CM_128_HMAC_SHA1_80 inline:WVNfM14...base64key|2^20|1:4\r\n"

	s, err := sdp.Parse(raw)
	require.NoError(t, err)
	cryptos := s.Media[0].Crypto()
	require.Len(t, cryptos, 1)
	require.Equal(t, 1, cryptos[0].Tag)
	require.Equal(t, "AES_CM_128_HMAC_SHA1_80", cryptos[0].Suite)
	require.True(t, strings.HasPrefix(cryptos[0].KeyParams, "inline:"))
}
