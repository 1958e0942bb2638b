package sdp_test

import (
	"fmt"
	"testing"

	"github.com/ng911/sipstack/sdp"
	"github.com/stretchr/testify/require"
)

type fakePortManager struct {
	next int
}

func (f *fakePortManager) NextPort(mediaType string) (int, error) {
	f.next += 2
	return 20000 + f.next, nil
}

func TestBuildAnswerAudio(t *testing.T) {
	offer, err := sdp.Parse(sampleOffer)
	require.NoError(t, err)

	caps := sdp.LocalCapabilities{
		SupportedMedia: map[string]bool{"audio": true, "message": true},
		Codecs: map[string][]sdp.RtpMap{
			"audio": {{PayloadType: 0, EncodingName: "PCMU", ClockRate: 8000}},
		},
		LocalAddress: "192.0.2.1",
		AddrType:     "IP4",
		MSRPHost:     "192.0.2.1",
	}

	answer, err := sdp.BuildAnswer(offer, caps, &fakePortManager{})
	require.NoError(t, err)
	require.Len(t, answer.Media, 3)

	audio := answer.Media[0]
	require.NotEqual(t, 0, audio.Port)
	require.Equal(t, []string{"0", "101"}, audio.Formats)

	video := answer.Media[1]
	require.Equal(t, 0, video.Port, "video not supported locally, must be rejected")

	msrp := answer.Media[2]
	require.NotEqual(t, 0, msrp.Port)
	setup, ok := msrp.Setup()
	require.True(t, ok)
	require.Equal(t, "active", setup.Role, "offered actpass must be answered active")
	path, ok := msrp.Path()
	require.True(t, ok)
	require.Len(t, path.URIs, 1)
}

func TestBuildAnswerTelephoneEvent(t *testing.T) {
	offer, err := sdp.Parse(sampleOffer)
	require.NoError(t, err)

	caps := sdp.LocalCapabilities{
		SupportedMedia: map[string]bool{"audio": true},
		Codecs: map[string][]sdp.RtpMap{
			"audio": {{PayloadType: 0, EncodingName: "PCMU", ClockRate: 8000}},
		},
		LocalAddress: "192.0.2.1",
	}

	answer, err := sdp.BuildAnswer(offer, caps, &fakePortManager{})
	require.NoError(t, err)

	audio := answer.Media[0]
	require.Contains(t, audio.Formats, "101", "telephone-event payload must carry across")
	require.Len(t, audio.Fmtp(), 1)
}

func TestBuildAnswerDTLSSRTP(t *testing.T) {
	raw := fmt.Sprintf("v=0\r\n"+
		"o=alice 1 1 IN IP4 10.0.0.1\r\n"+
		"s=-\r\n"+
		"c=IN IP4 10.0.0.1\r\n"+
		"t=0 0\r\n"+
		"m=audio 1234 UDP/TLS/RTP/SAVP 0\r\n"+
		"a=rtpmap:0 PCMU/8000\r\n"+
		"a=setup:actpass\r\n"+
		"a=fingerprint:sha-256 %s\r\n", "AA:BB:CC")

	offer, err := sdp.Parse(raw)
	require.NoError(t, err)

	caps := sdp.LocalCapabilities{
		SupportedMedia: map[string]bool{"audio": true},
		Codecs: map[string][]sdp.RtpMap{
			"audio": {{PayloadType: 0, EncodingName: "PCMU", ClockRate: 8000}},
		},
		LocalAddress: "192.0.2.1",
		Fingerprint:  sdp.Fingerprint{HashFunc: "sha-256", Fingerprint: "DD:EE:FF"},
	}

	answer, err := sdp.BuildAnswer(offer, caps, &fakePortManager{})
	require.NoError(t, err)

	audio := answer.Media[0]
	fp, ok := audio.Fingerprint()
	require.True(t, ok)
	require.Equal(t, "DD:EE:FF", fp.Fingerprint)
	setup, ok := audio.Setup()
	require.True(t, ok)
	require.Equal(t, "active", setup.Role)
}

func TestBuildAnswerSDESSRTP(t *testing.T) {
	raw := "v=0\r\n" +
		"o=alice 1 1 IN IP4 10.0.0.1\r\n" +
		"s=-\r\n" +
		"c=IN IP4 10.0.0.1\r\n" +
		"t=0 0\r\n" +
		"m=audio 1234 RTP/SAVP 0\r\n" +
		"a=rtpmap:0 PCMU/8000\r\n" +
		"a=crypto:1 AES_CM_128_HMAC_SHA1_32 inline:offeredkeyblock\r\n" +
		"a=crypto:2 AES_CM_128_HMAC_SHA1_80 inline:offeredkeyblock2\r\n"

	offer, err := sdp.Parse(raw)
	require.NoError(t, err)

	caps := sdp.LocalCapabilities{
		SupportedMedia: map[string]bool{"audio": true},
		Codecs: map[string][]sdp.RtpMap{
			"audio": {{PayloadType: 0, EncodingName: "PCMU", ClockRate: 8000}},
		},
		LocalAddress: "192.0.2.1",
		SRTPSuites: []sdp.SRTPSuiteOffer{
			{Suite: "AES_CM_128_HMAC_SHA1_80", KeyParams: "inline:localkeyblock"},
		},
	}

	answer, err := sdp.BuildAnswer(offer, caps, &fakePortManager{})
	require.NoError(t, err)

	cryptos := answer.Media[0].Crypto()
	require.Len(t, cryptos, 1)
	require.Equal(t, 2, cryptos[0].Tag, "must keep the offered crypto line's Tag")
	require.Equal(t, "AES_CM_128_HMAC_SHA1_80", cryptos[0].Suite)
	require.Equal(t, "inline:localkeyblock", cryptos[0].KeyParams)
}
