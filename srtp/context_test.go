package srtp_test

import (
	"testing"

	"github.com/ng911/sipstack/srtp"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, suite srtp.Suite) *srtp.Context {
	t.Helper()
	masterKey := make([]byte, suite.KeyLen)
	for i := range masterKey {
		masterKey[i] = byte(i + 1)
	}
	masterSalt := make([]byte, suite.SaltLen)
	for i := range masterSalt {
		masterSalt[i] = byte(0x80 + i)
	}
	c, err := srtp.NewContext(suite, masterKey, masterSalt)
	require.NoError(t, err)
	return c
}

func samplePacket(seq uint16) *rtp.Packet {
	return &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    0,
			SequenceNumber: seq,
			Timestamp:      12345,
			SSRC:           0xCAFEBABE,
		},
		Payload: []byte("sample RTP payload for round trip testing"),
	}
}

func TestContextEncryptDecryptRoundTripCM(t *testing.T) {
	enc := newTestContext(t, srtp.AES_CM_128_HMAC_SHA1_80)
	dec := newTestContext(t, srtp.AES_CM_128_HMAC_SHA1_80)

	p := samplePacket(100)
	wire, err := enc.EncryptRTP(p)
	require.NoError(t, err)

	plain, err := dec.DecryptRTP(wire)
	require.NoError(t, err)

	header, err := p.Header.Marshal()
	require.NoError(t, err)
	require.Equal(t, append(append([]byte(nil), header...), p.Payload...), plain)
}

func TestContextEncryptDecryptRoundTripF8(t *testing.T) {
	enc := newTestContext(t, srtp.F8_128_HMAC_SHA1_80)
	dec := newTestContext(t, srtp.F8_128_HMAC_SHA1_80)

	p := samplePacket(7)
	wire, err := enc.EncryptRTP(p)
	require.NoError(t, err)

	plain, err := dec.DecryptRTP(wire)
	require.NoError(t, err)

	header, err := p.Header.Marshal()
	require.NoError(t, err)
	require.Equal(t, append(append([]byte(nil), header...), p.Payload...), plain)
}

func TestContextAuthFailureDetected(t *testing.T) {
	enc := newTestContext(t, srtp.AES_CM_128_HMAC_SHA1_80)
	dec := newTestContext(t, srtp.AES_CM_128_HMAC_SHA1_80)

	wire, err := enc.EncryptRTP(samplePacket(1))
	require.NoError(t, err)

	wire[len(wire)-1] ^= 0xFF // corrupt the auth tag
	_, err = dec.DecryptRTP(wire)
	require.Error(t, err)
}

func TestReconstructIndexSequenceRollover(t *testing.T) {
	c := newTestContext(t, srtp.AES_CM_128_HMAC_SHA1_80)

	idx := c.ReconstructIndex(0xFFFE)
	require.Equal(t, uint64(0xFFFE), idx)
	c.CommitIndex(0xFFFE, idx)

	idx = c.ReconstructIndex(0x0000)
	require.Equal(t, uint64(1)<<16, idx, "SEQ rollover across 0xFFFF->0x0000 must bump ROC")
	c.CommitIndex(0x0000, idx)

	idx = c.ReconstructIndex(0x0001)
	require.Equal(t, uint64(1)<<16|1, idx)
}
