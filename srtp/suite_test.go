package srtp_test

import (
	"testing"

	"github.com/ng911/sipstack/srtp"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownSuite(t *testing.T) {
	s, ok := srtp.Lookup("AES_CM_128_HMAC_SHA1_80")
	require.True(t, ok)
	require.Equal(t, 16, s.KeyLen)
	require.Equal(t, 10, s.TagLen)
	require.Equal(t, srtp.CipherAESCM, s.Cipher)
}

func TestLookupUnknownSuite(t *testing.T) {
	_, ok := srtp.Lookup("NOT_A_SUITE")
	require.False(t, ok)
}

func TestAllSuitesHaveFixedSaltAndAuthKeyLength(t *testing.T) {
	for _, s := range []srtp.Suite{
		srtp.AES_CM_128_HMAC_SHA1_80,
		srtp.AES_CM_128_HMAC_SHA1_32,
		srtp.F8_128_HMAC_SHA1_80,
		srtp.AES_192_CM_HMAC_SHA1_80,
		srtp.AES_192_CM_HMAC_SHA1_32,
		srtp.AES_256_CM_HMAC_SHA1_80,
		srtp.AES_256_CM_HMAC_SHA1_32,
	} {
		require.Equal(t, 14, s.SaltLen, s.Name)
		require.Equal(t, 20, s.AuthKeyLen, s.Name)
	}
}
