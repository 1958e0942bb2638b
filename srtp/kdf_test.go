package srtp_test

import (
	"encoding/hex"
	"testing"

	"github.com/ng911/sipstack/srtp"
	"github.com/stretchr/testify/require"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// RFC 3711 Appendix B.3 AES-128 key derivation test vector.
func TestDeriveKeyRFC3711AppendixB3(t *testing.T) {
	masterKey := hexBytes(t, "E1F97A0D3E018BE0D64FA32C06DE4139")
	masterSalt := hexBytes(t, "0EC675AD498AFEEBB6960B3AABE6")

	encKey, err := srtp.DeriveKey(masterKey, masterSalt, srtp.LabelRTPEncryption, 0, 0, 16)
	require.NoError(t, err)
	require.Equal(t, hexBytes(t, "C61E7A93744F39EE10734AFE3FF7A087"), encKey)

	salt, err := srtp.DeriveKey(masterKey, masterSalt, srtp.LabelRTPSalt, 0, 0, 14)
	require.NoError(t, err)
	require.Equal(t, hexBytes(t, "30CBBC08863D8C85D49DB34A9AE1"), salt)

	authKey, err := srtp.DeriveKey(masterKey, masterSalt, srtp.LabelRTPAuth, 0, 0, 20)
	require.NoError(t, err)
	require.Equal(t, hexBytes(t, "CEBE321F6FF7716B6FD4"), authKey[:10])
}
