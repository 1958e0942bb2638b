package srtp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// aesF8 is an XOR stream cipher: applying it twice with the same key and
// IV is an involution, recovering the original plaintext. This is the
// round-trip property the SRTP transform as a whole relies on
// (decrypt(encrypt(P)) == P), specialized to the F8 keystream in isolation.
func TestAesF8RoundTrip(t *testing.T) {
	key := []byte("0123456789ABCDEF")
	iv := []byte("FEDCBA9876543210")
	plaintext := []byte("pseudorandomness is the next best thing")

	ciphertext := append([]byte(nil), plaintext...)
	require.NoError(t, aesF8(key, iv, ciphertext))
	require.False(t, bytes.Equal(ciphertext, plaintext))

	recovered := append([]byte(nil), ciphertext...)
	require.NoError(t, aesF8(key, iv, recovered))
	require.Equal(t, plaintext, recovered)
}

func TestAesF8ProducesDistinctKeystreamPerIV(t *testing.T) {
	key := []byte("0123456789ABCDEF")
	plaintext := bytes.Repeat([]byte{0x00}, 32)

	out1 := append([]byte(nil), plaintext...)
	require.NoError(t, aesF8(key, []byte("IV-AAAAAAAAAAAAA"), out1))

	out2 := append([]byte(nil), plaintext...)
	require.NoError(t, aesF8(key, []byte("IV-BBBBBBBBBBBBB"), out2))

	require.NotEqual(t, out1, out2)
}
