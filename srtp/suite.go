// Package srtp implements the SRTP/SRTCP cryptographic transform: crypto
// suite registration, RFC 3711 key derivation, AES-CM and AES-F8 packet
// encryption, and HMAC-SHA1 authentication with packet-index reconstruction.
package srtp

import "fmt"

// CipherFamily names the stream cipher mode a suite uses.
type CipherFamily string

const (
	CipherAESCM CipherFamily = "AES-CM"
	CipherAESF8 CipherFamily = "AES-F8"
)

// Suite is a named SRTP crypto suite record.
type Suite struct {
	Name       string
	Cipher     CipherFamily
	KeyLen     int // master/session encryption key length, bytes
	SaltLen    int // always 14
	AuthKeyLen int // always 20 for HMAC-SHA1
	TagLen     int // 4 or 10
}

var (
	AES_CM_128_HMAC_SHA1_80 = Suite{Name: "AES_CM_128_HMAC_SHA1_80", Cipher: CipherAESCM, KeyLen: 16, SaltLen: 14, AuthKeyLen: 20, TagLen: 10}
	AES_CM_128_HMAC_SHA1_32 = Suite{Name: "AES_CM_128_HMAC_SHA1_32", Cipher: CipherAESCM, KeyLen: 16, SaltLen: 14, AuthKeyLen: 20, TagLen: 4}
	F8_128_HMAC_SHA1_80     = Suite{Name: "F8_128_HMAC_SHA1_80", Cipher: CipherAESF8, KeyLen: 16, SaltLen: 14, AuthKeyLen: 20, TagLen: 10}
	AES_192_CM_HMAC_SHA1_80 = Suite{Name: "AES_192_CM_HMAC_SHA1_80", Cipher: CipherAESCM, KeyLen: 24, SaltLen: 14, AuthKeyLen: 20, TagLen: 10}
	AES_192_CM_HMAC_SHA1_32 = Suite{Name: "AES_192_CM_HMAC_SHA1_32", Cipher: CipherAESCM, KeyLen: 24, SaltLen: 14, AuthKeyLen: 20, TagLen: 4}
	AES_256_CM_HMAC_SHA1_80 = Suite{Name: "AES_256_CM_HMAC_SHA1_80", Cipher: CipherAESCM, KeyLen: 32, SaltLen: 14, AuthKeyLen: 20, TagLen: 10}
	AES_256_CM_HMAC_SHA1_32 = Suite{Name: "AES_256_CM_HMAC_SHA1_32", Cipher: CipherAESCM, KeyLen: 32, SaltLen: 14, AuthKeyLen: 20, TagLen: 4}
)

var registry = map[string]Suite{
	AES_CM_128_HMAC_SHA1_80.Name: AES_CM_128_HMAC_SHA1_80,
	AES_CM_128_HMAC_SHA1_32.Name: AES_CM_128_HMAC_SHA1_32,
	F8_128_HMAC_SHA1_80.Name:     F8_128_HMAC_SHA1_80,
	AES_192_CM_HMAC_SHA1_80.Name: AES_192_CM_HMAC_SHA1_80,
	AES_192_CM_HMAC_SHA1_32.Name: AES_192_CM_HMAC_SHA1_32,
	AES_256_CM_HMAC_SHA1_80.Name: AES_256_CM_HMAC_SHA1_80,
	AES_256_CM_HMAC_SHA1_32.Name: AES_256_CM_HMAC_SHA1_32,
}

// Lookup finds a registered suite by its SDP crypto-attribute name.
func Lookup(name string) (Suite, bool) {
	s, ok := registry[name]
	return s, ok
}

// ErrUnknownSuite is returned by Lookup callers that require the suite to exist.
type ErrUnknownSuite struct{ Name string }

func (e ErrUnknownSuite) Error() string {
	return fmt.Sprintf("srtp: unknown crypto suite %q", e.Name)
}
