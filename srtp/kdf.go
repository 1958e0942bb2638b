package srtp

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// Key derivation labels (RFC 3711 §4.3 / RFC 6188).
const (
	LabelRTPEncryption  byte = 0x00
	LabelRTPAuth        byte = 0x01
	LabelRTPSalt        byte = 0x02
	LabelRTCPEncryption byte = 0x03
	LabelRTCPAuth       byte = 0x04
	LabelRTCPSalt       byte = 0x05
)

// DeriveKey implements the SRTP pseudo-random function: given the master
// key/salt, a derivation label, the current packet index, and the
// key-derivation rate, it produces length bytes of session key material.
func DeriveKey(masterKey, masterSalt []byte, label byte, index uint64, kdr uint64, length int) ([]byte, error) {
	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return nil, err
	}

	x := make([]byte, len(masterSalt))
	copy(x, masterSalt)

	var r uint64
	if kdr != 0 {
		r = index / kdr
	}
	if r != 0 && len(x) >= 8 {
		var rBuf [8]byte
		binary.BigEndian.PutUint64(rBuf[:], r)
		tail := x[len(x)-8:]
		for i := range tail {
			tail[i] ^= rBuf[i]
		}
	}
	if len(x) >= 7 {
		x[len(x)-7] ^= label
	}

	iv := make([]byte, aes.BlockSize)
	copy(iv, x)

	out := make([]byte, length)
	cipher.NewCTR(block, iv).XORKeyStream(out, out)
	return out, nil
}
