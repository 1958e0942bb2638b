package srtp

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// aesCounterMode XORs payload in place with the AES-CM keystream for the
// given SSRC and 48-bit packet index. The IV places the session salt in
// the high-order 14 bytes, then XORs in the SSRC at bytes 4..7 and the
// packet index at bytes 6..13.
func aesCounterMode(block cipher.Block, salt []byte, ssrc uint32, index uint64, payload []byte) {
	iv := make([]byte, aes.BlockSize)
	copy(iv, salt)

	var ssrcBuf [4]byte
	binary.BigEndian.PutUint32(ssrcBuf[:], ssrc)
	for i, b := range ssrcBuf {
		iv[4+i] ^= b
	}

	var idxBuf [8]byte
	binary.BigEndian.PutUint64(idxBuf[:], index)
	for i, b := range idxBuf {
		iv[6+i] ^= b
	}

	cipher.NewCTR(block, iv).XORKeyStream(payload, payload)
}
