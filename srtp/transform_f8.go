package srtp

import (
	"crypto/aes"
	"encoding/binary"
)

// f8Mask is the constant 128-bit value RFC 3711 §4.1.2 XORs into the
// encryption key to derive the masked key used for the IV' computation.
var f8Mask = []byte{
	0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55,
	0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55,
}

// aesF8 implements the AES-F8 keystream construction of RFC 3711 §4.1.2 and
// XORs it with data in place:
//
//	IV'   = E(k_e XOR m, IV)
//	S(-1) = 0
//	S(j)  = E(k_e, IV' XOR j XOR S(j-1))
func aesF8(key, iv, data []byte) error {
	masked := make([]byte, len(key))
	for i := range key {
		masked[i] = key[i] ^ f8Mask[i%len(f8Mask)]
	}

	maskedBlock, err := aes.NewCipher(masked)
	if err != nil {
		return err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}

	ivPrime := make([]byte, aes.BlockSize)
	maskedBlock.Encrypt(ivPrime, iv)

	s := make([]byte, aes.BlockSize)
	xorInput := make([]byte, aes.BlockSize)
	var jBuf [aes.BlockSize]byte

	for offset := 0; offset < len(data); offset += aes.BlockSize {
		j := uint64(offset / aes.BlockSize)
		binary.BigEndian.PutUint64(jBuf[8:], j)

		for i := range xorInput {
			xorInput[i] = ivPrime[i] ^ jBuf[i] ^ s[i]
		}
		block.Encrypt(s, xorInput)

		end := offset + aes.BlockSize
		if end > len(data) {
			end = len(data)
		}
		for i := offset; i < end; i++ {
			data[i] ^= s[i-offset]
		}
	}
	return nil
}
