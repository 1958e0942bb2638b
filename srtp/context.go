package srtp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ng911/sipstack/metrics"
	"github.com/pion/rtp"
)

const rocDisorderWindow = 32768

// MKI identifies a master key among several stored under one session.
type MKI struct {
	Value []byte
	Len   int
}

// Context is a direction-private SRTP cryptographic context: one Context
// encrypts, a separate Context (sharing only the master key/salt) decrypts
// the other direction.
type Context struct {
	Suite      Suite
	MasterKey  []byte
	MasterSalt []byte
	KDR        uint64
	MKI        *MKI

	ssrc               uint32
	ssrcLocked         bool
	roc                uint32
	highestSeq         uint16
	rolloverInitalized bool

	sessionEncKey  []byte
	sessionAuthKey []byte
	sessionSalt    []byte
	block          cipher.Block

	srtcpEncKey  []byte
	srtcpAuthKey []byte
	srtcpSalt    []byte
	srtcpBlock   cipher.Block
}

// NewContext derives session keys from the master key/salt at packet index
// 0 and returns a ready-to-use Context. Keys are derived only here, with
// KDR still 0; they are not re-derived as the packet index advances, even
// if KDR is set afterwards.
func NewContext(suite Suite, masterKey, masterSalt []byte) (*Context, error) {
	if len(masterKey) != suite.KeyLen {
		return nil, fmt.Errorf("srtp: master key must be %d bytes, got %d", suite.KeyLen, len(masterKey))
	}
	if len(masterSalt) != suite.SaltLen {
		return nil, fmt.Errorf("srtp: master salt must be %d bytes, got %d", suite.SaltLen, len(masterSalt))
	}

	c := &Context{Suite: suite, MasterKey: masterKey, MasterSalt: masterSalt}
	if err := c.deriveSessionKeys(0); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) deriveSessionKeys(index uint64) error {
	encKey, err := DeriveKey(c.MasterKey, c.MasterSalt, LabelRTPEncryption, index, c.KDR, c.Suite.KeyLen)
	if err != nil {
		return err
	}
	authKey, err := DeriveKey(c.MasterKey, c.MasterSalt, LabelRTPAuth, index, c.KDR, c.Suite.AuthKeyLen)
	if err != nil {
		return err
	}
	salt, err := DeriveKey(c.MasterKey, c.MasterSalt, LabelRTPSalt, index, c.KDR, c.Suite.SaltLen)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return err
	}

	c.sessionEncKey = encKey
	c.sessionAuthKey = authKey
	c.sessionSalt = salt
	c.block = block

	rtcpEncKey, err := DeriveKey(c.MasterKey, c.MasterSalt, LabelRTCPEncryption, index, c.KDR, c.Suite.KeyLen)
	if err != nil {
		return err
	}
	rtcpAuthKey, err := DeriveKey(c.MasterKey, c.MasterSalt, LabelRTCPAuth, index, c.KDR, c.Suite.AuthKeyLen)
	if err != nil {
		return err
	}
	rtcpSalt, err := DeriveKey(c.MasterKey, c.MasterSalt, LabelRTCPSalt, index, c.KDR, c.Suite.SaltLen)
	if err != nil {
		return err
	}
	rtcpBlock, err := aes.NewCipher(rtcpEncKey)
	if err != nil {
		return err
	}
	c.srtcpEncKey = rtcpEncKey
	c.srtcpAuthKey = rtcpAuthKey
	c.srtcpSalt = rtcpSalt
	c.srtcpBlock = rtcpBlock
	return nil
}

// ReconstructIndex applies the RFC 3711 ROC-estimation algorithm to an
// incoming 16-bit sequence number and returns the 48-bit packet index.
// It does not mutate the context; call CommitIndex after verification.
func (c *Context) ReconstructIndex(seq uint16) uint64 {
	if !c.rolloverInitalized {
		return uint64(c.roc)<<16 | uint64(seq)
	}

	roc := c.roc
	sl := int(c.highestSeq)
	s := int(seq)

	switch {
	case sl < rocDisorderWindow:
		if absInt(s-sl) > rocDisorderWindow {
			roc--
		}
	default:
		if s-sl < -rocDisorderWindow {
			roc++
		}
	}

	return uint64(roc)<<16 | uint64(seq)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CommitIndex updates ROC and the high-water sequence number after a packet
// at the given reconstructed index has been successfully authenticated.
func (c *Context) CommitIndex(seq uint16, index uint64) {
	newROC := uint32(index >> 16)
	if !c.rolloverInitalized {
		c.roc = newROC
		c.highestSeq = seq
		c.rolloverInitalized = true
		return
	}
	if newROC != c.roc {
		metrics.SrtpRolloverTotal.Inc()
	}
	if index > uint64(c.roc)<<16|uint64(c.highestSeq) {
		c.roc = newROC
		c.highestSeq = seq
	}
}

// EncryptRTP authenticates and encrypts an RTP packet and returns the SRTP
// bytes; packet itself is not modified. The payload is encrypted, then
// optionally an MKI is appended, then the auth
// tag computed over header||ciphertext||ROC is appended.
func (c *Context) EncryptRTP(packet *rtp.Packet) ([]byte, error) {
	if c.ssrc != 0 && c.ssrc != packet.SSRC {
		return nil, errors.New("srtp: packet SSRC does not match context")
	}
	c.ssrc = packet.SSRC

	seq := packet.SequenceNumber
	index := c.ReconstructIndex(seq)

	header, err := packet.Header.Marshal()
	if err != nil {
		return nil, err
	}

	payload := append([]byte(nil), packet.Payload...)
	if err := c.transform(payload, packet.SSRC, index); err != nil {
		return nil, err
	}

	out := append(append([]byte(nil), header...), payload...)
	if c.MKI != nil && c.MKI.Len > 0 {
		out = append(out, c.MKI.Value...)
	}

	tag := c.authTag(out, index)
	out = append(out, tag...)

	c.CommitIndex(seq, index)
	metrics.SrtpPacketsTotal.WithLabelValues("outbound", "encrypted").Inc()
	return out, nil
}

// DecryptRTP verifies and decrypts an SRTP packet, returning the plaintext
// RTP packet bytes (header + plaintext payload).
func (c *Context) DecryptRTP(buf []byte) ([]byte, error) {
	p := &rtp.Packet{}
	if err := p.Unmarshal(buf); err != nil {
		return nil, fmt.Errorf("srtp: %w", err)
	}

	headerLen := len(buf) - len(p.Payload)
	if headerLen < 0 {
		return nil, errors.New("srtp: malformed packet")
	}

	mkiLen := 0
	if c.MKI != nil {
		mkiLen = c.MKI.Len
	}
	tagLen := c.Suite.TagLen
	if len(p.Payload) < tagLen+mkiLen {
		metrics.SrtpPacketsTotal.WithLabelValues("inbound", "too-short").Inc()
		return nil, errors.New("srtp: packet shorter than auth tag")
	}

	cipherEnd := len(buf) - tagLen
	index := c.ReconstructIndex(p.SequenceNumber)

	expectedTag := c.authTag(buf[:cipherEnd], index)
	if !hmac.Equal(expectedTag, buf[cipherEnd:]) {
		metrics.SrtpPacketsTotal.WithLabelValues("inbound", "auth-failed").Inc()
		return nil, errors.New("auth-failed")
	}

	payloadEnd := cipherEnd - mkiLen
	payload := append([]byte(nil), buf[headerLen:payloadEnd]...)
	if err := c.transform(payload, p.SSRC, index); err != nil {
		return nil, err
	}

	c.CommitIndex(p.SequenceNumber, index)
	metrics.SrtpPacketsTotal.WithLabelValues("inbound", "decrypted").Inc()
	return append(append([]byte(nil), buf[:headerLen]...), payload...), nil
}

func (c *Context) transform(payload []byte, ssrc uint32, index uint64) error {
	switch c.Suite.Cipher {
	case CipherAESCM:
		aesCounterMode(c.block, c.sessionSalt, ssrc, index, payload)
		return nil
	case CipherAESF8:
		iv := f8IV(ssrc, index, c.sessionSalt)
		return aesF8(c.sessionEncKey, iv, payload)
	default:
		return fmt.Errorf("srtp: unsupported cipher family %q", c.Suite.Cipher)
	}
}

func (c *Context) rtcpTransform(payload []byte, ssrc uint32, index uint64) error {
	switch c.Suite.Cipher {
	case CipherAESCM:
		aesCounterMode(c.srtcpBlock, c.srtcpSalt, ssrc, index, payload)
		return nil
	case CipherAESF8:
		iv := f8IV(ssrc, index, c.srtcpSalt)
		return aesF8(c.srtcpEncKey, iv, payload)
	default:
		return fmt.Errorf("srtp: unsupported cipher family %q", c.Suite.Cipher)
	}
}

// f8IV builds the 128-bit F8 mode IV per RFC 3711 §4.1.2: a zero marker/PT
// octet, the SSRC, the ROC, and the sequence number, salted with the
// session salt in its low-order bytes.
func f8IV(ssrc uint32, index uint64, salt []byte) []byte {
	iv := make([]byte, aes.BlockSize)
	iv[0] = 0x00
	binary.BigEndian.PutUint32(iv[4:8], ssrc)
	binary.BigEndian.PutUint32(iv[8:12], uint32(index>>16))
	binary.BigEndian.PutUint16(iv[12:14], uint16(index))
	for i, b := range salt {
		if i >= len(iv) {
			break
		}
		iv[i] ^= b
	}
	return iv
}

func (c *Context) authTag(data []byte, index uint64) []byte {
	mac := hmac.New(sha1.New, c.sessionAuthKey)
	mac.Write(data)
	var rocBuf [4]byte
	binary.BigEndian.PutUint32(rocBuf[:], uint32(index>>16))
	mac.Write(rocBuf[:])
	return mac.Sum(nil)[:c.Suite.TagLen]
}
