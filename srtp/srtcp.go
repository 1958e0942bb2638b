package srtp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"errors"

	"github.com/ng911/sipstack/metrics"
	"github.com/pion/rtcp"
)

const srtcpEFlag = 1 << 31

// EncryptRTCP protects a serialized compound RTCP packet: the payload
// after the fixed 8-byte RTCP header is encrypted, then the E-flag||index
// word and auth tag are appended.
func (c *Context) EncryptRTCP(packet rtcp.Packet, index uint32) ([]byte, error) {
	raw, err := packet.Marshal()
	if err != nil {
		return nil, err
	}
	if len(raw) < 8 {
		return nil, errors.New("srtcp: packet shorter than fixed header")
	}

	ssrc := binary.BigEndian.Uint32(raw[4:8])
	body := append([]byte(nil), raw[8:]...)
	if err := c.rtcpTransform(body, ssrc, uint64(index)); err != nil {
		return nil, err
	}

	out := append(append([]byte(nil), raw[:8]...), body...)

	var idxWord [4]byte
	binary.BigEndian.PutUint32(idxWord[:], srtcpEFlag|index)
	out = append(out, idxWord[:]...)

	tag := c.srtcpAuthTag(out)
	out = append(out, tag...)

	metrics.SrtpPacketsTotal.WithLabelValues("outbound", "srtcp-encrypted").Inc()
	return out, nil
}

// DecryptRTCP verifies and decrypts an SRTCP packet, returning the
// plaintext compound RTCP bytes and the extracted 31-bit index.
func (c *Context) DecryptRTCP(buf []byte) ([]byte, uint32, error) {
	tagLen := c.Suite.TagLen
	if len(buf) < 8+4+tagLen {
		metrics.SrtpPacketsTotal.WithLabelValues("inbound", "srtcp-too-short").Inc()
		return nil, 0, errors.New("srtcp: packet too short")
	}

	tagStart := len(buf) - tagLen
	indexStart := tagStart - 4

	expectedTag := c.srtcpAuthTag(buf[:tagStart])
	if !hmac.Equal(expectedTag, buf[tagStart:]) {
		metrics.SrtpPacketsTotal.WithLabelValues("inbound", "srtcp-auth-failed").Inc()
		return nil, 0, errors.New("auth-failed")
	}

	idxWord := binary.BigEndian.Uint32(buf[indexStart:tagStart])
	encrypted := idxWord&srtcpEFlag != 0
	index := idxWord &^ srtcpEFlag

	ssrc := binary.BigEndian.Uint32(buf[4:8])
	body := append([]byte(nil), buf[8:indexStart]...)
	if encrypted {
		if err := c.rtcpTransform(body, ssrc, uint64(index)); err != nil {
			return nil, 0, err
		}
	}

	metrics.SrtpPacketsTotal.WithLabelValues("inbound", "srtcp-decrypted").Inc()
	return append(append([]byte(nil), buf[:8]...), body...), index, nil
}

// srtcpAuthTag computes the MAC over the authenticated portion directly;
// unlike the SRTP tag, the ROC is not appended separately because the
// E-flag||index word already carries the equivalent information.
func (c *Context) srtcpAuthTag(data []byte) []byte {
	mac := hmac.New(sha1.New, c.srtcpAuthKey)
	mac.Write(data)
	return mac.Sum(nil)[:c.Suite.TagLen]
}
