package sdp

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PortManager yields the next available port for a given media type. It is
// an external collaborator — this package only consumes it.
type PortManager interface {
	NextPort(mediaType string) (int, error)
}

// LocalCapabilities describes what the local peer is willing and able to
// offer in an answer.
type LocalCapabilities struct {
	// SupportedMedia lists the media types ("audio", "video", "text",
	// "message") the local peer can answer. Anything absent is rejected
	// with port 0.
	SupportedMedia map[string]bool

	// Codecs maps media type to the locally supported rtpmap entries, in
	// preference order. Matching against the offer is by EncodingName and
	// ClockRate (channels too, when both sides give a channel count); the
	// offered PayloadType numbering is carried through unchanged in the
	// answer.
	Codecs map[string][]RtpMap

	// TelephoneEventFmtp is not read by BuildAnswer: an offered
	// telephone-event rtpmap is answered with the offer's own fmtp line
	// for that payload type.
	TelephoneEventFmtp string

	// LocalAddress is the address placed in the answer's o=/c= lines.
	LocalAddress string
	AddrType     string // "IP4" or "IP6"; defaults to the offer's

	// Fingerprint is the local DTLS-SRTP certificate fingerprint, used
	// when answering a DTLS-SRTP offer.
	Fingerprint Fingerprint

	// SRTPSuites lists the SDES-SRTP suites the local peer supports, in
	// preference order, each with its own key material to inline.
	SRTPSuites []SRTPSuiteOffer

	// MSRPHost is the hostname/IP used to build the local a=path URI
	// when answering an MSRP media description.
	MSRPHost string
	MSRPPort int
}

// SRTPSuiteOffer is a locally available SDES-SRTP suite and its ready-to-
// inline key material, used to answer an offered a=crypto line.
type SRTPSuiteOffer struct {
	Suite     string
	KeyParams string // "inline:<base64(key||salt)>[|lifetime][|mki:len]"
}

// BuildAnswer produces an answered Session for an offered Session, one
// media description at a time.
func BuildAnswer(offer *Session, caps LocalCapabilities, ports PortManager) (*Session, error) {
	addrType := caps.AddrType
	if addrType == "" {
		addrType = offer.Origin.AddrType
	}

	answer := &Session{
		Version: 0,
		Origin: Origin{
			Username:       "-",
			SessionID:      uuid.New().String(),
			SessionVersion: "1",
			NetType:        "IN",
			AddrType:       addrType,
			Address:        caps.LocalAddress,
		},
		Name: "-",
		Connection: &ConnectionData{
			NetType:  "IN",
			AddrType: addrType,
			Address:  caps.LocalAddress,
		},
		Timing: offer.Timing,
	}

	for _, om := range offer.Media {
		am, err := answerMedia(om, offer, caps, ports)
		if err != nil {
			return nil, err
		}
		answer.Media = append(answer.Media, am)
	}

	answer.ApplyDirectionInheritance()
	return answer, nil
}

func answerMedia(offered *MediaDescription, offer *Session, caps LocalCapabilities, ports PortManager) (*MediaDescription, error) {
	if !caps.SupportedMedia[offered.Type] {
		return &MediaDescription{
			Type:      offered.Type,
			Port:      0,
			Transport: offered.Transport,
			Formats:   offered.Formats,
		}, nil
	}

	if offered.IsMSRP() {
		return answerMSRP(offered, caps, ports)
	}

	port, err := ports.NextPort(offered.Type)
	if err != nil {
		return nil, err
	}

	am := &MediaDescription{
		Type:      offered.Type,
		Port:      port,
		Transport: offered.Transport,
	}

	matched := matchCodecs(offered, caps.Codecs[offered.Type])
	if len(matched) == 0 {
		am.Port = 0
		am.Formats = offered.Formats
		return am, nil
	}

	for _, m := range matched {
		am.Formats = append(am.Formats, strconv.Itoa(int(m.PayloadType)))
		am.Attributes = append(am.Attributes, m)
	}

	if offered.Type == "audio" {
		carryTelephoneEvent(offered, caps, am)
	}

	if err := answerEncryption(offered, caps, am); err != nil {
		return nil, err
	}

	return am, nil
}

// matchCodecs narrows the offered payload-type set to the first mutually
// supported encoding, preserving the offer's payload-type numbering.
func matchCodecs(offered *MediaDescription, local []RtpMap) []RtpMap {
	offeredMaps := offered.RtpMap()
	var out []RtpMap
	for _, lc := range local {
		for _, oc := range offeredMaps {
			sameChannels := oc.Channels == 0 || lc.Channels == 0 || oc.Channels == lc.Channels
			if strings.EqualFold(oc.EncodingName, lc.EncodingName) && oc.ClockRate == lc.ClockRate && sameChannels {
				out = append(out, oc)
				return out // first mutually supported encoding only
			}
		}
	}
	return out
}

func carryTelephoneEvent(offered *MediaDescription, caps LocalCapabilities, am *MediaDescription) {
	for _, r := range offered.RtpMap() {
		if !strings.EqualFold(r.EncodingName, "telephone-event") {
			continue
		}
		for _, f := range offered.Fmtp() {
			if f.PayloadType != r.PayloadType {
				continue
			}
			am.Formats = append(am.Formats, strconv.Itoa(int(r.PayloadType)))
			am.Attributes = append(am.Attributes, r, f)
			return
		}
	}
}

func answerEncryption(offered *MediaDescription, caps LocalCapabilities, am *MediaDescription) error {
	switch {
	case offered.IsDTLSSRTP():
		am.Attributes = append(am.Attributes, caps.Fingerprint)
		role := complementarySetupRole(offered)
		am.Attributes = append(am.Attributes, Setup{Role: role})
	case offered.IsSDESSRTP():
		offeredCryptos := offered.Crypto()
		for _, localSuite := range caps.SRTPSuites {
			for _, oc := range offeredCryptos {
				if oc.Suite == localSuite.Suite {
					am.Attributes = append(am.Attributes, Crypto{
						Tag:       oc.Tag,
						Suite:     localSuite.Suite,
						KeyParams: localSuite.KeyParams,
					})
					return nil
				}
			}
		}
	}
	return nil
}

// complementarySetupRole flips the connection-setup role for DTLS/MSRP:
// an offered actpass or passive role is answered active, anything else is
// answered passive.
func complementarySetupRole(offered *MediaDescription) string {
	s, ok := offered.Setup()
	if !ok {
		return "passive"
	}
	switch s.Role {
	case "actpass", "passive":
		return "active"
	default:
		return "passive"
	}
}

func answerMSRP(offered *MediaDescription, caps LocalCapabilities, ports PortManager) (*MediaDescription, error) {
	port, err := ports.NextPort(offered.Type)
	if err != nil {
		return nil, err
	}

	am := &MediaDescription{
		Type:      offered.Type,
		Port:      port,
		Transport: offered.Transport,
		Formats:   offered.Formats,
	}

	transport := "tcp"
	scheme := "msrp"
	if offered.Transport == "TCP/TLS/MSRP" {
		transport = "tls"
		scheme = "msrps"
	}

	role := complementarySetupRole(offered)
	am.Attributes = append(am.Attributes, Setup{Role: role})

	localPort := caps.MSRPPort
	if localPort == 0 {
		localPort = port
	}
	uri := scheme + "://" + caps.MSRPHost + ":" + strconv.Itoa(localPort) + "/" + uuid.New().String() + ";" + transport
	am.Attributes = append(am.Attributes, Path{URIs: []string{uri}})

	return am, nil
}
