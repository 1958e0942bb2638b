package msrp

// EventSink is installed once per Connection and receives every inbound
// event the connection produces. Modeling events as a single sink object,
// rather than a separate delegate per event, lets one application type
// implement all five and register once at construction.
type EventSink interface {
	// MessageReceived fires once a SEND transaction's Complete chunk has
	// been reassembled with any preceding Continuation chunks.
	MessageReceived(contentType string, payload []byte, from string)

	// MessageDeliveryFailed fires when an outbound message's transmission
	// exhausts its retry budget, times out, or receives a non-200
	// response.
	MessageDeliveryFailed(message *Frame, remoteURI string, statusCode int, statusText string)

	// ReportReceived fires when an inbound REPORT request arrives.
	ReportReceived(messageID string, totalBytes int, statusCode int, statusText string)

	// ConnectionEstablished fires once after the transport (and TLS
	// handshake, if any) completes.
	ConnectionEstablished(isPassive bool, remoteURI string)

	// ConnectionFailed fires once for any failure reaching Established,
	// or for a failure thereafter that tears the connection down.
	ConnectionFailed(peerURI string, err error)
}

// NopEventSink implements EventSink with no-op methods, useful as an
// embeddable base for partial sink implementations in tests.
type NopEventSink struct{}

func (NopEventSink) MessageReceived(string, []byte, string)            {}
func (NopEventSink) MessageDeliveryFailed(*Frame, string, int, string) {}
func (NopEventSink) ReportReceived(string, int, int, string)           {}
func (NopEventSink) ConnectionEstablished(bool, string)                 {}
func (NopEventSink) ConnectionFailed(string, error)                     {}
