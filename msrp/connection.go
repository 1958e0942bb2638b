package msrp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ng911/sipstack/metrics"
	"github.com/rs/zerolog"
)

// ConnState is the connection lifecycle state machine.
type ConnState int

const (
	Idle ConnState = iota
	Connecting
	Listening
	Authenticating
	Established
	ShuttingDown
	Closed
)

func (s ConnState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Connecting:
		return "Connecting"
	case Listening:
		return "Listening"
	case Authenticating:
		return "Authenticating"
	case Established:
		return "Established"
	case ShuttingDown:
		return "ShuttingDown"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// TLSUpgrader upgrades a plain TCP connection to TLS for the msrps scheme.
// It is pluggable so a caller can swap in its own certificate policy
// instead of the permissive default.
type TLSUpgrader interface {
	Upgrade(conn net.Conn, cfg *tls.Config, isClient bool) (net.Conn, error)
}

// DefaultTLSUpgrader performs a standard TLS handshake. When Config is nil
// it builds one with InsecureSkipVerify: true, favoring interoperability
// with relays that present certificates not chained to a known root.
type DefaultTLSUpgrader struct {
	Config *tls.Config
}

func (d DefaultTLSUpgrader) Upgrade(conn net.Conn, cfg *tls.Config, isClient bool) (net.Conn, error) {
	if cfg == nil {
		cfg = d.Config
	}
	if cfg == nil {
		cfg = &tls.Config{InsecureSkipVerify: true}
	}
	if isClient {
		tc := tls.Client(conn, cfg)
		if err := tc.HandshakeContext(context.Background()); err != nil {
			return nil, err
		}
		return tc, nil
	}
	ts := tls.Server(conn, cfg)
	if err := ts.HandshakeContext(context.Background()); err != nil {
		return nil, err
	}
	return ts, nil
}

const (
	transmitTimeout = 500 * time.Millisecond
	maxAttempts     = 3
	chunkSize       = 2048
)

type pendingRequest struct {
	frame     *Frame
	remoteURI string
}

// Connection implements the MSRP connection engine: a client or server
// construction mode, the lifecycle state machine, chunked message
// send/receive, and the single dedicated transmit task.
type Connection struct {
	LocalURI  *URI
	RemoteURI *URI

	sink        EventSink
	tlsUpgrader TLSUpgrader
	tlsConfig   *tls.Config
	log         zerolog.Logger

	mu       sync.Mutex
	state    ConnState
	conn     net.Conn
	listener net.Listener
	awaiting map[string]chan *Frame
	chunks   map[string][]byte

	requestQueue  chan *pendingRequest
	responseQueue chan *Frame
	stopCh        chan struct{}
	stopOnce      sync.Once
	startOnce     sync.Once
	wg            sync.WaitGroup
}

// ConnectionOption configures a Connection at construction.
type ConnectionOption func(*Connection)

// WithEventSink installs the application's event sink.
func WithEventSink(sink EventSink) ConnectionOption {
	return func(c *Connection) { c.sink = sink }
}

// WithTLSUpgrader overrides the default accept-any-certificate TLS policy.
func WithTLSUpgrader(u TLSUpgrader) ConnectionOption {
	return func(c *Connection) { c.tlsUpgrader = u }
}

// WithTLSConfig supplies a *tls.Config (e.g. a local client certificate)
// used by the default TLS upgrader.
func WithTLSConfig(cfg *tls.Config) ConnectionOption {
	return func(c *Connection) { c.tlsConfig = cfg }
}

// WithConnectionLogger overrides the connection's logger.
func WithConnectionLogger(l zerolog.Logger) ConnectionOption {
	return func(c *Connection) { c.log = l }
}

func newConnection(local, remote *URI, opts ...ConnectionOption) *Connection {
	c := &Connection{
		LocalURI:      local,
		RemoteURI:     remote,
		sink:          NopEventSink{},
		tlsUpgrader:   DefaultTLSUpgrader{},
		log:           zerolog.Nop(),
		state:         Idle,
		awaiting:      make(map[string]chan *Frame),
		chunks:        make(map[string][]byte),
		requestQueue:  make(chan *pendingRequest, 64),
		responseQueue: make(chan *Frame, 64),
		stopCh:        make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the connection's current lifecycle state.
func (c *Connection) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Connection) fail(peerURI string, err error) {
	c.setState(Closed)
	c.sink.ConnectionFailed(peerURI, err)
}

// DialClient implements the client construction mode: binds locally,
// connects to the remote endpoint, upgrades to TLS for msrps,
// and on success emits a bodyless SEND probe.
func DialClient(ctx context.Context, local, remote *URI, opts ...ConnectionOption) (*Connection, error) {
	c := newConnection(local, remote, opts...)
	c.setState(Connecting)

	addr := net.JoinHostPort(remote.Host, strconv.Itoa(remote.Port))
	dialer := &net.Dialer{}
	if local != nil {
		dialer.LocalAddr = &net.TCPAddr{IP: net.ParseIP(local.Host), Port: local.Port}
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.fail(remote.String(), err)
		return nil, err
	}

	if remote.Secure {
		c.setState(Authenticating)
		tconn, err := c.tlsUpgrader.Upgrade(conn, c.tlsConfig, true)
		if err != nil {
			conn.Close()
			c.fail(remote.String(), err)
			return nil, err
		}
		conn = tconn
	}

	c.mu.Lock()
	c.conn = conn
	c.state = Established
	c.mu.Unlock()

	c.start()
	c.sink.ConnectionEstablished(false, remote.String())
	c.sendProbe()
	return c, nil
}

// ListenServer implements the server construction mode: binds and listens
// locally, accepting only a peer whose IP address equals
// expectedRemote.Host (the host agreed in SDP); the peer's port is not
// compared. A second accept preempts any currently-connected peer.
func ListenServer(local, expectedRemote *URI, opts ...ConnectionOption) (*Connection, error) {
	c := newConnection(local, expectedRemote, opts...)
	c.setState(Listening)

	ln, err := net.Listen("tcp", net.JoinHostPort(local.Host, strconv.Itoa(local.Port)))
	if err != nil {
		c.fail(local.String(), err)
		return nil, err
	}
	c.listener = ln

	go c.acceptLoop(expectedRemote)
	return c, nil
}

func (c *Connection) acceptLoop(expected *URI) {
	for {
		conn, err := c.listener.Accept()
		if err != nil {
			return
		}

		if expected != nil {
			host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
			if host != expected.Host {
				conn.Close()
				continue
			}
		}

		c.mu.Lock()
		prev := c.conn
		c.mu.Unlock()
		if prev != nil {
			// A second accept preempts the first.
			prev.Close()
		}

		if expected != nil && expected.Secure {
			c.setState(Authenticating)
			tconn, err := c.tlsUpgrader.Upgrade(conn, c.tlsConfig, false)
			if err != nil {
				conn.Close()
				c.fail(expected.String(), err)
				continue
			}
			conn = tconn
		}

		c.mu.Lock()
		c.conn = conn
		c.state = Established
		c.mu.Unlock()

		c.start()
		peer := ""
		if expected != nil {
			peer = expected.String()
		}
		c.sink.ConnectionEstablished(true, peer)
	}
}

// start launches the read loop and the single dedicated transmit task.
// A server connection that is preempted by a second accept reuses these
// same loops against the replaced c.conn rather than launching new ones.
func (c *Connection) start() {
	c.startOnce.Do(func() {
		c.wg.Add(2)
		go c.readLoop()
		go c.transmitLoop()
	})
}

// Shutdown closes the transport, cancels the transmit task, and discards
// any pending sends. Safe to call more than once.
func (c *Connection) Shutdown() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.setState(ShuttingDown)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		if c.listener != nil {
			c.listener.Close()
		}
		c.mu.Unlock()
	})
	c.wg.Wait()
	c.setState(Closed)
}

func (c *Connection) sendProbe() {
	c.enqueueRequest(c.newFrame(SEND, "", "", ByteRange{}, nil, Complete))
}

func (c *Connection) newFrame(method Method, messageID, contentType string, br ByteRange, body []byte, completion CompletionStatus) *Frame {
	local := ""
	if c.LocalURI != nil {
		local = c.LocalURI.String()
	}
	remote := ""
	if c.RemoteURI != nil {
		remote = c.RemoteURI.String()
	}
	f := &Frame{
		TransactionID: shortToken(),
		IsRequest:     true,
		Method:        method,
		ToPath:        []string{remote},
		FromPath:      []string{local},
		MessageID:     messageID,
		ContentType:   contentType,
		ByteRange:     br,
		Body:          body,
		Completion:    completion,
	}
	return f
}

func shortToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

// SendMsrpMessage splits payload into ceil(len/2048) chunks of at most
// 2048 bytes each and enqueues one SEND request per chunk.
func (c *Connection) SendMsrpMessage(contentType string, payload []byte, messageID string) {
	reportRequested := messageID != ""
	if messageID == "" {
		messageID = uuid.New().String()
	}

	total := len(payload)
	if total == 0 {
		f := c.newFrame(SEND, messageID, contentType, ByteRange{Start: 1, End: 0, Total: 0}, nil, Complete)
		f.SuccessReport = reportRequested
		f.FailureReport = reportRequested
		c.enqueueRequest(f)
		return
	}

	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		completion := Continuation
		if end == total {
			completion = Complete
		}
		br := ByteRange{Start: start + 1, End: end, Total: total}
		f := c.newFrame(SEND, messageID, contentType, br, payload[start:end], completion)
		f.SuccessReport = reportRequested
		f.FailureReport = reportRequested
		metrics.MsrpMessagesTotal.WithLabelValues("outbound", "queued").Inc()
		c.enqueueRequest(f)
	}
}

func (c *Connection) enqueueRequest(f *Frame) {
	select {
	case c.requestQueue <- &pendingRequest{frame: f, remoteURI: remoteURIString(c.RemoteURI)}:
	case <-c.stopCh:
	}
}

func (c *Connection) enqueueResponse(f *Frame) {
	select {
	case c.responseQueue <- f:
	case <-c.stopCh:
	}
}

func remoteURIString(u *URI) string {
	if u == nil {
		return ""
	}
	return u.String()
}

// transmitLoop is the single dedicated transmit consumer: it drains the
// response queue without waiting, then sends the head request and waits
// for its matching response (or times out and retries), one request in
// flight at a time.
func (c *Connection) transmitLoop() {
	defer c.wg.Done()
	for {
		c.drainResponses()

		select {
		case <-c.stopCh:
			return
		case resp := <-c.responseQueue:
			c.writeFrame(resp)
		case req := <-c.requestQueue:
			c.sendWithRetry(req)
		}
	}
}

func (c *Connection) drainResponses() {
	for {
		select {
		case resp := <-c.responseQueue:
			c.writeFrame(resp)
		default:
			return
		}
	}
}

func (c *Connection) sendWithRetry(req *pendingRequest) {
	if req.frame.Method == REPORT {
		// REPORT requests are fire-and-forget.
		c.writeFrame(req.frame)
		return
	}

	respCh := make(chan *Frame, 1)
	c.mu.Lock()
	c.awaiting[req.frame.TransactionID] = respCh
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.awaiting, req.frame.TransactionID)
		c.mu.Unlock()
	}()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.writeFrame(req.frame); err != nil {
			c.sink.MessageDeliveryFailed(req.frame, req.remoteURI, 0, err.Error())
			return
		}

		timer := time.NewTimer(transmitTimeout)
		select {
		case resp := <-respCh:
			timer.Stop()
			if resp.Code == 200 {
				return
			}
			c.sink.MessageDeliveryFailed(req.frame, req.remoteURI, resp.Code, resp.Reason)
			return
		case <-timer.C:
			metrics.MsrpTransmitRetries.Inc()
			continue
		case <-c.stopCh:
			timer.Stop()
			return
		}
	}

	c.sink.MessageDeliveryFailed(req.frame, req.remoteURI, 481, "Timeout")
}

func (c *Connection) writeFrame(f *Frame) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("msrp: no active connection")
	}
	_, err := conn.Write(Encode(f))
	if err != nil {
		select {
		case <-c.stopCh:
			return nil // a write racing a concurrent Shutdown is expected, not a failure
		default:
			c.sink.ConnectionFailed(remoteURIString(c.RemoteURI), err)
		}
	}
	return err
}

// readLoop feeds the stream parser from the transport and classifies
// every decoded transaction.
func (c *Connection) readLoop() {
	defer c.wg.Done()
	parser := NewStreamParser()
	buf := make([]byte, 4096)

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		n, err := conn.Read(buf)
		if err != nil {
			select {
			case <-c.stopCh:
				return
			default:
			}
			c.mu.Lock()
			superseded := c.conn != conn
			c.mu.Unlock()
			if superseded {
				parser = NewStreamParser()
				continue
			}
			c.sink.ConnectionFailed(remoteURIString(c.RemoteURI), err)
			return
		}

		for _, raw := range parser.Feed(buf[:n]) {
			f, err := Decode(raw)
			if err != nil {
				c.log.Info().Err(err).Msg("dropping malformed MSRP transaction")
				continue
			}
			c.handleIncoming(f)
		}
	}
}

func (c *Connection) handleIncoming(f *Frame) {
	if !f.IsRequest {
		c.mu.Lock()
		ch, ok := c.awaiting[f.TransactionID]
		c.mu.Unlock()
		if ok {
			select {
			case ch <- f:
			default:
			}
		}
		return
	}

	switch f.Method {
	case SEND, REPORT, NICKNAME:
		c.enqueueResponse(c.responseTo(f, 200, "OK"))
	default:
		c.enqueueResponse(c.responseTo(f, 501, "Not Implemented"))
		return
	}

	switch f.Method {
	case SEND:
		c.handleSend(f)
	case REPORT:
		metrics.MsrpReportsTotal.WithLabelValues("inbound").Inc()
		code, text := parseStatus(f.Status)
		c.sink.ReportReceived(f.MessageID, f.ByteRange.Total, code, text)
	}
}

func (c *Connection) responseTo(req *Frame, code int, reason string) *Frame {
	return &Frame{
		TransactionID: req.TransactionID,
		IsRequest:     false,
		Code:          code,
		Reason:        reason,
		Completion:    Complete,
	}
}

func (c *Connection) handleSend(f *Frame) {
	from := ""
	if len(f.FromPath) > 0 {
		from = f.FromPath[0]
	}

	switch f.Completion {
	case Complete:
		c.mu.Lock()
		buf := append(c.chunks[f.MessageID], f.Body...)
		delete(c.chunks, f.MessageID)
		c.mu.Unlock()

		if len(buf) > 0 || f.Body != nil {
			metrics.MsrpMessagesTotal.WithLabelValues("inbound", "delivered").Inc()
			c.sink.MessageReceived(f.ContentType, buf, from)
		}

		if f.SuccessReport {
			metrics.MsrpReportsTotal.WithLabelValues("outbound").Inc()
			c.enqueueRequest(&pendingRequest{
				frame:     c.report(f, 200, "OK"),
				remoteURI: remoteURIString(c.RemoteURI),
			})
		}
	case Continuation:
		c.mu.Lock()
		c.chunks[f.MessageID] = append(c.chunks[f.MessageID], f.Body...)
		c.mu.Unlock()
	case Truncated:
		c.mu.Lock()
		delete(c.chunks, f.MessageID)
		c.mu.Unlock()
	}
}

func (c *Connection) report(orig *Frame, code int, text string) *Frame {
	f := c.newFrame(REPORT, orig.MessageID, "", orig.ByteRange, nil, Complete)
	f.Status = fmt.Sprintf("000 %d %s", code, text)
	return f
}

func parseStatus(status string) (code int, text string) {
	fields := strings.SplitN(status, " ", 3)
	if len(fields) < 2 {
		return 0, status
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, status
	}
	code = n
	if len(fields) == 3 {
		text = fields[2]
	}
	return
}
