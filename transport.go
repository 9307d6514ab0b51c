package irc

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"time"
)

// Transport is the connection abstraction the Client speaks over. It is
// satisfied by the dialers in this file (plain TCP, TLS, and — in
// transport_ws.go — WebSocket), and by irctest's in-memory pipe for tests.
// The client reads from a Transport on a dedicated reader goroutine while
// its actor goroutine writes to and closes it, so an implementation must
// allow a Read to run concurrently with Write and Close.
type Transport interface {
	io.ReadWriteCloser
}

// DialFunc connects to a server and returns an open Transport. Client.Connect
// takes one of these; the package-level Dial/DialTLS functions build the
// common cases.
type DialFunc func(ctx context.Context) (Transport, error)

// DialOption configures optional behavior on a DialFunc built by Dial or
// DialTLS.
type DialOption func(*dialOptions)

type dialOptions struct {
	readTimeout time.Duration
}

// ReadTimeout makes the dialed connection notice a silently dead peer: every
// Read is bounded by timeout, so a server that stops sending (without even a
// TCP close) surfaces as a read error instead of hanging forever.
func ReadTimeout(timeout time.Duration) DialOption {
	return func(o *dialOptions) { o.readTimeout = timeout }
}

func collectDialOptions(opts []DialOption) dialOptions {
	var o dialOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Dial returns a DialFunc that connects to addr ("host:port") over plain
// TCP. Prefer DialTLS for anything but local testing.
func Dial(addr string, opts ...DialOption) DialFunc {
	o := collectDialOptions(opts)
	return func(ctx context.Context) (Transport, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, transportError{op: "dial", err: err}
		}
		return withReadTimeout(conn, o.readTimeout), nil
	}
}

// DialTLS returns a DialFunc that connects to addr over TLS. A nil config
// uses the system root CAs and verifies the server's certificate against
// the hostname portion of addr.
func DialTLS(addr string, config *tls.Config, opts ...DialOption) DialFunc {
	o := collectDialOptions(opts)
	return func(ctx context.Context) (Transport, error) {
		var d net.Dialer
		tlsDialer := tls.Dialer{NetDialer: &d, Config: config}
		conn, err := tlsDialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, transportError{op: "dial", err: err}
		}
		return withReadTimeout(conn, o.readTimeout), nil
	}
}

// deadlineConn wraps a Transport that also implements net.Conn's deadline
// methods, applying a fixed read timeout to every Read call. The client
// uses this to notice a silently dead connection even when the server
// never sends a PING of its own.
type deadlineConn struct {
	Transport
	timeout time.Duration
}

func withReadTimeout(t Transport, timeout time.Duration) Transport {
	if timeout <= 0 {
		return t
	}
	return &deadlineConn{Transport: t, timeout: timeout}
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if sc, ok := c.Transport.(interface{ SetReadDeadline(time.Time) error }); ok {
		_ = sc.SetReadDeadline(time.Now().Add(c.timeout))
	}
	return c.Transport.Read(p)
}
