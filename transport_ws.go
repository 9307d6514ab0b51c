package irc

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// DialWS returns a DialFunc that connects to a WebSocket IRC gateway (for
// example one fronting an IRC server for browser clients) at rawurl, and
// presents it as a Transport carrying raw IRC lines over text frames. This
// isn't part of any IRC RFC; it's a convenience for networks that bridge
// IRC over WebSocket rather than a raw TCP socket.
func DialWS(rawurl string) DialFunc {
	return func(ctx context.Context) (Transport, error) {
		u, err := url.Parse(rawurl)
		if err != nil {
			return nil, transportError{op: "dial", err: err}
		}
		dialer := *websocket.DefaultDialer
		if dl, ok := ctx.Deadline(); ok {
			dialer.HandshakeTimeout = time.Until(dl)
		}
		conn, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, transportError{op: "dial", err: err}
		}
		return newWSConn(conn), nil
	}
}

// wsConn adapts a *websocket.Conn, which exchanges discrete frames, to the
// io.ReadWriteCloser byte-stream interface the lexer and line scanner
// expect. Each Write is sent as its own text frame; each Read drains the
// frames in order, buffering the remainder of a frame across short reads.
type wsConn struct {
	conn *websocket.Conn
	buf  bytes.Buffer
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (c *wsConn) Read(p []byte) (int, error) {
	for c.buf.Len() == 0 {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if typ != websocket.TextMessage && typ != websocket.BinaryMessage {
			continue
		}
		c.buf.Write(data)
	}
	return c.buf.Read(p)
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

var _ io.ReadWriteCloser = (*wsConn)(nil)
