// Package irctest provides an in-memory mock of an IRC server connection
// for testing code built on github.com/halvorsen/ircx, without opening a
// real socket.
package irctest

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

// NewServer creates a mock IRC server transport. It satisfies irc.Transport
// (io.ReadWriteCloser), so it can be handed to a DialFunc for tests. Lines
// written with WriteString are delivered to the client; lines
// the client writes are available from Sent. Don't forget to Close it.
func NewServer() *Server {
	s := &Server{}
	s.toClient, s.toClientW = io.Pipe()
	s.fromClientR, s.fromClientW = io.Pipe()
	s.sent = make(chan string, 64)
	go s.scanClient()
	return s
}

// Server is a mock IRC server: a pipe pair plus a channel of lines the
// client wrote, so tests can assert on outbound commands without a real
// network round trip.
type Server struct {
	closeOnce sync.Once
	sent      chan string

	toClient  *io.PipeReader
	toClientW *io.PipeWriter

	fromClientR *io.PipeReader
	fromClientW *io.PipeWriter
}

// Read implements io.Reader: how the client reads lines sent by the server.
func (s *Server) Read(p []byte) (int, error) { return s.toClient.Read(p) }

// Write implements io.Writer: how the client sends lines to the server.
func (s *Server) Write(p []byte) (int, error) { return s.fromClientW.Write(p) }

// Close implements io.Closer.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		_ = s.toClientW.Close()
		_ = s.fromClientW.Close()
	})
	return nil
}

// WriteString sends str, a single IRC line, to the client. A trailing
// "\r\n" is appended if not already present.
func (s *Server) WriteString(str string) error {
	if !strings.HasSuffix(str, "\r\n") {
		str += "\r\n"
	}
	_, err := s.toClientW.Write([]byte(str))
	return err
}

// Sent returns the channel of lines the client has written, with the
// trailing CRLF stripped. It's closed when the Server is closed.
func (s *Server) Sent() <-chan string { return s.sent }

func (s *Server) scanClient() {
	defer close(s.sent)
	scanner := bufio.NewScanner(s.fromClientR)
	for scanner.Scan() {
		s.sent <- scanner.Text()
	}
}
