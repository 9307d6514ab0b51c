package irc_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	irc "github.com/halvorsen/ircx"
	"github.com/halvorsen/ircx/ircdebug"
	"github.com/halvorsen/ircx/irctest"
)

func dialDebugged(s *irctest.Server, w *bytes.Buffer) irc.DialFunc {
	plain := func(ctx context.Context) (irc.Transport, error) { return s, nil }
	return ircdebug.WrapDial(plain, w)
}

// TestIrcdebugWrapDialTeesTraffic wires ircdebug.WrapDial into a real
// Client's Connect/Logon so both directions of wire traffic are teed to a
// buffer, prefixed by direction.
func TestIrcdebugWrapDialTeesTraffic(t *testing.T) {
	srv := irctest.NewServer()
	defer srv.Close()

	var tee bytes.Buffer
	c := irc.NewClient(irc.Config{})
	defer c.Stop()

	if err := c.Connect(context.Background(), "irc.example.org", 6667, false, dialDebugged(srv, &tee)); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.Logon("", "alice", "alice", "Alice"); err != nil {
		t.Fatalf("Logon: %v", err)
	}

	select {
	case <-srv.Sent():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for NICK")
	}
	select {
	case <-srv.Sent():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for USER")
	}

	if err := srv.WriteString(":irc.example.org 001 alice :Welcome"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		out := tee.String()
		if strings.Contains(out, "-> NICK") && strings.Contains(out, "<- :irc.example.org 001") {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected teed traffic with both directions, got %q", out)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// TestIrcdebugEventLogger wires ircdebug.EventLogger to EventUnrecognized so
// an unrecognized wire line is pretty-printed to a buffer.
func TestIrcdebugEventLogger(t *testing.T) {
	srv := irctest.NewServer()
	defer srv.Close()

	c := irc.NewClient(irc.Config{})
	defer c.Stop()

	var logged bytes.Buffer
	c.AddHandler("debug-logger", irc.EventUnrecognized, ircdebug.EventLogger(&logged))

	if err := c.Connect(context.Background(), "irc.example.org", 6667, false, func(ctx context.Context) (irc.Transport, error) {
		return srv, nil
	}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.Logon("", "alice", "alice", "Alice"); err != nil {
		t.Fatalf("Logon: %v", err)
	}
	<-srv.Sent()
	<-srv.Sent()
	if err := srv.WriteString(":irc.example.org 001 alice :Welcome"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	if err := srv.WriteString(":irc.example.org 999 alice :a totally unrecognized numeric"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		if logged.Len() > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("expected EventLogger to have written something for the unrecognized event")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
