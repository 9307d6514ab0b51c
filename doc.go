/*
Package irc is a client library for the Internet Relay Chat protocol
(RFC 1459/2812, with common real-world extensions). It manages a single
long-lived connection: translating application intents (join, message,
kick, quit) into wire commands, and translating server messages into a
stream of events delivered to subscribers, while maintaining a consistent
view of joined channels and their occupants.

# API

The pieces you interact with most:

	// A Client owns one connection's session state and serializes every
	// access to it onto a single goroutine.
	type Client struct {
		// ...
	}

	// Events are delivered to handlers subscribed with AddHandler.
	type Event struct {
		Type EventType
		// ...
	}

	// Message is the parsed form of one wire line; it also implements
	// encoding.TextMarshaler/TextUnmarshaler for callers who just want the
	// codec.
	type Message struct {
		Source  Prefix
		Command Command
		Params  Params
		// ...
	}

# Connection lifecycle

A Client starts out neither connected nor logged on. Connect opens a
Transport (see Dial, DialTLS, and ircdebug.WrapDial/ircdebug.WriteTo for
the transport side); Logon then registers the connection with PASS/NICK/
USER. Most commands — Msg, Join, Kick, and so on — require both; calling
one too early returns ErrNotConnected or ErrNotLoggedIn rather than
blocking or panicking.

# Events

Subscribe with AddHandler(SubscriberId, EventType, Handler); handlers run
synchronously, in subscription order, on the client's own goroutine, so
they must not block. Registration is idempotent: adding the same
SubscriberId for the same EventType twice is a no-op. RemoveHandler
cancels a subscription. A message the dispatch table in inbound.go
doesn't recognize is offered to any Extension registered with
RegisterExtension before falling back to an Unrecognized event.

# Testing

The irctest subpackage provides an in-memory mock transport for exercising
a Client without a real socket.
*/
package irc
