package irc

import (
	"bufio"
	"context"
	"log"
	"sync"
)

// Config configures a Client at construction. Unlike the per-connection
// credentials passed to Connect/Logon, these apply for the client's whole
// lifetime.
type Config struct {
	// NoAutoping disables the default behavior of answering every PING with
	// a PONG automatically. Leave false to let the client handle keepalive.
	NoAutoping bool

	// Debug, when true, additionally emits an Unrecognized event for
	// malformed CTCP framing instead of silently dropping it.
	Debug bool

	// ErrorLog receives parse errors and other events that are noteworthy
	// but not a reason for the client to exit. If nil, the log package's
	// standard logger is used.
	ErrorLog *log.Logger
}

// Client is a single logical connection to an IRC server. All of its
// methods are safe for concurrent use: every call that touches session
// state is serialized onto one actor goroutine, which also owns the channel
// roster and every other piece of session state; AddHandler and
// RemoveHandler are guarded by the dispatcher's own lock.
type Client struct {
	cfg  Config
	disp *dispatcher
	ext  *extensionRegistry

	calls chan func(*actor)
	done  chan struct{}

	stopOnce sync.Once
}

// NewClient constructs a Client and starts its actor goroutine. The client
// accepts Connect calls immediately; it does nothing on the wire until one
// succeeds.
func NewClient(cfg Config) *Client {
	c := &Client{
		cfg:   cfg,
		disp:  newDispatcher(),
		ext:   &extensionRegistry{},
		calls: make(chan func(*actor)),
		done:  make(chan struct{}),
	}
	a := newActor(c.cfg, c.disp, c.ext)
	go c.run(a)
	return c
}

// actor holds everything mutated only by the client's single goroutine.
type actor struct {
	cfg  Config
	disp *dispatcher
	ext  *extensionRegistry

	st      State
	stopped bool
	pass    string
	isup    isupport
	whoBufs map[string][]WhoReply

	transport Transport
	trEvents  chan trEvent
}

func newActor(cfg Config, disp *dispatcher, ext *extensionRegistry) *actor {
	return &actor{
		cfg:     cfg,
		disp:    disp,
		ext:     ext,
		st:      State{Channels: NewRoster(), ChannelPrefixes: defaultChanTypes, UserPrefixes: defaultUserPrefixes},
		isup:    newISupport(),
		whoBufs: make(map[string][]WhoReply),
	}
}

// trEvent is one notification from the transport reader goroutine: a line,
// a graceful close, or a read error.
type trEvent struct {
	kind trEventKind
	line string
	err  error
}

type trEventKind int

const (
	trLine trEventKind = iota
	trClosed
	trError
)

// run is the actor's main loop: every input, whether a user API call or a
// transport notification, is processed here one at a time.
func (c *Client) run(a *actor) {
	defer close(c.done)
	for {
		select {
		case fn, ok := <-c.calls:
			if !ok {
				a.closeTransport()
				return
			}
			fn(a)
			if a.stopped {
				a.closeTransport()
				return
			}
		case ev, ok := <-a.trEvents:
			if !ok {
				a.trEvents = nil
				continue
			}
			if a.handleTransportEvent(ev) {
				return
			}
		}
	}
}

// handleTransportEvent processes one transport notification and reports
// whether the actor should terminate (true only for a read error; a graceful
// close resets the session and keeps the actor running).
func (a *actor) handleTransportEvent(ev trEvent) (terminate bool) {
	switch ev.kind {
	case trLine:
		a.processLine(ev.line)
		return false
	case trClosed:
		a.resetSession()
		a.disp.dispatch(Event{Type: EventDisconnected})
		return false
	case trError:
		a.resetSession()
		a.disp.dispatch(Event{Type: EventDisconnected, Err: ev.err})
		return true
	}
	return false
}

// resetSession closes the transport (if still open) and clears everything
// the spec's invariants tie to connected/logged_on.
func (a *actor) resetSession() {
	a.closeTransport()
	a.st.Connected = false
	a.st.LoggedOn = false
	a.st.Channels = NewRoster()
	a.whoBufs = make(map[string][]WhoReply)
}

func (a *actor) closeTransport() {
	if a.transport != nil {
		_ = a.transport.Close()
		a.transport = nil
	}
	a.trEvents = nil
}

func (a *actor) logf(format string, args ...interface{}) {
	if a.cfg.ErrorLog != nil {
		a.cfg.ErrorLog.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// send marshals and writes m to the transport. Write failures are reported
// through the same path as a read error: they're delivered on trEvents so
// they're handled by the single actor goroutine rather than racing with it.
func (a *actor) send(m *Message) error {
	if a.transport == nil {
		return ErrNotConnected
	}
	b, err := m.MarshalText()
	if err != nil {
		return err
	}
	if _, err := a.transport.Write(b); err != nil {
		werr := transportError{op: "write", err: err}
		select {
		case a.trEvents <- trEvent{kind: trError, err: werr}:
		default:
		}
		return werr
	}
	return nil
}

// requireConnected enforces the gate rule for commands admissible only
// while connected.
func (a *actor) requireConnected() error {
	if !a.st.Connected {
		return ErrNotConnected
	}
	return nil
}

// requireLoggedOn enforces the gate rule for commands admissible only after
// RPL_WELCOME.
func (a *actor) requireLoggedOn() error {
	if !a.st.Connected {
		return ErrNotConnected
	}
	if !a.st.LoggedOn {
		return ErrNotLoggedIn
	}
	return nil
}

// do runs fn on the actor goroutine and waits for its result. It's the only
// way any Client method touches actor state, which is what makes every
// Client method safe for concurrent use.
func (c *Client) do(fn func(*actor) error) error {
	reply := make(chan error, 1)
	select {
	case c.calls <- func(a *actor) { reply <- fn(a) }:
	case <-c.done:
		return ErrNotConnected
	}
	select {
	case err := <-reply:
		return err
	case <-c.done:
		return ErrNotConnected
	}
}

// Connect opens a transport using dial and starts reading from it. server
// and port are recorded in State and the Connected event but otherwise
// don't affect how dial is called — dial already knows where to connect.
// Any previously open transport is closed first. Connect blocks until dial
// returns; there is no cancellation for an in-flight connect other than
// Stop.
func (c *Client) Connect(ctx context.Context, server string, port int, tls bool, dial DialFunc) error {
	return c.do(func(a *actor) error {
		a.closeTransport()
		conn, err := dial(ctx)
		if err != nil {
			return transportError{op: "connect", err: err}
		}
		a.transport = conn
		a.trEvents = make(chan trEvent)
		startReader(conn, a.trEvents)
		a.st.Server = server
		a.st.Port = port
		a.st.TLS = tls
		a.st.Connected = true
		a.st.Channels = NewRoster()
		a.disp.dispatch(Event{Type: EventConnected, Server: server, Port: port})
		return nil
	})
}

// Logon sends PASS (if pass is non-empty), NICK, and USER, registering the
// connection with the server. It requires a connected, not-yet-logged-on
// client.
func (c *Client) Logon(pass, nick, user, realname string) error {
	return c.do(func(a *actor) error {
		if err := a.requireConnected(); err != nil {
			return err
		}
		if a.st.LoggedOn {
			return ErrAlreadyLoggedOn
		}
		a.pass = pass
		a.st.Nick = nick
		a.st.User = user
		a.st.RealName = realname
		if pass != "" {
			if err := a.send(Pass(pass)); err != nil {
				return err
			}
		}
		if err := a.send(Nick(nick)); err != nil {
			return err
		}
		return a.send(User(user, realname))
	})
}

// Msg sends a PRIVMSG to target.
func (c *Client) Msg(target, text string) error { return c.sendGated(Msg(target, text)) }

// Notice sends a NOTICE to target.
func (c *Client) Notice(target, text string) error { return c.sendGated(Notice(target, text)) }

// CTCP sends a CTCP query to target.
func (c *Client) CTCP(target, command, text string) error {
	return c.sendGated(CTCP(target, command, text))
}

// Me sends action as a CTCP ACTION to channel, the IRC equivalent of a
// "/me" command.
func (c *Client) Me(channel, action string) error { return c.sendGated(Describe(channel, action)) }

// Nick changes the client's nickname.
func (c *Client) Nick(newNick string) error { return c.sendGated(Nick(newNick)) }

// Join joins channel.
func (c *Client) Join(channel string) error { return c.sendGated(Join(channel)) }

// JoinWithKey joins a key-protected channel.
func (c *Client) JoinWithKey(channel, key string) error {
	return c.sendGated(JoinWithKey(channel, key))
}

// Part leaves channel.
func (c *Client) Part(channel string) error { return c.sendGated(Part(channel)) }

// PartWithReason leaves channel, showing reason to other occupants.
func (c *Client) PartWithReason(channel, reason string) error {
	return c.sendGated(PartWithReason(channel, reason))
}

// Kick removes nick from channel.
func (c *Client) Kick(channel, nick string) error { return c.sendGated(Kick(channel, nick)) }

// KickWithReason removes nick from channel, showing reason.
func (c *Client) KickWithReason(channel, nick, reason string) error {
	return c.sendGated(KickWithReason(channel, nick, reason))
}

// Invite invites nick to channel.
func (c *Client) Invite(nick, channel string) error { return c.sendGated(Invite(nick, channel)) }

// Mode changes mode flags on target.
func (c *Client) Mode(target, flags string, flagParams ...string) error {
	return c.sendGated(Mode(target, flags, flagParams...))
}

// Names requests the occupant list of channel from the server (the roster
// is then updated as usual by the resulting RPL_NAMEREPLY).
func (c *Client) Names(channel string) error { return c.sendGated(Names(channel)) }

// Who requests detailed information about the users on channel. The result
// arrives as a Who event once the server's RPL_ENDOFWHO closes the batch.
func (c *Client) Who(channel string) error { return c.sendGated(Who(channel)) }

// Cmd sends an arbitrary raw command, for anything this package has no
// dedicated method for.
func (c *Client) Cmd(cmd Command, args ...string) error { return c.sendGated(Raw(cmd, args...)) }

// sendGated sends m, enforcing the logged-on gate rule common to every
// ordinary outbound command.
func (c *Client) sendGated(m *Message) error {
	return c.do(func(a *actor) error {
		if err := a.requireLoggedOn(); err != nil {
			return err
		}
		return a.send(m)
	})
}

// Quit sends QUIT (if connected), closes the transport, and resets session
// state, but leaves the actor running: a subsequent Connect can reuse the
// client. It never fails the gate; calling Quit while not connected is a
// no-op.
func (c *Client) Quit(message string) error {
	return c.do(func(a *actor) error {
		if !a.st.Connected {
			return nil
		}
		_ = a.send(Quit(message))
		a.resetSession()
		a.disp.dispatch(Event{Type: EventDisconnected})
		return nil
	})
}

// Stop is like Quit but also terminates the actor goroutine. The client is
// unusable afterward; a second call to Stop is a no-op.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		_ = c.do(func(a *actor) error {
			if a.st.Connected {
				_ = a.send(Quit(""))
				a.resetSession()
				a.disp.dispatch(Event{Type: EventDisconnected})
			}
			a.stopped = true
			return nil
		})
	})
}

// State returns a snapshot of the client's observable session fields. It
// never fails the gate: it's admissible in any state.
func (c *Client) State() State {
	var snap State
	_ = c.do(func(a *actor) error {
		snap = a.st
		return nil
	})
	return snap
}

// Channels returns the names of all joined channels.
func (c *Client) Channels() []string {
	var names []string
	_ = c.do(func(a *actor) error {
		names = a.st.Channels.Channels()
		return nil
	})
	return names
}

// ChannelUsers returns the occupants of channel.
func (c *Client) ChannelUsers(channel string) ([]string, error) {
	var users []string
	err := c.do(func(a *actor) error {
		var err error
		users, err = a.st.Channels.Users(channel)
		return err
	})
	return users, err
}

// ChannelTopic returns the topic of channel.
func (c *Client) ChannelTopic(channel string) (string, error) {
	var topic string
	err := c.do(func(a *actor) error {
		var err error
		topic, err = a.st.Channels.Topic(channel)
		return err
	})
	return topic, err
}

// ChannelType returns the visibility character of channel, as last reported
// by RPL_NAMEREPLY.
func (c *Client) ChannelType(channel string) (byte, error) {
	var typ byte
	err := c.do(func(a *actor) error {
		var err error
		typ, err = a.st.Channels.Type(channel)
		return err
	})
	return typ, err
}

// ChannelHasUser reports whether nick occupies channel.
func (c *Client) ChannelHasUser(channel, nick string) (bool, error) {
	var has bool
	err := c.do(func(a *actor) error {
		var err error
		has, err = a.st.Channels.HasUser(channel, nick)
		return err
	})
	return has, err
}

// AddHandler subscribes fn to every Event of type t on behalf of sub.
// Subscribing is admissible in any client state. Registration is
// idempotent: calling AddHandler again with a sub already registered for
// t returns the existing HandlerID instead of adding a second callback.
func (c *Client) AddHandler(sub SubscriberId, t EventType, fn Handler) HandlerID {
	return c.disp.subscribe(sub, t, fn)
}

// RemoveHandler cancels a subscription previously returned by AddHandler.
func (c *Client) RemoveHandler(id HandlerID) {
	c.disp.unsubscribe(id)
}

// RegisterExtension adds ext to the extensions consulted for any inbound
// message the dispatch table in inbound.go does not itself recognize.
// Extensions registered this way run in registration order; see
// extension.go.
func (c *Client) RegisterExtension(ext Extension) {
	_ = c.do(func(a *actor) error {
		a.ext.register(ext)
		return nil
	})
}

// startReader launches the goroutine that turns a Transport's byte stream
// into a sequence of trEvents, one per CRLF-delimited line. It exits (and
// closes ch) once the transport is closed or a read fails.
func startReader(conn Transport, ch chan<- trEvent) {
	go func() {
		defer close(ch)
		s := bufio.NewScanner(conn)
		s.Buffer(make([]byte, 0, 4096), 65536)
		for s.Scan() {
			line := s.Text()
			if line == "" {
				continue
			}
			ch <- trEvent{kind: trLine, line: line}
		}
		if err := s.Err(); err != nil {
			ch <- trEvent{kind: trError, err: transportError{op: "read", err: err}}
			return
		}
		ch <- trEvent{kind: trClosed}
	}()
}
