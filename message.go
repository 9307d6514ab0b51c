package irc

import (
	"bytes"
	"errors"
	"strings"
)

// parameterLimit is the maximum number of parameters a message may contain as defined by the protocol.
// Generally, clients should never send more than this limit but should accept any number.
const parameterLimit = 15

// CTCPStatus describes whether a Message carries a CTCP-framed payload.
type CTCPStatus int

const (
	// CTCPNone indicates the message is not CTCP-framed.
	CTCPNone CTCPStatus = iota
	// CTCPQuery indicates the trailing param was \x01-framed and is not an ACTION.
	// Command is left as PRIVMSG/NOTICE; the CTCP payload replaces the trailing param.
	CTCPQuery
	// CTCPInvalid indicates the trailing param started with \x01 but the framing
	// was malformed (missing the closing \x01, or an empty payload).
	CTCPInvalid
)

// NewMessage constructs a new Message to be sent on the connection
// with cmd as the verb and args as the message parameters.
//
// Only the last argument may contain SPACE (ascii 32, %x20).
// Including SPACE in any other argument will result in undefined behavior.
func NewMessage(cmd Command, args ...string) *Message {
	p := make(Params, len(args), parameterLimit)
	copy(p, args)
	cmd.normalize()
	return &Message{Command: cmd, Params: p}
}

// Message represents any incoming or outgoing IRC line.
//
// A message consists of three parts: an optional prefix (Source), a verb or
// numeric (Command), and a list of parameters (Params). CTCP framing found
// in a PRIVMSG/NOTICE trailing parameter is unwrapped at parse time (into
// the CTCP field, or for ACTION into Command) rather than left for callers
// to re-detect.
type Message struct {
	// Source is where the message originated from.
	// It's set by the prefix portion of an IRC message, and should be left
	// empty for messages that will be written to the connection.
	Source Prefix

	// Command is the IRC verb or numeric such as PRIVMSG, NOTICE, 001, etc.
	// For an incoming CTCP ACTION, this is rewritten to CmdAction.
	Command Command

	// Params contains all the message parameters, trailing component included.
	Params Params

	// CTCP is CTCPNone for ordinary messages. For an incoming PRIVMSG/NOTICE
	// whose trailing parameter was \x01-framed, it is CTCPQuery (with the
	// unwrapped payload left in the trailing Param) or CTCPInvalid (framing
	// could not be parsed; the trailing Param is left untouched).
	CTCP CTCPStatus

	// Raw is the original wire line this Message was parsed from. It is
	// empty for messages constructed for outbound use.
	Raw string

	// includePrefix controls whether MarshalText will write the prefix.
	includePrefix bool
}

// IncludePrefix controls whether the Source field will be marshaled by MarshalText.
//
// RFC 1459 states that for messages originating from a client it is invalid
// to include any prefix other than the client's own nickname, and servers
// are instructed to silently discard messages which don't follow that rule.
// Source should therefore be left empty (the default) for messages this
// client writes to the connection; IncludePrefix exists for parsing
// received lines and for tests that need to round-trip a Message.
func (m *Message) IncludePrefix() {
	m.includePrefix = true
}

// MarshalText implements encoding.TextMarshaler.
func (m *Message) MarshalText() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 512))

	if m.includePrefix && m.Source != (Prefix{}) {
		buf.WriteByte(startPrefix)
		buf.WriteString(m.Source.String())
		buf.WriteByte(delimParam)
	}

	buf.WriteString(m.Command.String())

	for i := 0; i < len(m.Params); i++ {
		buf.WriteByte(delimParam)
		// for simplicity, always write the last param in the trailing component.
		// a strict parser would only need the leading ':' when the value
		// contains a space or is empty, but it's always valid to include it.
		if i == len(m.Params)-1 {
			buf.WriteByte(startTrailing)
		}
		buf.WriteString(m.Params[i])
	}
	buf.WriteString("\r\n")

	return buf.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// text should not include the trailing CR-LF pair.
func (m *Message) UnmarshalText(text []byte) error {
	raw := string(text)
	l := lex(raw)

	m.Source = Prefix{}
	m.Command = ""
	m.Params = nil
	m.CTCP = CTCPNone
	m.Raw = raw

	for {
		i := l.nextItem()
		switch i.typ {
		case itemEOF:
			m.unwrapCTCP()
			return nil
		case itemError:
			return errors.New(i.val)
		case itemNickname:
			m.Source.Nick = Nickname(i.val)
		case itemUser:
			m.Source.User = i.val
		case itemHost:
			m.Source.Host = i.val
		case itemCommand:
			m.Command = Command(i.val)
		case itemParam:
			m.Params = append(m.Params, i.val)
		}
	}
}

// ctcpDelim is the CTCP framing byte, \x01.
const ctcpDelim = '\x01'

// unwrapCTCP inspects the trailing parameter of a parsed PRIVMSG/NOTICE for
// CTCP framing and, if present, unwraps it: an ACTION payload rewrites
// Command to CmdAction and replaces the trailing Param with the action text;
// any other CTCP payload sets CTCP=CTCPQuery and replaces the trailing Param
// with the payload; malformed framing sets CTCP=CTCPInvalid and leaves
// Params untouched.
func (m *Message) unwrapCTCP() {
	if !m.Command.is(CmdPrivmsg) && !m.Command.is(CmdNotice) {
		return
	}
	if len(m.Params) == 0 {
		return
	}
	body := m.Params[len(m.Params)-1]
	if len(body) == 0 || body[0] != ctcpDelim {
		return
	}
	if len(body) < 2 || body[len(body)-1] != ctcpDelim {
		m.CTCP = CTCPInvalid
		return
	}
	inner := body[1 : len(body)-1]
	if inner == "" {
		m.CTCP = CTCPInvalid
		return
	}
	const actionPrefix = "ACTION "
	if strings.HasPrefix(inner, actionPrefix) {
		m.Command = CmdAction
		m.Params[len(m.Params)-1] = strings.TrimPrefix(inner, actionPrefix)
		return
	}
	m.CTCP = CTCPQuery
	m.Params[len(m.Params)-1] = inner
}

// Command is an IRC command such as PRIVMSG, NOTICE, 001, etc.
//
// A command may also be known as the "verb", "event type", or "numeric".
type Command string

// String implements fmt.Stringer.
func (c Command) String() string { return string(c) }

// normalize modifies the command to use consistent casing.
func (c *Command) normalize() { *c = Command(strings.ToUpper(c.String())) }

// is does a case-insensitive compare between two commands.
func (c Command) is(oc Command) bool { return strings.EqualFold(string(c), string(oc)) }

// Prefix is the optional message (line) prefix, which indicates the source
// (user or server) of a message, depending on the prefix format.
//
//	PING :86F3E357                                    no prefix
//	:Travis MODE Travis :+ixz                         nickname-only prefix
//	:NickServ!services@services.host NOTICE Travis :…  full nick!user@host prefix
//	:fiery.ca.us.example.net MODE #foo +nt             server prefix
type Prefix struct {
	Nick Nickname
	User string
	Host string
}

// IsServer returns true when the message originated from a server rather
// than a user: the host is set but there is no nickname component.
func (p Prefix) IsServer() bool {
	return p.Host != "" && p.Nick == ""
}

// String implements fmt.Stringer.
func (p Prefix) String() string {
	switch {
	case p.Nick == "" && p.User == "" && p.Host == "":
		return ""
	case p.Nick == "" && p.User == "":
		return p.Host
	case p.User == "":
		return p.Nick.String()
	default:
		return p.Nick.String() + "!" + p.User + "@" + p.Host
	}
}

// Params contains the slice of arguments for a message.
//
// Prefer the Get method for reading params rather than accessing the slice
// directly; positions are 1-indexed to match the protocol's own convention
// of numbering arguments from 1.
type Params []string

// Get returns the nth parameter (starting at 1), or "" if it does not exist.
func (p Params) Get(n int) string {
	if n > len(p) || n < 1 {
		return ""
	}
	return p[n-1]
}

// Nickname is the display identifier of a user on the network.
type Nickname string

// String implements fmt.Stringer.
func (n Nickname) String() string { return string(n) }

// Is determines whether a nickname matches other using case folding.
func (n Nickname) Is(other string) bool { return strings.EqualFold(n.String(), other) }
