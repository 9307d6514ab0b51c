package irc

import (
	"fmt"
	"strings"
)

// Text returns the free-form text portion of a message for the well-known
// (named) commands that carry one. An error is returned for commands this
// method doesn't know how to read; in that case Text still contains the
// entire parameter list joined with spaces.
//
// For PART and KICK, Text contains the <reason> parameter.
func (m *Message) Text() (string, error) {
	switch m.Command {
	case CmdQuit, CmdError:
		return m.Params.Get(1), nil
	case CmdPrivmsg, CmdNotice, CmdAction, CmdTopic, CmdPart:
		return m.Params.Get(2), nil
	case CmdKick:
		return m.Params.Get(3), nil
	default:
		return strings.Join(m.Params, " "), fmt.Errorf("text: command %s is not supported", m.Command)
	}
}

// Target returns the intended recipient of a message: the client's own
// nickname for a query, or a channel name (possibly STATUSMSG-prefixed)
// for a channel message.
func (m *Message) Target() (string, error) {
	switch m.Command {
	case CmdPrivmsg, CmdNotice, CmdAction, CmdInvite, CmdTopic, CmdKick, CmdPart, CmdMode:
		return m.Params.Get(1), nil
	default:
		return "", fmt.Errorf("target: command %s is not supported", m.Command)
	}
}

// Chan returns the channel a message applies to. For PRIVMSG, NOTICE and
// ACTION it returns the target parameter as is, which for a query message
// is a nickname; channels and nicknames are not told apart here.
func (m *Message) Chan() (string, error) {
	switch m.Command {
	case CmdPrivmsg, CmdNotice, CmdAction, CmdJoin, CmdTopic, CmdKick, CmdPart:
		return m.Params.Get(1), nil
	case CmdInvite:
		return m.Params.Get(2), nil
	default:
		return "", fmt.Errorf("chan: command %s is not supported", m.Command)
	}
}
