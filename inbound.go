package irc

import (
	"strings"
	"time"
)

// processLine parses one wire line and drives the corresponding state
// transition and event(s). Parse failures are logged and dropped; the
// protocol is best-effort and the next line is processed independently.
func (a *actor) processLine(line string) {
	m := new(Message)
	m.IncludePrefix()
	if err := m.UnmarshalText([]byte(line)); err != nil {
		a.logf("irc: %v", parseError{line: line, err: err})
		return
	}
	if m.CTCP == CTCPInvalid {
		if a.cfg.Debug {
			a.disp.dispatch(Event{Type: EventUnrecognized, Message: m})
		}
		return
	}
	a.dispatchInbound(m)
}

func (a *actor) isSelf(nick string) bool {
	return Nickname(a.st.Nick).Is(nick)
}

// dispatchInbound implements the transition table: each recognized command
// updates session state (where applicable) and emits the resulting event.
// Anything not matched here falls through to the extension registry.
func (a *actor) dispatchInbound(m *Message) {
	switch m.Command {
	case RplWelcome:
		if !a.st.LoggedOn {
			a.st.LoggedOn = true
			a.st.LoginTime = time.Now()
			a.disp.dispatch(Event{Type: EventLoggedIn, Message: m})
		}
		return

	case RplISupport:
		a.isup = a.isup.apply(m.Params[min(1, len(m.Params)):])
		a.st.Network = a.isup.network
		a.st.ChannelPrefixes = a.isup.chanTypes
		a.st.UserPrefixes = a.isup.userPrefixes
		return

	case CmdJoin:
		ch := m.Params.Get(1)
		if a.isSelf(string(m.Source.Nick)) {
			a.st.Channels = a.st.Channels.Join(ch)
			a.disp.dispatch(Event{Type: EventJoined, Channel: ch, Message: m})
		} else {
			a.st.Channels = a.st.Channels.UserJoin(ch, string(m.Source.Nick))
			a.disp.dispatch(Event{Type: EventJoined, Channel: ch, Nick: string(m.Source.Nick), User: m.Source.User, Host: m.Source.Host, Message: m})
		}
		return

	case RplTopic:
		ch, topic := namereplyArgs3(m.Params)
		a.st.Channels = a.st.Channels.SetTopic(ch, topic)
		a.disp.dispatch(Event{Type: EventTopicChanged, Channel: ch, Topic: topic, Message: m})
		return

	case CmdTopic:
		ch, topic := m.Params.Get(1), m.Params.Get(2)
		a.st.Channels = a.st.Channels.SetTopic(ch, topic)
		a.disp.dispatch(Event{Type: EventTopicChanged, Channel: ch, Topic: topic, Nick: string(m.Source.Nick), Message: m})
		return

	case RplNamReply:
		a.applyNamReply(m)
		return

	case CmdNick:
		newNick := m.Params.Get(1)
		if a.isSelf(string(m.Source.Nick)) {
			old := a.st.Nick
			a.st.Nick = newNick
			a.disp.dispatch(Event{Type: EventNickChanged, OldNick: old, NewNick: newNick, Message: m})
		} else {
			old := string(m.Source.Nick)
			a.st.Channels = a.st.Channels.UserRename(old, newNick)
			a.disp.dispatch(Event{Type: EventNickChanged, OldNick: old, NewNick: newNick, Message: m})
		}
		return

	case CmdMode:
		if len(m.Params) == 3 {
			a.disp.dispatch(Event{
				Type:       EventMode,
				Target:     m.Params.Get(1),
				Mode:       m.Params.Get(2),
				ModeParams: []string{m.Params.Get(3)},
				Nick:       string(m.Source.Nick),
				Message:    m,
			})
			return
		}
		a.disp.dispatch(Event{
			Type:       EventMode,
			Target:     m.Params.Get(1),
			Mode:       m.Params.Get(2),
			ModeParams: append([]string(nil), m.Params[min(2, len(m.Params)):]...),
			Nick:       string(m.Source.Nick),
			Message:    m,
		})
		return

	case CmdPart:
		ch := m.Params.Get(1)
		reason := m.Params.Get(2)
		if a.isSelf(string(m.Source.Nick)) {
			a.st.Channels = a.st.Channels.Part(ch)
			a.disp.dispatch(Event{Type: EventParted, Channel: ch, Reason: reason, Message: m})
		} else {
			a.st.Channels = a.st.Channels.UserPart(ch, string(m.Source.Nick))
			a.disp.dispatch(Event{Type: EventParted, Channel: ch, Nick: string(m.Source.Nick), Reason: reason, Message: m})
		}
		return

	case CmdPing:
		if !a.cfg.NoAutoping {
			if from := m.Params.Get(1); from != "" {
				_ = a.send(PongTo(a.st.Nick, from))
			} else {
				_ = a.send(Pong(a.st.Nick))
			}
		}
		return

	case CmdInvite:
		if a.isSelf(m.Params.Get(1)) {
			a.disp.dispatch(Event{Type: EventInvited, Nick: string(m.Source.Nick), Target: m.Params.Get(1), Channel: m.Params.Get(2), Message: m})
		}
		return

	case CmdKick:
		ch, target, reason := m.Params.Get(1), m.Params.Get(2), m.Params.Get(3)
		if a.isSelf(target) {
			a.st.Channels = a.st.Channels.Part(ch)
		} else {
			a.st.Channels = a.st.Channels.UserPart(ch, target)
		}
		a.disp.dispatch(Event{Type: EventKicked, Channel: ch, Target: target, Nick: string(m.Source.Nick), Reason: reason, Message: m})
		return

	case CmdPrivmsg, CmdNotice:
		a.dispatchPrivmsg(m)
		return

	case CmdAction:
		target := m.Params.Get(1)
		ch := target
		if !a.isup.isChannel(target) {
			ch = ""
		}
		a.disp.dispatch(Event{Type: EventMe, Channel: ch, Nick: string(m.Source.Nick), Text: m.Params.Get(2), Message: m})
		return

	case RplWhoReply:
		a.bufferWhoReply(m)
		return

	case RplEndOfWho:
		a.flushWho(m)
		return
	}

	if next, changed := a.ext.handle(m, a.st); changed {
		a.st = next
		return
	}
	a.disp.dispatch(Event{Type: EventUnrecognized, Message: m})
}

// dispatchPrivmsg handles CmdPrivmsg/CmdNotice, covering the Received and
// Mentioned events; CTCP ACTION is unwrapped into CmdAction before it
// reaches here (see message.go's unwrapCTCP).
func (a *actor) dispatchPrivmsg(m *Message) {
	target := m.Params.Get(1)
	text := m.Params.Get(2)
	from := string(m.Source.Nick)
	if a.isSelf(target) {
		a.disp.dispatch(Event{Type: EventReceived, Nick: from, User: m.Source.User, Host: m.Source.Host, Text: text, Message: m})
		return
	}
	a.disp.dispatch(Event{Type: EventReceived, Channel: target, Nick: from, User: m.Source.User, Host: m.Source.Host, Text: text, Message: m})
	if a.st.Nick != "" && strings.Contains(text, a.st.Nick) {
		a.disp.dispatch(Event{Type: EventMentioned, Channel: target, Nick: from, User: m.Source.User, Host: m.Source.Host, Text: text, Message: m})
	}
}

// applyNamReply handles RPL_NAMEREPLY (353), whose args are either
// [self, type, chan, names] or [type, chan, names] depending on server.
func (a *actor) applyNamReply(m *Message) {
	var typ, ch, names string
	switch len(m.Params) {
	case 4:
		typ, ch, names = m.Params.Get(2), m.Params.Get(3), m.Params.Get(4)
	case 3:
		typ, ch, names = m.Params.Get(1), m.Params.Get(2), m.Params.Get(3)
	default:
		return
	}
	nicks := splitNames(names)
	a.st.Channels = a.st.Channels.UsersJoin(ch, nicks, a.st.UserPrefixes)
	if len(typ) > 0 {
		a.st.Channels = a.st.Channels.SetType(ch, typ[0])
	}
}

// bufferWhoReply handles RPL_WHOREPLY (352): "<_> <chan> <user> <host>
// <server> <nick> <flags> :<hops> <realname>".
func (a *actor) bufferWhoReply(m *Message) {
	if len(m.Params) < 8 {
		return
	}
	ch := m.Params.Get(2)
	last := m.Params.Get(8)
	hops, realname := splitHopsRealname(last)
	flags := m.Params.Get(7)
	entry := WhoReply{
		Channel:  ch,
		User:     m.Params.Get(3),
		Host:     m.Params.Get(4),
		Server:   m.Params.Get(5),
		Nick:     m.Params.Get(6),
		Flags:    flags,
		Operator: strings.Contains(flags, "@"),
		HopCount: hops,
		RealName: realname,
	}
	a.whoBufs[ch] = append(a.whoBufs[ch], entry)
}

func (a *actor) flushWho(m *Message) {
	ch := m.Params.Get(1)
	entries := a.whoBufs[ch]
	delete(a.whoBufs, ch)
	a.disp.dispatch(Event{Type: EventWho, Channel: ch, WhoReplies: entries, Message: m})
}

// splitHopsRealname splits "<hops> <realname>" on the first space.
func splitHopsRealname(s string) (int, string) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return atoiSafe(s), ""
	}
	return atoiSafe(s[:i]), s[i+1:]
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// namereplyArgs3 reads RPL_TOPIC's args, which arrive as either
// [self, chan, topic] or [chan, topic].
func namereplyArgs3(p Params) (chanName, topic string) {
	if len(p) >= 3 {
		return p.Get(2), p.Get(3)
	}
	return p.Get(1), p.Get(2)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
