package irc

// Pass specifies the connection password.
func Pass(password string) *Message {
	return NewMessage(CmdPass, password)
}

// Nick constructs a nickname change (or initial registration) command.
func Nick(name string) *Message {
	return NewMessage(CmdNick, name)
}

// User is sent once at the beginning of a connection to specify the
// username and realname of a new user. realname may contain spaces.
// https://tools.ietf.org/html/rfc2812#section-3.1.3
func User(user, realname string) *Message {
	// the second param (mode) and third param are not meaningful to modern
	// servers; sending "0" and "*" matches what most clients do.
	return NewMessage(CmdUser, user, "0", "*", realname)
}

// Join constructs a channel join command.
func Join(channel string) *Message {
	return NewMessage(CmdJoin, channel)
}

// JoinWithKey constructs a channel join command for channels that require a key (channel mode +k).
func JoinWithKey(channel, key string) *Message {
	return NewMessage(CmdJoin, channel, key)
}

// Part constructs a command to leave channel.
func Part(channel string) *Message {
	return NewMessage(CmdPart, channel)
}

// PartWithReason is the same as Part, but with a message that may be shown to other clients.
func PartWithReason(channel, reason string) *Message {
	return NewMessage(CmdPart, channel, reason)
}

// Msg constructs a PRIVMSG to target, a channel or nickname.
func Msg(target, message string) *Message {
	return NewMessage(CmdPrivmsg, target, message)
}

// Notice constructs a NOTICE to target.
func Notice(target, message string) *Message {
	return NewMessage(CmdNotice, target, message)
}

// Describe constructs a CTCP ACTION to target, equivalent to the "/me"
// command in most clients. By convention actions are written in third person.
func Describe(target, action string) *Message {
	return NewMessage(CmdPrivmsg, target, "\x01ACTION "+action+"\x01")
}

// CTCP constructs a CTCP-framed PRIVMSG to target. command is the CTCP subcommand.
func CTCP(target, command, message string) *Message {
	return NewMessage(CmdPrivmsg, target, "\x01"+command+" "+message+"\x01")
}

// CTCPReply constructs a CTCP-framed NOTICE in reply to a CTCP query.
func CTCPReply(target, command, message string) *Message {
	return NewMessage(CmdNotice, target, "\x01"+command+" "+message+"\x01")
}

// Kick constructs a command to remove nick from channel.
func Kick(channel, nick string) *Message {
	return NewMessage(CmdKick, channel, nick)
}

// KickWithReason is the same as Kick, but with a message shown to the channel.
func KickWithReason(channel, nick, reason string) *Message {
	return NewMessage(CmdKick, channel, nick, reason)
}

// Names constructs a command requesting the occupant list of channel.
func Names(channel string) *Message {
	return NewMessage(CmdNames, channel)
}

// Who constructs a command requesting detailed information about the users on channel.
func Who(channel string) *Message {
	return NewMessage(CmdWho, channel)
}

// Mode constructs a command to change mode flags on target, a channel or nickname.
// flagParams may be omitted when the flags themselves take no arguments.
func Mode(target, flags string, flagParams ...string) *Message {
	args := append([]string{target, flags}, flagParams...)
	return NewMessage(CmdMode, args...)
}

// Invite constructs a command to invite nick to channel.
func Invite(nick, channel string) *Message {
	return NewMessage(CmdInvite, nick, channel)
}

// Quit constructs a command that terminates the connection, optionally
// displaying message to clients configured to show quit messages.
func Quit(message string) *Message {
	return NewMessage(CmdQuit, message)
}

// Pong builds a one-argument PONG reply, used when the originating PING had no argument of its own.
func Pong(from string) *Message {
	return NewMessage(CmdPong, from)
}

// PongTo builds a two-argument PONG reply that echoes back the argument of
// the PING this answers, addressed from nick.
func PongTo(nick, from string) *Message {
	return NewMessage(CmdPong, nick, from)
}

// Raw constructs an arbitrary command with args passed through unmodified;
// useful for commands this package has no dedicated builder for.
func Raw(cmd Command, args ...string) *Message {
	return NewMessage(cmd, args...)
}
