package irc

import "strings"

// defaultChanTypes and defaultUserPrefixes are the session defaults used
// until RPL_ISUPPORT overwrites them (see isupport.go).
const (
	defaultChanTypes    = "#&"
	defaultUserPrefixes = "@+"
)

// foldChannel returns the RFC 1459 casemapped form of a channel or nickname,
// used as a roster lookup key. RFC 1459 casemapping lowercases ASCII and
// additionally folds '{', '}', '|', '^' onto '[', ']', '\\', '~'.
//
// Channel names are matched insensitively by real servers, even though the
// wire protocol (and this package's Message type) preserves the original
// casing for display and for any outgoing command.
func foldChannel(name string) string {
	return rfc1459Fold(name)
}

func rfc1459Fold(s string) string {
	s = strings.ToLower(s)
	r := strings.NewReplacer("{", "[", "}", "]", "|", "\\", "^", "~")
	return r.Replace(s)
}

// stripRankPrefixes removes any leading characters found in prefixes (the
// rank markers from RPL_ISUPPORT's PREFIX token, e.g. "@+") from nick,
// returning the bare nickname. It's used when reading the occupant list out
// of RPL_NAMEREPLY.
func stripRankPrefixes(nick, prefixes string) string {
	return strings.TrimLeft(nick, prefixes)
}
