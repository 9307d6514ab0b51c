package irc

import "strings"

// ErrNotFound is returned by roster queries against a channel the client
// does not (or no longer) consider itself joined to. It is distinct from an
// empty result: a channel with no known occupants returns an empty slice
// and a nil error.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "channel not found" }

// Channel holds everything the roster tracks about one joined channel.
type Channel struct {
	// Name is the channel name as seen on the wire, case preserved.
	Name string
	// Type is the channel visibility character from RPL_NAMEREPLY
	// ('=' public, '*' private, '@' secret), or 0 if never reported.
	Type  byte
	Topic string
	Users map[string]struct{}
}

func newChannel(name string) *Channel {
	return &Channel{Name: name, Users: make(map[string]struct{})}
}

// Roster is a pure, comparable-by-content view of the channels a client is
// joined to and their occupants. Every method returns a new Roster rather
// than mutating the receiver, which keeps the client's state transitions
// easy to reason about and to test without aliasing hazards: a handler that
// captured an old Roster value is never surprised by a later update.
//
// Channel names are looked up case-insensitively per RFC 1459 casemapping
// (see foldChannel), while Channel.Name and roster.Users preserve the
// original wire casing for display and for outgoing commands.
type Roster struct {
	channels map[string]*Channel // keyed by foldChannel(name)
}

// NewRoster returns an empty roster.
func NewRoster() Roster {
	return Roster{channels: make(map[string]*Channel)}
}

func (r Roster) clone() Roster {
	nr := NewRoster()
	for k, ch := range r.channels {
		cp := &Channel{Name: ch.Name, Type: ch.Type, Topic: ch.Topic, Users: make(map[string]struct{}, len(ch.Users))}
		for u := range ch.Users {
			cp.Users[u] = struct{}{}
		}
		nr.channels[k] = cp
	}
	return nr
}

func (r Roster) find(name string) (*Channel, bool) {
	ch, ok := r.channels[foldChannel(name)]
	return ch, ok
}

// Join inserts an empty channel entry for name if one is not already present.
func (r Roster) Join(name string) Roster {
	nr := r.clone()
	k := foldChannel(name)
	if _, ok := nr.channels[k]; !ok {
		nr.channels[k] = newChannel(name)
	}
	return nr
}

// Part removes the channel entirely.
func (r Roster) Part(name string) Roster {
	nr := r.clone()
	delete(nr.channels, foldChannel(name))
	return nr
}

// UserJoin adds nick to the channel's occupants. It is a no-op if the
// channel is not present (mirrors spec: we only track channels joined to).
func (r Roster) UserJoin(name, nick string) Roster {
	nr := r.clone()
	if ch, ok := nr.find(name); ok {
		ch.Users[nick] = struct{}{}
	}
	return nr
}

// UsersJoin adds each of nicks to the channel's occupants, stripping any
// leading rank-prefix characters (from userPrefixes) from each nick first.
func (r Roster) UsersJoin(name string, nicks []string, userPrefixes string) Roster {
	nr := r.clone()
	ch, ok := nr.find(name)
	if !ok {
		return nr
	}
	for _, n := range nicks {
		n = stripRankPrefixes(n, userPrefixes)
		if n == "" {
			continue
		}
		ch.Users[n] = struct{}{}
	}
	return nr
}

// UserPart removes nick from the channel's occupants.
func (r Roster) UserPart(name, nick string) Roster {
	nr := r.clone()
	if ch, ok := nr.find(name); ok {
		delete(ch.Users, nick)
	}
	return nr
}

// UserRename replaces oldNick with newNick in every channel that contains it.
func (r Roster) UserRename(oldNick, newNick string) Roster {
	nr := r.clone()
	for _, ch := range nr.channels {
		if _, ok := ch.Users[oldNick]; ok {
			delete(ch.Users, oldNick)
			ch.Users[newNick] = struct{}{}
		}
	}
	return nr
}

// SetTopic sets the channel's topic. It is a no-op if the channel is absent.
func (r Roster) SetTopic(name, topic string) Roster {
	nr := r.clone()
	if ch, ok := nr.find(name); ok {
		ch.Topic = topic
	}
	return nr
}

// SetType sets the channel's RPL_NAMEREPLY visibility character.
func (r Roster) SetType(name string, t byte) Roster {
	nr := r.clone()
	if ch, ok := nr.find(name); ok {
		ch.Type = t
	}
	return nr
}

// Channels returns the names of all joined channels, wire-case preserved.
func (r Roster) Channels() []string {
	names := make([]string, 0, len(r.channels))
	for _, ch := range r.channels {
		names = append(names, ch.Name)
	}
	return names
}

// Users returns the occupants of name in no particular order.
func (r Roster) Users(name string) ([]string, error) {
	ch, ok := r.find(name)
	if !ok {
		return nil, ErrNotFound
	}
	users := make([]string, 0, len(ch.Users))
	for u := range ch.Users {
		users = append(users, u)
	}
	return users, nil
}

// Topic returns the topic of name.
func (r Roster) Topic(name string) (string, error) {
	ch, ok := r.find(name)
	if !ok {
		return "", ErrNotFound
	}
	return ch.Topic, nil
}

// Type returns the visibility character of name.
func (r Roster) Type(name string) (byte, error) {
	ch, ok := r.find(name)
	if !ok {
		return 0, ErrNotFound
	}
	return ch.Type, nil
}

// HasUser reports whether nick is an occupant of name.
func (r Roster) HasUser(name, nick string) (bool, error) {
	ch, ok := r.find(name)
	if !ok {
		return false, ErrNotFound
	}
	_, present := ch.Users[nick]
	return present, nil
}

// splitNames splits an RPL_NAMEREPLY trailing parameter on runs of spaces.
func splitNames(names string) []string {
	return strings.Fields(names)
}
