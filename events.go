package irc

// EventType names one of the event kinds a Client dispatches to its
// handlers. Event names double as the callback.Registry topic that
// dispatcher.go dispatches on.
type EventType string

const (
	EventConnected    EventType = "connected"
	EventLoggedIn     EventType = "logged_in"
	EventDisconnected EventType = "disconnected"
	EventJoined       EventType = "joined"
	EventParted       EventType = "parted"
	EventTopicChanged EventType = "topic_changed"
	EventNickChanged  EventType = "nick_changed"
	EventMode         EventType = "mode"
	EventInvited      EventType = "invited"
	EventKicked       EventType = "kicked"
	EventReceived     EventType = "received"
	EventMentioned    EventType = "mentioned"
	EventMe           EventType = "me"
	EventWho          EventType = "who"
	EventUnrecognized EventType = "unrecognized"
)

// Event is delivered to every handler subscribed to its Type. Fields not
// meaningful to a given Type are left at their zero value; see the field
// comments below for which fields are populated for each.
type Event struct {
	Type EventType

	// Server and Port apply to Connected.
	Server string
	Port   int

	// Channel applies to Joined, Parted, TopicChanged, Invited, Kicked,
	// Received (channel message), Mentioned, Me (channel action), and Who.
	// Mode events carry their channel or nick in Target instead.
	Channel string

	// Nick is the actor: who joined, parted, changed topic, kicked or
	// invited someone, etc.
	Nick string
	// User and Host are the actor's userhost, when known from the message prefix.
	User string
	Host string

	// OldNick and NewNick apply to NickChanged.
	OldNick string
	NewNick string

	// Target is the recipient of a Kicked, Invited, or Mode event: the
	// nickname kicked/invited, or the target of a mode change.
	Target string

	// Topic applies to TopicChanged.
	Topic string
	// Reason applies to Parted and Kicked.
	Reason string
	// Text applies to Received, Mentioned, and Me: the message body.
	Text string
	// Mode applies to Mode: the raw flags string, e.g. "+o" or "-b".
	Mode string
	// ModeParams applies to Mode: any arguments the flags take.
	ModeParams []string

	// WhoReplies applies to Who: the accumulated RPL_WHOREPLY rows for one
	// WHO request, delivered once RPL_ENDOFWHO closes the batch.
	WhoReplies []WhoReply

	// Message is the raw message that produced this event, for handlers
	// that want access to fields this Event does not surface directly.
	// Nil for Connected and Disconnected.
	Message *Message

	// Err applies to Disconnected: the transport error that ended the
	// session, or nil for a graceful close or Quit.
	Err error
}

// WhoReply is one row of a RPL_WHOREPLY response, as buffered by the client
// until the matching RPL_ENDOFWHO arrives.
type WhoReply struct {
	Channel  string
	User     string
	Host     string
	Server   string
	Nick     string
	Flags    string // e.g. "H", "G", "H*", "G@" -- away/here, oper, channel rank
	Operator bool   // true when Flags contains '@' (channel operator)
	HopCount int
	RealName string
}

// Handler is called synchronously, in subscription order, for every Event
// whose Type it subscribed to.
type Handler func(Event)
