package irc

import "time"

// State is the portion of a Client's session state an Extension is allowed
// to observe and amend. It's a snapshot, not a live reference: an
// Extension returns the State it wants adopted rather than mutating
// anything in place, which keeps the state machine's single-step
// processing easy to reason about (see client.go's actor loop).
type State struct {
	Server          string
	Port            int
	TLS             bool
	Nick            string
	User            string
	RealName        string
	Connected       bool
	LoggedOn        bool
	LoginTime       time.Time
	Network         string
	ChannelPrefixes string
	UserPrefixes    string
	Channels        Roster
}

// Extension inspects a Message the state machine did not itself recognize
// and optionally returns an updated State. Returning changed=false (or
// panicking) leaves the state untouched; panics are recovered by the
// registry and treated the same as changed=false, per the "ill-typed
// result is treated as unchanged" rule extensions are held to.
//
// Extension must not perform blocking I/O: it runs synchronously inside
// the client's single-step message processing, and a slow extension stalls
// every other inbound message and outbound command behind it.
type Extension func(m *Message, s State) (next State, changed bool)

// extensionRegistry holds the extensions registered at client construction
// and runs them, in registration order, against messages the client's main
// dispatch table (dispatchInbound in inbound.go) doesn't itself recognize.
type extensionRegistry struct {
	extensions []Extension
}

func (r *extensionRegistry) register(ext Extension) {
	r.extensions = append(r.extensions, ext)
}

// handle runs every registered extension against m in order, stopping at
// the first one that reports a change and returning its result. If no
// extension changes the state, handle returns s unchanged.
func (r *extensionRegistry) handle(m *Message, s State) (result State, changed bool) {
	for _, ext := range r.extensions {
		next, ok := r.invoke(ext, m, s)
		if ok {
			return next, true
		}
	}
	return s, false
}

// invoke calls ext, converting a panic into the "unchanged" result the
// caller falls back to.
func (r *extensionRegistry) invoke(ext Extension, m *Message, s State) (next State, changed bool) {
	defer func() {
		if recover() != nil {
			next, changed = s, false
		}
	}()
	return ext(m, s)
}
