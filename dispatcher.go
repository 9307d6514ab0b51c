package irc

import (
	"sync"

	"github.com/kballard/gocallback/callback"
)

// SubscriberId opaquely identifies a handler registration across repeated
// AddHandler calls, so re-subscribing the same target for the same
// EventType is recognized as the same subscription rather than a second
// one. It must be a comparable value: a string name, an integer, or any
// other value usable as a map key.
type SubscriberId any

// HandlerID identifies a subscription returned by dispatcher.subscribe, so
// it can later be passed to unsubscribe.
type HandlerID struct {
	event EventType
	id    callback.CallbackIdentifier
}

// dispatcher fans an Event out to every Handler subscribed to its Type. It
// wraps one callback.Registry per EventType rather than one Registry keyed
// on all event names together, since Dispatch's reflection-based argument
// matching only needs to see the one concrete Handler signature.
//
// Delivery is fire-and-forget: handlers run on the dispatching goroutine
// and their results are ignored, so a slow handler delays every later
// handler and the dispatcher's caller; a handler that panics does not take
// down the client (see safeHandler). A handler removed mid-dispatch by another
// handler simply won't be reached for the remaining subscribers; a dead
// subscription is pruned synchronously by unsubscribe, not by the
// dispatch path, so there's no separate liveness sweep to run.
//
// Registration is idempotent per (EventType, SubscriberId): calling
// subscribe a second time for a target already registered for that
// EventType returns the existing HandlerID instead of adding a second
// callback.
type dispatcher struct {
	mu         sync.Mutex
	registries map[EventType]*callback.Registry
	subs       map[EventType]map[SubscriberId]HandlerID
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		registries: make(map[EventType]*callback.Registry),
		subs:       make(map[EventType]map[SubscriberId]HandlerID),
	}
}

// registryForLocked returns t's registry, creating it if necessary. Callers
// must hold d.mu.
func (d *dispatcher) registryForLocked(t EventType) *callback.Registry {
	r, ok := d.registries[t]
	if !ok {
		r = callback.NewRegistry(callback.DispatchSerial)
		d.registries[t] = r
	}
	return r
}

// subscribe registers fn to be called for every future event of type t on
// behalf of sub. If sub is already registered for t, the existing
// HandlerID is returned and fn is not added again.
func (d *dispatcher) subscribe(sub SubscriberId, t EventType, fn Handler) HandlerID {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.subs[t]
	if !ok {
		m = make(map[SubscriberId]HandlerID)
		d.subs[t] = m
	} else if existing, ok := m[sub]; ok {
		return existing
	}

	id := d.registryForLocked(t).AddCallback(string(t), safeHandler(fn))
	hid := HandlerID{event: t, id: id}
	m[sub] = hid
	return hid
}

// unsubscribe removes a previously registered handler. Unsubscribing an
// already-removed or zero-value HandlerID is a no-op.
func (d *dispatcher) unsubscribe(h HandlerID) {
	if h.id == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.registryForLocked(h.event).RemoveCallback(h.id)
	for sub, hid := range d.subs[h.event] {
		if hid.id == h.id {
			delete(d.subs[h.event], sub)
			break
		}
	}
}

// dispatch delivers ev to every handler subscribed to ev.Type, in
// subscription order, on the calling goroutine.
func (d *dispatcher) dispatch(ev Event) {
	d.mu.Lock()
	r := d.registryForLocked(ev.Type)
	d.mu.Unlock()
	r.Dispatch(string(ev.Type), ev)
}

// safeHandler wraps a Handler so a panicking subscriber can't crash the
// client's actor loop; the panic is swallowed at the call site since there
// is no logger threaded through handler dispatch.
func safeHandler(fn Handler) Handler {
	return func(ev Event) {
		defer func() { _ = recover() }()
		fn(ev)
	}
}
