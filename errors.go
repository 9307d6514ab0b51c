package irc

import "github.com/pkg/errors"

// Gate errors. These are returned synchronously by the offending API call
// and leave client state untouched; see the invariants in client.go.
var (
	// ErrNotConnected is returned by any command but Connect/Quit/State/
	// Stop, the roster queries, and handler management while the client has
	// no open transport.
	ErrNotConnected = errors.New("irc: not connected")

	// ErrNotLoggedIn is returned by commands that require RPL_WELCOME to
	// have been received (everything but Logon/Quit/State/Stop, the roster
	// queries, and handler management) while connected but not yet logged
	// on.
	ErrNotLoggedIn = errors.New("irc: not logged in")

	// ErrAlreadyLoggedOn is returned by Logon when called a second time on
	// an already-registered connection.
	ErrAlreadyLoggedOn = errors.New("irc: already logged on")
)

// transportError wraps a failure from the Transport in use: dialing,
// reading, or writing. Connect-time transport errors are returned directly
// to the caller of Connect; steady-state transport errors terminate the
// client's actor goroutine and are reported via a Disconnected event.
type transportError struct {
	op  string
	err error
}

func (e transportError) Error() string {
	return errors.Wrap(e.err, "irc: transport: "+e.op).Error()
}

func (e transportError) Unwrap() error { return e.err }

// parseError wraps a line the wire codec could not parse. Parse errors are
// never surfaced to callers; the offending line is logged and dropped, and
// the next one is processed independently (see processLine in inbound.go).
type parseError struct {
	line string
	err  error
}

func (e parseError) Error() string {
	return errors.Wrapf(e.err, "irc: parse error on line %q", e.line).Error()
}

func (e parseError) Unwrap() error { return e.err }
