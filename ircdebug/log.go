package ircdebug

import (
	"fmt"
	"io"

	"github.com/eaburns/pretty"
	"github.com/halvorsen/ircx"
)

// EventLogger returns an irc.Handler that pretty-prints every Event it
// receives to w, one per line. Unlike WriteTo, which tees the raw wire
// bytes, this is for inspecting the client's own decoded view of the
// connection — handy wired to irc.EventUnrecognized while developing
// support for a command the package doesn't parse yet.
func EventLogger(w io.Writer) irc.Handler {
	return func(ev irc.Event) {
		fmt.Fprintln(w, pretty.String(ev))
	}
}
