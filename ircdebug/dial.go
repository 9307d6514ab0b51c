package ircdebug

import (
	"context"
	"io"

	"github.com/halvorsen/ircx"
)

// WrapDial returns a DialFunc that behaves like dial but tees every byte
// read from and written to the resulting Transport to w, prefixed to tell
// the two directions apart. It's meant for Client construction during
// development, e.g. irc.NewClient with a dial wrapped to print traffic to
// os.Stdout.
func WrapDial(dial irc.DialFunc, w io.Writer) irc.DialFunc {
	return func(ctx context.Context) (irc.Transport, error) {
		conn, err := dial(ctx)
		if err != nil {
			return nil, err
		}
		return WriteTo(w, conn, "-> ", "<- "), nil
	}
}
