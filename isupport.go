package irc

import "strings"

// isupport holds the subset of RPL_ISUPPORT (005) tokens this package acts
// on. Unknown tokens are ignored. Values are seeded with RFC 1459 defaults
// and overwritten as tokens arrive; a real network sends RPL_ISUPPORT
// across several lines, so apply is called once per line received.
type isupport struct {
	network      string
	chanTypes    string
	userPrefixes string // the character half of PREFIX=(ov)@+, e.g. "@+"
	prefixModes  string // the mode-letter half, e.g. "ov"
}

func newISupport() isupport {
	return isupport{
		chanTypes:    defaultChanTypes,
		userPrefixes: defaultUserPrefixes,
	}
}

// apply parses the parameters of one RPL_ISUPPORT message (everything
// between the nickname and the trailing "are supported by this server"
// text) and returns an updated isupport value.
func (is isupport) apply(params Params) isupport {
	for _, tok := range params {
		name, value, hasValue := cutToken(tok)
		switch name {
		case "NETWORK":
			if hasValue {
				is.network = value
			}
		case "CHANTYPES":
			if hasValue {
				is.chanTypes = value
			}
		case "PREFIX":
			if hasValue {
				if modes, chars, ok := parsePrefix(value); ok {
					is.prefixModes = modes
					is.userPrefixes = chars
				}
			}
		}
	}
	return is
}

// cutToken splits an ISUPPORT token on its first '=', the way "CHANTYPES=#&"
// or a valueless "EXCEPTS" arrives.
func cutToken(tok string) (name, value string, hasValue bool) {
	if i := strings.IndexByte(tok, '='); i >= 0 {
		return tok[:i], tok[i+1:], true
	}
	return tok, "", false
}

// parsePrefix reads the PREFIX=(modes)chars form, e.g. "(ov)@+".
func parsePrefix(value string) (modes, chars string, ok bool) {
	if len(value) == 0 || value[0] != '(' {
		return "", "", false
	}
	close := strings.IndexByte(value, ')')
	if close < 0 {
		return "", "", false
	}
	modes = value[1:close]
	chars = value[close+1:]
	if len(modes) != len(chars) {
		return "", "", false
	}
	return modes, chars, true
}

// isChannel reports whether name begins with one of the known channel type
// prefix characters.
func (is isupport) isChannel(name string) bool {
	return len(name) > 0 && strings.IndexByte(is.chanTypes, name[0]) >= 0
}
