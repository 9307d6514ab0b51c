package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestISupportDefaults(t *testing.T) {
	is := newISupport()
	assert.True(t, is.isChannel("#general"), "expected # to be a channel prefix by default")
	assert.True(t, is.isChannel("&local"), "expected & to be a channel prefix by default")
	assert.False(t, is.isChannel("general"), "expected bare nick not to be a channel")
}

func TestISupportApplyNetwork(t *testing.T) {
	is := newISupport()
	is = is.apply(Params{"NETWORK=Libera.Chat", "CASEMAPPING=rfc1459"})
	assert.Equal(t, "Libera.Chat", is.network)
}

func TestISupportApplyChanTypes(t *testing.T) {
	is := newISupport()
	is = is.apply(Params{"CHANTYPES=#"})
	assert.Equal(t, "#", is.chanTypes)
	assert.False(t, is.isChannel("&local"), "expected & no longer to be a channel prefix")
}

func TestISupportApplyPrefix(t *testing.T) {
	is := newISupport()
	is = is.apply(Params{"PREFIX=(qaohv)~&@%+"})
	assert.Equal(t, "qaohv", is.prefixModes)
	assert.Equal(t, "~&@%+", is.userPrefixes)
}

func TestISupportApplyUnknownTokenIgnored(t *testing.T) {
	is := newISupport()
	before := is
	is = is.apply(Params{"EXCEPTS", "MAXLIST=bqeI:100"})
	assert.Equal(t, before, is, "expected unknown tokens to leave isupport unchanged")
}

func TestISupportApplyMalformedPrefixIgnored(t *testing.T) {
	is := newISupport()
	before := is
	is = is.apply(Params{"PREFIX=(ov)@"})
	assert.Equal(t, before, is, "expected mismatched modes/chars to be ignored")
}

func TestCutToken(t *testing.T) {
	name, value, hasValue := cutToken("CHANTYPES=#&")
	assert.Equal(t, "CHANTYPES", name)
	assert.Equal(t, "#&", value)
	assert.True(t, hasValue)

	name, value, hasValue = cutToken("EXCEPTS")
	assert.Equal(t, "EXCEPTS", name)
	assert.Equal(t, "", value)
	assert.False(t, hasValue)
}

func TestParsePrefix(t *testing.T) {
	modes, chars, ok := parsePrefix("(ov)@+")
	assert.True(t, ok)
	assert.Equal(t, "ov", modes)
	assert.Equal(t, "@+", chars)

	_, _, ok = parsePrefix("ov@+")
	assert.False(t, ok, "expected missing '(' to fail parse")

	_, _, ok = parsePrefix("(ov)@")
	assert.False(t, ok, "expected length mismatch to fail parse")
}
