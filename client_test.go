package irc

import (
	"context"
	"testing"
	"time"

	"github.com/halvorsen/ircx/irctest"
)

func dialServer(s *irctest.Server) DialFunc {
	return func(ctx context.Context) (Transport, error) {
		return s, nil
	}
}

func mustRecv(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case line := <-ch:
		return line
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for client to send a line")
		return ""
	}
}

func awaitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

var subscriberSeq int

func subscribe(c *Client, t EventType) <-chan Event {
	ch := make(chan Event, 16)
	subscriberSeq++
	c.AddHandler(subscriberSeq, t, func(ev Event) { ch <- ev })
	return ch
}

func loggedOnClient(t *testing.T) (*Client, *irctest.Server) {
	t.Helper()
	srv := irctest.NewServer()
	c := NewClient(Config{})
	connected := subscribe(c, EventConnected)
	loggedIn := subscribe(c, EventLoggedIn)

	if err := c.Connect(context.Background(), "irc.example.org", 6667, false, dialServer(srv)); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	awaitEvent(t, connected)

	if err := c.Logon("", "alice", "alice", "Alice"); err != nil {
		t.Fatalf("Logon: %v", err)
	}
	mustRecv(t, srv.Sent()) // NICK
	mustRecv(t, srv.Sent()) // USER

	if err := srv.WriteString(":irc.example.org 001 alice :Welcome"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	awaitEvent(t, loggedIn)

	return c, srv
}

func TestClientGateRulesBeforeConnect(t *testing.T) {
	c := NewClient(Config{})
	defer c.Stop()

	if err := c.Msg("#bots", "hi"); err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if err := c.Logon("", "nick", "user", "real"); err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestClientGateRulesConnectedNotLoggedOn(t *testing.T) {
	srv := irctest.NewServer()
	defer srv.Close()
	c := NewClient(Config{})
	defer c.Stop()

	if err := c.Connect(context.Background(), "irc.example.org", 6667, false, dialServer(srv)); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := c.Msg("#bots", "hi"); err != ErrNotLoggedIn {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestClientLoginFlow(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	state := c.State()
	if !state.Connected || !state.LoggedOn {
		t.Errorf("expected connected+logged on, got %+v", state)
	}
	if state.Server != "irc.example.org" || state.Port != 6667 {
		t.Errorf("expected server/port recorded, got %+v", state)
	}
}

func TestClientLogonAlreadyLoggedOn(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	if err := c.Logon("", "alice", "alice", "Alice"); err != ErrAlreadyLoggedOn {
		t.Errorf("expected ErrAlreadyLoggedOn, got %v", err)
	}
}

func TestClientJoinAndNames(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	joined := subscribe(c, EventJoined)

	if err := c.Join("#bots"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	mustRecv(t, srv.Sent()) // JOIN #bots

	if err := srv.WriteString(":alice!alice@host JOIN #bots"); err != nil {
		t.Fatal(err)
	}
	awaitEvent(t, joined)

	if err := srv.WriteString(":irc.example.org 353 alice = #bots :alice @bob +carol"); err != nil {
		t.Fatal(err)
	}
	if err := srv.WriteString(":irc.example.org 366 alice #bots :End of NAMES list"); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(time.Second)
	for {
		users, err := c.ChannelUsers("#bots")
		if err == nil && len(users) == 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected 3 users in #bots, got %v (%v)", users, err)
		case <-time.After(10 * time.Millisecond):
		}
	}

	has, err := c.ChannelHasUser("#bots", "bob")
	if err != nil || !has {
		t.Errorf("expected bob present, got %v %v", has, err)
	}
}

func TestClientTopicAndMention(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	topicChanged := subscribe(c, EventTopicChanged)
	mentioned := subscribe(c, EventMentioned)

	if err := c.Join("#bots"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	mustRecv(t, srv.Sent())

	if err := srv.WriteString(":irc.example.org 332 alice #bots :welcome to #bots"); err != nil {
		t.Fatal(err)
	}
	ev := awaitEvent(t, topicChanged)
	if ev.Channel != "#bots" || ev.Topic != "welcome to #bots" {
		t.Errorf("got %+v", ev)
	}

	if err := srv.WriteString(":bob!bob@host PRIVMSG #bots :hey alice, look at this"); err != nil {
		t.Fatal(err)
	}
	mev := awaitEvent(t, mentioned)
	if mev.Channel != "#bots" || mev.Nick != "bob" {
		t.Errorf("got %+v", mev)
	}
}

func TestClientWho(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	who := subscribe(c, EventWho)

	if err := c.Who("#bots"); err != nil {
		t.Fatalf("Who: %v", err)
	}
	mustRecv(t, srv.Sent())

	if err := srv.WriteString(":irc.example.org 352 alice #bots bob host server bob H@ :0 Bob Bobson"); err != nil {
		t.Fatal(err)
	}
	if err := srv.WriteString(":irc.example.org 352 alice #bots carol host server carol H :1 Carol Carolson"); err != nil {
		t.Fatal(err)
	}
	if err := srv.WriteString(":irc.example.org 315 alice #bots :End of WHO list"); err != nil {
		t.Fatal(err)
	}

	ev := awaitEvent(t, who)
	if len(ev.WhoReplies) != 2 {
		t.Fatalf("expected 2 who replies, got %d", len(ev.WhoReplies))
	}
	if ev.WhoReplies[0].Nick != "bob" || ev.WhoReplies[0].RealName != "Bob Bobson" {
		t.Errorf("got %+v", ev.WhoReplies[0])
	}
	if !ev.WhoReplies[0].Operator {
		t.Errorf("expected bob (flags %q) to be flagged Operator, got %+v", ev.WhoReplies[0].Flags, ev.WhoReplies[0])
	}
	if ev.WhoReplies[1].Operator {
		t.Errorf("expected carol (flags %q) not to be flagged Operator, got %+v", ev.WhoReplies[1].Flags, ev.WhoReplies[1])
	}
}

func TestClientNickChangePropagation(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	joined := subscribe(c, EventJoined)
	nickChanged := subscribe(c, EventNickChanged)

	if err := c.Join("#bots"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	mustRecv(t, srv.Sent())

	if err := srv.WriteString(":alice!alice@host JOIN #bots"); err != nil {
		t.Fatal(err)
	}
	awaitEvent(t, joined)

	if err := srv.WriteString(":bob!bob@host JOIN #bots"); err != nil {
		t.Fatal(err)
	}
	awaitEvent(t, joined)

	if err := srv.WriteString(":bob!bob@host NICK :robert"); err != nil {
		t.Fatal(err)
	}
	ev := awaitEvent(t, nickChanged)
	if ev.OldNick != "bob" || ev.NewNick != "robert" {
		t.Errorf("got %+v", ev)
	}

	deadline := time.After(time.Second)
	for {
		has, err := c.ChannelHasUser("#bots", "robert")
		if err == nil && has {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected robert present in #bots after rename")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestClientDisconnectResetsSession(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer c.Stop()

	disconnected := subscribe(c, EventDisconnected)

	if err := c.Join("#bots"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	mustRecv(t, srv.Sent())

	srv.Close()
	awaitEvent(t, disconnected)

	deadline := time.After(time.Second)
	for {
		state := c.State()
		if !state.Connected && !state.LoggedOn {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected session reset after disconnect, got %+v", state)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestClientStopIsIdempotent(t *testing.T) {
	srv := irctest.NewServer()
	defer srv.Close()
	c := NewClient(Config{})

	if err := c.Connect(context.Background(), "irc.example.org", 6667, false, dialServer(srv)); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	c.Stop()
	c.Stop()

	if err := c.Msg("#bots", "hi"); err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected after Stop, got %v", err)
	}
}

func TestClientAutoPong(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	if err := srv.WriteString("PING :12345"); err != nil {
		t.Fatal(err)
	}
	line := mustRecv(t, srv.Sent())
	if line != "PONG alice :12345" {
		t.Errorf("got %q, want %q", line, "PONG alice :12345")
	}
}

func TestClientKickOtherUserRemovesOnlyThatUser(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	joined := subscribe(c, EventJoined)
	kicked := subscribe(c, EventKicked)

	if err := c.Join("#bots"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	mustRecv(t, srv.Sent())

	if err := srv.WriteString(":alice!alice@host JOIN #bots"); err != nil {
		t.Fatal(err)
	}
	awaitEvent(t, joined)
	if err := srv.WriteString(":bob!bob@host JOIN #bots"); err != nil {
		t.Fatal(err)
	}
	awaitEvent(t, joined)
	// A self JOIN only creates an empty entry; the NAMES reply lists alice.
	if err := srv.WriteString(":irc.example.org 353 alice = #bots :alice bob"); err != nil {
		t.Fatal(err)
	}

	if err := srv.WriteString(":alice!alice@host KICK #bots bob :spamming"); err != nil {
		t.Fatal(err)
	}
	ev := awaitEvent(t, kicked)
	if ev.Channel != "#bots" || ev.Target != "bob" || ev.Nick != "alice" || ev.Reason != "spamming" {
		t.Errorf("got %+v", ev)
	}

	deadline := time.After(time.Second)
	for {
		has, err := c.ChannelHasUser("#bots", "bob")
		if err == nil && !has {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected bob removed from #bots after kick, got has=%v err=%v", has, err)
		case <-time.After(10 * time.Millisecond):
		}
	}

	if has, err := c.ChannelHasUser("#bots", "alice"); err != nil || !has {
		t.Errorf("expected alice still in #bots after kicking bob, got %v %v", has, err)
	}
}

func TestClientSelfKickDropsChannel(t *testing.T) {
	c, srv := loggedOnClient(t)
	defer srv.Close()
	defer c.Stop()

	joined := subscribe(c, EventJoined)
	kicked := subscribe(c, EventKicked)

	if err := c.Join("#bots"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	mustRecv(t, srv.Sent())

	if err := srv.WriteString(":alice!alice@host JOIN #bots"); err != nil {
		t.Fatal(err)
	}
	awaitEvent(t, joined)

	if err := srv.WriteString(":carol!carol@host KICK #bots alice :rule 3"); err != nil {
		t.Fatal(err)
	}
	ev := awaitEvent(t, kicked)
	if ev.Channel != "#bots" || ev.Target != "alice" || ev.Nick != "carol" || ev.Reason != "rule 3" {
		t.Errorf("got %+v", ev)
	}

	deadline := time.After(time.Second)
	for {
		if _, err := c.ChannelUsers("#bots"); err != nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("expected #bots to be dropped from the roster after a self-kick")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestClientNoAutoPong(t *testing.T) {
	srv := irctest.NewServer()
	defer srv.Close()
	c := NewClient(Config{NoAutoping: true})
	defer c.Stop()
	connected := subscribe(c, EventConnected)
	loggedIn := subscribe(c, EventLoggedIn)

	if err := c.Connect(context.Background(), "irc.example.org", 6667, false, dialServer(srv)); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	awaitEvent(t, connected)
	if err := c.Logon("", "alice", "alice", "Alice"); err != nil {
		t.Fatalf("Logon: %v", err)
	}
	mustRecv(t, srv.Sent())
	mustRecv(t, srv.Sent())
	if err := srv.WriteString(":irc.example.org 001 alice :Welcome"); err != nil {
		t.Fatal(err)
	}
	awaitEvent(t, loggedIn)

	if err := srv.WriteString("PING :12345"); err != nil {
		t.Fatal(err)
	}
	select {
	case line := <-srv.Sent():
		t.Errorf("expected no PONG with NoAutoping set, got %q", line)
	case <-time.After(100 * time.Millisecond):
	}
}
