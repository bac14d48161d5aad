package multiplayer

import "testing"

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("a", "alice", 2)
	s.Send(TimerEvent{Remaining: 3})
	s.Send(TimerEvent{Remaining: 2})
	s.Send(TimerEvent{Remaining: 1})

	events := drain(s)
	if len(events) != 2 {
		t.Fatalf("got %d events, expected 2", len(events))
	}
	if got := events[0].(TimerEvent).Remaining; got != 2 {
		t.Errorf("first event = %d, expected the oldest to be dropped", got)
	}
	if got := events[1].(TimerEvent).Remaining; got != 1 {
		t.Errorf("last event = %d, expected 1", got)
	}
}

func TestChannelSessionClose(t *testing.T) {
	s := NewChannelSession("a", "alice", 4)
	s.Close()
	s.Close()

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed")
	}

	s.Send(TimerEvent{Remaining: 1})
	if events := drain(s); len(events) != 0 {
		t.Errorf("closed session queued %v", events)
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	a := NewChannelSession("a", "alice", 4)
	b := NewChannelSession("b", "bob", 4)

	if !r.Register(a) || !r.Register(b) {
		t.Fatal("Register() should accept new IDs")
	}
	if r.Register(NewChannelSession("a", "again", 4)) {
		t.Error("Register() accepted a duplicate ID")
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", r.Count())
	}

	r.SendTo("b", MessageEvent{Text: "hi"})
	if len(drain(a)) != 0 || len(drain(b)) != 1 {
		t.Error("SendTo should reach only b")
	}

	r.SendTo("", MessageEvent{Text: "all"})
	if len(drain(a)) != 1 || len(drain(b)) != 1 {
		t.Error("an empty target should broadcast")
	}

	r.Unregister("a")
	r.Unregister("a")
	if _, ok := r.Get("a"); ok || r.Count() != 1 {
		t.Errorf("after Unregister: count = %d", r.Count())
	}
}
