package protocol

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/duel"
	"github.com/vovakirdan/tui-duel/internal/multiplayer"
)

var codecs = []Codec{JSON, Msgpack}

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Codec
		wantErr bool
	}{
		{"", JSON, false},
		{"json", JSON, false},
		{"msgpack", Msgpack, false},
		{"xml", nil, true},
	}

	for _, tc := range tests {
		got, err := CodecByName(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("CodecByName(%q) error = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("CodecByName(%q) = %v, expected %v", tc.name, got, tc.want)
		}
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	for _, c := range codecs {
		if _, err := c.Encode("", Message{}); !errors.Is(err, ErrEmptyType) {
			t.Errorf("%s: Encode with empty type error = %v", c.Name(), err)
		}
		if _, err := c.Encode(MsgMessage, nil); !errors.Is(err, ErrEmptyPayload) {
			t.Errorf("%s: Encode with nil payload error = %v", c.Name(), err)
		}
		if _, err := c.DecodeEnvelope(nil); !errors.Is(err, ErrEmptyFrame) {
			t.Errorf("%s: DecodeEnvelope(nil) error = %v", c.Name(), err)
		}
	}
}

func TestDecodeClientFire(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			frame, err := c.Encode(MsgFire, Fire{X: 0.1, Y: 0, Z: 1})
			if err != nil {
				t.Fatal(err)
			}
			msg, err := DecodeClient(c, frame, "p1")
			if err != nil {
				t.Fatalf("DecodeClient() failed: %v", err)
			}
			fire, ok := msg.(multiplayer.FireMsg)
			if !ok {
				t.Fatalf("message = %T, expected FireMsg", msg)
			}
			if fire.SessionID != "p1" || fire.Direction != core.V3(0.1, 0, 1) {
				t.Errorf("fire = %+v", fire)
			}
		})
	}
}

func TestDecodeClientInput(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			frame, _ := c.Encode(MsgInput, Input{Right: true, Aim: true})
			msg, err := DecodeClient(c, frame, "p1")
			if err != nil {
				t.Fatalf("DecodeClient() failed: %v", err)
			}
			in := msg.(multiplayer.InputMsg).Input
			if !in.Has(core.ActionRight) || !in.Has(core.ActionAim) || in.Has(core.ActionLeft) {
				t.Errorf("input actions = %v", in.Actions)
			}
		})
	}
}

func TestDecodeClientErrors(t *testing.T) {
	unknown, _ := JSON.Encode("dance", Message{Text: "x"})
	if _, err := DecodeClient(JSON, unknown, "p1"); err == nil {
		t.Error("unknown message type should fail")
	}
	if _, err := DecodeClient(JSON, []byte("{not json"), "p1"); err == nil {
		t.Error("malformed frame should fail")
	}
	if _, err := DecodeClient(JSON, []byte(`{"t":"fire"}`), "p1"); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("fire without payload error = %v, expected ErrEmptyPayload", err)
	}

	hello, _ := JSON.Encode(MsgHello, Hello{V: Version, Name: "alice"})
	if msg, err := DecodeClient(JSON, hello, "p1"); msg != nil || err != nil {
		t.Errorf("hello = %v, %v; expected to be left to the handshake", msg, err)
	}
}

func TestEncodeEventState(t *testing.T) {
	snap := duel.Snapshot{
		MatchID:      "m1",
		Phase:        duel.PhaseRoundActive,
		Round:        2,
		Remaining:    17,
		VictoryScore: 4,
		Participants: []duel.ParticipantView{
			{ID: "a", Name: "alice", Role: duel.RoleOffense, CanFire: true, Score: 1},
			{ID: "b", Name: "bob", Role: duel.RoleDefense, Position: core.V3(2, 0, 20)},
		},
	}

	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			frame, err := EncodeEvent(c, multiplayer.StateEvent{Tick: 9, Snapshot: snap}, 20)
			if err != nil {
				t.Fatal(err)
			}
			env, err := c.DecodeEnvelope(frame)
			if err != nil || env.T != MsgState {
				t.Fatalf("envelope = %+v, %v", env, err)
			}
			st, err := DecodePayload[State](c, env)
			if err != nil {
				t.Fatal(err)
			}
			if st.Phase != "active" || st.Round != 2 || st.Remaining != 17 || len(st.Players) != 2 {
				t.Errorf("state = %+v", st)
			}
			if st.Players[0].Role != "offense" || !st.Players[0].CanFire || st.Players[1].X != 2 {
				t.Errorf("players = %+v", st.Players)
			}
		})
	}
}

func TestEncodeEventTypes(t *testing.T) {
	tests := []struct {
		evt  multiplayer.SessionEvent
		want string
	}{
		{multiplayer.WelcomeEvent{ID: "a", Admission: duel.AdmittedSpectator}, MsgWelcome},
		{multiplayer.RejectedEvent{Reason: "full"}, MsgRejected},
		{multiplayer.MessageEvent{Text: duel.MsgHeadshot}, MsgMessage},
		{multiplayer.CueEvent{Cue: duel.CueNearMiss}, MsgCue},
		{multiplayer.ScoreEvent{Own: 1}, MsgScore},
		{multiplayer.TimerEvent{Remaining: 3}, MsgTimer},
		{multiplayer.ShotEvent{Accepted: true, Outcome: duel.OutcomeBodyHit}, MsgShot},
	}

	for _, tc := range tests {
		frame, err := EncodeEvent(JSON, tc.evt, 20)
		if err != nil {
			t.Errorf("EncodeEvent(%T) failed: %v", tc.evt, err)
			continue
		}
		env, _ := JSON.DecodeEnvelope(frame)
		if env.T != tc.want {
			t.Errorf("EncodeEvent(%T) type = %q, expected %q", tc.evt, env.T, tc.want)
		}
	}

	frame, _ := EncodeEvent(JSON, multiplayer.WelcomeEvent{ID: "a", Admission: duel.AdmittedSpectator}, 20)
	env, _ := JSON.DecodeEnvelope(frame)
	w, _ := DecodePayload[Welcome](JSON, env)
	if w.Admission != "spectator" || w.TickHz != 20 {
		t.Errorf("welcome = %+v", w)
	}
}
