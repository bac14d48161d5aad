package duel

import (
	"math/rand"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/replica"
)

func TestNewCoordinatorRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Timing.TickRate = 0
	if _, err := NewCoordinator(cfg, replica.NewAuthority("test"), Deps{}); err == nil {
		t.Error("NewCoordinator() should reject tick_rate 0")
	}
	if _, err := NewCoordinator(testConfig(), nil, Deps{}); err == nil {
		t.Error("NewCoordinator() should require an authority")
	}
}

func TestWaitingUntilTwoParticipants(t *testing.T) {
	f := newFixture(t, testConfig())

	if _, err := f.coord.AddParticipant("a", "alice"); err != nil {
		t.Fatal(err)
	}
	f.ticks(20)

	if f.coord.Phase() != PhaseWaitingForPlayers {
		t.Errorf("phase = %v with one participant, expected waiting", f.coord.Phase())
	}
	if f.presenter.lastMessage() != MsgWaiting {
		t.Errorf("last message = %q, expected %q", f.presenter.lastMessage(), MsgWaiting)
	}
	if role := f.coord.Participant("a").Role(); role != RoleWaiting {
		t.Errorf("role = %v, expected waiting", role)
	}

	if _, err := f.coord.AddParticipant("b", "bob"); err != nil {
		t.Fatal(err)
	}
	if f.coord.Phase() != PhaseRoundCountdown {
		t.Errorf("phase = %v with two participants, expected countdown", f.coord.Phase())
	}
	if f.coord.Round() != 1 {
		t.Errorf("round = %d, expected 1", f.coord.Round())
	}
}

func TestAddParticipantLimits(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)

	if _, err := f.coord.AddParticipant("a", "again"); err != ErrAlreadyConnected {
		t.Errorf("duplicate add error = %v, expected ErrAlreadyConnected", err)
	}
	if _, err := f.coord.AddParticipant("c", "carol"); err != ErrMatchFull {
		t.Errorf("third add error = %v, expected ErrMatchFull", err)
	}
	if f.coord.Count() != 2 {
		t.Errorf("count = %d, expected 2", f.coord.Count())
	}
}

func TestExactlyOneOffense(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)

	check := func(when string) {
		t.Helper()
		offense, defense := 0, 0
		for _, p := range f.coord.Participants() {
			switch p.Role() {
			case RoleOffense:
				offense++
			case RoleDefense:
				defense++
			}
		}
		if offense != 1 || defense != 1 {
			t.Errorf("%s: %d offense and %d defense, expected one each", when, offense, defense)
		}
	}

	check("countdown")
	f.toActive(t)
	check("active")
	f.coord.Fire(f.coord.Offense().ID(), aimWide)
	check("resolution")
}

func TestCountdownGrantsFirePermission(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	off := f.coord.Offense()

	f.ticks(4)
	if off.CanFire() {
		t.Error("offense should not fire before the countdown ends")
	}
	if got := f.presenter.lastMessage(); got != "1" {
		t.Errorf("countdown message = %q, expected 1", got)
	}

	f.ticks(1)
	if f.coord.Phase() != PhaseRoundActive {
		t.Fatalf("phase = %v, expected active", f.coord.Phase())
	}
	if !off.CanFire() {
		t.Error("offense should be able to fire once the round is active")
	}
	if def := f.coord.Opponent(off.ID()); def.CanFire() {
		t.Error("defense must never get fire permission")
	}
	if f.presenter.count("cue", string(CueRoundStart), Broadcast) != 1 {
		t.Error("round start cue should play once")
	}
}

func TestCountdownAnnouncesEveryUnit(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	f.toActive(t)

	for _, n := range []string{"5", "4", "3", "2", "1"} {
		if f.presenter.count("message", n, Broadcast) != 1 {
			t.Errorf("countdown %s announced %d times, expected once", n, f.presenter.count("message", n, Broadcast))
		}
	}
}

func TestCountdownWithFasterTickRate(t *testing.T) {
	cfg := testConfig()
	cfg.Timing.TickRate = 10
	f := newFixture(t, cfg)
	f.join(t)

	f.ticks(49)
	if f.coord.Phase() != PhaseRoundCountdown {
		t.Fatalf("phase = %v after 49 ticks, expected countdown", f.coord.Phase())
	}
	if f.coord.Remaining() != 1 {
		t.Errorf("Remaining() = %d, expected 1", f.coord.Remaining())
	}
	f.ticks(1)
	if f.coord.Phase() != PhaseRoundActive {
		t.Errorf("phase = %v after 50 ticks, expected active", f.coord.Phase())
	}
}

func TestHeadshotScenario(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	off := f.coord.Offense()
	def := f.coord.Opponent(off.ID())

	var sawDead bool
	cancel := def.dead.Subscribe(func(_, dead bool) {
		if dead {
			sawDead = true
		}
	})
	defer cancel()

	f.toActive(t)
	res, err := f.coord.Fire(off.ID(), aimStraight)
	if err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if !res.Accepted || res.Shot.Outcome != OutcomeHeadshot {
		t.Fatalf("Fire() = %+v, expected accepted headshot", res)
	}
	if res.Shot.Target != def.ID() {
		t.Errorf("target = %q, expected %q", res.Shot.Target, def.ID())
	}
	if !sawDead {
		t.Error("defense should have been marked dead by the headshot")
	}
	if f.presenter.count("cue", string(CueDeath), Broadcast) != 1 {
		t.Error("death cue should play once")
	}

	// Fire ends the round at once
	if f.coord.Phase() != PhaseRoundResolution {
		t.Fatalf("phase = %v after fire, expected resolution", f.coord.Phase())
	}
	if f.presenter.count("message", MsgHeadshot, Broadcast) != 1 {
		t.Error("headshot message should be shown once")
	}
	if off.Score() != 1 || def.Score() != 0 {
		t.Errorf("scores = %d/%d, expected 1/0", off.Score(), def.Score())
	}
	if def.Dead() {
		t.Error("resolution should revive the defense")
	}
	if off.Role() != RoleDefense || def.Role() != RoleOffense {
		t.Errorf("roles = %v/%v, expected swapped", off.Role(), def.Role())
	}
	if got := f.presenter.scores[off.ID()]; got != [2]int{1, 0} {
		t.Errorf("score display for shooter = %v, expected [1 0]", got)
	}

	f.ticks(5)
	if f.coord.Phase() != PhaseRoundCountdown || f.coord.Round() != 2 {
		t.Errorf("phase = %v round %d, expected countdown round 2", f.coord.Phase(), f.coord.Round())
	}
	if f.coord.Offense() != def {
		t.Error("former defense should be offense in round 2")
	}
}

func TestMissScoresNothing(t *testing.T) {
	tests := []struct {
		name    string
		dir     core.Vec3
		outcome Outcome
	}{
		{"wide", aimWide, OutcomeMiss},
		{"body", core.V3(0, -0.8, 20), OutcomeBodyHit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, testConfig())
			f.join(t)
			off := f.coord.Offense()
			def := f.coord.Opponent(off.ID())
			f.toActive(t)

			res, _ := f.coord.Fire(off.ID(), tc.dir)
			if res.Shot.Outcome != tc.outcome {
				t.Errorf("outcome = %v, expected %v", res.Shot.Outcome, tc.outcome)
			}
			if off.Score() != 0 || def.Score() != 0 {
				t.Errorf("scores = %d/%d, expected 0/0", off.Score(), def.Score())
			}
			if f.presenter.count("message", MsgMiss, Broadcast) != 1 {
				t.Error("miss message should be shown once")
			}
			if f.presenter.count("cue", string(CueNearMiss), off.ID()) != 1 {
				t.Error("near-miss cue should play for the shooter")
			}
			if f.coord.Phase() != PhaseRoundResolution {
				t.Errorf("phase = %v, expected resolution", f.coord.Phase())
			}
		})
	}
}

func TestSingleFirePerRound(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	off := f.coord.Offense()
	f.toActive(t)

	if res, _ := f.coord.Fire(off.ID(), aimWide); !res.Accepted {
		t.Fatal("first fire should be accepted")
	}
	if res, _ := f.coord.Fire(off.ID(), aimStraight); res.Accepted {
		t.Error("second fire in the same round should be rejected")
	}
	// The new offense may not fire during resolution either
	if res, _ := f.coord.Fire(f.coord.Offense().ID(), aimStraight); res.Accepted {
		t.Error("fire during resolution should be rejected")
	}
	for _, p := range f.coord.Participants() {
		if p.Score() != 0 {
			t.Errorf("%s score = %d, expected 0", p.ID(), p.Score())
		}
	}
}

func TestFireRejectedOutsideActiveRound(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	off := f.coord.Offense()
	def := f.coord.Opponent(off.ID())

	if res, _ := f.coord.Fire(off.ID(), aimStraight); res.Accepted {
		t.Error("fire during countdown should be rejected")
	}

	f.toActive(t)
	if res, _ := f.coord.Fire(def.ID(), aimStraight); res.Accepted {
		t.Error("defense fire should be rejected")
	}
	if off.Dead() || f.coord.Phase() != PhaseRoundActive {
		t.Error("a rejected fire must not change state")
	}

	if _, err := f.coord.Fire("ghost", aimStraight); err != ErrUnknownParticipant {
		t.Errorf("Fire() for unknown ID error = %v, expected ErrUnknownParticipant", err)
	}
}

func TestRoundTimeout(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	off := f.coord.Offense()
	def := f.coord.Opponent(off.ID())
	f.toActive(t)

	f.ticks(29)
	if f.coord.Phase() != PhaseRoundActive {
		t.Fatalf("phase = %v before time is up, expected active", f.coord.Phase())
	}
	if f.coord.Remaining() != 1 {
		t.Errorf("Remaining() = %d, expected 1", f.coord.Remaining())
	}

	f.ticks(1)
	if f.coord.Phase() != PhaseRoundResolution {
		t.Fatalf("phase = %v after time is up, expected resolution", f.coord.Phase())
	}
	if f.presenter.lastMessage() != MsgTimesUp {
		t.Errorf("last message = %q, expected %q", f.presenter.lastMessage(), MsgTimesUp)
	}
	if off.CanFire() {
		t.Error("fire permission should be revoked on timeout")
	}
	if off.Score() != 0 || def.Score() != 0 {
		t.Error("timeout should not score")
	}
	if off.Role() != RoleDefense {
		t.Error("roles should swap after a timeout")
	}
}

func TestGameOverAtVictoryScore(t *testing.T) {
	f := newFixture(t, testConfig()) // 3 rounds, victory at 2
	f.join(t)
	first := f.coord.Offense()
	second := f.coord.Opponent(first.ID())

	f.playRound(t, true) // first 1-0
	f.playRound(t, true) // second 1-1
	if f.coord.Phase() != PhaseRoundCountdown {
		t.Fatalf("phase = %v at 1-1, expected countdown", f.coord.Phase())
	}

	f.toActive(t)
	f.coord.Fire(first.ID(), aimStraight) // first 2-1
	if f.coord.Phase() != PhaseRoundResolution {
		t.Fatalf("phase = %v, expected resolution before game over", f.coord.Phase())
	}
	f.ticks(5)

	if f.coord.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, expected game over", f.coord.Phase())
	}
	if first.Score() != 2 || second.Score() != 1 {
		t.Errorf("scores = %d/%d, expected 2/1", first.Score(), second.Score())
	}
	if f.presenter.count("message", MsgWin, first.ID()) != 1 {
		t.Error("winner should be told they won")
	}
	if f.presenter.count("message", MsgLose, second.ID()) != 1 {
		t.Error("loser should be told they lost")
	}
	if f.presenter.count("message", MsgWin, Broadcast) != 0 {
		t.Error("win message must not be broadcast")
	}
	for _, p := range f.coord.Participants() {
		if p.Role() != RoleWaiting || p.CanFire() {
			t.Errorf("%s role = %v can_fire = %v after game over", p.ID(), p.Role(), p.CanFire())
		}
	}

	if len(f.sink.results) != 1 {
		t.Fatalf("saved %d results, expected 1", len(f.sink.results))
	}
	res := f.sink.results[0]
	if res.WinnerID != string(first.ID()) || res.EndReason != EndReasonCompleted || res.Rounds != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestNoRoundCapWithoutWinner(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)

	// Far more rounds than total_rounds, nobody scores
	for i := 0; i < 6; i++ {
		f.playRound(t, false)
	}
	if f.coord.Phase() != PhaseRoundCountdown {
		t.Errorf("phase = %v, expected the match to keep going", f.coord.Phase())
	}
	if f.coord.Round() != 7 {
		t.Errorf("round = %d, expected 7", f.coord.Round())
	}
}

func TestRematchAfterGameOver(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	f.playRound(t, true)
	f.playRound(t, false)
	f.playRound(t, true)
	if f.coord.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, expected game over", f.coord.Phase())
	}
	firstMatch := f.coord.MatchID()

	f.ticks(5)
	if f.coord.Phase() != PhaseRoundCountdown {
		t.Fatalf("phase = %v after restart delay, expected a new countdown", f.coord.Phase())
	}
	if f.coord.MatchID() == firstMatch {
		t.Error("rematch should get a new match ID")
	}
	if f.coord.Round() != 1 {
		t.Errorf("round = %d, expected 1", f.coord.Round())
	}
	for _, p := range f.coord.Participants() {
		if p.Score() != 0 {
			t.Errorf("%s score = %d after rematch, expected 0", p.ID(), p.Score())
		}
	}
}

func TestDisconnectAborts(t *testing.T) {
	phases := []struct {
		name  string
		setup func(t *testing.T, f *fixture)
		saved int
	}{
		{"countdown", func(t *testing.T, f *fixture) { f.ticks(2) }, 1},
		{"active", func(t *testing.T, f *fixture) { f.toActive(t) }, 1},
		{"resolution", func(t *testing.T, f *fixture) {
			f.toActive(t)
			f.coord.Fire(f.coord.Offense().ID(), aimWide)
		}, 1},
		{"game over", func(t *testing.T, f *fixture) {
			f.playRound(t, true)
			f.playRound(t, false)
			f.playRound(t, true)
		}, 1},
	}

	for _, tc := range phases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, testConfig())
			f.join(t)
			tc.setup(t, f)

			if err := f.coord.RemoveParticipant("a"); err != nil {
				t.Fatalf("RemoveParticipant() failed: %v", err)
			}
			if f.coord.Phase() != PhaseWaitingForPlayers {
				t.Fatalf("phase = %v after disconnect, expected waiting", f.coord.Phase())
			}
			if f.coord.timer.Running() {
				t.Error("no phase timer may survive an abort")
			}
			b := f.coord.Participant("b")
			if b.Role() != RoleWaiting || b.CanFire() || b.Dead() {
				t.Errorf("survivor role = %v can_fire = %v dead = %v", b.Role(), b.CanFire(), b.Dead())
			}
			if f.presenter.lastMessage() != MsgWaiting {
				t.Errorf("last message = %q, expected %q", f.presenter.lastMessage(), MsgWaiting)
			}
			if len(f.sink.results) != tc.saved {
				t.Errorf("saved %d results, expected %d", len(f.sink.results), tc.saved)
			}

			// A stale timer would move the phase on
			f.ticks(100)
			if f.coord.Phase() != PhaseWaitingForPlayers {
				t.Errorf("phase = %v long after abort, expected waiting", f.coord.Phase())
			}
		})
	}
}

func TestDisconnectResultHasNoWinner(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	f.playRound(t, true)

	if err := f.coord.RemoveParticipant("b"); err != nil {
		t.Fatal(err)
	}
	if len(f.sink.results) != 1 {
		t.Fatalf("saved %d results, expected 1", len(f.sink.results))
	}
	res := f.sink.results[0]
	if res.EndReason != EndReasonDisconnect || res.WinnerID != "" {
		t.Errorf("result reason = %q winner = %q, expected disconnect with no winner", res.EndReason, res.WinnerID)
	}
	if res.Player2ID != "b" {
		t.Errorf("Player2ID = %q, the leaver should still be recorded", res.Player2ID)
	}
}

func TestReconnectStartsFreshMatch(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	f.playRound(t, true)

	if err := f.coord.RemoveParticipant("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.coord.AddParticipant("c", "carol"); err != nil {
		t.Fatal(err)
	}

	if f.coord.Phase() != PhaseRoundCountdown || f.coord.Round() != 1 {
		t.Errorf("phase = %v round %d, expected fresh countdown", f.coord.Phase(), f.coord.Round())
	}
	for _, p := range f.coord.Participants() {
		if p.Score() != 0 {
			t.Errorf("%s score = %d, expected 0", p.ID(), p.Score())
		}
	}
}

func TestRemoveUnknownParticipant(t *testing.T) {
	f := newFixture(t, testConfig())
	if err := f.coord.RemoveParticipant("nobody"); err != ErrUnknownParticipant {
		t.Errorf("error = %v, expected ErrUnknownParticipant", err)
	}
}

func TestGameOverMessagesWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	presenter := NewMockPresenter(ctrl)
	sink := NewMockResultSink(ctrl)

	cfg := testConfig()
	cfg.Match.TotalRounds = 1

	// Same seed as the fixture, so the first offense is known up front
	f := newFixture(t, cfg)
	f.join(t)
	winner := f.coord.Offense().ID()
	loser := f.coord.Opponent(winner).ID()

	coord, err := NewCoordinator(cfg, f.auth, Deps{
		Presenter: presenter,
		Results:   sink,
		Rand:      rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatal(err)
	}
	f.coord = coord

	presenter.EXPECT().ShowMessage(MsgWin, gomock.Eq(winner)).Times(1)
	presenter.EXPECT().ShowMessage(MsgLose, gomock.Eq(loser)).Times(1)
	presenter.EXPECT().PlayCue(CueVictory, gomock.Eq(winner)).Times(1)
	presenter.EXPECT().PlayCue(CueDefeat, gomock.Eq(loser)).Times(1)
	presenter.EXPECT().ShowMessage(gomock.Any(), gomock.Any()).AnyTimes()
	presenter.EXPECT().PlayCue(gomock.Any(), gomock.Any()).AnyTimes()
	presenter.EXPECT().UpdateScoreDisplay(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	presenter.EXPECT().UpdateTimer(gomock.Any(), gomock.Any()).AnyTimes()
	sink.EXPECT().SaveMatchResult(gomock.Any()).Return(nil).Times(1)

	f.join(t)
	f.playRound(t, true)

	if coord.Phase() != PhaseGameOver {
		t.Errorf("phase = %v, expected game over after one headshot in a one-round match", coord.Phase())
	}
}

func TestRoundEndCueOnlyOnTimeout(t *testing.T) {
	tests := []struct {
		name string
		dir  *core.Vec3 // nil lets the round time out
		want int
	}{
		{"headshot", &aimStraight, 0},
		{"miss", &aimWide, 0},
		{"timeout", nil, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, testConfig())
			f.join(t)
			f.toActive(t)

			if tc.dir != nil {
				if res, _ := f.coord.Fire(f.coord.Offense().ID(), *tc.dir); !res.Accepted {
					t.Fatal("fire should be accepted")
				}
			} else {
				f.ticks(f.coord.Config().Timing.RoundTime)
			}
			if f.coord.Phase() != PhaseRoundResolution {
				t.Fatalf("phase = %v, expected resolution", f.coord.Phase())
			}
			if got := f.presenter.count("cue", string(CueRoundEnd), Broadcast); got != tc.want {
				t.Errorf("round end cues = %d, expected %d", got, tc.want)
			}
		})
	}
}

func TestRolesRandomlyAssigned(t *testing.T) {
	seen := make(map[ParticipantID]int)
	for seed := int64(1); seed <= 40; seed++ {
		coord, err := NewCoordinator(testConfig(), replica.NewAuthority("test"), Deps{
			Rand: rand.New(rand.NewSource(seed)),
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, id := range []ParticipantID{"a", "b"} {
			if _, err := coord.AddParticipant(id, string(id)); err != nil {
				t.Fatalf("AddParticipant(%q) failed: %v", id, err)
			}
		}
		seen[coord.Offense().ID()]++
	}

	if seen["a"] == 0 || seen["b"] == 0 {
		t.Errorf("offense counts over 40 seeds = %v, expected both participants", seen)
	}
}

func TestTimerBroadcastDuringActiveRound(t *testing.T) {
	f := newFixture(t, testConfig())
	f.join(t)
	f.toActive(t)
	before := f.presenter.count("timer", "", Broadcast)
	f.ticks(3)
	if got := f.presenter.count("timer", "", Broadcast) - before; got != 3 {
		t.Errorf("timer updates = %d over 3 units, expected 3", got)
	}
}
