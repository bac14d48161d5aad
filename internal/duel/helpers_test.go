package duel

import (
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/replica"
)

type presented struct {
	kind string // message, cue, score, timer
	text string
	to   ParticipantID
}

// recordingPresenter keeps every presentation call in order.
type recordingPresenter struct {
	events []presented
	scores map[ParticipantID][2]int
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{scores: make(map[ParticipantID][2]int)}
}

func (r *recordingPresenter) ShowMessage(text string, to ParticipantID) {
	r.events = append(r.events, presented{"message", text, to})
}

func (r *recordingPresenter) PlayCue(cue Cue, to ParticipantID) {
	r.events = append(r.events, presented{"cue", string(cue), to})
}

func (r *recordingPresenter) UpdateScoreDisplay(to ParticipantID, own, opponent int) {
	r.scores[to] = [2]int{own, opponent}
}

func (r *recordingPresenter) UpdateTimer(to ParticipantID, remaining int) {
	r.events = append(r.events, presented{"timer", "", to})
}

func (r *recordingPresenter) lastMessage() string {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].kind == "message" {
			return r.events[i].text
		}
	}
	return ""
}

func (r *recordingPresenter) count(kind, text string, to ParticipantID) int {
	n := 0
	for _, e := range r.events {
		if e.kind == kind && e.text == text && e.to == to {
			n++
		}
	}
	return n
}

type recordingSink struct {
	results []MatchResultData
}

func (s *recordingSink) SaveMatchResult(r MatchResultData) error {
	s.results = append(s.results, r)
	return nil
}

// testConfig runs one tick per time unit so tests count in whole units.
func testConfig() config.DuelConfig {
	cfg := config.DefaultDuelConfig()
	cfg.Timing = config.TimingConfig{
		TickRate:   1,
		Countdown:  5,
		RoundTime:  30,
		Resolution: 5,
		Restart:    5,
	}
	cfg.Match.TotalRounds = 3
	return cfg
}

type fixture struct {
	coord     *Coordinator
	auth      *replica.Authority
	presenter *recordingPresenter
	sink      *recordingSink
}

func newFixture(t *testing.T, cfg config.DuelConfig) *fixture {
	t.Helper()
	f := &fixture{
		auth:      replica.NewAuthority("test"),
		presenter: newRecordingPresenter(),
		sink:      &recordingSink{},
	}
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	coord, err := NewCoordinator(cfg, f.auth, Deps{
		Presenter: f.presenter,
		Results:   f.sink,
		Rand:      rand.New(rand.NewSource(1)),
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	if err != nil {
		t.Fatalf("NewCoordinator() failed: %v", err)
	}
	f.coord = coord
	return f
}

// join connects two participants "a" and "b".
func (f *fixture) join(t *testing.T) {
	t.Helper()
	for _, id := range []ParticipantID{"a", "b"} {
		if _, err := f.coord.AddParticipant(id, string(id)); err != nil {
			t.Fatalf("AddParticipant(%q) failed: %v", id, err)
		}
	}
}

func (f *fixture) ticks(n int) {
	for i := 0; i < n; i++ {
		f.coord.Tick()
	}
}

// toActive runs out the countdown.
func (f *fixture) toActive(t *testing.T) {
	t.Helper()
	if f.coord.Phase() != PhaseRoundCountdown {
		t.Fatalf("phase = %v, expected countdown", f.coord.Phase())
	}
	f.ticks(f.coord.Config().Timing.Countdown)
	if f.coord.Phase() != PhaseRoundActive {
		t.Fatalf("phase = %v after countdown, expected active", f.coord.Phase())
	}
}

var (
	aimStraight = core.V3(0, 0, 1)
	aimWide     = core.V3(1, 0, 0)
)

// playRound runs a full round where the offense either lands a headshot or
// misses, then waits out the resolution.
func (f *fixture) playRound(t *testing.T, headshot bool) {
	t.Helper()
	f.toActive(t)
	dir := aimWide
	if headshot {
		dir = aimStraight
	}
	res, err := f.coord.Fire(f.coord.Offense().ID(), dir)
	if err != nil || !res.Accepted {
		t.Fatalf("Fire() = %+v, %v; expected accepted", res, err)
	}
	f.ticks(f.coord.Config().Timing.Resolution)
}
