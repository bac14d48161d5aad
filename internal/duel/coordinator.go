package duel

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/replica"
)

// Deps are the optional collaborators of a Coordinator.
type Deps struct {
	Presenter Presenter   // Defaults to a no-op
	Spawner   Spawner     // Notified after the arena places a participant
	Results   ResultSink  // Optional
	Logger    *log.Logger // nil discards
	Rand      *rand.Rand  // Picks the first offense; defaults to a time seed
	Now       func() time.Time
	MatchID   func() string
}

// Coordinator is the authoritative match state machine.
//
// It is not safe for concurrent use. The host drives it from one goroutine:
// connections and fire requests arrive between calls to Tick, which advances
// the phase timer by one simulation step.
type Coordinator struct {
	cfg       config.DuelConfig
	auth      *replica.Authority
	presenter Presenter
	results   ResultSink
	logger    *log.Logger
	rng       *rand.Rand
	now       func() time.Time
	newID     func() string

	arena     *Arena
	spawner   Spawner
	validator *Validator

	slots  []*Participant // Active participants in join order, at most two
	deaths map[ParticipantID]func()

	phase     Phase
	timer     Timer
	announced int // Last whole-unit count pushed for the running phase
	round     int
	offense   *Participant
	fired     bool
	lastShot  Shot

	matchID      string
	matchSeq     int
	matchStarted time.Time
	headshots    map[ParticipantID]int
}

// NewCoordinator creates a coordinator in WAITING_FOR_PLAYERS.
func NewCoordinator(cfg config.DuelConfig, auth *replica.Authority, deps Deps) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if auth == nil {
		return nil, errors.New("duel: coordinator needs an authority")
	}

	c := &Coordinator{
		cfg:       cfg,
		auth:      auth,
		presenter: deps.Presenter,
		results:   deps.Results,
		logger:    deps.Logger,
		rng:       deps.Rand,
		now:       deps.Now,
		newID:     deps.MatchID,
		deaths:    make(map[ParticipantID]func()),
		headshots: make(map[ParticipantID]int),
		phase:     PhaseWaitingForPlayers,
	}
	if c.presenter == nil {
		c.presenter = noopPresenter{}
	}
	if c.logger == nil {
		c.logger = discardLogger()
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = func() string {
			return fmt.Sprintf("duel-%d-%d", c.now().Unix(), c.matchSeq)
		}
	}

	c.arena = NewArena(cfg.Arena, auth, c.Participant)
	c.spawner = c.arena
	if deps.Spawner != nil {
		c.spawner = spawnChain{c.arena, deps.Spawner}
	}
	c.validator = NewValidator(c.arena, cfg.Validator.MaxRange, auth, c.presenter, c.logger)
	return c, nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// Config returns the rules the coordinator runs with.
func (c *Coordinator) Config() config.DuelConfig { return c.cfg }

// Phase returns the current state.
func (c *Coordinator) Phase() Phase { return c.phase }

// Round returns the 1-based number of the current or last round.
func (c *Coordinator) Round() int { return c.round }

// MatchID returns the ID of the current or last match.
func (c *Coordinator) MatchID() string { return c.matchID }

// Remaining returns the whole time units left in the running phase.
func (c *Coordinator) Remaining() int {
	return c.timer.RemainingUnits(c.cfg.Timing.TickRate)
}

// Count returns the number of active participants.
func (c *Coordinator) Count() int { return len(c.slots) }

// Arena returns the spawn and hit volume geometry.
func (c *Coordinator) Arena() *Arena { return c.arena }

// LastShot returns the shot that ended the current or last round.
// Only meaningful when Fired is true.
func (c *Coordinator) LastShot() Shot { return c.lastShot }

// Fired reports whether the offense fired this round.
func (c *Coordinator) Fired() bool { return c.fired }

// Participants returns the active participants in join order.
func (c *Coordinator) Participants() []*Participant {
	out := make([]*Participant, len(c.slots))
	copy(out, c.slots)
	return out
}

// Participant returns the participant with the given ID, or nil.
func (c *Coordinator) Participant(id ParticipantID) *Participant {
	for _, p := range c.slots {
		if p.id == id {
			return p
		}
	}
	return nil
}

// Offense returns the current offense, or nil outside a match.
func (c *Coordinator) Offense() *Participant { return c.offense }

// Opponent returns the other active participant.
func (c *Coordinator) Opponent(id ParticipantID) *Participant {
	for _, p := range c.slots {
		if p.id != id {
			return p
		}
	}
	return nil
}

// AddParticipant activates a new participant. When the second one joins
// while waiting, a match starts immediately.
func (c *Coordinator) AddParticipant(id ParticipantID, name string) (*Participant, error) {
	if c.Participant(id) != nil {
		return nil, ErrAlreadyConnected
	}
	if len(c.slots) >= 2 {
		return nil, ErrMatchFull
	}

	slot := 0
	if len(c.slots) == 1 && c.slots[0].slot == 0 {
		slot = 1
	}
	p := newParticipant(id, name, slot, c.auth, c, c.spawner, c.cfg)
	c.slots = append(c.slots, p)
	c.deaths[id] = p.dead.Subscribe(func(_, dead bool) {
		if dead {
			c.presenter.PlayCue(CueDeath, Broadcast)
		}
	})
	c.spawner.ResetPosition(id)

	c.logger.Info("participant joined", "id", id, "name", name, "count", len(c.slots))

	if len(c.slots) == 2 && c.phase == PhaseWaitingForPlayers {
		c.startMatch()
	} else if c.phase == PhaseWaitingForPlayers {
		c.presenter.ShowMessage(MsgWaiting, Broadcast)
	}
	return p, nil
}

// RemoveParticipant deactivates a participant. Any match in progress is
// aborted and the survivor returns to waiting.
func (c *Coordinator) RemoveParticipant(id ParticipantID) error {
	idx := -1
	for i, p := range c.slots {
		if p.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownParticipant
	}

	if c.phase.InRound() {
		c.saveResult("", EndReasonDisconnect)
	}

	c.slots[idx].SetFirePermission(c.auth, false)
	if cancel := c.deaths[id]; cancel != nil {
		cancel()
		delete(c.deaths, id)
	}
	c.slots = append(c.slots[:idx], c.slots[idx+1:]...)
	c.logger.Info("participant left", "id", id, "count", len(c.slots), "phase", c.phase)

	if c.phase != PhaseWaitingForPlayers {
		c.abort()
	}
	return nil
}

// SetInput stores a participant's held input for the next tick.
func (c *Coordinator) SetInput(id ParticipantID, frame core.InputFrame) error {
	p := c.Participant(id)
	if p == nil {
		return ErrUnknownParticipant
	}
	p.SetInput(frame)
	return nil
}

// Fire forwards a client fire request to the participant.
func (c *Coordinator) Fire(id ParticipantID, dir core.Vec3) (FireResult, error) {
	p := c.Participant(id)
	if p == nil {
		return FireRejected, ErrUnknownParticipant
	}
	res := p.AttemptFire(dir)
	if !res.Accepted {
		c.logger.Debug("fire rejected", "id", id, "role", p.Role(), "can_fire", p.CanFire(), "phase", c.phase)
	}
	return res, nil
}

// Tick advances the simulation by one step.
func (c *Coordinator) Tick() {
	dt := 1 / float64(c.cfg.Timing.TickRate)
	if c.phase == PhaseRoundActive {
		for _, p := range c.slots {
			p.Step(dt)
		}
	}

	expired := c.timer.Advance()

	switch c.phase {
	case PhaseRoundCountdown:
		if expired {
			c.enterActive()
			return
		}
		if units := c.Remaining(); units != c.announced {
			c.announced = units
			c.presenter.ShowMessage(strconv.Itoa(units), Broadcast)
		}

	case PhaseRoundActive:
		if expired {
			c.endRound()
			return
		}
		c.announceTimer()

	case PhaseRoundResolution:
		if expired {
			if winner := c.leader(); winner != nil {
				c.enterGameOver(winner)
			} else {
				c.enterCountdown()
			}
			return
		}
		if units := c.Remaining(); units != c.announced {
			c.announced = units
			c.broadcastScores()
		}

	case PhaseGameOver:
		if expired {
			c.enterWaiting()
			if len(c.slots) == 2 {
				c.startMatch()
			}
		}
	}
}

func (c *Coordinator) announceTimer() {
	if units := c.Remaining(); units != c.announced {
		c.announced = units
		c.presenter.UpdateTimer(Broadcast, units)
	}
}

func (c *Coordinator) startMatch() {
	c.matchSeq++
	c.matchID = c.newID()
	c.matchStarted = c.now()
	c.round = 0
	for k := range c.headshots {
		delete(c.headshots, k)
	}

	for _, p := range c.slots {
		p.ResetScore(c.auth)
		p.Revive(c.auth)
		p.SetFirePermission(c.auth, false)
	}

	first := c.rng.Intn(2)
	c.assignRoles(c.slots[first], c.slots[1-first])
	c.logger.Info("match started", "match", c.matchID, "offense", c.offense.id)

	c.broadcastScores()
	c.enterCountdown()
}

func (c *Coordinator) assignRoles(offense, defense *Participant) {
	offense.SetRole(c.auth, RoleOffense)
	defense.SetRole(c.auth, RoleDefense)
	c.offense = offense
}

func (c *Coordinator) enterCountdown() {
	c.round++
	c.phase = PhaseRoundCountdown
	c.fired = false
	c.lastShot = Shot{}
	for _, p := range c.slots {
		p.Revive(c.auth)
		p.SetFirePermission(c.auth, false)
	}

	c.timer.Start(c.cfg.Ticks(c.cfg.Timing.Countdown))
	c.announced = c.Remaining()
	c.presenter.ShowMessage(strconv.Itoa(c.announced), Broadcast)
	c.logger.Debug("round countdown", "round", c.round, "offense", c.offense.id)
}

func (c *Coordinator) enterActive() {
	c.phase = PhaseRoundActive
	c.offense.SetFirePermission(c.auth, true)
	c.presenter.ShowMessage(MsgGo, Broadcast)
	c.presenter.PlayCue(CueRoundStart, Broadcast)

	c.timer.Start(c.cfg.Ticks(c.cfg.Timing.RoundTime))
	c.announced = c.Remaining()
	c.presenter.UpdateTimer(Broadcast, c.announced)
}

// validateShot implements match.
func (c *Coordinator) validateShot(firer *Participant, dir core.Vec3) Shot {
	return c.validator.Validate(firer, dir, c.slots)
}

// offenseFired implements match. It ends the active round at once.
func (c *Coordinator) offenseFired(firer *Participant, shot Shot) {
	if c.phase != PhaseRoundActive || firer != c.offense || c.fired {
		c.logger.Warn("stray fire notification", "id", firer.id, "phase", c.phase)
		return
	}
	c.fired = true
	c.lastShot = shot
	c.endRound()
}

// endRound closes ROUND_ACTIVE by fire or timeout.
func (c *Coordinator) endRound() {
	c.timer.Cancel()
	c.offense.SetFirePermission(c.auth, false)

	switch {
	case c.fired && c.lastShot.Outcome == OutcomeHeadshot:
		c.presenter.ShowMessage(MsgHeadshot, Broadcast)
	case c.fired:
		c.presenter.ShowMessage(MsgMiss, Broadcast)
	default:
		c.presenter.ShowMessage(MsgTimesUp, Broadcast)
		c.presenter.PlayCue(CueRoundEnd, Broadcast)
	}

	c.enterResolution()
}

func (c *Coordinator) enterResolution() {
	c.phase = PhaseRoundResolution

	if c.fired && c.lastShot.Outcome == OutcomeHeadshot {
		c.offense.IncrementScore(c.auth)
		c.headshots[c.offense.id]++
	}

	shooter := c.offense
	c.logger.Info("round over", "round", c.round, "offense", shooter.id,
		"fired", c.fired, "outcome", c.lastShot.Outcome, "score", shooter.Score())

	for _, p := range c.slots {
		p.Revive(c.auth)
		p.SetFirePermission(c.auth, false)
	}
	c.assignRoles(c.Opponent(shooter.id), shooter)
	c.broadcastScores()

	c.timer.Start(c.cfg.Ticks(c.cfg.Timing.Resolution))
	c.announced = c.Remaining()
}

// leader returns the participant who reached the victory score, if any.
func (c *Coordinator) leader() *Participant {
	target := c.cfg.VictoryScore()
	for _, p := range c.slots {
		if p.Score() >= target {
			return p
		}
	}
	return nil
}

func (c *Coordinator) enterGameOver(winner *Participant) {
	c.phase = PhaseGameOver
	loser := c.Opponent(winner.id)

	c.presenter.ShowMessage(MsgWin, winner.id)
	c.presenter.PlayCue(CueVictory, winner.id)
	if loser != nil {
		c.presenter.ShowMessage(MsgLose, loser.id)
		c.presenter.PlayCue(CueDefeat, loser.id)
	}

	c.saveResult(string(winner.id), EndReasonCompleted)
	c.logger.Info("match over", "match", c.matchID, "winner", winner.id, "rounds", c.round)

	for _, p := range c.slots {
		p.SetFirePermission(c.auth, false)
		p.SetRole(c.auth, RoleWaiting)
	}
	c.offense = nil

	c.timer.Start(c.cfg.Ticks(c.cfg.Timing.Restart))
	c.announced = c.Remaining()
}

func (c *Coordinator) enterWaiting() {
	c.timer.Cancel()
	c.phase = PhaseWaitingForPlayers
	c.offense = nil
	c.fired = false
	c.announced = 0
	for _, p := range c.slots {
		p.Revive(c.auth)
		p.SetFirePermission(c.auth, false)
		p.SetRole(c.auth, RoleWaiting)
	}
	c.presenter.ShowMessage(MsgWaiting, Broadcast)
}

// abort drops the match after a disconnect. No winner is declared.
func (c *Coordinator) abort() {
	c.logger.Warn("match aborted", "match", c.matchID, "phase", c.phase, "round", c.round)
	c.enterWaiting()
}

func (c *Coordinator) broadcastScores() {
	for _, p := range c.slots {
		opp := 0
		if o := c.Opponent(p.id); o != nil {
			opp = o.Score()
		}
		c.presenter.UpdateScoreDisplay(p.id, p.Score(), opp)
	}
}

func (c *Coordinator) saveResult(winner string, reason EndReason) {
	if c.results == nil || len(c.slots) == 0 {
		return
	}

	res := MatchResultData{
		MatchID:      c.matchID,
		WinnerID:     winner,
		EndReason:    reason,
		Rounds:       c.round,
		DurationSecs: int(c.now().Sub(c.matchStarted).Seconds()),
	}
	p1 := c.slots[0]
	res.Player1ID, res.Player1Name = string(p1.id), p1.name
	res.Score1, res.Headshots1 = p1.Score(), c.headshots[p1.id]
	if len(c.slots) > 1 {
		p2 := c.slots[1]
		res.Player2ID, res.Player2Name = string(p2.id), p2.name
		res.Score2, res.Headshots2 = p2.Score(), c.headshots[p2.id]
	}

	if err := c.results.SaveMatchResult(res); err != nil {
		c.logger.Error("failed to save match result", "match", c.matchID, "error", err)
	}
}
