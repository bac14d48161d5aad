// Package bot provides a CPU duelist that plays through the same session
// interface as remote players.
package bot

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/duel"
	"github.com/vovakirdan/tui-duel/internal/multiplayer"
)

// Default tuning.
const (
	DefaultSkill    = 0.7
	DefaultReaction = 900 * time.Millisecond
	maxSpread       = 0.05 // Aim error per unit of distance at skill 0
)

// Host is the part of multiplayer.Host the bot needs.
type Host interface {
	Connect(s multiplayer.SessionHandle)
	Send(msg multiplayer.HostMessage)
}

// Config tunes the CPU opponent.
type Config struct {
	Name     string
	Skill    float64       // 0..1, higher aims tighter
	Reaction time.Duration // Delay between "Fire!" and the shot
	TickRate int           // Input sends per second; match the host
	Arena    config.ArenaConfig
	Seed     int64
	Logger   *log.Logger
}

// Bot is a CPU participant.
type Bot struct {
	cfg     Config
	session *multiplayer.ChannelSession
	rng     *rand.Rand
	logger  *log.Logger

	snap        duel.Snapshot
	activeSince time.Time
	firedRound  int
	strafeDir   int
	strafeUntil time.Time
}

// New creates a bot with its own session.
func New(cfg Config) *Bot {
	if cfg.Name == "" {
		cfg.Name = "CPU"
	}
	if cfg.Skill <= 0 {
		cfg.Skill = DefaultSkill
	}
	cfg.Skill = core.ClampF(cfg.Skill, 0, 1)
	if cfg.Reaction <= 0 {
		cfg.Reaction = DefaultReaction
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 20
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Bot{
		cfg:       cfg,
		session:   multiplayer.NewChannelSession(multiplayer.NewSessionID("cpu"), cfg.Name, 128),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		logger:    logger,
		strafeDir: 1,
	}
}

// ID returns the bot's session ID.
func (b *Bot) ID() multiplayer.SessionID {
	return b.session.ID()
}

// Run connects the bot and plays until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, host Host) {
	host.Connect(b.session)
	defer b.session.Close()

	ticker := time.NewTicker(time.Second / time.Duration(b.cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-b.session.Events():
			b.observe(evt, time.Now())
		case now := <-ticker.C:
			for _, msg := range b.decide(now) {
				host.Send(msg)
			}
		}
	}
}

func (b *Bot) observe(evt multiplayer.SessionEvent, now time.Time) {
	switch e := evt.(type) {
	case multiplayer.StateEvent:
		if e.Snapshot.Phase == duel.PhaseRoundActive && b.snap.Phase != duel.PhaseRoundActive {
			b.activeSince = now
		}
		b.snap = e.Snapshot
	case multiplayer.RejectedEvent:
		b.logger.Warn("bot rejected", "reason", e.Reason)
	case multiplayer.ShotEvent:
		b.logger.Debug("bot shot", "accepted", e.Accepted, "outcome", e.Outcome)
	}
}

// decide returns the messages the bot sends this tick.
func (b *Bot) decide(now time.Time) []multiplayer.HostMessage {
	if b.snap.Phase != duel.PhaseRoundActive {
		return nil
	}
	me, opponent, ok := b.views()
	if !ok || me.Dead {
		return nil
	}

	switch me.Role {
	case duel.RoleDefense:
		return []multiplayer.HostMessage{multiplayer.InputMsg{SessionID: me.ID, Input: b.dodge(me, now)}}
	case duel.RoleOffense:
		if !me.CanFire || b.firedRound == b.snap.Round || now.Sub(b.activeSince) < b.cfg.Reaction {
			return nil
		}
		b.firedRound = b.snap.Round
		return []multiplayer.HostMessage{multiplayer.FireMsg{SessionID: me.ID, Direction: b.aimAt(me, opponent)}}
	}
	return nil
}

func (b *Bot) views() (me, opponent duel.ParticipantView, ok bool) {
	var foundMe, foundOpp bool
	for _, p := range b.snap.Participants {
		if p.ID == b.session.ID() {
			me, foundMe = p, true
		} else {
			opponent, foundOpp = p, true
		}
	}
	return me, opponent, foundMe && foundOpp
}

// dodge strafes in bursts of random length and turns at the walls.
func (b *Bot) dodge(me duel.ParticipantView, now time.Time) core.InputFrame {
	edge := b.cfg.Arena.HalfWidth * 0.9
	switch {
	case me.Position.X >= edge:
		b.strafeDir = -1
	case me.Position.X <= -edge:
		b.strafeDir = 1
	case now.After(b.strafeUntil):
		if b.rng.Intn(2) == 0 {
			b.strafeDir = -b.strafeDir
		}
		b.strafeUntil = now.Add(time.Duration(300+b.rng.Intn(900)) * time.Millisecond)
	}

	// strafeDir is in world X; the defense's own right is world -X
	in := core.NewInputFrame()
	if b.strafeDir < 0 {
		in.Set(core.ActionRight)
	} else {
		in.Set(core.ActionLeft)
	}
	return in
}

// aimAt points at the opponent's head with skill-dependent error.
func (b *Bot) aimAt(me, target duel.ParticipantView) core.Vec3 {
	eye := me.Position.Add(core.V3(0, b.cfg.Arena.EyeHeight, 0))
	head := target.Position.Add(core.V3(0, b.cfg.Arena.EyeHeight, 0))
	dir := head.Sub(eye)

	spread := (1 - b.cfg.Skill) * maxSpread * dir.Len()
	dir.X += b.rng.NormFloat64() * spread
	dir.Y += b.rng.NormFloat64() * spread
	return dir
}
