package duel

import (
	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/replica"
)

// Aim is a normalized aim offset. Both axes are clamped to [-0.5, 0.5].
type Aim struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// FireResult is returned by AttemptFire.
type FireResult struct {
	Accepted bool
	Shot     Shot
}

// FireRejected is the result of a fire request that was ignored.
var FireRejected = FireResult{}

// match is the slice of the coordinator a participant calls back into.
type match interface {
	validateShot(firer *Participant, dir core.Vec3) Shot
	offenseFired(firer *Participant, shot Shot)
}

// Participant is one of the two duelists.
// Gameplay fields are replicated values written only by the host authority.
type Participant struct {
	id   ParticipantID
	name string
	slot int // Join order, decides the waiting spawn line

	auth    *replica.Authority
	match   match
	spawner Spawner
	move    config.MovementConfig
	arena   config.ArenaConfig

	role    *replica.Value[Role]
	dead    *replica.Value[bool]
	canFire *replica.Value[bool]
	score   *replica.Value[int]
	pos     *replica.Value[core.Vec3]
	aim     *replica.Value[Aim]

	// Strafe state, host-local
	vx      float64
	ramp    float64
	lastDir int
	input   core.InputFrame
}

func newParticipant(id ParticipantID, name string, slot int, auth *replica.Authority, m match, spawner Spawner, cfg config.DuelConfig) *Participant {
	return &Participant{
		id:      id,
		name:    name,
		slot:    slot,
		auth:    auth,
		match:   m,
		spawner: spawner,
		move:    cfg.Movement,
		arena:   cfg.Arena,
		role:    replica.NewValue(auth, RoleWaiting),
		dead:    replica.NewValue(auth, false),
		canFire: replica.NewValue(auth, false),
		score:   replica.NewValue(auth, 0),
		pos:     replica.NewValue(auth, core.Vec3{}),
		aim:     replica.NewValue(auth, Aim{}),
		input:   core.NewInputFrame(),
	}
}

func (p *Participant) ID() ParticipantID { return p.id }
func (p *Participant) Name() string { return p.name }
func (p *Participant) Role() Role { return p.role.Get() }
func (p *Participant) Dead() bool { return p.dead.Get() }
func (p *Participant) CanFire() bool { return p.canFire.Get() }
func (p *Participant) Score() int { return p.score.Get() }
func (p *Participant) Position() core.Vec3 { return p.pos.Get() }
func (p *Participant) Aim() Aim { return p.aim.Get() }

// Eye returns the shot origin.
func (p *Participant) Eye() core.Vec3 {
	return p.Position().Add(core.V3(0, p.arena.EyeHeight, 0))
}

// Angles returns the yaw and pitch in degrees derived from the aim offset.
func (p *Participant) Angles() (yaw, pitch float64) {
	a := p.Aim()
	yaw = core.ClampF(a.X*90, -p.move.MaxYaw, p.move.MaxYaw)
	pitch = core.ClampF(a.Y*2*p.move.MaxPitch, -p.move.MaxPitch, p.move.MaxPitch)
	return yaw, pitch
}

// AimDirection returns the unit vector the participant is looking along.
// Defense faces the firing line, so its forward axis is flipped.
func (p *Participant) AimDirection() core.Vec3 {
	yaw, pitch := p.Angles()
	return facing(p.Role(), yaw, pitch)
}

func facing(r Role, yaw, pitch float64) core.Vec3 {
	dir := core.DirectionFromAim(yaw, pitch)
	if r == RoleDefense {
		dir.X, dir.Z = -dir.X, -dir.Z
	}
	return dir
}

// Watch subscribes fn to every replicated field of the participant.
// The returned function cancels all subscriptions.
func (p *Participant) Watch(fn func()) (cancel func()) {
	cancels := []func(){
		p.role.Subscribe(func(Role, Role) { fn() }),
		p.dead.Subscribe(func(bool, bool) { fn() }),
		p.canFire.Subscribe(func(bool, bool) { fn() }),
		p.score.Subscribe(func(int, int) { fn() }),
		p.pos.Subscribe(func(core.Vec3, core.Vec3) { fn() }),
		p.aim.Subscribe(func(Aim, Aim) { fn() }),
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// Version sums the versions of every replicated field. It grows on every
// applied change and can be used to detect staleness cheaply.
func (p *Participant) Version() uint64 {
	return p.role.Version() + p.dead.Version() + p.canFire.Version() +
		p.score.Version() + p.pos.Version() + p.aim.Version()
}

// SetRole assigns a role, then resets position and aim.
func (p *Participant) SetRole(by *replica.Authority, r Role) bool {
	if !p.role.Set(by, r) {
		return false
	}
	p.aim.Set(by, Aim{})
	p.vx, p.ramp, p.lastDir = 0, 0, 0
	p.input.Clear()
	if p.spawner != nil {
		p.spawner.ResetPosition(p.id)
	}
	return true
}

// SetFirePermission grants or revokes the right to fire.
func (p *Participant) SetFirePermission(by *replica.Authority, allowed bool) bool {
	return p.canFire.Set(by, allowed)
}

// RegisterHit marks the participant dead.
func (p *Participant) RegisterHit(by *replica.Authority) bool {
	return p.dead.Set(by, true)
}

// Revive clears the dead flag.
func (p *Participant) Revive(by *replica.Authority) bool {
	return p.dead.Set(by, false)
}

// IncrementScore adds one elimination.
func (p *Participant) IncrementScore(by *replica.Authority) bool {
	return p.score.Set(by, p.score.Get()+1)
}

// ResetScore zeroes the score for a new match.
func (p *Participant) ResetScore(by *replica.Authority) bool {
	return p.score.Set(by, 0)
}

// Place moves the participant to pos and stops any strafe.
func (p *Participant) Place(by *replica.Authority, pos core.Vec3) bool {
	if !p.pos.Set(by, pos) {
		return false
	}
	p.vx, p.ramp = 0, 0
	return true
}

// AttemptFire is the client's fire request. It is honored only for the
// offense while fire permission is granted. On success permission is
// revoked before the coordinator is told, so at most one shot lands per
// round.
func (p *Participant) AttemptFire(dir core.Vec3) FireResult {
	if p.Role() != RoleOffense || !p.CanFire() || p.match == nil {
		return FireRejected
	}

	shot := p.match.validateShot(p, dir)
	p.canFire.Set(p.auth, false)
	p.match.offenseFired(p, shot)
	return FireResult{Accepted: true, Shot: shot}
}

// SetInput replaces the held input applied on the next Step.
func (p *Participant) SetInput(frame core.InputFrame) {
	p.input = frame.Clone()
}

// Step advances strafing and aiming by dt time units using the held input.
// Left and right are relative to the participant's facing. Holding Aim turns
// horizontal input into yaw instead of movement; vertical input always
// adjusts pitch.
func (p *Participant) Step(dt float64) {
	if p.Role() == RoleWaiting || p.Dead() {
		return
	}

	h := p.input.Horizontal()
	v := p.input.Vertical()
	aiming := p.input.Has(core.ActionAim)

	a := p.Aim()
	sens := p.move.AimSensitivity * dt
	if aiming {
		a.X = core.ClampF(a.X+float64(h)*sens, -0.5, 0.5)
	}
	a.Y = core.ClampF(a.Y+float64(v)*sens, -0.5, 0.5)
	p.aim.Set(p.auth, a)

	dir := h
	if aiming {
		dir = 0
	}
	if p.Role() == RoleDefense {
		dir = -dir // Faces the firing line, so its left is world +X
	}
	p.strafe(dir, dt)
}

func (p *Participant) strafe(dir int, dt float64) {
	if dir == 0 {
		p.vx, p.ramp, p.lastDir = 0, 0, 0
		return
	}
	if dir != p.lastDir {
		p.ramp = 0
	}
	p.lastDir = dir
	p.ramp += dt

	accel := p.move.AccelerationTime
	t := 1.0
	if accel > 0 {
		t = p.ramp / accel
	}
	p.vx = float64(dir) * core.Lerp(0, p.move.MaxSpeed, t)

	pos := p.Position()
	x := pos.X + p.vx*dt
	if limit := p.arena.HalfWidth; x < -limit || x > limit {
		x = core.ClampF(x, -limit, limit)
		p.vx = 0
	}
	pos.X = x
	p.pos.Set(p.auth, pos)
}
