package multiplayer

import (
	"errors"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/duel"
	"github.com/vovakirdan/tui-duel/internal/replica"
)

// HostConfig holds configuration for the host.
type HostConfig struct {
	Duel      config.DuelConfig
	Results   duel.ResultSink // Optional, saved off the simulation goroutine
	Logger    *log.Logger     // nil discards
	InboxSize int             // Buffered host messages
	Seed      int64           // 0 seeds from the clock
}

// Host owns the authority and runs the duel on a single goroutine.
// Sessions talk to it through Send; it talks back through SessionEvents.
type Host struct {
	cfg       HostConfig
	logger    *log.Logger
	sessions  *SessionRegistry
	coord     *duel.Coordinator
	lifecycle *duel.Lifecycle

	pending map[SessionID]core.InputFrame // Merged input since the last tick
	tick    uint64
	last    duel.Snapshot
	status  atomic.Pointer[duel.Snapshot]

	saves   sync.WaitGroup
	msgChan chan HostMessage
	done    chan struct{}
	stop    sync.Once
	started atomic.Bool
	stopped chan struct{}
}

// NewHost creates a host with an empty lobby.
func NewHost(cfg HostConfig) (*Host, error) {
	if cfg.InboxSize < 1 {
		cfg.InboxSize = 256
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	h := &Host{
		cfg:      cfg,
		logger:   logger,
		sessions: NewSessionRegistry(),
		pending:  make(map[SessionID]core.InputFrame),
		msgChan:  make(chan HostMessage, cfg.InboxSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	var results duel.ResultSink
	if cfg.Results != nil {
		results = &asyncResults{sink: cfg.Results, wg: &h.saves, logger: logger}
	}

	coord, err := duel.NewCoordinator(cfg.Duel, replica.NewAuthority("host"), duel.Deps{
		Presenter: &sessionPresenter{sessions: h.sessions},
		Results:   results,
		Logger:    logger.WithPrefix("duel"),
		Rand:      rand.New(rand.NewSource(seed)),
		MatchID:   NewMatchID,
	})
	if err != nil {
		return nil, err
	}
	h.coord = coord
	h.lifecycle = duel.NewLifecycle(coord, cfg.Duel.Match.Spectators, logger.WithPrefix("lifecycle"))
	h.publish()
	return h, nil
}

// Start begins the host's background processing.
func (h *Host) Start() {
	if h.started.CompareAndSwap(false, true) {
		go h.run()
	}
}

// Stop shuts down the host and waits for the loop and pending result saves.
func (h *Host) Stop() {
	h.stop.Do(func() {
		close(h.done)
	})
	if h.started.Load() {
		<-h.stopped
	}
	h.saves.Wait()
}

// Send sends a message to the host for async processing.
func (h *Host) Send(msg HostMessage) {
	select {
	case h.msgChan <- msg:
	case <-h.done:
	}
}

// Connect submits a session for admission and disconnects it automatically
// once its Done channel closes.
func (h *Host) Connect(s SessionHandle) {
	h.Send(ConnectMsg{Session: s})
	go func() {
		select {
		case <-s.Done():
			h.Send(DisconnectMsg{SessionID: s.ID()})
		case <-h.done:
		}
	}()
}

// Status returns the latest published snapshot. Safe from any goroutine.
func (h *Host) Status() duel.Snapshot {
	if s := h.status.Load(); s != nil {
		return *s
	}
	return duel.Snapshot{}
}

// Sessions returns the number of connected sessions.
func (h *Host) Sessions() int {
	return h.sessions.Count()
}

// Config returns the duel rules the host runs.
func (h *Host) Config() config.DuelConfig {
	return h.cfg.Duel
}

func (h *Host) run() {
	defer close(h.stopped)

	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.Duel.Timing.TickRate))
	defer ticker.Stop()

	for {
		select {
		case msg := <-h.msgChan:
			h.handleMessage(msg)
		case <-ticker.C:
			h.step()
		case <-h.done:
			return
		}
	}
}

func (h *Host) handleMessage(msg HostMessage) {
	switch m := msg.(type) {
	case ConnectMsg:
		h.handleConnect(m)
	case DisconnectMsg:
		h.handleDisconnect(m)
	case InputMsg:
		h.handleInput(m)
	case FireMsg:
		h.handleFire(m)
	}
	h.broadcastIfChanged()
}

func (h *Host) handleConnect(msg ConnectMsg) {
	s := msg.Session
	if !h.sessions.Register(s) {
		s.Send(RejectedEvent{Reason: duel.ErrAlreadyConnected.Error()})
		return
	}

	// Registered first so messages raised by the admission reach it
	adm, err := h.lifecycle.Connect(s.ID(), s.Name())
	if err != nil {
		h.sessions.Unregister(s.ID())
		h.logger.Info("session rejected", "id", s.ID(), "error", err)
		s.Send(RejectedEvent{Reason: err.Error()})
		return
	}

	h.logger.Info("session connected", "id", s.ID(), "name", s.Name(), "as", adm)
	s.Send(WelcomeEvent{ID: s.ID(), Admission: adm})
	s.Send(StateEvent{Tick: h.tick, Snapshot: h.lifecycle.Snapshot()})
	if adm == duel.AdmittedSpectator {
		s.Send(MessageEvent{Text: "Spectating"})
	}
}

func (h *Host) handleDisconnect(msg DisconnectMsg) {
	if _, ok := h.sessions.Get(msg.SessionID); !ok {
		return
	}
	h.sessions.Unregister(msg.SessionID)
	delete(h.pending, msg.SessionID)

	promoted, err := h.lifecycle.Disconnect(msg.SessionID)
	if err != nil && !errors.Is(err, duel.ErrUnknownParticipant) {
		h.logger.Error("disconnect failed", "id", msg.SessionID, "error", err)
	}
	h.logger.Info("session disconnected", "id", msg.SessionID, "remaining", h.sessions.Count())

	if promoted != "" {
		h.sessions.SendTo(promoted, WelcomeEvent{ID: promoted, Admission: duel.AdmittedParticipant})
	}
}

func (h *Host) handleInput(msg InputMsg) {
	if h.coord.Participant(msg.SessionID) == nil {
		return
	}
	frame, ok := h.pending[msg.SessionID]
	if !ok {
		frame = core.NewInputFrame()
	}
	frame.Merge(msg.Input)
	h.pending[msg.SessionID] = frame
}

func (h *Host) handleFire(msg FireMsg) {
	res, err := h.coord.Fire(msg.SessionID, msg.Direction)
	if err != nil {
		h.logger.Debug("fire from non-participant", "id", msg.SessionID)
		return
	}
	h.sessions.SendTo(msg.SessionID, ShotEvent{
		Accepted: res.Accepted,
		Outcome:  res.Shot.Outcome,
		Target:   res.Shot.Target,
	})
}

// step consumes the merged input and advances the duel by one tick.
func (h *Host) step() {
	for _, p := range h.coord.Participants() {
		frame := h.pending[p.ID()]
		if frame.Actions == nil {
			frame = core.NewInputFrame()
		}
		h.coord.SetInput(p.ID(), frame)
	}
	clear(h.pending)

	h.coord.Tick()
	h.tick++
	h.broadcastIfChanged()
}

// broadcastIfChanged publishes a snapshot and sends it to every session when
// anything observable moved since the last one.
func (h *Host) broadcastIfChanged() {
	snap := h.lifecycle.Snapshot()
	if snapshotsEqual(snap, h.last) {
		return
	}
	h.last = snap
	h.publish()
	h.sessions.Broadcast(StateEvent{Tick: h.tick, Snapshot: snap})
}

func (h *Host) publish() {
	snap := h.lifecycle.Snapshot()
	h.status.Store(&snap)
}

func snapshotsEqual(a, b duel.Snapshot) bool {
	if a.MatchID != b.MatchID || a.Phase != b.Phase || a.Round != b.Round ||
		a.Remaining != b.Remaining || a.Spectators != b.Spectators ||
		a.Fired != b.Fired || a.LastShot != b.LastShot ||
		len(a.Participants) != len(b.Participants) {
		return false
	}
	for i := range a.Participants {
		if a.Participants[i] != b.Participants[i] {
			return false
		}
	}
	return true
}

// sessionPresenter routes coordinator side effects to sessions.
type sessionPresenter struct {
	sessions *SessionRegistry
}

func (p *sessionPresenter) ShowMessage(text string, to duel.ParticipantID) {
	p.sessions.SendTo(to, MessageEvent{Text: text})
}

func (p *sessionPresenter) PlayCue(cue duel.Cue, to duel.ParticipantID) {
	p.sessions.SendTo(to, CueEvent{Cue: cue})
}

func (p *sessionPresenter) UpdateScoreDisplay(to duel.ParticipantID, own, opponent int) {
	p.sessions.SendTo(to, ScoreEvent{Own: own, Opponent: opponent})
}

func (p *sessionPresenter) UpdateTimer(to duel.ParticipantID, remaining int) {
	p.sessions.SendTo(to, TimerEvent{Remaining: remaining})
}

// asyncResults saves results on a separate goroutine so a slow database
// never stalls the tick loop.
type asyncResults struct {
	sink   duel.ResultSink
	wg     *sync.WaitGroup
	logger *log.Logger
}

func (a *asyncResults) SaveMatchResult(r duel.MatchResultData) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.sink.SaveMatchResult(r); err != nil {
			a.logger.Error("failed to save match result", "match", r.MatchID, "error", err)
		}
	}()
	return nil
}
