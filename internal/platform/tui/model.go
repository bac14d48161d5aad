package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/duel"
	"github.com/vovakirdan/tui-duel/internal/multiplayer"
)

// Host is the part of multiplayer.Host a terminal client talks to.
type Host interface {
	Connect(s multiplayer.SessionHandle)
	Send(msg multiplayer.HostMessage)
	Config() config.DuelConfig
}

const (
	flashRate   = 15 // Flash frames per second
	flashFrames = 10
)

// sessionClosedMsg is sent when the host side of the session is gone.
type sessionClosedMsg struct{}

// DuelModel is the Bubble Tea model of one player's (or spectator's) view
// of the shared duel. It never simulates anything; it renders host events
// and forwards key presses.
type DuelModel struct {
	host     Host
	session  *multiplayer.ChannelSession
	arena    config.ArenaConfig
	screen   *core.Screen
	keys     *KeyMapper
	help     help.Model
	view     DuelView
	showHelp bool
	rejected string
	quitting bool
}

// NewDuelModel creates a model for a session the caller has connected.
func NewDuelModel(host Host, session *multiplayer.ChannelSession, width, height int) DuelModel {
	h := help.New()
	h.ShowAll = true
	return DuelModel{
		host:    host,
		session: session,
		arena:   host.Config().Arena,
		screen:  core.NewScreen(width, height),
		keys:    NewKeyMapper(),
		help:    h,
	}
}

// Init starts listening for host events.
func (m DuelModel) Init() tea.Cmd {
	return waitForEvent(m.session)
}

// waitForEvent returns a command that waits for the next host event.
func waitForEvent(s *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-s.Events():
			return evt
		case <-s.Done():
			return sessionClosedMsg{}
		}
	}
}

// Update handles messages.
func (m DuelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil
	case flashMsg:
		if m.view.Flash > 0 {
			m.view.Flash--
		}
		if m.view.Flash > 0 {
			return m, flashTick()
		}
		return m, nil
	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit
	case multiplayer.SessionEvent:
		flashing := m.view.Flash > 0
		m = m.apply(msg)
		if m.rejected != "" {
			return m, tea.Quit
		}
		if !flashing && m.view.Flash > 0 {
			return m, tea.Batch(waitForEvent(m.session), flashTick())
		}
		return m, waitForEvent(m.session)
	}
	return m, nil
}

// apply folds a host event into the view.
func (m DuelModel) apply(evt multiplayer.SessionEvent) DuelModel {
	switch e := evt.(type) {
	case multiplayer.WelcomeEvent:
		m.view.Self = e.ID
		m.view.Spectator = e.Admission == duel.AdmittedSpectator
	case multiplayer.RejectedEvent:
		m.rejected = e.Reason
	case multiplayer.StateEvent:
		if e.Snapshot.Phase == duel.PhaseRoundCountdown && m.view.Snapshot.Phase != duel.PhaseRoundCountdown {
			m.keys.ResetAim()
		}
		m.view.Snapshot = e.Snapshot
	case multiplayer.MessageEvent:
		m.view.Message = e.Text
	case multiplayer.CueEvent:
		m.view.Cue = e.Cue
		m.view.Flash = flashFrames
	case multiplayer.ScoreEvent:
		m.view.Own = e.Own
		m.view.Opponent = e.Opponent
	case multiplayer.TimerEvent:
		m.view.Remaining = e.Remaining
	}
	m.view.AimMode = m.keys.AimMode()
	return m
}

func (m DuelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		m.session.Close()
		return m, tea.Quit
	case core.ActionHelp:
		m.showHelp = !m.showHelp
		return m, nil
	case core.ActionFire:
		if me, ok := m.view.self(); ok && me.Role == duel.RoleOffense {
			m.host.Send(multiplayer.FireMsg{SessionID: me.ID, Direction: me.Direction()})
		}
		return m, nil
	}

	if m.view.Spectator {
		return m, nil
	}
	if frame, ok := m.keys.MapKeyToFrame(msg); ok {
		m.host.Send(multiplayer.InputMsg{SessionID: m.session.ID(), Input: frame})
	}
	m.view.AimMode = m.keys.AimMode()
	return m, nil
}

// View renders the duel.
func (m DuelModel) View() string {
	if m.quitting {
		return ""
	}
	if m.rejected != "" {
		return "Could not join the duel: " + m.rejected + "\n"
	}

	if m.showHelp {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Render("Controls\n\n" + m.help.View(m.keys.Keys()))
		return lipgloss.Place(m.screen.Width(), m.screen.Height(), lipgloss.Center, lipgloss.Center, box)
	}

	DrawDuel(m.screen, m.view, m.arena)
	return DefaultPalette.Render(m.screen)
}

// Rejected returns the host's rejection reason, if any.
func (m DuelModel) Rejected() string {
	return m.rejected
}

// Run plays one local duel in the current terminal against whatever joins
// host, typically a bot.
func Run(host Host, name string, width, height int) error {
	session := multiplayer.NewChannelSession(multiplayer.NewSessionID("local"), name, 256)
	host.Connect(session)
	defer session.Close()

	model := NewDuelModel(host, session, width, height)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
