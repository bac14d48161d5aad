package duel

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-duel/internal/config"
)

// Admission tells a new connection how it was accepted.
type Admission int

const (
	AdmittedParticipant Admission = iota
	AdmittedSpectator
)

// String returns a human-readable name for the admission.
func (a Admission) String() string {
	switch a {
	case AdmittedParticipant:
		return "Participant"
	case AdmittedSpectator:
		return "Spectator"
	default:
		return "Unknown"
	}
}

type spectator struct {
	id   ParticipantID
	name string
}

// Lifecycle admits and releases connections. The first two connections
// become participants. Later ones are spectators or rejected, depending on
// policy. When a participant leaves, the longest-waiting spectator takes
// the free slot.
type Lifecycle struct {
	coord      *Coordinator
	policy     config.SpectatorPolicy
	spectators []spectator
	logger     *log.Logger
}

// NewLifecycle creates a lifecycle in front of the coordinator.
func NewLifecycle(coord *Coordinator, policy config.SpectatorPolicy, logger *log.Logger) *Lifecycle {
	if logger == nil {
		logger = discardLogger()
	}
	return &Lifecycle{coord: coord, policy: policy, logger: logger}
}

// Connect admits a new connection.
func (l *Lifecycle) Connect(id ParticipantID, name string) (Admission, error) {
	if l.coord.Participant(id) != nil || l.spectatorIndex(id) >= 0 {
		return 0, ErrAlreadyConnected
	}

	if l.coord.Count() < 2 {
		if _, err := l.coord.AddParticipant(id, name); err != nil {
			return 0, err
		}
		return AdmittedParticipant, nil
	}

	if l.policy != config.SpectatorsAllow {
		l.logger.Info("connection rejected, match full", "id", id)
		return 0, ErrMatchFull
	}
	l.spectators = append(l.spectators, spectator{id: id, name: name})
	l.logger.Info("spectator joined", "id", id, "spectators", len(l.spectators))
	return AdmittedSpectator, nil
}

// Disconnect releases a connection. Returns the spectator promoted into
// the freed slot, if any.
func (l *Lifecycle) Disconnect(id ParticipantID) (promoted ParticipantID, err error) {
	if i := l.spectatorIndex(id); i >= 0 {
		l.spectators = append(l.spectators[:i], l.spectators[i+1:]...)
		l.logger.Info("spectator left", "id", id, "spectators", len(l.spectators))
		return "", nil
	}

	if err := l.coord.RemoveParticipant(id); err != nil {
		return "", err
	}

	if len(l.spectators) == 0 {
		return "", nil
	}
	next := l.spectators[0]
	l.spectators = l.spectators[1:]
	if _, err := l.coord.AddParticipant(next.id, next.name); err != nil {
		return "", err
	}
	l.logger.Info("spectator promoted", "id", next.id)
	return next.id, nil
}

// IsSpectator reports whether id is connected as a spectator.
func (l *Lifecycle) IsSpectator(id ParticipantID) bool {
	return l.spectatorIndex(id) >= 0
}

// Spectators returns the number of connected spectators.
func (l *Lifecycle) Spectators() int { return len(l.spectators) }

// Coordinator returns the match the lifecycle admits into.
func (l *Lifecycle) Coordinator() *Coordinator { return l.coord }

func (l *Lifecycle) spectatorIndex(id ParticipantID) int {
	for i, s := range l.spectators {
		if s.id == id {
			return i
		}
	}
	return -1
}
