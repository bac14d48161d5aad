package duel

import "errors"

//go:generate mockgen -source=collaborators.go -destination=mock_collaborators_test.go -package=duel

// Presenter receives fire-and-forget presentation side effects.
// Implementations must not block; the host routes them to sessions.
type Presenter interface {
	// ShowMessage displays text to one participant, or everyone for Broadcast.
	ShowMessage(text string, to ParticipantID)

	// PlayCue triggers a named cue for one participant, or everyone for Broadcast.
	PlayCue(cue Cue, to ParticipantID)

	// UpdateScoreDisplay pushes a participant's own and opponent score.
	UpdateScoreDisplay(to ParticipantID, own, opponent int)

	// UpdateTimer pushes the remaining whole time units of the current phase.
	UpdateTimer(to ParticipantID, remaining int)
}

// Spawner repositions a participant to a neutral stance.
// Called on every role change.
type Spawner interface {
	ResetPosition(id ParticipantID)
}

// MatchResultData contains a finished or aborted match for persistence.
type MatchResultData struct {
	MatchID      string
	Player1ID    string
	Player1Name  string
	Player2ID    string
	Player2Name  string
	Score1       int
	Score2       int
	WinnerID     string // Empty if the match was aborted
	EndReason    EndReason
	Rounds       int
	Headshots1   int
	Headshots2   int
	DurationSecs int
}

// ResultSink stores match results. Optional.
type ResultSink interface {
	SaveMatchResult(result MatchResultData) error
}

// ResultSinks fans a result out to several sinks. Every sink is tried; the
// errors are joined.
type ResultSinks []ResultSink

func (s ResultSinks) SaveMatchResult(result MatchResultData) error {
	var errs []error
	for _, sink := range s {
		if err := sink.SaveMatchResult(result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopPresenter struct{}

func (noopPresenter) ShowMessage(string, ParticipantID)          {}
func (noopPresenter) PlayCue(Cue, ParticipantID)                 {}
func (noopPresenter) UpdateScoreDisplay(ParticipantID, int, int) {}
func (noopPresenter) UpdateTimer(ParticipantID, int)             {}

// spawnChain fans a reset out to the arena and an optional external spawner.
type spawnChain []Spawner

func (c spawnChain) ResetPosition(id ParticipantID) {
	for _, s := range c {
		s.ResetPosition(id)
	}
}
