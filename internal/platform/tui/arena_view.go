package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/duel"
)

// Minimum terminal size for the arena view.
const (
	minScreenW = 40
	minScreenH = 16
)

// DuelView is everything a client knows about the duel from the host's
// events.
type DuelView struct {
	Self      duel.ParticipantID
	Spectator bool
	Snapshot  duel.Snapshot
	Message   string
	Own       int
	Opponent  int
	Remaining int
	AimMode   bool
	Cue       duel.Cue // Last cue, shown as a flash for a few frames
	Flash     int
}

// self returns the viewer's own participant view.
func (v DuelView) self() (duel.ParticipantView, bool) {
	for _, p := range v.Snapshot.Participants {
		if p.ID == v.Self {
			return p, true
		}
	}
	return duel.ParticipantView{}, false
}

// DrawDuel renders the arena top-down with a HUD above and below it.
// The viewer always stands at the bottom; spectators see offense there.
func DrawDuel(dst *core.Screen, v DuelView, arena config.ArenaConfig) {
	dst.Clear()
	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small", core.ColorWarn)
		return
	}

	drawHUD(dst, v)

	box := core.NewRect(2, 2, dst.Width()-4, dst.Height()-5)
	dst.DrawBox(box, core.ColorWall)
	inner := core.NewRect(box.X+1, box.Y+1, box.W-2, box.H-2)

	flip := false
	if me, ok := v.self(); ok && me.Role == duel.RoleDefense {
		flip = true
	}

	project := func(p core.Vec3) (int, int) {
		fx := (p.X + arena.HalfWidth) / (2 * arena.HalfWidth)
		fz := p.Z / arena.Depth
		if flip {
			fx, fz = 1-fx, 1-fz
		}
		x := inner.X + int(math.Round(fx*float64(inner.W-1)))
		y := inner.Bottom() - 1 - int(math.Round(fz*float64(inner.H-1)))
		return x, y
	}

	for _, p := range v.Snapshot.Participants {
		if p.Role == duel.RoleOffense && v.Snapshot.Phase == duel.PhaseRoundActive {
			drawAimLine(dst, p, inner, project)
		}
	}
	for _, p := range v.Snapshot.Participants {
		x, y := project(p.Position)
		glyph, color := participantGlyph(p, p.ID == v.Self)
		dst.SetColored(x, y, glyph, color)
		label := p.Name
		if len(label) > 10 {
			label = label[:10]
		}
		ly := y + 1
		if ly >= inner.Bottom() {
			ly = y - 1
		}
		dst.DrawTextColored(x-len(label)/2, ly, label, color)
	}

	drawBanner(dst, v, inner)
	drawFooter(dst, v)
}

func participantGlyph(p duel.ParticipantView, own bool) (rune, core.Color) {
	color := core.ColorBad
	if own {
		color = core.ColorGood
	}
	switch {
	case p.Dead:
		return '✕', core.ColorMuted
	case p.Role == duel.RoleOffense:
		return '◆', color
	case p.Role == duel.RoleDefense:
		return '●', color
	default:
		return '○', core.ColorMuted
	}
}

// drawAimLine plots the offense's aim across the arena floor.
func drawAimLine(dst *core.Screen, p duel.ParticipantView, inner core.Rect, project func(core.Vec3) (int, int)) {
	dir := p.Direction()
	color := core.ColorMuted
	if p.CanFire {
		color = core.ColorAim
	}
	for step := 1; step < 80; step++ {
		pt := p.Position.Add(dir.Scale(float64(step) * 0.5))
		x, y := project(pt)
		if !inner.Contains(x, y) {
			return
		}
		dst.SetColored(x, y, '·', color)
	}
}

func drawHUD(dst *core.Screen, v DuelView) {
	s := v.Snapshot
	left := fmt.Sprintf(" Round %d  First to %d", s.Round, s.VictoryScore)
	if s.Phase == duel.PhaseWaitingForPlayers {
		left = " Lobby"
	}
	dst.DrawTextColored(0, 0, left, core.ColorInfo)

	var right string
	switch {
	case v.Spectator:
		right = fmt.Sprintf("Spectating  %s ", scoreLine(s))
	default:
		right = fmt.Sprintf("You %d : %d Them ", v.Own, v.Opponent)
	}
	dst.DrawTextColored(dst.Width()-len([]rune(right)), 0, right, core.ColorWarn)

	phase := phaseLabel(s.Phase)
	switch s.Phase {
	case duel.PhaseRoundCountdown:
		phase = fmt.Sprintf("%s  %d", phase, s.Remaining)
	case duel.PhaseRoundActive:
		remaining := s.Remaining
		if v.Remaining > 0 && v.Remaining < remaining {
			remaining = v.Remaining
		}
		phase = fmt.Sprintf("%s  %ds", phase, remaining)
	}
	if me, ok := v.self(); ok && me.Role != duel.RoleWaiting {
		phase = fmt.Sprintf("%s  [%s]", phase, me.Role)
	}
	dst.DrawTextCentered(1, phase, core.ColorText)
}

func scoreLine(s duel.Snapshot) string {
	if len(s.Participants) < 2 {
		return ""
	}
	a, b := s.Participants[0], s.Participants[1]
	return fmt.Sprintf("%s %d : %d %s", a.Name, a.Score, b.Score, b.Name)
}

func phaseLabel(p duel.Phase) string {
	switch p {
	case duel.PhaseWaitingForPlayers:
		return "Waiting"
	case duel.PhaseRoundCountdown:
		return "Get ready"
	case duel.PhaseRoundActive:
		return "Round live"
	case duel.PhaseRoundResolution:
		return "Round over"
	case duel.PhaseGameOver:
		return "Game over"
	default:
		return ""
	}
}

// drawBanner shows the latest host message in the middle of the arena.
func drawBanner(dst *core.Screen, v DuelView, inner core.Rect) {
	if v.Message == "" {
		return
	}
	color := core.ColorText
	switch v.Message {
	case duel.MsgHeadshot, duel.MsgWin:
		color = core.ColorGood
	case duel.MsgMiss, duel.MsgTimesUp, duel.MsgLose:
		color = core.ColorBad
	case duel.MsgGo:
		color = core.ColorWarn
	}
	dst.DrawTextCentered(inner.Y+inner.H/2, v.Message, color)

	if v.Flash > 0 && v.Cue != "" {
		dst.DrawTextCentered(inner.Y+inner.H/2+1, cueLabel(v.Cue), core.ColorCue)
	}
}

func cueLabel(c duel.Cue) string {
	switch c {
	case duel.CueNearMiss:
		return "~ whizz ~"
	case duel.CueDeath:
		return "* down *"
	case duel.CueRoundStart:
		return "> go <"
	default:
		return ""
	}
}

func drawFooter(dst *core.Screen, v DuelView) {
	y := dst.Height() - 2
	mode := "move"
	if v.AimMode {
		mode = "aim"
	}
	text := fmt.Sprintf(" arrows: %s  tab: toggle aim  space: fire  ?: help  q: quit", mode)
	if v.Spectator {
		text = " spectating  q: quit"
	}
	dst.DrawTextColored(0, y, text, core.ColorMuted)
}
