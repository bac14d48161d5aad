// Package notify announces finished duels outside the game.
package notify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/vovakirdan/tui-duel/internal/duel"
)

const postTimeout = 10 * time.Second

// SlackClient is the subset of slack.Client used to post results.
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ SlackClient = (*slack.Client)(nil)

// SlackNotifier posts match results to a channel. It is a duel.ResultSink,
// so the host calls it off the simulation goroutine.
type SlackNotifier struct {
	client  SlackClient
	channel string
	logger  *log.Logger
}

var _ duel.ResultSink = (*SlackNotifier)(nil)

// NewSlackNotifier creates a notifier posting to channel. logger may be nil.
func NewSlackNotifier(client SlackClient, channel string, logger *log.Logger) *SlackNotifier {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SlackNotifier{client: client, channel: channel, logger: logger}
}

// SaveMatchResult posts one result.
func (n *SlackNotifier) SaveMatchResult(r duel.MatchResultData) error {
	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()

	_, ts, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(Summary(r), false),
		slack.MsgOptionBlocks(resultBlocks(r)...),
	)
	if err != nil {
		return fmt.Errorf("notify: cannot post match %s: %w", r.MatchID, err)
	}
	n.logger.Debug("result posted", "match", r.MatchID, "channel", n.channel, "ts", ts)
	return nil
}

// Summary is the one-line text of a result, used for notifications.
func Summary(r duel.MatchResultData) string {
	switch {
	case r.EndReason == duel.EndReasonDisconnect:
		return fmt.Sprintf("%s vs %s abandoned at %d : %d after %d rounds",
			r.Player1Name, r.Player2Name, r.Score1, r.Score2, r.Rounds)
	case r.WinnerID == r.Player2ID:
		return fmt.Sprintf("%s beat %s %d : %d", r.Player2Name, r.Player1Name, r.Score2, r.Score1)
	default:
		return fmt.Sprintf("%s beat %s %d : %d", r.Player1Name, r.Player2Name, r.Score1, r.Score2)
	}
}

func resultBlocks(r duel.MatchResultData) []slack.Block {
	title := slack.NewTextBlockObject(slack.MarkdownType, "*"+Summary(r)+"*", false, false)

	fields := []*slack.TextBlockObject{
		field("Rounds", fmt.Sprint(r.Rounds)),
		field("Duration", (time.Duration(r.DurationSecs) * time.Second).String()),
		field("Headshots "+r.Player1Name, fmt.Sprint(r.Headshots1)),
		field("Headshots "+r.Player2Name, fmt.Sprint(r.Headshots2)),
	}

	footer := slack.NewTextBlockObject(slack.PlainTextType, r.MatchID, false, false)
	return []slack.Block{
		slack.NewSectionBlock(title, fields, nil),
		slack.NewContextBlock("", footer),
	}
}

func field(name, value string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s*\n%s", name, value), false, false)
}
