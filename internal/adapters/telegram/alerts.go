package telegram

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
	"github.com/ahmadnadir/gasnadir/pkg/templates"
)

// AlertNotifier pushes high-impact insights from the insight stream to
// subscribed chats
type AlertNotifier struct {
	sender    Sender
	chatIDs   []int64
	minImpact int
	templates *templates.Registry
	log       *logger.Logger
}

// NewAlertNotifier creates a notifier. Insights with an absolute impact
// below minImpact are skipped.
func NewAlertNotifier(sender Sender, chatIDs []int64, minImpact int, reg *templates.Registry) *AlertNotifier {
	if reg == nil {
		reg = templates.Get()
	}
	return &AlertNotifier{
		sender:    sender,
		chatIDs:   chatIDs,
		minImpact: minImpact,
		templates: reg,
		log:       logger.Get().With("component", "telegram_alerts"),
	}
}

// HandleMessage decodes one chat.InsightEvent and forwards it. It matches
// the kafka consumer's handler signature.
func (n *AlertNotifier) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var ev chat.InsightEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return errors.Wrap(err, "decode insight event")
	}
	return n.Notify(ctx, ev)
}

// Notify sends the insight card to every chat, collecting failures
func (n *AlertNotifier) Notify(ctx context.Context, ev chat.InsightEvent) error {
	if abs(ev.Insight.ImpactScore) < n.minImpact || len(n.chatIDs) == 0 {
		return nil
	}

	card, err := n.templates.Render(templates.TelegramInsightCard, ev.Insight)
	if err != nil {
		return errors.Wrap(err, "render insight card")
	}
	text := "🔔 *Insight alert* for _" + templates.EscapeMarkdownV2(ev.Query) + "_\n\n" + card

	var errs errors.MultiError
	for _, id := range n.chatIDs {
		if err := n.sender.Send(ctx, id, text); err != nil {
			errs.Add(errors.Wrapf(err, "chat %d", id))
		}
	}

	n.log.Infow("Insight alert sent",
		"insight", ev.Insight.ID,
		"impact", ev.Insight.ImpactScore,
		"chats", len(n.chatIDs),
		"failed", len(errs.Errors),
	)
	return errs.ToError()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
