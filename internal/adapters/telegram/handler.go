package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/internal/services/analyst"
	"github.com/ahmadnadir/gasnadir/internal/services/customer"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
	"github.com/ahmadnadir/gasnadir/pkg/templates"
)

const (
	queryTimeout = 2 * time.Minute
	maxCards     = 3

	helpText = "*Gas Volume Analyst*\n\n" +
		"Ask any question about the market and gas demand, for example _How will tariffs affect glove makers?_\n\n" +
		"/customers \\- customer performance overview\n" +
		"/customer \\<id\\> \\- one customer card\n" +
		"/help \\- this message"
)

// Analyst answers free-text questions
type Analyst interface {
	ProcessQuery(ctx context.Context, query string, obs analyst.Observer) (*chat.Message, error)
}

// CustomerInsights serves customer performance cards
type CustomerInsights interface {
	Insights(ctx context.Context) ([]customer.Insight, error)
	ForCustomer(ctx context.Context, id int64) (*customer.Insight, error)
}

// Handler turns chat messages into analyst queries and command replies
type Handler struct {
	analyst   Analyst
	customers CustomerInsights
	sender    Sender
	templates *templates.Registry
	log       *logger.Logger
}

// NewHandler creates the update handler. customers may be nil, which
// disables the customer commands.
func NewHandler(a Analyst, customers CustomerInsights, sender Sender, reg *templates.Registry) *Handler {
	if reg == nil {
		reg = templates.Get()
	}
	return &Handler{
		analyst:   a,
		customers: customers,
		sender:    sender,
		templates: reg,
		log:       logger.Get().With("component", "telegram_handler"),
	}
}

// HandleUpdate processes one update. Only text messages are handled.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start", "help":
		err = h.sender.Send(ctx, chatID, helpText)
	case "customers":
		err = h.handleCustomers(ctx, chatID)
	case "customer":
		err = h.handleCustomer(ctx, chatID, msg.CommandArguments())
	case "":
		err = h.handleQuery(ctx, chatID, msg.Text)
	default:
		err = h.sender.Send(ctx, chatID, "Unknown command\\. Try /help")
	}

	if err != nil {
		h.log.Errorw("Failed to handle message", "chat_id", chatID, "command", msg.Command(), "error", err)
	}
}

func (h *Handler) handleQuery(ctx context.Context, chatID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	h.sender.Typing(chatID)

	reply, err := h.analyst.ProcessQuery(ctx, text, nil)
	if err != nil {
		if errors.Is(err, errors.ErrEmptyQuery) {
			return h.sender.Send(ctx, chatID, "Please type a question\\.")
		}
		_ = h.sender.Send(ctx, chatID, "Sorry, the analyst is unavailable right now\\. Please try again later\\.")
		return errors.Wrap(err, "process query")
	}

	if err := h.sender.Send(ctx, chatID, templates.AnalystMarkdownToV2Limit(reply.Content, templates.TelegramMessageLimit)); err != nil {
		return err
	}

	for i, in := range reply.Insights {
		if i == maxCards {
			break
		}
		card, err := h.templates.Render(templates.TelegramInsightCard, in)
		if err != nil {
			return errors.Wrap(err, "render insight card")
		}
		if err := h.sender.Send(ctx, chatID, card); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) handleCustomers(ctx context.Context, chatID int64) error {
	if h.customers == nil {
		return h.sender.Send(ctx, chatID, "Customer data is not available\\.")
	}

	cards, err := h.customers.Insights(ctx)
	if err != nil {
		return errors.Wrap(err, "load customer insights")
	}
	if len(cards) == 0 {
		return h.sender.Send(ctx, chatID, "No customers found\\.")
	}

	var b strings.Builder
	b.WriteString("*Customer performance*\n")
	for _, c := range cards {
		line := templates.EscapeMarkdownV2(c.Code+" "+c.Name+": "+string(c.Status)+" ") +
			templates.EscapeMarkdownV2("("+strconv.FormatFloat(c.VariancePercent, 'f', 1, 64)+"%)")
		b.WriteString("\n" + line)
	}
	b.WriteString("\n\nUse /customer \\<id\\> for details\\.")
	return h.sender.Send(ctx, chatID, b.String())
}

func (h *Handler) handleCustomer(ctx context.Context, chatID int64, arg string) error {
	if h.customers == nil {
		return h.sender.Send(ctx, chatID, "Customer data is not available\\.")
	}

	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return h.sender.Send(ctx, chatID, "Usage: /customer \\<id\\>")
	}

	card, err := h.customers.ForCustomer(ctx, id)
	if errors.Is(err, errors.ErrCustomerNotFound) {
		return h.sender.Send(ctx, chatID, "Customer not found\\.")
	}
	if err != nil {
		return errors.Wrap(err, "load customer insight")
	}

	text, err := h.templates.Render(templates.TelegramCustomerCard, card)
	if err != nil {
		return errors.Wrap(err, "render customer card")
	}
	return h.sender.Send(ctx, chatID, text)
}
