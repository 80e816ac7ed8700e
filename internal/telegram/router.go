package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kazanTW/pa-telegram-bot/internal/notes"
	"github.com/kazanTW/pa-telegram-bot/internal/scheduler"
)

// completePrefix tags callback data for the "complete note" action. The
// payload is the note's true store index, not its display number.
const completePrefix = "done:"

// Router wires Telegram updates to the note and reminder operations.
type Router struct {
	bot   *tgbotapi.BotAPI
	log   *zap.Logger
	svc   *notes.Service
	sched *scheduler.Scheduler
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, svc *notes.Service, sched *scheduler.Scheduler) *Router {
	return &Router{bot: bot, log: log, svc: svc, sched: sched}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, chatID)
		case strings.HasPrefix(text, "/add"):
			r.handleAdd(ctx, chatID, text)
		case strings.HasPrefix(text, "/list"):
			r.handleList(ctx, chatID)
		case strings.HasPrefix(text, "/reminder"):
			r.handleReminder(ctx, chatID)
		case strings.HasPrefix(text, "/setreminder"):
			r.handleSetReminder(ctx, chatID, text)
		case strings.HasPrefix(text, "/schedule"):
			r.handleSchedule(ctx, chatID)
		default:
			// Not a known command; point at the help once rather than
			// guessing.
			r.sendText(chatID, unknownText)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return
		}
		chatID := cb.Message.Chat.ID

		switch {
		case strings.HasPrefix(cb.Data, completePrefix):
			index, err := strconv.Atoi(strings.TrimPrefix(cb.Data, completePrefix))
			if err != nil {
				r.log.Warn("malformed complete callback", zap.String("data", cb.Data))
				_ = r.answerCallback(cb.ID, "")
				return
			}
			r.handleComplete(ctx, chatID, index, cb.ID)
		default:
			// Unknown callback — ignore silently
		}
		return
	}
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Error("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

// commandArgs strips the command token and returns the remaining
// whitespace-separated arguments.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}
