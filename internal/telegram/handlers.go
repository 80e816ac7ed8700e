package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kazanTW/pa-telegram-bot/internal/domain"
	"github.com/kazanTW/pa-telegram-bot/internal/notes"
)

func (r *Router) handleStart(_ context.Context, chatID int64) {
	r.sendText(chatID, startText)
}

func (r *Router) handleAdd(ctx context.Context, chatID int64, text string) {
	args := commandArgs(text)
	if len(args) < 2 {
		r.sendText(chatID, addUsageText)
		return
	}
	category, content := args[0], strings.Join(args[1:], " ")

	note, _, err := r.svc.Add(ctx, category, content)
	switch {
	case errors.Is(err, domain.ErrInvalidCategory):
		r.sendText(chatID, invalidCategoryText())
		return
	case errors.Is(err, notes.ErrEmptyContent):
		r.sendText(chatID, addUsageText)
		return
	case err != nil:
		r.log.Error("add note failed", zap.Error(err))
		r.sendText(chatID, saveFailedText)
		return
	}
	r.sendText(chatID, fmt.Sprintf("Added: [ %s ] %s", note.Category, note.Content))
}

func (r *Router) handleList(ctx context.Context, chatID int64) {
	listing, err := r.svc.List(ctx)
	if err != nil {
		r.log.Error("list notes failed", zap.Error(err))
		r.sendText(chatID, readFailedText)
		return
	}
	if listing.Total == 0 {
		r.sendText(chatID, noNotesText)
		return
	}
	if len(listing.Items) == 0 {
		r.sendText(chatID, allDoneText)
		return
	}

	var b strings.Builder
	b.WriteString(listTitle)
	for _, it := range listing.Items {
		fmt.Fprintf(&b, "%d. [%s] %s\n", it.Index+1, it.Note.Category, it.Note.Content)
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = listKeyboard(listing.Items)
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Error("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) handleComplete(ctx context.Context, chatID int64, index int, cbID string) {
	_, ok, err := r.svc.Complete(ctx, index)
	if err != nil {
		r.log.Error("complete note failed", zap.Error(err), zap.Int("index", index))
		_ = r.answerCallback(cbID, "")
		r.sendText(chatID, saveFailedText)
		return
	}
	if !ok {
		// Stale button or decoded garbage: nothing was changed.
		_ = r.answerCallback(cbID, nothingChangedText)
		return
	}
	_ = r.answerCallback(cbID, "")
	r.sendText(chatID, completedText)
}

func (r *Router) handleReminder(ctx context.Context, chatID int64) {
	clock, err := r.svc.ReminderTime(ctx)
	if err != nil {
		r.log.Error("read reminder time failed", zap.Error(err))
		r.sendText(chatID, readFailedText)
		return
	}
	if clock == nil {
		r.sendText(chatID, "Daily reminder time: not set")
		return
	}
	r.sendText(chatID, "Daily reminder time: "+clock.String())
}

func (r *Router) handleSetReminder(ctx context.Context, chatID int64, text string) {
	args := commandArgs(text)
	if len(args) != 1 {
		r.sendText(chatID, setReminderUsageText)
		return
	}

	clock, err := r.svc.SetReminderTime(ctx, args[0])
	switch {
	case errors.Is(err, domain.ErrInvalidClock):
		r.sendText(chatID, badTimeText)
		return
	case err != nil:
		r.log.Error("set reminder time failed", zap.Error(err))
		r.sendText(chatID, saveFailedText)
		return
	}
	r.sendText(chatID, "Daily reminder time set to "+clock.String())
}

func (r *Router) handleSchedule(ctx context.Context, chatID int64) {
	clock, err := r.svc.Schedule(ctx, chatID)
	switch {
	case errors.Is(err, notes.ErrTimeUnset):
		r.sendText(chatID, timeUnsetText)
		return
	case err != nil:
		r.log.Error("schedule failed", zap.Error(err))
		r.sendText(chatID, saveFailedText)
		return
	}

	next := r.sched.Arm(clock)
	r.sendText(chatID, fmt.Sprintf("Daily reminders scheduled for %s (next: %s)",
		clock, next.Format("Jan 2 15:04")))
}
