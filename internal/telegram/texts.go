package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kazanTW/pa-telegram-bot/internal/domain"
)

// UI texts
const (
	startText = "👋 Hi, I am your personal assistant.\n\n" +
		"Commands:\n" +
		"/add <category> <content> — add a note (Memo, Task or Course)\n" +
		"/list — list your unfinished notes\n" +
		"/reminder — show the daily reminder time\n" +
		"/setreminder HH:MM — set the daily reminder time\n" +
		"/schedule — deliver the daily reminder to this chat"

	unknownText = "I didn't understand that. Try /start for the list of commands."

	addUsageText   = "Wrong format. Use /add <category> <content>"
	saveFailedText = "Something went wrong, your change may not have been saved. Please try again."
	readFailedText = "Something went wrong reading your notes. Please try again."

	listTitle          = "📋 Unfinished notes:\n"
	noNotesText        = "You have no notes yet. Add one with /add <category> <content>."
	allDoneText        = "All notes are completed! 🎉"
	completedText      = "Marked as completed!"
	nothingChangedText = "That note no longer exists."

	setReminderUsageText = "Please provide a time. Example: /setreminder 08:30"
	badTimeText          = "Invalid time. Use 24-hour HH:MM, e.g. 08:30"
	timeUnsetText        = "Set a reminder time first with /setreminder HH:MM"
)

func invalidCategoryText() string {
	cats := domain.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return "Invalid category! Choose one of: " + strings.Join(names, ", ")
}

// listKeyboard builds one "Done N" button per listed note. The label
// shows the same number as the listing line; the callback data carries
// the store index so completion hits the right note even when earlier
// notes are already done.
func listKeyboard(items []domain.IndexedNote) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✅ Done %d", it.Index+1),
				fmt.Sprintf("%s%d", completePrefix, it.Index),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
