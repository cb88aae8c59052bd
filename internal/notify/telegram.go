package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// TelegramNotifier delivers daily study plans over Telegram. It is a one-way
// delivery channel; interactive commands are out of scope.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier creates a notifier for the given bot token.
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "create telegram bot")
	}
	return &TelegramNotifier{bot: bot}, nil
}

// SendPlan sends a readable plan summary to the chat.
func (n *TelegramNotifier) SendPlan(chatID int64, plan *models.StudyPlan) error {
	msg := tgbotapi.NewMessage(chatID, FormatPlan(plan))
	if _, err := n.bot.Send(msg); err != nil {
		return errors.Wrap(err, "send study plan message")
	}
	return nil
}

// FormatPlan renders a study plan as plain text, one line per block.
func FormatPlan(plan *models.StudyPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your study plan for today (%d min):\n", plan.AllocatedMinutes)
	for i, block := range plan.Blocks {
		fmt.Fprintf(&b, "%d. %s: %d min (%d content / %d quiz, %s priority)\n   %s\n",
			i+1, block.TopicName, block.Minutes,
			block.ContentMinutes, block.QuizMinutes, block.Priority, block.Reason)
	}
	if len(plan.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Focus areas: %s\n", strings.Join(plan.FocusAreas, ", "))
	}
	return b.String()
}
