package contract

import (
	"errors"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

// Conditions the platform reports that the core handles locally.
// Everything else is a generic transient error.
var (
	// ErrBotBlocked means the bot was blocked in the target chat.
	ErrBotBlocked = errors.New("bot blocked in chat")

	// ErrChatNotFound means the chat (or the user within it) is not
	// reachable anymore.
	ErrChatNotFound = errors.New("chat not found")
)

// TelegramClient defines the platform operations the core consumes.
// This allows mocking in tests while keeping the real implementation simple.
type TelegramClient interface {
	// BotID is the platform id of the running bot instance.
	BotID() int64

	SendMessage(chatID int64, text string) error

	// SendMessageWithURLButton sends text with a single inline link button.
	SendMessageWithURLButton(chatID int64, text, buttonText, url string) error

	// SendPoll sends a non-anonymous multi-option poll and returns the
	// platform-assigned poll id.
	SendPoll(chatID int64, question string, options []string, openPeriod int) (string, error)

	GetChatMember(chatID, userID int64) (*entity.ChatMember, error)
}
