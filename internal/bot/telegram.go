package bot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

// Client adapts the Telegram Bot API to the contract.TelegramClient
// interface consumed by the poll engine.
type Client struct {
	api *tgbotapi.BotAPI
}

func NewClient(api *tgbotapi.BotAPI) *Client {
	return &Client{api: api}
}

func (c *Client) BotID() int64 {
	return c.api.Self.ID
}

func (c *Client) SendMessage(chatID int64, text string) error {
	_, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	return mapError(err)
}

func (c *Client) SendMessageWithURLButton(chatID int64, text, buttonText, url string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(buttonText, url),
		),
	)

	_, err := c.api.Send(msg)
	return mapError(err)
}

func (c *Client) SendPoll(chatID int64, question string, options []string, openPeriod int) (string, error) {
	poll := tgbotapi.NewPoll(chatID, question, options...)
	poll.IsAnonymous = false
	poll.OpenPeriod = openPeriod

	msg, err := c.api.Send(poll)
	if err != nil {
		return "", mapError(err)
	}
	if msg.Poll == nil {
		return "", fmt.Errorf("no poll in telegram response for chat id=%d", chatID)
	}

	return msg.Poll.ID, nil
}

func (c *Client) GetChatMember(chatID, userID int64) (*entity.ChatMember, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return nil, mapError(err)
	}
	if member.User == nil {
		return nil, contract.ErrChatNotFound
	}

	return &entity.ChatMember{
		UserID:    member.User.ID,
		UserName:  member.User.UserName,
		FirstName: member.User.FirstName,
	}, nil
}

// mapError translates the two platform conditions the core handles
// locally into sentinel errors; everything else passes through as a
// generic transient error.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 403:
			return fmt.Errorf("%w: %s", contract.ErrBotBlocked, apiErr.Message)
		case strings.Contains(apiErr.Message, "chat not found"),
			strings.Contains(apiErr.Message, "user not found"),
			strings.Contains(apiErr.Message, "member not found"):
			return fmt.Errorf("%w: %s", contract.ErrChatNotFound, apiErr.Message)
		}
	}

	return err
}
