package bot

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

// The timezone and mailing-time dialogs are small state machines per
// chat: awaiting_choice (a keyboard button) then awaiting_value (typed
// input). The current state lives in the store, keyed by chat id, so an
// in-flight dialog survives a restart.

var (
	timeOfDayRegex = regexp.MustCompile(`^([01]?\d|2[0-3])(:[0-5]\d)?$`)
	timezoneRegex  = regexp.MustCompile(`^([+-])([01]?\d|2[0-3]):([0-5]\d)$`)
)

// parseTimeOfDay accepts "H" or "H:MM" and normalizes to "HH:MM".
func parseTimeOfDay(s string) (string, bool) {
	m := timeOfDayRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2][1:])
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// parseTimezone accepts "±HH:MM".
func parseTimezone(chatID int64, s string) (*entity.ChatTimezone, bool) {
	m := timezoneRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, false
	}

	sign := 1
	if m[1] == "-" {
		sign = -1
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])

	return &entity.ChatTimezone{
		ChatID:        chatID,
		Sign:          sign,
		OffsetHours:   hours,
		OffsetMinutes: minutes,
	}, true
}

func formatTimezone(tz *entity.ChatTimezone) string {
	sign := "+"
	if tz.Sign < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%02d:%02d", sign, tz.OffsetHours, tz.OffsetMinutes)
}

func (r *Router) startTimezoneWizard(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	tz, err := r.dm.Subscription().GetTimezone(chatID)
	if err != nil || tz == nil {
		log.Printf("chat id=%d: failed to get timezone: %v", chatID, err)
		r.reply(chatID, msgInternalError)
		return
	}

	r.replyWithKeyboard(chatID, fmt.Sprintf(msgCurrentTimezone, formatTimezone(tz)), btnEnterTimezone, btnCancel)
	r.setState(chatID, entity.FlowTimezone, entity.StateAwaitingChoice)
}

func (r *Router) startMailingWizard(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	sub, err := r.dm.Subscription().GetByChatAndBot(chatID, r.api.Self.ID)
	if err != nil || sub == nil {
		log.Printf("chat id=%d: failed to get subscription: %v", chatID, err)
		r.reply(chatID, msgInternalError)
		return
	}

	buttons := []string{btnChange, btnCancel}
	current := msgNotSet
	if sub.MailingTime != nil {
		buttons = []string{btnChange, btnUnsubscribe, btnCancel}
		current = *sub.MailingTime
	}

	r.replyWithKeyboard(chatID, fmt.Sprintf(msgCurrentMailing, current), buttons...)
	r.setState(chatID, entity.FlowMailing, entity.StateAwaitingChoice)
}

func (r *Router) continueWizard(state *entity.ChatState, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if text == btnCancel {
		r.clearState(chatID)
		r.replyRemovingKeyboard(chatID, msgActionCanceled)
		return
	}

	switch state.Flow {
	case entity.FlowTimezone:
		r.continueTimezone(state, chatID, text)
	case entity.FlowMailing:
		r.continueMailing(state, chatID, text)
	default:
		r.clearState(chatID)
	}
}

func (r *Router) continueTimezone(state *entity.ChatState, chatID int64, text string) {
	switch state.State {
	case entity.StateAwaitingChoice:
		if text != btnEnterTimezone {
			r.reply(chatID, msgChooseFromKeyboard)
			return
		}
		r.replyRemovingKeyboard(chatID, msgEnterTimezone)
		r.setState(chatID, entity.FlowTimezone, entity.StateAwaitingValue)

	case entity.StateAwaitingValue:
		tz, ok := parseTimezone(chatID, text)
		if !ok {
			r.reply(chatID, msgInvalidInput)
			return
		}

		if err := r.dm.Subscription().UpsertTimezone(tz); err != nil {
			log.Printf("chat id=%d: failed to save timezone: %v", chatID, err)
			r.reply(chatID, msgInternalError)
			return
		}

		r.clearState(chatID)
		r.replyRemovingKeyboard(chatID, fmt.Sprintf(msgTimezoneChanged, formatTimezone(tz)))
	}
}

func (r *Router) continueMailing(state *entity.ChatState, chatID int64, text string) {
	botID := r.api.Self.ID

	switch state.State {
	case entity.StateAwaitingChoice:
		switch text {
		case btnChange:
			r.replyRemovingKeyboard(chatID, msgEnterMailing)
			r.setState(chatID, entity.FlowMailing, entity.StateAwaitingValue)
		case btnUnsubscribe:
			if err := r.dm.Subscription().UpdateMailingTime(chatID, botID, nil); err != nil {
				log.Printf("chat id=%d: failed to cancel mailing: %v", chatID, err)
				r.reply(chatID, msgInternalError)
				return
			}
			r.clearState(chatID)
			r.replyRemovingKeyboard(chatID, msgMailingCanceled)
		default:
			r.reply(chatID, msgChooseFromKeyboard)
		}

	case entity.StateAwaitingValue:
		mailingTime, ok := parseTimeOfDay(text)
		if !ok {
			r.reply(chatID, msgInvalidInput)
			return
		}

		if err := r.dm.Subscription().UpdateMailingTime(chatID, botID, &mailingTime); err != nil {
			log.Printf("chat id=%d: failed to save mailing time: %v", chatID, err)
			r.reply(chatID, msgInternalError)
			return
		}

		r.clearState(chatID)
		r.replyRemovingKeyboard(chatID, fmt.Sprintf(msgMailingChanged, mailingTime))
	}
}

func (r *Router) setState(chatID int64, flow, state string) {
	err := r.dm.ChatState().Set(&entity.ChatState{ChatID: chatID, Flow: flow, State: state})
	if err != nil {
		log.Printf("chat id=%d: failed to set chat state: %v", chatID, err)
	}
}

func (r *Router) clearState(chatID int64) {
	if err := r.dm.ChatState().Clear(chatID); err != nil {
		log.Printf("chat id=%d: failed to clear chat state: %v", chatID, err)
	}
}

func (r *Router) replyWithKeyboard(chatID int64, text string, buttons ...string) {
	row := make([]tgbotapi.KeyboardButton, len(buttons))
	for i, b := range buttons {
		row[i] = tgbotapi.NewKeyboardButton(b)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	keyboard := tgbotapi.NewReplyKeyboard(row)
	keyboard.OneTimeKeyboard = true
	msg.ReplyMarkup = keyboard

	if _, err := r.api.Send(msg); err != nil {
		log.Printf("chat id=%d: failed to send keyboard message: %v", chatID, err)
	}
}

func (r *Router) replyRemovingKeyboard(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)

	if _, err := r.api.Send(msg); err != nil {
		log.Printf("chat id=%d: failed to send message: %v", chatID, err)
	}
}
