package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

// Router dispatches incoming updates: poll answers go to the vote ledger,
// messages to commands or to the active wizard of the chat.
type Router struct {
	api   *tgbotapi.BotAPI
	dm    contract.DataManager
	polls contract.PollService
}

func NewRouter(api *tgbotapi.BotAPI, dm contract.DataManager, polls contract.PollService) *Router {
	return &Router{
		api:   api,
		dm:    dm,
		polls: polls,
	}
}

func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.PollAnswer != nil:
		r.handlePollAnswer(ctx, update.PollAnswer)
	case update.Message != nil:
		r.handleMessage(ctx, update.Message)
	}
}

func (r *Router) handlePollAnswer(ctx context.Context, ans *tgbotapi.PollAnswer) {
	err := r.polls.ProcessUserAnswer(ctx, ans.PollID, ans.User.ID, ans.OptionIDs)
	if err != nil {
		log.Printf("poll id=%s user id=%d: failed to process answer: %v", ans.PollID, ans.User.ID, err)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if err := r.ensureSubscription(chatID); err != nil {
		log.Printf("chat id=%d: failed to ensure subscription: %v", chatID, err)
		r.reply(chatID, msgInternalError)
		return
	}

	state, err := r.dm.ChatState().Get(chatID)
	if err != nil {
		log.Printf("chat id=%d: failed to get chat state: %v", chatID, err)
		r.reply(chatID, msgInternalError)
		return
	}
	if state != nil {
		r.continueWizard(state, msg)
		return
	}

	if msg.IsCommand() {
		r.handleCommand(ctx, msg)
		return
	}

	text := strings.ToLower(strings.TrimSpace(msg.Text))
	switch {
	case text == "привет":
		r.reply(chatID, msgHello)
	case strings.Contains(text, "обед"):
		if err := r.polls.CreateLunchPoll(ctx, chatID); err != nil {
			log.Printf("chat id=%d: failed to create poll: %v", chatID, err)
			r.reply(chatID, msgInternalError)
		}
	default:
		r.reply(chatID, msgUnknown)
	}
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "help":
		r.reply(chatID, msgWelcome)
	case "lunch":
		if err := r.polls.CreateLunchPoll(ctx, chatID); err != nil {
			log.Printf("chat id=%d: failed to create poll: %v", chatID, err)
			r.reply(chatID, msgInternalError)
		}
	case "timezone":
		r.startTimezoneWizard(msg)
	case "mailing":
		r.startMailingWizard(msg)
	case "update":
		if err := r.polls.RefreshCatalog(ctx); err != nil {
			log.Printf("chat id=%d: failed to refresh catalog: %v", chatID, err)
			r.reply(chatID, msgInternalError)
			return
		}
		r.reply(chatID, msgCatalogUpdated)
	default:
		r.reply(chatID, msgUnknown)
	}
}

// ensureSubscription creates the subscription and timezone rows on the
// first interaction with a chat. Safe to call on every message.
func (r *Router) ensureSubscription(chatID int64) error {
	botID := r.api.Self.ID

	sub, err := r.dm.Subscription().GetByChatAndBot(chatID, botID)
	if err != nil {
		return err
	}
	if sub == nil {
		err = r.dm.Subscription().Create(&entity.Subscription{ChatID: chatID, BotID: botID})
		if err != nil {
			return err
		}
	}

	tz, err := r.dm.Subscription().GetTimezone(chatID)
	if err != nil {
		return err
	}
	if tz == nil {
		return r.dm.Subscription().UpsertTimezone(&entity.ChatTimezone{ChatID: chatID, Sign: 1})
	}

	return nil
}

func (r *Router) reply(chatID int64, text string) {
	if _, err := r.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("chat id=%d: failed to send message: %v", chatID, err)
	}
}
