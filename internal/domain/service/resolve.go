package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
)

const (
	msgNotEnoughVotes = "Мало голосов для доставки 🙄"
	msgOrderingFrom   = "Заказываем из «%s»"
	msgOpenSite       = "Перейти на сайт"
	msgCustomerPicked = "Заказ оформляет %s 🙌"
)

// ResolveDuePolls resolves every open poll whose open period has elapsed:
// it picks the winning option, announces the result (or a "not enough
// votes" notice), optionally nominates a delivery customer and closes the
// processed polls in one batched update.
//
// A poll that fails mid-resolution stays open and is retried on the next
// scan against the same unresolved state.
func (s *pollService) ResolveDuePolls(ctx context.Context) error {
	rows, err := s.dm.Poll().ListOpenOptionVotes()
	if err != nil {
		return err
	}

	winners := pollWinners(rows, s.rand)
	now := s.now()

	var pollsToClose []string
	for pollID, w := range winners {
		due := !now.Before(w.StartDate.Add(time.Duration(w.OpenPeriod) * time.Second))
		if !due {
			continue
		}

		if w.OptionNumber == nil || w.NumVotes < s.minVotesForOrder {
			if err := s.tg.SendMessage(w.ChatID, msgNotEnoughVotes); err != nil {
				return fmt.Errorf("poll id=%s chat id=%d: %w", pollID, w.ChatID, err)
			}
			pollsToClose = append(pollsToClose, pollID)
			continue
		}

		place, err := s.dm.Place().GetByPollPosition(pollID, *w.OptionNumber)
		if err != nil {
			return err
		}

		if place == nil {
			// The catalog changed under the poll and the winning
			// position no longer maps to a place. Close the poll so it
			// does not block future cycles.
			log.Printf("poll id=%s: no place found for winning option %d", pollID, *w.OptionNumber)
			if err := s.tg.SendMessage(w.ChatID, msgNotEnoughVotes); err != nil {
				return fmt.Errorf("poll id=%s chat id=%d: %w", pollID, w.ChatID, err)
			}
			pollsToClose = append(pollsToClose, pollID)
			continue
		}

		if place.ChoiceMessage != "" {
			err = s.tg.SendMessage(w.ChatID, place.ChoiceMessage)
		} else {
			err = s.tg.SendMessageWithURLButton(w.ChatID, fmt.Sprintf(msgOrderingFrom, place.Name), msgOpenSite, place.URL)
		}
		if err != nil {
			return fmt.Errorf("poll id=%s chat id=%d: %w", pollID, w.ChatID, err)
		}

		if err := s.pickCustomer(ctx, pollID, w.ChatID); err != nil {
			return err
		}

		pollsToClose = append(pollsToClose, pollID)
	}

	return s.dm.Poll().CloseAll(pollsToClose)
}

// pickCustomer nominates one random voter to place the order, among users
// who voted for a delivery-eligible place. The previously nominated
// customer is excluded when anyone else is available, so the duty
// rotates. Every degraded outcome (nobody eligible, the chosen user left
// the chat) is non-fatal: the result was already announced.
func (s *pollService) pickCustomer(ctx context.Context, pollID string, chatID int64) error {
	voters, err := s.dm.Vote().ListDeliveryVoterIDs(pollID)
	if err != nil {
		return err
	}

	if len(voters) == 0 {
		return nil
	}

	botID := s.tg.BotID()
	sub, err := s.dm.Subscription().GetByChatAndBot(chatID, botID)
	if err != nil {
		return err
	}

	pool := voters
	if sub != nil && sub.LastCustomerID != nil && len(voters) > 1 {
		pool = make([]int64, 0, len(voters))
		for _, id := range voters {
			if id != *sub.LastCustomerID {
				pool = append(pool, id)
			}
		}
		if len(pool) == 0 {
			pool = voters
		}
	}

	customerID := pool[s.rand.Intn(len(pool))]

	member, err := s.tg.GetChatMember(chatID, customerID)
	if err != nil {
		if errors.Is(err, contract.ErrChatNotFound) {
			// The chosen user is no longer reachable; the result is
			// already out, just skip naming a customer.
			log.Printf("poll id=%s chat id=%d: customer id=%d not reachable", pollID, chatID, customerID)
			return nil
		}
		return err
	}

	name := member.UserName
	if name != "" {
		name = "@" + name
	} else {
		name = member.FirstName
	}

	if err := s.tg.SendMessage(chatID, fmt.Sprintf(msgCustomerPicked, name)); err != nil {
		return fmt.Errorf("poll id=%s chat id=%d: %w", pollID, chatID, err)
	}

	if sub == nil {
		return nil
	}

	return s.dm.Subscription().SetLastCustomer(chatID, botID, customerID)
}
