package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
)

// RunDuePolls scans every subscription of this bot in fixed-size windows
// and creates a lunch poll for each chat whose local time matches its
// mailing time on a working day.
//
// The match is against the exact minute: the scan must run at least once
// per minute; a minute missed during an outage is not backfilled and
// that chat silently skips the day.
func (s *pollService) RunDuePolls(ctx context.Context, nowUTC time.Time) error {
	botID := s.tg.BotID()

	for page := 0; ; page++ {
		window, err := s.dm.Subscription().ListSchedules(botID, domain.QueryWindowSize, page*domain.QueryWindowSize)
		if err != nil {
			return err
		}

		for _, sub := range window {
			if sub.MailingTime == nil {
				continue
			}

			local := sub.LocalTime(nowUTC)

			if !s.calendar.IsWorkingDay(local) {
				continue
			}

			if local.Format("15:04") != *sub.MailingTime {
				continue
			}

			if err := s.CreateLunchPoll(ctx, sub.ChatID); err != nil {
				if errors.Is(err, contract.ErrBotBlocked) {
					// Self-healing unsubscribe: the chat blocked the
					// bot, drop its subscription and keep scanning.
					log.Printf("bot id=%d is blocked for chat id=%d, removing subscription", botID, sub.ChatID)
					if delErr := s.dm.Subscription().Delete(sub.ChatID, botID); delErr != nil {
						return delErr
					}
					continue
				}
				return err
			}
		}

		if len(window) < domain.QueryWindowSize {
			return nil
		}
	}
}
