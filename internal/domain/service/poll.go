package service

import (
	"context"
	"fmt"
	"log"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

// CreateLunchPoll sends a lunch poll to the chat and persists the poll
// row together with its option-to-place mapping. The poll row is written
// only after the platform acknowledges the poll, so a failed send leaves
// no trace in the store. Send failures are not retried here; the caller
// decides.
func (s *pollService) CreateLunchPoll(ctx context.Context, chatID int64) error {
	places, err := s.catalog.get(s.dm)
	if err != nil {
		return err
	}

	if len(places) == 0 {
		return fmt.Errorf("place catalog is empty")
	}

	options := make([]string, len(places))
	placeIDs := make([]int64, len(places))
	for i, p := range places {
		options[i] = p.Name
		placeIDs[i] = p.ID
	}

	pollID, err := s.tg.SendPoll(chatID, domain.PollQuestion, options, s.openPeriod)
	if err != nil {
		return err
	}

	err = s.dm.WithTransaction(ctx, func(dm contract.DataManager) error {
		poll := &entity.Poll{
			ID:         pollID,
			ChatID:     chatID,
			StartDate:  s.now(),
			OpenPeriod: s.openPeriod,
		}

		if err := dm.Poll().Create(poll); err != nil {
			return err
		}

		return dm.Poll().CreateOptions(pollID, placeIDs)
	})
	if err != nil {
		// The poll exists on the platform but not in the store; the
		// resolve scan will simply never see it.
		return fmt.Errorf("poll id=%s chat id=%d: failed to persist: %w", pollID, chatID, err)
	}

	log.Printf("poll id=%s created for chat id=%d with %d options", pollID, chatID, len(options))
	return nil
}

// ProcessUserAnswer records a vote change event. A non-empty option list
// fully replaces the user's previous votes on the poll; an empty list is
// a retraction. Safe under at-least-once event delivery.
func (s *pollService) ProcessUserAnswer(ctx context.Context, pollID string, userID int64, optionNumbers []int) error {
	return s.dm.WithTransaction(ctx, func(dm contract.DataManager) error {
		if len(optionNumbers) == 0 {
			return dm.Vote().DeleteByUser(pollID, userID)
		}

		return dm.Vote().Replace(pollID, userID, optionNumbers)
	})
}
