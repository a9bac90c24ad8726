package service

import (
	"context"
	"log"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
)

// PurgeClosedPolls deletes every closed poll together with its votes and
// options, children before parent. Running with nothing closed is a no-op.
func (s *pollService) PurgeClosedPolls(ctx context.Context) error {
	pollIDs, err := s.dm.Poll().ListClosedIDs()
	if err != nil {
		return err
	}

	if len(pollIDs) == 0 {
		return nil
	}

	err = s.dm.WithTransaction(ctx, func(dm contract.DataManager) error {
		if err := dm.Vote().DeleteByPolls(pollIDs); err != nil {
			return err
		}
		if err := dm.Poll().DeleteOptions(pollIDs); err != nil {
			return err
		}
		return dm.Poll().Delete(pollIDs)
	})
	if err != nil {
		return err
	}

	log.Printf("purged %d closed polls", len(pollIDs))
	return nil
}
