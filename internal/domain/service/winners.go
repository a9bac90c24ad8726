package service

import (
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

// pollWinners selects one winning option per poll from the resolution
// aggregate. The option with the most votes wins; options tied at the
// maximum are broken uniformly at random. That tie-break is a deliberate
// policy, not an implementation artifact: a deterministic pick would
// always favor the same place.
//
// The result is keyed by poll id, so it holds exactly one winner per poll.
func pollWinners(rows []*entity.OptionVotes, rnd contract.Rand) map[string]*entity.Winner {
	byPoll := make(map[string][]*entity.OptionVotes)
	for _, row := range rows {
		byPoll[row.PollID] = append(byPoll[row.PollID], row)
	}

	winners := make(map[string]*entity.Winner, len(byPoll))
	for pollID, options := range byPoll {
		maxVotes := options[0].NumVotes
		for _, o := range options[1:] {
			if o.NumVotes > maxVotes {
				maxVotes = o.NumVotes
			}
		}

		var tied []*entity.OptionVotes
		for _, o := range options {
			if o.NumVotes == maxVotes {
				tied = append(tied, o)
			}
		}

		chosen := tied[rnd.Intn(len(tied))]
		winners[pollID] = &entity.Winner{
			ChatID:       chosen.ChatID,
			PollID:       chosen.PollID,
			StartDate:    chosen.StartDate,
			OpenPeriod:   chosen.OpenPeriod,
			OptionNumber: chosen.OptionNumber,
			NumVotes:     chosen.NumVotes,
		}
	}

	return winners
}
