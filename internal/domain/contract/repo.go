package contract

import (
	"context"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Subscription() SubscriptionRepo
	Place() PlaceRepo
	Poll() PollRepo
	Vote() VoteRepo
	ChatState() ChatStateRepo
}

// SubscriptionRepo defines the contract for the subscription repository
type SubscriptionRepo interface {
	Create(sub *entity.Subscription) error
	GetByChatAndBot(chatID, botID int64) (*entity.Subscription, error)
	// ListSchedules returns one scan window of subscriptions joined with
	// their chat timezones, ordered by id.
	ListSchedules(botID int64, limit, offset int) ([]*entity.SubscriptionSchedule, error)
	ListChatIDs(botID int64) ([]int64, error)
	UpdateMailingTime(chatID, botID int64, mailingTime *string) error
	SetLastCustomer(chatID, botID, userID int64) error
	Delete(chatID, botID int64) error
	GetTimezone(chatID int64) (*entity.ChatTimezone, error)
	UpsertTimezone(tz *entity.ChatTimezone) error
}

// PlaceRepo defines the contract for the place catalog repository
type PlaceRepo interface {
	// ListOrdered returns the full catalog in presentation order
	// (place type first, then id).
	ListOrdered() ([]*entity.Place, error)
	// GetByPollPosition resolves a poll's option position to its place.
	GetByPollPosition(pollID string, position int) (*entity.Place, error)
}

// PollRepo defines the contract for the poll repository
type PollRepo interface {
	Create(poll *entity.Poll) error
	// CreateOptions persists the option-to-place mapping for a poll.
	// Positions are assigned 0..len(placeIDs)-1 in slice order.
	CreateOptions(pollID string, placeIDs []int64) error
	GetByID(pollID string) (*entity.Poll, error)
	// ListOpenOptionVotes builds the resolution aggregate: every open poll
	// outer-joined against its votes, one row per (poll, option) with a
	// vote count. A poll without votes yields a single row with a nil
	// option number.
	ListOpenOptionVotes() ([]*entity.OptionVotes, error)
	CloseAll(pollIDs []string) error
	ListClosedIDs() ([]string, error)
	DeleteOptions(pollIDs []string) error
	Delete(pollIDs []string) error
}

// VoteRepo defines the contract for the vote ledger
type VoteRepo interface {
	// Replace removes the user's existing votes on the poll and inserts
	// one row per chosen option, as a single statement sequence.
	Replace(pollID string, userID int64, optionNumbers []int) error
	DeleteByUser(pollID string, userID int64) error
	ListByPoll(pollID string) ([]*entity.PollVote, error)
	// ListDeliveryVoterIDs returns the distinct users who voted for an
	// option whose place is delivery-eligible.
	ListDeliveryVoterIDs(pollID string) ([]int64, error)
	DeleteByPolls(pollIDs []string) error
}

// ChatStateRepo persists wizard dialog state per chat
type ChatStateRepo interface {
	Get(chatID int64) (*entity.ChatState, error)
	Set(state *entity.ChatState) error
	Clear(chatID int64) error
}
