package contract

import (
	"context"
	"time"
)

// PollService is the poll lifecycle engine
type PollService interface {
	// CreateLunchPoll sends a lunch poll to the chat and persists it
	// together with its option-to-place mapping.
	CreateLunchPoll(ctx context.Context, chatID int64) error

	// RunDuePolls scans all subscriptions of this bot and creates a poll
	// for every chat whose local time matches its mailing time on a
	// working day. nowUTC must be truncated to the minute.
	RunDuePolls(ctx context.Context, nowUTC time.Time) error

	// ProcessUserAnswer records a vote change. An empty option list is a
	// retraction.
	ProcessUserAnswer(ctx context.Context, pollID string, userID int64, optionNumbers []int) error

	// ResolveDuePolls computes winners for polls whose open period has
	// elapsed, announces results and closes them.
	ResolveDuePolls(ctx context.Context) error

	// PurgeClosedPolls deletes closed polls with their votes and options.
	PurgeClosedPolls(ctx context.Context) error

	// RefreshCatalog reloads the in-memory place catalog snapshot.
	RefreshCatalog(ctx context.Context) error
}

// Calendar tells whether a date is a working day (not a weekend or a
// public holiday) for the configured region.
type Calendar interface {
	IsWorkingDay(t time.Time) bool
}

// Rand is the injected random source used for tie-breaking and customer
// selection, so tests can supply a deterministic sequence.
type Rand interface {
	Intn(n int) int
}
