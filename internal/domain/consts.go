package domain

import "time"

const (
	// DefaultPollOpenPeriod is how long a lunch poll accepts votes, in seconds.
	DefaultPollOpenPeriod = 300

	// DefaultMinVotesForOrder is the minimum number of votes the winning
	// option needs before an order is announced.
	DefaultMinVotesForOrder = 2

	// QueryWindowSize bounds every potentially large store scan.
	QueryWindowSize = 100
)

// PollQuestion is the question text of every lunch poll.
const PollQuestion = "Откуда заказываем?"

// UTCNowMinute returns the current UTC time truncated to the minute.
// The scheduler matches mailing times against exact minutes, so all
// time comparisons start from this.
func UTCNowMinute() time.Time {
	return time.Now().UTC().Truncate(time.Minute)
}
