package entity

import "time"

// Subscription enrolls a (bot, chat) pair into the daily lunch poll.
// A nil MailingTime means the chat is not subscribed to the recurring poll.
type Subscription struct {
	ID             int64
	ChatID         int64
	BotID          int64
	MailingTime    *string // HH:MM format
	LastCustomerID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ChatTimezone is the chat-local UTC offset: Sign is +1 or -1, the
// magnitude is OffsetHours:OffsetMinutes.
type ChatTimezone struct {
	ChatID        int64
	Sign          int
	OffsetHours   int
	OffsetMinutes int
}

// SubscriptionSchedule is the scheduler's view of one subscription,
// joined with the chat timezone.
type SubscriptionSchedule struct {
	ChatID        int64
	MailingTime   *string // HH:MM format
	Sign          int
	OffsetHours   int
	OffsetMinutes int
}

// LocalTime converts a UTC timestamp to the subscription's chat-local time.
func (s *SubscriptionSchedule) LocalTime(nowUTC time.Time) time.Time {
	offset := time.Duration(s.OffsetHours)*time.Hour + time.Duration(s.OffsetMinutes)*time.Minute
	return nowUTC.Add(time.Duration(s.Sign) * offset)
}

type PlaceType struct {
	ID   int64
	Name string
}

// Place is one orderable catalog entry. ChoiceMessage, when set, replaces
// the default "ordering from ..." announcement.
type Place struct {
	ID            int64
	Name          string
	URL           string
	PlaceTypeID   int64
	ChoiceMessage string
	IsDelivery    bool
}

// Poll is one platform-hosted lunch poll. ID is the platform-assigned
// poll id. A poll is closed exactly once, after its open period elapses.
type Poll struct {
	ID         string
	ChatID     int64
	StartDate  time.Time
	OpenPeriod int // seconds
	IsClosed   bool
}

// PollOption maps a poll's displayed option position (0-based, contiguous)
// to a catalog place.
type PollOption struct {
	ID       int64
	PollID   string
	Position int
	PlaceID  int64
}

// PollVote is one user's vote for one option position of a poll.
type PollVote struct {
	ID           int64
	PollID       string
	UserID       int64
	OptionNumber int
}

// OptionVotes is one row of the resolution aggregate: an open poll
// outer-joined against its votes, grouped per option position.
// OptionNumber is nil for a poll that has no votes at all.
type OptionVotes struct {
	ChatID       int64
	PollID       string
	StartDate    time.Time
	OpenPeriod   int
	OptionNumber *int
	NumVotes     int
}

// Winner is the resolved winning option of one poll.
type Winner struct {
	ChatID       int64
	PollID       string
	StartDate    time.Time
	OpenPeriod   int
	OptionNumber *int
	NumVotes     int
}

// ChatMember is the platform's view of a user inside a chat.
type ChatMember struct {
	UserID    int64
	UserName  string
	FirstName string
}

// Wizard flows and states for the stateful timezone/mailing-time dialogs.
// The current state is persisted per chat so dialogs survive restarts.
const (
	FlowTimezone = "timezone"
	FlowMailing  = "mailing"

	StateAwaitingChoice = "awaiting_choice"
	StateAwaitingValue  = "awaiting_value"
)

// ChatState is the persisted wizard state of one chat. Absence of a row
// means the chat is idle.
type ChatState struct {
	ChatID    int64
	Flow      string
	State     string
	UpdatedAt time.Time
}
