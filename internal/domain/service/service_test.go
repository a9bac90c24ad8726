package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/database"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
	"github.com/stretchr/testify/require"
)

const testBotID = int64(4242)

type sentPoll struct {
	chatID     int64
	question   string
	options    []string
	openPeriod int
}

type sentMessage struct {
	chatID int64
	text   string
	url    string
}

// fakeTelegram records outgoing platform calls and lets tests inject the
// platform's failure conditions.
type fakeTelegram struct {
	botID     int64
	polls     []sentPoll
	messages  []sentMessage
	pollErrs  map[int64]error // SendPoll error per chat
	memberErr error
	pollSeq   int
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{botID: testBotID, pollErrs: make(map[int64]error)}
}

func (f *fakeTelegram) BotID() int64 { return f.botID }

func (f *fakeTelegram) SendMessage(chatID int64, text string) error {
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeTelegram) SendMessageWithURLButton(chatID int64, text, buttonText, url string) error {
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text, url: url})
	return nil
}

func (f *fakeTelegram) SendPoll(chatID int64, question string, options []string, openPeriod int) (string, error) {
	if err := f.pollErrs[chatID]; err != nil {
		return "", err
	}

	f.pollSeq++
	id := fmt.Sprintf("poll-%d", f.pollSeq)
	f.polls = append(f.polls, sentPoll{chatID: chatID, question: question, options: options, openPeriod: openPeriod})
	return id, nil
}

// pollID returns the id assigned to the i-th successfully sent poll.
func (f *fakeTelegram) pollID(i int) string {
	return fmt.Sprintf("poll-%d", i+1)
}

func (f *fakeTelegram) GetChatMember(chatID, userID int64) (*entity.ChatMember, error) {
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	return &entity.ChatMember{UserID: userID, FirstName: fmt.Sprintf("user%d", userID)}, nil
}

// weekdayCalendar treats Monday-Friday as working days, with no holidays,
// so tests stay deterministic across years.
type weekdayCalendar struct{}

func (weekdayCalendar) IsWorkingDay(t time.Time) bool {
	return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
}

// seqRand plays back a fixed sequence of values.
type seqRand struct {
	vals []int
	pos  int
}

func (r *seqRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[r.pos%len(r.vals)] % n
	r.pos++
	return v
}

func newTestService(t *testing.T, tg contract.TelegramClient, opts Options) (*pollService, contract.DataManager, *database.DB) {
	t.Helper()

	db := database.SetupTestDB(t)
	t.Cleanup(func() { database.CleanupTestDB(t, db) })

	dm := database.NewInstance(db)

	inst := NewInstance(dm, tg, weekdayCalendar{}, opts)
	require.NotNil(t, inst.Poll)

	return inst.Poll, dm, db
}

// seedPlaces inserts a small catalog and returns the places in catalog
// order.
func seedPlaces(t *testing.T, db *database.DB, places ...*entity.Place) []*entity.Place {
	t.Helper()

	typeID := database.InsertTestPlaceType(t, db, "доставка")
	for _, p := range places {
		p.PlaceTypeID = typeID
		database.InsertTestPlace(t, db, p)
	}
	return places
}
