package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resolveNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return resolveNow }

func seedOpenPoll(t *testing.T, dm contract.DataManager, pollID string, chatID int64, age time.Duration, placeIDs []int64) {
	t.Helper()

	err := dm.Poll().Create(&entity.Poll{
		ID:         pollID,
		ChatID:     chatID,
		StartDate:  resolveNow.Add(-age),
		OpenPeriod: 300,
	})
	require.NoError(t, err)

	err = dm.Poll().CreateOptions(pollID, placeIDs)
	require.NoError(t, err)
}

func castVotes(t *testing.T, dm contract.DataManager, pollID string, option int, userIDs ...int64) {
	t.Helper()

	for _, userID := range userIDs {
		err := dm.Vote().Replace(pollID, userID, []int{option})
		require.NoError(t, err)
	}
}

func placeIDs(places []*entity.Place) []int64 {
	ids := make([]int64, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	return ids
}

func Test_ResolveDuePolls_tiedMaximum(t *testing.T) {
	tg := newFakeTelegram()
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db,
		&entity.Place{Name: "Бургерная", URL: "https://burger.example", IsDelivery: true},
		&entity.Place{Name: "Суши-бар", URL: "https://sushi.example", IsDelivery: true},
		&entity.Place{Name: "Столовая", URL: "https://stolovaya.example", IsDelivery: true},
	)

	seedOpenPoll(t, dm, "p1", 7, 10*time.Minute, placeIDs(places))
	castVotes(t, dm, "p1", 1, 10, 11, 12)
	castVotes(t, dm, "p1", 2, 13, 14, 15)

	err := svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	// The zero-vote option can never win; the winner is one of the tied
	// options.
	require.NotEmpty(t, tg.messages)
	expected := []string{
		fmt.Sprintf(msgOrderingFrom, "Суши-бар"),
		fmt.Sprintf(msgOrderingFrom, "Столовая"),
	}
	assert.Contains(t, expected, tg.messages[0].text)

	poll, err := dm.Poll().GetByID("p1")
	require.NoError(t, err)
	require.NotNil(t, poll)
	assert.True(t, poll.IsClosed)
}

func Test_ResolveDuePolls_notEnoughVotes(t *testing.T) {
	tg := newFakeTelegram()
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db,
		&entity.Place{Name: "Бургерная", IsDelivery: true},
		&entity.Place{Name: "Суши-бар", IsDelivery: true},
		&entity.Place{Name: "Столовая", IsDelivery: true},
	)

	// Every option at one vote stays below the default threshold of two,
	// whichever option the tie-break picks.
	seedOpenPoll(t, dm, "p1", 7, 10*time.Minute, placeIDs(places))
	castVotes(t, dm, "p1", 0, 10)
	castVotes(t, dm, "p1", 1, 11)
	castVotes(t, dm, "p1", 2, 12)

	err := svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	require.Len(t, tg.messages, 1)
	assert.Equal(t, msgNotEnoughVotes, tg.messages[0].text)

	poll, err := dm.Poll().GetByID("p1")
	require.NoError(t, err)
	assert.True(t, poll.IsClosed)
}

func Test_ResolveDuePolls_noVotesAtAll(t *testing.T) {
	tg := newFakeTelegram()
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db, &entity.Place{Name: "Бургерная", IsDelivery: true})

	seedOpenPoll(t, dm, "p1", 7, 10*time.Minute, placeIDs(places))

	err := svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	require.Len(t, tg.messages, 1)
	assert.Equal(t, msgNotEnoughVotes, tg.messages[0].text)

	poll, err := dm.Poll().GetByID("p1")
	require.NoError(t, err)
	assert.True(t, poll.IsClosed)
}

func Test_ResolveDuePolls_notYetDue(t *testing.T) {
	tg := newFakeTelegram()
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db, &entity.Place{Name: "Бургерная", IsDelivery: true})

	// Open period 300s, only 2 minutes old: leave it open, send nothing.
	seedOpenPoll(t, dm, "p1", 7, 2*time.Minute, placeIDs(places))
	castVotes(t, dm, "p1", 0, 10, 11, 12)

	err := svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	assert.Empty(t, tg.messages)

	poll, err := dm.Poll().GetByID("p1")
	require.NoError(t, err)
	assert.False(t, poll.IsClosed)
}

func Test_ResolveDuePolls_choiceMessageOverridesLink(t *testing.T) {
	tg := newFakeTelegram()
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db,
		&entity.Place{Name: "Пиццерия", ChoiceMessage: "Пицца уже едет! 🍕", IsDelivery: true},
	)

	seedOpenPoll(t, dm, "p1", 7, 10*time.Minute, placeIDs(places))
	castVotes(t, dm, "p1", 0, 10, 11)

	err := svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, tg.messages)
	assert.Equal(t, "Пицца уже едет! 🍕", tg.messages[0].text)
	assert.Empty(t, tg.messages[0].url)
}

func Test_ResolveDuePolls_linkButtonForPlainPlace(t *testing.T) {
	tg := newFakeTelegram()
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db,
		&entity.Place{Name: "Бургерная", URL: "https://burger.example", IsDelivery: true},
	)

	seedOpenPoll(t, dm, "p1", 7, 10*time.Minute, placeIDs(places))
	castVotes(t, dm, "p1", 0, 10, 11)

	err := svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, tg.messages)
	assert.Equal(t, fmt.Sprintf(msgOrderingFrom, "Бургерная"), tg.messages[0].text)
	assert.Equal(t, "https://burger.example", tg.messages[0].url)
}

func Test_ResolveDuePolls_customerRotation(t *testing.T) {
	tg := newFakeTelegram()
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db, &entity.Place{Name: "Бургерная", IsDelivery: true})

	seedSubscription(t, dm, 7, nil, 1, 0, 0)
	err := dm.Subscription().SetLastCustomer(7, testBotID, 10)
	require.NoError(t, err)

	seedOpenPoll(t, dm, "p1", 7, 10*time.Minute, placeIDs(places))
	castVotes(t, dm, "p1", 0, 10, 11)

	err = svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	// User 10 placed the previous order, so user 11 must be picked.
	require.Len(t, tg.messages, 2)
	assert.Equal(t, fmt.Sprintf(msgCustomerPicked, "user11"), tg.messages[1].text)

	sub, err := dm.Subscription().GetByChatAndBot(7, testBotID)
	require.NoError(t, err)
	require.NotNil(t, sub.LastCustomerID)
	assert.Equal(t, int64(11), *sub.LastCustomerID)
}

func Test_ResolveDuePolls_noDeliveryEligibleVoters(t *testing.T) {
	tg := newFakeTelegram()
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db, &entity.Place{Name: "Столовая", IsDelivery: false})

	seedOpenPoll(t, dm, "p1", 7, 10*time.Minute, placeIDs(places))
	castVotes(t, dm, "p1", 0, 10, 11)

	err := svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	// The result goes out, but nobody is nominated for a non-delivery
	// place.
	require.Len(t, tg.messages, 1)

	poll, err := dm.Poll().GetByID("p1")
	require.NoError(t, err)
	assert.True(t, poll.IsClosed)
}

func Test_ResolveDuePolls_customerNotReachable(t *testing.T) {
	tg := newFakeTelegram()
	tg.memberErr = contract.ErrChatNotFound
	svc, dm, db := newTestService(t, tg, Options{Now: fixedNow})
	places := seedPlaces(t, db, &entity.Place{Name: "Бургерная", IsDelivery: true})

	seedOpenPoll(t, dm, "p1", 7, 10*time.Minute, placeIDs(places))
	castVotes(t, dm, "p1", 0, 10, 11)

	err := svc.ResolveDuePolls(context.Background())
	require.NoError(t, err)

	// Degrades to announcing the result without naming a customer.
	require.Len(t, tg.messages, 1)

	poll, err := dm.Poll().GetByID("p1")
	require.NoError(t, err)
	assert.True(t, poll.IsClosed)
}
