package database

import (
	"testing"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, db *DB, names ...string) []int64 {
	t.Helper()

	typeID := InsertTestPlaceType(t, db, "доставка")
	ids := make([]int64, len(names))
	for i, name := range names {
		place := &entity.Place{Name: name, PlaceTypeID: typeID, IsDelivery: true}
		InsertTestPlace(t, db, place)
		ids[i] = place.ID
	}
	return ids
}

func TestPollRepo_CreateAndGet(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newPollRepo(db.conn)

	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	err := repo.Create(&entity.Poll{ID: "p1", ChatID: 7, StartDate: start, OpenPeriod: 300})
	require.NoError(t, err)

	poll, err := repo.GetByID("p1")
	require.NoError(t, err)
	require.NotNil(t, poll)
	assert.Equal(t, int64(7), poll.ChatID)
	assert.Equal(t, 300, poll.OpenPeriod)
	assert.True(t, start.Equal(poll.StartDate))
	assert.False(t, poll.IsClosed)

	missing, err := repo.GetByID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPollRepo_ListOpenOptionVotes(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	placeIDs := seedCatalog(t, db, "Бургерная", "Суши-бар")

	pollRepo := newPollRepo(db.conn)
	voteRepo := newVoteRepo(db.conn)

	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pollRepo.Create(&entity.Poll{ID: "p1", ChatID: 7, StartDate: start, OpenPeriod: 300}))
	require.NoError(t, pollRepo.CreateOptions("p1", placeIDs))

	require.NoError(t, voteRepo.Replace("p1", 10, []int{0}))
	require.NoError(t, voteRepo.Replace("p1", 11, []int{0}))
	require.NoError(t, voteRepo.Replace("p1", 12, []int{1}))

	rows, err := pollRepo.ListOpenOptionVotes()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	counts := map[int]int{}
	for _, row := range rows {
		require.NotNil(t, row.OptionNumber)
		counts[*row.OptionNumber] = row.NumVotes
		assert.Equal(t, "p1", row.PollID)
		assert.Equal(t, int64(7), row.ChatID)
		assert.Equal(t, 300, row.OpenPeriod)
	}
	assert.Equal(t, map[int]int{0: 2, 1: 1}, counts)
}

func TestPollRepo_ListOpenOptionVotes_noVotesProducesNullRow(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	placeIDs := seedCatalog(t, db, "Бургерная")

	repo := newPollRepo(db.conn)

	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(&entity.Poll{ID: "p1", ChatID: 7, StartDate: start, OpenPeriod: 300}))
	require.NoError(t, repo.CreateOptions("p1", placeIDs))

	// The outer join keeps the untouched poll visible so it can still be
	// closed when its period runs out.
	rows, err := repo.ListOpenOptionVotes()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].OptionNumber)
	assert.Equal(t, 0, rows[0].NumVotes)
}

func TestPollRepo_ListOpenOptionVotes_skipsClosed(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	placeIDs := seedCatalog(t, db, "Бургерная")

	repo := newPollRepo(db.conn)

	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(&entity.Poll{ID: "p1", ChatID: 7, StartDate: start, OpenPeriod: 300}))
	require.NoError(t, repo.CreateOptions("p1", placeIDs))
	require.NoError(t, repo.CloseAll([]string{"p1"}))

	rows, err := repo.ListOpenOptionVotes()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPollRepo_CloseAllAndListClosed(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newPollRepo(db.conn)

	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(&entity.Poll{ID: "p1", ChatID: 7, StartDate: start, OpenPeriod: 300}))
	require.NoError(t, repo.Create(&entity.Poll{ID: "p2", ChatID: 8, StartDate: start, OpenPeriod: 300}))
	require.NoError(t, repo.Create(&entity.Poll{ID: "p3", ChatID: 9, StartDate: start, OpenPeriod: 300}))

	// Empty batch is a no-op.
	require.NoError(t, repo.CloseAll(nil))

	require.NoError(t, repo.CloseAll([]string{"p1", "p3"}))

	closed, err := repo.ListClosedIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p3"}, closed)

	poll, err := repo.GetByID("p2")
	require.NoError(t, err)
	assert.False(t, poll.IsClosed)
}

func TestPollRepo_DeleteWithOptions(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	placeIDs := seedCatalog(t, db, "Бургерная")

	repo := newPollRepo(db.conn)

	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(&entity.Poll{ID: "p1", ChatID: 7, StartDate: start, OpenPeriod: 300}))
	require.NoError(t, repo.CreateOptions("p1", placeIDs))

	require.NoError(t, repo.DeleteOptions([]string{"p1"}))
	require.NoError(t, repo.Delete([]string{"p1"}))

	poll, err := repo.GetByID("p1")
	require.NoError(t, err)
	assert.Nil(t, poll)

	place, err := newPlaceRepo(db.conn).GetByPollPosition("p1", 0)
	require.NoError(t, err)
	assert.Nil(t, place)
}
