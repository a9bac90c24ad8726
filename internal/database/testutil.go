package database

import (
	"database/sql"
	"testing"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
	"github.com/lunchpoll/lunch-poll-bot/migrator/sqlite"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "Failed to create test database")

	err = sqlite.Migrate(sqlDB)
	require.NoError(t, err, "Failed to run migrations on test database")

	return &DB{conn: sqlDB}
}

// CleanupTestDB closes the test database
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	err := db.Close()
	require.NoError(t, err, "Failed to close test database")
}

// InsertTestPlace seeds one catalog place. The place catalog is read-only
// for the bot itself, so tests write it directly.
func InsertTestPlace(t *testing.T, db *DB, place *entity.Place) {
	t.Helper()

	res, err := db.conn.Exec(
		`INSERT INTO places (name, url, place_type_id, choice_message, is_delivery) VALUES (?, ?, ?, ?, ?)`,
		place.Name, place.URL, place.PlaceTypeID, place.ChoiceMessage, place.IsDelivery,
	)
	require.NoError(t, err, "Failed to insert test place")

	id, err := res.LastInsertId()
	require.NoError(t, err)
	place.ID = id
}

// InsertTestPlaceType seeds one place type and returns its id.
func InsertTestPlaceType(t *testing.T, db *DB, name string) int64 {
	t.Helper()

	res, err := db.conn.Exec(`INSERT INTO place_types (name) VALUES (?)`, name)
	require.NoError(t, err, "Failed to insert test place type")

	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
