package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

type pollRepo struct {
	db dbConn
}

func newPollRepo(db dbConn) contract.PollRepo {
	return &pollRepo{db: db}
}

// inArgs builds a "?, ?, ..." placeholder list and its argument slice
// for IN clauses over poll ids.
func inArgs(pollIDs []string) (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(pollIDs)), ", ")
	args := make([]interface{}, len(pollIDs))
	for i, id := range pollIDs {
		args[i] = id
	}
	return placeholders, args
}

func (r *pollRepo) Create(poll *entity.Poll) error {
	query := `
		INSERT INTO polls (id, chat_id, start_date, open_period, is_closed)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, poll.ID, poll.ChatID, poll.StartDate, poll.OpenPeriod, poll.IsClosed)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	return nil
}

func (r *pollRepo) CreateOptions(pollID string, placeIDs []int64) error {
	query := `INSERT INTO polls_options (poll_id, position, place_id) VALUES (?, ?, ?)`

	for position, placeID := range placeIDs {
		if _, err := r.db.Exec(query, pollID, position, placeID); err != nil {
			return fmt.Errorf("failed to create poll option: %w", err)
		}
	}

	return nil
}

func (r *pollRepo) GetByID(pollID string) (*entity.Poll, error) {
	poll := &entity.Poll{}
	query := `
		SELECT id, chat_id, start_date, open_period, is_closed
		FROM polls
		WHERE id = ?
	`

	err := r.db.QueryRow(query, pollID).Scan(
		&poll.ID,
		&poll.ChatID,
		&poll.StartDate,
		&poll.OpenPeriod,
		&poll.IsClosed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	return poll, nil
}

func (r *pollRepo) ListOpenOptionVotes() ([]*entity.OptionVotes, error) {
	// Outer join so a poll with no votes at all still produces a row
	// (with a NULL option) and gets resolved once its period elapses.
	query := `
		SELECT p.chat_id, p.id, p.start_date, p.open_period,
			v.option_number, COUNT(v.option_number) AS num_votes
		FROM polls p
		LEFT JOIN polls_votes v ON v.poll_id = p.id
		WHERE p.is_closed = 0
		GROUP BY p.chat_id, p.id, p.start_date, p.open_period, v.option_number
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open option votes: %w", err)
	}
	defer rows.Close()

	var result []*entity.OptionVotes
	for rows.Next() {
		ov := &entity.OptionVotes{}
		var optionNumber sql.NullInt64
		err := rows.Scan(&ov.ChatID, &ov.PollID, &ov.StartDate, &ov.OpenPeriod, &optionNumber, &ov.NumVotes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan option votes: %w", err)
		}
		if optionNumber.Valid {
			n := int(optionNumber.Int64)
			ov.OptionNumber = &n
		}
		result = append(result, ov)
	}

	return result, rows.Err()
}

func (r *pollRepo) CloseAll(pollIDs []string) error {
	if len(pollIDs) == 0 {
		return nil
	}

	placeholders, args := inArgs(pollIDs)
	query := fmt.Sprintf(`UPDATE polls SET is_closed = 1 WHERE id IN (%s)`, placeholders)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to close polls: %w", err)
	}

	return nil
}

func (r *pollRepo) ListClosedIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM polls WHERE is_closed = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed polls: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *pollRepo) DeleteOptions(pollIDs []string) error {
	if len(pollIDs) == 0 {
		return nil
	}

	placeholders, args := inArgs(pollIDs)
	query := fmt.Sprintf(`DELETE FROM polls_options WHERE poll_id IN (%s)`, placeholders)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete poll options: %w", err)
	}

	return nil
}

func (r *pollRepo) Delete(pollIDs []string) error {
	if len(pollIDs) == 0 {
		return nil
	}

	placeholders, args := inArgs(pollIDs)
	query := fmt.Sprintf(`DELETE FROM polls WHERE id IN (%s)`, placeholders)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete polls: %w", err)
	}

	return nil
}
