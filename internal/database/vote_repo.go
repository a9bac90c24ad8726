package database

import (
	"fmt"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

type voteRepo struct {
	db dbConn
}

func newVoteRepo(db dbConn) contract.VoteRepo {
	return &voteRepo{db: db}
}

func (r *voteRepo) Replace(pollID string, userID int64, optionNumbers []int) error {
	// Delete-then-insert keeps at most one current vote set per user per
	// poll regardless of how the platform delivers change events.
	if err := r.DeleteByUser(pollID, userID); err != nil {
		return err
	}

	query := `INSERT INTO polls_votes (poll_id, user_id, option_number) VALUES (?, ?, ?)`

	for _, optionNumber := range optionNumbers {
		if _, err := r.db.Exec(query, pollID, userID, optionNumber); err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	return nil
}

func (r *voteRepo) DeleteByUser(pollID string, userID int64) error {
	_, err := r.db.Exec(`DELETE FROM polls_votes WHERE poll_id = ? AND user_id = ?`, pollID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}

	return nil
}

func (r *voteRepo) ListByPoll(pollID string) ([]*entity.PollVote, error) {
	query := `
		SELECT id, poll_id, user_id, option_number
		FROM polls_votes
		WHERE poll_id = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*entity.PollVote
	for rows.Next() {
		v := &entity.PollVote{}
		if err := rows.Scan(&v.ID, &v.PollID, &v.UserID, &v.OptionNumber); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}

	return votes, rows.Err()
}

func (r *voteRepo) ListDeliveryVoterIDs(pollID string) ([]int64, error) {
	query := `
		SELECT DISTINCT v.user_id
		FROM polls_votes v
		JOIN polls_options o ON o.poll_id = v.poll_id AND o.position = v.option_number
		JOIN places p ON p.id = o.place_id
		WHERE v.poll_id = ? AND p.is_delivery = 1
		ORDER BY v.user_id
	`

	rows, err := r.db.Query(query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery voters: %w", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan voter id: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	return userIDs, rows.Err()
}

func (r *voteRepo) DeleteByPolls(pollIDs []string) error {
	if len(pollIDs) == 0 {
		return nil
	}

	placeholders, args := inArgs(pollIDs)
	query := fmt.Sprintf(`DELETE FROM polls_votes WHERE poll_id IN (%s)`, placeholders)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete poll votes: %w", err)
	}

	return nil
}
