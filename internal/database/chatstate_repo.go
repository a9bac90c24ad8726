package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

type chatStateRepo struct {
	db dbConn
}

func newChatStateRepo(db dbConn) contract.ChatStateRepo {
	return &chatStateRepo{db: db}
}

func (r *chatStateRepo) Get(chatID int64) (*entity.ChatState, error) {
	state := &entity.ChatState{}
	query := `
		SELECT chat_id, flow, state, updated_at
		FROM chat_states
		WHERE chat_id = ?
	`

	err := r.db.QueryRow(query, chatID).Scan(&state.ChatID, &state.Flow, &state.State, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat state: %w", err)
	}

	return state, nil
}

func (r *chatStateRepo) Set(state *entity.ChatState) error {
	query := `
		INSERT INTO chat_states (chat_id, flow, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			flow = excluded.flow,
			state = excluded.state,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, state.ChatID, state.Flow, state.State, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set chat state: %w", err)
	}

	return nil
}

func (r *chatStateRepo) Clear(chatID int64) error {
	_, err := r.db.Exec(`DELETE FROM chat_states WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to clear chat state: %w", err)
	}

	return nil
}
