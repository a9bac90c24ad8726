package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

type subscriptionRepo struct {
	db dbConn
}

func newSubscriptionRepo(db dbConn) contract.SubscriptionRepo {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Create(sub *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (chat_id, bot_id, mailing_time, last_customer_id)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, sub.ChatID, sub.BotID, sub.MailingTime, sub.LastCustomerID)
	if err != nil {
		// A concurrent insert for the same (chat, bot) pair is "already
		// exists", not a failure.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	sub.ID = id
	return nil
}

func (r *subscriptionRepo) GetByChatAndBot(chatID, botID int64) (*entity.Subscription, error) {
	sub := &entity.Subscription{}
	query := `
		SELECT id, chat_id, bot_id, mailing_time, last_customer_id, created_at, updated_at
		FROM subscriptions
		WHERE chat_id = ? AND bot_id = ?
	`

	err := r.db.QueryRow(query, chatID, botID).Scan(
		&sub.ID,
		&sub.ChatID,
		&sub.BotID,
		&sub.MailingTime,
		&sub.LastCustomerID,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

func (r *subscriptionRepo) ListSchedules(botID int64, limit, offset int) ([]*entity.SubscriptionSchedule, error) {
	query := `
		SELECT s.chat_id, s.mailing_time, t.sign, t.offset_hours, t.offset_minutes
		FROM subscriptions s
		JOIN chats_timezones t ON t.chat_id = s.chat_id
		WHERE s.bot_id = ?
		ORDER BY s.id
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, botID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*entity.SubscriptionSchedule
	for rows.Next() {
		s := &entity.SubscriptionSchedule{}
		err := rows.Scan(&s.ChatID, &s.MailingTime, &s.Sign, &s.OffsetHours, &s.OffsetMinutes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription schedule: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

func (r *subscriptionRepo) ListChatIDs(botID int64) ([]int64, error) {
	rows, err := r.db.Query(`SELECT chat_id FROM subscriptions WHERE bot_id = ?`, botID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat ids: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan chat id: %w", err)
		}
		chatIDs = append(chatIDs, chatID)
	}

	return chatIDs, rows.Err()
}

func (r *subscriptionRepo) UpdateMailingTime(chatID, botID int64, mailingTime *string) error {
	query := `
		UPDATE subscriptions SET mailing_time = ?, updated_at = ?
		WHERE chat_id = ? AND bot_id = ?
	`

	_, err := r.db.Exec(query, mailingTime, time.Now(), chatID, botID)
	if err != nil {
		return fmt.Errorf("failed to update mailing time: %w", err)
	}

	return nil
}

func (r *subscriptionRepo) SetLastCustomer(chatID, botID, userID int64) error {
	query := `
		UPDATE subscriptions SET last_customer_id = ?, updated_at = ?
		WHERE chat_id = ? AND bot_id = ?
	`

	_, err := r.db.Exec(query, userID, time.Now(), chatID, botID)
	if err != nil {
		return fmt.Errorf("failed to set last customer: %w", err)
	}

	return nil
}

func (r *subscriptionRepo) Delete(chatID, botID int64) error {
	_, err := r.db.Exec(`DELETE FROM subscriptions WHERE chat_id = ? AND bot_id = ?`, chatID, botID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return nil
}

func (r *subscriptionRepo) GetTimezone(chatID int64) (*entity.ChatTimezone, error) {
	tz := &entity.ChatTimezone{}
	query := `
		SELECT chat_id, sign, offset_hours, offset_minutes
		FROM chats_timezones
		WHERE chat_id = ?
	`

	err := r.db.QueryRow(query, chatID).Scan(&tz.ChatID, &tz.Sign, &tz.OffsetHours, &tz.OffsetMinutes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat timezone: %w", err)
	}

	return tz, nil
}

func (r *subscriptionRepo) UpsertTimezone(tz *entity.ChatTimezone) error {
	query := `
		INSERT INTO chats_timezones (chat_id, sign, offset_hours, offset_minutes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			sign = excluded.sign,
			offset_hours = excluded.offset_hours,
			offset_minutes = excluded.offset_minutes
	`

	_, err := r.db.Exec(query, tz.ChatID, tz.Sign, tz.OffsetHours, tz.OffsetMinutes)
	if err != nil {
		return fmt.Errorf("failed to upsert chat timezone: %w", err)
	}

	return nil
}
