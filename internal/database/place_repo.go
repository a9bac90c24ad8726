package database

import (
	"database/sql"
	"fmt"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

type placeRepo struct {
	db dbConn
}

func newPlaceRepo(db dbConn) contract.PlaceRepo {
	return &placeRepo{db: db}
}

func (r *placeRepo) ListOrdered() ([]*entity.Place, error) {
	// Catalog order defines the poll option positions, so it must be
	// stable: place type first, then id.
	query := `
		SELECT id, name, url, place_type_id, choice_message, is_delivery
		FROM places
		ORDER BY place_type_id, id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	var places []*entity.Place
	for rows.Next() {
		p := &entity.Place{}
		var url, choiceMessage sql.NullString
		err := rows.Scan(&p.ID, &p.Name, &url, &p.PlaceTypeID, &choiceMessage, &p.IsDelivery)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		p.URL = url.String
		p.ChoiceMessage = choiceMessage.String
		places = append(places, p)
	}

	return places, rows.Err()
}

func (r *placeRepo) GetByPollPosition(pollID string, position int) (*entity.Place, error) {
	p := &entity.Place{}
	query := `
		SELECT p.id, p.name, p.url, p.place_type_id, p.choice_message, p.is_delivery
		FROM places p
		JOIN polls_options o ON o.place_id = p.id
		WHERE o.poll_id = ? AND o.position = ?
	`

	var url, choiceMessage sql.NullString
	err := r.db.QueryRow(query, pollID, position).Scan(
		&p.ID,
		&p.Name,
		&url,
		&p.PlaceTypeID,
		&choiceMessage,
		&p.IsDelivery,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place by poll position: %w", err)
	}

	p.URL = url.String
	p.ChoiceMessage = choiceMessage.String
	return p, nil
}
