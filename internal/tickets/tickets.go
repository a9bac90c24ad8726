// Package tickets watches an external clinic API for available
// appointment tickets of configured doctors and notifies every
// subscribed chat when some appear.
package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
)

type Direction struct {
	FullName        string `json:"fullName"`
	FreeTicket      int    `json:"freelTicket"`
	AvailableTicket int    `json:"availableTicket"`
	ExternalID      string `json:"external_id"`
	UniqueID        string `json:"unique_id"`
	NearestDate     string `json:"nearestDate"`
}

type ticketsInfo struct {
	Result []Direction `json:"result"`
}

type Watcher struct {
	apiURL       string
	departmentID string
	surnames     []string

	httpClient *http.Client
	tg         contract.TelegramClient
	dm         contract.DataManager
}

func NewWatcher(apiURL, departmentID string, surnames []string, tg contract.TelegramClient, dm contract.DataManager) *Watcher {
	return &Watcher{
		apiURL:       apiURL,
		departmentID: departmentID,
		surnames:     surnames,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		tg:           tg,
		dm:           dm,
	}
}

// Check queries the API once and notifies all subscribed chats about the
// first matching direction with available tickets, if any.
func (w *Watcher) Check(ctx context.Context) error {
	direction, err := w.fetchMatch(ctx)
	if err != nil {
		return err
	}
	if direction == nil {
		return nil
	}

	text := fmt.Sprintf("%s\nНайдено талонов: %d\nБлижайшая дата записи: %s",
		direction.FullName, direction.AvailableTicket, direction.NearestDate)

	chatIDs, err := w.dm.Subscription().ListChatIDs(w.tg.BotID())
	if err != nil {
		return err
	}

	for _, chatID := range chatIDs {
		if err := w.tg.SendMessage(chatID, text); err != nil {
			log.Printf("chat id=%d: failed to send tickets notice: %v", chatID, err)
		}
	}

	return nil
}

func (w *Watcher) fetchMatch(ctx context.Context) (*Direction, error) {
	payload := map[string]interface{}{
		"method": "record/getPersons",
		"params": map[string]string{
			"hospital_id": w.departmentID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tickets request: %w", err)
	}

	url := w.apiURL + "?method=record/getPersons"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build tickets request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tickets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("tickets request failed with status %d", resp.StatusCode)
	}

	var info ticketsInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tickets response: %w", err)
	}

	return w.match(info.Result), nil
}

func (w *Watcher) match(directions []Direction) *Direction {
	for i, d := range directions {
		if d.AvailableTicket <= 0 {
			continue
		}
		for _, surname := range w.surnames {
			if strings.HasPrefix(d.FullName, surname) {
				return &directions[i]
			}
		}
	}
	return nil
}
