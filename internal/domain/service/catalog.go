package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain/contract"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/entity"
)

// placeCache is the in-memory snapshot of the place catalog. The catalog
// is edited by an external tool, so the snapshot is loaded lazily and
// refreshed only on explicit request.
type placeCache struct {
	mu     sync.RWMutex
	places []*entity.Place
}

func (c *placeCache) get(dm contract.DataManager) ([]*entity.Place, error) {
	c.mu.RLock()
	places := c.places
	c.mu.RUnlock()

	if places != nil {
		return places, nil
	}

	return c.refresh(dm)
}

func (c *placeCache) refresh(dm contract.DataManager) ([]*entity.Place, error) {
	places, err := dm.Place().ListOrdered()
	if err != nil {
		return nil, fmt.Errorf("failed to load place catalog: %w", err)
	}

	c.mu.Lock()
	c.places = places
	c.mu.Unlock()

	return places, nil
}

// RefreshCatalog reloads the catalog snapshot from the store.
func (s *pollService) RefreshCatalog(ctx context.Context) error {
	_, err := s.catalog.refresh(s.dm)
	return err
}
