package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/catalog"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/ledger"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/models"
	"github.com/dmitrijs2005/cardkeeper/internal/offline"
)

type CollectionService struct {
	ledger  *ledger.Ledger
	catalog catalog.Client
	cache   *offline.Cache
	logger  logging.Logger
}

func NewCollectionService(l *ledger.Ledger, c catalog.Client, cache *offline.Cache, logger logging.Logger) *CollectionService {
	return &CollectionService{ledger: l, catalog: c, cache: cache, logger: logger}
}

// ToggleCard adds cardID to the collection, or removes it when it is already
// a member. added reports the membership afterwards.
func (s *CollectionService) ToggleCard(ctx context.Context, collectionID, cardID string) (added bool, out ledger.Outcome, err error) {
	c, found, err := s.ledger.Get(ctx, collectionID)
	if err != nil {
		return false, 0, err
	}
	if !found {
		return false, ledger.NotFound, nil
	}
	if c.HasCard(cardID) {
		out, err = s.ledger.RemoveCard(ctx, collectionID, cardID)
		return false, out, err
	}
	out, err = s.ledger.AddCard(ctx, collectionID, cardID)
	return err == nil && out != ledger.NotFound, out, err
}

// Cards resolves the collection's members to card summaries. Offline
// snapshots are consulted first; only the remaining ids go to the catalog.
// Cards that cannot be resolved are left out.
func (s *CollectionService) Cards(ctx context.Context, collectionID string) ([]models.Card, error) {
	c, found, err := s.ledger.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("collection %s: %w", collectionID, common.ErrNotFound)
	}

	known, err := s.offlineCards(ctx)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range c.Cards {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fetched, err := s.catalog.GetCardsByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, card := range fetched {
			known[card.ID] = card
		}
	}

	out := make([]models.Card, 0, len(c.Cards))
	for _, id := range c.Cards {
		if card, ok := known[id]; ok {
			out = append(out, card)
		}
	}
	return out, nil
}

func (s *CollectionService) offlineCards(ctx context.Context) (map[string]models.Card, error) {
	ids, err := s.cache.ListOffline(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]models.Card)
	for _, id := range ids {
		snap, found, err := s.cache.GetSet(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		for _, card := range snap.Cards {
			known[card.ID] = card
		}
	}
	return known, nil
}
