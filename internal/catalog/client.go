// Package catalog declares what the app needs from the remote card catalog.
package catalog

import (
	"context"

	"github.com/dmitrijs2005/cardkeeper/internal/models"
)

// Client fetches catalog data over the network. Lookups of unknown ids fail
// with an error matching common.ErrNotFound; network and server failures
// match common.ErrUnavailable.
type Client interface {
	GetSet(ctx context.Context, setID string) (*models.Set, []models.Card, error)
	GetCard(ctx context.Context, cardID string) (*models.DetailedCard, error)
	// GetCardsByIDs returns the summaries of the cards it could fetch, in the
	// order of ids. Cards that fail to load are left out.
	GetCardsByIDs(ctx context.Context, ids []string) ([]models.Card, error)
}
