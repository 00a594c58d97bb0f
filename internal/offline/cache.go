// Package offline keeps downloaded catalog sets on the device so a set can be
// browsed without the network.
//
// Each cached set is one snapshot record under offline_set_<id>. A separate
// index record lists the cached ids so "is this set downloaded" never has to
// decode a snapshot. Writes touch the index first and the snapshot second;
// removal goes the other way. A failure in between can only leave an index
// entry with no snapshot behind it, which readers treat as "not cached".
package offline

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/models"
)

const (
	IndexKey  = "offline_sets_index"
	SetPrefix = "offline_set_"
)

// SetKey is the storage key of the snapshot for setID.
func SetKey(setID string) string {
	return SetPrefix + setID
}

type Cache struct {
	store  kv.Store
	logger logging.Logger
	now    func() time.Time
}

type Option func(*Cache)

// WithClock overrides the clock used to stamp DownloadedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func NewCache(store kv.Store, logger logging.Logger, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SaveSet stores a snapshot of set and cards, replacing any earlier one.
func (c *Cache) SaveSet(ctx context.Context, set models.Set, cards []models.Card) error {
	if set.ID == "" {
		return fmt.Errorf("set id is empty: %w", common.ErrValidation)
	}

	index, err := c.readIndex(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(index, set.ID) {
		if err := kv.WriteJSON(ctx, c.store, IndexKey, append(index, set.ID)); err != nil {
			return err
		}
	}

	if cards == nil {
		cards = []models.Card{}
	}
	snap := models.Snapshot{
		Set:          set,
		Cards:        cards,
		DownloadedAt: c.now().UTC(),
	}
	if err := kv.WriteJSON(ctx, c.store, SetKey(set.ID), snap); err != nil {
		return err
	}

	c.logger.Info(ctx, "set saved offline", "set", set.ID, "cards", len(cards))
	return nil
}

// RemoveSet deletes the snapshot of setID. Removing a set that is not cached
// is not an error.
func (c *Cache) RemoveSet(ctx context.Context, setID string) error {
	if err := kv.Remove(ctx, c.store, SetKey(setID)); err != nil {
		return err
	}

	index, err := c.readIndex(ctx)
	if err != nil {
		return err
	}
	i := slices.Index(index, setID)
	if i < 0 {
		return nil
	}
	if err := kv.WriteJSON(ctx, c.store, IndexKey, slices.Delete(index, i, i+1)); err != nil {
		return err
	}

	c.logger.Info(ctx, "offline set removed", "set", setID)
	return nil
}

// GetSet returns the stored snapshot of setID. found is false when there is
// no snapshot, or the stored one cannot be decoded or carries no set id.
func (c *Cache) GetSet(ctx context.Context, setID string) (*models.Snapshot, bool, error) {
	var snap models.Snapshot
	found, err := kv.ReadJSON(ctx, c.store, SetKey(setID), &snap)
	switch {
	case common.IsCorrupt(err):
		c.logger.Warn(ctx, "corrupt offline snapshot ignored", "set", setID, "error", err)
		return nil, false, nil
	case err != nil:
		return nil, false, err
	case !found:
		return nil, false, nil
	case snap.Set.ID == "":
		c.logger.Warn(ctx, "empty offline snapshot ignored", "set", setID)
		return nil, false, nil
	}
	return &snap, true, nil
}

// IsSetOffline consults the index only; a snapshot deleted behind the
// cache's back still reports true here.
func (c *Cache) IsSetOffline(ctx context.Context, setID string) (bool, error) {
	index, err := c.readIndexLenient(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(index, setID), nil
}

// ListOffline returns the cached set ids in download order.
func (c *Cache) ListOffline(ctx context.Context) ([]string, error) {
	return c.readIndexLenient(ctx)
}

// Unindexed returns the ids of stored snapshots the index does not list,
// sorted. IsSetOffline reports false for them although the blob is there.
func (c *Cache) Unindexed(ctx context.Context) ([]string, error) {
	keys, err := kv.ListKeys(ctx, c.store, SetPrefix)
	if err != nil {
		return nil, err
	}
	index, err := c.readIndexLenient(ctx)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, key := range keys {
		if id := strings.TrimPrefix(key, SetPrefix); !slices.Contains(index, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (c *Cache) readIndex(ctx context.Context) ([]string, error) {
	var index []string
	if _, err := kv.ReadJSON(ctx, c.store, IndexKey, &index); err != nil {
		return nil, err
	}
	if index == nil {
		index = []string{}
	}
	return index, nil
}

// readIndexLenient reads a corrupt index as empty. Write paths use readIndex
// instead so they never overwrite a record they could not read.
func (c *Cache) readIndexLenient(ctx context.Context) ([]string, error) {
	index, err := c.readIndex(ctx)
	if common.IsCorrupt(err) {
		c.logger.Warn(ctx, "corrupt offline index ignored", "error", err)
		return []string{}, nil
	}
	return index, err
}
