// Package ledger stores the user's collections on the device.
//
// The whole list of collections is one record. Every operation reads it,
// changes it in memory and writes it back. Nothing serialises those cycles:
// two calls that overlap may both read the same list and the later write
// wins, dropping the other change.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/models"
)

// Key is the record holding the collections of the anonymous device user.
const Key = "user_collections"

// KeyFor returns the record key for userID.
func KeyFor(userID string) string {
	if userID == "" {
		return Key
	}
	return Key + ":" + userID
}

type Ledger struct {
	store  kv.Store
	logger logging.Logger
	key    string
	now    func() time.Time
	newID  func() string
}

type Option func(*Ledger)

// WithUser scopes the ledger to userID's record.
func WithUser(userID string) Option {
	return func(l *Ledger) { l.key = KeyFor(userID) }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator replaces the uuid generator used by Create.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

func New(store kv.Store, logger logging.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: logger,
		key:    Key,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns every collection in stored order, or an empty slice.
func (l *Ledger) List(ctx context.Context) ([]models.Collection, error) {
	var list []models.Collection
	if _, err := kv.ReadJSON(ctx, l.store, l.key, &list); err != nil {
		l.logger.Error(ctx, "failed to read collections", "key", l.key, "error", err)
		return nil, err
	}
	if list == nil {
		list = []models.Collection{}
	}
	return list, nil
}

// Get returns the collection with id.
func (l *Ledger) Get(ctx context.Context, id string) (*models.Collection, bool, error) {
	list, err := l.List(ctx)
	if err != nil {
		return nil, false, err
	}
	i := indexOf(list, id)
	if i < 0 {
		return nil, false, nil
	}
	return &list[i], true, nil
}

// Containing returns the ids of the collections that hold cardID.
func (l *Ledger) Containing(ctx context.Context, cardID string) ([]string, error) {
	list, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, c := range list {
		if c.HasCard(cardID) {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

// Create stores a new empty collection named name.
func (l *Ledger) Create(ctx context.Context, name, description string) (*models.Collection, error) {
	c := models.Collection{
		ID:          l.newID(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   l.now().UTC(),
		Cards:       []string{},
	}
	if _, err := l.Save(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save inserts c, or replaces the stored collection with the same id.
// The name is trimmed and must not be empty. Duplicate cards are dropped.
// Variant tags are normalised the way SetVariants does it, and entries that
// end up empty or belong to non-member cards are discarded.
func (l *Ledger) Save(ctx context.Context, c models.Collection) (Outcome, error) {
	c = c.Clone()
	c.Name = strings.TrimSpace(c.Name)
	if c.ID == "" {
		return 0, fmt.Errorf("collection id is empty: %w", common.ErrValidation)
	}
	if c.Name == "" {
		return 0, fmt.Errorf("collection name is empty: %w", common.ErrValidation)
	}
	c.Cards = dedupe(c.Cards)
	for card, tags := range c.CardVariants {
		tags = normaliseTags(tags)
		if len(tags) == 0 || !c.HasCard(card) {
			delete(c.CardVariants, card)
			continue
		}
		c.CardVariants[card] = tags
	}
	if len(c.CardVariants) == 0 {
		c.CardVariants = nil
	}

	list, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	if i := indexOf(list, c.ID); i >= 0 {
		list[i] = c
	} else {
		list = append(list, c)
	}
	if err := l.write(ctx, list); err != nil {
		return 0, err
	}
	l.logger.Debug(ctx, "collection saved", "collection", c.ID)
	return Applied, nil
}

// Delete removes the collection with id.
func (l *Ledger) Delete(ctx context.Context, id string) (Outcome, error) {
	list, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	i := indexOf(list, id)
	if i < 0 {
		l.logger.Debug(ctx, "delete: collection not found", "collection", id)
		return NotFound, nil
	}
	if err := l.write(ctx, slices.Delete(list, i, i+1)); err != nil {
		return 0, err
	}
	return Applied, nil
}

// AddCard adds cardID to the collection unless it is already a member.
func (l *Ledger) AddCard(ctx context.Context, collectionID, cardID string) (Outcome, error) {
	return l.mutate(ctx, "add card", collectionID, func(c *models.Collection) Outcome {
		if c.HasCard(cardID) {
			return Unchanged
		}
		c.Cards = append(c.Cards, cardID)
		return Applied
	})
}

// RemoveCard removes cardID and its variant tags from the collection.
func (l *Ledger) RemoveCard(ctx context.Context, collectionID, cardID string) (Outcome, error) {
	return l.mutate(ctx, "remove card", collectionID, func(c *models.Collection) Outcome {
		i := slices.Index(c.Cards, cardID)
		_, tagged := c.CardVariants[cardID]
		if i < 0 && !tagged {
			return Unchanged
		}
		if i >= 0 {
			c.Cards = slices.Delete(c.Cards, i, i+1)
		}
		delete(c.CardVariants, cardID)
		return Applied
	})
}

// AddCards appends the ids in cardIDs that are not yet members, in the given
// order. The record is not rewritten when nothing is new.
func (l *Ledger) AddCards(ctx context.Context, collectionID string, cardIDs []string) (Outcome, error) {
	return l.mutate(ctx, "add cards", collectionID, func(c *models.Collection) Outcome {
		var added int
		for _, id := range dedupe(cardIDs) {
			if !c.HasCard(id) {
				c.Cards = append(c.Cards, id)
				added++
			}
		}
		if added == 0 {
			return Unchanged
		}
		return Applied
	})
}

// SetVariants replaces the variant tags of a member card. Tags are trimmed
// and deduplicated; an empty result clears the card's entry. A card that is
// not in the collection reports NotFound.
func (l *Ledger) SetVariants(ctx context.Context, collectionID, cardID string, variants []string) (Outcome, error) {
	tags := normaliseTags(variants)
	return l.mutate(ctx, "set variants", collectionID, func(c *models.Collection) Outcome {
		if !c.HasCard(cardID) {
			return NotFound
		}
		current, tagged := c.CardVariants[cardID]
		if len(tags) == 0 {
			if !tagged {
				return Unchanged
			}
			delete(c.CardVariants, cardID)
			if len(c.CardVariants) == 0 {
				c.CardVariants = nil
			}
			return Applied
		}
		if tagged && slices.Equal(current, tags) {
			return Unchanged
		}
		if c.CardVariants == nil {
			c.CardVariants = make(map[string][]string)
		}
		c.CardVariants[cardID] = tags
		return Applied
	})
}

// SetCover sets the cover image. A nil style keeps the stored one.
func (l *Ledger) SetCover(ctx context.Context, collectionID, image string, style *models.CoverStyle) (Outcome, error) {
	return l.mutate(ctx, "set cover", collectionID, func(c *models.Collection) Outcome {
		sameStyle := style == nil || (c.CoverStyle != nil && *c.CoverStyle == *style)
		if c.CoverImage == image && sameStyle {
			return Unchanged
		}
		c.CoverImage = image
		if style != nil {
			s := *style
			c.CoverStyle = &s
		}
		return Applied
	})
}

// Purge deletes every collection of the ledger's user.
func (l *Ledger) Purge(ctx context.Context) error {
	if err := kv.Remove(ctx, l.store, l.key); err != nil {
		l.logger.Error(ctx, "failed to purge collections", "key", l.key, "error", err)
		return err
	}
	l.logger.Info(ctx, "collections purged", "key", l.key)
	return nil
}

// mutate runs fn on the collection with id and writes the list back only
// when fn reports Applied.
func (l *Ledger) mutate(ctx context.Context, op, id string, fn func(c *models.Collection) Outcome) (Outcome, error) {
	list, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	i := indexOf(list, id)
	if i < 0 {
		l.logger.Debug(ctx, op+": collection not found", "collection", id)
		return NotFound, nil
	}

	res := fn(&list[i])
	if res != Applied {
		l.logger.Debug(ctx, op+": nothing to do", "collection", id, "outcome", res.String())
		return res, nil
	}
	if err := l.write(ctx, list); err != nil {
		return 0, err
	}
	return Applied, nil
}

func (l *Ledger) write(ctx context.Context, list []models.Collection) error {
	if err := kv.WriteJSON(ctx, l.store, l.key, list); err != nil {
		l.logger.Error(ctx, "failed to write collections", "key", l.key, "error", err)
		return err
	}
	return nil
}

func indexOf(list []models.Collection, id string) int {
	return slices.IndexFunc(list, func(c models.Collection) bool { return c.ID == id })
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func normaliseTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
