package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/catalog"
	"github.com/dmitrijs2005/cardkeeper/internal/ledger"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/models"
	"github.com/dmitrijs2005/cardkeeper/internal/offline"
)

// Source tells where a SetView was loaded from.
type Source string

const (
	SourceNetwork Source = "network"
	SourceOffline Source = "offline"
)

type SetView struct {
	Set        models.Set
	Cards      []models.Card
	Source     Source
	Downloaded bool
}

// Stage is reported by CreateCollectionWithDownload as it progresses.
type Stage string

const (
	StageCreating    Stage = "creating"
	StageDownloading Stage = "downloading"
	StageComplete    Stage = "complete"
)

type BrowseService struct {
	catalog catalog.Client
	cache   *offline.Cache
	ledger  *ledger.Ledger
	logger  logging.Logger
}

func NewBrowseService(c catalog.Client, cache *offline.Cache, l *ledger.Ledger, logger logging.Logger) *BrowseService {
	return &BrowseService{catalog: c, cache: cache, ledger: l, logger: logger}
}

// LoadSet asks the catalog first and falls back to the offline snapshot
// when the catalog fails or does not know the set.
func (s *BrowseService) LoadSet(ctx context.Context, setID string) (*SetView, error) {
	set, cards, remoteErr := s.catalog.GetSet(ctx, setID)
	if remoteErr == nil {
		downloaded, err := s.cache.IsSetOffline(ctx, setID)
		if err != nil {
			return nil, err
		}
		return &SetView{Set: *set, Cards: cards, Source: SourceNetwork, Downloaded: downloaded}, nil
	}
	if errors.Is(remoteErr, context.Canceled) || errors.Is(remoteErr, context.DeadlineExceeded) {
		return nil, remoteErr
	}

	s.logger.Info(ctx, "catalog unavailable, trying offline copy", "set", setID, "error", remoteErr)
	snap, found, err := s.cache.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, remoteErr
	}
	return &SetView{Set: snap.Set, Cards: snap.Cards, Source: SourceOffline, Downloaded: true}, nil
}

// ToggleDownload removes a cached set or caches an uncached one. It reports
// whether the set is cached afterwards.
func (s *BrowseService) ToggleDownload(ctx context.Context, set models.Set, cards []models.Card) (bool, error) {
	cached, err := s.cache.IsSetOffline(ctx, set.ID)
	if err != nil {
		return false, err
	}
	if cached {
		if err := s.cache.RemoveSet(ctx, set.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.cache.SaveSet(ctx, set, cards); err != nil {
		return false, err
	}
	return true, nil
}

// CreateCollectionWithDownload creates a collection for setID and caches the
// set for offline use. A blank name takes the set's name. When caching fails
// the created collection is returned together with the error.
func (s *BrowseService) CreateCollectionWithDownload(ctx context.Context, name, setID string, progress func(Stage)) (*models.Collection, error) {
	if progress == nil {
		progress = func(Stage) {}
	}

	progress(StageCreating)
	set, cards, err := s.catalog.GetSet(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("load set %s: %w", setID, err)
	}
	if strings.TrimSpace(name) == "" {
		name = set.Name
	}
	c, err := s.ledger.Create(ctx, name, set.Name)
	if err != nil {
		return nil, err
	}

	progress(StageDownloading)
	if len(cards) > 0 {
		if err := s.cache.SaveSet(ctx, *set, cards); err != nil {
			return c, err
		}
	} else {
		s.logger.Info(ctx, "set has no cards, download skipped", "set", setID)
	}

	progress(StageComplete)
	return c, nil
}

// OfflineSets returns the cached snapshots in download order. Index entries
// whose snapshot is gone are skipped.
func (s *BrowseService) OfflineSets(ctx context.Context) ([]models.Snapshot, error) {
	ids, err := s.cache.ListOffline(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, found, err := s.cache.GetSet(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			s.logger.Warn(ctx, "offline index entry without snapshot", "set", id)
			continue
		}
		out = append(out, *snap)
	}
	return out, nil
}
