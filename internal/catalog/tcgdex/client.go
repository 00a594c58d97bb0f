// Package tcgdex talks to the TCGdex REST API (https://api.tcgdex.net/v2).
//
// Sets and cards are requested in the configured locale first. When that
// locale does not know a card, or knows a set but has no card list for it,
// the fallback locale fills the gap.
package tcgdex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/cardkeeper/internal/catalog"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/models"
)

const DefaultBaseURL = "https://api.tcgdex.net/v2"

type Config struct {
	BaseURL        string
	Locale         string
	FallbackLocale string
	Timeout        time.Duration
	Concurrency    int
}

type Client struct {
	baseURL     string
	locale      string
	fallback    string
	concurrency int
	http        *http.Client
	logger      logging.Logger
}

var _ catalog.Client = (*Client)(nil)

// New validates cfg and builds a client. httpClient may be nil.
func New(cfg Config, logger logging.Logger, httpClient *http.Client) (*Client, error) {
	locale, err := normaliseLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	var fallback string
	if cfg.FallbackLocale != "" {
		if fallback, err = normaliseLocale(cfg.FallbackLocale); err != nil {
			return nil, err
		}
	}
	if fallback == locale {
		fallback = ""
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", cfg.BaseURL, common.ErrValidation)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Client{
		baseURL:     base,
		locale:      locale,
		fallback:    fallback,
		concurrency: concurrency,
		http:        httpClient,
		logger:      logger,
	}, nil
}

// normaliseLocale turns a BCP 47 tag into the lower-case path segment the
// API uses ("pt", "pt-br", "zh-tw").
func normaliseLocale(s string) (string, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid locale %q: %w", s, common.ErrValidation)
	}
	return strings.ToLower(tag.String()), nil
}

func (c *Client) GetSet(ctx context.Context, setID string) (*models.Set, []models.Card, error) {
	var primary setDTO
	found, err := c.getJSON(ctx, c.locale, "sets", setID, &primary)
	if err != nil {
		return nil, nil, err
	}

	needCards := !found || (len(primary.Cards) == 0 && primary.CardCount.Official > 0)
	if needCards && c.fallback != "" {
		var alt setDTO
		altFound, err := c.getJSON(ctx, c.fallback, "sets", setID, &alt)
		switch {
		case err != nil:
			c.logger.Warn(ctx, "fallback set fetch failed", "set", setID, "locale", c.fallback, "error", err)
		case altFound && len(alt.Cards) > 0:
			c.logger.Debug(ctx, "using fallback cards", "set", setID, "locale", c.fallback)
			if !found {
				primary = alt
				found = true
			} else {
				if primary.Logo == "" {
					primary.Logo = alt.Logo
				}
				primary.Cards = alt.Cards
			}
		}
	}

	if !found {
		return nil, nil, fmt.Errorf("set %s: %w", setID, common.ErrNotFound)
	}
	set, cards := primary.toModel()
	return set, cards, nil
}

func (c *Client) GetCard(ctx context.Context, cardID string) (*models.DetailedCard, error) {
	var card cardDTO
	found, err := c.getJSON(ctx, c.locale, "cards", cardID, &card)
	if err != nil {
		return nil, err
	}
	if !found && c.fallback != "" {
		found, err = c.getJSON(ctx, c.fallback, "cards", cardID, &card)
		if err != nil {
			c.logger.Warn(ctx, "fallback card fetch failed", "card", cardID, "locale", c.fallback, "error", err)
			found = false
		}
	}
	if !found {
		return nil, fmt.Errorf("card %s: %w", cardID, common.ErrNotFound)
	}
	return card.toModel(), nil
}

func (c *Client) GetCardsByIDs(ctx context.Context, ids []string) ([]models.Card, error) {
	if len(ids) == 0 {
		return []models.Card{}, nil
	}

	results := make([]*models.Card, len(ids))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			card, err := c.GetCard(ctx, id)
			if err != nil {
				c.logger.Debug(ctx, "card dropped from batch", "card", id, "error", err)
				return nil
			}
			results[i] = &card.Card
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(ids))
	for _, card := range results {
		if card != nil {
			cards = append(cards, *card)
		}
	}
	return cards, nil
}

// getJSON fetches {base}/{locale}/{kind}/{id} into v. A 404 reports
// found=false with a nil error.
func (c *Client) getJSON(ctx context.Context, locale, kind, id string, v any) (bool, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, locale, kind, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("catalog request %s: %w: %w", endpoint, common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("catalog %s returned %s: %w", endpoint, resp.Status, common.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("decode catalog response %s: %w: %w", endpoint, common.ErrUnavailable, err)
	}
	return true, nil
}
