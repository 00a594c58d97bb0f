package models

import (
	"slices"
	"time"
)

// Variant tags describing physical print differences of an owned copy.
// Tags are free-form strings; these are the ones the app offers.
const (
	VariantNormal     = "normal"
	VariantFoil       = "foil"
	VariantReverse    = "reverse"
	VariantPokeball   = "pokeball"
	VariantMasterball = "masterball"
)

// KnownVariants lists the offered variant tags in display order.
func KnownVariants() []string {
	return []string{VariantNormal, VariantFoil, VariantReverse, VariantPokeball, VariantMasterball}
}

// CoverStyle holds the zoom and pan of a custom cover image.
type CoverStyle struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Collection is a user-defined grouping of card ids.
//
// Cards has set semantics (no duplicates, insertion order kept for display).
// Every key of CardVariants is a member of Cards.
type Collection struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	Icon         string              `json:"icon,omitempty"`
	Color        string              `json:"color,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	Cards        []string            `json:"cards"`
	CardVariants map[string][]string `json:"cardVariants,omitempty"`
	CoverImage   string              `json:"coverImage,omitempty"`
	CoverStyle   *CoverStyle         `json:"coverStyle,omitempty"`
}

// HasCard reports whether cardID is a member of the collection.
func (c *Collection) HasCard(cardID string) bool {
	return slices.Contains(c.Cards, cardID)
}

// Clone returns a deep copy so callers can mutate it freely.
func (c Collection) Clone() Collection {
	out := c
	out.Cards = slices.Clone(c.Cards)
	if c.CardVariants != nil {
		out.CardVariants = make(map[string][]string, len(c.CardVariants))
		for k, v := range c.CardVariants {
			out.CardVariants[k] = slices.Clone(v)
		}
	}
	if c.CoverStyle != nil {
		style := *c.CoverStyle
		out.CoverStyle = &style
	}
	return out
}
