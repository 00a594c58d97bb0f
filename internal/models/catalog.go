// Package models defines the record shapes exchanged with the remote catalog
// and persisted by the offline catalog cache and the collection ledger.
//
// JSON tags are the on-disk format; changing them breaks records written by
// earlier builds.
package models

import "time"

// CardCount holds the number of cards in a set.
type CardCount struct {
	Total    int `json:"total"`
	Official int `json:"official"`
}

// Set is the catalog metadata of one expansion.
type Set struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CardCount   CardCount `json:"cardCount"`
	Logo        string    `json:"logo,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
}

// Card is the summary of a card as listed inside a set.
type Card struct {
	ID      string `json:"id"`
	LocalID string `json:"localId"`
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`
}

// SetRef points from a card back to its set.
type SetRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Ability struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Effect string `json:"effect"`
}

type Attack struct {
	Name   string   `json:"name"`
	Cost   []string `json:"cost,omitempty"`
	Damage string   `json:"damage,omitempty"`
	Effect string   `json:"effect,omitempty"`
}

// TypeModifier is a weakness or resistance entry.
type TypeModifier struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// DetailedCard is the full card record returned by the catalog.
type DetailedCard struct {
	Card
	HP             int            `json:"hp,omitempty"`
	Types          []string       `json:"types,omitempty"`
	EvolveFrom     string         `json:"evolveFrom,omitempty"`
	Description    string         `json:"description,omitempty"`
	Rarity         string         `json:"rarity,omitempty"`
	Illustrator    string         `json:"illustrator,omitempty"`
	Abilities      []Ability      `json:"abilities,omitempty"`
	Attacks        []Attack       `json:"attacks,omitempty"`
	Weaknesses     []TypeModifier `json:"weaknesses,omitempty"`
	Resistances    []TypeModifier `json:"resistances,omitempty"`
	Retreat        int            `json:"retreat,omitempty"`
	Set            SetRef         `json:"set"`
	Number         string         `json:"number"`
	RegulationMark string         `json:"regulationMark,omitempty"`
}

// Snapshot is the offline copy of a set and its card list.
type Snapshot struct {
	Set          Set       `json:"set"`
	Cards        []Card    `json:"cards"`
	DownloadedAt time.Time `json:"downloadedAt"`
}
