package tcgdex

import (
	"encoding/json"
	"strconv"

	"github.com/dmitrijs2005/cardkeeper/internal/models"
)

type cardCountDTO struct {
	Total    int `json:"total"`
	Official int `json:"official"`
}

type cardBriefDTO struct {
	ID      string `json:"id"`
	LocalID string `json:"localId"`
	Name    string `json:"name"`
	Image   string `json:"image"`
}

type setDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Logo        string         `json:"logo"`
	Symbol      string         `json:"symbol"`
	ReleaseDate string         `json:"releaseDate"`
	CardCount   cardCountDTO   `json:"cardCount"`
	Cards       []cardBriefDTO `json:"cards"`
}

// flexString accepts both JSON strings and numbers; attack damage comes as
// either ("30+" or 30).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts numbers and numeric strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type attackDTO struct {
	Name   string     `json:"name"`
	Cost   []string   `json:"cost"`
	Damage flexString `json:"damage"`
	Effect string     `json:"effect"`
}

type modifierDTO struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type cardDTO struct {
	cardBriefDTO
	HP             flexInt          `json:"hp"`
	Types          []string         `json:"types"`
	EvolveFrom     string           `json:"evolveFrom"`
	Description    string           `json:"description"`
	Rarity         string           `json:"rarity"`
	Illustrator    string           `json:"illustrator"`
	Abilities      []models.Ability `json:"abilities"`
	Attacks        []attackDTO      `json:"attacks"`
	Weaknesses     []modifierDTO    `json:"weaknesses"`
	Resistances    []modifierDTO    `json:"resistances"`
	Retreat        int              `json:"retreat"`
	RegulationMark string           `json:"regulationMark"`
	Set            struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"set"`
}

func (c cardBriefDTO) toModel() models.Card {
	return models.Card{ID: c.ID, LocalID: c.LocalID, Name: c.Name, Image: c.Image}
}

// logoURL turns the extensionless asset path served by the API into a PNG
// reference.
func logoURL(logo string) string {
	if logo == "" {
		return ""
	}
	return logo + ".png"
}

func (s *setDTO) toModel() (*models.Set, []models.Card) {
	set := &models.Set{
		ID:          s.ID,
		Name:        s.Name,
		CardCount:   models.CardCount{Total: s.CardCount.Total, Official: s.CardCount.Official},
		Logo:        logoURL(s.Logo),
		Symbol:      s.Symbol,
		ReleaseDate: s.ReleaseDate,
	}
	cards := make([]models.Card, 0, len(s.Cards))
	for _, c := range s.Cards {
		cards = append(cards, c.toModel())
	}
	return set, cards
}

func modifiers(in []modifierDTO) []models.TypeModifier {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.TypeModifier, len(in))
	for i, m := range in {
		out[i] = models.TypeModifier{Type: m.Type, Value: m.Value}
	}
	return out
}

func (c *cardDTO) toModel() *models.DetailedCard {
	var attacks []models.Attack
	for _, a := range c.Attacks {
		attacks = append(attacks, models.Attack{
			Name:   a.Name,
			Cost:   a.Cost,
			Damage: string(a.Damage),
			Effect: a.Effect,
		})
	}
	return &models.DetailedCard{
		Card:           c.cardBriefDTO.toModel(),
		HP:             int(c.HP),
		Types:          c.Types,
		EvolveFrom:     c.EvolveFrom,
		Description:    c.Description,
		Rarity:         c.Rarity,
		Illustrator:    c.Illustrator,
		Abilities:      c.Abilities,
		Attacks:        attacks,
		Weaknesses:     modifiers(c.Weaknesses),
		Resistances:    modifiers(c.Resistances),
		Retreat:        c.Retreat,
		Set:            models.SetRef{ID: c.Set.ID, Name: c.Set.Name},
		Number:         c.LocalID,
		RegulationMark: c.RegulationMark,
	}
}
