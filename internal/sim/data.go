package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CardDef is the static definition of a card, shared by every board entry
// built from it. The engine only reads card definitions.
type CardDef struct {
	ID           string                 `yaml:"-"`
	Title        string                 `yaml:"title"`
	Kind         EntryKind              `yaml:"kind"`
	Size         Size                   `yaml:"size"`
	Tags         []string               `yaml:"tags"`
	HiddenTags   []string               `yaml:"hidden_tags"`
	Abilities    map[string]*Ability    `yaml:"abilities"`
	Auras        map[string]*Ability    `yaml:"auras"`
	Tooltips     []string               `yaml:"tooltips"`
	Tiers        []TierDef              `yaml:"tiers"`
	Enchantments map[string]*EnchantDef `yaml:"enchantments"`
}

// TierDef is one tier's delta. Attribute patches merge cumulatively
// across tiers; the id lists, when present, replace the prior tier's
// lists outright.
type TierDef struct {
	Name       string    `yaml:"name"`
	Attributes AttrPatch `yaml:"attributes"`
	AbilityIDs []string  `yaml:"ability_ids"`
	AuraIDs    []string  `yaml:"aura_ids"`
	TooltipIDs []int     `yaml:"tooltip_ids"`
}

// EnchantDef is an enchantment overlay applied on top of a folded tier.
type EnchantDef struct {
	Attributes AttrPatch           `yaml:"attributes"`
	Abilities  map[string]*Ability `yaml:"abilities"`
	Auras      map[string]*Ability `yaml:"auras"`
	Tags       []string            `yaml:"tags"`
	HiddenTags []string            `yaml:"hidden_tags"`
	Tooltips   []string            `yaml:"tooltips"`
}

// EntryRef names a card at a tier, with an optional enchantment.
type EntryRef struct {
	Card        string `yaml:"card"`
	Tier        string `yaml:"tier"`
	Enchantment string `yaml:"enchantment"`
}

// MonsterDef is a preset opponent: a health pool plus item and skill refs.
type MonsterDef struct {
	Name   string     `yaml:"name"`
	Health float64    `yaml:"health"`
	Items  []EntryRef `yaml:"items"`
	Skills []EntryRef `yaml:"skills"`
}

// EncounterDay groups the monsters available on one day.
type EncounterDay struct {
	Day    int          `yaml:"day"`
	Groups []MonsterDef `yaml:"groups"`
}

// Database is the read-only card and encounter store the simulator runs
// against.
type Database struct {
	Cards map[string]*CardDef `yaml:"cards"`
	Days  []EncounterDay      `yaml:"days"`
}

// ParseCards decodes a card database document.
func ParseCards(data []byte) (map[string]*CardDef, error) {
	var doc struct {
		Cards map[string]*CardDef `yaml:"cards"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing cards: %w", err)
	}
	for id, card := range doc.Cards {
		card.ID = id
	}
	return doc.Cards, nil
}

// ParseEncounters decodes an encounter database document.
func ParseEncounters(data []byte) ([]EncounterDay, error) {
	var doc struct {
		Days []EncounterDay `yaml:"days"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing encounters: %w", err)
	}
	return doc.Days, nil
}

// LoadDatabase reads the card and encounter YAML files.
func LoadDatabase(cardsPath, encountersPath string) (*Database, error) {
	cardsData, err := os.ReadFile(cardsPath)
	if err != nil {
		return nil, fmt.Errorf("reading cards: %w", err)
	}
	cards, err := ParseCards(cardsData)
	if err != nil {
		return nil, err
	}
	db := &Database{Cards: cards}

	if encountersPath != "" {
		encData, err := os.ReadFile(encountersPath)
		if err != nil {
			return nil, fmt.Errorf("reading encounters: %w", err)
		}
		db.Days, err = ParseEncounters(encData)
		if err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Card looks up a card definition by id.
func (db *Database) Card(id string) (*CardDef, error) {
	card, ok := db.Cards[id]
	if !ok {
		return nil, fmt.Errorf("card %q not found", id)
	}
	return card, nil
}

// CardByTitle looks up a card definition by display title.
func (db *Database) CardByTitle(title string) (*CardDef, error) {
	for _, card := range db.Cards {
		if card.Title == title {
			return card, nil
		}
	}
	return nil, fmt.Errorf("card %q not found", title)
}

// Monster looks up a monster preset by name across all encounter days.
func (db *Database) Monster(name string) (*MonsterDef, error) {
	for i := range db.Days {
		for j := range db.Days[i].Groups {
			if db.Days[i].Groups[j].Name == name {
				return &db.Days[i].Groups[j], nil
			}
		}
	}
	return nil, fmt.Errorf("monster %q not found", name)
}
