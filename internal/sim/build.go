package sim

import (
	"fmt"
	"log"
	"slices"
	"sort"
)

// defaultHealthMax applies to custom players that do not declare one.
const defaultHealthMax = 3500

// foldTiers merges tier deltas in declared order up to (and including)
// tierIndex. Attribute patches accumulate; the id lists replace the
// prior tier's lists whenever a tier declares them.
func foldTiers(card *CardDef, tierIndex int) (AttrPatch, []string, []string, []int) {
	attrs := AttrPatch{}
	var abilityIDs, auraIDs []string
	var tooltipIDs []int
	for i := 0; i <= tierIndex; i++ {
		tier := &card.Tiers[i]
		for a, v := range tier.Attributes {
			attrs[a] = v
		}
		if tier.AbilityIDs != nil {
			abilityIDs = tier.AbilityIDs
		}
		if tier.AuraIDs != nil {
			auraIDs = tier.AuraIDs
		}
		if tier.TooltipIDs != nil {
			tooltipIDs = tier.TooltipIDs
		}
	}
	return attrs, abilityIDs, auraIDs, tooltipIDs
}

func tierIndex(card *CardDef, tier string) int {
	return slices.IndexFunc(card.Tiers, func(t TierDef) bool { return t.Name == tier })
}

// BuildEntry constructs a live board entry for a card at the given tier
// with an optional enchantment. A missing tier falls back to the card's
// lowest declared tier with a warning; only a card with no tiers at all
// is an error.
func BuildEntry(card *CardDef, tier, enchantment string) (*BoardEntry, error) {
	idx := tierIndex(card, tier)
	if idx < 0 {
		if len(card.Tiers) == 0 {
			return nil, fmt.Errorf("card %q has no tiers", card.Title)
		}
		log.Printf("Warning: tier %q not found for card %q, using %q", tier, card.Title, card.Tiers[0].Name)
		tier = card.Tiers[0].Name
		idx = 0
	}

	attrs, abilityIDs, auraIDs, tooltipIDs := foldTiers(card, idx)

	entry := &BoardEntry{
		Def:         card,
		Kind:        card.Kind,
		Tier:        tier,
		Enchantment: enchantment,
		Title:       card.Title,
		Abilities:   card.Abilities,
		Auras:       card.Auras,
		AbilityIDs:  abilityIDs,
		AuraIDs:     auraIDs,
		TooltipIDs:  tooltipIDs,
		Tooltips:    card.Tooltips,
		Tags:        card.Tags,
		HiddenTags:  card.HiddenTags,
		attrs:       attrs,
	}

	if enchantment != "" {
		if err := applyEnchantment(entry, card, enchantment); err != nil {
			return nil, err
		}
	}

	// Dynamic combat state starts zeroed regardless of what the tiers
	// declare; crit stats are only reachable through runtime modifiers.
	entry.attrs[AttrProgress] = 0
	entry.attrs[AttrSlow] = 0
	entry.attrs[AttrFreeze] = 0
	entry.attrs[AttrHaste] = 0
	entry.attrs[AttrCritChance] = 0
	entry.attrs[AttrDamageCrit] = 0

	if ammoMax, ok := entry.attrs[AttrAmmoMax]; ok {
		entry.attrs[AttrAmmo] = ammoMax
	}

	return entry, nil
}

// applyEnchantment overlays an enchantment onto a freshly folded entry.
// Extra abilities and auras are appended in sorted id order; extra
// tooltips are appended and their ids remapped to post-append indices.
func applyEnchantment(entry *BoardEntry, card *CardDef, enchantment string) error {
	if len(card.Enchantments) == 0 {
		return fmt.Errorf("no enchantments available for card %q", card.Title)
	}
	enchant, ok := card.Enchantments[enchantment]
	if !ok {
		return fmt.Errorf("enchantment %q not found for card %q", enchantment, card.Title)
	}

	for a, v := range enchant.Attributes {
		entry.attrs[a] = v
	}

	if len(enchant.Abilities) > 0 {
		merged := make(map[string]*Ability, len(entry.Abilities)+len(enchant.Abilities))
		for id, ab := range entry.Abilities {
			merged[id] = ab
		}
		ids := make([]string, 0, len(enchant.Abilities))
		for id, ab := range enchant.Abilities {
			merged[id] = ab
			ids = append(ids, id)
		}
		sort.Strings(ids)
		entry.Abilities = merged
		entry.AbilityIDs = append(append([]string(nil), entry.AbilityIDs...), ids...)
	}

	if len(enchant.Auras) > 0 {
		merged := make(map[string]*Ability, len(entry.Auras)+len(enchant.Auras))
		for id, au := range entry.Auras {
			merged[id] = au
		}
		ids := make([]string, 0, len(enchant.Auras))
		for id, au := range enchant.Auras {
			merged[id] = au
			ids = append(ids, id)
		}
		sort.Strings(ids)
		entry.Auras = merged
		entry.AuraIDs = append(append([]string(nil), entry.AuraIDs...), ids...)
	}

	entry.Tags = append(append([]string(nil), entry.Tags...), enchant.Tags...)
	entry.HiddenTags = append(append([]string(nil), entry.HiddenTags...), enchant.HiddenTags...)

	combined := append(append([]string(nil), entry.Tooltips...), enchant.Tooltips...)
	tooltipIDs := append([]int(nil), entry.TooltipIDs...)
	for _, text := range enchant.Tooltips {
		tooltipIDs = append(tooltipIDs, slices.Index(combined, text))
	}
	entry.Tooltips = combined
	entry.TooltipIDs = tooltipIDs

	entry.Title = enchantment + " " + entry.Title
	return nil
}

// BuildSkillEntry constructs a skill for a custom player. Unlike
// BuildEntry the tier lookup is strict, and skills carry no zeroed
// cooldown or crit state.
func BuildSkillEntry(card *CardDef, tier string) (*BoardEntry, error) {
	idx := tierIndex(card, tier)
	if idx < 0 {
		first := "none"
		if len(card.Tiers) > 0 {
			first = card.Tiers[0].Name
		}
		return nil, fmt.Errorf("skill %q doesn't have tier %q, the first one is %s", card.Title, tier, first)
	}

	attrs, abilityIDs, auraIDs, tooltipIDs := foldTiers(card, idx)

	return &BoardEntry{
		Def:        card,
		Kind:       card.Kind,
		Tier:       tier,
		Title:      card.Title,
		Abilities:  card.Abilities,
		Auras:      card.Auras,
		AbilityIDs: abilityIDs,
		AuraIDs:    auraIDs,
		TooltipIDs: tooltipIDs,
		Tooltips:   card.Tooltips,
		Tags:       card.Tags,
		HiddenTags: card.HiddenTags,
		attrs:      attrs,
	}, nil
}

// NewPlayer assembles a player from built entries. Items precede skills
// on the board so hand targeting sees a contiguous item prefix.
func NewPlayer(healthMax, healthRegen float64, items, skills []*BoardEntry) *Player {
	board := make([]*BoardEntry, 0, len(items)+len(skills))
	board = append(board, items...)
	board = append(board, skills...)
	return &Player{
		HealthMax:   healthMax,
		Health:      healthMax,
		HealthRegen: healthRegen,
		Board:       board,
	}
}

// resolveCard accepts either a card id or a display title.
func resolveCard(db *Database, nameOrID string) (*CardDef, error) {
	if card, ok := db.Cards[nameOrID]; ok {
		return card, nil
	}
	return db.CardByTitle(nameOrID)
}

// MonsterPlayer builds the opposing player for a named encounter preset.
// Monster skills go through the lenient card construction path, same as
// items.
func MonsterPlayer(db *Database, name string) (*Player, error) {
	monster, err := db.Monster(name)
	if err != nil {
		return nil, err
	}
	items := make([]*BoardEntry, 0, len(monster.Items))
	for _, ref := range monster.Items {
		card, err := db.Card(ref.Card)
		if err != nil {
			return nil, fmt.Errorf("monster %q: %w", name, err)
		}
		entry, err := BuildEntry(card, ref.Tier, ref.Enchantment)
		if err != nil {
			return nil, fmt.Errorf("monster %q: %w", name, err)
		}
		items = append(items, entry)
	}
	skills := make([]*BoardEntry, 0, len(monster.Skills))
	for _, ref := range monster.Skills {
		card, err := db.Card(ref.Card)
		if err != nil {
			return nil, fmt.Errorf("monster %q: %w", name, err)
		}
		entry, err := BuildEntry(card, ref.Tier, "")
		if err != nil {
			return nil, fmt.Errorf("monster %q: %w", name, err)
		}
		skills = append(skills, entry)
	}
	return NewPlayer(monster.Health, 0, items, skills), nil
}

// SideConfig describes one side of a fight: either a named monster
// preset, or a custom player with explicit stats and card lists.
type SideConfig struct {
	Monster     string     `yaml:"monster" json:"monster"`
	Health      float64    `yaml:"health" json:"health"`
	HealthRegen float64    `yaml:"health_regen" json:"health_regen"`
	Cards       []EntryRef `yaml:"cards" json:"cards"`
	Skills      []EntryRef `yaml:"skills" json:"skills"`
}

// CustomPlayer builds a player from an explicit side configuration.
func CustomPlayer(db *Database, cfg SideConfig) (*Player, error) {
	healthMax := cfg.Health
	if healthMax == 0 {
		healthMax = defaultHealthMax
	}
	items := make([]*BoardEntry, 0, len(cfg.Cards))
	for _, ref := range cfg.Cards {
		card, err := resolveCard(db, ref.Card)
		if err != nil {
			return nil, err
		}
		entry, err := BuildEntry(card, ref.Tier, ref.Enchantment)
		if err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	skills := make([]*BoardEntry, 0, len(cfg.Skills))
	for _, ref := range cfg.Skills {
		card, err := resolveCard(db, ref.Card)
		if err != nil {
			return nil, err
		}
		entry, err := BuildSkillEntry(card, ref.Tier)
		if err != nil {
			return nil, err
		}
		skills = append(skills, entry)
	}
	return NewPlayer(healthMax, cfg.HealthRegen, items, skills), nil
}

// NewInitialState constructs the tick-zero state for two sides, seeded
// with the fixed deterministic RNG.
func NewInitialState(db *Database, sides [2]SideConfig) (*GameState, error) {
	players := make([]*Player, 2)
	for i, cfg := range sides {
		var (
			p   *Player
			err error
		)
		if cfg.Monster != "" {
			p, err = MonsterPlayer(db, cfg.Monster)
		} else {
			p, err = CustomPlayer(db, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("side %d: %w", i+1, err)
		}
		players[i] = p
	}
	return &GameState{
		Tick:    0,
		Playing: true,
		Players: players,
		Rand:    NewDefaultRNG(),
	}, nil
}
