package sim

import "maps"

// TickRate is the fixed simulation step in milliseconds.
const TickRate = 100

// maxCascadeDepth bounds re-entrant attribute-change dispatch. Well-formed
// card data never comes close; a cycle in an ability graph does.
const maxCascadeDepth = 64

// CardRef addresses one board entry by player and board index. An index
// of -1 means the trigger came from a player-level event, not a card.
type CardRef struct {
	Player int
	Index  int
}

// NoCard is the player-level trigger source.
func NoCard(player int) CardRef {
	return CardRef{Player: player, Index: -1}
}

// PendingCast is a scheduled extra cast from a multicast fire.
type PendingCast struct {
	Tick   int
	Player int
	Index  int
}

// BoardEntry is a live item or skill on a player's board. The static
// definition stays on Def; everything else is the folded, mutable combat
// state. Entries are never removed from the board, only disabled, so
// positional targeting stays index stable.
type BoardEntry struct {
	Def         *CardDef
	Kind        EntryKind
	Tier        string
	Enchantment string
	Title       string

	Abilities  map[string]*Ability
	Auras      map[string]*Ability
	AbilityIDs []string
	AuraIDs    []string
	TooltipIDs []int
	Tooltips   []string
	Tags       []string
	HiddenTags []string

	Disabled bool

	attrs map[CardAttr]float64
}

// Attr returns an attribute and whether the entry carries it at all.
func (e *BoardEntry) Attr(a CardAttr) (float64, bool) {
	v, ok := e.attrs[a]
	return v, ok
}

// AttrOr0 returns an attribute, treating absence as zero.
func (e *BoardEntry) AttrOr0(a CardAttr) float64 {
	return e.attrs[a]
}

// setAttr writes an attribute without any cascade. Cascading writes go
// through GameState.setCardAttr.
func (e *BoardEntry) setAttr(a CardAttr, v float64) {
	e.attrs[a] = v
}

// hasCooldown reports whether the entry participates in cooldown ticking.
func (e *BoardEntry) hasCooldown() bool {
	_, ok := e.attrs[AttrCooldownMax]
	return ok
}

func (e *BoardEntry) clone() *BoardEntry {
	next := *e
	next.attrs = maps.Clone(e.attrs)
	return &next
}

// Player is one side of the fight. Board order is semantically
// significant and never reordered by the engine.
type Player struct {
	HealthMax   float64
	Health      float64
	HealthRegen float64
	Shield      float64
	Burn        float64
	Poison      float64
	Gold        float64
	Income      float64
	Board       []*BoardEntry
}

// Attr reads a player attribute by enum.
func (p *Player) Attr(a PlayerAttr) float64 {
	switch a {
	case PlayerHealthMax:
		return p.HealthMax
	case PlayerHealth:
		return p.Health
	case PlayerHealthRegen:
		return p.HealthRegen
	case PlayerShield:
		return p.Shield
	case PlayerBurn:
		return p.Burn
	case PlayerPoison:
		return p.Poison
	case PlayerGold:
		return p.Gold
	case PlayerIncome:
		return p.Income
	default:
		return 0
	}
}

// setAttr writes a player attribute without any cascade.
func (p *Player) setAttr(a PlayerAttr, v float64) {
	switch a {
	case PlayerHealthMax:
		p.HealthMax = v
	case PlayerHealth:
		p.Health = v
	case PlayerHealthRegen:
		p.HealthRegen = v
	case PlayerShield:
		p.Shield = v
	case PlayerBurn:
		p.Burn = v
	case PlayerPoison:
		p.Poison = v
	case PlayerGold:
		p.Gold = v
	case PlayerIncome:
		p.Income = v
	}
}

// itemCount is the board prefix length used for hand targeting: one past
// the last item-kind entry, so trailing skills are excluded.
func (p *Player) itemCount() int {
	for i := len(p.Board) - 1; i >= 0; i-- {
		if p.Board[i].Kind == EntryItem {
			return i + 1
		}
	}
	return 0
}

func (p *Player) clone() *Player {
	next := *p
	next.Board = make([]*BoardEntry, len(p.Board))
	for i, e := range p.Board {
		next.Board[i] = e.clone()
	}
	return &next
}

// GameState is one snapshot of the fight. The driver produces a fresh
// state each tick; previously returned states are never mutated. The RNG
// is shared across the whole history: its draw sequence, not its
// position in any one state, is the determinism contract.
type GameState struct {
	Tick      int
	Playing   bool
	Players   []*Player
	Multicast []PendingCast
	Rand      *RNG

	cascadeDepth int
}

func (gs *GameState) entry(ref CardRef) *BoardEntry {
	return gs.Players[ref.Player].Board[ref.Index]
}

func (gs *GameState) opponent(player int) int {
	return (player + 1) % 2
}

// Clone copies the state deeply enough that mutating the copy never
// touches the original: players, boards and attribute sets are fresh;
// card definitions and ability descriptors stay shared.
func (gs *GameState) Clone() *GameState {
	next := &GameState{
		Tick:      gs.Tick,
		Playing:   gs.Playing,
		Players:   make([]*Player, len(gs.Players)),
		Multicast: append([]PendingCast(nil), gs.Multicast...),
		Rand:      gs.Rand,
	}
	for i, p := range gs.Players {
		next.Players[i] = p.clone()
	}
	return next
}

// forEachEntry visits every non-disabled board entry in player order,
// then board order. Iteration order is part of the determinism contract:
// RNG draws happen in visit order.
func (gs *GameState) forEachEntry(fn func(player, index int, e *BoardEntry) error) error {
	for i, p := range gs.Players {
		for j, e := range p.Board {
			if e.Disabled {
				continue
			}
			if err := fn(i, j, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// forEachAbility visits an entry's abilities in declaration order.
func forEachAbility(e *BoardEntry, fn func(id string, ab *Ability) error) error {
	for _, id := range e.AbilityIDs {
		ab := e.Abilities[id]
		if ab == nil {
			continue
		}
		if err := fn(id, ab); err != nil {
			return err
		}
	}
	return nil
}
