package sim

import (
	"testing"

	gamelog "github.com/peterkuimelis/cardstorm/internal/log"
)

// --- Test card helpers ---

// oneTierItem builds a single-tier item card with the given attributes
// and abilities.
func oneTierItem(title string, attrs AttrPatch, abilities map[string]*Ability, abilityIDs ...string) *CardDef {
	return &CardDef{
		ID:        title,
		Title:     title,
		Kind:      EntryItem,
		Abilities: abilities,
		Tiers: []TierDef{{
			Name:       "bronze",
			Attributes: attrs,
			AbilityIDs: abilityIDs,
		}},
	}
}

// fireAbility pairs an on-fired trigger with the given action.
func fireAbility(action Action) map[string]*Ability {
	return map[string]*Ability{
		"a0": {
			Trigger: Trigger{Kind: TriggerCardFired},
			Action:  action,
		},
	}
}

func opponentPlayers() *Target {
	return &Target{Kind: TargetPlayer, Mode: ModeOpponent}
}

func selfPlayers() *Target {
	return &Target{Kind: TargetPlayer, Mode: ModeSelf}
}

// weapon is an item that damages the opponent every time it fires.
func weapon(t *testing.T, title string, cooldown, damage float64, extra AttrPatch) *BoardEntry {
	t.Helper()
	attrs := AttrPatch{AttrCooldownMax: cooldown, AttrDamageAmount: damage}
	for a, v := range extra {
		attrs[a] = v
	}
	card := oneTierItem(title, attrs, fireAbility(Action{
		Kind:   ActionDamage,
		Target: opponentPlayers(),
	}), "a0")
	return mustBuild(t, card, "bronze", "")
}

func mustBuild(t *testing.T, card *CardDef, tier, enchantment string) *BoardEntry {
	t.Helper()
	entry, err := BuildEntry(card, tier, enchantment)
	if err != nil {
		t.Fatalf("BuildEntry(%s): %v", card.Title, err)
	}
	return entry
}

// --- State helpers ---

func barePlayer(health float64, entries ...*BoardEntry) *Player {
	return NewPlayer(health, 0, entries, nil)
}

func newFight(p1, p2 *Player) *GameState {
	return &GameState{
		Playing: true,
		Players: []*Player{p1, p2},
		Rand:    NewDefaultRNG(),
	}
}

// runFight drives a fight and returns the history plus the event log.
func runFight(t *testing.T, gs *GameState, maxTicks int) ([]*GameState, *gamelog.MemoryLogger) {
	t.Helper()
	logger := gamelog.NewMemoryLogger()
	runner := &Runner{Logger: logger}
	states, err := runner.Run(gs, maxTicks)
	if err != nil {
		t.Logf("Event log:\n%s", gamelog.FormatAll(logger.Events()))
		t.Fatalf("Run error: %v", err)
	}
	return states, logger
}
