package sim

import (
	"path/filepath"
	"strings"
	"testing"
)

func loadTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := LoadDatabase(
		filepath.Join("testdata", "cards.yaml"),
		filepath.Join("testdata", "encounters.yaml"),
	)
	if err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
	return db
}

func TestLoadDatabase(t *testing.T) {
	db := loadTestDatabase(t)

	card, err := db.Card("pyg_blade")
	if err != nil {
		t.Fatal(err)
	}
	if card.Title != "Pyg Blade" || card.Kind != EntryItem {
		t.Errorf("card = %+v", card)
	}
	if card.Abilities["a0"].Trigger.Kind != TriggerCardFired {
		t.Errorf("trigger kind = %v", card.Abilities["a0"].Trigger.Kind)
	}
	if card.Abilities["a0"].Action.Kind != ActionDamage {
		t.Errorf("action kind = %v", card.Abilities["a0"].Action.Kind)
	}
	if got := card.Tiers[0].Attributes[AttrCooldownMax]; got != 2000 {
		t.Errorf("bronze CooldownMax = %v", got)
	}

	if _, err := db.CardByTitle("Sea Shell"); err != nil {
		t.Errorf("CardByTitle: %v", err)
	}
	if _, err := db.Card("nonexistent"); err == nil {
		t.Error("expected error for unknown card id")
	}
}

func TestMonsterLookup(t *testing.T) {
	db := loadTestDatabase(t)

	monster, err := db.Monster("Tide Caller")
	if err != nil {
		t.Fatal(err)
	}
	if monster.Health != 120 || len(monster.Items) != 2 {
		t.Errorf("monster = %+v", monster)
	}
	if monster.Items[1].Enchantment != "Fiery" {
		t.Errorf("enchantment ref = %q", monster.Items[1].Enchantment)
	}

	if _, err := db.Monster("Nobody"); err == nil {
		t.Error("expected error for unknown monster")
	}
}

func TestMonsterPlayerConstruction(t *testing.T) {
	db := loadTestDatabase(t)

	p, err := MonsterPlayer(db, "Pyg Brawler")
	if err != nil {
		t.Fatal(err)
	}
	if p.HealthMax != 150 || p.Health != 150 {
		t.Errorf("health = %v/%v", p.Health, p.HealthMax)
	}
	if len(p.Board) != 2 {
		t.Fatalf("board = %d entries, want item + skill", len(p.Board))
	}
	if p.Board[1].Kind != EntrySkill {
		t.Errorf("second entry kind = %v, want skill", p.Board[1].Kind)
	}
}

func TestNewInitialStateMonsterFight(t *testing.T) {
	db := loadTestDatabase(t)

	gs, err := NewInitialState(db, [2]SideConfig{
		{Monster: "Pyg Brawler"},
		{Monster: "Tide Caller"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !gs.Playing || gs.Tick != 0 || len(gs.Players) != 2 {
		t.Fatalf("initial state = %+v", gs)
	}

	// The whole fight runs off the loaded data.
	states, _ := runFight(t, gs, Unbounded)
	last := states[len(states)-1]
	if last.Playing {
		t.Error("monster fight never resolved")
	}
}

func TestParseRejectsUnknownEnumName(t *testing.T) {
	_, err := ParseCards([]byte(`
cards:
  bad:
    title: Bad
    kind: item
    abilities:
      a0:
        trigger: {kind: card_fired}
        action: {kind: explode, target: {kind: player, mode: opponent}}
    tiers:
      - name: bronze
        ability_ids: [a0]
`))
	if err == nil || !strings.Contains(err.Error(), "unknown action kind") {
		t.Fatalf("err = %v, want unknown action kind", err)
	}
}

func TestParseRejectsUnknownAttribute(t *testing.T) {
	_, err := ParseCards([]byte(`
cards:
  bad:
    title: Bad
    kind: item
    tiers:
      - name: bronze
        attributes: {Sparkle: 5}
`))
	if err == nil || !strings.Contains(err.Error(), "unknown card attribute") {
		t.Fatalf("err = %v, want unknown card attribute", err)
	}
}
