package sim

import (
	"reflect"
	"testing"
)

// board of n plain items for positional tests.
func itemRow(t *testing.T, n int) []*BoardEntry {
	t.Helper()
	entries := make([]*BoardEntry, n)
	for i := range entries {
		entries[i] = weapon(t, "Item", 1000, 1, nil)
	}
	return entries
}

func refs(player int, indices ...int) []CardRef {
	out := make([]CardRef, len(indices))
	for i, idx := range indices {
		out[i] = CardRef{player, idx}
	}
	return out
}

func TestItemCountExcludesTrailingSkills(t *testing.T) {
	skillCard := twoTierCard()
	skillCard.Kind = EntrySkill
	skill, err := BuildSkillEntry(skillCard, "bronze")
	if err != nil {
		t.Fatal(err)
	}

	p := NewPlayer(100, 0, itemRow(t, 2), []*BoardEntry{skill})
	if got := p.itemCount(); got != 2 {
		t.Errorf("itemCount = %d, want 2 (trailing skill excluded)", got)
	}

	// A skill between items still counts toward the prefix.
	p2 := &Player{Board: []*BoardEntry{itemRow(t, 1)[0], skill, itemRow(t, 1)[0]}}
	if got := p2.itemCount(); got != 3 {
		t.Errorf("itemCount = %d, want 3 (item past the skill)", got)
	}
}

func TestAllRightCards(t *testing.T) {
	gs := newFight(barePlayer(100, itemRow(t, 4)...), barePlayer(100))
	origin := CardRef{0, 1}

	got, err := gs.targetCards(&Target{Kind: TargetPositional, Mode: ModeAllRight}, origin, origin)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 2, 3); !reflect.DeepEqual(got, want) {
		t.Errorf("all right = %v, want %v", got, want)
	}

	got, err = gs.targetCards(&Target{Kind: TargetPositional, Mode: ModeAllRight, IncludeOrigin: true}, origin, origin)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 1, 2, 3); !reflect.DeepEqual(got, want) {
		t.Errorf("all right inclusive = %v, want %v", got, want)
	}
}

func TestAllLeftCardsStopsShort(t *testing.T) {
	gs := newFight(barePlayer(100, itemRow(t, 4)...), barePlayer(100))
	origin := CardRef{0, 3}

	// The left run always stops one card early: without the include
	// flag the immediate left neighbor is skipped, with it the origin
	// itself still is.
	got, err := gs.targetCards(&Target{Kind: TargetPositional, Mode: ModeAllLeft}, origin, origin)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 0, 1); !reflect.DeepEqual(got, want) {
		t.Errorf("all left = %v, want %v", got, want)
	}

	got, err = gs.targetCards(&Target{Kind: TargetPositional, Mode: ModeAllLeft, IncludeOrigin: true}, origin, origin)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 0, 1, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("all left inclusive = %v, want %v", got, want)
	}
}

func TestNeighborTarget(t *testing.T) {
	gs := newFight(barePlayer(100, itemRow(t, 3)...), barePlayer(100))
	origin := CardRef{0, 1}

	got, err := gs.targetCards(&Target{Kind: TargetPositional, Mode: ModeNeighbor}, origin, origin)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 0, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("neighbors = %v, want %v", got, want)
	}

	edge := CardRef{0, 0}
	got, err = gs.targetCards(&Target{Kind: TargetPositional, Mode: ModeNeighbor}, edge, edge)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 1); !reflect.DeepEqual(got, want) {
		t.Errorf("edge neighbors = %v, want %v", got, want)
	}
}

func TestSectionExcludeSelf(t *testing.T) {
	gs := newFight(barePlayer(100, itemRow(t, 3)...), barePlayer(100))
	self := CardRef{0, 1}

	got, err := gs.targetCards(&Target{Kind: TargetSection, Section: SectionSelfBoard, ExcludeSelf: true}, self, self)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 0, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("section = %v, want %v", got, want)
	}
}

func TestDisabledEntriesFiltered(t *testing.T) {
	gs := newFight(barePlayer(100, itemRow(t, 3)...), barePlayer(100))
	gs.Players[0].Board[1].Disabled = true
	self := CardRef{0, 0}

	got, err := gs.targetCards(&Target{Kind: TargetSection, Section: SectionSelfBoard}, self, self)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 0, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("section = %v, want %v", got, want)
	}
}

func TestXMostTargets(t *testing.T) {
	gs := newFight(barePlayer(100, itemRow(t, 3)...), barePlayer(100))
	self := CardRef{0, 1}

	got, err := gs.targetCards(&Target{Kind: TargetXMost, Mode: ModeRightmost}, self, self)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("rightmost = %v, want %v", got, want)
	}

	got, err = gs.targetCards(&Target{Kind: TargetXMost, Mode: ModeLeftmost}, self, self)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("leftmost = %v, want %v", got, want)
	}
}

func TestHighestAttributeShortCircuit(t *testing.T) {
	board := []*BoardEntry{
		weapon(t, "Low", 1000, 3, nil),
		weapon(t, "High", 1000, 9, nil),
		weapon(t, "HighToo", 1000, 9, nil),
	}
	gs := newFight(barePlayer(100, board...), barePlayer(100))
	self := CardRef{0, 0}

	target := &Target{
		Kind:       TargetSection,
		Section:    SectionSelfBoard,
		Conditions: &Condition{Kind: ConditionHighestAttribute, Attribute: AttrDamageAmount},
	}
	got, err := gs.targetCards(target, self, self)
	if err != nil {
		t.Fatal(err)
	}
	// First encountered wins ties.
	if want := refs(0, 1); !reflect.DeepEqual(got, want) {
		t.Errorf("highest = %v, want %v", got, want)
	}

	// A disabled winner falls through to the runner-up.
	gs.Players[0].Board[1].Disabled = true
	got, err = gs.targetCards(target, self, self)
	if err != nil {
		t.Fatal(err)
	}
	if want := refs(0, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("highest with disabled = %v, want %v", got, want)
	}
}

func TestRandomTargetShufflesDeterministically(t *testing.T) {
	mk := func() *GameState {
		return newFight(barePlayer(100, itemRow(t, 5)...), barePlayer(100))
	}
	target := &Target{Kind: TargetRandom, Section: SectionSelfBoard}
	self := CardRef{0, 0}

	a := mk()
	b := mk()
	gotA, err := a.targetCards(target, self, self)
	if err != nil {
		t.Fatal(err)
	}
	gotB, err := b.targetCards(target, self, self)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotA, gotB) {
		t.Errorf("same seed shuffles diverged: %v vs %v", gotA, gotB)
	}
	if len(gotA) != 5 {
		t.Errorf("shuffle dropped candidates: %v", gotA)
	}
}

func TestPlayerTargets(t *testing.T) {
	gs := newFight(barePlayer(100), barePlayer(100))

	got, err := gs.targetPlayers(opponentPlayers(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("opponent = %v, want [1]", got)
	}

	got, err = gs.targetPlayers(&Target{Kind: TargetPlayer, Mode: ModeBoth}, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{1, 0}) {
		t.Errorf("both = %v, want [1 0]", got)
	}

	got, err = gs.targetPlayers(&Target{Kind: TargetSection, Section: SectionSelfBoard}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("self board section = %v, want [0]", got)
	}
}

func TestCardTargetKindFailsForPlayers(t *testing.T) {
	gs := newFight(barePlayer(100), barePlayer(100))
	if _, err := gs.targetPlayers(&Target{Kind: TargetSelf}, 0, 0); err == nil {
		t.Fatal("expected error for card target kind used as player target")
	}
}

func TestPlayerTargetConditionFilter(t *testing.T) {
	gs := newFight(barePlayer(100), barePlayer(100))
	gs.Players[1].Health = 30

	target := &Target{
		Kind: TargetPlayer,
		Mode: ModeBoth,
		Conditions: &Condition{
			Kind:            ConditionPlayerAttribute,
			PlayerAttribute: PlayerHealth,
			Comparison:      ComparisonLessThan,
			ComparisonValue: &Value{Kind: ValueFixed, Amount: 50},
		},
	}
	got, err := gs.targetPlayers(target, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("filtered players = %v, want [1]", got)
	}
}
