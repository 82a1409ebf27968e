package sim

import "testing"

func TestTooltipValueFallbacks(t *testing.T) {
	card := oneTierItem("Blade", AttrPatch{AttrCooldownMax: 1000, AttrDamageAmount: 8},
		fireAbility(Action{Kind: ActionDamage, Target: opponentPlayers()}), "a0")
	card.Tooltips = []string{"Deal {ability.a0} damage."}
	card.Tiers[0].TooltipIDs = []int{0}
	gs := newFight(barePlayer(100, mustBuild(t, card, "bronze", "")), barePlayer(100))

	got, err := Tooltips(gs, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "Deal 8 damage." {
		t.Errorf("tooltips = %v", got)
	}
}

func TestTooltipDurationInSeconds(t *testing.T) {
	card := oneTierItem("Ice", AttrPatch{AttrCooldownMax: 1000, AttrFreezeAmount: 1500, AttrFreezeTargets: 2},
		fireAbility(Action{Kind: ActionFreeze, Target: &Target{Kind: TargetSection, Section: SectionOpponentBoard}}), "a0")
	card.Tooltips = []string{"Freeze {ability.a0.targets} items for {ability.a0} seconds."}
	card.Tiers[0].TooltipIDs = []int{0}
	gs := newFight(barePlayer(100, mustBuild(t, card, "bronze", "")), barePlayer(100))

	got, err := Tooltips(gs, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "Freeze 2 items for 1.5 seconds." {
		t.Errorf("tooltip = %q", got[0])
	}
}

func TestTooltipResolvedValue(t *testing.T) {
	card := oneTierItem("Focus", AttrPatch{AttrCooldownMax: 1000},
		fireAbility(Action{
			Kind:      ActionModifyCardAttribute,
			Target:    &Target{Kind: TargetSelf},
			Attribute: AttrDamageAmount,
			Operation: OperationAdd,
			Value: &Value{
				Kind:   ValueCardCount,
				Target: &Target{Kind: TargetSection, Section: SectionSelfBoard},
			},
		}), "a0")
	card.Tooltips = []string{"Gain {ability.a0} damage."}
	card.Tiers[0].TooltipIDs = []int{0}
	gs := newFight(barePlayer(100, mustBuild(t, card, "bronze", ""), weapon(t, "X", 1000, 1, nil)), barePlayer(100))

	got, err := Tooltips(gs, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "Gain 2 damage." {
		t.Errorf("tooltip = %q", got[0])
	}
}

func TestTooltipUnknownTokenKeepsPlaceholder(t *testing.T) {
	card := oneTierItem("Odd", AttrPatch{AttrCooldownMax: 1000},
		fireAbility(Action{Kind: ActionDamage, Target: opponentPlayers()}), "a0")
	card.Tooltips = []string{"Does {ability.zz} things."}
	card.Tiers[0].TooltipIDs = []int{0}
	gs := newFight(barePlayer(100, mustBuild(t, card, "bronze", "")), barePlayer(100))

	got, err := Tooltips(gs, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "Does {?ability.zz} things." {
		t.Errorf("tooltip = %q", got[0])
	}
}

func TestTooltipBadIDIsPlaceholder(t *testing.T) {
	card := oneTierItem("Odd", AttrPatch{AttrCooldownMax: 1000},
		fireAbility(Action{Kind: ActionDamage, Target: opponentPlayers()}), "a0")
	card.Tooltips = []string{"Fine."}
	card.Tiers[0].TooltipIDs = []int{0, 4}
	gs := newFight(barePlayer(100, mustBuild(t, card, "bronze", "")), barePlayer(100))

	got, err := Tooltips(gs, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != "??" {
		t.Errorf("tooltips = %v", got)
	}
}
