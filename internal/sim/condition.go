package sim

import (
	"fmt"
	"slices"
)

// testConditions evaluates a condition against the entry at target. A
// nil condition is true; an unhandled kind excludes the subject rather
// than failing, matching the lenient posture of the rule data.
func (gs *GameState) testConditions(c *Condition, trigger, target CardRef) (bool, error) {
	if c == nil {
		return true, nil
	}
	switch c.Kind {
	case ConditionAttribute:
		value := gs.entry(target).AttrOr0(c.Attribute)
		comparison, err := gs.actionValue(c.ComparisonValue, trigger, target)
		if err != nil {
			return false, err
		}
		return c.Comparison.compare(value, comparison), nil

	case ConditionSize:
		is := slices.Contains(c.Sizes, gs.entry(target).Def.Size)
		return is != c.IsNot, nil

	case ConditionEnchantment:
		is := gs.entry(target).Enchantment == c.Enchantment
		return is != c.IsNot, nil

	case ConditionTag, ConditionHiddenTag:
		tags := gs.entry(target).Tags
		if c.Kind == ConditionHiddenTag {
			tags = gs.entry(target).HiddenTags
		}
		matches := 0
		for _, tag := range tags {
			if slices.Contains(c.Tags, tag) {
				matches++
			}
		}
		switch c.Operator {
		case TagAny:
			return matches > 0, nil
		case TagNone:
			return matches == 0, nil
		}
		return false, nil

	case ConditionOr:
		for _, sub := range c.Conditions {
			ok, err := gs.testConditions(sub, trigger, target)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case ConditionAnd:
		for _, sub := range c.Conditions {
			ok, err := gs.testConditions(sub, trigger, target)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
	return false, nil
}

// testPrerequisite evaluates one action gate. Unlike conditions, an
// unhandled prerequisite kind is a hard error.
func (gs *GameState) testPrerequisite(p *Prerequisite, trigger, target CardRef) (bool, error) {
	switch p.Kind {
	case PrereqCardCount:
		refs, err := gs.targetCards(p.Subject, trigger, target)
		if err != nil {
			return false, err
		}
		return p.Comparison.compare(float64(len(refs)), p.Amount), nil

	case PrereqPlayer:
		players, err := gs.targetPlayers(p.Subject, trigger.Player, target.Player)
		if err != nil {
			return false, err
		}
		return len(players) > 0, nil

	case PrereqAlways:
		return true, nil
	}
	return false, fmt.Errorf("unhandled prerequisite kind %s", p.Kind)
}
