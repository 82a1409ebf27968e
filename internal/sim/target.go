package sim

import (
	"fmt"
	"math"
)

// targetCards resolves a card target descriptor into (player, index)
// pairs. trigger is the event source, target the card whose ability is
// running; positional modes resolve against one or the other depending
// on the declared origin. Candidates are generated in board order, then
// disabled entries and condition failures are filtered out.
func (gs *GameState) targetCards(t *Target, trigger, target CardRef) ([]CardRef, error) {
	var results []CardRef

	switch t.Kind {
	case TargetSelf:
		results = append(results, target)

	case TargetTriggerSource:
		results = append(results, trigger)

	case TargetPositional:
		origin := target
		if t.Origin == OriginTriggerSource {
			origin = trigger
		}
		switch t.Mode {
		case ModeAllRight:
			start := origin.Index + 1
			if t.IncludeOrigin {
				start = origin.Index
			}
			for i := start; i < gs.Players[origin.Player].itemCount(); i++ {
				results = append(results, CardRef{origin.Player, i})
			}
		case ModeAllLeft:
			// The run stops one short of the origin even with the
			// include flag set; without it the left neighbor is skipped
			// too. Long-standing behavior that card data relies on.
			end := origin.Index - 1
			if t.IncludeOrigin {
				end = origin.Index
			}
			for i := 0; i < end; i++ {
				results = append(results, CardRef{origin.Player, i})
			}
		case ModeNeighbor:
			if t.IncludeOrigin {
				results = append(results, origin)
			}
			if origin.Index != 0 {
				results = append(results, CardRef{origin.Player, origin.Index - 1})
			}
			if origin.Index < gs.Players[origin.Player].itemCount()-1 {
				results = append(results, CardRef{origin.Player, origin.Index + 1})
			}
		case ModeRight:
			// Single-neighbor modes resolve against the running card,
			// not the declared origin.
			if t.IncludeOrigin {
				results = append(results, target)
			}
			if target.Index < gs.Players[target.Player].itemCount()-1 {
				results = append(results, CardRef{target.Player, target.Index + 1})
			}
		case ModeLeft:
			if t.IncludeOrigin {
				results = append(results, target)
			}
			if target.Index != 0 {
				results = append(results, CardRef{target.Player, target.Index - 1})
			}
		}

	case TargetSection, TargetRandom:
		switch t.Section {
		case SectionSelfHand, SectionSelfBoard:
			for i := 0; i < gs.Players[target.Player].itemCount(); i++ {
				if i == target.Index && t.ExcludeSelf {
					continue
				}
				results = append(results, CardRef{target.Player, i})
			}
		case SectionOpponentHand, SectionOpponentBoard:
			opp := gs.opponent(target.Player)
			for i := 0; i < gs.Players[opp].itemCount(); i++ {
				results = append(results, CardRef{opp, i})
			}
		case SectionAllHands:
			for p := range gs.Players {
				for i := 0; i < gs.Players[p].itemCount(); i++ {
					if p == target.Player && i == target.Index && t.ExcludeSelf {
						continue
					}
					results = append(results, CardRef{p, i})
				}
			}
		}
		if t.Kind == TargetRandom {
			// Fisher-Yates off the shared stream, before filtering, so
			// the draw count depends only on the raw candidate count.
			for i := len(results); i != 0; {
				j := int(math.Floor(gs.Rand.Next() * float64(i)))
				i--
				results[i], results[j] = results[j], results[i]
			}
		}

	case TargetXMost:
		for i := 0; i < gs.Players[target.Player].itemCount(); i++ {
			if i == target.Index && t.ExcludeSelf {
				continue
			}
			results = append(results, CardRef{target.Player, i})
		}
	}

	if t.Conditions != nil && t.Conditions.Kind == ConditionHighestAttribute {
		return gs.highestAttribute(results, t.Conditions.Attribute), nil
	}

	filtered := results[:0:0]
	for _, ref := range results {
		// Player-level trigger sources carry index -1 and never match
		// a card target.
		if ref.Index < 0 || gs.entry(ref).Disabled {
			continue
		}
		ok, err := gs.testConditions(t.Conditions, trigger, ref)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered = append(filtered, ref)
		}
	}

	if t.Kind == TargetXMost && len(filtered) > 0 {
		if t.Mode == ModeLeftmost {
			return filtered[:1], nil
		}
		return filtered[len(filtered)-1:], nil
	}
	return filtered, nil
}

// highestAttribute short-circuits the normal condition filter: it picks
// the single non-disabled candidate with the strictly highest value of
// the attribute, first encountered winning ties.
func (gs *GameState) highestAttribute(candidates []CardRef, attr CardAttr) []CardRef {
	best := math.Inf(-1)
	var winner *CardRef
	for i, ref := range candidates {
		if ref.Index < 0 {
			continue
		}
		e := gs.entry(ref)
		if e.Disabled {
			continue
		}
		v, ok := e.Attr(attr)
		if ok && v > best {
			best = v
			winner = &candidates[i]
		}
	}
	if winner == nil {
		return nil
	}
	return []CardRef{*winner}
}

// targetPlayers resolves a target descriptor into player indices. Card
// target kinds other than section cannot name a player; that is a data
// contract violation and fails hard.
func (gs *GameState) targetPlayers(t *Target, triggerPlayer, targetPlayer int) ([]int, error) {
	var results []int
	switch {
	case t.Kind == TargetPlayer && t.Mode == ModeOpponent:
		results = []int{gs.opponent(targetPlayer)}
	case t.Kind == TargetPlayer && t.Mode == ModeSelf:
		results = []int{targetPlayer}
	case t.Kind == TargetPlayer && t.Mode == ModeBoth:
		results = []int{targetPlayer, gs.opponent(targetPlayer)}
	case t.Kind == TargetSection:
		if t.Section == SectionSelfBoard {
			results = []int{targetPlayer}
		} else {
			results = []int{gs.opponent(targetPlayer)}
		}
	default:
		return nil, fmt.Errorf("target kind %s cannot resolve players", t.Kind)
	}

	if t.Conditions == nil {
		return results, nil
	}
	filtered := results[:0:0]
	for _, playerID := range results {
		if t.Conditions.Kind != ConditionPlayerAttribute {
			continue
		}
		value := gs.Players[playerID].Attr(t.Conditions.PlayerAttribute)
		comparison, err := gs.actionValue(t.Conditions.ComparisonValue, NoCard(triggerPlayer), NoCard(playerID))
		if err != nil {
			return nil, err
		}
		if t.Conditions.Comparison.compare(value, comparison) {
			filtered = append(filtered, playerID)
		}
	}
	return filtered, nil
}
