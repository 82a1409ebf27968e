package sim

import (
	"fmt"
	"math"
	"sort"
)

// capRefs limits a target list to the first n entries. A negative n
// means no cap.
func capRefs(refs []CardRef, n int) []CardRef {
	if n >= 0 && n < len(refs) {
		return refs[:n]
	}
	return refs
}

// targetCap reads an action's declared target count. An entry that does
// not carry the attribute caps nothing: the action affects every
// resolved target.
func targetCap(actor *BoardEntry, attr CardAttr) int {
	v, ok := actor.Attr(attr)
	if !ok {
		return -1
	}
	return int(v)
}

// setCardAttr writes a card attribute and, when cascade is set, re-enters
// the interpreter for every on-attribute-changed ability matching the
// write's direction. The attribute is written before the cascade runs so
// cascaded readers observe the new value. Writes to attributes the entry
// does not carry never cascade.
func (gs *GameState) setCardAttr(ref CardRef, attr CardAttr, value float64, cascade bool) error {
	e := gs.entry(ref)
	old, had := e.Attr(attr)
	e.setAttr(attr, value)
	if !cascade || !had || value == old {
		return nil
	}
	change := ChangeGain
	if value < old {
		change = ChangeLoss
	}

	gs.cascadeDepth++
	defer func() { gs.cascadeDepth-- }()
	if gs.cascadeDepth > maxCascadeDepth {
		return fmt.Errorf("attribute cascade exceeded depth %d on %s", maxCascadeDepth, attr)
	}

	return gs.forEachEntry(func(scanPlayer, scanIndex int, scanEntry *BoardEntry) error {
		scan := CardRef{scanPlayer, scanIndex}
		return forEachAbility(scanEntry, func(_ string, ab *Ability) error {
			tr := &ab.Trigger
			if tr.Kind != TriggerCardAttributeChanged || tr.Attribute != attr || tr.Change != change {
				return nil
			}
			subjects, err := gs.targetCards(tr.Subject, ref, scan)
			if err != nil {
				return err
			}
			for _, subject := range subjects {
				if subject == ref {
					if _, err := gs.runAction(&ab.Action, ab.Prerequisites, ref, scan); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
}

// setPlayerAttr is the player-side counterpart of setCardAttr. The
// cascade runs the matching ability once per resolved trigger subject,
// with no subject identity check.
func (gs *GameState) setPlayerAttr(playerID int, attr PlayerAttr, value float64, cascade bool) error {
	p := gs.Players[playerID]
	old := p.Attr(attr)
	p.setAttr(attr, value)
	if !cascade || value == old {
		return nil
	}
	change := ChangeGain
	if value < old {
		change = ChangeLoss
	}

	gs.cascadeDepth++
	defer func() { gs.cascadeDepth-- }()
	if gs.cascadeDepth > maxCascadeDepth {
		return fmt.Errorf("attribute cascade exceeded depth %d on %s", maxCascadeDepth, attr)
	}

	return gs.forEachEntry(func(scanPlayer, scanIndex int, scanEntry *BoardEntry) error {
		scan := CardRef{scanPlayer, scanIndex}
		return forEachAbility(scanEntry, func(_ string, ab *Ability) error {
			tr := &ab.Trigger
			if tr.Kind != TriggerPlayerAttributeChanged || tr.PlayerAttribute != attr || tr.Change != change {
				return nil
			}
			subjects, err := gs.targetPlayers(tr.Subject, playerID, scanPlayer)
			if err != nil {
				return err
			}
			for _, subjectID := range subjects {
				if _, err := gs.runAction(&ab.Action, ab.Prerequisites, NoCard(subjectID), scan); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// dispatchTrigger runs every ability of the given trigger kind whose
// declared subject resolves back to target. trigger carries the event
// source through to the invoked actions.
func (gs *GameState) dispatchTrigger(kind TriggerKind, trigger, target CardRef) error {
	return gs.forEachEntry(func(scanPlayer, scanIndex int, scanEntry *BoardEntry) error {
		scan := CardRef{scanPlayer, scanIndex}
		return forEachAbility(scanEntry, func(_ string, ab *Ability) error {
			if ab.Trigger.Kind != kind {
				return nil
			}
			subjects, err := gs.targetCards(ab.Trigger.Subject, target, scan)
			if err != nil {
				return err
			}
			for _, subject := range subjects {
				if subject == target {
					if _, err := gs.runAction(&ab.Action, ab.Prerequisites, trigger, scan); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
}

// critRoll draws from the shared stream when the acting entry has any
// crit chance, and reports whether the roll succeeded.
func (gs *GameState) critRoll(actor *BoardEntry) bool {
	cc := actor.AttrOr0(AttrCritChance)
	return cc > 0 && gs.Rand.Next()*100 < cc
}

// runAction executes one action against its resolved targets, gated by
// the prerequisites. It reports whether any application critted.
//
// Mutation discipline follows the rule data's observed semantics: damage
// and its shield depletion mutate the player directly, while heal,
// status and attribute changes go through the cascading setters.
func (gs *GameState) runAction(action *Action, prereqs []*Prerequisite, trigger, target CardRef) (bool, error) {
	for _, p := range prereqs {
		ok, err := gs.testPrerequisite(p, trigger, target)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	critted := false
	actor := gs.entry(target)

	switch action.Kind {
	case ActionDamage:
		players, err := gs.targetPlayers(action.Target, trigger.Player, target.Player)
		if err != nil {
			return false, err
		}
		for _, playerID := range players {
			amount := actor.AttrOr0(AttrDamageAmount)
			if gs.critRoll(actor) {
				amount *= 2
				// Only entries carrying a crit multiplier mark the
				// fire as critted; the flat double alone does not.
				if dc, ok := actor.Attr(AttrDamageCrit); ok {
					amount *= 1 + dc/100
					critted = true
				}
			}
			p := gs.Players[playerID]
			shield := p.Shield
			if next := math.Max(0, shield-amount); next > 0 {
				p.Shield = next
			} else {
				p.Shield = 0
				p.Health -= amount - shield
			}
		}

	case ActionHeal:
		players, err := gs.targetPlayers(action.Target, trigger.Player, target.Player)
		if err != nil {
			return false, err
		}
		for _, playerID := range players {
			amount := actor.AttrOr0(AttrHealAmount)
			if gs.critRoll(actor) {
				amount *= 2
				critted = true
			}
			p := gs.Players[playerID]
			if p.Health != p.HealthMax {
				healed := math.Min(p.HealthMax, p.Health+amount)
				if err := gs.setPlayerAttr(playerID, PlayerHealth, healed, true); err != nil {
					return critted, err
				}
			}
			if p.Poison > 0 {
				if err := gs.setPlayerAttr(playerID, PlayerPoison, p.Poison-1, true); err != nil {
					return critted, err
				}
			}
			if p.Burn > 0 {
				if err := gs.setPlayerAttr(playerID, PlayerBurn, p.Burn-1, true); err != nil {
					return critted, err
				}
			}
		}

	case ActionPoisonApply, ActionBurnApply, ActionShieldApply:
		var (
			amountAttr CardAttr
			stat       PlayerAttr
			performed  TriggerKind
		)
		switch action.Kind {
		case ActionPoisonApply:
			amountAttr, stat, performed = AttrPoisonApplyAmount, PlayerPoison, TriggerPerformedPoison
		case ActionBurnApply:
			amountAttr, stat, performed = AttrBurnApplyAmount, PlayerBurn, TriggerPerformedBurn
		case ActionShieldApply:
			amountAttr, stat, performed = AttrShieldApplyAmount, PlayerShield, TriggerPerformedShield
		}
		players, err := gs.targetPlayers(action.Target, trigger.Player, target.Player)
		if err != nil {
			return false, err
		}
		for _, playerID := range players {
			amount := actor.AttrOr0(amountAttr)
			if gs.critRoll(actor) {
				amount *= 2
				critted = true
			}
			if err := gs.dispatchTrigger(performed, NoCard(playerID), target); err != nil {
				return critted, err
			}
			next := gs.Players[playerID].Attr(stat) + amount
			if err := gs.setPlayerAttr(playerID, stat, next, true); err != nil {
				return critted, err
			}
		}

	case ActionPoisonRemove, ActionBurnRemove, ActionShieldRemove:
		var (
			amountAttr CardAttr
			stat       PlayerAttr
		)
		switch action.Kind {
		case ActionPoisonRemove:
			amountAttr, stat = AttrPoisonRemoveAmount, PlayerPoison
		case ActionBurnRemove:
			amountAttr, stat = AttrBurnRemoveAmount, PlayerBurn
		case ActionShieldRemove:
			amountAttr, stat = AttrShieldRemoveAmount, PlayerShield
		}
		players, err := gs.targetPlayers(action.Target, trigger.Player, target.Player)
		if err != nil {
			return false, err
		}
		for _, playerID := range players {
			amount := actor.AttrOr0(amountAttr)
			next := math.Max(0, gs.Players[playerID].Attr(stat)-amount)
			if err := gs.setPlayerAttr(playerID, stat, next, true); err != nil {
				return critted, err
			}
		}

	case ActionReviveHeal:
		players, err := gs.targetPlayers(action.Target, trigger.Player, target.Player)
		if err != nil {
			return false, err
		}
		for _, playerID := range players {
			if err := gs.setPlayerAttr(playerID, PlayerHealth, 0, true); err != nil {
				return critted, err
			}
		}

	case ActionDisable:
		refs, err := gs.targetCards(action.Target, trigger, target)
		if err != nil {
			return false, err
		}
		for _, ref := range capRefs(refs, 1) {
			gs.entry(ref).Disabled = true
			if err := gs.dispatchTrigger(TriggerPerformedDestruction, ref, target); err != nil {
				return critted, err
			}
		}

	case ActionReload:
		refs, err := gs.targetCards(action.Target, trigger, target)
		if err != nil {
			return false, err
		}
		amount := actor.AttrOr0(AttrReloadAmount)
		count := targetCap(actor, AttrReloadTargets)
		for _, ref := range capRefs(refs, count) {
			e := gs.entry(ref)
			cur := e.AttrOr0(AttrAmmo)
			next := math.Min(e.AttrOr0(AttrAmmoMax), cur+amount)
			if next != cur {
				if err := gs.setCardAttr(ref, AttrAmmo, next, true); err != nil {
					return critted, err
				}
			}
		}

	case ActionFreeze, ActionSlow, ActionHaste:
		var (
			statusAttr  CardAttr
			amountAttr  CardAttr
			targetsAttr CardAttr
			performed   TriggerKind
		)
		switch action.Kind {
		case ActionFreeze:
			statusAttr, amountAttr, targetsAttr, performed = AttrFreeze, AttrFreezeAmount, AttrFreezeTargets, TriggerPerformedFreeze
		case ActionSlow:
			statusAttr, amountAttr, targetsAttr, performed = AttrSlow, AttrSlowAmount, AttrSlowTargets, TriggerPerformedSlow
		case ActionHaste:
			statusAttr, amountAttr, targetsAttr, performed = AttrHaste, AttrHasteAmount, AttrHasteTargets, TriggerPerformedHaste
		}
		refs, err := gs.targetCards(action.Target, trigger, target)
		if err != nil {
			return false, err
		}
		amount := actor.AttrOr0(amountAttr)
		count := targetCap(actor, targetsAttr)

		candidates := refs[:0:0]
		for _, ref := range refs {
			if gs.entry(ref).hasCooldown() {
				candidates = append(candidates, ref)
			}
		}
		// Entries not yet affected by the same status come first.
		sort.SliceStable(candidates, func(i, j int) bool {
			a := gs.entry(candidates[i]).AttrOr0(statusAttr)
			b := gs.entry(candidates[j]).AttrOr0(statusAttr)
			return a == 0 && b != 0
		})
		for _, ref := range capRefs(candidates, count) {
			if err := gs.dispatchTrigger(performed, ref, target); err != nil {
				return critted, err
			}
			next := gs.entry(ref).AttrOr0(statusAttr) + amount
			if err := gs.setCardAttr(ref, statusAttr, next, true); err != nil {
				return critted, err
			}
		}

	case ActionCharge:
		refs, err := gs.targetCards(action.Target, trigger, target)
		if err != nil {
			return false, err
		}
		amount := actor.AttrOr0(AttrChargeAmount)
		count := targetCap(actor, AttrChargeTargets)
		candidates := refs[:0:0]
		for _, ref := range refs {
			if gs.entry(ref).hasCooldown() {
				candidates = append(candidates, ref)
			}
		}
		for _, ref := range capRefs(candidates, count) {
			e := gs.entry(ref)
			next := math.Min(e.AttrOr0(AttrCooldownMax), e.AttrOr0(AttrProgress)+amount)
			if err := gs.setCardAttr(ref, AttrProgress, next, true); err != nil {
				return critted, err
			}
		}

	case ActionModifyCardAttribute, ActionAuraModifyCardAttribute:
		if action.Value == nil || action.Attribute == AttrNone {
			return false, fmt.Errorf("card attribute modify on %q missing value or attribute", actor.Title)
		}
		value, err := gs.actionValue(action.Value, trigger, target)
		if err != nil {
			return false, err
		}
		refs, err := gs.targetCards(action.Target, trigger, target)
		if err != nil {
			return false, err
		}
		count := len(refs)
		if action.TargetCount != nil {
			v, err := gs.actionValue(action.TargetCount, trigger, target)
			if err != nil {
				return false, err
			}
			count = int(v)
		}
		cascade := action.Kind == ActionModifyCardAttribute
		for _, ref := range capRefs(refs, count) {
			old, ok := gs.entry(ref).Attr(action.Attribute)
			if !ok {
				continue
			}
			next := old
			switch action.Operation {
			case OperationAdd:
				next = old + value
			case OperationMultiply:
				next = old * value
			}
			if err := gs.setCardAttr(ref, action.Attribute, next, cascade); err != nil {
				return critted, err
			}
		}

	case ActionModifyPlayerAttribute, ActionAuraModifyPlayerAttribute:
		value, err := gs.actionValue(action.Value, trigger, target)
		if err != nil {
			return false, err
		}
		players, err := gs.targetPlayers(action.Target, trigger.Player, target.Player)
		if err != nil {
			return false, err
		}
		cascade := action.Kind == ActionModifyPlayerAttribute
		for _, playerID := range players {
			old := gs.Players[playerID].Attr(action.PlayerAttribute)
			next := old
			switch action.Operation {
			case OperationAdd:
				next = old + value
			case OperationSubtract:
				next = old - value
			case OperationMultiply:
				next = old * value
			}
			if err := gs.setPlayerAttr(playerID, action.PlayerAttribute, next, cascade); err != nil {
				return critted, err
			}
		}
	}

	return critted, nil
}
