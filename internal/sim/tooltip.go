package sim

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	tooltipTargetsRe = regexp.MustCompile(`\{(ability|aura)\.([a-z0-9_]+)\.targets\}`)
	tooltipModRe     = regexp.MustCompile(`\{(ability|aura)\.([a-z0-9_]+)\.mod\}`)
	tooltipValueRe   = regexp.MustCompile(`\{(ability|aura)\.([a-z0-9_]+)\}`)
)

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tooltipAction(e *BoardEntry, kind, id string) *Action {
	table := e.Abilities
	if kind == "aura" {
		table = e.Auras
	}
	ab := table[id]
	if ab == nil {
		return nil
	}
	return &ab.Action
}

// Tooltips expands an entry's tooltip templates against its live ability
// table. Three token forms are substituted: {kind.id.targets} for the
// action's target count, {kind.id.mod} for its modifier value, and
// {kind.id} for its primary value or a kind-specific amount. Tokens that
// resolve to nothing are left as literal placeholders.
func Tooltips(gs *GameState, playerID, index int) ([]string, error) {
	e := gs.Players[playerID].Board[index]
	self := CardRef{playerID, index}

	out := make([]string, 0, len(e.TooltipIDs))
	for _, id := range e.TooltipIDs {
		if id < 0 || id >= len(e.Tooltips) {
			out = append(out, "??")
			continue
		}
		text := e.Tooltips[id]
		var expandErr error

		text = tooltipTargetsRe.ReplaceAllStringFunc(text, func(token string) string {
			m := tooltipTargetsRe.FindStringSubmatch(token)
			action := tooltipAction(e, m[1], m[2])
			if action == nil {
				return fmt.Sprintf("{?%s.%s.targets}", m[1], m[2])
			}
			switch action.Kind {
			case ActionHaste:
				return formatNum(e.AttrOr0(AttrHasteTargets))
			case ActionSlow:
				return formatNum(e.AttrOr0(AttrSlowTargets))
			case ActionFreeze:
				return formatNum(e.AttrOr0(AttrFreezeTargets))
			case ActionCharge:
				return formatNum(e.AttrOr0(AttrChargeTargets))
			case ActionReload:
				return formatNum(e.AttrOr0(AttrReloadTargets))
			}
			return fmt.Sprintf("{?%s.%s.targets}", m[1], m[2])
		})

		text = tooltipModRe.ReplaceAllStringFunc(text, func(token string) string {
			m := tooltipModRe.FindStringSubmatch(token)
			action := tooltipAction(e, m[1], m[2])
			if action == nil || action.Value == nil || action.Value.Modifier == nil {
				return fmt.Sprintf("{?%s.%s.mod}", m[1], m[2])
			}
			v, err := gs.actionValue(action.Value.Modifier.Value, self, self)
			if err != nil {
				expandErr = err
				return token
			}
			return formatNum(v)
		})

		text = tooltipValueRe.ReplaceAllStringFunc(text, func(token string) string {
			m := tooltipValueRe.FindStringSubmatch(token)
			action := tooltipAction(e, m[1], m[2])
			if action == nil {
				return fmt.Sprintf("{?%s.%s}", m[1], m[2])
			}

			if action.Value != nil {
				v, err := gs.actionValue(action.Value, self, self)
				if err != nil {
					expandErr = err
					return token
				}
				if action.Kind == ActionAuraModifyCardAttribute {
					switch action.Attribute {
					case AttrSlowAmount, AttrFreezeAmount, AttrHasteAmount, AttrChargeAmount:
						// Durations read in seconds.
						return formatNum(v / 1000)
					}
				}
				return formatNum(v)
			}

			switch action.Kind {
			case ActionDamage:
				return formatNum(e.AttrOr0(AttrDamageAmount))
			case ActionReload:
				return formatNum(e.AttrOr0(AttrReloadAmount))
			case ActionHeal:
				return formatNum(e.AttrOr0(AttrHealAmount))
			case ActionShieldApply:
				return formatNum(e.AttrOr0(AttrShieldApplyAmount))
			case ActionPoisonApply:
				return formatNum(e.AttrOr0(AttrPoisonApplyAmount))
			case ActionBurnApply:
				return formatNum(e.AttrOr0(AttrBurnApplyAmount))
			case ActionFreeze:
				return formatNum(e.AttrOr0(AttrFreezeAmount) / 1000)
			case ActionHaste:
				return formatNum(e.AttrOr0(AttrHasteAmount) / 1000)
			case ActionSlow:
				return formatNum(e.AttrOr0(AttrSlowAmount) / 1000)
			case ActionCharge:
				return formatNum(e.AttrOr0(AttrChargeAmount) / 1000)
			}
			return fmt.Sprintf("{?%s.%s}", m[1], m[2])
		})

		if expandErr != nil {
			return nil, expandErr
		}
		out = append(out, text)
	}
	return out, nil
}
