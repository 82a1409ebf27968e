package sim

import (
	"math"

	gamelog "github.com/peterkuimelis/cardstorm/internal/log"
)

const (
	sandstormStartTick = 30000
	sandstormInterval  = 200
	sandstormDamageCap = 600

	multicastDelay = 300
)

// SandstormEndTick is the hard termination time: once elapsed time
// reaches it, the fight is over regardless of player health.
const SandstormEndTick = sandstormStartTick + sandstormDamageCap*sandstormInterval

// sandstormSchedule maps elapsed time to the sandstorm damage dealt at
// that tick. Damage starts at 1 and grows by 1 each interval up to the
// cap, so the table is finite.
var sandstormSchedule = buildSandstormSchedule()

func buildSandstormSchedule() map[int]float64 {
	schedule := make(map[int]float64, sandstormDamageCap)
	damage := 1.0
	for tick := sandstormStartTick; damage <= sandstormDamageCap; tick += sandstormInterval {
		schedule[tick] = damage
		damage++
	}
	return schedule
}

type firedCast struct {
	ref       CardRef
	multicast bool
}

// step advances the fight by one tick. The input state is never mutated;
// the returned state is a fresh structural copy.
func (r *Runner) step(gs *GameState) (*GameState, error) {
	next := gs.Clone()

	// Fight start triggers run before any time passes.
	if next.Tick == 0 {
		r.log(gamelog.NewFightStartEvent())
		err := next.forEachEntry(func(playerID, index int, e *BoardEntry) error {
			return forEachAbility(e, func(_ string, ab *Ability) error {
				if ab.Trigger.Kind != TriggerFightStarted {
					return nil
				}
				_, err := next.runAction(&ab.Action, ab.Prerequisites, NoCard(playerID), CardRef{playerID, index})
				return err
			})
		})
		if err != nil {
			return nil, err
		}
	}

	next.Tick += TickRate

	// Poison and regen land on whole seconds.
	if next.Tick%1000 == 0 {
		for playerID, p := range next.Players {
			if p.Poison > 0 {
				p.Health -= p.Poison
				r.log(gamelog.NewPoisonTickEvent(next.Tick, playerID, p.Poison))
			}
			if p.HealthRegen > 0 {
				p.Health = math.Min(p.Health+p.HealthRegen, p.HealthMax)
			}
		}
	}

	// Burn lands on half seconds; shield absorbs it at half efficiency.
	if next.Tick%500 == 0 {
		for playerID, p := range next.Players {
			if p.Burn > 0 {
				amount := p.Burn
				shield := p.Shield
				if nextShield := math.Max(0, shield-amount/2); nextShield > 0 {
					p.Shield = nextShield
				} else {
					p.Shield = 0
					p.Health -= amount - shield*2
				}
				r.log(gamelog.NewBurnTickEvent(next.Tick, playerID, amount))
				p.Burn--
			}
		}
	}

	// Cooldown advance and firing.
	var fired []firedCast
	for playerID, p := range next.Players {
		for index, e := range p.Board {
			if e.Disabled || e.Kind == EntrySkill || !e.hasCooldown() {
				continue
			}
			rate := float64(TickRate)
			if e.AttrOr0(AttrSlow) > 0 {
				rate /= 2
			}
			if e.AttrOr0(AttrHaste) > 0 {
				rate *= 2
			}
			e.setAttr(AttrSlow, math.Max(0, e.AttrOr0(AttrSlow)-TickRate))
			e.setAttr(AttrHaste, math.Max(0, e.AttrOr0(AttrHaste)-TickRate))
			if freeze := e.AttrOr0(AttrFreeze); freeze > 0 {
				// Frozen items make no progress this tick; leftover
				// tick time past the freeze is discarded.
				e.setAttr(AttrFreeze, math.Max(0, freeze-TickRate))
			} else {
				e.setAttr(AttrProgress, math.Min(e.AttrOr0(AttrProgress)+rate, e.AttrOr0(AttrCooldownMax)))
			}

			if e.AttrOr0(AttrProgress) == e.AttrOr0(AttrCooldownMax) {
				if e.AttrOr0(AttrAmmoMax) == 0 || e.AttrOr0(AttrAmmo) > 0 {
					fired = append(fired, firedCast{CardRef{playerID, index}, false})
					if mc, ok := e.Attr(AttrMulticast); ok {
						for i := 0; i < int(mc)-1; i++ {
							next.Multicast = append(next.Multicast, PendingCast{
								Tick:   next.Tick + (i+1)*multicastDelay,
								Player: playerID,
								Index:  index,
							})
						}
					}
				}
			}
		}
	}

	// Mature scheduled multicasts.
	if len(next.Multicast) > 0 {
		remaining := next.Multicast[:0]
		for _, mc := range next.Multicast {
			if mc.Tick <= next.Tick {
				fired = append(fired, firedCast{CardRef{mc.Player, mc.Index}, true})
			} else {
				remaining = append(remaining, mc)
			}
		}
		next.Multicast = remaining
	}

	// Dispatch fires: on-card-fired for the firing entry itself,
	// on-item-used for any ability whose subject resolves to it.
	var crittedList []CardRef
	for _, f := range fired {
		e := next.entry(f.ref)
		if !f.multicast && e.AttrOr0(AttrAmmoMax) > 0 {
			e.setAttr(AttrAmmo, e.AttrOr0(AttrAmmo)-1)
		}
		if f.multicast {
			r.log(gamelog.NewMulticastEvent(next.Tick, f.ref.Player, e.Title))
		} else {
			r.log(gamelog.NewFireEvent(next.Tick, f.ref.Player, e.Title))
		}

		err := next.forEachEntry(func(scanPlayer, scanIndex int, scanEntry *BoardEntry) error {
			scan := CardRef{scanPlayer, scanIndex}
			hasCritted := false
			err := forEachAbility(scanEntry, func(_ string, ab *Ability) error {
				switch {
				case ab.Trigger.Kind == TriggerCardFired && scan == f.ref:
					c, err := next.runAction(&ab.Action, ab.Prerequisites, f.ref, scan)
					if err != nil {
						return err
					}
					hasCritted = hasCritted || c
				case ab.Trigger.Kind == TriggerItemUsed:
					subjects, err := next.targetCards(ab.Trigger.Subject, f.ref, scan)
					if err != nil {
						return err
					}
					for _, subject := range subjects {
						if subject == f.ref {
							if _, err := next.runAction(&ab.Action, ab.Prerequisites, f.ref, scan); err != nil {
								return err
							}
						}
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if hasCritted {
				crittedList = append(crittedList, scan)
				r.log(gamelog.NewCritEvent(next.Tick, scan.Player, scanEntry.Title))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		if !f.multicast {
			next.entry(f.ref).setAttr(AttrProgress, 0)
		}
	}

	// Crit follow-ups.
	for _, crit := range crittedList {
		err := next.forEachEntry(func(scanPlayer, scanIndex int, scanEntry *BoardEntry) error {
			scan := CardRef{scanPlayer, scanIndex}
			return forEachAbility(scanEntry, func(_ string, ab *Ability) error {
				if ab.Trigger.Kind != TriggerCardCritted {
					return nil
				}
				_, err := next.runAction(&ab.Action, ab.Prerequisites, crit, scan)
				return err
			})
		})
		if err != nil {
			return nil, err
		}
	}

	// Sandstorm.
	if damage, ok := sandstormSchedule[next.Tick]; ok {
		r.log(gamelog.NewSandstormEvent(next.Tick, damage))
		for playerID, p := range next.Players {
			shield := p.Shield
			if nextShield := math.Max(0, shield-damage); nextShield > 0 {
				if err := next.setPlayerAttr(playerID, PlayerShield, nextShield, true); err != nil {
					return nil, err
				}
			} else {
				if err := next.setPlayerAttr(playerID, PlayerShield, 0, true); err != nil {
					return nil, err
				}
				if err := next.setPlayerAttr(playerID, PlayerHealth, p.Health-(damage-shield), true); err != nil {
					return nil, err
				}
			}
		}
	}

	// Death triggers for every player below zero.
	for playerID, p := range next.Players {
		if p.Health >= 0 {
			continue
		}
		r.log(gamelog.NewPlayerDiedEvent(next.Tick, playerID, p.Health))
		err := next.forEachEntry(func(scanPlayer, scanIndex int, scanEntry *BoardEntry) error {
			scan := CardRef{scanPlayer, scanIndex}
			return forEachAbility(scanEntry, func(_ string, ab *Ability) error {
				if ab.Trigger.Kind != TriggerPlayerDied {
					return nil
				}
				subjects, err := next.targetPlayers(ab.Trigger.Subject, playerID, scanPlayer)
				if err != nil {
					return err
				}
				for _, subjectID := range subjects {
					if subjectID == playerID {
						if _, err := next.runAction(&ab.Action, ab.Prerequisites, NoCard(subjectID), scan); err != nil {
							return err
						}
					}
				}
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
	}

	playing := true
	for _, p := range next.Players {
		if p.Health <= 0 {
			playing = false
		}
	}
	next.Playing = playing
	return next, nil
}
