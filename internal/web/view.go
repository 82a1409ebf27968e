package web

import (
	"log"
	"sort"

	"github.com/peterkuimelis/cardstorm/internal/sim"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Kind     string   `json:"kind"`
	Size     string   `json:"size,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Tiers    []string `json:"tiers,omitempty"`
	Tooltips []string `json:"tooltips,omitempty"`
}

// MonsterInfo is the JSON representation of an encounter monster for the
// /api/monsters endpoint.
type MonsterInfo struct {
	Day    int      `json:"day"`
	Name   string   `json:"name"`
	Health float64  `json:"health"`
	Items  []string `json:"items"`
	Skills []string `json:"skills,omitempty"`
}

// CardList builds the card listing sorted by id.
func CardList(db *sim.Database) []CardInfo {
	var cards []CardInfo
	for id, c := range db.Cards {
		ci := CardInfo{
			ID:       id,
			Title:    c.Title,
			Kind:     c.Kind.String(),
			Size:     c.Size.String(),
			Tags:     c.Tags,
			Tooltips: c.Tooltips,
		}
		for _, t := range c.Tiers {
			ci.Tiers = append(ci.Tiers, t.Name)
		}
		cards = append(cards, ci)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}

// MonsterList flattens the encounter days into a monster listing.
func MonsterList(db *sim.Database) []MonsterInfo {
	var monsters []MonsterInfo
	for _, day := range db.Days {
		for _, m := range day.Groups {
			mi := MonsterInfo{
				Day:    day.Day,
				Name:   m.Name,
				Health: m.Health,
			}
			for _, ref := range m.Items {
				mi.Items = append(mi.Items, refLabel(ref))
			}
			for _, ref := range m.Skills {
				mi.Skills = append(mi.Skills, refLabel(ref))
			}
			monsters = append(monsters, mi)
		}
	}
	return monsters
}

func refLabel(ref sim.EntryRef) string {
	label := ref.Card + " (" + ref.Tier + ")"
	if ref.Enchantment != "" {
		label = ref.Enchantment + " " + label
	}
	return label
}

// StateView is the JSON frame streamed once per tick over the replay
// websocket.
type StateView struct {
	Tick    int           `json:"tick"`
	Playing bool          `json:"playing"`
	Players [2]PlayerView `json:"players"`
}

// PlayerView shows one side of the fight.
type PlayerView struct {
	Health      float64     `json:"health"`
	HealthMax   float64     `json:"health_max"`
	HealthRegen float64     `json:"health_regen,omitempty"`
	Shield      float64     `json:"shield,omitempty"`
	Burn        float64     `json:"burn,omitempty"`
	Poison      float64     `json:"poison,omitempty"`
	Board       []EntryView `json:"board"`
}

// EntryView describes a single board entry.
type EntryView struct {
	Title       string   `json:"title"`
	Kind        string   `json:"kind"`
	Tier        string   `json:"tier,omitempty"`
	Progress    float64  `json:"progress,omitempty"`
	CooldownMax float64  `json:"cooldown_max,omitempty"`
	Ammo        float64  `json:"ammo,omitempty"`
	AmmoMax     float64  `json:"ammo_max,omitempty"`
	Freeze      float64  `json:"freeze,omitempty"`
	Slow        float64  `json:"slow,omitempty"`
	Haste       float64  `json:"haste,omitempty"`
	Disabled    bool     `json:"disabled,omitempty"`
	Tooltips    []string `json:"tooltips,omitempty"`
}

// EventViewJSON is a single logged event in JSON form.
type EventViewJSON struct {
	Tick    int    `json:"tick"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// BuildStateView projects a game state into its streamed JSON form.
// Tooltips are expanded against the live entry attributes, so a frame
// mid-fight reflects runtime buffs.
func BuildStateView(gs *sim.GameState) *StateView {
	sv := &StateView{
		Tick:    gs.Tick,
		Playing: gs.Playing,
	}
	for i, p := range gs.Players {
		pv := PlayerView{
			Health:      p.Health,
			HealthMax:   p.HealthMax,
			HealthRegen: p.HealthRegen,
			Shield:      p.Shield,
			Burn:        p.Burn,
			Poison:      p.Poison,
		}
		for j, e := range p.Board {
			ev := EntryView{
				Title:       e.Title,
				Kind:        e.Kind.String(),
				Tier:        e.Tier,
				Progress:    e.AttrOr0(sim.AttrProgress),
				CooldownMax: e.AttrOr0(sim.AttrCooldownMax),
				Ammo:        e.AttrOr0(sim.AttrAmmo),
				AmmoMax:     e.AttrOr0(sim.AttrAmmoMax),
				Freeze:      e.AttrOr0(sim.AttrFreeze),
				Slow:        e.AttrOr0(sim.AttrSlow),
				Haste:       e.AttrOr0(sim.AttrHaste),
				Disabled:    e.Disabled,
			}
			tooltips, err := sim.Tooltips(gs, i, j)
			if err != nil {
				log.Printf("Warning: could not expand tooltips for %s: %v", e.Title, err)
			} else {
				ev.Tooltips = tooltips
			}
			pv.Board = append(pv.Board, ev)
		}
		sv.Players[i] = pv
	}
	return sv
}
