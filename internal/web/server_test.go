package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/peterkuimelis/cardstorm/internal/sim"
)

const testCardsYAML = `
cards:
  torch:
    title: Torch
    kind: item
    size: small
    tags: [Weapon]
    abilities:
      a0:
        trigger: {kind: card_fired}
        action:
          kind: damage
          target: {kind: player, mode: opponent}
    tooltips:
      - "Deal {ability.a0} damage."
    tiers:
      - name: bronze
        attributes: {CooldownMax: 1000, DamageAmount: 5}
        ability_ids: [a0]
        tooltip_ids: [0]
`

const testEncountersYAML = `
days:
  - day: 1
    groups:
      - name: Torchbearer
        health: 50
        items:
          - card: torch
            tier: bronze
`

func testServer(t *testing.T) *Server {
	t.Helper()
	cards, err := sim.ParseCards([]byte(testCardsYAML))
	if err != nil {
		t.Fatal(err)
	}
	days, err := sim.ParseEncounters([]byte(testEncountersYAML))
	if err != nil {
		t.Fatal(err)
	}
	s := &Server{
		db:  &sim.Database{Cards: cards, Days: days},
		mux: http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func TestAPICards(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/api/cards", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cards []CardInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &cards); err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 || cards[0].ID != "torch" || cards[0].Title != "Torch" {
		t.Errorf("cards = %+v", cards)
	}
	if len(cards[0].Tiers) != 1 || cards[0].Tiers[0] != "bronze" {
		t.Errorf("tiers = %v", cards[0].Tiers)
	}
}

func TestAPIMonsters(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/api/monsters", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var monsters []MonsterInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &monsters); err != nil {
		t.Fatal(err)
	}
	if len(monsters) != 1 || monsters[0].Name != "Torchbearer" || monsters[0].Day != 1 {
		t.Errorf("monsters = %+v", monsters)
	}
	if len(monsters[0].Items) != 1 || monsters[0].Items[0] != "torch (bronze)" {
		t.Errorf("items = %v", monsters[0].Items)
	}
}

func TestBuildStateView(t *testing.T) {
	s := testServer(t)

	gs, err := sim.NewInitialState(s.db, [2]sim.SideConfig{
		{Monster: "Torchbearer"},
		{Monster: "Torchbearer"},
	})
	if err != nil {
		t.Fatal(err)
	}

	sv := BuildStateView(gs)
	if sv.Tick != 0 || !sv.Playing {
		t.Errorf("view = %+v", sv)
	}
	for i, pv := range sv.Players {
		if pv.Health != 50 || pv.HealthMax != 50 {
			t.Errorf("player %d health = %v/%v", i, pv.Health, pv.HealthMax)
		}
		if len(pv.Board) != 1 || pv.Board[0].Title != "Torch" {
			t.Fatalf("player %d board = %+v", i, pv.Board)
		}
		if pv.Board[0].CooldownMax != 1000 {
			t.Errorf("cooldown = %v", pv.Board[0].CooldownMax)
		}
		if len(pv.Board[0].Tooltips) != 1 || pv.Board[0].Tooltips[0] != "Deal 5 damage." {
			t.Errorf("tooltips = %v", pv.Board[0].Tooltips)
		}
	}
}

func TestRunReplay(t *testing.T) {
	s := testServer(t)

	sides := [2]sim.SideConfig{{Monster: "Torchbearer"}, {Monster: "Torchbearer"}}
	states, events, result, err := runReplay(s.db, sides, sim.Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	// Mirror boards trade 5 damage per second until both drop together.
	if result != "Draw" {
		t.Errorf("result = %q", result)
	}
	if len(states) < 2 {
		t.Fatalf("history too short: %d", len(states))
	}
	if states[0].Tick != 0 || states[0].Players[0].Health != 50 {
		t.Error("initial state missing from history")
	}
	if len(events) == 0 {
		t.Error("no events logged")
	}
}
