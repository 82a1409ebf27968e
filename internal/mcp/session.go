package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	gamelog "github.com/peterkuimelis/cardstorm/internal/log"
	"github.com/peterkuimelis/cardstorm/internal/sim"
	cardstormweb "github.com/peterkuimelis/cardstorm/internal/web"
)

// db is the card and encounter database, set by main.
var db *sim.Database

// SetDatabase sets the database all tools operate on.
func SetDatabase(d *sim.Database) {
	db = d
}

// RunSession is one completed simulation kept for replay paging.
type RunSession struct {
	ID     string
	Sides  [2]sim.SideConfig
	States []*sim.GameState
	Events []gamelog.GameEvent
	Result string
}

var (
	sessionsMu sync.Mutex
	sessions   = make(map[string]*RunSession)
)

// startRun builds and runs a fight, stores the history under a fresh id,
// and returns the session.
func startRun(sides [2]sim.SideConfig, maxTicks int) (*RunSession, error) {
	gs, err := sim.NewInitialState(db, sides)
	if err != nil {
		return nil, err
	}

	logger := gamelog.NewMemoryLogger()
	runner := &sim.Runner{Logger: logger}
	states, err := runner.Run(gs, maxTicks)
	if err != nil {
		return nil, err
	}

	sess := &RunSession{
		ID:     uuid.NewString(),
		Sides:  sides,
		States: states,
		Events: logger.Events(),
		Result: sim.Result(states[len(states)-1]),
	}

	sessionsMu.Lock()
	sessions[sess.ID] = sess
	sessionsMu.Unlock()

	return sess, nil
}

// getSession looks up a stored run by id.
func getSession(id string) (*RunSession, error) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	sess, ok := sessions[id]
	if !ok {
		return nil, fmt.Errorf("no run with id %q", id)
	}
	return sess, nil
}

// stateAtTick returns the stored state closest to the requested tick,
// clamped to the run's history. A negative tick means the final state.
func stateAtTick(sess *RunSession, tick int) *sim.GameState {
	if tick < 0 {
		return sess.States[len(sess.States)-1]
	}
	idx := tick / sim.TickRate
	if idx >= len(sess.States) {
		idx = len(sess.States) - 1
	}
	return sess.States[idx]
}

// eventViews converts logged events into their JSON form.
func eventViews(events []gamelog.GameEvent) []cardstormweb.EventViewJSON {
	views := make([]cardstormweb.EventViewJSON, 0, len(events))
	for _, e := range events {
		views = append(views, cardstormweb.EventViewJSON{
			Tick:    e.Tick,
			Player:  e.Player,
			Type:    e.Type.String(),
			Card:    e.Card,
			Details: e.Details,
		})
	}
	return views
}

// respondJSON marshals a tool response to a JSON string.
func respondJSON(resp any) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
