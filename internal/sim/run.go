package sim

import (
	gamelog "github.com/peterkuimelis/cardstorm/internal/log"
)

// Unbounded lets Run tick until the fight resolves on its own. The
// sandstorm end tick guarantees termination.
const Unbounded = -1

// Runner drives a fight tick by tick, emitting events along the way.
type Runner struct {
	Logger gamelog.EventLogger
}

func (r *Runner) log(e gamelog.GameEvent) {
	if r.Logger != nil {
		r.Logger.Log(e)
	}
}

// Run advances the fight until it resolves, the sandstorm end tick is
// reached, or maxTicks steps have elapsed. The returned history starts
// with the untouched initial state; earlier states are never mutated by
// later ticks.
func (r *Runner) Run(initial *GameState, maxTicks int) ([]*GameState, error) {
	states := []*GameState{initial}
	gs := initial
	for i := 0; maxTicks < 0 || i < maxTicks; i++ {
		next, err := r.step(gs)
		if err != nil {
			return states, err
		}
		states = append(states, next)
		gs = next
		if !gs.Playing || gs.Tick >= SandstormEndTick {
			break
		}
	}
	r.log(gamelog.NewFightEndEvent(gs.Tick, Result(gs)))
	return states, nil
}

// Result describes the outcome of a finished (or interrupted) fight.
func Result(gs *GameState) string {
	if gs.Playing {
		return "Time limit reached"
	}
	p1Alive := gs.Players[0].Health > 0
	p2Alive := gs.Players[1].Health > 0
	switch {
	case p1Alive && !p2Alive:
		return "P1 wins"
	case p2Alive && !p1Alive:
		return "P2 wins"
	default:
		return "Draw"
	}
}
