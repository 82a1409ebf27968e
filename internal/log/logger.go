package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging fight events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("%6.1fs | %s", float64(e.Tick)/1000, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewFightStartEvent() GameEvent {
	return GameEvent{
		Tick:    0,
		Player:  -1,
		Type:    EventFightStart,
		Details: "=== Fight start ===",
	}
}

func NewFireEvent(tick, player int, cardTitle string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Player:  player,
		Type:    EventFire,
		Card:    cardTitle,
		Details: fmt.Sprintf("%s fires %s", playerName(player), cardTitle),
	}
}

func NewMulticastEvent(tick, player int, cardTitle string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Player:  player,
		Type:    EventMulticast,
		Card:    cardTitle,
		Details: fmt.Sprintf("%s multicasts %s", playerName(player), cardTitle),
	}
}

func NewCritEvent(tick, player int, cardTitle string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Player:  player,
		Type:    EventCrit,
		Card:    cardTitle,
		Details: fmt.Sprintf("%s crits with %s", playerName(player), cardTitle),
	}
}

func NewPoisonTickEvent(tick, player int, stacks float64) GameEvent {
	return GameEvent{
		Tick:    tick,
		Player:  player,
		Type:    EventPoisonTick,
		Details: fmt.Sprintf("%s takes %g poison damage", playerName(player), stacks),
	}
}

func NewBurnTickEvent(tick, player int, stacks float64) GameEvent {
	return GameEvent{
		Tick:    tick,
		Player:  player,
		Type:    EventBurnTick,
		Details: fmt.Sprintf("%s burns for %g", playerName(player), stacks),
	}
}

func NewSandstormEvent(tick int, damage float64) GameEvent {
	return GameEvent{
		Tick:    tick,
		Player:  -1,
		Type:    EventSandstorm,
		Details: fmt.Sprintf("sandstorm deals %g to all players", damage),
	}
}

func NewPlayerDiedEvent(tick, player int, health float64) GameEvent {
	return GameEvent{
		Tick:    tick,
		Player:  player,
		Type:    EventPlayerDied,
		Details: fmt.Sprintf("%s dies at %g health", playerName(player), health),
	}
}

func NewFightEndEvent(tick int, result string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Player:  -1,
		Type:    EventFightEnd,
		Details: fmt.Sprintf("=== %s ===", result),
	}
}
