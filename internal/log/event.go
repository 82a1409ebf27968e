package log

// EventType enumerates all observable fight events.
type EventType int

const (
	EventFightStart EventType = iota
	EventFire
	EventMulticast
	EventCrit
	EventPoisonTick
	EventBurnTick
	EventSandstorm
	EventPlayerDied
	EventFightEnd
)

func (e EventType) String() string {
	switch e {
	case EventFightStart:
		return "FightStart"
	case EventFire:
		return "Fire"
	case EventMulticast:
		return "Multicast"
	case EventCrit:
		return "Crit"
	case EventPoisonTick:
		return "PoisonTick"
	case EventBurnTick:
		return "BurnTick"
	case EventSandstorm:
		return "Sandstorm"
	case EventPlayerDied:
		return "PlayerDied"
	case EventFightEnd:
		return "FightEnd"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a fight.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Tick    int       // simulation time in milliseconds
	Player  int       // affected player (0 or 1, -1 if not applicable)
	Type    EventType // event type
	Card    string    // card title (if applicable)
	Details string    // human-readable detail string
}
