package battle

// EventType classifies a narrated battle event.
type EventType string

const (
	EventDamageMove      EventType = "DAMAGE_MOVE"
	EventChampionFainted EventType = "CHAMPION_FAINTED"
	EventBattleEnded     EventType = "BATTLE_ENDED"
)

// Event is one narrated entry in the battle log.
type Event struct {
	// Turn is the 1-based tick on which the event happened; outcome events
	// carry the final tick.
	Turn        int
	Type        EventType
	Actor       string
	Description string
}

// Outcome is the terminal classification of a battle.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeWin
	OutcomeDraw
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "unknown"
	}
}
