package chess

type EventType string

const (
	EventMoveApplied       EventType = "move_applied"
	EventTurnChanged       EventType = "turn_changed"
	EventRerolled          EventType = "rerolled"
	EventBonusTriggered    EventType = "bonus_triggered"
	EventPromotionRequired EventType = "promotion_required"
	EventGameOver          EventType = "game_over"
)

// Event tells the caller what a transition did. Only the fields relevant
// to Type are set.
type Event struct {
	Type   EventType  `json:"type"`
	Player Color      `json:"player,omitempty"`
	Move   *Move      `json:"move,omitempty"`
	Pieces Allocation `json:"pieces,omitempty"`
	// Piece is the tripled type for bonus events.
	Piece  PieceType `json:"piece,omitempty"`
	From   *Position `json:"from,omitempty"`
	To     *Position `json:"to,omitempty"`
	Winner Color     `json:"winner,omitempty"`
	Reason EndReason `json:"reason,omitempty"`
}

// Outcome is the state after a transition plus the events it produced, in
// order.
type Outcome struct {
	State  GameState `json:"state"`
	Events []Event   `json:"events"`
}

// Has reports whether the outcome contains an event of type t.
func (o Outcome) Has(t EventType) bool {
	_, ok := o.Find(t)
	return ok
}

// Find returns the first event of type t.
func (o Outcome) Find(t EventType) (Event, bool) {
	for _, ev := range o.Events {
		if ev.Type == t {
			return ev, true
		}
	}
	return Event{}, false
}
