package ecs

// EventType names an event payload.
type EventType string

const (
	EventCollision EventType = "collision"
	EventGoal      EventType = "goal"
	EventMatchOver EventType = "match_over"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// CollisionEvent is emitted once per struck collider per tick.
type CollisionEvent struct {
	Ball     Entity
	Collider Entity
	// Side is a collision.Side value; kept as int so ecs does not depend on the resolver.
	Side int
}

// GoalEvent is emitted when a player scores.
type GoalEvent struct {
	Scorer int
	Score1 int
	Score2 int
}

// EventQueue is a FIFO of events produced during one scheduler run. Every system later in the
// same run can read them; the scheduler drops them at the end of the run.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Items returns the pending events without consuming them.
func (q *EventQueue) Items() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// OfType returns the pending events of one type.
func (q *EventQueue) OfType(t EventType) []Event {
	if q == nil {
		return nil
	}
	var out []Event
	for _, evt := range q.items {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
