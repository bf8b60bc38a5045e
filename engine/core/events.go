package core

// Event represents a simulation event
type Event struct {
	Type    EventType
	Tick    uint64
	Source  EntityID
	Target  EntityID
	Payload interface{}
}

type EventType uint16

const (
	EvtHostileSpawned EventType = iota
	EvtHostileEscaped // Payload: last position (mgl64.Vec3)
	EvtTargetAcquired
	EvtTargetLost
	EvtProjectileFired   // Payload: turret.Shot
	EvtProjectileExpired // Payload: last position (mgl64.Vec3)
	EvtMuzzleResolved
)

var eventNames = [...]string{
	EvtHostileSpawned:    "hostile_spawned",
	EvtHostileEscaped:    "hostile_escaped",
	EvtTargetAcquired:    "target_acquired",
	EvtTargetLost:        "target_lost",
	EvtProjectileFired:   "projectile_fired",
	EvtProjectileExpired: "projectile_expired",
	EvtMuzzleResolved:    "muzzle_resolved",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// EventBus dispatches events to listeners. It is not safe for concurrent
// use; emit from the simulation goroutine only
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch processes all queued events. Events emitted by handlers are
// delivered on the next Dispatch
func (eb *EventBus) Dispatch() {
	queue := eb.queue
	eb.queue = nil
	for _, e := range queue {
		if handlers, ok := eb.listeners[e.Type]; ok {
			for _, h := range handlers {
				h(e)
			}
		}
	}
}
