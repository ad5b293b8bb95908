package domain

// EventKind discriminates the two message variants emitted by the scheduler.
type EventKind int

const (
	// EventItem carries one processed item, accepted or rejected.
	EventItem EventKind = iota
	// EventReport carries the digest text generated at the end of a cycle.
	EventReport
)

// Event is the unit handed from the scheduler worker to the consumer loop.
type Event struct {
	Kind   EventKind
	Item   EnrichedItem
	Report string
}
