package events

// Subscriber receives every published event. Implementations adapt the
// stream to one transport and must not block.
type Subscriber interface {
	Send(Event) error
	Close() error
}
