package engagement

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
// Sends never block the controller; a slow subscriber loses events.
type Subscription struct {
	Events       <-chan Event
	StateChanged <-chan StateChange
	Done         <-chan struct{}

	eventCh chan Event
	stateCh chan StateChange
	doneCh  chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		eventCh: make(chan Event, eventBufferSize),
		stateCh: make(chan StateChange, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.Events = s.eventCh
	s.StateChanged = s.stateCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendEvent(e Event) {
	select {
	case s.eventCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
	}
}
