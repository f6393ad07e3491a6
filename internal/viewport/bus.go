package viewport

// PointerBus stands in for document-level pointer listeners.  Pointer
// moves and releases are delivered here no matter where on the page they
// happen, so a drag that leaves the map surface keeps tracking.  Gestures
// register on start and must cancel their registration on end.
type PointerBus struct {
	listeners map[int]pointerListener
	next      int
}

type pointerListener struct {
	move func(Point)
	up   func()
}

// NewPointerBus returns an empty bus.
func NewPointerBus() *PointerBus {
	return &PointerBus{listeners: make(map[int]pointerListener)}
}

// Listen registers move and up callbacks.  The returned cancel func is
// idempotent.
func (b *PointerBus) Listen(move func(Point), up func()) (cancel func()) {
	id := b.next
	b.next++
	b.listeners[id] = pointerListener{move: move, up: up}
	return func() { delete(b.listeners, id) }
}

// Move delivers a pointer move to every listener.
func (b *PointerBus) Move(p Point) {
	for _, l := range b.snapshot() {
		if l.move != nil {
			l.move(p)
		}
	}
}

// Up delivers a pointer release to every listener.
func (b *PointerBus) Up() {
	for _, l := range b.snapshot() {
		if l.up != nil {
			l.up()
		}
	}
}

// Listeners returns the number of live registrations.
func (b *PointerBus) Listeners() int { return len(b.listeners) }

// listeners may deregister while being called
func (b *PointerBus) snapshot() []pointerListener {
	out := make([]pointerListener, 0, len(b.listeners))
	for _, l := range b.listeners {
		out = append(out, l)
	}
	return out
}
