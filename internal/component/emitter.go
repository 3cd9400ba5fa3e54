package component

// Event is what a component emits. Component is the emitting instance and
// Detail the structured payload for the event name.
type Event struct {
	Name      string
	Component any
	Detail    any
}

type subscription struct {
	fn      func(Event)
	removed bool
}

// Emitter is a per-instance, synchronous event channel. Handlers run in
// subscription order. The zero value is ready to use.
type Emitter struct {
	subs map[string][]*subscription
}

// On subscribes fn to name and returns a function that removes it.
func (e *Emitter) On(name string, fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	if e.subs == nil {
		e.subs = make(map[string][]*subscription)
	}
	s := &subscription{fn: fn}
	e.subs[name] = append(e.subs[name], s)
	return func() {
		if s.removed {
			return
		}
		s.removed = true
		list := e.subs[name]
		for i, have := range list {
			if have == s {
				e.subs[name] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Emit calls every live handler for ev.Name.
func (e *Emitter) Emit(ev Event) {
	for _, s := range append([]*subscription(nil), e.subs[ev.Name]...) {
		if !s.removed {
			s.fn(ev)
		}
	}
}

// Count reports the number of handlers for name.
func (e *Emitter) Count(name string) int { return len(e.subs[name]) }
