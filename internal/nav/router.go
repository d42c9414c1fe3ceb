package nav

// Entry is one history record.
type Entry struct {
	Route  Route
	Params Params

	payload  Payload
	consumed bool
}

// Router is the in-process navigation history. It is owned by the UI
// goroutine and is not safe for concurrent use.
type Router struct {
	stack []Entry
}

// NewRouter starts history at route.
func NewRouter(route Route) *Router {
	return &Router{stack: []Entry{{Route: route}}}
}

// Current returns the active entry.
func (r *Router) Current() Entry {
	return r.stack[len(r.stack)-1]
}

// Depth is the number of history entries.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Navigate pushes a new entry carrying payload.
func (r *Router) Navigate(route Route, params Params, payload Payload) {
	r.stack = append(r.stack, Entry{Route: route, Params: params, payload: payload})
}

// Replace swaps the active entry without growing history.
func (r *Router) Replace(route Route, params Params, payload Payload) {
	r.stack[len(r.stack)-1] = Entry{Route: route, Params: params, payload: payload}
}

// Redirect drops all history and lands on route. It is used for forced
// sign-out.
func (r *Router) Redirect(route Route) {
	r.stack = []Entry{{Route: route}}
}

// Back pops the active entry. The revealed entry's payload is armed again
// since it is being re-entered. It returns false at the root.
func (r *Router) Back() bool {
	if len(r.stack) <= 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.stack[len(r.stack)-1].consumed = false
	return true
}

// Return leaves the active entry for target. When the previous entry is the
// target route it is re-entered with the target's params and payload;
// otherwise the active entry is replaced.
func (r *Router) Return(target Target) {
	entry := Entry{Route: target.Route, Params: target.Params, payload: target.Payload}
	if n := len(r.stack); n > 1 && r.stack[n-2].Route == target.Route {
		r.stack = r.stack[:n-1]
		r.stack[n-2] = entry
		return
	}
	r.stack[len(r.stack)-1] = entry
}

// GoBack follows the back target of the active entry's payload, falling
// back to a history pop when no origin is present.
func (r *Router) GoBack() bool {
	if target, ok := BackTarget(r.Current().payload); ok {
		r.Return(target)
		return true
	}
	return r.Back()
}

// Peek returns the active payload without consuming it.
func (r *Router) Peek() Payload {
	return r.Current().payload
}

// Take returns the active payload once per arrival. A restore payload is
// settled once taken: its offset applies to this arrival only, so a later
// Back to the entry keeps wherever the view was left.
func (r *Router) Take() (Payload, bool) {
	top := &r.stack[len(r.stack)-1]
	if top.consumed || top.payload == nil {
		return nil, false
	}
	p := top.payload
	top.consumed = true
	top.payload = settle(p)
	return p, true
}

// settle drops the single-use part of a restore payload and keeps what
// the back wiring still needs.
func settle(p Payload) Payload {
	switch v := p.(type) {
	case Restore, RestoreDeck:
		return nil
	case RestoreMood:
		return v.Entry
	}
	return p
}
