package nav

// Restorer applies an incoming scroll offset once, after the destination's
// content exists.
type Restorer struct {
	offset int
	armed  bool
}

// Arm records the payload's offset for the next Ready. Payloads without an
// offset disarm it.
func (r *Restorer) Arm(p Payload) {
	r.offset, r.armed = 0, false
	if p == nil {
		return
	}
	if off, ok := p.Scroll(); ok {
		r.offset, r.armed = off, true
	}
}

// Pending reports whether a restore is waiting for content.
func (r *Restorer) Pending() bool {
	return r.armed
}

// Ready is called on every render with the number of rows painted. It
// returns the offset to scroll to exactly once, on the first call with
// content, clamped to the last row.
func (r *Restorer) Ready(contentLen int) (int, bool) {
	if !r.armed || contentLen <= 0 {
		return 0, false
	}
	r.armed = false
	off := r.offset
	if off >= contentLen {
		off = contentLen - 1
	}
	if off < 0 {
		off = 0
	}
	return off, true
}
