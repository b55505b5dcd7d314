package scene

// Emitter delivers engine events to a Listener and guarantees the terminal
// event fires at most once until Reset. Engines embed it.
type Emitter struct {
	listener Listener
	ended    bool
	closed   bool
}

// Reset attaches l and re-arms the terminal event.
func (e *Emitter) Reset(l Listener) {
	e.listener = l
	e.ended = false
	e.closed = false
}

// Changed forwards a snapshot to the listener.
func (e *Emitter) Changed(s Snapshot) {
	if e.closed || e.listener == nil {
		return
	}
	e.listener.OnStateChanged(s)
}

// Finish emits the terminal score. Returns false if it was already emitted
// or the emitter is closed.
func (e *Emitter) Finish(score int) bool {
	if e.ended || e.closed {
		return false
	}
	e.ended = true
	if e.listener != nil {
		e.listener.OnTerminal(score)
	}
	return true
}

// Ended reports whether the terminal event has fired.
func (e *Emitter) Ended() bool {
	return e.ended
}

// Close silences the emitter. Used by Teardown.
func (e *Emitter) Close() {
	e.closed = true
	e.listener = nil
}
