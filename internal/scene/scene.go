// Package scene defines the boundary between algorithm scene engines and the
// presentation layer that draws them.
//
// Engines contain pure state-machine logic. The presentation owns rendering,
// physics and key polling; it reports what the player did as Input values and
// redraws from the Snapshot an engine emits after every transition.
package scene

import "time"

// Kind discriminates the algorithm a scene teaches.
type Kind string

const (
	KindFactorial  Kind = "factorial"
	KindFibonacci  Kind = "fibonacci"
	KindBubbleSort Kind = "bubblesort"
)

// String returns the kind identifier.
func (k Kind) String() string {
	return string(k)
}

// Phase is the coarse state of a scene's state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"       // not started
	PhaseDescending Phase = "descending" // factorial: walking down the call stack
	PhaseAtBase     Phase = "at_base"    // factorial: base case collected
	PhaseAscending  Phase = "ascending"  // factorial: returning up the call stack
	PhaseExploring  Phase = "exploring"  // fibonacci: collecting leaves
	PhasePlaying    Phase = "playing"    // bubble sort: shifting and swapping
	PhaseFailed     Phase = "failed"     // bubble sort: attempts exhausted, reset pending
	PhaseComplete   Phase = "complete"   // terminal
)

// Engine is implemented by every algorithm scene.
//
// An engine is owned by exactly one session. Start must be called before any
// input is accepted; Teardown cancels every pending timed transition so a
// destroyed scene is never mutated.
type Engine interface {
	// Kind returns the algorithm the engine implements.
	Kind() Kind

	// Start resets the scene to its initial state and begins emitting
	// events to l. Calling Start again restarts the scene.
	Start(l Listener)

	// Apply feeds one player input to the state machine.
	// Returns false when the input does not apply to the current state;
	// such inputs change nothing.
	Apply(in Input) bool

	// Update advances scheduled transitions and positional timers by dt.
	Update(dt time.Duration)

	// Snapshot returns the renderable state.
	Snapshot() Snapshot

	// Done reports whether the terminal score has been emitted.
	Done() bool

	// Teardown stops the scene. No events are emitted afterwards.
	Teardown()
}

// Snapshot is the renderable view of a scene. Concrete types live in the
// game packages; Kind tells the presentation which one it holds.
type Snapshot interface {
	Kind() Kind
}

// MistakeCounter is implemented by snapshots of scenes that count failed
// attempts made since Start.
type MistakeCounter interface {
	Mistakes() int
}

// Listener receives engine events.
type Listener interface {
	// OnStateChanged is called after every transition.
	OnStateChanged(s Snapshot)

	// OnTerminal is called exactly once per scene lifetime with the final score.
	OnTerminal(score int)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are ignored.
type ListenerFuncs struct {
	StateChanged func(Snapshot)
	Terminal     func(score int)
}

// OnStateChanged implements Listener.
func (f ListenerFuncs) OnStateChanged(s Snapshot) {
	if f.StateChanged != nil {
		f.StateChanged(s)
	}
}

// OnTerminal implements Listener.
func (f ListenerFuncs) OnTerminal(score int) {
	if f.Terminal != nil {
		f.Terminal(score)
	}
}

// Frame is one line of the visualised call stack.
type Frame struct {
	Text   string
	Active bool // the frame currently executing
	Return bool // the frame has returned a value
}
