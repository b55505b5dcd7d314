package scene

import "testing"

type recordingSnapshot struct{}

func (recordingSnapshot) Kind() Kind { return KindFactorial }

func TestEmitterTerminalOnce(t *testing.T) {
	var e Emitter
	scores := []int{}
	e.Reset(ListenerFuncs{Terminal: func(s int) { scores = append(scores, s) }})

	if !e.Finish(100) {
		t.Fatal("first Finish should emit")
	}
	if e.Finish(50) {
		t.Error("second Finish should not emit")
	}
	if len(scores) != 1 || scores[0] != 100 {
		t.Errorf("expected one terminal event with 100, got %v", scores)
	}
	if !e.Ended() {
		t.Error("Ended should be true after Finish")
	}
}

func TestEmitterResetRearms(t *testing.T) {
	var e Emitter
	count := 0
	l := ListenerFuncs{Terminal: func(int) { count++ }}
	e.Reset(l)
	e.Finish(1)
	e.Reset(l)
	e.Finish(2)
	if count != 2 {
		t.Errorf("expected 2 terminal events across resets, got %d", count)
	}
}

func TestEmitterClosedIsSilent(t *testing.T) {
	var e Emitter
	changed, ended := 0, 0
	e.Reset(ListenerFuncs{
		StateChanged: func(Snapshot) { changed++ },
		Terminal:     func(int) { ended++ },
	})
	e.Changed(recordingSnapshot{})
	e.Close()
	e.Changed(recordingSnapshot{})
	if e.Finish(10) {
		t.Error("Finish after Close should not emit")
	}
	if changed != 1 || ended != 0 {
		t.Errorf("expected 1 change and 0 terminal events, got %d and %d", changed, ended)
	}
}

func TestNilListenerFieldsIgnored(t *testing.T) {
	var e Emitter
	e.Reset(ListenerFuncs{})
	e.Changed(recordingSnapshot{})
	if !e.Finish(5) {
		t.Error("Finish should report emission even with nil callbacks")
	}
}
