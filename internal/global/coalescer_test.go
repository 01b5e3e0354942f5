package global

import (
	"testing"
	"time"
)

func TestCoalescerSingleNote(t *testing.T) {
	ch := make(chan RefreshTrigger, 1)
	c := NewCoalescer(20*time.Millisecond, ch)
	defer c.Stop()

	c.Note()

	select {
	case trigger := <-ch:
		if trigger.Changes != 1 {
			t.Errorf("Changes = %d, want 1", trigger.Changes)
		}
	case <-time.After(time.Second):
		t.Fatal("no trigger emitted")
	}
}

func TestCoalescerBatchesRapidNotes(t *testing.T) {
	ch := make(chan RefreshTrigger, 1)
	c := NewCoalescer(50*time.Millisecond, ch)
	defer c.Stop()

	c.Note()
	c.Note()
	c.Note()

	select {
	case trigger := <-ch:
		if trigger.Changes != 3 {
			t.Errorf("Changes = %d, want 3 notes folded into one trigger", trigger.Changes)
		}
	case <-time.After(time.Second):
		t.Fatal("no trigger emitted")
	}

	// The burst produced exactly one trigger.
	select {
	case trigger := <-ch:
		t.Errorf("unexpected second trigger: %+v", trigger)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCoalescerStop(t *testing.T) {
	ch := make(chan RefreshTrigger, 1)
	c := NewCoalescer(20*time.Millisecond, ch)

	c.Note()
	c.Stop()

	select {
	case trigger := <-ch:
		t.Errorf("trigger after Stop: %+v", trigger)
	case <-time.After(100 * time.Millisecond):
	}
}
