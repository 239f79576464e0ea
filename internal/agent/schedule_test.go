package agent

import (
	"testing"
	"time"
)

func TestSchedule(t *testing.T) {
	s := NewSchedule()

	a1 := &Agent{ID: 100001}
	a2 := &Agent{ID: 100002}
	a3 := &Agent{ID: 100003}

	s.Set(a1, t0.Add(10*time.Millisecond))
	s.Set(a2, t0.Add(5*time.Millisecond))
	s.Set(a3, t0.Add(20*time.Millisecond))

	if s.Len() != 3 {
		t.Errorf("Expected length 3, got %d", s.Len())
	}

	if _, ok := s.PopDue(t0); ok {
		t.Fatal("nothing is due at t0")
	}

	// Первым - a2 (5ms)
	first, ok := s.PopDue(t0.Add(time.Second))
	if !ok || first != a2 {
		t.Fatalf("Expected a2, got %+v", first)
	}

	// a1 переносится на 30ms, вершиной становится a3
	s.Set(a1, t0.Add(30*time.Millisecond))
	if a1.NextAt != t0.Add(30*time.Millisecond) {
		t.Errorf("NextAt was not updated: %v", a1.NextAt)
	}

	second, _ := s.PopDue(t0.Add(time.Second))
	if second != a3 {
		t.Errorf("Expected a3 (20ms), got %d", second.ID)
	}
	third, _ := s.PopDue(t0.Add(time.Second))
	if third != a1 {
		t.Errorf("Expected a1 (30ms), got %d", third.ID)
	}
	if s.Len() != 0 {
		t.Errorf("queue should be empty, got %d", s.Len())
	}
}

func TestSchedule_Remove(t *testing.T) {
	s := NewSchedule()
	a1 := &Agent{ID: 100001}
	a2 := &Agent{ID: 100002}

	s.Set(a1, t0)
	s.Set(a2, t0)
	s.Remove(a1)
	s.Remove(a1)

	got, ok := s.PopDue(t0)
	if !ok || got != a2 {
		t.Fatalf("Expected a2 after removing a1, got %+v", got)
	}
	if _, ok := s.PopDue(t0); ok {
		t.Error("removed agent is still scheduled")
	}
}
