// Package clock supplies the current time to the stores so tests can pin it.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// System reads the wall clock, in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Stepping starts at Start and advances by Step on every call to Now.
type Stepping struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{next: start, step: step}
}

func (s *Stepping) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.next
	s.next = s.next.Add(s.step)
	return t
}

// Set moves the clock so the next call to Now returns t.
func (s *Stepping) Set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = t
}
