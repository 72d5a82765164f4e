package services

import (
	"time"

	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

type systemClock struct{}

// NewSystemClock returns the wall clock.
func NewSystemClock() portssvc.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// noopTracker is used when product analytics are not configured.
type noopTracker struct{}

func (noopTracker) Track(string, string, map[string]any) {}
