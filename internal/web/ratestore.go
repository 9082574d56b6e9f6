package web

import (
	"sync"

	"github.com/restoration-tools/drycost/internal/estimate"
)

// RateStore holds the rate configuration estimates run against. Reads take
// a snapshot so an in-flight batch keeps one consistent set of rates even
// if an update lands mid-run.
type RateStore struct {
	mu      sync.RWMutex
	current estimate.RateConfiguration
}

// NewRateStore seeds a store. The seed is assumed valid; callers seed with
// estimate.DefaultRates or a previously validated configuration.
func NewRateStore(seed estimate.RateConfiguration) *RateStore {
	return &RateStore{current: seed}
}

// Snapshot returns a copy of the current rates.
func (s *RateStore) Snapshot() estimate.RateConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace validates cfg and installs it as the current configuration.
// On validation failure the previous configuration stays in place.
func (s *RateStore) Replace(cfg estimate.RateConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	return nil
}
