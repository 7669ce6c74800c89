package store

import (
	"sync"
)

// FlagSet holds named booleans for cross-cutting spinners.
type FlagSet struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagSet creates an empty flag set.
func NewFlagSet() *FlagSet {
	return &FlagSet{flags: make(map[string]bool)}
}

// Set assigns a flag.
func (f *FlagSet) Set(name string, value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[name] = value
}

// Get reads a flag; unknown flags are false.
func (f *FlagSet) Get(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.flags[name]
}

// Snapshot returns a copy of all flags.
func (f *FlagSet) Snapshot() map[string]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[string]bool, len(f.flags))
	for k, v := range f.flags {
		out[k] = v
	}
	return out
}
