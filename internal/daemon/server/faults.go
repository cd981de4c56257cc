package server

import (
	"math/rand"
	"sync"
)

// Fault is an injected failure for one RPC method.
type Fault struct {
	Message string `json:"message"`
	// Rate is the probability (0-1] that a call fails. Zero means always.
	Rate float64 `json:"rate"`
}

// FaultRegistry holds the injected faults keyed by method name.
type FaultRegistry struct {
	mu     sync.RWMutex
	faults map[string]Fault
}

// NewFaultRegistry creates an empty registry.
func NewFaultRegistry() *FaultRegistry {
	return &FaultRegistry{faults: make(map[string]Fault)}
}

// Set injects a fault for method.
func (fr *FaultRegistry) Set(method string, fault Fault) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fault.Rate <= 0 || fault.Rate > 1 {
		fault.Rate = 1
	}
	if fault.Message == "" {
		fault.Message = "injected fault"
	}
	fr.faults[method] = fault
}

// Remove removes the fault for method and reports whether one existed.
func (fr *FaultRegistry) Remove(method string) bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	_, existed := fr.faults[method]
	delete(fr.faults, method)
	return existed
}

// Check returns the fault to apply to this call of method, or nil.
func (fr *FaultRegistry) Check(method string) *Fault {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	if f, ok := fr.faults[method]; ok {
		if f.Rate >= 1 || rand.Float64() < f.Rate {
			return &f
		}
	}
	return nil
}

// All returns a copy of the registered faults.
func (fr *FaultRegistry) All() map[string]Fault {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	out := make(map[string]Fault, len(fr.faults))
	for k, v := range fr.faults {
		out[k] = v
	}
	return out
}

// Reset clears all faults.
func (fr *FaultRegistry) Reset() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.faults = make(map[string]Fault)
}
