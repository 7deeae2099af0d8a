// Package display holds the text shown on the LCD.
// State is shared by the sampler, toggle and refresh tasks behind one mutex;
// readers take a Snapshot and never hold the lock across device I/O.
package display

import "sync"

// Snapshot is a point-in-time view of the display state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Temperature string
	Pressure    string
	Light       string
	Toggle      int
}

// ShowsLight reports whether the light/pressure pair is selected.
func (s Snapshot) ShowsLight() bool {
	return s.Toggle%2 != 0
}

// Lines returns the two LCD lines selected by the toggle parity:
// temperature/pressure when even, light/pressure when odd.
func (s Snapshot) Lines() (string, string) {
	if s.ShowsLight() {
		return s.Light, s.Pressure
	}
	return s.Temperature, s.Pressure
}

// State holds the latest formatted readings and the toggle counter.
type State struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewState returns an empty State. Lines are blank until the first samples.
func NewState() *State {
	return &State{}
}

// SetTempPressure replaces both barometer strings in one update, so a
// reader never sees a temperature from one sample with the pressure of another.
func (s *State) SetTempPressure(temperature, pressure string) {
	s.mu.Lock()
	s.snap.Temperature = temperature
	s.snap.Pressure = pressure
	s.mu.Unlock()
}

// SetLight replaces the light string.
func (s *State) SetLight(light string) {
	s.mu.Lock()
	s.snap.Light = light
	s.mu.Unlock()
}

// Toggle increments the toggle counter and returns the new value.
func (s *State) Toggle() int {
	s.mu.Lock()
	s.snap.Toggle++
	n := s.snap.Toggle
	s.mu.Unlock()
	return n
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	snap := s.snap
	s.mu.Unlock()
	return snap
}
