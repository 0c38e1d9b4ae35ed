package swap

import "sync"

// Machine owns the state of one widget and applies events strictly in
// arrival order.
type Machine struct {
	mu    sync.Mutex
	state *State
}

// NewMachine returns a machine holding the empty form.
func NewMachine() *Machine {
	return &Machine{state: Initial()}
}

// Dispatch applies e and returns the new state.
func (m *Machine) Dispatch(e Event) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Reduce(m.state, e)
	return m.state
}

// DispatchIf applies e only when cond holds for the current state. Both
// happen under the same lock, so no other event can interleave.
func (m *Machine) DispatchIf(cond func(*State) bool, e Event) (*State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !cond(m.state) {
		return m.state, false
	}
	m.state = Reduce(m.state, e)
	return m.state, true
}

// State returns the current state.
func (m *Machine) State() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
