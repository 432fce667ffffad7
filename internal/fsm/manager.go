// Package fsm tracks the per-user conversation state that lets an admin
// perform one multi-step operation at a time.
//
// State is process-local and ephemeral: it is created when an admin selects a
// menu action that requires follow-up input, cleared when the step completes
// (successfully or not), and lost on restart. Entering a new state overwrites
// any pending one, so a user can never have two operations in flight.
package fsm

import "sync"

// State identifies a pending conversation step.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitingCodeDefinition waits for a "code messageID" pair.
	StateAwaitingCodeDefinition State = "awaiting_code_definition"
	// StateAwaitingCodeRemoval waits for the code to delete.
	StateAwaitingCodeRemoval State = "awaiting_code_removal"
	// StateAwaitingAdminID waits for the numeric id of the admin to promote.
	StateAwaitingAdminID State = "awaiting_admin_id"
)

// Manager owns the user id → state mapping.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]State
}

// NewManager constructs an empty in-memory Manager.
func NewManager() *Manager {
	return &Manager{states: make(map[int64]State)}
}

// State returns the current state of a user, or StateIdle if none exists.
func (m *Manager) State(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.states[userID]; ok {
		return st
	}
	return StateIdle
}

// SetState sets the state for a user, overwriting any pending one.
func (m *Manager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == StateIdle {
		delete(m.states, userID)
		return
	}
	m.states[userID] = st
}

// ClearState resets the user to idle.
func (m *Manager) ClearState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}

// InProgress reports whether the user currently has an active state.
func (m *Manager) InProgress(userID int64) bool {
	return m.State(userID) != StateIdle
}
