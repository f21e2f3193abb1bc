package realtime

import "sync"

// State describes the supervisor's connection lifecycle.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// machine folds the connection state and the retry counter behind one
// mutex. StateReconnecting doubles as the reconnect-in-progress marker and
// StateClosed suppresses every automatic recovery path.
type machine struct {
	mu      sync.Mutex
	state   State
	retries int
}

func newMachine() *machine {
	return &machine{state: StateDisconnected}
}

// State returns the current state.
func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *machine) set(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// reset re-enters the lifecycle with a zeroed retry counter.
func (m *machine) reset(state State) {
	m.mu.Lock()
	m.state = state
	m.retries = 0
	m.mu.Unlock()
}

func (m *machine) snapshot() (State, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.retries
}

// retrying marks the machine as reconnecting, bumps the retry counter and
// returns the new attempt number.
func (m *machine) retrying() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateReconnecting
	m.retries++
	return m.retries
}

// connected records a successful attempt and returns how many failed
// attempts preceded it.
func (m *machine) connected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	prior := m.retries
	m.state = StateConnected
	m.retries = 0
	return prior
}

// beginReconnect claims the single reconnect slot. It fails when a
// reconnect is already in flight or the client is closed.
func (m *machine) beginReconnect() (bool, State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateReconnecting || m.state == StateClosed {
		return false, m.state
	}
	m.state = StateReconnecting
	return true, m.state
}

// endReconnect releases the reconnect slot. A successful attempt already
// moved the machine to StateConnected; anything still marked reconnecting
// settles as disconnected.
func (m *machine) endReconnect() {
	m.mu.Lock()
	if m.state == StateReconnecting {
		m.state = StateDisconnected
	}
	m.mu.Unlock()
}

// exhausted settles the lifecycle after the retry budget ran out. Closed is
// sticky; any other state, including a first connect that never retried,
// falls back to disconnected.
func (m *machine) exhausted() {
	m.mu.Lock()
	if m.state != StateClosed {
		m.state = StateDisconnected
	}
	m.mu.Unlock()
}
