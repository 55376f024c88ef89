package session

// CancelFunc removes a subscription. Safe to call more than once.
type CancelFunc func()

const subscriptionBuffer = 8

// Subscribe returns a channel that receives a Snapshot after every state
// transition (restore completion, login, logout, eviction). Slow consumers
// drop intermediate snapshots rather than blocking the session; the latest
// state is always available via Snapshot(). The channel is closed when the
// returned CancelFunc is called.
func (m *Manager) Subscribe() (<-chan Snapshot, CancelFunc) {
	m.subsLock.Lock()
	defer m.subsLock.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan Snapshot, subscriptionBuffer)
	m.subs[id] = ch

	cancel := func() {
		m.subsLock.Lock()
		defer m.subsLock.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (m *Manager) publish(snapshot Snapshot) {
	m.subsLock.Lock()
	defer m.subsLock.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- snapshot:
		default: // subscriber lagging, drop
		}
	}
}
