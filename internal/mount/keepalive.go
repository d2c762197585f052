package mount

// Ping implements keepalive.Pinger: issue a no-op protocol echo against
// unit u if it is mounted (spec.md §4.7).
func (m *Manager) Ping(u int) error {
	if err := validUnit(u); err != nil {
		return err
	}
	m.mu.Lock()
	client := m.units[u].client
	mounted := m.units[u].mounted
	m.mu.Unlock()
	if !mounted {
		return nil
	}
	return client.Echo()
}

// NumUnits implements keepalive.Pinger.
func (m *Manager) NumUnits() int {
	return MaxUnits
}
