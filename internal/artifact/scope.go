package artifact

// Scope collects the artifacts of one operation so a single deferred Close
// releases all of them on every exit path.
type Scope struct {
	manager   *Manager
	artifacts []Artifact
	closed    bool
}

// NewScope opens a scope backed by m.
func (m *Manager) NewScope() *Scope {
	return &Scope{manager: m}
}

// Allocate reserves an artifact owned by the scope.
func (s *Scope) Allocate(prefix, key string) Artifact {
	a := s.manager.Allocate(prefix, key)
	s.artifacts = append(s.artifacts, a)
	return a
}

// Close releases each artifact exactly once. Later calls do nothing.
func (s *Scope) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	for i := len(s.artifacts) - 1; i >= 0; i-- {
		s.manager.Release(s.artifacts[i])
	}
	s.artifacts = nil
}
