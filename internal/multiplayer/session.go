package multiplayer

import "sync"

// SessionHandle is the transport-neutral interface for communicating with a session.
// It allows the host to send events without depending on Wish, Bubble Tea or WebSocket.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Name returns the display name chosen by the client.
	Name() string

	// Send sends an event to the session asynchronously.
	// Must be non-blocking; implementations should use buffered channels.
	Send(evt SessionEvent)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel.
// Transports read Events and forward them to their client.
type ChannelSession struct {
	id       SessionID
	name     string
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a channel-based session handle.
// bufferSize controls how many events can queue before the oldest is dropped.
func NewChannelSession(id SessionID, name string, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		name:   name,
		events: make(chan SessionEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID { return s.id }

// Name returns the display name.
func (s *ChannelSession) Name() string { return s.name }

// Send queues an event. When the buffer is full the oldest event is dropped.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
		return
	default:
	}

	// Buffer full, drop oldest and retry once
	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- evt:
	default:
	}
}

// Events returns the channel to receive events from.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions.
// Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
	order    []SessionID
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session. Returns false if the ID is already taken.
func (r *SessionRegistry) Register(session SessionHandle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[session.ID()]; exists {
		return false
	}
	r.sessions[session.ID()] = session
	r.order = append(r.order, session.ID())
	return true
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; !exists {
		return
	}
	delete(r.sessions, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Broadcast sends evt to every session in registration order.
func (r *SessionRegistry) Broadcast(evt SessionEvent) {
	r.mu.RLock()
	targets := make([]SessionHandle, 0, len(r.order))
	for _, id := range r.order {
		targets = append(targets, r.sessions[id])
	}
	r.mu.RUnlock()

	for _, s := range targets {
		s.Send(evt)
	}
}

// SendTo sends evt to one session, or to all of them for duel.Broadcast.
func (r *SessionRegistry) SendTo(id SessionID, evt SessionEvent) {
	if id == "" {
		r.Broadcast(evt)
		return
	}
	if s, ok := r.Get(id); ok {
		s.Send(evt)
	}
}
