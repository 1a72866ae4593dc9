package realtime

import (
	"sync"
)

// Router coordinates live sessions and broadcast groups on one process.
// A user may hold several sessions at once. All sessions of a user form that
// user's personal channel, which needs no explicit join.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]Session             // sessionID -> session
	userSessions map[string]map[string]Session  // userID -> sessionID -> session
	rooms        map[string]map[string]Session  // conversationID -> sessionID -> session
	sessionRooms map[string]map[string]struct{} // sessionID -> set of conversationIDs
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]Session),
		userSessions: make(map[string]map[string]Session),
		rooms:        make(map[string]map[string]Session),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a session and starts its write loop.
func (r *Router) Attach(s Session) {
	r.mu.Lock()
	r.sessions[s.ID()] = s
	personal := r.userSessions[s.UserID()]
	if personal == nil {
		personal = make(map[string]Session)
		r.userSessions[s.UserID()] = personal
	}
	personal[s.ID()] = s
	r.sessionRooms[s.ID()] = make(map[string]struct{})
	r.mu.Unlock()

	s.Start()
}

// Detach removes a session and every group membership it held. It returns the
// number of sessions the user still has on this router.
func (r *Router) Detach(s Session) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detachLocked(s.ID())
	return len(r.userSessions[s.UserID()])
}

// Join adds the session to the conversation's broadcast group. Unknown sessions are ignored.
func (r *Router) Join(conversationID string, s Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; !ok {
		return false
	}

	room := r.rooms[conversationID]
	if room == nil {
		room = make(map[string]Session)
		r.rooms[conversationID] = room
	}
	room[s.ID()] = s

	memberships := r.sessionRooms[s.ID()]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.sessionRooms[s.ID()] = memberships
	}
	memberships[conversationID] = struct{}{}
	return true
}

// Leave removes the session from the conversation's broadcast group.
func (r *Router) Leave(conversationID string, s Session) {
	r.mu.Lock()
	r.leaveLocked(conversationID, s.ID())
	r.mu.Unlock()
}

// Joined reports whether the session is in the conversation's broadcast group.
func (r *Router) Joined(conversationID string, s Session) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[conversationID][s.ID()]
	return ok
}

// Broadcast writes payload to every session in the conversation's group.
// excludeUserID, when non-empty, skips all sessions of that user.
func (r *Router) Broadcast(conversationID string, payload []byte, excludeUserID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sendAll(r.rooms[conversationID], payload, excludeUserID)
}

// NotifyUser delivers payload to every session of the given user.
func (r *Router) NotifyUser(userID string, payload []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sendAll(r.userSessions[userID], payload, "")
}

// BroadcastAll delivers payload to every session on the router.
func (r *Router) BroadcastAll(payload []byte, excludeUserID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sendAll(r.sessions, payload, excludeUserID)
}

// SessionCount returns the number of live sessions held by the user.
func (r *Router) SessionCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userSessions[userID])
}

// Close terminates all tracked sessions and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]Session)
	r.userSessions = make(map[string]map[string]Session)
	r.rooms = make(map[string]map[string]Session)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close(1001, "router shutdown")
	}
}

// sendAll runs under the read lock so a broadcast never observes a torn group.
func sendAll(targets map[string]Session, payload []byte, excludeUserID string) int {
	delivered := 0
	for _, s := range targets {
		if excludeUserID != "" && s.UserID() == excludeUserID {
			continue
		}
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

func (r *Router) detachLocked(sessionID string) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if personal, ok := r.userSessions[s.UserID()]; ok {
		delete(personal, sessionID)
		if len(personal) == 0 {
			delete(r.userSessions, s.UserID())
		}
	}

	for roomID := range r.sessionRooms[sessionID] {
		r.leaveLocked(roomID, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Router) leaveLocked(conversationID string, sessionID string) {
	if sessionID == "" {
		return
	}
	room := r.rooms[conversationID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, conversationID)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, conversationID)
	}
}
