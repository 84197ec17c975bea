package registry

import "context"

// SessionStore is an optional observability side-channel the client
// lifecycle manager uses to persist the last-known session lineage for a
// service_id: the session id returned by the Agent's registration
// handshake, and the descriptor set that was advertised alongside it.
//
// Losing a SessionStore never affects correctness: the Agent is always the
// source of truth for an active session, and reconnect re-advertises the
// full descriptor set from the live HandlerRegistry regardless of what a
// SessionStore remembers.
type SessionStore interface {
	SaveSession(ctx context.Context, serviceID, sessionID string, descriptors []FunctionDescriptor) error
	LoadSession(ctx context.Context, serviceID string) (sessionID string, descriptors []FunctionDescriptor, ok bool, err error)
	ClearSession(ctx context.Context, serviceID string) error
}

// NopSessionStore discards everything. It is the default for client.Config
// so the session store is opt-in.
type NopSessionStore struct{}

func (NopSessionStore) SaveSession(context.Context, string, string, []FunctionDescriptor) error {
	return nil
}

func (NopSessionStore) LoadSession(context.Context, string) (string, []FunctionDescriptor, bool, error) {
	return "", nil, false, nil
}

func (NopSessionStore) ClearSession(context.Context, string) error { return nil }
