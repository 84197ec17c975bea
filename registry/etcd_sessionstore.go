package registry

import (
	"context"
	"encoding/json"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdSessionStore implements SessionStore on top of etcd v3, for hosts
// that already run an etcd cluster alongside their Agent fleet and want
// session lineage visible there across process restarts.
//
// The key holds a JSON blob at "/croupier-sdk/session/{service_id}". There
// is no lease/KeepAlive/Watch here: a session record isn't a liveness claim
// the way a service registration is, it's a last-known-good snapshot a
// restarting process reads once.
type EtcdSessionStore struct {
	client *clientv3.Client
}

// NewEtcdSessionStore creates a session store connected to the given etcd
// endpoints.
func NewEtcdSessionStore(endpoints []string) (*EtcdSessionStore, error) {
	c, err := clientv3.New(clientv3.Config{Endpoints: endpoints})
	if err != nil {
		return nil, err
	}
	return &EtcdSessionStore{client: c}, nil
}

type sessionRecord struct {
	SessionID   string               `json:"session_id"`
	Descriptors []FunctionDescriptor `json:"descriptors"`
}

func sessionKey(serviceID string) string {
	return "/croupier-sdk/session/" + serviceID
}

// SaveSession stores the session id and descriptor snapshot for serviceID.
func (s *EtcdSessionStore) SaveSession(ctx context.Context, serviceID, sessionID string, descriptors []FunctionDescriptor) error {
	val, err := json.Marshal(sessionRecord{SessionID: sessionID, Descriptors: descriptors})
	if err != nil {
		return err
	}
	_, err = s.client.Put(ctx, sessionKey(serviceID), string(val))
	return err
}

// LoadSession returns the last-saved session record for serviceID, if any.
func (s *EtcdSessionStore) LoadSession(ctx context.Context, serviceID string) (string, []FunctionDescriptor, bool, error) {
	resp, err := s.client.Get(ctx, sessionKey(serviceID))
	if err != nil {
		return "", nil, false, err
	}
	if len(resp.Kvs) == 0 {
		return "", nil, false, nil
	}

	var rec sessionRecord
	if err := json.Unmarshal(resp.Kvs[0].Value, &rec); err != nil {
		return "", nil, false, err
	}
	return rec.SessionID, rec.Descriptors, true, nil
}

// ClearSession removes the session record for serviceID, called at the end
// of a graceful stop.
func (s *EtcdSessionStore) ClearSession(ctx context.Context, serviceID string) error {
	_, err := s.client.Delete(ctx, sessionKey(serviceID))
	return err
}
