package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// KV is the storage used by Session.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Session scopes a KV to one session id and drops the context from calls,
// with each call limited by timeout. It satisfies theme.KeyValueStore.
type Session struct {
	kv      KV
	prefix  string
	timeout time.Duration
}

// NewSession makes a store with keys prefixed by "<id>/".
func NewSession(kv KV, id string, timeout time.Duration) *Session {
	return &Session{kv: kv, prefix: id + "/", timeout: timeout}
}

// Get returns the value, ok is false if the key is absent.
func (s *Session) Get(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	v, err := s.kv.Get(ctx, s.prefix+key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get: %w", err)
	}
	return v, true, nil
}

// Set stores the value.
func (s *Session) Set(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.kv.Set(ctx, s.prefix+key, value); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *Session) ctx() (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.timeout)
}
