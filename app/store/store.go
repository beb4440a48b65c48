// Package store provides persistent key-value storage for user preferences.
package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a key is not found in the store.
var ErrNotFound = errors.New("key not found")

// DBType identifies the database backend.
type DBType int

const (
	DBTypeSQLite DBType = iota
	DBTypePostgres
)

// RWLocker is the lock used around queries, a real mutex for sqlite and a no-op for postgres.
type RWLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

type noopLocker struct{}

func (noopLocker) Lock()    {}
func (noopLocker) Unlock()  {}
func (noopLocker) RLock()   {}
func (noopLocker) RUnlock() {}
