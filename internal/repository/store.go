package repository

import "time"

// Store bundles the repositories that make up the in-memory storage engine.
// Each Store is independent, so tests get isolation by building a fresh one.
type Store struct {
	Users         UserRepository
	Tasks         TaskRepository
	AdminProfiles AdminProfileRepository
}

// NewStore creates an empty store. A nil clock defaults to time.Now in UTC.
func NewStore(now Clock) *Store {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Store{
		Users:         NewUserRepository(now),
		Tasks:         NewTaskRepository(now),
		AdminProfiles: NewAdminProfileRepository(now),
	}
}
