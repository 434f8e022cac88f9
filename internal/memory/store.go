// Package memory provides an in-memory user.Store. It backs tests and the
// dev mode used when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/auth-platform/user-service/internal/user"
)

// Store is an in-memory implementation of user.Store. Ids are allocated
// monotonically and never reused, even after deletes.
type Store struct {
	mu     sync.RWMutex
	users  map[int64]user.User
	nextID int64
	now    func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:  make(map[int64]user.User),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the store clock (for testing).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Create inserts a new user with a fresh id and identical timestamps.
func (s *Store) Create(ctx context.Context, in user.CreateInput) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	u := user.User{
		ID:        s.nextID,
		Name:      in.Name,
		Surname:   in.Surname,
		Password:  in.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.users[u.ID] = u

	return &u, nil
}

// GetByID returns a user or user.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

// List returns one page ordered by id ascending plus the total count.
func (s *Store) List(ctx context.Context, page user.PageRequest) (*user.PageResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	offset := page.Offset()
	users := make([]user.User, 0, page.PerPage)
	for i := offset; i < len(ids) && len(users) < page.PerPage; i++ {
		users = append(users, s.users[ids[i]])
	}

	return &user.PageResult{
		Users:   users,
		Total:   int64(len(ids)),
		Page:    page.Page,
		PerPage: page.PerPage,
	}, nil
}

// Update applies the supplied fields, refreshes updated_at, and returns the
// updated user.
func (s *Store) Update(ctx context.Context, id int64, in user.UpdateInput) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Surname != nil {
		u.Surname = *in.Surname
	}
	if in.Password != nil {
		u.Password = *in.Password
	}
	u.UpdatedAt = s.now()

	s.users[id] = u
	return &u, nil
}

// Delete removes a user. The freed id is never handed out again.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(s.users, id)
	return nil
}
