package user

import (
	"sync"
	"time"
)

type mockRepository struct {
	mu    sync.RWMutex
	users []*User // creation order, backs List pagination
}

func newMockRepository() Repository {
	return &mockRepository{}
}

func (r *mockRepository) Create(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Nickname == user.Nickname || u.Email == user.Email {
			return ErrUserExists
		}
	}

	// Clone the user to prevent external modifications
	clone := *user
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	r.users = append(r.users, &clone)

	*user = clone
	return nil
}

func (r *mockRepository) GetByID(id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(func(u *User) bool { return u.ID == id })
}

func (r *mockRepository) GetByNickname(nickname string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(func(u *User) bool { return u.Nickname == nickname })
}

func (r *mockRepository) GetByEmail(email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(func(u *User) bool { return u.Email == email })
}

func (r *mockRepository) find(match func(*User) bool) (*User, error) {
	for _, u := range r.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *mockRepository) List(skip, limit int) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip >= len(r.users) {
		return nil, nil
	}

	end := skip + limit
	if end > len(r.users) {
		end = len(r.users)
	}

	out := make([]*User, 0, end-skip)
	for _, u := range r.users[skip:end] {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *mockRepository) Update(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == user.ID {
			clone := *user
			clone.UpdatedAt = time.Now()
			clone.CreatedAt = u.CreatedAt
			r.users[i] = &clone
			return nil
		}
	}
	return ErrUserNotFound
}

func (r *mockRepository) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *mockRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}
