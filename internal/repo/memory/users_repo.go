package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jujunior/juniorsworld/internal/domain/user"
)

type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // keyed by lowercased email
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[strings.ToLower(email)]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Put(u user.User) {
	r.mu.Lock()
	r.items[strings.ToLower(u.Email)] = u
	r.mu.Unlock()
}
