package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo guarda cuentas en memoria, indexadas por email en minúsculas.
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

// NewUserRepository construye el repositorio, opcionalmente precargado.
func NewUserRepository(seed ...entity.User) *UserRepo {
	r := &UserRepo{users: make(map[string]entity.User, len(seed))}
	for _, u := range seed {
		r.users[key(u.Email)] = u
	}
	return r
}

func key(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[key(u.Email)]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.users[key(u.Email)] = *u
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[key(email)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[key(u.Email)]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[key(u.Email)] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.RLock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := u
		out = append(out, &cp)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return paginate(out, limit, offset), nil
}

func (r *UserRepo) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, key(email))
	return nil
}
