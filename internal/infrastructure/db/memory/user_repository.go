package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return nil, domain.ErrEmailTaken
	}

	stored := cloneUser(user)
	stored.Email = email
	if stored.ID == "" {
		stored.ID = newID()
	}
	r.users[stored.ID] = stored
	r.byEmail[email] = stored.ID
	return cloneUser(stored), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}

	email := domain.NormalizeEmail(user.Email)
	if owner, taken := r.byEmail[email]; taken && owner != user.ID {
		return domain.ErrEmailTaken
	}
	delete(r.byEmail, current.Email)

	stored := cloneUser(user)
	stored.Email = email
	r.users[user.ID] = stored
	r.byEmail[email] = user.ID
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.users, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Blocked != nil && u.Blocked != *f.Blocked {
			continue
		}
		if f.Search != "" &&
			!containsFold(u.FirstName, f.Search) &&
			!containsFold(u.LastName, f.Search) &&
			!containsFold(u.Email, f.Search) {
			continue
		}
		matched = append(matched, cloneUser(u))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].FirstName != matched[j].FirstName {
			return matched[i].FirstName < matched[j].FirstName
		}
		return matched[i].ID < matched[j].ID
	})

	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *UserRepository) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
