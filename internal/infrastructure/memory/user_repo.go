package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/baechuer/userhub/internal/application/user"
	"github.com/baechuer/userhub/internal/domain"
)

// UserRepo is an in-memory user.Repo used in tests and local development.
// It evaluates the same operator subset the transport layer allows, so list
// queries behave like the document store's.
type UserRepo struct {
	mu         sync.RWMutex
	byID       map[string]domain.User
	byUsername map[string]string // username -> userID
	byEmail    map[string]string // email -> userID
	order      []string          // insertion order, stands in for _id ordering
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:       make(map[string]domain.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func normKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.UserID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	if _, exists := r.byUsername[normKey(u.Username)]; exists {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}
	if _, exists := r.byEmail[normKey(u.Email)]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	r.byID[u.UserID] = u
	r.byUsername[normKey(u.Username)] = u.UserID
	r.byEmail[normKey(u.Email)] = u.UserID
	r.order = append(r.order, u.UserID)
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[normKey(username)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normKey(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) List(ctx context.Context, q user.ListQuery) ([]domain.User, error) {
	r.mu.RLock()
	matched := r.matchAll(q.Filter)
	r.mu.RUnlock()

	// matched is in insertion order; remember positions so _id sorts can
	// honor direction.
	pos := make(map[string]int, len(matched))
	for i, u := range matched {
		pos[u.UserID] = i
	}
	sortUsers(matched, q.Sort, pos)

	// page is a document offset, limit caps the page size
	if q.Page >= int64(len(matched)) {
		return []domain.User{}, nil
	}
	matched = matched[q.Page:]
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (r *UserRepo) Count(ctx context.Context, filter map[string]any) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matchAll(filter))), nil
}

func (r *UserRepo) Update(ctx context.Context, userID string, p user.Patch) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}

	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil && normKey(*p.Email) != normKey(u.Email) {
		if _, exists := r.byEmail[normKey(*p.Email)]; exists {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		delete(r.byEmail, normKey(u.Email))
		u.Email = *p.Email
		r.byEmail[normKey(u.Email)] = userID
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.Roles != nil {
		u.Roles = p.Roles
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	u.LastUpdatedBy = p.LastUpdatedBy
	u.LastUpdatedDate = p.LastUpdatedDate

	r.byID[userID] = u
	return u, nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = newHash
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.byID, userID)
	delete(r.byUsername, normKey(u.Username))
	delete(r.byEmail, normKey(u.Email))
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ---- filter evaluation ----

// matchAll walks insertion order so the default sort matches _id order.
// Caller must hold at least a read lock.
func (r *UserRepo) matchAll(filter map[string]any) []domain.User {
	out := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		u := r.byID[id]
		if matches(u, filter) {
			out = append(out, u)
		}
	}
	return out
}

func matches(u domain.User, filter map[string]any) bool {
	for k, v := range filter {
		switch k {
		case "$or":
			if !someMatch(u, v, false) {
				return false
			}
		case "$nor":
			if someMatch(u, v, false) {
				return false
			}
		case "$and":
			if !allMatch(u, v) {
				return false
			}
		default:
			if !fieldMatches(fieldValue(u, k), v) {
				return false
			}
		}
	}
	return true
}

func allMatch(u domain.User, v any) bool {
	subs, ok := v.([]any)
	if !ok {
		return false
	}
	for _, s := range subs {
		m, ok := s.(map[string]any)
		if !ok || !matches(u, m) {
			return false
		}
	}
	return true
}

func someMatch(u domain.User, v any, _ bool) bool {
	subs, ok := v.([]any)
	if !ok {
		return false
	}
	for _, s := range subs {
		if m, ok := s.(map[string]any); ok && matches(u, m) {
			return true
		}
	}
	return false
}

func fieldMatches(got any, cond any) bool {
	ops, isOps := cond.(map[string]any)
	if !isOps {
		return equal(got, cond)
	}
	for op, v := range ops {
		switch op {
		case "$eq":
			if !equal(got, v) {
				return false
			}
		case "$ne":
			if equal(got, v) {
				return false
			}
		case "$gt":
			if cmp(got, v) <= 0 {
				return false
			}
		case "$gte":
			if cmp(got, v) < 0 {
				return false
			}
		case "$lt":
			if cmp(got, v) >= 0 {
				return false
			}
		case "$lte":
			if cmp(got, v) > 0 {
				return false
			}
		case "$in":
			if !inList(got, v) {
				return false
			}
		case "$nin":
			if inList(got, v) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func fieldValue(u domain.User, key string) any {
	switch key {
	case "_id", "user_id":
		return u.UserID
	case "username":
		return u.Username
	case "first_name":
		return u.FirstName
	case "last_name":
		return u.LastName
	case "email":
		return u.Email
	case "is_active":
		return u.IsActive
	case "age":
		return u.Age
	case "roles":
		return u.Roles
	default:
		return nil
	}
}

func equal(got, want any) bool {
	// roles: a scalar matches when contained, as Mongo does for arrays
	if list, ok := got.([]string); ok {
		w, ok := want.(string)
		if !ok {
			return false
		}
		for _, s := range list {
			if s == w {
				return true
			}
		}
		return false
	}
	if gf, gok := toFloat(got); gok {
		wf, wok := toFloat(want)
		return wok && gf == wf
	}
	return got == want
}

func cmp(got, want any) int {
	if gf, gok := toFloat(got); gok {
		if wf, wok := toFloat(want); wok {
			switch {
			case gf < wf:
				return -1
			case gf > wf:
				return 1
			default:
				return 0
			}
		}
	}
	gs, gok := got.(string)
	ws, wok := want.(string)
	if gok && wok {
		return strings.Compare(gs, ws)
	}
	return -1
}

func inList(got any, v any) bool {
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if equal(got, item) {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func sortUsers(users []domain.User, fields []user.SortField, pos map[string]int) {
	if len(fields) == 0 {
		return
	}
	sort.SliceStable(users, func(i, j int) bool {
		for _, f := range fields {
			var c int
			if f.Key == "_id" {
				// insertion order stands in for _id order
				c = pos[users[i].UserID] - pos[users[j].UserID]
			} else {
				c = cmp(fieldValue(users[i], f.Key), fieldValue(users[j], f.Key))
			}
			if c == 0 {
				continue
			}
			if f.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
