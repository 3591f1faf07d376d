package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/service-requests/internal/domain"
)

// Memory implementations back the service when no POSTGRES_DSN is configured.
// They keep everything in process and lose it on restart.

type memoryRequestRepository struct {
	mu     sync.RWMutex
	now    func() time.Time
	nextID int64
	// rows is kept in ascending id order.
	rows []domain.Request
}

// NewMemoryRequestRepository returns an in-process store. A nil clock means time.Now.
func NewMemoryRequestRepository(clock func() time.Time) RequestRepository {
	if clock == nil {
		clock = time.Now
	}
	return &memoryRequestRepository{now: clock}
}

func (r *memoryRequestRepository) Create(_ context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	req.ID = r.nextID
	req.Status = domain.RequestStatusPending
	req.CreatedAt = r.now().UTC()
	r.rows = append(r.rows, cloneRequest(*req))
	return nil
}

func (r *memoryRequestRepository) GetByID(_ context.Context, id int64) (*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.indexOf(id); idx >= 0 {
		req := cloneRequest(r.rows[idx])
		return &req, nil
	}
	return nil, ErrNotFound
}

func (r *memoryRequestRepository) UpdateStatus(_ context.Context, id int64, status domain.RequestStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	r.rows[idx].Status = status
	return true, nil
}

func (r *memoryRequestRepository) List(_ context.Context, filter RequestFilter) ([]domain.Request, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Request
	for i := len(r.rows) - 1; i >= 0; i-- {
		if matchesFilter(r.rows[i], filter) {
			matched = append(matched, cloneRequest(r.rows[i]))
		}
	}
	total := len(matched)

	if filter.Limit <= 0 {
		return matched, total, nil
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.Request{}, total, nil
	}
	end := total
	if filter.Limit < total-offset {
		end = offset + filter.Limit
	}
	return matched[offset:end], total, nil
}

func (r *memoryRequestRepository) Stats(_ context.Context, dayStart, dayEnd time.Time) (domain.RequestStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.RequestStats
	for _, row := range r.rows {
		stats.Total++
		switch row.Status {
		case domain.RequestStatusPending:
			stats.Pending++
		case domain.RequestStatusApproved:
			stats.Approved++
		case domain.RequestStatusDenied:
			stats.Denied++
		}
		if !row.CreatedAt.Before(dayStart) && row.CreatedAt.Before(dayEnd) {
			stats.TodayCount++
		}
	}
	return stats, nil
}

// indexOf relies on rows being sorted by id. Callers hold the lock.
func (r *memoryRequestRepository) indexOf(id int64) int {
	lo, hi := 0, len(r.rows)
	for lo < hi {
		mid := (lo + hi) / 2
		if r.rows[mid].ID < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(r.rows) && r.rows[lo].ID == id {
		return lo
	}
	return -1
}

func matchesFilter(req domain.Request, filter RequestFilter) bool {
	if filter.Status != nil && req.Status != *filter.Status {
		return false
	}
	if filter.ServiceType != nil && req.ServiceType != *filter.ServiceType {
		return false
	}
	if filter.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(req.FullName), term) ||
			strings.Contains(strings.ToLower(req.StudentID), term) ||
			strings.Contains(strings.ToLower(req.Email), term)
	}
	return true
}

func cloneRequest(req domain.Request) domain.Request {
	if req.SubmitterUserID != nil {
		id := *req.SubmitterUserID
		req.SubmitterUserID = &id
	}
	return req
}

type memoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
}

// NewMemoryUserRepository returns an in-process user store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[int64]domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) || u.StudentID == user.StudentID {
			return ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) ExistsByEmailOrStudentID(_ context.Context, email, studentID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) || u.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type memoryAdminRepository struct {
	mu     sync.RWMutex
	nextID int64
	admins map[int64]domain.Admin
}

// NewMemoryAdminRepository returns an in-process admin store.
func NewMemoryAdminRepository() AdminRepository {
	return &memoryAdminRepository{admins: make(map[int64]domain.Admin)}
}

func (r *memoryAdminRepository) Create(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.admins {
		if a.Username == admin.Username {
			return ErrDuplicate
		}
	}
	r.nextID++
	admin.ID = r.nextID
	admin.CreatedAt = time.Now().UTC()
	r.admins[admin.ID] = *admin
	return nil
}

func (r *memoryAdminRepository) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.admins[id]; ok {
		return &a, nil
	}
	return nil, ErrNotFound
}

func (r *memoryAdminRepository) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryAdminRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.admins), nil
}
