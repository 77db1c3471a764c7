package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository mirroring the Postgres
// implementation's semantics, including pgx.ErrNoRows on misses.
type fakeUserRepo struct {
	nextID int64
	users  map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := user
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.users {
		if filter.Department != nil && (user.Department == nil || *user.Department != *filter.Department) {
			continue
		}
		if filter.ActiveOnly && !user.IsActive {
			continue
		}
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if filter.Skip > 0 {
		if filter.Skip >= len(result) {
			return nil, nil
		}
		result = result[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) SetDepartmentHead(_ context.Context, dept domain.Department, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return pgx.ErrNoRows
	}
	for id, user := range f.users {
		if user.Department != nil && *user.Department == dept {
			user.IsDepartmentHead = false
			f.users[id] = user
		}
	}
	user := f.users[userID]
	user.IsDepartmentHead = true
	f.users[userID] = user
	return nil
}

// fakeAdminRepo is an in-memory AdminRepository.
type fakeAdminRepo struct {
	nextID int64
	admins map[int64]domain.AdminUser
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{nextID: 1, admins: make(map[int64]domain.AdminUser)}
}

func (f *fakeAdminRepo) Create(_ context.Context, admin *domain.AdminUser) error {
	admin.ID = f.nextID
	f.nextID++
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	f.admins[admin.ID] = *admin
	return nil
}

func (f *fakeAdminRepo) Update(_ context.Context, admin *domain.AdminUser) error {
	if _, ok := f.admins[admin.ID]; !ok {
		return pgx.ErrNoRows
	}
	admin.UpdatedAt = time.Now()
	f.admins[admin.ID] = *admin
	return nil
}

func (f *fakeAdminRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.admins[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.admins, id)
	return nil
}

func (f *fakeAdminRepo) GetByID(_ context.Context, id int64) (*domain.AdminUser, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := admin
	return &out, nil
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	for _, admin := range f.admins {
		if admin.Email == email {
			out := admin
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAdminRepo) List(_ context.Context) ([]domain.AdminUser, error) {
	result := make([]domain.AdminUser, 0, len(f.admins))
	for _, admin := range f.admins {
		result = append(result, admin)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAdminRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	admin, ok := f.admins[id]
	if !ok {
		return pgx.ErrNoRows
	}
	admin.LastLogin = &at
	f.admins[id] = admin
	return nil
}

// fakeQueryRepo is an in-memory QueryRepository. It reproduces the SQL-side
// behavior that matters to the services: resolved_at is stamped exactly once
// on the first transition into RESOLVED, and updated_at always refreshes.
type fakeQueryRepo struct {
	nextID  int64
	queries map[int64]domain.Query
	users   *fakeUserRepo
}

func newFakeQueryRepo(users *fakeUserRepo) *fakeQueryRepo {
	return &fakeQueryRepo{nextID: 1, queries: make(map[int64]domain.Query), users: users}
}

func (f *fakeQueryRepo) Create(_ context.Context, q *domain.Query) error {
	q.ID = f.nextID
	f.nextID++
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now
	f.queries[q.ID] = *q
	return nil
}

func (f *fakeQueryRepo) Update(_ context.Context, q *domain.Query) error {
	stored, ok := f.queries[q.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	q.UpdatedAt = time.Now()
	if q.Status == domain.StatusResolved && stored.ResolvedAt == nil {
		now := time.Now()
		q.ResolvedAt = &now
	} else {
		q.ResolvedAt = stored.ResolvedAt
	}
	f.queries[q.ID] = *q
	return nil
}

func (f *fakeQueryRepo) UpdateAttachment(_ context.Context, id int64, att domain.Attachment) error {
	q, ok := f.queries[id]
	if !ok {
		return pgx.ErrNoRows
	}
	q.Attachment = att
	q.UpdatedAt = time.Now()
	f.queries[id] = q
	return nil
}

func (f *fakeQueryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.queries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.queries, id)
	return nil
}

func (f *fakeQueryRepo) GetByID(_ context.Context, id int64) (*domain.Query, error) {
	q, ok := f.queries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := q
	return &out, nil
}

func (f *fakeQueryRepo) ListWithFilter(ctx context.Context, filter repository.QueryFilter) ([]repository.QueryWithOwner, int64, error) {
	var matched []domain.Query
	for _, q := range f.queries {
		if filter.UserID != nil && q.UserID != *filter.UserID {
			continue
		}
		if filter.Category != nil && q.Category != *filter.Category {
			continue
		}
		if filter.Status != nil && q.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && q.Priority != *filter.Priority {
			continue
		}
		matched = append(matched, q)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	result := make([]repository.QueryWithOwner, 0, len(matched))
	for _, q := range matched {
		row := repository.QueryWithOwner{Query: q, OwnerName: "Unknown User", OwnerEmail: "unknown@example.com"}
		if f.users != nil {
			if owner, err := f.users.GetByID(ctx, q.UserID); err == nil {
				row.OwnerName = owner.FullName
				row.OwnerEmail = owner.Email
			}
		}
		result = append(result, row)
	}
	return result, total, nil
}

func (f *fakeQueryRepo) Stats(_ context.Context) (*repository.StatsCounts, error) {
	counts := &repository.StatsCounts{
		ByStatus:   make(map[domain.QueryStatus]int64),
		ByCategory: make(map[domain.QueryCategory]int64),
		ByPriority: make(map[domain.QueryPriority]int64),
	}
	for _, q := range f.queries {
		counts.Total++
		counts.ByStatus[q.Status]++
		counts.ByCategory[q.Category]++
		counts.ByPriority[q.Priority]++
	}
	return counts, nil
}

func (f *fakeQueryRepo) CountByOwnerDepartment(ctx context.Context, dept domain.Department) (*repository.DepartmentQueryCounts, error) {
	counts := &repository.DepartmentQueryCounts{}
	for _, q := range f.queries {
		owner, err := f.users.GetByID(ctx, q.UserID)
		if err != nil || owner.Department == nil || *owner.Department != dept {
			continue
		}
		counts.Total++
		switch q.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusResolved:
			counts.Resolved++
		}
	}
	return counts, nil
}
