package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadtrack/query-portal/internal/domain"
)

// QueryFilter captures listing parameters for queries.
type QueryFilter struct {
	UserID   *int64
	Category *domain.QueryCategory
	Status   *domain.QueryStatus
	Priority *domain.QueryPriority
	Limit    int
	Offset   int
}

// QueryWithOwner decorates a query with owner display fields for listings.
type QueryWithOwner struct {
	domain.Query
	OwnerName  string
	OwnerEmail string
}

// StatsCounts carries raw aggregate rows; zero-filling happens in the
// service layer so every enum member is always reported.
type StatsCounts struct {
	Total      int64
	ByStatus   map[domain.QueryStatus]int64
	ByCategory map[domain.QueryCategory]int64
	ByPriority map[domain.QueryPriority]int64
}

// DepartmentQueryCounts aggregates queries owned by a department's members.
type DepartmentQueryCounts struct {
	Total    int64
	Pending  int64
	Resolved int64
}

// QueryRepository encapsulates query persistence.
type QueryRepository interface {
	Create(ctx context.Context, q *domain.Query) error
	// Update persists the full record. The resolved_at column is guarded in
	// SQL so it is set exactly once, on the first transition to RESOLVED,
	// even under concurrent writers.
	Update(ctx context.Context, q *domain.Query) error
	UpdateAttachment(ctx context.Context, id int64, att domain.Attachment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Query, error)
	ListWithFilter(ctx context.Context, filter QueryFilter) ([]QueryWithOwner, int64, error)
	Stats(ctx context.Context) (*StatsCounts, error)
	CountByOwnerDepartment(ctx context.Context, dept domain.Department) (*DepartmentQueryCounts, error)
}

type queryRepository struct {
	pool *pgxpool.Pool
}

// NewQueryRepository instantiates the repository.
func NewQueryRepository(pool *pgxpool.Pool) QueryRepository {
	return &queryRepository{pool: pool}
}

const queryColumns = `q.id, q.user_id, q.category, q.subject, q.description, q.priority, q.status,
        q.contact_info, q.attachment_filename, q.attachment_path, q.attachment_data, q.attachment_type,
        q.attachment_size, q.assigned_to, q.assigned_member_id, q.assigned_user, q.resolution_notes,
        q.created_at, q.updated_at, q.resolved_at`

func (r *queryRepository) Create(ctx context.Context, q *domain.Query) error {
	const query = `
        INSERT INTO queries (user_id, category, subject, description, priority, status, contact_info,
            attachment_filename, attachment_path, attachment_data, attachment_type, attachment_size)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		q.UserID,
		q.Category,
		q.Subject,
		q.Description,
		q.Priority,
		q.Status,
		q.ContactInfo,
		q.Attachment.Filename,
		q.Attachment.Path,
		q.Attachment.Data,
		q.Attachment.MimeType,
		q.Attachment.Size,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *queryRepository) Update(ctx context.Context, q *domain.Query) error {
	const query = `
        UPDATE queries SET category=$1, subject=$2, description=$3, priority=$4, status=$5,
            contact_info=$6, assigned_to=$7, assigned_member_id=$8, assigned_user=$9,
            resolution_notes=$10, updated_at=NOW(),
            resolved_at = CASE WHEN $5 = 'RESOLVED' AND resolved_at IS NULL THEN NOW() ELSE resolved_at END
        WHERE id=$11
        RETURNING updated_at, resolved_at`

	return r.pool.QueryRow(ctx, query,
		q.Category,
		q.Subject,
		q.Description,
		q.Priority,
		q.Status,
		q.ContactInfo,
		q.AssignedTo,
		q.AssignedMemberID,
		q.AssignedUser,
		q.ResolutionNotes,
		q.ID,
	).Scan(&q.UpdatedAt, &q.ResolvedAt)
}

func (r *queryRepository) UpdateAttachment(ctx context.Context, id int64, att domain.Attachment) error {
	const query = `
        UPDATE queries SET attachment_filename=$1, attachment_path=$2, attachment_data=$3,
            attachment_type=$4, attachment_size=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		att.Filename,
		att.Path,
		att.Data,
		att.MimeType,
		att.Size,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *queryRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM queries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *queryRepository) GetByID(ctx context.Context, id int64) (*domain.Query, error) {
	query := fmt.Sprintf(`SELECT %s FROM queries q WHERE q.id=$1`, queryColumns)

	var q domain.Query
	if err := r.pool.QueryRow(ctx, query, id).Scan(scanTargets(&q)...); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *queryRepository) ListWithFilter(ctx context.Context, filter QueryFilter) ([]QueryWithOwner, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("q.user_id=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("q.category=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("q.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("q.priority=$%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM queries q WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	listQuery := fmt.Sprintf(`
        SELECT %s, COALESCE(u.full_name, 'Unknown User'), COALESCE(u.email, 'unknown@example.com')
        FROM queries q
        LEFT JOIN users u ON u.id = q.user_id
        WHERE %s
        ORDER BY q.created_at DESC
        LIMIT %d OFFSET %d`, queryColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []QueryWithOwner
	for rows.Next() {
		var item QueryWithOwner
		targets := append(scanTargets(&item.Query), &item.OwnerName, &item.OwnerEmail)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, err
		}
		result = append(result, item)
	}
	return result, total, rows.Err()
}

func (r *queryRepository) Stats(ctx context.Context) (*StatsCounts, error) {
	counts := &StatsCounts{
		ByStatus:   make(map[domain.QueryStatus]int64),
		ByCategory: make(map[domain.QueryCategory]int64),
		ByPriority: make(map[domain.QueryPriority]int64),
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM queries`).Scan(&counts.Total); err != nil {
		return nil, err
	}

	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM queries GROUP BY status`, func(key string, n int64) {
		counts.ByStatus[domain.QueryStatus(key)] = n
	}); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, `SELECT category, COUNT(*) FROM queries GROUP BY category`, func(key string, n int64) {
		counts.ByCategory[domain.QueryCategory(key)] = n
	}); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, `SELECT priority, COUNT(*) FROM queries GROUP BY priority`, func(key string, n int64) {
		counts.ByPriority[domain.QueryPriority(key)] = n
	}); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *queryRepository) groupCount(ctx context.Context, query string, collect func(string, int64)) error {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		collect(key, n)
	}
	return rows.Err()
}

func (r *queryRepository) CountByOwnerDepartment(ctx context.Context, dept domain.Department) (*DepartmentQueryCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE q.status = 'PENDING'),
               COUNT(*) FILTER (WHERE q.status = 'RESOLVED')
        FROM queries q
        JOIN users u ON u.id = q.user_id
        WHERE u.department = $1`

	var counts DepartmentQueryCounts
	if err := r.pool.QueryRow(ctx, query, dept).Scan(&counts.Total, &counts.Pending, &counts.Resolved); err != nil {
		return nil, err
	}
	return &counts, nil
}

func scanTargets(q *domain.Query) []any {
	return []any{
		&q.ID,
		&q.UserID,
		&q.Category,
		&q.Subject,
		&q.Description,
		&q.Priority,
		&q.Status,
		&q.ContactInfo,
		&q.Attachment.Filename,
		&q.Attachment.Path,
		&q.Attachment.Data,
		&q.Attachment.MimeType,
		&q.Attachment.Size,
		&q.AssignedTo,
		&q.AssignedMemberID,
		&q.AssignedUser,
		&q.ResolutionNotes,
		&q.CreatedAt,
		&q.UpdatedAt,
		&q.ResolvedAt,
	}
}
