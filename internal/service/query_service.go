package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/events"
	"github.com/acadtrack/query-portal/internal/repository"
	"github.com/acadtrack/query-portal/internal/storage"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

const statsCacheKey = "query-portal:stats:overview"

// QueryService coordinates the query lifecycle: creation, transfer,
// resolution, attachments and statistics.
type QueryService struct {
	queries    repository.QueryRepository
	users      repository.UserRepository
	store      *storage.AttachmentStore
	cache      *redis.Client
	cacheTTL   time.Duration
	maxBytes   int64
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// QueryDependencies bundles collaborators for the query service.
type QueryDependencies struct {
	QueryRepo  repository.QueryRepository
	UserRepo   repository.UserRepository
	Store      *storage.AttachmentStore
	Cache      *redis.Client
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewQueryService constructs the service.
func NewQueryService(cfg config.UploadConfig, deps QueryDependencies) *QueryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		queries:    deps.QueryRepo,
		users:      deps.UserRepo,
		store:      deps.Store,
		cache:      deps.Cache,
		cacheTTL:   cfg.StatsCacheTTL(),
		maxBytes:   cfg.MaxAttachmentBytes(),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// InlineAttachmentInput carries an attachment embedded in a create payload.
// Content is base64, optionally prefixed with a data-URL scheme marker.
type InlineAttachmentInput struct {
	Filename string
	Content  string
	MimeType string
	Size     int64
}

// QueryCreateInput describes query creation.
type QueryCreateInput struct {
	Category    domain.QueryCategory
	Subject     string
	Description string
	Priority    domain.QueryPriority
	ContactInfo *string
	Attachment  *InlineAttachmentInput
}

// QueryUpdateInput carries partial updates; nil fields are left untouched.
type QueryUpdateInput struct {
	Subject          *string
	Description      *string
	Category         *domain.QueryCategory
	Priority         *domain.QueryPriority
	Status           *domain.QueryStatus
	AssignedTo       *domain.Department
	AssignedMemberID *int64
	AssignedUser     *string
	AdminResponse    *string
	ResolutionNotes  *string
	ContactInfo      *string
}

// QueryListInput describes listing filters and pagination.
type QueryListInput struct {
	UserID   *int64
	Category *domain.QueryCategory
	Status   *domain.QueryStatus
	Priority *domain.QueryPriority
	Page     int
	PerPage  int
}

// QueryPage is one page of results with pagination metadata.
type QueryPage struct {
	Items      []repository.QueryWithOwner
	Total      int64
	Page       int
	PerPage    int
	TotalPages int64
}

// Create stores a new query for the user. The owning user must exist;
// subject and description must be non-blank after trimming.
func (s *QueryService) Create(ctx context.Context, userID int64, input QueryCreateInput) (*domain.Query, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject cannot be empty", nil)
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description cannot be empty", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	q := &domain.Query{
		UserID:      userID,
		Category:    input.Category,
		Subject:     subject,
		Description: description,
		Priority:    priority,
		Status:      domain.StatusPending,
		ContactInfo: input.ContactInfo,
	}

	if att := input.Attachment; att != nil {
		q.Attachment = domain.Attachment{
			Filename: optional(att.Filename),
			Data:     optional(att.Content),
			MimeType: optional(att.MimeType),
		}
		if att.Size > 0 {
			size := att.Size
			q.Attachment.Size = &size
		}
		// File write failures are logged and swallowed: the base64 payload
		// is still persisted on the record.
		if att.Content != "" && att.Filename != "" {
			if path, _, err := s.persistInlineAttachment(att); err != nil {
				s.logger.Warn("failed to write attachment file", zap.Error(err), zap.String("filename", att.Filename))
			} else {
				q.Attachment.Path = &path
			}
		}
	}

	if err := s.queries.Create(ctx, q); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.invalidateStatsCache(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventQueryCreated,
		QueryID: q.ID,
		Actor:   userActor(userID),
		Payload: events.QueryCreatedPayload{
			Category: q.Category,
			Priority: q.Priority,
			Subject:  q.Subject,
		},
	})
	return q, nil
}

func (s *QueryService) persistInlineAttachment(att *InlineAttachmentInput) (string, string, error) {
	data, err := storage.DecodeBase64Payload(att.Content)
	if err != nil {
		return "", "", err
	}
	return s.store.Save(data, att.Filename)
}

// Get fetches a single query by id.
func (s *QueryService) Get(ctx context.Context, id int64) (*domain.Query, error) {
	q, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return q, nil
}

// Update applies a partial update. Setting assigned_to re-routes the query:
// category is forced to the target department's queue. A transition into
// RESOLVED stamps resolved_at exactly once; later updates never change it.
func (s *QueryService) Update(ctx context.Context, id int64, input QueryUpdateInput) (*domain.Query, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := q.Status
	oldCategory := q.Category

	if input.Subject != nil {
		q.Subject = strings.TrimSpace(*input.Subject)
	}
	if input.Description != nil {
		q.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		q.Category = *input.Category
	}
	if input.Priority != nil {
		q.Priority = *input.Priority
	}
	if input.Status != nil {
		q.Status = *input.Status
	}
	if input.AssignedMemberID != nil {
		q.AssignedMemberID = input.AssignedMemberID
	}
	if input.AssignedUser != nil {
		q.AssignedUser = input.AssignedUser
	}
	if input.ResolutionNotes != nil {
		q.ResolutionNotes = input.ResolutionNotes
	}
	if input.ContactInfo != nil {
		q.ContactInfo = input.ContactInfo
	}

	if input.AssignedTo != nil {
		q.AssignedTo = input.AssignedTo
		q.Category = input.AssignedTo.Category()
	}

	if input.AdminResponse != nil && strings.TrimSpace(*input.AdminResponse) != "" {
		appended := appendAdminResponse(q.ResolutionNotes, *input.AdminResponse)
		q.ResolutionNotes = &appended
	}

	if err := s.queries.Update(ctx, q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.invalidateStatsCache(ctx)

	if q.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:    events.EventQueryStatusChanged,
			QueryID: q.ID,
			Actor:   events.Actor{Type: domain.SubjectTypeAdmin},
			Payload: events.QueryStatusChangedPayload{OldStatus: oldStatus, NewStatus: q.Status},
		})
	}
	if input.AssignedTo != nil && q.Category != oldCategory {
		s.publish(ctx, events.Event{
			Type:    events.EventQueryTransferred,
			QueryID: q.ID,
			Actor:   events.Actor{Type: domain.SubjectTypeAdmin},
			Payload: events.QueryTransferredPayload{
				OldCategory: oldCategory,
				NewCategory: q.Category,
				AssignedTo:  *input.AssignedTo,
			},
		})
	}
	if input.AdminResponse != nil && strings.TrimSpace(*input.AdminResponse) != "" {
		s.publish(ctx, events.Event{
			Type:    events.EventQueryResponseAdded,
			QueryID: q.ID,
			Actor:   events.Actor{Type: domain.SubjectTypeAdmin},
			Payload: events.QueryResponseAddedPayload{ResponsePreview: preview(*input.AdminResponse, 120)},
		})
	}
	return q, nil
}

// Delete removes a query permanently.
func (s *QueryService) Delete(ctx context.Context, id int64) error {
	if err := s.queries.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return apperrors.NewInternalError(err)
	}
	s.invalidateStatsCache(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventQueryDeleted,
		QueryID: id,
		Actor:   events.Actor{Type: domain.SubjectTypeAdmin},
	})
	return nil
}

// List returns a page of queries ordered by creation time descending.
// Pages are 1-based; a page past the end yields an empty slice.
func (s *QueryService) List(ctx context.Context, input QueryListInput) (*QueryPage, error) {
	page, perPage := normalizePage(input.Page, input.PerPage)

	items, total, err := s.queries.ListWithFilter(ctx, repository.QueryFilter{
		UserID:   input.UserID,
		Category: input.Category,
		Status:   input.Status,
		Priority: input.Priority,
		Limit:    perPage,
		Offset:   (page - 1) * perPage,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if items == nil {
		items = []repository.QueryWithOwner{}
	}

	return &QueryPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// ListForUser returns a page of the given user's queries. The user must
// exist.
func (s *QueryService) ListForUser(ctx context.Context, userID int64, status *domain.QueryStatus, page, perPage int) (*QueryPage, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.List(ctx, QueryListInput{
		UserID:  &userID,
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
}

// Stats aggregates counts across all queries. Every enum member appears in
// the output even at zero. Results are cached in Redis briefly; cache
// failures degrade to a direct read.
func (s *QueryService) Stats(ctx context.Context) (*domain.QueryStats, error) {
	if cached := s.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	counts, err := s.queries.Stats(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	stats := &domain.QueryStats{
		TotalQueries:      counts.Total,
		PendingQueries:    counts.ByStatus[domain.StatusPending],
		InProgressQueries: counts.ByStatus[domain.StatusInProgress],
		ResolvedQueries:   counts.ByStatus[domain.StatusResolved],
		ClosedQueries:     counts.ByStatus[domain.StatusClosed],
		ByCategory:        make(map[domain.QueryCategory]int64, 5),
		ByPriority:        make(map[domain.QueryPriority]int64, 3),
	}
	for _, cat := range domain.QueryCategories() {
		stats.ByCategory[cat] = counts.ByCategory[cat]
	}
	for _, p := range domain.QueryPriorities() {
		stats.ByPriority[p] = counts.ByPriority[p]
	}

	s.storeStatsCache(ctx, stats)
	return stats, nil
}

// UploadAttachment validates and stores a multipart upload, overwriting any
// previous attachment metadata on the record.
func (s *QueryService) UploadAttachment(ctx context.Context, id int64, content []byte, contentType, filename string) (uniqueName string, err error) {
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}
	if !storage.IsAllowedMimeType(contentType) {
		return "", apperrors.NewValidationError("file type not allowed; only JPEG, PNG, PDF, and TXT files are supported", nil)
	}
	if int64(len(content)) > s.maxBytes {
		return "", apperrors.NewValidationError("file size too large; maximum size is 10MB", nil)
	}

	path, uniqueName, err := s.store.Save(content, filename)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	size := int64(len(content))
	att := domain.Attachment{
		Filename: &filename,
		Path:     &path,
		MimeType: &contentType,
		Size:     &size,
	}
	if err := s.queries.UpdateAttachment(ctx, id, att); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return "", apperrors.NewInternalError(err)
	}
	return uniqueName, nil
}

func (s *QueryService) cachedStats(ctx context.Context) *domain.QueryStats {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats domain.QueryStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *QueryService) storeStatsCache(ctx context.Context, stats *domain.QueryStats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("stats cache set failed", zap.Error(err))
	}
}

func (s *QueryService) invalidateStatsCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Debug("stats cache invalidation failed", zap.Error(err))
	}
}

func (s *QueryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func appendAdminResponse(notes *string, response string) string {
	if notes == nil || *notes == "" {
		return "Admin Response: " + response
	}
	return *notes + "\n\nAdmin Response: " + response
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func totalPages(total int64, perPage int) int64 {
	if perPage <= 0 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

func userActor(userID int64) events.Actor {
	return events.Actor{Type: domain.SubjectTypeUser, UserID: &userID}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
