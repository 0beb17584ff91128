package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventboard/internal/domain"
)

// mockRequestRepository is an in-memory RequestRepository. It is safe for
// concurrent use so admission races can be exercised against it.
type mockRequestRepository struct {
	mu     sync.Mutex
	nextID int64
	reqs   map[int64]*domain.ParticipationRequest
	err    error
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{reqs: make(map[int64]*domain.ParticipationRequest)}
}

func (m *mockRequestRepository) Create(ctx context.Context, req *domain.ParticipationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, r := range m.reqs {
		if r.EventID == req.EventID && r.RequesterID == req.RequesterID {
			return fmt.Errorf("request already exists: %w", domain.ErrConflict)
		}
	}
	m.nextID++
	req.ID = m.nextID
	cp := *req
	m.reqs[req.ID] = &cp
	return nil
}

func (m *mockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.ParticipationRequest
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.reqs[id]; ok && r.RequesterID == requesterID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.ParticipationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ParticipationRequest
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.reqs[id]; ok && r.EventID == eventID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.ParticipationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ParticipationRequest
	for _, id := range ids {
		if r, ok := m.reqs[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reqs {
		if r.RequesterID == requesterID && r.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRequestRepository) CountByEventAndStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.reqs {
		if r.EventID == eventID && r.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockRequestRepository) UpdateStatusByIDs(ctx context.Context, ids []int64, status domain.RequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if r, ok := m.reqs[id]; ok {
			r.Status = status
		}
	}
	return nil
}

func (m *mockRequestRepository) RejectAllPending(ctx context.Context, eventID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.reqs {
		if r.EventID == eventID && r.Status == domain.RequestStatusPending {
			r.Status = domain.RequestStatusRejected
			n++
		}
	}
	return n, nil
}

// seed inserts a request directly, bypassing the uniqueness check.
func (m *mockRequestRepository) seed(req *domain.ParticipationRequest) *domain.ParticipationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	req.ID = m.nextID
	cp := *req
	m.reqs[req.ID] = &cp
	return &cp
}

func (m *mockRequestRepository) statusOf(id int64) domain.RequestStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reqs[id].Status
}

type mockEventRepository struct {
	events map[int64]*domain.Event
	err    error
}

func newMockEventRepository(events ...*domain.Event) *mockEventRepository {
	m := &mockEventRepository{events: make(map[int64]*domain.Event)}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	event.ID = int64(len(m.events) + 1)
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return domain.ErrNotFound
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) ListByInitiator(ctx context.Context, initiatorID int64, page domain.PaginationParams) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range m.events {
		if e.InitiatorID == initiatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, id := range ids {
		if e, ok := m.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	count := 0
	for _, e := range m.events {
		if e.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *mockEventRepository) SearchAdmin(ctx context.Context, filter domain.AdminEventFilter, page domain.PaginationParams) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEventRepository) SearchPublic(ctx context.Context, filter domain.PublicEventFilter, page domain.PaginationParams) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range m.events {
		if e.State == domain.EventStatePublished {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockUserRepository struct {
	users map[int64]*domain.User
	err   error
}

func newMockUserRepository(ids ...int64) *mockUserRepository {
	m := &mockUserRepository{users: make(map[int64]*domain.User)}
	for _, id := range ids {
		m.users[id] = &domain.User{ID: id, Name: fmt.Sprintf("user %d", id)}
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("email already in use: %w", domain.ErrConflict)
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *mockUserRepository) List(ctx context.Context, ids []int64, page domain.PaginationParams) ([]*domain.User, error) {
	var out []*domain.User
	if len(ids) > 0 {
		for _, id := range ids {
			if u, ok := m.users[id]; ok {
				out = append(out, u)
			}
		}
		return out, nil
	}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockCategoryRepository struct {
	cats map[int64]*domain.Category
	err  error
}

func newMockCategoryRepository(cats ...*domain.Category) *mockCategoryRepository {
	m := &mockCategoryRepository{cats: make(map[int64]*domain.Category)}
	for _, c := range cats {
		m.cats[c.ID] = c
	}
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.err != nil {
		return m.err
	}
	category.ID = int64(len(m.cats) + 1)
	m.cats[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.cats[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.cats[category.ID]; !ok {
		return domain.ErrNotFound
	}
	m.cats[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.cats[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.cats, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context, page domain.PaginationParams) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range m.cats {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, c := range m.cats {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// mockStatsClient records hits and serves canned view counts.
type mockStatsClient struct {
	mu    sync.Mutex
	hits  []string
	views map[string]int64
}

func (m *mockStatsClient) Hit(ctx context.Context, uri, clientIP string, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits = append(m.hits, uri)
}

func (m *mockStatsClient) Views(ctx context.Context, uris []string, start, end time.Time, unique bool) map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(uris))
	for _, uri := range uris {
		out[uri] = m.views[uri]
	}
	return out
}

type mockCommentRepository struct {
	comments map[int64]*domain.Comment
	nextID   int64
}

func newMockCommentRepository() *mockCommentRepository {
	return &mockCommentRepository{comments: make(map[int64]*domain.Comment)}
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if _, ok := m.comments[comment.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *mockCommentRepository) ListByEvent(ctx context.Context, eventID int64, page domain.PaginationParams) ([]*domain.Comment, error) {
	// Newest first, mirroring the store's ordering.
	var out []*domain.Comment
	for id := m.nextID; id >= 1; id-- {
		c, ok := m.comments[id]
		if !ok || c.EventID != eventID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// seed bypasses Create and stores the comment as-is, assigning an id.
func (m *mockCommentRepository) seed(comment *domain.Comment) *domain.Comment {
	m.nextID++
	comment.ID = m.nextID
	cp := *comment
	m.comments[comment.ID] = &cp
	return &cp
}

type mockCompilationRepository struct {
	comps  map[int64]*domain.Compilation
	nextID int64
}

func newMockCompilationRepository() *mockCompilationRepository {
	return &mockCompilationRepository{comps: make(map[int64]*domain.Compilation)}
}

func (m *mockCompilationRepository) Create(ctx context.Context, comp *domain.Compilation) error {
	m.nextID++
	comp.ID = m.nextID
	m.comps[comp.ID] = comp
	return nil
}

func (m *mockCompilationRepository) GetByID(ctx context.Context, id int64) (*domain.Compilation, error) {
	comp, ok := m.comps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return comp, nil
}

func (m *mockCompilationRepository) Update(ctx context.Context, comp *domain.Compilation) error {
	if _, ok := m.comps[comp.ID]; !ok {
		return domain.ErrNotFound
	}
	m.comps[comp.ID] = comp
	return nil
}

func (m *mockCompilationRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.comps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.comps, id)
	return nil
}

func (m *mockCompilationRepository) List(ctx context.Context, pinned *bool, page domain.PaginationParams) ([]*domain.Compilation, error) {
	var out []*domain.Compilation
	for id := int64(1); id <= m.nextID; id++ {
		comp, ok := m.comps[id]
		if !ok {
			continue
		}
		if pinned != nil && comp.Pinned != *pinned {
			continue
		}
		out = append(out, comp)
	}
	return out, nil
}
