package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	Users         map[int64]*user.User
	UsernameIndex map[string]*user.User
	NextID        int64
	CreateError   error
	GetError      error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:         make(map[int64]*user.User),
		UsernameIndex: make(map[string]*user.User),
		NextID:        1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.UsernameIndex[u.Username]; ok {
		return errors.Conflict("Username already taken")
	}
	u.ID = m.NextID
	m.NextID++
	m.Users[u.ID] = u
	m.UsernameIndex[u.Username] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.UsernameIndex[username]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.Users)), nil
}

// MockCatalogRepository is an in-memory catalog.Repository
type MockCatalogRepository struct {
	Platforms  []*catalog.Platform
	Benchmarks []*catalog.Benchmark
	Sections   []*catalog.Section
	Checks     []*catalog.Check
	nextID     int64
	ListError  error
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{nextID: 1}
}

func (m *MockCatalogRepository) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MockCatalogRepository) ListPlatforms(ctx context.Context) ([]*catalog.Platform, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := append([]*catalog.Platform(nil), m.Platforms...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OSFamily != out[j].OSFamily {
			return out[i].OSFamily < out[j].OSFamily
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MockCatalogRepository) GetPlatformBySlug(ctx context.Context, slug string) (*catalog.Platform, error) {
	for _, p := range m.Platforms {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, errors.NotFound("Platform")
}

func (m *MockCatalogRepository) platform(id int64) *catalog.Platform {
	for _, p := range m.Platforms {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *MockCatalogRepository) CreatePlatform(ctx context.Context, p *catalog.Platform) error {
	if _, err := m.GetPlatformBySlug(ctx, p.Slug); err == nil {
		return errors.Conflict("Platform " + p.Slug + " already exists")
	}
	p.ID = m.id()
	m.Platforms = append(m.Platforms, p)
	return nil
}

func (m *MockCatalogRepository) withTotals(b *catalog.Benchmark) *catalog.Benchmark {
	cp := *b
	cp.Platform = m.platform(b.PlatformID)
	cp.TotalChecks = 0
	for _, c := range m.Checks {
		for _, s := range m.Sections {
			if s.ID == c.SectionID && s.BenchmarkID == b.ID {
				cp.TotalChecks++
			}
		}
	}
	return &cp
}

func (m *MockCatalogRepository) ListBenchmarks(ctx context.Context, platformID int64) ([]*catalog.Benchmark, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []*catalog.Benchmark
	for _, b := range m.Benchmarks {
		if platformID == 0 || b.PlatformID == platformID {
			out = append(out, m.withTotals(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockCatalogRepository) GetBenchmark(ctx context.Context, id int64) (*catalog.Benchmark, error) {
	for _, b := range m.Benchmarks {
		if b.ID == id {
			return m.withTotals(b), nil
		}
	}
	return nil, errors.NotFound("Benchmark")
}

func (m *MockCatalogRepository) FindBenchmark(ctx context.Context, name, version string) (*catalog.Benchmark, error) {
	for _, b := range m.Benchmarks {
		if b.Name == name && b.Version == version {
			return m.withTotals(b), nil
		}
	}
	return nil, errors.NotFound("Benchmark")
}

func (m *MockCatalogRepository) ImportBenchmark(ctx context.Context, in *catalog.BenchmarkImport) error {
	if _, err := m.FindBenchmark(ctx, in.Benchmark.Name, in.Benchmark.Version); err == nil {
		return errors.Conflict("Benchmark already exists")
	}
	in.Benchmark.ID = m.id()
	m.Benchmarks = append(m.Benchmarks, in.Benchmark)
	for i, s := range in.Sections {
		m.importSection(in.Benchmark.ID, nil, i, s)
	}
	return nil
}

func (m *MockCatalogRepository) importSection(benchmarkID int64, parentID *int64, order int, in *catalog.SectionImport) {
	s := &catalog.Section{
		ID:          m.id(),
		BenchmarkID: benchmarkID,
		ParentID:    parentID,
		Number:      in.Number,
		Title:       in.Title,
		Description: in.Description,
		SortOrder:   order,
	}
	m.Sections = append(m.Sections, s)
	for i, c := range in.Checks {
		c.ID = m.id()
		c.SectionID = s.ID
		c.SortOrder = i
		m.Checks = append(m.Checks, c)
	}
	for i, child := range in.Children {
		id := s.ID
		m.importSection(benchmarkID, &id, i, child)
	}
}

func (m *MockCatalogRepository) ListSections(ctx context.Context, benchmarkID int64) ([]*catalog.Section, error) {
	var out []*catalog.Section
	for _, s := range m.Sections {
		if s.BenchmarkID == benchmarkID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockCatalogRepository) ListChecks(ctx context.Context, benchmarkID int64) ([]*catalog.Check, error) {
	sections, _ := m.ListSections(ctx, benchmarkID)
	in := make(map[int64]bool, len(sections))
	for _, s := range sections {
		in[s.ID] = true
	}
	var out []*catalog.Check
	for _, c := range m.Checks {
		if in[c.SectionID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCatalogRepository) GetSection(ctx context.Context, id int64) (*catalog.Section, error) {
	for _, s := range m.Sections {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.NotFound("Section")
}

func (m *MockCatalogRepository) GetCheck(ctx context.Context, id int64) (*catalog.Check, error) {
	for _, c := range m.Checks {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.NotFound("Check")
}

func (m *MockCatalogRepository) SearchChecks(ctx context.Context, q catalog.SearchQuery) ([]*catalog.CheckHit, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	var out []*catalog.CheckHit
	for _, c := range m.Checks {
		sec, _ := m.GetSection(ctx, c.SectionID)
		b, _ := m.GetBenchmark(ctx, sec.BenchmarkID)
		if text != "" && !strings.Contains(strings.ToLower(c.Title), text) &&
			!strings.Contains(strings.ToLower(c.CheckNumber), text) &&
			!strings.Contains(strings.ToLower(c.Description), text) &&
			!strings.Contains(strings.ToLower(c.AuditCommand), text) {
			continue
		}
		if q.PlatformSlug != "" && b.Platform.Slug != q.PlatformSlug {
			continue
		}
		if q.Level != 0 && c.Level != q.Level {
			continue
		}
		if q.Scored != nil && c.Scored != *q.Scored {
			continue
		}
		out = append(out, &catalog.CheckHit{
			Check:            *c,
			SectionNumber:    sec.Number,
			BenchmarkID:      b.ID,
			BenchmarkName:    b.Name,
			BenchmarkVersion: b.Version,
			PlatformSlug:     b.Platform.Slug,
			PlatformName:     b.Platform.Name,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckNumber < out[j].CheckNumber })
	if len(out) > catalog.SearchLimit {
		out = out[:catalog.SearchLimit]
	}
	return out, nil
}

func (m *MockCatalogRepository) Counts(ctx context.Context) (*catalog.Counts, error) {
	return &catalog.Counts{
		Platforms:  int64(len(m.Platforms)),
		Benchmarks: int64(len(m.Benchmarks)),
		Sections:   int64(len(m.Sections)),
		Checks:     int64(len(m.Checks)),
	}, nil
}

// MockAuditRepository is an in-memory audit.Repository
type MockAuditRepository struct {
	mu          sync.Mutex
	Sessions    map[int64]*audit.Session
	Results     map[int64][]*audit.Result
	Catalog     *MockCatalogRepository
	nextID      int64
	CreateError error
}

func NewMockAuditRepository(cat *MockCatalogRepository) *MockAuditRepository {
	return &MockAuditRepository{
		Sessions: make(map[int64]*audit.Session),
		Results:  make(map[int64][]*audit.Result),
		Catalog:  cat,
		nextID:   1,
	}
}

func (m *MockAuditRepository) CreateSession(ctx context.Context, s *audit.Session, checkIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	seen := make(map[int64]bool)
	for _, id := range checkIDs {
		if seen[id] {
			return errors.Conflict("Check listed twice in audit session")
		}
		seen[id] = true
	}

	s.ID = m.nextID
	m.nextID++
	if s.Status == "" {
		s.Status = audit.SessionInProgress
	}
	m.Sessions[s.ID] = s
	for _, id := range checkIDs {
		m.Results[s.ID] = append(m.Results[s.ID], &audit.Result{
			ID:        m.nextID,
			SessionID: s.ID,
			CheckID:   id,
			Status:    audit.StatusNotChecked,
		})
		m.nextID++
	}
	s.Counts = audit.Counts{Total: len(checkIDs), NotChecked: len(checkIDs)}
	return nil
}

func (m *MockAuditRepository) counted(s *audit.Session) *audit.Session {
	cp := *s
	cp.Counts = audit.Counts{}
	for _, r := range m.Results[s.ID] {
		cp.Counts.Add(r.Status)
	}
	return &cp
}

func (m *MockAuditRepository) GetSession(ctx context.Context, id int64) (*audit.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sessions[id]
	if !ok {
		return nil, errors.NotFound("Audit session")
	}
	return m.counted(s), nil
}

func (m *MockAuditRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*audit.Session, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*audit.Session
	for _, s := range m.Sessions {
		if s.UserID == userID {
			all = append(all, m.counted(s))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].StartedAt.Equal(all[j].StartedAt) {
			return all[i].StartedAt.After(all[j].StartedAt)
		}
		return all[i].ID > all[j].ID
	})
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *MockAuditRepository) UpdateSession(ctx context.Context, s *audit.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Sessions[s.ID]
	if !ok {
		return errors.NotFound("Audit session")
	}
	stored.Status = s.Status
	stored.CompletedAt = s.CompletedAt
	stored.Notes = s.Notes
	return nil
}

func (m *MockAuditRepository) DeleteSession(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Sessions[id]; !ok {
		return errors.NotFound("Audit session")
	}
	delete(m.Sessions, id)
	delete(m.Results, id)
	return nil
}

func (m *MockAuditRepository) ListResults(ctx context.Context, sessionID int64) ([]*audit.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*audit.Result
	for _, r := range m.Results[sessionID] {
		cp := *r
		if m.Catalog != nil {
			cp.Check, _ = m.Catalog.GetCheck(ctx, r.CheckID)
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Check == nil || out[j].Check == nil {
			return out[i].CheckID < out[j].CheckID
		}
		return out[i].Check.CheckNumber < out[j].Check.CheckNumber
	})
	return out, nil
}

func (m *MockAuditRepository) GetResult(ctx context.Context, sessionID, checkID int64) (*audit.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Results[sessionID] {
		if r.CheckID == checkID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Audit result")
}

func (m *MockAuditRepository) UpdateResult(ctx context.Context, res *audit.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Results[res.SessionID] {
		if r.ID == res.ID {
			r.Status = res.Status
			r.Finding = res.Finding
			r.CheckedAt = res.CheckedAt
			return nil
		}
	}
	return errors.NotFound("Audit result")
}

func (m *MockAuditRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int64{audit.SessionInProgress: 0, audit.SessionCompleted: 0}
	for _, s := range m.Sessions {
		counts[s.Status]++
	}
	return counts, nil
}
