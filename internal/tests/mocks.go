package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"carpool/internal/domain"
	"carpool/internal/fare"
	"carpool/internal/redis"
	"carpool/internal/remote"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// MOCK REMOTE API
// ──────────────────────────────────────────────

// MockRemoteAPI is a mock implementation of the remote pool API collaborator.
type MockRemoteAPI struct {
	mu    sync.Mutex
	pools map[string]*domain.Pool
	order []string
	seq   int

	// Counters for verification
	FetchAllCallCount int32
	CreateCallCount   int32
	JoinCallCount     int32
	LogoutCallCount   int32

	// Error injection
	FetchAllError error
	CreateError   error
	JoinError     error
	LogoutError   error
	UserError     error

	// FetchAllHook, when set, replaces the default FetchAllPools behavior.
	FetchAllHook func() ([]domain.Pool, error)

	// Login fixtures
	LoginResult    *remote.LoginResult
	LoginError     error
	CompleteResult *remote.LoginResult
	CompleteError  error
	User           *domain.UserProfile
}

// NewMockRemoteAPI creates a new mock remote API.
func NewMockRemoteAPI() *MockRemoteAPI {
	return &MockRemoteAPI{pools: make(map[string]*domain.Pool)}
}

// AddPool seeds a pool into the mock collection.
func (m *MockRemoteAPI) AddPool(pool domain.Pool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := pool
	m.pools[pool.ID] = &copy
	m.order = append(m.order, pool.ID)
}

func (m *MockRemoteAPI) FetchAllPools(ctx context.Context, token string) ([]domain.Pool, error) {
	atomic.AddInt32(&m.FetchAllCallCount, 1)
	if m.FetchAllHook != nil {
		return m.FetchAllHook()
	}
	if m.FetchAllError != nil {
		return nil, m.FetchAllError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Pool, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.pools[id])
	}
	return out, nil
}

func (m *MockRemoteAPI) FetchPool(ctx context.Context, token, id string) (*domain.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[id]
	if !ok {
		return nil, remote.ErrNotFound
	}
	copy := *pool
	return &copy, nil
}

func (m *MockRemoteAPI) CreatePool(ctx context.Context, token string, form domain.PoolForm) (*domain.Pool, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	pool := domain.Pool{
		ID:             fmt.Sprintf("pool-%d", m.seq),
		StartPoint:     form.StartPoint,
		EndPoint:       form.EndPoint,
		DepartureTime:  form.DepartureTime,
		ArrivalTime:    form.ArrivalTime,
		TransportMode:  form.TransportMode,
		TotalPersons:   form.TotalPersons,
		CurrentPersons: form.CurrentPersons,
		TotalFare:      form.TotalFare,
		FarePerHead:    fare.PerHead(form.TotalFare, float64(form.TotalPersons)),
		Description:    form.Description,
		FemaleOnly:     form.FemaleOnly,
	}
	m.pools[pool.ID] = &pool
	m.order = append(m.order, pool.ID)
	result := pool
	return &result, nil
}

func (m *MockRemoteAPI) UpdatePool(ctx context.Context, token, id string, form domain.PoolForm) (*domain.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[id]
	if !ok {
		return nil, remote.ErrNotFound
	}
	pool.StartPoint = form.StartPoint
	pool.EndPoint = form.EndPoint
	pool.DepartureTime = form.DepartureTime
	pool.ArrivalTime = form.ArrivalTime
	pool.TransportMode = form.TransportMode
	pool.TotalPersons = form.TotalPersons
	pool.CurrentPersons = form.CurrentPersons
	pool.TotalFare = form.TotalFare
	pool.FarePerHead = fare.PerHead(form.TotalFare, float64(form.TotalPersons))
	pool.Description = form.Description
	pool.FemaleOnly = form.FemaleOnly
	copy := *pool
	return &copy, nil
}

func (m *MockRemoteAPI) PatchPool(ctx context.Context, token, id string, fields map[string]any) (*domain.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[id]
	if !ok {
		return nil, remote.ErrNotFound
	}
	if v, ok := fields["description"].(string); ok {
		pool.Description = v
	}
	if v, ok := fields["is_female_only"].(bool); ok {
		pool.FemaleOnly = v
	}
	copy := *pool
	return &copy, nil
}

func (m *MockRemoteAPI) JoinPool(ctx context.Context, token, id string, gender domain.Gender, phoneNumber string) (string, error) {
	atomic.AddInt32(&m.JoinCallCount, 1)
	if m.JoinError != nil {
		return "", m.JoinError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[id]
	if !ok {
		return "", remote.ErrNotFound
	}
	pool.Members = append(pool.Members, domain.PoolMember{PhoneNumber: phoneNumber, Gender: gender})
	pool.CurrentPersons++
	return "Joined the pool successfully.", nil
}

func (m *MockRemoteAPI) GoogleLogin(ctx context.Context, idToken string) (*remote.LoginResult, error) {
	if m.LoginError != nil {
		return nil, m.LoginError
	}
	return m.LoginResult, nil
}

func (m *MockRemoteAPI) CompleteProfile(ctx context.Context, tempToken, phoneNumber string, gender domain.Gender) (*remote.LoginResult, error) {
	if m.CompleteError != nil {
		return nil, m.CompleteError
	}
	return m.CompleteResult, nil
}

func (m *MockRemoteAPI) FetchCurrentUser(ctx context.Context, token string) (*domain.UserProfile, error) {
	if m.UserError != nil {
		return nil, m.UserError
	}
	if m.User == nil {
		return nil, remote.ErrUnauthorized
	}
	copy := *m.User
	return &copy, nil
}

func (m *MockRemoteAPI) Logout(ctx context.Context, token, refreshToken string) error {
	atomic.AddInt32(&m.LogoutCallCount, 1)
	return m.LogoutError
}

// Ensure the mock satisfies the service interfaces.
var (
	_ service.PoolAPI = (*MockRemoteAPI)(nil)
	_ service.AuthAPI = (*MockRemoteAPI)(nil)
)

// ──────────────────────────────────────────────
// MOCK SESSION STORE
// ──────────────────────────────────────────────

type storedSession struct {
	access  string
	refresh string
	profile *domain.UserProfile
}

// MockSessionStore is an in-memory mock of the Redis session store.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*storedSession

	// Error injection
	SaveError  error
	ClearError error
	ReadError  error
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]*storedSession)}
}

func (m *MockSessionStore) SaveTokens(ctx context.Context, sessionID, access, refresh string) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(sessionID)
	s.access = access
	s.refresh = refresh
	return nil
}

func (m *MockSessionStore) AccessToken(ctx context.Context, sessionID string) (string, error) {
	if m.ReadError != nil {
		return "", m.ReadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s.access, nil
	}
	return "", nil
}

func (m *MockSessionStore) RefreshToken(ctx context.Context, sessionID string) (string, error) {
	if m.ReadError != nil {
		return "", m.ReadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s.refresh, nil
	}
	return "", nil
}

func (m *MockSessionStore) SaveProfile(ctx context.Context, sessionID string, profile *domain.UserProfile) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *profile
	m.session(sessionID).profile = &copy
	return nil
}

func (m *MockSessionStore) Profile(ctx context.Context, sessionID string) (*domain.UserProfile, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok && s.profile != nil {
		copy := *s.profile
		return &copy, nil
	}
	return nil, nil
}

func (m *MockSessionStore) Clear(ctx context.Context, sessionID string) error {
	if m.ClearError != nil {
		return m.ClearError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// session must be called with the lock held.
func (m *MockSessionStore) session(sessionID string) *storedSession {
	s, ok := m.sessions[sessionID]
	if !ok {
		s = &storedSession{}
		m.sessions[sessionID] = s
	}
	return s
}

var _ redis.SessionStoreInterface = (*MockSessionStore)(nil)
