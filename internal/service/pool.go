package service

import (
	"context"
	"sync"

	"carpool/internal/domain"
	"carpool/internal/filter"
)

// PoolAPI is the subset of the remote collaborator the pool service uses.
type PoolAPI interface {
	FetchAllPools(ctx context.Context, token string) ([]domain.Pool, error)
	FetchPool(ctx context.Context, token, id string) (*domain.Pool, error)
	CreatePool(ctx context.Context, token string, form domain.PoolForm) (*domain.Pool, error)
	UpdatePool(ctx context.Context, token, id string, form domain.PoolForm) (*domain.Pool, error)
	PatchPool(ctx context.Context, token, id string, fields map[string]any) (*domain.Pool, error)
	JoinPool(ctx context.Context, token, id string, gender domain.Gender, phoneNumber string) (string, error)
}

// PoolService owns the loaded pool collection and runs the filter core over
// it. A failed refresh leaves the previous collection in place, and a refresh
// that lost the race to a newer one is discarded instead of clobbering it.
type PoolService struct {
	api PoolAPI

	mu    sync.RWMutex
	pools []domain.Pool
	gen   uint64
}

// NewPoolService creates a new PoolService.
func NewPoolService(api PoolAPI) *PoolService {
	return &PoolService{api: api}
}

// Refresh reloads the pool collection from the remote API. The generation
// counter guards against out-of-order responses: only the newest in-flight
// refresh may replace the collection.
func (s *PoolService) Refresh(ctx context.Context, token string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	pools, err := s.api.FetchAllPools(ctx, token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if gen == s.gen {
		s.pools = pools
	}
	s.mu.Unlock()
	return nil
}

// Pools returns a copy of the loaded collection in its original order.
func (s *PoolService) Pools() []domain.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Pool, len(s.pools))
	copy(out, s.pools)
	return out
}

// Options derives the dynamic filter choices from the full collection.
func (s *PoolService) Options() filter.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.DeriveOptions(s.pools)
}

// Browse applies the filter spec to the loaded collection and returns the
// matching subset together with the current option sets.
func (s *PoolService) Browse(spec filter.Spec) ([]domain.Pool, filter.Options) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.pools, spec), filter.DeriveOptions(s.pools)
}

// Get returns one pool by ID from the remote API.
func (s *PoolService) Get(ctx context.Context, token, id string) (*domain.Pool, error) {
	return s.api.FetchPool(ctx, token, id)
}

// Create validates the form and submits a new pool. The creator becomes the
// pool's first member on the server side.
func (s *PoolService) Create(ctx context.Context, token string, profile *domain.UserProfile, form domain.PoolForm) (*domain.Pool, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	if form.FemaleOnly && profile.Gender != domain.GenderFemale {
		return nil, ErrFemaleOnlyRestricted
	}

	pool, err := s.api.CreatePool(ctx, token, form)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pools = append(s.pools, *pool)
	s.mu.Unlock()
	return pool, nil
}

// Update replaces a pool's writable fields. Only the creator may edit, and
// only female users may keep or set the female-only flag.
func (s *PoolService) Update(ctx context.Context, token string, profile *domain.UserProfile, id string, form domain.PoolForm) (*domain.Pool, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	if err := s.checkEditable(ctx, token, profile, id); err != nil {
		return nil, err
	}
	if form.FemaleOnly && profile.Gender != domain.GenderFemale {
		return nil, ErrFemaleOnlyRestricted
	}

	pool, err := s.api.UpdatePool(ctx, token, id, form)
	if err != nil {
		return nil, err
	}
	s.replaceCached(*pool)
	return pool, nil
}

// Patch updates only the supplied pool fields.
func (s *PoolService) Patch(ctx context.Context, token string, profile *domain.UserProfile, id string, fields map[string]any) (*domain.Pool, error) {
	if err := s.checkEditable(ctx, token, profile, id); err != nil {
		return nil, err
	}
	if v, ok := fields["is_female_only"].(bool); ok && v && profile.Gender != domain.GenderFemale {
		return nil, ErrFemaleOnlyRestricted
	}

	pool, err := s.api.PatchPool(ctx, token, id, fields)
	if err != nil {
		return nil, err
	}
	s.replaceCached(*pool)
	return pool, nil
}

// Join adds the caller to a pool after the membership rules pass: valid
// gender, not already a member, free seats, and the female-only restriction.
func (s *PoolService) Join(ctx context.Context, token string, profile *domain.UserProfile, id string) (string, error) {
	if !profile.Complete() {
		return "", ErrProfileIncomplete
	}
	if !domain.ValidGender(profile.Gender) {
		return "", ErrInvalidGender
	}

	pool, err := s.api.FetchPool(ctx, token, id)
	if err != nil {
		return "", err
	}
	if pool.HasMember(profile.PhoneNumber) {
		return "", ErrAlreadyMember
	}
	if pool.Full() {
		return "", ErrPoolFull
	}
	if pool.FemaleOnly && profile.Gender != domain.GenderFemale {
		return "", ErrFemaleOnlyRestricted
	}

	message, err := s.api.JoinPool(ctx, token, id, profile.Gender, profile.PhoneNumber)
	if err != nil {
		return "", err
	}

	joined := *pool
	joined.CurrentPersons++
	joined.Members = append(joined.Members, domain.PoolMember{
		FullName:    profile.FullName,
		PhoneNumber: profile.PhoneNumber,
		Gender:      profile.Gender,
	})
	s.replaceCached(joined)
	return message, nil
}

// checkEditable verifies the caller created the pool. Phone number is the
// only member identity the API exposes, so it serves as the comparison key.
func (s *PoolService) checkEditable(ctx context.Context, token string, profile *domain.UserProfile, id string) error {
	pool, err := s.api.FetchPool(ctx, token, id)
	if err != nil {
		return err
	}
	if pool.CreatedBy.PhoneNumber == "" || pool.CreatedBy.PhoneNumber != profile.PhoneNumber {
		return ErrNotCreator
	}
	return nil
}

// replaceCached swaps the stored copy of a pool in place, keeping order.
func (s *PoolService) replaceCached(pool domain.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pools {
		if s.pools[i].ID == pool.ID {
			s.pools[i] = pool
			return
		}
	}
}

func validateForm(form domain.PoolForm) error {
	if form.StartPoint == "" || form.EndPoint == "" {
		return ErrInvalidRoute
	}
	if !form.ArrivalTime.After(form.DepartureTime) {
		return ErrInvalidSchedule
	}
	if form.TotalPersons < 1 || form.TotalPersons > domain.MaxPoolPersons {
		return ErrInvalidCapacity
	}
	if form.CurrentPersons < 1 || form.CurrentPersons > form.TotalPersons {
		return ErrInvalidPartySize
	}
	if form.TotalFare < 0 {
		return ErrInvalidFare
	}
	return nil
}
