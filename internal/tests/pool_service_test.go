package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/filter"
	"carpool/internal/service"
)

func seedPool(id, creator, phone string, femaleOnly bool) domain.Pool {
	return domain.Pool{
		ID:             id,
		CreatedBy:      domain.PoolCreator{FullName: creator, PhoneNumber: phone, Gender: domain.GenderFemale},
		StartPoint:     "Gate1",
		EndPoint:       "Library",
		DepartureTime:  time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC),
		ArrivalTime:    time.Date(2025, 3, 20, 8, 30, 0, 0, time.UTC),
		TransportMode:  "Car",
		TotalPersons:   4,
		CurrentPersons: 1,
		TotalFare:      100,
		FarePerHead:    25,
		FemaleOnly:     femaleOnly,
	}
}

func validForm() domain.PoolForm {
	return domain.PoolForm{
		StartPoint:     "Gate2",
		EndPoint:       "Hostel",
		DepartureTime:  time.Date(2025, 3, 21, 9, 0, 0, 0, time.UTC),
		ArrivalTime:    time.Date(2025, 3, 21, 9, 45, 0, 0, time.UTC),
		TransportMode:  "SUV",
		TotalPersons:   6,
		CurrentPersons: 1,
		TotalFare:      120,
	}
}

func femaleProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:          "u1",
		FullName:    "Alice",
		PhoneNumber: "9876543210",
		Gender:      domain.GenderFemale,
	}
}

func maleProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:          "u2",
		FullName:    "Bob",
		PhoneNumber: "1234567890",
		Gender:      domain.GenderMale,
	}
}

func TestRefresh_LoadsCollection(t *testing.T) {
	api := NewMockRemoteAPI()
	api.AddPool(seedPool("1", "Alice", "9876543210", true))
	api.AddPool(seedPool("2", "Bob", "1234567890", false))
	svc := service.NewPoolService(api)

	if err := svc.Refresh(context.Background(), "tok"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	pools := svc.Pools()
	if len(pools) != 2 || pools[0].ID != "1" || pools[1].ID != "2" {
		t.Errorf("unexpected collection: %+v", pools)
	}
	if got := atomic.LoadInt32(&api.FetchAllCallCount); got != 1 {
		t.Errorf("expected one fetch, got %d", got)
	}
}

func TestRefresh_FailureKeepsPreviousCollection(t *testing.T) {
	api := NewMockRemoteAPI()
	api.AddPool(seedPool("1", "Alice", "9876543210", true))
	svc := service.NewPoolService(api)

	if err := svc.Refresh(context.Background(), "tok"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	api.FetchAllError = errors.New("remote down")
	if err := svc.Refresh(context.Background(), "tok"); err == nil {
		t.Fatal("expected refresh error")
	}

	if pools := svc.Pools(); len(pools) != 1 || pools[0].ID != "1" {
		t.Errorf("failed refresh must keep the previous collection, got %+v", pools)
	}
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	stale := []domain.Pool{seedPool("old", "Alice", "9876543210", false)}
	fresh := []domain.Pool{seedPool("new", "Bob", "1234567890", false)}

	api := NewMockRemoteAPI()
	entered := make(chan struct{})
	release := make(chan struct{})
	var call int32
	api.FetchAllHook = func() ([]domain.Pool, error) {
		if atomic.AddInt32(&call, 1) == 1 {
			close(entered)
			<-release
			return stale, nil
		}
		return fresh, nil
	}
	svc := service.NewPoolService(api)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = svc.Refresh(context.Background(), "tok") // First refresh, answered last.
	}()
	<-entered

	if err := svc.Refresh(context.Background(), "tok"); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	close(release)
	wg.Wait()

	pools := svc.Pools()
	if len(pools) != 1 || pools[0].ID != "new" {
		t.Errorf("stale response overwrote the newer collection: %+v", pools)
	}
}

func TestBrowse_FiltersAndDerivesOptions(t *testing.T) {
	api := NewMockRemoteAPI()
	api.AddPool(seedPool("1", "Alice", "9876543210", true))
	bob := seedPool("2", "Bob", "1234567890", false)
	bob.StartPoint = "Gate2"
	bob.FarePerHead = 60
	api.AddPool(bob)
	svc := service.NewPoolService(api)
	if err := svc.Refresh(context.Background(), "tok"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	spec := filter.NewSpec(filter.Bounds{Min: 0, Max: 100})
	spec.SearchQuery = "ali"
	matched, opts := svc.Browse(spec)

	if len(matched) != 1 || matched[0].ID != "1" {
		t.Errorf("unexpected match set: %+v", matched)
	}
	// Options always come from the full collection, not the filtered subset.
	if len(opts.StartPoints) != 2 {
		t.Errorf("options must span the full collection: %+v", opts)
	}
	if opts.FareBounds.Min != 25 || opts.FareBounds.Max != 60 {
		t.Errorf("unexpected fare bounds: %+v", opts.FareBounds)
	}
}

func TestCreate_RejectsInvalidForms(t *testing.T) {
	api := NewMockRemoteAPI()
	svc := service.NewPoolService(api)
	profile := femaleProfile()

	cases := []struct {
		name   string
		mutate func(*domain.PoolForm)
		want   error
	}{
		{"missing route", func(f *domain.PoolForm) { f.EndPoint = "" }, service.ErrInvalidRoute},
		{"arrival before departure", func(f *domain.PoolForm) { f.ArrivalTime = f.DepartureTime.Add(-time.Hour) }, service.ErrInvalidSchedule},
		{"zero capacity", func(f *domain.PoolForm) { f.TotalPersons = 0 }, service.ErrInvalidCapacity},
		{"over capacity cap", func(f *domain.PoolForm) { f.TotalPersons = domain.MaxPoolPersons + 1 }, service.ErrInvalidCapacity},
		{"party exceeds seats", func(f *domain.PoolForm) { f.CurrentPersons = f.TotalPersons + 1 }, service.ErrInvalidPartySize},
		{"negative fare", func(f *domain.PoolForm) { f.TotalFare = -1 }, service.ErrInvalidFare},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			if _, err := svc.Create(context.Background(), "tok", profile, form); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if got := atomic.LoadInt32(&api.CreateCallCount); got != 0 {
		t.Errorf("invalid forms must not reach the remote, got %d calls", got)
	}
}

func TestCreate_FemaleOnlyRequiresFemaleCreator(t *testing.T) {
	api := NewMockRemoteAPI()
	svc := service.NewPoolService(api)

	form := validForm()
	form.FemaleOnly = true

	if _, err := svc.Create(context.Background(), "tok", maleProfile(), form); !errors.Is(err, service.ErrFemaleOnlyRestricted) {
		t.Errorf("expected ErrFemaleOnlyRestricted, got %v", err)
	}
	if got := atomic.LoadInt32(&api.CreateCallCount); got != 0 {
		t.Errorf("restricted create must not reach the remote, got %d calls", got)
	}

	pool, err := svc.Create(context.Background(), "tok", femaleProfile(), form)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !pool.FemaleOnly {
		t.Error("female-only flag lost on create")
	}
	if pools := svc.Pools(); len(pools) != 1 || pools[0].ID != pool.ID {
		t.Errorf("created pool not cached: %+v", pools)
	}
}

func TestUpdate_OnlyCreatorMayEdit(t *testing.T) {
	api := NewMockRemoteAPI()
	api.AddPool(seedPool("1", "Alice", "9876543210", false))
	svc := service.NewPoolService(api)

	if _, err := svc.Update(context.Background(), "tok", maleProfile(), "1", validForm()); !errors.Is(err, service.ErrNotCreator) {
		t.Errorf("expected ErrNotCreator, got %v", err)
	}

	pool, err := svc.Update(context.Background(), "tok", femaleProfile(), "1", validForm())
	if err != nil {
		t.Fatalf("update by creator: %v", err)
	}
	if pool.StartPoint != "Gate2" || pool.FarePerHead != 20 { // 120 / 6
		t.Errorf("update not applied: %+v", pool)
	}
}

func TestPatch_FemaleOnlyFlagRestricted(t *testing.T) {
	api := NewMockRemoteAPI()
	pool := seedPool("1", "Bob", "1234567890", false)
	pool.CreatedBy.Gender = domain.GenderMale
	api.AddPool(pool)
	svc := service.NewPoolService(api)

	_, err := svc.Patch(context.Background(), "tok", maleProfile(), "1", map[string]any{"is_female_only": true})
	if !errors.Is(err, service.ErrFemaleOnlyRestricted) {
		t.Errorf("expected ErrFemaleOnlyRestricted, got %v", err)
	}

	got, err := svc.Patch(context.Background(), "tok", maleProfile(), "1", map[string]any{"description": "updated"})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if got.Description != "updated" {
		t.Errorf("patch not applied: %+v", got)
	}
}

func TestJoin_MembershipRules(t *testing.T) {
	ctx := context.Background()

	t.Run("incomplete profile", func(t *testing.T) {
		svc := service.NewPoolService(NewMockRemoteAPI())
		profile := &domain.UserProfile{FullName: "NoPhone", Gender: domain.GenderMale}
		if _, err := svc.Join(ctx, "tok", profile, "1"); !errors.Is(err, service.ErrProfileIncomplete) {
			t.Errorf("expected ErrProfileIncomplete, got %v", err)
		}
	})

	t.Run("invalid gender", func(t *testing.T) {
		svc := service.NewPoolService(NewMockRemoteAPI())
		profile := &domain.UserProfile{PhoneNumber: "555", Gender: "Unknown"}
		if _, err := svc.Join(ctx, "tok", profile, "1"); !errors.Is(err, service.ErrInvalidGender) {
			t.Errorf("expected ErrInvalidGender, got %v", err)
		}
	})

	t.Run("already a member", func(t *testing.T) {
		api := NewMockRemoteAPI()
		api.AddPool(seedPool("1", "Alice", "9876543210", false))
		svc := service.NewPoolService(api)
		if _, err := svc.Join(ctx, "tok", femaleProfile(), "1"); !errors.Is(err, service.ErrAlreadyMember) {
			t.Errorf("creator joining own pool: expected ErrAlreadyMember, got %v", err)
		}
	})

	t.Run("pool full", func(t *testing.T) {
		api := NewMockRemoteAPI()
		full := seedPool("1", "Alice", "9876543210", false)
		full.CurrentPersons = full.TotalPersons
		api.AddPool(full)
		svc := service.NewPoolService(api)
		if _, err := svc.Join(ctx, "tok", maleProfile(), "1"); !errors.Is(err, service.ErrPoolFull) {
			t.Errorf("expected ErrPoolFull, got %v", err)
		}
	})

	t.Run("female-only restriction", func(t *testing.T) {
		api := NewMockRemoteAPI()
		api.AddPool(seedPool("1", "Alice", "9876543210", true))
		svc := service.NewPoolService(api)
		if _, err := svc.Join(ctx, "tok", maleProfile(), "1"); !errors.Is(err, service.ErrFemaleOnlyRestricted) {
			t.Errorf("expected ErrFemaleOnlyRestricted, got %v", err)
		}
		if got := atomic.LoadInt32(&api.JoinCallCount); got != 0 {
			t.Errorf("rejected join must not reach the remote, got %d calls", got)
		}
	})
}

func TestJoin_SuccessUpdatesCachedPool(t *testing.T) {
	api := NewMockRemoteAPI()
	api.AddPool(seedPool("1", "Alice", "9876543210", false))
	svc := service.NewPoolService(api)
	if err := svc.Refresh(context.Background(), "tok"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	message, err := svc.Join(context.Background(), "tok", maleProfile(), "1")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if message == "" {
		t.Error("expected a join confirmation message")
	}
	if got := atomic.LoadInt32(&api.JoinCallCount); got != 1 {
		t.Errorf("expected one remote join, got %d", got)
	}

	pools := svc.Pools()
	if len(pools) != 1 || pools[0].CurrentPersons != 2 {
		t.Errorf("cached pool not updated after join: %+v", pools)
	}
	if !pools[0].HasMember("1234567890") {
		t.Errorf("joined member missing from cached pool: %+v", pools[0].Members)
	}
}
