package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SitaaronKL/thenetwork-backend/internal/clients"
	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/requestdata"
	"github.com/SitaaronKL/thenetwork-backend/internal/scheduler"
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

// ---- stubs ----

type stubProfileRepo struct {
	profiles map[uuid.UUID]*types.Profile
}

func (s *stubProfileRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s not found", id)
	}
	return p, nil
}

func (s *stubProfileRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Profile, error) {
	var out []*types.Profile
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubConnectionRepo struct {
	connected []uuid.UUID
}

func (s *stubConnectionRepo) ListAcceptedUserIDs(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]uuid.UUID, error) {
	return s.connected, nil
}

type stubAvailabilityRepo struct {
	blocks map[uuid.UUID][]types.AvailabilityBlock
}

func (s *stubAvailabilityRepo) ListUpcoming(_ context.Context, _ *gorm.DB, userID uuid.UUID, _ time.Time) ([]types.AvailabilityBlock, error) {
	return s.blocks[userID], nil
}

type stubPlanRepo struct {
	recentCounts map[uuid.UUID]int
	seedNames    []string
	created      []*types.ReadyPlan
	failInsert   bool
}

func (s *stubPlanRepo) Create(_ context.Context, _ *gorm.DB, plan *types.ReadyPlan) (*types.ReadyPlan, error) {
	if s.failInsert {
		return nil, errors.New("insert refused")
	}
	s.created = append(s.created, plan)
	return plan, nil
}

func (s *stubPlanRepo) ListByUser(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]*types.ReadyPlan, error) {
	return s.created, nil
}

func (s *stubPlanRepo) CountRecentWithInvitee(_ context.Context, _ *gorm.DB, _, inviteeID uuid.UUID, _ time.Time) (int, error) {
	return s.recentCounts[inviteeID], nil
}

func (s *stubPlanRepo) ListVenueNamesByCity(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ string) ([]string, error) {
	return s.seedNames, nil
}

type stubRankingClient struct {
	ranked []clients.RankedCandidate
}

func (s *stubRankingClient) RankConnections(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ *types.Profile) ([]clients.RankedCandidate, error) {
	return s.ranked, nil
}

type stubWindowClient struct {
	windows []scheduler.Window
}

func (s *stubWindowClient) SmartWindows(_ context.Context, _ string, _ []scheduler.Block) ([]scheduler.Window, error) {
	return s.windows, nil
}

type stubVenueClient struct {
	venues []types.Venue
	err    error
}

func (s *stubVenueClient) Search(_ context.Context, _, _ string, _ int) ([]types.Venue, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.venues, nil
}

type stubLLMClient struct {
	failTitle bool
}

func (s *stubLLMClient) PlanTitle(_ context.Context, req clients.TitleRequest) (string, error) {
	if s.failTitle {
		return "", errors.New("model unavailable")
	}
	return "Catch up over " + req.ActivityType, nil
}

func (s *stubLLMClient) ClassifyActivity(_ context.Context, _ []string) (string, error) {
	return "coffee", nil
}

// ---- fixture ----

type fixture struct {
	userID   uuid.UUID
	profiles *stubProfileRepo
	conns    *stubConnectionRepo
	avail    *stubAvailabilityRepo
	plans    *stubPlanRepo
	ranking  *stubRankingClient
	windows  *stubWindowClient
	venues   *stubVenueClient
	llm      *stubLLMClient
}

func newFixture(t *testing.T, candidateCount int) *fixture {
	t.Helper()
	f := &fixture{
		userID:   uuid.New(),
		profiles: &stubProfileRepo{profiles: map[uuid.UUID]*types.Profile{}},
		conns:    &stubConnectionRepo{},
		avail:    &stubAvailabilityRepo{blocks: map[uuid.UUID][]types.AvailabilityBlock{}},
		plans:    &stubPlanRepo{recentCounts: map[uuid.UUID]int{}},
		ranking:  &stubRankingClient{},
		windows:  &stubWindowClient{},
		venues:   &stubVenueClient{},
		llm:      &stubLLMClient{},
	}
	f.profiles.profiles[f.userID] = &types.Profile{ID: f.userID, FullName: "Creator", Location: "Austin, TX"}

	base := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Hour)
	for i := 0; i < candidateCount; i++ {
		id := uuid.New()
		f.conns.connected = append(f.conns.connected, id)
		f.profiles.profiles[id] = &types.Profile{
			ID:       id,
			FullName: fmt.Sprintf("Friend %d", i),
			Location: "Austin, TX",
		}
		// Fully available for the next two weeks.
		f.avail.blocks[id] = []types.AvailabilityBlock{{
			UserID:    id,
			StartTime: base,
			EndTime:   base.AddDate(0, 0, 14),
		}}
		f.ranking.ranked = append(f.ranking.ranked, clients.RankedCandidate{
			ID:              id,
			Similarity:      0.9 - float64(i)*0.1,
			SharedInterests: []string{"coffee", "music"},
			Profile:         &clients.RankedProfileRef{FullName: fmt.Sprintf("Friend %d", i)},
		})
	}

	// One two-hour creator window per day, five days running.
	for i := 0; i < 5; i++ {
		start := base.AddDate(0, 0, i).Add(10 * time.Hour)
		f.windows.windows = append(f.windows.windows, scheduler.Window{
			Start:        start,
			End:          start.Add(2 * time.Hour),
			ProposedTime: start.Add(30 * time.Minute),
			Score:        0.9 - float64(i)*0.05,
		})
	}

	for i := 0; i < 10; i++ {
		f.venues.venues = append(f.venues.venues, types.Venue{
			Name:     fmt.Sprintf("Venue %d", i),
			Address:  fmt.Sprintf("%d Congress Ave", 100+i),
			Rating:   4.8 - float64(i)*0.1,
			Distance: "0.4 mi",
		})
	}
	return f
}

func (f *fixture) service(t *testing.T) ReadyPlanService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewReadyPlanService(log, f.profiles, f.conns, f.avail, f.plans, f.ranking, f.windows, f.venues, f.llm, scheduler.Config{})
}

func (f *fixture) ctx() context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: f.userID})
}

func inviteeOf(t *testing.T, plan *types.ReadyPlan) string {
	t.Helper()
	var ids []string
	if err := json.Unmarshal(plan.InviteeIDs, &ids); err != nil {
		t.Fatalf("unmarshal invitee ids: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected exactly one invitee, got %v", ids)
	}
	return ids[0]
}

// ---- tests ----

func TestGenerate_FullBatch(t *testing.T) {
	f := newFixture(t, 5)
	result, err := f.service(t).Generate(f.ctx(), "Austin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.PlansGenerated != 5 || len(result.Plans) != 5 {
		t.Fatalf("expected 5 plans, got %d", result.PlansGenerated)
	}

	invitees := map[string]bool{}
	days := map[string]bool{}
	venues := map[string]bool{}
	for _, plan := range result.Plans {
		invitee := inviteeOf(t, plan)
		if invitees[invitee] {
			t.Fatalf("invitee %s used twice in one batch", invitee)
		}
		invitees[invitee] = true

		day := scheduler.DayKey(plan.TimeWindowStart)
		if days[day] {
			t.Fatalf("day %s used twice in one batch", day)
		}
		days[day] = true

		var v types.Venue
		if err := json.Unmarshal(plan.SelectedVenue, &v); err != nil {
			t.Fatalf("unmarshal venue: %v", err)
		}
		key := scheduler.NormalizeVenueName(v.Name)
		if venues[key] {
			t.Fatalf("venue %q used twice in one batch", v.Name)
		}
		venues[key] = true

		if !plan.CommitRuleExpiresAt.Equal(plan.TimeWindowStart.Add(24 * time.Hour)) {
			t.Fatalf("commit deadline mismatch: %v vs %v", plan.CommitRuleExpiresAt, plan.TimeWindowStart)
		}
		if plan.Status != types.PlanStatusPending {
			t.Fatalf("expected pending plan, got %q", plan.Status)
		}
	}
}

func TestGenerate_SingleEligibleCandidate(t *testing.T) {
	f := newFixture(t, 5)
	// Everyone but the third candidate is over the recency cap.
	for i, rc := range f.ranking.ranked {
		if i != 2 {
			f.plans.recentCounts[rc.ID] = scheduler.RecentPlanCap
		}
	}

	result, err := f.service(t).Generate(f.ctx(), "Austin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.PlansGenerated != 1 {
		t.Fatalf("expected exactly 1 plan, got %d", result.PlansGenerated)
	}
	if got := inviteeOf(t, result.Plans[0]); got != f.ranking.ranked[2].ID.String() {
		t.Fatalf("expected the only eligible candidate, got %s", got)
	}
}

func TestGenerate_InviteeWithoutAvailabilityStillGetsPlan(t *testing.T) {
	f := newFixture(t, 3)
	for _, rc := range f.ranking.ranked {
		f.avail.blocks[rc.ID] = nil
	}

	result, err := f.service(t).Generate(f.ctx(), "Austin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.PlansGenerated == 0 {
		t.Fatalf("expected creator-window fallback to still produce plans")
	}
	// Fallback windows carry the creator's raw score, no overlap bonus.
	for _, plan := range result.Plans {
		if plan.TimeWindowEnd.Sub(plan.TimeWindowStart) != 2*time.Hour {
			t.Fatalf("expected the raw creator window, got %v..%v", plan.TimeWindowStart, plan.TimeWindowEnd)
		}
	}
}

func TestGenerate_NoConnections(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.service(t).Generate(f.ctx(), "Austin")

	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if pre.Message != "No connections found" || pre.LocalFriendCount != 0 || pre.MinimumRequired != 3 {
		t.Fatalf("unexpected precondition: %+v", pre)
	}
}

func TestGenerate_InsufficientLocalDensity(t *testing.T) {
	f := newFixture(t, 5)
	// Move all but two connections out of town.
	for i, id := range f.conns.connected {
		if i >= 2 {
			f.profiles.profiles[id].Location = "Portland, OR"
		}
	}

	_, err := f.service(t).Generate(f.ctx(), "Austin")
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if pre.Message != "Insufficient local network density" || pre.LocalFriendCount != 2 || pre.MinimumRequired != 3 {
		t.Fatalf("unexpected precondition: %+v", pre)
	}
}

func TestGenerate_NoCompatibleConnections(t *testing.T) {
	f := newFixture(t, 4)
	f.ranking.ranked = nil

	_, err := f.service(t).Generate(f.ctx(), "Austin")
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if pre.Message != "No compatible connections found" || pre.LocalFriendCount != 4 || pre.MinimumRequired != 0 {
		t.Fatalf("unexpected precondition: %+v", pre)
	}
}

func TestGenerate_CityMatchIsCaseInsensitiveSubstring(t *testing.T) {
	f := newFixture(t, 3)
	for _, id := range f.conns.connected {
		f.profiles.profiles[id].Location = "AUSTIN / Round Rock metro"
	}
	result, err := f.service(t).Generate(f.ctx(), "austin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.PlansGenerated == 0 {
		t.Fatalf("expected substring city match to pass the density check")
	}
}

func TestGenerate_PersistFailureIsAbsorbed(t *testing.T) {
	f := newFixture(t, 5)
	f.plans.failInsert = true

	result, err := f.service(t).Generate(f.ctx(), "Austin")
	if err != nil {
		t.Fatalf("persist failures must not fail the batch: %v", err)
	}
	if result.PlansGenerated != 0 || len(result.Plans) != 0 {
		t.Fatalf("expected zero plans, got %d", result.PlansGenerated)
	}
}

func TestGenerate_VenueProviderDownUsesPlaceholder(t *testing.T) {
	f := newFixture(t, 3)
	f.venues.err = errors.New("provider down")
	f.llm.failTitle = true

	result, err := f.service(t).Generate(f.ctx(), "Austin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.PlansGenerated == 0 {
		t.Fatalf("expected placeholder venues to keep the batch alive")
	}
	var v types.Venue
	if err := json.Unmarshal(result.Plans[0].SelectedVenue, &v); err != nil {
		t.Fatalf("unmarshal venue: %v", err)
	}
	if v.Name != "Local Coffee Shop" || v.Address != "Austin" {
		t.Fatalf("unexpected placeholder: %+v", v)
	}
	if result.Plans[0].ActivityDescription == "" {
		t.Fatalf("expected template title when the model is down")
	}
}

func TestGenerate_ZeroWindowsMeansZeroPlans(t *testing.T) {
	f := newFixture(t, 3)
	f.windows.windows = nil

	result, err := f.service(t).Generate(f.ctx(), "Austin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.PlansGenerated != 0 {
		t.Fatalf("no creator windows must yield an empty, non-error batch")
	}
}

func TestGenerate_FewerWindowsThanCapLimitsIterations(t *testing.T) {
	f := newFixture(t, 5)
	f.windows.windows = f.windows.windows[:2]

	result, err := f.service(t).Generate(f.ctx(), "Austin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.PlansGenerated != 2 {
		t.Fatalf("expected iterations capped by window count, got %d plans", result.PlansGenerated)
	}
}
