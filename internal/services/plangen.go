package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SitaaronKL/thenetwork-backend/internal/clients"
	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/repos"
	"github.com/SitaaronKL/thenetwork-backend/internal/requestdata"
	"github.com/SitaaronKL/thenetwork-backend/internal/scheduler"
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

const minLocalConnections = 3

// PreconditionError is a terminal, user-correctable failure detected
// before the generation loop starts. It carries the diagnostic counts
// the API contract returns alongside the message.
type PreconditionError struct {
	Message          string
	LocalFriendCount int
	MinimumRequired  int
}

func (e *PreconditionError) Error() string { return e.Message }

// GenerateResult is the aggregate outcome of one batch. Zero plans with
// no error is a valid terminal state.
type GenerateResult struct {
	PlansGenerated int
	Plans          []*types.ReadyPlan
}

// ReadyPlanService generates and reads back ready plans for the
// authenticated user carried in the request context.
type ReadyPlanService interface {
	Generate(ctx context.Context, city string) (*GenerateResult, error)
	ListPlans(ctx context.Context) ([]*types.ReadyPlan, error)
}

type readyPlanService struct {
	log              *logger.Logger
	profileRepo      repos.ProfileRepo
	connectionRepo   repos.ConnectionRepo
	availabilityRepo repos.AvailabilityRepo
	planRepo         repos.ReadyPlanRepo
	ranking          clients.RankingClient
	windows          clients.WindowClient
	venues           clients.VenueClient
	llm              clients.LLMClient
	schedCfg         scheduler.Config
}

func NewReadyPlanService(
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	connectionRepo repos.ConnectionRepo,
	availabilityRepo repos.AvailabilityRepo,
	planRepo repos.ReadyPlanRepo,
	ranking clients.RankingClient,
	windows clients.WindowClient,
	venues clients.VenueClient,
	llm clients.LLMClient,
	schedCfg scheduler.Config,
) ReadyPlanService {
	return &readyPlanService{
		log:              log.With("service", "ReadyPlanService"),
		profileRepo:      profileRepo,
		connectionRepo:   connectionRepo,
		availabilityRepo: availabilityRepo,
		planRepo:         planRepo,
		ranking:          ranking,
		windows:          windows,
		venues:           venues,
		llm:              llm,
		schedCfg:         schedCfg,
	}
}

func (s *readyPlanService) Generate(ctx context.Context, city string) (*GenerateResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	userID := rd.UserID
	now := time.Now()
	log := s.log.With("user_id", userID, "city", city)

	profile, err := s.profileRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user profile: %w", err)
	}

	connectionIDs, err := s.connectionRepo.ListAcceptedUserIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch connections: %w", err)
	}
	if len(connectionIDs) == 0 {
		return nil, &PreconditionError{Message: "No connections found", LocalFriendCount: 0, MinimumRequired: minLocalConnections}
	}

	connectionProfiles, err := s.profileRepo.GetByIDs(ctx, nil, connectionIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch connection profiles: %w", err)
	}
	localIDs := filterByCity(connectionProfiles, city)
	if len(localIDs) < minLocalConnections {
		return nil, &PreconditionError{Message: "Insufficient local network density", LocalFriendCount: len(localIDs), MinimumRequired: minLocalConnections}
	}

	ranked, err := s.ranking.RankConnections(ctx, userID, localIDs, profile)
	if err != nil {
		return nil, fmt.Errorf("rank connections: %w", err)
	}
	if len(ranked) == 0 {
		return nil, &PreconditionError{Message: "No compatible connections found", LocalFriendCount: len(localIDs)}
	}
	candidates := toCandidates(ranked)

	creatorBlocks, err := s.availabilityRepo.ListUpcoming(ctx, nil, userID, now)
	if err != nil {
		return nil, fmt.Errorf("fetch availability: %w", err)
	}
	creatorWindows, err := s.windows.SmartWindows(ctx, profile.School, toBlocks(creatorBlocks))
	if err != nil {
		return nil, fmt.Errorf("generate smart windows: %w", err)
	}

	seedNames, err := s.planRepo.ListVenueNamesByCity(ctx, nil, userID, city)
	if err != nil {
		return nil, fmt.Errorf("fetch prior venue names: %w", err)
	}
	st := scheduler.NewState(seedNames)

	recentCounts, err := s.fetchRecentCounts(ctx, userID, candidates, now)
	if err != nil {
		return nil, fmt.Errorf("fetch recent plan counts: %w", err)
	}

	iterations := len(creatorWindows)
	if iterations > scheduler.MaxPlansPerBatch {
		iterations = scheduler.MaxPlansPerBatch
	}

	result := &GenerateResult{Plans: []*types.ReadyPlan{}}
	for i := 0; i < iterations; i++ {
		kind, plan, next := s.runIteration(ctx, i, userID, city, st, candidates, recentCounts, creatorWindows)
		st = next
		if kind == scheduler.StepSelected {
			result.Plans = append(result.Plans, plan)
			result.PlansGenerated++
		} else {
			log.Debug("Iteration produced no plan", "iteration", i, "outcome", kind.String())
		}
	}

	log.Info("Plan generation finished", "plans_generated", result.PlansGenerated, "iterations", iterations)
	return result, nil
}

// fetchRecentCounts loads the 14-day plan count for every ranked
// candidate concurrently; the counts are read-only for the whole batch.
func (s *readyPlanService) fetchRecentCounts(ctx context.Context, userID uuid.UUID, candidates []scheduler.Candidate, now time.Time) (map[uuid.UUID]int, error) {
	since := now.AddDate(0, 0, -scheduler.RecencyWindowDays)
	results := make([]int, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		g.Go(func() error {
			count, err := s.planRepo.CountRecentWithInvitee(gctx, nil, userID, c.ID, since)
			if err != nil {
				return err
			}
			results[i] = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int, len(candidates))
	for i, c := range candidates {
		counts[c.ID] = results[i]
	}
	return counts, nil
}

// runIteration runs the per-iteration pipeline: candidate, window,
// activity, venue, title, persist. Whatever stage fails, the returned
// state keeps every dedup entry recorded up to that point — a selected
// candidate stays consumed even when no window was found for them.
func (s *readyPlanService) runIteration(
	ctx context.Context,
	iteration int,
	userID uuid.UUID,
	city string,
	st scheduler.State,
	candidates []scheduler.Candidate,
	recentCounts map[uuid.UUID]int,
	creatorWindows []scheduler.Window,
) (scheduler.StepKind, *types.ReadyPlan, scheduler.State) {
	log := s.log.With("user_id", userID, "iteration", iteration)

	candidate, st, ok := scheduler.SelectCandidate(st, candidates, recentCounts)
	if !ok {
		return scheduler.StepNoCandidate, nil, st
	}

	inviteeBlocks, inviteeProfile := s.fetchInvitee(ctx, candidate.ID)
	if inviteeProfile != nil {
		if candidate.FullName == "" {
			candidate.FullName = inviteeProfile.FullName
		}
		if candidate.School == "" {
			candidate.School = inviteeProfile.School
		}
	}

	window, st, ok := scheduler.SelectWindow(st, creatorWindows, inviteeBlocks, s.schedCfg)
	if !ok {
		return scheduler.StepNoWindow, nil, st
	}

	interests := scheduler.NormalizeInterests(candidate.SharedInterests)
	activity := s.resolveActivity(ctx, iteration, interests)

	venueOptions, err := s.venues.Search(ctx, activity, city, 10)
	if err != nil {
		log.Warn("Venue search failed, using placeholder", "activity", activity, "error", err)
		venueOptions = nil
	}
	venue, st, ok := scheduler.PickVenue(st, venueOptions)
	if !ok {
		venue = scheduler.PlaceholderVenue(activity, city)
	}

	description := s.resolveTitle(ctx, clients.TitleRequest{
		ActivityType:    activity,
		SharedInterests: interests,
		VenueName:       venue.Name,
		InviteeName:     candidate.FullName,
		InviteeSchool:   candidate.School,
		City:            city,
	})

	plan, err := scheduler.AssemblePlan(userID, city, scheduler.Draft{
		Invitee:         candidate,
		Window:          window,
		ActivityType:    activity,
		Description:     description,
		Venue:           venue,
		VenueOptions:    venueOptions,
		SharedInterests: interests,
	})
	if err != nil {
		log.Error("Plan assembly failed", "error", err)
		return scheduler.StepPersistFailed, nil, st
	}

	persisted, err := s.planRepo.Create(ctx, nil, plan)
	if err != nil {
		log.Error("Plan insert failed", "invitee_id", candidate.ID, "error", err)
		return scheduler.StepPersistFailed, nil, st
	}
	return scheduler.StepSelected, persisted, st
}

// fetchInvitee loads the invitee's availability and profile in parallel.
// Either failing is absorbed: no availability falls back to the
// creator-window cascade, no profile just loses the display name.
func (s *readyPlanService) fetchInvitee(ctx context.Context, inviteeID uuid.UUID) ([]scheduler.Block, *types.Profile) {
	var (
		blocks  []scheduler.Block
		profile *types.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.availabilityRepo.ListUpcoming(gctx, nil, inviteeID, time.Now())
		if err != nil {
			s.log.Warn("Invitee availability fetch failed", "invitee_id", inviteeID, "error", err)
			return nil
		}
		blocks = toBlocks(raw)
		return nil
	})
	g.Go(func() error {
		p, err := s.profileRepo.GetByID(gctx, nil, inviteeID)
		if err != nil {
			s.log.Warn("Invitee profile fetch failed", "invitee_id", inviteeID, "error", err)
			return nil
		}
		profile = p
		return nil
	})
	_ = g.Wait()
	return blocks, profile
}

func (s *readyPlanService) resolveActivity(ctx context.Context, iteration int, interests []string) string {
	if len(interests) == 0 {
		return scheduler.FallbackActivity(iteration)
	}
	activity, err := s.llm.ClassifyActivity(ctx, interests)
	if err != nil {
		s.log.Warn("Activity classification failed, using rotation", "iteration", iteration, "error", err)
		return scheduler.FallbackActivity(iteration)
	}
	return activity
}

func (s *readyPlanService) resolveTitle(ctx context.Context, req clients.TitleRequest) string {
	title, err := s.llm.PlanTitle(ctx, req)
	if err == nil && title != "" {
		return title
	}
	if err != nil {
		s.log.Warn("Title generation failed, using template", "error", err)
	}
	if req.InviteeName != "" {
		return fmt.Sprintf("%s with %s at %s", activityLabel(req.ActivityType), req.InviteeName, req.VenueName)
	}
	return fmt.Sprintf("%s at %s", activityLabel(req.ActivityType), req.VenueName)
}

func (s *readyPlanService) ListPlans(ctx context.Context) ([]*types.ReadyPlan, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	plans, err := s.planRepo.ListByUser(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch plans: %w", err)
	}
	if plans == nil {
		plans = []*types.ReadyPlan{}
	}
	return plans, nil
}

func filterByCity(profiles []*types.Profile, city string) []uuid.UUID {
	needle := strings.ToLower(strings.TrimSpace(city))
	var ids []uuid.UUID
	for _, p := range profiles {
		if p == nil {
			continue
		}
		if strings.Contains(strings.ToLower(p.Location), needle) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func toCandidates(ranked []clients.RankedCandidate) []scheduler.Candidate {
	candidates := make([]scheduler.Candidate, 0, len(ranked))
	for _, rc := range ranked {
		c := scheduler.Candidate{
			ID:              rc.ID,
			School:          rc.School,
			Similarity:      rc.Similarity,
			SharedInterests: rc.SharedInterests,
		}
		if rc.Profile != nil {
			c.FullName = rc.Profile.FullName
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func toBlocks(blocks []types.AvailabilityBlock) []scheduler.Block {
	out := make([]scheduler.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, scheduler.Block{Start: b.StartTime, End: b.EndTime})
	}
	return out
}

func activityLabel(activityType string) string {
	switch activityType {
	case "coffee":
		return "Coffee"
	case "walk":
		return "A walk"
	case "casual_food":
		return "Grabbing food"
	case "museum":
		return "A museum visit"
	case "art":
		return "An art outing"
	default:
		return "Hanging out"
	}
}
