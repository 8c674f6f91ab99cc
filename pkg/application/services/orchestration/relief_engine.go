package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idro/reliefmatch/pkg/application/dto"
	"github.com/idro/reliefmatch/pkg/application/services/allocation"
	"github.com/idro/reliefmatch/pkg/application/services/ingest"
	"github.com/idro/reliefmatch/pkg/application/services/missionlog"
	"github.com/idro/reliefmatch/pkg/application/services/report"
	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/domain/repositories"
	"github.com/idro/reliefmatch/pkg/infrastructure/events"
	"github.com/idro/reliefmatch/pkg/infrastructure/metrics"
)

// EngineConfig holds optional collaborators of the relief engine
type EngineConfig struct {
	MissionLogCapacity int
	EventStore         events.EventStore
	Metrics            *metrics.Metrics
	Logger             *zap.Logger
	Clock              func() time.Time
}

// DefaultEngineConfig returns a configuration with no event store or metrics
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MissionLogCapacity: missionlog.DefaultCapacity,
		Logger:             zap.NewNop(),
		Clock:              time.Now,
	}
}

// ReliefEngine coordinates recomputation of the allocation plan from the camp and
// provider repositories, the operator status tracker and the mission log.
// Recomputations are serialized; each one fully replaces the published plan.
type ReliefEngine struct {
	campRepo     repositories.CampRepository
	providerRepo repositories.ProviderRepository
	statusRepo   repositories.StatusRepository

	sanitizer  *ingest.Sanitizer
	matcher    *allocation.Matcher
	missionLog *missionlog.Log
	eventStore events.EventStore
	metrics    *metrics.Metrics
	logger     *zap.Logger
	clock      func() time.Time

	computeMu sync.Mutex

	mu     sync.RWMutex
	latest *dto.AllocationPlan
}

// NewReliefEngine creates an engine with the default configuration
func NewReliefEngine(
	campRepo repositories.CampRepository,
	providerRepo repositories.ProviderRepository,
	statusRepo repositories.StatusRepository,
) *ReliefEngine {
	return NewReliefEngineWithConfig(DefaultEngineConfig(), campRepo, providerRepo, statusRepo)
}

// NewReliefEngineWithConfig creates an engine with explicit collaborators
func NewReliefEngineWithConfig(
	config EngineConfig,
	campRepo repositories.CampRepository,
	providerRepo repositories.ProviderRepository,
	statusRepo repositories.StatusRepository,
) *ReliefEngine {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &ReliefEngine{
		campRepo:     campRepo,
		providerRepo: providerRepo,
		statusRepo:   statusRepo,
		sanitizer:    ingest.NewSanitizer(logger.Named("ingest")),
		matcher:      allocation.NewMatcher(logger.Named("matcher")),
		missionLog:   missionlog.New(config.MissionLogCapacity, clock),
		eventStore:   config.EventStore,
		metrics:      config.Metrics,
		logger:       logger,
		clock:        clock,
	}
}

// UpdateSnapshots replaces both input snapshots and recomputes
func (e *ReliefEngine) UpdateSnapshots(
	ctx context.Context,
	camps []*entities.Camp,
	providers []*entities.Provider,
) (*dto.AllocationPlan, error) {
	if err := e.campRepo.LoadCamps(camps); err != nil {
		return nil, fmt.Errorf("failed to load camps: %w", err)
	}
	if err := e.providerRepo.LoadProviders(providers); err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	return e.Recompute(ctx)
}

// Recompute rebuilds the allocation plan from the current snapshots. A context
// cancelled before the result is published discards the result.
func (e *ReliefEngine) Recompute(ctx context.Context) (*dto.AllocationPlan, error) {
	e.computeMu.Lock()
	defer e.computeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recompute cancelled: %w", err)
	}

	rawCamps, err := e.campRepo.GetAllCamps()
	if err != nil {
		return nil, fmt.Errorf("failed to read camps: %w", err)
	}
	rawProviders, err := e.providerRepo.GetAllProviders()
	if err != nil {
		return nil, fmt.Errorf("failed to read providers: %w", err)
	}

	start := time.Now()
	camps, providers, coercions := e.sanitizer.Sanitize(rawCamps, rawProviders)

	plan := e.matcher.Plan(camps, providers, e.statusRepo)
	plan.RunID = uuid.NewString()
	plan.ComputedAt = e.clock()
	duration := time.Since(start)

	if err := ctx.Err(); err != nil {
		e.logger.Debug("Discarding superseded plan", zap.String("run_id", plan.RunID))
		return nil, fmt.Errorf("recompute cancelled: %w", err)
	}

	added := e.missionLog.Record(plan.Allocations)

	e.mu.Lock()
	previous := e.latest
	e.latest = plan
	e.mu.Unlock()

	e.publishPlan(plan, previous, len(added), duration)
	if e.metrics != nil {
		e.metrics.ObserveRecompute(duration, len(plan.Allocations), plan, len(added))
	}

	var unmet entities.Quantity
	for _, s := range plan.Shortfalls {
		unmet += s.Unmet
	}
	e.logger.Info("Recomputed allocation plan",
		zap.String("run_id", plan.RunID),
		zap.Int("camps", plan.CampCount),
		zap.Int("providers", plan.ProviderCount),
		zap.Int("allocations", len(plan.Allocations)),
		zap.Int("shortfalls", len(plan.Shortfalls)),
		zap.Int64("unmet_units", int64(unmet)),
		zap.Int("coercions", len(coercions)),
		zap.Int("new_log_entries", len(added)),
		zap.Duration("duration", duration))

	return e.withLiveStatuses(plan), nil
}

// ToggleStatus advances the status of an allocation in the current plan
func (e *ReliefEngine) ToggleStatus(ctx context.Context, id entities.AllocationID) (entities.AllocationStatus, error) {
	if err := ctx.Err(); err != nil {
		return entities.StatusAssigned, fmt.Errorf("toggle cancelled: %w", err)
	}

	e.mu.RLock()
	known := e.latest != nil && e.latest.FindAllocation(id) != nil
	e.mu.RUnlock()
	if !known {
		return entities.StatusAssigned, fmt.Errorf("allocation %s: %w", id, repositories.ErrNotFound)
	}

	to := e.statusRepo.Toggle(id)
	from := to.Previous()

	if e.eventStore != nil {
		if err := e.eventStore.AppendEvent(string(id), events.NewAllocationStatusChangedEvent(id, from, to)); err != nil {
			e.logger.Warn("Failed to publish status change", zap.String("allocation", string(id)), zap.Error(err))
		}
	}
	if e.metrics != nil {
		e.metrics.ObserveToggle(to)
	}
	e.logger.Info("Allocation status changed",
		zap.String("allocation", string(id)),
		zap.Stringer("from", from),
		zap.Stringer("to", to))

	return to, nil
}

// Allocations returns the current allocation list with live statuses
func (e *ReliefEngine) Allocations() []entities.Allocation {
	plan := e.LatestPlan()
	if plan == nil {
		return []entities.Allocation{}
	}
	return plan.Allocations
}

// Shortfalls returns the unmet needs of the current plan
func (e *ReliefEngine) Shortfalls() []entities.Shortfall {
	plan := e.LatestPlan()
	if plan == nil {
		return []entities.Shortfall{}
	}
	return plan.Shortfalls
}

// LatestPlan returns a copy of the published plan, or nil before the first recompute
func (e *ReliefEngine) LatestPlan() *dto.AllocationPlan {
	e.mu.RLock()
	plan := e.latest
	e.mu.RUnlock()

	if plan == nil {
		return nil
	}
	return e.withLiveStatuses(plan)
}

// Report builds the fulfillment report of the published plan
func (e *ReliefEngine) Report() dto.FulfillmentReport {
	return report.Build(e.LatestPlan())
}

// MissionLog returns the mission log feed, newest first
func (e *ReliefEngine) MissionLog() []entities.LogEntry {
	return e.missionLog.Entries()
}

// withLiveStatuses deep-copies plan and overlays the tracker's current statuses
func (e *ReliefEngine) withLiveStatuses(plan *dto.AllocationPlan) *dto.AllocationPlan {
	out := *plan
	out.Allocations = make([]entities.Allocation, len(plan.Allocations))
	for i, a := range plan.Allocations {
		a.Resources = append([]entities.ResourceLine(nil), a.Resources...)
		if status, ok := e.statusRepo.Status(a.ID); ok {
			a.Status = status
		}
		out.Allocations[i] = a
	}
	out.Shortfalls = append([]entities.Shortfall{}, plan.Shortfalls...)
	return &out
}

func (e *ReliefEngine) publishPlan(plan, previous *dto.AllocationPlan, newLogEntries int, duration time.Duration) {
	if e.eventStore == nil {
		return
	}

	publish := func(streamID string, event events.Event) {
		if err := e.eventStore.AppendEvent(streamID, event); err != nil {
			e.logger.Warn("Failed to publish event",
				zap.String("type", event.Type()),
				zap.String("stream", streamID),
				zap.Error(err))
		}
	}

	for _, alloc := range plan.Allocations {
		if previous != nil {
			if prior := previous.FindAllocation(alloc.ID); prior != nil && sameResources(prior.Resources, alloc.Resources) {
				continue
			}
		}
		publish(string(alloc.ID), events.NewAllocationAssignedEvent(plan.RunID, alloc))
	}
	for _, shortfall := range plan.Shortfalls {
		publish(shortfall.CampID, events.NewShortfallIdentifiedEvent(plan.RunID, shortfall))
	}
	publish(events.PlanStreamID, events.NewPlanRecomputedEvent(events.PlanRecomputed{
		RunID:          plan.RunID,
		Camps:          plan.CampCount,
		Providers:      plan.ProviderCount,
		Allocations:    len(plan.Allocations),
		Shortfalls:     len(plan.Shortfalls),
		NewLogEntries:  newLogEntries,
		DurationMillis: duration.Milliseconds(),
	}))
}

func sameResources(a, b []entities.ResourceLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Resource != b[i].Resource || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}
