package allocation

import (
	"sort"

	"go.uber.org/zap"

	"github.com/idro/reliefmatch/pkg/application/services/shared"
	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// MatchResult holds the raw output of one matching pass
type MatchResult struct {
	Fragments  []entities.AllocationFragment
	Shortfalls []entities.Shortfall
}

// Matcher runs the greedy urgency-aware matching pass. It holds no state between
// passes; each call works on a fresh inventory snapshot.
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher creates a matcher. A nil logger disables debug output.
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Match is a convenience wrapper around a matcher without logging
func Match(camps []*entities.Camp, providers []*entities.Provider) MatchResult {
	return NewMatcher(nil).Match(camps, providers)
}

// Match assigns provider stock to camp needs. Camps are served most urgent first,
// input order breaking ties. Within a camp each resource type is filled from the
// eligible providers with the loosest response window that still qualifies, so
// fast responders stay free for camps that cannot wait.
func (m *Matcher) Match(camps []*entities.Camp, providers []*entities.Provider) MatchResult {
	pool := uniqueProviders(providers)
	snapshot := shared.NewInventorySnapshot(pool)

	ordered := uniqueCamps(camps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return entities.Rank(ordered[i].Urgency) < entities.Rank(ordered[j].Urgency)
	})

	result := MatchResult{
		Fragments:  []entities.AllocationFragment{},
		Shortfalls: []entities.Shortfall{},
	}

	for _, camp := range ordered {
		for _, rt := range entities.AllResourceTypes {
			need := camp.Need(rt)
			if need <= 0 {
				continue
			}

			remaining := need
			for _, p := range m.candidates(camp, rt, pool, snapshot) {
				if remaining <= 0 {
					break
				}
				take := snapshot.Take(p.ID, rt, remaining)
				if take <= 0 {
					continue
				}
				remaining -= take
				result.Fragments = append(result.Fragments, entities.AllocationFragment{
					CampID:     camp.ID,
					ProviderID: p.ID,
					Resource:   rt,
					Quantity:   take,
				})
			}

			if remaining > 0 {
				m.logger.Debug("Unmet need after exhausting providers",
					zap.String("camp", camp.ID),
					zap.Stringer("resource", rt),
					zap.Int64("requested", int64(need)),
					zap.Int64("unmet", int64(remaining)))
				result.Shortfalls = append(result.Shortfalls, entities.Shortfall{
					CampID:    camp.ID,
					CampName:  camp.Name,
					Urgency:   camp.Urgency,
					Resource:  rt,
					Requested: need,
					Fulfilled: need - remaining,
					Unmet:     remaining,
				})
			}
		}
	}

	m.logger.Debug("Matching pass complete",
		zap.Int("camps", len(ordered)),
		zap.Int("providers", len(pool)),
		zap.Int("fragments", len(result.Fragments)),
		zap.Int("shortfalls", len(result.Shortfalls)),
		zap.Stringer("snapshot", snapshot))

	return result
}

// candidates returns the providers able to serve a camp for one resource type,
// ordered slowest eligible window first, then AVAILABLE before anything else,
// then largest remaining stock. Full ties keep pool order.
func (m *Matcher) candidates(
	camp *entities.Camp,
	rt entities.ResourceType,
	pool []*entities.Provider,
	snapshot *shared.InventorySnapshot,
) []*entities.Provider {
	campRank := entities.Rank(camp.Urgency)

	eligible := make([]*entities.Provider, 0, len(pool))
	for _, p := range pool {
		if entities.Rank(p.ResponseTime) <= campRank && snapshot.Remaining(p.ID, rt) > 0 {
			eligible = append(eligible, p)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		ra, rb := entities.Rank(a.ResponseTime), entities.Rank(b.ResponseTime)
		if ra != rb {
			return ra > rb
		}
		aAvail := a.Availability == entities.Available
		bAvail := b.Availability == entities.Available
		if aAvail != bAvail {
			return aAvail
		}
		return snapshot.Remaining(a.ID, rt) > snapshot.Remaining(b.ID, rt)
	})
	return eligible
}

// uniqueProviders drops nil entries and every provider whose id was already seen
func uniqueProviders(providers []*entities.Provider) []*entities.Provider {
	seen := make(map[string]bool, len(providers))
	pool := make([]*entities.Provider, 0, len(providers))
	for _, p := range providers {
		if p == nil || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		pool = append(pool, p)
	}
	return pool
}

// uniqueCamps drops nil entries and every camp whose id was already seen
func uniqueCamps(camps []*entities.Camp) []*entities.Camp {
	seen := make(map[string]bool, len(camps))
	out := make([]*entities.Camp, 0, len(camps))
	for _, c := range camps {
		if c == nil || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}
