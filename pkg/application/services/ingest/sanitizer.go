package ingest

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// CoercionKind classifies a correction applied at the ingestion boundary
type CoercionKind string

const (
	NegativeQuantity  CoercionKind = "negative_quantity"
	DuplicateID       CoercionKind = "duplicate_id"
	MissingName       CoercionKind = "missing_name"
	EmptyInventory    CoercionKind = "empty_inventory"
	NilRecord         CoercionKind = "nil_record"
	UnknownUrgency    CoercionKind = "unknown_urgency"
	MissingIdentifier CoercionKind = "missing_id"
)

// Coercion records one correction made to an incoming snapshot
type Coercion struct {
	Kind     CoercionKind
	Entity   string // "camp" or "provider"
	ID       string
	Resource string
	Detail   string
}

func (c Coercion) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", c.Entity, c.ID)
	if c.Resource != "" {
		fmt.Fprintf(&b, " [%s]", c.Resource)
	}
	fmt.Fprintf(&b, ": %s", c.Detail)
	return b.String()
}

// Sanitizer turns raw camp and provider snapshots into inputs the matcher can
// consume: negative quantities become zero, records without an id or with a
// repeated id are dropped, and providers holding nothing are filtered out.
// Inputs are never modified; cleaned records are copies.
type Sanitizer struct {
	logger *zap.Logger
}

// NewSanitizer creates a sanitizer that reports coercions at Warn level
func NewSanitizer(logger *zap.Logger) *Sanitizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sanitizer{logger: logger}
}

// Sanitize cleans snapshots without logging
func Sanitize(camps []*entities.Camp, providers []*entities.Provider) ([]*entities.Camp, []*entities.Provider, []Coercion) {
	return NewSanitizer(nil).Sanitize(camps, providers)
}

// Sanitize cleans both snapshots and returns every coercion applied
func (s *Sanitizer) Sanitize(
	camps []*entities.Camp,
	providers []*entities.Provider,
) ([]*entities.Camp, []*entities.Provider, []Coercion) {
	var coercions []Coercion

	cleanCamps := s.sanitizeCamps(camps, &coercions)
	cleanProviders := s.sanitizeProviders(providers, &coercions)

	for _, c := range coercions {
		s.logger.Warn("Coerced snapshot entry",
			zap.String("kind", string(c.Kind)),
			zap.String("entity", c.Entity),
			zap.String("id", c.ID),
			zap.String("resource", c.Resource),
			zap.String("detail", c.Detail))
	}
	return cleanCamps, cleanProviders, coercions
}

func (s *Sanitizer) sanitizeCamps(camps []*entities.Camp, coercions *[]Coercion) []*entities.Camp {
	result := make([]*entities.Camp, 0, len(camps))
	seen := make(map[string]bool, len(camps))

	for i, c := range camps {
		if c == nil {
			*coercions = append(*coercions, Coercion{Kind: NilRecord, Entity: "camp", ID: fmt.Sprintf("#%d", i), Detail: "dropped empty record"})
			continue
		}
		id := strings.TrimSpace(c.ID)
		if id == "" {
			*coercions = append(*coercions, Coercion{Kind: MissingIdentifier, Entity: "camp", ID: fmt.Sprintf("#%d", i), Detail: "dropped record without id"})
			continue
		}
		if seen[id] {
			*coercions = append(*coercions, Coercion{Kind: DuplicateID, Entity: "camp", ID: id, Detail: "dropped repeated id, first record kept"})
			continue
		}
		seen[id] = true

		clean := &entities.Camp{
			ID:      id,
			Name:    c.Name,
			Urgency: c.Urgency,
			Needs:   clampQuantities("camp", id, c.Needs, coercions),
		}
		if strings.TrimSpace(clean.Name) == "" {
			clean.Name = id
			*coercions = append(*coercions, Coercion{Kind: MissingName, Entity: "camp", ID: id, Detail: "name defaulted to id"})
		}
		if clean.Urgency == entities.UrgencyUnknown {
			*coercions = append(*coercions, Coercion{Kind: UnknownUrgency, Entity: "camp", ID: id, Detail: "urgency unrecognized, ranked last"})
		}
		result = append(result, clean)
	}
	return result
}

func (s *Sanitizer) sanitizeProviders(providers []*entities.Provider, coercions *[]Coercion) []*entities.Provider {
	result := make([]*entities.Provider, 0, len(providers))
	seen := make(map[string]bool, len(providers))

	for i, p := range providers {
		if p == nil {
			*coercions = append(*coercions, Coercion{Kind: NilRecord, Entity: "provider", ID: fmt.Sprintf("#%d", i), Detail: "dropped empty record"})
			continue
		}
		id := strings.TrimSpace(p.ID)
		if id == "" {
			*coercions = append(*coercions, Coercion{Kind: MissingIdentifier, Entity: "provider", ID: fmt.Sprintf("#%d", i), Detail: "dropped record without id"})
			continue
		}
		if seen[id] {
			*coercions = append(*coercions, Coercion{Kind: DuplicateID, Entity: "provider", ID: id, Detail: "dropped repeated id, first record kept"})
			continue
		}
		seen[id] = true

		clean := &entities.Provider{
			ID:           id,
			Name:         p.Name,
			ResponseTime: p.ResponseTime,
			Availability: p.Availability,
			Inventory:    clampQuantities("provider", id, p.Inventory, coercions),
			ETALabel:     p.ETALabel,
		}
		if strings.TrimSpace(clean.Name) == "" {
			clean.Name = id
			*coercions = append(*coercions, Coercion{Kind: MissingName, Entity: "provider", ID: id, Detail: "name defaulted to id"})
		}
		if clean.ETALabel == "" {
			clean.ETALabel = entities.FormatETA(clean.ResponseTime.String())
		}
		if !clean.HasStock() {
			*coercions = append(*coercions, Coercion{Kind: EmptyInventory, Entity: "provider", ID: id, Detail: "dropped provider with no stock"})
			continue
		}
		result = append(result, clean)
	}
	return result
}

func clampQuantities(entity, id string, in entities.ResourceQuantities, coercions *[]Coercion) entities.ResourceQuantities {
	out := make(entities.ResourceQuantities, len(in))
	for _, rt := range entities.AllResourceTypes {
		qty, ok := in[rt]
		if !ok {
			continue
		}
		if qty < 0 {
			*coercions = append(*coercions, Coercion{
				Kind:     NegativeQuantity,
				Entity:   entity,
				ID:       id,
				Resource: rt.String(),
				Detail:   fmt.Sprintf("quantity %d coerced to 0", qty),
			})
			qty = 0
		}
		out[rt] = qty
	}
	return out
}
