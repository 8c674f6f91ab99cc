package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/idro/reliefmatch/pkg/application/dto"
	"github.com/idro/reliefmatch/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// Coverage returns fulfilled/requested as a percentage rounded to two places.
// Nothing requested counts as fully covered.
func Coverage(fulfilled, requested entities.Quantity) decimal.Decimal {
	if requested <= 0 {
		return hundred.Round(2)
	}
	return decimal.NewFromInt(int64(fulfilled)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(requested))).
		Round(2)
}

type lineKey struct {
	campID   string
	resource entities.ResourceType
}

type campInfo struct {
	id      string
	name    string
	urgency entities.UrgencyLevel
}

// Build derives a fulfillment report from a plan. Requested quantity is what was
// allocated plus what the plan reports as unmet, so camps with no stated need
// do not appear.
func Build(plan *dto.AllocationPlan) dto.FulfillmentReport {
	report := dto.FulfillmentReport{
		Lines:  []dto.FulfillmentLine{},
		Totals: []dto.ResourceTotal{},
	}
	if plan == nil {
		report.OverallCoverage = Coverage(0, 0)
		return report
	}
	report.RunID = plan.RunID
	report.ComputedAt = plan.ComputedAt

	var camps []campInfo
	seenCamp := make(map[string]bool)
	addCamp := func(c campInfo) {
		if !seenCamp[c.id] {
			seenCamp[c.id] = true
			camps = append(camps, c)
		}
	}

	fulfilled := make(map[lineKey]entities.Quantity)
	unmet := make(map[lineKey]entities.Quantity)

	for i := range plan.Allocations {
		a := &plan.Allocations[i]
		addCamp(campInfo{a.CampID, a.CampName, a.CampUrgency})
		for _, line := range a.Resources {
			fulfilled[lineKey{a.CampID, line.Resource}] += line.Quantity
		}
	}
	for _, s := range plan.Shortfalls {
		addCamp(campInfo{s.CampID, s.CampName, s.Urgency})
		unmet[lineKey{s.CampID, s.Resource}] += s.Unmet
	}

	sort.SliceStable(camps, func(i, j int) bool {
		return entities.Rank(camps[i].urgency) < entities.Rank(camps[j].urgency)
	})

	totals := make(map[entities.ResourceType]*dto.ResourceTotal)
	var overallRequested, overallFulfilled entities.Quantity

	for _, c := range camps {
		var campRequested, campFulfilled entities.Quantity
		for _, rt := range entities.AllResourceTypes {
			key := lineKey{c.id, rt}
			got, missing := fulfilled[key], unmet[key]
			requested := got + missing
			if requested <= 0 {
				continue
			}

			report.Lines = append(report.Lines, dto.FulfillmentLine{
				CampID:    c.id,
				CampName:  c.name,
				Urgency:   c.urgency,
				Resource:  rt,
				Label:     rt.Label(),
				Requested: requested,
				Fulfilled: got,
				Unmet:     missing,
				Coverage:  Coverage(got, requested),
			})

			total, ok := totals[rt]
			if !ok {
				total = &dto.ResourceTotal{Resource: rt, Label: rt.Label()}
				totals[rt] = total
			}
			total.Requested += requested
			total.Fulfilled += got
			total.Unmet += missing

			campRequested += requested
			campFulfilled += got
		}

		switch {
		case campRequested == 0:
		case campFulfilled == campRequested:
			report.FullyCovered++
		case campFulfilled == 0:
			report.Uncovered++
		default:
			report.PartlyCovered++
		}
		overallRequested += campRequested
		overallFulfilled += campFulfilled
	}

	for _, rt := range entities.AllResourceTypes {
		if total, ok := totals[rt]; ok {
			total.Coverage = Coverage(total.Fulfilled, total.Requested)
			report.Totals = append(report.Totals, *total)
		}
	}
	report.OverallCoverage = Coverage(overallFulfilled, overallRequested)
	return report
}
