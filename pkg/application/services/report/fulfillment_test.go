package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idro/reliefmatch/pkg/application/dto"
	"github.com/idro/reliefmatch/pkg/application/services/allocation"
	"github.com/idro/reliefmatch/pkg/domain/entities"
)

func TestCoverage(t *testing.T) {
	testCases := []struct {
		fulfilled, requested entities.Quantity
		expected             string
	}{
		{60, 100, "60"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{0, 50, "0"},
		{0, 0, "100"},
		{7, 7, "100"},
	}

	for _, tc := range testCases {
		got := Coverage(tc.fulfilled, tc.requested)
		if !got.Equal(decimal.RequireFromString(tc.expected)) {
			t.Errorf("Coverage(%d, %d): expected %s, got %s", tc.fulfilled, tc.requested, tc.expected, got)
		}
	}
}

func TestBuild_FromPlan(t *testing.T) {
	camps := []*entities.Camp{
		{ID: "B", Name: "Camp B", Urgency: entities.TwelveHours, Needs: entities.ResourceQuantities{entities.Food: 50}},
		{ID: "A", Name: "Camp A", Urgency: entities.Immediate, Needs: entities.ResourceQuantities{entities.Food: 100, entities.Water: 10}},
		{ID: "Z", Name: "Camp Z", Urgency: entities.SixHours},
	}
	providers := []*entities.Provider{
		{ID: "X", Name: "X", ResponseTime: entities.Immediate, Availability: entities.Available,
			Inventory: entities.ResourceQuantities{entities.Food: 60, entities.Water: 10}},
		{ID: "Y", Name: "Y", ResponseTime: entities.TwentyFourHours, Availability: entities.Available,
			Inventory: entities.ResourceQuantities{entities.Food: 100}},
	}
	plan := allocation.Plan(camps, providers, nil)
	plan.RunID = "run-1"

	report := Build(plan)

	assert.Equal(t, "run-1", report.RunID)
	require.Len(t, report.Lines, 3)

	assert.Equal(t, "A", report.Lines[0].CampID)
	assert.Equal(t, entities.Food, report.Lines[0].Resource)
	assert.Equal(t, entities.Quantity(100), report.Lines[0].Requested)
	assert.Equal(t, entities.Quantity(60), report.Lines[0].Fulfilled)
	assert.True(t, report.Lines[0].Coverage.Equal(decimal.NewFromInt(60)))

	assert.Equal(t, entities.Water, report.Lines[1].Resource)
	assert.True(t, report.Lines[1].Coverage.Equal(decimal.NewFromInt(100)))

	assert.Equal(t, "B", report.Lines[2].CampID)
	assert.Equal(t, entities.Quantity(50), report.Lines[2].Unmet)
	assert.True(t, report.Lines[2].Coverage.IsZero())

	require.Len(t, report.Totals, 2)
	assert.Equal(t, entities.Food, report.Totals[0].Resource)
	assert.Equal(t, entities.Quantity(150), report.Totals[0].Requested)
	assert.True(t, report.Totals[0].Coverage.Equal(decimal.RequireFromString("40")))

	// 70 of 160 units
	assert.True(t, report.OverallCoverage.Equal(decimal.RequireFromString("43.75")), report.OverallCoverage.String())
	assert.Equal(t, 0, report.FullyCovered)
	assert.Equal(t, 1, report.PartlyCovered)
	assert.Equal(t, 1, report.Uncovered)
}

func TestBuild_EmptyPlan(t *testing.T) {
	report := Build(nil)
	assert.Empty(t, report.Lines)
	assert.True(t, report.OverallCoverage.Equal(decimal.NewFromInt(100)))

	report = Build(&dto.AllocationPlan{})
	assert.Empty(t, report.Totals)
	assert.True(t, report.OverallCoverage.Equal(decimal.NewFromInt(100)))
}
