package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

const sampleYAML = `
camps:
  - id: C1
    name: Kerala Relief Hub A
    urgency: immediate
    needs:
      food_packets: 100
      WATER: 50
  - id: C2
    name: Hill Camp
    urgency: sometime
providers:
  - id: P1
    name: Seva Foundation
    urgency: 6 HOURS
    availabilityStatus: AVAILABLE
    inventory:
      food: 60
      medkits: 12
  - id: P2
    name: Red Cross
    urgency: TWELVE_HOURS
    availabilityStatus: limited
    etaLabel: 4-6 HRS
    inventory:
      beds: 30
`

func TestDecode_YAML(t *testing.T) {
	file, err := Decode(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	camps, err := file.CampEntities()
	require.NoError(t, err)
	require.Len(t, camps, 2)
	assert.Equal(t, entities.Immediate, camps[0].Urgency)
	assert.Equal(t, entities.Quantity(100), camps[0].Need(entities.Food))
	assert.Equal(t, entities.Quantity(50), camps[0].Need(entities.Water))
	assert.Equal(t, entities.UrgencyUnknown, camps[1].Urgency)

	providers, err := file.ProviderEntities()
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, entities.SixHours, providers[0].ResponseTime)
	assert.Equal(t, "6 HOURS", providers[0].ETALabel)
	assert.Equal(t, entities.Quantity(12), providers[0].Stock(entities.MedicalKits))
	assert.Equal(t, entities.Limited, providers[1].Availability)
	assert.Equal(t, "4-6 HRS", providers[1].ETALabel)
}

func TestDecode_JSON(t *testing.T) {
	doc := `{"camps":[{"id":"C1","name":"Camp","urgency":"TWENTY_FOUR_HOURS","needs":{"AMBULANCES":2}}],"providers":[]}`
	file, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	camps, err := file.CampEntities()
	require.NoError(t, err)
	require.Len(t, camps, 1)
	assert.Equal(t, entities.Quantity(2), camps[0].Need(entities.Ambulances))
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("camps:\n  - id: C1\n    colour: red\n"))
	assert.Error(t, err, "unknown fields are rejected")

	file, err := Decode(strings.NewReader("camps:\n  - id: C1\n    needs:\n      helicopters: 2\n"))
	require.NoError(t, err)
	_, err = file.CampEntities()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camp 1 (C1)")

	file, err = Decode(strings.NewReader("providers:\n  - id: P1\n    inventory:\n      food: 10\n      FOOD_PACKETS: -20\n"))
	require.NoError(t, err)
	_, err = file.ProviderEntities()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "given twice")

		empty, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Camps)
}

func TestEncode_RoundTripsThroughEntities(t *testing.T) {
	camps := []*entities.Camp{
		{ID: "C1", Name: "Camp", Urgency: entities.TwelveHours, Needs: entities.ResourceQuantities{entities.Beds: 4}},
	}
	providers := []*entities.Provider{
		{ID: "P1", Name: "Agency", ResponseTime: entities.Immediate, Availability: entities.NotAvailable,
			Inventory: entities.ResourceQuantities{entities.Beds: 9}, ETALabel: "IMMEDIATE"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromEntities(camps, providers)))
	assert.Contains(t, buf.String(), "availabilityStatus: NOT_AVAILABLE")

	file, err := Decode(&buf)
	require.NoError(t, err)
	gotCamps, err := file.CampEntities()
	require.NoError(t, err)
	gotProviders, err := file.ProviderEntities()
	require.NoError(t, err)

	if diff := cmp.Diff(camps, gotCamps); diff != "" {
		t.Errorf("Camps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(providers, gotProviders); diff != "" {
		t.Errorf("Providers mismatch (-want +got):\n%s", diff)
	}
}

func TestStatuses_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statuses.yaml")

	missing, err := LoadStatuses(path)
	require.NoError(t, err)
	assert.Empty(t, missing)

	statuses := map[entities.AllocationID]entities.AllocationStatus{
		"C1-P1": entities.StatusDispatched,
		"C2-P1": entities.StatusDelivered,
	}
	require.NoError(t, SaveStatuses(path, statuses))

	loaded, err := LoadStatuses(path)
	require.NoError(t, err)
	assert.Equal(t, statuses, loaded)

	require.NoError(t, os.WriteFile(path, []byte("statuses:\n  C1-P1: LOST\n"), 0o644))
	_, err = LoadStatuses(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocation C1-P1")
}
