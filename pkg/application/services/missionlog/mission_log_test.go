package missionlog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC)
	tick := 0
	return func() time.Time {
		tick++
		return t0.Add(time.Duration(tick) * time.Minute)
	}
}

func allocation(campID, providerID string, lines ...entities.ResourceLine) entities.Allocation {
	return entities.Allocation{
		ID:           entities.NewAllocationID(campID, providerID),
		CampID:       campID,
		CampName:     "Camp " + campID,
		ProviderID:   providerID,
		ProviderName: "Provider " + providerID,
		Resources:    lines,
	}
}

func line(rt entities.ResourceType, qty entities.Quantity) entities.ResourceLine {
	return entities.ResourceLine{Resource: rt, Label: rt.Label(), Quantity: qty}
}

func TestLog_RecordFormatsAndOrders(t *testing.T) {
	log := New(0, fixedClock())
	assert.Equal(t, DefaultCapacity, log.Capacity())

	added := log.Record([]entities.Allocation{
		allocation("A", "X", line(entities.Food, 60), line(entities.MedicalKits, 5)),
		allocation("B", "Y", line(entities.Water, 20)),
	})

	require.Len(t, added, 3)
	assert.Equal(t, "60 Food assigned to Camp A from Provider X", added[0].Text)
	assert.Equal(t, "A-X-Food", added[0].ID)
	assert.Equal(t, "5 MedKits assigned to Camp A from Provider X", added[1].Text)
	assert.Equal(t, "A-X-MedKits", added[1].ID)
	assert.Equal(t, "B-Y-Water", added[2].ID)

	// A later batch goes in front of earlier entries
	log.Record([]entities.Allocation{allocation("C", "Z", line(entities.Beds, 2))})
	entries := log.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "2 Beds assigned to Camp C from Provider Z", entries[0].Text)
	assert.Equal(t, "60 Food assigned to Camp A from Provider X", entries[1].Text)
	assert.True(t, entries[0].Time.After(entries[1].Time))
}

func TestLog_SuppressesDuplicateText(t *testing.T) {
	log := New(DefaultCapacity, fixedClock())
	allocs := []entities.Allocation{
		allocation("A", "X", line(entities.Food, 60)),
	}

	require.Len(t, log.Record(allocs), 1)
	assert.Empty(t, log.Record(allocs), "unchanged allocations must not add lines")
	assert.Equal(t, 1, log.Len())

	// Changed quantity renders new text, old line stays
	changed := []entities.Allocation{allocation("A", "X", line(entities.Food, 45))}
	added := log.Record(changed)
	require.Len(t, added, 1)
	assert.Equal(t, "A-X-Food", added[0].ID)

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "45 Food assigned to Camp A from Provider X", entries[0].Text)
	assert.Equal(t, "60 Food assigned to Camp A from Provider X", entries[1].Text)

	// Identical text within one batch is emitted once
	twins := []entities.Allocation{
		allocation("D", "Q", line(entities.Water, 1)),
		allocation("D", "Q", line(entities.Water, 1)),
	}
	assert.Len(t, log.Record(twins), 1)
}

func TestLog_CapsFeed(t *testing.T) {
	log := New(DefaultCapacity, fixedClock())

	for batch := 0; batch < 4; batch++ {
		var allocs []entities.Allocation
		for i := 0; i < 20; i++ {
			allocs = append(allocs, allocation(fmt.Sprintf("C%d", batch), fmt.Sprintf("P%d", i),
				line(entities.Food, entities.Quantity(i+1))))
		}
		log.Record(allocs)
	}

	entries := log.Entries()
	require.Len(t, entries, DefaultCapacity)
	assert.Equal(t, "1 Food assigned to Camp C3 from Provider P0", entries[0].Text)
	assert.Equal(t, "10 Food assigned to Camp C1 from Provider P9", entries[DefaultCapacity-1].Text)
}

func TestLog_EvictedLinesStaySuppressed(t *testing.T) {
	log := New(2, fixedClock())

	first := allocation("C1", "P1", line(entities.Food, 10))
	log.Record([]entities.Allocation{first})
	log.Record([]entities.Allocation{
		allocation("C2", "P1", line(entities.Water, 5)),
		allocation("C3", "P1", line(entities.Beds, 2)),
	})
	require.Equal(t, 2, log.Len())
	assert.Equal(t, 3, log.Seen())

	// The first line has left the feed but is still remembered
	assert.Empty(t, log.Record([]entities.Allocation{first}))
	assert.Equal(t, 2, log.Len())
	assert.Equal(t, 3, log.Seen())
}

func TestLog_EntriesIsACopy(t *testing.T) {
	log := New(5, nil)
	log.Record([]entities.Allocation{allocation("A", "X", line(entities.Food, 1))})

	entries := log.Entries()
	entries[0].Text = "tampered"
	assert.Equal(t, "1 Food assigned to Camp A from Provider X", log.Entries()[0].Text)
}
