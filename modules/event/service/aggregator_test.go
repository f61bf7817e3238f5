package service

import (
	"testing"

	"github.com/t0pa/plansync/modules/event/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submission(slots ...string) entity.Availability {
	return entity.Availability{
		EventID: uuid.New(),
		UserID:  uuid.New(),
		Slots:   pq.StringArray(slots),
	}
}

func TestAggregateEmpty(t *testing.T) {
	a := NewAggregator()
	assert.Empty(t, a.Aggregate(nil))
	assert.Empty(t, a.Aggregate([]entity.Availability{}))
}

func TestAggregateCountsDistinctUsers(t *testing.T) {
	a := NewAggregator()

	counts := a.Aggregate([]entity.Availability{
		submission("2026-03-02-09:00", "2026-03-02-10:00"),
		submission("2026-03-02-10:00", "2026-03-02-11:00"),
	})

	assert.Equal(t, 1, counts["2026-03-02-09:00"])
	assert.Equal(t, 2, counts["2026-03-02-10:00"])
	assert.Equal(t, 1, counts["2026-03-02-11:00"])
}

func TestAggregateDedupesWithinSubmission(t *testing.T) {
	a := NewAggregator()

	counts := a.Aggregate([]entity.Availability{
		submission("2026-03-02-09:00", "2026-03-02-09:00", "2026-03-02-09:00"),
	})

	assert.Equal(t, 1, counts["2026-03-02-09:00"])
}

func TestAggregateUnselectedSlotAbsent(t *testing.T) {
	a := NewAggregator()

	counts := a.Aggregate([]entity.Availability{
		submission("2026-03-02-09:00"),
	})

	_, ok := counts["2026-03-02-10:00"]
	assert.False(t, ok)
}

func TestIntensity(t *testing.T) {
	a := NewAggregator()

	assert.Equal(t, IntensityLow, a.Intensity(0, 4))
	assert.Equal(t, IntensityLow, a.Intensity(2, 4)) // exactly half is low
	assert.Equal(t, IntensityHigh, a.Intensity(3, 4))
	assert.Equal(t, IntensityHigh, a.Intensity(4, 4))
	assert.Equal(t, IntensityLow, a.Intensity(0, 0))
}

func TestIntensityMonotonicInCount(t *testing.T) {
	a := NewAggregator()

	total := 10
	sawHigh := false
	for count := 0; count <= total; count++ {
		level := a.Intensity(count, total)
		if sawHigh {
			assert.Equal(t, IntensityHigh, level, "count %d", count)
		}
		if level == IntensityHigh {
			sawHigh = true
		}
	}
	assert.True(t, sawHigh)
}

func TestHeatmapTwoUsers(t *testing.T) {
	a := NewAggregator()

	shared := "2026-03-02-10:00"
	counts, total := a.Heatmap([]entity.Availability{
		submission("2026-03-02-09:00", shared),
		submission(shared, "2026-03-02-11:00"),
	})

	require.Equal(t, 2, total)
	assert.Equal(t, 2, counts[shared].Count)
	assert.Equal(t, IntensityHigh, counts[shared].Level)
	assert.Equal(t, 1, counts["2026-03-02-09:00"].Count)
	assert.Equal(t, IntensityLow, counts["2026-03-02-09:00"].Level)
}
