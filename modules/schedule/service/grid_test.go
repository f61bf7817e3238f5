package service

import (
	"testing"
	"time"

	"github.com/t0pa/plansync/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(slotMinutes int) *Grid {
	g := NewGrid(config.ScheduleConfig{
		StartHour:   9,
		SlotMinutes: slotMinutes,
		Weeks:       4,
	})
	// Pin the clock to a Wednesday so anchoring is observable.
	g.Now = func() time.Time {
		return time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)
	}
	return g
}

func TestTimeLabelsHourly(t *testing.T) {
	g := testGrid(60)
	labels := g.TimeLabels()

	// 09:00 through 23:00 plus the trailing midnight label.
	require.Len(t, labels, 16)
	assert.Equal(t, "09:00", labels[0])
	assert.Equal(t, "23:00", labels[14])
	assert.Equal(t, "00:00", labels[15])
}

func TestTimeLabelsHalfHour(t *testing.T) {
	g := testGrid(30)
	labels := g.TimeLabels()

	require.Len(t, labels, 31)
	assert.Equal(t, "09:00", labels[0])
	assert.Equal(t, "09:30", labels[1])
	assert.Equal(t, "23:30", labels[29])
	assert.Equal(t, "00:00", labels[30])
}

func TestTimeLabelsNoDuplicates(t *testing.T) {
	for _, minutes := range []int{60, 30} {
		g := testGrid(minutes)
		seen := map[string]bool{}
		for _, label := range g.TimeLabels() {
			assert.False(t, seen[label], "duplicate label %s", label)
			seen[label] = true
		}
	}
}

func TestTimeLabelsStrictlyIncreasingExceptTail(t *testing.T) {
	g := testGrid(60)
	labels := g.TimeLabels()
	for i := 1; i < len(labels)-1; i++ {
		assert.Less(t, labels[i-1], labels[i])
	}
	assert.Equal(t, "00:00", labels[len(labels)-1])
}

func TestLabelIndex(t *testing.T) {
	g := testGrid(60)

	assert.Equal(t, 0, g.LabelIndex("09:00"))
	assert.Equal(t, 3, g.LabelIndex("12:00"))
	assert.Equal(t, -1, g.LabelIndex("09:30"))
	assert.Equal(t, -1, g.LabelIndex("bogus"))
}

func TestDaysAnchorsOnMonday(t *testing.T) {
	g := testGrid(60)
	days := g.Days(0)

	require.Len(t, days, 28)
	assert.Equal(t, "2026-03-02", days[0].FullDate)
	assert.Equal(t, "Mon", days[0].DisplayDay)
	assert.Equal(t, "03/02", days[0].DisplayDate)
	assert.Equal(t, "2026-03-29", days[27].FullDate)
}

func TestDaysExplicitWeekCount(t *testing.T) {
	g := testGrid(60)

	assert.Len(t, g.Days(1), 7)
	assert.Len(t, g.Days(2), 14)
}

func TestDaysConsecutive(t *testing.T) {
	g := testGrid(60)
	days := g.Days(2)

	prev, err := time.Parse("2006-01-02", days[0].FullDate)
	require.NoError(t, err)
	for _, day := range days[1:] {
		cur, err := time.Parse("2006-01-02", day.FullDate)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cur.Sub(prev))
		prev = cur
	}
}

func TestDaysDeterministicWithinDay(t *testing.T) {
	g := testGrid(60)
	first := g.Days(0)

	// Later the same day, same grid.
	g.Now = func() time.Time {
		return time.Date(2026, time.March, 4, 23, 59, 0, 0, time.UTC)
	}
	assert.Equal(t, first, g.Days(0))
}

func TestMondayOf(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	cases := []time.Time{
		monday,
		time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 8, 23, 0, 0, 0, time.UTC), // Sunday
	}
	for _, c := range cases {
		got := MondayOf(c)
		assert.Equal(t, monday.Format("2006-01-02"), got.Format("2006-01-02"), "input %s", c)
		assert.Equal(t, time.Monday, got.Weekday())
	}
}

func TestPresets(t *testing.T) {
	g := testGrid(60)
	presets := g.Presets()

	require.Contains(t, presets, "morning")
	require.Contains(t, presets, "afternoon")
	require.Contains(t, presets, "evening")

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, presets["morning"])
}

func TestPresetLabelsUnknown(t *testing.T) {
	g := testGrid(60)
	assert.Nil(t, g.PresetLabels("nap"))
}

func TestPresetLabelsHalfHourGrid(t *testing.T) {
	g := testGrid(30)
	labels := g.PresetLabels("evening")

	require.NotEmpty(t, labels)
	assert.Contains(t, labels, "18:30")
	assert.NotContains(t, labels, "23:00")
}
