package availability

import (
	"testing"
	"time"

	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func clock(t *testing.T, s string) datatypes.Time {
	t.Helper()
	c, err := entity.ParseClock(s)
	require.NoError(t, err)
	return c
}

func formatAll(slots []datatypes.Time) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = entity.FormatClock(s)
	}
	return out
}

func weekdaySchedule() *entity.ProviderSchedule {
	return &entity.ProviderSchedule{
		ProviderID:          uuid.New(),
		WorkingDays:         entity.NewWeekdaySet(entity.Monday, entity.Tuesday, entity.Wednesday, entity.Thursday, entity.Friday),
		DayStart:            datatypes.NewTime(9, 0, 0, 0),
		DayEnd:              datatypes.NewTime(17, 0, 0, 0),
		SlotDurationMinutes: 30,
	}
}

// 2026-10-19 is a Monday, 2026-10-18 a Sunday.
var (
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
)

var fullDay = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

func TestComputeOpenSlots_Grid(t *testing.T) {
	slots := ComputeOpenSlots(weekdaySchedule(), nil, monday)

	assert.Len(t, slots, 16)
	assert.Equal(t, fullDay, formatAll(slots))
	assert.NotContains(t, formatAll(slots), "17:00")
}

func TestComputeOpenSlots_Exclusion(t *testing.T) {
	booked := []datatypes.Time{clock(t, "14:30"), clock(t, "10:00")}

	slots := formatAll(ComputeOpenSlots(weekdaySchedule(), booked, monday))

	expected := make([]string, 0, len(fullDay)-2)
	for _, s := range fullDay {
		if s != "10:00" && s != "14:30" {
			expected = append(expected, s)
		}
	}
	assert.Equal(t, expected, slots)
}

func TestComputeOpenSlots_WeekdayGating(t *testing.T) {
	tests := []struct {
		name   string
		booked []datatypes.Time
	}{
		{name: "no bookings"},
		{name: "with bookings", booked: []datatypes.Time{datatypes.NewTime(9, 0, 0, 0), datatypes.NewTime(12, 30, 0, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := ComputeOpenSlots(weekdaySchedule(), tt.booked, sunday)
			assert.NotNil(t, slots)
			assert.Empty(t, slots)
		})
	}
}

func TestComputeOpenSlots_EmptyWorkingDays(t *testing.T) {
	schedule := weekdaySchedule()
	schedule.WorkingDays = entity.NewWeekdaySet()

	for d := 0; d < 7; d++ {
		assert.Empty(t, ComputeOpenSlots(schedule, nil, monday.AddDate(0, 0, d)))
	}
}

func TestComputeOpenSlots_Idempotent(t *testing.T) {
	schedule := weekdaySchedule()
	booked := []datatypes.Time{clock(t, "11:00")}

	first := ComputeOpenSlots(schedule, booked, monday)
	second := ComputeOpenSlots(schedule, booked, monday)

	assert.Equal(t, first, second)
}

func TestComputeOpenSlots_PartialIntervalDropped(t *testing.T) {
	schedule := weekdaySchedule()
	schedule.DayEnd = clock(t, "10:45")
	schedule.SlotDurationMinutes = 30

	slots := formatAll(ComputeOpenSlots(schedule, nil, monday))

	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slots)
}

func TestComputeOpenSlots_OffGridBookingIgnored(t *testing.T) {
	// a booking at 09:15 does not sit on the 30 minute grid, so nothing is removed
	slots := ComputeOpenSlots(weekdaySchedule(), []datatypes.Time{clock(t, "09:15")}, monday)
	assert.Len(t, slots, 16)
}

func TestCandidateSlots_InvalidSchedule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *entity.ProviderSchedule)
	}{
		{name: "zero duration", mutate: func(s *entity.ProviderSchedule) { s.SlotDurationMinutes = 0 }},
		{name: "start equals end", mutate: func(s *entity.ProviderSchedule) { s.DayEnd = s.DayStart }},
		{name: "start after end", mutate: func(s *entity.ProviderSchedule) {
			s.DayStart, s.DayEnd = s.DayEnd, s.DayStart
		}},
		{name: "duration longer than day", mutate: func(s *entity.ProviderSchedule) { s.SlotDurationMinutes = 9 * 60 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := weekdaySchedule()
			tt.mutate(schedule)
			assert.Empty(t, CandidateSlots(schedule))
		})
	}
}

func TestIsOnGrid(t *testing.T) {
	schedule := weekdaySchedule()

	assert.True(t, IsOnGrid(schedule, clock(t, "09:00")))
	assert.True(t, IsOnGrid(schedule, clock(t, "16:30")))
	assert.False(t, IsOnGrid(schedule, clock(t, "17:00")))
	assert.False(t, IsOnGrid(schedule, clock(t, "09:10")))
}
