package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestWeekdayOf(t *testing.T) {
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) // Monday
	expected := []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

	for i, want := range expected {
		assert.Equal(t, want, WeekdayOf(start.AddDate(0, 0, i)))
	}
}

func TestWeekdaySet(t *testing.T) {
	t.Run("parse and format keep Monday first order", func(t *testing.T) {
		s, err := ParseWeekdaySet("fri, Mon ,wed")
		require.NoError(t, err)
		assert.Equal(t, "Mon,Wed,Fri", s.String())
		assert.True(t, s.Contains(Friday))
		assert.False(t, s.Contains(Tuesday))
	})

	t.Run("empty input is an empty set", func(t *testing.T) {
		s, err := ParseWeekdaySet("")
		require.NoError(t, err)
		assert.True(t, s.IsEmpty())
		assert.Equal(t, "", s.String())
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := ParseWeekdaySet("Mon,Funday")
		assert.ErrorIs(t, err, ErrUnknownWeekday)
	})

	t.Run("scan from database", func(t *testing.T) {
		var s WeekdaySet
		require.NoError(t, s.Scan([]byte("Sat,Sun")))
		assert.Equal(t, []Weekday{Saturday, Sunday}, s.Days())

		v, err := s.Value()
		require.NoError(t, err)
		assert.Equal(t, "Sat,Sun", v)
	})
}

func TestParseAppointmentStatus(t *testing.T) {
	for _, raw := range []string{"pending", "accepted", "rejected", "completed", " Accepted "} {
		_, err := ParseAppointmentStatus(raw)
		assert.NoError(t, err, raw)
	}

	_, err := ParseAppointmentStatus("cancelled")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestAppointment_TransitionTo(t *testing.T) {
	all := []AppointmentStatus{AppointmentStatusPending, AppointmentStatusAccepted, AppointmentStatusRejected, AppointmentStatusCompleted}
	targets := []AppointmentStatus{AppointmentStatusAccepted, AppointmentStatusRejected, AppointmentStatusCompleted}

	for _, from := range all {
		for _, to := range targets {
			appt := &Appointment{Status: from}
			require.NoError(t, appt.TransitionTo(to), "%s -> %s", from, to)
			assert.Equal(t, to, appt.Status)
		}

		appt := &Appointment{Status: from}
		err := appt.TransitionTo(AppointmentStatusPending)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, from, appt.Status)
	}
}

func TestClock(t *testing.T) {
	c, err := ParseClock("16:30")
	require.NoError(t, err)
	assert.Equal(t, datatypes.NewTime(16, 30, 0, 0), c)
	assert.Equal(t, "16:30", FormatClock(c))

	_, err = ParseClock("25:00")
	assert.ErrorIs(t, err, ErrInvalidClock)

	_, err = ParseDate("2026-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSlotKey(t *testing.T) {
	id := uuid.MustParse("6f1c2b9e-3d4a-4c1b-9a8e-0d2f7b5c1e11")
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	appt := &Appointment{ProviderID: id, Date: datatypes.Date(date), StartTime: datatypes.NewTime(9, 30, 0, 0)}

	assert.Equal(t, "6f1c2b9e-3d4a-4c1b-9a8e-0d2f7b5c1e11:2026-10-19:09:30", appt.SlotKey())
}

func TestProvider_IsBookable(t *testing.T) {
	assert.True(t, (&Provider{IsVerified: true, IsActive: true}).IsBookable())
	assert.False(t, (&Provider{IsVerified: false, IsActive: true}).IsBookable())
	assert.False(t, (&Provider{IsVerified: true, IsActive: false}).IsBookable())
}
