package usecase

import (
	"context"
	"errors"
	"testing"

	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newAvailabilityUsecase(t *testing.T, providers *mockProviderRepo, schedules *mockScheduleRepo, appointments *mockAppointmentRepo) AvailabilityUsecase {
	db, _ := newTestDB(t)
	return NewAvailabilityUsecase(db, quietLogger(), providers, schedules, appointments, service.NoopBookedSlotCache{}, 30)
}

func TestGetOpenSlots_ExcludesBookedTimes(t *testing.T) {
	providers := &mockProviderRepo{}
	schedules := &mockScheduleRepo{}
	appointments := &mockAppointmentRepo{}
	provider := bookableProvider()

	providers.On("FindByID", mock.Anything, provider.ID).Return(provider, nil)
	schedules.On("FindByProviderID", mock.Anything, provider.ID).Return(&entity.ProviderSchedule{
		ProviderID:          provider.ID,
		WorkingDays:         entity.NewWeekdaySet(entity.Monday),
		DayStart:            datatypes.NewTime(9, 0, 0, 0),
		DayEnd:              datatypes.NewTime(11, 0, 0, 0),
		SlotDurationMinutes: 30,
	}, nil)
	appointments.On("FindBookedTimes", mock.Anything, provider.ID, mock.Anything).
		Return([]datatypes.Time{datatypes.NewTime(9, 30, 0, 0), datatypes.NewTime(13, 0, 0, 0)}, nil)

	resp, err := newAvailabilityUsecase(t, providers, schedules, appointments).GetOpenSlots(context.Background(), provider.ID, "2026-11-02")
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:00", "10:30"}, resp.Slots)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
	assert.Equal(t, "2026-11-02", resp.Date)
}

func TestGetOpenSlots_NonWorkingDaySkipsBookingLookup(t *testing.T) {
	providers := &mockProviderRepo{}
	schedules := &mockScheduleRepo{}
	appointments := &mockAppointmentRepo{}
	provider := bookableProvider()

	providers.On("FindByID", mock.Anything, provider.ID).Return(provider, nil)
	schedules.On("FindByProviderID", mock.Anything, provider.ID).Return(nil, nil)

	// 2026-11-01 is a Sunday, outside the default Mon-Fri week
	resp, err := newAvailabilityUsecase(t, providers, schedules, appointments).GetOpenSlots(context.Background(), provider.ID, "2026-11-01")
	require.NoError(t, err)

	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
	appointments.AssertNotCalled(t, "FindBookedTimes", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOpenSlots_DefaultScheduleGrid(t *testing.T) {
	providers := &mockProviderRepo{}
	schedules := &mockScheduleRepo{}
	appointments := &mockAppointmentRepo{}
	provider := bookableProvider()

	providers.On("FindByID", mock.Anything, provider.ID).Return(provider, nil)
	schedules.On("FindByProviderID", mock.Anything, provider.ID).Return(nil, nil)
	appointments.On("FindBookedTimes", mock.Anything, provider.ID, mock.Anything).Return(nil, nil)

	resp, err := newAvailabilityUsecase(t, providers, schedules, appointments).GetOpenSlots(context.Background(), provider.ID, "2026-11-03")
	require.NoError(t, err)

	require.Equal(t, 16, resp.Total)
	assert.Equal(t, "09:00", resp.Slots[0])
	assert.Equal(t, "16:30", resp.Slots[15])
}

func TestGetOpenSlots_Rejections(t *testing.T) {
	t.Run("invalid date", func(t *testing.T) {
		providers := &mockProviderRepo{}
		_, err := newAvailabilityUsecase(t, providers, &mockScheduleRepo{}, &mockAppointmentRepo{}).
			GetOpenSlots(context.Background(), uuid.New(), "2026/11/02")
		assert.ErrorIs(t, err, ErrInvalidDate)
		providers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown provider", func(t *testing.T) {
		providers := &mockProviderRepo{}
		providerID := uuid.New()
		providers.On("FindByID", mock.Anything, providerID).Return(nil, nil)

		_, err := newAvailabilityUsecase(t, providers, &mockScheduleRepo{}, &mockAppointmentRepo{}).
			GetOpenSlots(context.Background(), providerID, "2026-11-02")
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("inactive provider", func(t *testing.T) {
		providers := &mockProviderRepo{}
		provider := bookableProvider()
		provider.IsActive = false
		providers.On("FindByID", mock.Anything, provider.ID).Return(provider, nil)

		_, err := newAvailabilityUsecase(t, providers, &mockScheduleRepo{}, &mockAppointmentRepo{}).
			GetOpenSlots(context.Background(), provider.ID, "2026-11-02")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("booking lookup fails", func(t *testing.T) {
		providers := &mockProviderRepo{}
		schedules := &mockScheduleRepo{}
		appointments := &mockAppointmentRepo{}
		provider := bookableProvider()
		dbErr := errors.New("timeout")

		providers.On("FindByID", mock.Anything, provider.ID).Return(provider, nil)
		schedules.On("FindByProviderID", mock.Anything, provider.ID).Return(nil, nil)
		appointments.On("FindBookedTimes", mock.Anything, provider.ID, mock.Anything).Return(nil, dbErr)

		_, err := newAvailabilityUsecase(t, providers, schedules, appointments).
			GetOpenSlots(context.Background(), provider.ID, "2026-11-02")
		assert.ErrorIs(t, err, dbErr)
	})
}
