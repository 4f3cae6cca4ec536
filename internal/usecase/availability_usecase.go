package usecase

import (
	"context"

	"go-appointment-booking/internal/converter"
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/availability"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/domain/repository"
	"go-appointment-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	GetOpenSlots(ctx context.Context, providerID uuid.UUID, date string) (*dto.OpenSlotsResponse, error)
}

type availabilityUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	providerRepo       repository.ProviderRepository
	scheduleRepo       repository.ProviderScheduleRepository
	appointmentRepo    repository.AppointmentRepository
	slotCache          service.BookedSlotCache
	defaultSlotMinutes int
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	scheduleRepo repository.ProviderScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
	slotCache service.BookedSlotCache,
	defaultSlotMinutes int,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                 db,
		log:                log,
		providerRepo:       providerRepo,
		scheduleRepo:       scheduleRepo,
		appointmentRepo:    appointmentRepo,
		slotCache:          slotCache,
		defaultSlotMinutes: defaultSlotMinutes,
	}
}

// GetOpenSlots lists the free start times of a provider on date.
// The answer is advisory: AttemptBook re-checks the slot when committing.
func (u *availabilityUsecase) GetOpenSlots(ctx context.Context, providerID uuid.UUID, date string) (*dto.OpenSlotsResponse, error) {
	ctx, span := tracer.Start(ctx, "AvailabilityUsecase.GetOpenSlots", trace.WithAttributes(
		attribute.String("provider.id", providerID.String()),
		attribute.String("appointment.date", date),
	))
	defer span.End()

	day, err := entity.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	provider, err := u.providerRepo.FindByID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil || !provider.IsBookable() {
		return nil, ErrProviderNotFound
	}

	schedule, _, err := loadSchedule(u.db.WithContext(ctx), u.scheduleRepo, providerID, u.defaultSlotMinutes)
	if err != nil {
		u.log.Warnf("Failed to find schedule for provider %s: %+v", providerID, err)
		return nil, err
	}

	var booked []datatypes.Time
	if schedule.WorksOn(day) {
		booked, err = u.slotCache.BookedTimes(ctx, providerID, day, func(ctx context.Context) ([]datatypes.Time, error) {
			return u.appointmentRepo.FindBookedTimes(u.db.WithContext(ctx), providerID, day)
		})
		if err != nil {
			u.log.Warnf("Failed to find booked times for provider %s on %s: %+v", providerID, date, err)
			return nil, err
		}
	}

	slots := availability.ComputeOpenSlots(schedule, booked, day)
	span.SetAttributes(attribute.Int("slots.open", len(slots)))

	return &dto.OpenSlotsResponse{
		ProviderID:          providerID,
		Date:                day.Format(entity.DateLayout),
		SlotDurationMinutes: schedule.SlotDurationMinutes,
		Slots:               converter.SlotsToStrings(slots),
		Total:               len(slots),
	}, nil
}

