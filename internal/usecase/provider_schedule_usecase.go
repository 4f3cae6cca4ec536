package usecase

import (
	"context"

	"go-appointment-booking/internal/converter"
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/domain/repository"
	"go-appointment-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProviderScheduleUsecase interface {
	GetSchedule(ctx context.Context, providerID uuid.UUID) (*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, providerID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
}

type providerScheduleUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	providerRepo       repository.ProviderRepository
	scheduleRepo       repository.ProviderScheduleRepository
	auditService       service.AuditService
	defaultSlotMinutes int
}

func NewProviderScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	scheduleRepo repository.ProviderScheduleRepository,
	auditService service.AuditService,
	defaultSlotMinutes int,
) ProviderScheduleUsecase {
	return &providerScheduleUsecase{
		db:                 db,
		log:                log,
		providerRepo:       providerRepo,
		scheduleRepo:       scheduleRepo,
		auditService:       auditService,
		defaultSlotMinutes: defaultSlotMinutes,
	}
}

// GetSchedule returns the saved schedule, or the default one for providers
// that never saved theirs
func (u *providerScheduleUsecase) GetSchedule(ctx context.Context, providerID uuid.UUID) (*dto.ScheduleResponse, error) {
	provider, err := u.providerRepo.FindByID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	schedule, isDefault, err := loadSchedule(u.db.WithContext(ctx), u.scheduleRepo, providerID, u.defaultSlotMinutes)
	if err != nil {
		u.log.Warnf("Failed to find schedule for provider %s: %+v", providerID, err)
		return nil, err
	}

	return converter.ScheduleToResponse(schedule, isDefault), nil
}

// UpdateSchedule replaces the acting provider's weekly schedule.
// Existing appointments are kept even when they fall outside the new hours.
func (u *providerScheduleUsecase) UpdateSchedule(ctx context.Context, providerID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := buildSchedule(providerID, req)
	if err != nil {
		return nil, err
	}

	provider, err := u.providerRepo.FindByID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, tx.Error
	}
	defer tx.Rollback()

	old, isDefault, err := loadSchedule(tx, u.scheduleRepo, providerID, u.defaultSlotMinutes)
	if err != nil {
		u.log.Warnf("Failed to find schedule for provider %s: %+v", providerID, err)
		return nil, err
	}

	if err := u.scheduleRepo.Upsert(tx, schedule); err != nil {
		u.log.Warnf("Failed to save schedule for provider %s: %+v", providerID, err)
		return nil, err
	}

	var oldValue interface{}
	if !isDefault {
		oldValue = converter.ScheduleToResponse(old, false)
	}
	if err := u.auditService.LogUpdate(ctx, tx, &providerID, entity.AuditActionScheduleUpdate, service.AuditEntitySchedule, providerID.String(), oldValue, converter.ScheduleToResponse(schedule, false)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit schedule update for provider %s: %+v", providerID, err)
		return nil, err
	}

	if schedule.WorkingDays.IsEmpty() {
		u.log.Infof("Schedule updated: provider=%s has no working days, no slots offered", providerID)
	} else {
		u.log.Infof("Schedule updated: provider=%s, days=%s, hours=%s-%s, slot=%dm",
			providerID, schedule.WorkingDays, entity.FormatClock(schedule.DayStart), entity.FormatClock(schedule.DayEnd), schedule.SlotDurationMinutes)
	}

	return converter.ScheduleToResponse(schedule, false), nil
}

// buildSchedule validates the request independently of the DTO tags so the
// usecase rejects bad schedules whatever the transport
func buildSchedule(providerID uuid.UUID, req *dto.UpdateScheduleRequest) (*entity.ProviderSchedule, error) {
	days := make([]entity.Weekday, 0, len(req.WorkingDays))
	for _, raw := range req.WorkingDays {
		day, err := entity.ParseWeekday(raw)
		if err != nil {
			return nil, ErrInvalidWorkingDays
		}
		days = append(days, day)
	}

	dayStart, err := entity.ParseClock(req.DayStart)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	dayEnd, err := entity.ParseClock(req.DayEnd)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if dayStart >= dayEnd {
		return nil, ErrInvalidWorkingHours
	}

	if req.SlotDurationMinutes < minSlotDurationMinutes || req.SlotDurationMinutes > maxSlotDurationMinutes {
		return nil, ErrInvalidSlotDuration
	}

	return &entity.ProviderSchedule{
		ProviderID:          providerID,
		WorkingDays:         entity.NewWeekdaySet(days...),
		DayStart:            dayStart,
		DayEnd:              dayEnd,
		SlotDurationMinutes: req.SlotDurationMinutes,
	}, nil
}

// loadSchedule returns the stored schedule or the default one.
// The bool reports whether the default was used.
func loadSchedule(db *gorm.DB, repo repository.ProviderScheduleRepository, providerID uuid.UUID, defaultSlotMinutes int) (*entity.ProviderSchedule, bool, error) {
	schedule, err := repo.FindByProviderID(db, providerID)
	if err != nil {
		return nil, false, err
	}
	if schedule == nil {
		return entity.DefaultProviderSchedule(providerID, defaultSlotMinutes), true, nil
	}
	return schedule, false, nil
}
