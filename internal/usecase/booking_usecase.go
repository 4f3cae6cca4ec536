package usecase

import (
	"context"
	"time"

	"go-appointment-booking/internal/converter"
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/availability"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/domain/repository"
	"go-appointment-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// slotConstraintName is the unique constraint on (provider_id, date, start_time)
const slotConstraintName = "uq_appointments_slot"

type BookingUsecase interface {
	AttemptBook(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	ListPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
}

// BookingOptions tunes AttemptBook.
type BookingOptions struct {
	DefaultSlotMinutes int
	// RequireGridAlignment rejects start times that are not one of the
	// provider's slots on that date.
	RequireGridAlignment bool
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	providerRepo    repository.ProviderRepository
	scheduleRepo    repository.ProviderScheduleRepository
	appointmentRepo repository.AppointmentRepository
	slotLocker      service.SlotLocker
	slotCache       service.BookedSlotCache
	auditService    service.AuditService
	publisher       service.EventPublisher
	opts            BookingOptions
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	scheduleRepo repository.ProviderScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
	slotLocker service.SlotLocker,
	slotCache service.BookedSlotCache,
	auditService service.AuditService,
	publisher service.EventPublisher,
	opts BookingOptions,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		providerRepo:    providerRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		slotLocker:      slotLocker,
		slotCache:       slotCache,
		auditService:    auditService,
		publisher:       publisher,
		opts:            opts,
	}
}

// AttemptBook books one slot for a patient.
//
// Flow:
// 1. Validate date/time format and that the provider is bookable
// 2. Lock the (provider, date, start time) key in this process
// 3. In one transaction: check the slot is free, insert, write the audit entry
// 4. After commit: update the booked slot cache and publish appointment.booked
//
// The unique constraint on the slot covers other instances; its violation is
// reported as ErrSlotTaken like a lost in-process race.
func (u *bookingUsecase) AttemptBook(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	ctx, span := tracer.Start(ctx, "BookingUsecase.AttemptBook", trace.WithAttributes(
		attribute.String("provider.id", req.ProviderID.String()),
		attribute.String("appointment.date", req.Date),
		attribute.String("appointment.start_time", req.StartTime),
	))
	defer span.End()

	date, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	startTime, err := entity.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	provider, err := u.providerRepo.FindByID(u.db.WithContext(ctx), req.ProviderID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", req.ProviderID, err)
		return nil, err
	}
	if provider == nil || !provider.IsBookable() {
		return nil, ErrProviderNotFound
	}

	if u.opts.RequireGridAlignment {
		schedule, _, err := loadSchedule(u.db.WithContext(ctx), u.scheduleRepo, provider.ID, u.opts.DefaultSlotMinutes)
		if err != nil {
			u.log.Warnf("Failed to find schedule for provider %s: %+v", provider.ID, err)
			return nil, err
		}
		if !schedule.WorksOn(date) || !availability.IsOnGrid(schedule, startTime) {
			return nil, ErrOffGridStartTime
		}
	}

	appointment := &entity.Appointment{
		ID:         uuid.New(),
		PatientID:  patientID,
		ProviderID: provider.ID,
		Date:       entity.DateOf(date),
		StartTime:  startTime,
		Status:     entity.AppointmentStatusPending,
		Notes:      req.Notes,
	}

	if err := u.createInSlot(ctx, appointment); err != nil {
		if err == ErrSlotTaken {
			span.SetStatus(codes.Error, "slot taken")
		}
		return nil, err
	}

	u.slotCache.MarkBooked(ctx, appointment.ProviderID, date, appointment.StartTime)

	event := service.NewAppointmentEvent(service.EventAppointmentBooked, appointment, "")
	if err := service.PublishDetached(ctx, u.publisher, event); err != nil {
		u.log.Warnf("Failed to publish %s for appointment %s: %+v", event.EventType, appointment.ID, err)
	}

	u.log.Infof("Appointment booked: id=%s, slot=%s, patient=%s", appointment.ID, appointment.SlotKey(), patientID)
	return converter.AppointmentToResponse(appointment), nil
}

// createInSlot runs the check-and-create for the appointment's slot while
// holding its key, so concurrent requests for one slot are serialized and
// requests for other slots proceed in parallel.
func (u *bookingUsecase) createInSlot(ctx context.Context, appointment *entity.Appointment) error {
	unlock := u.slotLocker.Lock(appointment.SlotKey())
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return tx.Error
	}
	defer tx.Rollback()

	existing, err := u.appointmentRepo.FindBySlot(tx, appointment.ProviderID, time.Time(appointment.Date), appointment.StartTime)
	if err != nil {
		u.log.Warnf("Failed to check slot %s: %+v", appointment.SlotKey(), err)
		return err
	}
	if existing != nil {
		return ErrSlotTaken
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, slotConstraintName) {
			return ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment for slot %s: %+v", appointment.SlotKey(), err)
		return err
	}

	if err := u.auditService.LogCreate(ctx, tx, &appointment.PatientID, entity.AuditActionAppointmentBook, service.AuditEntityAppointment, appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, slotConstraintName) {
			return ErrSlotTaken
		}
		u.log.Warnf("Failed to commit appointment for slot %s: %+v", appointment.SlotKey(), err)
		return err
	}

	return nil
}

// ListPatientAppointments returns the patient's appointments, newest first
func (u *bookingUsecase) ListPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
