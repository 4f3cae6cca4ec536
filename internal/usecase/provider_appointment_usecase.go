package usecase

import (
	"context"
	"errors"

	"go-appointment-booking/internal/converter"
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/domain/repository"
	"go-appointment-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type ProviderAppointmentUsecase interface {
	ListProviderAppointments(ctx context.Context, providerID uuid.UUID, req *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error)
	SetStatus(ctx context.Context, providerID uuid.UUID, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	GetHistory(ctx context.Context, providerID uuid.UUID, appointmentID uuid.UUID) (*dto.AppointmentHistoryResponse, error)
}

type providerAppointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	publisher       service.EventPublisher
}

func NewProviderAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
) ProviderAppointmentUsecase {
	return &providerAppointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		publisher:       publisher,
	}
}

// ListProviderAppointments returns the provider's appointments, optionally
// narrowed to one date and/or status
func (u *providerAppointmentUsecase) ListProviderAppointments(ctx context.Context, providerID uuid.UUID, req *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{}
	if req != nil {
		if req.Date != "" {
			date, err := entity.ParseDate(req.Date)
			if err != nil {
				return nil, ErrInvalidDate
			}
			filter.Date = &date
		}
		if req.Status != "" {
			status, err := entity.ParseAppointmentStatus(req.Status)
			if err != nil {
				return nil, ErrInvalidStatus
			}
			filter.Status = &status
		}
	}

	appointments, err := u.appointmentRepo.FindByProviderID(u.db.WithContext(ctx), providerID, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments for provider %s: %+v", providerID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// SetStatus moves an appointment to a new status on behalf of its provider.
//
// Any status may be followed by accepted, rejected or completed, including a
// completed or rejected one. The slot stays claimed whatever the status.
func (u *providerAppointmentUsecase) SetStatus(ctx context.Context, providerID uuid.UUID, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	ctx, span := tracer.Start(ctx, "ProviderAppointmentUsecase.SetStatus", trace.WithAttributes(
		attribute.String("appointment.id", appointmentID.String()),
		attribute.String("appointment.status", req.Status),
	))
	defer span.End()

	next, err := entity.ParseAppointmentStatus(req.Status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, tx.Error
	}
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	// Verify ownership
	if !appointment.IsOwnedBy(providerID) {
		return nil, ErrNotAppointmentOwner
	}

	previous := appointment.Status
	if err := appointment.TransitionTo(next); err != nil {
		if errors.Is(err, entity.ErrInvalidTransition) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	// scoped to the owner as well
	affected, err := u.appointmentRepo.UpdateStatus(tx, appointmentID, providerID, next)
	if err != nil {
		u.log.Warnf("Failed to update status of appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentNotFound
	}

	if err := u.auditService.LogUpdate(ctx, tx, &providerID, entity.AuditActionAppointmentStatus, service.AuditEntityAppointment, appointmentID.String(), string(previous), string(next)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit status of appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	event := service.NewAppointmentEvent(service.EventAppointmentStatusChanged, appointment, previous)
	if err := service.PublishDetached(ctx, u.publisher, event); err != nil {
		u.log.Warnf("Failed to publish %s for appointment %s: %+v", event.EventType, appointmentID, err)
	}

	u.log.Infof("Appointment status changed: id=%s, %s -> %s, provider=%s", appointmentID, previous, next, providerID)
	return converter.AppointmentToResponse(appointment), nil
}

// GetHistory returns the audit trail of one of the provider's appointments
func (u *providerAppointmentUsecase) GetHistory(ctx context.Context, providerID uuid.UUID, appointmentID uuid.UUID) (*dto.AppointmentHistoryResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsOwnedBy(providerID) {
		return nil, ErrNotAppointmentOwner
	}

	logs, err := u.auditService.History(ctx, service.AuditEntityAppointment, appointmentID.String())
	if err != nil {
		return nil, err
	}

	return &dto.AppointmentHistoryResponse{
		AppointmentID: appointmentID,
		Entries:       converter.AuditLogsToEntries(logs),
	}, nil
}
