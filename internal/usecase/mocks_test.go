package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Transactions run against sqlmock; repositories are mocked, so the database
// only ever sees BEGIN, COMMIT and ROLLBACK.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, sqlMock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func bookableProvider() *entity.Provider {
	return &entity.Provider{ID: uuid.New(), FullName: "Dr. Rivera", IsVerified: true, IsActive: true}
}

// =============================================================================
// testify mocks
// =============================================================================

type mockProviderRepo struct{ mock.Mock }

func (m *mockProviderRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Provider, error) {
	args := m.Called(db, id)
	p, _ := args.Get(0).(*entity.Provider)
	return p, args.Error(1)
}

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) FindByProviderID(db *gorm.DB, providerID uuid.UUID) (*entity.ProviderSchedule, error) {
	args := m.Called(db, providerID)
	s, _ := args.Get(0).(*entity.ProviderSchedule)
	return s, args.Error(1)
}

func (m *mockScheduleRepo) Upsert(db *gorm.DB, schedule *entity.ProviderSchedule) error {
	return m.Called(db, schedule).Error(0)
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(db, appointment).Error(0)
}

func (m *mockAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(db, id)
	a, _ := args.Get(0).(*entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) FindBySlot(db *gorm.DB, providerID uuid.UUID, date time.Time, start datatypes.Time) (*entity.Appointment, error) {
	args := m.Called(db, providerID, date, start)
	a, _ := args.Get(0).(*entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) FindBookedTimes(db *gorm.DB, providerID uuid.UUID, date time.Time) ([]datatypes.Time, error) {
	args := m.Called(db, providerID, date)
	times, _ := args.Get(0).([]datatypes.Time)
	return times, args.Error(1)
}

func (m *mockAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(db, patientID)
	list, _ := args.Get(0).([]entity.Appointment)
	return list, args.Error(1)
}

func (m *mockAppointmentRepo) FindByProviderID(db *gorm.DB, providerID uuid.UUID, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(db, providerID, filter)
	list, _ := args.Get(0).([]entity.Appointment)
	return list, args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, providerID uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	args := m.Called(db, id, providerID, status)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditService struct{ mock.Mock }

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return m.Called(ctx, tx, actorID, action, entityName, entityID, newValue).Error(0)
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, tx, actorID, action, entityName, entityID, oldValue, newValue).Error(0)
}

func (m *mockAuditService) History(ctx context.Context, entityName string, entityID string) ([]entity.AuditLog, error) {
	args := m.Called(ctx, entityName, entityID)
	logs, _ := args.Get(0).([]entity.AuditLog)
	return logs, args.Error(1)
}

// =============================================================================
// fakes
// =============================================================================

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []service.AppointmentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event service.AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []service.AppointmentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.AppointmentEvent(nil), p.events...)
}

// recordingSlotCache reads through and remembers marked slots.
type recordingSlotCache struct {
	mu     sync.Mutex
	marked []string
}

func (c *recordingSlotCache) BookedTimes(ctx context.Context, _ uuid.UUID, _ time.Time, load service.BookedTimesLoader) ([]datatypes.Time, error) {
	return load(ctx)
}

func (c *recordingSlotCache) MarkBooked(_ context.Context, providerID uuid.UUID, date time.Time, start datatypes.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.marked = append(c.marked, entity.SlotKey(providerID, date, start))
}

func (c *recordingSlotCache) Marked() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.marked...)
}

// noopLocker never blocks, leaving only the storage constraint to decide races.
type noopLocker struct{}

func (noopLocker) Lock(string) func() { return func() {} }

// memoryAppointmentStore enforces the slot uniqueness constraint in memory.
// With blindReads set FindBySlot always misses, modelling two instances that
// both passed the existence check before either inserted.
type memoryAppointmentStore struct {
	mockAppointmentRepo

	mu         sync.Mutex
	bySlot     map[string]*entity.Appointment
	blindReads bool
}

func newMemoryAppointmentStore(blindReads bool) *memoryAppointmentStore {
	return &memoryAppointmentStore{bySlot: map[string]*entity.Appointment{}, blindReads: blindReads}
}

func (s *memoryAppointmentStore) FindBySlot(_ *gorm.DB, providerID uuid.UUID, date time.Time, start datatypes.Time) (*entity.Appointment, error) {
	if s.blindReads {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bySlot[entity.SlotKey(providerID, date, start)], nil
}

func (s *memoryAppointmentStore) Create(_ *gorm.DB, appointment *entity.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := appointment.SlotKey()
	if _, taken := s.bySlot[key]; taken {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_slot"}
	}
	stored := *appointment
	s.bySlot[key] = &stored
	return nil
}

func (s *memoryAppointmentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bySlot)
}
