package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/session"
	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

const day = "2025-03-10" // segunda-feira

type env struct {
	db    *gorm.DB
	deps  Deps
	prof  models.Professional
	cut   models.Service // 60 min, 100,00
	color models.Service // 30 min, 50,00
	card  models.PaymentMethod
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Professional{},
		&models.Client{},
		&models.Service{},
		&models.PaymentMethod{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.WorkingHours{},
	))

	e := &env{
		db:    db,
		prof:  models.Professional{Name: "Ana", CommissionRate: 40, Active: true},
		cut:   models.Service{Name: "Corte", Price: 100, EstimatedTime: 60, Active: true},
		color: models.Service{Name: "Coloração", Price: 50, EstimatedTime: 30, Active: true},
		card:  models.PaymentMethod{Name: "Cartão", FeeRate: 3.5, Active: true},
	}
	require.NoError(t, db.Create(&e.prof).Error)
	require.NoError(t, db.Create(&e.cut).Error)
	require.NoError(t, db.Create(&e.color).Error)
	require.NoError(t, db.Create(&e.card).Error)

	e.deps = Deps{
		Repo:      repository.NewAppointmentGormRepository(db),
		Finalizer: repository.NewGormFinalizer(db),
		Schedule:  domain.DefaultSchedule(),
		Locker:    lock.NewKeyedMutex(),
		Bus:       events.NewBus(logging.Discard()),
		Log:       logging.Discard(),
		Timezone:  "America/Sao_Paulo",
	}
	return e
}

func (e *env) create(t *testing.T, hm string, services ...uuid.UUID) *models.Appointment {
	t.Helper()
	in := CreateAppointmentInput{ProfessionalID: e.prof.ID, Date: day, Time: hm}
	for _, id := range services {
		in.Services = append(in.Services, ServiceInput{ServiceID: id})
	}
	ap, err := NewCreateAppointment(e.deps).Execute(context.Background(), in)
	require.NoError(t, err)
	return ap
}

func (e *env) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Appointment{}).Count(&n).Error)
	return n
}

func kindOf(err error) httperr.Kind { return httperr.KindOf(err) }

// ======================================================
// Create
// ======================================================

func TestCreateAppointment(t *testing.T) {
	e := newEnv(t)
	changes, cancel := e.deps.Bus.Subscribe(4)
	defer cancel()

	ap := e.create(t, "10:00", e.cut.ID, e.color.ID)

	assert.Equal(t, "agendado", ap.Status)
	assert.Equal(t, "10:00", ap.Time)
	require.Len(t, ap.Services, 2)
	assert.Equal(t, e.cut.ID, ap.Services[0].ServiceID)
	assert.Equal(t, e.color.ID, ap.Services[1].ServiceID)

	select {
	case c := <-changes:
		assert.Equal(t, events.KindCreated, c.Kind)
		assert.Equal(t, ap.ID, c.AppointmentID)
	case <-time.After(time.Second):
		t.Fatal("no change published")
	}
}

func TestCreateRejectsIncompleteDraftBeforeWriting(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateAppointment(e.deps)
	ctx := context.Background()

	cases := map[string]CreateAppointmentInput{
		"professional_required": {Date: day, Time: "10:00", Services: []ServiceInput{{ServiceID: e.cut.ID}}},
		"invalid_date":          {ProfessionalID: e.prof.ID, Date: "10/03/2025", Time: "10:00", Services: []ServiceInput{{ServiceID: e.cut.ID}}},
		"invalid_time":          {ProfessionalID: e.prof.ID, Date: day, Time: "25:00", Services: []ServiceInput{{ServiceID: e.cut.ID}}},
		"services_required":     {ProfessionalID: e.prof.ID, Date: day, Time: "10:00"},
		"service_not_found":     {ProfessionalID: e.prof.ID, Date: day, Time: "10:00", Services: []ServiceInput{{ServiceID: uuid.New()}}},
	}

	for code, in := range cases {
		t.Run(code, func(t *testing.T) {
			ap, err := uc.Execute(ctx, in)
			require.Error(t, err)
			assert.Nil(t, ap)
			assert.Equal(t, httperr.KindValidation, kindOf(err))
			assert.True(t, httperr.IsBusiness(err, code), err.Error())
		})
	}
	assert.Zero(t, e.count(t))
}

func TestCreateRejectsOccupiedSlot(t *testing.T) {
	e := newEnv(t)
	e.create(t, "10:00", e.cut.ID)

	_, err := NewCreateAppointment(e.deps).Execute(context.Background(), CreateAppointmentInput{
		ProfessionalID: e.prof.ID,
		Date:           day,
		Time:           "10:30",
		Services:       []ServiceInput{{ServiceID: e.color.ID}},
	})
	require.Error(t, err)
	assert.Equal(t, httperr.KindSlotConflict, kindOf(err))
	assert.Equal(t, int64(1), e.count(t))

	// termina exatamente onde o outro começa
	e.create(t, "09:30", e.color.ID)
	e.create(t, "11:00", e.color.ID)
}

func TestCreateRejectsStartOffTheGrid(t *testing.T) {
	e := newEnv(t)

	_, err := NewCreateAppointment(e.deps).Execute(context.Background(), CreateAppointmentInput{
		ProfessionalID: e.prof.ID,
		Date:           day,
		Time:           "10:15",
		Services:       []ServiceInput{{ServiceID: e.color.ID}},
	})
	assert.Equal(t, httperr.KindSlotConflict, kindOf(err))
}

func TestCreateRejectsPastWorkEnd(t *testing.T) {
	e := newEnv(t)

	_, err := NewCreateAppointment(e.deps).Execute(context.Background(), CreateAppointmentInput{
		ProfessionalID: e.prof.ID,
		Date:           day,
		Time:           "19:30",
		Services:       []ServiceInput{{ServiceID: e.cut.ID}},
	})
	assert.Equal(t, httperr.KindSlotConflict, kindOf(err))
}

type failingLines struct {
	domain.Repository
}

func (failingLines) CreateServiceLines(context.Context, uuid.UUID, []models.AppointmentService) error {
	return errors.New("disk full")
}

func TestCreateReportsPartialWrite(t *testing.T) {
	e := newEnv(t)
	deps := e.deps
	deps.Repo = failingLines{Repository: e.deps.Repo}

	ap, err := NewCreateAppointment(deps).Execute(context.Background(), CreateAppointmentInput{
		ProfessionalID: e.prof.ID,
		Date:           day,
		Time:           "10:00",
		Services:       []ServiceInput{{ServiceID: e.cut.ID}},
	})
	require.Error(t, err)
	require.NotNil(t, ap)
	assert.Equal(t, httperr.KindPartialWrite, kindOf(err))
	assert.Empty(t, ap.Services)
	assert.Equal(t, int64(1), e.count(t))
}

// ======================================================
// Availability
// ======================================================

func TestAvailabilityExcludesBookedRange(t *testing.T) {
	e := newEnv(t)
	e.create(t, "10:00", e.cut.ID)

	date, _ := time.Parse("2006-01-02", day)
	out, err := NewGetAvailability(e.deps).Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID: &e.prof.ID,
		Date:           date,
		Selections:     []domain.ServiceSelection{{ServiceID: e.color.ID}},
	})
	require.NoError(t, err)

	assert.True(t, out.DurationReady)
	assert.Equal(t, 30, out.Duration)
	assert.Len(t, out.Slots, 22)
	for _, s := range out.Slots {
		assert.NotEqual(t, "10:00", s.Start)
		assert.NotEqual(t, "10:30", s.Start)
	}
	assert.Equal(t, domain.TimeSlot{Start: "08:00", End: "08:30"}, out.Slots[0])
}

func TestAvailabilityWithoutProfessionalIsEmpty(t *testing.T) {
	e := newEnv(t)
	date, _ := time.Parse("2006-01-02", day)

	out, err := NewGetAvailability(e.deps).Execute(context.Background(), domain.AvailabilityInput{
		Date:       date,
		Selections: []domain.ServiceSelection{{ServiceID: e.cut.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, 60, out.Duration)
	assert.Empty(t, out.Slots)

	out, err = NewGetAvailability(e.deps).Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID: &e.prof.ID,
		Date:           date,
	})
	require.NoError(t, err)
	assert.False(t, out.DurationReady)
	assert.Empty(t, out.Slots)
}

func (e *env) withDayCache() *cache.MemoryStore {
	store := cache.NewMemoryStore()
	e.deps.DayCache = store
	e.deps.DayCacheTTL = time.Minute
	return store
}

func (e *env) colorSlots(t *testing.T, uc *GetAvailability) []string {
	t.Helper()
	date, _ := time.Parse("2006-01-02", day)
	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID: &e.prof.ID,
		Date:           date,
		Selections:     []domain.ServiceSelection{{ServiceID: e.color.ID}},
	})
	require.NoError(t, err)
	starts := make([]string, 0, len(out.Slots))
	for _, s := range out.Slots {
		starts = append(starts, s.Start)
	}
	return starts
}

func TestAvailabilityReflectsMutationsImmediately(t *testing.T) {
	e := newEnv(t)
	e.withDayCache()
	uc := NewGetAvailability(e.deps)

	require.Len(t, e.colorSlots(t, uc), 24)

	ap := e.create(t, "08:00", e.color.ID)
	assert.NotContains(t, e.colorSlots(t, uc), "08:00")

	_, err := NewCancelAppointment(e.deps).Execute(context.Background(), nil, ap.ID)
	require.NoError(t, err)
	assert.Contains(t, e.colorSlots(t, uc), "08:00")
	assert.Len(t, e.colorSlots(t, uc), 24)
}

func TestAvailabilityIgnoresValueLoadedBeforeMutation(t *testing.T) {
	e := newEnv(t)
	store := e.withDayCache()
	uc := NewGetAvailability(e.deps)
	ctx := context.Background()

	ap := e.create(t, "08:00", e.color.ID)

	// leitura que começou antes do cancelamento e grava depois dele
	key, ok := cache.CurrentDayKey(ctx, store, e.prof.ID, day)
	require.True(t, ok)
	stale, err := e.deps.Repo.ListAppointmentsForDay(ctx, e.prof.ID, day)
	require.NoError(t, err)

	_, err = NewCancelAppointment(e.deps).Execute(ctx, nil, ap.ID)
	require.NoError(t, err)

	require.NoError(t, cache.SetJSON(ctx, store, key, domain.BookingsFromModels(stale), time.Minute))

	assert.Contains(t, e.colorSlots(t, uc), "08:00")
}

func TestRelayedChangeRetiresDayCache(t *testing.T) {
	e := newEnv(t)
	store := e.withDayCache()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewDayInvalidator(e.deps.Bus, store, logging.Discard()).Start(ctx)

	before, ok := cache.CurrentDayKey(ctx, store, e.prof.ID, day)
	require.True(t, ok)

	// mudança feita por outra instância
	e.deps.Bus.Publish(ctx, events.NewChange(events.KindCreated, &models.Appointment{
		ID:             uuid.New(),
		ProfessionalID: e.prof.ID,
		Date:           day,
	}))

	assert.Eventually(t, func() bool {
		after, _ := cache.CurrentDayKey(ctx, store, e.prof.ID, day)
		return after != before
	}, time.Second, 10*time.Millisecond)
}

// ======================================================
// Move / Update
// ======================================================

func TestMoveCollisionLeavesAppointmentUntouched(t *testing.T) {
	e := newEnv(t)
	e.create(t, "10:00", e.cut.ID)
	other := e.create(t, "14:00", e.color.ID)

	_, err := NewMoveAppointment(e.deps).Execute(context.Background(), MoveAppointmentInput{
		AppointmentID:  other.ID,
		ProfessionalID: e.prof.ID,
		Time:           "10:30",
	})
	require.Error(t, err)
	assert.Equal(t, httperr.KindSlotConflict, kindOf(err))

	fresh, err := e.deps.Repo.GetAppointment(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, "14:00", fresh.Time)
	assert.Len(t, fresh.Services, 1)
}

func TestMoveAcceptsTickAlignedStartAndIgnoresItself(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.cut.ID)
	changes, cancel := e.deps.Bus.Subscribe(4)
	defer cancel()

	moved, err := NewMoveAppointment(e.deps).Execute(context.Background(), MoveAppointmentInput{
		AppointmentID:  ap.ID,
		ProfessionalID: e.prof.ID,
		Time:           "10:15",
	})
	require.NoError(t, err)
	assert.Equal(t, "10:15", moved.Time)
	require.Len(t, moved.Services, 1)

	c := <-changes
	assert.Equal(t, events.KindMoved, c.Kind)
	assert.False(t, c.ForceRefresh)

	_, err = NewMoveAppointment(e.deps).Execute(context.Background(), MoveAppointmentInput{
		AppointmentID:  ap.ID,
		ProfessionalID: e.prof.ID,
		Time:           "10:10",
	})
	assert.Equal(t, httperr.KindSlotConflict, kindOf(err))
}

func TestMoveToAnotherDayForcesRefresh(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.cut.ID)
	changes, cancel := e.deps.Bus.Subscribe(4)
	defer cancel()

	moved, err := NewMoveAppointment(e.deps).Execute(context.Background(), MoveAppointmentInput{
		AppointmentID:  ap.ID,
		ProfessionalID: e.prof.ID,
		Date:           "2025-03-11",
		Time:           "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", moved.Date)

	c := <-changes
	assert.True(t, c.ForceRefresh)
	assert.Len(t, c.Days(), 2)
}

func TestUpdateReplacesServicesAndChecksOverlap(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.color.ID)
	e.create(t, "11:00", e.color.ID)
	uc := NewUpdateAppointment(e.deps)
	ctx := context.Background()

	// 10:00 + 90 min invade o agendamento das 11:00
	_, err := uc.Execute(ctx, UpdateAppointmentInput{
		AppointmentID: ap.ID,
		Services:      []ServiceInput{{ServiceID: e.cut.ID}, {ServiceID: e.color.ID}},
	})
	assert.Equal(t, httperr.KindSlotConflict, kindOf(err))

	notes := "cliente prefere tesoura"
	updated, err := uc.Execute(ctx, UpdateAppointmentInput{
		AppointmentID: ap.ID,
		Services:      []ServiceInput{{ServiceID: e.cut.ID}},
		Notes:         &notes,
	})
	require.NoError(t, err)
	require.Len(t, updated.Services, 1)
	assert.Equal(t, e.cut.ID, updated.Services[0].ServiceID)
	assert.Equal(t, notes, updated.Notes)

	_, err = uc.Execute(ctx, UpdateAppointmentInput{AppointmentID: ap.ID, Services: []ServiceInput{}})
	assert.True(t, httperr.IsBusiness(err, "services_required"))
}

func TestUpdateStatus(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.color.ID)
	uc := NewUpdateAppointment(e.deps)
	ctx := context.Background()

	pending := "pendente"
	updated, err := uc.Execute(ctx, UpdateAppointmentInput{AppointmentID: ap.ID, Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, "pendente", updated.Status)

	cancelled := "cancelado"
	_, err = uc.Execute(ctx, UpdateAppointmentInput{AppointmentID: ap.ID, Status: &cancelled})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestUpdateUnknownAppointment(t *testing.T) {
	e := newEnv(t)
	_, err := NewUpdateAppointment(e.deps).Execute(context.Background(), UpdateAppointmentInput{AppointmentID: uuid.New()})
	assert.Equal(t, httperr.KindNotFound, kindOf(err))
}

// heldLocker sabe quais chaves estão travadas a cada momento.
type heldLocker struct {
	lock.Locker
	mu   sync.Mutex
	held map[string]int
}

func newHeldLocker() *heldLocker {
	return &heldLocker{Locker: lock.NewKeyedMutex(), held: make(map[string]int)}
}

func (l *heldLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlock, err := l.Locker.Lock(ctx, key)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.held[key]++
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.held[key]--
			l.mu.Unlock()
			unlock()
		})
	}, nil
}

func (l *heldLocker) isHeld(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[key] > 0
}

// movedAfterFirstRead muda o agendamento de profissional logo depois da
// primeira leitura, como uma remarcação concorrente.
type movedAfterFirstRead struct {
	domain.Repository
	db     *gorm.DB
	to     uuid.UUID
	locker *heldLocker
	once   sync.Once

	heldAtWrite bool
}

func (r *movedAfterFirstRead) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	ap, err := r.Repository.GetAppointment(ctx, id)
	r.once.Do(func() {
		r.db.Model(&models.Appointment{}).Where("id = ?", id).Update("professional_id", r.to)
	})
	return ap, err
}

func (r *movedAfterFirstRead) UpdateAppointment(ctx context.Context, ap *models.Appointment, lines []models.AppointmentService) error {
	r.heldAtWrite = r.locker.isHeld(lock.ScheduleKey(ap.ProfessionalID, ap.Date))
	return r.Repository.UpdateAppointment(ctx, ap, lines)
}

func TestUpdateLocksScheduleTheAppointmentIsOn(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.color.ID)

	bia := models.Professional{Name: "Bia", CommissionRate: 40, Active: true}
	require.NoError(t, e.db.Create(&bia).Error)

	locker := newHeldLocker()
	repo := &movedAfterFirstRead{Repository: e.deps.Repo, db: e.db, to: bia.ID, locker: locker}
	deps := e.deps
	deps.Locker = locker
	deps.Repo = repo

	updated, err := NewUpdateAppointment(deps).Execute(context.Background(), UpdateAppointmentInput{
		AppointmentID: ap.ID,
		Services:      []ServiceInput{{ServiceID: e.cut.ID}},
	})
	require.NoError(t, err)

	assert.Equal(t, bia.ID, updated.ProfessionalID)
	assert.True(t, repo.heldAtWrite, "write ran without the lock of the schedule it landed on")
	assert.False(t, locker.isHeld(lock.ScheduleKey(e.prof.ID, day)))
	assert.False(t, locker.isHeld(lock.ScheduleKey(bia.ID, day)))
}

func TestUpdateChecksOverlapOnScheduleTheAppointmentIsOn(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.color.ID)

	bia := models.Professional{Name: "Bia", CommissionRate: 40, Active: true}
	require.NoError(t, e.db.Create(&bia).Error)
	_, err := NewCreateAppointment(e.deps).Execute(context.Background(), CreateAppointmentInput{
		ProfessionalID: bia.ID,
		Date:           day,
		Time:           "10:30",
		Services:       []ServiceInput{{ServiceID: e.color.ID}},
	})
	require.NoError(t, err)

	deps := e.deps
	deps.Repo = &movedAfterFirstRead{Repository: e.deps.Repo, db: e.db, to: bia.ID, locker: newHeldLocker()}

	// 10:00 + 60 min invade 10:30 na agenda da Bia
	_, err = NewUpdateAppointment(deps).Execute(context.Background(), UpdateAppointmentInput{
		AppointmentID: ap.ID,
		Services:      []ServiceInput{{ServiceID: e.cut.ID}},
	})
	assert.Equal(t, httperr.KindSlotConflict, kindOf(err))
}

// ======================================================
// Cancel
// ======================================================

func TestCancelFreesSlot(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.cut.ID)
	uc := NewCancelAppointment(e.deps)

	cancelled, err := uc.Execute(context.Background(), nil, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelado", cancelled.Status)

	e.create(t, "10:00", e.cut.ID)

	_, err = uc.Execute(context.Background(), nil, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	// cancelado não pode ser editado
	_, err = NewMoveAppointment(e.deps).Execute(context.Background(), MoveAppointmentInput{
		AppointmentID: ap.ID, ProfessionalID: e.prof.ID, Time: "15:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

// ======================================================
// Finalize
// ======================================================

func TestFinalizeWritesFinancialFields(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.cut.ID)
	uc := NewFinalizeAppointment(e.deps)
	in := FinalizeAppointmentInput{
		AppointmentID:   ap.ID.String(),
		PaymentMethodID: e.card.ID.String(),
	}

	done, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "finalizado", done.Status)
	require.Len(t, done.Services, 1)

	line := done.Services[0]
	require.NotNil(t, line.PaymentMethodID)
	assert.Equal(t, e.card.ID, *line.PaymentMethodID)
	assert.InDelta(t, 3.5, *line.PaymentFee, 0.001)
	assert.InDelta(t, 100, *line.NetServiceValue, 0.001)
	assert.InDelta(t, 56.5, *line.SalonProfit, 0.001)
	assert.InDelta(t, 40, *line.CommissionRate, 0.001)

	_, err = uc.Execute(context.Background(), in)
	assert.Equal(t, httperr.KindFinalization, kindOf(err))
	assert.True(t, httperr.IsBusiness(err, "already_finalized"))
}

func TestFinalizeRejectsMalformedIdentifiers(t *testing.T) {
	e := newEnv(t)

	_, err := NewFinalizeAppointment(e.deps).Execute(context.Background(), FinalizeAppointmentInput{
		AppointmentID:   "42",
		PaymentMethodID: e.card.ID.String(),
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_identifier"))
}

func TestFinalizeRejectsInactivePaymentMethod(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.cut.ID)
	require.NoError(t, e.db.Model(&e.card).Update("active", false).Error)

	_, err := NewFinalizeAppointment(e.deps).Execute(context.Background(), FinalizeAppointmentInput{
		AppointmentID:   ap.ID.String(),
		PaymentMethodID: e.card.ID.String(),
	})
	assert.True(t, httperr.IsBusiness(err, "payment_method_inactive"))
}

type noopFinalizer struct{}

func (noopFinalizer) Finalize(context.Context, uuid.UUID, uuid.UUID, bool) error { return nil }

func TestFinalizeChecksStoredResult(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.cut.ID)
	deps := e.deps
	deps.Finalizer = noopFinalizer{}

	_, err := NewFinalizeAppointment(deps).Execute(context.Background(), FinalizeAppointmentInput{
		AppointmentID:   ap.ID.String(),
		PaymentMethodID: e.card.ID.String(),
	})
	assert.True(t, httperr.IsBusiness(err, "postcondition_failed"))
}

// ======================================================
// Listing / session
// ======================================================

func TestListByDateSkipsCancelled(t *testing.T) {
	e := newEnv(t)
	e.create(t, "09:00", e.color.ID)
	gone := e.create(t, "10:00", e.cut.ID)
	_, err := NewCancelAppointment(e.deps).Execute(context.Background(), nil, gone.ID)
	require.NoError(t, err)

	list, err := NewListAppointmentsByDate(e.deps).Execute(context.Background(), day, &e.prof.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "09:00", list[0].StartTime)
	assert.Equal(t, "09:30", list[0].EndTime)

	month, err := NewListAppointmentsByMonth(e.deps).Execute(context.Background(), "2025-03", nil)
	require.NoError(t, err)
	assert.Len(t, month, 1)

	_, err = NewListAppointmentsByMonth(e.deps).Execute(context.Background(), "2025-13", nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))
}

func TestSessionSubmitterEditsExistingAppointment(t *testing.T) {
	e := newEnv(t)
	ap := e.create(t, "10:00", e.color.ID)
	sub := NewSessionSubmitter(NewCreateAppointment(e.deps), NewUpdateAppointment(e.deps))

	updated, err := sub.Submit(context.Background(), session.Draft{
		AppointmentID:  &ap.ID,
		ProfessionalID: &e.prof.ID,
		Date:           day,
		Time:           "16:00",
		Selections:     []domain.ServiceSelection{{ServiceID: e.cut.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, ap.ID, updated.ID)
	assert.Equal(t, "16:00", updated.Time)
	assert.Equal(t, int64(1), e.count(t))

	created, err := sub.Submit(context.Background(), session.Draft{
		ProfessionalID: &e.prof.ID,
		Date:           day,
		Time:           "10:00",
		Selections:     []domain.ServiceSelection{{ServiceID: e.cut.ID}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, ap.ID, created.ID)
}
