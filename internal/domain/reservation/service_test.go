package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/entity"
	"rezerve/internal/core/id"
	"rezerve/internal/core/types"
	"rezerve/internal/domain/audit"
	"rezerve/internal/domain/catalogs/branch"
	"rezerve/internal/domain/catalogs/customer"
	"rezerve/internal/domain/catalogs/staff"
	"rezerve/internal/domain/notify"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	byID map[id.ID]*Reservation

	// afterGet simulates a concurrent writer committing between the
	// service's read and its write.
	afterGet func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[id.ID]*Reservation)}
}

func (f *fakeRepo) Create(_ context.Context, r *Reservation) error {
	clone := *r
	f.byID[r.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, reservationID id.ID) (*Reservation, error) {
	r, ok := f.byID[reservationID]
	if !ok {
		return nil, apperror.NewNotFound("Reservation", reservationID.String())
	}
	clone := *r
	if f.afterGet != nil {
		f.afterGet()
	}
	return &clone, nil
}

// Update mirrors the store's conditional write: a canceled row is never
// overwritten.
func (f *fakeRepo) Update(_ context.Context, r *Reservation) error {
	stored, ok := f.byID[r.ID]
	if !ok {
		return apperror.NewNotFound("Reservation", r.ID.String())
	}
	if stored.IsCanceled {
		return apperror.NewReservationCanceled(r.ID.String())
	}
	clone := *r
	f.byID[r.ID] = &clone
	return nil
}

func (f *fakeRepo) List(context.Context, Filter) ([]*Reservation, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) ListUpcoming(context.Context, id.ID, time.Time, int) ([]*Reservation, error) {
	return nil, nil
}

func (f *fakeRepo) CountByBranch(context.Context, id.ID) (int, error) { return 0, nil }
func (f *fakeRepo) CountByStaff(context.Context, id.ID) (int, error)  { return 0, nil }
func (f *fakeRepo) ListIDsByCustomer(context.Context, id.ID) ([]id.ID, error) {
	return nil, nil
}
func (f *fakeRepo) DeleteByCustomer(context.Context, id.ID) (int, error)  { return 0, nil }
func (f *fakeRepo) UnlinkCustomer(context.Context, id.ID) (int, error)    { return 0, nil }
func (f *fakeRepo) ScrubCustomerPII(context.Context, id.ID, string, string) (int, error) {
	return 0, nil
}

type fakeCustomers struct {
	created bool
	last    *customer.Customer
}

func (f *fakeCustomers) Resolve(_ context.Context, name, phone string) (*customer.Customer, bool, error) {
	c := &customer.Customer{Base: entity.NewBase(), Name: name, Phone: phone}
	f.last = c
	return c, f.created, nil
}

type fakeBranches struct{ b *branch.Branch }

func (f *fakeBranches) GetByID(_ context.Context, branchID id.ID) (*branch.Branch, error) {
	if f.b == nil || f.b.ID != branchID {
		return nil, apperror.NewNotFound("Branch", branchID.String())
	}
	return f.b, nil
}

type fakeStaffGetter struct{ st *staff.Staff }

func (f *fakeStaffGetter) GetByID(_ context.Context, staffID id.ID) (*staff.Staff, error) {
	if f.st == nil || f.st.ID != staffID {
		return nil, apperror.NewNotFound("Staff", staffID.String())
	}
	return f.st, nil
}

type fakeAuditRepo struct{ entries []audit.Entry }

func (f *fakeAuditRepo) Record(_ context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(context.Context, audit.Filter) ([]audit.Entry, int, error) {
	return f.entries, len(f.entries), nil
}

type fakePublisher struct{ events []notify.Event }

func (f *fakePublisher) Publish(_ context.Context, event notify.Event) error {
	f.events = append(f.events, event)
	return nil
}

type serviceFixture struct {
	svc       *Service
	repo      *fakeRepo
	customers *fakeCustomers
	auditRepo *fakeAuditRepo
	publisher *fakePublisher
	branch    *branch.Branch
	staff     *staff.Staff
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	b := branch.New("Merkez", "Atatürk Cad. 1")
	chatID := "-100200300"
	b.ChatID = &chatID
	b.NotifyEnabled = true
	st := staff.New("Ayşe Yılmaz", "0555-111-2233", b.ID)

	f := &serviceFixture{
		repo:      newFakeRepo(),
		customers: &fakeCustomers{},
		auditRepo: &fakeAuditRepo{},
		publisher: &fakePublisher{},
		branch:    b,
		staff:     st,
	}
	f.svc = NewService(
		f.repo,
		f.customers,
		&fakeBranches{b: b},
		&fakeStaffGetter{st: st},
		fakeTxManager{},
		audit.NewService(f.auditRepo),
		f.publisher,
	)
	return f
}

func (f *serviceFixture) createInput() CreateInput {
	return CreateInput{
		CustomerName:  "Mehmet Demir",
		CustomerPhone: "0532-444-5566",
		NumPeople:     4,
		TotalPrice:    types.MustMoney("1200"),
		AdvancePct:    types.MustMoney("30"),
		PaymentType:   PaymentCash,
		PaymentStatus: StatusPending,
		BranchID:      f.branch.ID,
		StaffID:       f.staff.ID,
		Date:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Time:          types.TimeSlot("19:30"),
	}
}

func TestCreateLinksCustomerAndPublishes(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.createInput())
	require.NoError(t, err)

	require.NotNil(t, r.CustomerID)
	assert.Equal(t, f.customers.last.ID, *r.CustomerID)

	stored, err := f.repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mehmet Demir", stored.CustomerName)
	assert.False(t, stored.IsCanceled)

	require.Len(t, f.publisher.events, 1)
	e := f.publisher.events[0]
	assert.Equal(t, notify.EventReservationCreated, e.Kind)
	assert.Equal(t, "-100200300", e.ChatID)
	assert.Equal(t, "Merkez", e.BranchName)
	assert.Equal(t, "Ayşe Yılmaz", e.StaffName)
	assert.True(t, e.AdvanceAmount.Equal(types.MustMoney("360")))
	assert.True(t, e.Remaining.Equal(types.MustMoney("840")))

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, audit.ActionCreate, f.auditRepo.entries[0].Action)
	assert.Equal(t, audit.LogTypeReservation, f.auditRepo.entries[0].LogType)
}

func TestCreateAuditsNewCustomer(t *testing.T) {
	f := newServiceFixture(t)
	f.customers.created = true

	_, err := f.svc.Create(context.Background(), f.createInput())
	require.NoError(t, err)

	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, audit.LogTypeCustomer, f.auditRepo.entries[0].LogType)
	assert.Equal(t, audit.LogTypeReservation, f.auditRepo.entries[1].LogType)
}

func TestCreateRejectsStaffFromAnotherBranch(t *testing.T) {
	f := newServiceFixture(t)
	f.staff.BranchID = id.New()

	_, err := f.svc.Create(context.Background(), f.createInput())
	require.Error(t, err)
	assertCode(t, err, apperror.CodeStaffBranchMismatch)
	assert.Empty(t, f.publisher.events)
	assert.Empty(t, f.repo.byID)
}

func TestCreateInvalidInput(t *testing.T) {
	f := newServiceFixture(t)
	in := f.createInput()
	in.NumPeople = 0

	_, err := f.svc.Create(context.Background(), in)
	require.Error(t, err)
	assertCode(t, err, apperror.CodeValidation)
}

func TestUpdateRejectsCanceled(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.createInput())
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, r.ID, false, "admin")
	require.NoError(t, err)

	people := 6
	_, err = f.svc.Update(ctx, r.ID, UpdateInput{NumPeople: &people})
	require.Error(t, err)
	assertCode(t, err, apperror.CodeReservationCanceled)
}

func TestUpdateMovesSlotOnlyWithBothHalves(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.createInput())
	require.NoError(t, err)

	newDate := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.Update(ctx, r.ID, UpdateInput{Date: &newDate})
	require.NoError(t, err)
	assert.Equal(t, r.Date, updated.Date, "date alone does not move the slot")

	newTime := types.TimeSlot("20:00")
	updated, err = f.svc.Update(ctx, r.ID, UpdateInput{Date: &newDate, Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, newDate, updated.Date)
	assert.Equal(t, newTime, updated.Time)
}

func TestCancelKeepsAdvanceAndPublishes(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.createInput())
	require.NoError(t, err)

	canceled, err := f.svc.Cancel(ctx, r.ID, false, "admin")
	require.NoError(t, err)
	assert.True(t, canceled.IsCanceled)
	require.NotNil(t, canceled.CancelRevenue)
	assert.True(t, canceled.CancelRevenue.Equal(types.MustMoney("360")))

	require.Len(t, f.publisher.events, 2)
	e := f.publisher.events[1]
	assert.Equal(t, notify.EventReservationCanceled, e.Kind)
	require.NotNil(t, e.WithRefund)
	assert.False(t, *e.WithRefund)
	require.NotNil(t, e.RetainedAmount)
	assert.True(t, e.RetainedAmount.Equal(types.MustMoney("360")))
}

func TestCancelWithRefund(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.createInput())
	require.NoError(t, err)

	canceled, err := f.svc.Cancel(ctx, r.ID, true, "admin")
	require.NoError(t, err)
	require.NotNil(t, canceled.CancelRevenue)
	assert.True(t, canceled.CancelRevenue.IsZero())

	e := f.publisher.events[1]
	require.NotNil(t, e.WithRefund)
	assert.True(t, *e.WithRefund)
}

func TestCancelTwiceRejected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.createInput())
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, r.ID, false, "admin")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, r.ID, true, "admin")
	require.Error(t, err)
	assertCode(t, err, apperror.CodeReservationCanceled)

	stored, err := f.repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, stored.CancelRevenue.Equal(types.MustMoney("360")), "first cancel's revenue survives")
}

func TestCancelLostRaceRejected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.createInput())
	require.NoError(t, err)

	// Another caller commits a normal cancel right after this one reads.
	f.repo.afterGet = func() {
		f.repo.afterGet = nil
		require.NoError(t, f.repo.byID[r.ID].MarkCanceled(false))
	}

	_, err = f.svc.Cancel(ctx, r.ID, true, "bot")
	require.Error(t, err)
	assertCode(t, err, apperror.CodeReservationCanceled)

	stored, err := f.repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelNormal, *stored.CancelType)
	assert.True(t, stored.CancelRevenue.Equal(types.MustMoney("360")),
		"the committed cancel keeps its revenue")
}

func TestUpdateLostRaceRejected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.createInput())
	require.NoError(t, err)

	f.repo.afterGet = func() {
		f.repo.afterGet = nil
		require.NoError(t, f.repo.byID[r.ID].MarkCanceled(false))
	}

	people := 6
	_, err = f.svc.Update(ctx, r.ID, UpdateInput{NumPeople: &people})
	require.Error(t, err)
	assertCode(t, err, apperror.CodeReservationCanceled)

	stored, err := f.repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCanceled, "the committed cancel is never reverted")
}

func TestCancelNotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Cancel(context.Background(), id.New(), false, "admin")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
