package branch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain"
	"rezerve/internal/domain/audit"
)

type fakeBranchRepo struct {
	byID map[id.ID]*Branch
}

func newFakeBranchRepo(branches ...*Branch) *fakeBranchRepo {
	r := &fakeBranchRepo{byID: make(map[id.ID]*Branch)}
	for _, b := range branches {
		r.byID[b.ID] = b
	}
	return r
}

func (r *fakeBranchRepo) Create(_ context.Context, b *Branch) error {
	r.byID[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) GetByID(_ context.Context, branchID id.ID) (*Branch, error) {
	b, ok := r.byID[branchID]
	if !ok {
		return nil, apperror.NewNotFound("Branch", branchID.String())
	}
	return b, nil
}

func (r *fakeBranchRepo) Update(_ context.Context, b *Branch) error {
	r.byID[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) Delete(_ context.Context, branchID id.ID) error {
	delete(r.byID, branchID)
	return nil
}

func (r *fakeBranchRepo) List(context.Context, domain.ListFilter) (domain.ListResult[*Branch], error) {
	return domain.ListResult[*Branch]{}, nil
}

func (r *fakeBranchRepo) Exists(_ context.Context, branchID id.ID) (bool, error) {
	_, ok := r.byID[branchID]
	return ok, nil
}

func (r *fakeBranchRepo) FindOne(context.Context, map[string]any) (*Branch, error) {
	return nil, apperror.NewNotFound("Branch", "")
}

type fakeBranchTx struct{}

func (fakeBranchTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReservationCounter struct{ count int }

func (f *fakeReservationCounter) CountByBranch(context.Context, id.ID) (int, error) {
	return f.count, nil
}

type fakeStaffStore struct {
	removed  int
	calledOn []id.ID
}

func (f *fakeStaffStore) DeleteByBranch(_ context.Context, branchID id.ID) (int, error) {
	f.calledOn = append(f.calledOn, branchID)
	return f.removed, nil
}

type recordingAuditRepo struct{ entries []audit.Entry }

func (r *recordingAuditRepo) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAuditRepo) List(context.Context, audit.Filter) ([]audit.Entry, int, error) {
	return r.entries, len(r.entries), nil
}

func TestDeleteRemovesStaffWithBranch(t *testing.T) {
	b := New("Merkez", "Atatürk Cad. 1")
	repo := newFakeBranchRepo(b)
	staffRows := &fakeStaffStore{removed: 3}
	auditRepo := &recordingAuditRepo{}

	svc := NewService(repo, fakeBranchTx{}, &fakeReservationCounter{}, staffRows,
		audit.NewService(auditRepo))

	require.NoError(t, svc.Delete(context.Background(), b.ID))

	require.Len(t, staffRows.calledOn, 1)
	assert.Equal(t, b.ID, staffRows.calledOn[0])
	assert.Empty(t, repo.byID)

	require.NotEmpty(t, auditRepo.entries)
	assert.Contains(t, auditRepo.entries[0].Details, "3 staff removed")
}

func TestDeleteBlockedWhileReservationsExist(t *testing.T) {
	b := New("Merkez", "Atatürk Cad. 1")
	repo := newFakeBranchRepo(b)
	staffRows := &fakeStaffStore{removed: 2}

	svc := NewService(repo, fakeBranchTx{}, &fakeReservationCounter{count: 5}, staffRows,
		audit.NewService(&recordingAuditRepo{}))

	err := svc.Delete(context.Background(), b.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBranchInUse, appErr.Code)

	assert.Empty(t, staffRows.calledOn, "reservation guard runs before staff cleanup")
	assert.Contains(t, repo.byID, b.ID)
}
