package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezerve/internal/core/id"
)

func TestEntryValidate(t *testing.T) {
	ctx := context.Background()

	e := NewEntry(LogTypeReservation, ActionCreate, "reservation created")
	require.NoError(t, e.Validate(ctx))

	e = NewEntry("PAYMENTS", ActionCreate, "x")
	assert.Error(t, e.Validate(ctx))

	e = NewEntry(LogTypeSystem, "TOUCH", "x")
	assert.Error(t, e.Validate(ctx))

	e = NewEntry(LogTypeSystem, ActionInit, "")
	assert.Error(t, e.Validate(ctx))
}

func TestEntryScoping(t *testing.T) {
	branchID := id.New()
	userID := id.New()

	e := NewEntry(LogTypeCustomer, ActionClear, "pii cleared").
		WithBranch(branchID).
		WithUser(userID)

	require.NotNil(t, e.BranchID)
	assert.Equal(t, branchID, *e.BranchID)
	require.NotNil(t, e.UserID)
	assert.Equal(t, userID, *e.UserID)

	// The builders copy; the original stays unscoped.
	plain := NewEntry(LogTypeCustomer, ActionClear, "pii cleared")
	_ = plain.WithBranch(branchID)
	assert.Nil(t, plain.BranchID)
}
