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
)

func validReservation() *Reservation {
	return &Reservation{
		Base:          entity.NewBase(),
		CustomerName:  "Ali Vural",
		CustomerPhone: "+90 533 200 0001",
		NumPeople:     4,
		TotalPrice:    types.MustMoney("1200.00"),
		AdvancePct:    types.MustMoney("30"),
		PaymentType:   PaymentCash,
		PaymentStatus: StatusPending,
		BranchID:      id.New(),
		StaffID:       id.New(),
		Date:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Time:          types.TimeSlot("19:00"),
	}
}

func TestReservationValidate(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, validReservation().Validate(ctx))

	tests := []struct {
		name   string
		mutate func(r *Reservation)
	}{
		{"empty customer name", func(r *Reservation) { r.CustomerName = "  " }},
		{"empty phone", func(r *Reservation) { r.CustomerPhone = "" }},
		{"zero people", func(r *Reservation) { r.NumPeople = 0 }},
		{"negative people", func(r *Reservation) { r.NumPeople = -2 }},
		{"negative price", func(r *Reservation) { r.TotalPrice = types.MustMoney("-1") }},
		{"advance above 100", func(r *Reservation) { r.AdvancePct = types.MustMoney("101") }},
		{"negative advance", func(r *Reservation) { r.AdvancePct = types.MustMoney("-5") }},
		{"unknown payment type", func(r *Reservation) { r.PaymentType = "CHECK" }},
		{"unknown payment status", func(r *Reservation) { r.PaymentStatus = "PARTIAL" }},
		{"nil branch", func(r *Reservation) { r.BranchID = id.Nil() }},
		{"nil staff", func(r *Reservation) { r.StaffID = id.Nil() }},
		{"zero date", func(r *Reservation) { r.Date = time.Time{} }},
		{"empty time", func(r *Reservation) { r.Time = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReservation()
			tt.mutate(r)

			err := r.Validate(ctx)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestAdvanceAmounts(t *testing.T) {
	r := validReservation()

	assert.True(t, r.AdvanceAmount().Equal(types.MustMoney("360")),
		"30%% of 1200 should be 360, got %s", r.AdvanceAmount())
	assert.True(t, r.RemainingAmount().Equal(types.MustMoney("840")))

	r.AdvancePct = types.Zero()
	assert.True(t, r.AdvanceAmount().IsZero())
	assert.True(t, r.RemainingAmount().Equal(r.TotalPrice))

	r.AdvancePct = types.MustMoney("100")
	assert.True(t, r.AdvanceAmount().Equal(r.TotalPrice))
	assert.True(t, r.RemainingAmount().IsZero())
}

func TestMarkCanceledKeepsAdvance(t *testing.T) {
	r := validReservation()

	require.NoError(t, r.MarkCanceled(false))

	assert.True(t, r.IsCanceled)
	require.NotNil(t, r.CancelType)
	assert.Equal(t, CancelNormal, *r.CancelType)
	require.NotNil(t, r.CancelRevenue)
	assert.True(t, r.CancelRevenue.Equal(types.MustMoney("360")),
		"normal cancel retains the advance")
}

func TestMarkCanceledWithRefund(t *testing.T) {
	r := validReservation()

	require.NoError(t, r.MarkCanceled(true))

	assert.True(t, r.IsCanceled)
	require.NotNil(t, r.CancelType)
	assert.Equal(t, CancelRefund, *r.CancelType)
	require.NotNil(t, r.CancelRevenue)
	assert.True(t, r.CancelRevenue.IsZero(), "refund cancel retains nothing")
}

func TestMarkCanceledTwiceRejected(t *testing.T) {
	r := validReservation()
	require.NoError(t, r.MarkCanceled(false))

	err := r.MarkCanceled(true)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReservationCanceled, appErr.Code)

	// First cancellation's revenue must survive the rejected second call.
	assert.Equal(t, CancelNormal, *r.CancelType)
	assert.True(t, r.CancelRevenue.Equal(types.MustMoney("360")))
}
