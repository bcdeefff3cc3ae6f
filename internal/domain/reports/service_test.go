package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rezerve/internal/core/types"
)

func TestCompose(t *testing.T) {
	raw := RawAggregate{
		ActiveCount:     4,
		CanceledCount:   2,
		TotalGuests:     14,
		ActiveRevenue:   types.MustMoney("4800.00"),
		CanceledRevenue: types.MustMoney("360.00"),
	}

	res := compose(raw)

	assert.Equal(t, 4, res.ActiveCount)
	assert.Equal(t, 2, res.CanceledCount)
	assert.Equal(t, 6, res.ReservationCount)
	assert.Equal(t, 14, res.TotalGuests)
	assert.True(t, res.TotalRevenue.Equal(types.MustMoney("5160.00")),
		"total revenue adds retained cancellation advances")
	assert.True(t, res.AvgPrice.Equal(types.MustMoney("1200.00")))
	assert.True(t, res.AvgGuests.Equal(types.MustMoney("3.5")))
}

func TestComposeEmpty(t *testing.T) {
	res := compose(RawAggregate{
		ActiveRevenue:   types.Zero(),
		CanceledRevenue: types.Zero(),
	})

	assert.Equal(t, 0, res.ReservationCount)
	assert.True(t, res.AvgPrice.IsZero(), "averages stay zero without active rows")
	assert.True(t, res.AvgGuests.IsZero())
	assert.True(t, res.TotalRevenue.IsZero())
}

func TestComposeCancellationsOnly(t *testing.T) {
	res := compose(RawAggregate{
		CanceledCount:   3,
		ActiveRevenue:   types.Zero(),
		CanceledRevenue: types.MustMoney("540.00"),
	})

	assert.Equal(t, 3, res.ReservationCount)
	assert.True(t, res.TotalRevenue.Equal(types.MustMoney("540.00")))
	assert.True(t, res.AvgPrice.IsZero())
}
