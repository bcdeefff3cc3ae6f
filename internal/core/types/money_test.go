package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	assert.True(t, Percent(MustMoney("1200"), MustMoney("30")).Equal(MustMoney("360")))
	assert.True(t, Percent(MustMoney("1200"), Zero()).IsZero())
	assert.True(t, Percent(MustMoney("1200"), MustMoney("100")).Equal(MustMoney("1200")))

	// Decimal arithmetic, no float drift.
	assert.True(t, Percent(MustMoney("0.30"), MustMoney("10")).Equal(MustMoney("0.03")))
}

func TestRatio(t *testing.T) {
	assert.True(t, Ratio(MustMoney("250"), MustMoney("1000")).Equal(MustMoney("25")))
	assert.True(t, Ratio(MustMoney("1"), MustMoney("3")).Equal(MustMoney("33.33")))
	assert.True(t, Ratio(MustMoney("10"), Zero()).IsZero(), "zero total yields zero share")
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("1234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", m.StringFixed(2))

	_, err = NewMoneyFromString("not money")
	assert.Error(t, err)
}
