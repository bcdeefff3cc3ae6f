package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezerve/internal/domain/catalogs/customer"
)

func TestUpsertByPhoneQuery(t *testing.T) {
	repo := NewCustomerRepo(nil)
	c := customer.New("Ali Vural", "+90 533 200 0001")

	sql, args, err := repo.upsertByPhoneQuery(c)
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO customers")
	assert.Contains(t, sql, "ON CONFLICT (phone) DO NOTHING",
		"a lost phone race must not abort the booking transaction")
	assert.Contains(t, sql, "RETURNING id")
	assert.NotContains(t, sql, "SELECT 1", "single statement, no existence pre-check")

	assert.Contains(t, args, "Ali Vural")
	assert.Contains(t, args, "+90 533 200 0001")
}
