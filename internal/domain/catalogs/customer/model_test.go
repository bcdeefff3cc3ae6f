package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerValidate(t *testing.T) {
	ctx := context.Background()

	c := New("Ali Vural", "+90 533 200 0001")
	require.NoError(t, c.Validate(ctx))

	c = New("", "+90 533 200 0001")
	assert.Error(t, c.Validate(ctx))

	c = New("Ali Vural", "abc")
	assert.Error(t, c.Validate(ctx))

	c = New("Ali Vural", "+90 533 200 0001")
	bad := "not-an-email"
	c.Email = &bad
	assert.Error(t, c.Validate(ctx))

	good := "ali@example.com"
	c.Email = &good
	assert.NoError(t, c.Validate(ctx))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "xxxx-0001", MaskPhone("+90 533 200 0001"))
	assert.Equal(t, "xxxx-123", MaskPhone("123"))
	assert.Equal(t, "xxxx-", MaskPhone("no digits"))
}

func TestAnonymize(t *testing.T) {
	ctx := context.Background()

	c := New("Ali Vural", "+90 533 200 0001")
	email := "ali@example.com"
	notes := "VIP, window table"
	c.Email = &email
	c.Notes = &notes

	c.Anonymize()

	assert.Equal(t, AnonymizedName, c.Name)
	assert.Equal(t, "xxxx-0001", c.Phone)
	assert.Nil(t, c.Email)
	require.NotNil(t, c.Notes)
	assert.Equal(t, AnonymizedNotes, *c.Notes)
	assert.True(t, c.Anonymized)

	// Scrubbed rows must still pass validation so updates can persist.
	assert.NoError(t, c.Validate(ctx))
}
