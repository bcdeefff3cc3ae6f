package branch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchValidate(t *testing.T) {
	ctx := context.Background()

	b := New("Merkez", "Atatürk Cad. 12")
	require.NoError(t, b.Validate(ctx))

	b = New("  ", "")
	assert.Error(t, b.Validate(ctx))

	// Notifications need a destination channel.
	b = New("Merkez", "")
	b.NotifyEnabled = true
	assert.Error(t, b.Validate(ctx))

	chatID := "-1001234567890"
	b.ChatID = &chatID
	assert.NoError(t, b.Validate(ctx))

	empty := "  "
	b.ChatID = &empty
	assert.Error(t, b.Validate(ctx))
}

func TestNewTrimsFields(t *testing.T) {
	b := New("  Lara  ", "  Sahil Yolu 45 ")

	assert.Equal(t, "Lara", b.Name)
	assert.Equal(t, "Sahil Yolu 45", b.Address)
	assert.False(t, b.ID.String() == "00000000-0000-0000-0000-000000000000")
}
