package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezerve/internal/core/types"
)

func TestEventOutboxPayload(t *testing.T) {
	e := sampleEvent(EventReservationCreated)

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "withRefund", "cancellation fields omitted for created events")
	assert.NotContains(t, string(raw), "retainedAmount")

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, e.Kind, decoded.Kind)
	assert.Equal(t, e.ReservationID, decoded.ReservationID)
	assert.Equal(t, e.ChatID, decoded.ChatID)
	assert.True(t, decoded.AdvanceAmount.Equal(e.AdvanceAmount), "amounts survive as emitted")
	assert.Nil(t, decoded.WithRefund)
}

func TestEventOutboxPayloadCancellation(t *testing.T) {
	e := sampleEvent(EventReservationCanceled)
	refund := false
	retained := types.MustMoney("360")
	e.WithRefund = &refund
	e.RetainedAmount = &retained

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.WithRefund)
	assert.False(t, *decoded.WithRefund)
	require.NotNil(t, decoded.RetainedAmount)
	assert.True(t, decoded.RetainedAmount.Equal(retained))
}
