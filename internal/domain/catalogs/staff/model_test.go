package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezerve/internal/core/id"
)

func TestStaffValidate(t *testing.T) {
	ctx := context.Background()
	branchID := id.New()

	t.Run("valid", func(t *testing.T) {
		s := New("Ayşe Yılmaz", "0555 111 22 33", branchID)
		require.NoError(t, s.Validate(ctx))
	})

	t.Run("blank name", func(t *testing.T) {
		s := New("   ", "", branchID)
		assert.Error(t, s.Validate(ctx))
	})

	t.Run("missing branch", func(t *testing.T) {
		s := New("Ayşe Yılmaz", "", id.Nil())
		assert.Error(t, s.Validate(ctx))
	})

	t.Run("phone optional", func(t *testing.T) {
		s := New("Ayşe Yılmaz", "", branchID)
		assert.NoError(t, s.Validate(ctx))
	})

	t.Run("phone formats", func(t *testing.T) {
		for _, phone := range []string{"+90 555 111 2233", "(0216) 444-5566", "05551112233"} {
			s := New("Ayşe Yılmaz", phone, branchID)
			assert.NoError(t, s.Validate(ctx), phone)
		}
		for _, phone := range []string{"12345", "phone", "0555#111"} {
			s := New("Ayşe Yılmaz", phone, branchID)
			assert.Error(t, s.Validate(ctx), phone)
		}
	})
}

func TestNewTrims(t *testing.T) {
	s := New("  Ayşe  ", " 0555 111 22 33 ", id.New())
	assert.Equal(t, "Ayşe", s.Name)
	assert.Equal(t, "0555 111 22 33", s.Phone)
	assert.False(t, id.IsNil(s.ID))
}
