package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rezerve/internal/core/entity"
	"rezerve/internal/core/id"
)

type mockCatalog struct {
	entity.Base
	Name    string  `db:"name" json:"name"`
	Phone   string  `db:"phone" json:"phone"`
	Skipped string  `db:"-" json:"-"`
	NoTag   string  `json:"noTag"`
	Email   *string `db:"email" json:"email,omitempty"`
}

func TestExtractDBColumns_EmbeddedBase(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{"id", "created_at", "updated_at", "name", "phone", "email"}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expectedCols))
}

func TestStructToMap_EmbeddedBase(t *testing.T) {
	now := time.Now().UTC()
	email := "front@desk.example"
	cat := mockCatalog{
		Base: entity.Base{
			ID:        id.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:    "Downtown",
		Phone:   "+90 555 000 0000",
		Skipped: "ignored",
		NoTag:   "ignored",
		Email:   &email,
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "Downtown", m["name"])
	assert.Equal(t, "+90 555 000 0000", m["phone"])
	assert.Equal(t, &email, m["email"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 6)
}

func TestStructToMap_PointerInput(t *testing.T) {
	cat := &mockCatalog{Name: "Marina"}

	m := StructToMap(cat)

	assert.Equal(t, "Marina", m["name"])
}
