package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Royal Enfield":       "royal-enfield",
		"  Bajaj  Auto  ":     "bajaj-auto",
		"Brake Pads (Front)!": "brake-pads-front",
		"Already-a-slug":      "already-a-slug",
		"ÉLAN 2024":           "lan-2024",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), in)
	}
	assert.True(t, IsValidSlug("royal-enfield"))
	assert.False(t, IsValidSlug("Royal Enfield"))
	assert.False(t, IsValidSlug("-leading"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.13, Round2(10.125))
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, -1.01, Round2(-1.005))
}

func TestAsAppError(t *testing.T) {
	assert.Nil(t, AsAppError(nil))

	conflict := NewConflictError("brand already exists")
	assert.Same(t, conflict, AsAppError(conflict))

	internal := AsAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternal, internal.Code)
	assert.Equal(t, ErrInternalServer, internal.Message)

	assert.True(t, IsNotFound(NewNotFoundError("brand")))
	assert.False(t, IsNotFound(conflict))
}

func TestNewPaginationParams_Clamps(t *testing.T) {
	p := NewPaginationParams(0, 1000, "created_at; drop", "sideways", "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, "created_at", p.Sort)
	assert.Equal(t, "desc", p.Order)

	meta := CreatePaginationMeta(NewPaginationParams(2, 10, "name", "asc", ""), 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
	assert.Equal(t, 3, *meta.NextPage)
}
