package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	a := &Account{
		User:         models.User{ID: "u1", Email: "A@Example.com", Permissions: []string{"x"}},
		PasswordHash: []byte("hash"),
	}
	_, err := r.Create(ctx, a)
	require.NoError(t, err)

	_, err = r.Create(ctx, &Account{User: models.User{ID: "u2", Email: "a@example.COM"}})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.GetByEmail(ctx, " a@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got.Permissions[0] = "mutated"
	again, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, again.Permissions, "returned accounts are copies")

	again.FirstName = "Ann"
	require.NoError(t, r.Update(ctx, again))
	got, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.Update(ctx, &Account{User: models.User{ID: "missing"}}), common.ErrorNotFound)
}
