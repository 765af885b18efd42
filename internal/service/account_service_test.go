package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/repository"
	"github.com/qs3c/alloc_server/internal/testutil"
)

func TestAccountService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAccountService(repository.NewStores(db))
	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	staff := testutil.TestUser(t, db, testutil.WithStaff())

	item, err := svc.Create(owner.ID, &dto.CreateAccountRequest{Name: "acct1"})
	require.NoError(t, err)
	assert.Equal(t, "acct1", item.Name)

	_, err = svc.Create(other.ID, &dto.CreateAccountRequest{Name: "acct1"})
	assert.ErrorIs(t, err, ErrAccountExists)

	second, err := svc.Create(owner.ID, &dto.CreateAccountRequest{Name: "acct2"})
	require.NoError(t, err)

	items, err := svc.ListByUser(owner.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	assert.ErrorIs(t, svc.Delete(other.ID, item.ID), ErrPermissionDenied)
	require.NoError(t, svc.Delete(owner.ID, item.ID))
	require.NoError(t, svc.Delete(staff.ID, second.ID))
	assert.ErrorIs(t, svc.Delete(owner.ID, item.ID), ErrAccountNotFound)

	items, err = svc.ListByUser(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
