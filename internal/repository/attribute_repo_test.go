package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/testutil"
)

func setupSubscription(t *testing.T, db *gorm.DB) *model.Subscription {
	t.Helper()
	pi := testutil.TestUser(t, db)
	project := testutil.TestProject(t, db, pi.ID)
	return testutil.TestSubscription(t, db, project.ID, model.StatusActive)
}

func TestAttributeRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAttributeRepository(db)
	sub := setupSubscription(t, db)
	attrType := testutil.TestAttributeType(t, db, "Storage Quota (GB)", model.AttributeKindInt, testutil.WithUsage())

	attr := &model.SubscriptionAttribute{
		SubscriptionAttributeTypeID: attrType.ID,
		SubscriptionID:              sub.ID,
		Value:                       "100",
	}
	require.NoError(t, repo.Create(attr))
	require.NoError(t, repo.CreateUsage(&model.SubscriptionAttributeUsage{SubscriptionAttributeID: attr.ID}))

	found, err := repo.GetByID(attr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Storage Quota (GB)", found.TypeName())
	assert.Equal(t, model.AttributeKindInt, found.Type.Kind())
	require.NotNil(t, found.Usage)
	assert.Equal(t, 0.0, found.Usage.Value)
}

func TestAttributeRepository_CreateUsage_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAttributeRepository(db)
	sub := setupSubscription(t, db)
	attrType := testutil.TestAttributeType(t, db, "Core Usage (Hours)", model.AttributeKindFloat, testutil.WithUsage())
	attr := testutil.TestAttribute(t, db, sub.ID, attrType, "1000")

	attr.Usage.Value = 12
	require.NoError(t, repo.SaveUsage(attr.Usage))
	require.NoError(t, repo.CreateUsage(&model.SubscriptionAttributeUsage{SubscriptionAttributeID: attr.ID}))

	usage, err := repo.GetUsage(attr.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, usage.Value)
}

func TestAttributeRepository_CountOfType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAttributeRepository(db)
	sub := setupSubscription(t, db)
	other := setupSubscription(t, db)
	attrType := testutil.TestAttributeType(t, db, "slurm_account_name", model.AttributeKindText, testutil.WithUnique())

	attr := testutil.TestAttribute(t, db, sub.ID, attrType, "acct")

	count, err := repo.CountOfType(sub.ID, attrType.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountOfType(sub.ID, attrType.ID, attr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.CountOfType(other.ID, attrType.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAttributeRepository_ListByTypeName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAttributeRepository(db)
	sub := setupSubscription(t, db)
	quota := testutil.TestAttributeType(t, db, "quota", model.AttributeKindInt)
	note := testutil.TestAttributeType(t, db, "note", model.AttributeKindText)
	testutil.TestAttribute(t, db, sub.ID, quota, "1")
	testutil.TestAttribute(t, db, sub.ID, note, "x")
	testutil.TestAttribute(t, db, sub.ID, quota, "2")

	attrs, err := repo.ListBySubscriptionAndTypeName(sub.ID, "quota")
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, "1", attrs[0].Value)
	assert.Equal(t, "2", attrs[1].Value)

	all, err := repo.ListBySubscription(sub.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAttributeRepository_DeleteCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAttributeRepository(db)
	sub := setupSubscription(t, db)
	attrType := testutil.TestAttributeType(t, db, "gpu", model.AttributeKindInt, testutil.WithUsage())
	attr := testutil.TestAttribute(t, db, sub.ID, attrType, "4")

	ids, err := repo.IDsBySubscription(sub.ID)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteUsages(ids))
	require.NoError(t, repo.DeleteBySubscription(sub.ID))

	_, err = repo.GetByID(attr.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetUsage(attr.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
