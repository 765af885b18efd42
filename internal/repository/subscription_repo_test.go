package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/testutil"
)

func TestSubscriptionRepository_CreateWithResources(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	pi := testutil.TestUser(t, db)
	project := testutil.TestProject(t, db, pi.ID)
	cluster := testutil.TestResource(t, db, "cluster", true)
	scratch := testutil.TestResource(t, db, "scratch", false)
	status := testutil.TestStatus(t, db, model.StatusNew)

	sub := &model.Subscription{
		ProjectID:     project.ID,
		StatusID:      status.ID,
		Quantity:      1,
		Justification: "research",
		Resources:     []*model.Resource{scratch, cluster},
	}
	require.NoError(t, repo.Create(sub))
	assert.NotZero(t, sub.ID)

	found, err := repo.GetDetail(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNew, found.StatusName())
	assert.Equal(t, pi.Username, found.Project.PI.Username)
	assert.Len(t, found.Resources, 2)
	assert.Equal(t, "cluster, scratch", found.ResourcesAsString())

	var count int64
	db.Model(&model.Resource{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestSubscriptionRepository_GetStatusName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	pi := testutil.TestUser(t, db)
	project := testutil.TestProject(t, db, pi.ID)
	sub := testutil.TestSubscription(t, db, project.ID, model.StatusActive)

	name, err := repo.GetStatusName(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, name)
}

func TestSubscriptionRepository_UpdateAndReplaceResources(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	pi := testutil.TestUser(t, db)
	project := testutil.TestProject(t, db, pi.ID)
	a := testutil.TestResource(t, db, "a", true)
	b := testutil.TestResource(t, db, "b", true)
	sub := testutil.TestSubscription(t, db, project.ID, model.StatusNew, testutil.WithResources(a))

	sub.Quantity = 4
	require.NoError(t, repo.Update(sub))
	require.NoError(t, repo.ReplaceResources(sub, []*model.Resource{b}))

	found, err := repo.GetDetail(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, found.Quantity)
	require.Len(t, found.Resources, 1)
	assert.Equal(t, "b", found.Resources[0].Name)
}

func TestSubscriptionRepository_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	pi := testutil.TestUser(t, db)
	member := testutil.TestUser(t, db)
	stranger := testutil.TestUser(t, db)
	p1 := testutil.TestProject(t, db, pi.ID)
	p2 := testutil.TestProject(t, db, stranger.ID)

	s1 := testutil.TestSubscription(t, db, p1.ID, model.StatusActive)
	testutil.TestSubscription(t, db, p1.ID, model.StatusNew)
	s3 := testutil.TestSubscription(t, db, p2.ID, model.StatusActive)
	testutil.TestMember(t, db, s3.ID, member.ID, model.UserStatusActive)

	subs, total, err := repo.List(SubscriptionFilter{ProjectID: p1.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, subs, 2)

	active := testutil.TestStatus(t, db, model.StatusActive)
	_, total, err = repo.List(SubscriptionFilter{StatusID: active.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	subs, total, err = repo.List(SubscriptionFilter{VisibleTo: member.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, s3.ID, subs[0].ID)

	_, total, err = repo.List(SubscriptionFilter{VisibleTo: pi.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	subs, _, err = repo.List(SubscriptionFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, s1.ID, subs[0].ID)
}

func TestSubscriptionRepository_ListOverdueIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	pi := testutil.TestUser(t, db)
	project := testutil.TestProject(t, db, pi.ID)

	overdue := testutil.TestSubscription(t, db, project.ID, model.StatusActive, testutil.WithDates("2024-01-01", "2024-06-14"))
	testutil.TestSubscription(t, db, project.ID, model.StatusActive, testutil.WithDates("2024-01-01", "2024-06-15"))
	testutil.TestSubscription(t, db, project.ID, model.StatusNew, testutil.WithDates("2024-01-01", "2024-02-01"))
	testutil.TestSubscription(t, db, project.ID, model.StatusActive)

	active := testutil.TestStatus(t, db, model.StatusActive)
	today := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

	ids, err := repo.ListOverdueIDs(active.ID, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{overdue.ID}, ids)
}

func TestSubscriptionRepository_IsMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	pi := testutil.TestUser(t, db)
	user := testutil.TestUser(t, db)
	project := testutil.TestProject(t, db, pi.ID)
	sub := testutil.TestSubscription(t, db, project.ID, model.StatusActive)

	ok, err := repo.IsMember(sub.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	testutil.TestMember(t, db, sub.ID, user.ID, model.UserStatusActive)
	ok, err = repo.IsMember(sub.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubscriptionRepository_LockByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	stores := NewStores(db)
	pi := testutil.TestUser(t, db)
	project := testutil.TestProject(t, db, pi.ID)
	sub := testutil.TestSubscription(t, db, project.ID, model.StatusNew)

	err := stores.Transaction(func(tx *Stores) error {
		return tx.Subscriptions.LockByID(sub.ID)
	})
	assert.NoError(t, err)

	err = stores.Transaction(func(tx *Stores) error {
		return tx.Subscriptions.LockByID(sub.ID + 1000)
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
