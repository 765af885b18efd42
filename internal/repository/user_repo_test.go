package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	user := &model.User{Username: "alice", FirstName: "Alice", IsActive: true}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	// 用户名唯一
	err := repo.Create(&model.User{Username: "alice"})
	assert.Error(t, err)
}

func TestUserRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	// 创建测试用户
	created := testutil.TestUser(t, db)

	// 查询用户
	found, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Username, found.Username)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	_, err := repo.GetByID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	email := "unique@example.org"
	testutil.TestUser(t, db, testutil.WithEmail(email))

	found, err := repo.GetByEmail(email)
	require.NoError(t, err)
	assert.Equal(t, email, *found.Email)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	testutil.TestUser(t, db, testutil.WithUsername("pi_smith"), testutil.WithStaff())

	found, err := repo.GetByUsername("pi_smith")
	require.NoError(t, err)
	assert.True(t, found.IsStaff)

	_, err = repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ExistsByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	username := "uniqueuser"
	testutil.TestUser(t, db, testutil.WithUsername(username))

	exists, err := repo.ExistsByUsername(username)
	require.NoError(t, err)
	assert.True(t, exists)

	notExists, err := repo.ExistsByUsername("notexistsuser")
	require.NoError(t, err)
	assert.False(t, notExists)
}

func TestUserRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	user := testutil.TestUser(t, db)
	user.IsActive = false
	user.LastName = "Doe"
	require.NoError(t, repo.Update(user))

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.Equal(t, "Doe", found.LastName)
}
