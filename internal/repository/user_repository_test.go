package repository_test

import (
	"context"
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	admin := &domain.User{Email: " Chefin@Glanzwerk.de", DisplayName: "Chefin", PasswordHash: "h1", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, repo.Upsert(ctx, admin))
	require.NotZero(t, admin.ID)
	assert.Equal(t, "chefin@glanzwerk.de", admin.Email)

	again := &domain.User{Email: "CHEFIN@glanzwerk.de", DisplayName: "Inhaberin", PasswordHash: "h2", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, admin.ID, again.ID)

	stored, err := repo.GetByEmail(ctx, "chefin@GLANZWERK.de")
	require.NoError(t, err)
	assert.Equal(t, "Inhaberin", stored.DisplayName)
	assert.Equal(t, "h2", stored.PasswordHash)
}

func TestUserRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	for _, u := range []*domain.User{
		{Email: "zora@glanzwerk.de", DisplayName: "Zora", Role: domain.RoleStaff, IsActive: true},
		{Email: "alt@glanzwerk.de", DisplayName: "Alt", Role: domain.RoleStaff, IsActive: false},
		{Email: "berta@glanzwerk.de", DisplayName: "Berta", Role: domain.RoleStaff, IsActive: true},
	} {
		u.PasswordHash = "x"
		require.NoError(t, repo.Create(ctx, u))
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.DisplayName
	}
	assert.Equal(t, []string{"Berta", "Zora", "Alt"}, names)
}
