package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository/postgres"
	"github.com/yeluhq/terminal-server/internal/testutil"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()
	testDB.Truncate(t)

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  "firstuser",
		PasswordHash: "hashedpassword",
		Role:         domain.RolePlayer,
		Status:       domain.ApprovalPending,
		Faction:      domain.FactionYelu,
		Race:         domain.RaceHuman,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, user))

	dup := &domain.User{
		ID:           uuid.New(),
		DisplayName:  "firstuser",
		PasswordHash: "otherhash",
		Role:         domain.RolePlayer,
		Status:       domain.ApprovalPending,
		Faction:      domain.FactionYelu,
		Race:         domain.RaceHuman,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	assert.Error(t, repo.Create(ctx, dup), "display names are unique")
}

func TestUserRepository_InventoryRoundTrip(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()
	testDB.Truncate(t)

	itemID := uuid.New().String()
	user, _ := testutil.NewUserBuilder().WithItem(itemID, 3).Build(t, testDB.DB)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.ItemCount(itemID))

	stored.AddItem(itemID, 2)
	stored.TitleIDs = datatypes.NewJSONType([]string{"some-title"})
	require.NoError(t, repo.Update(ctx, stored))

	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.ItemCount(itemID))
	assert.True(t, again.HasTitle("some-title"))
}

func TestUserRepository_StatusLists(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()
	testDB.Truncate(t)

	approved, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	waiting, _ := testutil.NewUserBuilder().WithStatus(domain.ApprovalPending).Build(t, testDB.DB)
	testutil.NewUserBuilder().WithStatus(domain.ApprovalRejected).Build(t, testDB.DB)

	approvedList, err := repo.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approvedList, 1)
	assert.Equal(t, approved.ID, approvedList[0].ID)

	pendingList, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pendingList, 1)
	assert.Equal(t, waiting.ID, pendingList[0].ID)
}

func TestUserRepository_GetByDisplayName(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()
	testDB.Truncate(t)

	user, _ := testutil.NewUserBuilder().WithDisplayName("lookup").Build(t, testDB.DB)

	found, err := repo.GetByDisplayName(ctx, "lookup")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetByDisplayName(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
