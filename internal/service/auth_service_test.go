package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository/postgres"
	"github.com/yeluhq/terminal-server/internal/service"
	"github.com/yeluhq/terminal-server/internal/testutil"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, repos.Session, cfg)
	ctx := context.Background()

	t.Run("new characters start pending approval", func(t *testing.T) {
		testDB.Truncate(t)

		result, err := authService.Register(ctx, service.RegisterInput{
			DisplayName: "kiri",
			Password:    "secret-password",
			Faction:     domain.FactionYelu,
			Race:        domain.RaceOni,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalPending, result.User.Status)
		assert.Equal(t, domain.RolePlayer, result.User.Role)
		assert.Equal(t, domain.RaceOni, result.User.Race)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		claims, err := authService.ValidateToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), (*claims)["sub"])
		assert.Equal(t, "player", (*claims)["role"])
	})

	t.Run("display name must be unique", func(t *testing.T) {
		testDB.Truncate(t)

		input := service.RegisterInput{
			DisplayName: "kiri",
			Password:    "secret-password",
			Faction:     domain.FactionYelu,
			Race:        domain.RaceHuman,
		}
		_, err := authService.Register(ctx, input)
		require.NoError(t, err)

		_, err = authService.Register(ctx, input)
		assert.ErrorIs(t, err, service.ErrDisplayNameExists)
	})

	t.Run("faction and race are validated", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := authService.Register(ctx, service.RegisterInput{
			DisplayName: "kiri",
			Password:    "secret-password",
			Faction:     domain.Faction("moon"),
			Race:        domain.RaceHuman,
		})
		assert.ErrorIs(t, err, service.ErrInvalidFaction)

		_, err = authService.Register(ctx, service.RegisterInput{
			DisplayName: "kiri",
			Password:    "secret-password",
			Faction:     domain.FactionYelu,
			Race:        domain.Race("golem"),
		})
		assert.ErrorIs(t, err, service.ErrInvalidRace)
	})
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, repos.Session, cfg)
	ctx := context.Background()

	t.Run("valid credentials produce fresh tokens", func(t *testing.T) {
		testDB.Truncate(t)

		user, password := testutil.NewUserBuilder().Build(t, testDB.DB)

		result, err := authService.Login(ctx, service.LoginInput{
			DisplayName: user.DisplayName,
			Password:    password,
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("wrong password and unknown user fail alike", func(t *testing.T) {
		testDB.Truncate(t)

		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		_, err := authService.Login(ctx, service.LoginInput{
			DisplayName: user.DisplayName,
			Password:    "not-the-password",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = authService.Login(ctx, service.LoginInput{
			DisplayName: "nobody",
			Password:    "whatever",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("login replaces the previous session", func(t *testing.T) {
		testDB.Truncate(t)

		user, password := testutil.NewUserBuilder().Build(t, testDB.DB)
		input := service.LoginInput{DisplayName: user.DisplayName, Password: password}

		_, err := authService.Login(ctx, input)
		require.NoError(t, err)
		second, err := authService.Login(ctx, input)
		require.NoError(t, err)

		session, err := repos.Session.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, second.RefreshToken)
		assert.NotEmpty(t, session.RefreshTokenHash)

		require.NoError(t, authService.Logout(ctx, user.ID))
		_, err = repos.Session.GetByUserID(ctx, user.ID)
		assert.Error(t, err)
	})
}
