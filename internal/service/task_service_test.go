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

func TestTaskService_Submit(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	taskService := service.NewTaskService(repos)
	ctx := context.Background()

	t.Run("submission starts pending", func(t *testing.T) {
		testDB.Truncate(t)

		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		task := testutil.NewTaskBuilder().Build(t, testDB.DB)

		submission, err := taskService.Submit(ctx, task.ID, user.ID, "proof of work")
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionPending, submission.Status)
		assert.Equal(t, "proof of work", submission.Content)

		pending, err := taskService.ListPendingSubmissions(ctx)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})

	t.Run("unpublished task rejects submissions", func(t *testing.T) {
		testDB.Truncate(t)

		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		task := testutil.NewTaskBuilder().Unpublished().Build(t, testDB.DB)

		_, err := taskService.Submit(ctx, task.ID, user.ID, "early")
		assert.ErrorIs(t, err, service.ErrTaskNotPublished)
	})

	t.Run("single-submission task allows one open attempt", func(t *testing.T) {
		testDB.Truncate(t)

		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		task := testutil.NewTaskBuilder().SingleSubmission().Build(t, testDB.DB)

		first, err := taskService.Submit(ctx, task.ID, user.ID, "first")
		require.NoError(t, err)

		_, err = taskService.Submit(ctx, task.ID, user.ID, "second while pending")
		assert.ErrorIs(t, err, service.ErrDuplicateSubmission)

		require.NoError(t, taskService.Approve(ctx, first.ID))
		_, err = taskService.Submit(ctx, task.ID, user.ID, "second after approval")
		assert.ErrorIs(t, err, service.ErrDuplicateSubmission)
	})

	t.Run("rejection reopens a single-submission task", func(t *testing.T) {
		testDB.Truncate(t)

		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		task := testutil.NewTaskBuilder().SingleSubmission().Build(t, testDB.DB)

		first, err := taskService.Submit(ctx, task.ID, user.ID, "first")
		require.NoError(t, err)
		require.NoError(t, taskService.Reject(ctx, first.ID))

		_, err = taskService.Submit(ctx, task.ID, user.ID, "retry")
		require.NoError(t, err)
	})

	t.Run("repeatable task stacks submissions", func(t *testing.T) {
		testDB.Truncate(t)

		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		task := testutil.NewTaskBuilder().Build(t, testDB.DB)

		_, err := taskService.Submit(ctx, task.ID, user.ID, "one")
		require.NoError(t, err)
		_, err = taskService.Submit(ctx, task.ID, user.ID, "two")
		require.NoError(t, err)
	})
}

func TestTaskService_Review(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	taskService := service.NewTaskService(repos)
	ctx := context.Background()

	t.Run("approval pays out the full reward bundle", func(t *testing.T) {
		testDB.Truncate(t)

		testutil.NewSeasonBuilder().Build(t, testDB.DB)
		badge := testutil.NewItemBuilder().Build(t, testDB.DB)
		task := testutil.NewTaskBuilder().
			WithRewards(25, 40).
			WithItemReward(badge.ID).
			Build(t, testDB.DB)
		user, _ := testutil.NewUserBuilder().WithCurrency(10).Build(t, testDB.DB)

		submission, err := taskService.Submit(ctx, task.ID, user.ID, "done")
		require.NoError(t, err)
		require.NoError(t, taskService.Approve(ctx, submission.ID))

		stored, err := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 25, stored.HonorPoints)
		assert.Equal(t, 50, stored.Currency)
		assert.Equal(t, 1, stored.TasksSubmitted)
		assert.Equal(t, 1, stored.ItemCount(badge.ID.String()))

		reviewed, err := repos.TaskSubmission.GetByID(ctx, submission.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionApproved, reviewed.Status)
		require.NotNil(t, reviewed.ReviewedAt)

		season, err := repos.Season.GetCurrent(ctx)
		require.NoError(t, err)
		assert.Equal(t, 25, season.Totals.Data()[domain.FactionYelu].RawScore)
	})

	t.Run("approval can push a user over a title threshold", func(t *testing.T) {
		testDB.Truncate(t)

		diligent := testutil.NewTitleBuilder().
			WithName("Diligent").
			WithTrigger(domain.Trigger{Kind: domain.TriggerTasksSubmitted, Value: 1}).
			Build(t, testDB.DB)
		task := testutil.NewTaskBuilder().Build(t, testDB.DB)
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		submission, err := taskService.Submit(ctx, task.ID, user.ID, "done")
		require.NoError(t, err)
		require.NoError(t, taskService.Approve(ctx, submission.ID))

		stored, err := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.HasTitle(diligent.ID.String()))
	})

	t.Run("rejection leaves the user untouched", func(t *testing.T) {
		testDB.Truncate(t)

		task := testutil.NewTaskBuilder().WithRewards(25, 40).Build(t, testDB.DB)
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		submission, err := taskService.Submit(ctx, task.ID, user.ID, "done")
		require.NoError(t, err)
		require.NoError(t, taskService.Reject(ctx, submission.ID))

		stored, err := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.HonorPoints)
		assert.Equal(t, 0, stored.TasksSubmitted)

		reviewed, err := repos.TaskSubmission.GetByID(ctx, submission.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionRejected, reviewed.Status)
	})

	t.Run("a reviewed submission cannot be reviewed again", func(t *testing.T) {
		testDB.Truncate(t)

		task := testutil.NewTaskBuilder().Build(t, testDB.DB)
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		submission, err := taskService.Submit(ctx, task.ID, user.ID, "done")
		require.NoError(t, err)
		require.NoError(t, taskService.Approve(ctx, submission.ID))

		assert.ErrorIs(t, taskService.Approve(ctx, submission.ID), service.ErrSubmissionReviewed)
		assert.ErrorIs(t, taskService.Reject(ctx, submission.ID), service.ErrSubmissionReviewed)
	})

	t.Run("listing only returns published tasks", func(t *testing.T) {
		testDB.Truncate(t)

		published := testutil.NewTaskBuilder().Build(t, testDB.DB)
		testutil.NewTaskBuilder().Unpublished().Build(t, testDB.DB)

		tasks, err := taskService.ListPublished(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, published.ID, tasks[0].ID)
	})
}
