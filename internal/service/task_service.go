package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskNotPublished    = errors.New("task is not available")
	ErrDuplicateSubmission = errors.New("task accepts a single submission")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrSubmissionReviewed  = errors.New("submission already reviewed")
)

type TaskService struct {
	repos *repository.Repositories
}

func NewTaskService(repos *repository.Repositories) *TaskService {
	return &TaskService{repos: repos}
}

func (s *TaskService) ListPublished(ctx context.Context) ([]*domain.Task, error) {
	return s.repos.Task.ListPublished(ctx)
}

func (s *TaskService) ListPendingSubmissions(ctx context.Context) ([]*domain.TaskSubmission, error) {
	return s.repos.TaskSubmission.ListPending(ctx)
}

// Submit files a submission for review. Single-submission tasks reject a
// second attempt unless the first was explicitly rejected.
func (s *TaskService) Submit(ctx context.Context, taskID, userID uuid.UUID, content string) (*domain.TaskSubmission, error) {
	var submission *domain.TaskSubmission
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		task, err := tx.Task.GetByID(ctx, taskID)
		if err != nil {
			return ErrTaskNotFound
		}
		if !task.Published {
			return ErrTaskNotPublished
		}
		if task.SingleSubmission {
			previous, err := tx.TaskSubmission.GetByTaskAndUser(ctx, taskID, userID)
			if err != nil {
				return err
			}
			for _, p := range previous {
				if p.Status != domain.SubmissionRejected {
					return ErrDuplicateSubmission
				}
			}
		}
		submission = &domain.TaskSubmission{
			ID:        uuid.New(),
			TaskID:    taskID,
			UserID:    userID,
			Content:   content,
			Status:    domain.SubmissionPending,
			CreatedAt: time.Now(),
		}
		return tx.TaskSubmission.Create(ctx, submission)
	})
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// Approve grants the task's reward bundle, bumps the submission counter,
// feeds the season score, and re-runs the title engine — all atomically.
func (s *TaskService) Approve(ctx context.Context, submissionID uuid.UUID) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		submission, err := tx.TaskSubmission.GetByID(ctx, submissionID)
		if err != nil {
			return ErrSubmissionNotFound
		}
		if submission.Status != domain.SubmissionPending {
			return ErrSubmissionReviewed
		}
		task, err := tx.Task.GetByID(ctx, submission.TaskID)
		if err != nil {
			return ErrTaskNotFound
		}
		user, err := tx.User.GetByID(ctx, submission.UserID)
		if err != nil {
			return ErrUserNotFound
		}

		now := time.Now()
		submission.Status = domain.SubmissionApproved
		submission.ReviewedAt = &now
		if err := tx.TaskSubmission.Update(ctx, submission); err != nil {
			return err
		}

		user.HonorPoints += task.HonorReward
		user.Currency += task.CurrencyReward
		user.TasksSubmitted++
		if task.ItemRewardID != nil {
			user.AddItem(task.ItemRewardID.String(), 1)
		}

		if task.HonorReward > 0 {
			if season, err := tx.Season.GetCurrent(ctx); err == nil {
				season.AddScore(user.Faction, task.HonorReward, user.ID.String())
				if err := tx.Season.Update(ctx, season); err != nil {
					return err
				}
			}
		}

		if err := tx.ActivityLog.Create(ctx, &domain.ActivityLog{
			ID:          uuid.New(),
			UserID:      user.ID,
			Description: fmt.Sprintf("task %q approved", task.Name),
			Change:      fmt.Sprintf("honor +%d, currency +%d", task.HonorReward, task.CurrencyReward),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		awarded, err := evaluateTitles(ctx, tx, user, nil)
		if err != nil {
			return err
		}
		for _, title := range awarded {
			if err := tx.ActivityLog.Create(ctx, &domain.ActivityLog{
				ID:          uuid.New(),
				UserID:      user.ID,
				Description: fmt.Sprintf("earned title %q", title.Name),
				Change:      "title +1",
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}

		return tx.User.Update(ctx, user)
	})
}

// Reject marks a submission rejected without touching the user.
func (s *TaskService) Reject(ctx context.Context, submissionID uuid.UUID) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		submission, err := tx.TaskSubmission.GetByID(ctx, submissionID)
		if err != nil {
			return ErrSubmissionNotFound
		}
		if submission.Status != domain.SubmissionPending {
			return ErrSubmissionReviewed
		}
		now := time.Now()
		submission.Status = domain.SubmissionRejected
		submission.ReviewedAt = &now
		return tx.TaskSubmission.Update(ctx, submission)
	})
}
