package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"gorm.io/gorm"
)

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *taskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) ListPublished(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

type taskSubmissionRepository struct {
	db *gorm.DB
}

func NewTaskSubmissionRepository(db *gorm.DB) *taskSubmissionRepository {
	return &taskSubmissionRepository{db: db}
}

func (r *taskSubmissionRepository) Create(ctx context.Context, submission *domain.TaskSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *taskSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskSubmission, error) {
	var submission domain.TaskSubmission
	err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *taskSubmissionRepository) GetByTaskAndUser(ctx context.Context, taskID, userID uuid.UUID) ([]*domain.TaskSubmission, error) {
	var submissions []*domain.TaskSubmission
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *taskSubmissionRepository) Update(ctx context.Context, submission *domain.TaskSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *taskSubmissionRepository) ListPending(ctx context.Context) ([]*domain.TaskSubmission, error) {
	var submissions []*domain.TaskSubmission
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.SubmissionPending).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}
