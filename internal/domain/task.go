package domain

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string     `json:"name" gorm:"not null"`
	Description      string     `json:"description"`
	HonorReward      int        `json:"honorReward" gorm:"not null;default:0"`
	CurrencyReward   int        `json:"currencyReward" gorm:"not null;default:0"`
	ItemRewardID     *uuid.UUID `json:"itemRewardId" gorm:"type:uuid"`
	SingleSubmission bool       `json:"singleSubmission" gorm:"not null;default:false"`
	Published        bool       `json:"published" gorm:"not null;default:false"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

type TaskSubmission struct {
	ID         uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TaskID     uuid.UUID        `json:"taskId" gorm:"type:uuid;index;not null"`
	UserID     uuid.UUID        `json:"userId" gorm:"type:uuid;index;not null"`
	Content    string           `json:"content"`
	Status     SubmissionStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt  time.Time        `json:"createdAt"`
	ReviewedAt *time.Time       `json:"reviewedAt"`
}
