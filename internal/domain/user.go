package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserRole string

const (
	RolePlayer UserRole = "player"
	RoleAdmin  UserRole = "admin"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PasswordHash string         `json:"-" gorm:"not null"`
	DisplayName  string         `json:"displayName" gorm:"uniqueIndex;not null"`
	Role         UserRole       `json:"role" gorm:"not null;default:'player'"`
	Status       ApprovalStatus `json:"status" gorm:"not null;default:'pending'"`
	Faction      Faction        `json:"faction" gorm:"not null"`
	Race         Race           `json:"race" gorm:"not null"`
	HonorPoints  int            `json:"honorPoints" gorm:"not null;default:0"`
	Currency     int            `json:"currency" gorm:"not null;default:0"`

	// Inventory maps item ID to owned count; stackable items share one entry.
	Inventory     datatypes.JSONType[map[string]int] `json:"inventory" gorm:"type:jsonb"`
	TitleIDs      datatypes.JSONType[[]string]       `json:"titleIds" gorm:"type:jsonb"`
	ItemUseCounts datatypes.JSONType[map[string]int] `json:"itemUseCounts" gorm:"type:jsonb"`

	ParticipatedBattleIDs datatypes.JSONType[[]string] `json:"participatedBattleIds" gorm:"type:jsonb"`
	HPZeroCount           int                          `json:"hpZeroCount" gorm:"not null;default:0"`
	TasksSubmitted        int                          `json:"tasksSubmitted" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemCount returns how many copies of an item the user owns.
func (u *User) ItemCount(itemID string) int {
	return u.Inventory.Data()[itemID]
}

// AddItem increments the owned count for an item.
func (u *User) AddItem(itemID string, n int) {
	inv := u.Inventory.Data()
	if inv == nil {
		inv = make(map[string]int)
	}
	inv[itemID] += n
	u.Inventory = datatypes.NewJSONType(inv)
}

// RemoveItem decrements the owned count by exactly n, dropping the entry at
// zero. Returns false if the user owns fewer than n copies.
func (u *User) RemoveItem(itemID string, n int) bool {
	inv := u.Inventory.Data()
	if inv[itemID] < n {
		return false
	}
	inv[itemID] -= n
	if inv[itemID] == 0 {
		delete(inv, itemID)
	}
	u.Inventory = datatypes.NewJSONType(inv)
	return true
}

// HasTitle reports whether the user already owns a title.
func (u *User) HasTitle(titleID string) bool {
	for _, id := range u.TitleIDs.Data() {
		if id == titleID {
			return true
		}
	}
	return false
}

// AddTitle adds a title at most once.
func (u *User) AddTitle(titleID string) bool {
	if u.HasTitle(titleID) {
		return false
	}
	u.TitleIDs = datatypes.NewJSONType(append(u.TitleIDs.Data(), titleID))
	return true
}

// RecordBattle marks battle participation at most once per battle.
func (u *User) RecordBattle(battleID string) {
	for _, id := range u.ParticipatedBattleIDs.Data() {
		if id == battleID {
			return
		}
	}
	u.ParticipatedBattleIDs = datatypes.NewJSONType(append(u.ParticipatedBattleIDs.Data(), battleID))
}

// BumpItemUse increments the per-item usage counter.
func (u *User) BumpItemUse(itemID string) {
	counts := u.ItemUseCounts.Data()
	if counts == nil {
		counts = make(map[string]int)
	}
	counts[itemID]++
	u.ItemUseCounts = datatypes.NewJSONType(counts)
}

// Stats returns the cumulative counter snapshot used by title triggers.
func (u *User) Stats() UserStats {
	return UserStats{
		HonorPoints:         u.HonorPoints,
		Currency:            u.Currency,
		TasksSubmitted:      u.TasksSubmitted,
		BattlesParticipated: len(u.ParticipatedBattleIDs.Data()),
		BattlesHPZero:       u.HPZeroCount,
		ItemUseCounts:       u.ItemUseCounts.Data(),
	}
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}
