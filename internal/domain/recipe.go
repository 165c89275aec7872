package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Recipe combines owned items into a new one. Ingredients map item ID to the
// exact count consumed; crafting never removes more than that.
type Recipe struct {
	ID           uuid.UUID                          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string                             `json:"name" gorm:"not null"`
	Ingredients  datatypes.JSONType[map[string]int] `json:"ingredients" gorm:"type:jsonb"`
	OutputItemID uuid.UUID                          `json:"outputItemId" gorm:"type:uuid;not null"`
	Published    bool                               `json:"published" gorm:"not null;default:false"`
	CreatedAt    time.Time                          `json:"createdAt"`
	UpdatedAt    time.Time                          `json:"updatedAt"`
}
