package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:60;not null" json:"name"`

	// Taxa percentual cobrada pela operadora (ex.: 2.5 = 2,5%).
	FeeRate float64 `gorm:"default:0" json:"fee_rate"`
	Active  bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
