package models

import (
	"time"

	"github.com/google/uuid"
)

type Professional struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null" json:"name"`

	// Percentual (0-100) repassado ao profissional na finalização.
	CommissionRate float64 `gorm:"default:0" json:"commission_rate"`
	Active         bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
