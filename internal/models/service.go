package models

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name          string  `gorm:"size:100;not null" json:"name"`
	Price         float64 `json:"price"`
	EstimatedTime int     `gorm:"not null;default:30" json:"estimated_time"`
	Active        bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
