package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkingHours sobrescreve o expediente padrão de um profissional num dia da semana.
type WorkingHours struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfessionalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wh_day" json:"professional_id"`

	Weekday int `gorm:"uniqueIndex:idx_wh_day" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
