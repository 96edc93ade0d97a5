package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientID *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	Client   *Client    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	ProfessionalID uuid.UUID     `gorm:"type:uuid;not null;index:idx_agenda_day" json:"professional_id"`
	Professional   *Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional,omitempty"`

	// Dia civil (YYYY-MM-DD) e início relativo ao dia (HH:MM).
	Date string `gorm:"size:10;not null;index:idx_agenda_day" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Status string `gorm:"size:20;not null;default:'agendado';index" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`

	Services []AppointmentService `gorm:"foreignKey:AppointmentID" json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentService é a linha de serviço (filha) de um agendamento.
// Os campos financeiros só são escritos pela finalização.
type AppointmentService struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"appointment_id"`
	Position      int       `gorm:"not null;default:0" json:"position"`

	ServiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`
	Service   *Service  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	CustomPrice *float64 `json:"custom_price"`
	CustomTime  *int     `json:"custom_time"`

	PaymentMethodID    *uuid.UUID `gorm:"type:uuid" json:"payment_method_id"`
	NetServiceValue    *float64   `json:"net_service_value"`
	PaymentFee         *float64   `json:"payment_fee"`
	SalonProfit        *float64   `json:"salon_profit"`
	CommissionRate     *float64   `json:"commission_rate"`
	DiscountPaymentFee *bool      `json:"discount_payment_fee"`

	CreatedAt time.Time `json:"created_at"`
}
