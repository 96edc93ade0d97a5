package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID preenche o UUID antes do INSERT; o banco não gera ids.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (p *Professional) BeforeCreate(*gorm.DB) error       { ensureID(&p.ID); return nil }
func (c *Client) BeforeCreate(*gorm.DB) error             { ensureID(&c.ID); return nil }
func (s *Service) BeforeCreate(*gorm.DB) error            { ensureID(&s.ID); return nil }
func (m *PaymentMethod) BeforeCreate(*gorm.DB) error      { ensureID(&m.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error               { ensureID(&u.ID); return nil }
func (a *Appointment) BeforeCreate(*gorm.DB) error        { ensureID(&a.ID); return nil }
func (l *AppointmentService) BeforeCreate(*gorm.DB) error { ensureID(&l.ID); return nil }
func (w *WorkingHours) BeforeCreate(*gorm.DB) error       { ensureID(&w.ID); return nil }
func (l *AuditLog) BeforeCreate(*gorm.DB) error           { ensureID(&l.ID); return nil }
