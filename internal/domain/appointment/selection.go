package appointment

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ServiceSelection é a única forma de "serviço escolhido" que o motor conhece.
// Ela é montada na borda de armazenamento a partir das linhas persistidas
// ou do catálogo de serviços.
type ServiceSelection struct {
	ServiceID     uuid.UUID `json:"service_id"`
	CustomPrice   *float64  `json:"custom_price,omitempty"`
	CustomTime    *int      `json:"custom_time,omitempty"`
	EstimatedTime int       `json:"estimated_time"`
}

// Booking é a visão mínima de um agendamento existente para montar a ocupação.
type Booking struct {
	ID         uuid.UUID
	Time       string
	Status     Status
	Selections []ServiceSelection
}

func SelectionsFromLines(lines []models.AppointmentService) []ServiceSelection {
	out := make([]ServiceSelection, 0, len(lines))
	for _, l := range lines {
		sel := ServiceSelection{
			ServiceID:   l.ServiceID,
			CustomPrice: l.CustomPrice,
			CustomTime:  l.CustomTime,
		}
		if l.Service != nil {
			sel.EstimatedTime = l.Service.EstimatedTime
		}
		out = append(out, sel)
	}
	return out
}

func BookingFromModel(ap models.Appointment) Booking {
	return Booking{
		ID:         ap.ID,
		Time:       ap.Time,
		Status:     Status(ap.Status),
		Selections: SelectionsFromLines(ap.Services),
	}
}

func BookingsFromModels(aps []models.Appointment) []Booking {
	out := make([]Booking, 0, len(aps))
	for _, ap := range aps {
		out = append(out, BookingFromModel(ap))
	}
	return out
}

// ToLines converte a seleção em linhas filhas, na ordem recebida.
func ToLines(appointmentID uuid.UUID, sel []ServiceSelection) []models.AppointmentService {
	lines := make([]models.AppointmentService, 0, len(sel))
	for i, s := range sel {
		lines = append(lines, models.AppointmentService{
			AppointmentID: appointmentID,
			Position:      i,
			ServiceID:     s.ServiceID,
			CustomPrice:   s.CustomPrice,
			CustomTime:    s.CustomTime,
		})
	}
	return lines
}
