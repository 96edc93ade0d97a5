package dto

import (
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// AppointmentListDTO é a linha da agenda (dia ou mês).
type AppointmentListDTO struct {
	ID             uuid.UUID  `json:"id"`
	Date           string     `json:"date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	Duration       int        `json:"duration"`
	Status         string     `json:"status"`
	ProfessionalID uuid.UUID  `json:"professional_id"`
	ClientID       *uuid.UUID `json:"client_id"`
	ClientName     string     `json:"client_name"`
	ServiceNames   []string   `json:"service_names"`
}

type AppointmentLineDTO struct {
	ID                 uuid.UUID  `json:"id"`
	ServiceID          uuid.UUID  `json:"service_id"`
	ServiceName        string     `json:"service_name"`
	CustomPrice        *float64   `json:"custom_price"`
	CustomTime         *int       `json:"custom_time"`
	PaymentMethodID    *uuid.UUID `json:"payment_method_id"`
	NetServiceValue    *float64   `json:"net_service_value"`
	PaymentFee         *float64   `json:"payment_fee"`
	SalonProfit        *float64   `json:"salon_profit"`
	CommissionRate     *float64   `json:"commission_rate"`
	DiscountPaymentFee *bool      `json:"discount_payment_fee"`
}

type AppointmentDTO struct {
	AppointmentListDTO
	ProfessionalName string               `json:"professional_name"`
	Notes            string               `json:"notes"`
	Services         []AppointmentLineDTO `json:"services"`
}

// duration usa o mesmo cálculo da ocupação; sem linhas vale o padrão.
func duration(ap models.Appointment, durations domain.DurationResolver, fallback int) int {
	if d, ok := durations.Resolve(domain.SelectionsFromLines(ap.Services)); ok {
		return d
	}
	return fallback
}

func AppointmentItem(ap models.Appointment, durations domain.DurationResolver, fallback int) AppointmentListDTO {
	d := duration(ap, durations, fallback)

	out := AppointmentListDTO{
		ID:             ap.ID,
		Date:           ap.Date,
		StartTime:      ap.Time,
		Duration:       d,
		Status:         ap.Status,
		ProfessionalID: ap.ProfessionalID,
		ClientID:       ap.ClientID,
		ServiceNames:   []string{},
	}
	if start, err := domain.ParseSlot(ap.Time); err == nil {
		out.EndTime = start.Add(d).String()
	}
	if ap.Client != nil {
		out.ClientName = ap.Client.Name
	}
	for _, l := range ap.Services {
		if l.Service != nil {
			out.ServiceNames = append(out.ServiceNames, l.Service.Name)
		}
	}
	return out
}

func AppointmentList(apps []models.Appointment, durations domain.DurationResolver, fallback int) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentItem(ap, durations, fallback))
	}
	return out
}

func Appointment(ap models.Appointment, durations domain.DurationResolver, fallback int) AppointmentDTO {
	out := AppointmentDTO{
		AppointmentListDTO: AppointmentItem(ap, durations, fallback),
		Notes:              ap.Notes,
		Services:           make([]AppointmentLineDTO, 0, len(ap.Services)),
	}
	if ap.Professional != nil {
		out.ProfessionalName = ap.Professional.Name
	}
	for _, l := range ap.Services {
		line := AppointmentLineDTO{
			ID:                 l.ID,
			ServiceID:          l.ServiceID,
			CustomPrice:        l.CustomPrice,
			CustomTime:         l.CustomTime,
			PaymentMethodID:    l.PaymentMethodID,
			NetServiceValue:    l.NetServiceValue,
			PaymentFee:         l.PaymentFee,
			SalonProfit:        l.SalonProfit,
			CommissionRate:     l.CommissionRate,
			DiscountPaymentFee: l.DiscountPaymentFee,
		}
		if l.Service != nil {
			line.ServiceName = l.Service.Name
		}
		out.Services = append(out.Services, line)
	}
	return out
}
