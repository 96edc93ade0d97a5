package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	get          *ucAppointment.GetAppointment
	update       *ucAppointment.UpdateAppointment
	move         *ucAppointment.MoveAppointment
	cancel       *ucAppointment.CancelAppointment
	finalize     *ucAppointment.FinalizeAppointment
	listByDate   *ucAppointment.ListAppointmentsByDate
	listByMonth  *ucAppointment.ListAppointmentsByMonth
	availability *ucAppointment.GetAvailability
}

func NewAppointmentHandler(d ucAppointment.Deps) *AppointmentHandler {
	return &AppointmentHandler{
		create:       ucAppointment.NewCreateAppointment(d),
		get:          ucAppointment.NewGetAppointment(d),
		update:       ucAppointment.NewUpdateAppointment(d),
		move:         ucAppointment.NewMoveAppointment(d),
		cancel:       ucAppointment.NewCancelAppointment(d),
		finalize:     ucAppointment.NewFinalizeAppointment(d),
		listByDate:   ucAppointment.NewListAppointmentsByDate(d),
		listByMonth:  ucAppointment.NewListAppointmentsByMonth(d),
		availability: ucAppointment.NewGetAvailability(d),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID uuid.UUID                    `json:"professional_id" binding:"required"`
	ClientID       *uuid.UUID                   `json:"client_id"`
	Date           string                       `json:"date" binding:"required"`
	Time           string                       `json:"time" binding:"required"`
	Services       []ucAppointment.ServiceInput `json:"services"`
	Notes          string                       `json:"notes"`
}

type UpdateAppointmentRequest struct {
	ProfessionalID *uuid.UUID                   `json:"professional_id"`
	ClientID       *uuid.UUID                   `json:"client_id"`
	Anonymous      bool                         `json:"anonymous"`
	Date           *string                      `json:"date"`
	Time           *string                      `json:"time"`
	Services       []ucAppointment.ServiceInput `json:"services"`
	Notes          *string                      `json:"notes"`
	Status         *string                      `json:"status"`
}

type MoveAppointmentRequest struct {
	ProfessionalID uuid.UUID `json:"professional_id" binding:"required"`
	Date           string    `json:"date"`
	Time           string    `json:"time" binding:"required"`
}

type FinalizeAppointmentRequest struct {
	PaymentMethodID    string `json:"payment_method_id" binding:"required"`
	DiscountPaymentFee bool   `json:"discount_payment_fee"`
}

// ======================================================
// HELPERS
// ======================================================

// writeSaved responde 201, ou 207 quando o cabeçalho foi gravado sem as linhas.
func writeSaved(c *gin.Context, status int, ap *models.Appointment, err error) {
	if err != nil && ap != nil && httperr.KindOf(err) == httperr.KindPartialWrite {
		httpresp.Partial(c, ap, httperr.CodeOf(err), "Agendamento salvo, mas os serviços não foram gravados.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(status, ap)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		UserID:         middleware.UserID(c),
		ProfessionalID: req.ProfessionalID,
		ClientID:       req.ClientID,
		Date:           req.Date,
		Time:           req.Time,
		Services:       req.Services,
		Notes:          req.Notes,
	})
	writeSaved(c, http.StatusCreated, ap, err)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	professionalID, ok := optionalUUID(c, "professional_id")
	if !ok {
		return
	}

	items, err := h.listByDate.Execute(c.Request.Context(), c.Query("date"), professionalID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, items)
}

// ListByMonth aceita ?month=YYYY-MM ou ?year=YYYY&month=M.
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	professionalID, ok := optionalUUID(c, "professional_id")
	if !ok {
		return
	}

	month := c.Query("month")
	if year := c.Query("year"); year != "" {
		y, errY := strconv.Atoi(year)
		m, errM := strconv.Atoi(month)
		if errY != nil || errM != nil {
			httperr.BadRequest(c, "invalid_month", "Mês inválido.")
			return
		}
		month = fmt.Sprintf("%04d-%02d", y, m)
	}

	items, err := h.listByMonth.Execute(c.Request.Context(), month, professionalID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, items)
}

// Availability: ?professional_id&date&services=id[:min],...&exclude_appointment_id
func (h *AppointmentHandler) Availability(c *gin.Context) {
	professionalID, ok := optionalUUID(c, "professional_id")
	if !ok {
		return
	}
	exclude, ok := optionalUUID(c, "exclude_appointment_id")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	selections, err := parseServices(c.Query("services"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		ProfessionalID:       professionalID,
		Date:                 date,
		Selections:           selections,
		ExcludeAppointmentID: exclude,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

// ======================================================
// UPDATE / MOVE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		UserID:         middleware.UserID(c),
		AppointmentID:  id,
		ProfessionalID: req.ProfessionalID,
		ClientID:       req.ClientID,
		Anonymous:      req.Anonymous,
		Date:           req.Date,
		Time:           req.Time,
		Services:       req.Services,
		Notes:          req.Notes,
		Status:         req.Status,
	})
	writeSaved(c, http.StatusOK, ap, err)
}

func (h *AppointmentHandler) Move(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req MoveAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.move.Execute(c.Request.Context(), ucAppointment.MoveAppointmentInput{
		UserID:         middleware.UserID(c),
		AppointmentID:  id,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
	})
	writeSaved(c, http.StatusOK, ap, err)
}

// ======================================================
// CANCEL / FINALIZE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Finalize(c *gin.Context) {
	var req FinalizeAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.finalize.Execute(c.Request.Context(), ucAppointment.FinalizeAppointmentInput{
		UserID:             middleware.UserID(c),
		AppointmentID:      c.Param("id"),
		PaymentMethodID:    req.PaymentMethodID,
		DiscountPaymentFee: req.DiscountPaymentFee,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.Appointment(*ap, h.finalize.Schedule.Durations(), h.finalize.Schedule.DefaultServiceMinutes))
}
