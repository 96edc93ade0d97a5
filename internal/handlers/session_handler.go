package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/session"
)

// SessionHandler conduz o fluxo passo a passo de montagem do agendamento.
type SessionHandler struct {
	sessions *session.Service
	repo     domain.Repository
}

func NewSessionHandler(sessions *session.Service, repo domain.Repository) *SessionHandler {
	return &SessionHandler{sessions: sessions, repo: repo}
}

// --------- Requests ---------

type SessionServiceRequest struct {
	ServiceID   uuid.UUID `json:"service_id" binding:"required"`
	CustomPrice *float64  `json:"custom_price"`
	CustomTime  *int      `json:"custom_time"`
}

type StartSessionRequest struct {
	AppointmentID  *uuid.UUID `json:"appointment_id"`
	ClientID       *uuid.UUID `json:"client_id"`
	ProfessionalID *uuid.UUID `json:"professional_id"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
}

type ApplySessionRequest struct {
	ClientID       *uuid.UUID              `json:"client_id"`
	Anonymous      *bool                   `json:"anonymous"`
	ProfessionalID *uuid.UUID              `json:"professional_id"`
	Date           *string                 `json:"date"`
	Time           *string                 `json:"time"`
	Services       []SessionServiceRequest `json:"services"`
	Notes          *string                 `json:"notes"`
	Action         string                  `json:"action"`
}

// --------- Handlers ---------

// Start abre uma sessão; com appointment_id ela entra em modo edição,
// pré-carregada com o agendamento gravado.
func (h *SessionHandler) Start(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	pre := session.Preselection{
		UserID:         middleware.UserID(c),
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
	}

	if req.AppointmentID != nil {
		ap, err := h.repo.GetAppointment(c.Request.Context(), *req.AppointmentID)
		if err != nil {
			httperr.Respond(c, httperr.NotFound("appointment_not_found", err))
			return
		}
		if err := domain.CanModify(domain.Status(ap.Status)); err != nil {
			httperr.Respond(c, err)
			return
		}
		pre.AppointmentID = &ap.ID
		pre.ClientID = ap.ClientID
		pre.ProfessionalID = &ap.ProfessionalID
		pre.Date = ap.Date
		pre.Time = ap.Time
		pre.Selections = domain.SelectionsFromLines(ap.Services)
	}

	sess, err := h.sessions.Start(c.Request.Context(), pre)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, sess)
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Apply grava o patch mesmo quando a navegação é recusada; nesse caso a
// resposta traz a sessão e o erro da guarda.
func (h *SessionHandler) Apply(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req ApplySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	patch := session.Patch{
		ClientID:       req.ClientID,
		Anonymous:      req.Anonymous,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		Action:         req.Action,
	}
	if req.Services != nil {
		patch.Services = make([]session.SelectionInput, 0, len(req.Services))
		for _, s := range req.Services {
			patch.Services = append(patch.Services, session.SelectionInput{
				ServiceID:   s.ServiceID,
				CustomPrice: s.CustomPrice,
				CustomTime:  s.CustomTime,
			})
		}
	}

	sess, err := h.sessions.Apply(c.Request.Context(), id, patch)
	if err != nil && sess == nil {
		httperr.Respond(c, err)
		return
	}
	if err != nil {
		c.JSON(httperr.StatusFor(httperr.KindOf(err)), gin.H{
			"session":    sess,
			"error_code": httperr.CodeOf(err),
		})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) Submit(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.sessions.Submit(c.Request.Context(), id)
	writeSaved(c, http.StatusCreated, ap, err)
}
