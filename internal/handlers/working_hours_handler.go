package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type WorkingHoursHandler struct {
	repo     domain.Repository
	schedule domain.Schedule
	audit    *audit.Dispatcher
}

func NewWorkingHoursHandler(repo domain.Repository, schedule domain.Schedule, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{repo: repo, schedule: schedule, audit: audit}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	professionalID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	hours, err := h.repo.ListWorkingHours(c.Request.Context(), professionalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_working_hours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"default": gin.H{
			"start_time": h.schedule.WorkStart.String(),
			"end_time":   h.schedule.WorkEnd.String(),
		},
		"days": hours,
	})
}

// validateDay confere formato e ordem dos horários de um dia ativo.
func validateDay(d WorkingDayConfig) string {
	if !d.Active {
		return ""
	}
	if !validators.IsClock(d.StartTime) || !validators.IsClock(d.EndTime) || d.StartTime >= d.EndTime {
		return "invalid_working_hours"
	}
	if d.LunchStart == "" && d.LunchEnd == "" {
		return ""
	}
	if !validators.IsClock(d.LunchStart) || !validators.IsClock(d.LunchEnd) ||
		d.LunchStart >= d.LunchEnd ||
		d.LunchStart < d.StartTime || d.LunchEnd > d.EndTime {
		return "invalid_lunch_window"
	}
	return ""
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	professionalID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if _, err := h.repo.GetProfessional(c.Request.Context(), professionalID); err != nil {
		httperr.Respond(c, httperr.NotFound("professional_not_found", err))
		return
	}

	seen := make(map[int]bool, len(req.Days))
	days := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Dia da semana repetido.")
			return
		}
		seen[d.Weekday] = true

		if code := validateDay(d); code != "" {
			httperr.BadRequest(c, code, "Horário de atendimento inválido.")
			return
		}

		days = append(days, models.WorkingHours{
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	if err := h.repo.SaveWorkingHours(c.Request.Context(), professionalID, days); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_working_hours"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.UserID(c),
		Action:   "working_hours_updated",
		Entity:   "professional",
		EntityID: &professionalID,
		Metadata: req.Days,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
