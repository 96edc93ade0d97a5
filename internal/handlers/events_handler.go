package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/events"
)

// EventsHandler transmite as mudanças da agenda por Server-Sent Events.
type EventsHandler struct {
	bus       *events.Bus
	heartbeat time.Duration
}

func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus, heartbeat: 25 * time.Second}
}

// Stream aceita ?professional_id e ?date para filtrar a agenda observada.
func (h *EventsHandler) Stream(c *gin.Context) {
	professionalID, ok := optionalUUID(c, "professional_id")
	if !ok {
		return
	}
	date := c.Query("date")

	changes, cancel := h.bus.Subscribe(32)
	defer cancel()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case ch, ok := <-changes:
			if !ok {
				return false
			}
			if matches(ch, professionalID, date) {
				c.SSEvent("change", ch)
			}
			return true
		}
	})
}

func matches(ch events.Change, professionalID *uuid.UUID, date string) bool {
	for _, d := range ch.Days() {
		if professionalID != nil && d.ProfessionalID != *professionalID {
			continue
		}
		if date != "" && d.Date != date {
			continue
		}
		return true
	}
	return false
}
