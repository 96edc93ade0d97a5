package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// --------------------------------------------------
// Parâmetros de rota e query
// --------------------------------------------------

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID lê um uuid opcional da query; vazio devolve nil.
func optionalUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return nil, false
	}
	return &id, true
}

// parseServices lê "id[:minutos],id..." da query de disponibilidade.
func parseServices(raw string) ([]domain.ServiceSelection, error) {
	var out []domain.ServiceSelection
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idPart, minutesPart, hasMinutes := strings.Cut(part, ":")
		id, err := uuid.Parse(idPart)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_service_id")
		}

		sel := domain.ServiceSelection{ServiceID: id}
		if hasMinutes {
			m, err := strconv.Atoi(minutesPart)
			if err != nil || m < 0 {
				return nil, httperr.ErrBusiness("invalid_custom_time")
			}
			sel.CustomTime = &m
		}
		out = append(out, sel)
	}
	return out, nil
}
