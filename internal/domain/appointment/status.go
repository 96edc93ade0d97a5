package appointment

import "github.com/BruksfildServices01/salon-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "agendado"
	StatusPending   Status = "pendente"
	StatusNoShow    Status = "ausente"
	StatusDone      Status = "realizado"
	StatusFinalized Status = "finalizado"
	StatusCancelled Status = "cancelado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusPending, StatusNoShow, StatusDone, StatusFinalized, StatusCancelled:
		return true
	}
	return false
}

// Terminal: realizado/finalizado (liquidados) e cancelado.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFinalized || s == StatusCancelled
}

// Settled indica um agendamento já finalizado financeiramente.
func (s Status) Settled() bool {
	return s == StatusDone || s == StatusFinalized
}

// Occupies: só o cancelado libera a agenda.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current.Terminal() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanModify vale para remarcação, troca de serviços e notas.
func CanModify(current Status) error {
	if current.Terminal() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanFinalize(current Status) error {
	switch {
	case current.Settled():
		return httperr.Finalization("already_finalized", nil)
	case current == StatusCancelled:
		return httperr.Finalization("invalid_state", nil)
	}
	return nil
}

// CanTransition restringe trocas manuais de status aos estados abertos;
// cancelamento e finalização têm operações próprias.
func CanTransition(current, next Status) error {
	if err := CanModify(current); err != nil {
		return err
	}
	if !next.Valid() || next.Terminal() {
		return httperr.ErrBusiness("invalid_status")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
