package appointment

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type AvailabilityInput struct {
	ProfessionalID       *uuid.UUID
	Date                 time.Time
	Selections           []ServiceSelection
	ExcludeAppointmentID *uuid.UUID
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailabilityResolver filtra os candidatos da grade contra a ocupação do dia.
type AvailabilityResolver struct {
	Candidates TimeGrid
	Tick       int
	WorkStart  Slot
	WorkEnd    Slot
}

// Resolve devolve os inícios livres em ordem crescente. Sem profissional
// ou sem duração definida o resultado é vazio.
func (r AvailabilityResolver) Resolve(
	professionalID *uuid.UUID,
	duration int,
	ready bool,
	occ *OccupancyIndex,
) []Slot {
	if professionalID == nil || *professionalID == uuid.Nil || !ready || duration <= 0 || occ == nil {
		return nil
	}

	var out []Slot
	for s := range r.Candidates.All() {
		if r.fits(s, duration, occ) {
			out = append(out, s)
		}
	}
	return out
}

// Fits valida um início arbitrário alinhado ao tick (remarcação).
func (r AvailabilityResolver) Fits(start Slot, duration int, occ *OccupancyIndex) bool {
	if r.Tick <= 0 || int(start)%r.Tick != 0 || start < r.WorkStart {
		return false
	}
	if r.Candidates.Start >= r.Candidates.End {
		return false
	}
	return r.fits(start, duration, occ)
}

func (r AvailabilityResolver) fits(s Slot, duration int, occ *OccupancyIndex) bool {
	e := s.Add(duration)
	if e > r.WorkEnd {
		return false
	}
	return occ.Free(s, e)
}

func ToTimeSlots(slots []Slot, duration int) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, TimeSlot{Start: s.String(), End: s.Add(duration).String()})
	}
	return out
}

func ContainsSlot(slots []Slot, s Slot) bool {
	return slices.Contains(slots, s)
}
