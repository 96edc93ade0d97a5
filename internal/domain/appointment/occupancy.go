package appointment

import (
	"fmt"

	"github.com/google/uuid"
)

// OccupiedRange é o intervalo [Start, End) bloqueado na agenda.
// AppointmentID fica zerado para bloqueios de expediente (almoço).
type OccupiedRange struct {
	AppointmentID  uuid.UUID `json:"appointment_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	Date           string    `json:"date"`
	Start          Slot      `json:"start"`
	End            Slot      `json:"end"`
}

// OccupancyIndex guarda os ticks ocupados de um profissional num dia.
type OccupancyIndex struct {
	ProfessionalID uuid.UUID
	Date           string

	tick   int
	ranges []OccupiedRange
	ticks  map[Slot]struct{}
}

func NewOccupancyIndex(professionalID uuid.UUID, date string, tick int) *OccupancyIndex {
	return &OccupancyIndex{
		ProfessionalID: professionalID,
		Date:           date,
		tick:           tick,
		ticks:          make(map[Slot]struct{}),
	}
}

// Block marca todos os ticks de floor(start) até end (exclusivo).
func (o *OccupancyIndex) Block(appointmentID uuid.UUID, start, end Slot) {
	if end <= start {
		return
	}
	o.ranges = append(o.ranges, OccupiedRange{
		AppointmentID:  appointmentID,
		ProfessionalID: o.ProfessionalID,
		Date:           o.Date,
		Start:          start,
		End:            end,
	})
	for t := start.floorTo(o.tick); t < end; t += Slot(o.tick) {
		o.ticks[t] = struct{}{}
	}
}

func (o *OccupancyIndex) Occupied(t Slot) bool {
	_, ok := o.ticks[t.floorTo(o.tick)]
	return ok
}

// Free diz se nenhum tick de [start, end) está ocupado.
func (o *OccupancyIndex) Free(start, end Slot) bool {
	for t := start.floorTo(o.tick); t < end; t += Slot(o.tick) {
		if _, ok := o.ticks[t]; ok {
			return false
		}
	}
	return true
}

func (o *OccupancyIndex) Ranges() []OccupiedRange {
	return append([]OccupiedRange(nil), o.ranges...)
}

func (o *OccupancyIndex) Tick() int {
	return o.tick
}

// ===============================
// Builder
// ===============================

type OccupancyBuilder struct {
	Durations       DurationResolver
	Tick            int
	FallbackMinutes int // agendamento legado sem linhas de serviço
}

// Build monta o índice do dia. Agendamentos cancelados e o exclude
// (agendamento em edição) não ocupam a agenda.
func (b OccupancyBuilder) Build(
	professionalID uuid.UUID,
	date string,
	bookings []Booking,
	exclude *uuid.UUID,
) (*OccupancyIndex, error) {
	idx := NewOccupancyIndex(professionalID, date, b.Tick)

	for _, bk := range bookings {
		if !bk.Status.Occupies() {
			continue
		}
		if exclude != nil && bk.ID == *exclude {
			continue
		}

		start, err := ParseSlot(bk.Time)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", bk.ID, err)
		}

		duration, ok := b.Durations.Resolve(bk.Selections)
		if !ok {
			duration = b.FallbackMinutes
		}

		idx.Block(bk.ID, start, start.Add(duration))
	}

	return idx, nil
}

// BlockLunch marca a pausa do expediente como ocupada.
func (o *OccupancyIndex) BlockLunch(day WorkDay) {
	if day.HasLunch {
		o.Block(uuid.Nil, day.LunchStart, day.LunchEnd)
	}
}
