package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Schedule reúne os parâmetros ajustáveis da agenda.
type Schedule struct {
	WorkStart             Slot
	WorkEnd               Slot
	SlotStep              int // grade de horários oferecidos
	Tick                  int // resolução da checagem de sobreposição
	MinServiceMinutes     int
	DefaultServiceMinutes int
}

func DefaultSchedule() Schedule {
	return Schedule{
		WorkStart:             8 * 60,
		WorkEnd:               20 * 60,
		SlotStep:              30,
		Tick:                  15,
		MinServiceMinutes:     15,
		DefaultServiceMinutes: 30,
	}
}

// NewSchedule monta a agenda a partir da configuração textual.
func NewSchedule(workStart, workEnd string, slotStep, tick, minService, defaultService int) (Schedule, error) {
	start, err := ParseSlot(workStart)
	if err != nil {
		return Schedule{}, err
	}
	end, err := ParseSlot(workEnd)
	if err != nil {
		return Schedule{}, err
	}
	if end <= start {
		return Schedule{}, fmt.Errorf("work end %s must be after start %s", end, start)
	}
	if slotStep <= 0 || tick <= 0 || slotStep%tick != 0 {
		return Schedule{}, fmt.Errorf("slot step %d must be a positive multiple of tick %d", slotStep, tick)
	}
	return Schedule{
		WorkStart:             start,
		WorkEnd:               end,
		SlotStep:              slotStep,
		Tick:                  tick,
		MinServiceMinutes:     minService,
		DefaultServiceMinutes: defaultService,
	}, nil
}

func (s Schedule) Durations() DurationResolver {
	return DurationResolver{MinMinutes: s.MinServiceMinutes, DefaultMinutes: s.DefaultServiceMinutes}
}

func (s Schedule) Occupancy() OccupancyBuilder {
	return OccupancyBuilder{Durations: s.Durations(), Tick: s.Tick, FallbackMinutes: s.DefaultServiceMinutes}
}

// WorkDay é o expediente efetivo de um profissional num dia.
type WorkDay struct {
	Open       bool
	Start      Slot
	End        Slot
	LunchStart Slot
	LunchEnd   Slot
	HasLunch   bool
}

// WorkDayFor aplica o expediente cadastrado (se houver) sobre o padrão.
func (s Schedule) WorkDayFor(wh *models.WorkingHours) (WorkDay, error) {
	day := WorkDay{Open: true, Start: s.WorkStart, End: s.WorkEnd}
	if wh == nil {
		return day, nil
	}
	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return WorkDay{}, nil
	}

	var err error
	if day.Start, err = ParseSlot(wh.StartTime); err != nil {
		return WorkDay{}, err
	}
	if day.End, err = ParseSlot(wh.EndTime); err != nil {
		return WorkDay{}, err
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		if day.LunchStart, err = ParseSlot(wh.LunchStart); err != nil {
			return WorkDay{}, err
		}
		if day.LunchEnd, err = ParseSlot(wh.LunchEnd); err != nil {
			return WorkDay{}, err
		}
		day.HasLunch = day.LunchEnd > day.LunchStart
	}
	return day, nil
}

// Resolver devolve o AvailabilityResolver do dia.
func (s Schedule) Resolver(day WorkDay) AvailabilityResolver {
	grid := TimeGrid{Step: s.SlotStep}
	if day.Open {
		// o primeiro candidato fica alinhado à grade a partir da meia-noite
		first := day.Start
		if r := int(first) % s.SlotStep; r != 0 {
			first = first.Add(s.SlotStep - r)
		}
		grid.Start, grid.End = first, day.End
	}
	return AvailabilityResolver{Candidates: grid, Tick: s.Tick, WorkStart: day.Start, WorkEnd: day.End}
}
