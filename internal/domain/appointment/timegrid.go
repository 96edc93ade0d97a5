package appointment

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Slot é um horário em minutos desde a meia-noite.
type Slot int

const dayMinutes = 24 * 60

// ParseSlot aceita "HH:MM" (00:00 até 24:00).
func ParseSlot(hm string) (Slot, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hm), ":")
	if !ok || len(h) != 2 || len(m) != 2 {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || hour < 0 {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	s := Slot(hour*60 + minute)
	if s > dayMinutes {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	return s, nil
}

func MustSlot(hm string) Slot {
	s, err := ParseSlot(hm)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d", int(s)/60, int(s)%60)
}

func (s Slot) Add(minutes int) Slot {
	return s + Slot(minutes)
}

// floorTo alinha para baixo num múltiplo de step contado da meia-noite.
func (s Slot) floorTo(step int) Slot {
	return s - s%Slot(step)
}

// TimeGrid gera os horários [Start, End) a cada Step minutos.
// É um valor puro: cada chamada a All recomeça a sequência.
type TimeGrid struct {
	Start Slot
	End   Slot
	Step  int
}

func NewTimeGrid(start, end Slot, step int) (TimeGrid, error) {
	if step <= 0 {
		return TimeGrid{}, fmt.Errorf("grid step must be positive, got %d", step)
	}
	return TimeGrid{Start: start, End: end, Step: step}, nil
}

func (g TimeGrid) All() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		if g.Step <= 0 {
			return
		}
		for s := g.Start; s < g.End; s += Slot(g.Step) {
			if !yield(s) {
				return
			}
		}
	}
}

func (g TimeGrid) Slots() []Slot {
	return slices.Collect(g.All())
}

// Contains diz se s é um ponto da grade.
func (g TimeGrid) Contains(s Slot) bool {
	if g.Step <= 0 || s < g.Start || s >= g.End {
		return false
	}
	return int(s-g.Start)%g.Step == 0
}
