package appointment

// DurationResolver soma a duração de uma seleção de serviços.
type DurationResolver struct {
	MinMinutes     int
	DefaultMinutes int // serviço sem estimated_time cadastrado
}

// Resolve devolve ok=false para seleção vazia: sem serviços não há
// duração definida e nada deve ser agendado.
func (r DurationResolver) Resolve(sel []ServiceSelection) (int, bool) {
	if len(sel) == 0 {
		return 0, false
	}

	total := 0
	for _, s := range sel {
		total += r.term(s)
	}
	return total, true
}

func (r DurationResolver) term(s ServiceSelection) int {
	m := s.EstimatedTime
	if m <= 0 {
		m = r.DefaultMinutes
	}
	if s.CustomTime != nil {
		m = *s.CustomTime
	}
	if m < r.MinMinutes {
		m = r.MinMinutes
	}
	return m
}
