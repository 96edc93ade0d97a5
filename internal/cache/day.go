package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// dayGenerationTTL precisa ficar bem acima do TTL da ocupação.
const dayGenerationTTL = 48 * time.Hour

const initialGeneration = "0"

// CurrentDayKey devolve a chave da ocupação na geração atual do dia.
// ok é false quando a geração não pôde ser lida; nesse caso o cache deve
// ser ignorado.
func CurrentDayKey(ctx context.Context, store Store, professionalID uuid.UUID, date string) (key string, ok bool) {
	raw, err := store.Get(ctx, DayGenerationKey(professionalID, date))
	switch {
	case errors.Is(err, ErrMiss):
		return DayKey(professionalID, date, initialGeneration), true
	case err != nil:
		return "", false
	}
	return DayKey(professionalID, date, string(raw)), true
}

// ForgetDay abre uma nova geração para o dia. Valores carregados antes da
// chamada, mesmo que gravados depois dela, ficam na geração antiga e não
// são mais lidos.
func ForgetDay(ctx context.Context, store Store, professionalID uuid.UUID, date string) error {
	return store.Set(ctx, DayGenerationKey(professionalID, date), []byte(uuid.NewString()), dayGenerationTTL)
}
