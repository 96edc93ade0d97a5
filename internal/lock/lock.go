package lock

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ErrNotAcquired: a chave continuou ocupada até o fim da espera.
var ErrNotAcquired = errors.New("lock: not acquired")

// Locker serializa operações por chave. A função devolvida libera o lock
// e pode ser chamada mais de uma vez.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ScheduleKey serializa mutações na agenda de um profissional num dia.
func ScheduleKey(professionalID uuid.UUID, date string) string {
	return fmt.Sprintf("lock:agenda:%s:%s", professionalID, date)
}

// AppointmentKey serializa finalizações de um agendamento.
func AppointmentKey(id uuid.UUID) string {
	return fmt.Sprintf("lock:appointment:%s", id)
}

// LockAll trava várias chaves em ordem fixa (sem repetição).
func LockAll(ctx context.Context, l Locker, keys ...string) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	unlocks := make([]func(), 0, len(sorted))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, k := range sorted {
		unlock, err := l.Lock(ctx, k)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}
