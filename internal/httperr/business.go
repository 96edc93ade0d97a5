package httperr

import "errors"

// Kind classifica os erros de negócio devolvidos pelo motor de agenda.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindSlotConflict Kind = "slot_conflict"
	KindPersistence  Kind = "persistence"
	KindPartialWrite Kind = "partial_write"
	KindFinalization Kind = "finalization"
	KindNotFound     Kind = "not_found"
)

type BusinessError struct {
	Kind Kind
	Code string
	Err  error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

// ErrBusiness cria um erro de validação (verificado antes de qualquer I/O).
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func SlotConflict(code string) error {
	return BusinessError{Kind: KindSlotConflict, Code: code}
}

func NotFound(code string, err error) error {
	return BusinessError{Kind: KindNotFound, Code: code, Err: err}
}

func Persistence(code string, err error) error {
	return BusinessError{Kind: KindPersistence, Code: code, Err: err}
}

// PartialWrite sinaliza que o cabeçalho foi gravado mas as linhas de serviço não.
func PartialWrite(code string, err error) error {
	return BusinessError{Kind: KindPartialWrite, Code: code, Err: err}
}

func Finalization(code string, err error) error {
	return BusinessError{Kind: KindFinalization, Code: code, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf devolve o Kind do erro, ou "" para erros que não são de negócio.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
