package validators

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsIdentifier aceita só UUIDs na forma canônica de 36 caracteres.
func IsIdentifier(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func IsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func IsMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

func IsClock(s string) bool {
	return clockRe.MatchString(s)
}
