package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusFor mapeia o Kind para o status HTTP.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindSlotConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindFinalization:
		return http.StatusUnprocessableEntity
	case KindPartialWrite:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[Kind]string{
	KindValidation:   "Dados inválidos.",
	KindSlotConflict: "Horário indisponível, escolha outro.",
	KindNotFound:     "Registro não encontrado.",
	KindFinalization: "Não foi possível finalizar o agendamento.",
	KindPartialWrite: "Agendamento salvo, mas os serviços não foram gravados.",
	KindPersistence:  "Erro ao gravar os dados.",
}

// Respond escreve qualquer erro do motor no formato padrão da API.
func Respond(c *gin.Context, err error) {
	kind := KindOf(err)
	code := CodeOf(err)
	if code == "" {
		code = "internal_error"
	}
	msg, ok := messages[kind]
	if !ok {
		msg = "Erro interno."
	}
	Write(c, StatusFor(kind), code, msg)
}
