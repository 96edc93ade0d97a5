package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Warning acompanha uma gravação que deu certo só em parte.
type Warning struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// PartialResponse é o corpo do 207: o agendamento gravado e o que faltou.
type PartialResponse[T any] struct {
	Appointment T       `json:"appointment"`
	Warning     Warning `json:"warning"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

// Partial responde 207 Multi-Status.
func Partial[T any](c *gin.Context, data T, code, message string) {
	c.JSON(http.StatusMultiStatus, PartialResponse[T]{
		Appointment: data,
		Warning:     Warning{Code: code, Message: message},
	})
}
