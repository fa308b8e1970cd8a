package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"become/internal/engine"
)

type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// StatusFor maps an engine error kind to an HTTP status.
func StatusFor(err error) int {
	switch engine.KindOf(err) {
	case engine.KindValidation:
		return http.StatusBadRequest
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	body := ErrorBody{Error: "internal", Reason: "internal error"}
	var e *engine.Error
	if errors.As(err, &e) {
		body = ErrorBody{Error: string(e.Kind), Reason: e.Reason}
	}
	c.AbortWithStatusJSON(status, body)
}

func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: string(engine.KindValidation), Reason: err.Error()})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// orEmpty keeps empty lists encoding as [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
