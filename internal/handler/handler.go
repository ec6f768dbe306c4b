// Package handler is the HTTP delivery layer: request decoding, calls into
// the service with the resolved caller, and the response envelope.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"appointease-api/internal/apperr"
	"appointease-api/internal/service"
	"appointease-api/internal/view"
)

type Handler struct {
	svc *service.Service
	log zerolog.Logger
}

func New(svc *service.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) fail(c *gin.Context, err error) {
	if e := apperr.From(err); e != nil {
		c.JSON(e.Status, view.Fail(e.Message, c.Request.URL.Path))
		return
	}
	h.log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, view.Fail("Internal server error", c.Request.URL.Path))
}

func (h *Handler) badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, view.Fail("Invalid request body", c.Request.URL.Path))
}
