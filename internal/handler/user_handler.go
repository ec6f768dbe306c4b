package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"appointease-api/internal/middleware"
	"appointease-api/internal/view"
)

func (h *Handler) getMe(c *gin.Context) {
	caller := middleware.Caller(c)

	u, err := h.svc.Me(c.Request.Context(), caller)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, view.OK("User data retrieved", gin.H{"user": view.NewUserDetail(u)}))
}

func (h *Handler) getUsers(c *gin.Context) {
	caller := middleware.Caller(c)

	matches, err := h.svc.SearchUsers(c.Request.Context(), caller, c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}

	users := make([]view.UserRow, 0, len(matches))
	for _, m := range matches {
		users = append(users, view.NewUserRow(m))
	}

	c.JSON(http.StatusOK, view.OKWithMeta(
		"Users retrieved successfully",
		gin.H{"users": users},
		view.Meta{Count: len(users)},
	))
}
