package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"appointease-api/internal/middleware"
	"appointease-api/internal/model"
	"appointease-api/internal/service"
	"appointease-api/internal/view"
)

type createAppointmentRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DateTime     time.Time `json:"dateTime"`
	AudioMessage string    `json:"audioMessage"`
	Participant  string    `json:"participant"`
}

type updateAppointmentRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	DateTime     *time.Time `json:"dateTime"`
	AudioMessage *string    `json:"audioMessage"`
}

func (h *Handler) createAppointment(c *gin.Context) {
	caller := middleware.Caller(c)

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c)
		return
	}

	a, err := h.svc.CreateAppointment(c.Request.Context(), caller, service.CreateAppointmentInput{
		Title:         req.Title,
		Description:   req.Description,
		DateTime:      req.DateTime,
		AudioMessage:  req.AudioMessage,
		ParticipantID: req.Participant,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, view.OK("Appointment created successfully",
		gin.H{"appointment": view.NewAppointmentDetail(a, caller.ID, time.Now())}))
}

func (h *Handler) listAppointments(c *gin.Context) {
	caller := middleware.Caller(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	res, err := h.svc.ListAppointments(c.Request.Context(), caller, model.AppointmentFilter{
		Search:     c.Query("search"),
		Status:     model.Status(c.Query("status")),
		DateFilter: c.Query("dateFilter"),
		Role:       c.Query("role"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	rows := make([]view.AppointmentRow, 0, len(res.Appointments))
	for i := range res.Appointments {
		rows = append(rows, view.NewAppointmentRow(&res.Appointments[i], caller.ID))
	}

	c.JSON(http.StatusOK, view.OKWithMeta(
		"Appointments retrieved successfully",
		gin.H{"appointments": rows},
		view.Meta{Page: res.Page, Limit: res.Limit, Count: len(rows), Total: res.Total},
	))
}

func (h *Handler) getAppointment(c *gin.Context) {
	caller := middleware.Caller(c)

	a, err := h.svc.GetAppointment(c.Request.Context(), caller, c.Param("appointmentId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, view.OK("Appointment retrieved successfully",
		gin.H{"appointment": view.NewAppointmentDetail(a, caller.ID, time.Now())}))
}

func (h *Handler) updateAppointment(c *gin.Context) {
	caller := middleware.Caller(c)

	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c)
		return
	}

	a, err := h.svc.UpdateAppointment(c.Request.Context(), caller, c.Param("appointmentId"),
		service.UpdateAppointmentInput{
			Title:        req.Title,
			Description:  req.Description,
			DateTime:     req.DateTime,
			AudioMessage: req.AudioMessage,
		})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, view.OK("Appointment updated successfully",
		gin.H{"appointment": view.NewAppointmentDetail(a, caller.ID, time.Now())}))
}

func (h *Handler) cancelAppointment(c *gin.Context) {
	h.transition(c, h.svc.CancelAppointment, "Appointment cancelled successfully")
}

func (h *Handler) acceptAppointment(c *gin.Context) {
	h.transition(c, h.svc.AcceptAppointment, "Appointment accepted successfully")
}

func (h *Handler) declineAppointment(c *gin.Context) {
	h.transition(c, h.svc.DeclineAppointment, "Appointment declined successfully")
}

func (h *Handler) transition(
	c *gin.Context,
	op func(ctx context.Context, caller *model.User, id string) (*model.Appointment, error),
	message string,
) {
	caller := middleware.Caller(c)

	a, err := op(c.Request.Context(), caller, c.Param("appointmentId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, view.OK(message,
		gin.H{"appointment": view.NewAppointmentDetail(a, caller.ID, time.Now())}))
}
