package handler

import (
	"net/http"
	"strings"

	"bookingflow/internal/booking/core"
	"bookingflow/internal/booking/service"
	"bookingflow/internal/booking/validator"
	apperrors "bookingflow/pkg/errors"
	httputil "bookingflow/pkg/http"
	"bookingflow/pkg/logger"
	"bookingflow/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SessionHandler struct {
	service service.SessionService
	log     *logger.Logger
}

func NewSessionHandler(service service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

type monthRequest struct {
	Direction string `json:"direction"`
}

type dateRequest struct {
	Date string `json:"date"`
}

type slotRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	creatorID := strings.TrimSpace(ps.ByName("creatorId"))
	serviceID := strings.TrimSpace(ps.ByName("serviceId"))

	session, err := h.service.Create(r.Context(), creatorID, serviceID)
	if err != nil {
		h.writeError(w, "Create", err, "")
		return
	}

	if err := httputil.WriteCreated(w, newSessionView(session)); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	session, err := h.service.Get(id)
	h.respond(w, "Get", id, session, err)
}

func (h *SessionHandler) Calendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	session, err := h.service.Get(id)
	if err != nil {
		h.writeError(w, "Calendar", err, id)
		return
	}

	if err := httputil.WriteSuccess(w, newCalendarView(session.Controller.Snapshot())); err != nil {
		h.log.Error("failed to write success response", "handler", "Calendar", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) ChangeMonth(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req monthRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "ChangeMonth", err, id)
		return
	}
	dir, err := core.ParseDirection(req.Direction)
	if err != nil {
		h.writeError(w, "ChangeMonth", apperrors.InvalidInput(err.Error()), id)
		return
	}

	session, err := h.service.ChangeMonth(r.Context(), id, dir)
	h.respond(w, "ChangeMonth", id, session, err)
}

func (h *SessionHandler) SelectDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req dateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SelectDate", err, id)
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		h.writeError(w, "SelectDate", apperrors.InvalidInput("date is required"), id)
		return
	}

	session, err := h.service.SelectDate(r.Context(), id, strings.TrimSpace(req.Date))
	h.respond(w, "SelectDate", id, session, err)
}

func (h *SessionHandler) SelectSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req slotRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SelectSlot", err, id)
		return
	}
	if req.StartTime == "" || req.EndTime == "" {
		h.writeError(w, "SelectSlot", apperrors.InvalidInput("start_time and end_time are required"), id)
		return
	}

	session, err := h.service.SelectSlot(id, model.Slot{StartTime: req.StartTime, EndTime: req.EndTime})
	h.respond(w, "SelectSlot", id, session, err)
}

func (h *SessionHandler) GoBack(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	session, err := h.service.GoBack(id)
	h.respond(w, "GoBack", id, session, err)
}

func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var form validator.ContactForm
	if err := httputil.DecodeJSON(r, &form); err != nil {
		h.writeError(w, "Submit", err, id)
		return
	}

	session, err := h.service.Submit(r.Context(), id, form)
	h.respond(w, "Submit", id, session, err)
}

func (h *SessionHandler) GetConfirmation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	record, err := h.service.Confirmation(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetConfirmation", err, id)
		return
	}

	if err := httputil.WriteSuccess(w, newConfirmationView(record.BookingConfirmation)); err != nil {
		h.log.Error("failed to write success response", "handler", "GetConfirmation", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) respond(w http.ResponseWriter, handler, id string, session *service.Session, err error) {
	if err != nil {
		h.writeError(w, handler, err, id)
		return
	}

	if err := httputil.WriteSuccess(w, newSessionView(session)); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, handler string, err error, id string) {
	appErr := apperrors.AsAppError(toAppError(err, id))
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("booking request failed", "handler", handler, "session_id", id, "error", err)
	}
	httputil.WriteError(w, appErr)
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/booking/:creatorId/:serviceId/sessions", h.Create)
	router.GET("/api/v1/sessions/:id", h.Get)
	router.GET("/api/v1/sessions/:id/calendar", h.Calendar)
	router.POST("/api/v1/sessions/:id/month", h.ChangeMonth)
	router.POST("/api/v1/sessions/:id/date", h.SelectDate)
	router.POST("/api/v1/sessions/:id/slot", h.SelectSlot)
	router.POST("/api/v1/sessions/:id/back", h.GoBack)
	router.POST("/api/v1/sessions/:id/submit", h.Submit)
	router.GET("/api/v1/sessions/:id/confirmation", h.GetConfirmation)
}
