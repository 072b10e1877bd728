package handler

import (
	"net/http"

	"workconnect/internal/model"
	"workconnect/internal/service"
)

type NotificationsHandler struct {
	responder
	service *service.NotificationService
}

func NewNotificationsHandler(svc *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: svc}
}

func (h *NotificationsHandler) name() string { return "notifications" }

func (h *NotificationsHandler) actions() actionSet {
	return actionSet{
		actionKey(http.MethodGet, "list"):          h.List,
		actionKey(http.MethodPut, "mark_read"):     h.MarkRead,
		actionKey(http.MethodPut, "mark_all_read"): h.MarkAllRead,
	}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	inbox, err := h.service.List(r.Context(), caller(r).UserID, queryInt(r, "limit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Notifications retrieved", inbox)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var payload model.NotificationRefRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.MarkRead(r.Context(), caller(r).UserID, payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Notification marked as read.", nil)
}

func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.MarkAllRead(r.Context(), caller(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "All notifications marked as read.", map[string]int64{"updated": updated})
}
