package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

type NotificationHandler struct {
	base
	repo repository.NotificationRepository
}

func NewNotificationHandler(repo repository.NotificationRepository, b base) *NotificationHandler {
	return &NotificationHandler{base: b, repo: repo}
}

// List returns notifications newest first. unread=true (or unreadOnly=true)
// hides acknowledged ones.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unread, err := queryBool(q, "unread")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if unread == nil {
		if unread, err = queryBool(q, "unreadOnly"); err != nil {
			badRequest(w, r, err)
			return
		}
	}

	items, err := h.repo.List(r.Context(), model.NotificationFilter{
		UnreadOnly:      unread != nil && *unread,
		Type:            model.NotificationType(q.Get("type")),
		RelatedEntityID: q.Get("entityId"),
	})
	if err != nil {
		h.fail(w, r, err, "notification", "")
		return
	}
	writeList(w, items)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context(), model.NotificationFilter{UnreadOnly: true})
	if err != nil {
		h.fail(w, r, err, "notification", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": len(items)})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.repo.MarkAsRead(ctx, id); err != nil {
		h.fail(w, r, err, "notification", id)
		return
	}
	n, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "notification", id)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.repo.MarkAllAsRead(r.Context())
	if err != nil {
		h.fail(w, r, err, "notification", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "notification", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteAll(r.Context()); err != nil {
		h.fail(w, r, err, "notification", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
