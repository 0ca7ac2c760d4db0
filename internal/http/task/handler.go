package task

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/task"
)

type Handler struct {
	svc *task.Service
	now func() time.Time
}

func NewHandler(svc *task.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/overdue", h.overdue)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/complete", h.complete)
	r.Post("/{id}/reopen", h.reopen)
}

type taskRequest struct {
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Type              task.Type     `json:"type"`
	Priority          task.Priority `json:"priority"`
	DueDate           *time.Time    `json:"due_date"`
	DealID            *uuid.UUID    `json:"deal_id"`
	ContactID         *uuid.UUID    `json:"contact_id"`
	PropertyID        *uuid.UUID    `json:"property_id"`
	AssigneeContactID *uuid.UUID    `json:"assignee_contact_id"`
}

func (req taskRequest) params() task.SaveParams {
	return task.SaveParams{
		Title:             req.Title,
		Description:       req.Description,
		Type:              req.Type,
		Priority:          req.Priority,
		DueDate:           req.DueDate,
		DealID:            req.DealID,
		ContactID:         req.ContactID,
		PropertyID:        req.PropertyID,
		AssigneeContactID: req.AssigneeContactID,
	}
}

type taskResponse struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Type        task.Type     `json:"type"`
	Priority    task.Priority `json:"priority"`
	Status      task.Status   `json:"status"`
	Overdue     bool          `json:"overdue"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	DealID      *uuid.UUID    `json:"deal_id,omitempty"`
	ContactID   *uuid.UUID    `json:"contact_id,omitempty"`
	PropertyID  *uuid.UUID    `json:"property_id,omitempty"`
	Assignee    task.Assignee `json:"assignee"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

func (h *Handler) toResponse(t *task.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		Priority:    t.Priority,
		Status:      t.Status,
		Overdue:     t.IsOverdue(h.now()),
		DueDate:     t.DueDate,
		DealID:      t.DealID,
		ContactID:   t.ContactID,
		PropertyID:  t.PropertyID,
		Assignee:    t.Assignee,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *Handler) toResponseList(tasks []*task.Task) []taskResponse {
	resp := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = h.toResponse(t)
	}

	return resp
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	t, err := h.svc.Create(r.Context(), sess, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, h.toResponse(t))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := task.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		filter.Status = new(task.Status(s))
	}

	for key, dst := range map[string]**uuid.UUID{
		"deal_id":     &filter.DealID,
		"contact_id":  &filter.ContactID,
		"property_id": &filter.PropertyID,
	} {
		if s := q.Get(key); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				render.Message(w, http.StatusBadRequest, "invalid "+key)
				return
			}

			*dst = &id
		}
	}

	sess, _ := session.FromContext(r.Context())

	tasks, err := h.svc.List(r.Context(), sess, filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.toResponseList(tasks))
}

func (h *Handler) overdue(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	tasks, err := h.svc.Overdue(r.Context(), sess)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.toResponseList(tasks))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	sess, _ := session.FromContext(r.Context())

	t, err := h.svc.Get(r.Context(), sess, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.toResponse(t))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	t, err := h.svc.Update(r.Context(), sess, id, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	sess, _ := session.FromContext(r.Context())

	if err := h.svc.Delete(r.Context(), sess, id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.Complete)
}

func (h *Handler) reopen(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.Reopen)
}

type statusFunc func(ctx context.Context, sess session.Session, id uuid.UUID) (*task.Task, error)

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, fn statusFunc) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	sess, _ := session.FromContext(r.Context())

	t, err := fn(r.Context(), sess, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, h.toResponse(t))
}
