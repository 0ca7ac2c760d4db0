package analytics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dealdesk/internal/analytics"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

// dashboard accepts optional start and end dates (YYYY-MM-DD). The end date
// is inclusive.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	var rng analytics.Range

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			render.Message(w, http.StatusBadRequest, "invalid start date")
			return
		}

		rng.Start = t
	}

	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			render.Message(w, http.StatusBadRequest, "invalid end date")
			return
		}

		rng.End = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if !rng.Start.IsZero() && !rng.End.IsZero() && rng.End.Before(rng.Start) {
		render.Message(w, http.StatusBadRequest, "end date is before start date")
		return
	}

	sess, _ := session.FromContext(r.Context())

	dash, err := h.svc.Dashboard(r.Context(), sess, rng)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, dash)
}
