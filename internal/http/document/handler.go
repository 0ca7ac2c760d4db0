package document

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/document"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

const maxUploadForm = 12 << 20

type Handler struct {
	svc *document.Service
}

func NewHandler(svc *document.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type documentResponse struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Type       document.Type `json:"type"`
	URL        string        `json:"url"`
	Size       int64         `json:"size"`
	MimeType   string        `json:"mime_type"`
	DealID     *uuid.UUID    `json:"deal_id,omitempty"`
	PropertyID *uuid.UUID    `json:"property_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

func toResponse(d *document.Document) documentResponse {
	return documentResponse{
		ID:         d.ID,
		Name:       d.Name,
		Type:       d.Type,
		URL:        d.URL,
		Size:       d.Size,
		MimeType:   d.MimeType,
		DealID:     d.DealID,
		PropertyID: d.PropertyID,
		CreatedAt:  d.CreatedAt,
	}
}

func parseOptionalID(s string) (*uuid.UUID, bool) {
	if s == "" {
		return nil, true
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}

	return &id, true
}

// upload takes a multipart "file" plus optional "name", "type", "deal_id"
// and "property_id" fields.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadForm); err != nil {
		render.Message(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Message(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	dealID, ok := parseOptionalID(r.FormValue("deal_id"))
	if !ok {
		render.Message(w, http.StatusBadRequest, "invalid deal_id")
		return
	}

	propertyID, ok := parseOptionalID(r.FormValue("property_id"))
	if !ok {
		render.Message(w, http.StatusBadRequest, "invalid property_id")
		return
	}

	sess, _ := session.FromContext(r.Context())

	d, err := h.svc.Upload(r.Context(), sess, document.UploadParams{
		Filename:   header.Filename,
		Name:       r.FormValue("name"),
		Type:       document.Type(r.FormValue("type")),
		DealID:     dealID,
		PropertyID: propertyID,
	}, file)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	dealID, ok := parseOptionalID(r.URL.Query().Get("deal_id"))
	if !ok {
		render.Message(w, http.StatusBadRequest, "invalid deal_id")
		return
	}

	propertyID, ok := parseOptionalID(r.URL.Query().Get("property_id"))
	if !ok {
		render.Message(w, http.StatusBadRequest, "invalid property_id")
		return
	}

	sess, _ := session.FromContext(r.Context())

	docs, err := h.svc.List(r.Context(), sess, document.ListFilter{DealID: dealID, PropertyID: propertyID})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]documentResponse, len(docs))
	for i, d := range docs {
		resp[i] = toResponse(d)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	sess, _ := session.FromContext(r.Context())

	d, err := h.svc.Get(r.Context(), sess, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(d))
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
