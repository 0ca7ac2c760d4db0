package contact

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

const maxImportSize = 10 << 20

type Handler struct {
	svc       *contact.Service
	importSvc *importer.Service
}

func NewHandler(svc *contact.Service, importSvc *importer.Service) *Handler {
	return &Handler{svc: svc, importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type contactRequest struct {
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Address         string            `json:"address"`
	Notes           string            `json:"notes"`
	Role            contact.Role      `json:"role"`
	BuyerType       contact.BuyerType `json:"buyer_type"`
	ActivelyBuying  bool              `json:"actively_buying"`
	ActivelySelling bool              `json:"actively_selling"`
}

func (req contactRequest) params() contact.CreateParams {
	return contact.CreateParams{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Notes:           req.Notes,
		Role:            req.Role,
		BuyerType:       req.BuyerType,
		ActivelyBuying:  req.ActivelyBuying,
		ActivelySelling: req.ActivelySelling,
	}
}

type contactResponse struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Address         string            `json:"address,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Role            contact.Role      `json:"role"`
	BuyerType       contact.BuyerType `json:"buyer_type,omitempty"`
	ActivelyBuying  bool              `json:"actively_buying"`
	ActivelySelling bool              `json:"actively_selling"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       *time.Time        `json:"updated_at,omitempty"`
}

func toResponse(c *contact.Contact) contactResponse {
	return contactResponse{
		ID:              c.ID,
		Name:            c.Name(),
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		Notes:           c.Notes,
		Role:            c.Role,
		BuyerType:       c.BuyerType,
		ActivelyBuying:  c.ActivelyBuying,
		ActivelySelling: c.ActivelySelling,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toResponseList(cs []*contact.Contact) []contactResponse {
	resp := make([]contactResponse, len(cs))
	for i, c := range cs {
		resp[i] = toResponse(c)
	}

	return resp
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	c, err := h.svc.Create(r.Context(), sess, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := contact.ListFilter{}

	if s := r.URL.Query().Get("role"); s != "" {
		filter.Role = new(contact.Role(s))
	}

	sess, _ := session.FromContext(r.Context())

	cs, err := h.svc.List(r.Context(), sess, filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(cs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	sess, _ := session.FromContext(r.Context())

	c, err := h.svc.Get(r.Context(), sess, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	c, err := h.svc.Update(r.Context(), sess, id, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
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

type importResponse struct {
	Parsed   int               `json:"parsed"`
	Imported int               `json:"imported"`
	Contacts []contactResponse `json:"contacts"`
	Error    string            `json:"error,omitempty"`
}

// importCSV takes a multipart "file" and an optional "role" applied to rows
// without a recognized one. A row failure answers 422 with the contacts
// created before it.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		render.Message(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Message(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	role := contact.Role(r.FormValue("role"))
	if role == "" {
		role = contact.RoleBuyer
	}

	sess, _ := session.FromContext(r.Context())

	res, err := h.importSvc.Import(r.Context(), sess, file, role)
	if res == nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := importResponse{
		Parsed:   res.Parsed,
		Imported: len(res.Created),
		Contacts: toResponseList(res.Created),
	}

	if err != nil {
		resp.Error = err.Error()
		render.JSON(w, http.StatusUnprocessableEntity, resp)

		return
	}

	render.JSON(w, http.StatusCreated, resp)
}
