package property

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/property"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

// Slightly above the CDN cap so oversized photos reach the CDN client and
// get its error.
const maxPhotoForm = 12 << 20

type Handler struct {
	svc *property.Service
}

func NewHandler(svc *property.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/photos", h.addPhoto)
	r.Delete("/{id}/photos/{index}", h.removePhoto)
}

type propertyRequest struct {
	Address     property.Address `json:"address"`
	Beds        int              `json:"beds"`
	Baths       float64          `json:"baths"`
	SqFt        int              `json:"sqft"`
	LotSize     float64          `json:"lot_size"`
	YearBuilt   int              `json:"year_built"`
	Status      property.Status  `json:"status"`
	ListPrice   decimal.Decimal  `json:"list_price"`
	HOA         decimal.Decimal  `json:"hoa"`
	Taxes       decimal.Decimal  `json:"taxes"`
	Description string           `json:"description"`
	Features    []string         `json:"features"`
	SellerID    *uuid.UUID       `json:"seller_id"`
}

func (req propertyRequest) params() property.SaveParams {
	return property.SaveParams{
		Address:     req.Address,
		Beds:        req.Beds,
		Baths:       req.Baths,
		SqFt:        req.SqFt,
		LotSize:     req.LotSize,
		YearBuilt:   req.YearBuilt,
		Status:      req.Status,
		ListPrice:   req.ListPrice,
		HOA:         req.HOA,
		Taxes:       req.Taxes,
		Description: req.Description,
		Features:    req.Features,
		SellerID:    req.SellerID,
	}
}

type propertyResponse struct {
	ID           uuid.UUID        `json:"id"`
	Address      property.Address `json:"address"`
	Summary      string           `json:"summary"`
	Beds         int              `json:"beds"`
	Baths        float64          `json:"baths"`
	SqFt         int              `json:"sqft"`
	LotSize      float64          `json:"lot_size"`
	YearBuilt    int              `json:"year_built"`
	Status       property.Status  `json:"status"`
	ListPrice    decimal.Decimal  `json:"list_price"`
	PricePerSqFt decimal.Decimal  `json:"price_per_sqft"`
	HOA          decimal.Decimal  `json:"hoa"`
	Taxes        decimal.Decimal  `json:"taxes"`
	Description  string           `json:"description"`
	Features     []string         `json:"features"`
	Photos       []property.Photo `json:"photos"`
	SellerID     *uuid.UUID       `json:"seller_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(p *property.Property) propertyResponse {
	resp := propertyResponse{
		ID:           p.ID,
		Address:      p.Address,
		Summary:      p.Address.String(),
		Beds:         p.Beds,
		Baths:        p.Baths,
		SqFt:         p.SqFt,
		LotSize:      p.LotSize,
		YearBuilt:    p.YearBuilt,
		Status:       p.Status,
		ListPrice:    p.ListPrice,
		PricePerSqFt: p.PricePerSqFt(),
		HOA:          p.HOA,
		Taxes:        p.Taxes,
		Description:  p.Description,
		Features:     p.Features,
		Photos:       p.Photos,
		SellerID:     p.SellerID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	if resp.Features == nil {
		resp.Features = []string{}
	}

	if resp.Photos == nil {
		resp.Photos = []property.Photo{}
	}

	return resp
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	p, err := h.svc.Create(r.Context(), sess, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := property.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(property.Status(s))
	}

	if s := r.URL.Query().Get("seller_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.SellerID = &id
		}
	}

	sess, _ := session.FromContext(r.Context())

	props, err := h.svc.List(r.Context(), sess, filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]propertyResponse, len(props))
	for i, p := range props {
		resp[i] = toResponse(p)
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

	p, err := h.svc.Get(r.Context(), sess, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	p, err := h.svc.Update(r.Context(), sess, id, req.params())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
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

func (h *Handler) addPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoForm); err != nil {
		render.Message(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Message(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	sess, _ := session.FromContext(r.Context())

	p, err := h.svc.AddPhoto(r.Context(), sess, id, header.Filename, file)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) removePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid photo index")
		return
	}

	sess, _ := session.FromContext(r.Context())

	p, err := h.svc.RemovePhoto(r.Context(), sess, id, index)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}
