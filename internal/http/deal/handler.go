package deal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type Handler struct {
	svc    *deal.Service
	packet *export.Service
}

func NewHandler(svc *deal.Service, packet *export.Service) *Handler {
	return &Handler{svc: svc, packet: packet}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Get("/{id}/packet", h.downloadPacket)
}

type saveDealRequest struct {
	BuyerID    *uuid.UUID `json:"buyer_id"`
	BuyerName  string     `json:"buyer_name"`
	SellerID   *uuid.UUID `json:"seller_id"`
	SellerName string     `json:"seller_name"`

	PropertyAddress string `json:"property_address"`

	PurchasePrice     amount `json:"purchase_price"`
	OfferPrice        amount `json:"offer_price"`
	CommissionPercent amount `json:"commission_percent"`
	CommissionSplit   amount `json:"commission_split"`

	Status deal.Status `json:"status"`

	ContractDate      *time.Time `json:"contract_date"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	ActualCloseDate   *time.Time `json:"actual_close_date"`

	Notes string `json:"notes"`
}

// amount accepts a JSON number or a user-entered string such as "$500,000"
// or "3%". Blank, unparseable and negative values decode to zero.
type amount decimal.Decimal

func (a *amount) UnmarshalJSON(b []byte) error {
	raw := string(b)

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		raw = s
	}

	*a = amount(deal.ParseAmount(raw))

	return nil
}

func (req saveDealRequest) params(id *uuid.UUID) deal.SaveParams {
	return deal.SaveParams{
		ID:                id,
		BuyerID:           req.BuyerID,
		BuyerName:         req.BuyerName,
		SellerID:          req.SellerID,
		SellerName:        req.SellerName,
		PropertyAddress:   req.PropertyAddress,
		PurchasePrice:     decimal.Decimal(req.PurchasePrice),
		OfferPrice:        decimal.Decimal(req.OfferPrice),
		CommissionPercent: decimal.Decimal(req.CommissionPercent),
		CommissionSplit:   decimal.Decimal(req.CommissionSplit),
		Status:            req.Status,
		ContractDate:      req.ContractDate,
		ExpectedCloseDate: req.ExpectedCloseDate,
		ActualCloseDate:   req.ActualCloseDate,
		Notes:             req.Notes,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req saveDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	d, err := h.svc.Save(r.Context(), sess, req.params(nil))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req saveDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	d, err := h.svc.Save(r.Context(), sess, req.params(&id))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := deal.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		filter.Status = new(deal.ParseStatus(s))
	}

	if s := q.Get("buyer_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.BuyerID = &id
		}
	}

	if s := q.Get("seller_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.SellerID = &id
		}
	}

	sess, _ := session.FromContext(r.Context())

	deals, err := h.svc.List(r.Context(), sess, filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(deals))
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

type updateStatusRequest struct {
	Status deal.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())

	d, err := h.svc.UpdateStatus(r.Context(), sess, id, req.Status)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) downloadPacket(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	sess, _ := session.FromContext(r.Context())

	// Buffered so a failed export can still answer with an error status.
	var buf bytes.Buffer
	if err := h.packet.WriteZip(r.Context(), sess, id, &buf); err != nil {
		render.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"deal_%s_%s.zip\"", id.String()[:8], time.Now().Format("20060102")))

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write packet", "deal_id", id, "error", err)
	}
}
