package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/docstore"
)

type Store struct {
	docs *docstore.Store
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

type dealDoc struct {
	BuyerID    *uuid.UUID `json:"buyer_id,omitempty"`
	BuyerName  string     `json:"buyer_name"`
	SellerID   *uuid.UUID `json:"seller_id,omitempty"`
	SellerName string     `json:"seller_name"`

	PropertyAddress string `json:"property_address"`

	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	OfferPrice        decimal.Decimal `json:"offer_price"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	CommissionSplit   decimal.Decimal `json:"commission_split"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
	AgentEarnings     decimal.Decimal `json:"agent_earnings"`

	Status string `json:"status"`

	ContractDate      *time.Time `json:"contract_date,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	ActualCloseDate   *time.Time `json:"actual_close_date,omitempty"`

	Notes string `json:"notes"`
}

func toDoc(d *deal.Deal) dealDoc {
	return dealDoc{
		BuyerID:           d.BuyerID,
		BuyerName:         d.BuyerName,
		SellerID:          d.SellerID,
		SellerName:        d.SellerName,
		PropertyAddress:   d.PropertyAddress,
		PurchasePrice:     d.PurchasePrice,
		OfferPrice:        d.OfferPrice,
		CommissionPercent: d.CommissionPercent,
		CommissionSplit:   d.CommissionSplit,
		CommissionAmount:  d.CommissionAmount,
		AgentEarnings:     d.AgentEarnings,
		Status:            string(d.Status),
		ContractDate:      d.ContractDate,
		ExpectedCloseDate: d.ExpectedCloseDate,
		ActualCloseDate:   d.ActualCloseDate,
		Notes:             d.Notes,
	}
}

// fromRecord rebuilds a deal. Records written by older clients may carry
// free-form statuses or stale commission figures, so both are normalized.
func fromRecord(r docstore.Record) (*deal.Deal, error) {
	var doc dealDoc
	if err := r.Decode(&doc); err != nil {
		return nil, err
	}

	d := &deal.Deal{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		BuyerID:           doc.BuyerID,
		BuyerName:         doc.BuyerName,
		SellerID:          doc.SellerID,
		SellerName:        doc.SellerName,
		PropertyAddress:   doc.PropertyAddress,
		PurchasePrice:     deal.NonNegative(doc.PurchasePrice),
		OfferPrice:        deal.NonNegative(doc.OfferPrice),
		CommissionPercent: deal.NonNegative(doc.CommissionPercent),
		CommissionSplit:   deal.NonNegative(doc.CommissionSplit),
		Status:            deal.ParseStatus(doc.Status),
		ContractDate:      doc.ContractDate,
		ExpectedCloseDate: doc.ExpectedCloseDate,
		ActualCloseDate:   doc.ActualCloseDate,
		Notes:             doc.Notes,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	d.Recalculate()

	return d, nil
}

func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return deal.ErrNotFound
	}

	return err
}

func (s *Store) CreateDeal(ctx context.Context, d *deal.Deal) error {
	r, err := s.docs.Create(ctx, docstore.Deals, d.OwnerID, toDoc(d))
	if err != nil {
		return fmt.Errorf("creating deal: %w", err)
	}

	d.ID = r.ID
	d.CreatedAt = r.CreatedAt

	return nil
}

func (s *Store) GetDeal(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*deal.Deal, error) {
	r, err := s.docs.Get(ctx, docstore.Deals, id, owner)
	if err != nil {
		return nil, notFound(err)
	}

	return fromRecord(r)
}

func (s *Store) UpdateDeal(ctx context.Context, d *deal.Deal, owner *uuid.UUID) error {
	// Cleared optional fields must overwrite what is stored, so the patch is
	// the full document with explicit nulls.
	doc := toDoc(d)
	patch := map[string]any{
		"buyer_id":            doc.BuyerID,
		"buyer_name":          doc.BuyerName,
		"seller_id":           doc.SellerID,
		"seller_name":         doc.SellerName,
		"property_address":    doc.PropertyAddress,
		"purchase_price":      doc.PurchasePrice,
		"offer_price":         doc.OfferPrice,
		"commission_percent":  doc.CommissionPercent,
		"commission_split":    doc.CommissionSplit,
		"commission_amount":   doc.CommissionAmount,
		"agent_earnings":      doc.AgentEarnings,
		"status":              doc.Status,
		"contract_date":       doc.ContractDate,
		"expected_close_date": doc.ExpectedCloseDate,
		"actual_close_date":   doc.ActualCloseDate,
		"notes":               doc.Notes,
	}

	updatedAt, err := s.docs.Update(ctx, docstore.Deals, d.ID, owner, patch)
	if err != nil {
		return notFound(err)
	}

	d.UpdatedAt = &updatedAt

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, owner *uuid.UUID, status deal.Status) (time.Time, error) {
	updatedAt, err := s.docs.Update(ctx, docstore.Deals, id, owner, map[string]any{"status": string(status)})
	if err != nil {
		return time.Time{}, notFound(err)
	}

	return updatedAt, nil
}

func (s *Store) ListDeals(ctx context.Context, filter deal.ListFilter) ([]*deal.Deal, error) {
	q := docstore.Query{Owner: filter.Owner, Filters: map[string]any{}}

	if filter.Status != nil {
		q.Filters["status"] = string(*filter.Status)
	}

	if filter.BuyerID != nil {
		q.Filters["buyer_id"] = filter.BuyerID.String()
	}

	if filter.SellerID != nil {
		q.Filters["seller_id"] = filter.SellerID.String()
	}

	records, err := s.docs.Query(ctx, docstore.Deals, q)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}

	deals := make([]*deal.Deal, 0, len(records))

	for _, r := range records {
		d, err := fromRecord(r)
		if err != nil {
			return nil, err
		}

		deals = append(deals, d)
	}

	return deals, nil
}

func (s *Store) DeleteDeal(ctx context.Context, id uuid.UUID, owner *uuid.UUID) error {
	return notFound(s.docs.Delete(ctx, docstore.Deals, id, owner))
}
