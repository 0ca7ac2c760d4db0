package deal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
)

type dealResponse struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    uuid.UUID  `json:"owner_id"`
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

	Status      deal.Status `json:"status"`
	StatusLabel string      `json:"status_label"`
	Progress    float64     `json:"progress"`

	ContractDate      *time.Time `json:"contract_date,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	ActualCloseDate   *time.Time `json:"actual_close_date,omitempty"`

	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(d *deal.Deal) dealResponse {
	return dealResponse{
		ID:                d.ID,
		OwnerID:           d.OwnerID,
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
		Status:            d.Status,
		StatusLabel:       d.Status.Label(),
		Progress:          d.Progress(),
		ContractDate:      d.ContractDate,
		ExpectedCloseDate: d.ExpectedCloseDate,
		ActualCloseDate:   d.ActualCloseDate,
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func toResponseList(deals []*deal.Deal) []dealResponse {
	resp := make([]dealResponse, len(deals))
	for i, d := range deals {
		resp[i] = toResponse(d)
	}

	return resp
}
